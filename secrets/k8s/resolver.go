package k8s

import (
	"context"
	"fmt"
	"strings"

	"github.com/GlintPay/grip/config"
)

const (
	PrefixK8sSecret      = "k8s/secret:"
	PrefixK8sConfigMap   = "k8s/configmap:"
	PrefixK8sConfigMapCM = "k8s/cm:" // shorthand for configmap
)

type valueClient interface {
	GetSecretValue(ctx context.Context, namespace, name, key string) (string, bool, error)
	GetConfigMapValue(ctx context.Context, namespace, name, key string) (string, bool, error)
}

// Resolver dereferences secret values that point at a Kubernetes Secret or ConfigMap key
type Resolver struct {
	client valueClient
	config config.K8sConfig
}

func NewResolver(client *Client, cfg config.K8sConfig) *Resolver {
	return &Resolver{
		client: client,
		config: cfg,
	}
}

func IsK8sPlaceholder(value string) bool {
	return strings.HasPrefix(value, PrefixK8sSecret) ||
		strings.HasPrefix(value, PrefixK8sConfigMap) ||
		strings.HasPrefix(value, PrefixK8sConfigMapCM)
}

func (r *Resolver) CanResolve(value string) bool {
	return IsK8sPlaceholder(value)
}

// Resolve fetches the value from Kubernetes.
// Reference formats:
//   - k8s/secret:namespace/name/key -> explicit namespace
//   - k8s/secret:name/key           -> uses default namespace
//   - k8s/configmap:namespace/name/key
//   - k8s/configmap:name/key
//
// Returns (value, found, error)
func (r *Resolver) Resolve(ctx context.Context, value string) (string, bool, error) {
	var prefix string
	var isSecret bool

	switch {
	case strings.HasPrefix(value, PrefixK8sSecret):
		prefix = PrefixK8sSecret
		isSecret = true
	case strings.HasPrefix(value, PrefixK8sConfigMap):
		prefix = PrefixK8sConfigMap
	case strings.HasPrefix(value, PrefixK8sConfigMapCM):
		prefix = PrefixK8sConfigMapCM
	default:
		return "", false, fmt.Errorf("unknown k8s reference prefix: %s", value)
	}

	namespace, name, key, err := r.parsePath(strings.TrimPrefix(value, prefix))
	if err != nil {
		return "", false, err
	}

	if isSecret {
		return r.client.GetSecretValue(ctx, namespace, name, key)
	}
	return r.client.GetConfigMapValue(ctx, namespace, name, key)
}

// parsePath extracts namespace, name, and key from the path.
// Format: "namespace/name/key" (3 segments) or "name/key" (2 segments, uses default namespace)
func (r *Resolver) parsePath(path string) (namespace, name, key string, err error) {
	parts := strings.Split(path, "/")

	switch len(parts) {
	case 2:
		if r.config.DefaultNamespace == "" {
			return "", "", "", fmt.Errorf("no default namespace configured and reference missing namespace: %s", path)
		}
		return r.config.DefaultNamespace, parts[0], parts[1], nil
	case 3:
		return parts[0], parts[1], parts[2], nil
	default:
		return "", "", "", fmt.Errorf("invalid k8s reference path (expected 2 or 3 segments): %s", path)
	}
}
