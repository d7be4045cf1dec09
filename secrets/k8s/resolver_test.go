package k8s

import (
	"context"
	"errors"
	"testing"

	"github.com/GlintPay/grip/config"
	"github.com/stretchr/testify/assert"
)

func TestIsK8sPlaceholder(t *testing.T) {
	tests := []struct {
		placeholder string
		expected    bool
	}{
		{"k8s/secret:default/grip/anthropic-key", true},
		{"k8s/secret:grip/anthropic-key", true},
		{"k8s/configmap:default/grip-config/image", true},
		{"k8s/cm:grip-config/image", true},
		{"sk-ant-plain-value", false},
		{"k8s/unknown:test/key", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.placeholder, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsK8sPlaceholder(tt.placeholder))
		})
	}
}

func TestResolver_parsePath(t *testing.T) {
	tests := []struct {
		name             string
		path             string
		defaultNamespace string
		wantNamespace    string
		wantName         string
		wantKey          string
		wantErr          bool
	}{
		{
			name:             "three segments - explicit namespace",
			path:             "homelab/grip/anthropic-key",
			defaultNamespace: "default",
			wantNamespace:    "homelab",
			wantName:         "grip",
			wantKey:          "anthropic-key",
		},
		{
			name:             "two segments - uses default namespace",
			path:             "grip/anthropic-key",
			defaultNamespace: "default",
			wantNamespace:    "default",
			wantName:         "grip",
			wantKey:          "anthropic-key",
		},
		{
			name:    "two segments - no default namespace configured",
			path:    "grip/anthropic-key",
			wantErr: true,
		},
		{
			name:             "one segment - invalid",
			path:             "just-one",
			defaultNamespace: "default",
			wantErr:          true,
		},
		{
			name:             "four segments - invalid",
			path:             "a/b/c/d",
			defaultNamespace: "default",
			wantErr:          true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &Resolver{config: config.K8sConfig{DefaultNamespace: tt.defaultNamespace}}

			ns, name, key, err := resolver.parsePath(tt.path)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantNamespace, ns)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

type mockClient struct {
	secrets    map[string]string // key: "namespace/name/key"
	configMaps map[string]string
	errors     map[string]error
}

func (m *mockClient) GetSecretValue(_ context.Context, namespace, name, key string) (string, bool, error) {
	fullKey := namespace + "/" + name + "/" + key
	if err, ok := m.errors[fullKey]; ok {
		return "", false, err
	}
	val, ok := m.secrets[fullKey]
	return val, ok, nil
}

func (m *mockClient) GetConfigMapValue(_ context.Context, namespace, name, key string) (string, bool, error) {
	fullKey := namespace + "/" + name + "/" + key
	val, ok := m.configMaps[fullKey]
	return val, ok, nil
}

func TestResolver_Resolve(t *testing.T) {
	client := &mockClient{
		secrets:    map[string]string{"homelab/grip/anthropic-key": "sk-ant-k8s"},
		configMaps: map[string]string{"homelab/grip-config/image": "ghcr.io/x/grip:2"},
		errors:     map[string]error{"homelab/broken/key": errors.New("forbidden")},
	}
	resolver := &Resolver{client: client, config: config.K8sConfig{DefaultNamespace: "homelab"}}

	tests := []struct {
		value     string
		wantValue string
		wantFound bool
		wantErr   bool
	}{
		{value: "k8s/secret:grip/anthropic-key", wantValue: "sk-ant-k8s", wantFound: true},
		{value: "k8s/secret:homelab/grip/anthropic-key", wantValue: "sk-ant-k8s", wantFound: true},
		{value: "k8s/configmap:grip-config/image", wantValue: "ghcr.io/x/grip:2", wantFound: true},
		{value: "k8s/cm:grip-config/image", wantValue: "ghcr.io/x/grip:2", wantFound: true},
		{value: "k8s/secret:grip/other", wantFound: false},
		{value: "k8s/secret:broken/key", wantErr: true},
		{value: "k8s/secret:bad", wantErr: true},
		{value: "plain", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			val, found, err := resolver.Resolve(context.Background(), tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantValue, val)
		})
	}
}
