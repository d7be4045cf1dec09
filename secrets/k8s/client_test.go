package k8s

import (
	"context"
	"testing"

	"github.com/GlintPay/grip/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func TestClientAgainstFakeClientset(t *testing.T) {
	clientset := fake.NewSimpleClientset(
		&corev1.Secret{
			ObjectMeta: metav1.ObjectMeta{Namespace: "homelab", Name: "grip"},
			Data:       map[string][]byte{"anthropic-key": []byte("sk-ant-fake")},
		},
		&corev1.ConfigMap{
			ObjectMeta: metav1.ObjectMeta{Namespace: "homelab", Name: "grip-config"},
			Data:       map[string]string{"image": "ghcr.io/x/grip:3"},
			BinaryData: map[string][]byte{"blob": []byte("bin")},
		},
	)
	client := NewClientForClientset(clientset, config.K8sConfig{CacheTTLSeconds: 60})
	ctx := context.Background()

	val, found, err := client.GetSecretValue(ctx, "homelab", "grip", "anthropic-key")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "sk-ant-fake", val)

	_, found, err = client.GetSecretValue(ctx, "homelab", "grip", "missing")
	require.NoError(t, err)
	assert.False(t, found)

	_, _, err = client.GetSecretValue(ctx, "homelab", "nope", "key")
	assert.Error(t, err)

	val, found, err = client.GetConfigMapValue(ctx, "homelab", "grip-config", "blob")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "bin", val)

	// cached value survives deletion of the underlying secret
	require.NoError(t, clientset.CoreV1().Secrets("homelab").Delete(ctx, "grip", metav1.DeleteOptions{}))
	val, found, err = client.GetSecretValue(ctx, "homelab", "grip", "anthropic-key")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "sk-ant-fake", val)
}
