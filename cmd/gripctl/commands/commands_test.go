package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/GlintPay/grip/portainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const template = `services:
  grip:
    image: ${GRIP_IMAGE}
    environment:
      - ANTHROPIC_API_KEY=${ANTHROPIC_API_KEY}
`

const appConfig = `
deploy:
  secrets:
    env:
      names: [GRIP_IMAGE, ANTHROPIC_API_KEY]
`

func setUp(t *testing.T, tmpl string) (string, string) {
	dir := t.TempDir()
	tmplPath := filepath.Join(dir, "docker-compose.yml")
	cfgPath := filepath.Join(dir, "application.yml")
	require.NoError(t, os.WriteFile(tmplPath, []byte(tmpl), 0o600))
	require.NoError(t, os.WriteFile(cfgPath, []byte(appConfig), 0o600))

	t.Setenv("GRIP_IMAGE", "ghcr.io/example/grip:abc123")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-secret-value")
	for _, k := range []string{"PORTAINER_URL", "PORTAINER_TOKEN", "PORTAINER_ENDPOINT_ID", "PORTAINER_STACK_ID"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	return tmplPath, cfgPath
}

func run(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRender(t *testing.T) {
	tmplPath, cfgPath := setUp(t, template)

	out, err := run(t, "render", "--config", cfgPath, "--template", tmplPath)
	require.NoError(t, err)
	assert.Equal(t, `services:
  grip:
    image: *****
    environment:
      - ANTHROPIC_API_KEY=*****
`, out)

	target := filepath.Join(t.TempDir(), "rendered.yml")
	out, err = run(t, "render", "--config", cfgPath, "--template", tmplPath, "-o", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+target)

	rendered, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(rendered), "image: ghcr.io/example/grip:abc123")
	assert.Contains(t, string(rendered), "ANTHROPIC_API_KEY=sk-ant-secret-value")
}

func TestRenderMissing(t *testing.T) {
	tmplPath, cfgPath := setUp(t, template+"    command: ${GRIP_ARGS}\n")

	_, err := run(t, "render", "--config", cfgPath, "--template", tmplPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GRIP_ARGS")
}

func TestMissingConfigFile(t *testing.T) {
	tmplPath, _ := setUp(t, template)

	_, err := run(t, "render", "--config", filepath.Join(t.TempDir(), "nope.yml"), "--template", tmplPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.yml")
}

func TestVars(t *testing.T) {
	tmplPath, cfgPath := setUp(t, template+"    command: ${GRIP_ARGS:-serve}\n")

	out, err := run(t, "vars", "--config", cfgPath, "--template", tmplPath)
	require.NoError(t, err)
	assert.Regexp(t, `NAME\s+SOURCE`, out)
	assert.Regexp(t, `ANTHROPIC_API_KEY\s+env`, out)
	assert.Regexp(t, `GRIP_ARGS\s+MISSING`, out)
	assert.Regexp(t, `GRIP_IMAGE\s+env`, out)
	assert.NotContains(t, out, "sk-ant-secret-value")
}

func TestDeployDryRun(t *testing.T) {
	tmplPath, cfgPath := setUp(t, template)

	out, err := run(t, "deploy", "--dry-run", "--config", cfgPath, "--template", tmplPath)
	require.NoError(t, err)
	assert.Contains(t, out, "image: *****")
	assert.Contains(t, out, "# dry run: 2 variable(s), services [grip]")
	assert.NotContains(t, out, "sk-ant-secret-value")
}

func TestDeployWithoutPortainerSettings(t *testing.T) {
	tmplPath, cfgPath := setUp(t, template)

	_, err := run(t, "deploy", "--config", cfgPath, "--template", tmplPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "portainer url is not set")
}

type fakePortainer struct {
	current string
	updates []portainer.StackUpdateRequest
	query   []string
}

func (f *fakePortainer) server(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok", r.Header.Get("X-API-Key"))

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/stacks/7/file":
			_ = json.NewEncoder(w).Encode(portainer.StackFile{StackFileContent: f.current})
		case r.Method == http.MethodPut && r.URL.Path == "/api/stacks/7":
			var req portainer.StackUpdateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			f.updates = append(f.updates, req)
			f.query = append(f.query, r.URL.Query().Get("endpointId"))
			f.current = req.StackFileContent
			_ = json.NewEncoder(w).Encode(portainer.Stack{Id: 7, Name: "grip", EndpointId: 3})
		case r.Method == http.MethodGet && r.URL.Path == "/api/system/status":
			_ = json.NewEncoder(w).Encode(portainer.SystemStatus{Version: "2.21.0"})
		case r.Method == http.MethodGet && r.URL.Path == "/api/endpoints":
			_ = json.NewEncoder(w).Encode([]portainer.Endpoint{
				{Id: 3, Name: "nas", URL: "unix:///var/run/docker.sock", Status: portainer.EndpointUp},
				{Id: 4, Name: "old", URL: "tcp://10.0.0.9:2375", Status: portainer.EndpointDown},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"not found"}`))
		}
	}))
}

func setPortainer(t *testing.T, url string) {
	t.Setenv("PORTAINER_URL", url)
	t.Setenv("PORTAINER_TOKEN", "tok")
	t.Setenv("PORTAINER_ENDPOINT_ID", strconv.Itoa(3))
	t.Setenv("PORTAINER_STACK_ID", strconv.Itoa(7))
}

func TestDeploy(t *testing.T) {
	tmplPath, cfgPath := setUp(t, template)

	fake := &fakePortainer{current: "services: {}\n"}
	srv := fake.server(t)
	defer srv.Close()
	setPortainer(t, srv.URL)

	out, err := run(t, "deploy", "--prune", "--config", cfgPath, "--template", tmplPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Stack 7 deployed to endpoint 3")

	require.Len(t, fake.updates, 1)
	update := fake.updates[0]
	assert.Equal(t, []string{"3"}, fake.query)
	assert.True(t, update.Prune)
	assert.False(t, update.PullImage)
	assert.Contains(t, update.StackFileContent, "image: ghcr.io/example/grip:abc123")
	assert.ElementsMatch(t, []portainer.Pair{
		{Name: "ANTHROPIC_API_KEY", Value: "sk-ant-secret-value"},
		{Name: "GRIP_IMAGE", Value: "ghcr.io/example/grip:abc123"},
	}, update.Env)

	// same content again
	out, err = run(t, "deploy", "--config", cfgPath, "--template", tmplPath)
	require.NoError(t, err)
	assert.Equal(t, "Stack 7 unchanged\n", out)
	assert.Len(t, fake.updates, 1)

	_, err = run(t, "deploy", "--force", "--pull", "--config", cfgPath, "--template", tmplPath)
	require.NoError(t, err)
	require.Len(t, fake.updates, 2)
	assert.True(t, fake.updates[1].PullImage)
}

func TestEndpoints(t *testing.T) {
	_, cfgPath := setUp(t, template)

	fake := &fakePortainer{}
	srv := fake.server(t)
	defer srv.Close()
	setPortainer(t, srv.URL)

	out, err := run(t, "endpoints", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Portainer 2.21.0")
	assert.Regexp(t, `3\s+nas\s+unix:///var/run/docker.sock\s+up`, out)
	assert.Regexp(t, `4\s+old\s+tcp://10.0.0.9:2375\s+down`, out)
}
