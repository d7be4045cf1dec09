package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"testing"

	"github.com/GlintPay/grip/config"
	"github.com/GlintPay/grip/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterWiring(t *testing.T) {
	db, err := store.Open(t.TempDir(), "grip.db")
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	require.NoError(t, db.Init(context.Background()))

	appConfig := config.ApplicationConfiguration{Prometheus: config.Prometheus{Path: "/metrics"}}
	router := setupRouter(appConfig, db, nil)
	setupHealthCheck(router, db)

	tests := []struct {
		url        string
		statusCode int
		contains   string
	}{
		{url: "/liveness", statusCode: http.StatusOK},
		{url: "/readiness", statusCode: http.StatusOK},
		{url: "/", statusCode: http.StatusOK, contains: "op rij"},
		{url: "/goals/", statusCode: http.StatusOK, contains: "Doelen"},
		{url: "/api/daily-tasks", statusCode: http.StatusOK, contains: "[]"},
		{url: "/metrics", statusCode: http.StatusOK, contains: "grip_checkins_saved_total"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.url, nil))
			assert.Equal(t, tt.statusCode, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.contains)
		})
	}
}

func TestSetupCoachNeedsKey(t *testing.T) {
	envConfig = config.Configuration{}
	assert.Nil(t, setupCoach(config.ApplicationConfiguration{}, nil))

	envConfig = config.Configuration{AnthropicApiKey: "sk-test"}
	defer func() { envConfig = config.Configuration{} }()
	assert.NotNil(t, setupCoach(config.ApplicationConfiguration{}, nil))
}

func TestContainerImage(t *testing.T) {
	data, err := os.ReadFile("../../Dockerfile")
	require.NoError(t, err)
	dockerfile := string(data)

	assert.Regexp(t, regexp.MustCompile(`(?m)^EXPOSE 8000$`), dockerfile)
	assert.Regexp(t, regexp.MustCompile(`(?m)^VOLUME /data$`), dockerfile)
	assert.Regexp(t, regexp.MustCompile(`(?m)^ENTRYPOINT \["/usr/local/bin/grip"\]$`), dockerfile)
	assert.Contains(t, dockerfile, "DATA_DIR=/data")

	var appConfig config.ApplicationConfiguration
	readConfig("../../application.yml", &appConfig)
	appConfig.ApplyEnvironment(config.Configuration{DataDir: "/data"})
	assert.Equal(t, "0.0.0.0", appConfig.Server.Host)
	assert.Equal(t, 8000, appConfig.Server.Port)
	assert.Equal(t, "/data", appConfig.Database.Dir)
}
