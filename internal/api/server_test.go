package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/pokernight/internal/api"
	"github.com/mcoot/pokernight/internal/testutil"
)

func TestServerServesOnFreePort(t *testing.T) {
	cfg := api.DefaultServerConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0

	ts := newTestServer(t)
	server := api.NewServer(ts.handler, cfg, testutil.NopLogger())
	require.NoError(t, server.Listen())
	assert.NotEqual(t, "127.0.0.1:0", server.Addr())

	done := make(chan error, 1)
	go func() { done <- server.Serve() }()

	resp, err := http.Get("http://" + server.Addr() + "/api/v1/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, server.Shutdown(context.Background()))
	require.NoError(t, <-done)
}

func TestServeWithoutListen(t *testing.T) {
	server := api.NewServer(http.NotFoundHandler(), api.DefaultServerConfig(), testutil.NopLogger())
	assert.Error(t, server.Serve())
}
