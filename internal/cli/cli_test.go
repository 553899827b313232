package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/pokernight/internal/api/response"
)

func TestParseSeat(t *testing.T) {
	seat, err := ParseSeat("alice:100")
	require.NoError(t, err)
	assert.Equal(t, "alice", seat.PlayerID)
	assert.True(t, seat.BuyIn.Equal(decimal.NewFromInt(100)))
	assert.Nil(t, seat.CashOut)

	seat, err = ParseSeat(" bob : 20.5 : 0 ")
	require.NoError(t, err)
	assert.Equal(t, "bob", seat.PlayerID)
	assert.True(t, seat.BuyIn.Equal(decimal.RequireFromString("20.5")))
	require.NotNil(t, seat.CashOut)
	assert.True(t, seat.CashOut.IsZero())
}

func TestParseSeatAcceptsCurrencySymbol(t *testing.T) {
	seat, err := ParseSeat("alice:$20:$12.50")
	require.NoError(t, err)
	assert.True(t, seat.BuyIn.Equal(decimal.NewFromInt(20)))
	require.NotNil(t, seat.CashOut)
	assert.True(t, seat.CashOut.Equal(decimal.RequireFromString("12.5")))
}

func TestParseSeatRejectsMalformed(t *testing.T) {
	for _, in := range []string{"alice", ":100", "alice:ten", "alice:10:lots", "a:1:2:3", "alice:12.345", "alice:-5", "alice:10:0.001"} {
		_, err := ParseSeat(in)
		assert.Error(t, err, in)
	}
}

func TestPrintSessionText(t *testing.T) {
	var buf bytes.Buffer
	out := &Output{format: "text", w: &buf}

	cashOut := decimal.NewFromInt(150)
	profit := decimal.NewFromInt(50)
	out.Print(response.Session{
		ID:       "friday",
		Date:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Location: "Kitchen",
		IsActive: true,
		Players: []response.Participant{
			{PlayerID: "alice", Name: "Alice", BuyIn: decimal.NewFromInt(100), CashOut: &cashOut, Profit: &profit},
			{PlayerID: "bob", BuyIn: decimal.NewFromInt(100)},
		},
		TotalBuyIn:   decimal.NewFromInt(200),
		TotalCashOut: cashOut,
	})

	text := buf.String()
	assert.Contains(t, text, "Date: 2024-03-01")
	assert.Contains(t, text, "Status: active")
	assert.Contains(t, text, "Pool: 200.00 in, 150.00 out")
	assert.Contains(t, text, "+50.00")
	assert.Contains(t, text, "(deleted)")
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	out := &Output{format: "json", w: &buf}

	out.Print(response.Player{ID: "alice", Name: "Alice", Profit: decimal.NewFromInt(-5)})

	assert.Contains(t, buf.String(), `"name": "Alice"`)
	assert.Contains(t, buf.String(), `"profit": "-5"`)
}

func TestPrintLeaderboardEmpty(t *testing.T) {
	var buf bytes.Buffer
	out := &Output{format: "text", w: &buf}

	out.Print(response.Leaderboard{Winners: []response.Standing{}, Losers: []response.Standing{}})

	assert.Equal(t, "Winners:\n  (none)\nLosers:\n  (none)\n", buf.String())
}

func TestClientDecodesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "pokerctl", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":{"code":"POOL_EXCEEDED","message":"Too much"}}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL+"/", "tok").Post("/api/v1/sessions/s/players/p/cash-out", map[string]string{"amount": "1"}, nil)
	require.Error(t, err)
	assert.Equal(t, "Too much (POOL_EXCEEDED)", err.Error())
	assert.True(t, HasCode(err, "POOL_EXCEEDED"))
	assert.False(t, HasCode(err, "UNAUTHORIZED"))

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusConflict, reqErr.StatusCode)
}

func TestClientPlainError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "").Get("/api/v1/health", nil)
	require.Error(t, err)
	assert.Equal(t, "HTTP 502: bad gateway", err.Error())
}

func TestClientNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL, "").Delete("/api/v1/players/alice"))
}

func TestDefaultConfigFromEnv(t *testing.T) {
	t.Setenv("POKERCTL_SERVER", "http://poker.local:9000")
	t.Setenv("POKERCTL_TOKEN", "")
	t.Setenv("POKERCTL_TOKEN_FILE", "/tmp/pokerctl-token")
	t.Setenv("POKERCTL_OUTPUT", "json")

	cfg := DefaultConfig()
	assert.Equal(t, "http://poker.local:9000", cfg.ServerURL)
	assert.Equal(t, "/tmp/pokerctl-token", cfg.TokenFile)
	assert.Equal(t, "json", cfg.Output)
	assert.Empty(t, cfg.Token)
}

func TestTokenFileRoundTrip(t *testing.T) {
	cfg := &Config{TokenFile: filepath.Join(t.TempDir(), "nested", "token")}

	require.NoError(t, cfg.LoadToken())
	assert.Empty(t, cfg.Token)

	require.NoError(t, cfg.SaveToken("abc"))

	loaded := &Config{TokenFile: cfg.TokenFile}
	require.NoError(t, loaded.LoadToken())
	assert.Equal(t, "abc", loaded.Token)

	require.NoError(t, loaded.ClearToken())
	require.NoError(t, loaded.ClearToken())
	assert.Empty(t, loaded.Token)
}
