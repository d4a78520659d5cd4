package config

import (
	"net/netip"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/gridsweeper/internal/mines"
)

func TestNewGameDefaults(t *testing.T) {
	t.Setenv("GAME_SIZE", "")
	t.Setenv("GAME_MINES", "")
	t.Setenv("GAME_CELL_SIZE", "")
	params, err := NewGame()
	require.NoError(t, err)
	assert.Equal(t, mines.DefaultParams, *params)
}

func TestNewGameFromEnv(t *testing.T) {
	t.Setenv("GAME_SIZE", "16")
	t.Setenv("GAME_MINES", "40")
	t.Setenv("GAME_CELL_SIZE", "24")
	params, err := NewGame()
	require.NoError(t, err)
	assert.Equal(t, mines.GameParams{Size: 16, CellSize: 24, MineCount: 40}, *params)
}

func TestNewGameRejectsBadEnv(t *testing.T) {
	t.Setenv("GAME_SIZE", "ten")
	_, err := NewGame()
	assert.Error(t, err)

	t.Setenv("GAME_SIZE", "3")
	t.Setenv("GAME_MINES", "9")
	_, err = NewGame()
	assert.ErrorIs(t, err, mines.ErrBadParams)
}

func TestPort(t *testing.T) {
	t.Setenv("APP_PORT", "")
	assert.Equal(t, ":8080", Port())
	t.Setenv("APP_PORT", ":9000")
	assert.Equal(t, ":9000", Port())
}

func TestNewRedis(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	opts, err := NewRedis()
	require.NoError(t, err)
	assert.Nil(t, opts)

	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	opts, err = NewRedis()
	require.NoError(t, err)
	require.NotNil(t, opts)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)
}

func TestNewRateLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT", "10")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("TRUSTED_PROXIES", "")
	rl, err := NewRateLimit()
	require.NoError(t, err)
	assert.Equal(t, RateLimit{MaxRequests: 10, Window: 30 * time.Second}, *rl)

	t.Setenv("RATE_LIMIT_WINDOW", "soon")
	_, err = NewRateLimit()
	assert.Error(t, err)
}

func TestTrustedProxies(t *testing.T) {
	t.Setenv("RATE_LIMIT_WINDOW", "")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 172.16.5.0/12,,::1")
	rl, err := NewRateLimit()
	require.NoError(t, err)
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.1/32"),
		netip.MustParsePrefix("172.16.0.0/12"),
		netip.MustParsePrefix("::1/128"),
	}, rl.TrustedProxies)

	t.Setenv("TRUSTED_PROXIES", "proxy.local")
	_, err = NewRateLimit()
	assert.Error(t, err)
}

func TestSessionSweep(t *testing.T) {
	t.Setenv("SESSION_SWEEP_INTERVAL", "")
	t.Setenv("SESSION_MAX_IDLE", "")
	interval, maxIdle, err := SessionSweep()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, interval)
	assert.Equal(t, time.Hour, maxIdle)

	for _, bad := range []struct{ key, value string }{
		{"SESSION_SWEEP_INTERVAL", "0s"},
		{"SESSION_SWEEP_INTERVAL", "-1m"},
		{"SESSION_MAX_IDLE", "0"},
	} {
		t.Run(bad.key+"="+bad.value, func(t *testing.T) {
			t.Setenv("SESSION_SWEEP_INTERVAL", "")
			t.Setenv("SESSION_MAX_IDLE", "")
			t.Setenv(bad.key, bad.value)
			_, _, err := SessionSweep()
			assert.Error(t, err)
		})
	}
}

func TestMaxGameSize(t *testing.T) {
	t.Setenv("GAME_MAX_SIZE", "")
	size, err := MaxGameSize()
	require.NoError(t, err)
	assert.Equal(t, 100, size)

	t.Setenv("GAME_MAX_SIZE", "32")
	size, err = MaxGameSize()
	require.NoError(t, err)
	assert.Equal(t, 32, size)

	t.Setenv("GAME_MAX_SIZE", "0")
	_, err = MaxGameSize()
	assert.Error(t, err)
}

func TestSessionTokens(t *testing.T) {
	tokens := NewSessionTokensWithSecret([]byte("secret"), time.Hour)
	token, err := tokens.Sign("abc")
	require.NoError(t, err)

	claims, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "abc", claims.SessionId)

	other := NewSessionTokensWithSecret([]byte("other"), time.Hour)
	_, err = other.Parse(token)
	assert.Error(t, err)

	expired := NewSessionTokensWithSecret([]byte("secret"), -time.Minute)
	token, err = expired.Sign("abc")
	require.NoError(t, err)
	_, err = tokens.Parse(token)
	assert.Error(t, err)
}

func TestSessionSecretRequiredOutsideDevelopment(t *testing.T) {
	t.Setenv("DEVELOPMENT", "0")
	t.Setenv("SESSION_SECRET", "")
	_, err := NewSessionTokens()
	assert.Error(t, err)

	t.Setenv("DEVELOPMENT", "1")
	_, err = NewSessionTokens()
	assert.NoError(t, err)
}

func TestDbURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("POSTGRES_HOST", "")
	os.Unsetenv("POSTGRES_HOST")
	_, err := DbURL()
	assert.ErrorIs(t, err, ErrNoDatabase)

	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_USER", "sweeper")
	t.Setenv("POSTGRES_PASSWORD", "p@ss")
	t.Setenv("POSTGRES_PORT", "5433")
	t.Setenv("POSTGRES_DB", "games")
	t.Setenv("POSTGRES_SSLMODE", "disable")
	url, err := DbURL()
	require.NoError(t, err)
	assert.Equal(t, "postgresql://sweeper:p%40ss@db:5433/games?sslmode=disable", url)

	t.Setenv("DATABASE_URL", "postgres://elsewhere/db")
	url, err = DbURL()
	require.NoError(t, err)
	assert.Equal(t, "postgres://elsewhere/db", url)
}
