package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadServiceConfig(t *testing.T) {
	path := writeConfig(t, `{
		"gateway_url": "http://127.0.0.1:4943",
		"forum_canister": "aaaaa-aa",
		"ledgers": ["ryjl3-tyaaa-aaaaa-aaaba-cai"],
		"sender": "2vxsx-fae",
		"error_hold_ms": 5000
	}`)
	c, err := LoadServiceConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.ListenAddr)
	assert.Equal(t, 2*time.Second, c.SuccessHold())
	assert.Equal(t, 5*time.Second, c.ErrorHold())
	assert.Equal(t, 30*time.Second, c.GatewayTimeout)
	assert.Equal(t, 10*time.Minute, c.FeeCacheTTL())
}

func TestLoadServiceConfigInvalid(t *testing.T) {
	for _, body := range []string{
		`{`,
		`{"forum_canister": "aaaaa-aa", "ledgers": ["aaaaa-aa"], "sender": "2vxsx-fae"}`,
		`{"gateway_url": "x", "forum_canister": "nope", "ledgers": ["aaaaa-aa"], "sender": "2vxsx-fae"}`,
		`{"gateway_url": "x", "forum_canister": "aaaaa-aa", "ledgers": [], "sender": "2vxsx-fae"}`,
		`{"gateway_url": "x", "forum_canister": "aaaaa-aa", "ledgers": ["aaaaa-aa"], "sender": ""}`,
		`{"gateway_url": "x", "forum_canister": "aaaaa-aa", "ledgers": ["aaaaa-aa"], "sender": "2vxsx-fae", "error_hold_ms": -1}`,
	} {
		_, err := LoadServiceConfig(writeConfig(t, body))
		assert.Error(t, err, body)
	}
	_, err := LoadServiceConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadServiceConfigTimeout(t *testing.T) {
	_, err := LoadServiceConfig(writeConfig(t, `{
		"gateway_url": "x",
		"forum_canister": "aaaaa-aa",
		"ledgers": ["aaaaa-aa"],
		"sender": "2vxsx-fae",
		"gateway_timeout_ms": 0
	}`))
	assert.EqualError(t, err, "gateway_timeout_ms must be positive, got 0")
}
