package cmd

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/ledgr/internal/model"
	"github.com/theirongolddev/ledgr/internal/store"
)

func TestCallbackParams(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		code    string
		wantErr bool
	}{
		{"full url", "https://app.example.com/auth/callback?code=abc&state=xyz\n", "abc", false},
		{"bare query", "code=abc&state=xyz", "abc", false},
		{"leading question mark", "?code=abc", "abc", false},
		{"oauth error", "https://app.example.com/cb?error=access_denied", "", false},
		{"no query", "https://app.example.com/cb", "", true},
		{"empty", "   ", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := callbackParams(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.code, got.Get("code"))
		})
	}
}

func TestFindGoal(t *testing.T) {
	goals := []model.FinancialGoal{
		{ID: "g1", Name: "Emergency fund"},
		{ID: "g2", Name: "Holiday"},
		{ID: "g3", Name: "holiday"},
	}

	g, err := findGoal(goals, "g2")
	require.NoError(t, err)
	assert.Equal(t, "Holiday", g.Name)

	g, err = findGoal(goals, " emergency FUND ")
	require.NoError(t, err)
	assert.Equal(t, "g1", g.ID)

	_, err = findGoal(goals, "Holiday")
	assert.ErrorContains(t, err, "use the id")

	_, err = findGoal(goals, "car")
	assert.ErrorContains(t, err, `no goal named "car"`)
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "eyJhbGci...wxyz", maskToken("eyJhbGciOiJIUzI1NiJ9wxyz"))
	assert.Equal(t, "abcd...", maskToken("abcdefgh"))
	assert.Equal(t, "****", maskToken("abc"))
}

func TestValidateFilterFlags(t *testing.T) {
	reset := func() {
		flagTxType, flagTxFrom, flagTxTo = "", "", ""
		flagTxPage, flagTxLimit = 1, 0
	}
	t.Cleanup(reset)

	reset()
	assert.NoError(t, validateFilterFlags())

	reset()
	flagTxType = "gift"
	assert.ErrorContains(t, validateFilterFlags(), `unknown type "gift"`)

	reset()
	flagTxFrom = "01/02/2024"
	assert.ErrorContains(t, validateFilterFlags(), "2006-01-02")

	reset()
	flagTxPage = 0
	assert.Error(t, validateFilterFlags())

	reset()
	flagTxLimit = 101
	assert.Error(t, validateFilterFlags())
}

// profileServer answers the profile route and records the bearer header.
func profileServer(t *testing.T, auth *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/users/profile" {
			http.NotFound(w, r)
			return
		}
		*auth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{"result": {"user": {"id": "u1", "name": "Ada Lovelace", "email": "ada@example.com", "currency": "GBP"}}}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginWithTokensStoresSession(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	var auth string
	srv := profileServer(t, &auth)
	t.Cleanup(func() { flagAccessToken, flagRefreshToken = "", "" })

	rootCmd.SetArgs([]string{"--api-url", srv.URL, "-q", "login", "--token", "access-1", "--refresh", "refresh-1"})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	assert.Equal(t, "Bearer access-1", auth)

	db, err := store.Open(cfg.DBPath())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	vals, err := db.GetMany(context.Background(), store.KeyAccessToken, store.KeyRefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "access-1", vals[store.KeyAccessToken])
	assert.Equal(t, "refresh-1", vals[store.KeyRefreshToken])
}

func TestEphemeralSessionReadsEnvAndWritesNothing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("LEDGR_SESSION_ACCESS_TOKEN", "env-token")
	var auth string
	srv := profileServer(t, &auth)
	t.Cleanup(func() { flagEphemeral = false })

	rootCmd.SetArgs([]string{"--api-url", srv.URL, "-q", "--ephemeral", "whoami"})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	assert.Equal(t, "Bearer env-token", auth)

	db, err := store.Open(cfg.DBPath())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, ok, err := db.Get(context.Background(), store.KeyAccessToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileLoggerRecordsBadLevel(t *testing.T) {
	saved, savedVerbose := cfg, flagVerbose
	t.Cleanup(func() { cfg, flagVerbose = saved, savedVerbose })
	flagVerbose = false

	cfg.Log.Level = "loud"
	var buf bytes.Buffer
	l := fileLogger(context.Background(), &buf)
	assert.Contains(t, buf.String(), "invalid log level, using warn")
	assert.Contains(t, buf.String(), `parsing log level \"loud\"`)

	buf.Reset()
	l.Info("hidden")
	assert.Empty(t, buf.String(), "falls back to warn")

	cfg.Log.Level = "debug"
	fileLogger(context.Background(), &buf)
	assert.Empty(t, buf.String())
}
