package monitor_config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
site:
  url: "https://results.example.org/"
download:
  targets:
    - "https://results.example.org/r?RegNo=1"
    - "https://results.example.org/r?RegNo=2"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "monitor.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, names := range legacyEnv {
		for _, n := range names {
			t.Setenv(n, "")
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("CHAT_ID", "42")

	cfg, err := Load(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, "https://results.example.org/", cfg.Site.URL)
	assert.Equal(t, 2*time.Second, cfg.Site.CheckInterval())
	assert.Equal(t, 7200*time.Second, cfg.Site.ScheduledInterval())
	assert.Equal(t, 900*time.Second, cfg.Site.ContinuousDuration())
	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, "42", cfg.Telegram.ChatID)
	assert.Equal(t, "https://api.telegram.org/bot%s/%s", cfg.Telegram.APIEndpoint)
	assert.Equal(t, time.Second, cfg.Telegram.Pace)
	assert.Equal(t, 10*time.Second, cfg.HTTP.Timeout)
	assert.True(t, cfg.HTTP.VerifyTLS)
	assert.Len(t, cfg.Download.Targets, 2)
	assert.EqualValues(t, 10<<20, cfg.Download.MaxBodyBytes)
	assert.Equal(t, 15*time.Second, cfg.Shutdown.Grace)
	assert.False(t, cfg.DB.Enabled())
	assert.False(t, cfg.Kafka.Enabled())
	assert.Empty(t, cfg.Server.MetricsAddr)
}

func TestLoad_LegacyEnvNames(t *testing.T) {
	clearEnv(t)
	t.Setenv("URL", "https://other.example.org/")
	t.Setenv("CHECK_INTERVAL", "5")
	t.Setenv("SCHEDULED_INTERVAL", "600")
	t.Setenv("CONTINUOUS_DURATION", "120")
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("CHAT_ID", "@results")

	cfg, err := Load(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, "https://other.example.org/", cfg.Site.URL)
	assert.Equal(t, 5, cfg.Site.CheckIntervalSec)
	assert.Equal(t, 600, cfg.Site.ScheduledIntervalSec)
	assert.Equal(t, 120, cfg.Site.ContinuousDurationSec)
	assert.Equal(t, "@results", cfg.Telegram.ChatID)
}

func TestLoad_PrefixedEnvWinsOverLegacy(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "new:token")
	t.Setenv("BOT_TOKEN", "old:token")
	t.Setenv("CHAT_ID", "42")

	cfg, err := Load(writeConfig(t, testYAML))
	require.NoError(t, err)
	assert.Equal(t, "new:token", cfg.Telegram.BotToken)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
		want error
	}{
		{
			name: "no url",
			yaml: "download:\n  targets: [\"https://x.example.org/?a=1\"]\n",
			env:  map[string]string{"BOT_TOKEN": "t", "CHAT_ID": "1"},
			want: ErrNoSiteURL,
		},
		{
			name: "no token",
			yaml: testYAML,
			env:  map[string]string{"CHAT_ID": "1"},
			want: ErrNoBotToken,
		},
		{
			name: "no chat",
			yaml: testYAML,
			env:  map[string]string{"BOT_TOKEN": "t"},
			want: ErrNoChatID,
		},
		{
			name: "no targets",
			yaml: "site:\n  url: \"https://results.example.org/\"\n",
			env:  map[string]string{"BOT_TOKEN": "t", "CHAT_ID": "1"},
			want: ErrNoTargets,
		},
		{
			name: "zero interval",
			yaml: testYAML,
			env:  map[string]string{"BOT_TOKEN": "t", "CHAT_ID": "1", "CHECK_INTERVAL": "0"},
			want: ErrBadIntervals,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.yaml))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoad_MalformedFileIsReported(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "t")
	t.Setenv("CHAT_ID", "1")

	path := writeConfig(t, "site:\n  url: [unclosed\ndownload:\n\ttargets: x\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoTargets)
	assert.Contains(t, err.Error(), path)
}

func TestLoad_MissingFileFallsBackToEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "t")
	t.Setenv("CHAT_ID", "1")
	t.Setenv("URL", "https://results.example.org/")

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorIs(t, err, ErrNoTargets)
}

func TestValidate_BadTarget(t *testing.T) {
	cfg := Config{
		Site:     Site{URL: "https://results.example.org/", CheckIntervalSec: 2, ScheduledIntervalSec: 7200, ContinuousDurationSec: 900},
		Telegram: Telegram{BotToken: "t", ChatID: "1"},
		Download: Download{Targets: []string{"not a url"}},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a url")
}
