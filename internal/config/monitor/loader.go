package monitor_config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// legacyEnv keeps the variable names of the first deployment working.
var legacyEnv = map[string][]string{
	"site.url":                     {"SITE_URL", "URL"},
	"site.check_interval_sec":      {"SITE_CHECK_INTERVAL_SEC", "CHECK_INTERVAL"},
	"site.scheduled_interval_sec":  {"SITE_SCHEDULED_INTERVAL_SEC", "SCHEDULED_INTERVAL"},
	"site.continuous_duration_sec": {"SITE_CONTINUOUS_DURATION_SEC", "CONTINUOUS_DURATION"},
	"telegram.bot_token":           {"TELEGRAM_BOT_TOKEN", "BOT_TOKEN"},
	"telegram.chat_id":             {"TELEGRAM_CHAT_ID", "CHAT_ID"},
}

func Load(path string) (*Config, error) {
	// .env never overrides the real environment
	_ = gotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		// a missing file falls back to env; a broken one is fatal
		if _, err := os.Stat(path); err == nil {
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	v.SetDefault("app.name", "result-watch")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.version", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetDefault("site.url", "")
	v.SetDefault("site.check_interval_sec", 2)
	v.SetDefault("site.scheduled_interval_sec", 7200)
	v.SetDefault("site.continuous_duration_sec", 900)

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.api_endpoint", "https://api.telegram.org/bot%s/%s")
	v.SetDefault("telegram.pace", "1s")
	v.SetDefault("telegram.timeout", "30s")

	v.SetDefault("http.timeout", "10s")
	v.SetDefault("http.user_agent", "ResultWatch/1.0")
	v.SetDefault("http.follow_redirects", true)
	v.SetDefault("http.verify_tls", true)

	v.SetDefault("download.targets", []string{})
	v.SetDefault("download.max_body_bytes", 10<<20)

	v.SetDefault("db.dsn", "")
	v.SetDefault("db.max_conns", 4)
	v.SetDefault("db.min_conns", 1)
	v.SetDefault("db.max_conn_lifetime", "30m")
	v.SetDefault("db.max_conn_idle_time", "10m")
	v.SetDefault("db.health_check_period", "30s")
	v.SetDefault("db.query_timeout", "2s")

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "resultwatch.monitor.events")

	v.SetDefault("otel.enable", false)
	v.SetDefault("otel.service_name", "result-watch")
	v.SetDefault("otel.sample_ratio", 1.0)
	v.SetDefault("otel.otlp_endpoint", "localhost:4317")

	v.SetDefault("server.metrics_addr", "")
	v.SetDefault("shutdown.grace", "15s")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range legacyEnv {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
