package monitor_config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/NordCoder/ResultWatch/internal/obs"
	pginfra "github.com/NordCoder/ResultWatch/internal/repository/postgres"
)

type App struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

func (lc *Log) AsLoggerConfig(app App) obs.LogConfig {
	return obs.LogConfig{
		Level:  lc.Level,
		Pretty: lc.Pretty,
		App:    app.Name,
		Env:    app.Env,
		Ver:    app.Version,
	}
}

type OTEL struct {
	Enable       bool    `mapstructure:"enable"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

func (oc *OTEL) AsOTELConfig() *obs.OTELConfig {
	return &obs.OTELConfig{
		Enable:      oc.Enable,
		Endpoint:    oc.OTLPEndpoint,
		ServiceName: oc.ServiceName,
		SampleRatio: oc.SampleRatio,
	}
}

// Site describes the watched endpoint. Intervals are whole seconds.
type Site struct {
	URL                   string `mapstructure:"url"`
	CheckIntervalSec      int    `mapstructure:"check_interval_sec"`
	ScheduledIntervalSec  int    `mapstructure:"scheduled_interval_sec"`
	ContinuousDurationSec int    `mapstructure:"continuous_duration_sec"`
}

func (s Site) CheckInterval() time.Duration {
	return time.Duration(s.CheckIntervalSec) * time.Second
}

func (s Site) ScheduledInterval() time.Duration {
	return time.Duration(s.ScheduledIntervalSec) * time.Second
}

func (s Site) ContinuousDuration() time.Duration {
	return time.Duration(s.ContinuousDurationSec) * time.Second
}

type Telegram struct {
	BotToken    string        `mapstructure:"bot_token"`
	ChatID      string        `mapstructure:"chat_id"`
	APIEndpoint string        `mapstructure:"api_endpoint"`
	Pace        time.Duration `mapstructure:"pace"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type HTTP struct {
	Timeout         time.Duration `mapstructure:"timeout"`
	UserAgent       string        `mapstructure:"user_agent"`
	FollowRedirects bool          `mapstructure:"follow_redirects"`
	VerifyTLS       bool          `mapstructure:"verify_tls"`
}

type Download struct {
	Targets      []string `mapstructure:"targets"`
	MaxBodyBytes int64    `mapstructure:"max_body_bytes"`
}

type Kafka struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

func (k Kafka) Enabled() bool { return len(k.Brokers) > 0 && k.Topic != "" }

type Server struct {
	MetricsAddr string `mapstructure:"metrics_addr"`
}

type Shutdown struct {
	Grace time.Duration `mapstructure:"grace"`
}

type Config struct {
	App      App            `mapstructure:"app"`
	Log      Log            `mapstructure:"log"`
	Site     Site           `mapstructure:"site"`
	Telegram Telegram       `mapstructure:"telegram"`
	HTTP     HTTP           `mapstructure:"http"`
	Download Download       `mapstructure:"download"`
	DB       pginfra.Config `mapstructure:"db"`
	Kafka    Kafka          `mapstructure:"kafka"`
	OTEL     OTEL           `mapstructure:"otel"`
	Server   Server         `mapstructure:"server"`
	Shutdown Shutdown       `mapstructure:"shutdown"`
}

type ErrConfig string

func (e ErrConfig) Error() string { return string(e) }

const (
	ErrNoSiteURL    ErrConfig = "site.url is required"
	ErrNoBotToken   ErrConfig = "telegram.bot_token is required"
	ErrNoChatID     ErrConfig = "telegram.chat_id is required"
	ErrNoTargets    ErrConfig = "download.targets must list at least one url"
	ErrBadIntervals ErrConfig = "site intervals must be positive"
)

// Validate rejects configurations the monitor cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Site.URL) == "" {
		return ErrNoSiteURL
	}
	if strings.TrimSpace(c.Telegram.BotToken) == "" {
		return ErrNoBotToken
	}
	if strings.TrimSpace(c.Telegram.ChatID) == "" {
		return ErrNoChatID
	}
	if c.Site.CheckIntervalSec <= 0 || c.Site.ScheduledIntervalSec <= 0 || c.Site.ContinuousDurationSec <= 0 {
		return ErrBadIntervals
	}
	if len(c.Download.Targets) == 0 {
		return ErrNoTargets
	}
	for _, t := range c.Download.Targets {
		u, err := url.Parse(t)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: bad target %q", ErrConfig("download.targets"), t)
		}
	}
	return nil
}
