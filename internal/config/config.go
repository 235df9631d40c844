package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"website_revolution/pkg/application/connectors"
	"website_revolution/pkg/logx"
)

type Config struct {
	App      App
	HTTP     HTTP
	Database Database
	Places   Places
	Analyzer Analyzer
	Scoring  Scoring
	LLM      LLM
	Outreach Outreach
	Redis    Redis
	Bot      Bot
	Cache    Cache
}

type App struct {
	Name      string `env:"APP_NAME"    envDefault:"website-revolution"`
	Version   string `env:"APP_VERSION" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL"   envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT"  envDefault:"text"`
}

type HTTP struct {
	ListenAddress        string        `env:"HTTP_LISTEN_ADDRESS"    envDefault:":8080"`
	ShutdownTimeout      time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT"  envDefault:"15s"`
	ProbeListenAddress   string        `env:"PROBE_LISTEN_ADDRESS"   envDefault:":8081"`
	MetricsListenAddress string        `env:"METRICS_LISTEN_ADDRESS" envDefault:":9090"`
	PublicBaseURL        string        `env:"PUBLIC_BASE_URL"`
	LogFieldMaxLen       int           `env:"LOG_FIELD_MAX_LEN"      envDefault:"4096"`
}

type Cache struct {
	ReviewTTL time.Duration `env:"REVIEW_CACHE_TTL" envDefault:"10m"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	return config, nil
}

// Validation splits problems into fatal errors and warnings about features
// that stay disabled.
type Validation struct {
	Errors   []string
	Warnings []string
}

func (v Validation) Err() error {
	if len(v.Errors) == 0 {
		return nil
	}

	errs := make([]error, 0, len(v.Errors))
	for _, e := range v.Errors {
		errs = append(errs, errors.New(e))
	}

	return fmt.Errorf("invalid config: %w", errors.Join(errs...))
}

func (v *Validation) errorf(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

func (v *Validation) warnf(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}

func (c Config) Validate() Validation {
	var v Validation

	switch strings.ToLower(c.App.LogFormat) {
	case logx.FormatText, logx.FormatJSON:
	default:
		v.warnf("LOG_FORMAT %q is unknown, using text", c.App.LogFormat)
	}

	if c.HTTP.PublicBaseURL == "" {
		v.warnf("PUBLIC_BASE_URL is empty, redesign links will be relative")
	} else if u, err := url.Parse(c.HTTP.PublicBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		v.errorf("PUBLIC_BASE_URL %q must be an absolute URL", c.HTTP.PublicBaseURL)
	}

	switch c.Database.Driver {
	case connectors.DriverSQLite, connectors.DriverPostgres:
	default:
		v.errorf("DB_DRIVER %q is not supported, use %q or %q",
			c.Database.Driver, connectors.DriverSQLite, connectors.DriverPostgres)
	}

	if c.Database.DSN == "" {
		v.errorf("DB_DSN is required")
	}

	if c.Places.APIKey == "" {
		v.warnf("GOOGLE_PLACES_API_KEY is empty, searches will report that setup is required")
	}

	if c.Places.MaxResults < 1 {
		v.errorf("PLACES_MAX_RESULTS must be positive")
	}

	if c.Analyzer.Concurrency < 1 {
		v.errorf("ANALYZER_CONCURRENCY must be positive")
	}

	if c.Analyzer.ReqPerSec <= 0 {
		v.errorf("ANALYZER_REQ_PER_SEC must be positive")
	}

	if !c.LLM.Enabled() {
		v.warnf("LLM_API_KEY is empty, outreach uses templates")
	}

	if !c.Redis.Enabled() {
		v.warnf("REDIS_ADDRESS is empty, redesigns are generated inline")
	}

	if c.Bot.Token != "" {
		if c.Bot.ChatID == 0 {
			v.warnf("BOT_CHAT_ID is empty, lead alerts are disabled")
		}

		if c.Bot.AdminID == 0 {
			v.warnf("BOT_ADMIN_ID is empty, bot commands are disabled")
		}
	}

	return v
}
