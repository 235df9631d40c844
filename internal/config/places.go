package config

import "time"

type Places struct {
	APIKey     string        `env:"GOOGLE_PLACES_API_KEY" json:"-"`
	BaseURL    string        `env:"PLACES_BASE_URL"`
	MaxResults int           `env:"PLACES_MAX_RESULTS"    envDefault:"20"`
	RetryMax   int           `env:"PLACES_RETRY_MAX"      envDefault:"3"`
	Timeout    time.Duration `env:"PLACES_TIMEOUT"        envDefault:"15s"`
}

type Analyzer struct {
	Concurrency int           `env:"ANALYZER_CONCURRENCY" envDefault:"5"`
	ReqPerSec   float64       `env:"ANALYZER_REQ_PER_SEC" envDefault:"1"`
	Burst       int           `env:"ANALYZER_BURST"       envDefault:"2"`
	Timeout     time.Duration `env:"ANALYZER_TIMEOUT"     envDefault:"10s"`
	SlowPage    time.Duration `env:"SLOW_PAGE_THRESHOLD"  envDefault:"3s"`
}

type Scoring struct {
	RulesPath string `env:"SCORING_RULES_PATH"`
}
