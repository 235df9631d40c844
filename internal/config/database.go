package config

import "time"

type Database struct {
	Driver          string        `env:"DB_DRIVER"            envDefault:"sqlite"`
	DSN             string        `env:"DB_DSN"               envDefault:"website-revolution.db" json:"-"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS"    envDefault:"5"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS"    envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
}
