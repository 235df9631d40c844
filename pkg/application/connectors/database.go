package connectors

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // golang postgres driver
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"website_revolution/pkg/logx"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

func init() { //nolint:gochecknoinits
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Database connects to postgres through pgx or to a local sqlite file.
type Database struct {
	value           *sqlx.DB
	Driver          string
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	init            sync.Once
}

func (d *Database) Client(ctx context.Context) *sqlx.DB {
	d.init.Do(func() {
		d.value = lo.Must(sqlx.ConnectContext(ctx, d.Driver, d.dataSource()))

		if d.Driver == DriverSQLite {
			// sqlite allows a single writer
			d.value.SetMaxOpenConns(1)
		} else {
			d.value.SetMaxOpenConns(d.MaxOpenConns)
			d.value.SetMaxIdleConns(d.MaxIdleConns)
			d.value.SetConnMaxLifetime(d.ConnMaxLifetime)
		}

		logger(ctx).Info(
			"database connected",
			slog.String("driver", d.Driver),
			slog.String("database", d.name()),
		)
	})

	return d.value
}

func (d *Database) Close(ctx context.Context) {
	if d.value == nil {
		return
	}

	if err := d.value.Close(); err != nil {
		logger(ctx).Error("databaseClient.Close", logx.Error(err))
	}

	logger(ctx).Info(
		"database disconnected",
		slog.String("driver", d.Driver),
		slog.String("database", d.name()),
	)
}

func (d *Database) dataSource() string {
	if d.Driver == DriverSQLite {
		return SQLiteDSN(d.DSN)
	}

	return d.DSN
}

func (d *Database) name() string {
	if d.Driver == DriverSQLite {
		return d.DSN
	}

	u, err := url.Parse(d.DSN)
	if err != nil {
		return ""
	}

	return u.Path
}

// SQLiteDSN turns a file path into a modernc DSN with a busy timeout and
// foreign keys enabled.
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
}
