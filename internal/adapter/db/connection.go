package db

import (
	"context"
	"embed"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

type Dialect string

const (
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "pgx"
)

//go:embed schema/*.sql
var schemaFiles embed.FS

// ConnectDB opens a MySQL or Postgres connection from a mysql:// or postgres:// URL.
func ConnectDB(ctx context.Context, rawURL string) (*sqlx.DB, Dialect, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("parse database url: %w", err)
	}

	var (
		dialect Dialect
		dsn     string
	)
	switch u.Scheme {
	case "mysql":
		dialect, dsn = DialectMySQL, MySQLDSN(u)
	case "postgres", "postgresql":
		dialect, dsn = DialectPostgres, rawURL
	default:
		return nil, "", fmt.Errorf("unsupported database scheme %q", u.Scheme)
	}

	db, err := sqlx.ConnectContext(ctx, string(dialect), dsn)
	if err != nil {
		return nil, "", err
	}

	return db, dialect, nil
}

// MySQLDSN converts a mysql:// URL into a go-sql-driver DSN. Times are parsed in
// UTC and affected-row counts report matched rows rather than changed rows.
func MySQLDSN(u *url.URL) string {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	if u.Port() == "" {
		cfg.Addr = u.Hostname() + ":3306"
	}
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	cfg.Loc = time.UTC

	params := map[string]string{}
	for key, values := range u.Query() {
		if len(values) > 0 {
			params[key] = values[len(values)-1]
		}
	}
	if len(params) > 0 {
		cfg.Params = params
	}

	return cfg.FormatDSN()
}

// EnsureSchema creates the Todo table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sqlx.DB, dialect Dialect) error {
	file := "schema/postgres.sql"
	if dialect == DialectMySQL {
		file = "schema/mysql.sql"
	}

	content, err := schemaFiles.ReadFile(file)
	if err != nil {
		return err
	}

	for _, statement := range strings.Split(string(content), ";") {
		statement = strings.TrimSpace(statement)
		if statement == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
