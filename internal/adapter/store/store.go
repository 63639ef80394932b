// Package store opens the record store selected by DATABASE_URL. The handle is
// created once at process start and passed to whoever needs it.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	dbadapter "todoapp/internal/adapter/db"
	sqliteadapter "todoapp/internal/adapter/sqlite"
	"todoapp/internal/core/ports"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Store struct {
	Repository ports.TodoRepository
	Driver     string

	db *sql.DB
}

// Open connects, applies the schema and builds the repository for the engine
// named by the URL scheme. Anything that is not mysql:// or postgres:// is
// treated as an SQLite file path.
func Open(ctx context.Context, databaseURL string, debug bool, logger *zap.Logger) (*Store, error) {
	switch Driver(databaseURL) {
	case DriverMySQL, DriverPostgres:
		db, dialect, err := dbadapter.ConnectDB(ctx, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect %s: %w", Driver(databaseURL), err)
		}
		if err := dbadapter.EnsureSchema(ctx, db, dialect); err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info("connected to record store", zap.String("driver", Driver(databaseURL)))
		return &Store{
			Repository: dbadapter.NewTodoRepository(db, dialect),
			Driver:     Driver(databaseURL),
			db:         db.DB,
		}, nil
	default:
		path := sqliteadapter.Path(databaseURL)
		db, err := sqliteadapter.Connect(path, debug)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		logger.Info("connected to record store", zap.String("driver", DriverSQLite), zap.String("path", path))
		return &Store{
			Repository: sqliteadapter.NewTodoRepository(db),
			Driver:     DriverSQLite,
			db:         sqlDB,
		}, nil
	}
}

// Driver names the engine a DATABASE_URL selects.
func Driver(databaseURL string) string {
	switch {
	case strings.HasPrefix(databaseURL, "mysql://"):
		return DriverMySQL
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return DriverPostgres
	default:
		return DriverSQLite
	}
}

func (s *Store) PingContext(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store is not connected")
	}
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
