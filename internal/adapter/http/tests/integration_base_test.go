//go:build integration
// +build integration

package tests

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"

	dbadapter "todoapp/internal/adapter/db"
)

// IntegrationSuiteBase connects to a live MySQL or Postgres server named by a
// URL environment variable and skips when the server is unreachable.
type IntegrationSuiteBase struct {
	suite.Suite

	URLEnv     string
	DefaultURL string

	DB      *sqlx.DB
	Dialect dbadapter.Dialect
}

func (s *IntegrationSuiteBase) SetupSuite() {
	ctx := context.Background()
	databaseURL := envOrDefault(s.URLEnv, s.DefaultURL)

	if strings.HasPrefix(databaseURL, "mysql://") {
		if err := createMySQLDatabase(ctx, databaseURL); err != nil {
			s.T().Skipf("skipping integration suite: could not connect to mysql: %v", err)
		}
	}

	db, dialect, err := dbadapter.ConnectDB(ctx, databaseURL)
	if err != nil {
		s.T().Skipf("skipping integration suite: could not connect to %s: %v", databaseURL, err)
	}
	s.DB = db
	s.Dialect = dialect
	s.Require().NoError(dbadapter.EnsureSchema(ctx, db, dialect))
}

func (s *IntegrationSuiteBase) TearDownSuite() {
	if s.DB != nil {
		s.Require().NoError(s.DB.Close())
	}
}

func (s *IntegrationSuiteBase) ResetDatabase() {
	table := `"Todo"`
	if s.Dialect == dbadapter.DialectMySQL {
		table = "`Todo`"
	}
	_, err := s.DB.Exec("DELETE FROM " + table)
	s.Require().NoError(err)
}

// createMySQLDatabase creates the schema named in the URL path, since MySQL
// refuses connections to a database that does not exist yet.
func createMySQLDatabase(ctx context.Context, databaseURL string) error {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return err
	}
	name := strings.TrimPrefix(u.Path, "/")
	u.Path = "/"

	admin, err := sqlx.ConnectContext(ctx, "mysql", dbadapter.MySQLDSN(u))
	if err != nil {
		return err
	}
	defer admin.Close()

	_, err = admin.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", name))
	return err
}

func envOrDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
