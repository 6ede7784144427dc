// Package migration applies database schema migrations at startup.
package migration

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // registers the pgx5 scheme
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// RunUp applies all pending up migrations from migrationsPath.
func RunUp(dsn, migrationsPath string, logger *zap.Logger) error {
	m, err := migrate.New("file://"+migrationsPath, toPgx5DSN(dsn))
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Warn("close migration source", zap.Error(srcErr))
		}
		if dbErr != nil {
			logger.Warn("close migration database", zap.Error(dbErr))
		}
	}()

	m.Log = &migrateLogger{logger: logger}

	current, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("get migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is dirty at version %d", current)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migrations up to date", zap.Uint("version", current))
			return nil
		}
		return fmt.Errorf("migrate up: %w", err)
	}

	next, _, _ := m.Version()
	logger.Info("migrations applied",
		zap.Uint("from_version", current),
		zap.Uint("to_version", next),
	)

	return nil
}

// toPgx5DSN rewrites postgres:// URLs to the pgx5:// scheme expected by
// the golang-migrate pgx/v5 driver.
func toPgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

type migrateLogger struct {
	logger *zap.Logger
}

func (l *migrateLogger) Printf(format string, v ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *migrateLogger) Verbose() bool {
	return false
}
