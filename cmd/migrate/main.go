package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/ezchef/ezchef/backend/config"
	"github.com/ezchef/ezchef/backend/internal/database"
	"github.com/ezchef/ezchef/backend/internal/logger"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	flag.Parse()

	if err := logger.Init(os.Getenv("LOG_LEVEL"), "console"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			logger.Fatal("DATABASE_URL is not set and configuration could not be loaded", zap.Error(err))
		}
		dsn = cfg.PostgresURL()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		logger.Fatal("failed to create migrations table", zap.Error(err))
	}

	migrations, err := database.Migrations()
	if err != nil {
		logger.Fatal("failed to load migrations", zap.Error(err))
	}

	if *rollback {
		if err := rollbackLast(db, migrations); err != nil {
			logger.Fatal("rollback failed", zap.Error(err))
		}
		return
	}

	for _, m := range migrations {
		var applied bool
		if err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM migrations WHERE name = $1)", m.Name).Scan(&applied); err != nil {
			logger.Fatal("failed to check migration status", zap.Error(err))
		}
		if applied {
			logger.Info("migration already applied", zap.String("name", m.Name))
			continue
		}

		if err := inTx(db, m.Up, "INSERT INTO migrations (name) VALUES ($1)", m.Name); err != nil {
			logger.Fatal("failed to apply migration", zap.String("name", m.Name), zap.Error(err))
		}
		logger.Info("applied migration", zap.String("name", m.Name))
	}

	logger.Info("all migrations applied")
}

func rollbackLast(db *sql.DB, migrations []database.Migration) error {
	var name string
	err := db.QueryRow("SELECT name FROM migrations ORDER BY applied_at DESC, id DESC LIMIT 1").Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return errors.New("no migrations to rollback")
	}
	if err != nil {
		return fmt.Errorf("failed to get last migration: %w", err)
	}

	for _, m := range migrations {
		if m.Name != name {
			continue
		}
		if m.Rollback == "" {
			return fmt.Errorf("no rollback file for %s", name)
		}
		if err := inTx(db, m.Rollback, "DELETE FROM migrations WHERE name = $1", name); err != nil {
			return err
		}
		logger.Info("rolled back migration", zap.String("name", name))
		return nil
	}
	return fmt.Errorf("migration %s is not known to this binary", name)
}

// inTx runs a migration script and its bookkeeping statement atomically
func inTx(db *sql.DB, script, record, name string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	if _, err := tx.Exec(script); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to execute %s: %w", name, err)
	}
	if _, err := tx.Exec(record, name); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to record %s: %w", name, err)
	}
	return tx.Commit()
}
