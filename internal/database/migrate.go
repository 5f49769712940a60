package database

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ezchef/ezchef/backend/internal/logger"
	"github.com/ezchef/ezchef/backend/internal/models"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const rollbackSuffix = "_rollback.sql"

// Migration is one versioned SQL file.
type Migration struct {
	Name     string
	Up       string
	Rollback string
}

// Migrations returns the embedded postgres migrations ordered by name.
func Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".sql") && !strings.HasSuffix(e.Name(), rollbackSuffix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	out := make([]Migration, 0, len(names))
	for _, name := range names {
		up, err := fs.ReadFile(migrationFS, "migrations/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", name, err)
		}
		m := Migration{Name: name, Up: string(up)}
		if down, err := fs.ReadFile(migrationFS, "migrations/"+strings.TrimSuffix(name, ".sql")+rollbackSuffix); err == nil {
			m.Rollback = string(down)
		}
		out = append(out, m)
	}
	return out, nil
}

// RunMigrations brings the schema up to date. SQLite databases, used for local
// runs and tests, are migrated from the models; postgres runs the SQL files.
func RunMigrations(db *gorm.DB) error {
	if db.Dialector.Name() == "sqlite" {
		logger.Info("using GORM auto-migration for SQLite")
		return db.AutoMigrate(models.All()...)
	}

	migrations, err := Migrations()
	if err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, m := range migrations {
		var count int64
		if err := db.Table("migrations").Where("name = ?", m.Name).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			logger.Debug("skipping migration (already applied)", zap.String("name", m.Name))
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(m.Up).Error; err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", m.Name, err)
			}
			if err := tx.Exec("INSERT INTO migrations (name) VALUES (?)", m.Name).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", m.Name, err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		logger.Info("applied migration", zap.String("name", m.Name))
	}

	return nil
}
