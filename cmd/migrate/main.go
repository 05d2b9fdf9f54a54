package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/logger"
)

// The bookkeeping table matches the one the API creates when it migrates
// on startup, so either can be used against the same database.
const createMigrationsTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	dir := flag.String("dir", "", "Migrations directory (defaults to MIGRATIONS_DIR)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	sugar, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = sugar.Sync() }()

	migrationsDir := cfg.MigrationsDir
	if *dir != "" {
		migrationsDir = *dir
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = cfg.DSN()
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		sugar.Fatalw("failed to open database", "error", err)
	}
	defer db.Close()

	if _, err := db.Exec(createMigrationsTable); err != nil {
		sugar.Fatalw("failed to create migrations table", "error", err)
	}

	if *rollback {
		err = rollbackLast(db, migrationsDir, sugar)
	} else {
		err = applyPending(db, migrationsDir, sugar)
	}
	if err != nil {
		sugar.Fatalw("migration failed", "error", err)
	}
}

func applyPending(db *sql.DB, dir string, log *zap.SugaredLogger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrap(err, "read migrations directory")
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") || strings.HasSuffix(e.Name(), ".down.sql") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	for _, name := range files {
		var applied bool
		err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)", name).Scan(&applied)
		if err != nil {
			return errors.Wrap(err, "check migration status")
		}
		if applied {
			log.Debugw("migration already applied", "name", name)
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return errors.Wrapf(err, "read migration %s", name)
		}
		err = inTx(db, func(tx *sql.Tx) error {
			if _, err := tx.Exec(string(content)); err != nil {
				return err
			}
			_, err := tx.Exec("INSERT INTO schema_migrations (name) VALUES ($1)", name)
			return err
		})
		if err != nil {
			return errors.Wrapf(err, "apply migration %s", name)
		}
		log.Infow("applied migration", "name", name)
	}

	log.Info("all migrations applied")
	return nil
}

// rollbackLast runs the .down.sql companion of the newest applied migration.
func rollbackLast(db *sql.DB, dir string, log *zap.SugaredLogger) error {
	var name string
	err := db.QueryRow("SELECT name FROM schema_migrations ORDER BY applied_at DESC, id DESC LIMIT 1").Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		log.Info("no migrations to roll back")
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "find last migration")
	}

	downPath := filepath.Join(dir, strings.TrimSuffix(name, ".sql")+".down.sql")
	content, err := os.ReadFile(downPath)
	if err != nil {
		return errors.Wrapf(err, "read rollback file %s", downPath)
	}

	err = inTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(string(content)); err != nil {
			return err
		}
		_, err := tx.Exec("DELETE FROM schema_migrations WHERE name = $1", name)
		return err
	})
	if err != nil {
		return errors.Wrapf(err, "roll back %s", name)
	}

	log.Infow("rolled back migration", "name", name)
	return nil
}

func inTx(db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
