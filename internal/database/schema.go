package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"recordhub/internal/config"
	"recordhub/internal/middleware"
	"recordhub/internal/models"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
	}
}

// ApplySchema brings the schema up to date using the configured mode: SQL
// migrations for postgres, GORM AutoMigrate otherwise.
func ApplySchema(db *gorm.DB, cfg *config.Config) error {
	mode := cfg.DBSchemaMode
	if mode == "" {
		mode = config.SchemaModeFor(cfg.DBDriver)
	}

	switch mode {
	case config.SchemaModeAuto:
		if err := db.AutoMigrate(PersistentModels()...); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		middleware.Logger.Info("Database auto-migration completed")
		return nil
	case config.SchemaModeSQL:
		return MigrateUp(cfg)
	default:
		return fmt.Errorf("unsupported schema mode %q", mode)
	}
}

// NewMigrator returns a golang-migrate instance over the embedded SQL
// migrations. It owns a dedicated connection pool, released by Close.
func NewMigrator(cfg *config.Config) (*migrate.Migrate, error) {
	if cfg.DBDriver != "postgres" {
		return nil, fmt.Errorf("SQL migrations require postgres, got %q", cfg.DBDriver)
	}

	sqlDB, err := sql.Open("pgx", PostgresDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open migration connection: %w", err)
	}

	driver, err := pgxmigrate.WithInstance(sqlDB, &pgxmigrate.Config{})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("init migration driver: %w", err)
	}

	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("init migrator: %w", err)
	}
	return m, nil
}

// MigrateUp applies every pending SQL migration.
func MigrateUp(cfg *config.Config) error {
	m, err := NewMigrator(cfg)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	version, dirty, verr := m.Version()
	if verr == nil {
		middleware.Logger.Info("Database migrations applied",
			slog.Uint64("version", uint64(version)),
			slog.Bool("dirty", dirty),
		)
	}
	return nil
}

// RollbackMigrations reverts the last steps migrations.
func RollbackMigrations(cfg *config.Config, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}
	m, err := NewMigrator(cfg)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if err := m.Steps(-steps); err != nil {
		return fmt.Errorf("rollback %d step(s): %w", steps, err)
	}
	return nil
}

// SchemaStatus describes the migration state of the database.
type SchemaStatus struct {
	Version   uint
	Dirty     bool
	Available int
}

// GetSchemaStatus reports the applied migration version. Version is zero
// when nothing has been applied.
func GetSchemaStatus(cfg *config.Config) (SchemaStatus, error) {
	files, err := MigrationFiles()
	if err != nil {
		return SchemaStatus{}, err
	}
	status := SchemaStatus{Available: len(files) / 2}

	m, err := NewMigrator(cfg)
	if err != nil {
		return status, err
	}
	defer closeMigrator(m)

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return status, fmt.Errorf("read schema version: %w", err)
	}
	status.Version = version
	status.Dirty = dirty
	return status, nil
}

func closeMigrator(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		middleware.Logger.Warn("closing migration source", slog.String("error", srcErr.Error()))
	}
	if dbErr != nil {
		middleware.Logger.Warn("closing migration database", slog.String("error", dbErr.Error()))
	}
}

// MigrationFiles lists the embedded migration file names.
func MigrationFiles() ([]string, error) {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}
