package db

import (
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"

	embeddedmigrations "github.com/terraincognita07/pitlane/migrations"
	"gorm.io/gorm"
)

var schemaFileName = regexp.MustCompile(`^(\d+)_[a-z0-9_]+\.sql$`)

type schemaStep struct {
	Version int
	File    string
	SQL     string
}

// schemaMigrator applies numbered SQL files once each, in version order,
// and records them in schema_migrations.
type schemaMigrator struct {
	database *gorm.DB
	files    fs.FS
}

func applyEmbeddedMigrations(database *gorm.DB) error {
	migrator := schemaMigrator{database: database, files: embeddedmigrations.Files}
	return migrator.Run()
}

func (m schemaMigrator) Run() error {
	if err := m.database.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`).Error; err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	steps, err := m.Steps()
	if err != nil {
		return err
	}
	done, err := m.appliedVersions()
	if err != nil {
		return err
	}

	for _, step := range steps {
		if done[step.Version] {
			continue
		}
		if err := m.apply(step); err != nil {
			return err
		}
	}
	return nil
}

// Steps lists the migration files sorted by version. Files that do not
// follow the NNN_name.sql pattern are ignored.
func (m schemaMigrator) Steps() ([]schemaStep, error) {
	entries, err := fs.ReadDir(m.files, ".")
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}

	steps := make([]schemaStep, 0, len(entries))
	byVersion := make(map[int]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		match := schemaFileName.FindStringSubmatch(name)
		if entry.IsDir() || match == nil {
			continue
		}

		version, err := strconv.Atoi(match[1])
		if err != nil {
			return nil, fmt.Errorf("migration %s: bad version: %w", name, err)
		}
		if previous, clash := byVersion[version]; clash {
			return nil, fmt.Errorf("migrations %s and %s share version %d", previous, name, version)
		}
		byVersion[version] = name

		body, err := fs.ReadFile(m.files, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		steps = append(steps, schemaStep{Version: version, File: name, SQL: string(body)})
	}

	sort.Slice(steps, func(i, j int) bool { return steps[i].Version < steps[j].Version })
	return steps, nil
}

func (m schemaMigrator) appliedVersions() (map[int]bool, error) {
	var versions []string
	if err := m.database.Raw(`SELECT version FROM schema_migrations`).Scan(&versions).Error; err != nil {
		return nil, fmt.Errorf("load applied migration versions: %w", err)
	}

	applied := make(map[int]bool, len(versions))
	for _, raw := range versions {
		version, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("schema_migrations has non-numeric version %q", raw)
		}
		applied[version] = true
	}
	return applied, nil
}

func (m schemaMigrator) apply(step schemaStep) error {
	statements := splitSQLStatements(step.SQL)
	if len(statements) == 0 {
		return fmt.Errorf("migration %s is empty", step.File)
	}

	return m.database.Transaction(func(tx *gorm.DB) error {
		for index, statement := range statements {
			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("migration %s statement %d: %w", step.File, index+1, err)
			}
		}
		return tx.Exec(
			`INSERT INTO schema_migrations(version, name) VALUES (?, ?)`,
			fmt.Sprintf("%03d", step.Version),
			step.File,
		).Error
	})
}

// splitSQLStatements cuts a script on semicolons that sit outside quoted
// text and -- comments. Blank statements are dropped.
func splitSQLStatements(script string) []string {
	var (
		statements []string
		current    strings.Builder
		quote      rune
		inComment  bool
	)
	flush := func() {
		if statement := strings.TrimSpace(current.String()); statement != "" {
			statements = append(statements, statement)
		}
		current.Reset()
	}

	runes := []rune(script)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case inComment:
			if r == '\n' {
				inComment = false
				current.WriteRune(r)
			}
			continue
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '-' && i+1 < len(runes) && runes[i+1] == '-':
			inComment = true
			continue
		case r == ';':
			flush()
			continue
		}
		current.WriteRune(r)
	}
	flush()
	return statements
}
