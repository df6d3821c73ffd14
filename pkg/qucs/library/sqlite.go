package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteCatalog indexes the libraries of a set of directories in a SQLite
// database so they can be listed and located without parsing every file.
type SQLiteCatalog struct {
	db *sql.DB
}

// LibraryInfo is an indexed library.
type LibraryInfo struct {
	Name       string
	Path       string
	Version    string
	Components int
}

// ComponentInfo is an indexed library component.
type ComponentInfo struct {
	Library     string
	Name        string
	Description string
	Analog      bool
	VHDL        bool
	Verilog     bool
	Ports       int
}

// NewSQLiteCatalog opens (and creates if needed) a catalog database.
func NewSQLiteCatalog(dbPath string) (*SQLiteCatalog, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	c := &SQLiteCatalog{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return c, nil
}

func (c *SQLiteCatalog) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS libraries (
		name TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		version TEXT NOT NULL,
		indexed_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS components (
		library TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		analog INTEGER NOT NULL DEFAULT 0,
		vhdl INTEGER NOT NULL DEFAULT 0,
		verilog INTEGER NOT NULL DEFAULT 0,
		ports INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (library, name),
		FOREIGN KEY (library) REFERENCES libraries(name) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_components_name ON components(name);
	`

	_, err := c.db.Exec(schema)
	return err
}

// Index parses every .lib file in dirs and replaces their catalog entries.
// It returns the number of libraries indexed.
func (c *SQLiteCatalog) Index(ctx context.Context, dirs ...string) (int, error) {
	count := 0
	for _, dir := range dirs {
		files, err := filepath.Glob(filepath.Join(dir, "*.lib"))
		if err != nil {
			return count, fmt.Errorf("failed to list %s: %w", dir, err)
		}
		for _, f := range files {
			lib, err := ParseFile(f)
			if err != nil {
				return count, err
			}
			abs, err := filepath.Abs(f)
			if err != nil {
				return count, err
			}
			lib.Path = abs
			if err := c.store(ctx, lib); err != nil {
				return count, fmt.Errorf("failed to index %s: %w", f, err)
			}
			count++
		}
	}
	return count, nil
}

func (c *SQLiteCatalog) store(ctx context.Context, lib *Library) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM components WHERE library = ?`, lib.Name); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO libraries (name, path, version) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET path = excluded.path, version = excluded.version,
			indexed_at = CURRENT_TIMESTAMP
	`, lib.Name, lib.Path, lib.Version.String()); err != nil {
		return err
	}
	for _, comp := range lib.Components {
		ports := len(PortSymbols(lib.SymbolOf(comp)))
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO components (library, name, description, analog, vhdl, verilog, ports)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, lib.Name, comp.Name, comp.Description,
			flag(comp.Model), flag(comp.VHDLModel), flag(comp.VerilogModel), ports); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// flag stores whether a model section is present as 0 or 1.
func flag(model string) int {
	if model == "" {
		return 0
	}
	return 1
}

// Locate implements Catalog.
func (c *SQLiteCatalog) Locate(name string) (string, error) {
	name = strings.TrimSuffix(filepath.Base(name), ".lib")
	var path string
	err := c.db.QueryRow(`SELECT path FROM libraries WHERE name = ?`, name).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", &NotFoundError{Name: name}
	}
	if err != nil {
		return "", fmt.Errorf("failed to query library: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("library %s: indexed file is gone: %w", name, err)
	}
	return path, nil
}

// Libraries lists the indexed libraries by name.
func (c *SQLiteCatalog) Libraries(ctx context.Context) ([]LibraryInfo, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT l.name, l.path, l.version, COUNT(c.name)
		FROM libraries l LEFT JOIN components c ON c.library = l.name
		GROUP BY l.name ORDER BY l.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query libraries: %w", err)
	}
	defer rows.Close()

	var out []LibraryInfo
	for rows.Next() {
		var li LibraryInfo
		if err := rows.Scan(&li.Name, &li.Path, &li.Version, &li.Components); err != nil {
			return nil, fmt.Errorf("failed to scan library: %w", err)
		}
		out = append(out, li)
	}
	return out, rows.Err()
}

// Components lists the components of one library by name.
func (c *SQLiteCatalog) Components(ctx context.Context, library string) ([]ComponentInfo, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT library, name, description, analog, vhdl, verilog, ports
		FROM components WHERE library = ? ORDER BY name
	`, library)
	if err != nil {
		return nil, fmt.Errorf("failed to query components: %w", err)
	}
	defer rows.Close()

	var out []ComponentInfo
	for rows.Next() {
		var (
			ci   ComponentInfo
			desc sql.NullString
		)
		if err := rows.Scan(&ci.Library, &ci.Name, &desc, &ci.Analog, &ci.VHDL, &ci.Verilog, &ci.Ports); err != nil {
			return nil, fmt.Errorf("failed to scan component: %w", err)
		}
		ci.Description = desc.String
		out = append(out, ci)
	}
	return out, rows.Err()
}

// Close closes the database.
func (c *SQLiteCatalog) Close() error {
	return c.db.Close()
}
