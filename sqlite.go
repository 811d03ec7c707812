package metricconverter

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

var ErrEmptyCatalog = errors.New("catalog: no categories stored")

// OpenCatalog opens (or creates) a SQLite catalog file and makes sure the
// schema exists.
func OpenCatalog(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func initSchema(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			name TEXT PRIMARY KEY,
			base_unit TEXT,
			position INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS rules (
			category TEXT,
			unit TEXT,
			kind TEXT,
			rate TEXT,
			function TEXT,
			position INTEGER,
			PRIMARY KEY (category, unit)
		);`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("catalog: init schema: %w", err)
		}
	}
	return nil
}

// SaveTable replaces whatever table the catalog holds with t.
func SaveTable(db *sql.DB, t *Table) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("catalog: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM rules`); err != nil {
		return fmt.Errorf("catalog: clear rules: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM categories`); err != nil {
		return fmt.Errorf("catalog: clear categories: %w", err)
	}

	for i, c := range t.categories {
		_, err := tx.Exec(`INSERT INTO categories (name, base_unit, position) VALUES (?, ?, ?)`,
			c.Name, c.BaseUnit, i)
		if err != nil {
			return fmt.Errorf("catalog: insert category %q: %w", c.Name, err)
		}
		for j, r := range c.Rules {
			if err := persistRule(tx, c.Name, j, r); err != nil {
				return err
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("catalog: commit: %w", err)
	}
	return nil
}

func persistRule(tx *sql.Tx, category string, position int, r Rule) error {
	var rate any
	var function sql.NullString
	switch r.Kind {
	case RuleScale:
		rt, err := NewRate(r.Rate)
		if err != nil {
			return fmt.Errorf("catalog: rule %q in %q: %w", r.Unit, category, err)
		}
		rate = rt
	case RuleFunction:
		function = sql.NullString{String: r.FuncName, Valid: true}
	}
	_, err := tx.Exec(`INSERT INTO rules (category, unit, kind, rate, function, position) VALUES (?, ?, ?, ?, ?, ?)`,
		category, r.Unit, r.Kind.String(), rate, function, position)
	if err != nil {
		return fmt.Errorf("catalog: insert rule %q in %q: %w", r.Unit, category, err)
	}
	return nil
}

// LoadTable rebuilds a table from the catalog in stored order. Rules of an
// unknown kind, scale rules without a readable rate and function rules
// naming an unregistered function load as malformed rules.
func LoadTable(db *sql.DB) (*Table, error) {
	b := NewTableBuilder()

	rows, err := db.Query(`SELECT name, base_unit FROM categories ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("catalog: query categories: %w", err)
	}
	count := 0
	for rows.Next() {
		var name, base string
		if err := rows.Scan(&name, &base); err != nil {
			rows.Close()
			return nil, fmt.Errorf("catalog: scan category: %w", err)
		}
		b.AddCategory(name, base)
		count++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: read categories: %w", err)
	}
	if count == 0 {
		return nil, ErrEmptyCatalog
	}

	rows, err = db.Query(`SELECT category, unit, kind, rate, function FROM rules ORDER BY category, position`)
	if err != nil {
		return nil, fmt.Errorf("catalog: query rules: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var category, unit, kind string
		var rateText, function sql.NullString
		if err := rows.Scan(&category, &unit, &kind, &rateText, &function); err != nil {
			return nil, fmt.Errorf("catalog: scan rule: %w", err)
		}
		switch ParseRuleKind(kind) {
		case RuleScale:
			rate, ok := loadRate(rateText)
			if !ok {
				b.AddRule(category, Rule{Unit: unit, Kind: RuleUnknown})
				continue
			}
			b.AddRule(category, ScaleRule(unit, rate.Float64()))
		case RuleFunction:
			b.AddRule(category, ResolveFunction(unit, function.String))
		default:
			b.AddRule(category, Rule{Unit: unit, Kind: RuleUnknown})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: read rules: %w", err)
	}

	t, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return t, nil
}

func loadRate(text sql.NullString) (Rate, bool) {
	if !text.Valid {
		return Rate{}, false
	}
	rate, err := ParseRate(text.String)
	if err != nil {
		return Rate{}, false
	}
	return rate, true
}
