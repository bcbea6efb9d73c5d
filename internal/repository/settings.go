package repository

import (
	"context"
	"database/sql"
)

// GetSetting retrieves a setting value
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.queryRow(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

// SetSetting updates a setting value
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.exec(ctx, r.db,
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value)
	return err
}

// Counts returns row counts shown on the admin dashboard
func (r *Repository) Counts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, table := range []string{"cats", "applicants", "applications", "draws"} {
		var n int
		if err := r.queryRow(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
			return nil, err
		}
		counts[table] = n
	}
	return counts, nil
}

// clearStatements lists which tables can be cleared and the statements each needs.
// Dependent rows go first.
var clearStatements = map[string][]string{
	"draws":        {`DELETE FROM draw_winners`, `DELETE FROM draws`},
	"applications": {`DELETE FROM application_choices`, `DELETE FROM applications`},
	"applicants":   {`DELETE FROM application_choices`, `DELETE FROM applications`, `DELETE FROM applicants`},
	"cats":         {`DELETE FROM application_choices`, `DELETE FROM cats`},
}

// ClearTable clears all data from a table
// Only allows clearing whitelisted tables to prevent SQL injection
func (r *Repository) ClearTable(ctx context.Context, table string) error {
	stmts, ok := clearStatements[table]
	if !ok {
		return ErrInvalidTable
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return tx.Commit()
}
