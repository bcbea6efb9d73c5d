package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/u83213089-oss/cat-lottery/internal/models"
)

const catColumns = "id, name, popular, active, image_url"

func scanCats(rows *sql.Rows) ([]models.Cat, error) {
	defer rows.Close()
	var cats []models.Cat
	for rows.Next() {
		var c models.Cat
		if err := rows.Scan(&c.ID, &c.Name, &c.Popular, &c.Active, &c.ImageURL); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// ListCats returns all cats ordered by id
func (r *Repository) ListCats(ctx context.Context) ([]models.Cat, error) {
	rows, err := r.query(ctx, `SELECT `+catColumns+` FROM cats ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return scanCats(rows)
}

// GetCat returns a single cat
func (r *Repository) GetCat(ctx context.Context, id int) (*models.Cat, error) {
	var c models.Cat
	err := r.queryRow(ctx, `SELECT `+catColumns+` FROM cats WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Popular, &c.Active, &c.ImageURL)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCatsByIDs returns the cats with the given ids. Missing ids are skipped;
// order is by id, callers re-order as needed.
func (r *Repository) GetCatsByIDs(ctx context.Context, ids []int) ([]models.Cat, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.queryBuilt(ctx, r.builder().
		Select(catColumns).
		From("cats").
		Where(sq.Eq{"id": ids}).
		OrderBy("id"))
	if err != nil {
		return nil, err
	}
	return scanCats(rows)
}

// CreateCat inserts a cat with an externally assigned id
func (r *Repository) CreateCat(ctx context.Context, cat models.Cat) error {
	var exists bool
	if err := r.queryRow(ctx, `SELECT EXISTS(SELECT 1 FROM cats WHERE id = ?)`, cat.ID).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return ErrDuplicate
	}
	_, err := r.exec(ctx, r.db,
		`INSERT INTO cats (id, name, popular, active, image_url) VALUES (?, ?, ?, ?, ?)`,
		cat.ID, cat.Name, cat.Popular, cat.Active, cat.ImageURL)
	return err
}

// UpsertCat inserts or replaces a cat
func (r *Repository) UpsertCat(ctx context.Context, cat models.Cat) error {
	_, err := r.exec(ctx, r.db, `
		INSERT INTO cats (id, name, popular, active, image_url) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name, popular = excluded.popular,
			active = excluded.active, image_url = excluded.image_url`,
		cat.ID, cat.Name, cat.Popular, cat.Active, cat.ImageURL)
	return err
}

// UpdateCat updates an existing cat
func (r *Repository) UpdateCat(ctx context.Context, cat models.Cat) error {
	res, err := r.exec(ctx, r.db,
		`UPDATE cats SET name = ?, popular = ?, active = ?, image_url = ? WHERE id = ?`,
		cat.Name, cat.Popular, cat.Active, cat.ImageURL, cat.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteCat removes a cat and any application choices pointing at it
func (r *Repository) DeleteCat(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := r.exec(ctx, tx, `DELETE FROM application_choices WHERE cat_id = ?`, id); err != nil {
		return err
	}
	res, err := r.exec(ctx, tx, `DELETE FROM cats WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := requireRow(res); err != nil {
		return err
	}
	return tx.Commit()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
