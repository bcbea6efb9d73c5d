package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/u83213089-oss/cat-lottery/internal/models"
)

const applicantColumns = "id, name, phone, township"

func scanApplicants(rows *sql.Rows) ([]models.Applicant, error) {
	defer rows.Close()
	var applicants []models.Applicant
	for rows.Next() {
		var a models.Applicant
		if err := rows.Scan(&a.ID, &a.Name, &a.Phone, &a.Township); err != nil {
			return nil, err
		}
		applicants = append(applicants, a)
	}
	return applicants, rows.Err()
}

// ListApplicants returns all applicants in creation order
func (r *Repository) ListApplicants(ctx context.Context) ([]models.Applicant, error) {
	rows, err := r.query(ctx, `SELECT `+applicantColumns+` FROM applicants ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	return scanApplicants(rows)
}

// GetApplicant returns a single applicant
func (r *Repository) GetApplicant(ctx context.Context, id string) (*models.Applicant, error) {
	var a models.Applicant
	err := r.queryRow(ctx, `SELECT `+applicantColumns+` FROM applicants WHERE id = ?`, id).
		Scan(&a.ID, &a.Name, &a.Phone, &a.Township)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetApplicantsByIDs returns the applicants with the given ids. Unknown ids are skipped.
func (r *Repository) GetApplicantsByIDs(ctx context.Context, ids []string) ([]models.Applicant, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.queryBuilt(ctx, r.builder().
		Select(applicantColumns).
		From("applicants").
		Where(sq.Eq{"id": ids}).
		OrderBy("id"))
	if err != nil {
		return nil, err
	}
	return scanApplicants(rows)
}

// CreateApplicant inserts an applicant. The id must already be set.
func (r *Repository) CreateApplicant(ctx context.Context, a models.Applicant) error {
	var exists bool
	if err := r.queryRow(ctx, `SELECT EXISTS(SELECT 1 FROM applicants WHERE id = ?)`, a.ID).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return ErrDuplicate
	}
	_, err := r.exec(ctx, r.db,
		`INSERT INTO applicants (id, name, phone, township, created_at) VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Phone, a.Township, formatTime(time.Now()))
	return err
}

// DeleteApplicant removes an applicant together with their application
func (r *Repository) DeleteApplicant(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM application_choices WHERE applicant_id = ?`,
		`DELETE FROM applications WHERE applicant_id = ?`,
	} {
		if _, err := r.exec(ctx, tx, q, id); err != nil {
			return err
		}
	}
	res, err := r.exec(ctx, tx, `DELETE FROM applicants WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := requireRow(res); err != nil {
		return err
	}
	return tx.Commit()
}

// SetApplication records an applicant's choices. Resubmitting replaces the
// choices but keeps the original arrival position.
func (r *Repository) SetApplication(ctx context.Context, applicantID string, choices []int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := r.exec(ctx, tx,
		`INSERT INTO applications (applicant_id, submitted_at) VALUES (?, ?) ON CONFLICT (applicant_id) DO NOTHING`,
		applicantID, formatTime(time.Now())); err != nil {
		return err
	}
	if _, err := r.exec(ctx, tx, `DELETE FROM application_choices WHERE applicant_id = ?`, applicantID); err != nil {
		return err
	}
	for i, catID := range choices {
		if _, err := r.exec(ctx, tx,
			`INSERT INTO application_choices (applicant_id, cat_id, ordinal) VALUES (?, ?, ?)`,
			applicantID, catID, i); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListApplications returns applications in arrival order. When catIDs is
// non-empty only applications naming at least one of those cats are returned,
// and their choices are narrowed to those cats.
func (r *Repository) ListApplications(ctx context.Context, catIDs []int) ([]models.Application, error) {
	b := r.builder().
		Select("a.seq", "a.applicant_id", "c.cat_id").
		From("applications a")
	if len(catIDs) > 0 {
		b = b.Join("application_choices c ON c.applicant_id = a.applicant_id").
			Where(sq.Eq{"c.cat_id": catIDs})
	} else {
		b = b.LeftJoin("application_choices c ON c.applicant_id = a.applicant_id")
	}
	rows, err := r.queryBuilt(ctx, b.OrderBy("a.seq", "c.ordinal"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []models.Application
	for rows.Next() {
		var (
			seq         int64
			applicantID string
			catID       sql.NullInt64
		)
		if err := rows.Scan(&seq, &applicantID, &catID); err != nil {
			return nil, err
		}
		if len(apps) == 0 || apps[len(apps)-1].Seq != seq {
			apps = append(apps, models.Application{ApplicantID: applicantID, Seq: seq, Choices: []int{}})
		}
		if catID.Valid {
			last := &apps[len(apps)-1]
			last.Choices = append(last.Choices, int(catID.Int64))
		}
	}
	return apps, rows.Err()
}
