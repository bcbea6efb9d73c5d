package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/u83213089-oss/cat-lottery/internal/models"
)

// GetLiveState returns the singleton display state
func (r *Repository) GetLiveState(ctx context.Context) (*models.LiveState, error) {
	var (
		state               models.LiveState
		phase, updatedAt    string
		catIDsJSON, resJSON string
	)
	err := r.queryRow(ctx, `
		SELECT revision, phase, selected_cat_ids, results, updated_at, draw_id
		FROM live_state WHERE id = 1`).
		Scan(&state.Revision, &phase, &catIDsJSON, &resJSON, &updatedAt, &state.DrawID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	state.Phase = models.Phase(phase)
	state.UpdatedAt = parseTime(updatedAt)
	if err := json.Unmarshal([]byte(catIDsJSON), &state.SelectedCatIDs); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(resJSON), &state.Results); err != nil {
		return nil, err
	}
	return &state, nil
}

// ReplaceLiveState overwrites the live state if its stored revision still
// equals expectedRevision, otherwise it returns ErrStaleRevision.
func (r *Repository) ReplaceLiveState(ctx context.Context, state *models.LiveState, expectedRevision int64) error {
	return r.swapLiveState(ctx, r.db, state, expectedRevision)
}

func (r *Repository) swapLiveState(ctx context.Context, e execer, state *models.LiveState, expectedRevision int64) error {
	catIDs, err := json.Marshal(nonNilInts(state.SelectedCatIDs))
	if err != nil {
		return err
	}
	results, err := json.Marshal(nonNilResults(state.Results))
	if err != nil {
		return err
	}

	res, err := r.exec(ctx, e, `
		UPDATE live_state
		SET revision = ?, phase = ?, selected_cat_ids = ?, results = ?, updated_at = ?, draw_id = ?
		WHERE id = 1 AND revision = ?`,
		state.Revision, string(state.Phase), string(catIDs), string(results),
		formatTime(state.UpdatedAt), state.DrawID, expectedRevision)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStaleRevision
	}
	return nil
}

// SaveDraw stores a draw in the history and publishes its state, atomically.
// Nothing is written when the live state revision is stale.
func (r *Repository) SaveDraw(ctx context.Context, record *models.DrawRecord, state *models.LiveState, expectedRevision int64) error {
	catIDs, err := json.Marshal(nonNilInts(record.CatIDs))
	if err != nil {
		return err
	}
	results, err := json.Marshal(nonNilResults(record.Results))
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := r.swapLiveState(ctx, tx, state, expectedRevision); err != nil {
		return err
	}

	if _, err := r.exec(ctx, tx,
		`INSERT INTO draws (id, created_at, cat_ids, results) VALUES (?, ?, ?, ?)`,
		record.ID, formatTime(record.CreatedAt), string(catIDs), string(results)); err != nil {
		return err
	}
	for _, res := range record.Results {
		for _, w := range res.Winners {
			if !w.Filled {
				continue
			}
			if _, err := r.exec(ctx, tx,
				`INSERT INTO draw_winners (draw_id, cat_id, rank, applicant_id) VALUES (?, ?, ?, ?)`,
				record.ID, res.CatID, string(w.Rank), w.ApplicantID); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// ListDraws returns the draw history, newest first. limit <= 0 means no limit.
func (r *Repository) ListDraws(ctx context.Context, limit int) ([]models.DrawRecord, error) {
	b := r.builder().
		Select("id", "created_at", "cat_ids", "results").
		From("draws").
		OrderBy("created_at DESC", "id")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	rows, err := r.queryBuilt(ctx, b)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var draws []models.DrawRecord
	for rows.Next() {
		var (
			d                            models.DrawRecord
			createdAt, catIDs, resultsJS string
		)
		if err := rows.Scan(&d.ID, &createdAt, &catIDs, &resultsJS); err != nil {
			return nil, err
		}
		d.CreatedAt = parseTime(createdAt)
		if err := json.Unmarshal([]byte(catIDs), &d.CatIDs); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(resultsJS), &d.Results); err != nil {
			return nil, err
		}
		draws = append(draws, d)
	}
	return draws, rows.Err()
}

// ListWinnerIDs returns every applicant who filled a slot in any stored draw
func (r *Repository) ListWinnerIDs(ctx context.Context) ([]string, error) {
	rows, err := r.query(ctx, `SELECT DISTINCT applicant_id FROM draw_winners ORDER BY applicant_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func nonNilInts(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}

func nonNilResults(v []models.DrawResult) []models.DrawResult {
	if v == nil {
		return []models.DrawResult{}
	}
	return v
}
