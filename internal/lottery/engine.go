package lottery

import (
	"context"
	"fmt"

	"github.com/u83213089-oss/cat-lottery/internal/models"
	"github.com/u83213089-oss/cat-lottery/internal/rng"
)

// Store is the read side the engine needs. The engine never writes.
type Store interface {
	GetCatsByIDs(ctx context.Context, ids []int) ([]models.Cat, error)
	ListApplications(ctx context.Context, catIDs []int) ([]models.Application, error)
	GetApplicantsByIDs(ctx context.Context, ids []string) ([]models.Applicant, error)
}

// DrawOptions tunes a single batch
type DrawOptions struct {
	// PriorWinners seeds the exclusion set, e.g. everyone who won an earlier batch.
	PriorWinners []string
}

// Engine runs batch draws
type Engine struct {
	src rng.Source
}

// NewEngine creates an engine. A nil source means the crypto source.
func NewEngine(src rng.Source) *Engine {
	if src == nil {
		src = rng.NewCryptoSource()
	}
	return &Engine{src: src}
}

// Draw assigns up to three distinct winners to each cat, in the order given.
// No applicant fills more than one slot across the batch, so cats earlier in
// catIDs get first pick of shared applicants.
func (e *Engine) Draw(ctx context.Context, store Store, catIDs []int, opts DrawOptions) ([]models.DrawResult, error) {
	if len(catIDs) == 0 {
		return nil, nil
	}

	cats, err := store.GetCatsByIDs(ctx, catIDs)
	if err != nil {
		return nil, fmt.Errorf("load cats: %w", err)
	}
	catsByID := make(map[int]models.Cat, len(cats))
	for _, c := range cats {
		catsByID[c.ID] = c
	}

	apps, err := store.ListApplications(ctx, catIDs)
	if err != nil {
		return nil, fmt.Errorf("load applications: %w", err)
	}

	applicantIDs := make([]string, 0, len(apps))
	for _, a := range apps {
		applicantIDs = append(applicantIDs, a.ApplicantID)
	}
	applicants, err := store.GetApplicantsByIDs(ctx, applicantIDs)
	if err != nil {
		return nil, fmt.Errorf("load applicants: %w", err)
	}
	applicantsByID := make(map[string]models.Applicant, len(applicants))
	for _, a := range applicants {
		applicantsByID[a.ID] = a
	}

	// Applications pointing at a missing applicant are not eligible
	eligible := apps[:0:0]
	for _, a := range apps {
		if _, ok := applicantsByID[a.ApplicantID]; ok {
			eligible = append(eligible, a)
		}
	}

	excluded := NewExclusionSet(opts.PriorWinners...)
	results := make([]models.DrawResult, 0, len(catIDs))
	for _, catID := range catIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cat, ok := catsByID[catID]
		if !ok {
			cat = models.Cat{ID: catID}
		}

		pool := ResolvePool(catID, eligible, excluded)
		winners := Select(e.src, pool, models.SlotsPerCat)
		excluded.Add(winners...)

		result := models.DrawResult{
			CatID:    cat.ID,
			CatName:  CatName(cat),
			CatLabel: CatLabel(cat.ID),
			PoolSize: len(pool),
			Winners:  make([]models.WinnerSlot, models.SlotsPerCat),
		}
		for i, rank := range models.Ranks {
			if i < len(winners) {
				result.Winners[i] = filledSlot(rank, applicantsByID[winners[i]])
			} else {
				result.Winners[i] = models.WinnerSlot{Rank: rank}
			}
		}
		result.Status, result.Note = statusFor(len(pool), len(winners))
		results = append(results, result)
	}

	return results, nil
}

func statusFor(poolSize, filled int) (models.DrawStatus, string) {
	switch {
	case poolSize == 0:
		return models.StatusNoApplicants, "no applicants"
	case filled < models.SlotsPerCat:
		return models.StatusInsufficient, fmt.Sprintf("insufficient applicants (%d of %d filled)", filled, models.SlotsPerCat)
	default:
		return models.StatusFilled, "fully filled"
	}
}

func filledSlot(rank models.Rank, a models.Applicant) models.WinnerSlot {
	return models.WinnerSlot{
		Rank:        rank,
		Filled:      true,
		ApplicantID: a.ID,
		Name:        a.Name,
		Township:    a.Township,
		MaskedPhone: MaskPhone(a.Phone),
	}
}
