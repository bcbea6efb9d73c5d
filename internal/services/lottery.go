package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/u83213089-oss/cat-lottery/internal/errors"
	"github.com/u83213089-oss/cat-lottery/internal/logger"
	"github.com/u83213089-oss/cat-lottery/internal/lottery"
	"github.com/u83213089-oss/cat-lottery/internal/models"
	"github.com/u83213089-oss/cat-lottery/internal/repository"
	"github.com/u83213089-oss/cat-lottery/internal/rng"
)

// Broadcaster pushes live state changes to connected displays
type Broadcaster interface {
	BroadcastLiveState(state *models.LiveState)
}

// LotteryRepository defines the repository methods needed by LotteryService
type LotteryRepository interface {
	lottery.Store
	repository.LiveStateRepository
	repository.DrawRepository
}

// PriorWinnersPolicy decides whether earlier winners sit out new draws
type PriorWinnersPolicy interface {
	ExcludePriorWinners(ctx context.Context) (bool, error)
}

// LotteryService runs previews and draws and owns the live display state
type LotteryService struct {
	// serialises preview/draw so each computes from the state it read
	mu sync.Mutex

	log         logger.Logger
	repo        LotteryRepository
	policy      PriorWinnersPolicy
	engine      *lottery.Engine
	broadcaster Broadcaster
	now         func() time.Time
}

// NewLotteryService creates a new LotteryService. A nil src uses the crypto source.
func NewLotteryService(log logger.Logger, repo LotteryRepository, policy PriorWinnersPolicy, src rng.Source) *LotteryService {
	return &LotteryService{
		log:    log.With("component", "lottery"),
		repo:   repo,
		policy: policy,
		engine: lottery.NewEngine(src),
		now:    time.Now,
	}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *LotteryService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetClock overrides the time source used to stamp states
func (s *LotteryService) SetClock(now func() time.Time) {
	s.now = now
}

// CurrentState returns the live display state
func (s *LotteryService) CurrentState(ctx context.Context) (*models.LiveState, error) {
	return s.repo.GetLiveState(ctx)
}

// History returns past draws, newest first
func (s *LotteryService) History(ctx context.Context, limit int) ([]models.DrawRecord, error) {
	draws, err := s.repo.ListDraws(ctx, limit)
	if err != nil {
		return nil, err
	}
	if draws == nil {
		draws = []models.DrawRecord{}
	}
	return draws, nil
}

// Preview publishes the selected cats with every slot unrevealed. No
// applicant data is read.
func (s *LotteryService) Preview(ctx context.Context, catIDs []int) (*models.LiveState, error) {
	if err := validateSelection(catIDs); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cats, err := s.selectedCats(ctx, catIDs)
	if err != nil {
		return nil, err
	}
	current, err := s.repo.GetLiveState(ctx)
	if err != nil {
		return nil, fmt.Errorf("read live state: %w", err)
	}

	state := lottery.Preview(cats)
	s.stamp(&state, current.Revision)
	if err := s.repo.ReplaceLiveState(ctx, &state, current.Revision); err != nil {
		return nil, s.writeError(err)
	}

	s.log.Info("Preview published", "cats", catIDs, "revision", state.Revision)
	s.broadcast(&state)
	return &state, nil
}

// Draw assigns winners for the selected cats, in order, and publishes the
// result. On any failure the previous live state is left untouched.
func (s *LotteryService) Draw(ctx context.Context, catIDs []int) (*models.LiveState, error) {
	if err := validateSelection(catIDs); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.selectedCats(ctx, catIDs); err != nil {
		return nil, err
	}
	current, err := s.repo.GetLiveState(ctx)
	if err != nil {
		return nil, fmt.Errorf("read live state: %w", err)
	}

	var opts lottery.DrawOptions
	exclude, err := s.policy.ExcludePriorWinners(ctx)
	if err != nil {
		return nil, fmt.Errorf("read exclusion setting: %w", err)
	}
	if exclude {
		opts.PriorWinners, err = s.repo.ListWinnerIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("load prior winners: %w", err)
		}
	}

	results, err := s.engine.Draw(ctx, s.repo, catIDs, opts)
	if err != nil {
		s.log.Error("Draw aborted", "cats", catIDs, "error", err)
		return nil, fmt.Errorf("draw: %w", err)
	}

	drawID := uuid.NewString()
	state := lottery.Drawn(drawID, results)
	s.stamp(&state, current.Revision)
	record := &models.DrawRecord{
		ID:        drawID,
		CreatedAt: state.UpdatedAt,
		CatIDs:    append([]int(nil), catIDs...),
		Results:   results,
	}
	if err := s.repo.SaveDraw(ctx, record, &state, current.Revision); err != nil {
		return nil, s.writeError(err)
	}

	filled := 0
	for _, r := range results {
		filled += r.FilledCount()
	}
	s.log.Info("Draw completed",
		"draw_id", drawID,
		"cats", catIDs,
		"slots_filled", filled,
		"excluded_prior", len(opts.PriorWinners),
		"revision", state.Revision)
	s.broadcast(&state)
	return &state, nil
}

// validateSelection rejects selections that can never be drawn
func validateSelection(catIDs []int) error {
	if len(catIDs) == 0 {
		return errors.Validation("selected_cat_ids must not be empty")
	}
	seen := make(map[int]bool, len(catIDs))
	for _, id := range catIDs {
		if id <= 0 {
			return errors.Validationf("invalid cat id %d", id)
		}
		if seen[id] {
			return errors.Validationf("cat id %d selected twice", id)
		}
		seen[id] = true
	}
	return nil
}

// selectedCats loads the cats in selection order and rejects unknown or inactive ones
func (s *LotteryService) selectedCats(ctx context.Context, catIDs []int) ([]models.Cat, error) {
	found, err := s.repo.GetCatsByIDs(ctx, catIDs)
	if err != nil {
		return nil, fmt.Errorf("load cats: %w", err)
	}
	byID := make(map[int]models.Cat, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}

	cats := make([]models.Cat, 0, len(catIDs))
	for _, id := range catIDs {
		cat, ok := byID[id]
		if !ok {
			return nil, errors.Validationf("unknown cat id %d", id)
		}
		if !cat.Active {
			return nil, errors.Validationf("cat %d is not active", id)
		}
		cats = append(cats, cat)
	}
	return cats, nil
}

func (s *LotteryService) stamp(state *models.LiveState, prevRevision int64) {
	state.UpdatedAt = s.now().UTC()
	state.Revision = prevRevision + 1
}

func (s *LotteryService) writeError(err error) error {
	if err == repository.ErrStaleRevision {
		s.log.Warn("Live state changed concurrently")
		return errors.Wrap(err, errors.ErrConflict, "live state was changed by another request, retry")
	}
	return fmt.Errorf("save live state: %w", err)
}

// broadcast sends the live state to all connected clients
func (s *LotteryService) broadcast(state *models.LiveState) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastLiveState(state)
	}
}
