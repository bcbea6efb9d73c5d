package lottery

import (
	"fmt"
	"strings"

	"github.com/u83213089-oss/cat-lottery/internal/models"
)

// Preview builds the pre-draw display state: one pending result per cat with
// every slot empty. Timestamp and revision are left for the caller to stamp.
func Preview(cats []models.Cat) models.LiveState {
	state := models.LiveState{
		Phase:          models.PhasePreview,
		SelectedCatIDs: make([]int, 0, len(cats)),
		Results:        make([]models.DrawResult, 0, len(cats)),
	}
	for _, cat := range cats {
		state.SelectedCatIDs = append(state.SelectedCatIDs, cat.ID)
		state.Results = append(state.Results, models.DrawResult{
			CatID:    cat.ID,
			CatName:  CatName(cat),
			CatLabel: CatLabel(cat.ID),
			Status:   models.StatusPending,
			Winners:  emptySlots(),
		})
	}
	return state
}

// Drawn builds the post-draw display state from engine results.
func Drawn(drawID string, results []models.DrawResult) models.LiveState {
	state := models.LiveState{
		Phase:          models.PhaseDrawn,
		SelectedCatIDs: make([]int, 0, len(results)),
		Results:        make([]models.DrawResult, 0, len(results)),
		DrawID:         drawID,
	}
	for _, r := range results {
		state.SelectedCatIDs = append(state.SelectedCatIDs, r.CatID)
		// copy so later edits to results don't leak into the state
		r.Winners = append([]models.WinnerSlot(nil), r.Winners...)
		state.Results = append(state.Results, r)
	}
	return state
}

// CatLabel renders the short display label, e.g. "No. 05".
func CatLabel(id int) string {
	return fmt.Sprintf("No. %02d", id)
}

// CatName returns the cat's name, or "Cat <id>" when it has none.
func CatName(cat models.Cat) string {
	if name := strings.TrimSpace(cat.Name); name != "" {
		return name
	}
	return fmt.Sprintf("Cat %d", cat.ID)
}

// MaskPhone keeps the first and last three characters. Short numbers are hidden entirely.
func MaskPhone(phone string) string {
	r := []rune(strings.TrimSpace(phone))
	switch {
	case len(r) == 0:
		return ""
	case len(r) <= 6:
		return "****"
	default:
		return string(r[:3]) + "****" + string(r[len(r)-3:])
	}
}

func emptySlots() []models.WinnerSlot {
	slots := make([]models.WinnerSlot, len(models.Ranks))
	for i, rank := range models.Ranks {
		slots[i] = models.WinnerSlot{Rank: rank}
	}
	return slots
}
