package models

import "time"

// Cat represents a cat that can be put up for a drawing round
type Cat struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Popular  bool   `json:"popular"` // UI uses single-select for popular cats
	Active   bool   `json:"active"`
	ImageURL string `json:"image_url,omitempty"`
}

// Applicant represents a person applying to adopt
type Applicant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Township string `json:"township,omitempty"`
}

// Application is an applicant's list of requested cats. Seq is the arrival order.
type Application struct {
	ApplicantID string `json:"applicant_id"`
	Choices     []int  `json:"choices"`
	Seq         int64  `json:"seq"`
}

// Rank identifies a winner slot
type Rank string

const (
	RankPrimary    Rank = "primary"
	RankAlternate1 Rank = "alternate1"
	RankAlternate2 Rank = "alternate2"
)

// Ranks lists the slot ranks in order
var Ranks = []Rank{RankPrimary, RankAlternate1, RankAlternate2}

// SlotsPerCat is the number of winner slots each cat gets
const SlotsPerCat = 3

// DrawStatus summarises how a cat's slots were filled
type DrawStatus string

const (
	StatusPending      DrawStatus = "pending"
	StatusNoApplicants DrawStatus = "no_applicants"
	StatusInsufficient DrawStatus = "insufficient"
	StatusFilled       DrawStatus = "filled"
)

// WinnerSlot is one ranked slot of a draw result. Only display-safe fields.
type WinnerSlot struct {
	Rank        Rank   `json:"rank"`
	Filled      bool   `json:"filled"`
	ApplicantID string `json:"applicant_id,omitempty"`
	Name        string `json:"name,omitempty"`
	Township    string `json:"township,omitempty"`
	MaskedPhone string `json:"masked_phone,omitempty"`
}

// DrawResult is the outcome for one cat
type DrawResult struct {
	CatID    int          `json:"cat_id"`
	CatName  string       `json:"cat_name"`
	CatLabel string       `json:"cat_label"`
	Status   DrawStatus   `json:"status"`
	Note     string       `json:"note,omitempty"`
	PoolSize int          `json:"pool_size"`
	Winners  []WinnerSlot `json:"winners"`
}

// FilledCount returns how many slots hold a winner
func (r DrawResult) FilledCount() int {
	n := 0
	for _, w := range r.Winners {
		if w.Filled {
			n++
		}
	}
	return n
}

// Phase is the display phase of the live state
type Phase string

const (
	PhasePreview Phase = "preview"
	PhaseDrawn   Phase = "drawn"
)

// LiveState is the singleton snapshot shown on the public display
type LiveState struct {
	Phase          Phase        `json:"phase"`
	SelectedCatIDs []int        `json:"selected_cat_ids"`
	Results        []DrawResult `json:"results"`
	UpdatedAt      time.Time    `json:"updated_at"`
	Revision       int64        `json:"revision"`
	DrawID         string       `json:"draw_id,omitempty"`
}

// DrawRecord is a persisted draw in the history log
type DrawRecord struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	CatIDs    []int        `json:"cat_ids"`
	Results   []DrawResult `json:"results"`
}

// Setting keys
const (
	SettingExcludePriorWinners = "exclude_prior_winners"
	SettingBaseURL             = "base_url"
)

// Settings represents the admin-editable settings
type Settings struct {
	ExcludePriorWinners bool   `json:"exclude_prior_winners"`
	BaseURL             string `json:"base_url"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
