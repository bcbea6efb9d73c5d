package handlers

// LoginRequest is the body of the JSON admin login
type LoginRequest struct {
	Password string `json:"password"`
}

// LiveSelectionRequest selects the cats for a preview or draw
type LiveSelectionRequest struct {
	SelectedCatIDs []int `json:"selected_cat_ids"`
}

// CatRequest represents a request to create or update a cat
type CatRequest struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Popular  bool   `json:"popular"`
	Active   *bool  `json:"active"`
	ImageURL string `json:"image_url"`
}

// ApplicantCreateRequest represents a request to create an applicant
type ApplicantCreateRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Township string `json:"township"`
	Choices  []int  `json:"choices"`
}

// ApplicationRequest replaces an applicant's choices
type ApplicationRequest struct {
	Choices []int `json:"choices"`
}

// SettingsUpdateRequest represents a request to update settings
type SettingsUpdateRequest struct {
	ExcludePriorWinners *bool   `json:"exclude_prior_winners"`
	BaseURL             *string `json:"base_url"`
}

// DatabaseResetRequest represents a request to reset database tables
type DatabaseResetRequest struct {
	Tables []string `json:"tables"`
}

// SeedMockDataRequest represents a request to seed mock data
type SeedMockDataRequest struct {
	SeedType string `json:"seed_type"` // cats, applicants or all (default)
	Count    int    `json:"count"`
}
