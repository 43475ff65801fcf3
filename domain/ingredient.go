package domain

import "errors"

var (
	MessageSuccessAddIngredient    = "ingredient added successfully"
	MessageSuccessUpdateIngredient = "ingredient updated successfully"
	MessageSuccessDeleteIngredient = "ingredient deleted successfully"
	MessageSuccessGetIngredients   = "ingredients retrieved successfully"
	MessageSuccessGetSummary       = "freshness summary retrieved successfully"
	MessageSuccessGetSuggestions   = "suggestions retrieved successfully"

	MessageFailedAddIngredient    = "failed to add ingredient"
	MessageFailedUpdateIngredient = "failed to update ingredient"
	MessageFailedDeleteIngredient = "failed to delete ingredient"
	MessageFailedGetIngredients   = "failed to retrieve ingredients"
	MessageFailedGetSummary       = "failed to retrieve freshness summary"
	MessageFailedGetSuggestions   = "failed to retrieve suggestions"

	ErrIngredientNotFound    = errors.New("ingredient not found")
	ErrStoreUnavailable      = errors.New("record store is unavailable")
	ErrInvalidName           = errors.New("ingredient name must not be empty")
	ErrInvalidEntryDate      = errors.New("invalid entry date")
	ErrInvalidExpiryDate     = errors.New("invalid expiry date")
	ErrExpiryRequired        = errors.New("exactly one of expiryDate or expiryDays is required")
	ErrInvalidCategory       = errors.New("invalid category")
	ErrInvalidCategoryFilter = errors.New("invalid category filter")
)

type (
	AddIngredientRequest struct {
		Name       string `json:"name" validate:"required"`
		EntryDate  string `json:"entryDate" validate:"required,datetime=2006-01-02"`
		ExpiryDate string `json:"expiryDate" validate:"omitempty,datetime=2006-01-02"`
		ExpiryDays *int   `json:"expiryDays" validate:"omitempty,min=0"`
		Category   string `json:"category"`
	}

	// UpdateIngredientRequest changes only the fields that are present.
	UpdateIngredientRequest struct {
		Name       *string `json:"name" validate:"omitempty,min=1"`
		EntryDate  *string `json:"entryDate" validate:"omitempty,datetime=2006-01-02"`
		ExpiryDate *string `json:"expiryDate" validate:"omitempty,datetime=2006-01-02"`
		Category   *string `json:"category"`
	}

	IngredientResponse struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		EntryDate     string `json:"entryDate"`
		ExpiryDate    string `json:"expiryDate"`
		Category      string `json:"category"`
		Status        string `json:"status"`
		RemainingDays int    `json:"remainingDays"`
	}

	IngredientSummaryResponse struct {
		Total   int    `json:"total"`
		Expired int    `json:"expired"`
		Urgent  int    `json:"urgent"`
		Safe    int    `json:"safe"`
		Banner  string `json:"banner,omitempty"`
	}

	SuggestionResponse struct {
		Name     string `json:"name"`
		Category string `json:"category,omitempty"`
	}
)
