package ingredient

import (
	"Fridge-Keeper/domain"
	"Fridge-Keeper/entities"
	"Fridge-Keeper/pkg/category"
	"Fridge-Keeper/pkg/freshness"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotifyTimeout bounds the immediate alert dispatched from AddIngredient.
const NotifyTimeout = 3 * time.Second

type (
	IngredientService interface {
		GetIngredients(ctx context.Context, filter string) ([]domain.IngredientResponse, error)
		GetSummary(ctx context.Context) (domain.IngredientSummaryResponse, error)
		AddIngredient(ctx context.Context, req domain.AddIngredientRequest) (domain.IngredientResponse, error)
		UpdateIngredient(ctx context.Context, id string, req domain.UpdateIngredientRequest) error
		DeleteIngredient(ctx context.Context, id string) error
		GetSuggestions(ctx context.Context, query string) ([]domain.SuggestionResponse, error)

		// Snapshot returns the list as of the last refresh from the store.
		Snapshot() []domain.IngredientResponse
	}

	// Notifier is consulted once for every newly added ingredient.
	Notifier interface {
		NotifyAdded(ctx context.Context, name string, expiryDate time.Time) (domain.SendNotificationResponse, error)
	}

	ingredientService struct {
		ingredientRepository IngredientRepository
		notifier             Notifier
		notifyTimeout        time.Duration
		clock                func() time.Time

		mu    sync.RWMutex
		items []domain.IngredientResponse
	}
)

func NewIngredientService(ingredientRepository IngredientRepository, notifier Notifier, clock func() time.Time) IngredientService {
	if clock == nil {
		clock = time.Now
	}
	return &ingredientService{
		ingredientRepository: ingredientRepository,
		notifier:             notifier,
		notifyTimeout:        NotifyTimeout,
		clock:                clock,
	}
}

func (s *ingredientService) GetIngredients(ctx context.Context, filter string) ([]domain.IngredientResponse, error) {
	f := category.Category(filter)
	if f != "" && !category.IsFilter(f) {
		return nil, domain.ErrInvalidCategoryFilter
	}

	items, err := s.refresh(ctx)
	if err != nil {
		return nil, err
	}
	if f == "" || f == category.All {
		return items, nil
	}

	filtered := make([]domain.IngredientResponse, 0, len(items))
	for _, item := range items {
		if item.Category == string(f) {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

func (s *ingredientService) GetSummary(ctx context.Context) (domain.IngredientSummaryResponse, error) {
	items, err := s.refresh(ctx)
	if err != nil {
		return domain.IngredientSummaryResponse{}, err
	}

	summary := domain.IngredientSummaryResponse{Total: len(items)}
	var urgent []domain.IngredientResponse
	for _, item := range items {
		switch freshness.Status(item.Status) {
		case freshness.StatusExpired:
			summary.Expired++
		case freshness.StatusUrgent:
			summary.Urgent++
			urgent = append(urgent, item)
		default:
			summary.Safe++
		}
	}
	summary.Banner = bannerText(urgent)
	return summary, nil
}

func bannerText(urgent []domain.IngredientResponse) string {
	switch len(urgent) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("%s의 마감 기한이 %d일 남았어요!", urgent[0].Name, urgent[0].RemainingDays)
	default:
		return fmt.Sprintf("%s 외 %d개의 기한이 임박했어요!", urgent[0].Name, len(urgent)-1)
	}
}

func (s *ingredientService) AddIngredient(ctx context.Context, req domain.AddIngredientRequest) (domain.IngredientResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.IngredientResponse{}, domain.ErrInvalidName
	}

	entryDate, err := freshness.ParseDate(req.EntryDate)
	if err != nil {
		return domain.IngredientResponse{}, domain.ErrInvalidEntryDate
	}

	expiryDate, err := resolveExpiryDate(entryDate, req.ExpiryDate, req.ExpiryDays)
	if err != nil {
		return domain.IngredientResponse{}, err
	}

	explicit := category.Category(req.Category)
	if explicit != "" && explicit != category.All && !category.IsStored(explicit) {
		return domain.IngredientResponse{}, domain.ErrInvalidCategory
	}

	ingredient := &entities.Ingredient{
		ID:         uuid.New(),
		Name:       name,
		EntryDate:  entryDate,
		ExpiryDate: expiryDate,
		Category:   string(category.Resolve(name, explicit)),
	}

	if err := s.ingredientRepository.AddIngredient(ctx, ingredient); err != nil {
		log.Errorf("AddIngredient: Error persisting ingredient: %s, err: %v", name, err)
		return domain.IngredientResponse{}, domain.ErrStoreUnavailable
	}

	s.rememberSuggestion(ctx, ingredient.Name, ingredient.Category)

	if s.notifier != nil {
		notifyCtx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
		if _, err := s.notifier.NotifyAdded(notifyCtx, ingredient.Name, ingredient.ExpiryDate); err != nil {
			log.Warnf("AddIngredient: Error dispatching notification for ingredient: %s, err: %v", name, err)
		}
		cancel()
	}

	if _, err := s.refresh(ctx); err != nil {
		log.Warnf("AddIngredient: Error refreshing ingredient list, err: %v", err)
	}

	return s.toResponse(ingredient), nil
}

func resolveExpiryDate(entryDate time.Time, expiryDate string, expiryDays *int) (time.Time, error) {
	switch {
	case expiryDate != "" && expiryDays != nil, expiryDate == "" && expiryDays == nil:
		return time.Time{}, domain.ErrExpiryRequired
	case expiryDays != nil:
		if *expiryDays < 0 {
			return time.Time{}, domain.ErrInvalidExpiryDate
		}
		return entryDate.AddDate(0, 0, *expiryDays), nil
	default:
		d, err := freshness.ParseDate(expiryDate)
		if err != nil {
			return time.Time{}, domain.ErrInvalidExpiryDate
		}
		return d, nil
	}
}

func (s *ingredientService) UpdateIngredient(ctx context.Context, id string, req domain.UpdateIngredientRequest) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrIngredientNotFound
	}

	existing, err := s.ingredientRepository.GetIngredientByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrIngredientNotFound
		}
		log.Errorf("UpdateIngredient: Error finding ingredient, ID: %s, err: %v", id, err)
		return domain.ErrStoreUnavailable
	}

	fields := map[string]any{}
	renamed := ""

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.ErrInvalidName
		}
		if name != existing.Name {
			renamed = name
		}
		fields["name"] = name
	}

	if req.EntryDate != nil {
		d, err := freshness.ParseDate(*req.EntryDate)
		if err != nil {
			return domain.ErrInvalidEntryDate
		}
		fields["entry_date"] = d
	}

	if req.ExpiryDate != nil {
		d, err := freshness.ParseDate(*req.ExpiryDate)
		if err != nil {
			return domain.ErrInvalidExpiryDate
		}
		fields["expiry_date"] = d
	}

	switch {
	case req.Category != nil:
		c := category.Category(*req.Category)
		if !category.IsStored(c) {
			return domain.ErrInvalidCategory
		}
		fields["category"] = string(c)
	case renamed != "":
		// a renamed item must not keep the category of its old name
		fields["category"] = string(category.Infer(renamed))
	}

	if len(fields) == 0 {
		return nil
	}

	if err := s.ingredientRepository.UpdateIngredient(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrIngredientNotFound
		}
		log.Errorf("UpdateIngredient: Error updating ingredient, ID: %s, err: %v", id, err)
		return domain.ErrStoreUnavailable
	}

	if renamed != "" {
		s.rememberSuggestion(ctx, renamed, fmt.Sprint(fields["category"]))
	}

	if _, err := s.refresh(ctx); err != nil {
		log.Warnf("UpdateIngredient: Error refreshing ingredient list, err: %v", err)
	}
	return nil
}

// DeleteIngredient treats an unknown id as already deleted.
func (s *ingredientService) DeleteIngredient(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		log.Debugf("DeleteIngredient: Ignoring malformed ID: %s", id)
		return nil
	}

	if err := s.ingredientRepository.DeleteIngredient(ctx, id); err != nil {
		log.Errorf("DeleteIngredient: Error deleting ingredient, ID: %s, err: %v", id, err)
		return domain.ErrStoreUnavailable
	}

	if _, err := s.refresh(ctx); err != nil {
		log.Warnf("DeleteIngredient: Error refreshing ingredient list, err: %v", err)
	}
	return nil
}

func (s *ingredientService) GetSuggestions(ctx context.Context, query string) ([]domain.SuggestionResponse, error) {
	suggestions, err := s.ingredientRepository.GetSuggestions(ctx, strings.TrimSpace(query))
	if err != nil {
		log.Errorf("GetSuggestions: Error finding suggestions, err: %v", err)
		return nil, domain.ErrStoreUnavailable
	}

	response := make([]domain.SuggestionResponse, 0, len(suggestions))
	for _, sg := range suggestions {
		response = append(response, domain.SuggestionResponse{Name: sg.Name, Category: sg.Category})
	}
	return response, nil
}

func (s *ingredientService) Snapshot() []domain.IngredientResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.IngredientResponse, len(s.items))
	copy(out, s.items)
	return out
}

// rememberSuggestion is best-effort; failures are logged and never returned.
func (s *ingredientService) rememberSuggestion(ctx context.Context, name, cat string) {
	exists, err := s.ingredientRepository.SuggestionExists(ctx, name)
	if err != nil {
		log.Warnf("rememberSuggestion: Error checking suggestion: %s, err: %v", name, err)
		return
	}
	if exists {
		return
	}
	if err := s.ingredientRepository.AddSuggestion(ctx, &entities.Suggestion{Name: name, Category: cat}); err != nil {
		log.Warnf("rememberSuggestion: Error inserting suggestion: %s, err: %v", name, err)
	}
}

// refresh re-reads the whole store and replaces the in-memory list. The list
// is never patched locally.
func (s *ingredientService) refresh(ctx context.Context) ([]domain.IngredientResponse, error) {
	ingredients, err := s.ingredientRepository.GetIngredients(ctx)
	if err != nil {
		log.Errorf("refresh: Error fetching ingredients, err: %v", err)
		return nil, domain.ErrStoreUnavailable
	}

	sort.SliceStable(ingredients, func(i, j int) bool {
		return ingredients[i].ExpiryDate.Before(ingredients[j].ExpiryDate)
	})

	items := make([]domain.IngredientResponse, 0, len(ingredients))
	for _, ingredient := range ingredients {
		items = append(items, s.toResponse(ingredient))
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	out := make([]domain.IngredientResponse, len(items))
	copy(out, items)
	return out, nil
}

func (s *ingredientService) toResponse(ingredient *entities.Ingredient) domain.IngredientResponse {
	now := s.clock()
	days := freshness.RemainingDays(ingredient.ExpiryDate, now)
	return domain.IngredientResponse{
		ID:            ingredient.ID.String(),
		Name:          ingredient.Name,
		EntryDate:     freshness.FormatDate(ingredient.EntryDate),
		ExpiryDate:    freshness.FormatDate(ingredient.ExpiryDate),
		Category:      string(category.Normalize(ingredient.Name, category.Category(ingredient.Category))),
		Status:        string(freshness.StatusForDays(days)),
		RemainingDays: days,
	}
}
