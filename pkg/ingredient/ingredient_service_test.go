package ingredient

import (
	"Fridge-Keeper/domain"
	"Fridge-Keeper/entities"
	"Fridge-Keeper/pkg/category"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// -------- test fakes --------

type fakeRepo struct {
	mu          sync.Mutex
	rows        []*entities.Ingredient
	suggestions map[string]*entities.Suggestion

	addErr         error
	listErr        error
	suggestionErr  error
	suggestionAdds int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{suggestions: map[string]*entities.Suggestion{}}
}

func (f *fakeRepo) GetIngredients(ctx context.Context) ([]*entities.Ingredient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*entities.Ingredient, 0, len(f.rows))
	for _, r := range f.rows {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeRepo) GetIngredientByID(ctx context.Context, id string) (*entities.Ingredient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID.String() == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) GetIngredientsByExpiryRange(ctx context.Context, startDate, endDate time.Time) ([]*entities.Ingredient, error) {
	return nil, errors.New("not used")
}

func (f *fakeRepo) AddIngredient(ctx context.Context, ingredient *entities.Ingredient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	cp := *ingredient
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeRepo) UpdateIngredient(ctx context.Context, id string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID.String() != id {
			continue
		}
		for k, v := range fields {
			switch k {
			case "name":
				r.Name = v.(string)
			case "entry_date":
				r.EntryDate = v.(time.Time)
			case "expiry_date":
				r.ExpiryDate = v.(time.Time)
			case "category":
				r.Category = v.(string)
			}
		}
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRepo) DeleteIngredient(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.rows[:0]
	for _, r := range f.rows {
		if r.ID.String() != id {
			kept = append(kept, r)
		}
	}
	f.rows = kept
	return nil
}

func (f *fakeRepo) SuggestionExists(ctx context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.suggestions[name]
	return ok, nil
}

func (f *fakeRepo) AddSuggestion(ctx context.Context, suggestion *entities.Suggestion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.suggestionErr != nil {
		return f.suggestionErr
	}
	f.suggestionAdds++
	f.suggestions[suggestion.Name] = suggestion
	return nil
}

func (f *fakeRepo) GetSuggestions(ctx context.Context, query string) ([]*entities.Suggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.Suggestion
	for _, s := range f.suggestions {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeRepo) seed(name, expiry, cat string) *entities.Ingredient {
	d, _ := time.Parse(time.DateOnly, expiry)
	row := &entities.Ingredient{ID: uuid.New(), Name: name, EntryDate: d.AddDate(0, 0, -7), ExpiryDate: d, Category: cat}
	f.rows = append(f.rows, row)
	return row
}

type fakeNotifier struct {
	calls []string
	err   error
	// hang waits for the context to end, like a push service that never answers
	hang bool
}

func (n *fakeNotifier) NotifyAdded(ctx context.Context, name string, expiryDate time.Time) (domain.SendNotificationResponse, error) {
	n.calls = append(n.calls, name)
	if n.hang {
		<-ctx.Done()
		return domain.SendNotificationResponse{}, ctx.Err()
	}
	if n.err != nil {
		return domain.SendNotificationResponse{}, n.err
	}
	return domain.SendNotificationResponse{Success: true, Items: 1, Sent: 1}, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var now = time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

// -------- tests --------

func TestAddIngredient_ThenListContainsExactlyOneNewRecord(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("우유", "2025-01-20", "유제품")
	svc := NewIngredientService(repo, nil, fixedClock(now))
	ctx := context.Background()

	res, err := svc.AddIngredient(ctx, domain.AddIngredientRequest{
		Name:       "  사과 ",
		EntryDate:  "2025-01-01",
		ExpiryDate: "2025-01-10",
	})
	require.NoError(t, err)

	items, err := svc.GetIngredients(ctx, "")
	require.NoError(t, err)
	require.Len(t, items, 2)

	var matches []domain.IngredientResponse
	for _, item := range items {
		if item.ID == res.ID {
			matches = append(matches, item)
		}
	}
	require.Len(t, matches, 1)
	assert.Equal(t, domain.IngredientResponse{
		ID:            res.ID,
		Name:          "사과",
		EntryDate:     "2025-01-01",
		ExpiryDate:    "2025-01-10",
		Category:      "과일",
		Status:        "safe",
		RemainingDays: 5,
	}, matches[0])
}

func TestAddIngredient_CategoryResolution(t *testing.T) {
	tests := []struct {
		desc     string
		name     string
		explicit string
		want     string
	}{
		{"inferred when absent", "고등어", "", "생선"},
		{"explicit wins over inference", "고등어", "기타", "기타"},
		{"filter-only value counts as absent", "딸기", "전체", "과일"},
		{"no keyword defaults to other", "두부", "", "기타"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			repo := newFakeRepo()
			svc := NewIngredientService(repo, nil, fixedClock(now))

			res, err := svc.AddIngredient(context.Background(), domain.AddIngredientRequest{
				Name: tt.name, EntryDate: "2025-01-01", ExpiryDays: intPtr(7), Category: tt.explicit,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Category)
			require.Len(t, repo.rows, 1)
			assert.Equal(t, tt.want, repo.rows[0].Category)
		})
	}
}

func TestAddIngredient_RejectsUnknownCategory(t *testing.T) {
	svc := NewIngredientService(newFakeRepo(), nil, fixedClock(now))

	_, err := svc.AddIngredient(context.Background(), domain.AddIngredientRequest{
		Name: "두부", EntryDate: "2025-01-01", ExpiryDays: intPtr(3), Category: "고기",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
}

func TestAddIngredient_ExpiryInput(t *testing.T) {
	ctx := context.Background()
	svc := NewIngredientService(newFakeRepo(), nil, fixedClock(now))

	res, err := svc.AddIngredient(ctx, domain.AddIngredientRequest{Name: "두부", EntryDate: "2025-01-30", ExpiryDays: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, "2025-02-02", res.ExpiryDate)

	_, err = svc.AddIngredient(ctx, domain.AddIngredientRequest{Name: "두부", EntryDate: "2025-01-01"})
	assert.ErrorIs(t, err, domain.ErrExpiryRequired)

	_, err = svc.AddIngredient(ctx, domain.AddIngredientRequest{
		Name: "두부", EntryDate: "2025-01-01", ExpiryDate: "2025-01-03", ExpiryDays: intPtr(2),
	})
	assert.ErrorIs(t, err, domain.ErrExpiryRequired)

	_, err = svc.AddIngredient(ctx, domain.AddIngredientRequest{Name: "두부", EntryDate: "01/01/2025", ExpiryDays: intPtr(2)})
	assert.ErrorIs(t, err, domain.ErrInvalidEntryDate)

	_, err = svc.AddIngredient(ctx, domain.AddIngredientRequest{Name: "   ", EntryDate: "2025-01-01", ExpiryDays: intPtr(2)})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestAddIngredient_AcceptsExpiryBeforeEntry(t *testing.T) {
	svc := NewIngredientService(newFakeRepo(), nil, fixedClock(now))

	res, err := svc.AddIngredient(context.Background(), domain.AddIngredientRequest{
		Name: "요거트", EntryDate: "2025-01-04", ExpiryDate: "2025-01-02",
	})
	require.NoError(t, err)
	assert.Equal(t, "expired", res.Status)
	assert.Equal(t, -3, res.RemainingDays)
}

func TestAddIngredient_RemembersNewNamesOnce(t *testing.T) {
	repo := newFakeRepo()
	svc := NewIngredientService(repo, nil, fixedClock(now))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.AddIngredient(ctx, domain.AddIngredientRequest{Name: "계란", EntryDate: "2025-01-01", ExpiryDays: intPtr(14)})
		require.NoError(t, err)
	}

	assert.Equal(t, 1, repo.suggestionAdds)
	assert.Equal(t, "동물성", repo.suggestions["계란"].Category)

	sgs, err := svc.GetSuggestions(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []domain.SuggestionResponse{{Name: "계란", Category: "동물성"}}, sgs)
}

func TestAddIngredient_SideEffectFailuresDoNotFailTheAdd(t *testing.T) {
	repo := newFakeRepo()
	repo.suggestionErr = errors.New("suggestions table locked")
	notifier := &fakeNotifier{err: errors.New("push service down")}
	svc := NewIngredientService(repo, notifier, fixedClock(now))

	res, err := svc.AddIngredient(context.Background(), domain.AddIngredientRequest{
		Name: "두부", EntryDate: "2025-01-01", ExpiryDate: "2025-01-06",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, []string{"두부"}, notifier.calls)
	assert.Len(t, repo.rows, 1)
}

func TestAddIngredient_SlowNotificationIsCutOff(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{hang: true}
	svc := NewIngredientService(repo, notifier, fixedClock(now))
	svc.(*ingredientService).notifyTimeout = 20 * time.Millisecond

	done := make(chan error, 1)
	go func() {
		_, err := svc.AddIngredient(context.Background(), domain.AddIngredientRequest{
			Name: "두부", EntryDate: "2025-01-01", ExpiryDate: "2025-01-06",
		})
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("AddIngredient waited on a hanging notifier")
	}
	assert.Equal(t, []string{"두부"}, notifier.calls)
	assert.Len(t, repo.rows, 1)
}

func TestAddIngredient_StoreFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.addErr = errors.New("connection refused")
	notifier := &fakeNotifier{}
	svc := NewIngredientService(repo, notifier, fixedClock(now))

	_, err := svc.AddIngredient(context.Background(), domain.AddIngredientRequest{
		Name: "두부", EntryDate: "2025-01-01", ExpiryDate: "2025-01-06",
	})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Empty(t, notifier.calls, "nothing is announced for an item that was not stored")
	assert.Zero(t, repo.suggestionAdds)
}

func TestGetIngredients_SortedByExpiryWithStableTies(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("b-late", "2025-02-01", "")
	repo.seed("a-first-of-tie", "2025-01-10", "")
	repo.seed("c-soonest", "2025-01-03", "")
	repo.seed("d-second-of-tie", "2025-01-10", "")
	svc := NewIngredientService(repo, nil, fixedClock(now))

	items, err := svc.GetIngredients(context.Background(), "")
	require.NoError(t, err)

	var names []string
	for _, item := range items {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"c-soonest", "a-first-of-tie", "d-second-of-tie", "b-late"}, names)
}

func TestGetIngredients_FilterAndDegradedStore(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("우유", "2025-01-10", "유제품")
	repo.seed("대파", "2025-01-11", "채소")
	svc := NewIngredientService(repo, nil, fixedClock(now))
	ctx := context.Background()

	items, err := svc.GetIngredients(ctx, "채소")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "대파", items[0].Name)

	items, err = svc.GetIngredients(ctx, string(category.All))
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = svc.GetIngredients(ctx, "고기")
	assert.ErrorIs(t, err, domain.ErrInvalidCategoryFilter)

	repo.listErr = errors.New("dial tcp: connection refused")
	_, err = svc.GetIngredients(ctx, "")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Len(t, svc.Snapshot(), 2, "last good snapshot is kept")
}

func TestGetIngredients_NormalizesLegacyCategoriesOnRead(t *testing.T) {
	repo := newFakeRepo()
	egg := repo.seed("계란후라이", "2025-01-10", "기타")
	pork := repo.seed("삼겹살", "2025-01-11", "고기")
	repo.seed("바나나", "2025-01-12", "")
	svc := NewIngredientService(repo, nil, fixedClock(now))

	items, err := svc.GetIngredients(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "동물성", items[0].Category)
	assert.Equal(t, "육류", items[1].Category)
	assert.Equal(t, "과일", items[2].Category)

	assert.Equal(t, "기타", egg.Category, "normalization is never written back")
	assert.Equal(t, "고기", pork.Category)
}

func TestUpdateIngredient_PartialFields(t *testing.T) {
	repo := newFakeRepo()
	row := repo.seed("우유", "2025-01-10", "유제품")
	svc := NewIngredientService(repo, nil, fixedClock(now))

	err := svc.UpdateIngredient(context.Background(), row.ID.String(), domain.UpdateIngredientRequest{
		ExpiryDate: strPtr("2025-01-06"),
	})
	require.NoError(t, err)

	assert.Equal(t, "우유", row.Name)
	assert.Equal(t, "유제품", row.Category)
	assert.Equal(t, "2025-01-06", row.ExpiryDate.Format(time.DateOnly))

	snap := svc.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "urgent", snap[0].Status)
}

func TestUpdateIngredient_RenameReinfersCategory(t *testing.T) {
	repo := newFakeRepo()
	row := repo.seed("우유", "2025-01-10", "유제품")
	svc := NewIngredientService(repo, nil, fixedClock(now))
	ctx := context.Background()

	require.NoError(t, svc.UpdateIngredient(ctx, row.ID.String(), domain.UpdateIngredientRequest{Name: strPtr("연어")}))
	assert.Equal(t, "생선", row.Category)
	assert.Contains(t, repo.suggestions, "연어")

	require.NoError(t, svc.UpdateIngredient(ctx, row.ID.String(), domain.UpdateIngredientRequest{
		Name: strPtr("훈제 닭"), Category: strPtr("기타"),
	}))
	assert.Equal(t, "기타", row.Category, "explicit category in the same update wins")

	require.NoError(t, svc.UpdateIngredient(ctx, row.ID.String(), domain.UpdateIngredientRequest{Name: strPtr("훈제 닭")}))
	assert.Equal(t, "기타", row.Category, "same name is not a rename")
}

func TestUpdateIngredient_Errors(t *testing.T) {
	repo := newFakeRepo()
	row := repo.seed("우유", "2025-01-10", "유제품")
	svc := NewIngredientService(repo, nil, fixedClock(now))
	ctx := context.Background()

	assert.ErrorIs(t, svc.UpdateIngredient(ctx, uuid.NewString(), domain.UpdateIngredientRequest{Name: strPtr("x")}), domain.ErrIngredientNotFound)
	assert.ErrorIs(t, svc.UpdateIngredient(ctx, "not-a-uuid", domain.UpdateIngredientRequest{}), domain.ErrIngredientNotFound)
	assert.ErrorIs(t, svc.UpdateIngredient(ctx, row.ID.String(), domain.UpdateIngredientRequest{Name: strPtr(" ")}), domain.ErrInvalidName)
	assert.ErrorIs(t, svc.UpdateIngredient(ctx, row.ID.String(), domain.UpdateIngredientRequest{Category: strPtr("전체")}), domain.ErrInvalidCategory)
	assert.ErrorIs(t, svc.UpdateIngredient(ctx, row.ID.String(), domain.UpdateIngredientRequest{ExpiryDate: strPtr("tomorrow")}), domain.ErrInvalidExpiryDate)
}

func TestDeleteIngredient_Idempotent(t *testing.T) {
	repo := newFakeRepo()
	row := repo.seed("우유", "2025-01-10", "유제품")
	svc := NewIngredientService(repo, nil, fixedClock(now))
	ctx := context.Background()

	require.NoError(t, svc.DeleteIngredient(ctx, row.ID.String()))
	require.NoError(t, svc.DeleteIngredient(ctx, row.ID.String()))
	require.NoError(t, svc.DeleteIngredient(ctx, uuid.NewString()))
	require.NoError(t, svc.DeleteIngredient(ctx, "garbage"))

	items, err := svc.GetIngredients(ctx, "")
	require.NoError(t, err)
	for _, item := range items {
		assert.NotEqual(t, row.ID.String(), item.ID)
	}
}

func TestSnapshot_RefreshedFromStoreAfterMutation(t *testing.T) {
	repo := newFakeRepo()
	svc := NewIngredientService(repo, nil, fixedClock(now))
	ctx := context.Background()

	// another client writes directly to the store
	repo.seed("배추", "2025-01-20", "채소")

	_, err := svc.AddIngredient(ctx, domain.AddIngredientRequest{Name: "두부", EntryDate: "2025-01-01", ExpiryDays: intPtr(5)})
	require.NoError(t, err)

	snap := svc.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "두부", snap[0].Name)
	assert.Equal(t, "배추", snap[1].Name)
}

func TestGetSummary(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("요거트", "2025-01-01", "유제품")
	repo.seed("두부", "2025-01-06", "기타")
	repo.seed("당근", "2025-01-20", "채소")
	svc := NewIngredientService(repo, nil, fixedClock(now))
	ctx := context.Background()

	summary, err := svc.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.IngredientSummaryResponse{
		Total: 3, Expired: 1, Urgent: 1, Safe: 1,
		Banner: "두부의 마감 기한이 1일 남았어요!",
	}, summary)

	repo.seed("우유", "2025-01-07", "유제품")
	summary, err = svc.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "두부 외 1개의 기한이 임박했어요!", summary.Banner)
}
