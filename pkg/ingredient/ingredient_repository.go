package ingredient

import (
	"Fridge-Keeper/entities"
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	IngredientRepository interface {
		GetIngredients(ctx context.Context) ([]*entities.Ingredient, error)
		GetIngredientByID(ctx context.Context, id string) (*entities.Ingredient, error)
		GetIngredientsByExpiryRange(ctx context.Context, startDate, endDate time.Time) ([]*entities.Ingredient, error)
		AddIngredient(ctx context.Context, ingredient *entities.Ingredient) error
		UpdateIngredient(ctx context.Context, id string, fields map[string]any) error
		DeleteIngredient(ctx context.Context, id string) error

		SuggestionExists(ctx context.Context, name string) (bool, error)
		AddSuggestion(ctx context.Context, suggestion *entities.Suggestion) error
		GetSuggestions(ctx context.Context, query string) ([]*entities.Suggestion, error)
	}

	ingredientRepository struct {
		db *gorm.DB
	}
)

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) GetIngredients(ctx context.Context) ([]*entities.Ingredient, error) {
	var ingredients []*entities.Ingredient
	if err := r.db.WithContext(ctx).
		Order("expiry_date asc").
		Order("created_at asc").
		Find(&ingredients).Error; err != nil {
		return nil, errors.Wrap(err, "error finding all ingredients")
	}
	return ingredients, nil
}

func (r *ingredientRepository) GetIngredientByID(ctx context.Context, id string) (*entities.Ingredient, error) {
	var ingredient entities.Ingredient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ingredient).Error; err != nil {
		return nil, errors.Wrapf(err, "error finding ingredient with ID: %s", id)
	}
	return &ingredient, nil
}

// GetIngredientsByExpiryRange returns ingredients whose expiry date lies in
// [startDate, endDate], soonest first.
func (r *ingredientRepository) GetIngredientsByExpiryRange(ctx context.Context, startDate, endDate time.Time) ([]*entities.Ingredient, error) {
	var ingredients []*entities.Ingredient
	if err := r.db.WithContext(ctx).
		Where("expiry_date BETWEEN ? AND ?", startDate.Format(time.DateOnly), endDate.Format(time.DateOnly)).
		Order("expiry_date asc").
		Order("created_at asc").
		Find(&ingredients).Error; err != nil {
		return nil, errors.Wrapf(err, "error finding ingredients expiring between %s and %s",
			startDate.Format(time.DateOnly), endDate.Format(time.DateOnly))
	}
	return ingredients, nil
}

func (r *ingredientRepository) AddIngredient(ctx context.Context, ingredient *entities.Ingredient) error {
	if err := r.db.WithContext(ctx).Create(ingredient).Error; err != nil {
		return errors.Wrapf(err, "error inserting ingredient: %s", ingredient.Name)
	}
	return nil
}

func (r *ingredientRepository) UpdateIngredient(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&entities.Ingredient{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "error updating ingredient with ID: %s", id)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(gorm.ErrRecordNotFound, "ingredient not modified, ID: %s", id)
	}
	return nil
}

func (r *ingredientRepository) DeleteIngredient(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Ingredient{}).Error; err != nil {
		return errors.Wrapf(err, "error deleting ingredient with ID: %s", id)
	}
	return nil
}

func (r *ingredientRepository) SuggestionExists(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Suggestion{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, errors.Wrapf(err, "error counting suggestions with name: %s", name)
	}
	return count > 0, nil
}

func (r *ingredientRepository) AddSuggestion(ctx context.Context, suggestion *entities.Suggestion) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(suggestion).Error; err != nil {
		return errors.Wrapf(err, "error inserting suggestion: %s", suggestion.Name)
	}
	return nil
}

func (r *ingredientRepository) GetSuggestions(ctx context.Context, query string) ([]*entities.Suggestion, error) {
	var suggestions []*entities.Suggestion
	q := r.db.WithContext(ctx)
	if query != "" {
		q = q.Where(`name LIKE ? ESCAPE '\'`, "%"+escapeLike(query)+"%")
	}
	if err := q.Order("name asc").Find(&suggestions).Error; err != nil {
		return nil, errors.Wrapf(err, "error finding suggestions, query: %s", query)
	}
	return suggestions, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes query match literally inside a LIKE pattern.
func escapeLike(query string) string {
	return likeEscaper.Replace(query)
}
