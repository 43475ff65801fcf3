package handlers

import (
	"Fridge-Keeper/domain"
	"Fridge-Keeper/internal/api/presenters"
	"Fridge-Keeper/pkg/ingredient"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	IngredientHandler interface {
		GetIngredients(c *fiber.Ctx) error
		GetSummary(c *fiber.Ctx) error
		AddIngredient(c *fiber.Ctx) error
		UpdateIngredient(c *fiber.Ctx) error
		DeleteIngredient(c *fiber.Ctx) error
		GetSuggestions(c *fiber.Ctx) error
	}

	ingredientHandler struct {
		ingredientService ingredient.IngredientService
		validator         *validator.Validate
	}
)

func NewIngredientHandler(ingredientService ingredient.IngredientService, validator *validator.Validate) IngredientHandler {
	return &ingredientHandler{
		ingredientService: ingredientService,
		validator:         validator,
	}
}

func (h *ingredientHandler) GetIngredients(c *fiber.Ctx) error {
	items, err := h.ingredientService.GetIngredients(c.Context(), c.Query("category"))
	if err != nil {
		// clients render the empty list instead of failing
		return presenters.ErrorResponseWithData(c, statusFor(err), domain.MessageFailedGetIngredients, err, fiber.Map{
			"items": []domain.IngredientResponse{},
		})
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"items": items,
	}, fiber.StatusOK, domain.MessageSuccessGetIngredients)
}

func (h *ingredientHandler) GetSummary(c *fiber.Ctx) error {
	res, err := h.ingredientService.GetSummary(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetSummary, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetSummary)
}

func (h *ingredientHandler) AddIngredient(c *fiber.Ctx) error {
	req := new(domain.AddIngredientRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddIngredient, err)
	}

	res, err := h.ingredientService.AddIngredient(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedAddIngredient, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddIngredient)
}

func (h *ingredientHandler) UpdateIngredient(c *fiber.Ctx) error {
	id := c.Params("id")
	req := new(domain.UpdateIngredientRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateIngredient, err)
	}

	if err := h.ingredientService.UpdateIngredient(c.Context(), id, *req); err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedUpdateIngredient, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdateIngredient)
}

func (h *ingredientHandler) DeleteIngredient(c *fiber.Ctx) error {
	if err := h.ingredientService.DeleteIngredient(c.Context(), c.Params("id")); err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedDeleteIngredient, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteIngredient)
}

func (h *ingredientHandler) GetSuggestions(c *fiber.Ctx) error {
	res, err := h.ingredientService.GetSuggestions(c.Context(), c.Query("q"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetSuggestions, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetSuggestions)
}
