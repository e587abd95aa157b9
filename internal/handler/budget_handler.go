package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/moneykeeper/moneykeeper-backend/internal/middleware"
	"github.com/moneykeeper/moneykeeper-backend/internal/service"
	"github.com/moneykeeper/moneykeeper-backend/internal/websocket"
)

// BudgetHandler handles budget HTTP requests
type BudgetHandler struct {
	budgets   *service.BudgetService
	publisher websocket.EventPublisher
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgets *service.BudgetService, publisher websocket.EventPublisher) *BudgetHandler {
	return &BudgetHandler{budgets: budgets, publisher: publisher}
}

// CreateBudgetRequest represents the create request body
type CreateBudgetRequest struct {
	Amount     int64  `json:"amount"`
	CurrencyID int64  `json:"currencyId"`
	CategoryID *int64 `json:"categoryId"`
}

// UpdateBudgetRequest represents the patch request body. clearCategory
// detaches the budget from its category
type UpdateBudgetRequest struct {
	Amount        *int64 `json:"amount"`
	CurrencyID    *int64 `json:"currencyId"`
	CategoryID    *int64 `json:"categoryId"`
	ClearCategory bool   `json:"clearCategory"`
}

// Create handles POST /api/v1/budgets
func (h *BudgetHandler) Create(c echo.Context) error {
	var req CreateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	budget, err := h.budgets.Create(c.Request().Context(), middleware.GetActor(c), service.CreateBudgetInput{
		Amount:     req.Amount,
		CurrencyID: req.CurrencyID,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		return serviceError(c, err)
	}

	log.Info().Int64("budget_id", budget.ID).Str("actor", middleware.GetActor(c)).Msg("Budget created")
	h.publisher.Publish(websocket.Created(websocket.EntityTypeBudget, budget))
	return c.JSON(http.StatusCreated, budget)
}

// List handles GET /api/v1/budgets
// Query params: includeDeleted, categoryId (resolves the single active
// budget of a category)
func (h *BudgetHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	if param := c.QueryParam("categoryId"); param != "" {
		var categoryID int64
		if err := echo.QueryParamsBinder(c).Int64("categoryId", &categoryID).BindError(); err != nil {
			return NewValidationError(c, "Invalid categoryId", nil)
		}
		budget, err := h.budgets.GetByCategory(ctx, categoryID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(http.StatusOK, budget)
	}

	budgets, err := h.budgets.GetAll(ctx, c.QueryParam("includeDeleted") == "true")
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, budgets)
}

// Get handles GET /api/v1/budgets/:id
func (h *BudgetHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return NewValidationError(c, "Invalid id", nil)
	}
	budget, err := h.budgets.Get(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, budget)
}

// Update handles PATCH /api/v1/budgets/:id
func (h *BudgetHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return NewValidationError(c, "Invalid id", nil)
	}
	var req UpdateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	budget, err := h.budgets.Update(c.Request().Context(), middleware.GetActor(c), id, service.UpdateBudgetInput{
		Amount:        req.Amount,
		CurrencyID:    req.CurrencyID,
		CategoryID:    req.CategoryID,
		ClearCategory: req.ClearCategory,
	})
	if err != nil {
		return serviceError(c, err)
	}

	h.publisher.Publish(websocket.Updated(websocket.EntityTypeBudget, budget))
	return c.JSON(http.StatusOK, budget)
}

// Delete handles DELETE /api/v1/budgets/:id
func (h *BudgetHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return NewValidationError(c, "Invalid id", nil)
	}
	deleted, err := h.budgets.Delete(c.Request().Context(), middleware.GetActor(c), id)
	if err != nil {
		return serviceError(c, err)
	}
	if deleted {
		h.publisher.Publish(websocket.Deleted(websocket.EntityTypeBudget, map[string]int64{"id": id}))
	}
	return c.JSON(http.StatusOK, DeleteResponse{Deleted: deleted})
}

// Restore handles POST /api/v1/budgets/:id/restore
func (h *BudgetHandler) Restore(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return NewValidationError(c, "Invalid id", nil)
	}
	budget, err := h.budgets.Restore(c.Request().Context(), middleware.GetActor(c), id)
	if err != nil {
		return serviceError(c, err)
	}
	h.publisher.Publish(websocket.Restored(websocket.EntityTypeBudget, budget))
	return c.JSON(http.StatusOK, budget)
}

// ChangePosition handles PATCH /api/v1/budgets/:id/position
func (h *BudgetHandler) ChangePosition(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return NewValidationError(c, "Invalid id", nil)
	}
	var req PositionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	budget, err := h.budgets.ChangePosition(c.Request().Context(), middleware.GetActor(c), id, req.Position)
	if err != nil {
		return serviceError(c, err)
	}

	active, err := h.budgets.GetAll(c.Request().Context(), false)
	if err != nil {
		return serviceError(c, err)
	}
	h.publisher.Publish(websocket.Repositioned(websocket.EntityTypeBudget, active))
	return c.JSON(http.StatusOK, budget)
}
