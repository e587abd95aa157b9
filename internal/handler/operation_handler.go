package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/moneykeeper/moneykeeper-backend/internal/domain"
	"github.com/moneykeeper/moneykeeper-backend/internal/middleware"
	"github.com/moneykeeper/moneykeeper-backend/internal/service"
	"github.com/moneykeeper/moneykeeper-backend/internal/websocket"
)

// OperationHandler handles operation HTTP requests
type OperationHandler struct {
	operations *service.OperationService
	publisher  websocket.EventPublisher
}

// NewOperationHandler creates a new OperationHandler
func NewOperationHandler(operations *service.OperationService, publisher websocket.EventPublisher) *OperationHandler {
	return &OperationHandler{operations: operations, publisher: publisher}
}

// CreateOperationRequest represents the create request body. The three
// transfer fields must all be present or all be absent; a missing date
// defaults to now
type CreateOperationRequest struct {
	Type       string     `json:"type"`
	Date       *time.Time `json:"date"`
	Amount     int64      `json:"amount"`
	Comment    string     `json:"comment"`
	CategoryID int64      `json:"categoryId"`
	AccountID  int64      `json:"accountId"`
	CurrencyID int64      `json:"currencyId"`

	ToAccountID  *int64 `json:"toAccountId"`
	ToCurrencyID *int64 `json:"toCurrencyId"`
	ToAmount     *int64 `json:"toAmount"`
}

// UpdateOperationRequest represents the patch request body. clearTransfer
// removes the second leg
type UpdateOperationRequest struct {
	Type       *string    `json:"type"`
	Date       *time.Time `json:"date"`
	Amount     *int64     `json:"amount"`
	Comment    *string    `json:"comment"`
	CategoryID *int64     `json:"categoryId"`
	AccountID  *int64     `json:"accountId"`
	CurrencyID *int64     `json:"currencyId"`

	ToAccountID   *int64 `json:"toAccountId"`
	ToCurrencyID  *int64 `json:"toCurrencyId"`
	ToAmount      *int64 `json:"toAmount"`
	ClearTransfer bool   `json:"clearTransfer"`
}

// Create handles POST /api/v1/operations
func (h *OperationHandler) Create(c echo.Context) error {
	var req CreateOperationRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	in := service.CreateOperationInput{
		Type:         domain.OperationType(req.Type),
		Amount:       req.Amount,
		Comment:      req.Comment,
		CategoryID:   req.CategoryID,
		AccountID:    req.AccountID,
		CurrencyID:   req.CurrencyID,
		ToAccountID:  req.ToAccountID,
		ToCurrencyID: req.ToCurrencyID,
		ToAmount:     req.ToAmount,
	}
	if req.Date != nil {
		in.Date = *req.Date
	}

	operation, err := h.operations.Create(c.Request().Context(), middleware.GetActor(c), in)
	if err != nil {
		return serviceError(c, err)
	}

	log.Info().Int64("operation_id", operation.ID).Str("actor", middleware.GetActor(c)).Msg("Operation created")
	h.publisher.Publish(websocket.Created(websocket.EntityTypeOperation, operation))
	return c.JSON(http.StatusCreated, operation)
}

// List handles GET /api/v1/operations
// Query params: includeDeleted, accountId, categoryId, type
func (h *OperationHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	if param := c.QueryParam("accountId"); param != "" {
		var accountID int64
		if err := echo.QueryParamsBinder(c).Int64("accountId", &accountID).BindError(); err != nil {
			return NewValidationError(c, "Invalid accountId", nil)
		}
		operations, err := h.operations.GetByAccount(ctx, accountID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(http.StatusOK, operations)
	}
	if param := c.QueryParam("categoryId"); param != "" {
		var categoryID int64
		if err := echo.QueryParamsBinder(c).Int64("categoryId", &categoryID).BindError(); err != nil {
			return NewValidationError(c, "Invalid categoryId", nil)
		}
		operations, err := h.operations.GetByCategory(ctx, categoryID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(http.StatusOK, operations)
	}
	if param := c.QueryParam("type"); param != "" {
		t := domain.OperationType(param)
		if !domain.ValidOperationType(t) {
			return NewValidationError(c, "Invalid type", nil)
		}
		operations, err := h.operations.GetByType(ctx, t)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(http.StatusOK, operations)
	}

	operations, err := h.operations.GetAll(ctx, c.QueryParam("includeDeleted") == "true")
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, operations)
}

// Get handles GET /api/v1/operations/:id
func (h *OperationHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return NewValidationError(c, "Invalid id", nil)
	}
	operation, err := h.operations.Get(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, operation)
}

// Update handles PATCH /api/v1/operations/:id
func (h *OperationHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return NewValidationError(c, "Invalid id", nil)
	}
	var req UpdateOperationRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	in := service.UpdateOperationInput{
		Date:          req.Date,
		Amount:        req.Amount,
		Comment:       req.Comment,
		CategoryID:    req.CategoryID,
		AccountID:     req.AccountID,
		CurrencyID:    req.CurrencyID,
		ToAccountID:   req.ToAccountID,
		ToCurrencyID:  req.ToCurrencyID,
		ToAmount:      req.ToAmount,
		ClearTransfer: req.ClearTransfer,
	}
	if req.Type != nil {
		t := domain.OperationType(*req.Type)
		in.Type = &t
	}

	operation, err := h.operations.Update(c.Request().Context(), middleware.GetActor(c), id, in)
	if err != nil {
		return serviceError(c, err)
	}

	h.publisher.Publish(websocket.Updated(websocket.EntityTypeOperation, operation))
	return c.JSON(http.StatusOK, operation)
}

// Delete handles DELETE /api/v1/operations/:id
func (h *OperationHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return NewValidationError(c, "Invalid id", nil)
	}
	deleted, err := h.operations.Delete(c.Request().Context(), middleware.GetActor(c), id)
	if err != nil {
		return serviceError(c, err)
	}
	if deleted {
		h.publisher.Publish(websocket.Deleted(websocket.EntityTypeOperation, map[string]int64{"id": id}))
	}
	return c.JSON(http.StatusOK, DeleteResponse{Deleted: deleted})
}

// Restore handles POST /api/v1/operations/:id/restore
func (h *OperationHandler) Restore(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return NewValidationError(c, "Invalid id", nil)
	}
	operation, err := h.operations.Restore(c.Request().Context(), middleware.GetActor(c), id)
	if err != nil {
		return serviceError(c, err)
	}
	h.publisher.Publish(websocket.Restored(websocket.EntityTypeOperation, operation))
	return c.JSON(http.StatusOK, operation)
}

// ChangePosition handles PATCH /api/v1/operations/:id/position
func (h *OperationHandler) ChangePosition(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return NewValidationError(c, "Invalid id", nil)
	}
	var req PositionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	operation, err := h.operations.ChangePosition(c.Request().Context(), middleware.GetActor(c), id, req.Position)
	if err != nil {
		return serviceError(c, err)
	}

	active, err := h.operations.GetAll(c.Request().Context(), false)
	if err != nil {
		return serviceError(c, err)
	}
	h.publisher.Publish(websocket.Repositioned(websocket.EntityTypeOperation, active))
	return c.JSON(http.StatusOK, operation)
}
