package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/moneykeeper/moneykeeper-backend/internal/domain"
	"github.com/moneykeeper/moneykeeper-backend/internal/middleware"
	"github.com/moneykeeper/moneykeeper-backend/internal/service"
	"github.com/moneykeeper/moneykeeper-backend/internal/websocket"
)

// AccountHandler handles account HTTP requests
type AccountHandler struct {
	accounts  *service.AccountService
	publisher websocket.EventPublisher
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accounts *service.AccountService, publisher websocket.EventPublisher) *AccountHandler {
	return &AccountHandler{accounts: accounts, publisher: publisher}
}

// CreateAccountRequest represents the create request body
type CreateAccountRequest struct {
	Title      string `json:"title"`
	Amount     int64  `json:"amount"`
	Type       string `json:"type"`
	CurrencyID int64  `json:"currencyId"`
}

// UpdateAccountRequest represents the patch request body; absent fields
// keep the stored value
type UpdateAccountRequest struct {
	Title      *string `json:"title"`
	Amount     *int64  `json:"amount"`
	Type       *string `json:"type"`
	CurrencyID *int64  `json:"currencyId"`
	Closed     *bool   `json:"closed"`
}

// TitleRequest carries a bare title for get-or-create endpoints
type TitleRequest struct {
	Title string `json:"title"`
}

// PositionRequest carries the requested position
type PositionRequest struct {
	Position int32 `json:"position"`
}

// ClosedRequest carries the closed flag
type ClosedRequest struct {
	Closed bool `json:"closed"`
}

// DeleteResponse reports whether the delete changed anything
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

// Create handles POST /api/v1/accounts
func (h *AccountHandler) Create(c echo.Context) error {
	var req CreateAccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	account, err := h.accounts.Create(c.Request().Context(), middleware.GetActor(c), service.CreateAccountInput{
		Title:      req.Title,
		Amount:     req.Amount,
		Type:       domain.AccountType(req.Type),
		CurrencyID: req.CurrencyID,
	})
	if err != nil {
		return serviceError(c, err)
	}

	log.Info().Int64("account_id", account.ID).Str("actor", middleware.GetActor(c)).Msg("Account created")
	h.publisher.Publish(websocket.Created(websocket.EntityTypeAccount, account))
	return c.JSON(http.StatusCreated, account)
}

// List handles GET /api/v1/accounts
// Query params: includeDeleted, currencyId
func (h *AccountHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	if param := c.QueryParam("currencyId"); param != "" {
		var currencyID int64
		if err := echo.QueryParamsBinder(c).Int64("currencyId", &currencyID).BindError(); err != nil {
			return NewValidationError(c, "Invalid currencyId", nil)
		}
		accounts, err := h.accounts.GetByCurrency(ctx, currencyID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(http.StatusOK, accounts)
	}

	accounts, err := h.accounts.GetAll(ctx, c.QueryParam("includeDeleted") == "true")
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, accounts)
}

// Get handles GET /api/v1/accounts/:id
func (h *AccountHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return NewValidationError(c, "Invalid id", nil)
	}
	account, err := h.accounts.Get(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, account)
}

// Update handles PATCH /api/v1/accounts/:id
func (h *AccountHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return NewValidationError(c, "Invalid id", nil)
	}
	var req UpdateAccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	in := service.UpdateAccountInput{
		Title:      req.Title,
		Amount:     req.Amount,
		CurrencyID: req.CurrencyID,
		Closed:     req.Closed,
	}
	if req.Type != nil {
		t := domain.AccountType(*req.Type)
		in.Type = &t
	}

	account, err := h.accounts.Update(c.Request().Context(), middleware.GetActor(c), id, in)
	if err != nil {
		return serviceError(c, err)
	}

	h.publisher.Publish(websocket.Updated(websocket.EntityTypeAccount, account))
	return c.JSON(http.StatusOK, account)
}

// Delete handles DELETE /api/v1/accounts/:id
// Deleting an already-deleted account reports deleted=false
func (h *AccountHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return NewValidationError(c, "Invalid id", nil)
	}
	deleted, err := h.accounts.Delete(c.Request().Context(), middleware.GetActor(c), id)
	if err != nil {
		return serviceError(c, err)
	}

	if deleted {
		log.Info().Int64("account_id", id).Str("actor", middleware.GetActor(c)).Msg("Account deleted")
		h.publisher.Publish(websocket.Deleted(websocket.EntityTypeAccount, map[string]int64{"id": id}))
	}
	return c.JSON(http.StatusOK, DeleteResponse{Deleted: deleted})
}

// Restore handles POST /api/v1/accounts/:id/restore
func (h *AccountHandler) Restore(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return NewValidationError(c, "Invalid id", nil)
	}
	account, err := h.accounts.Restore(c.Request().Context(), middleware.GetActor(c), id)
	if err != nil {
		return serviceError(c, err)
	}

	h.publisher.Publish(websocket.Restored(websocket.EntityTypeAccount, account))
	return c.JSON(http.StatusOK, account)
}

// ChangePosition handles PATCH /api/v1/accounts/:id/position
func (h *AccountHandler) ChangePosition(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return NewValidationError(c, "Invalid id", nil)
	}
	var req PositionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	account, err := h.accounts.ChangePosition(c.Request().Context(), middleware.GetActor(c), id, req.Position)
	if err != nil {
		return serviceError(c, err)
	}

	active, err := h.accounts.GetAll(c.Request().Context(), false)
	if err != nil {
		return serviceError(c, err)
	}
	h.publisher.Publish(websocket.Repositioned(websocket.EntityTypeAccount, active))
	return c.JSON(http.StatusOK, account)
}

// GetOrCreate handles POST /api/v1/accounts/get-or-create
func (h *AccountHandler) GetOrCreate(c echo.Context) error {
	var req TitleRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	account, err := h.accounts.GetOrCreate(c.Request().Context(), middleware.GetActor(c), req.Title)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, account)
}

// SetClosed handles PATCH /api/v1/accounts/:id/closed
func (h *AccountHandler) SetClosed(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return NewValidationError(c, "Invalid id", nil)
	}
	var req ClosedRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	account, err := h.accounts.SetClosed(c.Request().Context(), middleware.GetActor(c), id, req.Closed)
	if err != nil {
		return serviceError(c, err)
	}
	h.publisher.Publish(websocket.Updated(websocket.EntityTypeAccount, account))
	return c.JSON(http.StatusOK, account)
}
