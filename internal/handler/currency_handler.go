package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/moneykeeper/moneykeeper-backend/internal/middleware"
	"github.com/moneykeeper/moneykeeper-backend/internal/service"
	"github.com/moneykeeper/moneykeeper-backend/internal/websocket"
)

// CurrencyHandler handles currency HTTP requests
type CurrencyHandler struct {
	currencies *service.CurrencyService
	publisher  websocket.EventPublisher
}

// NewCurrencyHandler creates a new CurrencyHandler
func NewCurrencyHandler(currencies *service.CurrencyService, publisher websocket.EventPublisher) *CurrencyHandler {
	return &CurrencyHandler{currencies: currencies, publisher: publisher}
}

// CreateCurrencyRequest represents the create request body. The exchange
// rate is a decimal string to avoid float truncation in transit
type CreateCurrencyRequest struct {
	Title        string `json:"title"`
	ShortName    string `json:"shortName"`
	ExchangeRate string `json:"exchangeRate"`
}

// UpdateCurrencyRequest represents the patch request body
type UpdateCurrencyRequest struct {
	Title        *string `json:"title"`
	ShortName    *string `json:"shortName"`
	ExchangeRate *string `json:"exchangeRate"`
}

// ConvertResponse carries a conversion result in minor units
type ConvertResponse struct {
	Amount int64 `json:"amount"`
}

// ReverseRateResponse carries an inverted exchange rate
type ReverseRateResponse struct {
	Rate decimal.Decimal `json:"rate"`
}

func parseRate(c echo.Context, raw string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, NewValidationError(c, "Invalid exchange rate format", []ValidationError{
			{Field: "exchangeRate", Rule: "format", Value: raw},
		})
	}
	return rate, nil
}

// Create handles POST /api/v1/currencies
func (h *CurrencyHandler) Create(c echo.Context) error {
	var req CreateCurrencyRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	rate, err := parseRate(c, req.ExchangeRate)
	if err != nil {
		return err
	}

	currency, err := h.currencies.Create(c.Request().Context(), middleware.GetActor(c), service.CreateCurrencyInput{
		Title:        req.Title,
		ShortName:    req.ShortName,
		ExchangeRate: rate,
	})
	if err != nil {
		return serviceError(c, err)
	}

	log.Info().Int64("currency_id", currency.ID).Str("actor", middleware.GetActor(c)).Msg("Currency created")
	h.publisher.Publish(websocket.Created(websocket.EntityTypeCurrency, currency))
	return c.JSON(http.StatusCreated, currency)
}

// List handles GET /api/v1/currencies
func (h *CurrencyHandler) List(c echo.Context) error {
	currencies, err := h.currencies.GetAll(c.Request().Context(), c.QueryParam("includeDeleted") == "true")
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, currencies)
}

// Get handles GET /api/v1/currencies/:id
func (h *CurrencyHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return NewValidationError(c, "Invalid id", nil)
	}
	currency, err := h.currencies.Get(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, currency)
}

// Main handles GET /api/v1/currencies/main
func (h *CurrencyHandler) Main(c echo.Context) error {
	currency, err := h.currencies.Main(c.Request().Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, currency)
}

// Update handles PATCH /api/v1/currencies/:id
func (h *CurrencyHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return NewValidationError(c, "Invalid id", nil)
	}
	var req UpdateCurrencyRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	in := service.UpdateCurrencyInput{
		Title:     req.Title,
		ShortName: req.ShortName,
	}
	if req.ExchangeRate != nil {
		rate, err := parseRate(c, *req.ExchangeRate)
		if err != nil {
			return err
		}
		in.ExchangeRate = &rate
	}

	currency, err := h.currencies.Update(c.Request().Context(), middleware.GetActor(c), id, in)
	if err != nil {
		return serviceError(c, err)
	}

	h.publisher.Publish(websocket.Updated(websocket.EntityTypeCurrency, currency))
	return c.JSON(http.StatusOK, currency)
}

// Delete handles DELETE /api/v1/currencies/:id
func (h *CurrencyHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return NewValidationError(c, "Invalid id", nil)
	}
	deleted, err := h.currencies.Delete(c.Request().Context(), middleware.GetActor(c), id)
	if err != nil {
		return serviceError(c, err)
	}
	if deleted {
		h.publisher.Publish(websocket.Deleted(websocket.EntityTypeCurrency, map[string]int64{"id": id}))
	}
	return c.JSON(http.StatusOK, DeleteResponse{Deleted: deleted})
}

// Restore handles POST /api/v1/currencies/:id/restore
func (h *CurrencyHandler) Restore(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return NewValidationError(c, "Invalid id", nil)
	}
	currency, err := h.currencies.Restore(c.Request().Context(), middleware.GetActor(c), id)
	if err != nil {
		return serviceError(c, err)
	}
	h.publisher.Publish(websocket.Restored(websocket.EntityTypeCurrency, currency))
	return c.JSON(http.StatusOK, currency)
}

// ChangePosition handles PATCH /api/v1/currencies/:id/position
func (h *CurrencyHandler) ChangePosition(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return NewValidationError(c, "Invalid id", nil)
	}
	var req PositionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	currency, err := h.currencies.ChangePosition(c.Request().Context(), middleware.GetActor(c), id, req.Position)
	if err != nil {
		return serviceError(c, err)
	}

	active, err := h.currencies.GetAll(c.Request().Context(), false)
	if err != nil {
		return serviceError(c, err)
	}
	h.publisher.Publish(websocket.Repositioned(websocket.EntityTypeCurrency, active))
	return c.JSON(http.StatusOK, currency)
}

// GetOrCreate handles POST /api/v1/currencies/get-or-create
func (h *CurrencyHandler) GetOrCreate(c echo.Context) error {
	var req TitleRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	currency, err := h.currencies.GetOrCreate(c.Request().Context(), middleware.GetActor(c), req.Title)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, currency)
}

// ConvertToMain handles GET /api/v1/currencies/:id/convert-to-main?amount=N
func (h *CurrencyHandler) ConvertToMain(c echo.Context) error {
	return h.convert(c, h.currencies.ConvertToMain)
}

// ConvertFromMain handles GET /api/v1/currencies/:id/convert-from-main?amount=N
func (h *CurrencyHandler) ConvertFromMain(c echo.Context) error {
	return h.convert(c, h.currencies.ConvertFromMain)
}

func (h *CurrencyHandler) convert(c echo.Context, fn func(ctx context.Context, id int64, amount int64) (int64, error)) error {
	id, ok := pathID(c)
	if !ok {
		return NewValidationError(c, "Invalid id", nil)
	}
	var amount int64
	if err := echo.QueryParamsBinder(c).MustInt64("amount", &amount).BindError(); err != nil {
		return NewValidationError(c, "Invalid amount", nil)
	}
	converted, err := fn(c.Request().Context(), id, amount)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, ConvertResponse{Amount: converted})
}

// ReverseRate handles GET /api/v1/currencies/:id/reverse-rate
func (h *CurrencyHandler) ReverseRate(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return NewValidationError(c, "Invalid id", nil)
	}
	rate, err := h.currencies.ReverseRate(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, ReverseRateResponse{Rate: rate})
}
