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

// CategoryHandler handles category HTTP requests
type CategoryHandler struct {
	categories *service.CategoryService
	publisher  websocket.EventPublisher
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categories *service.CategoryService, publisher websocket.EventPublisher) *CategoryHandler {
	return &CategoryHandler{categories: categories, publisher: publisher}
}

// CreateCategoryRequest represents the create request body
type CreateCategoryRequest struct {
	Title         string `json:"title"`
	OperationType string `json:"operationType"`
	Type          string `json:"type"`
	ParentID      *int64 `json:"parentId"`
}

// UpdateCategoryRequest represents the patch request body. clearParent
// detaches the category from its parent
type UpdateCategoryRequest struct {
	Title         *string `json:"title"`
	OperationType *string `json:"operationType"`
	Type          *string `json:"type"`
	ParentID      *int64  `json:"parentId"`
	ClearParent   bool    `json:"clearParent"`
}

// Create handles POST /api/v1/categories
func (h *CategoryHandler) Create(c echo.Context) error {
	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categories.Create(c.Request().Context(), middleware.GetActor(c), service.CreateCategoryInput{
		Title:         req.Title,
		OperationType: domain.OperationType(req.OperationType),
		Type:          domain.CategoryType(req.Type),
		ParentID:      req.ParentID,
	})
	if err != nil {
		return serviceError(c, err)
	}

	log.Info().Int64("category_id", category.ID).Str("actor", middleware.GetActor(c)).Msg("Category created")
	h.publisher.Publish(websocket.Created(websocket.EntityTypeCategory, category))
	return c.JSON(http.StatusCreated, category)
}

// List handles GET /api/v1/categories
// Query params: includeDeleted, operationType
func (h *CategoryHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	if param := c.QueryParam("operationType"); param != "" {
		t := domain.OperationType(param)
		if !domain.ValidOperationType(t) {
			return NewValidationError(c, "Invalid operationType", nil)
		}
		categories, err := h.categories.GetByOperationType(ctx, t)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(http.StatusOK, categories)
	}

	categories, err := h.categories.GetAll(ctx, c.QueryParam("includeDeleted") == "true")
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

// Get handles GET /api/v1/categories/:id
func (h *CategoryHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return NewValidationError(c, "Invalid id", nil)
	}
	category, err := h.categories.Get(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

// Update handles PATCH /api/v1/categories/:id
func (h *CategoryHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return NewValidationError(c, "Invalid id", nil)
	}
	var req UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	in := service.UpdateCategoryInput{
		Title:       req.Title,
		ParentID:    req.ParentID,
		ClearParent: req.ClearParent,
	}
	if req.OperationType != nil {
		t := domain.OperationType(*req.OperationType)
		in.OperationType = &t
	}
	if req.Type != nil {
		t := domain.CategoryType(*req.Type)
		in.Type = &t
	}

	category, err := h.categories.Update(c.Request().Context(), middleware.GetActor(c), id, in)
	if err != nil {
		return serviceError(c, err)
	}

	h.publisher.Publish(websocket.Updated(websocket.EntityTypeCategory, category))
	return c.JSON(http.StatusOK, category)
}

// Delete handles DELETE /api/v1/categories/:id
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return NewValidationError(c, "Invalid id", nil)
	}
	deleted, err := h.categories.Delete(c.Request().Context(), middleware.GetActor(c), id)
	if err != nil {
		return serviceError(c, err)
	}
	if deleted {
		h.publisher.Publish(websocket.Deleted(websocket.EntityTypeCategory, map[string]int64{"id": id}))
	}
	return c.JSON(http.StatusOK, DeleteResponse{Deleted: deleted})
}

// Restore handles POST /api/v1/categories/:id/restore
func (h *CategoryHandler) Restore(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return NewValidationError(c, "Invalid id", nil)
	}
	category, err := h.categories.Restore(c.Request().Context(), middleware.GetActor(c), id)
	if err != nil {
		return serviceError(c, err)
	}
	h.publisher.Publish(websocket.Restored(websocket.EntityTypeCategory, category))
	return c.JSON(http.StatusOK, category)
}

// ChangePosition handles PATCH /api/v1/categories/:id/position
func (h *CategoryHandler) ChangePosition(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return NewValidationError(c, "Invalid id", nil)
	}
	var req PositionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categories.ChangePosition(c.Request().Context(), middleware.GetActor(c), id, req.Position)
	if err != nil {
		return serviceError(c, err)
	}

	active, err := h.categories.GetAll(c.Request().Context(), false)
	if err != nil {
		return serviceError(c, err)
	}
	h.publisher.Publish(websocket.Repositioned(websocket.EntityTypeCategory, active))
	return c.JSON(http.StatusOK, category)
}

// GetOrCreate handles POST /api/v1/categories/get-or-create
func (h *CategoryHandler) GetOrCreate(c echo.Context) error {
	var req TitleRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	category, err := h.categories.GetOrCreate(c.Request().Context(), middleware.GetActor(c), req.Title)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}
