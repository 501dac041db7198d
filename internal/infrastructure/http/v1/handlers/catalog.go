package handlers

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"

	"tourbook/internal/core/apperror"
	"tourbook/internal/core/entity"
	"tourbook/internal/core/id"
	"tourbook/internal/domain"
	domainFilter "tourbook/internal/domain/filter"
	"tourbook/internal/infrastructure/http/v1/dto"
)

// CatalogService is the part of a domain service the generic handler drives.
// Services that override an operation (e.g. reservation Create) satisfy it directly.
type CatalogService[T entity.Entity] interface {
	Create(ctx context.Context, e T) error
	GetByID(ctx context.Context, entityID id.ID) (T, error)
	Update(ctx context.Context, e T) error
	Delete(ctx context.Context, entityID id.ID) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error)
}

// CatalogHandler provides generic HTTP handlers for entities.
type CatalogHandler[T entity.Entity, CreateDTO any, UpdateDTO any] struct {
	*BaseHandler
	service CatalogService[T]

	// Mapper functions
	mapCreateDTO func(dto *CreateDTO) T
	mapUpdateDTO func(dto *UpdateDTO, existing T) T
	mapToDTO     func(entity T) any

	// queryFilters maps a query parameter to the id column it filters
	queryFilters map[string]string
}

// CatalogHandlerConfig configures the catalog handler.
type CatalogHandlerConfig[T entity.Entity, CreateDTO any, UpdateDTO any] struct {
	Service      CatalogService[T]
	MapCreateDTO func(dto *CreateDTO) T
	MapUpdateDTO func(dto *UpdateDTO, existing T) T
	MapToDTO     func(entity T) any

	// QueryFilters: e.g. {"customerId": "customer_id"} turns ?customerId=3 into customer_id = 3
	QueryFilters map[string]string
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler[T entity.Entity, CreateDTO any, UpdateDTO any](
	base *BaseHandler,
	cfg CatalogHandlerConfig[T, CreateDTO, UpdateDTO],
) *CatalogHandler[T, CreateDTO, UpdateDTO] {
	return &CatalogHandler[T, CreateDTO, UpdateDTO]{
		BaseHandler:  base,
		service:      cfg.Service,
		mapCreateDTO: cfg.MapCreateDTO,
		mapUpdateDTO: cfg.MapUpdateDTO,
		mapToDTO:     cfg.MapToDTO,
		queryFilters: cfg.QueryFilters,
	}
}

// List handles GET /{entity} - list with filtering and pagination.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) List(c *gin.Context) {
	filter, err := h.parseListFilter(c)
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(result, h.mapToDTO))
}

func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) parseListFilter(c *gin.Context) (domain.ListFilter, error) {
	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", domain.DefaultLimit)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.Query("orderBy")

	if raw := c.Query("ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			v, err := id.Parse(strings.TrimSpace(part))
			if err != nil {
				return filter, apperror.NewFieldValidation("ids", "invalid id format")
			}
			filter.IDs = append(filter.IDs, v)
		}
	}

	if raw := c.Query("filter"); raw != "" {
		var advFilters []domainFilter.Item
		if err := json.Unmarshal([]byte(raw), &advFilters); err != nil {
			return filter, apperror.NewValidation("invalid filter format (json expected)")
		}
		filter.AdvancedFilters = advFilters
	}

	for param, column := range h.queryFilters {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		v, err := id.Parse(raw)
		if err != nil {
			return filter, apperror.NewFieldValidation(param, "invalid id format")
		}
		filter.Where(column, v)
	}

	return filter, nil
}

// Get handles GET /{entity}/:id - get single entity.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Get(c *gin.Context) {
	entityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	e, err := h.service.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, h.mapToDTO(e))
}

// Create handles POST /{entity} - create new entity.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Create(c *gin.Context) {
	var req CreateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	e := h.mapCreateDTO(&req)
	if err := h.service.Create(c.Request.Context(), e); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, h.mapToDTO(e))
}

// Update handles PUT /{entity}/:id - update existing entity.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Update(c *gin.Context) {
	ctx := c.Request.Context()

	entityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req UpdateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.service.GetByID(ctx, entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	updated := h.mapUpdateDTO(&req, existing)
	updated.SetID(entityID)
	if err := h.service.Update(ctx, updated); err != nil {
		h.Error(c, err)
		return
	}

	// reload so that fields kept by the store (destinations, totals) are returned
	if stored, err := h.service.GetByID(ctx, entityID); err == nil {
		updated = stored
	}
	h.OK(c, h.mapToDTO(updated))
}

// Delete handles DELETE /{entity}/:id - soft delete entity.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Delete(c *gin.Context) {
	entityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), entityID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
