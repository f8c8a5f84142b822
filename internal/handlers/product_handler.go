package handlers

import (
	"net/http"

	"bookswap-api/internal/dto"
	"bookswap-api/internal/repository"
	"bookswap-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductHandler struct {
	catalog *service.CatalogService
	log     *zap.Logger
}

func NewProductHandler(catalog *service.CatalogService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, log: log}
}

// Create godoc
// @Summary Create a product and its inventory mirror row
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body dto.CreateProductRequest true "Product data"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 409 {object} dto.ConflictErrorResponse
// @Router /api/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}
	p, err := h.catalog.CreateProduct(c.Request.Context(), service.CreateProductInput{
		Code:         req.Code,
		Name:         req.Name,
		Category:     req.Category,
		PriceCents:   req.PriceCents,
		StockCurrent: req.StockCurrent,
		StockTotal:   req.StockTotal,
		Supplier:     req.Supplier,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToProductResponse(p))
}

// List godoc
// @Summary List products with category/search filters
// @Tags products
// @Produce json
// @Param category query string false "Category filter"
// @Param q query string false "Name or code substring"
// @Success 200 {object} dto.ProductListResponse
// @Router /api/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	f := repository.ProductListFilter{Query: c.Query("q"), Limit: limit, Offset: offset}
	if cat := c.Query("category"); cat != "" {
		f.Category = &cat
	}
	list, total, err := h.catalog.ListProducts(c.Request.Context(), f)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	resp := dto.ProductListResponse{Products: make([]dto.ProductResponse, 0, len(list)), Total: total}
	for i := range list {
		resp.Products = append(resp.Products, dto.ToProductResponse(&list[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Get a product by id
// @Tags products
// @Produce json
// @Param id path string true "Product id"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	p, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProductResponse(p))
}

// Update godoc
// @Summary Update a product, mirroring changes into inventory
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product id"
// @Param product body dto.UpdateProductRequest true "Fields to update"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}
	p, err := h.catalog.UpdateProduct(c.Request.Context(), id, service.UpdateProductInput{
		Name:         req.Name,
		Category:     req.Category,
		PriceCents:   req.PriceCents,
		StockCurrent: req.StockCurrent,
		StockTotal:   req.StockTotal,
		Supplier:     req.Supplier,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProductResponse(p))
}

// Delete godoc
// @Summary Delete a product and its inventory mirror row
// @Tags products
// @Security BearerAuth
// @Param id path string true "Product id"
// @Success 204
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SyncToInventory godoc
// @Summary Re-materialize inventory rows for every product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SyncToInventoryResponse
// @Router /api/products/sync-to-inventory [post]
func (h *ProductHandler) SyncToInventory(c *gin.Context) {
	n, err := h.catalog.SyncToInventory(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.SyncToInventoryResponse{Synced: n})
}

// ListBooks godoc
// @Summary List legacy inventory rows
// @Tags products
// @Produce json
// @Success 200 {array} dto.BookResponse
// @Router /api/books [get]
func (h *ProductHandler) ListBooks(c *gin.Context) {
	list, err := h.catalog.ListBooks(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	resp := make([]dto.BookResponse, 0, len(list))
	for i := range list {
		resp = append(resp, dto.ToBookResponse(&list[i]))
	}
	c.JSON(http.StatusOK, resp)
}
