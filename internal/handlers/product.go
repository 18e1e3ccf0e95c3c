package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/claycraft/shop/internal/models"
	"github.com/claycraft/shop/internal/mykafka"
	"github.com/claycraft/shop/internal/util"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func generateSlug(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "product_events", fmt.Sprint(event["product_id"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

type productView struct {
	ID           uint                  `json:"id"`
	Name         string                `json:"name"`
	Slug         string                `json:"slug"`
	Description  string                `json:"description"`
	ShortDesc    string                `json:"short_desc,omitempty"`
	Price        float64               `json:"price"`
	PriceInPaise int64                 `json:"price_in_paise"`
	Stock        int                   `json:"stock"`
	IsActive     bool                  `json:"is_active"`
	IsFeatured   bool                  `json:"is_featured"`
	Weight       float64               `json:"weight,omitempty"`
	Dimensions   string                `json:"dimensions,omitempty"`
	Material     string                `json:"material,omitempty"`
	CareNotes    string                `json:"care_instructions,omitempty"`
	Category     categoryView          `json:"category"`
	Images       []models.ProductImage `json:"images"`
	PrimaryImage string                `json:"primary_image,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

type categoryView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

func productToView(p models.Product) productView {
	return productView{
		ID:           p.ID,
		Name:         p.Name,
		Slug:         p.Slug,
		Description:  p.Description,
		ShortDesc:    p.ShortDesc,
		Price:        paiseToRupees(p.PriceInPaise),
		PriceInPaise: p.PriceInPaise,
		Stock:        p.Stock,
		IsActive:     p.IsActive,
		IsFeatured:   p.IsFeatured,
		Weight:       p.Weight,
		Dimensions:   p.Dimensions,
		Material:     p.Material,
		CareNotes:    p.CareNotes,
		Category: categoryView{
			ID:   p.Category.ID,
			Name: p.Category.Name,
			Slug: p.Category.Slug,
		},
		Images:       p.Images,
		PrimaryImage: primaryImageURL(p.Images),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// GetProducts handles GET /api/products with category/search/price/stock
// filters and pagination over active products.
func (h *ProductHandler) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	q := h.DB.WithContext(c.Request().Context()).
		Model(&models.Product{}).
		Where("products.is_active = ?", true)

	if category := c.QueryParam("category"); category != "" {
		q = q.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", category)
	}
	if search := c.QueryParam("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ? OR LOWER(products.short_desc) LIKE ?",
			pattern, pattern, pattern)
	}
	if minPrice := parseIntDefault(c.QueryParam("min_price"), 0); minPrice > 0 {
		q = q.Where("products.price_in_paise >= ?", int64(minPrice)*100)
	}
	if maxPrice := parseIntDefault(c.QueryParam("max_price"), 0); maxPrice > 0 {
		q = q.Where("products.price_in_paise <= ?", int64(maxPrice)*100)
	}
	if c.QueryParam("in_stock") == "true" {
		q = q.Where("products.stock > 0")
	}
	if c.QueryParam("featured") == "true" {
		q = q.Where("products.is_featured = ?", true)
	}

	sortBy := c.QueryParam("sort_by")
	switch sortBy {
	case "name":
		sortBy = "products.name"
	case "price":
		sortBy = "products.price_in_paise"
	default:
		sortBy = "products.created_at"
	}
	sortOrder := "DESC"
	if c.QueryParam("sort_order") == "asc" {
		sortOrder = "ASC"
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to fetch products")
	}

	var products []models.Product
	err := q.Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Order(sortBy + " " + sortOrder).
		Offset(offset).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to fetch products")
	}

	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, productToView(p))
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	return respondOK(c, http.StatusOK, map[string]any{
		"products": views,
		"pagination": map[string]any{
			"current_page":   page,
			"total_pages":    totalPages,
			"total_items":    total,
			"items_per_page": limit,
			"has_next_page":  int64(offset+limit) < total,
			"has_prev_page":  page > 1,
		},
	})
}

// GetProduct handles GET /api/products/:slug with up to four related products
// from the same category.
func (h *ProductHandler) GetProduct(c echo.Context) error {
	slug := c.Param("slug")
	ctx := c.Request().Context()

	var product models.Product
	err := h.DB.WithContext(ctx).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusNotFound, "Product not found")
		}
		return respondError(c, http.StatusInternalServerError, "Failed to fetch product")
	}

	var related []models.Product
	if err := h.DB.WithContext(ctx).
		Preload("Images").
		Where("category_id = ? AND id != ? AND is_active = ?", product.CategoryID, product.ID, true).
		Limit(4).
		Find(&related).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to fetch product")
	}

	view := productToView(product)
	view.Category.Description = product.Category.Description

	relatedViews := make([]map[string]any, 0, len(related))
	for _, rp := range related {
		relatedViews = append(relatedViews, map[string]any{
			"id":            rp.ID,
			"name":          rp.Name,
			"slug":          rp.Slug,
			"short_desc":    rp.ShortDesc,
			"price":         paiseToRupees(rp.PriceInPaise),
			"primary_image": primaryImageURL(rp.Images),
		})
	}

	return respondOK(c, http.StatusOK, map[string]any{
		"product":          view,
		"related_products": relatedViews,
	})
}

// GetCategories handles GET /api/products/categories/list.
func (h *ProductHandler) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()

	var categories []models.Category
	if err := h.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to fetch categories")
	}

	views := make([]map[string]any, 0, len(categories))
	for _, category := range categories {
		var count int64
		if err := h.DB.WithContext(ctx).
			Model(&models.Product{}).
			Where("category_id = ? AND is_active = ?", category.ID, true).
			Count(&count).Error; err != nil {
			return respondError(c, http.StatusInternalServerError, "Failed to fetch categories")
		}
		views = append(views, map[string]any{
			"id":            category.ID,
			"name":          category.Name,
			"slug":          category.Slug,
			"description":   category.Description,
			"image":         category.Image,
			"product_count": count,
		})
	}

	return respondOK(c, http.StatusOK, views)
}

type productImageInput struct {
	URL       string `json:"url"        validate:"required,url"`
	AltText   string `json:"alt_text"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order"`
}

type createProductRequest struct {
	Name         string              `json:"name"              validate:"required,min=2"`
	Description  string              `json:"description"       validate:"required,min=10"`
	ShortDesc    string              `json:"short_desc"`
	PriceInPaise int64               `json:"price_in_paise"    validate:"required,gt=0"`
	Stock        int                 `json:"stock"             validate:"gte=0"`
	CategoryID   uint                `json:"category_id"       validate:"required,gt=0"`
	Weight       float64             `json:"weight"            validate:"omitempty,gt=0"`
	Dimensions   string              `json:"dimensions"`
	Material     string              `json:"material"`
	CareNotes    string              `json:"care_instructions"`
	IsFeatured   bool                `json:"is_featured"`
	Images       []productImageInput `json:"images"            validate:"omitempty,dive"`
}

// ListProductsAdmin handles GET /api/admin/products, including inactive
// products and per-product order counts.
func (h *ProductHandler) ListProductsAdmin(c echo.Context) error {
	var products []models.Product
	err := h.DB.WithContext(c.Request().Context()).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to fetch products")
	}

	views := make([]map[string]any, 0, len(products))
	for _, p := range products {
		var orderCount int64
		h.DB.Model(&models.OrderItem{}).Where("product_id = ?", p.ID).Count(&orderCount)

		view := productToView(p)
		views = append(views, map[string]any{
			"product":     view,
			"order_count": orderCount,
		})
	}

	return respondOK(c, http.StatusOK, views)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	slug := generateSlug(req.Name)
	var existing models.Product
	if err := h.DB.Where("slug = ?", slug).First(&existing).Error; err == nil {
		slug = fmt.Sprintf("%s-%d", slug, time.Now().UnixMilli())
	}

	images := make([]models.ProductImage, 0, len(req.Images))
	for _, img := range req.Images {
		images = append(images, models.ProductImage{
			URL:       img.URL,
			AltText:   img.AltText,
			IsPrimary: img.IsPrimary,
			SortOrder: img.SortOrder,
		})
	}

	product := models.Product{
		Name:         req.Name,
		Slug:         slug,
		Description:  req.Description,
		ShortDesc:    req.ShortDesc,
		PriceInPaise: req.PriceInPaise,
		Stock:        req.Stock,
		IsActive:     true,
		IsFeatured:   req.IsFeatured,
		Weight:       req.Weight,
		Dimensions:   req.Dimensions,
		Material:     req.Material,
		CareNotes:    req.CareNotes,
		CategoryID:   req.CategoryID,
		Images:       images,
	}

	if err := h.DB.Create(&product).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to create product")
	}

	h.publish(c, map[string]any{
		"type":       "product_created",
		"product_id": product.ID,
		"name":       product.Name,
	})

	return respondCreated(c, http.StatusCreated, "Product created successfully", productToView(product))
}

type updateProductRequest struct {
	Name         *string  `json:"name"              validate:"omitempty,min=2"`
	Description  *string  `json:"description"       validate:"omitempty,min=10"`
	ShortDesc    *string  `json:"short_desc"`
	PriceInPaise *int64   `json:"price_in_paise"    validate:"omitempty,gt=0"`
	Stock        *int     `json:"stock"             validate:"omitempty,gte=0"`
	CategoryID   *uint    `json:"category_id"       validate:"omitempty,gt=0"`
	Weight       *float64 `json:"weight"            validate:"omitempty,gt=0"`
	Dimensions   *string  `json:"dimensions"`
	Material     *string  `json:"material"`
	CareNotes    *string  `json:"care_instructions"`
	IsActive     *bool    `json:"is_active"`
	IsFeatured   *bool    `json:"is_featured"`
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}

	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusNotFound, "Product not found")
		}
		return respondError(c, http.StatusInternalServerError, "Failed to fetch product")
	}

	if req.Name != nil && *req.Name != product.Name {
		slug := generateSlug(*req.Name)
		var clash models.Product
		if err := h.DB.Where("slug = ? AND id != ?", slug, product.ID).First(&clash).Error; err == nil {
			slug = fmt.Sprintf("%s-%d", slug, time.Now().UnixMilli())
		}
		product.Name = *req.Name
		product.Slug = slug
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.ShortDesc != nil {
		product.ShortDesc = *req.ShortDesc
	}
	if req.PriceInPaise != nil {
		product.PriceInPaise = *req.PriceInPaise
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}
	if req.Weight != nil {
		product.Weight = *req.Weight
	}
	if req.Dimensions != nil {
		product.Dimensions = *req.Dimensions
	}
	if req.Material != nil {
		product.Material = *req.Material
	}
	if req.CareNotes != nil {
		product.CareNotes = *req.CareNotes
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}

	if err := h.DB.Save(&product).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to update product")
	}

	h.publish(c, map[string]any{
		"type":       "product_updated",
		"product_id": product.ID,
		"name":       product.Name,
	})

	return c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Product updated successfully",
		Data:    productToView(product),
	})
}

// DeleteProduct refuses to delete products referenced by order items; those
// should be deactivated instead so order history stays intact.
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusNotFound, "Product not found")
		}
		return respondError(c, http.StatusInternalServerError, "Failed to fetch product")
	}

	var orderCount int64
	if err := h.DB.Model(&models.OrderItem{}).Where("product_id = ?", product.ID).Count(&orderCount).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to delete product")
	}
	if orderCount > 0 {
		return respondError(c, http.StatusBadRequest,
			"Cannot delete product with existing orders. Consider deactivating instead.")
	}

	if err := h.DB.Select("Images").Delete(&product).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to delete product")
	}

	h.publish(c, map[string]any{
		"type":       "product_deleted",
		"product_id": product.ID,
	})

	return c.JSON(http.StatusOK, Response{Success: true, Message: "Product deleted successfully"})
}
