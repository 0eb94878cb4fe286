package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sellermetrics/catalog_api/internal/service"
	"github.com/sellermetrics/catalog_api/internal/utils"
)

// ProductHandler handles product CRUD and bulk import HTTP endpoints.
type ProductHandler struct {
	productService *service.ProductService
	importService  *service.ImportService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(productService *service.ProductService, importService *service.ImportService) *ProductHandler {
	return &ProductHandler{productService: productService, importService: importService}
}

// ListProducts handles GET /v1/admin/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	filter := &service.ListProductsFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Page:     1,
		Limit:    50,
	}
	if page := c.Query("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil {
			filter.Page = p
		}
	}
	if limit := c.Query("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			filter.Limit = l
		}
	}

	result, err := h.productService.ListProducts(filter)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve products")
		return
	}
	utils.SuccessWithPagination(c, 200, "Products retrieved", result.Products, result.Page, result.Limit, result.TotalItems)
}

// GetProduct handles GET /v1/admin/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid product id")
		return
	}

	product, err := h.productService.GetProduct(id)
	if err != nil {
		if err == utils.ErrProductNotFound {
			utils.Error(c, 404, "NOT_FOUND", "Product not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve product")
		return
	}
	utils.Success(c, 200, "Product retrieved", product)
}

type createProductRequest struct {
	Name string `json:"name" binding:"required"`
	service.ProductPatch
}

// CreateProduct handles POST /v1/admin/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.productService.CreateProduct(req.Name, req.ProductPatch)
	if err != nil {
		switch err {
		case utils.ErrMissingName:
			utils.Error(c, 400, "INVALID_REQUEST", "name is required")
		case utils.ErrDuplicateName:
			utils.Error(c, 400, "DUPLICATE_NAME", "a product with this name already exists")
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create product")
		}
		return
	}
	utils.Success(c, 201, "Product created", product)
}

// UpdateProduct handles PUT /v1/admin/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid product id")
		return
	}

	var patch service.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.productService.UpdateProduct(id, patch)
	if err != nil {
		switch err {
		case utils.ErrProductNotFound:
			utils.Error(c, 404, "NOT_FOUND", "Product not found")
		case utils.ErrMissingName:
			utils.Error(c, 400, "INVALID_REQUEST", "name must not be empty")
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update product")
		}
		return
	}
	utils.Success(c, 200, "Product updated", product)
}

// DeleteProduct handles DELETE /v1/admin/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid product id")
		return
	}

	if err := h.productService.DeleteProduct(id); err != nil {
		if err == utils.ErrProductNotFound {
			utils.Error(c, 404, "NOT_FOUND", "Product not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete product")
		return
	}
	utils.Success(c, 200, "Product deleted", nil)
}

// GetProductListings handles GET /v1/admin/products/:id/listings
func (h *ProductHandler) GetProductListings(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid product id")
		return
	}

	listings, err := h.productService.GetProductListings(id)
	if err != nil {
		if err == utils.ErrProductNotFound {
			utils.Error(c, 404, "NOT_FOUND", "Product not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve listings")
		return
	}
	utils.Success(c, 200, "Listings retrieved", listings)
}

type importRequest struct {
	Products []service.ImportProductRecord `json:"products" binding:"required"`
}

// ImportProducts handles POST /v1/admin/products/import
func (h *ProductHandler) ImportProducts(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	result, err := h.importService.BulkImport(c.Request.Context(), req.Products)
	if err != nil {
		// Committed chunks stay committed; the counts reflect them.
		c.JSON(500, gin.H{
			"success": false,
			"code":    500,
			"message": err.Error(),
			"data":    result,
		})
		return
	}
	utils.Success(c, 200, "Import completed", result)
}

type importS3Request struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key" binding:"required"`
}

// ImportProductsFromS3 handles POST /v1/admin/products/import/s3
func (h *ProductHandler) ImportProductsFromS3(c *gin.Context) {
	var req importS3Request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	result, err := h.importService.ImportFromS3(c.Request.Context(), req.Bucket, req.Key)
	if err != nil {
		c.JSON(500, gin.H{
			"success": false,
			"code":    500,
			"message": err.Error(),
			"data":    result,
		})
		return
	}
	utils.Success(c, 200, "Import completed", result)
}
