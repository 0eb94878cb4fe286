package service

import (
	"database/sql"
	"strings"

	"github.com/sellermetrics/catalog_api/internal/models"
	"github.com/sellermetrics/catalog_api/internal/repository"
	"github.com/sellermetrics/catalog_api/internal/utils"
)

// ProductService handles product CRUD operations.
type ProductService struct {
	productRepo     *repository.ProductRepository
	costProfileRepo *repository.CostProfileRepository
	listingRepo     *repository.ListingRepository
}

// NewProductService constructs a ProductService.
func NewProductService(productRepo *repository.ProductRepository, costProfileRepo *repository.CostProfileRepository, listingRepo *repository.ListingRepository) *ProductService {
	return &ProductService{
		productRepo:     productRepo,
		costProfileRepo: costProfileRepo,
		listingRepo:     listingRepo,
	}
}

// ListProductsFilter are the query parameters of the product list endpoint.
type ListProductsFilter struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

// ProductListResult is a page of products plus pagination totals.
type ProductListResult struct {
	Products   []models.Product
	Page       int
	Limit      int
	TotalItems int
	TotalPages int
}

// ProductDetail is a product together with its computed effective values.
type ProductDetail struct {
	models.Product
	Effective models.EffectiveValues `json:"effective"`
}

// ListProducts returns a page of products.
func (s *ProductService) ListProducts(f *ListProductsFilter) (*ProductListResult, error) {
	page := f.Page
	if page <= 0 {
		page = 1
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	products, total, err := s.productRepo.GetAllPaged(f.Category, f.Search, page, limit)
	if err != nil {
		return nil, err
	}
	totalPages := (total + limit - 1) / limit
	return &ProductListResult{
		Products:   products,
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// GetProduct retrieves a product by ID with its effective values resolved
// against its cost profile.
func (s *ProductService) GetProduct(id int) (*ProductDetail, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}

	var profile *models.CostProfile
	if product.CostProfileID != nil {
		profile, err = s.costProfileRepo.GetByID(*product.CostProfileID)
		if err != nil {
			return nil, err
		}
	}

	return &ProductDetail{
		Product:   *product,
		Effective: product.Effective(profile),
	}, nil
}

// CreateProduct creates a new product from a patch carrying its fields. The
// trimmed name is the natural key and must not collide with an existing one.
func (s *ProductService) CreateProduct(name string, patch ProductPatch) (*models.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, utils.ErrMissingName
	}

	existing, err := s.productRepo.GetByName(name)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	if existing != nil {
		return nil, utils.ErrDuplicateName
	}

	product := mergeProduct(models.Product{Name: name}, patch)
	product.Name = name
	if err := s.productRepo.Create(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct merges a patch into the stored product, field by field per
// the precedence table, and persists the result.
func (s *ProductService) UpdateProduct(id int, patch ProductPatch) (*models.Product, error) {
	existing, err := s.productRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}

	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, utils.ErrMissingName
	}

	merged := mergeProduct(*existing, patch)
	merged.Name = strings.TrimSpace(merged.Name)
	if err := s.productRepo.Update(&merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

// DeleteProduct deletes a product; its channel mappings cascade.
func (s *ProductService) DeleteProduct(id int) error {
	if _, err := s.productRepo.GetByID(id); err != nil {
		if err == sql.ErrNoRows {
			return utils.ErrProductNotFound
		}
		return err
	}
	return s.productRepo.Delete(id)
}

// GetProductListings returns all channel mappings for a product.
func (s *ProductService) GetProductListings(productID int) ([]models.MarketplaceProductData, error) {
	if _, err := s.productRepo.GetByID(productID); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	return s.listingRepo.GetByProductID(productID)
}
