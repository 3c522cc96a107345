package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/citywaste/waste-flow-api/internal/dto"
	"github.com/citywaste/waste-flow-api/internal/model"
	"github.com/citywaste/waste-flow-api/internal/repository"
	"github.com/citywaste/waste-flow-api/internal/storage"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
)

const productCacheTTL = 60 * time.Second

// Upload is a pending image attachment from a multipart request.
type Upload struct {
	Reader   io.Reader
	Filename string
}

type CatalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	images       *storage.ImageStore
	redisClient  *redis.Client
}

func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	images *storage.ImageStore,
	redisClient *redis.Client,
) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		images:       images,
		redisClient:  redisClient,
	}
}

// --- Categories ---

func (s *CatalogService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	category := &model.Category{Name: req.Name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &dto.CategoryResponse{ID: category.ID, Name: category.Name}, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		items = append(items, dto.CategoryResponse{ID: c.ID, Name: c.Name})
	}
	return items, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id int64, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	category.Name = req.Name
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return &dto.CategoryResponse{ID: category.ID, Name: category.Name}, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) (*model.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete category: %w", err)
	}
	return category, nil
}

// --- Products ---

func (s *CatalogService) CreateProduct(ctx context.Context, form dto.CreateProductForm, image *Upload) (*dto.ProductResponse, error) {
	category, err := s.categoryRepo.GetByID(ctx, form.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	status := model.ProductStatusActive
	if form.Status != "" {
		status = model.ProductStatus(form.Status)
	}

	product := &model.Product{
		Name:        form.Name,
		Description: form.Description,
		Price:       form.Price,
		Stock:       form.Stock,
		Status:      status,
		Features:    parseFeatures(form.Features),
		CategoryID:  form.CategoryID,
		Category:    category,
	}

	if image != nil {
		name, err := s.images.Save(image.Reader, image.Filename)
		if err != nil {
			return nil, fmt.Errorf("store image: %w", err)
		}
		product.Image = name
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	resp := toProductResponse(product)
	return &resp, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	cacheKey := "product:" + strconv.FormatInt(id, 10)

	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var resp dto.ProductResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	resp := toProductResponse(product)

	if s.redisClient != nil {
		if data, err := json.Marshal(resp); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, productCacheTTL)
		}
	}
	return &resp, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, toProductResponse(&products[i]))
	}
	return items, nil
}

// UpdateProduct applies only the form fields that were present. A new image
// upload always replaces the stored reference; the previous file stays on
// disk.
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, form dto.UpdateProductForm, image *Upload) (*dto.ProductResponse, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if form.Name != nil {
		product.Name = *form.Name
	}
	if form.Description != nil {
		product.Description = *form.Description
	}
	if form.Price != nil {
		product.Price = *form.Price
	}
	if form.Stock != nil {
		product.Stock = *form.Stock
	}
	if form.Status != nil {
		product.Status = model.ProductStatus(*form.Status)
	}
	if form.Features != nil {
		product.Features = parseFeatures(*form.Features)
	}
	if form.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *form.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("get category: %w", err)
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
		product.CategoryID = *form.CategoryID
		product.Category = category
	}
	if image != nil {
		name, err := s.images.Save(image.Reader, image.Filename)
		if err != nil {
			return nil, fmt.Errorf("store image: %w", err)
		}
		product.Image = name
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.invalidateCache(ctx, id)
	resp := toProductResponse(product)
	return &resp, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete product: %w", err)
	}
	s.invalidateCache(ctx, id)
	resp := toProductResponse(product)
	return &resp, nil
}

func (s *CatalogService) invalidateCache(ctx context.Context, id int64) {
	if s.redisClient != nil {
		s.redisClient.Del(ctx, "product:"+strconv.FormatInt(id, 10))
	}
}

// parseFeatures explodes the comma-separated form value into a list,
// trimming whitespace around each entry.
func parseFeatures(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	features := make([]string, 0, len(parts))
	for _, p := range parts {
		features = append(features, strings.TrimSpace(p))
	}
	return features
}

func toProductResponse(p *model.Product) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Status:      string(p.Status),
		Features:    p.Features,
		Image:       p.Image,
	}
	if resp.Features == nil {
		resp.Features = []string{}
	}
	if p.Category != nil {
		resp.Category = &dto.CategoryResponse{ID: p.Category.ID, Name: p.Category.Name}
	}
	return resp
}
