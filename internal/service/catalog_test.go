package service

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citywaste/waste-flow-api/internal/dto"
	"github.com/citywaste/waste-flow-api/internal/model"
	"github.com/citywaste/waste-flow-api/internal/storage"
)

func newCatalogService(t *testing.T, categories *mockCategoryRepo, products *mockProductRepo) *CatalogService {
	t.Helper()
	images, err := storage.NewImageStore(t.TempDir())
	require.NoError(t, err)
	return NewCatalogService(categories, products, images, nil)
}

func TestCatalogService_CreateProduct(t *testing.T) {
	categories := newMockCategoryRepo()
	products := newMockProductRepo()
	svc := newCatalogService(t, categories, products)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Recyclables"})
	require.NoError(t, err)

	resp, err := svc.CreateProduct(ctx, dto.CreateProductForm{
		Name:       "Bin Liner",
		CategoryID: cat.ID,
		Price:      decimal.NewFromInt(500),
		Stock:      20,
		Features:   "tear resistant, 50L, biodegradable",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Bin Liner", resp.Name)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, []string{"tear resistant", "50L", "biodegradable"}, resp.Features)
	require.NotNil(t, resp.Category)
	assert.Equal(t, "Recyclables", resp.Category.Name)
}

func TestCatalogService_CreateProduct_UnknownCategory(t *testing.T) {
	svc := newCatalogService(t, newMockCategoryRepo(), newMockProductRepo())

	_, err := svc.CreateProduct(context.Background(), dto.CreateProductForm{
		Name: "Bin Liner", CategoryID: 99, Price: decimal.NewFromInt(500),
	}, nil)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCatalogService_CreateProduct_WithImage(t *testing.T) {
	categories := newMockCategoryRepo()
	svc := newCatalogService(t, categories, newMockProductRepo())
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Bins"})
	require.NoError(t, err)

	resp, err := svc.CreateProduct(ctx, dto.CreateProductForm{
		Name: "Wheelie Bin", CategoryID: cat.ID, Price: decimal.NewFromInt(15000),
	}, &Upload{Reader: strings.NewReader("png-bytes"), Filename: "bin.png"})
	require.NoError(t, err)

	assert.NotEqual(t, "bin.png", resp.Image, "stored name must not reuse the upload name")
	assert.True(t, strings.HasSuffix(resp.Image, ".png"))
}

func TestCatalogService_UpdateProduct_PartialFields(t *testing.T) {
	categories := newMockCategoryRepo()
	products := newMockProductRepo()
	svc := newCatalogService(t, categories, products)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Bins"})
	require.NoError(t, err)
	created, err := svc.CreateProduct(ctx, dto.CreateProductForm{
		Name: "Wheelie Bin", CategoryID: cat.ID,
		Price: decimal.NewFromInt(15000), Stock: 5, Description: "120L bin",
	}, nil)
	require.NoError(t, err)

	newPrice := decimal.NewFromInt(12000)
	resp, err := svc.UpdateProduct(ctx, created.ID, dto.UpdateProductForm{Price: &newPrice}, nil)
	require.NoError(t, err)

	assert.True(t, resp.Price.Equal(newPrice))
	assert.Equal(t, "Wheelie Bin", resp.Name)
	assert.Equal(t, 5, resp.Stock)
	assert.Equal(t, "120L bin", resp.Description)
}

func TestCatalogService_UpdateProduct_NotFound(t *testing.T) {
	svc := newCatalogService(t, newMockCategoryRepo(), newMockProductRepo())

	_, err := svc.UpdateProduct(context.Background(), 42, dto.UpdateProductForm{}, nil)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogService_DeleteCategory_NotFound(t *testing.T) {
	svc := newCatalogService(t, newMockCategoryRepo(), newMockProductRepo())

	_, err := svc.DeleteCategory(context.Background(), 7)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestParseFeatures(t *testing.T) {
	assert.Equal(t, []string{}, parseFeatures(""))
	assert.Equal(t, []string{"a", "b"}, parseFeatures("a, b"))
	assert.Equal(t, []string{"one"}, parseFeatures("one"))
}

func TestCatalogService_ListProducts_NestedCategory(t *testing.T) {
	categories := newMockCategoryRepo()
	products := newMockProductRepo()
	svc := newCatalogService(t, categories, products)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Recyclables"})
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, dto.CreateProductForm{
		Name: "Bin Liner", CategoryID: cat.ID, Price: decimal.NewFromInt(500),
	}, nil)
	require.NoError(t, err)

	list, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Category)
	assert.Equal(t, "Recyclables", list[0].Category.Name)
}

func TestCatalogService_ToProductResponse_NilFeatures(t *testing.T) {
	resp := toProductResponse(&model.Product{Name: "Bin"})
	assert.NotNil(t, resp.Features)
	assert.Empty(t, resp.Features)
}
