package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citywaste/waste-flow-api/internal/model"
)

func TestUserRepo_CreateAndGetByUsername(t *testing.T) {
	cleanupTable(t, "payments", "orders", "waste_collections", "complaints", "users")

	repo := NewUserRepository(testPool)
	ctx := context.Background()

	user := &model.User{
		Username: "amina", Email: "amina@example.com", Password: "hashed",
		Role: model.RoleCitizen, IsActive: true,
	}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)

	found, err := repo.GetByUsername(ctx, "amina")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, model.RoleCitizen, found.Role)

	missing, err := repo.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepo_DeleteByRole(t *testing.T) {
	cleanupTable(t, "payments", "orders", "waste_collections", "complaints", "users")

	repo := NewUserRepository(testPool)
	ctx := context.Background()

	citizen := &model.User{Username: "amina", Email: "a@example.com", Password: "x", Role: model.RoleCitizen}
	collector := &model.User{Username: "paul", Email: "p@example.com", Password: "x", Role: model.RoleCollector}
	require.NoError(t, repo.Create(ctx, citizen))
	require.NoError(t, repo.Create(ctx, collector))

	// Role mismatch leaves the row alone.
	deleted, err := repo.DeleteByRole(ctx, citizen.ID, model.RoleCollector)
	require.NoError(t, err)
	assert.Nil(t, deleted)

	deleted, err = repo.DeleteByRole(ctx, collector.ID, model.RoleCollector)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, "paul", deleted.Username)

	found, err := repo.GetByID(ctx, collector.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestProductRepo_FeaturesRoundTrip(t *testing.T) {
	cleanupTable(t, "payments", "orders", "products", "categories")

	categories := NewCategoryRepository(testPool)
	products := NewProductRepository(testPool)
	ctx := context.Background()

	category := &model.Category{Name: "Recyclables"}
	require.NoError(t, categories.Create(ctx, category))

	product := &model.Product{
		Name:        "Compost bin",
		Description: "80L outdoor composter",
		Price:       decimal.NewFromInt(15000),
		Stock:       4,
		Status:      model.ProductStatusActive,
		Features:    []string{"80L", "UV resistant"},
		Image:       "bin.png",
		CategoryID:  category.ID,
	}
	require.NoError(t, products.Create(ctx, product))

	found, err := products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, []string{"80L", "UV resistant"}, found.Features)
	assert.True(t, found.Price.Equal(decimal.NewFromInt(15000)))
	require.NotNil(t, found.Category)
	assert.Equal(t, "Recyclables", found.Category.Name)
}

func TestCollectionRepo_ClaimAndComplete(t *testing.T) {
	cleanupTable(t, "waste_collections", "users")

	users := NewUserRepository(testPool)
	collections := NewCollectionRepository(testPool)
	ctx := context.Background()

	citizen := &model.User{Username: "amina", Email: "a@example.com", Password: "x", Role: model.RoleCitizen}
	collector := &model.User{Username: "paul", Email: "p@example.com", Password: "x", Role: model.RoleCollector}
	require.NoError(t, users.Create(ctx, citizen))
	require.NoError(t, users.Create(ctx, collector))

	collection := &model.WasteCollection{
		UserID: citizen.ID, Location: "Akwa", Status: model.CollectionStatusRequested,
	}
	require.NoError(t, collections.Create(ctx, collection))

	claimed, err := collections.Claim(ctx, collection.ID, collector.ID)
	require.NoError(t, err)
	assert.True(t, claimed)

	// Completing as somebody else touches zero rows.
	err = collections.Complete(ctx, collection.ID, collector.ID+1)
	assert.Error(t, err)

	require.NoError(t, collections.Complete(ctx, collection.ID, collector.ID))

	found, err := collections.GetByID(ctx, collection.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CollectionStatusCompleted, found.Status)

	// A completed row cannot be claimed again.
	claimed, err = collections.Claim(ctx, collection.ID, collector.ID)
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestPaymentRepo_GetByReference(t *testing.T) {
	cleanupTable(t, "payments", "orders", "products", "categories", "users")

	users := NewUserRepository(testPool)
	categories := NewCategoryRepository(testPool)
	products := NewProductRepository(testPool)
	orders := NewOrderRepository(testPool)
	payments := NewPaymentRepository(testPool)
	ctx := context.Background()

	user := &model.User{Username: "amina", Email: "a@example.com", Password: "x", Role: model.RoleCitizen}
	require.NoError(t, users.Create(ctx, user))
	category := &model.Category{Name: "Bins"}
	require.NoError(t, categories.Create(ctx, category))
	product := &model.Product{
		Name: "Bin", Price: decimal.NewFromInt(1000), Status: model.ProductStatusActive,
		Features: []string{}, CategoryID: category.ID,
	}
	require.NoError(t, products.Create(ctx, product))
	order := &model.Order{
		UserID: user.ID, ProductID: product.ID, Quantity: 2,
		TotalPrice: decimal.NewFromInt(2000), Status: model.OrderStatusPending,
	}
	require.NoError(t, orders.Create(ctx, order))

	payment := &model.Payment{
		UserID: user.ID, OrderID: order.ID, Amount: order.TotalPrice,
		Status: model.PaymentStatusPending, Reference: "ORD-1-test",
	}
	require.NoError(t, payments.Create(ctx, payment))

	found, err := payments.GetByReference(ctx, "ORD-1-test")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, payment.ID, found.ID)

	missing, err := payments.GetByReference(ctx, "ORD-unknown")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
