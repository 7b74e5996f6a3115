package store_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/bazaarhub-dev/marketplace-api/models"
	"github.com/bazaarhub-dev/marketplace-api/store"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"go.uber.org/goleak"
	"gorm.io/gorm"
)

type ledgerSuite struct {
	suite.Suite

	db        *gorm.DB
	ledger    *store.Ledger
	container testcontainers.Container
}

// entry point to run the tests in the suite
func TestLedgerSuite(t *testing.T) {
	// Verifies no leaks after all tests in the suite run.
	defer goleak.VerifyNone(t, goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"))

	suite.Run(t, new(ledgerSuite))
}

func (suite *ledgerSuite) SetupSuite() {
	ctx := suite.T().Context()

	var (
		connStr string
		err     error
	)

	suite.container, connStr, err = startPostgres(ctx)
	suite.NoError(err)

	suite.db, err = openGorm(connStr)
	suite.NoError(err)

	suite.ledger = store.NewLedger(suite.db)
}

func (suite *ledgerSuite) TearDownSuite() {
	ctx := suite.T().Context()

	if suite.db != nil {
		if sqlDB, err := suite.db.DB(); err == nil {
			suite.NoError(sqlDB.Close())
		}
	}
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(ctx))
	}
}

func (suite *ledgerSuite) createProduct(stock int) models.Product {
	product := fakeProduct(stock)
	suite.Require().NoError(suite.db.Create(&product).Error)
	return product
}

func (suite *ledgerSuite) currentStock(productID uint) int {
	var product models.Product
	suite.Require().NoError(suite.db.First(&product, productID).Error)
	return product.Stock
}

func (suite *ledgerSuite) TestGetProduct() {
	product := suite.createProduct(5)

	suite.Run("existing product: ok", func() {
		t := suite.T()

		got, err := suite.ledger.GetProduct(t.Context(), product.ID)
		require.NoError(t, err)
		assert.Equal(t, product.ID, got.ID)
		assert.Equal(t, 5, got.Stock)
	})

	suite.Run("unknown product: not found", func() {
		t := suite.T()

		_, err := suite.ledger.GetProduct(t.Context(), 999999)
		assert.ErrorIs(t, err, store.ErrProductNotFound)
	})
}

func (suite *ledgerSuite) TestGetProducts() {
	p1 := suite.createProduct(3)
	p2 := suite.createProduct(7)

	t := suite.T()
	ctx := t.Context()

	byID, err := suite.ledger.GetProducts(ctx, []uint{p1.ID, p2.ID, 999999})
	require.NoError(t, err)

	require.Len(t, byID, 2)
	assert.Equal(t, 3, byID[p1.ID].Stock)
	assert.Equal(t, 7, byID[p2.ID].Stock)

	empty, err := suite.ledger.GetProducts(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func (suite *ledgerSuite) TestReserveStock() {
	tests := []struct {
		name          string
		stock         int
		quantity      int
		wantAvailable int // for the insufficient-stock case
		wantStock     int
		wantErr       bool
	}{
		{name: "enough stock: ok", stock: 5, quantity: 3, wantStock: 2},
		{name: "exact stock: ok", stock: 4, quantity: 4, wantStock: 0},
		{name: "not enough stock: fail, no side effects", stock: 2, quantity: 3, wantAvailable: 2, wantStock: 2, wantErr: true},
		{name: "zero stock: fail", stock: 0, quantity: 1, wantAvailable: 0, wantStock: 0, wantErr: true},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			product := suite.createProduct(tt.stock)

			err := suite.ledger.ReserveStock(ctx, product.ID, tt.quantity)
			if tt.wantErr {
				var insufficient *store.InsufficientStockError
				require.ErrorAs(t, err, &insufficient)
				assert.Equal(t, product.ID, insufficient.ProductID)
				assert.Equal(t, tt.quantity, insufficient.Requested)
				assert.Equal(t, tt.wantAvailable, insufficient.Available)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.wantStock, suite.currentStock(product.ID))
		})
	}

	suite.Run("unknown product: not found", func() {
		t := suite.T()

		err := suite.ledger.ReserveStock(t.Context(), 999999, 1)
		assert.ErrorIs(t, err, store.ErrProductNotFound)
	})
}

func (suite *ledgerSuite) TestRestoreStock() {
	t := suite.T()
	ctx := t.Context()

	product := suite.createProduct(1)

	require.NoError(t, suite.ledger.ReserveStock(ctx, product.ID, 1))
	require.NoError(t, suite.ledger.RestoreStock(ctx, product.ID, 1))
	assert.Equal(t, 1, suite.currentStock(product.ID))

	assert.ErrorIs(t, suite.ledger.RestoreStock(ctx, 999999, 1), store.ErrProductNotFound)
}

func (suite *ledgerSuite) TestAdjustStock() {
	t := suite.T()
	ctx := t.Context()

	product := suite.createProduct(2)

	require.NoError(t, suite.ledger.AdjustStock(ctx, product.ID, 10))
	assert.Equal(t, 12, suite.currentStock(product.ID))

	require.NoError(t, suite.ledger.AdjustStock(ctx, product.ID, -2))
	assert.Equal(t, 10, suite.currentStock(product.ID))

	// Correction below zero is rejected, stock untouched.
	var insufficient *store.InsufficientStockError
	require.ErrorAs(t, suite.ledger.AdjustStock(ctx, product.ID, -11), &insufficient)
	assert.Equal(t, 10, suite.currentStock(product.ID))
}

// Stock never goes below zero when N callers race for K < N units, and
// exactly K of them win.
func (suite *ledgerSuite) TestReserveStockConcurrent() {
	t := suite.T()

	const (
		stock   = 4
		workers = 10
	)
	product := suite.createProduct(stock)

	var (
		wg        sync.WaitGroup
		successes atomic.Int64
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := suite.ledger.ReserveStock(context.Background(), product.ID, 1)
			if err == nil {
				successes.Add(1)
				return
			}

			var insufficient *store.InsufficientStockError
			assert.ErrorAs(t, err, &insufficient)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, stock, successes.Load())
	assert.Equal(t, 0, suite.currentStock(product.ID))
}

func fakeProduct(stock int) models.Product {
	return models.Product{
		Name:        gofakeit.ProductName(),
		Description: gofakeit.LetterN(20),
		Price:       gofakeit.Price(1, 100),
		Category:    gofakeit.ProductCategory(),
		Stock:       stock,
		Images:      []string{gofakeit.URL()},
		OwnedBy:     gofakeit.UUID(),
	}
}
