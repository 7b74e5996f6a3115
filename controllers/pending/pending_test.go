package pendingController_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	pendingController "github.com/bazaarhub-dev/marketplace-api/controllers/pending"
	"github.com/bazaarhub-dev/marketplace-api/models"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"gorm.io/gorm"
)

type pendingSuite struct {
	suite.Suite

	db        *gorm.DB
	router    *gin.Engine
	container testcontainers.Container
}

// entry point to run the tests in the suite
func TestPendingSuite(t *testing.T) {
	suite.Run(t, new(pendingSuite))
}

func (suite *pendingSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	ctx := suite.T().Context()

	var (
		connStr string
		err     error
	)

	suite.container, connStr, err = startPostgres(ctx)
	suite.NoError(err)

	suite.db, err = openGorm(connStr)
	suite.NoError(err)

	suite.router = gin.New()
	suite.router.PUT("/preproducts/:id/approve", pendingController.ApproveProduct(suite.db))
	suite.router.PUT("/preproducts/:id/reject", pendingController.RejectProduct(suite.db))
}

func (suite *pendingSuite) TearDownSuite() {
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

func (suite *pendingSuite) createSubmission() models.PendingProduct {
	submission := models.PendingProduct{
		OwnedBy:     gofakeit.UUID(),
		Name:        gofakeit.ProductName(),
		Description: gofakeit.LetterN(20),
		Price:       gofakeit.Price(1, 100),
		Category:    gofakeit.ProductCategory(),
		Stock:       5,
		Status:      models.PendingStatusPending,
	}
	suite.Require().NoError(suite.db.Create(&submission).Error)
	return submission
}

func (suite *pendingSuite) approve(id uint) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/preproducts/%d/approve", id), nil)
	suite.router.ServeHTTP(rec, req)
	return rec
}

func (suite *pendingSuite) reject(id uint) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/preproducts/%d/reject", id), nil)
	suite.router.ServeHTTP(rec, req)
	return rec
}

func (suite *pendingSuite) productCount(ownedBy string) int64 {
	var count int64
	suite.Require().NoError(suite.db.Model(&models.Product{}).
		Where("owned_by = ?", ownedBy).Count(&count).Error)
	return count
}

func (suite *pendingSuite) TestApprove() {
	t := suite.T()

	submission := suite.createSubmission()

	rec := suite.approve(submission.ID)
	assert.Equal(t, http.StatusOK, rec.Code)

	var reloaded models.PendingProduct
	require.NoError(t, suite.db.First(&reloaded, submission.ID).Error)
	assert.Equal(t, models.PendingStatusAccepted, reloaded.Status)

	assert.EqualValues(t, 1, suite.productCount(submission.OwnedBy))

	// A resolved submission cannot be approved again.
	rec = suite.approve(submission.ID)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.EqualValues(t, 1, suite.productCount(submission.OwnedBy))
}

func (suite *pendingSuite) TestApproveUnknown() {
	rec := suite.approve(999999)
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
}

// Concurrent approvals of the same submission create exactly one product.
func (suite *pendingSuite) TestApproveConcurrent() {
	t := suite.T()

	submission := suite.createSubmission()

	const attempts = 4
	var (
		wg       sync.WaitGroup
		approved atomic.Int64
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if suite.approve(submission.ID).Code == http.StatusOK {
				approved.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, approved.Load())
	assert.EqualValues(t, 1, suite.productCount(submission.OwnedBy))
}

func (suite *pendingSuite) TestReject() {
	t := suite.T()

	submission := suite.createSubmission()

	rec := suite.reject(submission.ID)
	assert.Equal(t, http.StatusOK, rec.Code)

	var reloaded models.PendingProduct
	require.NoError(t, suite.db.First(&reloaded, submission.ID).Error)
	assert.Equal(t, models.PendingStatusRejected, reloaded.Status)

	// Already resolved, nothing left to reject.
	rec = suite.reject(submission.ID)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Zero(t, suite.productCount(submission.OwnedBy))
}
