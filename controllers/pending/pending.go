package pendingController

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bazaarhub-dev/marketplace-api/middleware"
	"github.com/bazaarhub-dev/marketplace-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubmitProductInput struct {
	Name        string   `json:"name" binding:"required,min=3"`
	Description string   `json:"description" binding:"required,min=10,max=30"`
	Price       float64  `json:"price" binding:"min=0"`
	Category    string   `json:"category" binding:"required"`
	Stock       int      `json:"stock" binding:"min=0"`
	Images      []string `json:"images" binding:"omitempty,dive,url"`
}

// POST /preproducts (vendor)
func SubmitProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CallerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input SubmitProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		submission := models.PendingProduct{
			OwnedBy:     userID,
			Name:        input.Name,
			Description: input.Description,
			Price:       input.Price,
			Category:    input.Category,
			Stock:       input.Stock,
			Images:      input.Images,
			Status:      models.PendingStatusPending,
		}
		if err := db.Create(&submission).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit product"})
			return
		}

		c.JSON(http.StatusCreated, submission)
	}
}

// GET /preproducts: vendors see their own submissions, admin/owner see all.
func ListPendingProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := middleware.CallerRole(c)
		userID, _ := middleware.CallerID(c)

		query := db.Order("created_at DESC")
		switch role {
		case models.RoleAdmin, models.RoleOwner:
			// all submissions
		case models.RoleVendor:
			query = query.Where("owned_by = ?", userID)
		default:
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role for this operation"})
			return
		}

		var pending []models.PendingProduct
		if err := query.Find(&pending).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
			return
		}

		c.JSON(http.StatusOK, pending)
	}
}

// PUT /preproducts/:id/approve (admin/owner)
//
// Approval copies the submission into the products table so it enters the
// inventory ledger, then marks the submission accepted.
func ApproveProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
			return
		}

		var product models.Product
		err = db.Transaction(func(tx *gorm.DB) error {
			// Row lock so concurrent approvals of the same submission cannot
			// both observe pending and create duplicate products.
			var submission models.PendingProduct
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&submission, id).Error; err != nil {
				return err
			}
			if submission.Status != models.PendingStatusPending {
				return errors.New("submission already resolved")
			}

			product = models.Product{
				Name:        submission.Name,
				Description: submission.Description,
				Price:       submission.Price,
				Category:    submission.Category,
				Stock:       submission.Stock,
				Images:      submission.Images,
				OwnedBy:     submission.OwnedBy,
			}
			if err := tx.Create(&product).Error; err != nil {
				return err
			}

			return tx.Model(&submission).Update("status", models.PendingStatusAccepted).Error
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
				return
			}
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

// PUT /preproducts/:id/reject (admin/owner)
func RejectProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
			return
		}

		result := db.Model(&models.PendingProduct{}).
			Where("id = ? AND status = ?", id, models.PendingStatusPending).
			Update("status", models.PendingStatusRejected)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject submission"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "No pending submission with that ID"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Submission rejected"})
	}
}
