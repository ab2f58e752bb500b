package handlers

import (
	"net/http"

	"github.com/remnantdom/ALSDI-school-finance-cloud/config"
	"github.com/remnantdom/ALSDI-school-finance-cloud/internal/finance"
	"github.com/remnantdom/ALSDI-school-finance-cloud/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetFeeScheduleHandler retrieves all fee schedule rows.
func GetFeeScheduleHandler(c *gin.Context) {
	var fees []models.FeeSchedule
	if err := config.DB.Order("id asc").Find(&fees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch fee schedule"})
		return
	}
	c.JSON(http.StatusOK, fees)
}

// UpdateFeeScheduleHandler bulk-updates fee schedule rows in one
// transaction, creating rows for grades that have none yet.
func UpdateFeeScheduleHandler(c *gin.Context) {
	var fees []models.FeeSchedule
	if err := c.ShouldBindJSON(&fees); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data provided"})
		return
	}

	for _, fee := range fees {
		if !models.ContainsOption(models.GradeLevels, fee.GradeLevel) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown grade level: " + fee.GradeLevel})
			return
		}
	}

	tx := config.DB.Begin()
	for _, fee := range fees {
		update := models.FeeSchedule{
			DownPayment: fee.DownPayment,
			MonthlyRate: fee.MonthlyRate,
			BooksFee:    fee.BooksFee,
		}
		result := tx.Model(&models.FeeSchedule{}).
			Where("grade_level = ?", fee.GradeLevel).
			Select("DownPayment", "MonthlyRate", "BooksFee").
			Updates(update)
		if result.Error != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update fee schedule"})
			return
		}
		if result.RowsAffected == 0 {
			update.GradeLevel = fee.GradeLevel
			if err := tx.Create(&update).Error; err != nil {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create fee schedule row"})
				return
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction commit error"})
		return
	}

	invalidateFinancialsCache()
	c.JSON(http.StatusOK, gin.H{"message": "Fee schedule updated successfully"})
}

// loadSchedule projects the fee table into the calculator's schedule type.
// Grades without a row simply stay absent, which the calculator treats as
// a zero-fee configuration gap.
func loadSchedule(db *gorm.DB) (finance.Schedule, error) {
	var fees []models.FeeSchedule
	if err := db.Find(&fees).Error; err != nil {
		return nil, err
	}
	schedule := make(finance.Schedule, len(fees))
	for _, fee := range fees {
		schedule[fee.GradeLevel] = finance.ScheduleEntry{
			DownPayment: fee.DownPayment,
			MonthlyRate: fee.MonthlyRate,
			BooksFee:    fee.BooksFee,
		}
	}
	return schedule, nil
}
