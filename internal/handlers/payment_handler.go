// internal/handlers/payment_handler.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/remnantdom/ALSDI-school-finance-cloud/config"
	"github.com/remnantdom/ALSDI-school-finance-cloud/internal/finance"
	"github.com/remnantdom/ALSDI-school-finance-cloud/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// PostPaymentRequest carries one incoming payment to be allocated and
// appended to the ledger.
type PostPaymentRequest struct {
	StudentID       string  `json:"studentId" binding:"required"`
	Amount          float64 `json:"amount"`
	PaymentDate     string  `json:"paymentDate" binding:"required"`
	Method          string  `json:"method" binding:"required"`
	TransactionType string  `json:"transactionType"`
	SchoolYear      string  `json:"schoolYear"`
}

// newReceiptNumber issues a short uppercase receipt code shared by every
// row of one posted payment.
func newReceiptNumber() string {
	return "OR-" + strings.ToUpper(uuid.NewString()[:8])
}

// ledgerRows loads the student's payment rows for one school year in the
// calculator's shape.
func ledgerRows(studentID, schoolYear string) ([]finance.LedgerRow, error) {
	var rows []finance.LedgerRow
	err := config.DB.Model(&models.Payment{}).
		Select("student_id, school_year, category, amount").
		Where("student_id = ? AND school_year = ?", studentID, schoolYear).
		Scan(&rows).Error
	return rows, err
}

// PostPaymentHandler allocates a payment across the fee categories and
// appends one ledger row per category. All rows of a posting are written
// in a single transaction so a receipt never lands half-recorded.
func PostPaymentHandler(c *gin.Context) {
	var req PostPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data: " + err.Error()})
		return
	}
	if req.Amount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must not be negative"})
		return
	}

	paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	schoolYear := req.SchoolYear
	if schoolYear == "" {
		schoolYear = config.C.CurrentSchoolYear
	}
	if req.TransactionType == "" {
		req.TransactionType = "Payment"
	}

	var student models.Student
	if err := config.DB.Where("student_id = ?", req.StudentID).First(&student).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	schedule, err := loadSchedule(config.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load fee schedule"})
		return
	}

	rows, err := ledgerRows(student.StudentID, schoolYear)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payment history"})
		return
	}

	allocation := finance.Allocate(schedule, student.GradeLevel, req.Amount, rows, student.StudentID, schoolYear)
	if len(allocation) == 0 {
		// Zero amount allocates nothing; post nothing rather than a
		// zero-amount row.
		c.JSON(http.StatusOK, gin.H{"message": "Nothing to post", "allocation": allocation})
		return
	}

	receipt := newReceiptNumber()
	studentName := strings.TrimSpace(student.LastName + ", " + student.FirstName + " " + student.MiddleName)

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	for _, category := range finance.AllocationOrder {
		amount, ok := allocation[category]
		if !ok {
			continue
		}
		payment := models.Payment{
			ReceiptNumber:   receipt,
			StudentID:       student.StudentID,
			StudentName:     studentName,
			PaymentDate:     paymentDate,
			Amount:          amount,
			Method:          req.Method,
			Category:        category,
			TransactionType: req.TransactionType,
			SchoolYear:      schoolYear,
		}
		if err := tx.Create(&payment).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save payment"})
			return
		}
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	// The financials cache must never serve a pre-write snapshot.
	invalidateFinancialsCache(financialsCacheKey(student.StudentID, schoolYear))

	c.JSON(http.StatusCreated, gin.H{
		"receiptNumber": receipt,
		"allocation":    allocation,
	})
}

// ListPaymentsHandler returns the payment ledger, paginated, newest first.
func ListPaymentsHandler(c *gin.Context) {
	var payments []models.Payment
	var totalRows int64

	baseQuery := config.DB.Model(&models.Payment{})

	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		baseQuery = baseQuery.Where(
			"LOWER(student_name) LIKE ? OR student_id LIKE ? OR receipt_number LIKE ?",
			pattern, "%"+search+"%", "%"+search+"%",
		)
	}
	if sy := c.Query("schoolYear"); sy != "" {
		baseQuery = baseQuery.Where("school_year = ?", sy)
	}
	if studentID := c.Query("studentId"); studentID != "" {
		baseQuery = baseQuery.Where("student_id = ?", studentID)
	}

	if err := baseQuery.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count payments"})
		return
	}

	if err := baseQuery.Scopes(Paginate(c)).
		Order("payment_date DESC, id DESC").
		Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	if payments == nil {
		payments = make([]models.Payment, 0)
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, payments, totalRows))
}

// financialsResponse is the cached financials payload.
type financialsResponse struct {
	StudentID  string             `json:"studentId"`
	SchoolYear string             `json:"schoolYear"`
	GradeLevel string             `json:"gradeLevel"`
	finance.Financials
	PaidByCategory map[string]float64 `json:"paidByCategory"`
}

// GetFinancialsHandler returns total fee, paid to date and balance for one
// student and school year, with a per-category breakdown. Responses are
// cached in Redis for a short TTL; every write path invalidates the key,
// so the cache is a rate limiter, not a consistency mechanism.
func GetFinancialsHandler(c *gin.Context) {
	student, ok := findStudentByRegistrarID(c)
	if !ok {
		return
	}
	schoolYear := requestedSchoolYear(c)

	cacheKey := financialsCacheKey(student.StudentID, schoolYear)
	if config.RDB != nil {
		if cached, err := config.RDB.Get(config.Ctx, cacheKey).Result(); err == nil {
			var resp financialsResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				c.JSON(http.StatusOK, resp)
				return
			}
		} else if err != redis.Nil {
			slog.Error("Redis GET failed", "error", err, "key", cacheKey)
		}
	}

	schedule, err := loadSchedule(config.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load fee schedule"})
		return
	}
	rows, err := ledgerRows(student.StudentID, schoolYear)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payment history"})
		return
	}

	fin := finance.ComputeFinancials(schedule, student.GradeLevel, student.StudentID, schoolYear, rows)

	paidByCategory := make(map[string]float64)
	for _, row := range rows {
		paidByCategory[row.Category] += row.Amount
	}

	resp := financialsResponse{
		StudentID:      student.StudentID,
		SchoolYear:     schoolYear,
		GradeLevel:     student.GradeLevel,
		Financials:     fin,
		PaidByCategory: paidByCategory,
	}

	if config.RDB != nil {
		if jsonData, err := json.Marshal(resp); err == nil {
			if err := config.RDB.Set(config.Ctx, cacheKey, jsonData, config.C.FinancialsTTL).Err(); err != nil {
				slog.Error("Failed to cache financials", "error", err, "key", cacheKey)
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}

// invalidateFinancialsCache drops the given financials keys, or every
// financials key when called with none (fee schedule changes touch all
// students).
func invalidateFinancialsCache(keys ...string) {
	if config.RDB == nil {
		return
	}
	if len(keys) > 0 {
		config.RDB.Del(config.Ctx, keys...)
		return
	}
	iter := config.RDB.Scan(config.Ctx, 0, "financials:*", 0).Iterator()
	for iter.Next(config.Ctx) {
		config.RDB.Del(config.Ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		slog.Error("Failed to scan financials cache keys", "error", err)
	}
}
