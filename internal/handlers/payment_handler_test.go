package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/remnantdom/ALSDI-school-finance-cloud/config"
	"github.com/remnantdom/ALSDI-school-finance-cloud/internal/finance"
	"github.com/remnantdom/ALSDI-school-finance-cloud/models"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB points the global DB at a fresh in-memory sqlite database.
// Redis stays nil, so every code path under test runs uncached.
func setupTestDB(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Student{}, &models.FeeSchedule{}, &models.Payment{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	config.DB = db
	config.RDB = nil
	config.C = config.Settings{
		SchoolName:        "Abundant Life School of Discovery",
		CurrentSchoolYear: "2025-2026",
	}
}

func seedGradeOne(t *testing.T) {
	t.Helper()
	fee := models.FeeSchedule{GradeLevel: "Grade 1", DownPayment: 9500, MonthlyRate: 1275, BooksFee: 5230}
	if err := config.DB.Create(&fee).Error; err != nil {
		t.Fatalf("failed to seed fee schedule: %v", err)
	}
}

func seedStudent(t *testing.T, studentID, gradeLevel string) {
	t.Helper()
	student := models.Student{
		StudentID:  studentID,
		LastName:   "Dela Cruz",
		FirstName:  "Juan",
		GradeLevel: gradeLevel,
	}
	if err := config.DB.Create(&student).Error; err != nil {
		t.Fatalf("failed to seed student: %v", err)
	}
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func paymentsRouter() *gin.Engine {
	r := gin.New()
	r.POST("/api/payments", PostPaymentHandler)
	return r
}

func TestPostPaymentHandler_ZeroAmountPostsNothing(t *testing.T) {
	setupTestDB(t)
	seedGradeOne(t)
	seedStudent(t, "2026-0001", "Grade 1")

	w := postJSON(paymentsRouter(), "/api/payments",
		`{"studentId":"2026-0001","amount":0,"paymentDate":"2025-06-15","method":"Cash"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
	}

	var count int64
	if err := config.DB.Model(&models.Payment{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count payments: %v", err)
	}
	if count != 0 {
		t.Errorf("ledger has %d rows after a zero-amount post, want 0", count)
	}
}

func TestPostPaymentHandler_AllocatesAcrossCategories(t *testing.T) {
	setupTestDB(t)
	seedGradeOne(t)
	seedStudent(t, "2026-0001", "Grade 1")

	w := postJSON(paymentsRouter(), "/api/payments",
		`{"studentId":"2026-0001","amount":20000,"paymentDate":"2025-06-15","method":"Cash"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, http.StatusCreated, w.Body.String())
	}

	var rows []models.Payment
	if err := config.DB.Order("id").Find(&rows).Error; err != nil {
		t.Fatalf("failed to load payments: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("ledger has %d rows, want 3", len(rows))
	}

	want := map[string]float64{
		finance.CategoryDownPayment:    9500,
		finance.CategoryBooks:          5230,
		finance.CategoryMonthlyTuition: 5270,
	}
	receipt := rows[0].ReceiptNumber
	for _, row := range rows {
		if row.ReceiptNumber != receipt {
			t.Errorf("row %q has receipt %q, want shared receipt %q", row.Category, row.ReceiptNumber, receipt)
		}
		if row.SchoolYear != "2025-2026" {
			t.Errorf("row %q posted to school year %q, want 2025-2026", row.Category, row.SchoolYear)
		}
		expected, ok := want[row.Category]
		if !ok {
			t.Errorf("unexpected category %q", row.Category)
			continue
		}
		if row.Amount != expected {
			t.Errorf("category %q amount = %v, want %v", row.Category, row.Amount, expected)
		}
	}
	if receipt == "" || !strings.HasPrefix(receipt, "OR-") {
		t.Errorf("receipt number %q does not look like a receipt code", receipt)
	}
}

func TestPostPaymentHandler_UnknownGradePassThroughRow(t *testing.T) {
	setupTestDB(t)
	seedStudent(t, "2026-0001", "Nonexistent Grade")

	w := postJSON(paymentsRouter(), "/api/payments",
		`{"studentId":"2026-0001","amount":1000,"paymentDate":"2025-06-15","method":"Cash"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, http.StatusCreated, w.Body.String())
	}

	var rows []models.Payment
	if err := config.DB.Find(&rows).Error; err != nil {
		t.Fatalf("failed to load payments: %v", err)
	}
	if len(rows) != 1 || rows[0].Category != finance.CategoryUnallocated || rows[0].Amount != 1000 {
		t.Errorf("ledger rows = %+v, want one pass-through row of 1000", rows)
	}
}

func TestEnrollStudentHandler_SequenceRestartsEachSchoolYear(t *testing.T) {
	setupTestDB(t)
	seedStudent(t, "2026-0001", "Grade 1")
	seedStudent(t, "2026-0002", "Grade 1")

	// A new school year starts a fresh sequence under its own prefix.
	config.C.CurrentSchoolYear = "2026-2027"

	r := gin.New()
	r.POST("/api/students", EnrollStudentHandler)
	w := postJSON(r, "/api/students", `{
		"lastName": "Santos", "firstName": "Maria",
		"gradeLevel": "Grade 2", "studentType": "New Student",
		"psaBirthCert": "Submitted", "reportCard": "Submitted",
		"goodMoral": "Submitted", "sf10Status": "Not Applicable",
		"privacyConsent": true
	}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, http.StatusCreated, w.Body.String())
	}

	var created models.Student
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.StudentID != "2027-0001" {
		t.Errorf("studentId = %q, want 2027-0001", created.StudentID)
	}
	if created.CurrentStatus != models.StatusApprovedForAssessment {
		t.Errorf("currentStatus = %q, want %q", created.CurrentStatus, models.StatusApprovedForAssessment)
	}
}
