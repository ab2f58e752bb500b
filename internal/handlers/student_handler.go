// internal/handlers/student_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/remnantdom/ALSDI-school-finance-cloud/config"
	"github.com/remnantdom/ALSDI-school-finance-cloud/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// EnrollStudentRequest carries the enrollment form. The document checklist
// fields accept only the fixed option lists; anything else is rejected at
// validation instead of propagating free text into the registry.
type EnrollStudentRequest struct {
	LastName   string `json:"lastName"`
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName"`
	LRN        string `json:"lrn"`

	GradeLevel     string `json:"gradeLevel" binding:"required"`
	StudentType    string `json:"studentType" binding:"required"`
	PreviousSchool string `json:"previousSchool"`

	PSABirthCert string `json:"psaBirthCert" binding:"required"`
	ReportCard   string `json:"reportCard" binding:"required"`
	GoodMoral    string `json:"goodMoral" binding:"required"`
	SF10Status   string `json:"sf10Status" binding:"required"`

	PrivacyConsent bool `json:"privacyConsent"`
}

// validateEnrollment applies the registrar's guardrails. lrnExists reports
// whether the (already trimmed) LRN is taken by another student.
func validateEnrollment(req *EnrollStudentRequest, lrnExists bool) error {
	if strings.TrimSpace(req.LastName) == "" || strings.TrimSpace(req.FirstName) == "" {
		return errors.New("last name and first name are required")
	}
	if req.StudentType == "Transferee" && strings.TrimSpace(req.PreviousSchool) == "" {
		return errors.New("previous school is required for transferees")
	}
	if req.LRN != "" && lrnExists {
		return fmt.Errorf("the LRN %q is already registered", req.LRN)
	}
	if !models.ContainsOption(models.GradeLevels, req.GradeLevel) {
		return fmt.Errorf("unknown grade level %q", req.GradeLevel)
	}
	if !models.ContainsOption(models.StudentTypes, req.StudentType) {
		return fmt.Errorf("unknown student type %q", req.StudentType)
	}
	for _, doc := range []string{req.PSABirthCert, req.ReportCard, req.GoodMoral} {
		if !models.ContainsOption(models.DocStatusOptions, doc) {
			return fmt.Errorf("unknown document status %q", doc)
		}
	}
	if !models.ContainsOption(models.SF10StatusOptions, req.SF10Status) {
		return fmt.Errorf("unknown SF10 status %q", req.SF10Status)
	}
	return nil
}

// deriveStatus computes the enrollment status from the consent flag.
func deriveStatus(privacyConsent bool) string {
	if privacyConsent {
		return models.StatusApprovedForAssessment
	}
	return models.StatusPendingConsent
}

// studentIDPrefix is the end year of a school year: "2025-2026" → "2026".
func studentIDPrefix(schoolYear string) string {
	if idx := strings.LastIndex(schoolYear, "-"); idx >= 0 {
		return schoolYear[idx+1:]
	}
	return schoolYear
}

// nextStudentID builds the registrar ID for the next enrollee: the end
// year of the school year plus a running four-digit sequence,
// e.g. "2026-0001" for the first student of SY 2025-2026. The sequence is
// per school year, so a new year restarts at 0001.
func nextStudentID(schoolYear string, existing int64) string {
	return fmt.Sprintf("%s-%04d", studentIDPrefix(schoolYear), existing+1)
}

// EnrollStudentHandler registers a new student.
func EnrollStudentHandler(c *gin.Context) {
	var req EnrollStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data: " + err.Error()})
		return
	}
	req.LRN = strings.TrimSpace(req.LRN)

	lrnExists := false
	if req.LRN != "" {
		var count int64
		if err := config.DB.Model(&models.Student{}).
			Where("lrn = ?", req.LRN).
			Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check LRN"})
			return
		}
		lrnExists = count > 0
	}

	if err := validateEnrollment(&req, lrnExists); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The sequence restarts each school year, so only count IDs carrying
	// this year's prefix. Soft-deleted rows keep their slot.
	prefix := studentIDPrefix(config.C.CurrentSchoolYear)
	var total int64
	if err := config.DB.Unscoped().Model(&models.Student{}).
		Where("student_id LIKE ?", prefix+"-%").
		Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count students"})
		return
	}

	student := models.Student{
		StudentID:      nextStudentID(config.C.CurrentSchoolYear, total),
		LRN:            req.LRN,
		LastName:       req.LastName,
		FirstName:      req.FirstName,
		MiddleName:     req.MiddleName,
		GradeLevel:     req.GradeLevel,
		StudentType:    req.StudentType,
		PreviousSchool: req.PreviousSchool,
		PSABirthCert:   req.PSABirthCert,
		ReportCard:     req.ReportCard,
		GoodMoral:      req.GoodMoral,
		SF10Status:     req.SF10Status,
		PrivacyConsent: req.PrivacyConsent,
		CurrentStatus:  deriveStatus(req.PrivacyConsent),
	}

	if err := config.DB.Create(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save student"})
		return
	}

	c.JSON(http.StatusCreated, student)
}

// ListStudentsHandler returns a paginated student list. The search
// parameter matches name, LRN and registrar ID, mirroring the combined
// search box of the registrar screens.
func ListStudentsHandler(c *gin.Context) {
	var students []models.Student
	var totalRows int64

	baseQuery := config.DB.Model(&models.Student{})

	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		baseQuery = baseQuery.Where(
			"LOWER(last_name) LIKE ? OR LOWER(first_name) LIKE ? OR lrn LIKE ? OR student_id LIKE ?",
			pattern, pattern, "%"+search+"%", "%"+search+"%",
		)
	}
	if grade := c.Query("gradeLevel"); grade != "" {
		baseQuery = baseQuery.Where("grade_level = ?", grade)
	}

	if err := baseQuery.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count students"})
		return
	}

	if err := baseQuery.Scopes(Paginate(c)).
		Order("last_name, first_name").
		Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch students"})
		return
	}

	if students == nil {
		students = make([]models.Student, 0)
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, students, totalRows))
}

// findStudentByRegistrarID resolves the :id path parameter, which is the
// registrar ID ("2026-0001"), not the database key.
func findStudentByRegistrarID(c *gin.Context) (*models.Student, bool) {
	var student models.Student
	if err := config.DB.Where("student_id = ?", c.Param("id")).First(&student).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch student"})
		}
		return nil, false
	}
	return &student, true
}

// GetStudentHandler returns one student's full record.
func GetStudentHandler(c *gin.Context) {
	student, ok := findStudentByRegistrarID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, student)
}

// UpdateStudentRequest carries the editable subset of a record. Identity
// fields (names, LRN, registrar ID) are locked after enrollment.
type UpdateStudentRequest struct {
	GradeLevel     string `json:"gradeLevel" binding:"required"`
	StudentType    string `json:"studentType" binding:"required"`
	PreviousSchool string `json:"previousSchool"`

	PSABirthCert string `json:"psaBirthCert" binding:"required"`
	ReportCard   string `json:"reportCard" binding:"required"`
	GoodMoral    string `json:"goodMoral" binding:"required"`
	SF10Status   string `json:"sf10Status" binding:"required"`

	PrivacyConsent bool `json:"privacyConsent"`
}

// UpdateStudentHandler edits the mutable fields of a record and recomputes
// the enrollment status from the consent flag.
func UpdateStudentHandler(c *gin.Context) {
	student, ok := findStudentByRegistrarID(c)
	if !ok {
		return
	}

	var req UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data: " + err.Error()})
		return
	}

	check := EnrollStudentRequest{
		LastName:       student.LastName,
		FirstName:      student.FirstName,
		GradeLevel:     req.GradeLevel,
		StudentType:    req.StudentType,
		PreviousSchool: req.PreviousSchool,
		PSABirthCert:   req.PSABirthCert,
		ReportCard:     req.ReportCard,
		GoodMoral:      req.GoodMoral,
		SF10Status:     req.SF10Status,
	}
	if err := validateEnrollment(&check, false); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	student.GradeLevel = req.GradeLevel
	student.StudentType = req.StudentType
	student.PreviousSchool = req.PreviousSchool
	student.PSABirthCert = req.PSABirthCert
	student.ReportCard = req.ReportCard
	student.GoodMoral = req.GoodMoral
	student.SF10Status = req.SF10Status
	student.PrivacyConsent = req.PrivacyConsent
	student.CurrentStatus = deriveStatus(req.PrivacyConsent)

	if err := config.DB.Save(student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update student"})
		return
	}

	c.JSON(http.StatusOK, student)
}

// DeleteStudentHandler soft-deletes a record. Posted payments stay in the
// ledger untouched.
func DeleteStudentHandler(c *gin.Context) {
	student, ok := findStudentByRegistrarID(c)
	if !ok {
		return
	}
	if err := config.DB.Delete(student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete student"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Student deleted"})
}
