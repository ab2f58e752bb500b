// models/student.go

package models

import (
	"gorm.io/gorm"
)

// Grade levels must match the fee schedule rows exactly; the registrar UI
// only ever offers these values.
var GradeLevels = []string{
	"Pre-K", "Kinder", "Grade 1", "Grade 2", "Grade 3", "Grade 4",
	"Grade 5", "Grade 6", "Grade 7", "Grade 8", "Grade 9", "Grade 10",
	"Grade 11", "Grade 12", "SPED",
}

var StudentTypes = []string{"New Student", "Old / Continuing", "Transferee", "Returnee"}

var DocStatusOptions = []string{"Submitted", "To Follow", "On Process", "Not Applicable"}

var SF10StatusOptions = []string{"To Request", "Request Sent", "2nd Follow-up", "Received", "Not Applicable"}

// Enrollment statuses derived from the data privacy consent flag.
const (
	StatusApprovedForAssessment = "Approved for Assessment"
	StatusPendingConsent        = "Pending Consent"
)

// Student represents one registry record.
type Student struct {
	gorm.Model
	StudentID  string `json:"studentId" gorm:"uniqueIndex;not null"` // registrar ID, e.g. "2026-0001"
	LRN        string `json:"lrn"`                                   // learner reference number; may be blank for Pre-K
	LastName   string `json:"lastName" gorm:"not null"`
	FirstName  string `json:"firstName" gorm:"not null"`
	MiddleName string `json:"middleName"`

	GradeLevel     string `json:"gradeLevel"`
	StudentType    string `json:"studentType"`
	PreviousSchool string `json:"previousSchool"`

	// Document checklist.
	PSABirthCert string `json:"psaBirthCert"`
	ReportCard   string `json:"reportCard"`
	GoodMoral    string `json:"goodMoral"`
	SF10Status   string `json:"sf10Status"`

	PrivacyConsent bool   `json:"privacyConsent"`
	CurrentStatus  string `json:"currentStatus"`
}

// ContainsOption reports whether value is one of the allowed options.
func ContainsOption(options []string, value string) bool {
	for _, opt := range options {
		if opt == value {
			return true
		}
	}
	return false
}
