package models

import "gorm.io/gorm"

// FeeSchedule represents the cost of education for a specific grade level.
// Monthly tuition runs for ten months of the school year.
type FeeSchedule struct {
	gorm.Model
	GradeLevel  string  `json:"gradeLevel" gorm:"unique;not null"`
	DownPayment float64 `json:"downPayment" gorm:"type:numeric(12,2)"`
	MonthlyRate float64 `json:"monthlyRate" gorm:"type:numeric(12,2)"`
	BooksFee    float64 `json:"booksFee" gorm:"type:numeric(12,2)"`
}
