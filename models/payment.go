// models/payment.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment is one posted ledger row. Rows are append-only: the server
// creates them when a payment is posted and never updates or deletes them.
// A single posted payment may produce several rows, one per fee category,
// sharing a receipt number.
type Payment struct {
	gorm.Model
	ReceiptNumber   string    `json:"receiptNumber" gorm:"index;not null"`
	StudentID       string    `json:"studentId" gorm:"index;not null"` // registrar ID, matches Student.StudentID
	StudentName     string    `json:"studentName"`
	PaymentDate     time.Time `json:"paymentDate"`
	Amount          float64   `json:"amount" gorm:"type:numeric(12,2);not null"`
	Method          string    `json:"method"`
	Category        string    `json:"category"` // "DP", "Books", "Monthly Tuition" or "Tuition Payment"
	TransactionType string    `json:"transactionType"`
	SchoolYear      string    `json:"schoolYear" gorm:"index"`
}
