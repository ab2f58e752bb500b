// internal/handlers/statement_handler.go
package handlers

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/remnantdom/ALSDI-school-finance-cloud/config"
	"github.com/remnantdom/ALSDI-school-finance-cloud/internal/finance"
	"github.com/remnantdom/ALSDI-school-finance-cloud/models"

	"github.com/divan/num2words"
	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// amountInWords spells out a peso amount for the statement footer,
// e.g. "twenty-seven thousand four hundred eighty pesos and 00/100".
func amountInWords(amount float64) string {
	pesos := int(amount)
	centavos := int(math.Round((amount - float64(pesos)) * 100))
	// Rounding can push the fraction to a full peso (e.g. 5.999).
	if centavos >= 100 {
		pesos += centavos / 100
		centavos = centavos % 100
	}
	return fmt.Sprintf("%s pesos and %02d/100", num2words.Convert(pesos), centavos)
}

// StatementHandler renders a statement of account PDF for one student and
// school year: assessed fees, payment history and the running balance.
func StatementHandler(c *gin.Context) {
	student, ok := findStudentByRegistrarID(c)
	if !ok {
		return
	}
	schoolYear := requestedSchoolYear(c)

	schedule, err := loadSchedule(config.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load fee schedule"})
		return
	}

	var payments []models.Payment
	if err := config.DB.
		Where("student_id = ? AND school_year = ?", student.StudentID, schoolYear).
		Order("payment_date, id").
		Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payment history"})
		return
	}

	rows := make([]finance.LedgerRow, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, finance.LedgerRow{
			StudentID:  p.StudentID,
			SchoolYear: p.SchoolYear,
			Category:   p.Category,
			Amount:     p.Amount,
		})
	}
	fin := finance.ComputeFinancials(schedule, student.GradeLevel, student.StudentID, schoolYear, rows)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Statement of Account", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 8, config.C.SchoolName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, "Statement of Account - SY "+schoolYear, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	fullName := student.LastName + ", " + student.FirstName + " " + student.MiddleName
	pdf.CellFormat(0, 5, "Student: "+fullName, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Student ID: "+student.StudentID+"    LRN: "+student.LRN, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Grade Level: "+student.GradeLevel, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Assessed fees.
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Assessed Fees", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	if entry, found := schedule[student.GradeLevel]; found {
		feeLines := []struct {
			label  string
			amount float64
		}{
			{"Down Payment", entry.DownPayment},
			{"Books", entry.BooksFee},
			{fmt.Sprintf("Monthly Tuition (%d x %.2f)", finance.TuitionMonths, entry.MonthlyRate), entry.MonthlyRate * finance.TuitionMonths},
		}
		for _, line := range feeLines {
			pdf.CellFormat(120, 5, line.label, "", 0, "L", false, 0, "")
			pdf.CellFormat(40, 5, fmt.Sprintf("%.2f", line.amount), "", 1, "R", false, 0, "")
		}
	} else {
		pdf.CellFormat(0, 5, "No fee schedule on file for this grade level.", "", 1, "L", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(120, 6, "Total Assessed", "T", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", fin.TotalFee), "T", 1, "R", false, 0, "")
	pdf.Ln(4)

	// Payment history.
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Payments", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(25, 5, "Date", "B", 0, "L", false, 0, "")
	pdf.CellFormat(30, 5, "Receipt No.", "B", 0, "L", false, 0, "")
	pdf.CellFormat(40, 5, "Category", "B", 0, "L", false, 0, "")
	pdf.CellFormat(30, 5, "Method", "B", 0, "L", false, 0, "")
	pdf.CellFormat(35, 5, "Amount", "B", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	for _, p := range payments {
		pdf.CellFormat(25, 5, p.PaymentDate.Format("2006-01-02"), "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 5, p.ReceiptNumber, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 5, p.Category, "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 5, p.Method, "", 0, "L", false, 0, "")
		pdf.CellFormat(35, 5, fmt.Sprintf("%.2f", p.Amount), "", 1, "R", false, 0, "")
	}
	if len(payments) == 0 {
		pdf.CellFormat(0, 5, "No payments recorded.", "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(120, 6, "Total Paid", "T", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", fin.Paid), "T", 1, "R", false, 0, "")
	pdf.CellFormat(120, 6, "Balance", "", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", fin.Balance), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 5, "Total paid: "+amountInWords(fin.Paid), "", 1, "L", false, 0, "")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(0, 4, "Generated "+time.Now().Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render statement"})
		return
	}

	filename := fmt.Sprintf("statement_%s_%s.pdf", student.StudentID, schoolYear)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// ExportPaymentsHandler writes the payment ledger for a school year to an
// XLSX workbook.
func ExportPaymentsHandler(c *gin.Context) {
	schoolYear := requestedSchoolYear(c)

	var payments []models.Payment
	if err := config.DB.
		Where("school_year = ?", schoolYear).
		Order("payment_date, id").
		Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"Date", "Receipt No.", "Student ID", "Student Name", "Amount", "Method", "Category", "Transaction Type", "School Year"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for rowIdx, p := range payments {
		values := []interface{}{
			p.PaymentDate.Format("2006-01-02"),
			p.ReceiptNumber,
			p.StudentID,
			p.StudentName,
			p.Amount,
			p.Method,
			p.Category,
			p.TransactionType,
			p.SchoolYear,
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build workbook"})
		return
	}

	filename := fmt.Sprintf("payments_%s.xlsx", schoolYear)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// PaymentPlanRequest optionally overrides the default ten-month plan with
// custom per-installment formulas.
type PaymentPlanRequest struct {
	Installments []finance.InstallmentSpec `json:"installments"`
}

// PaymentPlanHandler previews an installment plan for a student from the
// current financials. Nothing is persisted; the plan is advisory.
func PaymentPlanHandler(c *gin.Context) {
	student, ok := findStudentByRegistrarID(c)
	if !ok {
		return
	}
	schoolYear := requestedSchoolYear(c)

	var req PaymentPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data: " + err.Error()})
		return
	}
	specs := req.Installments
	if len(specs) == 0 {
		specs = finance.DefaultPlan()
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
	monthlyRate := schedule[student.GradeLevel].MonthlyRate

	plan, err := finance.EvaluatePlan(specs, fin, monthlyRate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"studentId":  student.StudentID,
		"schoolYear": schoolYear,
		"financials": fin,
		"plan":       plan,
	})
}
