package controllers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"github.com/tealeg/xlsx"

	"github.com/lovihub/lovi-backend/models"
	"github.com/lovihub/lovi-backend/repository"
	"github.com/lovihub/lovi-backend/utils"
)

// ReportController serves the merchant's commission reports, including
// spreadsheet and PDF downloads.
type ReportController struct {
	reports repository.ReportRepository
	deals   repository.DealRepository
}

// NewReportController wires the report endpoints.
func NewReportController(reports repository.ReportRepository, deals repository.DealRepository) *ReportController {
	return &ReportController{reports: reports, deals: deals}
}

// List returns all commission reports for the current business.
func (ctrl *ReportController) List(c *gin.Context) {
	business, ok := currentBusiness(c)
	if !ok {
		return
	}
	reports, err := ctrl.reports.ListByBusiness(business.ID)
	if err != nil {
		utils.InternalServerError(c, "Failed to load reports", err.Error())
		return
	}

	var totalCommission float64
	for _, report := range reports {
		totalCommission += report.Commission
	}
	utils.Success(c, "Reports retrieved", gin.H{
		"reports":          reports,
		"total_commission": totalCommission,
	})
}

func (ctrl *ReportController) loadReports(c *gin.Context) ([]models.BusinessReport, map[uint]string, bool) {
	business, ok := currentBusiness(c)
	if !ok {
		return nil, nil, false
	}
	reports, err := ctrl.reports.ListByBusiness(business.ID)
	if err != nil {
		utils.InternalServerError(c, "Failed to load reports", err.Error())
		return nil, nil, false
	}
	titles := make(map[uint]string, len(reports))
	for _, report := range reports {
		if deal, err := ctrl.deals.GetByID(report.DealID); err == nil {
			titles[report.DealID] = deal.Title
		}
	}
	return reports, titles, true
}

// DownloadExcel streams the commission reports as an xlsx workbook.
func (ctrl *ReportController) DownloadExcel(c *gin.Context) {
	utils.LogInfo("DownloadExcel called")
	reports, titles, ok := ctrl.loadReports(c)
	if !ok {
		return
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Commission Reports")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create Excel sheet", err.Error())
		return
	}

	titleRow := sheet.AddRow()
	titleRow.AddCell().SetString("LOVI - Commission Reports")
	sheet.AddRow() // spacing

	headers := []string{"Deal", "Bookings", "Codes Used", "Codes Confirmed", "Revenue", "Rate", "Commission", "Due Date"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.SetString(h)
		style := xlsx.NewStyle()
		font := xlsx.DefaultFont()
		font.Bold = true
		style.Font = *font
		cell.SetStyle(style)
	}

	var totalRevenue, totalCommission float64
	for _, report := range reports {
		row := sheet.AddRow()
		row.AddCell().SetString(titles[report.DealID])
		row.AddCell().SetInt(report.TotalBookings)
		row.AddCell().SetInt(report.CodesUsed)
		row.AddCell().SetInt(report.CodesConfirmed)
		row.AddCell().SetFloat(report.Revenue)
		row.AddCell().SetString(fmt.Sprintf("%.0f%%", report.CommissionRate*100))
		row.AddCell().SetFloat(report.Commission)
		row.AddCell().SetString(report.DueDate.Format("2006-01-02"))
		totalRevenue += report.Revenue
		totalCommission += report.Commission
	}

	sheet.AddRow() // spacing
	summaryRow := sheet.AddRow()
	summaryRow.AddCell().SetString("Total revenue")
	summaryRow.AddCell().SetFloat(totalRevenue)
	summaryRow = sheet.AddRow()
	summaryRow.AddCell().SetString("Total commission")
	summaryRow.AddCell().SetFloat(totalCommission)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=commission_reports.xlsx")
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
		utils.InternalServerError(c, "Failed to write Excel file", err.Error())
		return
	}
	utils.LogInfo("Commission report Excel generated")
}

// DownloadPDF streams the commission reports as a PDF table.
func (ctrl *ReportController) DownloadPDF(c *gin.Context) {
	utils.LogInfo("DownloadPDF called")
	reports, titles, ok := ctrl.loadReports(c)
	if !ok {
		return
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.Cell(0, 12, "LOVI - Commission Reports")
	pdf.Ln(12)

	headers := []string{"Deal", "Bookings", "Used", "Confirmed", "Revenue", "Rate", "Commission", "Due Date"}
	colWidths := []float64{80, 25, 20, 25, 30, 18, 30, 30}
	pdf.SetFont("Arial", "B", 11)
	for i, h := range headers {
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(colWidths[i], 9, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	fill := false
	var totalRevenue, totalCommission float64
	for _, report := range reports {
		pdf.SetFillColor(245, 245, 245)
		if fill {
			pdf.SetFillColor(230, 240, 255)
		}
		fill = !fill
		pdf.CellFormat(colWidths[0], 8, titles[report.DealID], "1", 0, "L", fill, 0, "")
		pdf.CellFormat(colWidths[1], 8, fmt.Sprintf("%d", report.TotalBookings), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(colWidths[2], 8, fmt.Sprintf("%d", report.CodesUsed), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(colWidths[3], 8, fmt.Sprintf("%d", report.CodesConfirmed), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(colWidths[4], 8, fmt.Sprintf("%.2f", report.Revenue), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(colWidths[5], 8, fmt.Sprintf("%.0f%%", report.CommissionRate*100), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(colWidths[6], 8, fmt.Sprintf("%.2f", report.Commission), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(colWidths[7], 8, report.DueDate.Format("2006-01-02"), "1", 0, "C", fill, 0, "")
		pdf.Ln(-1)
		totalRevenue += report.Revenue
		totalCommission += report.Commission
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(60, 8, "Total revenue", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", totalRevenue), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)
	pdf.CellFormat(60, 8, "Total commission", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", totalCommission), "1", 0, "R", false, 0, "")

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "attachment; filename=commission_reports.pdf")
	if err := pdf.Output(c.Writer); err != nil {
		utils.LogError("Failed to write PDF file: %v", err)
		utils.InternalServerError(c, "Failed to write PDF file", err.Error())
		return
	}
	utils.LogInfo("Commission report PDF generated")
}
