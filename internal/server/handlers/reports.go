package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/kandauda/tea-estate/internal/domain/models"
	"github.com/kandauda/tea-estate/internal/repository/sheets"
	"github.com/kandauda/tea-estate/internal/service/enrich"
	"github.com/kandauda/tea-estate/internal/service/reporting"
	"github.com/kandauda/tea-estate/internal/service/snapshot"
)

var reportHeaders = []string{"Date", "Plot", "Factory", "Harvest(kg)", "Expenses", "Income", "Profit", "Notes"}

// ReportsHandler serves the monthly history view and its export formats.
type ReportsHandler struct {
	hub       *snapshot.Hub
	reporting *reporting.Service
	exporter  sheets.Exporter
	logger    *zap.Logger
}

// NewReportsHandler constructs the reports HTTP adapter. A nil exporter
// disables the spreadsheet backup endpoint.
func NewReportsHandler(hub *snapshot.Hub, rep *reporting.Service, exporter sheets.Exporter, logger *zap.Logger) *ReportsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportsHandler{hub: hub, reporting: rep, exporter: exporter, logger: logger}
}

// monthRecords enriches the snapshot and keeps the requested month,
// preserving the store's newest-first ordering.
func (h *ReportsHandler) monthRecords(c *gin.Context) (string, []models.ProcessedRecord, bool) {
	month := c.Param("month")
	if month == "" {
		month = c.Query("month")
	}
	if _, err := time.Parse("2006-01", month); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
		return "", nil, false
	}

	snap := h.hub.Current()
	processed, diags := enrich.EnrichAll(snap.Records, snap.Prices)
	for _, diag := range diags {
		h.logger.Warn("record excluded from report", zap.Error(diag))
	}

	monthly := processed[:0:0]
	for _, r := range processed {
		if r.MonthID == month {
			monthly = append(monthly, r)
		}
	}
	return month, monthly, true
}

// View returns the month's processed records with their summary and the
// per-day series used for dual-month comparison charts.
func (h *ReportsHandler) View(c *gin.Context) {
	month, monthly, ok := h.monthRecords(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"month":        month,
		"records":      monthly,
		"summary":      h.reporting.Summarize(monthly, reporting.Filter{}),
		"daySeries":    h.reporting.SeriesByDay(monthly, month),
		"distribution": h.reporting.Distribute(monthly),
	})
}

func reportRow(r models.ProcessedRecord) []string {
	return []string{
		r.Date,
		r.PlotName,
		r.FactoryName,
		fmt.Sprintf("%g", r.HarvestAmount),
		fmt.Sprintf("%g", r.Expenses),
		fmt.Sprintf("%g", r.Income),
		fmt.Sprintf("%g", r.Profit),
		r.Notes,
	}
}

// CSV streams the month's records as a CSV download.
func (h *ReportsHandler) CSV(c *gin.Context) {
	month, monthly, ok := h.monthRecords(c)
	if !ok {
		return
	}
	if len(monthly) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no records for " + month})
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=Tea_Records_%s.csv", month))

	w := csv.NewWriter(c.Writer)
	_ = w.Write(reportHeaders)
	for _, r := range monthly {
		_ = w.Write(reportRow(r))
	}
	w.Flush()
	if err := w.Error(); err != nil {
		h.logger.Error("failed streaming csv report", zap.String("month", month), zap.Error(err))
	}
}

// XLSX streams the month's records as a spreadsheet download.
func (h *ReportsHandler) XLSX(c *gin.Context) {
	month, monthly, ok := h.monthRecords(c)
	if !ok {
		return
	}
	if len(monthly) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no records for " + month})
		return
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, head := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, head)
	}
	for row, r := range monthly {
		for col, value := range reportRow(r) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=Tea_Records_%s.xlsx", month))
	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("failed streaming xlsx report", zap.String("month", month), zap.Error(err))
	}
}

// Export appends the month's rows to the configured backup spreadsheet.
func (h *ReportsHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "spreadsheet backup is not configured"})
		return
	}

	month, monthly, ok := h.monthRecords(c)
	if !ok {
		return
	}
	if len(monthly) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no records for " + month})
		return
	}

	rows := make([][]interface{}, 0, len(monthly))
	for _, r := range monthly {
		row := reportRow(r)
		values := make([]interface{}, len(row))
		for i, v := range row {
			values[i] = v
		}
		rows = append(rows, values)
	}

	if err := h.exporter.AppendReportRows(c.Request.Context(), month, rows); err != nil {
		h.logger.Error("failed exporting report to sheet", zap.String("month", month), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to export report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"month": month, "rows": len(rows)})
}
