package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alshorouk/bakery-backend/internal/domain"
	"github.com/alshorouk/bakery-backend/internal/service"
)

// ReportHandler handles dashboard and monthly report HTTP requests
type ReportHandler struct {
	dailyService *service.DailyService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(dailyService *service.DailyService) *ReportHandler {
	return &ReportHandler{dailyService: dailyService}
}

// DashboardResponse aggregates the whole history for the overview screen.
type DashboardResponse struct {
	TotalRevenue       string `json:"totalRevenue"`
	TotalExpense       string `json:"totalExpense"`
	NetProfit          string `json:"netProfit"`
	AverageDailyProfit string `json:"averageDailyProfit"`
	TotalFunding       string `json:"totalFunding"`
	RecentFunding      string `json:"recentFunding"`
	SelfSufficient     bool   `json:"selfSufficient"`
}

// MonthlyReportResponse is a month's computed rows plus its totals.
type MonthlyReportResponse struct {
	Year         int                   `json:"year"`
	Month        int                   `json:"month"`
	TotalRevenue string                `json:"totalRevenue"`
	TotalExpense string                `json:"totalExpense"`
	NetProfit    string                `json:"netProfit"`
	Days         []ComputedDayResponse `json:"days"`
}

// GetDashboard handles GET /api/v1/dashboard/summary
func (h *ReportHandler) GetDashboard(c echo.Context) error {
	summary, err := h.dailyService.Summarize(time.Now())
	if err != nil {
		return NewInternalError(c, "Failed to compute dashboard summary")
	}

	return c.JSON(http.StatusOK, DashboardResponse{
		TotalRevenue:       summary.TotalRevenue.String(),
		TotalExpense:       summary.TotalExpense.String(),
		NetProfit:          summary.NetProfit.String(),
		AverageDailyProfit: summary.AverageDailyProfit.String(),
		TotalFunding:       summary.TotalFunding.String(),
		RecentFunding:      summary.RecentFunding.String(),
		SelfSufficient:     summary.SelfSufficient,
	})
}

// GetMonthlyReport handles GET /api/v1/reports/:year/:month
func (h *ReportHandler) GetMonthlyReport(c echo.Context) error {
	year, month, err := parseYearMonthParams(c)
	if err != nil {
		return NewValidationError(c, "Invalid year or month", []ValidationError{
			{Field: "year", Message: "Year and month must be whole numbers"},
		})
	}

	report, err := h.dailyService.ReportForMonth(year, month)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidMonth) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "month", Message: "Must be a valid year and month"},
			})
		}
		return NewInternalError(c, "Failed to compute monthly report")
	}

	days := make([]ComputedDayResponse, len(report.Days))
	for i, day := range report.Days {
		days[i] = computedDayToResponse(day)
	}

	return c.JSON(http.StatusOK, MonthlyReportResponse{
		Year:         report.Year,
		Month:        int(report.Month),
		TotalRevenue: report.TotalRevenue.String(),
		TotalExpense: report.TotalExpense.String(),
		NetProfit:    report.NetProfit.String(),
		Days:         days,
	})
}
