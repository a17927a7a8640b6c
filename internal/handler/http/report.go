package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/smart-attendance/attendance-backend-go/internal/domain/report"
	"github.com/smart-attendance/attendance-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	Attendance(w http.ResponseWriter, r *http.Request)
	Dashboard(w http.ResponseWriter, r *http.Request)
	Employee(w http.ResponseWriter, r *http.Request)
	Analytics(w http.ResponseWriter, r *http.Request)
	ExportCSV(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func parseReportFilter(r *http.Request) report.Filter {
	filter := report.Filter{}

	if startDate := r.URL.Query().Get("start_date"); startDate != "" {
		filter.StartDate = &startDate
	}

	if endDate := r.URL.Query().Get("end_date"); endDate != "" {
		filter.EndDate = &endDate
	}

	if userID := r.URL.Query().Get("user_id"); userID != "" {
		filter.UserID = &userID
	}

	if department := r.URL.Query().Get("department"); department != "" {
		filter.Department = &department
	}

	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}

	return filter
}

// Attendance implements ReportHandler.
func (h *reportHandlerImpl) Attendance(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.AttendanceReport(r.Context(), parseReportFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Dashboard implements ReportHandler.
func (h *reportHandlerImpl) Dashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.Dashboard(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Employee implements ReportHandler.
func (h *reportHandlerImpl) Employee(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	result, err := h.reportService.EmployeeReport(r.Context(), userID, parseReportFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Analytics implements ReportHandler.
func (h *reportHandlerImpl) Analytics(w http.ResponseWriter, r *http.Request) {
	periodDays := 30
	if p := r.URL.Query().Get("period"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			periodDays = parsed
		}
	}

	result, err := h.reportService.Analytics(r.Context(), periodDays)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportCSV implements ReportHandler.
func (h *reportHandlerImpl) ExportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.reportService.ExportCSV(r.Context(), parseReportFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance-report-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
