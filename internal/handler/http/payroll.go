package http

import (
	"encoding/json"
	"net/http"

	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/payroll"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/handler/http/response"
)

type PayrollHandler interface {
	ListSummaries(w http.ResponseWriter, r *http.Request)
	GetSummary(w http.ResponseWriter, r *http.Request)
	ListDetails(w http.ResponseWriter, r *http.Request)
	Recompute(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

func (h *payrollHandlerImpl) ListSummaries(w http.ResponseWriter, r *http.Request) {
	filter := payroll.SummaryFilter{
		PayrollYear:     queryInt(r, "year"),
		PayrollMonth:    queryInt(r, "month"),
		BranchID:        queryInt(r, "branch_id"),
		PayrollStatusID: queryInt(r, "status_id"),
	}
	filter.Page, filter.Limit = pagination(r)

	result, err := h.payrollService.ListSummaries(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Summaries, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
		Showing:    result.Showing,
	})
}

func (h *payrollHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Payroll ID must be a positive integer", nil)
		return
	}

	result, err := h.payrollService.GetSummary(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Payroll ID must be a positive integer", nil)
		return
	}

	result, err := h.payrollService.ListDetails(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Recompute re-sums a period's details into its summary.
func (h *payrollHandlerImpl) Recompute(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdateMonthlyValuesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.UpdateMonthlyPayrollValues(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll values updated", result)
}
