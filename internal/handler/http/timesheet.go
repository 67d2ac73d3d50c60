package http

import (
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/timesheet"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/handler/http/response"
)

const maxUploadSize = 10 << 20

type TimesheetHandler interface {
	ListTimesheets(w http.ResponseWriter, r *http.Request)
	Upload(w http.ResponseWriter, r *http.Request)
}

type timesheetHandlerImpl struct {
	timesheetService timesheet.TimesheetService
}

func NewTimesheetHandler(timesheetService timesheet.TimesheetService) TimesheetHandler {
	return &timesheetHandlerImpl{timesheetService: timesheetService}
}

// ListTimesheets implements TimesheetHandler
func (h *timesheetHandlerImpl) ListTimesheets(w http.ResponseWriter, r *http.Request) {
	filter := timesheet.TimesheetFilter{
		EmployeeID: queryInt(r, "employee_id"),
		DateFrom:   queryString(r, "date_from"),
		DateTo:     queryString(r, "date_to"),
	}
	filter.Page, filter.Limit = pagination(r)

	result, err := h.timesheetService.ListTimesheets(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Timesheets, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
		Showing:    result.Showing,
	})
}

// Upload implements TimesheetHandler
func (h *timesheetHandlerImpl) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Field 'file' is required", nil)
		return
	}
	defer file.Close()

	result, err := h.timesheetService.BulkUpload(r.Context(), file, filepath.Ext(fileHeader.Filename))
	if err != nil {
		slog.Error("Timesheet upload failed", "error", err, "filename", fileHeader.Filename)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timesheet upload processed", result)
}
