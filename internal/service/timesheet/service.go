package timesheet

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"path"
	"strings"
	"time"

	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/employee"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/timesheet"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/importer"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/normalize"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/source"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/storage"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/validator"
	"github.com/google/uuid"
)

type TimesheetServiceImpl struct {
	timesheetRepo timesheet.TimesheetRepository
	employeeRepo  employee.EmployeeRepository
	archive       storage.FileStorage
	logger        *slog.Logger
}

// NewTimesheetService builds the timesheet service. archive receives a copy
// of every upload; nil disables archiving.
func NewTimesheetService(
	timesheetRepo timesheet.TimesheetRepository,
	employeeRepo employee.EmployeeRepository,
	archive storage.FileStorage,
	logger *slog.Logger,
) timesheet.TimesheetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TimesheetServiceImpl{
		timesheetRepo: timesheetRepo,
		employeeRepo:  employeeRepo,
		archive:       archive,
		logger:        logger,
	}
}

// ListTimesheets implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) ListTimesheets(ctx context.Context, filter timesheet.TimesheetFilter) (timesheet.ListTimesheetResponse, error) {
	if err := filter.Validate(); err != nil {
		return timesheet.ListTimesheetResponse{}, err
	}

	timesheets, total, err := s.timesheetRepo.List(ctx, filter)
	if err != nil {
		return timesheet.ListTimesheetResponse{}, fmt.Errorf("failed to list timesheets: %w", err)
	}

	responses := make([]timesheet.TimesheetResponse, len(timesheets))
	for i, t := range timesheets {
		responses[i] = toTimesheetResponse(t)
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := "0 of 0"
	if total > 0 {
		from := (filter.Page-1)*filter.Limit + 1
		to := min(filter.Page*filter.Limit, int(total))
		showing = fmt.Sprintf("%d-%d of %d", from, to, total)
	}

	return timesheet.ListTimesheetResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Timesheets: responses,
	}, nil
}

// BulkUpload implements timesheet.TimesheetService. Rows are independent: a
// rejected or failed row is reported and the rest are still written.
func (s *TimesheetServiceImpl) BulkUpload(ctx context.Context, file io.Reader, ext string) (timesheet.BulkUploadResult, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return timesheet.BulkUploadResult{}, fmt.Errorf("failed to read upload: %w", err)
	}

	rows, err := source.ReadReader(bytes.NewReader(data), ext)
	if err != nil {
		return timesheet.BulkUploadResult{}, err
	}
	if len(rows) == 0 {
		return timesheet.BulkUploadResult{}, timesheet.ErrEmptyUpload
	}

	if s.archive != nil {
		name := path.Join("uploads", "timesheets", time.Now().UTC().Format("20060102")+"-"+uuid.NewString()+strings.ToLower(ext))
		if _, err := s.archive.Upload(ctx, bytes.NewReader(data), name); err != nil {
			s.logger.Warn("failed to archive timesheet upload", slog.String("error", err.Error()))
		}
	}

	codes, err := s.employeeRepo.ListCodes(ctx)
	if err != nil {
		return timesheet.BulkUploadResult{}, fmt.Errorf("failed to load employee codes: %w", err)
	}

	result := timesheet.BulkUploadResult{Details: make([]timesheet.BulkUploadDetail, 0, len(rows))}
	for _, row := range rows {
		result.Add(s.uploadRow(ctx, codes, row))
	}

	s.logger.Info("timesheet upload processed",
		slog.Int("rows", len(rows)),
		slog.Int("success", result.Success),
		slog.Int("skipped", result.Skipped),
		slog.Int("failed", result.Failed),
	)
	return result, nil
}

func (s *TimesheetServiceImpl) uploadRow(ctx context.Context, codes map[string]int, row source.Row) timesheet.BulkUploadDetail {
	code := strings.TrimSpace(row.Get("EmployeeCode"))
	detail := timesheet.BulkUploadDetail{
		Row:          row.Line,
		EmployeeCode: code,
		Date:         strings.TrimSpace(row.Get("Date")),
	}

	if !validator.IsValidEmployeeCode(code) {
		detail.Status = timesheet.UploadStatusSkipped
		detail.Message = employee.ErrInvalidEmployeeCode.Error()
		return detail
	}
	employeeID, ok := codes[code]
	if !ok {
		detail.Status = timesheet.UploadStatusSkipped
		detail.Message = employee.ErrEmployeeNotFound.Error()
		return detail
	}

	ts, err := importer.TimesheetFields(row)
	if err != nil {
		detail.Status = timesheet.UploadStatusSkipped
		detail.Message = err.Error()
		return detail
	}
	ts.EmployeeID = employeeID
	detail.Date = ts.Date.Format(time.DateOnly)

	inserted, err := s.timesheetRepo.UpsertByEmployeeDate(ctx, ts)
	if err != nil {
		s.logger.Error("failed to write uploaded timesheet",
			slog.Int("row", row.Line),
			slog.String("employee_code", code),
			slog.String("error", err.Error()),
		)
		detail.Status = timesheet.UploadStatusFailed
		detail.Message = "failed to save timesheet"
		return detail
	}

	detail.Status = timesheet.UploadStatusSuccess
	if inserted {
		detail.Message = "created"
	} else {
		detail.Message = "updated"
	}
	return detail
}

func toTimesheetResponse(t timesheet.Timesheet) timesheet.TimesheetResponse {
	return timesheet.TimesheetResponse{
		ID:               t.ID,
		EmployeeID:       t.EmployeeID,
		Date:             normalize.DateOnlyUTC(t.Date).Format(time.DateOnly),
		Project1ID:       t.Project1ID,
		Project1Hours:    t.Project1Hours,
		Project1Overtime: t.Project1Overtime,
		Project2ID:       t.Project2ID,
		Project2Hours:    t.Project2Hours,
		Project2Overtime: t.Project2Overtime,
		TotalHours:       t.TotalHours,
		Description:      t.Description,
	}
}
