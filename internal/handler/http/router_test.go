package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/auth"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/challan"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/employee"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/loan"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/payroll"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/timesheet"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/user"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/authz"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/jwt"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/source"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthService struct {
	jwtService jwt.Service
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if req.Password != "password123" {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	token, exp, err := s.jwtService.GenerateAccessToken(1, user.RoleSuperAdmin)
	return auth.TokenResponse{AccessToken: token, TokenType: "Bearer", ExpiresAt: exp}, err
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	s.jwtService.RevokeToken(token)
	return nil
}

type stubEmployeeService struct {
	lastFilter employee.EmployeeFilter
}

func (s *stubEmployeeService) GetEmployee(ctx context.Context, id int) (employee.EmployeeResponse, error) {
	if id != 7 {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}
	return employee.EmployeeResponse{ID: 7, EmployeeCode: "7"}, nil
}

func (s *stubEmployeeService) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	s.lastFilter = filter
	return employee.ListEmployeeResponse{
		TotalCount: 11, Page: filter.Page, Limit: 10, TotalPages: 2, Showing: "11-11 of 11",
		Employees: []employee.EmployeeResponse{{ID: 7, EmployeeCode: "7"}},
	}, nil
}

func (s *stubEmployeeService) ListLoans(ctx context.Context, employeeID int) (loan.LedgerResponse, error) {
	return loan.LedgerResponse{EmployeeID: employeeID}, nil
}

func (s *stubEmployeeService) ListChallans(ctx context.Context, employeeID int) (challan.LedgerResponse, error) {
	return challan.LedgerResponse{EmployeeID: employeeID}, nil
}

type stubTimesheetService struct {
	ext  string
	body string
}

func (s *stubTimesheetService) ListTimesheets(ctx context.Context, filter timesheet.TimesheetFilter) (timesheet.ListTimesheetResponse, error) {
	return timesheet.ListTimesheetResponse{}, nil
}

func (s *stubTimesheetService) BulkUpload(ctx context.Context, file io.Reader, ext string) (timesheet.BulkUploadResult, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return timesheet.BulkUploadResult{}, err
	}
	s.ext, s.body = ext, string(data)
	if ext != ".csv" {
		return timesheet.BulkUploadResult{}, source.ErrUnsupportedFormat
	}
	return timesheet.BulkUploadResult{Success: 1}, nil
}

type stubPayrollService struct {
	recomputed int
}

func (s *stubPayrollService) UpdateMonthlyPayrollValues(ctx context.Context, req payroll.UpdateMonthlyValuesRequest) (payroll.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SummaryResponse{}, err
	}
	s.recomputed++
	return payroll.SummaryResponse{ID: 1, PayrollMonth: req.PayrollMonth, PayrollYear: req.PayrollYear}, nil
}

func (s *stubPayrollService) ListSummaries(ctx context.Context, filter payroll.SummaryFilter) (payroll.ListSummaryResponse, error) {
	return payroll.ListSummaryResponse{}, nil
}

func (s *stubPayrollService) GetSummary(ctx context.Context, id int) (payroll.SummaryResponse, error) {
	return payroll.SummaryResponse{}, payroll.ErrPayrollSummaryNotFound
}

func (s *stubPayrollService) ListDetails(ctx context.Context, summaryID int) ([]payroll.DetailResponse, error) {
	return []payroll.DetailResponse{}, nil
}

type stubUserService struct{}

func (s *stubUserService) CreateUser(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}
	return user.UserResponse{ID: 10, Email: req.Email, Role: req.Role}, nil
}

func (s *stubUserService) ListUsers(ctx context.Context, filter user.UserFilter) (user.ListUserResponse, error) {
	return user.ListUserResponse{}, nil
}

func (s *stubUserService) ToggleUserPrivilege(ctx context.Context, req user.TogglePrivilegeRequest) (user.UserResponse, error) {
	if req.UserID == 1 {
		return user.UserResponse{}, user.ErrCannotEditSuperUser
	}
	return user.UserResponse{ID: req.UserID}, nil
}

func (s *stubUserService) ListRoles(ctx context.Context) ([]user.RoleResponse, error) {
	return []user.RoleResponse{{Name: "ADMIN"}}, nil
}

type testServer struct {
	router     *chi.Mux
	jwtService jwt.Service
	employees  *stubEmployeeService
	timesheets *stubTimesheetService
	payrolls   *stubPayrollService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	jwtService := jwt.NewJWTService("test-secret-key-for-jwt", "1h")
	authorizer, err := authz.NewAuthorizer()
	require.NoError(t, err)
	require.NoError(t, authorizer.Load([]user.User{
		{ID: 1, Role: user.RoleSuperAdmin, IsActive: true},
		{ID: 2, Role: user.RoleUser, Privileges: user.DefaultPrivileges(user.RoleUser), IsActive: true},
	}))

	ts := &testServer{
		jwtService: jwtService,
		employees:  &stubEmployeeService{},
		timesheets: &stubTimesheetService{},
		payrolls:   &stubPayrollService{},
	}
	ts.router = NewRouter(RouterConfig{
		Logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		AllowedOrigins:   []string{"http://localhost:3000"},
		JWTService:       jwtService,
		Enforcer:         authorizer,
		AuthHandler:      NewAuthHandler(&stubAuthService{jwtService: jwtService}),
		EmployeeHandler:  NewEmployeeHandler(ts.employees),
		TimesheetHandler: NewTimesheetHandler(ts.timesheets),
		PayrollHandler:   NewPayrollHandler(ts.payrolls),
		UserHandler:      NewUserHandler(&stubUserService{}),
	})
	return ts
}

func (ts *testServer) token(t *testing.T, userID int, role user.Role) string {
	t.Helper()
	token, _, err := ts.jwtService.GenerateAccessToken(userID, role)
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestRouter_Login(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodPost, "/api/v1/auth/login", "",
		strings.NewReader(`{"email":"admin@example.com","password":"password123"}`), "application/json")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody(t, w)
	assert.True(t, resp["success"].(bool))
	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["access_token"])

	w = ts.do(http.MethodPost, "/api/v1/auth/login", "",
		strings.NewReader(`{"email":"admin@example.com","password":"nope"}`), "application/json")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/auth/login", "", strings.NewReader(`{`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_RequiresToken(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/api/v1/employees", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodGet, "/api/v1/employees", "not-a-jwt", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_PrivilegeChecks(t *testing.T) {
	ts := newTestServer(t)
	clerk := ts.token(t, 2, user.RoleUser)

	w := ts.do(http.MethodGet, "/api/v1/employees?search=ali&branch_id=3&is_active=true&page=2", clerk, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, ts.employees.lastFilter.Search)
	assert.Equal(t, "ali", *ts.employees.lastFilter.Search)
	assert.Equal(t, 3, *ts.employees.lastFilter.BranchID)
	assert.True(t, *ts.employees.lastFilter.IsActive)
	assert.Nil(t, ts.employees.lastFilter.IsFixed)
	assert.Equal(t, 2, ts.employees.lastFilter.Page)

	w = ts.do(http.MethodGet, "/api/v1/payrolls", clerk, nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/users", clerk, strings.NewReader(`{}`), "application/json")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Unknown users hold no policies.
	w = ts.do(http.MethodGet, "/api/v1/employees", ts.token(t, 99, user.RoleAdmin), nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_EmployeeRoutes(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.token(t, 1, user.RoleSuperAdmin)

	w := ts.do(http.MethodGet, "/api/v1/employees/7", admin, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 7, decodeBody(t, w)["data"].(map[string]interface{})["id"])

	w = ts.do(http.MethodGet, "/api/v1/employees/8", admin, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(http.MethodGet, "/api/v1/employees/abc", admin, nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodGet, "/api/v1/employees/7/loans", admin, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(http.MethodGet, "/api/v1/employees/7/challans", admin, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_ListPaginationInMeta(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/api/v1/employees?page=2", ts.token(t, 1, user.RoleSuperAdmin), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody(t, w)
	items := resp["data"].([]interface{})
	require.Len(t, items, 1)
	assert.EqualValues(t, 7, items[0].(map[string]interface{})["id"])

	meta := resp["meta"].(map[string]interface{})
	assert.EqualValues(t, 2, meta["page"])
	assert.EqualValues(t, 10, meta["limit"])
	assert.EqualValues(t, 11, meta["total_items"])
	assert.EqualValues(t, 2, meta["total_pages"])
	assert.Equal(t, "11-11 of 11", meta["showing"])
}

func multipartUpload(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestRouter_TimesheetUpload(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.token(t, 1, user.RoleSuperAdmin)

	body, contentType := multipartUpload(t, "march.csv", "EmployeeCode,Date\n7,2024-03-01\n")
	w := ts.do(http.MethodPost, "/api/v1/timesheets/upload", admin, body, contentType)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ".csv", ts.timesheets.ext)
	assert.Contains(t, ts.timesheets.body, "2024-03-01")

	body, contentType = multipartUpload(t, "march.pdf", "%PDF")
	w = ts.do(http.MethodPost, "/api/v1/timesheets/upload", admin, body, contentType)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/timesheets/upload", admin, strings.NewReader("x"), "text/plain")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// USER role may view but not add timesheets.
	body, contentType = multipartUpload(t, "march.csv", "EmployeeCode\n7\n")
	w = ts.do(http.MethodPost, "/api/v1/timesheets/upload", ts.token(t, 2, user.RoleUser), body, contentType)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_PayrollRoutes(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.token(t, 1, user.RoleSuperAdmin)

	w := ts.do(http.MethodPost, "/api/v1/payrolls/recompute", admin,
		strings.NewReader(`{"payroll_year":2024,"payroll_month":3,"is_posted":true}`), "application/json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, ts.payrolls.recomputed)

	w = ts.do(http.MethodPost, "/api/v1/payrolls/recompute", admin,
		strings.NewReader(`{"payroll_year":2024,"payroll_month":13}`), "application/json")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, 1, ts.payrolls.recomputed)

	w = ts.do(http.MethodGet, "/api/v1/payrolls/4", admin, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(http.MethodGet, "/api/v1/payrolls/4/details", admin, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_UserRoutes(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.token(t, 1, user.RoleSuperAdmin)

	w := ts.do(http.MethodPost, "/api/v1/users", admin,
		strings.NewReader(`{"name":"Clerk","email":"clerk@example.com","password":"password123","role":"USER"}`), "application/json")
	assert.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/users", admin, strings.NewReader(`{"email":"bad"}`), "application/json")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	details := decodeBody(t, w)["error"].(map[string]interface{})["details"].(map[string]interface{})
	assert.Contains(t, details, "email")

	w = ts.do(http.MethodPut, "/api/v1/users/1/privileges", admin,
		strings.NewReader(`{"module":"payrolls","action":"view","enabled":false}`), "application/json")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(http.MethodPut, "/api/v1/users/2/privileges", admin,
		strings.NewReader(`{"module":"payrolls","action":"view","enabled":true}`), "application/json")
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(http.MethodGet, "/api/v1/roles", admin, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_LogoutRevokesToken(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.token(t, 1, user.RoleSuperAdmin)

	w := ts.do(http.MethodPost, "/api/v1/auth/logout", admin, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(http.MethodGet, "/api/v1/employees", admin, nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
