package corehandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hrpayroll/internal/auth"
	"hrpayroll/internal/domain/core"
	"hrpayroll/internal/transport/http/api"
	"hrpayroll/internal/transport/http/middleware"
	"hrpayroll/internal/transport/http/shared"
)

type Handler struct {
	Core     *core.Service
	Accounts middleware.AccountStore
	MaxLimit int
	Logger   *zap.Logger
}

func NewHandler(svc *core.Service, accounts middleware.AccountStore, maxLimit int, logger *zap.Logger) *Handler {
	return &Handler{Core: svc, Accounts: accounts, MaxLimit: maxLimit, Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	anyUser := middleware.RequireUser(h.Accounts)
	manager := middleware.RequireRole(h.Accounts, auth.RoleAdmin, auth.RoleHR)

	r.Route("/departments", func(r chi.Router) {
		r.With(manager).Post("/", h.handleCreateDepartment)
		r.With(anyUser).Get("/", h.handleListDepartments)
		r.With(anyUser).Get("/{id}", h.handleGetDepartment)
		r.With(manager).Get("/{id}/statistics", h.handleDepartmentStatistics)
		r.With(anyUser).Get("/{id}/employees", h.handleDepartmentEmployees)
		r.With(manager).Put("/{id}", h.handleUpdateDepartment)
		r.With(manager).Delete("/{id}", h.handleDeleteDepartment)
	})

	r.Route("/employees", func(r chi.Router) {
		r.With(manager).Post("/", h.handleCreateEmployee)
		r.With(anyUser).Get("/", h.handleListEmployees)
		r.With(anyUser).Get("/{id}", h.handleGetEmployee)
		r.With(manager).Put("/{id}", h.handleUpdateEmployee)
		r.With(manager).Delete("/{id}", h.handleDeleteEmployee)
	})
}

type departmentPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type departmentUpdatePayload struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload departmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, reqID) {
		return
	}

	created, err := h.Core.CreateDepartment(r.Context(), core.Department{
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		h.writeError(w, reqID, err, "create_department_failed", "failed to create department")
		return
	}

	api.Created(w, created, reqID)
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 100, h.MaxLimit)

	total, items, err := h.Core.ListDepartments(r.Context(), core.DepartmentFilter{
		Search: r.URL.Query().Get("search"),
		Limit:  page.Limit,
		Skip:   page.Skip,
	})
	if err != nil {
		h.writeError(w, reqID, err, "list_departments_failed", "failed to list departments")
		return
	}

	api.Success(w, map[string]any{"total": total, "items": items}, reqID)
}

func (h *Handler) handleGetDepartment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := parseID(w, r, reqID)
	if !ok {
		return
	}

	found, err := h.Core.GetDepartment(r.Context(), id)
	if err != nil {
		h.writeError(w, reqID, err, "get_department_failed", "failed to load department")
		return
	}

	api.Success(w, found, reqID)
}

func (h *Handler) handleDepartmentStatistics(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := parseID(w, r, reqID)
	if !ok {
		return
	}

	stats, err := h.Core.DepartmentStatistics(r.Context(), id)
	if err != nil {
		h.writeError(w, reqID, err, "department_statistics_failed", "failed to compute department statistics")
		return
	}

	api.Success(w, stats, reqID)
}

func (h *Handler) handleDepartmentEmployees(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := parseID(w, r, reqID)
	if !ok {
		return
	}

	if _, err := h.Core.GetDepartment(r.Context(), id); err != nil {
		h.writeError(w, reqID, err, "get_department_failed", "failed to load department")
		return
	}

	page := shared.ParsePagination(r, 100, h.MaxLimit)
	total, items, err := h.Core.ListEmployees(r.Context(), core.EmployeeFilter{
		DepartmentID: &id,
		Limit:        page.Limit,
		Skip:         page.Skip,
	})
	if err != nil {
		h.writeError(w, reqID, err, "list_employees_failed", "failed to list department employees")
		return
	}

	api.Success(w, map[string]any{"total": total, "items": items}, reqID)
}

func (h *Handler) handleUpdateDepartment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := parseID(w, r, reqID)
	if !ok {
		return
	}

	var payload departmentUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	if payload.Name != nil {
		v.Required("name", *payload.Name, "name cannot be empty")
	}
	if v.Reject(w, reqID) {
		return
	}

	updated, err := h.Core.UpdateDepartment(r.Context(), id, core.DepartmentUpdate{
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		h.writeError(w, reqID, err, "update_department_failed", "failed to update department")
		return
	}

	api.Success(w, updated, reqID)
}

func (h *Handler) handleDeleteDepartment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := parseID(w, r, reqID)
	if !ok {
		return
	}

	if err := h.Core.DeleteDepartment(r.Context(), id); err != nil {
		h.writeError(w, reqID, err, "delete_department_failed", "failed to delete department")
		return
	}

	api.NoContent(w)
}

type employeePayload struct {
	UserID       *int64  `json:"userId"`
	DepartmentID int64   `json:"departmentId"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	DateOfBirth  string  `json:"dateOfBirth"`
	Gender       string  `json:"gender"`
	Phone        string  `json:"phone"`
	Address      string  `json:"address"`
	HireDate     string  `json:"hireDate"`
	Position     string  `json:"position"`
	BaseSalary   float64 `json:"baseSalary"`
}

type employeeUpdatePayload struct {
	DepartmentID *int64   `json:"departmentId"`
	FirstName    *string  `json:"firstName"`
	LastName     *string  `json:"lastName"`
	DateOfBirth  *string  `json:"dateOfBirth"`
	Gender       *string  `json:"gender"`
	Phone        *string  `json:"phone"`
	Address      *string  `json:"address"`
	HireDate     *string  `json:"hireDate"`
	Position     *string  `json:"position"`
	BaseSalary   *float64 `json:"baseSalary"`
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("firstName", payload.FirstName, "firstName is required")
	v.Required("lastName", payload.LastName, "lastName is required")
	v.Required("position", payload.Position, "position is required")
	v.Positive("baseSalary", payload.BaseSalary, "baseSalary must be greater than zero")
	if payload.DepartmentID <= 0 {
		v.Add("departmentId", "departmentId is required")
	}
	v.Required("hireDate", payload.HireDate, "hireDate is required")
	hireDate, _ := v.Date("hireDate", payload.HireDate)
	var dob *time.Time
	if payload.DateOfBirth != "" {
		if parsed, ok := v.Date("dateOfBirth", payload.DateOfBirth); ok {
			dob = &parsed
		}
	}
	if v.Reject(w, reqID) {
		return
	}

	created, err := h.Core.CreateEmployee(r.Context(), core.Employee{
		UserID:       payload.UserID,
		DepartmentID: payload.DepartmentID,
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		DateOfBirth:  dob,
		Gender:       payload.Gender,
		Phone:        payload.Phone,
		Address:      payload.Address,
		HireDate:     hireDate,
		Position:     payload.Position,
		BaseSalary:   payload.BaseSalary,
	})
	if err != nil {
		h.writeError(w, reqID, err, "create_employee_failed", "failed to create employee")
		return
	}

	api.Created(w, created, reqID)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 100, h.MaxLimit)

	filter := core.EmployeeFilter{
		Search: r.URL.Query().Get("search"),
		Limit:  page.Limit,
		Skip:   page.Skip,
	}
	if raw := r.URL.Query().Get("department_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			api.Fail(w, http.StatusBadRequest, "invalid_filter", "department_id must be a positive integer", reqID)
			return
		}
		filter.DepartmentID = &id
	}

	total, items, err := h.Core.ListEmployees(r.Context(), filter)
	if err != nil {
		h.writeError(w, reqID, err, "list_employees_failed", "failed to list employees")
		return
	}

	api.Success(w, map[string]any{"total": total, "items": items}, reqID)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := parseID(w, r, reqID)
	if !ok {
		return
	}

	found, err := h.Core.GetEmployee(r.Context(), id)
	if err != nil {
		h.writeError(w, reqID, err, "get_employee_failed", "failed to load employee")
		return
	}

	api.Success(w, found, reqID)
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := parseID(w, r, reqID)
	if !ok {
		return
	}

	var payload employeeUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	input := core.EmployeeUpdate{
		DepartmentID: payload.DepartmentID,
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		Gender:       payload.Gender,
		Phone:        payload.Phone,
		Address:      payload.Address,
		Position:     payload.Position,
		BaseSalary:   payload.BaseSalary,
	}
	if payload.FirstName != nil {
		v.Required("firstName", *payload.FirstName, "firstName cannot be empty")
	}
	if payload.LastName != nil {
		v.Required("lastName", *payload.LastName, "lastName cannot be empty")
	}
	if payload.BaseSalary != nil {
		v.Positive("baseSalary", *payload.BaseSalary, "baseSalary must be greater than zero")
	}
	if payload.DepartmentID != nil && *payload.DepartmentID <= 0 {
		v.Add("departmentId", "departmentId must be a positive integer")
	}
	if payload.HireDate != nil {
		if parsed, ok := v.Date("hireDate", *payload.HireDate); ok {
			input.HireDate = &parsed
		}
	}
	if payload.DateOfBirth != nil {
		if parsed, ok := v.Date("dateOfBirth", *payload.DateOfBirth); ok {
			input.DateOfBirth = &parsed
		}
	}
	if v.Reject(w, reqID) {
		return
	}

	updated, err := h.Core.UpdateEmployee(r.Context(), id, input)
	if err != nil {
		h.writeError(w, reqID, err, "update_employee_failed", "failed to update employee")
		return
	}

	api.Success(w, updated, reqID)
}

func (h *Handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := parseID(w, r, reqID)
	if !ok {
		return
	}

	if err := h.Core.DeleteEmployee(r.Context(), id); err != nil {
		h.writeError(w, reqID, err, "delete_employee_failed", "failed to delete employee")
		return
	}

	api.NoContent(w)
}

func (h *Handler) writeError(w http.ResponseWriter, reqID string, err error, code, message string) {
	switch {
	case errors.Is(err, core.ErrDepartmentNotFound):
		api.Fail(w, http.StatusNotFound, "department_not_found", "department not found", reqID)
	case errors.Is(err, core.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", reqID)
	case errors.Is(err, core.ErrNameTaken):
		api.Fail(w, http.StatusBadRequest, "department_name_taken", "a department with that name already exists", reqID)
	case errors.Is(err, core.ErrDepartmentNotEmpty):
		api.Fail(w, http.StatusBadRequest, "department_not_empty", "department still has employees assigned", reqID)
	case errors.Is(err, core.ErrEmployeeHasRecords):
		api.Fail(w, http.StatusBadRequest, "employee_has_records", "employee still has payroll or attendance records", reqID)
	case errors.Is(err, core.ErrUserNotFound):
		api.Fail(w, http.StatusNotFound, "user_not_found", "linked user not found", reqID)
	case errors.Is(err, core.ErrUserAlreadyLinked):
		api.Fail(w, http.StatusBadRequest, "user_already_linked", "user is already linked to another employee", reqID)
	default:
		h.Logger.Error(message, zap.Error(err), zap.String("requestId", reqID))
		api.Fail(w, http.StatusInternalServerError, code, message, reqID)
	}
}

func parseID(w http.ResponseWriter, r *http.Request, reqID string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "id must be a positive integer", reqID)
		return 0, false
	}
	return id, true
}
