package attendancehandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hrpayroll/internal/auth"
	"hrpayroll/internal/domain/attendance"
	"hrpayroll/internal/transport/http/api"
	"hrpayroll/internal/transport/http/middleware"
	"hrpayroll/internal/transport/http/shared"
)

type Handler struct {
	Attendance *attendance.Service
	Accounts   middleware.AccountStore
	MaxLimit   int
	Logger     *zap.Logger
}

func NewHandler(svc *attendance.Service, accounts middleware.AccountStore, maxLimit int, logger *zap.Logger) *Handler {
	return &Handler{Attendance: svc, Accounts: accounts, MaxLimit: maxLimit, Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	anyUser := middleware.RequireUser(h.Accounts)
	manager := middleware.RequireRole(h.Accounts, auth.RoleAdmin, auth.RoleHR)

	r.Route("/employees/{employeeID}/attendance", func(r chi.Router) {
		r.With(manager).Post("/", h.handleCreate)
		r.With(anyUser).Get("/", h.handleList)
		r.With(anyUser).Get("/{id}", h.handleGet)
		r.With(manager).Put("/{id}", h.handleUpdate)
		r.With(manager).Delete("/{id}", h.handleDelete)
	})
}

type createPayload struct {
	Date     string `json:"date"`
	Status   string `json:"status"`
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
	Notes    string `json:"notes"`
}

type updatePayload struct {
	Date     *string `json:"date"`
	Status   *string `json:"status"`
	CheckIn  *string `json:"checkIn"`
	CheckOut *string `json:"checkOut"`
	Notes    *string `json:"notes"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	employeeID, ok := parseParam(w, r, "employeeID", reqID)
	if !ok {
		return
	}

	var payload createPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("date", payload.Date, "date is required")
	date, _ := v.Date("date", payload.Date)
	status := attendance.Status(payload.Status)
	if !status.Valid() {
		v.Add("status", "status must be one of present, absent, leave, half_day")
	}
	checkIn := parseOptionalTime(v, "checkIn", payload.CheckIn)
	checkOut := parseOptionalTime(v, "checkOut", payload.CheckOut)
	if checkIn != nil && checkOut != nil && checkOut.Before(*checkIn) {
		v.Add("checkOut", "checkOut must not be before checkIn")
	}
	if v.Reject(w, reqID) {
		return
	}

	created, err := h.Attendance.Create(r.Context(), attendance.Attendance{
		EmployeeID: employeeID,
		Date:       date,
		Status:     status,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Notes:      payload.Notes,
	})
	if err != nil {
		h.writeError(w, reqID, err, "create_attendance_failed", "failed to create attendance record")
		return
	}

	api.Created(w, created, reqID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	employeeID, ok := parseParam(w, r, "employeeID", reqID)
	if !ok {
		return
	}
	page := shared.ParsePagination(r, 100, h.MaxLimit)
	q := r.URL.Query()

	filter := attendance.Filter{EmployeeID: employeeID, Limit: page.Limit, Skip: page.Skip}
	if raw := q.Get("start_date"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_filter", "start_date must be an ISO date", reqID)
			return
		}
		filter.StartDate = &parsed
	}
	if raw := q.Get("end_date"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_filter", "end_date must be an ISO date", reqID)
			return
		}
		filter.EndDate = &parsed
	}

	total, items, err := h.Attendance.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, reqID, err, "list_attendance_failed", "failed to list attendance records")
		return
	}

	api.Success(w, map[string]any{"total": total, "items": items}, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	employeeID, ok := parseParam(w, r, "employeeID", reqID)
	if !ok {
		return
	}
	id, ok := parseParam(w, r, "id", reqID)
	if !ok {
		return
	}

	found, err := h.Attendance.Get(r.Context(), employeeID, id)
	if err != nil {
		h.writeError(w, reqID, err, "get_attendance_failed", "failed to load attendance record")
		return
	}

	api.Success(w, found, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	employeeID, ok := parseParam(w, r, "employeeID", reqID)
	if !ok {
		return
	}
	id, ok := parseParam(w, r, "id", reqID)
	if !ok {
		return
	}

	var payload updatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	input := attendance.Update{Notes: payload.Notes}
	if payload.Date != nil {
		if parsed, ok := v.Date("date", *payload.Date); ok {
			input.Date = &parsed
		}
	}
	if payload.Status != nil {
		status := attendance.Status(*payload.Status)
		if !status.Valid() {
			v.Add("status", "status must be one of present, absent, leave, half_day")
		} else {
			input.Status = &status
		}
	}
	if payload.CheckIn != nil {
		input.CheckIn = parseOptionalTime(v, "checkIn", *payload.CheckIn)
	}
	if payload.CheckOut != nil {
		input.CheckOut = parseOptionalTime(v, "checkOut", *payload.CheckOut)
	}
	if v.Reject(w, reqID) {
		return
	}

	updated, err := h.Attendance.Update(r.Context(), employeeID, id, input)
	if err != nil {
		h.writeError(w, reqID, err, "update_attendance_failed", "failed to update attendance record")
		return
	}

	api.Success(w, updated, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	employeeID, ok := parseParam(w, r, "employeeID", reqID)
	if !ok {
		return
	}
	id, ok := parseParam(w, r, "id", reqID)
	if !ok {
		return
	}

	if err := h.Attendance.Delete(r.Context(), employeeID, id); err != nil {
		h.writeError(w, reqID, err, "delete_attendance_failed", "failed to delete attendance record")
		return
	}

	api.NoContent(w)
}

func (h *Handler) writeError(w http.ResponseWriter, reqID string, err error, code, message string) {
	switch {
	case errors.Is(err, attendance.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "attendance_not_found", "attendance record not found", reqID)
	case errors.Is(err, attendance.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", reqID)
	default:
		h.Logger.Error(message, zap.Error(err), zap.String("requestId", reqID))
		api.Fail(w, http.StatusInternalServerError, code, message, reqID)
	}
}

func parseOptionalTime(v *shared.Validator, field, raw string) *time.Time {
	if raw == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		v.Add(field, field+" must be an RFC 3339 timestamp")
		return nil
	}
	return &parsed
}

func parseParam(w http.ResponseWriter, r *http.Request, name, reqID string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", name+" must be a positive integer", reqID)
		return 0, false
	}
	return id, true
}
