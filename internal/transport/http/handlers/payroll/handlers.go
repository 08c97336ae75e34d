package payrollhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hrpayroll/internal/auth"
	"hrpayroll/internal/domain/payroll"
	"hrpayroll/internal/transport/http/api"
	"hrpayroll/internal/transport/http/middleware"
	"hrpayroll/internal/transport/http/shared"
)

type Handler struct {
	Payroll  *payroll.Service
	Accounts middleware.AccountStore
	MaxLimit int
	Logger   *zap.Logger
}

func NewHandler(svc *payroll.Service, accounts middleware.AccountStore, maxLimit int, logger *zap.Logger) *Handler {
	return &Handler{Payroll: svc, Accounts: accounts, MaxLimit: maxLimit, Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	manager := middleware.RequireRole(h.Accounts, auth.RoleAdmin, auth.RoleHR)

	r.Route("/payroll", func(r chi.Router) {
		r.Use(manager)
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{id}", h.handleGet)
		r.Get("/{id}/payslip", h.handlePayslip)
		r.Put("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
		r.Post("/{id}/process", h.handleProcess)
		r.Post("/{id}/pay", h.handlePay)
	})
}

type createPayload struct {
	EmployeeID     int64   `json:"employeeId"`
	PayPeriodStart string  `json:"payPeriodStart"`
	PayPeriodEnd   string  `json:"payPeriodEnd"`
	BaseSalary     float64 `json:"baseSalary"`
	OvertimePay    float64 `json:"overtimePay"`
	Deductions     float64 `json:"deductions"`
	Tax            float64 `json:"tax"`
}

type updatePayload struct {
	OvertimePay *float64 `json:"overtimePay"`
	Deductions  *float64 `json:"deductions"`
	Tax         *float64 `json:"tax"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload createPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	if payload.EmployeeID <= 0 {
		v.Add("employeeId", "employeeId is required")
	}
	v.Positive("baseSalary", payload.BaseSalary, "baseSalary must be greater than zero")
	if payload.OvertimePay < 0 {
		v.Add("overtimePay", "overtimePay cannot be negative")
	}
	if payload.Deductions < 0 {
		v.Add("deductions", "deductions cannot be negative")
	}
	if payload.Tax < 0 {
		v.Add("tax", "tax cannot be negative")
	}
	v.Required("payPeriodStart", payload.PayPeriodStart, "payPeriodStart is required")
	v.Required("payPeriodEnd", payload.PayPeriodEnd, "payPeriodEnd is required")
	start, startOK := v.Date("payPeriodStart", payload.PayPeriodStart)
	end, endOK := v.Date("payPeriodEnd", payload.PayPeriodEnd)
	if startOK && endOK {
		v.DateOrder("payPeriodStart", start, "payPeriodEnd", end)
	}
	if v.Reject(w, reqID) {
		return
	}

	created, err := h.Payroll.Create(r.Context(), payroll.Payroll{
		EmployeeID:     payload.EmployeeID,
		PayPeriodStart: start,
		PayPeriodEnd:   end,
		BaseSalary:     payload.BaseSalary,
		OvertimePay:    payload.OvertimePay,
		Deductions:     payload.Deductions,
		Tax:            payload.Tax,
	})
	if err != nil {
		h.writeError(w, reqID, err, "create_payroll_failed", "failed to create payroll record")
		return
	}

	api.Created(w, created, reqID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 100, h.MaxLimit)
	q := r.URL.Query()

	filter := payroll.Filter{Limit: page.Limit, Skip: page.Skip}
	if raw := q.Get("employee_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			api.Fail(w, http.StatusBadRequest, "invalid_filter", "employee_id must be a positive integer", reqID)
			return
		}
		filter.EmployeeID = &id
	}
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
	if raw := q.Get("status"); raw != "" {
		status := payroll.Status(raw)
		if !status.Valid() {
			api.Fail(w, http.StatusBadRequest, "invalid_filter", "status must be one of pending, processed, paid", reqID)
			return
		}
		filter.Status = status
	}

	total, items, err := h.Payroll.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, reqID, err, "list_payroll_failed", "failed to list payroll records")
		return
	}

	api.Success(w, map[string]any{"total": total, "items": items}, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := parseID(w, r, reqID)
	if !ok {
		return
	}

	found, err := h.Payroll.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, reqID, err, "get_payroll_failed", "failed to load payroll record")
		return
	}

	api.Success(w, found, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := parseID(w, r, reqID)
	if !ok {
		return
	}

	var payload updatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	if payload.OvertimePay != nil && *payload.OvertimePay < 0 {
		v.Add("overtimePay", "overtimePay cannot be negative")
	}
	if payload.Deductions != nil && *payload.Deductions < 0 {
		v.Add("deductions", "deductions cannot be negative")
	}
	if payload.Tax != nil && *payload.Tax < 0 {
		v.Add("tax", "tax cannot be negative")
	}
	if v.Reject(w, reqID) {
		return
	}

	updated, err := h.Payroll.Update(r.Context(), id, payroll.Update{
		OvertimePay: payload.OvertimePay,
		Deductions:  payload.Deductions,
		Tax:         payload.Tax,
	})
	if err != nil {
		h.writeError(w, reqID, err, "update_payroll_failed", "failed to update payroll record")
		return
	}

	api.Success(w, updated, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := parseID(w, r, reqID)
	if !ok {
		return
	}

	if err := h.Payroll.Delete(r.Context(), id); err != nil {
		h.writeError(w, reqID, err, "delete_payroll_failed", "failed to delete payroll record")
		return
	}

	api.NoContent(w)
}

func (h *Handler) handleProcess(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := parseID(w, r, reqID)
	if !ok {
		return
	}

	processed, err := h.Payroll.Process(r.Context(), id)
	if err != nil {
		h.writeError(w, reqID, err, "process_payroll_failed", "failed to process payroll record")
		return
	}

	api.Success(w, processed, reqID)
}

func (h *Handler) handlePay(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := parseID(w, r, reqID)
	if !ok {
		return
	}

	paid, err := h.Payroll.Pay(r.Context(), id)
	if err != nil {
		h.writeError(w, reqID, err, "pay_payroll_failed", "failed to mark payroll record as paid")
		return
	}

	api.Success(w, paid, reqID)
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := parseID(w, r, reqID)
	if !ok {
		return
	}

	pdf, err := h.Payroll.RenderPayslip(r.Context(), id)
	if err != nil {
		h.writeError(w, reqID, err, "render_payslip_failed", "failed to render payslip")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=payslip-%d.pdf", id))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		h.Logger.Warn("failed to write payslip response", zap.Error(err), zap.String("requestId", reqID))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, reqID string, err error, code, message string) {
	switch {
	case errors.Is(err, payroll.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "payroll_not_found", "payroll record not found", reqID)
	case errors.Is(err, payroll.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", reqID)
	case errors.Is(err, payroll.ErrPeriodInverted):
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_period", "payPeriodStart must not be after payPeriodEnd", reqID)
	case errors.Is(err, payroll.ErrPeriodOverlap):
		api.Fail(w, http.StatusBadRequest, "period_overlap", "pay period overlaps an existing payroll record for this employee", reqID)
	case errors.Is(err, payroll.ErrNotPending):
		api.Fail(w, http.StatusBadRequest, "not_pending", "only pending payroll records can be processed", reqID)
	case errors.Is(err, payroll.ErrNotProcessed):
		api.Fail(w, http.StatusBadRequest, "not_processed", "only processed payroll records can be paid", reqID)
	case errors.Is(err, payroll.ErrPaidImmutable):
		api.Fail(w, http.StatusBadRequest, "paid_immutable", "paid payroll records cannot be modified", reqID)
	case errors.Is(err, payroll.ErrNotRenderable):
		api.Fail(w, http.StatusBadRequest, "payslip_unavailable", "payslip is only available once payroll is processed", reqID)
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
