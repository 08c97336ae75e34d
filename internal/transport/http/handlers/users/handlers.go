package usershandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hrpayroll/internal/auth"
	"hrpayroll/internal/domain/user"
	"hrpayroll/internal/transport/http/api"
	"hrpayroll/internal/transport/http/middleware"
	"hrpayroll/internal/transport/http/shared"
)

type Handler struct {
	Users    *user.Service
	Accounts middleware.AccountStore
	MaxLimit int
	Logger   *zap.Logger
}

func NewHandler(users *user.Service, accounts middleware.AccountStore, maxLimit int, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Accounts: accounts, MaxLimit: maxLimit, Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	admin := middleware.RequireRole(h.Accounts, auth.RoleAdmin)
	r.Route("/users", func(r chi.Router) {
		r.Use(admin)
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
	})
}

type createPayload struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type updatePayload struct {
	Email    *string `json:"email"`
	Username *string `json:"username"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload createPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("email", payload.Email, "email is required")
	v.Email("email", payload.Email)
	v.Required("username", payload.Username, "username is required")
	v.MinLength("password", payload.Password, 8, "password must be at least 8 characters")
	role := auth.Role(payload.Role)
	if payload.Role != "" && !role.Valid() {
		v.Add("role", "role must be one of admin, hr, employee")
	}
	if v.Reject(w, reqID) {
		return
	}

	created, err := h.Users.Create(r.Context(), user.CreateInput{
		Email:    payload.Email,
		Username: payload.Username,
		Password: payload.Password,
		Role:     role,
	})
	if err != nil {
		h.writeError(w, reqID, err, "create_user_failed", "failed to create user")
		return
	}

	api.Created(w, created, reqID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 100, h.MaxLimit)

	total, items, err := h.Users.List(r.Context(), user.Filter{
		Search: r.URL.Query().Get("search"),
		Limit:  page.Limit,
		Skip:   page.Skip,
	})
	if err != nil {
		h.writeError(w, reqID, err, "list_users_failed", "failed to list users")
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

	found, err := h.Users.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, reqID, err, "get_user_failed", "failed to load user")
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
	if payload.Email != nil {
		v.Required("email", *payload.Email, "email cannot be empty")
		v.Email("email", *payload.Email)
	}
	if payload.Username != nil {
		v.Required("username", *payload.Username, "username cannot be empty")
	}
	var role *auth.Role
	if payload.Role != nil {
		parsed := auth.Role(*payload.Role)
		if !parsed.Valid() {
			v.Add("role", "role must be one of admin, hr, employee")
		}
		role = &parsed
	}
	if v.Reject(w, reqID) {
		return
	}

	updated, err := h.Users.Update(r.Context(), id, user.UpdateInput{
		Email:    payload.Email,
		Username: payload.Username,
		Role:     role,
		IsActive: payload.IsActive,
	})
	if err != nil {
		h.writeError(w, reqID, err, "update_user_failed", "failed to update user")
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

	if err := h.Users.Delete(r.Context(), id); err != nil {
		h.writeError(w, reqID, err, "delete_user_failed", "failed to delete user")
		return
	}

	api.NoContent(w)
}

func (h *Handler) writeError(w http.ResponseWriter, reqID string, err error, code, message string) {
	switch {
	case errors.Is(err, user.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "user_not_found", "user not found", reqID)
	case errors.Is(err, user.ErrEmailTaken):
		api.Fail(w, http.StatusBadRequest, "email_taken", "email is already in use", reqID)
	case errors.Is(err, user.ErrUsernameTaken):
		api.Fail(w, http.StatusBadRequest, "username_taken", "username is already in use", reqID)
	case errors.Is(err, user.ErrPasswordTooShort):
		api.Fail(w, http.StatusUnprocessableEntity, "password_too_short", "password must be at least 8 characters", reqID)
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
