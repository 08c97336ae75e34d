package authhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hrpayroll/internal/auth"
	"hrpayroll/internal/domain/user"
	"hrpayroll/internal/transport/http/api"
	"hrpayroll/internal/transport/http/middleware"
	"hrpayroll/internal/transport/http/shared"
)

type Handler struct {
	Users       *user.Service
	Accounts    middleware.AccountStore
	JWTSecret   string
	TokenExpiry time.Duration
	Logger      *zap.Logger
}

func NewHandler(users *user.Service, accounts middleware.AccountStore, secret string, expiry time.Duration, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Accounts: accounts, JWTSecret: secret, TokenExpiry: expiry, Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
	r.With(middleware.RequireUser(h.Accounts)).Get("/auth/me", h.handleMe)
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("username", payload.Username, "username is required")
	v.Required("password", payload.Password, "password is required")
	if v.Reject(w, reqID) {
		return
	}

	account, err := h.Users.Authenticate(r.Context(), payload.Username, payload.Password)
	if errors.Is(err, user.ErrBadCredentials) {
		api.Fail(w, http.StatusUnauthorized, "bad_credentials", "invalid username or password", reqID)
		return
	}
	if err != nil {
		h.Logger.Error("login failed", zap.Error(err), zap.String("requestId", reqID))
		api.Fail(w, http.StatusInternalServerError, "login_failed", "login failed", reqID)
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, auth.Claims{
		UserID:   account.ID,
		Username: account.Username,
		Role:     account.Role,
	}, h.TokenExpiry)
	if err != nil {
		h.Logger.Error("token generation failed", zap.Error(err), zap.String("requestId", reqID))
		api.Fail(w, http.StatusInternalServerError, "login_failed", "login failed", reqID)
		return
	}

	api.Success(w, map[string]any{"token": token, "user": account}, reqID)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, _ := middleware.GetUser(r.Context())

	account, err := h.Users.Get(r.Context(), identity.UserID)
	if errors.Is(err, user.ErrNotFound) {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	if err != nil {
		h.Logger.Error("me lookup failed", zap.Error(err), zap.String("requestId", reqID))
		api.Fail(w, http.StatusInternalServerError, "me_failed", "failed to load account", reqID)
		return
	}

	api.Success(w, account, reqID)
}
