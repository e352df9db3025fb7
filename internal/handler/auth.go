package handler

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"

	"github.com/miguelgnzalez28/ultimate-kits/internal/apperror"
	"github.com/miguelgnzalez28/ultimate-kits/internal/auth"
	"github.com/miguelgnzalez28/ultimate-kits/internal/model"
	"github.com/miguelgnzalez28/ultimate-kits/internal/service"
)

// AuthHandler exposes the registration, login, and current-user endpoints.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	IsAdmin  bool   `json:"is_admin,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenResponse is the success body for register and login.
type tokenResponse struct {
	AccessToken string            `json:"access_token"`
	TokenType   string            `json:"token_type"`
	User        *model.PublicUser `json:"user"`
}

// HandleRegister creates an account.
//
// HTTP: POST /api/auth/register
// 200 {access_token, token_type, user} | 400 duplicate email or bad input | 503 store down
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	result, err := h.auth.Register(r.Context(), req.Email, req.Password, req.Name, req.IsAdmin, clientInfo(r))
	if err != nil {
		h.logger.Warn("registration failed",
			slog.String("email", req.Email),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: result.Token,
		TokenType:   "bearer",
		User:        result.User,
	})
}

// HandleLogin authenticates an existing account.
//
// HTTP: POST /api/auth/login
// 200 {access_token, token_type, user} | 401 | 503
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password, clientInfo(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: result.Token,
		TokenType:   "bearer",
		User:        result.User,
	})
}

// HandleMe returns the profile of the token's subject.
//
// HTTP: GET /api/auth/me (behind RequireAuth)
// 200 user | 401 | 404 user deleted after token issuance
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("missing bearer token"))
		return
	}

	user, err := h.auth.CurrentUser(r.Context(), claims.Subject)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// clientInfo extracts the caller's IP and User-Agent for the event log.
// RemoteAddr is host:port; behind chi's RealIP middleware it already holds
// the X-Forwarded-For address.
func clientInfo(r *http.Request) service.ClientInfo {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	return service.ClientInfo{
		IP:        ip,
		UserAgent: r.UserAgent(),
	}
}
