package handlers

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/harari-inventory/apiserver/internal/logger"
	"github.com/harari-inventory/apiserver/internal/metrics"
	"github.com/harari-inventory/apiserver/internal/ratelimit"
	"github.com/harari-inventory/apiserver/internal/services"
	"github.com/harari-inventory/apiserver/types"
)

const (
	msgLoginRequired      = "이름과 비밀번호를 입력해주세요."
	msgLoginPinFormat     = "비밀번호는 6자리 숫자여야 합니다."
	msgLoginMismatch      = "이름 또는 비밀번호가 일치하지 않습니다."
	msgLoginFailed        = "로그인 처리 중 오류가 발생했습니다."
	msgLoginThrottled     = "로그인 시도가 너무 많습니다. 잠시 후 다시 시도해주세요."
	msgTokenMissing       = "토큰이 제공되지 않았습니다."
	msgTokenInvalid       = "유효하지 않은 토큰입니다."
	msgTokenFailed        = "토큰 검증 중 오류가 발생했습니다."
	msgAuthRequired       = "인증이 필요합니다."
	msgPasswordRequired   = "현재 비밀번호와 새 비밀번호를 입력해주세요."
	msgCurrentPinFormat   = "현재 비밀번호는 6자리 숫자여야 합니다."
	msgNewPinFormat       = "새 비밀번호는 6자리 숫자여야 합니다."
	msgCurrentMismatch    = "현재 비밀번호가 일치하지 않습니다."
	msgChangePasswordFail = "비밀번호 변경 중 오류가 발생했습니다."
)

// AuthHandler serves login, logout, token verification and password rotation.
type AuthHandler struct {
	auth    *services.AuthService
	limiter *ratelimit.Limiter
	metrics *metrics.LoginMetrics
	log     *logger.Logger
}

// NewAuthHandler constructs an AuthHandler. limiter and loginMetrics may be nil.
func NewAuthHandler(auth *services.AuthService, limiter *ratelimit.Limiter, loginMetrics *metrics.LoginMetrics, log *logger.Logger) *AuthHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthHandler{
		auth:    auth,
		limiter: limiter,
		metrics: loginMetrics,
		log:     log,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, handler *AuthHandler) {
	r.Post("/login", handler.Login)
	r.Post("/logout", handler.Logout)
	r.Post("/verify-token", handler.VerifyToken)
	r.Post("/change-password", handler.ChangePassword)
}

type LoginRequest struct {
	Name   string    `json:"name" validate:"required"`
	Number textValue `json:"number" validate:"required,pin6"`
}

func (LoginRequest) validationMessage(field, tag string) string {
	if tag == "required" {
		return msgLoginRequired
	}
	if field == "number" {
		return msgLoginPinFormat
	}
	return ""
}

type LoginResponse struct {
	Token string         `json:"token"`
	User  types.UserView `json:"user"`
}

// Login checks a name and 6-digit password and issues a fresh token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgLoginRequired)
		return
	}
	if err := validate.Struct(req); err != nil {
		h.metrics.Inc("invalid")
		writeError(w, http.StatusBadRequest, validationError(req, err))
		return
	}

	decision, err := h.limiter.Allow(ctx, map[string]string{
		ratelimit.ScopeIP:   clientIP(r),
		ratelimit.ScopeName: req.Name,
	})
	if err != nil {
		h.log.Warn(h.log.WithField(ctx, "error", err.Error()), "auth.rate_limit.unavailable")
	} else if !decision.Allowed {
		h.metrics.Inc("throttled")
		h.log.Warn(h.log.WithFields(ctx, map[string]any{
			"scope":    decision.Scope,
			"attempts": decision.Attempts,
		}), "auth.rate_limit.blocked")
		writeError(w, http.StatusTooManyRequests, msgLoginThrottled)
		return
	}

	result, err := h.auth.Login(ctx, req.Name, string(req.Number))
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.metrics.Inc("mismatch")
			writeError(w, http.StatusUnauthorized, msgLoginMismatch)
			return
		}
		h.metrics.Inc("error")
		h.log.Error(ctx, "auth.login_failed", err)
		writeError(w, http.StatusInternalServerError, msgLoginFailed)
		return
	}

	h.metrics.Inc("success")
	h.log.Info(h.log.WithUser(ctx, result.User.Name), "auth.login")
	writeJSON(w, http.StatusOK, LoginResponse{Token: result.Token, User: result.User.View()})
}

// Logout always succeeds; clients drop their token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type VerifyTokenRequest struct {
	Token string `json:"token"`
}

type VerifyTokenResponse struct {
	User types.UserView `json:"user"`
}

// VerifyToken resolves a token to its user.
func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	var req VerifyTokenRequest
	if err := decodeJSON(r, &req); err != nil || req.Token == "" {
		writeError(w, http.StatusBadRequest, msgTokenMissing)
		return
	}

	user, err := h.auth.Verify(r.Context(), req.Token)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			writeError(w, http.StatusUnauthorized, msgTokenInvalid)
			return
		}
		h.log.Error(r.Context(), "auth.verify_failed", err)
		writeError(w, http.StatusInternalServerError, msgTokenFailed)
		return
	}

	writeJSON(w, http.StatusOK, VerifyTokenResponse{User: user.View()})
}

type ChangePasswordRequest struct {
	CurrentPassword textValue `json:"currentPassword" validate:"required,pin6"`
	NewPassword     textValue `json:"newPassword" validate:"required,pin6"`
	Token           string    `json:"token"`
}

func (ChangePasswordRequest) validationMessage(field, tag string) string {
	switch {
	case tag == "required":
		return msgPasswordRequired
	case field == "currentPassword":
		return msgCurrentPinFormat
	case field == "newPassword":
		return msgNewPinFormat
	}
	return ""
}

// ChangePassword rotates the password of the token's owner. The token comes
// from the body or, failing that, the Authorization header.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgPasswordRequired)
		return
	}
	if req.Token == "" {
		if token, err := bearerToken(r); err == nil {
			req.Token = token
		}
	}
	if req.Token == "" {
		writeError(w, http.StatusUnauthorized, msgAuthRequired)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationError(req, err))
		return
	}

	err := h.auth.ChangePassword(ctx, req.Token, string(req.CurrentPassword), string(req.NewPassword))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	case errors.Is(err, services.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, msgTokenInvalid)
	case errors.Is(err, services.ErrPasswordMismatch):
		writeError(w, http.StatusUnauthorized, msgCurrentMismatch)
	default:
		h.log.Error(ctx, "auth.change_password_failed", err)
		writeError(w, http.StatusInternalServerError, msgChangePasswordFail)
	}
}

func clientIP(r *http.Request) string {
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
