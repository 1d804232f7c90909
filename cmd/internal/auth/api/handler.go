package authapi

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"vectoredu/cmd/identity"
	"vectoredu/cmd/internal/auth/account"
	"vectoredu/cmd/internal/passwordreset"
)

// Handler wires HTTP auth endpoints to the account and password-reset services.
type Handler struct {
	log *slog.Logger
	cfg Config

	accounts *account.Service
	resets   *passwordreset.Service
}

// NewHandler constructs an auth Handler.
func NewHandler(log *slog.Logger, cfg Config, accounts *account.Service, resets *passwordreset.Service) (*Handler, error) {
	if accounts == nil || resets == nil {
		return nil, errors.New("authapi: nil service")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		log:      log,
		cfg:      cfg,
		accounts: accounts,
		resets:   resets,
	}, nil
}

// Register wires auth routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/auth/signup", h.handleSignup)
	mux.HandleFunc("/auth/login", h.handleLogin)
	mux.HandleFunc("/auth/refresh", h.handleRefresh)
	mux.HandleFunc("/auth/verify", h.handleVerify)
	mux.HandleFunc("/auth/resend", h.handleResend)
	mux.HandleFunc("/auth/request-password-reset", h.handleRequestPasswordReset)
	mux.HandleFunc("/auth/reset-password", h.handleResetPassword)
}

// ---- handlers ----

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req signupRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	acc, err := h.accounts.SignUp(r.Context(), account.SignUpInput{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Password:    req.Password,
		Now:         time.Now().UTC(),
	})
	if err != nil {
		h.writeServiceError(w, r, "auth.signup.fail", err)
		return
	}

	writeJSON(w, http.StatusOK, signupResponse{Account: toAccountResponse(acc)})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	acc, pair, err := h.accounts.Authenticate(r.Context(), req.Email, req.Password, time.Now().UTC())
	if err != nil {
		h.writeServiceError(w, r, "auth.login.fail", err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Account: toAccountResponse(acc),
		Tokens:  toTokenPairResponse(pair),
	})
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req refreshRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	pair, err := h.accounts.RefreshAccessToken(r.Context(), req.RefreshToken, time.Now().UTC())
	if err != nil {
		h.writeServiceError(w, r, "auth.refresh.fail", err)
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{Tokens: toTokenPairResponse(pair)})
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req verifyRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	if err := h.accounts.VerifyAccount(r.Context(), req.Email, req.Code, time.Now().UTC()); err != nil {
		h.writeServiceError(w, r, "auth.verify.fail", err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "account verified"})
}

func (h *Handler) handleResend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req resendRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	if err := h.accounts.ResendVerificationCode(r.Context(), req.Email, time.Now().UTC()); err != nil {
		h.writeServiceError(w, r, "auth.resend.fail", err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "verification code sent"})
}

func (h *Handler) handleRequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req requestResetRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	if err := h.resets.RequestReset(r.Context(), req.Email, time.Now().UTC()); err != nil {
		h.writeServiceError(w, r, "auth.password_reset.request.fail", err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "password reset link sent"})
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req resetPasswordRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	if err := h.resets.ResetPassword(r.Context(), req.Token, req.NewPassword, time.Now().UTC()); err != nil {
		h.writeServiceError(w, r, "auth.password_reset.fail", err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "password updated"})
}

// ---- error mapping ----

// writeServiceError maps identity error kinds to boundary statuses. Unknown
// failures are logged in full and returned as an opaque 500.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, event string, err error) {
	status, code, msg := classifyError(err)

	if status == http.StatusInternalServerError {
		h.log.ErrorContext(r.Context(), event,
			slog.String("path", r.URL.Path),
			slog.String("err", err.Error()),
		)
	} else {
		h.log.InfoContext(r.Context(), event,
			slog.String("path", r.URL.Path),
			slog.String("code", code),
		)
	}

	writeError(w, status, code, msg)
}

func classifyError(err error) (status int, code, msg string) {
	switch {
	case identity.IsValidation(err):
		return http.StatusBadRequest, "validation_failure", reasonOf(err, "invalid input")
	case identity.IsDuplicateAccount(err):
		return http.StatusConflict, "duplicate_account", "email or display name already registered"
	case identity.IsNotFound(err):
		return http.StatusNotFound, "not_found", "account not found"
	case identity.IsNotVerified(err):
		return http.StatusForbidden, "not_verified", "account is not verified"
	case identity.IsInvalidCredentials(err):
		return http.StatusUnauthorized, "invalid_credentials", "invalid credentials"
	case identity.IsInvalidToken(err):
		return http.StatusUnauthorized, "invalid_token", "invalid or expired token"
	case identity.IsCodeExpired(err):
		return http.StatusBadRequest, "code_expired", "verification code expired"
	case identity.IsCodeMismatch(err):
		return http.StatusBadRequest, "code_mismatch", "verification code does not match"
	case identity.IsAlreadyVerified(err):
		return http.StatusConflict, "already_verified", "account is already verified"
	case identity.IsResetTokenInvalid(err):
		return http.StatusBadRequest, "invalid_or_expired_token", "reset token is invalid or expired"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}

// reasonOf surfaces a validation message to the caller; validation reasons
// are the one error class whose detail is caller-actionable and safe.
func reasonOf(err error, fallback string) string {
	var opErr identity.OpError
	if errors.As(err, &opErr) && opErr.Msg != "" {
		return opErr.Msg
	}
	return fallback
}
