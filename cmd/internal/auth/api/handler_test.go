package authapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vectoredu/cmd/identity"
	"vectoredu/cmd/internal/auth/account"
	"vectoredu/cmd/internal/auth/token"
	"vectoredu/cmd/internal/notify"
	"vectoredu/cmd/internal/passwordreset"
	"vectoredu/cmd/security/password"
)

// captureMailer records sent messages instead of delivering.
type captureMailer struct {
	sent []notify.Message
}

func (m *captureMailer) Send(ctx context.Context, msg notify.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

type testEnv struct {
	srv    *httptest.Server
	store  *identity.InMemoryStore
	mailer *captureMailer
}

func fastHasher() password.Config {
	cfg := password.DefaultConfig()
	cfg.Params.MemoryKiB = 8 * 1024
	cfg.Params.Iterations = 1
	cfg.Params.Parallelism = 1
	return cfg
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithConfig(t, LoadConfigFromEnv())
}

func newTestEnvWithConfig(t *testing.T, cfg Config) *testEnv {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := identity.NewInMemoryStore()
	mailer := &captureMailer{}
	hasher := fastHasher()

	tokenCfg := token.DefaultConfig()
	tokenCfg.Secret = []byte("0123456789abcdef0123456789abcdef")
	codec, err := token.NewHS256Codec(tokenCfg)
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	accounts, err := account.NewService(store, hasher, mailer, codec, tokenCfg, account.WithLogger(log))
	if err != nil {
		t.Fatalf("new account service: %v", err)
	}
	resets, err := passwordreset.NewService(store, passwordreset.NewInMemoryStore(), hasher, mailer,
		passwordreset.WithLogger(log))
	if err != nil {
		t.Fatalf("new reset service: %v", err)
	}

	h, err := NewHandler(log, cfg, accounts, resets)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	mux := http.NewServeMux()
	h.Register(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, store: store, mailer: mailer}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, e.srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.srv.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}

func errorCode(t *testing.T, body map[string]any) string {
	t.Helper()

	e, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error envelope, got %v", body)
	}
	code, _ := e["code"].(string)
	return code
}

func (e *testEnv) signup(t *testing.T, email, name string) {
	t.Helper()

	resp, _ := e.do(t, http.MethodPost, "/auth/signup",
		`{"email":"`+email+`","display_name":"`+name+`","password":"Password1"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signup: expected 200, got %d", resp.StatusCode)
	}
}

func (e *testEnv) verify(t *testing.T, email string) {
	t.Helper()

	acc, err := e.store.GetAccountByEmail(context.Background(), email)
	if err != nil || acc.VerificationCode == nil {
		t.Fatalf("expected pending account: %v", err)
	}
	resp, _ := e.do(t, http.MethodPost, "/auth/verify",
		`{"email":"`+email+`","code":"`+*acc.VerificationCode+`"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d", resp.StatusCode)
	}
}

func TestSignup_OKAndDuplicate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/auth/signup",
		`{"email":"new@example.com","display_name":"Newbie","password":"Password1"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	acc, ok := body["account"].(map[string]any)
	if !ok {
		t.Fatalf("expected account in response, got %v", body)
	}
	if acc["email"] != "new@example.com" || acc["enabled"] != false {
		t.Fatalf("unexpected account payload %v", acc)
	}
	if len(env.mailer.sent) != 1 {
		t.Fatalf("expected verification mail, got %d", len(env.mailer.sent))
	}

	env.verify(t, "new@example.com")

	resp, body = env.do(t, http.MethodPost, "/auth/signup",
		`{"email":"new@example.com","display_name":"Other","password":"Password1"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	if errorCode(t, body) != "duplicate_account" {
		t.Fatalf("expected duplicate_account, got %v", body)
	}
}

func TestSignup_ValidationFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/auth/signup",
		`{"email":"bad","display_name":"A","password":"Password1"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if errorCode(t, body) != "validation_failure" {
		t.Fatalf("expected validation_failure, got %v", body)
	}

	resp, body = env.do(t, http.MethodPost, "/auth/signup",
		`{"email":"ok@example.com","display_name":"A","password":"weak"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for weak password, got %d", resp.StatusCode)
	}
	if errorCode(t, body) != "validation_failure" {
		t.Fatalf("expected validation_failure, got %v", body)
	}
}

func TestSignup_RejectsMalformedJSON(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/auth/signup", `{"email": `)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if errorCode(t, body) != "invalid_json" {
		t.Fatalf("expected invalid_json, got %v", body)
	}

	// Unknown fields are rejected.
	resp, _ = env.do(t, http.MethodPost, "/auth/signup",
		`{"email":"a@example.com","display_name":"A","password":"Password1","admin":true}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", resp.StatusCode)
	}
}

func TestSignup_RejectsOversizedBody(t *testing.T) {
	t.Parallel()

	cfg := LoadConfigFromEnv()
	cfg.MaxBodyBytes = 64
	env := newTestEnvWithConfig(t, cfg)

	resp, body := env.do(t, http.MethodPost, "/auth/signup",
		`{"email":"big@example.com","display_name":"`+strings.Repeat("x", 200)+`","password":"Password1"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if errorCode(t, body) != "invalid_json" {
		t.Fatalf("expected invalid_json, got %v", body)
	}
}

func TestLogin_StatusPerState(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/auth/login",
		`{"email":"ghost@example.com","password":"Password1"}`)
	if resp.StatusCode != http.StatusNotFound || errorCode(t, body) != "not_found" {
		t.Fatalf("expected 404 not_found, got %d %v", resp.StatusCode, body)
	}

	env.signup(t, "login@example.com", "Login")

	resp, body = env.do(t, http.MethodPost, "/auth/login",
		`{"email":"login@example.com","password":"Password1"}`)
	if resp.StatusCode != http.StatusForbidden || errorCode(t, body) != "not_verified" {
		t.Fatalf("expected 403 not_verified, got %d %v", resp.StatusCode, body)
	}

	env.verify(t, "login@example.com")

	resp, body = env.do(t, http.MethodPost, "/auth/login",
		`{"email":"login@example.com","password":"WrongPass1"}`)
	if resp.StatusCode != http.StatusUnauthorized || errorCode(t, body) != "invalid_credentials" {
		t.Fatalf("expected 401 invalid_credentials, got %d %v", resp.StatusCode, body)
	}

	resp, body = env.do(t, http.MethodPost, "/auth/login",
		`{"email":"login@example.com","password":"Password1"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	tokens, ok := body["tokens"].(map[string]any)
	if !ok {
		t.Fatalf("expected tokens in response, got %v", body)
	}
	if tokens["access_token"] == "" || tokens["refresh_token"] == "" {
		t.Fatalf("expected token pair, got %v", tokens)
	}
}

func TestRefresh_Flow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.signup(t, "refresh@example.com", "Refresher")
	env.verify(t, "refresh@example.com")

	_, loginBody := env.do(t, http.MethodPost, "/auth/login",
		`{"email":"refresh@example.com","password":"Password1"}`)
	tokens := loginBody["tokens"].(map[string]any)
	refreshToken, _ := tokens["refresh_token"].(string)
	if refreshToken == "" {
		t.Fatalf("expected refresh token")
	}

	resp, body := env.do(t, http.MethodPost, "/auth/refresh",
		`{"refresh_token":"`+refreshToken+`"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", resp.StatusCode, body)
	}
	fresh := body["tokens"].(map[string]any)
	if fresh["access_token"] == "" {
		t.Fatalf("expected new access token")
	}
	if fresh["refresh_token"] != refreshToken {
		t.Fatalf("refresh token must not rotate")
	}

	resp, body = env.do(t, http.MethodPost, "/auth/refresh",
		`{"refresh_token":"garbage"}`)
	if resp.StatusCode != http.StatusUnauthorized || errorCode(t, body) != "invalid_token" {
		t.Fatalf("expected 401 invalid_token, got %d %v", resp.StatusCode, body)
	}
}

func TestVerify_ErrorStatuses(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/auth/verify",
		`{"email":"ghost@example.com","code":"123456"}`)
	if resp.StatusCode != http.StatusNotFound || errorCode(t, body) != "not_found" {
		t.Fatalf("expected 404 not_found, got %d %v", resp.StatusCode, body)
	}

	env.signup(t, "verify@example.com", "Verifier")

	resp, body = env.do(t, http.MethodPost, "/auth/verify",
		`{"email":"verify@example.com","code":"000000"}`)
	if resp.StatusCode != http.StatusBadRequest || errorCode(t, body) != "code_mismatch" {
		t.Fatalf("expected 400 code_mismatch, got %d %v", resp.StatusCode, body)
	}
}

func TestResend_Statuses(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.signup(t, "resend@example.com", "Resender")

	resp, _ := env.do(t, http.MethodPost, "/auth/resend",
		`{"email":"resend@example.com"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	env.verify(t, "resend@example.com")

	resp, body := env.do(t, http.MethodPost, "/auth/resend",
		`{"email":"resend@example.com"}`)
	if resp.StatusCode != http.StatusConflict || errorCode(t, body) != "already_verified" {
		t.Fatalf("expected 409 already_verified, got %d %v", resp.StatusCode, body)
	}
}

func TestPasswordReset_EndToEnd(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.signup(t, "reset@example.com", "Resetter")
	env.verify(t, "reset@example.com")

	resp, body := env.do(t, http.MethodPost, "/auth/request-password-reset",
		`{"email":"ghost@example.com"}`)
	if resp.StatusCode != http.StatusNotFound || errorCode(t, body) != "not_found" {
		t.Fatalf("expected 404 not_found, got %d %v", resp.StatusCode, body)
	}

	// A malformed address reads the same as an unknown one.
	resp, body = env.do(t, http.MethodPost, "/auth/request-password-reset",
		`{"email":"not-an-email"}`)
	if resp.StatusCode != http.StatusNotFound || errorCode(t, body) != "not_found" {
		t.Fatalf("expected 404 for malformed email, got %d %v", resp.StatusCode, body)
	}

	resp, _ = env.do(t, http.MethodPost, "/auth/request-password-reset",
		`{"email":"reset@example.com"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	mail := env.mailer.sent[len(env.mailer.sent)-1]
	if mail.Subject != notify.SubjectPasswordReset {
		t.Fatalf("expected reset mail, got %q", mail.Subject)
	}
	const marker = "?token="
	i := strings.Index(mail.HTMLBody, marker)
	if i < 0 {
		t.Fatalf("expected token link in mail body")
	}
	tokenValue := mail.HTMLBody[i+len(marker):]
	if j := strings.IndexByte(tokenValue, '"'); j >= 0 {
		tokenValue = tokenValue[:j]
	}

	resp, body = env.do(t, http.MethodPatch, "/auth/reset-password",
		`{"token":"`+tokenValue+`","new_password":"weak"}`)
	if resp.StatusCode != http.StatusBadRequest || errorCode(t, body) != "validation_failure" {
		t.Fatalf("expected 400 validation_failure, got %d %v", resp.StatusCode, body)
	}

	resp, _ = env.do(t, http.MethodPatch, "/auth/reset-password",
		`{"token":"`+tokenValue+`","new_password":"NewSecret1"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	// Consumed token is rejected.
	resp, body = env.do(t, http.MethodPatch, "/auth/reset-password",
		`{"token":"`+tokenValue+`","new_password":"OtherSecret2"}`)
	if resp.StatusCode != http.StatusBadRequest || errorCode(t, body) != "invalid_or_expired_token" {
		t.Fatalf("expected 400 invalid_or_expired_token, got %d %v", resp.StatusCode, body)
	}

	// New password logs in, old one does not.
	resp, _ = env.do(t, http.MethodPost, "/auth/login",
		`{"email":"reset@example.com","password":"NewSecret1"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with new password, got %d", resp.StatusCode)
	}
	resp, _ = env.do(t, http.MethodPost, "/auth/login",
		`{"email":"reset@example.com","password":"Password1"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with old password, got %d", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	for _, path := range []string{
		"/auth/signup", "/auth/login", "/auth/refresh",
		"/auth/verify", "/auth/resend", "/auth/request-password-reset",
	} {
		req, err := http.NewRequest(http.MethodGet, env.srv.URL+path, nil)
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		resp, err := env.srv.Client().Do(req)
		if err != nil {
			t.Fatalf("do: %v", err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Fatalf("%s: expected 405, got %d", path, resp.StatusCode)
		}
	}

	// reset-password is PATCH-only.
	req, err := http.NewRequest(http.MethodPost, env.srv.URL+"/auth/reset-password", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := env.srv.Client().Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for POST reset-password, got %d", resp.StatusCode)
	}
}
