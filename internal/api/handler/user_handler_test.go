package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/youcode/ebanking-api/internal/core/domain"
	"github.com/youcode/ebanking-api/internal/core/ports"
)

type stubUserService struct {
	registerFn       func(ctx context.Context, input ports.RegisterInput) (*ports.UserResult, error)
	loginFn          func(ctx context.Context, username, password string) (string, *ports.UserResult, error)
	changePasswordFn func(ctx context.Context, username, current, new string) error
	changeRoleFn     func(ctx context.Context, username, roleName string) (*ports.UserResult, error)
	listFn           func(ctx context.Context) ([]ports.UserResult, error)
	getFn            func(ctx context.Context, username string) (*ports.UserResult, error)
	deleteFn         func(ctx context.Context, username string) error
}

func (s *stubUserService) Register(ctx context.Context, input ports.RegisterInput) (*ports.UserResult, error) {
	return s.registerFn(ctx, input)
}

func (s *stubUserService) Login(ctx context.Context, username, password string) (string, *ports.UserResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubUserService) ChangePassword(ctx context.Context, username, current, new string) error {
	return s.changePasswordFn(ctx, username, current, new)
}

func (s *stubUserService) ChangeRole(ctx context.Context, username, roleName string) (*ports.UserResult, error) {
	return s.changeRoleFn(ctx, username, roleName)
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]ports.UserResult, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) GetUser(ctx context.Context, username string) (*ports.UserResult, error) {
	return s.getFn(ctx, username)
}

func (s *stubUserService) DeleteUser(ctx context.Context, username string) error {
	return s.deleteFn(ctx, username)
}

type stubAuditService struct {
	recentFn func(ctx context.Context, actor string, limit int64) ([]domain.AuditEvent, error)
}

func (s *stubAuditService) Process(_ context.Context, _ domain.AuditEvent) error { return nil }

func (s *stubAuditService) RecentByActor(ctx context.Context, actor string, limit int64) ([]domain.AuditEvent, error) {
	return s.recentFn(ctx, actor, limit)
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func aliceResult() *ports.UserResult {
	return &ports.UserResult{
		ID:       "1",
		Username: "alice",
		Email:    "alice@example.com",
		Role:     ports.RoleResult{Name: domain.RoleUser},
		Enabled:  true,
	}
}

func TestUserHandler_Register_Success(t *testing.T) {
	stub := &stubUserService{
		registerFn: func(_ context.Context, input ports.RegisterInput) (*ports.UserResult, error) {
			if input.Username != "alice" || input.Email != "alice@example.com" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return aliceResult(), nil
		},
	}
	h := NewUserHandler(stub, &stubAuditService{})

	c, rec := newTestContext(t, http.MethodPost, "/api/users/register",
		`{"username":"alice","email":"alice@example.com","password":"secret1"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["username"] != "alice" || resp["enabled"] != true {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	role, ok := resp["role"].(map[string]any)
	if !ok || role["name"] != domain.RoleUser {
		t.Fatalf("unexpected role payload: %+v", resp["role"])
	}
	if _, leaked := resp["password"]; leaked {
		t.Fatalf("password leaked in response")
	}
}

func TestUserHandler_Register_Duplicate(t *testing.T) {
	stub := &stubUserService{
		registerFn: func(_ context.Context, _ ports.RegisterInput) (*ports.UserResult, error) {
			return nil, domain.ErrUserExists
		},
	}
	h := NewUserHandler(stub, &stubAuditService{})

	c, rec := newTestContext(t, http.MethodPost, "/api/users/register",
		`{"username":"bob","email":"bob@example.com","password":"secret1"}`)

	_ = h.Register(c)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != http.StatusConflict || resp.Message == "" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}

func TestUserHandler_Register_ValidationMessages(t *testing.T) {
	stub := &stubUserService{
		registerFn: func(_ context.Context, _ ports.RegisterInput) (*ports.UserResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewUserHandler(stub, &stubAuditService{})

	c, rec := newTestContext(t, http.MethodPost, "/api/users/register",
		`{"username":"al","email":"not-an-email","password":""}`)

	_ = h.Register(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var msgs []string
	if err := json.Unmarshal(rec.Body.Bytes(), &msgs); err != nil {
		t.Fatalf("expected message list, got %s", rec.Body.String())
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 field messages, got %v", msgs)
	}
}

func TestUserHandler_Login_Success(t *testing.T) {
	stub := &stubUserService{
		loginFn: func(_ context.Context, username, password string) (string, *ports.UserResult, error) {
			if username != "alice" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return "token123", aliceResult(), nil
		},
	}
	h := NewUserHandler(stub, &stubAuditService{})

	c, rec := newTestContext(t, http.MethodPost, "/api/users/login",
		`{"username":"alice","password":"secret1"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	if msg, _ := resp["message"].(string); !strings.Contains(msg, "alice") {
		t.Fatalf("expected confirmation message, got %v", resp["message"])
	}
}

func TestUserHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubUserService{
		loginFn: func(_ context.Context, _, _ string) (string, *ports.UserResult, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := NewUserHandler(stub, &stubAuditService{})

	c, rec := newTestContext(t, http.MethodPost, "/api/users/login",
		`{"username":"alice","password":"bad"}`)

	_ = h.Login(c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestUserHandler_Login_Throttled(t *testing.T) {
	stub := &stubUserService{
		loginFn: func(_ context.Context, _, _ string) (string, *ports.UserResult, error) {
			return "", nil, domain.ErrTooManyAttempts
		},
	}
	h := NewUserHandler(stub, &stubAuditService{})

	c, rec := newTestContext(t, http.MethodPost, "/api/users/login",
		`{"username":"alice","password":"secret1"}`)

	_ = h.Login(c)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestUserHandler_ChangePassword_SamePassword(t *testing.T) {
	stub := &stubUserService{
		changePasswordFn: func(_ context.Context, username, current, new string) error {
			if username != "alice" {
				t.Fatalf("expected caller identity from claims, got %s", username)
			}
			return domain.ErrSamePassword
		},
	}
	h := NewUserHandler(stub, &stubAuditService{})

	c, rec := newTestContext(t, http.MethodPost, "/api/users/changePassword",
		`{"currentPassword":"secret1","newPassword":"secret1"}`)
	c.Set("username", "alice")

	_ = h.ChangePassword(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUserHandler_ChangePassword_MissingClaims(t *testing.T) {
	stub := &stubUserService{
		changePasswordFn: func(_ context.Context, _, _, _ string) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	h := NewUserHandler(stub, &stubAuditService{})

	c, rec := newTestContext(t, http.MethodPost, "/api/users/changePassword",
		`{"currentPassword":"secret1","newPassword":"secret2"}`)

	if err := h.ChangePassword(c); err != nil {
		c.Echo().HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestUserHandler_UpdateRole_Success(t *testing.T) {
	stub := &stubUserService{
		changeRoleFn: func(_ context.Context, username, roleName string) (*ports.UserResult, error) {
			if username != "alice" || roleName != domain.RoleAdmin {
				t.Fatalf("unexpected args: %s %s", username, roleName)
			}
			out := aliceResult()
			out.Role = ports.RoleResult{Name: domain.RoleAdmin}
			return out, nil
		},
	}
	h := NewUserHandler(stub, &stubAuditService{})

	c, rec := newTestContext(t, http.MethodPut, "/api/users/alice/role",
		`{"username":"alice","roleName":"ROLE_ADMIN"}`)
	c.SetParamNames("username")
	c.SetParamValues("alice")

	if err := h.UpdateRole(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	role, _ := resp["role"].(map[string]any)
	if role["name"] != domain.RoleAdmin {
		t.Fatalf("unexpected role: %+v", resp["role"])
	}
}

func TestUserHandler_UpdateRole_UnknownRoleName(t *testing.T) {
	stub := &stubUserService{
		changeRoleFn: func(_ context.Context, _, _ string) (*ports.UserResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewUserHandler(stub, &stubAuditService{})

	c, rec := newTestContext(t, http.MethodPut, "/api/users/alice/role",
		`{"username":"alice","roleName":"ROLE_ROOT"}`)
	c.SetParamNames("username")
	c.SetParamValues("alice")

	_ = h.UpdateRole(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	stub := &stubUserService{
		getFn: func(_ context.Context, _ string) (*ports.UserResult, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	h := NewUserHandler(stub, &stubAuditService{})

	c, rec := newTestContext(t, http.MethodGet, "/api/users/ghost", "")
	c.SetParamNames("username")
	c.SetParamValues("ghost")

	_ = h.Get(c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	deleted := ""
	stub := &stubUserService{
		deleteFn: func(_ context.Context, username string) error {
			deleted = username
			return nil
		},
	}
	h := NewUserHandler(stub, &stubAuditService{})

	c, rec := newTestContext(t, http.MethodDelete, "/api/users/alice", "")
	c.SetParamNames("username")
	c.SetParamValues("alice")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if deleted != "alice" {
		t.Fatalf("expected delete of alice, got %q", deleted)
	}
}

func TestUserHandler_List(t *testing.T) {
	stub := &stubUserService{
		listFn: func(_ context.Context) ([]ports.UserResult, error) {
			return []ports.UserResult{*aliceResult()}, nil
		},
	}
	h := NewUserHandler(stub, &stubAuditService{})

	c, rec := newTestContext(t, http.MethodGet, "/api/users", "")

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0]["username"] != "alice" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUserHandler_Audit(t *testing.T) {
	stub := &stubAuditService{
		recentFn: func(_ context.Context, actor string, _ int64) ([]domain.AuditEvent, error) {
			if actor != "alice" {
				t.Fatalf("unexpected actor: %s", actor)
			}
			return []domain.AuditEvent{{Actor: "alice", Action: domain.AuditLoginSucceeded}}, nil
		},
	}
	h := NewUserHandler(&stubUserService{}, stub)

	c, rec := newTestContext(t, http.MethodGet, "/api/users/alice/audit", "")
	c.SetParamNames("username")
	c.SetParamValues("alice")

	if err := h.Audit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp) != 1 || resp[0]["action"] != domain.AuditLoginSucceeded {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}
