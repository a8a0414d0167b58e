package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Pravin1821/Secure-Online-Transaction-System/internal/apperrors"
	"github.com/Pravin1821/Secure-Online-Transaction-System/internal/cqrs"
	"github.com/Pravin1821/Secure-Online-Transaction-System/internal/middleware"
	"github.com/Pravin1821/Secure-Online-Transaction-System/internal/models"
	"github.com/gin-gonic/gin"
)

// ---- mock implementations ----

type mockAccountCommander struct {
	registerFn     func(cqrs.RegisterAccountCommand) (*models.AccountView, error)
	updateFn       func(cqrs.UpdateAccountCommand) (*models.AccountView, error)
	deleteFn       func(cqrs.DeleteAccountCommand) error
	updateRolesFn  func(cqrs.UpdateRolesCommand) (*models.AccountView, error)
	updateStatusFn func(cqrs.UpdateStatusCommand) (*models.AccountView, error)
}

func (m *mockAccountCommander) Register(cmd cqrs.RegisterAccountCommand) (*models.AccountView, error) {
	if m.registerFn != nil {
		return m.registerFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockAccountCommander) Update(cmd cqrs.UpdateAccountCommand) (*models.AccountView, error) {
	if m.updateFn != nil {
		return m.updateFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockAccountCommander) Delete(cmd cqrs.DeleteAccountCommand) error {
	if m.deleteFn != nil {
		return m.deleteFn(cmd)
	}
	return fmt.Errorf("not configured")
}
func (m *mockAccountCommander) UpdateRoles(cmd cqrs.UpdateRolesCommand) (*models.AccountView, error) {
	if m.updateRolesFn != nil {
		return m.updateRolesFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockAccountCommander) UpdateStatus(cmd cqrs.UpdateStatusCommand) (*models.AccountView, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}

type mockAccountQuerier struct {
	listFn func() ([]models.AccountView, error)
	getFn  func(cqrs.GetAccountQuery) (*models.AccountView, error)
}

func (m *mockAccountQuerier) ListAccounts() ([]models.AccountView, error) {
	if m.listFn != nil {
		return m.listFn()
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockAccountQuerier) GetAccount(q cqrs.GetAccountQuery) (*models.AccountView, error) {
	if m.getFn != nil {
		return m.getFn(q)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

func fakeAuth(userName string, authorities []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("username", userName)
		c.Set("authorities", authorities)
		c.Next()
	}
}

func newAccountTestRouter(cmds AccountCommander, qrys AccountQuerier, authUser string, authorities []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAccountHandler(cmds, qrys)
	auth := r.Group("/auth")
	auth.GET("", h.ListAccounts)
	auth.GET("/:username", h.GetAccount)
	auth.POST("/register", h.Register)
	auth.PUT("/update/:username", fakeAuth(authUser, authorities), h.UpdateAccount)
	auth.DELETE("/delete/:username", fakeAuth(authUser, authorities), h.DeleteAccount)
	api := r.Group("/api/users", fakeAuth(authUser, authorities))
	api.PATCH("/:username/roles", middleware.RequireAuthority("ROLE_ADMIN"), h.UpdateRoles)
	api.PATCH("/:username/status", middleware.RequireAuthority("ROLE_ADMIN"), h.UpdateStatus)
	return r
}

func doRequest(router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, url, strings.NewReader(string(b)))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ---- test data ----

var testView = &models.AccountView{
	ID: "9f2d6a1e-0b5c-4f4a-9f74-6d9d1d2f3a4b", FullName: "Alice Smith",
	UserName: "alice", Email: "alice@example.com",
	MobileNumber: "9876543210", Address: "42 High Street",
	CreatedAt: time.Now(), UpdatedAt: time.Now(),
}

func validRegisterBody() map[string]interface{} {
	return map[string]interface{}{
		"fullName": "Alice Smith", "userName": "alice",
		"email": "alice@example.com", "mobileNumber": "9876543210",
		"password": "secret12345", "confirmPassword": "secret12345",
		"address": "42 High Street", "securityQuestion": "first pet",
	}
}

func validUpdateBody() map[string]interface{} {
	return map[string]interface{}{
		"fullName": "Alice Updated", "email": "alice@example.com",
		"mobileNumber": "9876543210", "address": "7 New Road",
		"securityQuestion": "first pet",
	}
}

// ---- tests ----

func TestRegisterHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		registerFn     func(cqrs.RegisterAccountCommand) (*models.AccountView, error)
		expectedStatus int
	}{
		{
			name: "success - creates new account",
			body: validRegisterBody(),
			registerFn: func(cmd cqrs.RegisterAccountCommand) (*models.AccountView, error) {
				return testView, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "bad request - missing required fields",
			body:           map[string]interface{}{"userName": "alice"},
			registerFn:     nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "bad request - invalid email format",
			body: func() map[string]interface{} {
				b := validRegisterBody()
				b["email"] = "not-valid"
				return b
			}(),
			registerFn:     nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "bad request - password confirmation mismatch",
			body: validRegisterBody(),
			registerFn: func(cmd cqrs.RegisterAccountCommand) (*models.AccountView, error) {
				return nil, fmt.Errorf("passwords do not match: %w", apperrors.ErrValidation)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "conflict - username already taken",
			body: validRegisterBody(),
			registerFn: func(cmd cqrs.RegisterAccountCommand) (*models.AccountView, error) {
				return nil, fmt.Errorf("username is already taken: %w", apperrors.ErrConflict)
			},
			expectedStatus: http.StatusConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockAccountCommander{registerFn: tt.registerFn}
			router := newAccountTestRouter(cmds, &mockAccountQuerier{}, "", nil)
			w := doRequest(router, http.MethodPost, "/auth/register", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestListAccountsHandler(t *testing.T) {
	qrys := &mockAccountQuerier{listFn: func() ([]models.AccountView, error) {
		return []models.AccountView{*testView}, nil
	}}
	router := newAccountTestRouter(&mockAccountCommander{}, qrys, "", nil)
	w := doRequest(router, http.MethodGet, "/auth", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d; body: %s", w.Code, w.Body.String())
	}

	var views []models.AccountView
	if err := json.Unmarshal(w.Body.Bytes(), &views); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(views) != 1 || views[0].UserName != "alice" {
		t.Errorf("unexpected views: %+v", views)
	}
	if strings.Contains(w.Body.String(), "passwordHash") {
		t.Errorf("response leaks password hash: %s", w.Body.String())
	}
}

func TestGetAccountHandler(t *testing.T) {
	tests := []struct {
		name           string
		urlUser        string
		getFn          func(cqrs.GetAccountQuery) (*models.AccountView, error)
		expectedStatus int
	}{
		{
			name:    "success - fetch single sanitized view",
			urlUser: "alice",
			getFn: func(q cqrs.GetAccountQuery) (*models.AccountView, error) {
				if q.UserName != "alice" {
					return nil, fmt.Errorf("unexpected username %s", q.UserName)
				}
				return testView, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "not found - unknown username",
			urlUser: "ghost",
			getFn: func(q cqrs.GetAccountQuery) (*models.AccountView, error) {
				return nil, fmt.Errorf("account %s: %w", q.UserName, apperrors.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qrys := &mockAccountQuerier{getFn: tt.getFn}
			router := newAccountTestRouter(&mockAccountCommander{}, qrys, "", nil)
			w := doRequest(router, http.MethodGet, "/auth/"+tt.urlUser, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedStatus == http.StatusOK && strings.Contains(w.Body.String(), "passwordHash") {
				t.Errorf("[%s] response leaks password hash: %s", tt.name, w.Body.String())
			}
		})
	}
}

func TestUpdateAccountHandler(t *testing.T) {
	tests := []struct {
		name           string
		urlUser        string
		authUser       string
		authorities    []string
		body           interface{}
		updateFn       func(cqrs.UpdateAccountCommand) (*models.AccountView, error)
		expectedStatus int
	}{
		{
			name: "success - update own account",
			urlUser: "alice", authUser: "alice",
			body: validUpdateBody(),
			updateFn: func(cmd cqrs.UpdateAccountCommand) (*models.AccountView, error) {
				return testView, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "forbidden - update another user's account",
			urlUser: "bob", authUser: "alice",
			body:           validUpdateBody(),
			updateFn:       nil,
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "success - admin updates another user's account",
			urlUser: "bob", authUser: "alice", authorities: []string{"ROLE_ADMIN"},
			body: validUpdateBody(),
			updateFn: func(cmd cqrs.UpdateAccountCommand) (*models.AccountView, error) {
				return testView, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "not found - account does not exist",
			urlUser: "ghost", authUser: "ghost",
			body: validUpdateBody(),
			updateFn: func(cmd cqrs.UpdateAccountCommand) (*models.AccountView, error) {
				return nil, fmt.Errorf("account ghost: %w", apperrors.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "bad request - missing required fields",
			urlUser: "alice", authUser: "alice",
			body:           map[string]interface{}{},
			updateFn:       nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockAccountCommander{updateFn: tt.updateFn}
			router := newAccountTestRouter(cmds, &mockAccountQuerier{}, tt.authUser, tt.authorities)
			w := doRequest(router, http.MethodPut, "/auth/update/"+tt.urlUser, tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestDeleteAccountHandler(t *testing.T) {
	tests := []struct {
		name           string
		urlUser        string
		authUser       string
		authorities    []string
		deleteFn       func(cqrs.DeleteAccountCommand) error
		expectedStatus int
	}{
		{
			name: "success - delete own account",
			urlUser: "alice", authUser: "alice",
			deleteFn:       func(cmd cqrs.DeleteAccountCommand) error { return nil },
			expectedStatus: http.StatusOK,
		},
		{
			name: "forbidden - delete another user's account",
			urlUser: "bob", authUser: "alice",
			deleteFn:       nil,
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "not found - account does not exist",
			urlUser: "ghost", authUser: "ghost",
			deleteFn: func(cmd cqrs.DeleteAccountCommand) error {
				return fmt.Errorf("account ghost: %w", apperrors.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockAccountCommander{deleteFn: tt.deleteFn}
			router := newAccountTestRouter(cmds, &mockAccountQuerier{}, tt.authUser, tt.authorities)
			w := doRequest(router, http.MethodDelete, "/auth/delete/"+tt.urlUser, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedStatus == http.StatusOK && !strings.Contains(w.Body.String(), "deleted") {
				t.Errorf("[%s] expected confirmation text, got: %s", tt.name, w.Body.String())
			}
		})
	}
}

func TestUpdateRolesHandler(t *testing.T) {
	tests := []struct {
		name           string
		authorities    []string
		body           interface{}
		updateRolesFn  func(cqrs.UpdateRolesCommand) (*models.AccountView, error)
		expectedStatus int
	}{
		{
			name:        "success - admin grants moderator",
			authorities: []string{"ROLE_ADMIN"},
			body:        map[string]interface{}{"roles": []string{"USER", "MODERATOR"}},
			updateRolesFn: func(cmd cqrs.UpdateRolesCommand) (*models.AccountView, error) {
				return testView, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "forbidden - non-admin caller",
			authorities:    []string{"ROLE_USER"},
			body:           map[string]interface{}{"roles": []string{"ADMIN"}},
			updateRolesFn:  nil,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "bad request - unknown role",
			authorities:    []string{"ROLE_ADMIN"},
			body:           map[string]interface{}{"roles": []string{"SUPERUSER"}},
			updateRolesFn:  nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockAccountCommander{updateRolesFn: tt.updateRolesFn}
			router := newAccountTestRouter(cmds, &mockAccountQuerier{}, "admin", tt.authorities)
			w := doRequest(router, http.MethodPatch, "/api/users/bob/roles", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestUpdateStatusHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		updateStatusFn func(cqrs.UpdateStatusCommand) (*models.AccountView, error)
		expectedStatus int
	}{
		{
			name: "success - disable account",
			body: map[string]interface{}{"enabled": false},
			updateStatusFn: func(cmd cqrs.UpdateStatusCommand) (*models.AccountView, error) {
				if cmd.Enabled {
					return nil, fmt.Errorf("expected enabled=false")
				}
				return testView, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "bad request - missing enabled flag",
			body:           map[string]interface{}{},
			updateStatusFn: nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockAccountCommander{updateStatusFn: tt.updateStatusFn}
			router := newAccountTestRouter(cmds, &mockAccountQuerier{}, "admin", []string{"ROLE_ADMIN"})
			w := doRequest(router, http.MethodPatch, "/api/users/bob/status", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}
