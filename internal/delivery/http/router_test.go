package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"SchoolAPI/internal/app_errors"
	"SchoolAPI/internal/models"
	"SchoolAPI/internal/service"
	"SchoolAPI/internal/service/auth"
)

const (
	testSecret   = "router-test-secret"
	testIssuer   = "SchoolAPI"
	testAudience = "SchoolAPIClient"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type nopLog struct{}

func (nopLog) Debug(string, ...interface{})           {}
func (nopLog) Info(string, ...interface{})            {}
func (nopLog) Warn(string, ...interface{})            {}
func (nopLog) Error(string, ...interface{})           {}
func (nopLog) ErrorErr(string, error, ...interface{}) {}
func (nopLog) Fatal(string, ...interface{})           {}
func (nopLog) FatalErr(string, error, ...interface{}) {}

type memAccountRepo struct {
	users map[uuid.UUID]*models.User
}

func (f *memAccountRepo) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, app_errors.ErrUserExists
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	stored := user
	f.users[user.ID] = &stored
	return &stored, nil
}

func (f *memAccountRepo) UserByName(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, app_errors.ErrUserNotFound
}

func (f *memAccountRepo) UserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, app_errors.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *memAccountRepo) Users(_ context.Context, limit, offset int) ([]models.User, error) {
	all := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

type memRolesRepo struct {
	roles   []models.Role
	assigns map[uuid.UUID]map[int]struct{}
}

func (f *memRolesRepo) CreateRole(_ context.Context, name string) (*models.Role, error) {
	for _, r := range f.roles {
		if r.Name == name {
			return nil, app_errors.ErrRoleExists
		}
	}
	role := models.Role{ID: len(f.roles) + 1, Name: name}
	f.roles = append(f.roles, role)
	return &role, nil
}

func (f *memRolesRepo) RoleByName(_ context.Context, name string) (*models.Role, error) {
	for _, r := range f.roles {
		if r.Name == name {
			role := r
			return &role, nil
		}
	}
	return nil, app_errors.ErrRoleNotFound
}

func (f *memRolesRepo) RolesByUserID(_ context.Context, userID uuid.UUID) ([]string, error) {
	names := make([]string, 0)
	for _, r := range f.roles {
		if _, ok := f.assigns[userID][r.ID]; ok {
			names = append(names, r.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (f *memRolesRepo) AssignRole(_ context.Context, userID uuid.UUID, roleID int) error {
	if _, ok := f.assigns[userID][roleID]; ok {
		return app_errors.ErrRoleAlreadyAssigned
	}
	if f.assigns[userID] == nil {
		f.assigns[userID] = make(map[int]struct{})
	}
	f.assigns[userID][roleID] = struct{}{}
	return nil
}

func (f *memRolesRepo) RevokeRole(_ context.Context, userID uuid.UUID, roleID int) error {
	if _, ok := f.assigns[userID][roleID]; !ok {
		return app_errors.ErrRoleNotAssigned
	}
	delete(f.assigns[userID], roleID)
	return nil
}

type testEnv struct {
	router  *gin.Engine
	service *auth.AccountService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	issuer, err := auth.NewTokenIssuer(testSecret, testIssuer, testAudience, 15*time.Minute)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	accounts := &memAccountRepo{users: make(map[uuid.UUID]*models.User)}
	roles := &memRolesRepo{
		roles: []models.Role{
			{ID: 1, Name: models.ReaderRole},
			{ID: 2, Name: models.WriterRole},
			{ID: 3, Name: models.EditorRole},
		},
		assigns: make(map[uuid.UUID]map[int]struct{}),
	}
	svc := auth.NewAccountService(nopLog{}, issuer, accounts, roles)

	return &testEnv{
		router:  InitRoutes(nopLog{}, service.Collection{AccountService: svc}),
		service: svc,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// mustUser registers a user and assigns roles directly through the service,
// then returns the user and a login token.
func (e *testEnv) mustUser(t *testing.T, username, email, password string, roles ...string) (*models.User, string) {
	t.Helper()

	user, err := e.service.Register(context.Background(), username, email, password)
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	for _, role := range roles {
		if err := e.service.AssignRole(context.Background(), user.ID, role); err != nil {
			t.Fatalf("assign %s to %s: %v", role, username, err)
		}
	}

	w := e.do(t, http.MethodPost, "/api/Account/Login", "", gin.H{"username": username, "password": password})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", username, w.Code, w.Body.String())
	}
	var token models.UserToken
	if err := json.Unmarshal(w.Body.Bytes(), &token); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	return user, token.Token
}

func TestStatusIsPublic(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/status", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestRegisterAndConflict(t *testing.T) {
	env := newTestEnv(t)

	body := gin.H{"username": "alice", "email": "alice@x.com", "password": "pw123"}
	if w := env.do(t, http.MethodPost, "/api/Account/Register", "", body); w.Code != http.StatusOK {
		t.Fatalf("register = %d body %s", w.Code, w.Body.String())
	}
	if w := env.do(t, http.MethodPost, "/api/Account/Register", "", body); w.Code != http.StatusConflict {
		t.Fatalf("duplicate register = %d, want 409", w.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []gin.H{
		{"email": "alice@x.com", "password": "pw123"},
		{"username": "alice", "password": "pw123"},
		{"username": "alice", "email": "not-an-email", "password": "pw123"},
	}
	for _, body := range cases {
		if w := env.do(t, http.MethodPost, "/api/Account/Register", "", body); w.Code != http.StatusBadRequest {
			t.Errorf("register %v = %d, want 400", body, w.Code)
		}
	}
}

func TestLoginBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.mustUser(t, "alice", "alice@x.com", "pw123")

	w := env.do(t, http.MethodPost, "/api/Account/Login", "", gin.H{"username": "alice", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad password = %d, want 401", w.Code)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("token")) {
		t.Error("401 response must not carry a token")
	}

	w = env.do(t, http.MethodPost, "/api/Account/Login", "", gin.H{"username": "nobody", "password": "pw123"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unknown user = %d, want 401", w.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	if w := env.do(t, http.MethodGet, "/api/Users", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token = %d, want 401", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/Users", "garbage", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token = %d, want 401", w.Code)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	env := newTestEnv(t)

	// Correctly signed but already expired.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.AccessTokenClaims{
		Name:  "alice",
		Roles: []string{models.ReaderRole},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			Issuer:    testIssuer,
			Audience:  jwt.ClaimStrings{testAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	signed, err := expired.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	w := env.do(t, http.MethodGet, "/api/Users", signed, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expired token = %d, want 401", w.Code)
	}
}

func TestRoleGate(t *testing.T) {
	env := newTestEnv(t)
	_, readerToken := env.mustUser(t, "reader", "reader@x.com", "pw123", models.ReaderRole)

	// Reader passes the Reader-only route.
	if w := env.do(t, http.MethodGet, "/api/Users", readerToken, nil); w.Code != http.StatusOK {
		t.Fatalf("reader on reader route = %d, want 200", w.Code)
	}

	// Same valid token fails a Writer-only route with 403.
	w := env.do(t, http.MethodPost, "/api/Users/AddRole", readerToken, gin.H{"name": "Tester"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("reader on writer route = %d, want 403", w.Code)
	}
}

func TestRoleManagementFlow(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.mustUser(t, "admin", "admin@admin.com", "admin1",
		models.ReaderRole, models.WriterRole, models.EditorRole)
	alice, _ := env.mustUser(t, "alice", "alice@x.com", "pw123")

	assign := gin.H{"userId": alice.ID.String(), "roleName": models.WriterRole}

	if w := env.do(t, http.MethodPost, "/api/Users/AssignRole", adminToken, assign); w.Code != http.StatusOK {
		t.Fatalf("assign = %d body %s", w.Code, w.Body.String())
	}
	if w := env.do(t, http.MethodPost, "/api/Users/AssignRole", adminToken, assign); w.Code != http.StatusConflict {
		t.Fatalf("second assign = %d, want 409", w.Code)
	}

	unknown := gin.H{"userId": uuid.NewString(), "roleName": models.WriterRole}
	if w := env.do(t, http.MethodPost, "/api/Users/AssignRole", adminToken, unknown); w.Code != http.StatusNotFound {
		t.Fatalf("assign to unknown user = %d, want 404", w.Code)
	}
	ghostRole := gin.H{"userId": alice.ID.String(), "roleName": "Ghost"}
	if w := env.do(t, http.MethodPost, "/api/Users/AssignRole", adminToken, ghostRole); w.Code != http.StatusNotFound {
		t.Fatalf("assign unknown role = %d, want 404", w.Code)
	}

	w := env.do(t, http.MethodGet, "/api/Users/GetRolesByUserId/"+alice.ID.String(), adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("roles by user id = %d", w.Code)
	}
	var resp struct {
		Roles []string `json:"roles"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode roles: %v", err)
	}
	if len(resp.Roles) != 1 || resp.Roles[0] != models.WriterRole {
		t.Fatalf("roles = %v, want [Writer]", resp.Roles)
	}

	w = env.do(t, http.MethodGet, "/api/Users/GetRolesByUserId/"+uuid.NewString(), adminToken, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("roles of unknown user = %d, want 404", w.Code)
	}

	if w := env.do(t, http.MethodDelete, "/api/Users/RemoveRole", adminToken, assign); w.Code != http.StatusOK {
		t.Fatalf("remove = %d body %s", w.Code, w.Body.String())
	}
	if w := env.do(t, http.MethodDelete, "/api/Users/RemoveRole", adminToken, assign); w.Code != http.StatusNotFound {
		t.Fatalf("second remove = %d, want 404", w.Code)
	}
}

// Full scenario: register alice, assign Writer, login, use the token.
func TestWriterScenario(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.mustUser(t, "admin", "admin@admin.com", "admin1",
		models.ReaderRole, models.WriterRole, models.EditorRole)

	body := gin.H{"username": "alice", "email": "alice@x.com", "password": "pw123"}
	if w := env.do(t, http.MethodPost, "/api/Account/Register", "", body); w.Code != http.StatusOK {
		t.Fatalf("register = %d", w.Code)
	}

	// Look the user up to assign the role over the API.
	var aliceID string
	w := env.do(t, http.MethodGet, "/api/Users", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list users = %d", w.Code)
	}
	var users []struct {
		UserID   string `json:"userId"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &users); err != nil {
		t.Fatalf("decode users: %v", err)
	}
	for _, u := range users {
		if u.Username == "alice" {
			aliceID = u.UserID
		}
	}
	if aliceID == "" {
		t.Fatal("alice not in user list")
	}

	assign := gin.H{"userId": aliceID, "roleName": models.WriterRole}
	if w := env.do(t, http.MethodPost, "/api/Users/AssignRole", adminToken, assign); w.Code != http.StatusOK {
		t.Fatalf("assign = %d", w.Code)
	}

	w = env.do(t, http.MethodPost, "/api/Account/Login", "", gin.H{"username": "alice", "password": "pw123"})
	if w.Code != http.StatusOK {
		t.Fatalf("login = %d", w.Code)
	}
	var token models.UserToken
	if err := json.Unmarshal(w.Body.Bytes(), &token); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	if time.Until(token.Expiration) <= 0 {
		t.Error("token already expired at issuance")
	}

	// The token carries exactly the Writer role.
	_, roles, err := env.service.TokenClaims(context.Background(), token.Token)
	if err != nil {
		t.Fatalf("TokenClaims: %v", err)
	}
	if len(roles) != 1 || roles[0] != models.WriterRole {
		t.Fatalf("token roles = %v, want [Writer]", roles)
	}

	// Writer-only route succeeds.
	if w := env.do(t, http.MethodPost, "/api/Users/AddRole", token.Token, gin.H{"name": "Tester"}); w.Code != http.StatusOK {
		t.Fatalf("writer route = %d, want 200", w.Code)
	}

	// Editor-only route fails with 403 for the same token.
	remove := gin.H{"userId": aliceID, "roleName": models.WriterRole}
	if w := env.do(t, http.MethodDelete, "/api/Users/RemoveRole", token.Token, remove); w.Code != http.StatusForbidden {
		t.Fatalf("editor route = %d, want 403", w.Code)
	}
}
