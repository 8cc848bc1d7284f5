package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	shopAuth "github.com/MrEthical07/shopAuth"
	"github.com/MrEthical07/shopAuth/mail"
	"github.com/MrEthical07/shopAuth/store/postgres"
	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/gomail.v2"
)

var buyerColumns = []string{"id", "name", "email", "password", "created_at", "updated_at"}

type captureDialer struct {
	sent []*gomail.Message
}

func (d *captureDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return nil
}

type testServer struct {
	mock   pgxmock.PgxPoolIface
	dialer *captureDialer
	mux    *http.ServeMux
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	dialer := &captureDialer{}
	sender, err := mail.NewSMTPSender(mail.SMTPConfig{From: "no-reply@shop.test"}, mail.WithDialer(dialer))
	require.NoError(t, err)

	cfg := shopAuth.DefaultConfig()
	cfg.JWT.AccessSecret = []byte(strings.Repeat("a", 32))
	cfg.JWT.RefreshSecret = []byte(strings.Repeat("r", 32))
	cfg.Password.BcryptCost = bcrypt.MinCost

	engine, err := shopAuth.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithAccountStore(postgres.New(mock)).
		WithSender(sender).
		Build()
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	return &testServer{mock: mock, dialer: dialer, mux: newRouter(engine)}
}

func (s *testServer) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestUserRegistrationSendsCode(t *testing.T) {
	s := newTestServer(t)

	s.mock.ExpectQuery("FROM users").
		WithArgs("alice@x.com").
		WillReturnError(pgx.ErrNoRows)

	rec := s.do(t, http.MethodPost, "/api/user-registration", map[string]string{
		"name": "Alice", "email": "alice@x.com", "password": "Pw1!aaaa",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "OTP sent to your email(alice@x.com). Please verify your account.", decodeBody(t, rec)["message"])
	require.Len(t, s.dialer.sent, 1)
	assert.Equal(t, []string{"alice@x.com"}, s.dialer.sent[0].GetHeader("To"))
	require.NoError(t, s.mock.ExpectationsWereMet())

	// Second request inside the cooldown window.
	s.mock.ExpectQuery("FROM users").
		WithArgs("alice@x.com").
		WillReturnError(pgx.ErrNoRows)
	rec = s.do(t, http.MethodPost, "/api/user-registration", map[string]string{
		"name": "Alice", "email": "alice@x.com", "password": "Pw1!aaaa",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please wait 1 minute before requesting a new OTP!", decodeBody(t, rec)["message"])
}

func TestRegistrationRejectsBadBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/seller-registration", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body!", decodeBody(t, rec)["message"])
}

func TestLoginAndRoleGate(t *testing.T) {
	s := newTestServer(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("Pw1!aaaa"), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now()

	s.mock.ExpectQuery("FROM users").
		WithArgs("alice@x.com").
		WillReturnRows(pgxmock.NewRows(buyerColumns).AddRow("u1", "Alice", "alice@x.com", string(hash), now, now))

	rec := s.do(t, http.MethodPost, "/api/user-login", map[string]string{"email": "alice@x.com", "password": "Pw1!aaaa"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "Login Successful!", body["message"])
	assert.Equal(t, "u1", body["user"].(map[string]any)["id"])

	var access *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == shopAuth.UserAccessCookie {
			access = c
		}
	}
	require.NotNil(t, access)

	s.mock.ExpectQuery("FROM users").
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows(buyerColumns).AddRow("u1", "Alice", "alice@x.com", string(hash), now, now))
	rec = s.do(t, http.MethodGet, "/api/user-logged-in", nil, access)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	user := decodeBody(t, rec)["user"].(map[string]any)
	assert.Equal(t, "alice@x.com", user["email"])
	assert.NotContains(t, user, "PasswordHash")

	s.mock.ExpectQuery("FROM users").
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows(buyerColumns).AddRow("u1", "Alice", "alice@x.com", string(hash), now, now))
	rec = s.do(t, http.MethodGet, "/api/seller-logged-in", nil, access)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access denied. Seller role required.", decodeBody(t, rec)["message"])

	require.NoError(t, s.mock.ExpectationsWereMet())
}

func TestLoggedInRequiresToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/user-logged-in", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized! Token missing.", decodeBody(t, rec)["message"])
}

func TestDatabaseErrorsAreHidden(t *testing.T) {
	s := newTestServer(t)

	s.mock.ExpectQuery("FROM sellers").
		WithArgs("bob@shop.com").
		WillReturnError(assert.AnError)

	rec := s.do(t, http.MethodPost, "/api/seller-login", map[string]string{"email": "bob@shop.com", "password": "Pw1!bbbb"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decodeBody(t, rec)["message"])
}

func TestLogoutExpiresCookies(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/seller-logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	names := map[string]bool{}
	for _, c := range rec.Result().Cookies() {
		assert.True(t, c.MaxAge < 0, c.Name)
		names[c.Name] = true
	}
	assert.True(t, names[shopAuth.SellerAccessCookie])
	assert.True(t, names[shopAuth.SellerRefreshCookie])
}

func TestRefreshWithoutCookie(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/refresh-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized! No refresh token provided.", decodeBody(t, rec)["message"])
}
