package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	repo, err := NewFileRepo(t.TempDir())
	assert.NoError(t, err)
	return NewService(repo, log.New(io.Discard), ServiceOptions{
		CodeTTL:     10 * time.Minute,
		SessionTTL:  time.Hour,
		MaxAttempts: 3,
	})
}

func TestLogin_HappyPath(t *testing.T) {
	svc := newTestService(t)
	now := time.Now()

	expires, code, err := svc.RequestCode("Alice@Example.com", now)
	assert.NoError(t, err)
	assert.Len(t, code, 6)
	assert.True(t, expires.After(now))

	u, token, exp, err := svc.VerifyCode("alice@example.com", code, now)
	assert.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEmpty(t, token)
	assert.True(t, exp.After(now))

	req := httptest.NewRequest(http.MethodGet, "/api/receits", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	gotU, sess, ok := svc.AuthenticateRequest(req, now)
	assert.True(t, ok)
	assert.Equal(t, u.ID, gotU.ID)
	assert.Equal(t, u.ID, sess.UserID)
}

func TestLogin_CodeIsSingleUse(t *testing.T) {
	svc := newTestService(t)
	now := time.Now()

	_, code, err := svc.RequestCode("alice@example.com", now)
	assert.NoError(t, err)

	_, _, _, err = svc.VerifyCode("alice@example.com", code, now)
	assert.NoError(t, err)

	_, _, _, err = svc.VerifyCode("alice@example.com", code, now)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestLogin_ExpiredCode(t *testing.T) {
	svc := newTestService(t)
	now := time.Now()

	_, code, err := svc.RequestCode("alice@example.com", now)
	assert.NoError(t, err)

	_, _, _, err = svc.VerifyCode("alice@example.com", code, now.Add(11*time.Minute))
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestLogin_AttemptsAreLimited(t *testing.T) {
	svc := newTestService(t)
	now := time.Now()

	_, code, err := svc.RequestCode("alice@example.com", now)
	assert.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	_, _, _, err = svc.VerifyCode("alice@example.com", wrong, now)
	assert.ErrorIs(t, err, ErrInvalidCode)
	_, _, _, err = svc.VerifyCode("alice@example.com", wrong, now)
	assert.ErrorIs(t, err, ErrInvalidCode)
	_, _, _, err = svc.VerifyCode("alice@example.com", wrong, now)
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	// The real code is burned along with the throttled entry.
	_, _, _, err = svc.VerifyCode("alice@example.com", code, now)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestLogin_RejectsMalformedInput(t *testing.T) {
	svc := newTestService(t)
	now := time.Now()

	_, _, err := svc.RequestCode("not an email", now)
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, _, _, err = svc.VerifyCode("alice@example.com", "12345", now)
	assert.ErrorIs(t, err, ErrBadCodeFormat)
	_, _, _, err = svc.VerifyCode("alice@example.com", "12345a", now)
	assert.ErrorIs(t, err, ErrBadCodeFormat)
}

func TestLogin_SameEmailSameUser(t *testing.T) {
	svc := newTestService(t)
	now := time.Now()

	_, code, _ := svc.RequestCode("alice@example.com", now)
	u1, _, _, err := svc.VerifyCode("alice@example.com", code, now)
	assert.NoError(t, err)

	_, code, _ = svc.RequestCode("alice@example.com", now)
	u2, _, _, err := svc.VerifyCode("alice@example.com", code, now)
	assert.NoError(t, err)

	assert.Equal(t, u1.ID, u2.ID)
}

func TestSession_ExpiryAndRevocation(t *testing.T) {
	svc := newTestService(t)
	now := time.Now()

	_, code, _ := svc.RequestCode("alice@example.com", now)
	_, token, _, err := svc.VerifyCode("alice@example.com", code, now)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})

	_, _, ok := svc.AuthenticateRequest(req, now.Add(2*time.Hour))
	assert.False(t, ok, "session past its TTL must not authenticate")

	_, code, _ = svc.RequestCode("alice@example.com", now)
	_, token, _, _ = svc.VerifyCode("alice@example.com", code, now)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})

	_, _, ok = svc.AuthenticateRequest(req, now)
	assert.True(t, ok)
	svc.RevokeSessionForRequest(req)
	_, _, ok = svc.AuthenticateRequest(req, now)
	assert.False(t, ok)
}

func TestRequireAPI_BlocksAnonymous(t *testing.T) {
	svc := newTestService(t)

	var sawUser bool
	h := svc.RequireAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawUser = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/api/receits", nil))
	assert.Equal(t, http.StatusUnauthorized, rw.Code)
	assert.False(t, sawUser)

	now := time.Now()
	_, code, _ := svc.RequestCode("alice@example.com", now)
	_, token, _, err := svc.VerifyCode("alice@example.com", code, now)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/receits", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	rw = httptest.NewRecorder()
	h.ServeHTTP(rw, req)
	assert.Equal(t, http.StatusOK, rw.Code)
	assert.True(t, sawUser)
}
