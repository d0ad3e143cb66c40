package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/google/uuid"
)

var (
	ErrInvalidEmail    = errors.New("invalid email")
	ErrBadCodeFormat   = errors.New("login code must be 6 digits")
	ErrInvalidCode     = errors.New("invalid login code")
	ErrCodeExpired     = errors.New("login code expired")
	ErrTooManyAttempts = errors.New("too many invalid login attempts")
)

const sessionCookie = "receit_session"

// Service implements passwordless email login: a short-lived one-time
// code per email, exchanged for a cookie session. Codes and session
// tokens are stored hashed.
type Service struct {
	repo   *FileRepo
	logger *log.Logger

	codeTTL     time.Duration
	sessionTTL  time.Duration
	maxAttempts int
}

type ServiceOptions struct {
	CodeTTL     time.Duration
	SessionTTL  time.Duration
	MaxAttempts int
}

func NewService(repo *FileRepo, logger *log.Logger, opts ServiceOptions) *Service {
	if logger == nil {
		logger = log.Default()
	}
	if opts.CodeTTL <= 0 {
		opts.CodeTTL = 10 * time.Minute
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 7 * 24 * time.Hour
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	return &Service{
		repo:        repo,
		logger:      logger.With("component", "auth"),
		codeTTL:     opts.CodeTTL,
		sessionTTL:  opts.SessionTTL,
		maxAttempts: opts.MaxAttempts,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || strings.ToLower(addr.Address) != email {
		return ErrInvalidEmail
	}
	return nil
}

func validateCodeFormat(code string) error {
	if len(code) != 6 {
		return ErrBadCodeFormat
	}
	for _, ch := range code {
		if ch < '0' || ch > '9' {
			return ErrBadCodeFormat
		}
	}
	return nil
}

func hashCode(email, code string) string {
	sum := sha256.Sum256([]byte(email + ":" + code))
	return hex.EncodeToString(sum[:])
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func generateToken() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b[:]), nil
}

// RequestCode issues a fresh one-time code for the email. The code is
// returned to the caller for delivery; only its hash is stored.
func (s *Service) RequestCode(email string, now time.Time) (time.Time, string, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return time.Time{}, "", err
	}
	code, err := generateCode()
	if err != nil {
		return time.Time{}, "", err
	}
	lc := LoginCode{
		Email:       email,
		CodeHash:    hashCode(email, code),
		ExpiresAt:   now.Add(s.codeTTL),
		RequestedAt: now,
	}
	if err := s.repo.PutLoginCode(lc); err != nil {
		return time.Time{}, "", err
	}
	return lc.ExpiresAt, code, nil
}

// VerifyCode exchanges a valid code for a new session token.
func (s *Service) VerifyCode(email, code string, now time.Time) (User, string, time.Time, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return User{}, "", time.Time{}, err
	}
	if err := validateCodeFormat(code); err != nil {
		return User{}, "", time.Time{}, err
	}

	lc, ok := s.repo.GetLoginCode(email)
	if !ok {
		return User{}, "", time.Time{}, ErrInvalidCode
	}
	if lc.Expired(now) {
		_ = s.repo.DeleteLoginCode(email)
		return User{}, "", time.Time{}, ErrCodeExpired
	}
	if lc.Exhausted(s.maxAttempts) {
		_ = s.repo.DeleteLoginCode(email)
		return User{}, "", time.Time{}, ErrTooManyAttempts
	}
	if hashCode(email, code) != lc.CodeHash {
		lc.Attempts++
		if lc.Exhausted(s.maxAttempts) {
			_ = s.repo.DeleteLoginCode(email)
			return User{}, "", time.Time{}, ErrTooManyAttempts
		}
		_ = s.repo.PutLoginCode(lc)
		return User{}, "", time.Time{}, ErrInvalidCode
	}

	if err := s.repo.DeleteLoginCode(email); err != nil {
		return User{}, "", time.Time{}, err
	}
	u, err := s.repo.GetOrCreateUser(email, now)
	if err != nil {
		return User{}, "", time.Time{}, err
	}
	token, err := generateToken()
	if err != nil {
		return User{}, "", time.Time{}, err
	}

	exp := now.Add(s.sessionTTL)
	sess := Session{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		TokenHash: hashToken(token),
		CreatedAt: now,
		LastSeen:  now,
		ExpiresAt: exp,
	}
	if err := s.repo.CreateSession(sess); err != nil {
		return User{}, "", time.Time{}, err
	}
	return u, token, exp, nil
}

func (s *Service) AuthenticateRequest(r *http.Request, now time.Time) (User, Session, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return User{}, Session{}, false
	}

	sess, ok := s.repo.GetSessionByTokenHash(hashToken(cookie.Value))
	if !ok {
		return User{}, Session{}, false
	}
	if sess.Expired(now) {
		_ = s.repo.DeleteSession(sess.ID)
		return User{}, Session{}, false
	}
	u, ok := s.repo.GetUserByID(sess.UserID)
	if !ok {
		_ = s.repo.DeleteSession(sess.ID)
		return User{}, Session{}, false
	}

	// Last-seen updates are throttled to keep writes down.
	if now.Sub(sess.LastSeen) >= 5*time.Minute {
		_ = s.repo.TouchSession(sess.ID, now)
		sess.LastSeen = now
	}
	return u, sess, true
}

func (s *Service) RevokeSessionForRequest(r *http.Request) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return
	}
	_ = s.repo.DeleteSessionByTokenHash(hashToken(cookie.Value))
}

func (s *Service) useSecureCookie(r *http.Request) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("RECEIT_COOKIE_SECURE"))) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")), "https")
}

func (s *Service) SetSessionCookie(w http.ResponseWriter, r *http.Request, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   s.useSecureCookie(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Service) ClearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.useSecureCookie(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireAPI rejects unauthenticated API requests and injects the user
// and session into the request context.
func (s *Service) RequireAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, sess, ok := s.AuthenticateRequest(r, time.Now())
		if !ok {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"error": "unauthorized"})
			return
		}
		ctx := withSessionContext(withUserContext(r.Context(), u), sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
