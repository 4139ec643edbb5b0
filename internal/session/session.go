// Package session implements the server-side login session store. The
// browser only holds a signed, opaque session id; the user it belongs to
// lives in the sessions table.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	apperrors "finance/internal/errors"
	"finance/internal/id"
	"finance/internal/models"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

const issuer = "finance"

// claims is the signed cookie payload. The subject is the session id.
type claims struct {
	jwt.RegisteredClaims
}

// Manager creates, resolves and destroys sessions.
type Manager struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewManager creates a session manager. secure marks the cookie Secure,
// which should be set whenever the service sits behind HTTPS.
func NewManager(db *gorm.DB, secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		db:     db,
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}
}

// Create stores a new session for userID and returns it with its signed token.
func (m *Manager) Create(ctx context.Context, userID string) (*models.Session, string, error) {
	now := m.now().UTC()
	sess := &models.Session{
		ID:        id.New(),
		UserID:    userID,
		ExpiresAt: now.Add(m.ttl),
		CreatedAt: now,
	}
	if err := m.db.WithContext(ctx).Create(sess).Error; err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	token, err := m.sign(sess)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return sess, token, nil
}

// Resolve verifies a token and returns the live session it names.
func (m *Manager) Resolve(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, apperrors.ErrUnauthorized
	}

	sid, err := m.parse(token)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, err)
	}

	var sess models.Session
	if err := m.db.WithContext(ctx).First(&sess, "id = ?", sid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if sess.Expired(m.now()) {
		return nil, apperrors.ErrSessionExpired
	}
	return &sess, nil
}

// Destroy deletes the session named by token. Unknown or malformed tokens
// are ignored so logout always succeeds.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	sid, err := m.parse(token)
	if err != nil {
		return nil
	}
	if err := m.db.WithContext(ctx).Delete(&models.Session{}, "id = ?", sid).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// PurgeExpired deletes sessions that have expired and reports how many.
func (m *Manager) PurgeExpired(ctx context.Context) (int64, error) {
	res := m.db.WithContext(ctx).Where("expires_at <= ?", m.now().UTC()).Delete(&models.Session{})
	if res.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	return res.RowsAffected, nil
}

// SetCookie writes the session cookie. It has no Max-Age, so the browser
// drops it when closed; the server-side row enforces the TTL.
func (m *Manager) SetCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, 0, "/", "", m.secure, true)
}

// ClearCookie expires the session cookie.
func (m *Manager) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", m.secure, true)
}

// Token returns the session token carried by the request, if any.
func Token(c *gin.Context) string {
	token, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return token
}

func (m *Manager) sign(sess *models.Session) (string, error) {
	c := &claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
}

func (m *Manager) parse(token string) (string, error) {
	c := &claims{}
	parsed, err := jwt.ParseWithClaims(token, c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("invalid session token: %w", err)
	}
	if !id.IsValid(c.Subject) {
		return "", fmt.Errorf("invalid session id")
	}
	return c.Subject, nil
}
