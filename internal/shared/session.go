package shared

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNoSession indicates the request carries no valid session.
var ErrNoSession = errors.New("no session")

// SessionManager orchestrates cookie based sessions backed by Redis. Cookie
// values carry an HMAC signature so a tampered token never reaches Redis.
type SessionManager struct {
	client     *redis.Client
	cookieName string
	secret     []byte
	ttl        time.Duration
	secure     bool
}

type sessionPayload struct {
	CompanyID string `json:"company_id"`
	UserID    string `json:"user_id"`
}

// NewSessionManager constructs a SessionManager.
func NewSessionManager(client *redis.Client, cookieName, secret string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{client: client, cookieName: cookieName, secret: []byte(secret), ttl: ttl, secure: secure}
}

// Issue creates a session for the identity and sets the cookie.
func (sm *SessionManager) Issue(ctx context.Context, w http.ResponseWriter, id Identity) (string, error) {
	token, err := newSessionToken()
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(sessionPayload{
		CompanyID: id.CompanyID.String(),
		UserID:    id.UserID.String(),
	})
	if err != nil {
		return "", err
	}
	if err := sm.client.Set(ctx, sm.redisKey(token), payload, sm.ttl).Err(); err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sm.cookieName,
		Value:    token + "." + sm.sign(token),
		Path:     "/",
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sm.ttl.Seconds()),
	})
	return token, nil
}

// Load resolves the identity for the request's session cookie.
func (sm *SessionManager) Load(ctx context.Context, r *http.Request) (Identity, error) {
	cookie, err := r.Cookie(sm.cookieName)
	if err != nil {
		return Identity{}, ErrNoSession
	}
	token, ok := sm.verify(cookie.Value)
	if !ok {
		return Identity{}, ErrNoSession
	}
	raw, err := sm.client.Get(ctx, sm.redisKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Identity{}, ErrNoSession
		}
		return Identity{}, err
	}
	var payload sessionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Identity{}, ErrNoSession
	}
	companyID, err := uuid.Parse(payload.CompanyID)
	if err != nil {
		return Identity{}, ErrNoSession
	}
	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return Identity{}, ErrNoSession
	}
	return Identity{CompanyID: companyID, UserID: userID}, nil
}

// Destroy removes the session and clears the cookie.
func (sm *SessionManager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(sm.cookieName)
	if err != nil {
		return nil
	}
	if token, ok := sm.verify(cookie.Value); ok {
		if err := sm.client.Del(ctx, sm.redisKey(token)).Err(); err != nil {
			return err
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sm.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	return nil
}

func (sm *SessionManager) redisKey(token string) string {
	return "session:" + token
}

func (sm *SessionManager) sign(token string) string {
	mac := hmac.New(sha256.New, sm.secret)
	mac.Write([]byte(token))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (sm *SessionManager) verify(value string) (string, bool) {
	token, sig, ok := strings.Cut(value, ".")
	if !ok || token == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(sm.sign(token))) {
		return "", false
	}
	return token, true
}

func newSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
