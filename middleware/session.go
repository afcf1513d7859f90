package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"p9e.in/washreport/pkg/wizard"
)

// SessionCookie is the cookie holding the signed session token.
const SessionCookie = "report_session"

// SessionClaims identify a wizard session. The token only protects the
// session id from tampering; it does not authenticate the user.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// unexported type prevents collisions in context
type ctxKey int

const (
	controllerKey ctxKey = iota
	requestIDKey
)

type Sessions struct {
	key   []byte
	ttl   time.Duration
	store *wizard.Store
	now   func() time.Time
}

func NewSessions(key []byte, ttl time.Duration, store *wizard.Store) *Sessions {
	return &Sessions{key: key, ttl: ttl, store: store, now: time.Now}
}

// GenerateToken signs a session token valid for the session TTL.
func (s *Sessions) GenerateToken(sessionID string) (string, error) {
	now := s.now()
	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.key)
}

// ParseToken returns the session id of a valid token.
func (s *Sessions) ParseToken(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || claims.SessionID == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return claims.SessionID, nil
}

// Middleware attaches the wizard controller of the caller's session to the
// request context, starting a new session when the cookie is missing,
// invalid or expired. The cookie is refreshed on every request.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			id   string
			ctrl *wizard.Controller
		)
		if c, err := r.Cookie(SessionCookie); err == nil {
			if sid, err := s.ParseToken(c.Value); err == nil {
				if existing, ok := s.store.Get(sid); ok {
					id, ctrl = sid, existing
				}
			}
		}
		if ctrl == nil {
			id, ctrl = s.store.Create()
		}

		token, err := s.GenerateToken(id)
		if err != nil {
			http.Error(w, "failed to issue session", http.StatusInternalServerError)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})

		ctx := context.WithValue(r.Context(), controllerKey, ctrl)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetController returns the wizard controller attached by Sessions.Middleware.
func GetController(r *http.Request) *wizard.Controller {
	ctrl, _ := r.Context().Value(controllerKey).(*wizard.Controller)
	return ctrl
}
