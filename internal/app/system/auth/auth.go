package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Identity                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// Session value keys written by the login service that shares SessionKey.
const (
	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
	userName  = "user_name"
	userRole  = "user_role"
)

// SessionUser is the verified caller identity injected into r.Context().
type SessionUser struct {
	ID      string
	Name    string
	LoginID string
	Email   string
	Role    string
}

// IsAdmin reports whether the user holds the admin role.
func (u *SessionUser) IsAdmin() bool {
	return u != nil && strings.EqualFold(u.Role, "admin")
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user and a found flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok && u != nil
}

// WithTestUser injects u into the request context, bypassing token and
// cookie verification. Intended for handler tests.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

// UserFetcher loads the current state of a user by ID so role changes and
// disabled accounts take effect on the next request. It returns (nil, nil)
// when the user does not exist or is disabled.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) (*SessionUser, error)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Session manager                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// Config configures how callers are identified.
type Config struct {
	JWTSecret     string // HS256 key for bearer tokens; empty disables bearer auth
	SessionKey    string // cookie signing key; empty generates an ephemeral key
	SessionName   string
	SessionDomain string
	Secure        bool // Secure + SameSite=None cookies (prod)
}

// SessionManager verifies bearer tokens and session cookies issued by the
// external login service.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	jwtKey  []byte
	fetcher UserFetcher
	log     *zap.Logger
}

// NewSessionManager builds a SessionManager from cfg.
func NewSessionManager(cfg Config, logger *zap.Logger) (*SessionManager, error) {
	if cfg.SessionName == "" {
		return nil, fmt.Errorf("session name is empty")
	}

	key := []byte(cfg.SessionKey)
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
		if key == nil {
			return nil, fmt.Errorf("generate session key: no entropy")
		}
		logger.Warn("session key not configured; using an ephemeral key (cookie sessions will not survive restart)")
	} else if len(key) < 32 {
		logger.Warn("session key is short; 32+ chars recommended", zap.Int("length", len(key)))
	}

	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Domain:   cfg.SessionDomain,
		Path:     "/",
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if cfg.Secure {
		store.Options.SameSite = http.SameSiteNoneMode
	}

	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured; bearer tokens are disabled")
	}

	logger.Info("session manager initialized",
		zap.Bool("secure", cfg.Secure),
		zap.String("domain", cfg.SessionDomain),
		zap.Bool("bearer_tokens", cfg.JWTSecret != ""))

	return &SessionManager{
		store:  store,
		name:   cfg.SessionName,
		jwtKey: []byte(cfg.JWTSecret),
		log:    logger,
	}, nil
}

// SetUserFetcher installs the fetcher used to refresh identities.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) {
	sm.fetcher = f
}

// LoadSessionUser injects the caller into context when a valid bearer token
// or session cookie is present. Invalid credentials leave the request
// anonymous; gates downstream decide whether that is acceptable.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := sm.identify(r)
		if u != nil && sm.fetcher != nil {
			fresh, err := sm.fetcher.FetchUser(r.Context(), u.ID)
			if err != nil {
				sm.log.Warn("user refresh failed; treating request as anonymous",
					zap.String("user_id", u.ID), zap.Error(err))
			}
			u = fresh
		}
		if u != nil {
			r = withUser(r, u)
		}
		next.ServeHTTP(w, r)
	})
}

func (sm *SessionManager) identify(r *http.Request) *SessionUser {
	if raw, ok := bearerToken(r); ok {
		claims, err := sm.VerifyToken(raw)
		if err != nil {
			sm.log.Debug("bearer token rejected", zap.Error(err))
			return nil
		}
		return &SessionUser{ID: claims.UserID, Name: claims.Name, Role: claims.Role}
	}

	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		return nil
	}
	if isAuth, _ := sess.Values[isAuthKey].(bool); !isAuth {
		return nil
	}
	id := getString(sess, userIDKey)
	if id == "" {
		return nil
	}
	return &SessionUser{
		ID:   id,
		Name: getString(sess, userName),
		Role: getString(sess, userRole),
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Bearer tokens                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// Claims is the token payload issued by the login service.
type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

var errBearerDisabled = errors.New("bearer tokens are not configured")

// VerifyToken parses an HS256 token and returns its claims. Tokens must
// carry an expiry and a user id.
func (sm *SessionManager) VerifyToken(raw string) (*Claims, error) {
	if len(sm.jwtKey) == 0 {
		return nil, errBearerDisabled
	}
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return sm.jwtKey, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no user id")
	}
	return claims, nil
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(h[7:])
	return tok, tok != ""
}

/*─────────────────────────────────────────────────────────────────────────────*
| Gates                                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// RequireSignedIn rejects anonymous callers with 401.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			writeDenied(w, http.StatusUnauthorized, "Authentication required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects anonymous callers with 401 and callers whose role is
// not in allowed with 403. Role comparison is case-insensitive.
func (sm *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				writeDenied(w, http.StatusUnauthorized, "Authentication required.")
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				writeDenied(w, http.StatusForbidden, "You do not have permission to perform this action.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// helpers

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func writeDenied(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
