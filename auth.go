package main

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// sessionTTL is how long a login token stays valid.
const sessionTTL = 30 * 24 * time.Hour

// authenticator guards the API with a single password. Tokens live in memory
// only, so a restart logs everyone out.
type authenticator struct {
	hash []byte
	now  func() time.Time

	mu     sync.Mutex
	tokens map[string]time.Time // token -> expiry
}

// newAuthenticator returns nil when passwordHash is empty, which leaves the
// API open (the default for a localhost-only tool).
func newAuthenticator(passwordHash string) *authenticator {
	if passwordHash == "" {
		return nil
	}
	return &authenticator{
		hash:   []byte(passwordHash),
		now:    time.Now,
		tokens: make(map[string]time.Time),
	}
}

// issue creates a session token and drops any that have expired.
func (a *authenticator) issue() string {
	token := uuid.New().String()
	a.mu.Lock()
	defer a.mu.Unlock()
	now := a.now()
	for tok, exp := range a.tokens {
		if now.After(exp) {
			delete(a.tokens, tok)
		}
	}
	a.tokens[token] = now.Add(sessionTTL)
	return token
}

func (a *authenticator) valid(token string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	exp, ok := a.tokens[token]
	if !ok {
		return false
	}
	if a.now().After(exp) {
		delete(a.tokens, token)
		return false
	}
	return true
}

// login verifies the password and returns a session token.
// POST /api/login (public, no auth required). 404 when auth is disabled.
func (h *Handler) login(c *gin.Context) {
	if h.auth == nil {
		apiError(c, http.StatusNotFound, "login is not enabled")
		return
	}

	var body struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := bcrypt.CompareHashAndPassword(h.auth.hash, []byte(body.Password)); err != nil {
		h.log.Warn("failed login", zap.String("remote", c.ClientIP()))
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": h.auth.issue()})
}

// authMiddleware validates the Bearer token. It passes everything through
// when no password is configured.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.auth == nil {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}
		if !h.auth.valid(strings.TrimPrefix(header, "Bearer ")) {
			apiError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}
		c.Next()
	}
}
