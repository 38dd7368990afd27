package httpapi

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"

	csrfCookie    = "csrf_token"
	csrfFormField = "csrf_token"
	csrfTokenKey  = "csrf_token_value"
	csrfTokenTTL  = time.Hour
)

// requestID tags every request with an identifier, honoring one
// supplied by an upstream proxy.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "request",
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

// rateLimit is a per-IP sliding window. State is in-process only, which
// matches the single-instance deployment model.
func (s *Server) rateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	var mu sync.Mutex
	hits := make(map[string][]time.Time)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		recent := hits[ip][:0]
		for _, ts := range hits[ip] {
			if now.Sub(ts) < window {
				recent = append(recent, ts)
			}
		}
		if len(recent) >= maxRequests {
			hits[ip] = recent
			mu.Unlock()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		hits[ip] = append(recent, now)
		mu.Unlock()

		c.Next()
	}
}

// csrf issues an HMAC-signed token in a cookie and requires browser
// POSTs to echo it back in the form body. API routes are registered
// outside this middleware.
func (s *Server) csrf() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(csrfCookie)
		if err != nil || !s.validCSRFToken(token) {
			token, err = s.newCSRFToken()
			if err != nil {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.SetCookie(csrfCookie, token, int(csrfTokenTTL.Seconds()), "/", "", false, true)
		}
		c.Set(csrfTokenKey, token)

		if c.Request.Method == http.MethodPost && c.PostForm(csrfFormField) != token {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Next()
	}
}

func (s *Server) newCSRFToken() (string, error) {
	claims := jwt.MapClaims{
		"n":   uuid.NewString(),
		"exp": time.Now().Add(csrfTokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) validCSRFToken(token string) bool {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	return err == nil && parsed.Valid
}
