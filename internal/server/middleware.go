package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/tally-dev/tally/internal/log"
)

const (
	ctxUserID = "user_id"
	ctxToken  = "auth_token"
)

// RequestLogger logs one line per request.
func RequestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			log.FieldMethod, c.Request.Method,
			log.FieldPath, c.Request.URL.Path,
			log.FieldStatusCode, c.Writer.Status(),
			log.FieldDuration, time.Since(start).Milliseconds(),
			log.FieldClientIP, c.ClientIP())
	}
}

// Auth accepts HS256 bearer tokens signed with secret. The subject claim is
// the user id; the raw token is kept for stores that forward it.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims := &jwt.RegisteredClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(ctxUserID, claims.Subject)
		c.Set(ctxToken, raw)
		c.Next()
	}
}

// GetUserID returns the authenticated user id, or "".
func GetUserID(c *gin.Context) string { return c.GetString(ctxUserID) }

// GetToken returns the bearer token of the request, or "".
func GetToken(c *gin.Context) string { return c.GetString(ctxToken) }

// NewToken signs an HS256 token for userID valid for ttl from now.
func NewToken(secret []byte, userID string, ttl time.Duration, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
