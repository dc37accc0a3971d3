package middleware

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

var secret = []byte(getJWTSecret())

func getJWTSecret() string {
	if val := os.Getenv("RUNNING_APP_SECRET_KEY"); val != "" {
		return val
	}
	return "supersecret" // fallback
}

const tokenLifetime = 7 * 24 * time.Hour

// GenerateToken issues a signed token identifying the user.
func GenerateToken(username string) (string, error) {
	claims := jwt.MapClaims{
		"sub": username,
		"exp": time.Now().Add(tokenLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken checks the signature and expiry and returns the username
// the token was issued for.
func ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", errors.Wrap(err, "could not parse token")
	}
	if !token.Valid {
		return "", errors.New("token is not valid")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("unexpected token claims")
	}
	username, _ := claims["sub"].(string)
	if username == "" {
		return "", errors.New("token has no subject")
	}
	return username, nil
}

// bearerToken pulls the raw token from the Authorization header, falling
// back to the cookie set at login for browser sessions.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	cookie, err := c.Cookie("Authorization")
	if err == nil && strings.HasPrefix(cookie, "Bearer ") {
		return strings.TrimPrefix(cookie, "Bearer ")
	}
	return ""
}

// RequireAuth ensures a valid JWT is present
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}

		username, err := ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		// Store the identity in context for downstream handlers
		c.Set("username", username)

		c.Next()
	}
}

// Username returns the authenticated username stored by RequireAuth.
func Username(c *gin.Context) string {
	return c.GetString("username")
}
