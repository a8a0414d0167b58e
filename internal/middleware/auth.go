package middleware

import (
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	jwtSecretOnce sync.Once
	jwtSecretVal  []byte
)

func jwtSecret() []byte {
	jwtSecretOnce.Do(func() {
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			panic("JWT_SECRET environment variable is not set")
		}
		jwtSecretVal = []byte(secret)
	})
	return jwtSecretVal
}

// MustInitJWTSecret forces the secret to be read at startup so a missing
// JWT_SECRET fails the process immediately instead of on the first request.
func MustInitJWTSecret() {
	jwtSecret()
}

// Claims is the JWT payload. Authorities carry the granted permission strings
// derived from the account's roles.
type Claims struct {
	UserName    string   `json:"username"`
	Authorities []string `json:"authorities"`
	jwt.RegisteredClaims
}

// GenerateToken signs a session token for the given username and authorities.
func GenerateToken(userName string, authorities []string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserName:    userName,
		Authorities: authorities,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Authorization header required",
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (any, error) {
			return jwtSecret(), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set("username", claims.UserName)
		c.Set("authorities", claims.Authorities)
		c.Next()
	}
}

// RequireAuthority aborts with 403 unless the authenticated caller holds the
// given authority string.
func RequireAuthority(authority string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !HasAuthority(c, authority) {
			c.JSON(http.StatusForbidden, gin.H{
				"message": "Insufficient permissions",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func GetUsername(c *gin.Context) (string, bool) {
	userName, exists := c.Get("username")
	if !exists {
		return "", false
	}
	return userName.(string), true
}

func HasAuthority(c *gin.Context, authority string) bool {
	val, exists := c.Get("authorities")
	if !exists {
		return false
	}
	authorities, ok := val.([]string)
	if !ok {
		return false
	}
	for _, a := range authorities {
		if a == authority {
			return true
		}
	}
	return false
}
