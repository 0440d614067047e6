package middleware

import (
	"net/http"
	"time"

	"docuchat-backend/internal/auth"
	"docuchat-backend/internal/config"
	"docuchat-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type AuthMiddleware struct {
	config *config.Config
	rdb    *redis.Client
}

func NewAuthMiddleware(cfg *config.Config, rdb *redis.Client) *AuthMiddleware {
	return &AuthMiddleware{
		config: cfg,
		rdb:    rdb,
	}
}

func (a *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		// Try to get access token from Authorization header
		authHeader := c.GetHeader("Authorization")
		var tokenString string

		if authHeader != "" {
			tokenString = utils.ExtractTokenFromHeader(authHeader)
		}

		// If no header token, try access_token cookie
		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error_code": "unauthorized",
				"message":    "Authentication token is required",
			})
			c.Abort()
			return
		}

		claims, err := auth.ValidateAccessToken(tokenString, a.rdb)
		if err != nil {
			// Try to auto-refresh using refresh token cookie
			if refreshToken, cookieErr := c.Cookie("refresh_token"); cookieErr == nil && refreshToken != "" {
				refreshClaims, refreshErr := auth.ValidateRefreshToken(refreshToken, a.rdb)
				if refreshErr == nil {
					// Rotate: old refresh token is single-use
					_ = auth.RevokeToken(refreshClaims.ID, true, a.rdb)

					tokenPair, issueErr := auth.IssueTokenPair(refreshClaims.UserID, refreshClaims.Email, a.rdb)
					if issueErr == nil {
						SetAuthCookies(c, a.config, tokenPair)

						freshClaims, valErr := auth.ValidateAccessToken(tokenPair.AccessToken, a.rdb)
						if valErr == nil {
							claims = freshClaims
						}
					}
				}
			}

			if claims == nil {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error_code": "session_expired",
					"message":    "Your session has expired. Please log in again.",
					"details":    gin.H{"error": err.Error()},
				})
				c.Abort()
				return
			}
		}

		// Store user info in context
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("claims", claims)

		c.Next()
	})
}

// SetAuthCookies writes the token pair as httpOnly cookies. Secure is
// only set in release mode so local development over plain HTTP works.
func SetAuthCookies(c *gin.Context, cfg *config.Config, pair *auth.TokenPair) {
	secure := cfg.GinMode == "release"
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		"access_token",
		pair.AccessToken,
		int(1*time.Hour.Seconds()),
		"/",
		"",
		secure,
		true,
	)
	c.SetCookie(
		"refresh_token",
		pair.RefreshToken,
		int(7*24*time.Hour.Seconds()),
		"/",
		"",
		secure,
		true,
	)
}

// ClearAuthCookies removes the auth cookies on logout.
func ClearAuthCookies(c *gin.Context, cfg *config.Config) {
	secure := cfg.GinMode == "release"
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("access_token", "", -1, "/", "", secure, true)
	c.SetCookie("refresh_token", "", -1, "/", "", secure, true)
}

// Helper function to get user ID from context
func GetUserID(c *gin.Context) string {
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	return ""
}

// Helper function to get email from context
func GetEmail(c *gin.Context) string {
	if email, exists := c.Get("email"); exists {
		if e, ok := email.(string); ok {
			return e
		}
	}
	return ""
}
