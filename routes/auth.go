package routes

import (
	"context"
	"errors"
	"net/http"
	"time"

	"docuchat-backend/internal/auth"
	"docuchat-backend/internal/config"
	"docuchat-backend/internal/logger"
	"docuchat-backend/middleware"
	"docuchat-backend/models"
	"docuchat-backend/services"
	"docuchat-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupAuthRoutes wires the two-step (password + emailed code) register
// and login flows, token refresh, and logout.
func SetupAuthRoutes(router *gin.Engine, cfg *config.Config, mongoClient *mongo.Client, rdb *redis.Client, mailer services.EmailSender) {
	authGroup := router.Group("/auth")

	db := mongoClient.Database(cfg.DBName)
	usersCollection := db.Collection("users")

	sendCode := func(c *gin.Context, purpose, email, name string) bool {
		code, err := auth.GenerateOTP()
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to generate verification code", nil)
			return false
		}
		if err := auth.StoreOTP(c.Request.Context(), rdb, purpose, email, code); err != nil {
			utils.RespondWithInternalError(c, "Failed to store verification code", nil)
			return false
		}
		if err := mailer.SendOTP(email, name, purpose, code); err != nil {
			logger.Error("Failed to send verification email", "email", email, "error", err)
			utils.RespondWithInternalError(c, "Failed to send verification email", nil)
			return false
		}
		return true
	}

	issueTokens := func(c *gin.Context, user *models.User, status int) {
		pair, err := auth.IssueTokenPair(user.ID.Hex(), user.Email, rdb)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to issue tokens", nil)
			return
		}
		middleware.SetAuthCookies(c, cfg, pair)
		c.JSON(status, models.TokenPairResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			AccessExp:    pair.AccessExp,
			RefreshExp:   pair.RefreshExp,
			User: models.UserInfo{
				ID:    user.ID.Hex(),
				Name:  user.Name,
				Email: user.Email,
			},
		})
	}

	// Step 1 of registration: validate input, email a code
	authGroup.POST("/register/init", func(c *gin.Context) {
		var req models.RegisterInitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		var existing models.User
		if err := usersCollection.FindOne(context.Background(), bson.M{"email": req.Email}).Decode(&existing); err == nil {
			utils.RespondWithConflict(c, "An account with this email already exists")
			return
		}

		if !sendCode(c, auth.OTPPurposeRegister, req.Email, req.Name) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
	})

	// Step 2 of registration: verify the code and create the account
	authGroup.POST("/register/verify", func(c *gin.Context) {
		var req models.RegisterVerifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		if err := auth.VerifyOTP(c.Request.Context(), rdb, auth.OTPPurposeRegister, req.Email, req.Code); err != nil {
			if errors.Is(err, auth.ErrOTPExpired) || errors.Is(err, auth.ErrOTPInvalid) {
				utils.RespondWithUnauthorized(c, "Invalid or expired verification code")
				return
			}
			utils.RespondWithInternalError(c, "Failed to verify code", nil)
			return
		}

		hashedPassword, err := utils.HashPassword(req.Password, cfg.BcryptCost)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to process password", nil)
			return
		}

		user := models.User{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hashedPassword,
			Verified:     true,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}

		result, err := usersCollection.InsertOne(context.Background(), user)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				utils.RespondWithConflict(c, "An account with this email already exists")
				return
			}
			utils.RespondWithInternalError(c, "Failed to create user", nil)
			return
		}
		user.ID = result.InsertedID.(primitive.ObjectID)

		issueTokens(c, &user, http.StatusCreated)
	})

	// Step 1 of login: check the password, email a code
	authGroup.POST("/login/init", func(c *gin.Context) {
		var req models.LoginInitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := usersCollection.FindOne(context.Background(), bson.M{"email": req.Email}).Decode(&user); err != nil {
			utils.RespondWithUnauthorized(c, "Invalid email or password")
			return
		}

		if !utils.CheckPassword(req.Password, user.PasswordHash) {
			utils.RespondWithUnauthorized(c, "Invalid email or password")
			return
		}

		if !sendCode(c, auth.OTPPurposeLogin, req.Email, user.Name) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
	})

	// Step 2 of login: verify the code, issue tokens
	authGroup.POST("/login/verify", func(c *gin.Context) {
		var req models.LoginVerifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		if err := auth.VerifyOTP(c.Request.Context(), rdb, auth.OTPPurposeLogin, req.Email, req.Code); err != nil {
			if errors.Is(err, auth.ErrOTPExpired) || errors.Is(err, auth.ErrOTPInvalid) {
				utils.RespondWithUnauthorized(c, "Invalid or expired verification code")
				return
			}
			utils.RespondWithInternalError(c, "Failed to verify code", nil)
			return
		}

		var user models.User
		if err := usersCollection.FindOne(context.Background(), bson.M{"email": req.Email}).Decode(&user); err != nil {
			utils.RespondWithUnauthorized(c, "Invalid email or password")
			return
		}

		issueTokens(c, &user, http.StatusOK)
	})

	// Rotate a refresh token for a new pair
	authGroup.POST("/refresh", func(c *gin.Context) {
		var req models.RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			// Fall back to the cookie for browser clients
			if cookie, cookieErr := c.Cookie("refresh_token"); cookieErr == nil && cookie != "" {
				req.RefreshToken = cookie
			} else {
				utils.RespondWithBadRequest(c, "Refresh token is required", nil)
				return
			}
		}

		claims, err := auth.ValidateRefreshToken(req.RefreshToken, rdb)
		if err != nil {
			utils.RespondWithUnauthorized(c, "Invalid or expired refresh token")
			return
		}

		// Single use: revoke before reissuing
		if err := auth.RevokeToken(claims.ID, true, rdb); err != nil {
			logger.Warn("Failed to revoke rotated refresh token", "error", err)
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			utils.RespondWithUnauthorized(c, "Invalid token subject")
			return
		}
		var user models.User
		if err := usersCollection.FindOne(context.Background(), bson.M{"_id": userID}).Decode(&user); err != nil {
			utils.RespondWithUnauthorized(c, "Account no longer exists")
			return
		}

		issueTokens(c, &user, http.StatusOK)
	})

	// Revoke every session for the caller
	authGroup.POST("/logout", func(c *gin.Context) {
		tokenString := utils.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString != "" {
			if claims, err := auth.ValidateAccessToken(tokenString, rdb); err == nil {
				if err := auth.RevokeAllUserTokens(claims.UserID, rdb); err != nil {
					logger.Warn("Failed to revoke user tokens", "user_id", claims.UserID, "error", err)
				}
			}
		}

		middleware.ClearAuthCookies(c, cfg)
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	})
}
