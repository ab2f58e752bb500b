// internal/handlers/auth_handler.go
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/remnantdom/ALSDI-school-finance-cloud/config"
	"github.com/remnantdom/ALSDI-school-finance-cloud/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	bcryptCost       = 12
	tokenTTL         = 24 * time.Hour
	maxLoginFailures = 5
	lockoutDuration  = 10 * time.Minute
)

type loginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginHandler verifies credentials, applies the failed-attempt lockout
// and issues a signed JWT as both cookie and response field.
func LoginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Login and password are required"})
		return
	}
	req.Login = strings.TrimSpace(req.Login)

	var user models.User
	if err := config.DB.Preload("Roles").
		Where("LOWER(login) = LOWER(?)", req.Login).
		First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect login or password"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		}
		return
	}

	now := time.Now()
	if user.LockedUntil != nil && now.Before(*user.LockedUntil) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is locked, try again later"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= maxLoginFailures {
			lockUntil := now.Add(lockoutDuration)
			user.LockedUntil = &lockUntil
			user.FailedLoginAttempts = 0
		}
		_ = config.DB.Save(&user).Error
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect login or password"})
		return
	}

	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now
	_ = config.DB.Save(&user).Error

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"exp":     now.Add(tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(config.JwtKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	roleNames := make([]string, 0, len(user.Roles))
	for _, role := range user.Roles {
		roleNames = append(roleNames, role.Name)
	}

	c.SetCookie("auth_token", token, int(tokenTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"login":    user.Login,
			"fullName": user.FullName,
			"roles":    roleNames,
		},
	})
}

// LogoutHandler clears the auth cookie and drops the cached user data so
// the token cannot be served from cache afterwards.
func LogoutHandler(c *gin.Context) {
	if userID, exists := c.Get("user_id"); exists && config.RDB != nil {
		if id, ok := userID.(uint); ok {
			config.RDB.Del(config.Ctx, userCacheKey(id))
		}
	}
	c.SetCookie("auth_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

type registerRequest struct {
	Login    string   `json:"login" binding:"required"`
	Password string   `json:"password" binding:"required,min=8,max=72"`
	FullName string   `json:"fullName"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// RegisterHandler creates a staff account. Only admins reach this route.
func RegisterHandler(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data: " + err.Error()})
		return
	}
	req.Login = strings.TrimSpace(req.Login)

	var count int64
	if err := config.DB.Model(&models.User{}).
		Where("LOWER(login) = LOWER(?)", req.Login).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Login is already taken"})
		return
	}

	var roles []models.Role
	if len(req.Roles) > 0 {
		if err := config.DB.Where("name IN ?", req.Roles).Find(&roles).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load roles"})
			return
		}
		if len(roles) != len(req.Roles) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role in request"})
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Login:        req.Login,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Email:        req.Email,
		Roles:        roles,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    user.ID,
		"login": user.Login,
	})
}
