package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/minimav/running-app/internal/middleware"
	"github.com/minimav/running-app/internal/store"
)

type credentialsInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Cookie lifetime matches the token's seven days.
const authCookieMaxAge = 7 * 24 * 60 * 60

// SignupUser registers a new account and logs it straight in.
func SignupUser(c *gin.Context) {
	var input credentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	if err := db.CreateUser(input.Username, hashedPassword); err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user: " + err.Error()})
		return
	}

	token, err := middleware.GenerateToken(input.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}
	setAuthCookie(c, token)
	log.WithField("username", input.Username).Info("new user registered")
	c.JSON(http.StatusCreated, gin.H{"access_token": token, "token_type": "bearer"})
}

// LoginUser exchanges credentials for a bearer token. The token also goes
// into an httponly cookie so the map frontend works without an Authorization
// header.
func LoginUser(c *gin.Context) {
	var input credentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := db.UserByUsername(input.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Same message for unknown user and wrong password.
			c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect username or password"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect username or password"})
		return
	}

	token, err := middleware.GenerateToken(user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}
	setAuthCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// LogoutUser expires the auth cookie. Bearer tokens held elsewhere stay
// valid until they expire on their own.
func LogoutUser(c *gin.Context) {
	c.SetCookie("Authorization", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CurrentUsername reports which account the presented token belongs to.
func CurrentUsername(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"username": middleware.Username(c)})
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func setAuthCookie(c *gin.Context, token string) {
	c.SetCookie("Authorization", "Bearer "+token, authCookieMaxAge, "/", "", false, true)
}
