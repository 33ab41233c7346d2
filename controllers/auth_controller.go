package controllers

import (
	"context"
	"errors"
	"net/http"

	"scan2know/models"
	"scan2know/services"

	"github.com/gin-gonic/gin"
)

type Authenticator interface {
	Signup(ctx context.Context, in services.SignupInput) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Me(ctx context.Context, userID uint) (*models.User, error)
}

type AuthController struct {
	Auth Authenticator
}

func NewAuthController(a Authenticator) *AuthController {
	return &AuthController{Auth: a}
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (ac *AuthController) Signup(c *gin.Context) {
	var input services.SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	res, err := ac.Auth.Signup(c.Request.Context(), input)
	if errors.Is(err, services.ErrUserExists) {
		badRequest(c, err.Error())
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	res, err := ac.Auth.Login(c.Request.Context(), input.Email, input.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ac *AuthController) Me(c *gin.Context) {
	user, err := ac.Auth.Me(c.Request.Context(), c.GetUint("userID"))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
