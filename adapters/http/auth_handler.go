package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authUC "github.com/khoahotran/career-compass/internal/application/usecase/auth"
	"github.com/khoahotran/career-compass/pkg/apperror"
	"github.com/khoahotran/career-compass/pkg/logger"
)

type AuthHandler struct {
	loginUseCase    *authUC.LoginUseCase
	registerUseCase *authUC.RegisterUseCase
	logoutUseCase   *authUC.LogoutUseCase
	currentUseCase  *authUC.CurrentSessionUseCase
	logger          logger.Logger
}

func NewAuthHandler(
	loginUC *authUC.LoginUseCase,
	registerUC *authUC.RegisterUseCase,
	logoutUC *authUC.LogoutUseCase,
	currentUC *authUC.CurrentSessionUseCase,
	log logger.Logger,
) *AuthHandler {
	return &AuthHandler{
		loginUseCase:    loginUC,
		registerUseCase: registerUC,
		logoutUseCase:   logoutUC,
		currentUseCase:  currentUC,
		logger:          log,
	}
}

func toAuthResponse(out *authUC.AuthOutput) AuthResponse {
	return AuthResponse{
		AccessToken: out.AccessToken,
		ExpiresAt:   out.Session.ExpiresAt,
		User:        ToUserDTO(out.Session.Account),
	}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	out, err := h.registerUseCase.Execute(c.Request.Context(), authUC.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, toAuthResponse(out))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	out, err := h.loginUseCase.Execute(c.Request.Context(), authUC.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toAuthResponse(out))
}

func (h *AuthHandler) Me(c *gin.Context) {
	sess, ok := GetSessionFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("session not found in context", nil))
		return
	}

	current, err := h.currentUseCase.Execute(c.Request.Context(), sess.ID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":       ToUserDTO(current.Account),
		"session_id": current.ID,
		"expires_at": current.ExpiresAt,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sess, ok := GetSessionFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("session not found in context", nil))
		return
	}

	if err := h.logoutUseCase.Execute(c.Request.Context(), sess.ID); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
