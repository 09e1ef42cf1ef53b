package http

import (
	"errors"
	"net/http"

	"github.com/Miraines/Connecto/auth-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/Connecto/auth-service/internal/adapters/transport/http/middleware"
	"github.com/Miraines/Connecto/auth-service/internal/app/auth/service"
	customErrors "github.com/Miraines/Connecto/auth-service/internal/domain/auth/errors"
	"github.com/Miraines/Connecto/auth-service/internal/domain/auth/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc service.Service
	log *zap.Logger
}

func NewHandler(svc service.Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Register(r gin.IRouter) {
	auth := r.Group("/api/auth")
	auth.POST("/signup", h.signup)
	auth.POST("/verify-otp", h.verifyOTP)
	auth.POST("/resend-otp", h.resendOTP)
	auth.POST("/login", h.login)
	auth.POST("/refresh-token", h.refreshToken)
	auth.POST("/google", h.googleAuth)

	users := r.Group("/api/users", middleware.RequireRole(h.svc, model.RoleUser))
	users.GET("/me", h.me)

	admin := r.Group("/api/admin", middleware.RequireRole(h.svc, model.RoleAdmin))
	admin.PUT("/users/:id/role", h.updateRole)
}

func (h *Handler) signup(c *gin.Context) {
	var body dto.SignupDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err.Error())
		return
	}

	res, err := h.svc.Signup(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Account created successfully! Please check your email for the verification code.",
		"userId":  res.UserID,
		"email":   res.Email,
	})
}

func (h *Handler) verifyOTP(c *gin.Context) {
	var body dto.VerifyOTPDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err.Error())
		return
	}

	res, err := h.svc.VerifyOTP(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}

	msg := "Account verified successfully! You can now sign in."
	if res.AlreadyVerified {
		msg = "Account is already verified."
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg})
}

func (h *Handler) resendOTP(c *gin.Context) {
	var body dto.ResendOTPDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.svc.ResendOTP(c.Request.Context(), body); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "A new verification code has been sent to your email.",
	})
}

func (h *Handler) login(c *gin.Context) {
	var body dto.LoginDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err.Error())
		return
	}

	res, err := h.svc.Login(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse(res))
}

func (h *Handler) refreshToken(c *gin.Context) {
	var body dto.RefreshDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false})
		return
	}

	res, err := h.svc.Refresh(c.Request.Context(), body)
	if err != nil {
		// Любой сбой верификации — 401 без деталей.
		c.JSON(http.StatusUnauthorized, gin.H{"success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"token":     res.AccessToken,
		"expiresIn": res.ExpiresIn,
	})
}

func (h *Handler) googleAuth(c *gin.Context) {
	var body dto.GoogleAuthDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err.Error())
		return
	}

	res, err := h.svc.GoogleAuth(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse(res))
}

func (h *Handler) me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": service.ToUserView(user)})
}

func (h *Handler) updateRole(c *gin.Context) {
	var body dto.UpdateRoleDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err.Error())
		return
	}

	err := h.svc.UpdateRole(c.Request.Context(), c.Param("id"), model.Role(body.Role))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Role updated."})
}

func loginResponse(res dto.LoginResult) gin.H {
	return gin.H{
		"success":      true,
		"message":      "Login successful",
		"token":        res.AccessToken,
		"refreshToken": res.RefreshToken,
		"expiresIn":    res.ExpiresIn,
		"user":         res.User,
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msg})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var nv *customErrors.NotVerifiedError

	switch {
	case errors.As(err, &nv):
		c.JSON(http.StatusBadRequest, gin.H{
			"success":           false,
			"message":           "Please verify your email before signing in",
			"needsVerification": true,
			"userId":            nv.UserID,
		})
	case customErrors.IsInvalidArgument(err):
		badRequest(c, err.Error())
	case customErrors.IsAlreadyExists(err):
		badRequest(c, "An account with this email already exists")
	case customErrors.IsInvalidCredentials(err):
		badRequest(c, "Invalid email or password")
	case customErrors.IsCodeExpired(err):
		badRequest(c, "Verification code has expired. Please request a new one.")
	case customErrors.IsInvalidCode(err):
		badRequest(c, "Invalid verification code")
	case customErrors.IsAlreadyVerified(err):
		badRequest(c, "Account is already verified")
	case customErrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
	case customErrors.IsTooManyRequests(err):
		c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "message": "Please wait before requesting another code"})
	case customErrors.IsInvalidToken(err), customErrors.IsUnauthenticated(err):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
	case customErrors.IsForbidden(err):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "insufficient role"})
	default:
		// Детали коллаборатора — в лог, наружу только общий ответ.
		h.log.Error("internal error", zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error. Please try again."})
	}
}
