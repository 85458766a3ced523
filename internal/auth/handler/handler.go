package handler

import (
	"net/http"
	"strings"

	"campus-portal/internal/auth/otp"
	"campus-portal/internal/auth/session"
	"campus-portal/internal/logger"
	"campus-portal/internal/mailer"
	"campus-portal/internal/user"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	otpStore otp.Store
	mailer   mailer.Mailer
	users    user.Directory
	sessions *session.Manager

	// allowedDomain is the institutional email suffix gating logins.
	allowedDomain string
}

func NewHandler(
	otpStore otp.Store,
	mailer mailer.Mailer,
	users user.Directory,
	sessions *session.Manager,
	allowedDomain string,
) *Handler {
	return &Handler{
		otpStore:      otpStore,
		mailer:        mailer,
		users:         users,
		sessions:      sessions,
		allowedDomain: allowedDomain,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/auth/send-otp", h.SendOTP)
	r.POST("/api/auth/verify-otp", h.VerifyOTP)
	r.GET("/api/auth/me", h.Me)
	r.POST("/api/auth/logout", h.Logout)
}

type sendOTPRequest struct {
	Email string `json:"email"`
}

func (h *Handler) SendOTP(c *gin.Context) {
	var req sendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	// Policy check comes before any state is touched.
	if req.Email == "" || !strings.HasSuffix(req.Email, h.allowedDomain) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Please use a valid university email (" + h.allowedDomain + ")",
		})
		return
	}

	code, err := otp.GenerateCode()
	if err != nil {
		logger.Error("otp generation failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred. Please try again."})
		return
	}

	if err := h.otpStore.Put(c.Request.Context(), req.Email, code); err != nil {
		logger.Error("otp store failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred. Please try again."})
		return
	}

	if err := h.mailer.SendOTP(c.Request.Context(), req.Email, code); err != nil {
		// The stored code stays consumable after a failed send. Matches
		// the reference behavior; logged so operators can spot stranded
		// codes.
		logger.Warn("otp delivery failed", map[string]any{
			"email": req.Email,
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send OTP. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OTP sent successfully to your email",
	})
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (h *Handler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ok, err := h.otpStore.CheckAndConsume(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		logger.Error("otp check failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred. Please try again."})
		return
	}
	if !ok {
		// Wrong code and expired code are indistinguishable on purpose.
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired OTP"})
		return
	}

	identity, err := h.users.FindOrCreate(c.Request.Context(), req.Email)
	if err != nil {
		logger.Error("user resolution failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred. Please try again."})
		return
	}

	if err := h.sessions.Establish(c.Writer, identity); err != nil {
		logger.Error("session establish failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"user":    identity,
	})
}

// Me reports the caller's identity, or null when there is no valid
// session. This endpoint never errors; internal failures degrade to an
// anonymous answer.
func (h *Handler) Me(c *gin.Context) {
	identity, ok := h.sessions.Current(c.Request)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": identity})
}

func (h *Handler) Logout(c *gin.Context) {
	h.sessions.Clear(c.Writer)
	c.Status(http.StatusNoContent)
}
