package app

import (
	"context"
	"net/http"

	authhandler "campus-portal/internal/auth/handler"
	"campus-portal/internal/auth/otp"
	"campus-portal/internal/auth/session"
	"campus-portal/internal/auth/token"
	"campus-portal/internal/config"
	"campus-portal/internal/logger"
	"campus-portal/internal/mailer"
	"campus-portal/internal/middleware"
	"campus-portal/internal/portal"
	"campus-portal/internal/user"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	if cfg.JWTSecret == "" {
		logger.Warn("using development signing secret; set PORTAL_JWT_SECRET", nil)
	}

	codec := token.New(cfg.SigningSecret(), token.DefaultTTL)
	sessions := session.NewManager(codec, session.CookieOptions{
		Secure:   cfg.Production(),
		SameSite: http.SameSiteLaxMode,
	})

	var otpStore otp.Store = otp.NewMemoryStore()
	if infra.Redis != nil {
		otpStore = otp.NewRedisStore(infra.Redis.Client)
	}

	otpMailer, err := mailer.NewSMTP(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPass,
		cfg.SMTPFrom,
	)
	if err != nil {
		return nil, nil, err
	}

	users := user.NewStore(infra.DB)

	authHandler := authhandler.NewHandler(
		otpStore,
		otpMailer,
		users,
		sessions,
		cfg.AllowedEmailDomain,
	)

	authMiddleware := middleware.NewAuth(sessions)

	uploads := portal.NewUploads(cfg.UploadDir)
	portalHandler := portal.NewHandler(portal.NewSQLStore(infra.DB), uploads)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(authMiddleware.Identify())

	authHandler.RegisterRoutes(router)
	portalHandler.RegisterRoutes(router, authMiddleware)

	router.Static("/uploads", uploads.BaseDir())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		return infra.DB.Close()
	}, nil
}
