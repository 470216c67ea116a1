package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"driverhub/api/internal/config"
	"driverhub/api/internal/middleware"
	"driverhub/api/internal/models"
	"driverhub/api/internal/ratelimit"
	"driverhub/api/internal/repository"
	"driverhub/api/internal/security"
	"driverhub/api/internal/service"
	"driverhub/api/internal/session"
)

// DriverStore, StickerStore and ReferralStore are the record-store surfaces
// the handlers need; the pgx repositories satisfy them.
type DriverStore interface {
	Create(ctx context.Context, driver models.Driver) error
	Update(ctx context.Context, driver models.Driver) error
	UpdateStatus(ctx context.Context, id string, status models.DriverStatus) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (models.Driver, error)
	List(ctx context.Context) ([]models.Driver, error)
	Stats(ctx context.Context) (models.DriverStats, error)
}

type StickerStore interface {
	List(ctx context.Context) ([]models.ExtraSticker, error)
	Create(ctx context.Context, sticker models.ExtraSticker) error
	Delete(ctx context.Context, id string) error
}

type ReferralStore interface {
	List(ctx context.Context) ([]models.Referral, error)
	Create(ctx context.Context, ref models.Referral) error
	Delete(ctx context.Context, id string) error
}

type HandlerSet struct {
	log       zerolog.Logger
	cfg       *config.AppConfig
	auth      *service.AuthService
	sessions  *session.Manager
	drivers   DriverStore
	stickers  StickerStore
	referrals ReferralStore

	loginLimiter   *ratelimit.Limiter
	generalLimiter *ratelimit.Limiter

	db    *pgxpool.Pool
	cache *redis.Client
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, cfg *config.AppConfig) HandlerSet {
	var store session.Store
	if cache != nil {
		store = session.NewRedisStore(cache)
	} else {
		store = session.NewMemoryStore()
	}

	sessionMgr := session.NewManager(store, cfg.Session.Secret, cfg.Session.TTL, session.CookieOptions{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.CookieSecure,
	})

	userRepo := repository.NewUserRepository(db)
	hasher := security.NewHasher(cfg.Security.BcryptCost)
	auth := service.NewAuthService(userRepo, hasher, sessionMgr, log)

	return HandlerSet{
		log:            log,
		cfg:            cfg,
		auth:           auth,
		sessions:       sessionMgr,
		drivers:        repository.NewDriverRepository(db),
		stickers:       repository.NewStickerRepository(db),
		referrals:      repository.NewReferralRepository(db),
		loginLimiter:   ratelimit.NewLimiter(cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginWindow, nil),
		generalLimiter: ratelimit.NewLimiter(cfg.RateLimit.GeneralLimit, cfg.RateLimit.GeneralWindow, nil),
		db:             db,
		cache:          cache,
	}
}

// Sessions exposes the session manager for background sweeping.
func (h HandlerSet) Sessions() *session.Manager {
	return h.sessions
}

func (h HandlerSet) Register(router *gin.Engine) {
	router.Use(middleware.RateLimit(h.generalLimiter))

	router.GET("/health", h.Health)
	router.GET("/", h.Root)

	auth := router.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimit(h.loginLimiter), h.Login)
		auth.GET("/logout", h.Logout)

		me := auth.Group("", middleware.RequireSession(h.sessions))
		me.GET("/me", h.Me)
		me.GET("/password", h.PasswordStatus)
		me.POST("/password", h.ChangePassword)
	}

	// Every application route sits behind the session guard and the
	// rotation gate; a must-rotate session cannot reach any of them.
	app := router.Group("",
		middleware.RequireSession(h.sessions),
		middleware.RequirePasswordCurrent(),
	)

	app.GET("/dashboard", h.Dashboard)
	app.GET("/dashboard/export", middleware.RequireRole(models.UserRoleAdmin), h.ExportDrivers)

	drivers := app.Group("/drivers")
	{
		drivers.POST("/status/:id", h.UpdateDriverStatus)

		adminOnly := drivers.Group("", middleware.RequireRole(models.UserRoleAdmin))
		adminOnly.POST("/add", h.AddDriver)
		adminOnly.POST("/update/:id", h.UpdateDriver)
		adminOnly.POST("/delete/:id", h.DeleteDriver)
		adminOnly.GET("/get/:id", h.GetDriver)
	}

	sticker := app.Group("/sticker")
	{
		sticker.GET("", h.ListStickers)

		adminOnly := sticker.Group("", middleware.RequireRole(models.UserRoleAdmin))
		adminOnly.POST("/add", h.AddSticker)
		adminOnly.POST("/delete/:id", h.DeleteSticker)
	}

	referrals := app.Group("/empfehlungen")
	{
		referrals.GET("", h.ListReferrals)

		adminOnly := referrals.Group("", middleware.RequireRole(models.UserRoleAdmin))
		adminOnly.POST("/add", h.AddReferral)
		adminOnly.POST("/delete/:id", h.DeleteReferral)
	}
}

// Root sends clients to the dashboard or the login page.
func (h HandlerSet) Root(c *gin.Context) {
	token := h.sessions.TokenFromRequest(c)
	if _, ok := h.sessions.Resolve(c.Request.Context(), token); ok {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	c.Redirect(http.StatusSeeOther, "/auth/login")
}
