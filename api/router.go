// Package api contains all endpoints available
package api

import (
	"fmt"
	"time"

	"bitflow/identity-api/db"
	"bitflow/identity-api/internal/account"
	"bitflow/identity-api/internal/code"
	"bitflow/identity-api/internal/notify"
	"bitflow/identity-api/internal/service"
	"bitflow/identity-api/internal/store"
	"bitflow/identity-api/middleware"
	"bitflow/identity-api/pkg/security"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var cacheStore = persist.NewMemoryStore(time.Minute)

type API struct {
	DB      *gorm.DB
	Router  *gin.Engine
	Service *account.Service
}

func NewRouter() (*API, error) {
	a := &API{}

	conn, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	a.DB = conn

	makeLogger()

	codesExpiry := time.Duration(viper.GetInt("codes.expiry")) * time.Second

	tokens := security.NewTokenManager(
		viper.GetString("jwt.secret"),
		time.Duration(viper.GetInt("jwt.access_ttl"))*time.Second,
		time.Duration(viper.GetInt("jwt.refresh_ttl"))*time.Second,
	)

	var mail notify.Notifier = notify.LogSink{}
	if viper.GetString("mail.host") != "" {
		mail = notify.NewMailer()
	}

	a.Service = account.NewService(
		store.NewAccountStore(conn),
		code.NewEngine(conn, codesExpiry),
		tokens,
		security.NewArgonHash(),
		&notify.Router{Mail: mail, SMS: notify.LogSink{}},
	)

	cleanupInterval := time.Duration(viper.GetInt("cleanup.interval")) * time.Second
	service.CodeCleanup(cleanupInterval, conn, codesExpiry)

	if days := viper.GetInt("cleanup.unverified_accounts"); days > 0 {
		service.AccountCleanup(cleanupInterval, conn, time.Duration(days)*24*time.Hour)
	}

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("accountID"); v != "" {
					fields = append(fields, zap.String("account_id", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true

	auth := middleware.NewAuthMiddleware(a.Service)
	limited := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: viper.GetInt("ratelimit.rps"),
		Burst:             viper.GetInt("ratelimit.burst"),
	})

	main := router.Group("/api")
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)
	}

	accounts := main.Group("/accounts", middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/accounts			-> Registers a new account
		accounts.POST("", limited, a.AccountSignup)

		// POST /api/accounts/resend		-> Resends the signup code
		accounts.POST("/resend", limited, a.AccountResendCode)

		// POST /api/accounts/verify		-> Verifies a signup with a code
		accounts.POST("/verify", a.AccountVerify)

		// POST /api/accounts/signin		-> Signs in and returns a token pair
		accounts.POST("/signin", limited, a.AccountSignin)

		// POST /api/accounts/refresh		-> Exchanges a refresh token for a new pair
		accounts.POST("/refresh", a.AccountRefresh)

		// POST /api/accounts/password/reset	-> Starts the forgotten-password flow
		accounts.POST("/password/reset", limited, a.AccountResetPassword)

		// POST /api/accounts/password/verify	-> Sets a new password with a reset code
		accounts.POST("/password/verify", a.AccountVerifyResetPassword)

		// GET /api/accounts			-> Returns the authenticated account
		accounts.GET("", auth, cacheFor(30), a.AccountFetch)

		// DELETE /api/accounts			-> Soft-deletes the authenticated account
		accounts.DELETE("", auth, a.AccountDelete)

		// PUT /api/accounts/password		-> Changes the password (old one required)
		accounts.PUT("/password", auth, a.AccountChangePassword)

		// PUT /api/accounts/email		-> Starts an email change
		accounts.PUT("/email", auth, a.AccountChangeEmail)

		// POST /api/accounts/email/verify	-> Completes an email change
		accounts.POST("/email/verify", auth, a.AccountVerifyChangeEmail)

		// PUT /api/accounts/phone		-> Starts a phone number change
		accounts.PUT("/phone", auth, a.AccountChangePhoneNumber)

		// POST /api/accounts/phone/verify	-> Completes a phone number change
		accounts.POST("/phone/verify", auth, a.AccountVerifyChangePhoneNumber)

		// PUT /api/accounts/username		-> Changes the username directly
		accounts.PUT("/username", auth, a.AccountChangeUsername)
	}

	return a, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	if lvl, err := zapcore.ParseLevel(viper.GetString("app.log_level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

// cacheFor caches responses keyed by the authenticated account, so
// two principals hitting the same URI never share an entry.
func cacheFor(sec int) gin.HandlerFunc {
	return cache.Cache(cacheStore, time.Second*time.Duration(sec),
		cache.WithCacheStrategyByRequest(func(c *gin.Context) (bool, cache.Strategy) {
			return true, cache.Strategy{
				CacheKey: c.Request.RequestURI + ":" + c.GetString("accountID"),
			}
		}),
	)
}
