package router

import (
	"net/http"
	"time"

	"github.com/Solomon-Dzokoto/hng-wallet/config"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/auth"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/handler"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/middleware"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/repository"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/service"
	"github.com/Solomon-Dzokoto/hng-wallet/pkg/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, provider payment.Provider) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	keyRepo := repository.NewAPIKeyRepository(db)

	// Services
	walletSvc := service.NewWalletService(db, walletRepo, txRepo)
	depositSvc := service.NewDepositService(db, userRepo, walletSvc, txRepo, provider, cfg.Paystack.WebhookSecret)
	keySvc := service.NewAPIKeyService(db, userRepo, keyRepo)
	authSvc := service.NewAuthService(cfg, db, userRepo, walletSvc)

	// Handlers
	oauthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc)
	walletHandler := handler.NewWalletHandler(walletSvc)
	depositHandler := handler.NewDepositHandler(depositSvc)
	webhookHandler := handler.NewWebhookHandler(depositSvc)
	keyHandler := handler.NewAPIKeyHandler(keySvc)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/auth/google")
	{
		authGroup.GET("", oauthHandler.Redirect)
		authGroup.GET("/callback", oauthHandler.Callback)
		authGroup.POST("/token", oauthHandler.Token)
	}

	authenticated := middleware.Authenticate(&cfg.JWT, keySvc)

	wallet := r.Group("/wallet")
	{
		// Signature-gated, no principal: the provider is not a principal.
		wallet.POST("/paystack/webhook", webhookHandler.Handle)

		wallet.GET("/balance", authenticated, middleware.RequirePermission(auth.PermRead), walletHandler.GetBalance)
		wallet.GET("/transactions", authenticated, middleware.RequirePermission(auth.PermRead), walletHandler.ListTransactions)
		wallet.GET("/deposit/:reference/status", authenticated, middleware.RequirePermission(auth.PermRead), depositHandler.Status)
		wallet.POST("/deposit", authenticated, middleware.RequirePermission(auth.PermDeposit), depositHandler.Initiate)
		wallet.POST("/transfer", authenticated, middleware.RequirePermission(auth.PermTransfer), walletHandler.Transfer)
	}

	keys := r.Group("/keys", authenticated, middleware.RequireSession())
	{
		keys.POST("", keyHandler.Create)
		keys.GET("", keyHandler.List)
		keys.POST("/rollover", keyHandler.Rollover)
		keys.POST("/revoke/:id", keyHandler.Revoke)
	}

	return r
}
