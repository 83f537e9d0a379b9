package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cardmart-next/internal/cache"
	"github.com/cardmart-next/internal/config"
	"github.com/cardmart-next/internal/constants"
	adminhandlers "github.com/cardmart-next/internal/http/handlers/admin"
	publichandlers "github.com/cardmart-next/internal/http/handlers/public"
	handlershared "github.com/cardmart-next/internal/http/handlers/shared"
	"github.com/cardmart-next/internal/http/response"
	"github.com/cardmart-next/internal/logger"
	"github.com/cardmart-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	handlershared.RegisterValidators()
	r := gin.New()

	// 初始化 Handler（读与自助接口 / 目录写接口）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	signInRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:signin", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "too many sign-in attempts, retry in %d seconds",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(TraceContextMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(MetricsMiddleware(c.Metrics))
	r.Use(CORSMiddleware(cfg.CORS))

	jwtAuth := JWTAuthMiddleware(c.TokenService, c.AuthService)
	r.NoRoute(func(ctx *gin.Context) {
		// 未知的 /api 路径同样先要求访问令牌
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			jwtAuth(ctx)
			if ctx.IsAborted() {
				return
			}
		}
		response.Error(ctx, response.WrapError(http.StatusNotFound, "ResourceNotFound", "Resource not found", "route not found", nil))
	})

	r.GET("/healthz", func(ctx *gin.Context) {
		response.Success(ctx, gin.H{"status": "ok"})
	})
	if cfg.Metrics.Enabled && c.Metrics != nil {
		metricsPath := strings.TrimSpace(cfg.Metrics.Path)
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		r.GET(metricsPath, gin.WrapH(c.Metrics.Handler()))
	}

	// 认证接口（无需令牌）
	auth := r.Group("/auth")
	{
		auth.POST("/signup", publicHandler.SignUp)
		auth.POST("/signin", RateLimitMiddleware(cache.Client(), signInRule, KeyByIPAndJSONField("email")), publicHandler.SignIn)
		auth.PUT("/refresh", publicHandler.Refresh)
	}

	// API 路由组：访问令牌 + RBAC，服务层再做归属校验
	apiV1 := r.Group("/api/v1")
	apiV1.Use(jwtAuth, RBACMiddleware(c.AuthzService))
	{
		apiV1.GET("/order", publicHandler.ListOrders)
		apiV1.POST("/order", publicHandler.CreateOrder)
		apiV1.GET("/order/:id", publicHandler.GetOrder)
		apiV1.PUT("/order/:id/cancel", publicHandler.CancelOrder)

		apiV1.GET("/product-type", publicHandler.ListProductTypes)
		apiV1.GET("/product-type/:id", publicHandler.GetProductType)
		apiV1.POST("/product-type", adminHandler.CreateProductType)
		apiV1.PUT("/product-type/:id", adminHandler.UpdateProductType)
		apiV1.DELETE("/product-type/:id", adminHandler.DeleteProductType)

		apiV1.GET("/product", publicHandler.ListProducts)
		apiV1.GET("/product/:id", publicHandler.GetProduct)
		apiV1.POST("/product", adminHandler.CreateProduct)
		apiV1.PUT("/product/:id", adminHandler.UpdateProduct)
		apiV1.DELETE("/product/:id", adminHandler.DeleteProduct)

		apiV1.GET("/yugioh-card", publicHandler.ListYugiohCards)
		apiV1.GET("/yugioh-card/categories", publicHandler.ListYugiohCardCategories)
		apiV1.GET("/yugioh-card/types", publicHandler.ListYugiohCardTypes)
		apiV1.GET("/yugioh-card/:id", publicHandler.GetYugiohCard)
		apiV1.POST("/yugioh-card", adminHandler.CreateYugiohCard)
		apiV1.PUT("/yugioh-card/:id", adminHandler.UpdateYugiohCard)
		apiV1.DELETE("/yugioh-card/:id", adminHandler.DeleteYugiohCard)

		apiV1.GET("/inventory", publicHandler.ListInventory)
		apiV1.GET("/inventory/:id", publicHandler.GetInventoryItem)
		apiV1.POST("/inventory", adminHandler.CreateInventoryItem)
		apiV1.PUT("/inventory/:id", adminHandler.UpdateInventoryItem)
		apiV1.DELETE("/inventory/:id", adminHandler.DeleteInventoryItem)

		apiV1.GET("/users/:id", publicHandler.GetUser)
		apiV1.PUT("/users/:id/personal-info", publicHandler.UpdatePersonalInfo)
		apiV1.PUT("/users/:id/password", publicHandler.ChangePassword)

		apiV1.GET("/users/:id/cart", publicHandler.GetCart)
		apiV1.POST("/users/:id/cart", publicHandler.AddCartItem)
		apiV1.DELETE("/users/:id/cart", publicHandler.ClearCart)
		apiV1.PUT("/users/:id/cart/:item_id", publicHandler.UpdateCartItem)
		apiV1.DELETE("/users/:id/cart/:item_id", publicHandler.DeleteCartItem)

		apiV1.GET("/users/:id/addresses", publicHandler.ListAddresses)
		apiV1.POST("/users/:id/addresses", publicHandler.CreateAddress)
		apiV1.PUT("/users/:id/addresses/:address_id", publicHandler.UpdateAddress)
		apiV1.DELETE("/users/:id/addresses/:address_id", publicHandler.DeleteAddress)

		apiV1.GET("/authz/roles", adminHandler.ListAuthzRoles)
		apiV1.POST("/authz/roles", adminHandler.CreateAuthzRole)
		apiV1.GET("/authz/roles/:role", adminHandler.GetAuthzRole)
		apiV1.DELETE("/authz/roles/:role", adminHandler.DeleteAuthzRole)
		apiV1.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
		apiV1.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
		apiV1.POST("/authz/reload", adminHandler.ReloadAuthzPolicy)
	}

	return r
}
