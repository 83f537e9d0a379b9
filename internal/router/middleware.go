package router

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/cardmart-next/internal/authz"
	"github.com/cardmart-next/internal/cache"
	"github.com/cardmart-next/internal/config"
	handlershared "github.com/cardmart-next/internal/http/handlers/shared"
	"github.com/cardmart-next/internal/http/response"
	"github.com/cardmart-next/internal/logger"
	"github.com/cardmart-next/internal/metrics"
	"github.com/cardmart-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"

// AccessTokenParser 解析访问令牌
type AccessTokenParser interface {
	ParseAccessToken(raw string) (*service.TokenClaims, error)
}

// AuthStateLoader 按邮箱加载鉴权快照
type AuthStateLoader interface {
	LoadAuthState(ctx context.Context, email string) (*cache.UserAuthState, error)
}

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
			"X-Request-ID",
			"traceparent",
			"tracestate",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件，同时写入请求 context 供服务层日志使用
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

// TraceContextMiddleware 提取 W3C traceparent，使下游 span 与上游调用链关联
func TraceContextMiddleware() gin.HandlerFunc {
	prop := propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})
	return func(c *gin.Context) {
		ctx := prop.Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			fields = append(fields, "trace_id", sc.TraceID().String())
		}
		log := sugar.With(fields...)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

// MetricsMiddleware 记录请求计数与耗时，路由使用模板路径以控制标签基数
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// JWTAuthMiddleware 校验访问令牌并构建认证主体，权限以最新鉴权快照为准
func JWTAuthMiddleware(tokens AccessTokenParser, states AuthStateLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokens == nil || states == nil {
			logger.Errorw("jwt_auth_dependencies_missing")
			response.Unauthorized(c, "authentication unavailable")
			return
		}
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.Unauthorized(c, "missing bearer token")
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Unauthorized(c, "authorization header must use the Bearer scheme")
			return
		}

		claims, err := tokens.ParseAccessToken(authHeader)
		if err != nil {
			handlershared.RespondError(c, err)
			return
		}

		state, err := states.LoadAuthState(c.Request.Context(), claims.Subject)
		if err != nil {
			logger.Ctx(c.Request.Context()).Errorw("jwt_auth_state_load_failed", "subject", claims.Subject, "error", err)
			response.Unauthorized(c, "invalid token")
			return
		}
		if state == nil || state.UserID == 0 {
			response.Unauthorized(c, "invalid token")
			return
		}
		if !state.Active {
			response.Unauthorized(c, "account disabled")
			return
		}

		handlershared.SetPrincipal(c, &authz.Principal{
			UserID:      state.UserID,
			Email:       state.Email,
			Permissions: state.Permissions,
		})
		c.Next()
	}
}

// RBACMiddleware 基于 casbin 的路由鉴权，以主体的全部权限角色执行判断
func RBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("rbac_service_unavailable")
			response.Unauthorized(c, "authorization unavailable")
			return
		}
		principal, ok := handlershared.GetPrincipal(c)
		if !ok {
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}

		allowed, err := authzService.EnforcePermissions(principal.Permissions, resource, c.Request.Method)
		if err != nil {
			logger.Ctx(c.Request.Context()).Errorw("rbac_enforce_failed",
				"user_id", principal.UserID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			response.Unauthorized(c, "user unauthorized")
			return
		}
		if !allowed {
			logger.Ctx(c.Request.Context()).Warnw("rbac_permission_denied",
				"user_id", principal.UserID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"resource", authz.NormalizeObject(resource),
			)
			response.Unauthorized(c, "user unauthorized")
			return
		}

		c.Next()
	}
}
