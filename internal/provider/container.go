package provider

import (
	"errors"

	"github.com/cardmart-next/internal/authz"
	"github.com/cardmart-next/internal/cache"
	"github.com/cardmart-next/internal/config"
	"github.com/cardmart-next/internal/events"
	"github.com/cardmart-next/internal/logger"
	"github.com/cardmart-next/internal/metrics"
	"github.com/cardmart-next/internal/models"
	"github.com/cardmart-next/internal/queue"
	"github.com/cardmart-next/internal/repository"
	"github.com/cardmart-next/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config         *config.Config
	QueueClient    *queue.Client
	EventPublisher events.Publisher
	Metrics        *metrics.Metrics

	// Repositories
	UserRepo           repository.UserRepository
	UserAddressRepo    repository.UserAddressRepository
	ProductTypeRepo    repository.ProductTypeRepository
	ProductRepo        repository.ProductRepository
	YugiohCardRepo     repository.YugiohCardRepository
	InventoryRepo      repository.InventoryRepository
	CartRepo           repository.CartRepository
	OrderRepo          repository.OrderRepository
	OrderStatusLogRepo repository.OrderStatusLogRepository

	// Services
	AuthzService       *authz.Service
	RolePolicyService  *service.RolePolicyService
	TokenService       *service.TokenService
	AuthService        *service.AuthService
	UserService        *service.UserService
	UserAddressService *service.UserAddressService
	ProductTypeService *service.ProductTypeService
	ProductService     *service.ProductService
	YugiohCardService  *service.YugiohCardService
	InventoryService   *service.InventoryService
	CartService        *service.CartService
	OrderService       *service.OrderService
}

// NewContainer 初始化容器（使用全局数据库连接）
func NewContainer(cfg *config.Config) *Container {
	return NewContainerWithDB(cfg, models.DB)
}

// NewContainerWithDB 使用指定数据库连接初始化容器
func NewContainerWithDB(cfg *config.Config, db *gorm.DB) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient = nil
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace)
	}

	c := &Container{
		Config:         cfg,
		QueueClient:    queueClient,
		EventPublisher: events.NewPublisher(cfg.Kafka),
		Metrics:        m,
	}

	// 1. 初始化 Repositories
	c.initRepositories(db)

	// 2. 初始化 Services
	c.initServices(db)

	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.UserRepo = repository.NewUserRepository(db)
	c.UserAddressRepo = repository.NewUserAddressRepository(db)
	c.ProductTypeRepo = repository.NewProductTypeRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.YugiohCardRepo = repository.NewYugiohCardRepository(db)
	c.InventoryRepo = repository.NewInventoryRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.OrderStatusLogRepo = repository.NewOrderStatusLogRepository(db)
}

func (c *Container) initServices(db *gorm.DB) {
	authzService, err := authz.NewService(db)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.RolePolicyService = service.NewRolePolicyService(c.AuthzService)

	c.TokenService = service.NewTokenService(c.Config.JWT)
	c.AuthService = service.NewAuthService(c.Config, c.UserRepo, c.TokenService)
	c.UserService = service.NewUserService(c.Config, c.UserRepo)
	c.UserAddressService = service.NewUserAddressService(c.UserAddressRepo)
	c.ProductTypeService = service.NewProductTypeService(c.ProductTypeRepo, c.ProductRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.ProductTypeRepo, c.InventoryRepo)
	c.YugiohCardService = service.NewYugiohCardService(c.YugiohCardRepo, c.InventoryRepo)
	c.InventoryService = service.NewInventoryService(c.InventoryRepo, c.ProductRepo, c.YugiohCardRepo, c.CartRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.InventoryRepo)
	c.OrderService = service.NewOrderService(db, c.OrderRepo, c.InventoryRepo, c.QueueClient, c.Metrics)
}

// Close 释放容器持有的外部连接：队列客户端、事件发布器与 Redis
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
			errs = append(errs, err)
		}
	}
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			logger.Warnw("provider_close_event_publisher_failed", "error", err)
			errs = append(errs, err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
