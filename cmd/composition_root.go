package cmd

import (
	"log/slog"

	httpin "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/cache"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/zonerepo"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/ports"
	"marketplace/internal/jobs"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	logger     *slog.Logger
	uowFactory postgres.GormUnitOfWorkFactory

	catalog       ports.ZoneCatalog
	cachedCatalog *cache.CachedZoneCatalog
	idempotency   ports.IdempotencyStore
}

// NewCompositionRoot wires the adapters. A nil redisClient leaves coordinate
// lookups on the database and disables idempotency keys.
func NewCompositionRoot(config Config, gormDB *gorm.DB, redisClient *redis.Client, logger *slog.Logger) CompositionRoot {
	c := CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		logger:     logger,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		catalog:    zonerepo.NewGormZoneCatalog(gormDB),
	}
	if redisClient != nil {
		c.cachedCatalog = cache.NewCachedZoneCatalog(redisClient, c.catalog, config.ZoneCacheTTL, logger)
		c.catalog = c.cachedCatalog
		c.idempotency = cache.NewIdempotencyStore(redisClient)
	}
	return c
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.idempotency, c.logger)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewChangeOrderStatusCommandHandler(f)
}

func (c *CompositionRoot) CreateCreateZoneCommandHandler() commands.CreateZoneCommandHandler {
	var f commands.ZoneUoWFactory = FuncZoneUoWFactory(func() commands.ZoneUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateZoneCommandHandler(f, c.catalog, c.logger)
}

func (c *CompositionRoot) CreateUpdateZoneCommandHandler() commands.UpdateZoneCommandHandler {
	var f commands.ZoneUoWFactory = FuncZoneUoWFactory(func() commands.ZoneUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateZoneCommandHandler(f, c.catalog, c.logger)
}

// zoneRepository is bound to the plain connection; the unit of work is never begun.
func (c *CompositionRoot) zoneRepository() ports.ZoneRepository {
	return c.uowFactory.Create().ZoneRepository()
}

func (c *CompositionRoot) CreateListZonesQueryHandler() queries.ListZonesQueryHandler {
	return queries.NewListZonesQueryHandler(c.zoneRepository())
}

func (c *CompositionRoot) CreateGetZoneQueryHandler() queries.GetZoneQueryHandler {
	return queries.NewGetZoneQueryHandler(c.zoneRepository())
}

func (c *CompositionRoot) CreateFindZoneByCoordinateQueryHandler() queries.FindZoneByCoordinateQueryHandler {
	return queries.NewFindZoneByCoordinateQueryHandler(c.catalog)
}

func (c *CompositionRoot) CreateSearchNeighborhoodsQueryHandler() queries.SearchNeighborhoodsQueryHandler {
	return queries.NewSearchNeighborhoodsQueryHandler(c.zoneRepository())
}

func (c *CompositionRoot) CreateValidateOrderForZoneQueryHandler() queries.ValidateOrderForZoneQueryHandler {
	return queries.NewValidateOrderForZoneQueryHandler(c.zoneRepository())
}

func (c *CompositionRoot) CreateGetZoneStatisticsQueryHandler() queries.GetZoneStatisticsQueryHandler {
	return queries.NewGetZoneStatisticsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetMerchantOrdersQueryHandler() queries.GetMerchantOrdersQueryHandler {
	return queries.NewGetMerchantOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderHistoryQueryHandler() queries.GetOrderHistoryQueryHandler {
	return queries.NewGetOrderHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CreateOrder:          c.CreateCreateOrderCommandHandler(),
		ChangeOrderStatus:    c.CreateChangeOrderStatusCommandHandler(),
		CreateZone:           c.CreateCreateZoneCommandHandler(),
		UpdateZone:           c.CreateUpdateZoneCommandHandler(),
		ListZones:            c.CreateListZonesQueryHandler(),
		GetZone:              c.CreateGetZoneQueryHandler(),
		FindZone:             c.CreateFindZoneByCoordinateQueryHandler(),
		SearchNeighborhoods:  c.CreateSearchNeighborhoodsQueryHandler(),
		ValidateOrderForZone: c.CreateValidateOrderForZoneQueryHandler(),
		ZoneStatistics:       c.CreateGetZoneStatisticsQueryHandler(),
		MerchantOrders:       c.CreateGetMerchantOrdersQueryHandler(),
		GetOrder:             c.CreateGetOrderQueryHandler(),
		OrderHistory:         c.CreateGetOrderHistoryQueryHandler(),
	}, c.logger)
}

// ZoneCacheWarmer returns nil when the zone cache is disabled.
func (c *CompositionRoot) ZoneCacheWarmer() jobs.ZoneCacheWarmer {
	if c.cachedCatalog == nil {
		return nil
	}
	return c.cachedCatalog
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(jobs.Config{
		ZoneCacheWarmupSpec: c.config.ZoneCacheWarmupSpec,
		ZoneStatisticsSpec:  c.config.ZoneStatisticsSpec,
	}, c.ZoneCacheWarmer(), c.CreateGetZoneStatisticsQueryHandler(), c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncZoneUoWFactory func() commands.ZoneUoW

func (f FuncZoneUoWFactory) Create() commands.ZoneUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
