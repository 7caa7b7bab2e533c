package container

import (
	"database/sql"
	"os"

	"frota/internal/accesspolicy"
	auditLogRepo "frota/internal/auditlog"
	"frota/internal/externalshops"
	"frota/internal/identity"
	"frota/internal/inventory"
	"frota/internal/regions"
	"frota/internal/repository"
	"frota/internal/statistics"
	"frota/internal/vehicles"
	"frota/internal/workorders"
	"frota/pkg/auditlog"
	"frota/pkg/security"
)

type Container struct {
	Repository      *repository.Repository
	Policy          *accesspolicy.Engine
	Resolver        *identity.Resolver
	AuditLog        *auditlog.Auditlog
	LoginHandler    *security.LoginHandler
	StaffHandler    *identity.StaffHandler
	VehicleHandler  *vehicles.VehicleHandler
	RegionHandler   *regions.RegionHandler
	OrderHandler    *workorders.OrderHandler
	PartHandler     *inventory.PartHandler
	ShopHandler     *externalshops.ShopHandler
	StatsHandler    *statistics.StatsHandler
	AuditLogHandler *auditLogRepo.AuditLogHandler
}

func NewAppContainer(db *sql.DB) *Container {
	repo := repository.NewRepository(db)
	policy := accesspolicy.NewEngine(accesspolicy.ConfigFromEnv())

	auditLog := auditlog.NewAuditLog(auditLogRepo.NewRepository(repo))

	staffRepo := identity.NewStaffRepository(repo)
	resolver := identity.NewResolver(staffRepo)
	loginHandler := security.NewLoginHandler(staffRepo)
	staffHandler := identity.NewStaffHandler(staffRepo, policy, auditLog)

	regionRepo := regions.NewRegionRepository(repo)
	regionHandler := regions.NewRegionHandler(regionRepo)

	vehicleRepo := vehicles.NewRepository(repo)
	vehicleHandler := vehicles.NewVehicleHandler(vehicleRepo, regionRepo, policy)

	orderRepo := workorders.NewOrderRepository(repo)
	orderService := workorders.NewOrderService(repo, orderRepo, vehicleRepo, policy, auditLog, workorders.ServiceConfig{
		RestoreVehicleOnCancel: os.Getenv("RESTORE_VEHICLE_ON_CANCEL") == "true",
	})
	orderHandler := workorders.NewOrderHandler(orderService)

	partRepo := inventory.NewPartRepository(repo)
	usageService := inventory.NewUsageService(repo, partRepo, orderRepo, policy, auditLog)
	partHandler := inventory.NewPartHandler(partRepo, usageService, policy)

	shopRepo := externalshops.NewShopRepository(repo)
	shopService := externalshops.NewShopService(shopRepo, orderRepo, policy, auditLog)
	shopHandler := externalshops.NewShopHandler(shopRepo, shopService, policy)

	statsRepo := statistics.NewStatsRepository(repo)
	statsService := statistics.NewStatsService(statsRepo, vehicleRepo, regionRepo, policy)
	statsHandler := statistics.NewStatsHandler(statsService)

	return &Container{
		Repository:      repo,
		Policy:          policy,
		Resolver:        resolver,
		AuditLog:        auditLog,
		LoginHandler:    loginHandler,
		StaffHandler:    staffHandler,
		VehicleHandler:  vehicleHandler,
		RegionHandler:   regionHandler,
		OrderHandler:    orderHandler,
		PartHandler:     partHandler,
		ShopHandler:     shopHandler,
		StatsHandler:    statsHandler,
		AuditLogHandler: auditLogRepo.NewHandler(auditLog),
	}
}
