package routes

import (
	"github.com/gin-gonic/gin"

	"frota/internal/core/container"
	"frota/internal/middleware"
	"frota/pkg/security"
)

// RegisterPublicRoutes wires the endpoints reachable without a token.
func RegisterPublicRoutes(router *gin.Engine, container *container.Container) {
	container.LoginHandler.RegisterRoutes(router)
}

// RegisterProtectedRoutes wires everything behind JWT validation and
// actor resolution.
func RegisterProtectedRoutes(router *gin.Engine, container *container.Container) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())
	protectedRoutes.Use(security.ActorMiddleware(container.Resolver))

	container.VehicleHandler.RegisterRoutes(protectedRoutes)
	container.RegionHandler.RegisterRoutes(protectedRoutes)
	container.OrderHandler.RegisterRoutes(protectedRoutes)
	container.PartHandler.RegisterRoutes(protectedRoutes)
	container.ShopHandler.RegisterRoutes(protectedRoutes)
	container.StatsHandler.RegisterRoutes(protectedRoutes)
	container.StaffHandler.RegisterRoutes(protectedRoutes)
	container.AuditLogHandler.RegisterRoutes(protectedRoutes)
}

func RegisterUtilityRoutes(router *gin.Engine) {
	router.GET("/health", middleware.HealthCheckMiddleware())
}
