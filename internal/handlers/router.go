package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/result-academic/records-service/internal/authz"
	"github.com/result-academic/records-service/internal/repositories"
	"github.com/result-academic/records-service/internal/services"
	"github.com/result-academic/records-service/internal/utils"
)

type HandlerManager struct {
	authHandler        *AuthHandler
	publicationHandler *PublicationHandler
	awardHandler       *AwardHandler
	recognitionHandler *RecognitionHandler
	eventHandler       *EventHandler
	userHandler        *UserHandler
	departmentHandler  *DepartmentHandler
	roleHandler        *RoleHandler
	reportHandler      *ReportHandler
	authMiddleware     *JWTAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	jwtSecret string,
	userRepo repositories.UserRepository,
	resolver *authz.Resolver,
) *HandlerManager {
	return &HandlerManager{
		authHandler:        NewAuthHandler(serviceManager.Auth(), logger),
		publicationHandler: NewPublicationHandler(serviceManager.Publication(), logger),
		awardHandler:       NewAwardHandler(serviceManager.Award(), logger),
		recognitionHandler: NewRecognitionHandler(serviceManager.Recognition(), logger),
		eventHandler:       NewEventHandler(serviceManager.Event(), logger),
		userHandler:        NewUserHandler(serviceManager.User(), logger),
		departmentHandler:  NewDepartmentHandler(serviceManager.Department(), logger),
		roleHandler:        NewRoleHandler(serviceManager.Role(), logger),
		reportHandler:      NewReportHandler(serviceManager.Report(), logger),
		authMiddleware:     NewJWTAuthMiddleware(jwtSecret, userRepo, resolver),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Public endpoints
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", hm.authHandler.Register)
		auth.POST("/login", hm.authHandler.Login)
	}

	// Authenticated API
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Result routes. Scoping happens in the services, so every
		// authenticated user may call these.
		publications := v1.Group("/publications")
		{
			publications.POST("", hm.publicationHandler.CreatePublication)
			publications.GET("", hm.publicationHandler.ListPublications)
			publications.GET("/:id", hm.publicationHandler.GetPublication)
			publications.PUT("/:id", hm.publicationHandler.UpdatePublication)
			publications.DELETE("/:id", hm.publicationHandler.DeletePublication)
		}

		awards := v1.Group("/awards")
		{
			awards.POST("", hm.awardHandler.CreateAward)
			awards.GET("", hm.awardHandler.ListAwards)
			awards.GET("/:id", hm.awardHandler.GetAward)
			awards.PUT("/:id", hm.awardHandler.UpdateAward)
			awards.DELETE("/:id", hm.awardHandler.DeleteAward)
		}

		recognitions := v1.Group("/recognitions")
		{
			recognitions.POST("", hm.recognitionHandler.CreateRecognition)
			recognitions.GET("", hm.recognitionHandler.ListRecognitions)
			recognitions.GET("/:id", hm.recognitionHandler.GetRecognition)
			recognitions.PUT("/:id", hm.recognitionHandler.UpdateRecognition)
			recognitions.DELETE("/:id", hm.recognitionHandler.DeleteRecognition)
		}

		eventRoutes := v1.Group("/events")
		{
			eventRoutes.POST("", hm.eventHandler.CreateEvent)
			eventRoutes.GET("", hm.eventHandler.ListEvents)
			eventRoutes.GET("/:id", hm.eventHandler.GetEvent)
			eventRoutes.PUT("/:id", hm.eventHandler.UpdateEvent)
			eventRoutes.DELETE("/:id", hm.eventHandler.DeleteEvent)
		}

		// Author search for result forms
		v1.GET("/users/search", hm.userHandler.SearchUsers)

		// Department directory
		v1.GET("/departments", hm.departmentHandler.ListDepartments)
		v1.GET("/departments/:id", hm.departmentHandler.GetDepartment)

		// Report export, limited to the caller's view scope
		v1.GET("/reports/results/export", hm.reportHandler.ExportResults)

		// Administration routes
		admin := v1.Group("/admin")
		{
			users := admin.Group("/users")
			users.Use(hm.authMiddleware.RequirePermissionMiddleware(authz.PermManageUsers, authz.PermViewAllUsers))
			{
				users.GET("", hm.userHandler.ListUsers)
				users.GET("/:id", hm.userHandler.GetUser)
				users.POST("", hm.userHandler.CreateUser)
				users.PUT("/:id", hm.userHandler.UpdateUser)
				users.PATCH("/:id/status", hm.userHandler.SetUserStatus)
				users.DELETE("/:id", hm.userHandler.DeleteUser)
			}

			departments := admin.Group("/departments")
			departments.Use(hm.authMiddleware.RequirePermissionMiddleware(
				authz.PermCreateDepartment, authz.PermEditDepartment, authz.PermDeleteDepartment))
			{
				departments.POST("", hm.departmentHandler.CreateDepartment)
				departments.PUT("/:id", hm.departmentHandler.UpdateDepartment)
				departments.DELETE("/:id", hm.departmentHandler.DeleteDepartment)
			}

			roles := admin.Group("/roles")
			roles.Use(hm.authMiddleware.RequirePermissionMiddleware(authz.PermManageRolesPermissions))
			{
				roles.GET("", hm.roleHandler.ListRoles)
				roles.POST("", hm.roleHandler.CreateRole)
				roles.PUT("/:id/permissions", hm.roleHandler.SyncRolePermissions)
				roles.DELETE("/:id", hm.roleHandler.DeleteRole)
			}

			admin.GET("/permissions",
				hm.authMiddleware.RequirePermissionMiddleware(authz.PermManageRolesPermissions),
				hm.roleHandler.ListPermissions)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "records-service",
		})
	})
}
