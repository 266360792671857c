package router

import (
	"time"

	"medbase/config"
	"medbase/internal/domain"
	"medbase/internal/handler"
	"medbase/internal/middleware"
	"medbase/internal/repository"
	"medbase/internal/service"
	"medbase/pkg/filestore"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, files *filestore.Store, log *zap.SugaredLogger) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// Login gets a tight per-IP budget against credential stuffing; the
	// rest of the API is budgeted per operator after authentication.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	apiLimiter := middleware.NewRateLimiter(300, time.Minute)

	// Uploaded files are web-servable at the same relative paths the
	// property bags store.
	r.Static(filestore.BaseURL, cfg.Uploads.Root)

	// Repositories
	categoryRepo := repository.NewCategoryRepository(db)
	defRepo := repository.NewDefinitionRepository(db)
	fieldRepo := repository.NewFieldRepository(db)
	recordRepo := repository.NewRecordRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	visitRepo := repository.NewVisitRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	positionRepo := repository.NewPositionRepository(db)
	operatorRepo := repository.NewOperatorRepository(db)

	// Services
	authSvc := service.NewAuthService(cfg, operatorRepo)
	metadataSvc := service.NewMetadataService(defRepo, fieldRepo, categoryRepo, recordRepo)
	recordSvc := service.NewRecordService(defRepo, fieldRepo, recordRepo, files, log)
	searchSvc := service.NewPatientSearchService(patientRepo)
	statsSvc := service.NewStatisticsService(visitRepo)
	importSvc := service.NewImportService(patientRepo, visitRepo, appointmentRepo, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	definitionHandler := handler.NewDefinitionHandler(metadataSvc)
	recordHandler := handler.NewRecordHandler(recordSvc, metadataSvc)
	patientHandler := handler.NewPatientHandler(patientRepo, visitRepo, searchSvc, statsSvc)
	employeeHandler := handler.NewEmployeeHandler(employeeRepo, recordSvc)
	departmentHandler := handler.NewDepartmentHandler(departmentRepo, recordSvc)
	positionHandler := handler.NewPositionHandler(positionRepo, recordSvc)
	importHandler := handler.NewImportHandler(importSvc, appointmentRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)
	adminMw := middleware.RequireRole(domain.RoleAdmin)

	api := r.Group("/api/v1")
	{
		api.POST("/auth/login", middleware.RateLimitByIP(loginLimiter), authHandler.Login)

		secured := api.Group("")
		secured.Use(authMw, middleware.RateLimitByOperator(apiLimiter))
		{
			secured.PATCH("/auth/change-password", authHandler.ChangePassword)

			secured.GET("/categories", definitionHandler.ListCategories)
			secured.POST("/categories", adminMw, definitionHandler.CreateCategory)

			secured.GET("/definitions", definitionHandler.List)
			secured.POST("/definitions", adminMw, definitionHandler.Create)
			secured.GET("/definitions/:id", definitionHandler.Get)
			secured.PUT("/definitions/:id", adminMw, definitionHandler.Update)
			secured.DELETE("/definitions/:id", adminMw, definitionHandler.Delete)
			secured.POST("/definitions/:id/fields", adminMw, definitionHandler.AddField)
			secured.DELETE("/definitions/:id/fields/:fieldId", adminMw, definitionHandler.DeleteField)
			secured.POST("/definitions/:id/compact", adminMw, definitionHandler.Compact)

			secured.GET("/data/:entityCode", recordHandler.List)
			secured.POST("/data/:entityCode", recordHandler.Create)
			secured.GET("/data/:entityCode/:id", recordHandler.Get)
			secured.PUT("/data/:entityCode/:id", recordHandler.Update)
			secured.DELETE("/data/:entityCode/:id", recordHandler.Delete)

			secured.GET("/patients", patientHandler.List)
			secured.GET("/patients/:id", patientHandler.Details)
			secured.GET("/search/visits", patientHandler.Search)
			secured.GET("/reports/period", patientHandler.PeriodReport)

			secured.GET("/appointments", importHandler.ListAppointments)
			secured.POST("/imports/visits", importHandler.ImportVisits)
			secured.POST("/imports/appointments", importHandler.ImportAppointments)

			secured.GET("/employees", employeeHandler.List)
			secured.POST("/employees", employeeHandler.Create)
			secured.GET("/employees/:id", employeeHandler.Get)
			secured.PUT("/employees/:id", employeeHandler.Update)
			secured.POST("/employees/:id/dismiss", employeeHandler.Dismiss)
			secured.POST("/employees/:id/restore", employeeHandler.Restore)

			secured.GET("/departments", departmentHandler.List)
			secured.POST("/departments", departmentHandler.Create)
			secured.PUT("/departments/:id", departmentHandler.Update)
			secured.DELETE("/departments/:id", departmentHandler.Delete)

			secured.GET("/positions", positionHandler.List)
			secured.POST("/positions", positionHandler.Create)
			secured.PUT("/positions/:id", positionHandler.Update)
			secured.DELETE("/positions/:id", positionHandler.Delete)
		}
	}
	return r
}
