package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/labplanner/backend/internal/config"
	"github.com/labplanner/backend/internal/db"
	"github.com/labplanner/backend/internal/http/handlers"
	"github.com/labplanner/backend/internal/http/middleware"
	"github.com/labplanner/backend/internal/ics"
	"github.com/labplanner/backend/internal/state"

	_ "github.com/labplanner/backend/docs"
)

func Router(cfg config.Config, manager *state.Manager, store *db.Store, fetcher ics.Fetcher, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.MaxMultipartMemory = cfg.MaxUploadSizeMB << 20

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Key", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		State:     manager,
		Store:     store,
		Fetcher:   fetcher,
		Validator: validator.New(),
		Logger:    logger,
		AdminKey:  cfg.AdminKey,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.GET("/snapshot", h.SnapshotGet)
		api.GET("/schedule/week", h.ScheduleWeek)
		api.GET("/status", h.StatusGet)
		api.GET("/absence-types", h.AbsenceTypesList)
		api.GET("/analytics", h.Analytics)
		api.GET("/share", h.ShareGet)
		api.POST("/share/decode", h.ShareDecode)
		api.GET("/runs/latest", h.RunsLatest)
		api.GET("/preferences", h.PreferencesGet)
		api.PUT("/preferences", h.PreferencesPut)
		api.GET("/notes/:week", h.NoteGet)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.PUT("/snapshot", h.SnapshotPut)
		admin.PUT("/notes/:week", h.NotePut)

		admin.POST("/instruments", h.InstrumentUpsert)
		admin.DELETE("/instruments/:id", h.InstrumentDelete)
		admin.POST("/instrument-categories", h.InstrumentCategoryUpsert)
		admin.DELETE("/instrument-categories/:id", h.InstrumentCategoryDelete)
		admin.POST("/campaign-categories", h.CampaignCategoryUpsert)
		admin.DELETE("/campaign-categories/:id", h.CampaignCategoryDelete)
		admin.POST("/personnel", h.PersonnelUpsert)
		admin.DELETE("/personnel/:id", h.PersonnelDelete)
		admin.POST("/absences", h.AbsenceUpsert)
		admin.DELETE("/absences/:id", h.AbsenceDelete)
		admin.POST("/campaigns", h.CampaignUpsert)
		admin.DELETE("/campaigns/:id", h.CampaignDelete)
		admin.POST("/bookings", h.BookingUpsert)
		admin.DELETE("/bookings/:id", h.BookingDelete)
		admin.POST("/overrides", h.OverrideSet)

		admin.POST("/templates/capture", h.TemplateCapture)
		admin.POST("/templates/:id/apply", h.TemplateApply)
		admin.DELETE("/templates/:id", h.TemplateDelete)

		admin.POST("/import/ics/absences", h.ImportICSAbsences)
		admin.POST("/import/ics/campaigns", h.ImportICSCampaigns)
		admin.POST("/absences/reprocess", h.ReprocessAbsences)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
