package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/wealth-crm/internal/audit"
	"github.com/BruksfildServices01/wealth-crm/internal/config"
	"github.com/BruksfildServices01/wealth-crm/internal/handlers"
	infraRepo "github.com/BruksfildServices01/wealth-crm/internal/infra/repository"
	"github.com/BruksfildServices01/wealth-crm/internal/middleware"
	"github.com/BruksfildServices01/wealth-crm/internal/timezone"
	ucAvailability "github.com/BruksfildServices01/wealth-crm/internal/usecase/availability"
	ucBooking "github.com/BruksfildServices01/wealth-crm/internal/usecase/booking"
	ucDeal "github.com/BruksfildServices01/wealth-crm/internal/usecase/deal"
)

// Deps are the adapters built in main. Nil Calendar or Locker disables
// that feature.
type Deps struct {
	Logger      *zap.Logger
	Audit       *audit.Dispatcher
	AuditLogger *audit.Logger

	Notifier ucBooking.Notifier
	Calendar ucBooking.CalendarSync
	Locker   ucBooking.Locker
	Archiver ucDeal.Archiver

	Clock timezone.Clock
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, deps Deps) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	templateRepo := infraRepo.NewTemplateGormRepository(db)
	bookingRepo := infraRepo.NewBookingGormRepository(db)
	dealRepo := infraRepo.NewDealGormRepository(db)

	effects := &ucBooking.Effects{
		Notifier: deps.Notifier,
		Calendar: deps.Calendar,
		Audit:    deps.Audit,
		Logger:   deps.Logger,
		BaseURL:  cfg.PublicBaseURL,
	}

	// ======================================================
	// USE CASES — AVAILABILITY
	// ======================================================
	publicTemplateUC := ucAvailability.NewGetPublicTemplate(templateRepo)
	listDatesUC := ucAvailability.NewListDates(templateRepo, deps.Clock, cfg.BookingLookAhead)
	getSlotsUC := ucAvailability.NewGetSlots(templateRepo, deps.Clock)

	// ======================================================
	// USE CASES — BOOKINGS
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(bookingRepo, deps.Locker, effects, deps.Clock)
	guestBookingUC := ucBooking.NewGetGuestBooking(bookingRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	contactHandler := handlers.NewContactHandler(db)

	templateHandler := handlers.NewTemplateHandler(
		ucAvailability.NewListTemplates(templateRepo),
		ucAvailability.NewGetTemplate(templateRepo),
		ucAvailability.NewCreateTemplate(templateRepo, deps.Audit),
		ucAvailability.NewUpdateTemplate(templateRepo, deps.Audit),
		ucAvailability.NewDeactivateTemplate(templateRepo, deps.Audit),
	)

	bookingHandler := handlers.NewBookingHandler(
		ucBooking.NewListBookings(bookingRepo, deps.Clock),
		ucBooking.NewConfirmBooking(bookingRepo, effects, deps.Clock),
		ucBooking.NewCancelBooking(bookingRepo, effects, deps.Clock),
		ucBooking.NewMarkNoShow(bookingRepo, effects, deps.Clock),
	)

	dealHandler := handlers.NewDealHandler(handlers.DealUseCases{
		Create:      ucDeal.NewCreateDeal(dealRepo, deps.Audit),
		Get:         ucDeal.NewGetDeal(dealRepo),
		List:        ucDeal.NewListDeals(dealRepo),
		History:     ucDeal.NewStageHistory(dealRepo),
		UpdateNotes: ucDeal.NewUpdateDiligenceNotes(dealRepo),
		AddDocument: ucDeal.NewAddDocument(dealRepo),
		Review:      ucDeal.NewReviewDocument(dealRepo, deps.Audit),
		SendKYC:     ucDeal.NewSendKYCRequest(dealRepo, deps.Notifier, deps.Audit, deps.Logger, deps.Clock),
		KYCDecision: ucDeal.NewRecordKYCDecision(dealRepo, deps.Audit, deps.Clock),
		Archive:     ucDeal.NewArchiveVerifiedDocuments(dealRepo, deps.Archiver, deps.Audit, deps.Logger, deps.Clock),
		Progress:    ucDeal.NewAutoProgress(dealRepo, deps.Audit, deps.Logger, deps.Clock),
		SetStage:    ucDeal.NewSetStage(dealRepo, deps.Audit, deps.Clock),
	})

	auditLogsHandler := handlers.NewAuditLogsHandler(deps.AuditLogger)

	publicHandler := handlers.NewPublicHandler(
		publicTemplateUC,
		listDatesUC,
		getSlotsUC,
		createBookingUC,
		guestBookingUC,
	)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/templates/:link", publicHandler.GetTemplate)
			publicAPI.GET("/templates/:link/dates", publicHandler.ListDates)
			publicAPI.GET("/templates/:link/slots", publicHandler.ListSlots)
			publicAPI.POST("/templates/:link/bookings", publicHandler.CreateBooking)

			publicAPI.GET("/bookings/:id", publicHandler.GetBooking)
			publicAPI.GET("/bookings/:id/ics", publicHandler.BookingICS)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.PATCH("/me", meHandler.UpdateMe)

			secured.GET("/me/contacts", contactHandler.List)
			secured.POST("/me/contacts", contactHandler.Create)

			// ------------------------------
			// TEMPLATES
			// ------------------------------
			secured.GET("/me/templates", templateHandler.List)
			secured.POST("/me/templates", templateHandler.Create)
			secured.GET("/me/templates/:id", templateHandler.Get)
			secured.PUT("/me/templates/:id", templateHandler.Update)
			secured.PATCH("/me/templates/:id/deactivate", templateHandler.Deactivate)

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.GET("/me/bookings", bookingHandler.List)
			secured.GET("/me/bookings.ics", bookingHandler.ExportICS)
			secured.PATCH("/me/bookings/:id/confirm", bookingHandler.Confirm)
			secured.PATCH("/me/bookings/:id/cancel", bookingHandler.Cancel)
			secured.PATCH("/me/bookings/:id/no-show", bookingHandler.NoShow)

			// ------------------------------
			// DEALS
			// ------------------------------
			secured.GET("/me/deals", dealHandler.List)
			secured.POST("/me/deals", dealHandler.Create)
			secured.GET("/me/deals/:id", dealHandler.Get)
			secured.GET("/me/deals/:id/history", dealHandler.History)
			secured.PUT("/me/deals/:id/notes", dealHandler.UpdateNotes)
			secured.POST("/me/deals/:id/documents", dealHandler.AddDocument)
			secured.PATCH("/me/deals/:id/documents/:docId", dealHandler.ReviewDocument)

			secured.POST("/me/deals/:id/kyc-request", dealHandler.SendKYC)
			secured.POST("/me/deals/:id/kyc-decision", dealHandler.KYCDecision)
			secured.POST("/me/deals/:id/archive", dealHandler.Archive)
			secured.POST("/me/deals/:id/progress", dealHandler.Progress)
			secured.PUT("/me/deals/:id/stage", dealHandler.SetStage)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
