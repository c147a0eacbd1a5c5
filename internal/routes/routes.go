package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/memberx/deals-api/internal/audit"
	"github.com/memberx/deals-api/internal/cache"
	"github.com/memberx/deals-api/internal/config"
	"github.com/memberx/deals-api/internal/handlers"
	"github.com/memberx/deals-api/internal/infra/repository"
	"github.com/memberx/deals-api/internal/mailer"
	"github.com/memberx/deals-api/internal/media"
	"github.com/memberx/deals-api/internal/middleware"
	"github.com/memberx/deals-api/internal/rbac"
	"github.com/memberx/deals-api/internal/timezone"
	ucbooking "github.com/memberx/deals-api/internal/usecase/booking"
	ucinventory "github.com/memberx/deals-api/internal/usecase/inventory"
	ucvoucher "github.com/memberx/deals-api/internal/usecase/voucher"
)

func Setup(r *gin.Engine, db *gorm.DB, cfg *config.Config, cacheClient *cache.Client) {
	r.Use(middleware.CORSMiddleware())

	dispatcher := audit.NewDispatcher(audit.New(db))
	loc := timezone.Location(cfg.DefaultTimezone)

	inventoryRepo := repository.NewInventoryGormRepository(db)
	bookingRepo := repository.NewBookingGormRepository(db)
	voucherRepo := repository.NewVoucherGormRepository(db)

	smtpMailer := mailer.NewSMTP(cfg)
	uploader := media.NewUploader(cfg)

	generateSlots := ucinventory.NewGenerateSlots(inventoryRepo, dispatcher, loc)
	reserve := ucbooking.NewReserve(bookingRepo, dispatcher)
	cancelBooking := ucbooking.NewCancel(bookingRepo, dispatcher)
	completeBooking := ucbooking.NewComplete(bookingRepo, dispatcher)
	markNoShow := ucbooking.NewMarkNoShow(bookingRepo, dispatcher)
	issueVouchers := ucvoucher.NewIssue(voucherRepo, smtpMailer, dispatcher, cfg.VoucherExpiryDays)
	redeemVoucher := ucvoucher.NewRedeem(voucherRepo, dispatcher)

	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	catalogHandler := handlers.NewCatalogHandler(db, cacheClient)
	orderHandler := handlers.NewOrderHandler(db)
	listingHandler := handlers.NewListingHandler(db, cacheClient, dispatcher)
	slotRuleHandler := handlers.NewSlotRuleHandler(db, generateSlots, dispatcher, loc)
	slotHandler := handlers.NewSlotHandler(db, dispatcher)
	bookingHandler := handlers.NewBookingHandler(db, cancelBooking, completeBooking, markNoShow)
	redeemHandler := handlers.NewRedeemHandler(db, redeemVoucher)
	webhookHandler := handlers.NewWebhookHandler(db, cfg, issueVouchers, reserve, dispatcher)
	mediaHandler := handlers.NewMediaHandler(db, uploader, cfg)
	userHandler := handlers.NewUserHandler(db, dispatcher)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	api := r.Group("/api/v1")

	// ======================================================
	// PUBLIC
	// ======================================================

	api.POST("/auth/register", authHandler.RegisterPartner)
	api.POST("/auth/login", authHandler.Login)

	api.GET("/cities", catalogHandler.ListCities)
	api.GET("/categories", catalogHandler.ListCategories)
	api.GET("/deals", catalogHandler.ListDeals)
	api.GET("/deals/:slug", catalogHandler.GetDeal)
	api.GET("/deals/:slug/availability", catalogHandler.GetAvailability)

	api.POST("/checkout", orderHandler.Checkout)
	api.GET("/orders/:number", orderHandler.GetByNumber)

	// Payment provider callback, authenticated by signature, not by JWT.
	api.POST("/webhooks/tap", webhookHandler.HandleTap)

	// ======================================================
	// AUTHENTICATED
	// ======================================================

	auth := api.Group("")
	auth.Use(middleware.AuthMiddleware(cfg))

	auth.GET("/me", meHandler.GetMe)

	// ---- partner portal ----

	partner := auth.Group("/partner")

	partner.GET("/listings",
		middleware.RequirePermission(rbac.PartnerListings), listingHandler.List)
	partner.POST("/listings",
		middleware.RequirePermission(rbac.PartnerListings), listingHandler.Create)
	partner.GET("/listings/:id",
		middleware.RequirePermission(rbac.PartnerListings), listingHandler.Get)
	partner.PUT("/listings/:id",
		middleware.RequirePermission(rbac.PartnerListings), listingHandler.Update)
	partner.POST("/listings/:id/submit",
		middleware.RequirePermission(rbac.PartnerListings), listingHandler.Submit)
	partner.POST("/listings/:id/media",
		middleware.RequirePermission(rbac.PartnerListings), mediaHandler.Upload)
	partner.DELETE("/listings/:id/media/:assetId",
		middleware.RequirePermission(rbac.PartnerListings), mediaHandler.Delete)

	partner.GET("/listings/:id/slot-rules",
		middleware.RequirePermission(rbac.ManageInventory), slotRuleHandler.ListByListing)
	partner.POST("/slot-rules",
		middleware.RequirePermission(rbac.ManageInventory), slotRuleHandler.Create)
	partner.PUT("/slot-rules/:id",
		middleware.RequirePermission(rbac.ManageInventory), slotRuleHandler.Update)
	partner.POST("/slot-rules/:id/generate",
		middleware.RequirePermission(rbac.ManageInventory), slotRuleHandler.Generate)
	partner.POST("/slot-rules/:id/deactivate",
		middleware.RequirePermission(rbac.ManageInventory), slotRuleHandler.Deactivate)
	partner.GET("/slot-rules/:id/slots",
		middleware.RequirePermission(rbac.ManageInventory), slotHandler.ListByRule)
	partner.POST("/slots/:id/block",
		middleware.RequirePermission(rbac.ManageInventory), slotHandler.Block)
	partner.POST("/slots/:id/unblock",
		middleware.RequirePermission(rbac.ManageInventory), slotHandler.Unblock)

	partner.GET("/bookings",
		middleware.RequirePermission(rbac.ViewBookings), bookingHandler.List)
	partner.GET("/bookings/ref/:ref",
		middleware.RequirePermission(rbac.ViewBookings), bookingHandler.GetByRef)
	partner.POST("/bookings/:id/cancel",
		middleware.RequirePermission(rbac.ManageBookings), bookingHandler.Cancel)
	partner.POST("/bookings/:id/complete",
		middleware.RequirePermission(rbac.ManageBookings), bookingHandler.Complete)
	partner.POST("/bookings/:id/no-show",
		middleware.RequirePermission(rbac.ManageBookings), bookingHandler.MarkNoShow)

	partner.POST("/redeem",
		middleware.RequirePermission(rbac.PartnerRedeem), redeemHandler.Redeem)
	partner.GET("/redeem/:code",
		middleware.RequirePermission(rbac.PartnerRedeem), redeemHandler.Check)
	partner.GET("/redemption-attempts",
		middleware.RequirePermission(rbac.PartnerRedeem), redeemHandler.ListAttempts)

	// ---- back office ----

	admin := auth.Group("/admin")
	admin.Use(middleware.RequirePermission(rbac.ViewAdmin))

	admin.POST("/listings/:id/approve",
		middleware.RequirePermission(rbac.ApproveListings), listingHandler.Approve)
	admin.POST("/listings/:id/reject",
		middleware.RequirePermission(rbac.ApproveListings), listingHandler.Reject)
	admin.POST("/listings/:id/end",
		middleware.RequirePermission(rbac.ManageListings), listingHandler.End)

	admin.GET("/orders",
		middleware.RequirePermission(rbac.ViewOrders), orderHandler.ListOrders)
	admin.GET("/orders/:id/vouchers",
		middleware.RequirePermission(rbac.ViewVouchers), redeemHandler.ListByOrder)

	admin.GET("/users",
		middleware.RequirePermission(rbac.ManageUsers), userHandler.List)
	admin.PUT("/users/:id/role",
		middleware.RequirePermission(rbac.ManageUsers), userHandler.SetRole)

	admin.GET("/audit-logs",
		middleware.RequirePermission(rbac.ViewAudit), auditLogsHandler.List)
}
