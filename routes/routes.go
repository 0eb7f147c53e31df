package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lovihub/lovi-backend/controllers"
	"github.com/lovihub/lovi-backend/middleware"
	"github.com/lovihub/lovi-backend/repository"
	"github.com/lovihub/lovi-backend/utils"
)

// Controllers bundles everything the router mounts.
type Controllers struct {
	Auth     *controllers.AuthController
	User     *controllers.UserController
	Deal     *controllers.DealController
	Booking  *controllers.BookingController
	Business *controllers.BusinessController
	Report   *controllers.ReportController
	Admin    *controllers.AdminController
}

// Repos holds the repositories the auth middleware needs.
type Repos struct {
	Users      repository.UserRepository
	Businesses repository.BusinessRepository
	Admins     repository.AdminRepository
}

// SetupRouter initializes and returns the Gin router with all routes.
func SetupRouter(ctrl Controllers, repos Repos) *gin.Engine {
	router := gin.New()
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/start", ctrl.Auth.CustomerStart)
			auth.POST("/business/start", ctrl.Auth.BusinessStart)
			auth.POST("/admin/login", ctrl.Auth.AdminLogin)
		}

		api.GET("/cities", ctrl.User.Cities)
		api.GET("/categories", ctrl.User.Categories)

		customer := api.Group("/")
		customer.Use(middleware.CustomerAuth(repos.Users))
		{
			customer.PUT("/me/city", ctrl.User.SetCity)
			customer.GET("/me/profile", ctrl.Booking.Profile)

			customer.GET("/deals", ctrl.Deal.List)
			customer.GET("/deals/hot", ctrl.Deal.Hot)
			customer.GET("/deals/:id", ctrl.Deal.Details)
			customer.POST("/deals/:id/join", ctrl.Deal.Join)

			customer.GET("/bookings", ctrl.Booking.My)
			customer.GET("/bookings/codes", ctrl.Booking.ActiveCodes)
			customer.GET("/bookings/history", ctrl.Booking.History)
			customer.POST("/bookings/:id/confirm", ctrl.Booking.ConfirmVisit)
			customer.POST("/bookings/:id/review", ctrl.Booking.BeginReview)
			customer.POST("/reviews/comment", ctrl.Booking.SubmitReview)
			customer.POST("/bookings/:id/decline", ctrl.Booking.Decline)
			customer.POST("/bookings/:id/complaint", ctrl.Booking.Complain)
		}

		identity := api.Group("/business")
		identity.Use(middleware.BusinessIdentity())
		{
			identity.POST("/register", ctrl.Business.Register)
			identity.POST("/register/draft", ctrl.Business.BeginRegistration)
			identity.PUT("/register/draft", ctrl.Business.AdvanceRegistration)
			identity.GET("/mine", ctrl.Business.My)
			identity.PUT("/mine/:id/select", ctrl.Business.Select)
		}

		business := api.Group("/business")
		business.Use(middleware.BusinessAuth(repos.Businesses))
		{
			business.POST("/deals/draft", ctrl.Business.BeginDeal)
			business.PUT("/deals/draft", ctrl.Business.AdvanceDeal)
			business.POST("/deals/draft/publish", ctrl.Business.PublishDeal)
			business.DELETE("/deals/draft", ctrl.Business.CancelFlow)

			business.GET("/deals", ctrl.Business.Deals)
			business.POST("/deals/:id/complete", ctrl.Business.CompleteDeal)

			business.POST("/codes/check", ctrl.Business.CheckCode)
			business.POST("/codes/entry", ctrl.Business.BeginCodeEntry)
			business.PUT("/codes/entry", ctrl.Business.SubmitCodeEntry)
			business.POST("/bookings/:id/confirm", ctrl.Business.ConfirmRedemption)

			business.GET("/reports", ctrl.Report.List)
			business.GET("/reports/excel", ctrl.Report.DownloadExcel)
			business.GET("/reports/pdf", ctrl.Report.DownloadPDF)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuth(repos.Admins))
		{
			admin.GET("/stats", ctrl.Admin.Stats)
			admin.GET("/complaints", ctrl.Admin.Complaints)
			admin.POST("/complaints/:id/resolve", ctrl.Admin.ResolveComplaint)
			admin.GET("/businesses/:id/signal", ctrl.Admin.BusinessSignal)
			admin.GET("/businesses/suspicious", ctrl.Admin.Suspicious)
		}
	}

	return router
}
