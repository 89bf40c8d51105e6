package routes

import (
	"github.com/gin-gonic/gin"

	"medtrack-server/internal/handlers"
	"medtrack-server/internal/middleware"
	"medtrack-server/internal/models"
	"medtrack-server/internal/notify"
	"medtrack-server/internal/store"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, users store.UserStore, appointments store.AppointmentStore, mailer notify.Mailer, broadcaster notify.Broadcaster) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(users, mailer, broadcaster)
	dashboardHandler := handlers.NewDashboardHandler(users, appointments)
	bookingHandler := handlers.NewBookingHandler(users, appointments, mailer, broadcaster)
	appointmentHandler := handlers.NewAppointmentHandler(appointments, mailer)
	searchHandler := handlers.NewSearchHandler(appointments)
	profileHandler := handlers.NewProfileHandler(users)

	// Public routes (no authentication required)
	router.GET("/", handlers.Index)
	router.GET("/register", authHandler.ShowRegister)
	router.POST("/register", authHandler.Register)
	router.GET("/login", authHandler.ShowLogin)
	router.POST("/login", authHandler.Login)
	router.GET("/health", handlers.Health)

	// Authenticated routes
	private := router.Group("")
	private.Use(middleware.RequireAuth())
	{
		private.GET("/logout", authHandler.Logout)
		private.GET("/dashboard", dashboardHandler.Show)
		private.GET("/view_appointment/:appointment_id", appointmentHandler.Show)
		private.POST("/view_appointment/:appointment_id", appointmentHandler.Diagnose)
		private.GET("/search_appointments", searchHandler.Redirect)
		private.POST("/search_appointments", searchHandler.Search)
		private.GET("/profile", profileHandler.Show)
		private.POST("/profile", profileHandler.Update)

		// Booking is patient-only
		booking := private.Group("")
		booking.Use(middleware.RequireRole(models.RolePatient, "Only patients can book appointments."))
		{
			booking.GET("/book_appointment", bookingHandler.ShowForm)
			booking.POST("/book_appointment", bookingHandler.Book)
		}
	}

	router.NoRoute(handlers.NotFound)
}
