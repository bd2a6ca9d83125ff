package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"interlink/auth"
	"interlink/bookings"
	"interlink/events"
	"interlink/middleware"
	"interlink/participants"
	"interlink/ratelim"
	"interlink/userdata"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/eventpic/*filepath", http.Dir("static/eventpic"))
}

func AddAuthRoutes(router *httprouter.Router) {
	router.POST("/api/auth/register", ratelim.RateLimit(auth.Register))
	router.POST("/api/auth/login", ratelim.RateLimit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.LogoutUser))
	router.POST("/api/auth/token/refresh", ratelim.RateLimit(middleware.Authenticate(auth.RefreshToken)))
}

func AddUserRoutes(router *httprouter.Router) {
	router.GET("/api/user/registered-events", middleware.Authenticate(userdata.MyRegisteredEvents))
}

func AddEventsRoutes(router *httprouter.Router) {
	router.GET("/api/events/events", ratelim.RateLimit(events.GetEvents))
	router.GET("/api/events/event/:eventid", middleware.OptionalAuth(events.GetEvent))
	router.POST("/api/events/event", middleware.Authenticate(middleware.RequireRole("organizer", events.CreateEvent)))
	router.PUT("/api/events/event/:eventid", middleware.Authenticate(middleware.RequireRole("organizer", events.EditEvent)))
	router.PUT("/api/events/event/:eventid/status", middleware.Authenticate(middleware.RequireRole("organizer", events.UpdateEventStatus)))
}

func AddBookingRoutes(router *httprouter.Router) {
	router.POST("/api/bookings/create", ratelim.RateLimit(middleware.Authenticate(bookings.CreateBooking)))
	router.GET("/api/bookings/my-tickets", middleware.Authenticate(bookings.MyTickets))
	router.GET("/api/bookings/details/:id", middleware.Authenticate(bookings.GetBooking))
	router.PUT("/api/bookings/cancel/:id", ratelim.RateLimit(middleware.Authenticate(bookings.CancelBooking)))
	router.GET("/api/bookings/remaining-spots/:eventid", bookings.RemainingSpots)
	router.GET("/api/bookings/updates/:eventid", bookings.SpotUpdates)
	router.GET("/api/bookings/ws/:eventid", bookings.SpotUpdatesWS)
	router.GET("/api/bookings/print/:id", middleware.Authenticate(bookings.PrintTicket))
	router.GET("/api/bookings/verify", middleware.Authenticate(middleware.RequireRole("organizer", bookings.VerifyTicket)))

	// httprouter cannot overlap /api/bookings/:id with the literal segments
	// above, so the bare fetch lives on /details/:id only.
}

func AddParticipantRoutes(router *httprouter.Router) {
	router.GET("/api/participants/event/:eventid", middleware.Authenticate(middleware.RequireRole("organizer", participants.ListParticipants)))
	router.POST("/api/participants/attendance/:bookingid", ratelim.RateLimit(middleware.Authenticate(middleware.RequireRole("organizer", participants.MarkAttendance))))
	router.GET("/api/participants/export/:eventid", middleware.Authenticate(middleware.RequireRole("organizer", participants.ExportParticipants)))
}
