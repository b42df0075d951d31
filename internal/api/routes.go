package api

import (
	"net/http"

	"smartsalle/gym-app/internal/auth"
	"smartsalle/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	attendanceService service.AttendanceService,
	eventService service.EventService,
	membershipService service.MembershipService,
	paymentService service.PaymentService,
	gymService service.GymService,
	memberService service.MemberService,
	coachService service.CoachService,
) {
	attendanceHandler := NewAttendanceHandler(attendanceService)
	eventHandler := NewEventHandler(eventService)
	membershipHandler := NewMembershipHandler(membershipService)
	paymentHandler := NewPaymentHandler(paymentService)
	gymHandler := NewGymHandler(gymService)
	memberHandler := NewMemberHandler(memberService)
	coachHandler := NewCoachHandler(coachService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	protected := router.Group("/api/v1")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", memberHandler.Me)

		// --- Attendance Routes ---
		attendanceGroup := protected.Group("/attendance")
		{
			// Any authenticated role may attempt check-in/out; the handler
			// restricts clients to themselves.
			attendanceGroup.POST("/check-in", RequirePermission(auth.PermAttendanceMark), attendanceHandler.CheckIn)
			attendanceGroup.POST("/check-out", RequirePermission(auth.PermAttendanceMark), attendanceHandler.CheckOut)
			attendanceGroup.GET("", RequirePermission(auth.PermAttendanceRead), attendanceHandler.List)
			attendanceGroup.GET("/stats", RequirePermission(auth.PermAttendanceRead), attendanceHandler.Stats)
		}

		// --- Event Routes ---
		eventGroup := protected.Group("/events")
		{
			eventGroup.GET("", RequirePermission(auth.PermEventsRead), eventHandler.List)
			eventGroup.GET("/:id", RequirePermission(auth.PermEventsRead), eventHandler.Get)
			eventGroup.POST("", RequirePermission(auth.PermEventsManage), eventHandler.Create)
			eventGroup.PUT("/:id", RequirePermission(auth.PermEventsManage), eventHandler.Update)
			// Deleting an event takes its registrations with it; admins only.
			eventGroup.DELETE("/:id", RequirePermission(auth.PermEventsDelete), eventHandler.Delete)
			eventGroup.POST("/:id/register", RequirePermission(auth.PermEventRegister), eventHandler.Register)
			eventGroup.DELETE("/:id/unregister", RequirePermission(auth.PermEventRegister), eventHandler.Unregister)
			eventGroup.GET("/:id/registrations", RequirePermission(auth.PermEventsManage), eventHandler.Registrations)
		}

		// --- Membership Routes ---
		protected.POST("/memberships", RequirePermission(auth.PermMembershipsLink), membershipHandler.Link)

		// --- Gym Routes ---
		gymGroup := protected.Group("/gyms")
		{
			gymGroup.GET("", gymHandler.List)
			gymGroup.GET("/:id", gymHandler.Get)
			gymGroup.POST("", RequirePermission(auth.PermGymsManage), gymHandler.Create)
			gymGroup.GET("/:id/members", RequirePermission(auth.PermMembersRead), membershipHandler.GymMembers)
		}

		// --- Payment Routes ---
		paymentGroup := protected.Group("/payments")
		{
			paymentGroup.GET("", RequirePermission(auth.PermPaymentsManage), paymentHandler.List)
			paymentGroup.GET("/stats", RequirePermission(auth.PermPaymentsManage), paymentHandler.Stats)
			paymentGroup.POST("", RequirePermission(auth.PermPaymentsManage), paymentHandler.Create)
			paymentGroup.GET("/:id", RequirePermission(auth.PermPaymentsManage), paymentHandler.Get)
			paymentGroup.PATCH("/:id/status", RequirePermission(auth.PermPaymentsManage), paymentHandler.UpdateStatus)
		}

		// --- Member Routes ---
		memberGroup := protected.Group("/members")
		{
			memberGroup.GET("", RequirePermission(auth.PermMembersRead), memberHandler.List)
			memberGroup.POST("", RequirePermission(auth.PermMembersManage), memberHandler.Create)
			// Get and Update guard inside the handler: staff or the member
			// themselves.
			memberGroup.GET("/:id", memberHandler.Get)
			memberGroup.PUT("/:id", memberHandler.Update)
			memberGroup.DELETE("/:id", RequirePermission(auth.PermMembersManage), memberHandler.Delete)
		}

		// --- Coach Routes ---
		coachGroup := protected.Group("/coaches")
		{
			// Coach listings are public to authenticated users.
			coachGroup.GET("", coachHandler.List)
			coachGroup.GET("/:id", coachHandler.Get)
			coachGroup.POST("", RequirePermission(auth.PermCoachesManage), coachHandler.Create)
			coachGroup.PUT("/:id", RequirePermission(auth.PermCoachesManage), coachHandler.Update)
			coachGroup.DELETE("/:id", RequirePermission(auth.PermCoachesManage), coachHandler.Delete)
		}
	}
}
