package http

import (
	"net/http"

	"hospital-backend/internal/delivery/http/handler"
	"hospital-backend/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router               *mux.Router
	authHandler          *handler.AuthHandler
	appointmentHandler   *handler.AppointmentHandler
	scheduleBlockHandler *handler.ScheduleBlockHandler
	otCaseHandler        *handler.OtCaseHandler
	authMiddleware       *middleware.AuthMiddleware
	corsMiddleware       *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	appointmentHandler *handler.AppointmentHandler,
	scheduleBlockHandler *handler.ScheduleBlockHandler,
	otCaseHandler *handler.OtCaseHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:               mux.NewRouter(),
		authHandler:          authHandler,
		appointmentHandler:   appointmentHandler,
		scheduleBlockHandler: scheduleBlockHandler,
		otCaseHandler:        otCaseHandler,
		authMiddleware:       authMiddleware,
		corsMiddleware:       corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Slot availability (protected, any role)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(r.authMiddleware.Authenticate)
	protected.HandleFunc("/doctors/{id}/slots", r.appointmentHandler.GetAvailableSlots).Methods(http.MethodGet)
	protected.HandleFunc("/doctors/{id}/schedule-blocks", r.scheduleBlockHandler.GetBlocksByDoctor).Methods(http.MethodGet)

	// Appointment booking (patients)
	patient := api.PathPrefix("/appointments").Subrouter()
	patient.Use(r.authMiddleware.Authenticate)
	patient.Use(middleware.RequirePatient)
	patient.HandleFunc("", r.appointmentHandler.BookAppointment).Methods(http.MethodPost)
	patient.HandleFunc("", r.appointmentHandler.GetMyAppointments).Methods(http.MethodGet)
	patient.HandleFunc("/{id}/cancel", r.appointmentHandler.CancelAppointment).Methods(http.MethodPost)

	// Schedule block management (admin)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/schedule-blocks", r.scheduleBlockHandler.CreateBlock).Methods(http.MethodPost)
	admin.HandleFunc("/schedule-blocks/{id}", r.scheduleBlockHandler.UpdateBlock).Methods(http.MethodPut)
	admin.HandleFunc("/schedule-blocks/{id}", r.scheduleBlockHandler.DeleteBlock).Methods(http.MethodDelete)

	// OT cases: scheduling and lifecycle are admin/doctor, clinical
	// records and logs include nurses. The usecases apply the role gates
	// again for the transition endpoints; the route guard is the outer fence.
	otCases := api.PathPrefix("/ot-cases").Subrouter()
	otCases.Use(r.authMiddleware.Authenticate)
	otCases.Use(middleware.RequireClinicalStaff)
	otCases.HandleFunc("", r.otCaseHandler.GetCases).Methods(http.MethodGet)
	otCases.HandleFunc("/{id}", r.otCaseHandler.GetFullCase).Methods(http.MethodGet)
	otCases.HandleFunc("/{id}/records/{kind}", r.otCaseHandler.UpsertPhaseRecord).Methods(http.MethodPut)
	otCases.HandleFunc("/{id}/records/{kind}", r.otCaseHandler.GetPhaseRecord).Methods(http.MethodGet)
	otCases.HandleFunc("/{id}/logs/{kind}", r.otCaseHandler.AppendLogEntry).Methods(http.MethodPost)
	otCases.HandleFunc("/{id}/logs/{kind}", r.otCaseHandler.GetLog).Methods(http.MethodGet)

	otCaseWrite := api.PathPrefix("/ot-cases").Subrouter()
	otCaseWrite.Use(r.authMiddleware.Authenticate)
	otCaseWrite.Use(middleware.RequireAdminOrDoctor)
	otCaseWrite.HandleFunc("", r.otCaseHandler.CreateCase).Methods(http.MethodPost)
	otCaseWrite.HandleFunc("/{id}/status", r.otCaseHandler.TransitionStatus).Methods(http.MethodPost)
	otCaseWrite.HandleFunc("/{id}/schedule", r.otCaseHandler.Reschedule).Methods(http.MethodPut)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
