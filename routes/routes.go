package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"p9e.in/washreport/handlers"
	"p9e.in/washreport/middleware"
	"p9e.in/washreport/pkg/metrics"
)

// Deps are the collaborators the routes are wired to.
type Deps struct {
	Wizard          *handlers.WizardHandler
	Sessions        *middleware.Sessions
	Logger          *logrus.Logger
	SubmitRateLimit float64
	SubmitBurst     int
}

// RegisterRoutes sets up all application routes
func RegisterRoutes(d Deps) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.RequestLog(d.Logger))

	// =====================================================
	// Operational endpoints (no session)
	// =====================================================
	r.HandleFunc("/healthz", handlers.Health).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/catalog", d.Wizard.GetCatalog).Methods("GET")

	// =====================================================
	// Report wizard (one controller per browser session)
	// =====================================================
	ui := r.PathPrefix("/").Subrouter()
	ui.Use(d.Sessions.Middleware)

	ui.HandleFunc("/", d.Wizard.Show).Methods("GET")
	ui.HandleFunc("/report", d.Wizard.SaveReport).Methods("POST")
	ui.HandleFunc("/review/edit", d.Wizard.Edit).Methods("POST")
	ui.Handle("/review/confirm",
		middleware.RateLimit(d.SubmitRateLimit, d.SubmitBurst)(http.HandlerFunc(d.Wizard.Confirm)),
	).Methods("POST")
	ui.HandleFunc("/reset", d.Wizard.Reset).Methods("POST")

	return r
}
