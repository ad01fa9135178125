package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nikhil/teamtask/internal/middleware"
)

func registerDashboardRoutes(router *mux.Router, s Services) {
	dash := router.PathPrefix("/api/v1/dashboard").Subrouter()
	dash.Use(s.Middleware.Authenticate, middleware.ResponseWrapper)
	dash.HandleFunc("", s.Dashboard.HandleIndex).Methods(http.MethodGet)
}
