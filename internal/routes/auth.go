package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nikhil/teamtask/internal/middleware"
)

func registerAuthRoutes(router *mux.Router, s Services) {
	public := router.PathPrefix("/api/v1").Subrouter()
	public.Use(middleware.ResponseWrapper)
	public.HandleFunc("/users", s.Users.HandleSignup).Methods(http.MethodPost)
	public.HandleFunc("/login", s.Users.HandleLogin).Methods(http.MethodPost)

	authed := router.PathPrefix("/api/v1").Subrouter()
	authed.Use(s.Middleware.Authenticate, middleware.ResponseWrapper)
	authed.HandleFunc("/users", s.Users.HandleListUsers).Methods(http.MethodGet)
	authed.HandleFunc("/profile", s.Users.HandleGetProfile).Methods(http.MethodGet)
	authed.HandleFunc("/profile", s.Users.HandleUpdateProfile).Methods(http.MethodPut)
}
