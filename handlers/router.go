package handlers

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/samandartukhtayev/user-profile-service/response"
)

// APIPrefix is the versioned path every profile endpoint lives under
const APIPrefix = "/api_v1"

// NewRouter mounts the profile endpoints and wraps them with request logging
// and, when origins are given, CORS.
func NewRouter(h *Handler, log *logrus.Logger, corsOrigins []string) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(loggerFrom(r.Context()), w, http.StatusOK, map[string]any{"ok": true})
	}).Methods(http.MethodGet)

	// Registered on the root router so a wrong method on any endpoint
	// answers 405 rather than 404.
	r.HandleFunc(APIPrefix+"/create_user", h.CreateUser).Methods(http.MethodPost)
	r.HandleFunc(APIPrefix+"/get_user_profile", h.ReadUserProfile).Methods(http.MethodPost)
	r.HandleFunc(APIPrefix+"/update_user_profile", h.UpdateUserProfile).Methods(http.MethodPost)
	r.HandleFunc(APIPrefix+"/delete_user", h.DeleteUserProfile).Methods(http.MethodPost)

	var next http.Handler = r
	if len(corsOrigins) > 0 {
		next = cors.Handler(cors.Options{
			AllowedOrigins: corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With"},
			ExposedHeaders: []string{HeaderUserID, HeaderTimeUUIDOrder, HeaderRequestID},
			MaxAge:         300,
		})(next)
	}

	return &logHandler{log: log, next: next}
}
