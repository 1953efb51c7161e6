package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"paperless-annotator/internal/domain"
)

// defaultOrigins are allowed when no origins are configured.
var defaultOrigins = []string{
	"http://localhost:3000", // Next.js dev server
	"http://localhost:5173",
}

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(
	catalogHandler *CatalogHandler,
	sessionHandler *SessionHandler,
	exportHandler *ExportHandler,
	allowedOrigins []string,
	logger domain.Logger,
) http.Handler {
	router := mux.NewRouter()
	router.Use(RequestLogger(logger))

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(RoleMiddleware)

	health := func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "paperless-annotator"})
	}
	router.HandleFunc("/health", health).Methods("GET")
	api.HandleFunc("/health", health).Methods("GET")

	// Catalog
	api.HandleFunc("/organizations", catalogHandler.ListOrganizations).Methods("GET")
	api.HandleFunc("/organizations/{id}", catalogHandler.GetOrganization).Methods("GET")
	api.HandleFunc("/organizations/{id}/documents", catalogHandler.ListDocuments).Methods("GET")
	api.HandleFunc("/organizations/{id}/documents", catalogHandler.CreateDocument).Methods("POST")
	api.HandleFunc("/documents/{id}", catalogHandler.UpdateDocument).Methods("PUT")
	api.HandleFunc("/documents/{id}", catalogHandler.DeleteDocument).Methods("DELETE")

	// Sessions
	api.HandleFunc("/sessions", sessionHandler.Create).Methods("POST")
	api.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods("GET")
	api.HandleFunc("/sessions/{id}", sessionHandler.Delete).Methods("DELETE")
	api.HandleFunc("/sessions/{id}/page.png", sessionHandler.PageImage).Methods("GET")
	api.HandleFunc("/sessions/{id}/pages/{page:[0-9]+}/thumbnail.png", sessionHandler.Thumbnail).Methods("GET")
	api.HandleFunc("/sessions/{id}/navigate", sessionHandler.Navigate).Methods("POST")
	api.HandleFunc("/sessions/{id}/zoom", sessionHandler.Zoom).Methods("POST")
	api.HandleFunc("/sessions/{id}/mode/drawing", sessionHandler.ToggleDrawing).Methods("POST")
	api.HandleFunc("/sessions/{id}/mode/textbox", sessionHandler.ToggleTextBox).Methods("POST")
	api.HandleFunc("/sessions/{id}/strokes", sessionHandler.Stroke).Methods("POST")
	api.HandleFunc("/sessions/{id}/ink", sessionHandler.ClearInk).Methods("DELETE")
	api.HandleFunc("/sessions/{id}/ink.png", sessionHandler.InkImage).Methods("GET")
	api.HandleFunc("/sessions/{id}/clicks", sessionHandler.Click).Methods("POST")
	api.HandleFunc("/sessions/{id}/textboxes", sessionHandler.ClearTextBoxes).Methods("DELETE")
	api.HandleFunc("/sessions/{id}/textboxes/{boxId}/select", sessionHandler.SelectTextBox).Methods("POST")
	api.HandleFunc("/sessions/{id}/textboxes/{boxId}", sessionHandler.SetText).Methods("PUT")
	api.HandleFunc("/sessions/{id}/export", exportHandler.Export).Methods("POST")

	origins := allowedOrigins
	if len(origins) == 0 {
		origins = defaultOrigins
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			RoleHeader,
		},
		ExposedHeaders: []string{
			"Content-Disposition",
		},
		MaxAge: 300,
	})

	return c.Handler(router)
}
