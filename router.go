package main

import (
	"html/template"
	"io/fs"
	"net/http"

	"asrdesk/config"
	"asrdesk/handlers"
	"asrdesk/middleware"
	"asrdesk/services"
	"asrdesk/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// newRouter wires the HTTP surface over the given library.
func newRouter(cfg *config.Config, lib *services.Library, log *zap.SugaredLogger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(log))
	router.Use(middleware.CORS(cfg.HTTP.AllowedOrigins))
	router.MaxMultipartMemory = cfg.Store.MaxMultipartMemoryMB << 20

	router.SetHTMLTemplate(template.Must(template.ParseFS(web.Templates, "templates/*.tmpl")))
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		log.Fatalw("static assets missing from binary", "error", err)
	}
	router.StaticFS("/static", http.FS(staticFS))

	pageHandler := handlers.NewPageHandler(lib, cfg.App.Title)
	uploadHandler := handlers.NewUploadHandler(lib)
	fileHandler := handlers.NewFileHandler(lib)
	fieldHandler := handlers.NewFieldHandler(lib)
	speakerHandler := handlers.NewSpeakerHandler(lib)
	healthHandler := handlers.NewHealthHandler()

	router.GET("/", pageHandler.Home)
	router.GET("/health", healthHandler.HealthCheck)

	router.POST("/upload", uploadHandler.Upload)
	router.POST("/upload_outside", uploadHandler.UploadOutside)

	router.GET("/download/:filename", fileHandler.Download)
	router.GET("/stream/:filename", fileHandler.Stream)

	router.POST("/label", fieldHandler.Label)
	router.POST("/speaker", fieldHandler.Speaker)
	router.POST("/verify", fieldHandler.Verify)
	router.POST("/lang", fieldHandler.Lang)
	router.POST("/gender", fieldHandler.Gender)
	router.POST("/speaker_add", speakerHandler.Add)

	return router
}
