package handler

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"moviehub/internal/middleware"
	"moviehub/web"
)

const sessionName = "moviehub_session"

// NewRouter assembles the gin engine: templates, session store, logging and
// metrics middleware, and all application routes.
func NewRouter(log *zap.Logger, sessionSecret string, userH *UserHandler, movieH *MovieHandler) *gin.Engine {
	r := gin.New()

	r.SetHTMLTemplate(template.Must(template.ParseFS(web.Templates, "templates/*.html")))

	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	r.Use(middleware.RequestID())
	r.Use(ginzap.Ginzap(log, time.RFC3339, true))
	r.Use(ginzap.CustomRecoveryWithZap(log, true, func(c *gin.Context, err interface{}) {
		renderInternalError(c)
	}))
	r.Use(middleware.Metrics())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	userH.RegisterRoutes(r)
	movieH.RegisterRoutes(r)

	r.NoRoute(func(c *gin.Context) {
		renderNotFound(c)
	})

	return r
}
