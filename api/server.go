package api

import (
	"context"
	"net/http"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/uber-go/tally"

	"github.com/raksh/borewell-capture/form"
	"github.com/raksh/borewell-capture/geo"
	"github.com/raksh/borewell-capture/logmodule"
	"github.com/raksh/borewell-capture/store"
)

var log *logrus.Entry

func init() {
	log = logrus.WithField("prefix", "gin")
}

// Server to run a http server instance
type Server struct {
	// Server instance
	server *http.Server

	// Mounted drafts
	drafts store.DraftStore

	// Remote borewell registry
	registrar form.Registrar

	// Device position used when a client sends none
	locator geo.Locator

	// Administrative area lookup, optional
	resolver geo.LocationResolver

	// Health of backing services, optional
	pinger store.Pinger

	metrics tally.Scope

	// lifetime bounds every draft; cancelled on shutdown
	lifetime context.Context
	stop     context.CancelFunc
}

// NewServer new instance of server
func NewServer(
	registrar form.Registrar,
	locator geo.Locator,
	resolver geo.LocationResolver,
	pinger store.Pinger,
	metrics tally.Scope) *Server {
	if metrics == nil {
		metrics = tally.NoopScope
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		drafts:    store.NewMemoryDraftStore(),
		registrar: registrar,
		locator:   locator,
		resolver:  resolver,
		pinger:    pinger,
		metrics:   metrics,
		lifetime:  ctx,
		stop:      cancel,
	}
}

// Run to run the server
func (s *Server) Run(addr string) error {
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.setupRouter(),
	}

	return s.server.ListenAndServe()
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         10 * time.Second,
	}))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept-Language", "Geo-Position"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if origins := viper.GetStringSlice("cors.origins"); len(origins) > 0 {
		corsConfig.AllowOrigins = origins
	} else {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}

	apiRoute := r.Group("/api")
	apiRoute.Use(logmodule.Ginrus("API"))
	apiRoute.Use(cors.New(corsConfig))
	apiRoute.GET("/information", s.information)

	draftRoute := apiRoute.Group("/drafts")
	{
		draftRoute.POST("", s.draftCreate)
	}

	draftRoute.Use(s.recognizeDraftMiddleware())
	{
		draftRoute.GET("/:draftID", s.draftDetail)
		draftRoute.PATCH("/:draftID", s.draftUpdate)
		draftRoute.DELETE("/:draftID", s.draftDelete)

		draftRoute.POST("/:draftID/device-location", s.draftUseDeviceLocation)
		draftRoute.POST("/:draftID/submit", s.draftSubmit)
		draftRoute.GET("/:draftID/suggestions", s.draftSuggestions)
	}

	r.GET("/healthz", s.healthz)

	return r
}

// Shutdown to shutdown the server. Every mounted draft is released.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stop()
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// shouldInterupt sends error message and determine if it should interupt the current flow
func shouldInterupt(err error, c *gin.Context) bool {
	if err == nil {
		return false
	}

	log.Error(err)
	abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer)
	return true
}

func (s *Server) healthz(c *gin.Context) {
	if s.pinger != nil {
		err := s.pinger.Ping()
		if shouldInterupt(err, c) {
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"version": viper.GetString("server.version"),
	})
}

func (s *Server) information(c *gin.Context) {
	locator := "none"
	if s.locator != nil && s.locator.Supported() == nil {
		locator = viper.GetString("locator.provider")
	}

	c.JSON(http.StatusOK, gin.H{
		"information": map[string]interface{}{
			"server": map[string]interface{}{
				"version": viper.GetString("server.version"),
			},
			"registry":       viper.GetString("registry.url"),
			"locator":        locator,
			"suggestions":    s.resolver != nil,
			"drafts":         s.drafts.CountDrafts(),
			"system_version": "Borewell Capture 0.1",
		},
	})
}

func responseWithEncoding(c *gin.Context, code int, obj interface{}) {
	acceptEncoding := c.GetHeader("Accept-Encoding")
	switch acceptEncoding {
	default:
		c.JSON(code, obj)
	}
}

func abortWithEncoding(c *gin.Context, code int, obj ErrorResponse, errors ...error) {
	for _, err := range errors {
		c.Error(err)
	}
	responseWithEncoding(c, code, obj)
	c.Abort()
}
