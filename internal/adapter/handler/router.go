package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/interview-segmenter/internal/adapter/dto/common"
	"github.com/johnquangdev/interview-segmenter/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	segmentHandler *Segment
	exportHandler  *Export
	storageHandler *Storage // nil when object storage is disabled
	authMW         echo.MiddlewareFunc
	components     map[string]string
}

// NewRouter creates a new router. components lists the optional backends
// and whether they are enabled, for the health endpoint.
func NewRouter(cfg *config.Config, segmentHandler *Segment, exportHandler *Export, storageHandler *Storage, authMW echo.MiddlewareFunc, components map[string]string) *Router {
	return &Router{
		cfg:            cfg,
		segmentHandler: segmentHandler,
		exportHandler:  exportHandler,
		storageHandler: storageHandler,
		authMW:         authMW,
		components:     components,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)

	v1 := e.Group("/v1")
	if rt.authMW != nil {
		v1.Use(rt.authMW)
	}
	rt.setupSegmentRoutes(v1)
	rt.setupExportRoutes(v1)
	rt.setupStorageRoutes(v1)
}

func (rt *Router) setupSegmentRoutes(g *echo.Group) {
	segments := g.Group("/segments")

	if rt.segmentHandler != nil {
		segments.POST("", rt.segmentHandler.Create)
		segments.GET("/runs", rt.segmentHandler.ListRuns)
		segments.GET("/runs/:id", rt.segmentHandler.GetRun)
	} else {
		segments.POST("", rt.notImplemented)
		segments.GET("/runs", rt.notImplemented)
		segments.GET("/runs/:id", rt.notImplemented)
	}
}

func (rt *Router) setupExportRoutes(g *echo.Group) {
	exports := g.Group("/exports")

	if rt.exportHandler != nil {
		exports.POST("/plan", rt.exportHandler.Plan)
		exports.GET("/plans/:id", rt.exportHandler.GetPlan)
	} else {
		exports.POST("/plan", rt.notImplemented)
		exports.GET("/plans/:id", rt.notImplemented)
	}
}

func (rt *Router) setupStorageRoutes(g *echo.Group) {
	if rt.storageHandler != nil {
		g.GET("/storage/objects", rt.storageHandler.ListObjects)
	} else {
		g.GET("/storage/objects", rt.notImplemented)
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":  "This endpoint is not yet implemented",
		"path":   c.Request().URL.Path,
		"method": c.Request().Method,
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	resp := common.HealthResponse{
		Status:     "ok",
		Components: rt.components,
	}
	if rt.cfg != nil {
		resp.Environment = rt.cfg.Server.Environment
		resp.Model = rt.cfg.LLM.Provider + "/" + rt.cfg.LLM.Model
	}
	return c.JSON(http.StatusOK, resp)
}
