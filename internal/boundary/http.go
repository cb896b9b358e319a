package boundary

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vireodyne/protoctl/internal/executor"
)

// NewRouter builds the gin HTTP surface for the Boundary Adapter:
// protocol submission/validation and run-control. CORS is wide open
// by default since
// protoctl is typically driven by a local authoring UI rather than a
// public API; callers needing stricter origins should wrap the returned
// engine with their own cors.Config before serving.
func NewRouter(a *Adapter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost},
		AllowHeaders:    []string{"Content-Type"},
	}))

	r.POST("/v1/protocols/validate", a.handleValidate)
	r.POST("/v1/protocols/run", a.handleRun)
	r.GET("/v1/executions/status", a.handleStatus)
	r.GET("/v1/executions/context", a.handleContext)
	r.POST("/v1/executions/pause", a.handleControl(func() error { return a.exec.PauseExecution() }))
	r.POST("/v1/executions/resume", a.handleControl(func() error { return a.exec.ResumeExecution() }))
	r.POST("/v1/executions/stop", a.handleControl(func() error { return a.exec.StopExecution() }))
	r.GET("/v1/executions/stream", a.handleStream)

	return r
}

func (a *Adapter) handleValidate(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := a.Validate(body)
	if err != nil && result.IsValid {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (a *Adapter) handleRun(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := a.Submit(c.Request.Context(), body)
	if err != nil {
		if errors.Is(err, executor.ErrBusy) {
			c.JSON(http.StatusConflict, gin.H{"error": "executor busy"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !report.Valid {
		c.JSON(http.StatusUnprocessableEntity, report)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (a *Adapter) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, a.exec.GetExecutionStatus())
}

func (a *Adapter) handleContext(c *gin.Context) {
	snapshot, ok := a.exec.GetContext()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no run has started yet"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (a *Adapter) handleControl(op func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := op(); err != nil {
			if errors.Is(err, executor.ErrNotRunning) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
