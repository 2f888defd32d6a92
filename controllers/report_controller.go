package controllers

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"ilumen-report/config"
	"ilumen-report/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReportRunner runs the pipeline. *services.ReportPipelineService satisfies it.
type ReportRunner interface {
	Run(ctx context.Context, input *services.ReportRunInput) (*services.ReportSummary, error)
}

// ReportController exposes the pipeline over HTTP. Only one run executes at
// a time per process.
type ReportController struct {
	runner        ReportRunner
	organizations func() ([]config.Organization, error)
	lockName      string
	log           *zap.Logger
	mu            sync.Mutex
}

func NewReportController(runner ReportRunner, organizations func() ([]config.Organization, error), lockName string, log *zap.Logger) *ReportController {
	if organizations == nil {
		organizations = config.LoadOrganizations
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportController{
		runner:        runner,
		organizations: organizations,
		lockName:      lockName,
		log:           log,
	}
}

// RunReport handles POST /api/v1/reports/run.
func (rc *ReportController) RunReport(c *gin.Context) {
	if !rc.mu.TryLock() {
		c.JSON(http.StatusConflict, gin.H{"error": services.ErrReportAlreadyRunning.Error()})
		return
	}
	defer rc.mu.Unlock()

	orgs, err := rc.organizations()
	if err != nil {
		rc.log.Error("failed to load organizations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	trigger := "api"
	if subject := c.GetString("subject"); subject != "" {
		trigger = "api:" + subject
	}

	summary, err := rc.runner.Run(c.Request.Context(), &services.ReportRunInput{
		Organizations: orgs,
		TriggerSource: trigger,
		LockName:      rc.lockName,
	})
	if err != nil {
		c.JSON(statusForRunError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "summary": summary})
}

// Health handles GET /api/v1/health.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "iLumen report API is running",
	})
}

func statusForRunError(err error) int {
	var authErr *services.AuthenticationError
	var fetchErr *services.FetchError
	switch {
	case errors.Is(err, services.ErrReportAlreadyRunning):
		return http.StatusConflict
	case errors.As(err, &authErr), errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
