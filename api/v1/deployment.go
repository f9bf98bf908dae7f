package v1

import (
	"errors"
	"io"
	"net/http"

	"github.com/codehub-server/dto"
	"github.com/codehub-server/errs"
	"github.com/codehub-server/logutils"
	"github.com/codehub-server/services"
	"github.com/gin-gonic/gin"
)

// DeploymentController publishes projects and serves rendered pages
type DeploymentController struct {
	deploymentService *services.DeploymentService
}

// NewDeploymentController creates a new deployment controller
func NewDeploymentController(deploymentService *services.DeploymentService) *DeploymentController {
	return &DeploymentController{deploymentService: deploymentService}
}

// RegisterRoutes registers the authenticated deployment routes
func (dc *DeploymentController) RegisterRoutes(router *gin.RouterGroup) {
	projects := router.Group("/projects/:id")
	{
		projects.GET("/deployments", dc.ListDeployments)
		projects.POST("/deployments", dc.Deploy)
		projects.GET("/preview", dc.Preview)
	}
}

// Deploy godoc
// @Summary Deploy a project
// @Description Publishes commitId, or a fresh commit of the live files when it is omitted
// @Tags deployments
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param deployment body dto.CreateDeploymentRequest false "Commit to publish"
// @Success 201 {object} dto.DeploymentResponse
// @Router /projects/{id}/deployments [post]
func (dc *DeploymentController) Deploy(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateDeploymentRequest
	// an empty body deploys the live files
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}

	deployment, err := dc.deploymentService.Deploy(c.Request.Context(), c.Param("id"), userID, req.CommitID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, deployment)
}

// ListDeployments godoc
// @Summary List a project's deployments
// @Tags deployments
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {array} models.Deployment
// @Router /projects/{id}/deployments [get]
func (dc *DeploymentController) ListDeployments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	deployments, err := dc.deploymentService.ListDeployments(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, deployments)
}

// Preview renders the live files, or ?commit=, as a single page for the owner
func (dc *DeploymentController) Preview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	document, err := dc.deploymentService.RenderPreview(c.Request.Context(), c.Param("id"), userID, c.Query("commit"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(document))
}

// ServeDeployment serves a published deployment. It is mounted outside /api/v1 and needs
// no authentication.
func (dc *DeploymentController) ServeDeployment(c *gin.Context) {
	document, err := dc.deploymentService.RenderDeployment(c.Request.Context(), c.Param("slug"))
	if err != nil {
		servePageError(c, err)
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.Header("X-Powered-By", "CodeHub")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(document))
}

// servePageError answers a browser with plain text instead of the API envelope
func servePageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrNoIndex):
		c.String(http.StatusNotFound, "No index.html file found in deployment")
	case errs.KindOf(err) == errs.KindNotFound:
		c.String(http.StatusNotFound, "Deployment not found")
	default:
		logutils.Log.WithFields(logutils.Fields{
			"slug": c.Param("slug"),
			"code": errs.CodeOf(err),
		}).WithError(err).Error("Failed to serve deployment")
		c.String(http.StatusInternalServerError, "Internal server error")
	}
}
