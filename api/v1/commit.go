package v1

import (
	"net/http"

	"github.com/codehub-server/dto"
	"github.com/codehub-server/services"
	"github.com/gin-gonic/gin"
)

// CommitController handles project history
type CommitController struct {
	snapshotService *services.SnapshotService
}

// NewCommitController creates a new commit controller
func NewCommitController(snapshotService *services.SnapshotService) *CommitController {
	return &CommitController{snapshotService: snapshotService}
}

// RegisterRoutes registers commit routes
func (cc *CommitController) RegisterRoutes(router *gin.RouterGroup) {
	commits := router.Group("/projects/:id/commits")
	{
		commits.GET("", cc.ListCommits)
		commits.POST("", cc.CreateCommit)
		commits.GET("/:commitId", cc.GetCommit)
		commits.POST("/:commitId/restore", cc.RestoreCommit)
	}
}

// ListCommits godoc
// @Summary List a project's commits
// @Description Newest first, each with the number of files it captured
// @Tags commits
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {array} repositories.CommitSummary
// @Router /projects/{id}/commits [get]
func (cc *CommitController) ListCommits(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	commits, err := cc.snapshotService.ListCommits(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, commits)
}

// CreateCommit godoc
// @Summary Snapshot the project's files
// @Tags commits
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param commit body dto.CreateCommitRequest true "Commit message"
// @Success 201 {object} repositories.CommitSummary
// @Router /projects/{id}/commits [post]
func (cc *CommitController) CreateCommit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	commit, err := cc.snapshotService.CreateCommit(c.Request.Context(), c.Param("id"), userID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, commit)
}

// GetCommit godoc
// @Summary Get a commit with its files
// @Tags commits
// @Produce json
// @Param id path string true "Project ID"
// @Param commitId path string true "Commit ID"
// @Success 200 {object} models.Commit
// @Router /projects/{id}/commits/{commitId} [get]
func (cc *CommitController) GetCommit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	commit, err := cc.snapshotService.GetCommit(c.Request.Context(), c.Param("id"), userID, c.Param("commitId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, commit)
}

// RestoreCommit godoc
// @Summary Restore the project's files to a commit
// @Tags commits
// @Produce json
// @Param id path string true "Project ID"
// @Param commitId path string true "Commit ID"
// @Success 200 {object} dto.RestoreResult
// @Router /projects/{id}/commits/{commitId}/restore [post]
func (cc *CommitController) RestoreCommit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := cc.snapshotService.RestoreCommit(c.Request.Context(), c.Param("id"), userID, c.Param("commitId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}
