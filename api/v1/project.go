package v1

import (
	"net/http"

	"github.com/codehub-server/dto"
	"github.com/codehub-server/services"
	"github.com/gin-gonic/gin"
)

// ProjectController handles project endpoints
type ProjectController struct {
	projectService *services.ProjectService
}

// NewProjectController creates a new project controller
func NewProjectController(projectService *services.ProjectService) *ProjectController {
	return &ProjectController{projectService: projectService}
}

// RegisterRoutes registers project routes
func (pc *ProjectController) RegisterRoutes(router *gin.RouterGroup) {
	projects := router.Group("/projects")
	{
		projects.GET("", pc.ListProjects)
		projects.POST("", pc.CreateProject)
		projects.GET("/:id", pc.GetProject)
		projects.PUT("/:id", pc.UpdateProject)
		projects.PATCH("/:id/visibility", pc.SetVisibility)
		projects.DELETE("/:id", pc.DeleteProject)
		projects.POST("/:id/fork", pc.ForkProject)
	}
}

// ListProjects godoc
// @Summary List the current user's projects
// @Description Projects are ordered by last update, newest first
// @Tags projects
// @Produce json
// @Success 200 {array} models.Project
// @Router /projects [get]
func (pc *ProjectController) ListProjects(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projects, err := pc.projectService.ListProjects(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, projects)
}

// CreateProject godoc
// @Summary Create a new project
// @Description Creates a project with a starter index.html, style.css and script.js
// @Tags projects
// @Accept json
// @Produce json
// @Param project body dto.CreateProjectRequest true "Project"
// @Success 201 {object} models.Project
// @Router /projects [post]
func (pc *ProjectController) CreateProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	project, err := pc.projectService.CreateProject(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, project)
}

// GetProject godoc
// @Summary Get a project by ID
// @Description Owners can read any of their projects, other users only public ones
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} models.Project
// @Router /projects/{id} [get]
func (pc *ProjectController) GetProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	project, err := pc.projectService.GetProject(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, project)
}

// UpdateProject godoc
// @Summary Update a project
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param project body dto.UpdateProjectRequest true "Fields to change"
// @Success 200 {object} models.Project
// @Router /projects/{id} [put]
func (pc *ProjectController) UpdateProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	project, err := pc.projectService.UpdateProject(c.Request.Context(), c.Param("id"), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, project)
}

// SetVisibility godoc
// @Summary Make a project public or private
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param visibility body dto.VisibilityRequest true "Visibility"
// @Success 200 {object} models.Project
// @Router /projects/{id}/visibility [patch]
func (pc *ProjectController) SetVisibility(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.VisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	project, err := pc.projectService.SetVisibility(c.Request.Context(), c.Param("id"), userID, *req.IsPublic)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, project)
}

// DeleteProject godoc
// @Summary Delete a project
// @Description Removes the project with its files, commits and deployments
// @Tags projects
// @Param id path string true "Project ID"
// @Success 200
// @Router /projects/{id} [delete]
func (pc *ProjectController) DeleteProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := pc.projectService.DeleteProject(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Project deleted successfully",
	})
}

// ForkProject godoc
// @Summary Fork a public project
// @Description Copies a public project into a new private project of the current user
// @Tags projects
// @Produce json
// @Param id path string true "Source project ID"
// @Success 201 {object} models.Project
// @Router /projects/{id}/fork [post]
func (pc *ProjectController) ForkProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	project, err := pc.projectService.ForkProject(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, project)
}

// ListPublicProjects godoc
// @Summary Explore public projects
// @Tags explore
// @Produce json
// @Success 200 {array} dto.PublicProjectResponse
// @Router /explore [get]
func (pc *ProjectController) ListPublicProjects(c *gin.Context) {
	projects, err := pc.projectService.ListPublicProjects(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, projects)
}
