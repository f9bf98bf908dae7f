package v1

import (
	"net/http"

	"github.com/codehub-server/dto"
	"github.com/codehub-server/services"
	"github.com/gin-gonic/gin"
)

// FileController handles the live files of a project
type FileController struct {
	fileService *services.FileService
}

// NewFileController creates a new file controller
func NewFileController(fileService *services.FileService) *FileController {
	return &FileController{fileService: fileService}
}

// RegisterRoutes registers file routes
func (fc *FileController) RegisterRoutes(router *gin.RouterGroup) {
	files := router.Group("/projects/:id/files")
	{
		files.GET("", fc.ListFiles)
		files.POST("", fc.CreateFile)
		files.GET("/:fileId", fc.GetFile)
		files.PUT("/:fileId", fc.UpdateFile)
		files.DELETE("/:fileId", fc.DeleteFile)
	}
}

// ListFiles returns a project's files ordered by name
func (fc *FileController) ListFiles(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	files, err := fc.fileService.List(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, files)
}

// CreateFile adds an .html, .css or .js file to a project
func (fc *FileController) CreateFile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	file, err := fc.fileService.Create(c.Request.Context(), c.Param("id"), userID, req.Name, *req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, file)
}

// GetFile returns a single file
func (fc *FileController) GetFile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	file, err := fc.fileService.Get(c.Request.Context(), c.Param("id"), userID, c.Param("fileId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, file)
}

// UpdateFile replaces a file's content
func (fc *FileController) UpdateFile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	file, err := fc.fileService.Update(c.Request.Context(), c.Param("id"), userID, c.Param("fileId"), *req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, file)
}

// DeleteFile removes a file; index.html is refused
func (fc *FileController) DeleteFile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := fc.fileService.Delete(c.Request.Context(), c.Param("id"), userID, c.Param("fileId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "File deleted successfully",
	})
}
