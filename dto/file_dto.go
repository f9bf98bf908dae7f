package dto

// CreateFileRequest represents the request payload for adding a file to a project
type CreateFileRequest struct {
	Name    string  `json:"name" binding:"required"`
	Content *string `json:"content" binding:"required"`
}

// UpdateFileRequest replaces the content of a file
type UpdateFileRequest struct {
	Content *string `json:"content" binding:"required"`
}
