package services

import (
	"path"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/codehub-server/errs"
	"github.com/codehub-server/models"
)

// Limits on user input. Lengths are counted in characters, MaxFileSize in bytes.
const (
	MaxFileSize          = 5 * 1024 * 1024
	MaxFileNameLength    = 100
	MaxProjectNameLength = 50
	MaxDescriptionLength = 500
)

var (
	projectNamePattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-_]+$`)
	invalidFileChars   = regexp.MustCompile(`[<>:"|?*\x00-\x1f]`)
)

// FileTypeFromName returns the file type implied by the extension of name.
func FileTypeFromName(name string) (models.FileType, bool) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	switch models.FileType(ext) {
	case models.FileTypeHTML, models.FileTypeCSS, models.FileTypeJS:
		return models.FileType(ext), true
	}
	return "", false
}

// ValidateFileName checks a new file name and returns its type.
func ValidateFileName(name string) (models.FileType, error) {
	if strings.TrimSpace(name) == "" {
		return "", errs.ErrInvalidName.WithMessage("file name is required")
	}
	if utf8.RuneCountInString(name) > MaxFileNameLength {
		return "", errs.ErrInvalidName.WithMessage("file name too long (max %d characters)", MaxFileNameLength)
	}
	fileType, ok := FileTypeFromName(name)
	if !ok {
		return "", errs.ErrInvalidName.WithMessage("only .html, .css, and .js files are allowed")
	}
	if invalidFileChars.MatchString(name) {
		return "", errs.ErrInvalidName.WithMessage("file name contains invalid characters")
	}
	return fileType, nil
}

// ValidateFileContent checks content size and encoding. The type is accepted for future
// per-type checks; all three types share the same rules today.
func ValidateFileContent(content string, _ models.FileType) error {
	if len(content) > MaxFileSize {
		return errs.ErrInvalidContent.WithMessage("file size exceeds 5MB limit")
	}
	if !utf8.ValidString(content) {
		return errs.ErrInvalidContent.WithMessage("file content must be valid UTF-8 text")
	}
	return nil
}

// ValidateProjectName checks a project name and returns it trimmed.
func ValidateProjectName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", errs.ErrInvalidName.WithMessage("project name is required")
	}
	if utf8.RuneCountInString(trimmed) > MaxProjectNameLength {
		return "", errs.ErrInvalidName.WithMessage("project name too long (max %d characters)", MaxProjectNameLength)
	}
	if !projectNamePattern.MatchString(trimmed) {
		return "", errs.ErrInvalidName.WithMessage("project name can only contain letters, numbers, spaces, hyphens, and underscores")
	}
	return trimmed, nil
}

// ValidateDescription trims a description; blank descriptions become nil.
func ValidateDescription(description *string) (*string, error) {
	if description == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > MaxDescriptionLength {
		return nil, errs.ErrInvalidRequest.WithMessage("description too long (max %d characters)", MaxDescriptionLength)
	}
	return &trimmed, nil
}

// ValidateCommitMessage checks a commit message and returns it trimmed.
func ValidateCommitMessage(message string) (string, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return "", errs.ErrInvalidMessage.WithMessage("commit message is required")
	}
	if utf8.RuneCountInString(trimmed) > models.MaxCommitMessageLength {
		return "", errs.ErrInvalidMessage.WithMessage("commit message too long (max %d characters)", models.MaxCommitMessageLength)
	}
	return trimmed, nil
}
