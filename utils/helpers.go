package utils

import (
	"strconv"
	"strings"
	"time"
)

// fallbackSlug is used when a name has no usable characters
const fallbackSlug = "site"

// Slugify creates a URL-safe slug from a project name
func Slugify(name string) string {
	// Convert to lowercase and turn separators into hyphens
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer(" ", "-", "\t", "-", "_", "-", ".", "-").Replace(name)

	// Remove invalid characters and collapse repeated hyphens
	var result strings.Builder
	lastHyphen := false
	for _, char := range name {
		switch {
		case (char >= 'a' && char <= 'z') || (char >= '0' && char <= '9'):
			result.WriteRune(char)
			lastHyphen = false
		case char == '-' && !lastHyphen:
			result.WriteRune(char)
			lastHyphen = true
		}
	}

	// Ensure it doesn't start or end with hyphen
	slug := strings.Trim(result.String(), "-")
	if slug == "" {
		return fallbackSlug
	}
	return slug
}

// DeploymentSlug builds the public slug of a deployment: the slugified project name
// followed by the deploy time in base 36
func DeploymentSlug(projectName string, at time.Time) string {
	return Slugify(projectName) + "-" + strconv.FormatInt(at.UnixNano(), 36)
}

// DeploymentURL joins the public base URL and a deployment slug
func DeploymentURL(baseURL, slug string) string {
	return strings.TrimRight(baseURL, "/") + "/deploy/" + slug
}
