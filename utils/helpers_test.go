package utils

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "My Site", "my-site"},
		{"separators", "my_cool.site", "my-cool-site"},
		{"collapses hyphens", "a  -  b", "a-b"},
		{"trims hyphens", "--edge--", "edge"},
		{"drops symbols", "Café & Bar!", "caf-bar"},
		{"empty", "", "site"},
		{"only symbols", "___", "site"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestDeploymentSlug(t *testing.T) {
	at := time.Unix(1700000000, 123)
	slug := DeploymentSlug("Hello World", at)

	assert.True(t, strings.HasPrefix(slug, "hello-world-"))
	suffix := strings.TrimPrefix(slug, "hello-world-")
	n, err := strconv.ParseInt(suffix, 36, 64)
	assert.NoError(t, err)
	assert.Equal(t, at.UnixNano(), n)
}

func TestDeploymentURL(t *testing.T) {
	assert.Equal(t, "https://codehub.dev/deploy/x-1", DeploymentURL("https://codehub.dev/", "x-1"))
	assert.Equal(t, "http://localhost:8080/deploy/x-1", DeploymentURL("http://localhost:8080", "x-1"))
}
