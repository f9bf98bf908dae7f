package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/codehub-server/errs"
	"github.com/codehub-server/lib/cache"
	"github.com/codehub-server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// steppingClock returns a clock that advances one second per call
func steppingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func TestDeploymentService_DeployLiveFiles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.deployments.now = steppingClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	owner := env.createUser(t)
	project := env.createProject(t, owner.ID, "My Site", false)

	deployment, err := env.deployments.Deploy(ctx, project.ID, owner.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.DeploymentStatusDeployed, deployment.Status)
	assert.True(t, strings.HasPrefix(deployment.Slug, "my-site-"))
	assert.Equal(t, "https://codehub.test/deploy/"+deployment.Slug, deployment.URL)

	commit, err := env.snapshots.GetCommit(ctx, project.ID, owner.ID, deployment.CommitID)
	require.NoError(t, err)
	assert.Equal(t, "Deployment commit - 2024-05-01T12:00:01Z", commit.Message)
	assert.Len(t, commit.Files, 3)

	stored := env.reloadProject(t, project.ID)
	require.NotNil(t, stored.DeployedURL)
	assert.Equal(t, deployment.URL, *stored.DeployedURL)
	assert.Equal(t, deployment.CommitID, *stored.LastCommitID)
}

func TestDeploymentService_DeployExistingCommit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.deployments.now = steppingClock(time.Now())
	owner := env.createUser(t)
	project := env.createProject(t, owner.ID, "Pinned", false)
	other := env.createProject(t, owner.ID, "Other", false)

	commit, err := env.snapshots.CreateCommit(ctx, project.ID, owner.ID, "release")
	require.NoError(t, err)

	first, err := env.deployments.Deploy(ctx, project.ID, owner.ID, commit.ID)
	require.NoError(t, err)
	second, err := env.deployments.Deploy(ctx, project.ID, owner.ID, commit.ID)
	require.NoError(t, err)
	assert.Equal(t, commit.ID, first.CommitID)
	assert.NotEqual(t, first.Slug, second.Slug)
	assert.Equal(t, int64(1), env.count(t, &models.Commit{}, "project_id = ?", project.ID))

	foreign, err := env.snapshots.CreateCommit(ctx, other.ID, owner.ID, "other")
	require.NoError(t, err)
	_, err = env.deployments.Deploy(ctx, project.ID, owner.ID, foreign.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	deployments, err := env.deployments.ListDeployments(ctx, project.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, deployments, 2)
	assert.Equal(t, second.ID, deployments[0].ID)
	require.NotNil(t, deployments[0].Commit)
	assert.Equal(t, "release", deployments[0].Commit.Message)
}

func TestDeploymentService_DeployRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t)
	stranger := env.createUser(t)
	project := env.createProject(t, owner.ID, "Empty", false)

	_, err := env.deployments.Deploy(ctx, project.ID, stranger.ID, "")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, env.db.Where("project_id = ?", project.ID).Delete(&models.ProjectFile{}).Error)
	_, err = env.deployments.Deploy(ctx, project.ID, owner.ID, "")
	assert.ErrorIs(t, err, errs.ErrNoFilesToDeploy)
	assert.Zero(t, env.count(t, &models.Deployment{}, "project_id = ?", project.ID))
	assert.Zero(t, env.count(t, &models.Commit{}, "project_id = ?", project.ID))
}

func TestDeploymentService_RenderDeployment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t)
	project := env.createProject(t, owner.ID, "Rendered", false)
	files := env.liveFiles(t, project.ID)
	style, _ := fileByName(files, "style.css")

	deployment, err := env.deployments.Deploy(ctx, project.ID, owner.ID, "")
	require.NoError(t, err)

	document, err := env.deployments.RenderDeployment(ctx, deployment.Slug)
	require.NoError(t, err)
	assert.Contains(t, document, "<style>\n/* style.css */\n"+style.Content+"\n</style>")
	assert.Contains(t, document, "<script>\n/* script.js */\n")
	assert.NotContains(t, document, `<link rel="stylesheet" href="style.css">`)
	assert.Contains(t, document, `<meta name="deployment-url" content="`+deployment.URL+`">`)
	assert.Contains(t, document, `<meta name="project-name" content="Rendered">`)

	cached, ok, err := env.renders.Get(ctx, deployment.Slug)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, document, cached)

	// later edits never reach a published deployment
	_, err = env.files.Update(ctx, project.ID, owner.ID, style.ID, "body { color: red; }")
	require.NoError(t, err)
	require.NoError(t, env.renders.Delete(ctx, deployment.Slug))

	again, err := env.deployments.RenderDeployment(ctx, deployment.Slug)
	require.NoError(t, err)
	assert.Equal(t, document, again)

	_, err = env.deployments.RenderDeployment(ctx, "unknown-slug")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestDeploymentService_RenderSkipsFailedDeployments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t)
	project := env.createProject(t, owner.ID, "Failing", false)

	deployment, err := env.deployments.Deploy(ctx, project.ID, owner.ID, "")
	require.NoError(t, err)
	require.NoError(t, env.db.Model(&models.Deployment{}).
		Where("id = ?", deployment.ID).
		Update("status", models.DeploymentStatusFailed).Error)

	_, err = env.deployments.RenderDeployment(ctx, deployment.Slug)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestDeploymentService_RenderPreview(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t)
	stranger := env.createUser(t)
	project := env.createProject(t, owner.ID, "Preview", false)
	style, _ := fileByName(env.liveFiles(t, project.ID), "style.css")

	commit, err := env.snapshots.CreateCommit(ctx, project.ID, owner.ID, "before edit")
	require.NoError(t, err)
	_, err = env.files.Update(ctx, project.ID, owner.ID, style.ID, "h1 { color: teal; }")
	require.NoError(t, err)

	live, err := env.deployments.RenderPreview(ctx, project.ID, owner.ID, "")
	require.NoError(t, err)
	assert.Contains(t, live, "h1 { color: teal; }")
	assert.NotContains(t, live, `<meta name="generator"`)

	old, err := env.deployments.RenderPreview(ctx, project.ID, owner.ID, commit.ID)
	require.NoError(t, err)
	assert.Contains(t, old, style.Content)
	assert.NotContains(t, old, "h1 { color: teal; }")

	_, err = env.deployments.RenderPreview(ctx, project.ID, stranger.ID, "")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = env.deployments.RenderPreview(ctx, project.ID, owner.ID, "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestDeploymentService_PreviewWithoutIndex(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t)
	project := env.createProject(t, owner.ID, "Headless", false)
	require.NoError(t, env.db.Where("project_id = ? AND name = ?", project.ID, models.IndexFileName).
		Delete(&models.ProjectFile{}).Error)

	_, err := env.deployments.RenderPreview(ctx, project.ID, owner.ID, "")
	assert.ErrorIs(t, err, errs.ErrNoIndex)
}

// hookedCache runs beforeSet once, ahead of the first Set
type hookedCache struct {
	cache.RenderCache
	beforeSet func()
}

func (c *hookedCache) Set(ctx context.Context, key, document string) error {
	if hook := c.beforeSet; hook != nil {
		c.beforeSet = nil
		hook()
	}
	return c.RenderCache.Set(ctx, key, document)
}

func TestDeploymentService_RenderDoesNotCacheDeletedProject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t)
	project := env.createProject(t, owner.ID, "Short Lived", true)

	deployment, err := env.deployments.Deploy(ctx, project.ID, owner.ID, "")
	require.NoError(t, err)

	// the project is deleted after the render loaded its files but before it was cached
	env.deployments.renders = &hookedCache{
		RenderCache: env.renders,
		beforeSet: func() {
			require.NoError(t, env.projects.DeleteProject(ctx, project.ID, owner.ID))
		},
	}

	_, err = env.deployments.RenderDeployment(ctx, deployment.Slug)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, ok, err := env.renders.Get(ctx, deployment.Slug)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = env.deployments.RenderDeployment(ctx, deployment.Slug)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
