package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/codehub-server/errs"
	"github.com/codehub-server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSnapshotService_CreateCommit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t)
	project := env.createProject(t, owner.ID, "History", false)

	first, err := env.snapshots.CreateCommit(ctx, project.ID, owner.ID, "  Initial commit  ")
	require.NoError(t, err)
	assert.Equal(t, "Initial commit", first.Message)
	assert.Equal(t, int64(3), first.FileCount)
	assert.Nil(t, first.ParentCommitID)
	assert.Equal(t, first.ID, *env.reloadProject(t, project.ID).LastCommitID)

	second, err := env.snapshots.CreateCommit(ctx, project.ID, owner.ID, "Second")
	require.NoError(t, err)
	require.NotNil(t, second.ParentCommitID)
	assert.Equal(t, first.ID, *second.ParentCommitID)
	assert.Equal(t, second.ID, *env.reloadProject(t, project.ID).LastCommitID)
}

func TestSnapshotService_CommitCopiesByValue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t)
	project := env.createProject(t, owner.ID, "Immutable", false)
	style, _ := fileByName(env.liveFiles(t, project.ID), "style.css")

	commit, err := env.snapshots.CreateCommit(ctx, project.ID, owner.ID, "Snapshot")
	require.NoError(t, err)

	_, err = env.files.Update(ctx, project.ID, owner.ID, style.ID, "changed")
	require.NoError(t, err)
	require.NoError(t, env.files.Delete(ctx, project.ID, owner.ID, style.ID))

	stored, err := env.snapshots.GetCommit(ctx, project.ID, owner.ID, commit.ID)
	require.NoError(t, err)
	require.Len(t, stored.Files, 3)
	for _, f := range stored.Files {
		if f.FileName == "style.css" {
			assert.Equal(t, style.Content, f.FileContent)
			require.NotNil(t, f.SourceFileID)
			assert.Equal(t, style.ID, *f.SourceFileID)
		}
	}
}

func TestSnapshotService_CreateCommitValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t)
	stranger := env.createUser(t)
	project := env.createProject(t, owner.ID, "Rules", false)

	_, err := env.snapshots.CreateCommit(ctx, project.ID, owner.ID, "   ")
	assert.ErrorIs(t, err, errs.ErrInvalidMessage)

	_, err = env.snapshots.CreateCommit(ctx, project.ID, owner.ID, strings.Repeat("m", 201))
	assert.ErrorIs(t, err, errs.ErrInvalidMessage)

	_, err = env.snapshots.CreateCommit(ctx, project.ID, owner.ID, strings.Repeat("m", 200))
	assert.NoError(t, err)

	_, err = env.snapshots.CreateCommit(ctx, project.ID, stranger.ID, "mine now")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, env.db.Where("project_id = ?", project.ID).Delete(&models.ProjectFile{}).Error)
	_, err = env.snapshots.CreateCommit(ctx, project.ID, owner.ID, "nothing here")
	assert.ErrorIs(t, err, errs.ErrEmptyProject)
	assert.Equal(t, int64(1), env.count(t, &models.Commit{}, "project_id = ?", project.ID))
}

func TestSnapshotService_CommitFileFailureRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t)
	project := env.createProject(t, owner.ID, "Atomic", false)

	base, err := env.snapshots.CreateCommit(ctx, project.ID, owner.ID, "base")
	require.NoError(t, err)

	err = env.db.Callback().Create().Before("gorm:create").Register("test:fail_commit_files", func(tx *gorm.DB) {
		if tx.Statement.Table == "commit_files" {
			tx.AddError(errors.New("disk full"))
		}
	})
	require.NoError(t, err)

	_, err = env.snapshots.CreateCommit(ctx, project.ID, owner.ID, "doomed")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrStorage)

	assert.Equal(t, int64(1), env.count(t, &models.Commit{}, "project_id = ?", project.ID))
	assert.Equal(t, int64(3), env.count(t, &models.CommitFile{}, "commit_id = ?", base.ID))
	assert.Equal(t, base.ID, *env.reloadProject(t, project.ID).LastCommitID)
}

func TestSnapshotService_RestoreRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t)
	project := env.createProject(t, owner.ID, "Restore", false)
	original := env.liveFiles(t, project.ID)

	commit, err := env.snapshots.CreateCommit(ctx, project.ID, owner.ID, "good state")
	require.NoError(t, err)

	index, _ := fileByName(original, models.IndexFileName)
	_, err = env.files.Update(ctx, project.ID, owner.ID, index.ID, "<p>broken</p>")
	require.NoError(t, err)
	_, err = env.files.Create(ctx, project.ID, owner.ID, "extra.js", "1")
	require.NoError(t, err)
	_, err = env.snapshots.CreateCommit(ctx, project.ID, owner.ID, "bad state")
	require.NoError(t, err)

	result, err := env.snapshots.RestoreCommit(ctx, project.ID, owner.ID, commit.ID)
	require.NoError(t, err)
	assert.False(t, result.AlreadyUpToDate)
	assert.Equal(t, 4, result.FilesRemoved)
	assert.Equal(t, 3, result.FilesAdded)
	assert.Equal(t, 3, result.FilesRestored)

	restored := env.liveFiles(t, project.ID)
	require.Len(t, restored, len(original))
	for i := range original {
		assert.Equal(t, original[i].Name, restored[i].Name)
		assert.Equal(t, original[i].Path, restored[i].Path)
		assert.Equal(t, original[i].Content, restored[i].Content)
		assert.Equal(t, original[i].FileType, restored[i].FileType)
		assert.Equal(t, original[i].Size, restored[i].Size)
	}
	assert.Equal(t, commit.ID, *env.reloadProject(t, project.ID).LastCommitID)
}

func TestSnapshotService_RestoreCurrentCommitIsNoop(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t)
	project := env.createProject(t, owner.ID, "Noop", false)

	commit, err := env.snapshots.CreateCommit(ctx, project.ID, owner.ID, "current")
	require.NoError(t, err)

	before := env.liveFiles(t, project.ID)
	beforeProject := env.reloadProject(t, project.ID)

	result, err := env.snapshots.RestoreCommit(ctx, project.ID, owner.ID, commit.ID)
	require.NoError(t, err)
	assert.True(t, result.AlreadyUpToDate)
	assert.Zero(t, result.FilesRemoved)
	assert.Zero(t, result.FilesAdded)

	after := env.liveFiles(t, project.ID)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.True(t, before[i].UpdatedAt.Equal(after[i].UpdatedAt))
	}
	assert.True(t, beforeProject.UpdatedAt.Equal(env.reloadProject(t, project.ID).UpdatedAt))
}

func TestSnapshotService_RestoreForeignCommit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t)
	mine := env.createProject(t, owner.ID, "Mine", false)
	other := env.createProject(t, owner.ID, "Other", false)

	foreign, err := env.snapshots.CreateCommit(ctx, other.ID, owner.ID, "elsewhere")
	require.NoError(t, err)

	_, err = env.snapshots.RestoreCommit(ctx, mine.ID, owner.ID, foreign.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = env.snapshots.RestoreCommit(ctx, mine.ID, owner.ID, "does-not-exist")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	assert.Len(t, env.liveFiles(t, mine.ID), 3)
}

func TestSnapshotService_ListCommits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t)
	project := env.createProject(t, owner.ID, "List", false)

	first, err := env.snapshots.CreateCommit(ctx, project.ID, owner.ID, "first")
	require.NoError(t, err)
	_, err = env.files.Create(ctx, project.ID, owner.ID, "more.css", "")
	require.NoError(t, err)
	second, err := env.snapshots.CreateCommit(ctx, project.ID, owner.ID, "second")
	require.NoError(t, err)

	commits, err := env.snapshots.ListCommits(ctx, project.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, second.ID, commits[0].ID)
	assert.Equal(t, int64(4), commits[0].FileCount)
	assert.Equal(t, first.ID, commits[1].ID)
	assert.Equal(t, int64(3), commits[1].FileCount)
	assert.Empty(t, commits[0].Files)
}
