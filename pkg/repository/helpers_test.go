package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/mateh-lab/taskcast/pkg/domain/interfaces"
	"github.com/mateh-lab/taskcast/pkg/domain/model"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
	"github.com/mateh-lab/taskcast/pkg/repository/firestore"
	"github.com/mateh-lab/taskcast/pkg/repository/memory"
	"github.com/mateh-lab/taskcast/pkg/repository/sqlite"
)

func newMemoryRepo(t *testing.T) interfaces.Repository {
	t.Helper()
	return memory.New()
}

func newSQLiteRepo(t *testing.T) interfaces.Repository {
	t.Helper()
	repo, err := sqlite.New(filepath.Join(t.TempDir(), "taskcast.db"))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

func newFirestoreRepo(t *testing.T) interfaces.Repository {
	t.Helper()
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_ID not set")
	}

	repo, err := firestore.New(context.Background(), projectID, "")
	gt.NoError(t, err).Required()
	return repo
}

func newTask(t *testing.T, repo interfaces.Repository, senderID types.UserID, recipients ...types.UserID) *model.Task {
	t.Helper()
	created, err := repo.Task().CreateWithAssignments(context.Background(), &model.Task{
		Body:     "Call the volunteers in your district",
		SenderID: senderID,
	}, recipients)
	gt.NoError(t, err).Required()
	return created
}
