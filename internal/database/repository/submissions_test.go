package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/jaskmask/internal/database"
	"github.com/jask/jaskmask/internal/database/repository"
)

func openTestDB(t *testing.T) *repository.SubmissionRepo {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, database.SeedForms(ctx, db, []repository.Form{
		{Name: "contact", Description: "Contact details"},
		{Name: "payment"},
	}))
	return repository.NewSubmissionRepo(db)
}

func submission(id, formID string, at time.Time, phone string) repository.Submission {
	return repository.Submission{
		ID:          id,
		FormID:      formID,
		Complete:    true,
		SubmittedAt: at,
		Values: []repository.SubmissionValue{
			{ID: id + "-phone", Field: "phone", Position: 0, Display: phone, Raw: phone, Submitted: phone, Complete: true},
			{ID: id + "-zip", Field: "zip", Position: 1, Display: "12345-____", Raw: "12345", Submitted: "12345-____"},
		},
	}
}

func TestSubmissionInsertGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := openTestDB(t)
	contact := database.FormID("contact")

	at := database.Now()
	require.NoError(t, repo.Insert(ctx, submission("s1", contact, at, "(555) 123-4567")))

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, contact, got.FormID)
	require.True(t, got.Complete)
	require.True(t, got.SubmittedAt.Equal(at))
	require.Len(t, got.Values, 2)
	require.Equal(t, "phone", got.Values[0].Field)

	zip, ok := got.Value("zip")
	require.True(t, ok)
	require.Equal(t, "12345", zip.Raw)
	require.False(t, zip.Complete)

	missing, err := repo.Get(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestSubmissionListAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := openTestDB(t)
	contact := database.FormID("contact")
	payment := database.FormID("payment")

	base := database.Now()
	require.NoError(t, repo.Insert(ctx, submission("a", contact, base, "1")))
	require.NoError(t, repo.Insert(ctx, submission("b", contact, base.Add(time.Minute), "2")))
	require.NoError(t, repo.Insert(ctx, submission("c", payment, base, "3")))

	list, err := repo.ListByForm(ctx, contact, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "b", list[0].ID)
	require.Len(t, list[0].Values, 2)

	limited, err := repo.ListByForm(ctx, contact, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)

	n, err := repo.DeleteByForm(ctx, contact)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	list, err = repo.ListByForm(ctx, contact, 0)
	require.NoError(t, err)
	require.Empty(t, list)

	other, err := repo.ListByForm(ctx, payment, 0)
	require.NoError(t, err)
	require.Len(t, other, 1)
}

func TestSubmissionRequiresKnownForm(t *testing.T) {
	t.Parallel()
	repo := openTestDB(t)
	err := repo.Insert(context.Background(), submission("x", "no-such-form", database.Now(), "1"))
	require.Error(t, err)
}
