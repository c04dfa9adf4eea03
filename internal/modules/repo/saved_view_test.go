package repo

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibhusapra/phoenix/internal/modules/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db      *gorm.DB
	repo    SavedViewRepo
	project model.Project
	other   model.Project
	alice   model.User
	bob     model.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "views.db") + "?_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.Project{}, &model.User{}, &model.SavedView{}))

	f := &fixture{
		db:      db,
		repo:    NewSavedViewRepo(db),
		project: model.Project{Name: "default"},
		other:   model.Project{Name: "staging"},
		alice:   model.User{Username: "alice", Email: "alice@example.com"},
		bob:     model.User{Username: "bob", Email: "bob@example.com"},
	}
	require.NoError(t, db.Create(&f.project).Error)
	require.NoError(t, db.Create(&f.other).Error)
	require.NoError(t, db.Create(&f.alice).Error)
	require.NoError(t, db.Create(&f.bob).Error)
	return f
}

func (f *fixture) view(t *testing.T, name string, projectID, ownerID int64) *model.SavedView {
	t.Helper()
	v := &model.SavedView{
		Name:        name,
		ProjectID:   projectID,
		OwnerUserID: ownerID,
		Payload:     datatypes.JSONMap{"filterCondition": "span_kind = \"LLM\""},
	}
	require.NoError(t, f.repo.Create(context.Background(), v))
	return v
}

func (f *fixture) count(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&model.SavedView{}).Count(&n).Error)
	return n
}

func TestSavedViewRepo_CreateAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.view(t, "LLM spans", f.project.ID, f.alice.ID)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := f.repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "LLM spans", got.Name)
	assert.Equal(t, f.project.ID, got.ProjectID)
	assert.Equal(t, f.alice.ID, got.OwnerUserID)
	assert.Equal(t, "span_kind = \"LLM\"", got.Payload["filterCondition"])

	_, err = f.repo.Get(ctx, created.ID+100)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSavedViewRepo_CreateDefaultsPayload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v := &model.SavedView{Name: "bare", ProjectID: f.project.ID, OwnerUserID: f.alice.ID}
	require.NoError(t, f.repo.Create(ctx, v))

	got, err := f.repo.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Payload)
	assert.Empty(t, got.Payload)
}

func TestSavedViewRepo_CreateUniqueness(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.view(t, "errors", f.project.ID, f.alice.ID)

	tests := []struct {
		name      string
		view      model.SavedView
		duplicate bool
	}{
		{
			name:      "same project and owner",
			view:      model.SavedView{Name: "errors", ProjectID: f.project.ID, OwnerUserID: f.alice.ID},
			duplicate: true,
		},
		{
			name: "same name for another owner",
			view: model.SavedView{Name: "errors", ProjectID: f.project.ID, OwnerUserID: f.bob.ID},
		},
		{
			name: "same name in another project",
			view: model.SavedView{Name: "errors", ProjectID: f.other.ID, OwnerUserID: f.alice.ID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.view
			err := f.repo.Create(ctx, &v)
			if tt.duplicate {
				assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSavedViewRepo_CreateRequiresExistingParents(t *testing.T) {
	f := newFixture(t)

	v := &model.SavedView{Name: "orphan", ProjectID: f.project.ID, OwnerUserID: 9999}
	assert.ErrorIs(t, f.repo.Create(context.Background(), v), gorm.ErrForeignKeyViolated)

	v = &model.SavedView{Name: "orphan", ProjectID: 9999, OwnerUserID: f.alice.ID}
	assert.ErrorIs(t, f.repo.Create(context.Background(), v), gorm.ErrForeignKeyViolated)
}

func TestSavedViewRepo_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v := f.view(t, "slow", f.project.ID, f.alice.ID)
	f.view(t, "taken", f.project.ID, f.alice.ID)
	before := v.UpdatedAt

	time.Sleep(5 * time.Millisecond)
	v.Name = "slow spans"
	v.Payload = datatypes.JSONMap{"timeRangeKey": "last_7d", "custom": []any{"a"}}
	require.NoError(t, f.repo.Update(ctx, v))
	assert.True(t, v.UpdatedAt.After(before))

	got, err := f.repo.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "slow spans", got.Name)
	assert.Equal(t, "last_7d", got.Payload["timeRangeKey"])
	assert.NotContains(t, got.Payload, "filterCondition")

	t.Run("rename onto a taken name", func(t *testing.T) {
		v.Name = "taken"
		assert.ErrorIs(t, f.repo.Update(ctx, v), gorm.ErrDuplicatedKey)
	})

	t.Run("missing row", func(t *testing.T) {
		missing := &model.SavedView{ID: v.ID + 100, Name: "x", Payload: datatypes.JSONMap{}}
		assert.ErrorIs(t, f.repo.Update(ctx, missing), gorm.ErrRecordNotFound)
	})
}

func TestSavedViewRepo_DeleteOwned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a1 := f.view(t, "a1", f.project.ID, f.alice.ID)
	a2 := f.view(t, "a2", f.other.ID, f.alice.ID)
	b1 := f.view(t, "b1", f.project.ID, f.bob.ID)

	n, err := f.repo.DeleteOwned(ctx, []int64{a1.ID, a2.ID, b1.ID, 12345}, f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = f.repo.Get(ctx, b1.ID)
	assert.NoError(t, err)
	_, err = f.repo.Get(ctx, a1.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// repeating the call is a no-op
	n, err = f.repo.DeleteOwned(ctx, []int64{a1.ID, a2.ID}, f.alice.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = f.repo.DeleteOwned(ctx, nil, f.alice.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, int64(1), f.count(t))
}

func TestSavedViewRepo_CascadeDelete(t *testing.T) {
	f := newFixture(t)

	f.view(t, "p1", f.project.ID, f.alice.ID)
	f.view(t, "p2", f.other.ID, f.bob.ID)
	f.view(t, "p3", f.other.ID, f.alice.ID)

	require.NoError(t, f.db.Delete(&model.Project{}, f.project.ID).Error)
	assert.Equal(t, int64(2), f.count(t))

	require.NoError(t, f.db.Delete(&model.User{}, f.alice.ID).Error)
	assert.Equal(t, int64(1), f.count(t))
}

func TestSavedViewRepo_TransactionRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := f.repo.Transaction(ctx, func(tx SavedViewRepo) error {
		v := &model.SavedView{Name: "temp", ProjectID: f.project.ID, OwnerUserID: f.alice.ID}
		if err := tx.Create(ctx, v); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, f.count(t))
}

func TestNormalizeWriteErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "postgres unique violation", err: &pgconn.PgError{Code: "23505"}, want: gorm.ErrDuplicatedKey},
		{name: "postgres fk violation", err: &pgconn.PgError{Code: "23503"}, want: gorm.ErrForeignKeyViolated},
		{name: "sqlite unique violation", err: errors.New("constraint failed: UNIQUE constraint failed: saved_views.name (2067)"), want: gorm.ErrDuplicatedKey},
		{name: "sqlite fk violation", err: errors.New("constraint failed: FOREIGN KEY constraint failed (787)"), want: gorm.ErrForeignKeyViolated},
		{name: "already translated", err: gorm.ErrDuplicatedKey, want: gorm.ErrDuplicatedKey},
		{name: "other", err: errors.New("disk full")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeWriteErr(tt.err)
			if tt.want == nil {
				assert.False(t, errors.Is(got, gorm.ErrDuplicatedKey))
				assert.False(t, errors.Is(got, gorm.ErrForeignKeyViolated))
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
	assert.NoError(t, normalizeWriteErr(nil))
}
