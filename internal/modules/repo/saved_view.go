package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vibhusapra/phoenix/internal/modules/model"
	"gorm.io/gorm"
)

type SavedViewRepo interface {
	Create(ctx context.Context, v *model.SavedView) error
	Get(ctx context.Context, id int64) (*model.SavedView, error)
	Update(ctx context.Context, v *model.SavedView) error
	DeleteOwned(ctx context.Context, ids []int64, ownerUserID int64) (int64, error)
	// Transaction runs fn against a repo bound to a single database transaction.
	Transaction(ctx context.Context, fn func(tx SavedViewRepo) error) error
}

type savedViewRepo struct{ db *gorm.DB }

func NewSavedViewRepo(db *gorm.DB) SavedViewRepo {
	return &savedViewRepo{db: db}
}

func (r *savedViewRepo) Create(ctx context.Context, v *model.SavedView) error {
	return normalizeWriteErr(r.db.WithContext(ctx).Create(v).Error)
}

func (r *savedViewRepo) Get(ctx context.Context, id int64) (*model.SavedView, error) {
	var v model.SavedView
	if err := r.db.WithContext(ctx).Where(&model.SavedView{ID: id}).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// Update writes the name and payload of v and refreshes its updated_at.
func (r *savedViewRepo) Update(ctx context.Context, v *model.SavedView) error {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&model.SavedView{}).
		Where("id = ?", v.ID).
		Updates(map[string]any{
			"name":       v.Name,
			"payload":    v.Payload,
			"updated_at": now,
		})
	if res.Error != nil {
		return normalizeWriteErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	v.UpdatedAt = now
	return nil
}

// DeleteOwned removes the rows among ids owned by ownerUserID in one statement.
// Ids that do not exist or belong to someone else are skipped.
func (r *savedViewRepo) DeleteOwned(ctx context.Context, ids []int64, ownerUserID int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("id IN ? AND owner_user_id = ?", ids, ownerUserID).
		Delete(&model.SavedView{})
	return res.RowsAffected, res.Error
}

func (r *savedViewRepo) Transaction(ctx context.Context, fn func(tx SavedViewRepo) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&savedViewRepo{db: tx})
	})
}

// normalizeWriteErr maps constraint violations from any supported driver onto
// gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated.
func normalizeWriteErr(err error) error {
	if err == nil || errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return err
	}
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %w", gorm.ErrDuplicatedKey, err)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: %w", gorm.ErrForeignKeyViolated, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key constraint failed") ||
		strings.Contains(msg, "violates foreign key constraint")
}
