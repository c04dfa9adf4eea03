package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/vibhusapra/phoenix/internal/infra/db"
	"github.com/vibhusapra/phoenix/internal/modules/model"
	"github.com/vibhusapra/phoenix/internal/modules/repo"
	"github.com/vibhusapra/phoenix/internal/pkg/apperr"
	"github.com/vibhusapra/phoenix/internal/pkg/auth"
	"github.com/vibhusapra/phoenix/internal/pkg/gid"
	"github.com/vibhusapra/phoenix/internal/pkg/optional"
	"github.com/vibhusapra/phoenix/internal/pkg/viewpayload"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	msgEmptyName      = "Name cannot be empty"
	msgDuplicateName  = "A view with this name already exists"
	msgViewNotFound   = "SavedView not found"
	msgParentNotFound = "Project or owner does not exist"
)

type SavedViewService interface {
	Create(ctx context.Context, caller *auth.Principal, in CreateSavedViewInput) (*model.SavedView, error)
	Patch(ctx context.Context, caller *auth.Principal, in PatchSavedViewInput) (*model.SavedView, error)
	Delete(ctx context.Context, caller *auth.Principal, in DeleteSavedViewsInput) error
}

type CreateSavedViewInput struct {
	ProjectRef string
	Name       string
	Payload    viewpayload.Input
}

// PatchSavedViewInput leaves a field untouched when it is not provided or null.
type PatchSavedViewInput struct {
	ViewRef string
	Name    optional.Field[string]
	Payload optional.Field[viewpayload.Input]
}

type DeleteSavedViewsInput struct {
	ViewRefs []string
}

type savedViewService struct {
	r       repo.SavedViewRepo
	filters *FilterGateway
	events  EventPublisher
	lock    *db.WriteLock
	log     *zap.Logger
}

// Option configures a SavedViewService.
type Option func(*savedViewService)

// WithWriteLock makes Create and Patch fail while lock is held. Delete is unaffected.
func WithWriteLock(lock *db.WriteLock) Option {
	return func(s *savedViewService) { s.lock = lock }
}

// NewSavedViewService builds the service. events may be nil to disable change events.
func NewSavedViewService(r repo.SavedViewRepo, filters *FilterGateway, events EventPublisher, log *zap.Logger, opts ...Option) SavedViewService {
	s := &savedViewService{r: r, filters: filters, events: events, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *savedViewService) Create(ctx context.Context, caller *auth.Principal, in CreateSavedViewInput) (*model.SavedView, error) {
	ownerID, err := callerID(caller)
	if err != nil {
		return nil, err
	}
	if err := ensureWritable(s.lock); err != nil {
		return nil, err
	}
	projectID, err := gid.Resolve(in.ProjectRef, gid.KindProject)
	if err != nil {
		return nil, err
	}
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	delta, err := viewpayload.Delta(in.Payload)
	if err != nil {
		return nil, err
	}
	if cond, ok := in.Payload.FilterToValidate(); ok {
		if err := s.filters.Validate(ctx, projectID, cond); err != nil {
			return nil, err
		}
	}

	view := &model.SavedView{
		Name:        name,
		ProjectID:   projectID,
		OwnerUserID: ownerID,
		Payload:     datatypes.JSONMap(delta),
	}
	err = s.r.Transaction(ctx, func(tx repo.SavedViewRepo) error {
		return tx.Create(ctx, view)
	})
	if err != nil {
		return nil, mapStoreErr(err, "create saved view")
	}

	s.log.Sugar().Debugw("saved view created", "viewID", view.ID, "projectID", projectID, "ownerID", ownerID)
	publish(ctx, s.events, s.log, SavedViewEvent{
		Type:      EventSavedViewCreated,
		ViewIDs:   []string{gid.Encode(gid.KindSavedView, view.ID)},
		ProjectID: gid.Encode(gid.KindProject, projectID),
		OwnerID:   gid.Encode(gid.KindUser, ownerID),
		Name:      view.Name,
	})
	return view, nil
}

func (s *savedViewService) Patch(ctx context.Context, caller *auth.Principal, in PatchSavedViewInput) (*model.SavedView, error) {
	ownerID, err := callerID(caller)
	if err != nil {
		return nil, err
	}
	if err := ensureWritable(s.lock); err != nil {
		return nil, err
	}
	viewID, err := gid.Resolve(in.ViewRef, gid.KindSavedView)
	if err != nil {
		return nil, err
	}

	var newName *string
	if v, ok := in.Name.Get(); ok {
		name, err := cleanName(v)
		if err != nil {
			return nil, err
		}
		newName = &name
	}

	var delta map[string]any
	payloadIn, hasPayload := in.Payload.Get()
	if hasPayload {
		if delta, err = viewpayload.Delta(payloadIn); err != nil {
			return nil, err
		}
	}

	// Validated outside the transaction; a view never changes project.
	if cond, ok := payloadIn.FilterToValidate(); hasPayload && ok {
		row, err := s.r.Get(ctx, viewID)
		if err != nil {
			return nil, mapStoreErr(err, "patch saved view")
		}
		if err := ensureOwner(row, ownerID); err != nil {
			return nil, err
		}
		if err := s.filters.Validate(ctx, row.ProjectID, cond); err != nil {
			return nil, err
		}
	}

	var (
		view    *model.SavedView
		changed bool
	)
	err = s.r.Transaction(ctx, func(tx repo.SavedViewRepo) error {
		row, err := tx.Get(ctx, viewID)
		if err != nil {
			return err
		}
		if err := ensureOwner(row, ownerID); err != nil {
			return err
		}

		if newName != nil && *newName != row.Name {
			row.Name = *newName
			changed = true
		}

		if hasPayload {
			merged := viewpayload.Merge(row.Payload, delta)
			if !reflect.DeepEqual(map[string]any(row.Payload), merged) {
				row.Payload = datatypes.JSONMap(merged)
				changed = true
			}
		}

		view = row
		if !changed {
			return nil
		}
		return tx.Update(ctx, row)
	})
	if err != nil {
		return nil, mapStoreErr(err, "patch saved view")
	}

	if changed {
		s.log.Sugar().Debugw("saved view updated", "viewID", view.ID, "ownerID", ownerID)
		publish(ctx, s.events, s.log, SavedViewEvent{
			Type:      EventSavedViewUpdated,
			ViewIDs:   []string{gid.Encode(gid.KindSavedView, view.ID)},
			ProjectID: gid.Encode(gid.KindProject, view.ProjectID),
			OwnerID:   gid.Encode(gid.KindUser, ownerID),
			Name:      view.Name,
		})
	}
	return view, nil
}

func (s *savedViewService) Delete(ctx context.Context, caller *auth.Principal, in DeleteSavedViewsInput) error {
	ownerID, err := callerID(caller)
	if err != nil {
		return err
	}
	ids, err := gid.ResolveAll(in.ViewRefs, gid.KindSavedView)
	if err != nil {
		return err
	}

	var deleted int64
	err = s.r.Transaction(ctx, func(tx repo.SavedViewRepo) error {
		n, err := tx.DeleteOwned(ctx, ids, ownerID)
		deleted = n
		return err
	})
	if err != nil {
		return fmt.Errorf("delete saved views: %w", err)
	}

	s.log.Sugar().Debugw("saved views deleted", "requested", len(ids), "deleted", deleted, "ownerID", ownerID)
	if deleted > 0 {
		refs := make([]string, 0, len(ids))
		for _, id := range ids {
			refs = append(refs, gid.Encode(gid.KindSavedView, id))
		}
		publish(ctx, s.events, s.log, SavedViewEvent{
			Type:    EventSavedViewDeleted,
			ViewIDs: refs,
			OwnerID: gid.Encode(gid.KindUser, ownerID),
		})
	}
	return nil
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.InvalidInput(msgEmptyName)
	}
	return name, nil
}

// mapStoreErr turns store sentinels into domain errors. Domain errors raised inside a
// transaction pass through unchanged.
func mapStoreErr(err error, op string) error {
	var domainErr *apperr.Error
	switch {
	case errors.As(err, &domainErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(msgViewNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflict(msgDuplicateName, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperr.Wrap(apperr.CodeNotFound, msgParentNotFound, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
