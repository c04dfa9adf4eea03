package service

import (
	"github.com/vibhusapra/phoenix/internal/infra/db"
	"github.com/vibhusapra/phoenix/internal/modules/model"
	"github.com/vibhusapra/phoenix/internal/pkg/apperr"
	"github.com/vibhusapra/phoenix/internal/pkg/auth"
)

const (
	msgAuthRequired = "Authentication required"
	msgReadOnly     = "Cannot perform this action in read-only mode"
	msgLocked       = "Database operations are disabled due to insufficient storage"
	msgNotOwner     = "Not allowed to modify this view"
)

// callerID returns the user id of a caller allowed to mutate, failing for anonymous callers,
// identities that are not user ids, and read-only principals.
func callerID(caller *auth.Principal) (int64, error) {
	id, ok := caller.UserID()
	if !ok {
		return 0, apperr.Unauthenticated(msgAuthRequired)
	}
	if caller.ReadOnly {
		return 0, apperr.Unauthorized(msgReadOnly)
	}
	return id, nil
}

// ensureWritable refuses inserts and updates while lock is held.
func ensureWritable(lock *db.WriteLock) error {
	if lock.Locked() {
		return apperr.Unauthorized(msgLocked)
	}
	return nil
}

// ensureOwner rejects callers who do not own v. The error never names the real owner.
func ensureOwner(v *model.SavedView, callerID int64) error {
	if v.OwnerUserID != callerID {
		return apperr.Unauthorized(msgNotOwner)
	}
	return nil
}
