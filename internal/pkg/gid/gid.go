// Package gid encodes and resolves opaque global references.
//
// A reference is the standard base64 encoding of "<Kind>:<id>", the relay node id format
// used by the frontend. Resolve checks the kind so a project reference can never be used
// where a saved view is expected.
package gid

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/vibhusapra/phoenix/internal/pkg/apperr"
)

// Entity kinds.
const (
	KindProject   = "Project"
	KindSavedView = "SavedView"
	KindUser      = "User"
)

// Encode returns the global reference of the row id of kind.
func Encode(kind string, id int64) string {
	return base64.StdEncoding.EncodeToString([]byte(kind + ":" + strconv.FormatInt(id, 10)))
}

// Decode splits a reference into its kind and raw id.
func Decode(ref string) (kind string, id int64, err error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(ref))
	if err != nil {
		return "", 0, fmt.Errorf("decode reference: %w", err)
	}
	kind, rawID, ok := strings.Cut(string(raw), ":")
	if !ok || kind == "" {
		return "", 0, fmt.Errorf("reference %q has no kind", ref)
	}
	id, err = strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("reference %q has a non-integer id: %w", ref, err)
	}
	return kind, id, nil
}

// Resolve returns the internal row id of ref, failing with an invalid input error when
// the reference does not decode or names another kind.
func Resolve(ref string, expectedKind string) (int64, error) {
	kind, id, err := Decode(ref)
	if err != nil {
		return 0, apperr.Wrap(apperr.CodeInvalidInput, fmt.Sprintf("Invalid %s id: %s", expectedKind, ref), err)
	}
	if kind != expectedKind {
		return 0, apperr.InvalidInput(fmt.Sprintf("Invalid %s id: %s", expectedKind, ref))
	}
	return id, nil
}

// ResolveAll resolves every reference, stopping at the first failure.
func ResolveAll(refs []string, expectedKind string) ([]int64, error) {
	ids := make([]int64, 0, len(refs))
	for _, ref := range refs {
		id, err := Resolve(ref, expectedKind)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
