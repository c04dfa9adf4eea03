package serializer

import (
	"time"

	"github.com/vibhusapra/phoenix/internal/modules/model"
	"github.com/vibhusapra/phoenix/internal/pkg/gid"
	"github.com/vibhusapra/phoenix/internal/pkg/viewpayload"
)

// SavedView is the API representation of a saved view. Ids are global references.
type SavedView struct {
	ID        string    `json:"id" example:"U2F2ZWRWaWV3OjE="`
	Name      string    `json:"name" example:"Slow LLM spans"`
	ProjectID string    `json:"projectId" example:"UHJvamVjdDox"`
	OwnerID   string    `json:"ownerId" example:"VXNlcjox"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	viewpayload.View
}

func NewSavedView(m *model.SavedView) (SavedView, error) {
	view, err := viewpayload.Project(m.Payload)
	if err != nil {
		return SavedView{}, err
	}
	return SavedView{
		ID:        gid.Encode(gid.KindSavedView, m.ID),
		Name:      m.Name,
		ProjectID: gid.Encode(gid.KindProject, m.ProjectID),
		OwnerID:   gid.Encode(gid.KindUser, m.OwnerUserID),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		View:      view,
	}, nil
}
