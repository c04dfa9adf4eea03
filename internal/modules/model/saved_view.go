package model

import (
	"time"

	"gorm.io/datatypes"
)

// SavedView is a named view configuration owned by one user inside one project.
// Name is unique per (project, owner).
type SavedView struct {
	ID          int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string            `gorm:"type:varchar(255);not null;uniqueIndex:uq_saved_views_project_owner_name,priority:3" json:"name"`
	ProjectID   int64             `gorm:"not null;index:ix_saved_views_project_id;uniqueIndex:uq_saved_views_project_owner_name,priority:1" json:"project_id"`
	OwnerUserID int64             `gorm:"not null;index:ix_saved_views_owner_user_id;uniqueIndex:uq_saved_views_project_owner_name,priority:2" json:"owner_user_id"`
	Payload     datatypes.JSONMap `gorm:"not null;default:'{}'" swaggertype:"object" json:"payload"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// SavedView <-> Project
	Project *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// SavedView <-> User
	Owner *User `gorm:"foreignKey:OwnerUserID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (SavedView) TableName() string { return "saved_views" }
