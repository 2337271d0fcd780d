package model

import (
	"time"

	"github.com/google/uuid"

	"klaskonstruksi_backend/internals/constants"
)

// ProfileModel merepresentasikan tabel profiles (1:1 dengan users).
// Role disimpan di sini; resolusi final role ada di service (bootstrap admin email).
type ProfileModel struct {
	ProfileUserID   uuid.UUID `gorm:"column:profile_user_id;type:uuid;primaryKey" json:"profile_user_id"`
	ProfileFullName string    `gorm:"column:profile_full_name;size:100" json:"profile_full_name"`
	ProfileEmail    string    `gorm:"column:profile_email;size:255;not null" json:"profile_email"`
	ProfileRole     string    `gorm:"column:profile_role;type:varchar(20);not null;default:'student'" json:"profile_role"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ProfileModel) TableName() string { return "profiles" }

// SetDefaultValues memastikan nilai default sebelum simpan
func (p *ProfileModel) SetDefaultValues() {
	if p.ProfileRole == "" {
		p.ProfileRole = constants.RoleStudent
	}
}
