package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseModel struct {
	CourseID           uuid.UUID  `gorm:"column:course_id;type:uuid;default:gen_random_uuid();primaryKey" json:"course_id"`
	CourseTitle        string     `gorm:"column:course_title;type:varchar(255);not null" json:"course_title"`
	CourseSlug         string     `gorm:"column:course_slug;type:varchar(255);uniqueIndex;not null" json:"course_slug"`
	CourseDescription  string     `gorm:"column:course_description;type:text" json:"course_description"`
	CourseThumbnailURL *string    `gorm:"column:course_thumbnail_url;type:text" json:"course_thumbnail_url"`
	CoursePublished    bool       `gorm:"column:course_published;default:false" json:"course_published"`
	CourseCreatedBy    *uuid.UUID `gorm:"column:course_created_by;type:uuid" json:"course_created_by"`

	CourseCreatedAt time.Time `gorm:"column:course_created_at;autoCreateTime" json:"course_created_at"`
	CourseUpdatedAt time.Time `gorm:"column:course_updated_at;autoUpdateTime" json:"course_updated_at"`
}

func (CourseModel) TableName() string {
	return "courses"
}

func (m *CourseModel) BeforeCreate(tx *gorm.DB) error {
	if m.CourseID == uuid.Nil {
		m.CourseID = uuid.New()
	}
	return nil
}
