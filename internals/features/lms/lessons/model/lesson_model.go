package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LessonModel struct {
	LessonID        uuid.UUID `gorm:"column:lesson_id;type:uuid;default:gen_random_uuid();primaryKey" json:"lesson_id"`
	LessonCourseID  uuid.UUID `gorm:"column:lesson_course_id;type:uuid;not null;index" json:"lesson_course_id"`
	LessonChapterID uuid.UUID `gorm:"column:lesson_chapter_id;type:uuid;not null;index" json:"lesson_chapter_id"`
	LessonTitle     string    `gorm:"column:lesson_title;type:varchar(255);not null" json:"lesson_title"`

	// Video guid di Bunny Stream; kosong selama upload belum selesai.
	LessonVideoID  *string `gorm:"column:lesson_video_id;type:varchar(100)" json:"lesson_video_id"`
	LessonDuration float64 `gorm:"column:lesson_duration;not null;default:0" json:"lesson_duration"`

	LessonPosition int `gorm:"column:lesson_position;not null;default:0" json:"lesson_position"`

	// Metadata mentah dari Bunny (resolusi, status encode, dsb).
	LessonVideoMeta datatypes.JSON `gorm:"column:lesson_video_meta;type:jsonb" json:"lesson_video_meta,omitempty"`

	LessonCreatedAt time.Time `gorm:"column:lesson_created_at;autoCreateTime" json:"lesson_created_at"`
	LessonUpdatedAt time.Time `gorm:"column:lesson_updated_at;autoUpdateTime" json:"lesson_updated_at"`
}

func (LessonModel) TableName() string {
	return "lessons"
}

func (m *LessonModel) BeforeCreate(tx *gorm.DB) error {
	if m.LessonID == uuid.Nil {
		m.LessonID = uuid.New()
	}
	return nil
}
