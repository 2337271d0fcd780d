package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChapterModel = unit jualan (mission). Satu chapter punya level untuk
// urutan learning path dan harga dalam rupiah.
type ChapterModel struct {
	ChapterID          uuid.UUID  `gorm:"column:chapter_id;type:uuid;default:gen_random_uuid();primaryKey" json:"chapter_id"`
	ChapterCourseID    uuid.UUID  `gorm:"column:chapter_course_id;type:uuid;not null;index" json:"chapter_course_id"`
	ChapterTitle       string     `gorm:"column:chapter_title;type:varchar(255);not null" json:"chapter_title"`
	ChapterDescription string     `gorm:"column:chapter_description;type:text" json:"chapter_description"`
	ChapterLevel       int        `gorm:"column:chapter_level;not null;default:1" json:"chapter_level"`
	ChapterPrice       int64      `gorm:"column:chapter_price;not null;default:0" json:"chapter_price"`
	ChapterPosition    int        `gorm:"column:chapter_position;not null;default:0" json:"chapter_position"`
	ChapterPrereqID    *uuid.UUID `gorm:"column:chapter_prereq_id;type:uuid" json:"chapter_prereq_id"`

	ChapterCreatedAt time.Time `gorm:"column:chapter_created_at;autoCreateTime" json:"chapter_created_at"`
	ChapterUpdatedAt time.Time `gorm:"column:chapter_updated_at;autoUpdateTime" json:"chapter_updated_at"`
}

func (ChapterModel) TableName() string {
	return "chapters"
}

func (m *ChapterModel) BeforeCreate(tx *gorm.DB) error {
	if m.ChapterID == uuid.Nil {
		m.ChapterID = uuid.New()
	}
	return nil
}
