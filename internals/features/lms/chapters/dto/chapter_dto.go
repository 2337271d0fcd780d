package dto

import "time"

type CreateChapterRequest struct {
	ChapterCourseID    string  `json:"chapter_course_id" validate:"required,uuid"`
	ChapterTitle       string  `json:"chapter_title" validate:"required,min=3,max=255"`
	ChapterDescription string  `json:"chapter_description" validate:"max=5000"`
	ChapterLevel       int     `json:"chapter_level" validate:"required,min=1"`
	ChapterPrice       int64   `json:"chapter_price" validate:"gte=0"`
	ChapterPrereqID    *string `json:"chapter_prereq_id" validate:"omitempty,uuid"`
}

type UpdateChapterRequest struct {
	ChapterTitle       *string `json:"chapter_title" validate:"omitempty,min=3,max=255"`
	ChapterDescription *string `json:"chapter_description" validate:"omitempty,max=5000"`
	ChapterLevel       *int    `json:"chapter_level" validate:"omitempty,min=1"`
	ChapterPrice       *int64  `json:"chapter_price" validate:"omitempty,gte=0"`
	ChapterPosition    *int    `json:"chapter_position" validate:"omitempty,gte=0"`
	ChapterPrereqID    *string `json:"chapter_prereq_id" validate:"omitempty,uuid"`
}

type ChapterResponse struct {
	ChapterID          string    `json:"chapter_id"`
	ChapterCourseID    string    `json:"chapter_course_id"`
	ChapterTitle       string    `json:"chapter_title"`
	ChapterDescription string    `json:"chapter_description"`
	ChapterLevel       int       `json:"chapter_level"`
	ChapterPrice       int64     `json:"chapter_price"`
	ChapterPosition    int       `json:"chapter_position"`
	ChapterPrereqID    *string   `json:"chapter_prereq_id"`
	ChapterCreatedAt   time.Time `json:"chapter_created_at"`
	ChapterUpdatedAt   time.Time `json:"chapter_updated_at"`
}
