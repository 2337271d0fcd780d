package dto

import "time"

type PurchaseRequest struct {
	Reference *string `json:"reference"`
}

type PurchaseResponse struct {
	EnrollmentID string `json:"enrollment_id"`
	ChapterID    string `json:"chapter_id"`
	Status       string `json:"status"`
	Progress     int    `json:"progress"`
	Warning      string `json:"warning,omitempty"`
}

type HeartbeatRequest struct {
	LessonID string  `json:"lesson_id" validate:"required,uuid"`
	Position float64 `json:"position" validate:"gte=0"`
	Duration float64 `json:"duration" validate:"gte=0"`
}

type HeartbeatResponse struct {
	ChapterID string `json:"chapter_id"`
	Percent   int    `json:"percent"`
	Watched   int    `json:"watched_lessons"`
}

// MissionItem adalah satu kartu di learning path user.
type MissionItem struct {
	ChapterID    string     `json:"chapter_id"`
	ChapterTitle string     `json:"chapter_title"`
	ChapterLevel int        `json:"chapter_level"`
	CourseID     string     `json:"course_id"`
	CourseTitle  string     `json:"course_title"`
	Status       string     `json:"status"`
	Progress     int        `json:"progress"`
	CompletedAt  *time.Time `json:"completed_at"`
	PurchasedAt  time.Time  `json:"purchased_at"`
}
