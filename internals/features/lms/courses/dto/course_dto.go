package dto

import "time"

type CreateCourseRequest struct {
	CourseTitle       string `json:"course_title" validate:"required,min=3,max=255"`
	CourseDescription string `json:"course_description" validate:"max=5000"`
	CoursePublished   *bool  `json:"course_published"`
}

type UpdateCourseRequest struct {
	CourseTitle       *string `json:"course_title" validate:"omitempty,min=3,max=255"`
	CourseDescription *string `json:"course_description" validate:"omitempty,max=5000"`
	CoursePublished   *bool   `json:"course_published"`
}

type CourseResponse struct {
	CourseID           string    `json:"course_id"`
	CourseTitle        string    `json:"course_title"`
	CourseSlug         string    `json:"course_slug"`
	CourseDescription  string    `json:"course_description"`
	CourseThumbnailURL *string   `json:"course_thumbnail_url"`
	CoursePublished    bool      `json:"course_published"`
	CourseCreatedAt    time.Time `json:"course_created_at"`
	CourseUpdatedAt    time.Time `json:"course_updated_at"`
}

// MarketplaceChapter ikut di detail course untuk katalog publik.
type MarketplaceChapter struct {
	ChapterID    string `json:"chapter_id"`
	ChapterTitle string `json:"chapter_title"`
	ChapterLevel int    `json:"chapter_level"`
	ChapterPrice int64  `json:"chapter_price"`
	LessonCount  int64  `json:"lesson_count"`
}

type CourseDetailResponse struct {
	CourseResponse
	Chapters []MarketplaceChapter `json:"chapters"`
}
