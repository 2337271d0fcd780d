package dto

import "time"

// LessonUpsert dipakai hybrid save: lesson_id kosong = buat baru,
// terisi = update baris yang ada.
type LessonUpsert struct {
	LessonID       *string `json:"lesson_id" validate:"omitempty,uuid"`
	LessonTitle    string  `json:"lesson_title" validate:"required,min=1,max=255"`
	LessonVideoID  *string `json:"lesson_video_id"`
	LessonDuration float64 `json:"lesson_duration" validate:"gte=0"`
}

// SaveLessonsRequest mengirim seluruh daftar lesson satu chapter sekali
// jalan; urutan array menentukan posisi final (1..n). Lesson lama yang
// tidak ada di daftar akan dihapus.
type SaveLessonsRequest struct {
	Lessons []LessonUpsert `json:"lessons" validate:"required,dive"`
}

type LessonResponse struct {
	LessonID        string    `json:"lesson_id"`
	LessonChapterID string    `json:"lesson_chapter_id"`
	LessonTitle     string    `json:"lesson_title"`
	LessonVideoID   *string   `json:"lesson_video_id"`
	LessonDuration  float64   `json:"lesson_duration"`
	LessonPosition  int       `json:"lesson_position"`
	LessonCreatedAt time.Time `json:"lesson_created_at"`
}

// PlayerLesson untuk user yang sudah memiliki chapter: disertai URL playback.
type PlayerLesson struct {
	LessonResponse
	PlaybackURL string `json:"playback_url,omitempty"`
}

// ReorderLessonsRequest berisi urutan final id lesson; posisi ditulis
// ulang 1..n mengikuti urutan array.
type ReorderLessonsRequest struct {
	LessonIDs []string `json:"lesson_ids" validate:"required,min=1,dive,uuid"`
}

type CreateVideoSlotRequest struct {
	Title string `json:"title" validate:"required,min=1,max=255"`
}
