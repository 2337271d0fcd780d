package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	enrollmentModel "klaskonstruksi_backend/internals/features/enrollments/model"
	enrollmentService "klaskonstruksi_backend/internals/features/enrollments/service"
	chapterModel "klaskonstruksi_backend/internals/features/lms/chapters/model"
	lessonModel "klaskonstruksi_backend/internals/features/lms/lessons/model"
)

// Default gen_random_uuid() milik Postgres tidak jalan di SQLite, jadi
// tabel dibuat manual (PK diisi hook model).
const testSchema = `
CREATE TABLE chapters (
	chapter_id TEXT PRIMARY KEY,
	chapter_course_id TEXT NOT NULL,
	chapter_title TEXT NOT NULL,
	chapter_description TEXT,
	chapter_level INTEGER NOT NULL DEFAULT 1,
	chapter_price INTEGER NOT NULL DEFAULT 0,
	chapter_position INTEGER NOT NULL DEFAULT 0,
	chapter_prereq_id TEXT,
	chapter_created_at DATETIME,
	chapter_updated_at DATETIME
);
CREATE TABLE lessons (
	lesson_id TEXT PRIMARY KEY,
	lesson_course_id TEXT NOT NULL,
	lesson_chapter_id TEXT NOT NULL,
	lesson_title TEXT NOT NULL,
	lesson_video_id TEXT,
	lesson_duration REAL NOT NULL DEFAULT 0,
	lesson_position INTEGER NOT NULL DEFAULT 0,
	lesson_video_meta TEXT,
	lesson_created_at DATETIME,
	lesson_updated_at DATETIME
);
CREATE TABLE enrollments (
	enrollment_id TEXT PRIMARY KEY,
	enrollment_user_id TEXT NOT NULL,
	enrollment_course_id TEXT NOT NULL,
	enrollment_chapter_id TEXT NOT NULL,
	enrollment_status TEXT NOT NULL DEFAULT 'active',
	enrollment_progress INTEGER NOT NULL DEFAULT 0,
	enrollment_completed_at DATETIME,
	enrollment_created_at DATETIME,
	enrollment_updated_at DATETIME,
	UNIQUE (enrollment_user_id, enrollment_chapter_id)
);
`

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec(testSchema).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func newTestApp(db *gorm.DB, userID uuid.UUID) *fiber.App {
	tracker := enrollmentService.NewTracker(db)
	ec := NewEnrollmentController(db, tracker)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		return c.Next()
	})
	app.Post("/api/u/chapters/:id/heartbeat", ec.Heartbeat)
	app.Post("/api/u/chapters/:id/complete", ec.Complete)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) int {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request %s: %v", path, err)
	}
	return resp.StatusCode
}

// Dua lesson panjang yang tertonton penuh sudah membawa persen ke 99,
// tapi lesson pendek yang belum ditonton tetap memblokir complete.
func TestCompleteRequiresEveryLessonWatched(t *testing.T) {
	db := newTestDB(t)
	userID := uuid.New()
	courseID := uuid.New()

	chapter := chapterModel.ChapterModel{ChapterCourseID: courseID, ChapterTitle: "Bab 1", ChapterLevel: 1}
	if err := db.Create(&chapter).Error; err != nil {
		t.Fatalf("seed chapter: %v", err)
	}

	durations := []float64{1200, 1200, 10}
	lessons := make([]lessonModel.LessonModel, 0, len(durations))
	for i, d := range durations {
		l := lessonModel.LessonModel{
			LessonCourseID:  courseID,
			LessonChapterID: chapter.ChapterID,
			LessonTitle:     fmt.Sprintf("Lesson %d", i+1),
			LessonDuration:  d,
			LessonPosition:  i + 1,
		}
		if err := db.Create(&l).Error; err != nil {
			t.Fatalf("seed lesson: %v", err)
		}
		lessons = append(lessons, l)
	}

	if _, err := enrollmentService.Purchase(db, userID, courseID, chapter.ChapterID, 0, nil); err != nil {
		t.Fatalf("purchase: %v", err)
	}

	app := newTestApp(db, userID)
	heartbeat := "/api/u/chapters/" + chapter.ChapterID.String() + "/heartbeat"
	complete := "/api/u/chapters/" + chapter.ChapterID.String() + "/complete"

	// Dua lesson panjang ditonton habis: 2400/2410 detik ≈ 99%.
	for _, l := range lessons[:2] {
		body := map[string]any{"lesson_id": l.LessonID.String(), "position": l.LessonDuration, "duration": l.LessonDuration}
		if code := postJSON(t, app, heartbeat, body); code != fiber.StatusOK {
			t.Fatalf("heartbeat status = %d, want 200", code)
		}
	}

	if code := postJSON(t, app, complete, nil); code != fiber.StatusUnprocessableEntity {
		t.Fatalf("complete dengan lesson tersisa = %d, want 422", code)
	}

	// Lesson pendek ikut ditonton → complete lolos.
	body := map[string]any{"lesson_id": lessons[2].LessonID.String(), "position": 10.0, "duration": 10.0}
	if code := postJSON(t, app, heartbeat, body); code != fiber.StatusOK {
		t.Fatalf("heartbeat terakhir = %d, want 200", code)
	}
	if code := postJSON(t, app, complete, nil); code != fiber.StatusOK {
		t.Fatalf("complete setelah semua tertonton = %d, want 200", code)
	}

	var e enrollmentModel.EnrollmentModel
	if err := db.First(&e).Error; err != nil {
		t.Fatalf("load enrollment: %v", err)
	}
	if e.EnrollmentStatus != enrollmentModel.EnrollmentStatusCompleted {
		t.Errorf("status = %q, want completed", e.EnrollmentStatus)
	}
	if e.EnrollmentProgress != 100 {
		t.Errorf("progress = %d, want 100", e.EnrollmentProgress)
	}
}
