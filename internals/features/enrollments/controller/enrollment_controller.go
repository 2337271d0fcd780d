package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	enrollmentDTO "klaskonstruksi_backend/internals/features/enrollments/dto"
	enrollmentModel "klaskonstruksi_backend/internals/features/enrollments/model"
	enrollmentService "klaskonstruksi_backend/internals/features/enrollments/service"
	chapterModel "klaskonstruksi_backend/internals/features/lms/chapters/model"
	lessonModel "klaskonstruksi_backend/internals/features/lms/lessons/model"
	helper "klaskonstruksi_backend/internals/helpers"
)

type EnrollmentController struct {
	DB       *gorm.DB
	Tracker  *enrollmentService.Tracker
	Validate *validator.Validate
}

func NewEnrollmentController(db *gorm.DB, tracker *enrollmentService.Tracker) *EnrollmentController {
	return &EnrollmentController{DB: db, Tracker: tracker, Validate: validator.New()}
}

func (ec *EnrollmentController) loadChapter(c *fiber.Ctx) (chapterModel.ChapterModel, error) {
	var chapter chapterModel.ChapterModel
	chapterID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return chapter, fiber.NewError(fiber.StatusBadRequest, "chapter id tidak valid")
	}
	if err := ec.DB.First(&chapter, "chapter_id = ?", chapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return chapter, fiber.NewError(fiber.StatusNotFound, "Chapter tidak ditemukan")
		}
		return chapter, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return chapter, nil
}

/* =======================================
   POST /api/u/chapters/:id/purchase
======================================= */

func (ec *EnrollmentController) Purchase(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	chapter, err := ec.loadChapter(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var body enrollmentDTO.PurchaseRequest
	_ = c.BodyParser(&body) // body opsional

	// Gate advisory dicek sebelum menulis ledger; gagal cek bukan blocker.
	warning, gateErr := enrollmentService.CheckUnlockGate(ec.DB, userID, chapter)
	if gateErr != nil {
		warning = ""
	}

	enrollment, err := enrollmentService.Purchase(ec.DB, userID, chapter.ChapterCourseID, chapter.ChapterID, chapter.ChapterPrice, body.Reference)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses pembelian")
	}

	return helper.JsonOK(c, "Pembelian berhasil", enrollmentDTO.PurchaseResponse{
		EnrollmentID: enrollment.EnrollmentID.String(),
		ChapterID:    chapter.ChapterID.String(),
		Status:       enrollment.EnrollmentStatus,
		Progress:     enrollment.EnrollmentProgress,
		Warning:      warning,
	})
}

/* =======================================
   POST /api/u/chapters/:id/heartbeat
======================================= */

func (ec *EnrollmentController) Heartbeat(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	chapter, err := ec.loadChapter(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var body enrollmentDTO.HeartbeatRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ec.Validate.Struct(&body); err != nil {
		return helper.JsonValidationError(c, err)
	}
	lessonID, err := uuid.Parse(body.LessonID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "lesson_id tidak valid")
	}

	owned, err := enrollmentService.HasEntitlement(ec.DB, userID, chapter.ChapterID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if !owned {
		return helper.JsonError(c, fiber.StatusForbidden, "Chapter belum dimiliki")
	}

	var stats struct {
		Total        int64
		TotalSeconds float64
	}
	if err := ec.DB.Model(&lessonModel.LessonModel{}).
		Select("COUNT(*) AS total, COALESCE(SUM(lesson_duration), 0) AS total_seconds").
		Where("lesson_chapter_id = ?", chapter.ChapterID).
		Scan(&stats).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	percent := ec.Tracker.Heartbeat(userID, chapter.ChapterID, lessonID, body.Position, body.Duration, int(stats.Total), stats.TotalSeconds)

	return helper.JsonOK(c, "OK", enrollmentDTO.HeartbeatResponse{
		ChapterID: chapter.ChapterID.String(),
		Percent:   percent,
		Watched:   ec.Tracker.WatchedCount(userID, chapter.ChapterID),
	})
}

/* =======================================
   POST /api/u/chapters/:id/complete
======================================= */

func (ec *EnrollmentController) Complete(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	chapter, err := ec.loadChapter(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	// Selesai hanya kalau tiap lesson di sesi aktif sudah melewati
	// ambang tertonton. Persen progres tidak cukup: timbangan durasi
	// bisa mentok di 99 padahal masih ada lesson pendek yang belum
	// ditonton. Chapter yang sudah completed boleh dipanggil ulang.
	if !ec.Tracker.AllWatched(userID, chapter.ChapterID) {
		var e enrollmentModel.EnrollmentModel
		err := ec.DB.Where("enrollment_user_id = ? AND enrollment_chapter_id = ?", userID, chapter.ChapterID).
			First(&e).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.JsonError(c, fiber.StatusForbidden, "Chapter belum dimiliki")
			}
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
		if e.EnrollmentStatus != enrollmentModel.EnrollmentStatusCompleted {
			return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Masih ada lesson yang belum selesai ditonton")
		}
	}

	if err := ec.Tracker.Complete(userID, chapter.ChapterID, time.Now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusForbidden, "Chapter belum dimiliki")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "Chapter selesai", fiber.Map{
		"chapter_id": chapter.ChapterID.String(),
		"progress":   100,
	})
}

/* =======================================
   GET /api/u/my-missions
======================================= */

func (ec *EnrollmentController) MyMissions(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	type row struct {
		ChapterID    string
		ChapterTitle string
		ChapterLevel int
		CourseID     string
		CourseTitle  string
		Status       string
		Progress     int
		CompletedAt  *time.Time
		PurchasedAt  time.Time
	}
	var rows []row
	err = ec.DB.Table("enrollments").
		Select(`chapters.chapter_id, chapters.chapter_title, chapters.chapter_level,
			courses.course_id, courses.course_title,
			enrollments.enrollment_status AS status,
			enrollments.enrollment_progress AS progress,
			enrollments.enrollment_completed_at AS completed_at,
			enrollments.enrollment_created_at AS purchased_at`).
		Joins("JOIN chapters ON chapters.chapter_id = enrollments.enrollment_chapter_id").
		Joins("JOIN courses ON courses.course_id = chapters.chapter_course_id").
		Where("enrollments.enrollment_user_id = ?", userID).
		Order("chapters.chapter_level ASC, chapters.chapter_position ASC").
		Scan(&rows).Error
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]enrollmentDTO.MissionItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, enrollmentDTO.MissionItem{
			ChapterID:    r.ChapterID,
			ChapterTitle: r.ChapterTitle,
			ChapterLevel: r.ChapterLevel,
			CourseID:     r.CourseID,
			CourseTitle:  r.CourseTitle,
			Status:       r.Status,
			Progress:     r.Progress,
			CompletedAt:  r.CompletedAt,
			PurchasedAt:  r.PurchasedAt,
		})
	}
	return helper.JsonOK(c, "OK", out)
}
