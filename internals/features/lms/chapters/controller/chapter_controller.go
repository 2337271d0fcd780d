package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	enrollmentModel "klaskonstruksi_backend/internals/features/enrollments/model"
	chapterDTO "klaskonstruksi_backend/internals/features/lms/chapters/dto"
	chapterModel "klaskonstruksi_backend/internals/features/lms/chapters/model"
	courseModel "klaskonstruksi_backend/internals/features/lms/courses/model"
	lessonModel "klaskonstruksi_backend/internals/features/lms/lessons/model"
	helper "klaskonstruksi_backend/internals/helpers"
)

type ChapterController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewChapterController(db *gorm.DB) *ChapterController {
	return &ChapterController{DB: db, Validate: validator.New()}
}

func toChapterResponse(m chapterModel.ChapterModel) chapterDTO.ChapterResponse {
	var prereq *string
	if m.ChapterPrereqID != nil {
		s := m.ChapterPrereqID.String()
		prereq = &s
	}
	return chapterDTO.ChapterResponse{
		ChapterID:          m.ChapterID.String(),
		ChapterCourseID:    m.ChapterCourseID.String(),
		ChapterTitle:       m.ChapterTitle,
		ChapterDescription: m.ChapterDescription,
		ChapterLevel:       m.ChapterLevel,
		ChapterPrice:       m.ChapterPrice,
		ChapterPosition:    m.ChapterPosition,
		ChapterPrereqID:    prereq,
		ChapterCreatedAt:   m.ChapterCreatedAt,
		ChapterUpdatedAt:   m.ChapterUpdatedAt,
	}
}

// parsePrereq memvalidasi prereq menunjuk chapter yang memang ada.
// Prereq yang hilang tidak memblokir (gate-nya advisory), tapi input
// admin yang jelas salah tetap ditolak.
func (cc *ChapterController) parsePrereq(raw *string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "chapter_prereq_id tidak valid")
	}
	var count int64
	if err := cc.DB.Model(&chapterModel.ChapterModel{}).Where("chapter_id = ?", id).Count(&count).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if count == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Chapter prasyarat tidak ditemukan")
	}
	return &id, nil
}

/* =======================================
   Admin CRUD
======================================= */

func (cc *ChapterController) Create(c *fiber.Ctx) error {
	var body chapterDTO.CreateChapterRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := cc.Validate.Struct(&body); err != nil {
		return helper.JsonValidationError(c, err)
	}

	courseID, err := uuid.Parse(body.ChapterCourseID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "chapter_course_id tidak valid")
	}
	var courseCount int64
	if err := cc.DB.Model(&courseModel.CourseModel{}).Where("course_id = ?", courseID).Count(&courseCount).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if courseCount == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Course tidak ditemukan")
	}

	prereqID, err := cc.parsePrereq(body.ChapterPrereqID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	chapter := chapterModel.ChapterModel{
		ChapterCourseID:    courseID,
		ChapterTitle:       strings.TrimSpace(body.ChapterTitle),
		ChapterDescription: body.ChapterDescription,
		ChapterLevel:       body.ChapterLevel,
		ChapterPrice:       body.ChapterPrice,
		ChapterPosition:    0,
		ChapterPrereqID:    prereqID,
	}
	if err := cc.DB.Create(&chapter).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat chapter")
	}
	return helper.JsonCreated(c, "Chapter berhasil dibuat", toChapterResponse(chapter))
}

// ListByCourse menampilkan chapter satu course untuk panel admin,
// urut level lalu position.
func (cc *ChapterController) ListByCourse(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "course id tidak valid")
	}

	var chapters []chapterModel.ChapterModel
	if err := cc.DB.Where("chapter_course_id = ?", courseID).
		Order("chapter_level ASC, chapter_position ASC").
		Find(&chapters).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]chapterDTO.ChapterResponse, 0, len(chapters))
	for _, m := range chapters {
		out = append(out, toChapterResponse(m))
	}
	return helper.JsonOK(c, "OK", out)
}

func (cc *ChapterController) findByID(c *fiber.Ctx) (chapterModel.ChapterModel, error) {
	var chapter chapterModel.ChapterModel
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return chapter, fiber.NewError(fiber.StatusBadRequest, "chapter id tidak valid")
	}
	if err := cc.DB.First(&chapter, "chapter_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return chapter, fiber.NewError(fiber.StatusNotFound, "Chapter tidak ditemukan")
		}
		return chapter, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return chapter, nil
}

func (cc *ChapterController) Update(c *fiber.Ctx) error {
	chapter, err := cc.findByID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var body chapterDTO.UpdateChapterRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := cc.Validate.Struct(&body); err != nil {
		return helper.JsonValidationError(c, err)
	}

	updates := map[string]any{}
	if body.ChapterTitle != nil {
		updates["chapter_title"] = strings.TrimSpace(*body.ChapterTitle)
	}
	if body.ChapterDescription != nil {
		updates["chapter_description"] = *body.ChapterDescription
	}
	if body.ChapterLevel != nil {
		updates["chapter_level"] = *body.ChapterLevel
	}
	if body.ChapterPrice != nil {
		updates["chapter_price"] = *body.ChapterPrice
	}
	if body.ChapterPosition != nil {
		updates["chapter_position"] = *body.ChapterPosition
	}
	if body.ChapterPrereqID != nil {
		prereqID, err := cc.parsePrereq(body.ChapterPrereqID)
		if err != nil {
			return helper.FromFiberError(c, err)
		}
		updates["chapter_prereq_id"] = prereqID
	}
	if len(updates) == 0 {
		return helper.JsonOK(c, "Tidak ada perubahan", toChapterResponse(chapter))
	}

	if err := cc.DB.Model(&chapter).Updates(updates).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui chapter")
	}
	return helper.JsonUpdated(c, "Chapter berhasil diperbarui", toChapterResponse(chapter))
}

func (cc *ChapterController) Delete(c *fiber.Ctx) error {
	chapter, err := cc.findByID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	// Lesson dan enrollment di bawah chapter ikut terhapus dalam satu
	// transaksi; histori purchase dibiarkan utuh.
	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_chapter_id = ?", chapter.ChapterID).
			Delete(&lessonModel.LessonModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("enrollment_chapter_id = ?", chapter.ChapterID).
			Delete(&enrollmentModel.EnrollmentModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&chapter).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus chapter")
	}
	return helper.JsonDeleted(c, "Chapter berhasil dihapus", fiber.Map{"chapter_id": chapter.ChapterID.String()})
}
