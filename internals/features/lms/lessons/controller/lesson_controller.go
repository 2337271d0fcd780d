package controller

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	enrollmentService "klaskonstruksi_backend/internals/features/enrollments/service"
	chapterModel "klaskonstruksi_backend/internals/features/lms/chapters/model"
	lessonDTO "klaskonstruksi_backend/internals/features/lms/lessons/dto"
	lessonModel "klaskonstruksi_backend/internals/features/lms/lessons/model"
	helper "klaskonstruksi_backend/internals/helpers"
	"klaskonstruksi_backend/internals/helpers/video"
)

type LessonController struct {
	DB       *gorm.DB
	Bunny    *video.Client
	Validate *validator.Validate
}

func NewLessonController(db *gorm.DB, bunny *video.Client) *LessonController {
	return &LessonController{DB: db, Bunny: bunny, Validate: validator.New()}
}

func toLessonResponse(m lessonModel.LessonModel) lessonDTO.LessonResponse {
	return lessonDTO.LessonResponse{
		LessonID:        m.LessonID.String(),
		LessonChapterID: m.LessonChapterID.String(),
		LessonTitle:     m.LessonTitle,
		LessonVideoID:   m.LessonVideoID,
		LessonDuration:  m.LessonDuration,
		LessonPosition:  m.LessonPosition,
		LessonCreatedAt: m.LessonCreatedAt,
	}
}

func (lc *LessonController) loadChapter(c *fiber.Ctx) (chapterModel.ChapterModel, error) {
	var chapter chapterModel.ChapterModel
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return chapter, fiber.NewError(fiber.StatusBadRequest, "chapter id tidak valid")
	}
	if err := lc.DB.First(&chapter, "chapter_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return chapter, fiber.NewError(fiber.StatusNotFound, "Chapter tidak ditemukan")
		}
		return chapter, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return chapter, nil
}

func (lc *LessonController) listLessons(chapterID uuid.UUID) ([]lessonModel.LessonModel, error) {
	var lessons []lessonModel.LessonModel
	err := lc.DB.Where("lesson_chapter_id = ?", chapterID).
		Order("lesson_position ASC, lesson_created_at ASC").
		Find(&lessons).Error
	return lessons, err
}

/* =======================================
   Admin: GET /api/a/chapters/:id/lessons
======================================= */

func (lc *LessonController) ListForAdmin(c *fiber.Ctx) error {
	chapter, err := lc.loadChapter(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	lessons, err := lc.listLessons(chapter.ChapterID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	out := make([]lessonDTO.LessonResponse, 0, len(lessons))
	for _, m := range lessons {
		out = append(out, toLessonResponse(m))
	}
	return helper.JsonOK(c, "OK", out)
}

/* =======================================
   Admin: PUT /api/a/chapters/:id/lessons (hybrid save)
======================================= */

// SaveLessons menerima seluruh daftar lesson satu chapter dan
// merekonsiliasinya dalam satu transaksi: insert yang baru, update yang
// ada, hapus yang hilang, lalu renumber posisi 1..n sesuai urutan array.
func (lc *LessonController) SaveLessons(c *fiber.Ctx) error {
	chapter, err := lc.loadChapter(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var body lessonDTO.SaveLessonsRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := lc.Validate.Struct(&body); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var saved []lessonModel.LessonModel
	err = lc.DB.Transaction(func(tx *gorm.DB) error {
		keep := make(map[uuid.UUID]bool, len(body.Lessons))

		for i, item := range body.Lessons {
			position := i + 1
			title := strings.TrimSpace(item.LessonTitle)

			if item.LessonID != nil && *item.LessonID != "" {
				lessonID, err := uuid.Parse(*item.LessonID)
				if err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "lesson_id tidak valid")
				}
				res := tx.Model(&lessonModel.LessonModel{}).
					Where("lesson_id = ? AND lesson_chapter_id = ?", lessonID, chapter.ChapterID).
					Updates(map[string]any{
						"lesson_title":    title,
						"lesson_video_id": item.LessonVideoID,
						"lesson_duration": item.LessonDuration,
						"lesson_position": position,
					})
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return fiber.NewError(fiber.StatusNotFound, "Lesson "+lessonID.String()+" tidak ditemukan di chapter ini")
				}
				keep[lessonID] = true
				continue
			}

			lesson := lessonModel.LessonModel{
				LessonCourseID:  chapter.ChapterCourseID,
				LessonChapterID: chapter.ChapterID,
				LessonTitle:     title,
				LessonVideoID:   item.LessonVideoID,
				LessonDuration:  item.LessonDuration,
				LessonPosition:  position,
			}
			if err := tx.Create(&lesson).Error; err != nil {
				return err
			}
			keep[lesson.LessonID] = true
		}

		// Lesson lama yang tidak ada di daftar dibuang.
		ids := make([]uuid.UUID, 0, len(keep))
		for id := range keep {
			ids = append(ids, id)
		}
		del := tx.Where("lesson_chapter_id = ?", chapter.ChapterID)
		if len(ids) > 0 {
			del = del.Where("lesson_id NOT IN ?", ids)
		}
		if err := del.Delete(&lessonModel.LessonModel{}).Error; err != nil {
			return err
		}

		var err error
		saved, err = lc.listLessonsTx(tx, chapter.ChapterID)
		return err
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	out := make([]lessonDTO.LessonResponse, 0, len(saved))
	for _, m := range saved {
		out = append(out, toLessonResponse(m))
	}
	return helper.JsonUpdated(c, "Lesson berhasil disimpan", out)
}

/* =======================================
   Admin: POST /api/a/chapters/:id/lessons/reorder
======================================= */

// ReorderLessons menulis ulang posisi 1..n mengikuti urutan array id.
func (lc *LessonController) ReorderLessons(c *fiber.Ctx) error {
	chapter, err := lc.loadChapter(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var body lessonDTO.ReorderLessonsRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := lc.Validate.Struct(&body); err != nil {
		return helper.JsonValidationError(c, err)
	}

	err = lc.DB.Transaction(func(tx *gorm.DB) error {
		for i, raw := range body.LessonIDs {
			lessonID, err := uuid.Parse(raw)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "lesson_id tidak valid")
			}
			res := tx.Model(&lessonModel.LessonModel{}).
				Where("lesson_id = ? AND lesson_chapter_id = ?", lessonID, chapter.ChapterID).
				Update("lesson_position", i+1)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fiber.NewError(fiber.StatusNotFound, "Lesson "+lessonID.String()+" tidak ditemukan di chapter ini")
			}
		}
		return nil
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	lessons, err := lc.listLessons(chapter.ChapterID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	out := make([]lessonDTO.LessonResponse, 0, len(lessons))
	for _, m := range lessons {
		out = append(out, toLessonResponse(m))
	}
	return helper.JsonUpdated(c, "Urutan lesson diperbarui", out)
}

func (lc *LessonController) listLessonsTx(tx *gorm.DB, chapterID uuid.UUID) ([]lessonModel.LessonModel, error) {
	var lessons []lessonModel.LessonModel
	err := tx.Where("lesson_chapter_id = ?", chapterID).
		Order("lesson_position ASC, lesson_created_at ASC").
		Find(&lessons).Error
	return lessons, err
}

/* =======================================
   User: GET /api/u/chapters/:id/lessons
======================================= */

// ListForPlayer mengembalikan lesson + URL playback. Hanya untuk user
// yang memiliki chapter-nya.
func (lc *LessonController) ListForPlayer(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	chapter, err := lc.loadChapter(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	owned, err := enrollmentService.HasEntitlement(lc.DB, userID, chapter.ChapterID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if !owned {
		return helper.JsonError(c, fiber.StatusForbidden, "Chapter belum dimiliki")
	}

	lessons, err := lc.listLessons(chapter.ChapterID)
	if err != nil {
		// Player tetap kebuka walau daftar lesson gagal dibaca.
		log.Println("⚠️ [PLAYER] Gagal baca lesson chapter:", chapter.ChapterID, err)
		lessons = nil
	}

	out := make([]lessonDTO.PlayerLesson, 0, len(lessons))
	for _, m := range lessons {
		item := lessonDTO.PlayerLesson{LessonResponse: toLessonResponse(m)}
		if lc.Bunny != nil && m.LessonVideoID != nil && *m.LessonVideoID != "" {
			item.PlaybackURL = lc.Bunny.PlaybackURL(*m.LessonVideoID)
		}
		out = append(out, item)
	}
	return helper.JsonOK(c, "OK", out)
}

/* =======================================
   Admin: proxy Bunny Stream
======================================= */

// CreateVideoSlot minta slot upload baru ke Bunny; API key tidak pernah
// sampai ke browser kecuali lewat tiket ini.
func (lc *LessonController) CreateVideoSlot(c *fiber.Ctx) error {
	if lc.Bunny == nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Bunny Stream belum dikonfigurasi")
	}
	var body lessonDTO.CreateVideoSlotRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := lc.Validate.Struct(&body); err != nil {
		return helper.JsonValidationError(c, err)
	}

	ticket, err := lc.Bunny.CreateVideo(c.Context(), strings.TrimSpace(body.Title))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadGateway, err.Error())
	}
	return helper.JsonCreated(c, "Slot video dibuat", ticket)
}

func (lc *LessonController) ListVideos(c *fiber.Ctx) error {
	if lc.Bunny == nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Bunny Stream belum dikonfigurasi")
	}
	page, _ := strconv.Atoi(c.Query("page", "1"))
	perPage, _ := strconv.Atoi(c.Query("per_page", "50"))

	list, err := lc.Bunny.ListVideos(c.Context(), strings.TrimSpace(c.Query("q")), page, perPage)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadGateway, err.Error())
	}
	return helper.JsonOK(c, "OK", list)
}

func (lc *LessonController) VideoStatus(c *fiber.Ctx) error {
	if lc.Bunny == nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Bunny Stream belum dikonfigurasi")
	}
	videoID := strings.TrimSpace(c.Params("videoId"))
	if videoID == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "video id wajib diisi")
	}

	v, err := lc.Bunny.GetVideo(c.Context(), videoID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadGateway, err.Error())
	}
	return helper.JsonOK(c, "OK", v)
}
