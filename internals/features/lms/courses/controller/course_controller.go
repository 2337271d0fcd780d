package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	enrollmentModel "klaskonstruksi_backend/internals/features/enrollments/model"
	chapterModel "klaskonstruksi_backend/internals/features/lms/chapters/model"
	courseDTO "klaskonstruksi_backend/internals/features/lms/courses/dto"
	courseModel "klaskonstruksi_backend/internals/features/lms/courses/model"
	lessonModel "klaskonstruksi_backend/internals/features/lms/lessons/model"
	helper "klaskonstruksi_backend/internals/helpers"
	ossHelper "klaskonstruksi_backend/internals/helpers/oss"
)

type CourseController struct {
	DB       *gorm.DB
	OSS      *ossHelper.OSSService
	Validate *validator.Validate
}

func NewCourseController(db *gorm.DB, oss *ossHelper.OSSService) *CourseController {
	return &CourseController{DB: db, OSS: oss, Validate: validator.New()}
}

func toCourseResponse(m courseModel.CourseModel) courseDTO.CourseResponse {
	return courseDTO.CourseResponse{
		CourseID:           m.CourseID.String(),
		CourseTitle:        m.CourseTitle,
		CourseSlug:         m.CourseSlug,
		CourseDescription:  m.CourseDescription,
		CourseThumbnailURL: m.CourseThumbnailURL,
		CoursePublished:    m.CoursePublished,
		CourseCreatedAt:    m.CourseCreatedAt,
		CourseUpdatedAt:    m.CourseUpdatedAt,
	}
}

/* =======================================
   Katalog publik
======================================= */

// List hanya menampilkan course yang sudah published. Katalog publik
// gagal baca → balas list kosong + log, jangan 500 di landing page.
func (cc *CourseController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 12, 50)

	q := cc.DB.Model(&courseModel.CourseModel{}).Where("course_published = ?", true)
	if search := strings.TrimSpace(c.Query("q")); search != "" {
		q = q.Where("LOWER(course_title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Println("⚠️ [CATALOG] Gagal hitung course:", err)
		empty := helper.BuildPaginationFromPage(0, paging.Page, paging.PerPage)
		return helper.JsonList(c, "OK", []courseDTO.CourseResponse{}, &empty)
	}

	var courses []courseModel.CourseModel
	if err := q.Order("course_created_at DESC").Limit(paging.Limit).Offset(paging.Offset).Find(&courses).Error; err != nil {
		log.Println("⚠️ [CATALOG] Gagal baca course:", err)
		empty := helper.BuildPaginationFromPage(0, paging.Page, paging.PerPage)
		return helper.JsonList(c, "OK", []courseDTO.CourseResponse{}, &empty)
	}

	out := make([]courseDTO.CourseResponse, 0, len(courses))
	for _, m := range courses {
		out = append(out, toCourseResponse(m))
	}
	pagination := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "OK", out, &pagination)
}

// GetBySlug mengembalikan detail course + daftar chapter (marketplace).
func (cc *CourseController) GetBySlug(c *fiber.Ctx) error {
	slug := strings.ToLower(strings.TrimSpace(c.Params("slug")))

	var course courseModel.CourseModel
	if err := cc.DB.Where("LOWER(course_slug) = ? AND course_published = ?", slug, true).
		First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Course tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var chapters []courseDTO.MarketplaceChapter
	err := cc.DB.Table("chapters").
		Select(`chapters.chapter_id, chapters.chapter_title, chapters.chapter_level, chapters.chapter_price,
			COUNT(lessons.lesson_id) AS lesson_count`).
		Joins("LEFT JOIN lessons ON lessons.lesson_chapter_id = chapters.chapter_id").
		Where("chapters.chapter_course_id = ?", course.CourseID).
		Group("chapters.chapter_id, chapters.chapter_title, chapters.chapter_level, chapters.chapter_price, chapters.chapter_position").
		Order("chapters.chapter_level ASC, chapters.chapter_position ASC").
		Scan(&chapters).Error
	if err != nil {
		// Detail course tetap tampil walau daftar chapter gagal dibaca.
		log.Println("⚠️ [CATALOG] Gagal baca chapter course:", course.CourseID, err)
		chapters = []courseDTO.MarketplaceChapter{}
	}

	return helper.JsonOK(c, "OK", courseDTO.CourseDetailResponse{
		CourseResponse: toCourseResponse(course),
		Chapters:       chapters,
	})
}

/* =======================================
   Admin CRUD
======================================= */

func (cc *CourseController) Create(c *fiber.Ctx) error {
	var body courseDTO.CreateCourseRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := cc.Validate.Struct(&body); err != nil {
		return helper.JsonValidationError(c, err)
	}

	slug, err := helper.EnsureUniqueSlug(
		c.Context(), cc.DB, "courses", "course_slug", "course_id",
		helper.Slugify(body.CourseTitle, 100), "",
	)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	course := courseModel.CourseModel{
		CourseTitle:       strings.TrimSpace(body.CourseTitle),
		CourseSlug:        slug,
		CourseDescription: body.CourseDescription,
	}
	if body.CoursePublished != nil {
		course.CoursePublished = *body.CoursePublished
	}
	if adminID, err := helper.GetUserIDFromToken(c); err == nil {
		course.CourseCreatedBy = &adminID
	}

	if err := cc.DB.Create(&course).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat course")
	}
	return helper.JsonCreated(c, "Course berhasil dibuat", toCourseResponse(course))
}

func (cc *CourseController) findByID(c *fiber.Ctx) (courseModel.CourseModel, error) {
	var course courseModel.CourseModel
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return course, fiber.NewError(fiber.StatusBadRequest, "course id tidak valid")
	}
	if err := cc.DB.First(&course, "course_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return course, fiber.NewError(fiber.StatusNotFound, "Course tidak ditemukan")
		}
		return course, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return course, nil
}

func (cc *CourseController) Update(c *fiber.Ctx) error {
	course, err := cc.findByID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var body courseDTO.UpdateCourseRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := cc.Validate.Struct(&body); err != nil {
		return helper.JsonValidationError(c, err)
	}

	updates := map[string]any{}
	if body.CourseTitle != nil {
		title := strings.TrimSpace(*body.CourseTitle)
		updates["course_title"] = title
		// Slug ikut judul baru, tetap dijaga unik.
		slug, err := helper.EnsureUniqueSlug(
			c.Context(), cc.DB, "courses", "course_slug", "course_id",
			helper.Slugify(title, 100), course.CourseID.String(),
		)
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
		updates["course_slug"] = slug
	}
	if body.CourseDescription != nil {
		updates["course_description"] = *body.CourseDescription
	}
	if body.CoursePublished != nil {
		updates["course_published"] = *body.CoursePublished
	}
	if len(updates) == 0 {
		return helper.JsonOK(c, "Tidak ada perubahan", toCourseResponse(course))
	}

	if err := cc.DB.Model(&course).Updates(updates).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui course")
	}
	return helper.JsonUpdated(c, "Course berhasil diperbarui", toCourseResponse(course))
}

func (cc *CourseController) Delete(c *fiber.Ctx) error {
	course, err := cc.findByID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	// Chapter, lesson, dan enrollment di bawah course ikut terhapus
	// dalam satu transaksi; histori purchase dibiarkan utuh.
	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_course_id = ?", course.CourseID).
			Delete(&lessonModel.LessonModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("enrollment_course_id = ?", course.CourseID).
			Delete(&enrollmentModel.EnrollmentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chapter_course_id = ?", course.CourseID).
			Delete(&chapterModel.ChapterModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&course).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus course")
	}
	// Thumbnail lama di OSS ikut dibersihkan (best-effort).
	if cc.OSS != nil && course.CourseThumbnailURL != nil {
		_ = cc.OSS.DeleteByPublicURL(c.Context(), *course.CourseThumbnailURL)
	}
	return helper.JsonDeleted(c, "Course berhasil dihapus", fiber.Map{"course_id": course.CourseID.String()})
}

/* =======================================
   POST /api/a/courses/:id/thumbnail
======================================= */

func (cc *CourseController) UploadThumbnail(c *fiber.Ctx) error {
	if cc.OSS == nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Object storage belum dikonfigurasi")
	}
	course, err := cc.findByID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	fh, err := c.FormFile("thumbnail")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "File thumbnail wajib diupload")
	}

	url, err := cc.OSS.UploadCourseThumbnail(c.Context(), course.CourseID, fh)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	old := course.CourseThumbnailURL
	if err := cc.DB.Model(&course).Update("course_thumbnail_url", url).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan thumbnail")
	}
	if old != nil && *old != url {
		_ = cc.OSS.DeleteByPublicURL(c.Context(), *old)
	}
	return helper.JsonUpdated(c, "Thumbnail berhasil diupload", fiber.Map{"course_thumbnail_url": url})
}
