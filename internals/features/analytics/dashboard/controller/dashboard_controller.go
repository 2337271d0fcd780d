package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dashboardDTO "klaskonstruksi_backend/internals/features/analytics/dashboard/dto"
	dashboardService "klaskonstruksi_backend/internals/features/analytics/dashboard/service"
	enrollmentModel "klaskonstruksi_backend/internals/features/enrollments/model"
	chapterModel "klaskonstruksi_backend/internals/features/lms/chapters/model"
	courseModel "klaskonstruksi_backend/internals/features/lms/courses/model"
	userModel "klaskonstruksi_backend/internals/features/users/user/model"
	helper "klaskonstruksi_backend/internals/helpers"
)

type DashboardController struct {
	DB *gorm.DB

	// dipatok di test; produksi pakai time.Now
	Now func() time.Time
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db, Now: time.Now}
}

/* =======================================
   GET /api/a/dashboard
======================================= */

func (dc *DashboardController) Overview(c *fiber.Ctx) error {
	now := dc.Now()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -5, 0)

	var purchases []enrollmentModel.PurchaseModel
	if err := dc.DB.Select("purchase_amount", "purchase_created_at").
		Order("purchase_created_at ASC").
		Find(&purchases).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	allRows := make([]dashboardService.PurchaseRow, 0, len(purchases))
	windowRows := make([]dashboardService.PurchaseRow, 0, len(purchases))
	for _, p := range purchases {
		row := dashboardService.PurchaseRow{Amount: p.PurchaseAmount, CreatedAt: p.PurchaseCreatedAt}
		allRows = append(allRows, row)
		if !p.PurchaseCreatedAt.Before(since) {
			windowRows = append(windowRows, row)
		}
	}

	resp := dashboardDTO.DashboardResponse{
		TotalRevenue:   dashboardService.TotalRevenue(allRows),
		MonthlyRevenue: dashboardService.BuildMonthlyRevenue(windowRows, now),
	}

	counts := []struct {
		model any
		dst   *int64
	}{
		{&userModel.UserModel{}, &resp.TotalUsers},
		{&courseModel.CourseModel{}, &resp.TotalCourses},
		{&chapterModel.ChapterModel{}, &resp.TotalChapters},
		{&enrollmentModel.EnrollmentModel{}, &resp.TotalEnrollments},
	}
	for _, item := range counts {
		if err := dc.DB.Model(item.model).Count(item.dst).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	// Learner aktif = user unik yang punya minimal satu enrollment.
	if err := dc.DB.Model(&enrollmentModel.EnrollmentModel{}).
		Distinct("enrollment_user_id").
		Count(&resp.TotalLearners).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if err := dc.DB.Model(&enrollmentModel.EnrollmentModel{}).
		Where("enrollment_status = ?", enrollmentModel.EnrollmentStatusCompleted).
		Count(&resp.TotalCompleted).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "OK", resp)
}
