package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"klaskonstruksi_backend/internals/configs"
	profileDTO "klaskonstruksi_backend/internals/features/users/profile/dto"
	profileModel "klaskonstruksi_backend/internals/features/users/profile/model"
	profileService "klaskonstruksi_backend/internals/features/users/profile/service"
	userModel "klaskonstruksi_backend/internals/features/users/user/model"
	helper "klaskonstruksi_backend/internals/helpers"
)

type ProfileController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewProfileController(db *gorm.DB) *ProfileController {
	return &ProfileController{DB: db, Validate: validator.New()}
}

/* =======================================
   GET /api/u/me
======================================= */

func (pc *ProfileController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var user userModel.UserModel
	if err := pc.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var profile profileModel.ProfileModel
	if err := pc.DB.Where("profile_user_id = ?", userID).First(&profile).Error; err != nil {
		profile = profileModel.ProfileModel{ProfileUserID: userID, ProfileEmail: user.Email}
		profile.SetDefaultValues()
	}

	role := profileService.ResolveRole(profile.ProfileRole, user.Email, configs.BootstrapAdminEmail)

	return helper.JsonOK(c, "OK", profileDTO.MeResponse{
		ID:       user.ID.String(),
		UserName: user.UserName,
		FullName: profile.ProfileFullName,
		Email:    user.Email,
		Role:     role,
	})
}

/* =======================================
   PUT /api/u/me
======================================= */

func (pc *ProfileController) UpdateMe(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var body profileDTO.UpdateProfileRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := pc.Validate.Struct(&body); err != nil {
		return helper.JsonValidationError(c, err)
	}

	res := pc.DB.Model(&profileModel.ProfileModel{}).
		Where("profile_user_id = ?", userID).
		Update("profile_full_name", strings.TrimSpace(body.FullName))
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Profil tidak ditemukan")
	}
	return helper.JsonUpdated(c, "Profil berhasil diperbarui", nil)
}

/* =======================================
   GET /api/a/users  (admin)
======================================= */

func (pc *ProfileController) ListUsers(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := pc.DB.Table("users").
		Select(`users.id, users.user_name, users.email, users.is_active, users.created_at,
			COALESCE(profiles.profile_full_name, '') AS full_name,
			COALESCE(profiles.profile_role, 'student') AS role`).
		Joins("LEFT JOIN profiles ON profiles.profile_user_id = users.id")

	if search := strings.TrimSpace(c.Query("q")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(users.email) LIKE ? OR LOWER(users.user_name) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	type row struct {
		ID        string
		UserName  string
		Email     string
		IsActive  bool
		CreatedAt time.Time
		FullName  string
		Role      string
	}
	var rows []row
	if err := q.Order("users.created_at DESC").Limit(paging.Limit).Offset(paging.Offset).Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]profileDTO.AdminUserRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, profileDTO.AdminUserRow{
			ID:       r.ID,
			UserName: r.UserName,
			FullName: r.FullName,
			Email:    r.Email,
			Role:     profileService.ResolveRole(r.Role, r.Email, configs.BootstrapAdminEmail),
			IsActive: r.IsActive,
			CreatedAt: r.CreatedAt,
		})
	}

	pagination := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "OK", out, &pagination)
}
