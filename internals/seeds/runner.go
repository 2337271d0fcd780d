package seeds

import (
	"errors"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"klaskonstruksi_backend/internals/configs"
	"klaskonstruksi_backend/internals/constants"
	profileModel "klaskonstruksi_backend/internals/features/users/profile/model"
	userModel "klaskonstruksi_backend/internals/features/users/user/model"
)

// RunAllSeeds menyiapkan data minimum supaya instance baru langsung
// bisa dipakai. Saat ini cuma akun admin bootstrap.
func RunAllSeeds(db *gorm.DB) {
	seedBootstrapAdmin(db)
}

// seedBootstrapAdmin membuat akun admin dari BOOTSTRAP_ADMIN_EMAIL
// kalau belum ada. Password awal dari BOOTSTRAP_ADMIN_PASSWORD;
// kalau env-nya kosong, akun dilewati (login hanya via Google).
func seedBootstrapAdmin(db *gorm.DB) {
	email := strings.ToLower(strings.TrimSpace(configs.BootstrapAdminEmail))
	if email == "" {
		return
	}

	var existing userModel.UserModel
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("⚠️ [SEED] Gagal cek admin bootstrap:", err)
		return
	}

	password := configs.GetEnv("BOOTSTRAP_ADMIN_PASSWORD", "")
	if password == "" {
		log.Println("ℹ️ [SEED] BOOTSTRAP_ADMIN_PASSWORD kosong, admin bootstrap dilewati")
		return
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Println("⚠️ [SEED] Gagal hash password admin:", err)
		return
	}

	user := userModel.UserModel{
		UserName: "admin",
		Email:    email,
		Password: string(hashed),
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Println("⚠️ [SEED] Gagal membuat admin bootstrap:", err)
		return
	}
	profile := profileModel.ProfileModel{
		ProfileUserID:   user.ID,
		ProfileFullName: "Administrator",
		ProfileEmail:    email,
		ProfileRole:     constants.RoleAdmin,
	}
	if err := db.Create(&profile).Error; err != nil {
		log.Println("⚠️ [SEED] Gagal membuat profil admin:", err)
		return
	}
	log.Println("✅ [SEED] Admin bootstrap dibuat:", email)
}
