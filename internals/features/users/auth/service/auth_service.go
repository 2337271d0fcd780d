package service

import (
	"errors"
	"log"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"klaskonstruksi_backend/internals/configs"
	authDTO "klaskonstruksi_backend/internals/features/users/auth/dto"
	profileModel "klaskonstruksi_backend/internals/features/users/profile/model"
	profileService "klaskonstruksi_backend/internals/features/users/profile/service"
	userModel "klaskonstruksi_backend/internals/features/users/user/model"
	helper "klaskonstruksi_backend/internals/helpers"
)

/* ==========================
   Const & small helpers
========================== */

const (
	accessTTLDefault  = 24 * time.Hour
	refreshTTLDefault = 7 * 24 * time.Hour
)

var validate = validator.New()

func nowUTC() time.Time { return time.Now().UTC() }

func getJWTSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTSecret)
	if secret == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "JWT_SECRET belum diset")
	}
	return secret, nil
}

/* ==========================
   Register
========================== */

func Register(db *gorm.DB, c *fiber.Ctx) error {
	var body authDTO.RegisterRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&body); err != nil {
		return helper.JsonValidationError(c, err)
	}

	email := strings.ToLower(strings.TrimSpace(body.Email))

	// Tolak email yang sudah terdaftar (cek dulu biar pesannya jelas)
	var count int64
	if err := db.Model(&userModel.UserModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if count > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Email sudah terdaftar")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal memproses password")
	}

	user := userModel.UserModel{
		UserName: strings.TrimSpace(body.UserName),
		Email:    email,
		Password: string(hashed),
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Println("[ERROR] Gagal membuat user:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat akun")
	}

	// Profile selalu dibuat berpasangan dengan user (role default student)
	profile := profileModel.ProfileModel{
		ProfileUserID:   user.ID,
		ProfileFullName: strings.TrimSpace(body.FullName),
		ProfileEmail:    email,
	}
	profile.SetDefaultValues()
	if err := db.Create(&profile).Error; err != nil {
		log.Println("[ERROR] Gagal membuat profile:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat profil")
	}

	role := profileService.ResolveRole(profile.ProfileRole, email, configs.BootstrapAdminEmail)
	resp, err := issueTokens(c, user, profile, role)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Registrasi berhasil", resp)
}

/* ==========================
   Login (email + password)
========================== */

func Login(db *gorm.DB, c *fiber.Ctx) error {
	var body authDTO.LoginRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&body); err != nil {
		return helper.JsonValidationError(c, err)
	}

	email := strings.ToLower(strings.TrimSpace(body.Email))

	var user userModel.UserModel
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "Email atau password salah")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if !user.IsActive {
		return fiber.NewError(fiber.StatusForbidden, "Akun Anda telah dinonaktifkan")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Email atau password salah")
	}

	profile, role := loadProfileAndRole(db, user)
	resp, err := issueTokens(c, user, profile, role)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Login berhasil", resp)
}

/* ==========================
   Login Google (ID token)
========================== */

func LoginGoogle(db *gorm.DB, c *fiber.Ctx) error {
	var body authDTO.GoogleLoginRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(body.IDToken) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "id_token wajib diisi")
	}

	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(body.IDToken, []string{configs.GoogleClientID}); err != nil {
		log.Println("[ERROR] Verifikasi Google ID token gagal:", err)
		return fiber.NewError(fiber.StatusUnauthorized, "Google token tidak valid")
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(body.IDToken)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Google token tidak bisa dibaca")
	}

	email := strings.ToLower(strings.TrimSpace(claimSet.Email))
	if email == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Google token tanpa email")
	}

	var user userModel.UserModel
	err = db.Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Auto-register akun Google baru
		user = userModel.UserModel{
			UserName: strings.Split(email, "@")[0],
			Email:    email,
			Password: generateDummyPassword(),
			GoogleID: &claimSet.Sub,
			IsActive: true,
		}
		if err := db.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat akun Google")
		}
		profile := profileModel.ProfileModel{
			ProfileUserID:   user.ID,
			ProfileFullName: claimSet.Name,
			ProfileEmail:    email,
		}
		profile.SetDefaultValues()
		if err := db.Create(&profile).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat profil")
		}
	case err != nil:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if !user.IsActive {
		return fiber.NewError(fiber.StatusForbidden, "Akun Anda telah dinonaktifkan")
	}

	profile, role := loadProfileAndRole(db, user)
	resp, err := issueTokens(c, user, profile, role)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Login Google berhasil", resp)
}

/* ==========================
   Logout
========================== */

func Logout(db *gorm.DB, c *fiber.Ctx) error {
	clearAuthCookies(c)
	return helper.JsonOK(c, "Logout berhasil", nil)
}

/* ==========================
   Internals
========================== */

func loadProfileAndRole(db *gorm.DB, user userModel.UserModel) (profileModel.ProfileModel, string) {
	var profile profileModel.ProfileModel
	if err := db.Where("profile_user_id = ?", user.ID).First(&profile).Error; err != nil {
		// Profil hilang (signup hook gagal?) → fallback minimal, jangan blokir login
		log.Println("[WARN] Profile tidak ditemukan untuk user:", user.ID, "err:", err)
		profile = profileModel.ProfileModel{
			ProfileUserID: user.ID,
			ProfileEmail:  user.Email,
		}
		profile.SetDefaultValues()
	}
	role := profileService.ResolveRole(profile.ProfileRole, user.Email, configs.BootstrapAdminEmail)
	return profile, role
}

func buildAccessClaims(user userModel.UserModel, role string, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"id":        user.ID.String(),
		"user_name": user.UserName,
		"email":     user.Email,
		"role":      role,
		"typ":       "access",
		"iat":       now.Unix(),
		"exp":       now.Add(accessTTLDefault).Unix(),
	}
}

func buildRefreshClaims(userID uuid.UUID, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"id":  userID.String(),
		"typ": "refresh",
		"iat": now.Unix(),
		"exp": now.Add(refreshTTLDefault).Unix(),
	}
}

func issueTokens(c *fiber.Ctx, user userModel.UserModel, profile profileModel.ProfileModel, role string) (*authDTO.TokenResponse, error) {
	secret, err := getJWTSecret()
	if err != nil {
		return nil, err
	}
	refreshSecret := strings.TrimSpace(configs.JWTRefreshSecret)
	if refreshSecret == "" {
		refreshSecret = secret
	}

	now := nowUTC()

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, buildAccessClaims(user, role, now)).SignedString([]byte(secret))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat access token")
	}
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, buildRefreshClaims(user.ID, now)).SignedString([]byte(refreshSecret))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat refresh token")
	}

	setAuthCookies(c, access, refresh, now)

	return &authDTO.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User: authDTO.AuthUserResponse{
			ID:       user.ID.String(),
			UserName: user.UserName,
			FullName: profile.ProfileFullName,
			Email:    user.Email,
			Role:     role,
		},
	}, nil
}

func setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string, now time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Expires:  now.Add(accessTTLDefault),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Expires:  now.Add(refreshTTLDefault),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
	})
}

func clearAuthCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  expired,
			HTTPOnly: true,
			Secure:   true,
			SameSite: "None",
			Path:     "/",
		})
	}
}

func generateDummyPassword() string {
	// Akun Google tidak pakai password lokal; isi hash acak supaya kolom not-null aman.
	raw := uuid.NewString() + uuid.NewString()
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.MinCost)
	if err != nil {
		return raw
	}
	return string(hashed)
}
