package service

import (
	"strings"

	"klaskonstruksi_backend/internals/constants"
)

// ResolveRole menentukan role efektif seorang user.
// Admin jika role tersimpan 'admin' ATAU email persis sama dengan email bootstrap
// admin (akun pertama sebelum kolom role terisi). Selain itu student.
func ResolveRole(storedRole, email, bootstrapAdminEmail string) string {
	if storedRole == constants.RoleAdmin {
		return constants.RoleAdmin
	}
	if bootstrapAdminEmail != "" && strings.TrimSpace(email) == bootstrapAdminEmail {
		return constants.RoleAdmin
	}
	return constants.RoleStudent
}
