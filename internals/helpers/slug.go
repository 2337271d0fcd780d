package helper

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphen   = regexp.MustCompile(`-+`)
)

// Slugify mengubah teks bebas jadi slug [a-z0-9-], hilangkan diakritik,
// kompres "-", trim ujung, enforce maxLen (default 100 jika <=0), fallback "course".
func Slugify(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 100
	}
	s = strings.ToLower(strings.TrimSpace(s))

	// Strip diakritik (é → e, dll)
	var buf []rune
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) { // mark nonspacing
			continue
		}
		buf = append(buf, r)
	}
	s = string(buf)

	// Keep [a-z0-9-]
	s = reNonAlnum.ReplaceAllString(s, "-")
	s = reHyphen.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if s == "" {
		s = "course"
	}
	if utf8.RuneCountInString(s) > maxLen {
		rs := []rune(s)
		s = strings.Trim(string(rs[:maxLen]), "-")
	}
	if s == "" {
		s = "course"
	}
	return s
}

// EnsureUniqueSlug memastikan slug unik (case-insensitive) di satu tabel/kolom.
// Kalau bentrok, tambahkan suffix timestamp base-36 (stabil & hampir pasti unik).
// excludeID boleh kosong; kalau diisi, baris dengan pk itu tidak dihitung (untuk update).
func EnsureUniqueSlug(
	ctx context.Context,
	db *gorm.DB,
	table string,
	column string,
	pkColumn string,
	baseSlug string,
	excludeID string,
) (string, error) {
	q := db.WithContext(ctx).Table(table).
		Where(fmt.Sprintf("LOWER(%s) = ?", column), strings.ToLower(baseSlug))
	if excludeID != "" {
		q = q.Where(fmt.Sprintf("%s <> ?", pkColumn), excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return "", err
	}
	if count == 0 {
		return baseSlug, nil
	}

	suffix := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return baseSlug + "-" + suffix, nil
}
