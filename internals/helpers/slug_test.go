package helper

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"sederhana", "Belajar Konstruksi Baja", 100, "belajar-konstruksi-baja"},
		{"diakritik", "Métode Béton Armé", 100, "metode-beton-arme"},
		{"simbol", "RAB & Estimasi (2024)!", 100, "rab-estimasi-2024"},
		{"spasi ganda", "  Pondasi   Dalam  ", 100, "pondasi-dalam"},
		{"kosong fallback", "", 100, "course"},
		{"simbol semua fallback", "!!!###", 100, "course"},
		{"terpotong maxLen", "pondasi dalam dan dangkal", 13, "pondasi-dalam"},
		{"trim hyphen setelah potong", "abc def", 4, "abc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Slugify(tc.in, tc.maxLen); got != tc.want {
				t.Errorf("Slugify(%q, %d) = %q, want %q", tc.in, tc.maxLen, got, tc.want)
			}
		})
	}
}

func newSlugTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	schema := `CREATE TABLE courses (
		course_id TEXT PRIMARY KEY,
		course_slug TEXT NOT NULL
	);`
	if err := db.Exec(schema).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func TestEnsureUniqueSlug(t *testing.T) {
	db := newSlugTestDB(t)
	ctx := context.Background()

	// Tanpa tabrakan: slug dipakai apa adanya.
	got, err := EnsureUniqueSlug(ctx, db, "courses", "course_slug", "course_id", "belajar-baja", "")
	if err != nil {
		t.Fatalf("unique slug: %v", err)
	}
	if got != "belajar-baja" {
		t.Errorf("slug = %q, want belajar-baja", got)
	}

	if err := db.Exec(`INSERT INTO courses (course_id, course_slug) VALUES ('c1', 'belajar-baja')`).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Tabrakan (case-insensitive) → dapat suffix base-36.
	got, err = EnsureUniqueSlug(ctx, db, "courses", "course_slug", "course_id", "Belajar-Baja", "")
	if err != nil {
		t.Fatalf("collided slug: %v", err)
	}
	if !strings.HasPrefix(got, "Belajar-Baja-") {
		t.Fatalf("slug = %q, want prefix Belajar-Baja-", got)
	}
	suffix := strings.TrimPrefix(got, "Belajar-Baja-")
	if !regexp.MustCompile(`^[0-9a-z]+$`).MatchString(suffix) {
		t.Errorf("suffix = %q, want base-36", suffix)
	}

	// Update baris yang sama: dirinya sendiri tidak dihitung tabrakan.
	got, err = EnsureUniqueSlug(ctx, db, "courses", "course_slug", "course_id", "belajar-baja", "c1")
	if err != nil {
		t.Fatalf("self update: %v", err)
	}
	if got != "belajar-baja" {
		t.Errorf("slug update diri sendiri = %q, want belajar-baja", got)
	}
}
