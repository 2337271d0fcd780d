package service

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =======================================
   Progression tracker (mission session)
======================================= */

const (
	// Ambang "tertonton" untuk lesson berdurasi.
	watchedRatio = 0.8

	// Jeda tunggu sebelum progres disinkronkan ke database. Heartbeat
	// beruntun cukup menghasilkan satu tulisan.
	syncDebounce = 800 * time.Millisecond

	// Progres dari menonton dipatok 99; angka 100 hanya lewat aksi
	// selesai eksplisit.
	watchProgressCap = 99
)

// IsWatched menentukan apakah satu lesson sudah dianggap tertonton.
// Lesson tanpa durasi dianggap tertonton begitu pernah dibuka.
func IsWatched(position, duration float64) bool {
	if duration > 0 {
		return position >= watchedRatio*duration
	}
	return true
}

// ChapterPercent menghitung persentase chapter dari jumlah lesson yang
// tertonton. Hasil menonton maksimal 99.
func ChapterPercent(watched, total int) int {
	if total <= 0 || watched <= 0 {
		return 0
	}
	if watched > total {
		watched = total
	}
	percent := int(math.Round(float64(watched) * 100 / float64(total)))
	if percent > watchProgressCap {
		percent = watchProgressCap
	}
	return percent
}

// ChapterPercentWeighted menimbang persen berdasarkan durasi lesson
// yang tertonton. Dipakai saat total durasi chapter diketahui; fallback
// ke hitungan jumlah kalau tidak.
func ChapterPercentWeighted(watchedSeconds, totalSeconds float64, watched, total int) int {
	if totalSeconds <= 0 {
		return ChapterPercent(watched, total)
	}
	if watchedSeconds <= 0 {
		return 0
	}
	if watchedSeconds > totalSeconds {
		watchedSeconds = totalSeconds
	}
	percent := int(math.Round(watchedSeconds * 100 / totalSeconds))
	if percent > watchProgressCap {
		percent = watchProgressCap
	}
	return percent
}

type sessionKey struct {
	UserID    uuid.UUID
	ChapterID uuid.UUID
}

// lessonWatch menyimpan posisi tonton terjauh satu lesson di sesi ini.
type lessonWatch struct {
	seconds  float64 // posisi terjauh, dibatasi durasi
	duration float64
	done     bool
}

type missionSession struct {
	lessons      map[uuid.UUID]*lessonWatch
	totalLessons int
	totalSeconds float64
	timer        *time.Timer
	lastPercent  int
}

// watchedSeconds menjumlahkan detik tonton tiap lesson, masing-masing
// dibatasi durasinya, supaya tonton parsial ikut dihitung.
func (s *missionSession) watchedSeconds() float64 {
	var sum float64
	for _, lw := range s.lessons {
		sum += lw.seconds
	}
	return sum
}

func (s *missionSession) watchedCount() int {
	n := 0
	for _, lw := range s.lessons {
		if lw.done {
			n++
		}
	}
	return n
}

// Tracker menyimpan sesi belajar aktif di memori dan menulis progres ke
// ledger dengan debounce. Satu instance dipakai seumur proses.
type Tracker struct {
	mu       sync.Mutex
	sessions map[sessionKey]*missionSession
	db       *gorm.DB

	// bisa ditukar di test
	debounce  time.Duration
	afterFunc func(d time.Duration, f func()) *time.Timer
	syncFn    func(db *gorm.DB, userID, chapterID uuid.UUID, percent int) error
}

func NewTracker(db *gorm.DB) *Tracker {
	return &Tracker{
		sessions:  make(map[sessionKey]*missionSession),
		db:        db,
		debounce:  syncDebounce,
		afterFunc: time.AfterFunc,
		syncFn:    UpdateProgress,
	}
}

// Heartbeat menerima posisi tonton terbaru dari player. totalLessons
// dan totalSeconds dikirim controller supaya tracker tidak perlu query
// tiap detik. Mengembalikan persentase chapter terkini: timbangan
// durasi kalau durasi total diketahui, rasio jumlah kalau tidak.
func (t *Tracker) Heartbeat(userID, chapterID, lessonID uuid.UUID, position, duration float64, totalLessons int, totalSeconds float64) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := sessionKey{UserID: userID, ChapterID: chapterID}
	sess, ok := t.sessions[key]
	if !ok {
		sess = &missionSession{lessons: make(map[uuid.UUID]*lessonWatch)}
		t.sessions[key] = sess
	}
	if totalLessons > 0 {
		sess.totalLessons = totalLessons
	}
	if totalSeconds > 0 {
		sess.totalSeconds = totalSeconds
	}

	lw, ok := sess.lessons[lessonID]
	if !ok {
		lw = &lessonWatch{}
		sess.lessons[lessonID] = lw
	}
	lw.duration = duration
	// Lesson tanpa durasi tidak masuk total detik chapter, jadi tidak
	// menyumbang ke jumlah detik tertonton.
	seen := position
	if duration <= 0 {
		seen = 0
	} else if seen > duration {
		seen = duration
	}
	if seen > lw.seconds {
		lw.seconds = seen
	}
	if IsWatched(position, duration) {
		lw.done = true
	}

	percent := ChapterPercentWeighted(sess.watchedSeconds(), sess.totalSeconds, sess.watchedCount(), sess.totalLessons)
	if percent != sess.lastPercent {
		sess.lastPercent = percent
		t.scheduleSyncLocked(key, percent)
	}
	return percent
}

// scheduleSyncLocked me-reset timer debounce; pemanggil memegang t.mu.
func (t *Tracker) scheduleSyncLocked(key sessionKey, percent int) {
	sess := t.sessions[key]
	if sess.timer != nil {
		sess.timer.Stop()
	}
	sess.timer = t.afterFunc(t.debounce, func() {
		if err := t.syncFn(t.db, key.UserID, key.ChapterID, percent); err != nil {
			log.Println("⚠️ [TRACKER] Gagal sinkron progres:", err)
		}
	})
}

// Flush memaksa sinkronisasi progres satu sesi (dipanggil saat user
// menutup player atau menyelesaikan chapter).
func (t *Tracker) Flush(userID, chapterID uuid.UUID) error {
	t.mu.Lock()
	key := sessionKey{UserID: userID, ChapterID: chapterID}
	sess, ok := t.sessions[key]
	var percent int
	if ok {
		if sess.timer != nil {
			sess.timer.Stop()
		}
		percent = sess.lastPercent
	}
	t.mu.Unlock()

	if !ok {
		return nil
	}
	return t.syncFn(t.db, userID, chapterID, percent)
}

// Complete menutup sesi dan menandai chapter selesai di ledger.
func (t *Tracker) Complete(userID, chapterID uuid.UUID, now time.Time) error {
	t.mu.Lock()
	key := sessionKey{UserID: userID, ChapterID: chapterID}
	if sess, ok := t.sessions[key]; ok {
		if sess.timer != nil {
			sess.timer.Stop()
		}
		delete(t.sessions, key)
	}
	t.mu.Unlock()

	return MarkCompleted(t.db, userID, chapterID, now)
}

// WatchedCount untuk kebutuhan tampilan (berapa lesson tertonton di sesi ini).
func (t *Tracker) WatchedCount(userID, chapterID uuid.UUID) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if sess, ok := t.sessions[sessionKey{UserID: userID, ChapterID: chapterID}]; ok {
		return sess.watchedCount()
	}
	return 0
}

// AllWatched true kalau semua lesson chapter sudah tertonton di sesi ini.
func (t *Tracker) AllWatched(userID, chapterID uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	sess, ok := t.sessions[sessionKey{UserID: userID, ChapterID: chapterID}]
	if !ok || sess.totalLessons == 0 {
		return false
	}
	return sess.watchedCount() >= sess.totalLessons
}
