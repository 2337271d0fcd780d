package service

import (
	"time"

	dashboardDTO "klaskonstruksi_backend/internals/features/analytics/dashboard/dto"
)

/* =======================================
   Agregasi pendapatan
======================================= */

// Label bulan pendek gaya Indonesia, index 0 = Januari.
var monthLabels = [12]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}

// MonthLabel mengembalikan label "Agu 2026" untuk satu waktu.
func MonthLabel(t time.Time) string {
	return monthLabels[t.Month()-1] + " " + t.Format("2006")
}

// PurchaseRow adalah proyeksi minimal satu transaksi untuk agregasi.
type PurchaseRow struct {
	Amount    int64
	CreatedAt time.Time
}

// TotalRevenue menjumlah seluruh transaksi.
func TotalRevenue(rows []PurchaseRow) int64 {
	var total int64
	for _, r := range rows {
		total += r.Amount
	}
	return total
}

// BuildMonthlyRevenue membentuk 6 bucket bulan berjalan mundur
// (bulan `now` di posisi terakhir). Bulan tanpa transaksi tetap muncul
// dengan nilai 0 supaya grafik tidak bolong.
func BuildMonthlyRevenue(rows []PurchaseRow, now time.Time) []dashboardDTO.MonthBucket {
	type monthKey struct {
		Year  int
		Month time.Month
	}

	buckets := make([]dashboardDTO.MonthBucket, 0, 6)
	index := make(map[monthKey]int, 6)

	base := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := 5; i >= 0; i-- {
		m := base.AddDate(0, -i, 0)
		index[monthKey{Year: m.Year(), Month: m.Month()}] = len(buckets)
		buckets = append(buckets, dashboardDTO.MonthBucket{Label: MonthLabel(m)})
	}

	for _, r := range rows {
		key := monthKey{Year: r.CreatedAt.Year(), Month: r.CreatedAt.Month()}
		if i, ok := index[key]; ok {
			buckets[i].Revenue += r.Amount
			buckets[i].Count++
		}
	}
	return buckets
}
