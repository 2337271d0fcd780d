package service

import (
	"testing"
	"time"
)

func ts(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func TestMonthLabel(t *testing.T) {
	cases := []struct {
		in   time.Time
		want string
	}{
		{ts(2024, time.January, 5), "Jan 2024"},
		{ts(2024, time.May, 17), "Mei 2024"},
		{ts(2026, time.August, 31), "Agu 2026"},
		{ts(2025, time.December, 1), "Des 2025"},
	}
	for _, tc := range cases {
		if got := MonthLabel(tc.in); got != tc.want {
			t.Errorf("MonthLabel(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTotalRevenue(t *testing.T) {
	rows := []PurchaseRow{
		{Amount: 150000, CreatedAt: ts(2024, time.January, 10)},
		{Amount: 30000, CreatedAt: ts(2024, time.February, 2)},
		{Amount: 99000, CreatedAt: ts(2023, time.June, 1)},
	}
	if got := TotalRevenue(rows); got != 279000 {
		t.Errorf("TotalRevenue = %d, want 279000", got)
	}
	if got := TotalRevenue(nil); got != 0 {
		t.Errorf("TotalRevenue(nil) = %d, want 0", got)
	}
}

func TestBuildMonthlyRevenue(t *testing.T) {
	now := ts(2024, time.June, 15)
	rows := []PurchaseRow{
		{Amount: 100000, CreatedAt: ts(2024, time.January, 3)},
		{Amount: 50000, CreatedAt: ts(2024, time.January, 28)},
		{Amount: 30000, CreatedAt: ts(2024, time.February, 14)},
		// Di luar jendela 6 bulan: harus diabaikan.
		{Amount: 999999, CreatedAt: ts(2023, time.December, 31)},
	}

	buckets := BuildMonthlyRevenue(rows, now)
	if len(buckets) != 6 {
		t.Fatalf("len(buckets) = %d, want 6", len(buckets))
	}

	wantLabels := []string{"Jan 2024", "Feb 2024", "Mar 2024", "Apr 2024", "Mei 2024", "Jun 2024"}
	wantRevenue := []int64{150000, 30000, 0, 0, 0, 0}
	wantCount := []int{2, 1, 0, 0, 0, 0}

	for i, b := range buckets {
		if b.Label != wantLabels[i] {
			t.Errorf("bucket[%d].Label = %q, want %q", i, b.Label, wantLabels[i])
		}
		if b.Revenue != wantRevenue[i] {
			t.Errorf("bucket[%d].Revenue = %d, want %d", i, b.Revenue, wantRevenue[i])
		}
		if b.Count != wantCount[i] {
			t.Errorf("bucket[%d].Count = %d, want %d", i, b.Count, wantCount[i])
		}
	}
}

func TestBuildMonthlyRevenueCrossesYear(t *testing.T) {
	now := ts(2024, time.February, 1)
	rows := []PurchaseRow{
		{Amount: 75000, CreatedAt: ts(2023, time.September, 9)},
		{Amount: 25000, CreatedAt: ts(2024, time.February, 1)},
	}

	buckets := BuildMonthlyRevenue(rows, now)
	wantLabels := []string{"Sep 2023", "Okt 2023", "Nov 2023", "Des 2023", "Jan 2024", "Feb 2024"}
	for i, b := range buckets {
		if b.Label != wantLabels[i] {
			t.Errorf("bucket[%d].Label = %q, want %q", i, b.Label, wantLabels[i])
		}
	}
	if buckets[0].Revenue != 75000 {
		t.Errorf("Sep 2023 revenue = %d, want 75000", buckets[0].Revenue)
	}
	if buckets[5].Revenue != 25000 {
		t.Errorf("Feb 2024 revenue = %d, want 25000", buckets[5].Revenue)
	}
}

func TestBuildMonthlyRevenueEmpty(t *testing.T) {
	buckets := BuildMonthlyRevenue(nil, ts(2024, time.June, 15))
	if len(buckets) != 6 {
		t.Fatalf("len = %d, want 6", len(buckets))
	}
	for i, b := range buckets {
		if b.Revenue != 0 || b.Count != 0 {
			t.Errorf("bucket[%d] = %+v, want nol", i, b)
		}
	}
}
