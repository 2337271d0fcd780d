package service

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestValidSignature(t *testing.T) {
	midtransServerKey = "SB-Mid-server-testkey"
	t.Cleanup(func() { midtransServerKey = "" })

	n := midtransNotification{
		OrderID:     "KK-ABCD1234-1700000000000",
		StatusCode:  "200",
		GrossAmount: "150000.00",
	}
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + midtransServerKey))
	n.SignatureKey = hex.EncodeToString(sum[:])

	if !validSignature(n) {
		t.Error("signature valid ditolak")
	}

	n.SignatureKey = "deadbeef"
	if validSignature(n) {
		t.Error("signature palsu diterima")
	}

	// Amount diubah → signature lama tidak berlaku.
	n.SignatureKey = hex.EncodeToString(sum[:])
	n.GrossAmount = "1.00"
	if validSignature(n) {
		t.Error("signature tetap lolos padahal amount berubah")
	}
}

func TestNewOrderID(t *testing.T) {
	chapterID := uuid.New()
	orderID := newOrderID(chapterID)

	if !strings.HasPrefix(orderID, "KK-") {
		t.Errorf("orderID = %q, want prefix KK-", orderID)
	}
	// Midtrans membatasi order_id 50 karakter.
	if len(orderID) > 50 {
		t.Errorf("len(orderID) = %d, want <= 50", len(orderID))
	}
	wantFrag := strings.ToUpper(chapterID.String()[:8])
	if !strings.Contains(orderID, wantFrag) {
		t.Errorf("orderID %q tidak memuat fragmen chapter %q", orderID, wantFrag)
	}
}

func TestTruncateItemName(t *testing.T) {
	short := "Pondasi Dalam"
	if got := truncateItemName(short); got != short {
		t.Errorf("truncate pendek = %q", got)
	}
	long := strings.Repeat("x", 80)
	if got := truncateItemName(long); len(got) != 50 {
		t.Errorf("len(truncate panjang) = %d, want 50", len(got))
	}
}
