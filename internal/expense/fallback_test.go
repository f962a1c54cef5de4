package expense

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestFallbackAmount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"total_label_with_currency", "Total: Rs. 1,234.56", 1234.56},
		{"amount_label", "Amount: 99.99", 99.99},
		{"payment_label", "Payment 450.00 received", 450.00},
		{"bare_decimal_with_currency", "you owe 75.25 INR for this", 75.25},
		{"thousands_separators", "TOTAL 12,345.00", 12345.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := FallbackExtract(tt.text)
			if data.Amount == nil {
				t.Fatalf("expected amount %v, got absent", tt.want)
			}
			if *data.Amount != tt.want {
				t.Errorf("expected amount %v, got %v", tt.want, *data.Amount)
			}
		})
	}
}

func TestFallbackAmountAbsent(t *testing.T) {
	data := FallbackExtract("no numbers worth finding here")
	if data.Amount != nil {
		t.Errorf("expected absent amount, got %v", *data.Amount)
	}
}

func TestFallbackDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"iso", "Receipt issued 2024-03-15 thanks", "2024-03-15"},
		{"day_first_slashes", "Date: 15/03/2024", "2024-03-15"},
		{"month_first_dashes", "billed 03-15-2024", "2024-03-15"},
		{"two_digit_year", "5/3/24", "2024-03-05"},
		{"month_first_two_digit_year", "paid on 12/25/24", "2024-12-25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := FallbackExtract(tt.text)
			if data.Date == nil {
				t.Fatalf("expected date %q, got absent", tt.want)
			}
			if *data.Date != tt.want {
				t.Errorf("expected date %q, got %q", tt.want, *data.Date)
			}
		})
	}
}

func TestFallbackDateDefaultsToToday(t *testing.T) {
	data := FallbackExtract("no recognizable date anywhere")
	if data.Date == nil {
		t.Fatal("fallback must always produce a date")
	}
	today := time.Now().Format("2006-01-02")
	if *data.Date != today {
		t.Errorf("expected today %q, got %q", today, *data.Date)
	}
}

func TestFallbackDescription(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"vendor_label", "vendor: Corner Bakery Ltd", "Corner Bakery Ltd"},
		{"at_label", "purchased at Starbucks Downtown", "Starbucks Downtown"},
		{"item_label", "item: Wireless mouse", "Wireless mouse"},
		{"first_line", "Neighborhood Hardware\nTOTAL 45.00", "Neighborhood Hardware"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := FallbackExtract(tt.text)
			if data.Description == nil {
				t.Fatalf("expected description %q, got absent", tt.want)
			}
			if *data.Description != tt.want {
				t.Errorf("expected description %q, got %q", tt.want, *data.Description)
			}
		})
	}
}

func TestFallbackDescriptionDefault(t *testing.T) {
	// Too short for the first-line rule and no label matches
	data := FallbackExtract("x 1.23")
	if data.Description == nil || *data.Description != DefaultDescription {
		t.Errorf("expected default description %q, got %v", DefaultDescription, data.Description)
	}
}

func TestFallbackDescriptionTruncated(t *testing.T) {
	data := FallbackExtract("from " + strings.Repeat("a", 50) + "\nmore")
	if data.Description == nil {
		t.Fatal("expected a description")
	}
	if len(*data.Description) > maxDescriptionLength {
		t.Errorf("description longer than %d chars: %d", maxDescriptionLength, len(*data.Description))
	}
}

func TestTruncateCountsRunesNotBytes(t *testing.T) {
	s := strings.Repeat("₹", 60) // 3 bytes per rune

	got := truncate(s, 40)
	if !utf8.ValidString(got) {
		t.Errorf("truncation produced invalid UTF-8: %q", got)
	}
	if n := len([]rune(got)); n != 40 {
		t.Errorf("expected 40 characters, got %d", n)
	}

	if got := truncate("plain ascii", 100); got != "plain ascii" {
		t.Errorf("short strings must pass through unchanged, got %q", got)
	}
}

func TestFallbackCategory(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"gym_is_health", "monthly gym membership fee 20.00", "Health"},
		{"coffee_is_food", "coffee and a muffin", "Food"},
		{"taxi_is_travel", "TAXI fare to the airport", "Travel"},
		{"services_wins_maintenance", "annual maintenance contract", "Services"},
		{"no_keyword", "Total: Rs. 1,234.56", "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := FallbackExtract(tt.text)
			if data.Category != tt.want {
				t.Errorf("expected category %q, got %q", tt.want, data.Category)
			}
		})
	}
}

func TestFallbackFieldsAreIndependent(t *testing.T) {
	// Amount is absent, but date, description, and category still resolve.
	data := FallbackExtract("vendor: City Gym Memberships\nDate: 15/03/2024")
	if data.Amount != nil {
		t.Errorf("expected absent amount, got %v", *data.Amount)
	}
	if data.Date == nil || *data.Date != "2024-03-15" {
		t.Errorf("expected date 2024-03-15, got %v", data.Date)
	}
	if data.Description == nil || *data.Description != "City Gym Memberships" {
		t.Errorf("unexpected description: %v", data.Description)
	}
	if data.Category != "Health" {
		t.Errorf("expected Health, got %q", data.Category)
	}
}

func TestMatchCategoryTableOrder(t *testing.T) {
	// "Maintenance" is a keyword of both Services and Rent/Mortgage;
	// Services comes first in the table and must win.
	if got := MatchCategory("maintenance work"); got != "Services" {
		t.Errorf("expected Services, got %q", got)
	}
}

func TestCategoryNamesClosedSet(t *testing.T) {
	names := CategoryNames()
	if len(names) != 12 {
		t.Fatalf("expected 12 categories, got %d", len(names))
	}
	for _, name := range names {
		if !IsValidCategory(name) {
			t.Errorf("category %q not valid against its own enumeration", name)
		}
	}
	if IsValidCategory("Bogus") {
		t.Error("Bogus must not be a valid category")
	}
}
