package core

import (
	"testing"
	"time"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}{
		{"dot decimal", "12.34", 12.34, false},
		{"comma decimal", "12,34", 12.34, false},
		{"integer", "1200", 1200, false},
		{"currency prefix", "$450.00", 450, false},
		{"grouped with comma decimal", "1.234,56", 1234.56, false},
		{"grouped with dot decimal", "1,234.56", 1234.56, false},
		{"empty", "", 0, true},
		{"dash", "-", 0, true},
		{"negative rejected", "-10", 0, true},
		{"plus rejected", "+10", 0, true},
		{"garbage", "abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAmount(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   time.Time
		wantOK bool
	}{
		{"day first", "20/01/2024", NewDate(2024, 1, 20), true},
		{"iso", "2024-01-20", NewDate(2024, 1, 20), true},
		{"dash day first", "20-01-2024", NewDate(2024, 1, 20), true},
		{"short", "5/3/2024", NewDate(2024, 3, 5), true},
		{"empty", "", time.Time{}, false},
		{"garbage", "ayer", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ParseDate(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("3", 1); got != 3 {
		t.Errorf("ParseIntDefault(3) = %d, want 3", got)
	}
	if got := ParseIntDefault("-", 1); got != 1 {
		t.Errorf("ParseIntDefault(-) = %d, want default 1", got)
	}
	if got := ParseIntDefault("", 0); got != 0 {
		t.Errorf("ParseIntDefault(empty) = %d, want default 0", got)
	}
	if got := ParseIntDefault("12.0", 1); got != 12 {
		t.Errorf("ParseIntDefault(12.0) = %d, want 12", got)
	}
}

func TestFirstToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Pago tarjeta", "Pago"},
		{"  Super despensa semanal ", "Super"},
		{"Luz", "Luz"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := FirstToken(tt.in); got != tt.want {
			t.Errorf("FirstToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
