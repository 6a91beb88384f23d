package models

import "testing"

func TestDeriveSessionTitle(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"short text unchanged", "Halo", "Halo"},
		{"exactly thirty runes unchanged", "123456789012345678901234567890", "123456789012345678901234567890"},
		{"long text truncated", "Saya suka makan nasi goreng setiap hari", "Saya suka makan nasi goreng se..."},
		{"empty text", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveSessionTitle(tt.text); got != tt.want {
				t.Errorf("DeriveSessionTitle(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"casual", ModeCasual, false},
		{"formal", ModeFormal, false},
		{"", ModeCasual, false},
		{"shouty", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMode(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMode(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
