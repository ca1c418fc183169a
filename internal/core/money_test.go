package core

import (
	"encoding/json"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"2500", 250000, false},
		{"0", 0, false},
		{"0.5", 50, false},
		{".5", 50, false},
		{"12.345", 1234, false}, // third decimal rounds half-up
		{"12.346", 1235, false},
		{"-3.50", -350, false},
		{"+7", 700, false},
		{"", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
		{"12.", 1200, false},
		{".", 0, true},
		{"99999999999999999999", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAmount(%q): expected error, got %d", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAmount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMoneyDecimal(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{250000, "2500"},
		{1234, "12.34"},
		{1230, "12.30"},
		{5, "0.05"},
		{0, "0"},
		{-350, "-3.50"},
	}
	for _, tt := range tests {
		if got := (Money{Cents: tt.cents}).Decimal(); got != tt.want {
			t.Errorf("Money{%d}.Decimal() = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	var m Money
	if err := json.Unmarshal([]byte(`2500`), &m); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if m.Cents != 250000 {
		t.Fatalf("cents = %d, want 250000", m.Cents)
	}

	out, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "2500" {
		t.Fatalf("marshal = %s, want 2500", out)
	}

	// Quoted decimals are accepted too.
	if err := json.Unmarshal([]byte(`"12,34"`), &m); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if m.Cents != 1234 {
		t.Fatalf("cents = %d, want 1234", m.Cents)
	}

	if err := json.Unmarshal([]byte(`"not money"`), &m); err == nil {
		t.Fatal("expected error for garbage input")
	}
}
