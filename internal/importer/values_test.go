package importer

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		value   string
		layout  string
		want    time.Time
		wantErr bool
	}{
		{"3/9/2024", CanonicalDateLayout, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), false},
		{"03/09/2024", CanonicalDateLayout, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), false},
		{" 12/31/2023 ", "", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), false},
		{"9/3/2024", "2/1/2006", time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), false},
		{"31/12/2023", CanonicalDateLayout, time.Time{}, true},
		{"2024-03-09", CanonicalDateLayout, time.Time{}, true},
		{"", CanonicalDateLayout, time.Time{}, true},
	}

	for _, tt := range tests {
		got, err := ParseDate(tt.value, tt.layout)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDate(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestParseOptionalDate(t *testing.T) {
	got, err := ParseOptionalDate("  ", CanonicalDateLayout)
	if err != nil || got != nil {
		t.Errorf("ParseOptionalDate(blank) = %v, %v, want nil, nil", got, err)
	}

	got, err = ParseOptionalDate("1/5/2024", CanonicalDateLayout)
	if err != nil || got == nil || got.Day() != 5 {
		t.Errorf("ParseOptionalDate(1/5/2024) = %v, %v", got, err)
	}

	if _, err := ParseOptionalDate("nope", CanonicalDateLayout); err == nil {
		t.Error("ParseOptionalDate(nope) error = nil, want error")
	}
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		value   string
		style   DecimalStyle
		want    string
		wantErr bool
	}{
		{"1234.56", DecimalPoint, "1234.56", false},
		{"1,234.56", DecimalPoint, "1234.56", false},
		{"R$ 1,234.56", DecimalPoint, "1234.56", false},
		{"(1,000.00)", DecimalPoint, "-1000", false},
		{"-42", DecimalPoint, "-42", false},
		{"10,5", DecimalComma, "10.5", false},
		{"1.234,56", DecimalComma, "1234.56", false},
		{"R$ 1.234,56", DecimalComma, "1234.56", false},
		{"1234.56", DecimalComma, "1234.56", false},
		{"-0,75", DecimalComma, "-0.75", false},
		{"1,234", DecimalPoint, "1234", false},
		{"1,234,567.5", DecimalPoint, "1234567.5", false},
		{"10,5", DecimalPoint, "", true},
		{"1.234,56", DecimalPoint, "", true},
		{"1,5", DecimalPoint, "", true},
		{"12,34.5", DecimalPoint, "", true},
		{"1,234.56", DecimalComma, "", true},
		{"12.34,5", DecimalComma, "", true},
		{"1.234.567,89", DecimalComma, "1234567.89", false},
		{"abc", DecimalPoint, "", true},
		{"", DecimalComma, "", true},
		{"R$", DecimalComma, "", true},
	}

	for _, tt := range tests {
		got, err := ParseDecimal(tt.value, tt.style)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDecimal(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ParseDecimal(%q) = %s, want %s", tt.value, got.String(), tt.want)
		}
	}
}

func TestParseOptionalDecimal(t *testing.T) {
	got, err := ParseOptionalDecimal("", DecimalComma)
	if err != nil || got.Valid {
		t.Errorf("ParseOptionalDecimal(empty) = %v, %v, want invalid", got, err)
	}

	got, err = ParseOptionalDecimal("2,50", DecimalComma)
	if err != nil || !got.Valid || got.Decimal.String() != "2.5" {
		t.Errorf("ParseOptionalDecimal(2,50) = %v, %v", got, err)
	}

	if _, err := ParseOptionalDecimal("x", DecimalComma); err == nil {
		t.Error("ParseOptionalDecimal(x) error = nil, want error")
	}
}

func TestRowIsBlank(t *testing.T) {
	tests := []struct {
		values  map[string]string
		unnamed map[string]string
		want    bool
	}{
		{map[string]string{}, nil, true},
		{map[string]string{"a": "", "b": ""}, nil, true},
		{map[string]string{"a": "", "b": "x"}, nil, false},
		{map[string]string{"a": ""}, map[string]string{"C": "x"}, false},
	}

	for _, tt := range tests {
		if got := (Row{Values: tt.values, Unnamed: tt.unnamed}).IsBlank(); got != tt.want {
			t.Errorf("IsBlank(%v, %v) = %v, want %v", tt.values, tt.unnamed, got, tt.want)
		}
	}
}
