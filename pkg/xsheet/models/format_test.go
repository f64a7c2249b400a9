package models

import (
	"errors"
	"math"
	"testing"
	"time"
)

type unknownValue struct{}

func (unknownValue) Tag() string { return "?" }
func (unknownValue) isValue()    {}

func TestDateSerial(t *testing.T) {
	tests := []struct {
		date   time.Time
		serial Date
	}{
		{time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), 45365},
		{time.Date(1907, 7, 3, 0, 0, 0, 0, time.UTC), 2741},
		{time.Date(2005, 2, 23, 12, 0, 0, 0, time.UTC), 38406.5},
		{time.Date(1900, 3, 1, 6, 0, 0, 0, time.UTC), 61.25},
	}
	for _, tt := range tests {
		if got := DateFromTime(tt.date); math.Abs(float64(got-tt.serial)) > 1e-9 {
			t.Errorf("DateFromTime(%v) = %v, expected %v", tt.date, got, tt.serial)
		}
		if got := tt.serial.Time(); !got.Equal(tt.date) {
			t.Errorf("Date(%v).Time() = %v, expected %v", tt.serial, got, tt.date)
		}
	}

	d := time.Date(2031, 11, 5, 17, 47, 13, 0, time.UTC)
	if got := DateFromTime(d).Time(); !got.Equal(d) {
		t.Errorf("round trip of %v gave %v", d, got)
	}

	local := time.Date(2024, 3, 14, 0, 0, 0, 0, time.FixedZone("X", 5*3600))
	if got := DateFromTime(local); got != 45365 {
		t.Errorf("DateFromTime ignores the zone offset: got %v", got)
	}
}

func TestFormatDate(t *testing.T) {
	evening := DateFromTime(time.Date(2024, 3, 14, 18, 5, 9, 0, time.UTC))
	morning := DateFromTime(time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC))

	tests := []struct {
		date     Date
		format   string
		expected string
	}{
		{45365, "m/d/yy", "3/14/24"},
		{45365, "yyyy-mm-dd", "2024-03-14"},
		{45365, "dd/mm/yyyy", "14/03/2024"},
		{45365, "mmm d, yyyy", "Mar 14, 2024"},
		{45365, "dddd, mmmm d", "Thursday, March 14"},
		{45365, "ddd mmmmm", "Thu M"},
		{45365, `"Q"yyyy`, "Q2024"},
		{45365, `[$-409]d\-mmm`, "14-Mar"},
		{evening, "yyyy-mm-dd hh:mm:ss", "2024-03-14 18:05:09"},
		{evening, "h:mm AM/PM", "6:05 PM"},
		{evening, "m/d/yy h:mm;@", "3/14/24 18:05"},
		{morning, "h:mm a/p", "9:30 a"},
		{morning, "hh:mm", "09:30"},
		{morning, "[h]:mm:ss", "1088769:30:00"},
		{0.5, "[hh]:mm", "12:00"},
	}
	for _, tt := range tests {
		if got := FormatDate(tt.date, tt.format); got != tt.expected {
			t.Errorf("FormatDate(%v, %q) = %q, expected %q", tt.date, tt.format, got, tt.expected)
		}
	}
}

func TestIsDateFormat(t *testing.T) {
	tests := []struct {
		format   string
		expected bool
	}{
		{"m/d/yy", true},
		{"yyyy-mm-dd", true},
		{"h:mm AM/PM", true},
		{"[h]:mm", true},
		{"General", false},
		{"0.00", false},
		{"#,##0", false},
		{`0.00"days"`, false},
		{"[Red]0.0%", false},
		{"0.00E+00", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsDateFormat(tt.format); got != tt.expected {
			t.Errorf("IsDateFormat(%q) = %v, expected %v", tt.format, got, tt.expected)
		}
	}
}

func TestFormatGeneral(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "0"},
		{42, "42"},
		{-0.5, "-0.5"},
		{0.1 + 0.2, "0.3"},
		{1234567.891, "1234567.891"},
		{1.0 / 3, "0.333333333333333"},
		{1e20, "1E+20"},
		{1.5e-7, "1.5E-07"},
	}
	for _, tt := range tests {
		if got := FormatGeneral(tt.input); got != tt.expected {
			t.Errorf("FormatGeneral(%v) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		cell     Cell
		expected string
	}{
		{Cell{}, ""},
		{Cell{Value: Empty{}}, ""},
		{Cell{Value: Text("hi")}, "hi"},
		{Cell{Value: Number(1000), Raw: "1,000"}, "1,000"},
		{Cell{Value: Number(1000)}, "1000"},
		{Cell{Value: Boolean(true)}, "TRUE"},
		{Cell{Value: Boolean(false), Raw: "false"}, "false"},
		{Cell{Value: Date(45365), Raw: "3/14/2024"}, "3/14/24"},
		{Cell{Value: Date(45365), Format: "yyyy-mm-dd"}, "2024-03-14"},
		{Cell{Value: Formula{Body: "A1+B1", Display: "3"}}, "=A1+B1"},
	}
	for _, tt := range tests {
		got, err := tt.cell.Display()
		if err != nil || got != tt.expected {
			t.Errorf("Display(%+v) = %q, %v; expected %q", tt.cell, got, err, tt.expected)
		}
	}

	_, err := Cell{Value: unknownValue{}}.Display()
	var te *TypeError
	if !errors.As(err, &te) {
		t.Errorf("Display of unknown value: got %v, expected *TypeError", err)
	}
	if _, err := (Cell{Value: unknownValue{}}).RawValue(); !errors.As(err, &te) {
		t.Errorf("RawValue of unknown value: got %v, expected *TypeError", err)
	}
}
