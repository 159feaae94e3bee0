package bootstrap

import (
	"testing"
)

func TestParseDegrees(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{"38.9451", 38.9451, false},
		{"-92.3289", -92.3289, false},
		{"0", 0, false},
		{"", 0, true},
		{"north", 0, true},
	}
	for _, tt := range tests {
		got, err := parseDegrees("geofence_center_lat", tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseDegrees(%q): expected error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseDegrees(%q): %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDegrees(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
