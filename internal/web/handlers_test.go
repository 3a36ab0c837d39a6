package web

import "testing"

func TestQueryInt(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		def  int
		want int
	}{
		{"blank uses default", "", 50, 50},
		{"valid value", "25", 50, 25},
		{"zero is allowed", "0", 50, 0},
		{"negative uses default", "-5", 50, 50},
		{"malformed uses default", "ten", 50, 50},
		{"trailing junk uses default", "10x", 50, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := queryInt(tt.raw, tt.def); got != tt.want {
				t.Errorf("queryInt(%q, %d) = %d, want %d", tt.raw, tt.def, got, tt.want)
			}
		})
	}
}
