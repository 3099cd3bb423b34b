package probes

import "testing"

func TestVendorName(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"DEL", "Dell"},
		{"del", "Dell"},
		{" GSM ", "LG Electronics"},
		{"XYZ", "XYZ"}, // unknown codes degrade to the raw value
		{"", ""},
	}
	for _, tc := range cases {
		if got := vendorName(tc.code); got != tc.want {
			t.Errorf("vendorName(%q) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestDecodeMonitorString(t *testing.T) {
	cases := []struct {
		name string
		in   []uint16
		want string
	}{
		{"plain", []uint16{'P', '2', '4', '1', '9', 'H'}, "P2419H"},
		{"nul padded", []uint16{'U', '2', '7', 0, 0, 0, 0}, "U27"},
		{"stops at first nul", []uint16{'A', 0, 'B'}, "A"},
		{"surrounding space trimmed", []uint16{' ', 'L', 'G', ' '}, "LG"},
		{"empty", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := decodeMonitorString(tc.in); got != tc.want {
				t.Errorf("got %q want %q", got, tc.want)
			}
		})
	}
}
