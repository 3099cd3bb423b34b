package probes

import "strings"

// DisplayRecord describes one connected monitor.
type DisplayRecord struct {
	Manufacturer string `json:"manufacturer"`
	VendorCode   string `json:"vendorCode"`
	Model        string `json:"model"`
	SerialNumber string `json:"serialNumber"`
	YearOfManufacture int `json:"yearOfManufacture,omitempty"`
}

// pnpVendors maps three-letter PNP manufacturer codes, as reported in monitor
// EDID data, to vendor names. Loaded once at process start and read-only
// thereafter.
var pnpVendors = map[string]string{
	"ACI": "Asus",
	"ACR": "Acer",
	"AOC": "AOC",
	"APP": "Apple",
	"AUO": "AU Optronics",
	"BNQ": "BenQ",
	"BOE": "BOE Display",
	"CMN": "Chimei Innolux",
	"DEL": "Dell",
	"EIZ": "Eizo",
	"ENC": "Eizo Nanao",
	"GSM": "LG Electronics",
	"HPN": "HP",
	"HWP": "HP",
	"IVM": "Iiyama",
	"LEN": "Lenovo",
	"LGD": "LG Display",
	"LPL": "LG Philips",
	"MSI": "MSI",
	"NEC": "NEC",
	"PHL": "Philips",
	"SAM": "Samsung",
	"SEC": "Seiko Epson",
	"SHP": "Sharp",
	"SNY": "Sony",
	"VSC": "ViewSonic",
}

// vendorName resolves a PNP manufacturer code to a vendor name, degrading to
// the raw code when the table has no entry.
func vendorName(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if name, ok := pnpVendors[code]; ok {
		return name
	}
	return code
}

// decodeMonitorString converts a WMI monitor identification field, a
// NUL-padded array of UTF-16 code points, into a trimmed string.
func decodeMonitorString(codepoints []uint16) string {
	runes := make([]rune, 0, len(codepoints))
	for _, cp := range codepoints {
		if cp == 0 {
			break
		}
		runes = append(runes, rune(cp))
	}
	return strings.TrimSpace(string(runes))
}
