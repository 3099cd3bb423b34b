package probes

import "testing"

const robocopySample = `
------------------------------------------------------------------------------

               Total    Copied   Skipped  Mismatch    FAILED    Extras
    Dirs :        87         0        87         0         0         0
   Files :      1234         0      1234         0         0         0
   Bytes : 567890123         0 567890123         0         0         0
   Times :   0:00:01   0:00:00                       0:00:00   0:00:01
   Ended : Monday, 31 August 2026 10:15:02
`

func TestParseRobocopySummary(t *testing.T) {
	files, bytes, err := parseRobocopySummary(robocopySample)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if files != 1234 {
		t.Errorf("files = %d, want 1234", files)
	}
	if bytes != 567890123 {
		t.Errorf("bytes = %d, want 567890123", bytes)
	}
}

func TestParseRobocopySummaryMissingTable(t *testing.T) {
	if _, _, err := parseRobocopySummary("ERROR 5 (0x00000005) Accessing Source Directory"); err == nil {
		t.Fatal("expected missing summary to be an error")
	}
}

func TestParseDuOutput(t *testing.T) {
	bytes, err := parseDuOutput("412\t/var/log\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if bytes != 412*1024 {
		t.Errorf("bytes = %d, want %d", bytes, 412*1024)
	}

	if _, err := parseDuOutput(""); err == nil {
		t.Fatal("expected empty output to be an error")
	}
	if _, err := parseDuOutput("garbage"); err == nil {
		t.Fatal("expected non-numeric output to be an error")
	}
}
