package probes

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// parseRobocopySummary extracts the Total column from a robocopy job
// summary, e.g.:
//
//	             Total    Copied   Skipped  Mismatch    FAILED    Extras
//	  Files :      1234         0      1234         0         0         0
//	  Bytes : 567890123         0 567890123         0         0         0
func parseRobocopySummary(output string) (files, bytes int64, err error) {
	var haveFiles, haveBytes bool
	for _, line := range strings.Split(output, "\n") {
		label, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		total, parseErr := strconv.ParseInt(fields[0], 10, 64)
		if parseErr != nil {
			continue
		}
		switch strings.TrimSpace(label) {
		case "Files":
			files = total
			haveFiles = true
		case "Bytes":
			bytes = total
			haveBytes = true
		}
	}
	if !haveFiles || !haveBytes {
		return 0, 0, errors.New("robocopy summary not found in output")
	}
	return files, bytes, nil
}

// parseDuOutput reads the kilobyte total from `du -sk` output.
func parseDuOutput(output string) (int64, error) {
	fields := strings.Fields(output)
	if len(fields) == 0 {
		return 0, errors.New("empty du output")
	}
	kb, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse du output %q: %w", fields[0], err)
	}
	return kb * 1024, nil
}
