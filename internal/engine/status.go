package engine

import "fmt"

// Status classifies the outcome of a single probe execution.
type Status int

const (
	StatusSuccess Status = iota
	StatusSkipped
	StatusFailed
	StatusTimedOut
)

var statusNames = map[Status]string{
	StatusSuccess:  "success",
	StatusSkipped:  "skipped",
	StatusFailed:   "failed",
	StatusTimedOut: "timed_out",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// MarshalJSON encodes the status as its stable string form. Consumers key
// dashboards and alerts off these strings, so they never change.
func (s Status) MarshalJSON() ([]byte, error) {
	name, ok := statusNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown status %d", int(s))
	}
	return []byte(`"` + name + `"`), nil
}

func (s *Status) UnmarshalJSON(data []byte) error {
	for st, name := range statusNames {
		if string(data) == `"`+name+`"` {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown status %s", string(data))
}
