package zone

import (
	"fmt"
	"strings"

	"marketplace/internal/pkg/errs"
)

// Status tells whether a zone takes part in coordinate lookups and order placement.
type Status int

const (
	StatusUnknown Status = iota
	StatusActive
	StatusInactive
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:  "UNKNOWN",
		StatusActive:   "ACTIVE",
		StatusInactive: "INACTIVE",
	}
}

// ParseStatus accepts the wire name, case-insensitively.
func ParseStatus(s string) (Status, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for status, statusName := range getStatusStrings() {
		if status != StatusUnknown && statusName == name {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("zone status", fmt.Errorf("%q is not a valid zone status", s))
}

func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("zone status", fmt.Errorf("%d is not a valid zone status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return getStatusStrings()[StatusUnknown]
}
