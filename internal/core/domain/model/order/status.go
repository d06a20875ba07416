package order

import (
	"fmt"
	"strings"

	"marketplace/internal/pkg/errs"
)

// Status is the lifecycle state of an order. The zero value is Unknown and
// never valid.
type Status int

const (
	Unknown Status = iota
	Pending
	AcceptedByMerchant
	InPreparation
	ReadyToDeliver
	AcceptedByDriver
	OnTheWay
	Completed
	RejectedByMerchant
	CanceledByMerchant
	RejectedByDriver
	CanceledByDriver
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:            "UNKNOWN",
		Pending:            "PENDING",
		AcceptedByMerchant: "ACCEPTED_BY_MERCHANT",
		InPreparation:      "IN_PREPARATION",
		ReadyToDeliver:     "READY_TO_DELIVER",
		AcceptedByDriver:   "ACCEPTED_BY_DRIVER",
		OnTheWay:           "ON_THE_WAY",
		Completed:          "COMPLETED",
		RejectedByMerchant: "REJECTED_BY_MERCHANT",
		CanceledByMerchant: "CANCELED_BY_MERCHANT",
		RejectedByDriver:   "REJECTED_BY_DRIVER",
		CanceledByDriver:   "CANCELED_BY_DRIVER",
	}
}

// AllStatuses lists every valid status in lifecycle order.
func AllStatuses() []Status {
	return []Status{
		Pending,
		AcceptedByMerchant,
		InPreparation,
		ReadyToDeliver,
		AcceptedByDriver,
		OnTheWay,
		Completed,
		RejectedByMerchant,
		CanceledByMerchant,
		RejectedByDriver,
		CanceledByDriver,
	}
}

// ParseStatus accepts the wire name, case-insensitively.
func ParseStatus(s string) (Status, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for status, statusName := range getStatusStrings() {
		if status != Unknown && statusName == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return getStatusStrings()[Unknown]
}

// IsTerminal reports whether no edge leaves s.
func (s Status) IsTerminal() bool {
	return s.Validate() == nil && len(transitions[s]) == 0
}
