package order

import (
	"marketplace/internal/core/domain/model/kernel"
)

// Edge is one legal move out of a status together with the role allowed to take it.
type Edge struct {
	To   Status
	Role kernel.Role
}

// transitions is keyed by current status. Terminal statuses have no entry.
var transitions = map[Status][]Edge{
	Pending: {
		{To: AcceptedByMerchant, Role: kernel.RoleMerchant},
		{To: RejectedByMerchant, Role: kernel.RoleMerchant},
	},
	AcceptedByMerchant: {
		{To: InPreparation, Role: kernel.RoleMerchant},
		{To: CanceledByMerchant, Role: kernel.RoleMerchant},
	},
	InPreparation: {
		{To: ReadyToDeliver, Role: kernel.RoleMerchant},
		{To: CanceledByMerchant, Role: kernel.RoleMerchant},
	},
	ReadyToDeliver: {
		{To: AcceptedByDriver, Role: kernel.RoleDriver},
		{To: RejectedByDriver, Role: kernel.RoleDriver},
		{To: CanceledByMerchant, Role: kernel.RoleMerchant},
	},
	AcceptedByDriver: {
		{To: OnTheWay, Role: kernel.RoleDriver},
		{To: CanceledByDriver, Role: kernel.RoleDriver},
	},
	OnTheWay: {
		{To: Completed, Role: kernel.RoleDriver},
		{To: CanceledByDriver, Role: kernel.RoleDriver},
	},
}

// Edges returns a copy of the outgoing edges of s.
func (s Status) Edges() []Edge {
	edges := transitions[s]
	out := make([]Edge, len(edges))
	copy(out, edges)
	return out
}

// Targets returns the statuses reachable from s in one step.
func (s Status) Targets() []Status {
	edges := transitions[s]
	out := make([]Status, 0, len(edges))
	for _, e := range edges {
		out = append(out, e.To)
	}
	return out
}

// EdgeTo looks up the edge s -> target.
func (s Status) EdgeTo(target Status) (Edge, bool) {
	for _, e := range transitions[s] {
		if e.To == target {
			return e, true
		}
	}
	return Edge{}, false
}
