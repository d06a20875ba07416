// Package order holds the Order aggregate and its status lifecycle.
//
// The lifecycle is a closed enumeration with a fixed transition table in which
// every edge names the role allowed to take it (* marks terminal statuses):
//
//	PENDING              -> ACCEPTED_BY_MERCHANT (merchant), REJECTED_BY_MERCHANT* (merchant)
//	ACCEPTED_BY_MERCHANT -> IN_PREPARATION (merchant),       CANCELED_BY_MERCHANT* (merchant)
//	IN_PREPARATION       -> READY_TO_DELIVER (merchant),     CANCELED_BY_MERCHANT* (merchant)
//	READY_TO_DELIVER     -> ACCEPTED_BY_DRIVER (driver),     REJECTED_BY_DRIVER* (driver),
//	                        CANCELED_BY_MERCHANT* (merchant)
//	ACCEPTED_BY_DRIVER   -> ON_THE_WAY (driver),             CANCELED_BY_DRIVER* (driver)
//	ON_THE_WAY           -> COMPLETED* (driver),             CANCELED_BY_DRIVER* (driver)
//
// Admins may take any edge but can never leave a terminal state.
//
// Rules enforced by Order.ChangeStatus, in order:
//   - a merchant may only act on its own orders, a driver only on orders that
//     are unassigned or assigned to it, customers never
//   - the target must be an outgoing edge of the current status
//   - the acting role must match the edge role
package order
