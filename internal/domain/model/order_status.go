package model

import "fmt"

// InvalidTransitionError is returned when a requested order status change
// violates one of the state machine gates.
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s", e.From, e.To)
}

// IsTerminal reports whether no further transitions are accepted from s,
// except the explicit refund path out of COMPLETED.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusCancelled, OrderStatusCompleted, OrderStatusRefunded, OrderStatusExpired:
		return true
	}
	return false
}

// HoldsReservation reports whether an order in status s still owns the stock
// reserved at checkout. Cancelling such an order must release it.
func (s OrderStatus) HoldsReservation() bool {
	switch s {
	case OrderStatusPendingPayment, OrderStatusPaid, OrderStatusProcessing,
		OrderStatusInProduction, OrderStatusReadyToShip, OrderStatusShipped,
		OrderStatusDelivered:
		return true
	}
	return false
}

// ValidOrderStatus reports whether s is one of the known statuses.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPendingPayment, OrderStatusPaid, OrderStatusProcessing,
		OrderStatusInProduction, OrderStatusReadyToShip, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled,
		OrderStatusRefunded, OrderStatusExpired:
		return true
	}
	return false
}

// CanTransition enforces the hard gates of the order state machine:
//
//   - terminal states accept nothing, except COMPLETED -> REFUNDED
//   - EXPIRED is only reachable from PENDING_PAYMENT
//   - REFUNDED is only reachable from PAID or COMPLETED
//
// Edge pairs between the non-terminal forward states are intentionally not
// enumerated; callers (payment webhook, carrier webhook, admin) request only
// contextually valid targets.
func CanTransition(from, to OrderStatus) error {
	if from == to {
		return nil
	}
	if from.IsTerminal() {
		if from == OrderStatusCompleted && to == OrderStatusRefunded {
			return nil
		}
		return &InvalidTransitionError{From: from, To: to}
	}
	switch to {
	case OrderStatusExpired:
		if from != OrderStatusPendingPayment {
			return &InvalidTransitionError{From: from, To: to}
		}
	case OrderStatusRefunded:
		if from != OrderStatusPaid {
			return &InvalidTransitionError{From: from, To: to}
		}
	}
	return nil
}
