package repository

import "context"

// TxRepos bundles the repositories bound to one database transaction.
type TxRepos interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Payments() PaymentRepository
	Shipments() ShipmentRepository
	Inventory() InventoryRepository
	Variants() VariantRepository
	Addresses() AddressRepository
}

// TransactionManager runs fn inside a transaction; returning an error rolls
// every write back, including inventory reservations.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
