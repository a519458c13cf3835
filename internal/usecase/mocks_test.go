package usecase

import (
	"context"
	"time"

	"app/internal/domain/model"
	"app/internal/infra/biteship"
	"app/internal/infra/midtrans"
	repo "app/internal/repository"

	"github.com/stretchr/testify/mock"
)

// TxManagerMock runs fn against a fixed repo set without a real transaction.
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	payments   repo.PaymentRepository
	shipments  repo.ShipmentRepository
	inventory  repo.InventoryRepository
	variants   repo.VariantRepository
	addresses  repo.AddressRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository         { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *TxReposMock) Payments() repo.PaymentRepository     { return r.payments }
func (r *TxReposMock) Shipments() repo.ShipmentRepository   { return r.shipments }
func (r *TxReposMock) Inventory() repo.InventoryRepository  { return r.inventory }
func (r *TxReposMock) Variants() repo.VariantRepository     { return r.variants }
func (r *TxReposMock) Addresses() repo.AddressRepository    { return r.addresses }

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatusFrom(ctx context.Context, orderID int64, from, to model.OrderStatus) (bool, error) {
	args := m.Called(ctx, orderID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *OrderRepoMock) SetTimestamps(ctx context.Context, orderID int64, paidAt, shippedAt, completedAt, cancelledAt *time.Time) error {
	args := m.Called(ctx, orderID, paidAt, shippedAt, completedAt, cancelledAt)
	return args.Error(0)
}

func (m *OrderRepoMock) CountByNumberPrefix(ctx context.Context, prefix string) (int64, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type PaymentRepoMock struct{ mock.Mock }

func (m *PaymentRepoMock) Create(ctx context.Context, payment model.Payment) (int64, error) {
	args := m.Called(ctx, payment)
	return args.Get(0).(int64), args.Error(1)
}

func (m *PaymentRepoMock) Update(ctx context.Context, payment model.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *PaymentRepoMock) FindByTransactionID(ctx context.Context, transactionID string) (model.Payment, error) {
	args := m.Called(ctx, transactionID)
	p, _ := args.Get(0).(model.Payment)
	return p, args.Error(1)
}

func (m *PaymentRepoMock) FindPendingByOrderID(ctx context.Context, orderID int64) (model.Payment, error) {
	args := m.Called(ctx, orderID)
	p, _ := args.Get(0).(model.Payment)
	return p, args.Error(1)
}

func (m *PaymentRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.Payment, error) {
	args := m.Called(ctx, orderID)
	payments, _ := args.Get(0).([]model.Payment)
	return payments, args.Error(1)
}

type ShipmentRepoMock struct{ mock.Mock }

func (m *ShipmentRepoMock) Create(ctx context.Context, shipment model.Shipment) (int64, error) {
	args := m.Called(ctx, shipment)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ShipmentRepoMock) Update(ctx context.Context, shipment model.Shipment) error {
	args := m.Called(ctx, shipment)
	return args.Error(0)
}

func (m *ShipmentRepoMock) FindByOrderID(ctx context.Context, orderID int64) (model.Shipment, error) {
	args := m.Called(ctx, orderID)
	s, _ := args.Get(0).(model.Shipment)
	return s, args.Error(1)
}

func (m *ShipmentRepoMock) FindByCarrierOrderID(ctx context.Context, carrierOrderID string) (model.Shipment, error) {
	args := m.Called(ctx, carrierOrderID)
	s, _ := args.Get(0).(model.Shipment)
	return s, args.Error(1)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) Reserve(ctx context.Context, variantID, qty int64) (bool, error) {
	args := m.Called(ctx, variantID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) Release(ctx context.Context, variantID, qty int64) error {
	args := m.Called(ctx, variantID, qty)
	return args.Error(0)
}

func (m *InventoryRepoMock) Available(ctx context.Context, variantID, qty int64) (bool, error) {
	args := m.Called(ctx, variantID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

type VariantRepoMock struct{ mock.Mock }

func (m *VariantRepoMock) FindByID(ctx context.Context, variantID int64) (model.ProductVariant, error) {
	args := m.Called(ctx, variantID)
	v, _ := args.Get(0).(model.ProductVariant)
	return v, args.Error(1)
}

type AddressRepoMock struct{ mock.Mock }

func (m *AddressRepoMock) FindByID(ctx context.Context, addressID int64) (model.Address, error) {
	args := m.Called(ctx, addressID)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddressRepoMock) Create(ctx context.Context, address model.Address) (int64, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(int64), args.Error(1)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) CreateTransaction(ctx context.Context, req midtrans.SnapRequest) (midtrans.SnapResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(midtrans.SnapResponse)
	return res, args.Error(1)
}

type CarrierMock struct{ mock.Mock }

func (m *CarrierMock) CreateOrder(ctx context.Context, req biteship.OrderRequest) (biteship.OrderResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(biteship.OrderResponse)
	return res, args.Error(1)
}

type ShipmentCreatorMock struct{ mock.Mock }

func (m *ShipmentCreatorMock) CreateForOrder(ctx context.Context, orderID int64) (ShipmentOutput, error) {
	args := m.Called(ctx, orderID)
	out, _ := args.Get(0).(ShipmentOutput)
	return out, args.Error(1)
}
