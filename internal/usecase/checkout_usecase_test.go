package usecase

import (
	"context"
	"strings"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCheckoutFixture() (*CheckoutUsecase, *TxManagerMock, *OrderRepoMock, *OrderItemRepoMock, *InventoryRepoMock, *VariantRepoMock, *AddressRepoMock) {
	orders := &OrderRepoMock{}
	orderItems := &OrderItemRepoMock{}
	inventory := &InventoryRepoMock{}
	variants := &VariantRepoMock{}
	addresses := &AddressRepoMock{}

	txm := &TxManagerMock{Repos: &TxReposMock{
		orders:     orders,
		orderItems: orderItems,
		inventory:  inventory,
		variants:   variants,
		addresses:  addresses,
	}}
	txm.On("WithinTx", mock.Anything).Return(nil).Maybe()

	uc := NewCheckoutUsecase(txm, addresses, inventory, variants)
	return uc, txm, orders, orderItems, inventory, variants, addresses
}

func savedAddress(userID int64) model.Address {
	return model.Address{
		ID:            7,
		UserID:        userID,
		ReceiverName:  "Siti Rahma",
		ReceiverPhone: "081234567890",
		Line1:         "Jl. Melati No. 5",
		City:          "Bandung",
		Province:      "Jawa Barat",
		PostalCode:    "40111",
		IsActive:      true,
	}
}

func readyVariant(id int64, stock int64) model.ProductVariant {
	return model.ProductVariant{
		ID:        id,
		ProductID: 1,
		SKU:       "TUNIC-M-NAVY",
		Size:      "M",
		Color:     "Navy",
		Stock:     stock,
		IsActive:  true,
		Product:   &model.Product{ID: 1, Name: "Tunic Aisha", BasePrice: 150000, Status: model.ProductStatusReady},
	}
}

func TestPlaceOrder_Success(t *testing.T) {
	uc, _, orders, orderItems, inventory, variants, addresses := newCheckoutFixture()
	ctx := context.Background()

	addrID := int64(7)
	addresses.On("FindByID", mock.Anything, addrID).Return(savedAddress(42), nil)
	inventory.On("Available", mock.Anything, int64(10), int64(2)).Return(true, nil)
	variants.On("FindByID", mock.Anything, int64(10)).Return(readyVariant(10, 5), nil)
	inventory.On("Reserve", mock.Anything, int64(10), int64(2)).Return(true, nil)
	orders.On("CountByNumberPrefix", mock.Anything, mock.Anything).Return(int64(3), nil)
	orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.Status == model.OrderStatusPendingPayment &&
			o.Subtotal == 300000 &&
			o.ShippingCost == 15000 &&
			o.Total == 315000 &&
			o.ReceiverName == "Siti Rahma" &&
			strings.HasPrefix(o.OrderNumber, "ORD-") &&
			strings.HasSuffix(o.OrderNumber, "-00004")
	})).Return(int64(100), nil)
	orderItems.On("CreateBulk", mock.Anything, int64(100), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 1 &&
			items[0].UnitPriceSnapshot == 150000 &&
			items[0].Quantity == 2 &&
			items[0].Subtotal == 300000 &&
			items[0].SKUSnapshot == "TUNIC-M-NAVY"
	})).Return(nil)

	out, err := uc.PlaceOrder(ctx, 42, CheckoutInput{
		Items:        []CheckoutItemInput{{VariantID: 10, Quantity: 2}},
		AddressID:    &addrID,
		Type:         model.OrderTypeReady,
		ShippingCost: 15000,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(100), out.ID)
	assert.Equal(t, string(model.OrderStatusPendingPayment), out.Status)
	assert.Equal(t, int64(315000), out.Total)
	assert.Len(t, out.Items, 1)
	orders.AssertExpectations(t)
	orderItems.AssertExpectations(t)
	inventory.AssertExpectations(t)
}

func TestPlaceOrder_InsufficientStockAbortsCheckout(t *testing.T) {
	uc, _, orders, orderItems, inventory, variants, addresses := newCheckoutFixture()
	ctx := context.Background()

	addrID := int64(7)
	addresses.On("FindByID", mock.Anything, addrID).Return(savedAddress(42), nil)

	first := readyVariant(10, 5)
	second := readyVariant(11, 0)
	second.SKU = "TUNIC-L-NAVY"
	variants.On("FindByID", mock.Anything, int64(10)).Return(first, nil)
	variants.On("FindByID", mock.Anything, int64(11)).Return(second, nil)
	// The advisory read can say yes and still lose to a concurrent checkout;
	// only the conditional decrement decides.
	inventory.On("Available", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	inventory.On("Reserve", mock.Anything, int64(10), int64(1)).Return(true, nil)
	inventory.On("Reserve", mock.Anything, int64(11), int64(3)).Return(false, nil)

	_, err := uc.PlaceOrder(ctx, 42, CheckoutInput{
		Items: []CheckoutItemInput{
			{VariantID: 10, Quantity: 1},
			{VariantID: 11, Quantity: 3},
		},
		AddressID: &addrID,
		Type:      model.OrderTypeReady,
	})

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 409, he.Status)
	assert.Equal(t, CodeInsufficientStock, he.Code)
	assert.Contains(t, he.Message, "TUNIC-L-NAVY")

	// The transaction callback returned an error, so no order was written.
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	orderItems.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaceOrder_AdvisoryCheckRejectsBeforeTransaction(t *testing.T) {
	uc, txm, _, _, inventory, variants, addresses := newCheckoutFixture()

	addrID := int64(7)
	addresses.On("FindByID", mock.Anything, addrID).Return(savedAddress(42), nil)
	inventory.On("Available", mock.Anything, int64(10), int64(4)).Return(false, nil)
	variants.On("FindByID", mock.Anything, int64(10)).Return(readyVariant(10, 2), nil)

	_, err := uc.PlaceOrder(context.Background(), 42, CheckoutInput{
		Items:     []CheckoutItemInput{{VariantID: 10, Quantity: 4}},
		AddressID: &addrID,
		Type:      model.OrderTypeReady,
	})

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 409, he.Status)
	assert.Equal(t, CodeInsufficientStock, he.Code)
	assert.Contains(t, he.Message, "Tunic Aisha")
	assert.Contains(t, he.Message, "TUNIC-M-NAVY")
	txm.AssertNotCalled(t, "WithinTx", mock.Anything)
	inventory.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaceOrder_RejectsForeignAddress(t *testing.T) {
	uc, _, _, _, _, _, addresses := newCheckoutFixture()

	addrID := int64(7)
	addresses.On("FindByID", mock.Anything, addrID).Return(savedAddress(99), nil)

	_, err := uc.PlaceOrder(context.Background(), 42, CheckoutInput{
		Items:     []CheckoutItemInput{{VariantID: 10, Quantity: 1}},
		AddressID: &addrID,
		Type:      model.OrderTypeReady,
	})

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 403, he.Status)
}

func TestPlaceOrder_UnknownAddress(t *testing.T) {
	uc, _, _, _, _, _, addresses := newCheckoutFixture()

	addrID := int64(999)
	addresses.On("FindByID", mock.Anything, addrID).Return(model.Address{}, repo.ErrNotFound)

	_, err := uc.PlaceOrder(context.Background(), 42, CheckoutInput{
		Items:     []CheckoutItemInput{{VariantID: 10, Quantity: 1}},
		AddressID: &addrID,
		Type:      model.OrderTypeReady,
	})

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)
}

func TestPlaceOrder_Validation(t *testing.T) {
	uc, _, _, _, _, _, _ := newCheckoutFixture()
	ctx := context.Background()
	addrID := int64(7)

	cases := []struct {
		name string
		in   CheckoutInput
	}{
		{"empty items", CheckoutInput{AddressID: &addrID, Type: model.OrderTypeReady}},
		{"zero quantity", CheckoutInput{Items: []CheckoutItemInput{{VariantID: 10, Quantity: 0}}, AddressID: &addrID, Type: model.OrderTypeReady}},
		{"negative shipping", CheckoutInput{Items: []CheckoutItemInput{{VariantID: 10, Quantity: 1}}, AddressID: &addrID, Type: model.OrderTypeReady, ShippingCost: -1}},
		{"bad order type", CheckoutInput{Items: []CheckoutItemInput{{VariantID: 10, Quantity: 1}}, AddressID: &addrID, Type: "WHOLESALE"}},
		{"no address at all", CheckoutInput{Items: []CheckoutItemInput{{VariantID: 10, Quantity: 1}}, Type: model.OrderTypeReady}},
		{"both address forms", CheckoutInput{
			Items: []CheckoutItemInput{{VariantID: 10, Quantity: 1}}, Type: model.OrderTypeReady,
			AddressID: &addrID, Address: &InlineAddressInput{ReceiverName: "A"},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.PlaceOrder(ctx, 42, tc.in)
			he, ok := AsHTTPError(err)
			assert.True(t, ok)
			assert.Equal(t, 400, he.Status)
			assert.Equal(t, CodeValidation, he.Code)
		})
	}
}

func TestPlaceOrder_InlineAddressSaved(t *testing.T) {
	uc, _, orders, orderItems, inventory, variants, addresses := newCheckoutFixture()
	ctx := context.Background()

	inventory.On("Available", mock.Anything, int64(10), int64(1)).Return(true, nil)
	variants.On("FindByID", mock.Anything, int64(10)).Return(readyVariant(10, 5), nil)
	inventory.On("Reserve", mock.Anything, int64(10), int64(1)).Return(true, nil)
	orders.On("CountByNumberPrefix", mock.Anything, mock.Anything).Return(int64(0), nil)
	orders.On("Create", mock.Anything, mock.Anything).Return(int64(101), nil)
	orderItems.On("CreateBulk", mock.Anything, int64(101), mock.Anything).Return(nil)
	addresses.On("Create", mock.Anything, mock.MatchedBy(func(a model.Address) bool {
		return a.UserID == 42 && a.ReceiverName == "Dewi" && a.IsActive
	})).Return(int64(8), nil)

	_, err := uc.PlaceOrder(ctx, 42, CheckoutInput{
		Items: []CheckoutItemInput{{VariantID: 10, Quantity: 1}},
		Address: &InlineAddressInput{
			ReceiverName:  "Dewi",
			ReceiverPhone: "0811111111",
			Line1:         "Jl. Anggrek 1",
			City:          "Jakarta Selatan",
			Province:      "DKI Jakarta",
			PostalCode:    "12110",
			Save:          true,
		},
		Type: model.OrderTypeReady,
	})

	assert.NoError(t, err)
	addresses.AssertExpectations(t)
}
