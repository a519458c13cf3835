package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type CheckoutUsecase struct {
	tx        repo.TransactionManager
	addresses repo.AddressRepository
	inventory repo.InventoryRepository
	variants  repo.VariantRepository
}

func NewCheckoutUsecase(tx repo.TransactionManager, addresses repo.AddressRepository, inventory repo.InventoryRepository, variants repo.VariantRepository) *CheckoutUsecase {
	return &CheckoutUsecase{tx: tx, addresses: addresses, inventory: inventory, variants: variants}
}

type CheckoutItemInput struct {
	VariantID int64 `json:"variant_id"`
	Quantity  int64 `json:"quantity"`
}

// InlineAddressInput is a one-off delivery address supplied in the checkout
// request instead of a saved address id. Save stores it for later reuse.
type InlineAddressInput struct {
	Label         string `json:"label"`
	ReceiverName  string `json:"receiver_name"`
	ReceiverPhone string `json:"receiver_phone"`
	Line1         string `json:"line1"`
	Line2         string `json:"line2"`
	City          string `json:"city"`
	Province      string `json:"province"`
	PostalCode    string `json:"postal_code"`
	Save          bool   `json:"save"`
}

type CheckoutInput struct {
	Items              []CheckoutItemInput `json:"items"`
	AddressID          *int64              `json:"address_id"`
	Address            *InlineAddressInput `json:"address"`
	Type               model.OrderType     `json:"type"`
	ShippingCost       int64               `json:"shipping_cost"`
	CourierCode        string              `json:"courier_code"`
	CourierServiceCode string              `json:"courier_service_code"`
	Note               string              `json:"note"`
}

// PlaceOrder validates the cart, reserves stock for every line, snapshots
// prices and the receiver address, and persists the order in PENDING_PAYMENT.
// All of it happens in one transaction: the first line that cannot be
// reserved aborts the checkout and rolls back every reservation already made.
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, userID int64, in CheckoutInput) (OrderDetailOutput, error) {
	if userID <= 0 {
		return OrderDetailOutput{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if len(in.Items) == 0 {
		return OrderDetailOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "items must not be empty")
	}
	for i, it := range in.Items {
		if it.VariantID <= 0 || it.Quantity <= 0 {
			return OrderDetailOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation,
				fmt.Sprintf("items[%d]: variant_id and quantity must be positive", i))
		}
	}
	if in.Type != model.OrderTypeReady && in.Type != model.OrderTypePO {
		return OrderDetailOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid order type")
	}
	if in.ShippingCost < 0 {
		return OrderDetailOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "shipping_cost must not be negative")
	}
	if (in.AddressID == nil) == (in.Address == nil) {
		return OrderDetailOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "exactly one of address_id or address is required")
	}

	addr, err := u.resolveAddress(ctx, userID, in)
	if err != nil {
		return OrderDetailOutput{}, err
	}

	// Advisory availability pass before opening the transaction; the
	// authoritative check is the conditional decrement inside it.
	for _, line := range in.Items {
		ok, err := u.inventory.Available(ctx, line.VariantID, line.Quantity)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return OrderDetailOutput{}, NewHTTPError(http.StatusNotFound, CodeNotFound,
					fmt.Sprintf("variant %d not found", line.VariantID))
			}
			return OrderDetailOutput{}, err
		}
		if !ok {
			msg := fmt.Sprintf("insufficient stock for variant %d", line.VariantID)
			if v, err := u.variants.FindByID(ctx, line.VariantID); err == nil && v.Product != nil {
				msg = fmt.Sprintf("insufficient stock for %s (%s)", v.Product.Name, v.SKU)
			}
			return OrderDetailOutput{}, NewHTTPError(http.StatusConflict, CodeInsufficientStock, msg)
		}
	}

	var out OrderDetailOutput
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		now := time.Now()

		items := make([]model.OrderItem, 0, len(in.Items))
		var subtotal int64
		for _, line := range in.Items {
			v, err := r.Variants().FindByID(ctx, line.VariantID)
			if err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return NewHTTPError(http.StatusNotFound, CodeNotFound,
						fmt.Sprintf("variant %d not found", line.VariantID))
				}
				return err
			}
			if v.Product == nil || v.Product.Status == model.ProductStatusDiscontinued {
				return NewHTTPError(http.StatusBadRequest, CodeValidation,
					fmt.Sprintf("product for SKU %s is no longer sold", v.SKU))
			}

			reserved, err := r.Inventory().Reserve(ctx, v.ID, line.Quantity)
			if err != nil {
				return err
			}
			if !reserved {
				return NewHTTPError(http.StatusConflict, CodeInsufficientStock,
					fmt.Sprintf("insufficient stock for %s (%s)", v.Product.Name, v.SKU))
			}

			unit := EffectiveUnitPrice(v)
			item := model.OrderItem{
				ProductID:           v.ProductID,
				VariantID:           v.ID,
				ProductNameSnapshot: v.Product.Name,
				SKUSnapshot:         v.SKU,
				SizeSnapshot:        v.Size,
				ColorSnapshot:       v.Color,
				UnitPriceSnapshot:   unit,
				Quantity:            line.Quantity,
				Subtotal:            LineSubtotal(unit, line.Quantity),
			}
			subtotal += item.Subtotal
			items = append(items, item)
		}

		number, err := u.nextOrderNumber(ctx, r, now)
		if err != nil {
			return err
		}

		order := model.Order{
			OrderNumber:        number,
			UserID:             userID,
			Type:               in.Type,
			Status:             model.OrderStatusPendingPayment,
			Subtotal:           subtotal,
			ShippingCost:       in.ShippingCost,
			Total:              OrderTotal(subtotal, in.ShippingCost),
			Note:               strings.TrimSpace(in.Note),
			ReceiverName:       addr.ReceiverName,
			ReceiverPhone:      addr.ReceiverPhone,
			AddressLine1:       addr.Line1,
			AddressLine2:       addr.Line2,
			City:               addr.City,
			Province:           addr.Province,
			PostalCode:         addr.PostalCode,
			CourierCode:        in.CourierCode,
			CourierServiceCode: in.CourierServiceCode,
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return NewHTTPError(http.StatusConflict, CodeConflict, "order number collision, retry checkout")
			}
			return err
		}
		if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
			return err
		}

		if in.Address != nil && in.Address.Save {
			saved := model.Address{
				UserID:        userID,
				Label:         in.Address.Label,
				ReceiverName:  addr.ReceiverName,
				ReceiverPhone: addr.ReceiverPhone,
				Line1:         addr.Line1,
				Line2:         addr.Line2,
				City:          addr.City,
				Province:      addr.Province,
				PostalCode:    addr.PostalCode,
				IsActive:      true,
			}
			if _, err := r.Addresses().Create(ctx, saved); err != nil {
				return err
			}
		}

		order.ID = orderID
		for i := range items {
			items[i].OrderID = orderID
		}
		out = buildOrderDetail(order, items, nil, nil)
		return nil
	})
	if err != nil {
		return OrderDetailOutput{}, err
	}
	return out, nil
}

func (u *CheckoutUsecase) resolveAddress(ctx context.Context, userID int64, in CheckoutInput) (model.Address, error) {
	if in.AddressID != nil {
		addr, err := u.addresses.FindByID(ctx, *in.AddressID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return model.Address{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "address not found")
			}
			return model.Address{}, err
		}
		if addr.UserID != userID {
			return model.Address{}, NewHTTPError(http.StatusForbidden, CodeForbidden, "address belongs to another user")
		}
		if !addr.IsActive {
			return model.Address{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "address is inactive")
		}
		return addr, nil
	}

	a := in.Address
	if strings.TrimSpace(a.ReceiverName) == "" || strings.TrimSpace(a.ReceiverPhone) == "" ||
		strings.TrimSpace(a.Line1) == "" || strings.TrimSpace(a.City) == "" ||
		strings.TrimSpace(a.Province) == "" || strings.TrimSpace(a.PostalCode) == "" {
		return model.Address{}, NewHTTPError(http.StatusBadRequest, CodeValidation,
			"address requires receiver_name, receiver_phone, line1, city, province, postal_code")
	}
	return model.Address{
		UserID:        userID,
		ReceiverName:  strings.TrimSpace(a.ReceiverName),
		ReceiverPhone: strings.TrimSpace(a.ReceiverPhone),
		Line1:         strings.TrimSpace(a.Line1),
		Line2:         strings.TrimSpace(a.Line2),
		City:          strings.TrimSpace(a.City),
		Province:      strings.TrimSpace(a.Province),
		PostalCode:    strings.TrimSpace(a.PostalCode),
	}, nil
}

// nextOrderNumber builds ORD-YYYYMMDD-NNNNN where NNNNN is one past the count
// of today's orders. A concurrent checkout may grab the same sequence; the
// unique index on order_number turns that into a retriable conflict.
func (u *CheckoutUsecase) nextOrderNumber(ctx context.Context, r repo.TxRepos, now time.Time) (string, error) {
	prefix := "ORD-" + now.Format("20060102") + "-"
	n, err := r.Orders().CountByNumberPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%05d", prefix, n+1), nil
}
