package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"gorm.io/gorm"

	"commerce-backend/internal/domain"
	"commerce-backend/internal/repository"
)

func newOrderServiceForTest(t *testing.T) (*OrderService, *gorm.DB, repository.CartRepository) {
	t.Helper()
	db := newTestDB(t)
	orders := repository.NewOrderRepository(db)
	carts := repository.NewCartRepository(db)
	products := repository.NewProductRepository(db)
	return NewOrderService(orders, carts, products), db, carts
}

func validAddress() domain.ShippingAddress {
	return domain.ShippingAddress{
		Address: "123 Main St",
		City:    "New York",
		State:   "NY",
		ZipCode: "10001",
		Country: "United States",
	}
}

// proposal builds a client order whose monetary fields match the server's own
// arithmetic for the given lines.
func proposal(items []OrderItemInput) CreateOrderInput {
	itemsPrice := 0.0
	for _, it := range items {
		itemsPrice += it.Price * float64(it.Quantity)
	}
	taxPrice := math.Round(itemsPrice*0.15*100) / 100
	shippingPrice := 10.0
	if itemsPrice > 100 {
		shippingPrice = 0
	}
	return CreateOrderInput{
		Items:           items,
		ShippingAddress: validAddress(),
		PaymentMethod:   domain.PaymentMethodCOD,
		ItemsPrice:      itemsPrice,
		TaxPrice:        taxPrice,
		ShippingPrice:   shippingPrice,
		TotalPrice:      math.Round((itemsPrice+taxPrice+shippingPrice)*100) / 100,
	}
}

func TestCreateOrderComputesPricesServerSide(t *testing.T) {
	svc, db, _ := newOrderServiceForTest(t)
	user := createTestUser(t, db, "buyer@example.com", domain.RoleCustomer)
	product := createTestProduct(t, db, "Widget", 10.00, true)
	fillCart(t, db, user.ID, map[uint]int{product.ID: 2})

	in := proposal([]OrderItemInput{{ProductID: product.ID, Name: product.Name, Quantity: 2, Price: product.Price}})
	order, err := svc.Create(context.Background(), user.ID, in)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.ItemsPrice != 20.00 || order.TaxPrice != 3.00 || order.ShippingPrice != 10.00 || order.TotalPrice != 33.00 {
		t.Fatalf("unexpected pricing: items=%v tax=%v shipping=%v total=%v",
			order.ItemsPrice, order.TaxPrice, order.ShippingPrice, order.TotalPrice)
	}
	if order.Status != domain.OrderStatusPending {
		t.Fatalf("expected pending status, got %q", order.Status)
	}
	if !strings.HasPrefix(order.OrderNumber, "ORD-") {
		t.Fatalf("unexpected order number %q", order.OrderNumber)
	}
	if len(order.Items) != 1 || order.Items[0].Name != "Widget" || order.Items[0].Price != 10.00 {
		t.Fatalf("expected server-reconstructed line, got %+v", order.Items)
	}
}

func TestCreateOrderShippingBoundary(t *testing.T) {
	cases := []struct {
		name         string
		price        float64
		quantity     int
		wantShipping float64
		wantTotal    float64
	}{
		{name: "exactly 100 still pays shipping", price: 50.00, quantity: 2, wantShipping: 10.00, wantTotal: 125.00},
		{name: "above 100 ships free", price: 60.00, quantity: 2, wantShipping: 0, wantTotal: 138.00},
		{name: "just below 100 pays shipping", price: 77.00, quantity: 1, wantShipping: 10.00, wantTotal: 98.55},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, db, _ := newOrderServiceForTest(t)
			user := createTestUser(t, db, "buyer@example.com", domain.RoleCustomer)
			product := createTestProduct(t, db, "Widget", tc.price, true)
			fillCart(t, db, user.ID, map[uint]int{product.ID: tc.quantity})

			in := proposal([]OrderItemInput{{ProductID: product.ID, Name: product.Name, Quantity: tc.quantity, Price: tc.price}})
			order, err := svc.Create(context.Background(), user.ID, in)
			if err != nil {
				t.Fatalf("create order: %v", err)
			}
			if order.ShippingPrice != tc.wantShipping {
				t.Fatalf("shipping=%v want %v", order.ShippingPrice, tc.wantShipping)
			}
			if order.TotalPrice != tc.wantTotal {
				t.Fatalf("total=%v want %v", order.TotalPrice, tc.wantTotal)
			}
		})
	}
}

func TestCreateOrderRejections(t *testing.T) {
	svc, db, _ := newOrderServiceForTest(t)
	user := createTestUser(t, db, "buyer@example.com", domain.RoleCustomer)
	inStock := createTestProduct(t, db, "InStock", 10.00, true)
	outOfStock := createTestProduct(t, db, "Gone", 5.00, false)
	notInCart := createTestProduct(t, db, "Elsewhere", 7.00, true)
	fillCart(t, db, user.ID, map[uint]int{inStock.ID: 2, outOfStock.ID: 1})

	line := func(p *domain.Product, qty int, price float64) OrderItemInput {
		return OrderItemInput{ProductID: p.ID, Name: p.Name, Quantity: qty, Price: price}
	}

	cases := []struct {
		name    string
		input   CreateOrderInput
		wantErr error
	}{
		{
			name:    "no items",
			input:   CreateOrderInput{PaymentMethod: domain.PaymentMethodCOD},
			wantErr: ErrEmptyOrder,
		},
		{
			name: "unsupported payment method",
			input: func() CreateOrderInput {
				in := proposal([]OrderItemInput{line(inStock, 1, 10.00)})
				in.PaymentMethod = "card"
				return in
			}(),
			wantErr: ErrUnsupportedPayment,
		},
		{
			name:    "unknown product fails whole order",
			input:   proposal([]OrderItemInput{line(inStock, 1, 10.00), {ProductID: 9999, Name: "Ghost", Quantity: 1, Price: 1.00}}),
			wantErr: ErrProductSetMismatch,
		},
		{
			name:    "product not in cart",
			input:   proposal([]OrderItemInput{line(notInCart, 1, 7.00)}),
			wantErr: ErrItemNotInCart,
		},
		{
			name:    "out of stock",
			input:   proposal([]OrderItemInput{line(outOfStock, 1, 5.00)}),
			wantErr: ErrOutOfStock,
		},
		{
			name:    "stale line price is rejected exactly",
			input:   proposal([]OrderItemInput{line(inStock, 1, 9.99)}),
			wantErr: ErrPriceMismatch,
		},
		{
			name:    "quantity above cart quantity",
			input:   proposal([]OrderItemInput{line(inStock, 3, 10.00)}),
			wantErr: ErrQuantityExceedsCart,
		},
		{
			name: "aggregate off by more than a cent",
			input: func() CreateOrderInput {
				in := proposal([]OrderItemInput{line(inStock, 2, 10.00)})
				in.TotalPrice += 0.02
				return in
			}(),
			wantErr: ErrPriceCalcMismatch,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), user.ID, tc.input)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCreateOrderRejectsCentShavedItemsPrice(t *testing.T) {
	svc, db, _ := newOrderServiceForTest(t)
	user := createTestUser(t, db, "buyer@example.com", domain.RoleCustomer)
	product := createTestProduct(t, db, "Widget", 50.00, true)
	fillCart(t, db, user.ID, map[uint]int{product.ID: 2})

	// 99.99 against a recomputed 100.00 lands just outside the cent tolerance.
	in := proposal([]OrderItemInput{{ProductID: product.ID, Name: product.Name, Quantity: 2, Price: 50.00}})
	in.ItemsPrice = 99.99
	if _, err := svc.Create(context.Background(), user.ID, in); !errors.Is(err, ErrPriceCalcMismatch) {
		t.Fatalf("expected ErrPriceCalcMismatch, got %v", err)
	}
}

func TestCreateOrderToleratesSubCentDrift(t *testing.T) {
	svc, db, _ := newOrderServiceForTest(t)
	user := createTestUser(t, db, "buyer@example.com", domain.RoleCustomer)
	product := createTestProduct(t, db, "Widget", 10.00, true)
	fillCart(t, db, user.ID, map[uint]int{product.ID: 2})

	in := proposal([]OrderItemInput{{ProductID: product.ID, Name: product.Name, Quantity: 2, Price: 10.00}})
	in.ItemsPrice += 0.005
	in.TotalPrice -= 0.009
	if _, err := svc.Create(context.Background(), user.ID, in); err != nil {
		t.Fatalf("sub-cent drift must pass tolerance: %v", err)
	}
}

func TestCreateOrderEmptyCart(t *testing.T) {
	svc, db, _ := newOrderServiceForTest(t)
	user := createTestUser(t, db, "buyer@example.com", domain.RoleCustomer)
	product := createTestProduct(t, db, "Widget", 10.00, true)

	in := proposal([]OrderItemInput{{ProductID: product.ID, Name: product.Name, Quantity: 1, Price: 10.00}})
	if _, err := svc.Create(context.Background(), user.ID, in); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCreateOrderLeavesCartIntact(t *testing.T) {
	svc, db, carts := newOrderServiceForTest(t)
	user := createTestUser(t, db, "buyer@example.com", domain.RoleCustomer)
	product := createTestProduct(t, db, "Widget", 10.00, true)
	fillCart(t, db, user.ID, map[uint]int{product.ID: 2})

	in := proposal([]OrderItemInput{{ProductID: product.ID, Name: product.Name, Quantity: 2, Price: 10.00}})
	if _, err := svc.Create(context.Background(), user.ID, in); err != nil {
		t.Fatalf("create order: %v", err)
	}
	cart, err := carts.FindByUser(user.ID)
	if err != nil {
		t.Fatalf("reload cart: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("cart must survive order creation, got %+v", cart.Items)
	}
}

func TestOrderOwnershipChecks(t *testing.T) {
	svc, db, _ := newOrderServiceForTest(t)
	owner := createTestUser(t, db, "owner@example.com", domain.RoleCustomer)
	other := createTestUser(t, db, "other@example.com", domain.RoleCustomer)
	admin := createTestUser(t, db, "admin@example.com", domain.RoleAdmin)
	product := createTestProduct(t, db, "Widget", 10.00, true)
	fillCart(t, db, owner.ID, map[uint]int{product.ID: 1})

	in := proposal([]OrderItemInput{{ProductID: product.ID, Name: product.Name, Quantity: 1, Price: 10.00}})
	order, err := svc.Create(context.Background(), owner.ID, in)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if _, err := svc.GetForUser(context.Background(), order.ID, owner); err != nil {
		t.Fatalf("owner must read own order: %v", err)
	}
	if _, err := svc.GetForUser(context.Background(), order.ID, admin); err != nil {
		t.Fatalf("admin must read any order: %v", err)
	}
	if _, err := svc.GetForUser(context.Background(), order.ID, other); !errors.Is(err, ErrNotOrderOwner) {
		t.Fatalf("expected ErrNotOrderOwner, got %v", err)
	}
}

func TestOrderLifecycle(t *testing.T) {
	svc, db, _ := newOrderServiceForTest(t)
	user := createTestUser(t, db, "buyer@example.com", domain.RoleCustomer)
	product := createTestProduct(t, db, "Widget", 10.00, true)
	fillCart(t, db, user.ID, map[uint]int{product.ID: 1})

	in := proposal([]OrderItemInput{{ProductID: product.ID, Name: product.Name, Quantity: 1, Price: 10.00}})
	order, err := svc.Create(context.Background(), user.ID, in)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	t.Run("refund before payment fails", func(t *testing.T) {
		if _, err := svc.Refund(context.Background(), order.ID, RefundInput{}); !errors.Is(err, ErrOrderNotPaid) {
			t.Fatalf("expected ErrOrderNotPaid, got %v", err)
		}
	})

	t.Run("pay moves to processing", func(t *testing.T) {
		paid, err := svc.MarkPaid(context.Background(), order.ID, domain.PaymentResult{TxID: "tx-1", Status: "completed"})
		if err != nil {
			t.Fatalf("mark paid: %v", err)
		}
		if !paid.IsPaid || paid.PaidAt == nil || paid.Status != domain.OrderStatusProcessing {
			t.Fatalf("unexpected paid state: %+v", paid)
		}
		if paid.PaymentResult == nil || paid.PaymentResult.TxID != "tx-1" {
			t.Fatalf("payment result not recorded: %+v", paid.PaymentResult)
		}
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		if _, err := svc.UpdateStatus(context.Background(), order.ID, "teleported"); !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("expected ErrInvalidStatus, got %v", err)
		}
	})

	t.Run("deliver sets delivery flags", func(t *testing.T) {
		delivered, err := svc.MarkDelivered(context.Background(), order.ID)
		if err != nil {
			t.Fatalf("mark delivered: %v", err)
		}
		if !delivered.IsDelivered || delivered.DeliveredAt == nil || delivered.Status != domain.OrderStatusDelivered {
			t.Fatalf("unexpected delivered state: %+v", delivered)
		}
	})

	t.Run("refund succeeds once then rejects", func(t *testing.T) {
		refunded, err := svc.Refund(context.Background(), order.ID, RefundInput{Reason: "damaged"})
		if err != nil {
			t.Fatalf("refund: %v", err)
		}
		if refunded.Status != domain.OrderStatusRefunded || refunded.RefundResult == nil {
			t.Fatalf("unexpected refund state: %+v", refunded)
		}
		if refunded.RefundResult.Amount != refunded.TotalPrice {
			t.Fatalf("default refund must cover the total, got %v", refunded.RefundResult.Amount)
		}
		if refunded.RefundResult.Reason != "damaged" {
			t.Fatalf("unexpected refund reason %q", refunded.RefundResult.Reason)
		}
		if _, err := svc.Refund(context.Background(), order.ID, RefundInput{}); !errors.Is(err, ErrOrderRefunded) {
			t.Fatalf("expected ErrOrderRefunded, got %v", err)
		}
	})
}

func TestUpdateStatusProcessingMarksUnpaidAsPaid(t *testing.T) {
	svc, db, _ := newOrderServiceForTest(t)
	user := createTestUser(t, db, "buyer@example.com", domain.RoleCustomer)
	product := createTestProduct(t, db, "Widget", 10.00, true)
	fillCart(t, db, user.ID, map[uint]int{product.ID: 1})

	in := proposal([]OrderItemInput{{ProductID: product.ID, Name: product.Name, Quantity: 1, Price: 10.00}})
	order, err := svc.Create(context.Background(), user.ID, in)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), order.ID, domain.OrderStatusProcessing)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if !updated.IsPaid || updated.PaidAt == nil {
		t.Fatalf("processing transition must record payment, got %+v", updated)
	}
}

func TestPartialRefundAmount(t *testing.T) {
	svc, db, _ := newOrderServiceForTest(t)
	user := createTestUser(t, db, "buyer@example.com", domain.RoleCustomer)
	product := createTestProduct(t, db, "Widget", 10.00, true)
	fillCart(t, db, user.ID, map[uint]int{product.ID: 1})

	in := proposal([]OrderItemInput{{ProductID: product.ID, Name: product.Name, Quantity: 1, Price: 10.00}})
	order, err := svc.Create(context.Background(), user.ID, in)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if _, err := svc.MarkPaid(context.Background(), order.ID, domain.PaymentResult{TxID: "tx"}); err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	amount := 5.00
	refunded, err := svc.Refund(context.Background(), order.ID, RefundInput{Amount: &amount})
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if refunded.RefundResult.Amount != 5.00 {
		t.Fatalf("expected partial amount 5.00, got %v", refunded.RefundResult.Amount)
	}
	if refunded.RefundResult.Reason != "requested_by_customer" {
		t.Fatalf("expected default reason, got %q", refunded.RefundResult.Reason)
	}
}
