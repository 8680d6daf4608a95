package trading

import (
	"math/rand"
	"testing"

	apperrors "github.com/CHIBOLAR/Options-chain-prototype/internal/errors"
	"github.com/CHIBOLAR/Options-chain-prototype/internal/models"
)

func newTestBook(fill float64) *OrderBook {
	return NewOrderBook(fill, rand.New(rand.NewSource(1)))
}

func TestOrderIDsAreSequential(t *testing.T) {
	ob := newTestBook(1)

	first, err := ob.Create("NIFTY", 21400, models.OptionCall, models.OrderSideBuy, 1, 150, models.OrderTypeMarket)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	second, _ := ob.Create("NIFTY", 21500, models.OptionCall, models.OrderSideBuy, 1, 110, models.OrderTypeMarket)

	if first.OrderID != "ORD1000" {
		t.Errorf("first OrderID = %s, want ORD1000", first.OrderID)
	}
	if second.OrderID != "ORD1001" {
		t.Errorf("second OrderID = %s, want ORD1001", second.OrderID)
	}
	if first.Status != models.OrderPending {
		t.Errorf("new order status = %s, want PENDING", first.Status)
	}
}

func TestResolveAlwaysFills(t *testing.T) {
	ob := newTestBook(1)
	order, _ := ob.Create("NIFTY", 21400, models.OptionCall, models.OrderSideBuy, 1, 150, models.OrderTypeMarket)

	resolved, err := ob.Resolve(order.OrderID)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if resolved.Status != models.OrderExecuted {
		t.Errorf("status = %s, want EXECUTED at p=1", resolved.Status)
	}
}

func TestResolveAlwaysRejectsAtZero(t *testing.T) {
	ob := newTestBook(0)
	order, _ := ob.Create("NIFTY", 21400, models.OptionCall, models.OrderSideBuy, 1, 150, models.OrderTypeMarket)

	resolved, _ := ob.Resolve(order.OrderID)
	if resolved.Status != models.OrderRejected {
		t.Errorf("status = %s, want REJECTED at p=0", resolved.Status)
	}
}

func TestTerminalOrdersAreImmutable(t *testing.T) {
	ob := newTestBook(1)
	order, _ := ob.Create("NIFTY", 21400, models.OptionCall, models.OrderSideBuy, 1, 150, models.OrderTypeMarket)

	ob.Resolve(order.OrderID)

	// Resolving again must not re-roll the outcome.
	again, err := ob.Resolve(order.OrderID)
	if err != nil {
		t.Fatalf("second Resolve error: %v", err)
	}
	if again.Status != models.OrderExecuted {
		t.Errorf("status = %s after second Resolve, want EXECUTED", again.Status)
	}

	// And cancellation must fail.
	if _, err := ob.Cancel(order.OrderID); !apperrors.Is(err, apperrors.ErrOrderNotCancellable) {
		t.Errorf("Cancel error = %v, want ErrOrderNotCancellable", err)
	}
}

func TestCancelPending(t *testing.T) {
	ob := newTestBook(1)
	order, _ := ob.Create("NIFTY", 21400, models.OptionCall, models.OrderSideBuy, 1, 150, models.OrderTypeMarket)

	cancelled, err := ob.Cancel(order.OrderID)
	if err != nil {
		t.Fatalf("Cancel error: %v", err)
	}
	if cancelled.Status != models.OrderCancelled {
		t.Errorf("status = %s, want CANCELLED", cancelled.Status)
	}

	// A cancelled order stays cancelled through Resolve.
	resolved, _ := ob.Resolve(order.OrderID)
	if resolved.Status != models.OrderCancelled {
		t.Errorf("status = %s after Resolve, want CANCELLED", resolved.Status)
	}
}

func TestCancelUnknownOrder(t *testing.T) {
	ob := newTestBook(1)
	if _, err := ob.Cancel("ORD9999"); !apperrors.Is(err, apperrors.ErrOrderNotFound) {
		t.Errorf("Cancel error = %v, want ErrOrderNotFound", err)
	}
}

func TestCreateValidation(t *testing.T) {
	ob := newTestBook(1)

	if _, err := ob.Create("NIFTY", 21400, models.OptionCall, models.OrderSideBuy, 0, 150, models.OrderTypeMarket); err == nil {
		t.Error("zero quantity accepted")
	}
	if _, err := ob.Create("NIFTY", 21400, models.OptionCall, models.OrderSideBuy, 1, 0, models.OrderTypeMarket); err == nil {
		t.Error("zero price accepted")
	}
}

func TestListPreservesPlacementOrder(t *testing.T) {
	ob := newTestBook(1)
	for i := 0; i < 5; i++ {
		ob.Create("NIFTY", 21000+float64(i)*100, models.OptionCall, models.OrderSideBuy, 1, 150, models.OrderTypeMarket)
	}
	ob.Resolve("ORD1002")

	orders := ob.List()
	if len(orders) != 5 {
		t.Fatalf("len(List) = %d, want 5", len(orders))
	}
	for i, o := range orders {
		if o.Strike != 21000+float64(i)*100 {
			t.Fatalf("orders out of placement order: %+v", orders)
		}
	}

	pending := ob.Pending()
	if len(pending) != 4 {
		t.Errorf("len(Pending) = %d, want 4", len(pending))
	}
}

func TestRecordAssignsIDAndKeepsStatus(t *testing.T) {
	ob := newTestBook(1)
	recorded := ob.Record(models.Order{
		Symbol:     "NIFTY",
		Strike:     21400,
		OptionType: models.OptionCall,
		Action:     models.OrderSideSell,
		Quantity:   1,
		Price:      180,
		OrderType:  models.OrderTypeMarket,
		Status:     models.OrderExecuted,
	})

	if recorded.OrderID != "ORD1000" {
		t.Errorf("OrderID = %s, want ORD1000", recorded.OrderID)
	}
	if recorded.Status != models.OrderExecuted {
		t.Errorf("Status = %s, want EXECUTED", recorded.Status)
	}
	if recorded.PlacedAt.IsZero() {
		t.Error("PlacedAt not stamped")
	}
}
