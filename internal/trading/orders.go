package trading

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	apperrors "github.com/CHIBOLAR/Options-chain-prototype/internal/errors"
	"github.com/CHIBOLAR/Options-chain-prototype/internal/models"
)

// orderIDBase is the starting value of the order counter.
const orderIDBase = 1000

// OrderBook owns the order state machine. Orders enter PENDING and move
// to exactly one terminal state; terminal orders never change again.
type OrderBook struct {
	mu              sync.RWMutex
	orders          map[string]*models.Order
	sequence        []string
	counter         int64
	fillProbability float64
	rng             *rand.Rand
}

// NewOrderBook creates an order book with the given fill probability.
// A nil rng falls back to a time-seeded source.
func NewOrderBook(fillProbability float64, rng *rand.Rand) *OrderBook {
	if fillProbability < 0 {
		fillProbability = 0
	}
	if fillProbability > 1 {
		fillProbability = 1
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &OrderBook{
		orders:          make(map[string]*models.Order),
		counter:         orderIDBase,
		fillProbability: fillProbability,
		rng:             rng,
	}
}

// Create registers a new PENDING order and returns a copy of it.
func (ob *OrderBook) Create(symbol string, strike float64, optType models.OptionType, action models.OrderSide, quantity int, price float64, orderType models.OrderType) (models.Order, error) {
	if quantity <= 0 {
		return models.Order{}, apperrors.NewValidationError("quantity", quantity, "must be positive")
	}
	if price <= 0 {
		return models.Order{}, apperrors.NewValidationError("price", price, "must be positive")
	}
	if orderType == "" {
		orderType = models.OrderTypeMarket
	}

	ob.mu.Lock()
	defer ob.mu.Unlock()

	order := &models.Order{
		OrderID:    fmt.Sprintf("ORD%d", ob.counter),
		Symbol:     symbol,
		Strike:     strike,
		OptionType: optType,
		Action:     action,
		Quantity:   quantity,
		Price:      price,
		OrderType:  orderType,
		Status:     models.OrderPending,
		PlacedAt:   time.Now(),
	}
	ob.counter++
	ob.orders[order.OrderID] = order
	ob.sequence = append(ob.sequence, order.OrderID)
	return *order, nil
}

// Resolve rolls the fill die on a PENDING order and moves it to EXECUTED
// or REJECTED. Resolving a terminal order is a no-op returning its
// current state.
func (ob *OrderBook) Resolve(orderID string) (models.Order, error) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	order, ok := ob.orders[orderID]
	if !ok {
		return models.Order{}, apperrors.ErrOrderNotFound
	}
	if order.Status.Terminal() {
		return *order, nil
	}

	if ob.rng.Float64() < ob.fillProbability {
		order.Status = models.OrderExecuted
	} else {
		order.Status = models.OrderRejected
	}
	return *order, nil
}

// Cancel moves a PENDING order to CANCELLED. Terminal orders cannot be
// cancelled.
func (ob *OrderBook) Cancel(orderID string) (models.Order, error) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	order, ok := ob.orders[orderID]
	if !ok {
		return models.Order{}, apperrors.ErrOrderNotFound
	}
	if order.Status.Terminal() {
		return *order, apperrors.NewOrderError(orderID, order.Symbol, string(order.Action),
			fmt.Sprintf("order is %s", order.Status), apperrors.ErrOrderNotCancellable)
	}
	order.Status = models.OrderCancelled
	return *order, nil
}

// Record registers an already-terminal order, used for the synthetic
// closing order a square-off produces.
func (ob *OrderBook) Record(order models.Order) models.Order {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	order.OrderID = fmt.Sprintf("ORD%d", ob.counter)
	ob.counter++
	if order.PlacedAt.IsZero() {
		order.PlacedAt = time.Now()
	}
	stored := order
	ob.orders[stored.OrderID] = &stored
	ob.sequence = append(ob.sequence, stored.OrderID)
	return stored
}

// Get returns a copy of the order with the given ID.
func (ob *OrderBook) Get(orderID string) (models.Order, error) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	order, ok := ob.orders[orderID]
	if !ok {
		return models.Order{}, apperrors.ErrOrderNotFound
	}
	return *order, nil
}

// List returns copies of all orders in placement order.
func (ob *OrderBook) List() []models.Order {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	orders := make([]models.Order, 0, len(ob.sequence))
	for _, id := range ob.sequence {
		orders = append(orders, *ob.orders[id])
	}
	return orders
}

// Pending returns copies of all non-terminal orders in placement order.
func (ob *OrderBook) Pending() []models.Order {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	var pending []models.Order
	for _, id := range ob.sequence {
		if !ob.orders[id].Status.Terminal() {
			pending = append(pending, *ob.orders[id])
		}
	}
	return pending
}
