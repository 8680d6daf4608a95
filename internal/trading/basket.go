// Package trading provides the simulated order, basket and position lifecycle.
package trading

import (
	"sync"
	"time"

	apperrors "github.com/CHIBOLAR/Options-chain-prototype/internal/errors"
	"github.com/CHIBOLAR/Options-chain-prototype/internal/models"
)

// Basket stages order legs before execution. Legs are kept in insertion
// order; IDs are monotonic per basket.
type Basket struct {
	mu     sync.RWMutex
	nextID int64
	items  []*models.BasketItem
}

// NewBasket creates an empty basket.
func NewBasket() *Basket {
	return &Basket{nextID: 1}
}

// Add stages a leg. Quantity defaults to 1 lot when unset; price and lot
// size must already be resolved by the caller.
func (b *Basket) Add(item models.BasketItem) (*models.BasketItem, error) {
	if item.Symbol == "" {
		return nil, apperrors.NewValidationError("symbol", item.Symbol, "must not be empty")
	}
	if item.Strike <= 0 {
		return nil, apperrors.NewValidationError("strike", item.Strike, "must be positive")
	}
	if item.OptionType != models.OptionCall && item.OptionType != models.OptionPut {
		return nil, apperrors.NewValidationError("option_type", item.OptionType, "must be CALL or PUT")
	}
	if item.Action != models.OrderSideBuy && item.Action != models.OrderSideSell {
		return nil, apperrors.NewValidationError("action", item.Action, "must be BUY or SELL")
	}
	if item.Quantity < 0 {
		return nil, apperrors.NewValidationError("quantity", item.Quantity, "must not be negative")
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	if item.Price <= 0 {
		return nil, apperrors.NewValidationError("price", item.Price, "must be positive")
	}
	if item.LotSize <= 0 {
		return nil, apperrors.NewValidationError("lot_size", item.LotSize, "must be positive")
	}
	if item.OrderType == "" {
		item.OrderType = models.OrderTypeMarket
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	item.ID = b.nextID
	b.nextID++
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	staged := item
	b.items = append(b.items, &staged)
	return &staged, nil
}

// Remove deletes the leg with the given ID.
func (b *Basket) Remove(id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, item := range b.items {
		if item.ID == id {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrBasketItemNotFound
}

// Clear removes all staged legs.
func (b *Basket) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = b.items[:0]
}

// Len returns the number of staged legs.
func (b *Basket) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.items)
}

// Items returns a copy of the staged legs in insertion order.
func (b *Basket) Items() []models.BasketItem {
	b.mu.RLock()
	defer b.mu.RUnlock()

	items := make([]models.BasketItem, 0, len(b.items))
	for _, item := range b.items {
		items = append(items, *item)
	}
	return items
}

// Summary aggregates the staged legs. SELL premium is a credit, BUY a
// debit. MaxProfit is the total credit collected, MaxLoss the total debit
// paid; a zero figure on a mixed basket means the bound is open-ended.
func (b *Basket) Summary() models.BasketSummary {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var summary models.BasketSummary
	summary.Legs = len(b.items)
	for _, item := range b.items {
		premium := item.Premium()
		if item.Action == models.OrderSideSell {
			summary.NetPremium += premium
			summary.MaxProfit += premium
		} else {
			summary.NetPremium -= premium
			summary.MaxLoss += premium
		}
	}
	return summary
}
