package trading

import (
	"sync"

	apperrors "github.com/CHIBOLAR/Options-chain-prototype/internal/errors"
	"github.com/CHIBOLAR/Options-chain-prototype/internal/models"
)

// PositionBook tracks open positions. Positions merge on
// (symbol, strike, option type, action) with a weighted average price;
// opposite directions of the same leg stay separate and are never netted
// against each other.
type PositionBook struct {
	mu        sync.RWMutex
	nextID    int64
	positions []*models.Position
}

// NewPositionBook creates an empty position book.
func NewPositionBook() *PositionBook {
	return &PositionBook{nextID: 1}
}

// Apply folds an executed order into the book. An existing position with
// the same key absorbs the fill at the weighted average price; otherwise
// a new position opens.
func (pb *PositionBook) Apply(order models.Order) models.Position {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	for _, p := range pb.positions {
		if p.Symbol == order.Symbol && p.Strike == order.Strike &&
			p.OptionType == order.OptionType && p.Action == order.Action {
			total := p.Quantity + order.Quantity
			p.AvgPrice = (p.AvgPrice*float64(p.Quantity) + order.Price*float64(order.Quantity)) / float64(total)
			p.Quantity = total
			return *p
		}
	}

	position := &models.Position{
		ID:         pb.nextID,
		Symbol:     order.Symbol,
		Strike:     order.Strike,
		OptionType: order.OptionType,
		Action:     order.Action,
		Quantity:   order.Quantity,
		AvgPrice:   order.Price,
	}
	pb.nextID++
	pb.positions = append(pb.positions, position)
	return *position
}

// Get returns a copy of the position with the given ID.
func (pb *PositionBook) Get(id int64) (models.Position, error) {
	pb.mu.RLock()
	defer pb.mu.RUnlock()

	for _, p := range pb.positions {
		if p.ID == id {
			return *p, nil
		}
	}
	return models.Position{}, apperrors.ErrPositionNotFound
}

// Remove deletes the position with the given ID and returns it.
func (pb *PositionBook) Remove(id int64) (models.Position, error) {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	for i, p := range pb.positions {
		if p.ID == id {
			removed := *p
			pb.positions = append(pb.positions[:i], pb.positions[i+1:]...)
			return removed, nil
		}
	}
	return models.Position{}, apperrors.ErrPositionNotFound
}

// SetDelta updates the stored delta of a position.
func (pb *PositionBook) SetDelta(id int64, delta float64) {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	for _, p := range pb.positions {
		if p.ID == id {
			p.Delta = delta
			return
		}
	}
}

// List returns copies of all open positions in opening order.
func (pb *PositionBook) List() []models.Position {
	pb.mu.RLock()
	defer pb.mu.RUnlock()

	positions := make([]models.Position, 0, len(pb.positions))
	for _, p := range pb.positions {
		positions = append(positions, *p)
	}
	return positions
}

// Len returns the number of open positions.
func (pb *PositionBook) Len() int {
	pb.mu.RLock()
	defer pb.mu.RUnlock()
	return len(pb.positions)
}

// UnrealizedPnL computes the mark-to-market P&L of a position at the
// given price. BUY profits when price rises, SELL when it falls.
func UnrealizedPnL(p models.Position, currentPrice float64, lotSize int) float64 {
	direction := 1.0
	if p.Action == models.OrderSideSell {
		direction = -1.0
	}
	return (currentPrice - p.AvgPrice) * float64(p.Quantity*lotSize) * direction
}
