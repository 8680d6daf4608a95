// Package models provides domain models for the options chain simulator.
package models

import "time"

// OptionType represents the type of an option contract.
type OptionType string

const (
	OptionCall OptionType = "CALL"
	OptionPut  OptionType = "PUT"
)

// OrderSide represents the side of an order.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// Opposite returns the other side.
func (s OrderSide) Opposite() OrderSide {
	if s == OrderSideBuy {
		return OrderSideSell
	}
	return OrderSideBuy
}

// OrderType represents the type of an order.
type OrderType string

const (
	OrderTypeMarket    OrderType = "MARKET"
	OrderTypeLimit     OrderType = "LIMIT"
	OrderTypeStopLoss  OrderType = "SL"
	OrderTypeStopLossM OrderType = "SL-M"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderExecuted  OrderStatus = "EXECUTED"
	OrderRejected  OrderStatus = "REJECTED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// Terminal reports whether the status admits no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderExecuted || s == OrderRejected || s == OrderCancelled
}

// MarketStatus represents the current market status.
type MarketStatus string

const (
	MarketOpen             MarketStatus = "OPEN"
	MarketPreOpen          MarketStatus = "PRE_OPEN"
	MarketClosed           MarketStatus = "CLOSED"
	MarketMISSquareOffWarn MarketStatus = "MIS_SQUAREOFF_WARNING"
)

// Instrument represents a tradeable underlying with F&O contracts.
// Everything is immutable per symbol except UnderlyingPrice, which
// drifts as the simulation refreshes.
type Instrument struct {
	Symbol          string
	LotSize         int
	TickSize        float64
	Sector          string
	UnderlyingPrice float64
}

// BasketItem represents a staged order leg awaiting execution.
type BasketItem struct {
	ID         int64
	Symbol     string
	Strike     float64
	OptionType OptionType
	Action     OrderSide
	Quantity   int // lots
	Price      float64
	OrderType  OrderType
	LotSize    int
	CreatedAt  time.Time
}

// Premium returns the total premium of the leg (quantity x lot size x price).
func (b BasketItem) Premium() float64 {
	return float64(b.Quantity*b.LotSize) * b.Price
}

// BasketSummary aggregates the staged legs.
type BasketSummary struct {
	Legs       int
	NetPremium float64 // positive = net credit, negative = net debit
	MaxProfit  float64 // total credit collected; 0 for a pure debit basket means unlimited upside
	MaxLoss    float64 // total debit paid
}

// Order represents a submitted order. Immutable once terminal.
type Order struct {
	OrderID    string
	Symbol     string
	Strike     float64
	OptionType OptionType
	Action     OrderSide
	Quantity   int // lots
	Price      float64
	OrderType  OrderType
	Status     OrderStatus
	PlacedAt   time.Time
}

// Position represents an open exposure. Positions are keyed by
// (symbol, strike, option type, action); the same leg held in opposite
// directions is tracked as two separate positions and never netted.
type Position struct {
	ID         int64
	Symbol     string
	Strike     float64
	OptionType OptionType
	Action     OrderSide
	Quantity   int // lots, always > 0 while the position exists
	AvgPrice   float64
	Delta      float64
}

// PositionDetail is a position enriched with live pricing.
type PositionDetail struct {
	Position
	CurrentPrice float64
	PnL          float64
	LotSize      int
}

// PositionSummary aggregates open positions.
type PositionSummary struct {
	Positions     []PositionDetail
	TotalPnL      float64
	DayPnL        float64
	PositionCount int
	MarginUsed    float64
}

// TradeHistoryEntry is one row of the append-only trade ledger.
// RealizedPnL is zero at fill time and set only by square-off.
type TradeHistoryEntry struct {
	Date        time.Time
	OrderID     string
	Symbol      string
	Strike      float64
	OptionType  OptionType
	Action      OrderSide
	Quantity    int
	Price       float64
	RealizedPnL float64
}

// MarginEstimate is the capital requirement for a prospective trade.
// The SELL-side figure is a simplified SPAN+exposure approximation,
// not an exchange-accurate number.
type MarginEstimate struct {
	Required       float64
	SpanMargin     float64
	ExposureMargin float64
	Premium        float64
	Breakeven      float64
}
