package trading

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/CHIBOLAR/Options-chain-prototype/internal/errors"
	"github.com/CHIBOLAR/Options-chain-prototype/internal/logging"
	"github.com/CHIBOLAR/Options-chain-prototype/internal/market"
	"github.com/CHIBOLAR/Options-chain-prototype/internal/models"
	"github.com/CHIBOLAR/Options-chain-prototype/internal/notify"
	"github.com/CHIBOLAR/Options-chain-prototype/internal/pricing"
	"github.com/CHIBOLAR/Options-chain-prototype/internal/store"
	"github.com/CHIBOLAR/Options-chain-prototype/pkg/utils"
)

// OrderRequest describes a prospective order. A zero Price resolves to
// the current theoretical quote; a zero Quantity defaults to 1 lot.
type OrderRequest struct {
	Symbol     string
	Strike     float64
	OptionType models.OptionType
	Action     models.OrderSide
	Quantity   int
	Price      float64
	OrderType  models.OrderType
}

// Options configures a Session.
type Options struct {
	Registry        *market.Registry
	RiskFreeRate    float64
	FillProbability float64
	OrderLatency    time.Duration
	Symbol          string
	Expiry          time.Time
	Rand            *rand.Rand
	Ledger          *store.Ledger
	Notifier        notify.Notifier
	Logger          zerolog.Logger
}

// Session owns one simulated trading session: the instrument universe,
// the synthetic market, the basket, the order book, open positions and
// the trade ledger. All cross-component transitions go through the
// session mutex.
type Session struct {
	mu        sync.Mutex
	registry  *market.Registry
	generator *market.Generator
	basket    *Basket
	orders    *OrderBook
	positions *PositionBook
	history   []models.TradeHistoryEntry
	ledger    *store.Ledger
	notifier  notify.Notifier
	logger    zerolog.Logger

	symbol       string
	expiry       time.Time
	orderLatency time.Duration
	timers       map[string]*time.Timer
	closed       bool
}

// NewSession creates a session over the given instrument universe.
func NewSession(opts Options) (*Session, error) {
	registry := opts.Registry
	if registry == nil {
		registry = market.NewRegistry(market.DefaultInstruments())
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	symbol := opts.Symbol
	if symbol == "" {
		symbol = "NIFTY"
	}
	if _, err := registry.Get(symbol); err != nil {
		return nil, err
	}

	expiry := opts.Expiry
	if expiry.IsZero() {
		expiry = utils.NextWeeklyExpiry(time.Now())
	}

	fillProbability := opts.FillProbability
	if fillProbability == 0 {
		fillProbability = 0.95
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.NoOpNotifier{}
	}

	// The order book rolls fills on its own source so market generation
	// and order resolution never contend for one rand.Rand.
	fillRng := rand.New(rand.NewSource(rng.Int63()))

	return &Session{
		registry:     registry,
		generator:    market.NewGenerator(opts.RiskFreeRate, rng),
		basket:       NewBasket(),
		orders:       NewOrderBook(fillProbability, fillRng),
		positions:    NewPositionBook(),
		ledger:       opts.Ledger,
		notifier:     notifier,
		logger:       opts.Logger,
		symbol:       symbol,
		expiry:       expiry,
		orderLatency: opts.OrderLatency,
		timers:       make(map[string]*time.Timer),
	}, nil
}

// Symbol returns the active underlying symbol.
func (s *Session) Symbol() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.symbol
}

// SetSymbol switches the active underlying.
func (s *Session) SetSymbol(symbol string) error {
	if _, err := s.registry.Get(symbol); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.symbol = symbol
	s.logger.Info().Str("symbol", symbol).Msg("active symbol changed")
	return nil
}

// Expiry returns the active expiry date.
func (s *Session) Expiry() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiry
}

// SetExpiry switches the active expiry. Past dates are rejected.
func (s *Session) SetExpiry(expiry time.Time) error {
	if !expiry.After(time.Now()) {
		return apperrors.ErrInvalidExpiry
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiry = expiry
	return nil
}

// Registry exposes the instrument universe.
func (s *Session) Registry() *market.Registry {
	return s.registry
}

// Instrument returns the active instrument.
func (s *Session) Instrument() (*models.Instrument, error) {
	return s.registry.Get(s.Symbol())
}

// Chain generates the option chain for the active symbol and expiry.
func (s *Session) Chain() (*models.OptionChain, error) {
	inst, err := s.Instrument()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	expiry := s.expiry
	chain := s.generator.Chain(inst, expiry, time.Now())
	s.mu.Unlock()
	return chain, nil
}

// Quote returns a single contract quote on the active expiry.
func (s *Session) Quote(symbol string, strike float64, optType models.OptionType) (models.OptionQuote, error) {
	inst, err := s.registry.Get(symbol)
	if err != nil {
		return models.OptionQuote{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := market.TimeToExpiry(s.expiry, time.Now())
	return s.generator.Quote(inst, strike, optType, t), nil
}

// theoreticalPrice computes the deterministic contract price used for
// fills and mark-to-market, without quote-level jitter.
func (s *Session) theoreticalPrice(inst *models.Instrument, strike float64, optType models.OptionType) float64 {
	t := market.TimeToExpiry(s.expiry, time.Now())
	return pricing.Price(optType, inst.UnderlyingPrice, strike, t, s.generator.RiskFreeRate, s.generator.Volatility)
}

// resolveRequest fills request defaults from the live market.
func (s *Session) resolveRequest(req *OrderRequest) (*models.Instrument, error) {
	if req.Symbol == "" {
		req.Symbol = s.Symbol()
	}
	inst, err := s.registry.Get(req.Symbol)
	if err != nil {
		return nil, err
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.OrderType == "" {
		req.OrderType = models.OrderTypeMarket
	}
	if req.Price == 0 {
		s.mu.Lock()
		req.Price = s.theoreticalPrice(inst, req.Strike, req.OptionType)
		s.mu.Unlock()
	}
	return inst, nil
}

// PlaceOrder submits a single order. The order enters PENDING and
// resolves to EXECUTED or REJECTED after the configured latency; a zero
// latency resolves synchronously.
func (s *Session) PlaceOrder(ctx context.Context, req OrderRequest) (models.Order, error) {
	if _, err := s.resolveRequest(&req); err != nil {
		return models.Order{}, err
	}

	order, err := s.orders.Create(req.Symbol, req.Strike, req.OptionType, req.Action, req.Quantity, req.Price, req.OrderType)
	if err != nil {
		return models.Order{}, err
	}

	s.saveOrder(ctx, &order)
	logging.LogOrder(s.logger, order.OrderID, order.Symbol, string(order.Action), string(order.Status), order.Price)
	s.notifier.NotifyOrder(&order)

	if s.orderLatency <= 0 {
		return s.resolveOrder(ctx, order.OrderID)
	}

	s.mu.Lock()
	if !s.closed {
		orderID := order.OrderID
		s.timers[orderID] = time.AfterFunc(s.orderLatency, func() {
			s.mu.Lock()
			delete(s.timers, orderID)
			s.mu.Unlock()
			s.resolveOrder(context.Background(), orderID)
		})
	}
	s.mu.Unlock()
	return order, nil
}

// resolveOrder rolls the fill die and applies the outcome.
func (s *Session) resolveOrder(ctx context.Context, orderID string) (models.Order, error) {
	order, err := s.orders.Resolve(orderID)
	if err != nil {
		return models.Order{}, err
	}

	if order.Status == models.OrderExecuted {
		s.applyFill(ctx, order)
	}

	s.saveOrder(ctx, &order)
	logging.LogOrder(s.logger, order.OrderID, order.Symbol, string(order.Action), string(order.Status), order.Price)
	s.notifier.NotifyOrder(&order)
	return order, nil
}

// applyFill folds an executed order into positions and history.
func (s *Session) applyFill(ctx context.Context, order models.Order) {
	position := s.positions.Apply(order)

	if inst, err := s.registry.Get(order.Symbol); err == nil {
		s.mu.Lock()
		t := market.TimeToExpiry(s.expiry, time.Now())
		s.mu.Unlock()
		delta := pricing.Delta(inst.UnderlyingPrice, order.Strike, t, s.generator.RiskFreeRate, s.generator.Volatility, order.OptionType)
		s.positions.SetDelta(position.ID, delta)
	}

	entry := models.TradeHistoryEntry{
		Date:       time.Now(),
		OrderID:    order.OrderID,
		Symbol:     order.Symbol,
		Strike:     order.Strike,
		OptionType: order.OptionType,
		Action:     order.Action,
		Quantity:   order.Quantity,
		Price:      order.Price,
	}
	s.appendHistory(ctx, entry)
}

// CancelOrder cancels a PENDING order.
func (s *Session) CancelOrder(ctx context.Context, orderID string) (models.Order, error) {
	order, err := s.orders.Cancel(orderID)
	if err != nil {
		return order, err
	}

	s.mu.Lock()
	if timer, ok := s.timers[orderID]; ok {
		timer.Stop()
		delete(s.timers, orderID)
	}
	s.mu.Unlock()

	s.saveOrder(ctx, &order)
	logging.LogOrder(s.logger, order.OrderID, order.Symbol, string(order.Action), string(order.Status), order.Price)
	s.notifier.NotifyOrder(&order)
	return order, nil
}

// Order returns the order with the given ID.
func (s *Session) Order(orderID string) (models.Order, error) {
	return s.orders.Get(orderID)
}

// WaitForOrder blocks until the order reaches a terminal status or ctx
// is cancelled. An order placed with latency always resolves, so the
// wait is bounded by the configured latency.
func (s *Session) WaitForOrder(ctx context.Context, orderID string) (models.Order, error) {
	for {
		order, err := s.orders.Get(orderID)
		if err != nil {
			return models.Order{}, err
		}
		if order.Status.Terminal() {
			return order, nil
		}
		select {
		case <-ctx.Done():
			return order, ctx.Err()
		case <-time.After(25 * time.Millisecond):
		}
	}
}

// Orders returns all orders in placement order.
func (s *Session) Orders() []models.Order {
	return s.orders.List()
}

// PendingOrders returns all non-terminal orders.
func (s *Session) PendingOrders() []models.Order {
	return s.orders.Pending()
}

// AddToBasket stages a leg, resolving price and lot size from the live
// market.
func (s *Session) AddToBasket(req OrderRequest) (models.BasketItem, error) {
	inst, err := s.resolveRequest(&req)
	if err != nil {
		return models.BasketItem{}, err
	}

	item, err := s.basket.Add(models.BasketItem{
		Symbol:     req.Symbol,
		Strike:     req.Strike,
		OptionType: req.OptionType,
		Action:     req.Action,
		Quantity:   req.Quantity,
		Price:      req.Price,
		OrderType:  req.OrderType,
		LotSize:    inst.LotSize,
	})
	if err != nil {
		return models.BasketItem{}, err
	}
	if item.Quantity != req.Quantity {
		s.logger.Debug().Int64("leg_id", item.ID).Int("quantity", item.Quantity).Msg("basket quantity defaulted")
	}
	return *item, nil
}

// AddDefaultToBasket stages a 1-lot BUY MARKET leg at the theoretical
// quote.
func (s *Session) AddDefaultToBasket(strike float64, optType models.OptionType) (models.BasketItem, error) {
	return s.AddToBasket(OrderRequest{
		Strike:     strike,
		OptionType: optType,
		Action:     models.OrderSideBuy,
		Quantity:   1,
		OrderType:  models.OrderTypeMarket,
	})
}

// RemoveFromBasket deletes a staged leg.
func (s *Session) RemoveFromBasket(id int64) error {
	return s.basket.Remove(id)
}

// ClearBasket removes all staged legs.
func (s *Session) ClearBasket() {
	s.basket.Clear()
}

// BasketItems returns the staged legs.
func (s *Session) BasketItems() []models.BasketItem {
	return s.basket.Items()
}

// BasketSummary aggregates the staged legs.
func (s *Session) BasketSummary() models.BasketSummary {
	return s.basket.Summary()
}

// ExecuteBasket submits every staged leg. Legs resolve immediately and
// independently; a rejected leg does not roll back the others. The
// basket is cleared afterwards and the fill count reported.
func (s *Session) ExecuteBasket(ctx context.Context) (executed, total int, err error) {
	items := s.basket.Items()
	if len(items) == 0 {
		return 0, 0, apperrors.ErrEmptyBasket
	}

	for _, item := range items {
		order, cerr := s.orders.Create(item.Symbol, item.Strike, item.OptionType, item.Action, item.Quantity, item.Price, item.OrderType)
		if cerr != nil {
			s.logger.Warn().Err(cerr).Str("symbol", item.Symbol).Msg("basket leg rejected at validation")
			continue
		}
		order, cerr = s.resolveOrder(ctx, order.OrderID)
		if cerr != nil {
			continue
		}
		if order.Status == models.OrderExecuted {
			executed++
		}
	}

	s.basket.Clear()
	s.notifier.NotifyBasket(executed, len(items))
	s.logger.Info().Int("executed", executed).Int("total", len(items)).Msg("basket executed")
	return executed, len(items), nil
}

// Positions returns open positions with live mark-to-market P&L.
func (s *Session) Positions() []models.PositionDetail {
	positions := s.positions.List()
	details := make([]models.PositionDetail, 0, len(positions))

	for _, p := range positions {
		inst, err := s.registry.Get(p.Symbol)
		if err != nil {
			continue
		}
		s.mu.Lock()
		current := s.theoreticalPrice(inst, p.Strike, p.OptionType)
		s.mu.Unlock()
		details = append(details, models.PositionDetail{
			Position:     p,
			CurrentPrice: current,
			PnL:          UnrealizedPnL(p, current, inst.LotSize),
			LotSize:      inst.LotSize,
		})
	}
	return details
}

// PositionSummary aggregates open positions, including the margin
// blocked by short legs.
func (s *Session) PositionSummary() models.PositionSummary {
	details := s.Positions()

	summary := models.PositionSummary{
		Positions:     details,
		PositionCount: len(details),
	}
	for _, d := range details {
		summary.TotalPnL += d.PnL
		summary.DayPnL += d.PnL

		inst, err := s.registry.Get(d.Symbol)
		if err != nil {
			continue
		}
		estimate := EstimateMargin(d.Action, d.OptionType, d.Strike, d.AvgPrice, inst.UnderlyingPrice, d.Quantity, d.LotSize)
		summary.MarginUsed += estimate.Required
	}
	return summary
}

// SquareOff closes a position at the current theoretical price. It
// records the realized P&L in history, emits a synthetic closing order
// on the opposite side, and removes the position.
func (s *Session) SquareOff(ctx context.Context, positionID int64) (models.TradeHistoryEntry, error) {
	position, err := s.positions.Get(positionID)
	if err != nil {
		return models.TradeHistoryEntry{}, err
	}
	inst, err := s.registry.Get(position.Symbol)
	if err != nil {
		return models.TradeHistoryEntry{}, err
	}

	s.mu.Lock()
	current := s.theoreticalPrice(inst, position.Strike, position.OptionType)
	s.mu.Unlock()
	pnl := UnrealizedPnL(position, current, inst.LotSize)

	closing := s.orders.Record(models.Order{
		Symbol:     position.Symbol,
		Strike:     position.Strike,
		OptionType: position.OptionType,
		Action:     position.Action.Opposite(),
		Quantity:   position.Quantity,
		Price:      current,
		OrderType:  models.OrderTypeMarket,
		Status:     models.OrderExecuted,
	})
	s.saveOrder(ctx, &closing)

	entry := models.TradeHistoryEntry{
		Date:        time.Now(),
		OrderID:     closing.OrderID,
		Symbol:      position.Symbol,
		Strike:      position.Strike,
		OptionType:  position.OptionType,
		Action:      closing.Action,
		Quantity:    position.Quantity,
		Price:       current,
		RealizedPnL: pnl,
	}
	s.appendHistory(ctx, entry)

	if _, err := s.positions.Remove(positionID); err != nil {
		return models.TradeHistoryEntry{}, err
	}

	logging.LogTrade(s.logger, closing.OrderID, position.Symbol, position.Quantity, current, pnl)
	s.notifier.NotifyTrade(&entry)
	return entry, nil
}

// History returns the trade ledger, oldest first.
func (s *Session) History() []models.TradeHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := make([]models.TradeHistoryEntry, len(s.history))
	copy(history, s.history)
	return history
}

// RealizedPnL sums realized P&L across the session.
func (s *Session) RealizedPnL() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, e := range s.history {
		total += e.RealizedPnL
	}
	return total
}

// Margin estimates the capital required for a prospective trade.
func (s *Session) Margin(req OrderRequest) (models.MarginEstimate, error) {
	inst, err := s.resolveRequest(&req)
	if err != nil {
		return models.MarginEstimate{}, err
	}
	return EstimateMargin(req.Action, req.OptionType, req.Strike, req.Price, inst.UnderlyingPrice, req.Quantity, inst.LotSize), nil
}

// RefreshTick applies one simulation tick: the active spot drifts and
// position deltas re-derive against the new level.
func (s *Session) RefreshTick() {
	symbol := s.Symbol()
	inst, err := s.registry.Get(symbol)
	if err != nil {
		return
	}

	s.mu.Lock()
	next := s.generator.DriftSpot(inst.UnderlyingPrice)
	t := market.TimeToExpiry(s.expiry, time.Now())
	s.mu.Unlock()

	if err := s.registry.UpdateSpot(symbol, next); err != nil {
		return
	}

	for _, p := range s.positions.List() {
		if p.Symbol != symbol {
			continue
		}
		delta := pricing.Delta(next, p.Strike, t, s.generator.RiskFreeRate, s.generator.Volatility, p.OptionType)
		s.positions.SetDelta(p.ID, delta)
	}
	refreshLogger := logging.WithSymbol(s.logger, symbol)
	refreshLogger.Debug().Float64("spot", next).Msg("market refreshed")
}

// Close stops outstanding order timers. The ledger, if any, stays open
// for the owner to close.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

func (s *Session) saveOrder(ctx context.Context, order *models.Order) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.SaveOrder(ctx, order); err != nil {
		orderLogger := logging.WithOrderID(s.logger, order.OrderID)
		orderLogger.Warn().Err(err).Msg("failed to record order in ledger")
	}
}

func (s *Session) appendHistory(ctx context.Context, entry models.TradeHistoryEntry) {
	s.mu.Lock()
	s.history = append(s.history, entry)
	s.mu.Unlock()

	if s.ledger != nil {
		if err := s.ledger.SaveTrade(ctx, &entry); err != nil {
			tradeLogger := logging.WithOrderID(s.logger, entry.OrderID)
			tradeLogger.Warn().Err(err).Msg("failed to record trade in ledger")
		}
	}
}
