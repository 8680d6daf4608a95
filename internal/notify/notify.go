// Package notify provides terminal notifications for order and trade events.
package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/CHIBOLAR/Options-chain-prototype/internal/models"
	"github.com/CHIBOLAR/Options-chain-prototype/pkg/utils"
)

// Type classifies a notification.
type Type int

const (
	TypeOrder Type = iota
	TypeTrade
	TypeBasket
	TypeError
	TypeInfo
)

// Notification is a single terminal notification.
type Notification struct {
	Type      Type
	Symbol    string
	Message   string
	Price     float64
	PnL       float64
	HasPnL    bool
	Timestamp time.Time
	Priority  int // higher = more important
}

// Handler consumes notifications.
type Handler func(n Notification)

// Notifier is the interface the trading session notifies through.
type Notifier interface {
	NotifyOrder(order *models.Order)
	NotifyTrade(entry *models.TradeHistoryEntry)
	NotifyBasket(executed, total int)
	NotifyError(err error, context string)
	NotifyInfo(message string)
}

// TerminalNotifier buffers notifications and dispatches them to handlers.
type TerminalNotifier struct {
	notifications chan Notification
	handlers      []Handler
	mu            sync.RWMutex
	enabled       bool
	bellEnabled   bool
	started       bool
}

var _ Notifier = (*TerminalNotifier)(nil)

// NewTerminalNotifier creates a TerminalNotifier with the given buffer size.
func NewTerminalNotifier(bufferSize int) *TerminalNotifier {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	return &TerminalNotifier{
		notifications: make(chan Notification, bufferSize),
		handlers:      make([]Handler, 0),
		enabled:       true,
		bellEnabled:   true,
	}
}

// SetEnabled enables or disables the notifier.
func (tn *TerminalNotifier) SetEnabled(enabled bool) {
	tn.mu.Lock()
	defer tn.mu.Unlock()
	tn.enabled = enabled
}

// SetBellEnabled enables or disables the terminal bell.
func (tn *TerminalNotifier) SetBellEnabled(enabled bool) {
	tn.mu.Lock()
	defer tn.mu.Unlock()
	tn.bellEnabled = enabled
}

// AddHandler registers a notification handler.
func (tn *TerminalNotifier) AddHandler(h Handler) {
	tn.mu.Lock()
	defer tn.mu.Unlock()
	tn.handlers = append(tn.handlers, h)
}

// Notify enqueues a notification, dropping the oldest when the buffer is full.
func (tn *TerminalNotifier) Notify(n Notification) {
	tn.mu.RLock()
	enabled := tn.enabled
	tn.mu.RUnlock()

	if !enabled {
		return
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}

	select {
	case tn.notifications <- n:
	default:
		select {
		case <-tn.notifications:
		default:
		}
		tn.notifications <- n
	}
}

// Start begins processing notifications until ctx is cancelled.
// Repeated calls are no-ops; a single drain loop owns the channel.
func (tn *TerminalNotifier) Start(ctx context.Context) {
	tn.mu.Lock()
	if tn.started {
		tn.mu.Unlock()
		return
	}
	tn.started = true
	tn.mu.Unlock()

	go func() {
		defer func() {
			tn.mu.Lock()
			tn.started = false
			tn.mu.Unlock()
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case n := <-tn.notifications:
				tn.process(n)
			}
		}
	}()
}

func (tn *TerminalNotifier) process(n Notification) {
	tn.mu.RLock()
	handlers := tn.handlers
	bell := tn.bellEnabled
	tn.mu.RUnlock()

	if bell && n.Priority > 1 {
		fmt.Print("\a")
	}
	for _, h := range handlers {
		h(n)
	}
}

// NotifyOrder reports an order reaching a status.
func (tn *TerminalNotifier) NotifyOrder(order *models.Order) {
	priority := 1
	if order.Status == models.OrderRejected {
		priority = 2
	}
	tn.Notify(Notification{
		Type:   TypeOrder,
		Symbol: order.Symbol,
		Message: fmt.Sprintf("Order %s %s: %s %d x %s %.0f %s @ %s",
			order.OrderID, order.Status, order.Action, order.Quantity,
			order.Symbol, order.Strike, order.OptionType,
			utils.FormatIndianCurrency(order.Price)),
		Price:    order.Price,
		Priority: priority,
	})
}

// NotifyTrade reports a realized trade from a square-off.
func (tn *TerminalNotifier) NotifyTrade(entry *models.TradeHistoryEntry) {
	tn.Notify(Notification{
		Type:   TypeTrade,
		Symbol: entry.Symbol,
		Message: fmt.Sprintf("Squared off %s %.0f %s, P&L %s",
			entry.Symbol, entry.Strike, entry.OptionType,
			utils.FormatIndianCurrency(entry.RealizedPnL)),
		Price:    entry.Price,
		PnL:      entry.RealizedPnL,
		HasPnL:   true,
		Priority: 2,
	})
}

// NotifyBasket reports a basket execution result.
func (tn *TerminalNotifier) NotifyBasket(executed, total int) {
	priority := 1
	if executed < total {
		priority = 2
	}
	tn.Notify(Notification{
		Type:     TypeBasket,
		Message:  fmt.Sprintf("Basket executed: %d/%d legs filled", executed, total),
		Priority: priority,
	})
}

// NotifyError reports an error.
func (tn *TerminalNotifier) NotifyError(err error, context string) {
	tn.Notify(Notification{
		Type:     TypeError,
		Message:  fmt.Sprintf("Error in %s: %v", context, err),
		Priority: 3,
	})
}

// NotifyInfo reports an informational message.
func (tn *TerminalNotifier) NotifyInfo(message string) {
	tn.Notify(Notification{
		Type:     TypeInfo,
		Message:  message,
		Priority: 0,
	})
}

// Format renders a notification as a terminal line.
func Format(n Notification, colorEnabled bool) string {
	var sb strings.Builder

	var label, color, reset string
	if colorEnabled {
		reset = "\033[0m"
	}
	switch n.Type {
	case TypeOrder:
		label = "ORDER"
		if colorEnabled {
			color = "\033[36m"
		}
	case TypeTrade:
		label = "TRADE"
		if colorEnabled {
			color = "\033[35m"
		}
	case TypeBasket:
		label = "BASKET"
		if colorEnabled {
			color = "\033[33m"
		}
	case TypeError:
		label = "ERROR"
		if colorEnabled {
			color = "\033[31m"
		}
	default:
		label = "INFO"
		if colorEnabled {
			color = "\033[37m"
		}
	}

	sb.WriteString(fmt.Sprintf("%s[%s] %-6s%s", color, n.Timestamp.Format("15:04:05"), label, reset))
	if n.Symbol != "" {
		sb.WriteString(fmt.Sprintf(" | %s", n.Symbol))
	}
	sb.WriteString(fmt.Sprintf(" | %s", n.Message))
	return sb.String()
}

// DefaultHandler returns a handler that prints notifications to stdout.
func DefaultHandler(colorEnabled bool) Handler {
	return func(n Notification) {
		fmt.Println(Format(n, colorEnabled))
	}
}

// NoOpNotifier discards all notifications.
type NoOpNotifier struct{}

var _ Notifier = NoOpNotifier{}

func (NoOpNotifier) NotifyOrder(*models.Order)             {}
func (NoOpNotifier) NotifyTrade(*models.TradeHistoryEntry) {}
func (NoOpNotifier) NotifyBasket(int, int)                 {}
func (NoOpNotifier) NotifyError(error, string)             {}
func (NoOpNotifier) NotifyInfo(string)                     {}
