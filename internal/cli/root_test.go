package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/CHIBOLAR/Options-chain-prototype/internal/config"
	"github.com/CHIBOLAR/Options-chain-prototype/internal/logging"
	"github.com/CHIBOLAR/Options-chain-prototype/internal/models"
	"github.com/CHIBOLAR/Options-chain-prototype/internal/notify"
)

func newTestApp(t *testing.T, mutate func(*config.Config)) *App {
	t.Helper()

	cfg := config.Default()
	cfg.Execution.FillProbability = 1
	cfg.Execution.OrderLatency = 0
	cfg.Market.Seed = 42
	if mutate != nil {
		mutate(cfg)
	}

	app := NewApp(cfg, logging.Nop())
	if app.Session == nil {
		t.Fatal("session not initialized")
	}
	t.Cleanup(func() {
		app.Session.Close()
		if app.Ledger != nil {
			app.Ledger.Close()
		}
	})
	return app
}

// runCommand executes one command line against app through a fresh
// command tree, the way both main and the interactive loop do.
func runCommand(t *testing.T, app *App, args ...string) string {
	t.Helper()

	var buf bytes.Buffer
	cmd := newRootCommand(app)
	cmd.SetArgs(args)
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("command %v: %v", args, err)
	}
	return buf.String()
}

func TestBasketLifecycleAcrossCommandTrees(t *testing.T) {
	app := newTestApp(t, nil)

	runCommand(t, app, "basket", "add", "--strike", "21400", "--type", "CALL", "--action", "SELL")

	if n := len(app.Session.BasketItems()); n != 1 {
		t.Fatalf("basket has %d legs after add, want 1", n)
	}

	out := runCommand(t, app, "basket", "execute")
	if !strings.Contains(out, "1 legs executed") {
		t.Errorf("execute output = %q, want executed-leg count", out)
	}
	if n := len(app.Session.Positions()); n != 1 {
		t.Errorf("positions = %d after execute, want 1", n)
	}
	if n := len(app.Session.Orders()); n != 1 {
		t.Errorf("orders = %d after execute, want 1", n)
	}
}

func TestTradeWaitsForResolution(t *testing.T) {
	app := newTestApp(t, func(cfg *config.Config) {
		cfg.Execution.OrderLatency = 20 * time.Millisecond
	})

	out := runCommand(t, app, "trade", "--strike", "21400", "--type", "CALL", "--action", "BUY")

	if !strings.Contains(out, "EXECUTED") {
		t.Errorf("trade output = %q, want final EXECUTED status", out)
	}
	for _, o := range app.Session.Orders() {
		if !o.Status.Terminal() {
			t.Errorf("order %s still %s after trade returned", o.OrderID, o.Status)
		}
	}
	if n := len(app.Session.Positions()); n != 1 {
		t.Errorf("positions = %d after trade, want 1", n)
	}
}

func TestBasketQuickAddDefaults(t *testing.T) {
	app := newTestApp(t, nil)

	runCommand(t, app, "basket", "add", "--strike", "21400", "--type", "PUT")

	items := app.Session.BasketItems()
	if len(items) != 1 {
		t.Fatalf("basket has %d legs, want 1", len(items))
	}
	leg := items[0]
	if leg.Action != models.OrderSideBuy || leg.Quantity != 1 || leg.OrderType != models.OrderTypeMarket {
		t.Errorf("quick add staged %+v, want 1-lot BUY MARKET", leg)
	}
	if leg.Price <= 0 {
		t.Errorf("quick add price = %v, want theoretical quote", leg.Price)
	}
}

func TestCommandsDispatchNotifications(t *testing.T) {
	app := newTestApp(t, nil)

	received := make(chan notify.Notification, 10)
	app.Notifier.AddHandler(func(n notify.Notification) {
		received <- n
	})

	runCommand(t, app, "trade", "--strike", "21400", "--type", "CALL", "--action", "BUY")

	select {
	case n := <-received:
		if n.Type != notify.TypeOrder {
			t.Errorf("notification type = %v, want order", n.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("no notification reached the handler")
	}
}

func TestOrdersAndHistoryPopulatedAfterTrade(t *testing.T) {
	app := newTestApp(t, nil)

	runCommand(t, app, "trade", "--strike", "21500", "--type", "PUT", "--action", "SELL")

	out := runCommand(t, app, "orders")
	if !strings.Contains(out, "ORD1000") || !strings.Contains(out, "EXECUTED") {
		t.Errorf("orders output = %q, want the executed order", out)
	}

	out = runCommand(t, app, "history")
	if !strings.Contains(out, "21,500") && !strings.Contains(out, "21500") {
		t.Errorf("history output = %q, want the trade entry", out)
	}
}

func TestInteractiveSessionRunsFullLifecycle(t *testing.T) {
	app := newTestApp(t, nil)

	script := strings.Join([]string{
		"basket add --strike 21400 --type CALL --action SELL",
		"basket add --strike 21600 --type CALL --action BUY",
		"basket execute",
		"exit",
	}, "\n") + "\n"

	var buf bytes.Buffer
	cmd := newRootCommand(app)
	cmd.SetArgs([]string{"interactive"})
	cmd.SetIn(strings.NewReader(script))
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("interactive session: %v", err)
	}

	if !strings.Contains(buf.String(), "2 legs executed") {
		t.Errorf("interactive output = %q, want executed-leg count", buf.String())
	}
	if n := len(app.Session.Positions()); n != 2 {
		t.Errorf("positions = %d after interactive session, want 2", n)
	}
	if n := len(app.Session.BasketItems()); n != 0 {
		t.Errorf("basket still has %d legs after execute", n)
	}
}
