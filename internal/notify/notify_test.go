package notify

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/CHIBOLAR/Options-chain-prototype/internal/models"
)

func TestNotifierDispatchesToHandlers(t *testing.T) {
	tn := NewTerminalNotifier(10)
	tn.SetBellEnabled(false)

	var mu sync.Mutex
	var got []Notification
	tn.AddHandler(func(n Notification) {
		mu.Lock()
		got = append(got, n)
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tn.Start(ctx)

	tn.NotifyOrder(&models.Order{
		OrderID:    "ORD1000",
		Symbol:     "NIFTY",
		Strike:     21400,
		OptionType: models.OptionCall,
		Action:     models.OrderSideBuy,
		Quantity:   1,
		Price:      125.50,
		Status:     models.OrderExecuted,
	})
	tn.NotifyBasket(2, 3)

	deadline := time.Now().Add(time.Second)
	for {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("received %d notifications, want 2", n)
		}
		time.Sleep(5 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if got[0].Type != TypeOrder || got[0].Symbol != "NIFTY" {
		t.Errorf("first notification = %+v", got[0])
	}
	if !strings.Contains(got[0].Message, "ORD1000") {
		t.Errorf("order message missing ID: %q", got[0].Message)
	}
	if got[1].Type != TypeBasket || got[1].Priority != 2 {
		t.Errorf("partial basket fill should have priority 2: %+v", got[1])
	}
}

func TestNotifierDisabledDropsAll(t *testing.T) {
	tn := NewTerminalNotifier(10)
	tn.SetEnabled(false)

	tn.NotifyInfo("should be dropped")

	select {
	case n := <-tn.notifications:
		t.Errorf("disabled notifier enqueued %+v", n)
	default:
	}
}

func TestNotifierDropsOldestWhenFull(t *testing.T) {
	tn := NewTerminalNotifier(2)

	tn.NotifyInfo("first")
	tn.NotifyInfo("second")
	tn.NotifyInfo("third")

	n := <-tn.notifications
	if n.Message != "second" {
		t.Errorf("oldest not dropped, head = %q", n.Message)
	}
}

func TestFormat(t *testing.T) {
	n := Notification{
		Type:      TypeTrade,
		Symbol:    "BANKNIFTY",
		Message:   "Squared off",
		Timestamp: time.Date(2026, 1, 5, 10, 30, 0, 0, time.UTC),
	}

	plain := Format(n, false)
	if strings.Contains(plain, "\033[") {
		t.Errorf("plain format contains ANSI codes: %q", plain)
	}
	if !strings.Contains(plain, "TRADE") || !strings.Contains(plain, "BANKNIFTY") {
		t.Errorf("format missing fields: %q", plain)
	}

	colored := Format(n, true)
	if !strings.Contains(colored, "\033[35m") {
		t.Errorf("colored trade format missing magenta: %q", colored)
	}
}

func TestStartIdempotentAndRestartable(t *testing.T) {
	tn := NewTerminalNotifier(10)
	tn.SetBellEnabled(false)

	var count atomic.Int64
	tn.AddHandler(func(Notification) {
		count.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	tn.Start(ctx)
	tn.Start(ctx) // second call must not spawn another drain loop

	tn.NotifyInfo("first")
	waitForCount(t, &count, 1)

	cancel()
	time.Sleep(20 * time.Millisecond)

	// A new context restarts dispatch after the previous loop exited.
	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel2()
	tn.Start(ctx2)

	tn.NotifyInfo("second")
	waitForCount(t, &count, 2)
}

func waitForCount(t *testing.T, count *atomic.Int64, want int64) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for count.Load() < want {
		if time.Now().After(deadline) {
			t.Fatalf("handler calls = %d, want %d", count.Load(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := count.Load(); got != want {
		t.Fatalf("handler calls = %d, want %d", got, want)
	}
}
