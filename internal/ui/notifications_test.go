package ui

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"probectl/internal/domain"
	"probectl/internal/notify"

	"github.com/stretchr/testify/assert"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestFormatNotification(t *testing.T) {
	assert.Equal(t, "✗ Auth health failed: connection refused",
		FormatNotification(domain.Notification{Severity: domain.SeverityError, Title: "Auth health failed", Message: "connection refused"}))
	assert.Equal(t, "ℹ Tests stopped",
		FormatNotification(domain.Notification{Severity: domain.SeverityInfo, Title: "Tests stopped"}))
}

func TestNotificationPrinter_FiltersInfo(t *testing.T) {
	bus := notify.NewBus(time.Minute)
	var out syncBuffer
	printer := NewNotificationPrinter(&out, false)
	printer.Attach(context.Background(), bus)

	bus.Publish(notify.Info("Starting tests", "Running 2 tests"))
	bus.Publish(notify.Success("Auth health passed", "Completed in 3ms"))
	bus.Publish(notify.Error("REST root failed", "status 503"))
	bus.Close()
	printer.Wait()

	text := out.String()
	assert.NotContains(t, text, "Starting tests")
	assert.NotContains(t, text, "Auth health passed")
	assert.Contains(t, text, "REST root failed: status 503")
}

func TestNotificationPrinter_Verbose(t *testing.T) {
	bus := notify.NewBus(time.Minute)
	var out syncBuffer
	printer := NewNotificationPrinter(&out, true)
	printer.Attach(context.Background(), bus)

	bus.Publish(notify.Info("Starting tests", "Running 1 tests"))
	bus.Publish(notify.Success("All tests passed", "1/1 tests passed"))
	bus.Close()
	printer.Wait()

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{
		"ℹ Starting tests: Running 1 tests",
		"✓ All tests passed: 1/1 tests passed",
	}, lines)
}

func TestNotificationPrinter_StopsOnContext(t *testing.T) {
	bus := notify.NewBus(time.Minute)
	defer bus.Close()
	ctx, cancel := context.WithCancel(context.Background())

	printer := NewNotificationPrinter(&syncBuffer{}, true)
	printer.Attach(ctx, bus)
	cancel()

	done := make(chan struct{})
	go func() {
		printer.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("printer did not stop after cancel")
	}
}
