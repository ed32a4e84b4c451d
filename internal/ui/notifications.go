package ui

import (
	"context"
	"fmt"
	"io"
	"sync"

	"probectl/internal/domain"
	"probectl/internal/notify"

	"github.com/fatih/color"
)

func severityColor(s domain.Severity) func(format string, a ...interface{}) string {
	switch s {
	case domain.SeveritySuccess:
		return color.GreenString
	case domain.SeverityWarning:
		return color.YellowString
	case domain.SeverityError:
		return color.RedString
	default:
		return color.CyanString
	}
}

func severityIcon(s domain.Severity) string {
	switch s {
	case domain.SeveritySuccess:
		return "✓"
	case domain.SeverityWarning:
		return "⚠"
	case domain.SeverityError:
		return "✗"
	default:
		return "ℹ"
	}
}

// FormatNotification renders a notification as a single colored line
func FormatNotification(n domain.Notification) string {
	paint := severityColor(n.Severity)
	if n.Message == "" {
		return paint("%s %s", severityIcon(n.Severity), n.Title)
	}
	return paint("%s %s", severityIcon(n.Severity), n.Title) + ": " + n.Message
}

// NotificationPrinter echoes published notifications to a writer
type NotificationPrinter struct {
	out     io.Writer
	verbose bool
	wg      sync.WaitGroup
}

// NewNotificationPrinter creates a printer writing to out. Only warnings and errors
// are printed unless verbose is set.
func NewNotificationPrinter(out io.Writer, verbose bool) *NotificationPrinter {
	return &NotificationPrinter{out: out, verbose: verbose}
}

func (p *NotificationPrinter) wants(s domain.Severity) bool {
	return p.verbose || s == domain.SeverityWarning || s == domain.SeverityError
}

// Attach subscribes to the bus and prints until ctx is done or the bus closes.
// Wait blocks until the printer has drained.
func (p *NotificationPrinter) Attach(ctx context.Context, bus *notify.Bus) {
	events, unsubscribe := bus.Subscribe(64)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer unsubscribe()
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				if ev.Type != notify.EventPublished || !p.wants(ev.Notification.Severity) {
					continue
				}
				fmt.Fprintln(p.out, FormatNotification(ev.Notification))
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Wait blocks until the printer goroutine exits
func (p *NotificationPrinter) Wait() {
	p.wg.Wait()
}
