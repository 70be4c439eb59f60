package notifications

import (
	"context"
	"io"
	"log/slog"

	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

var _ ports.Notifier = (*LogNotifier)(nil)

// LogNotifier records confirmations in the log instead of sending them.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier builds a notifier writing to logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendOrderConfirmation(ctx context.Context, c ports.Confirmation) error {
	n.logger.LogAttrs(ctx, slog.LevelInfo, "order confirmation",
		slog.String("order.number", c.OrderNumber),
		slog.String("order.email", c.Email),
		slog.String("order.grand_total", c.GrandTotal.StringFixed(2)),
	)
	return nil
}
