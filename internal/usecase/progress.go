package usecase

import (
	"context"
	"strings"

	"github.com/riskibarqy/rift-rewind/internal/domain/run"
	"github.com/riskibarqy/rift-rewind/internal/platform/logging"
)

// Notifier pushes events to an observer connection. Delivery is not confirmed.
type Notifier interface {
	Send(ctx context.Context, connectionID string, event run.Event) error
}

type noopNotifier struct{}

func (noopNotifier) Send(context.Context, string, run.Event) error { return nil }

func NewNoopNotifier() Notifier {
	return noopNotifier{}
}

type progressReporter struct {
	notifier Notifier
	observer string
	logger   *logging.Logger
}

func newProgressReporter(notifier Notifier, observer string, logger *logging.Logger) progressReporter {
	if notifier == nil {
		notifier = NewNoopNotifier()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return progressReporter{notifier: notifier, observer: strings.TrimSpace(observer), logger: logger}
}

// emit is fire-and-forget: send failures are logged and never fail a stage.
func (p progressReporter) emit(ctx context.Context, event run.Event) {
	if p.observer == "" {
		return
	}
	if err := p.notifier.Send(ctx, p.observer, event); err != nil {
		p.logger.WarnContext(ctx, "send progress event failed",
			"observer", p.observer,
			"state", string(event.State),
			"error", err,
		)
	}
}
