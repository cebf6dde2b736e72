package notify

import (
	"context"

	"github.com/riskibarqy/rift-rewind/internal/domain/run"
	"github.com/riskibarqy/rift-rewind/internal/platform/logging"
)

// LogSink writes progress events to the logger. The CLI uses it in place of
// a WebSocket observer.
type LogSink struct {
	logger *logging.Logger
}

func NewLogSink(logger *logging.Logger) *LogSink {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogSink{logger: logger.Named("progress")}
}

func (s *LogSink) Send(ctx context.Context, connectionID string, event run.Event) error {
	args := []any{"observer", connectionID, "state", string(event.State)}
	if event.Total != nil {
		args = append(args, "total", *event.Total)
	}
	if event.Count != nil {
		args = append(args, "count", *event.Count)
	}
	if event.Error != "" {
		args = append(args, "error", event.Error)
	}

	if event.State == run.EventFail {
		s.logger.WarnContext(ctx, "run progress", args...)
		return nil
	}
	s.logger.InfoContext(ctx, "run progress", args...)
	return nil
}
