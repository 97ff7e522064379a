package eval

import (
	"io"
	"log/slog"
)

// Option configures an Evaluator.
type Option func(*Evaluator) error

// WithLogHandler sets the handler used for evaluator logging.
func WithLogHandler(handler slog.Handler) Option {
	return func(ev *Evaluator) error {
		if handler != nil {
			ev.logHandler = handler
		}
		return nil
	}
}

// WithOutput sets where print expressions write.
func WithOutput(w io.Writer) Option {
	return func(ev *Evaluator) error {
		if w != nil {
			ev.out = w
		}
		return nil
	}
}
