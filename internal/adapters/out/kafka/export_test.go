package kafka

import "log/slog"

func NewSinkWithWriter(w messageWriter, logger *slog.Logger) *Sink {
	return newSink(w, logger)
}
