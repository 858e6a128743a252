package messaging

import (
	"context"

	"github.com/rs/zerolog"
)

// Consume subscribes to channel and hands every payload to handler until ctx
// is done. Handler errors are logged and do not stop consumption.
func Consume(ctx context.Context, broker Broker, channel string, logger zerolog.Logger, handler func([]byte) error) error {
	msgChan, err := broker.Subscribe(ctx, channel)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgChan {
			if err := handler(msg); err != nil {
				logger.Error().Err(err).Str("channel", channel).Msg("failed to handle message")
			}
		}
	}()

	return nil
}
