package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
)

// Listen subscribes to NotifyChannel on a dedicated connection and calls fn
// with the key of every committed Set not made by origin. It blocks until
// ctx is done or the connection fails.
func Listen(ctx context.Context, connStr, origin string, fn func(key string)) error {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return fmt.Errorf("connecting listener: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{NotifyChannel}.Sanitize()); err != nil {
		return fmt.Errorf("listening on %s: %w", NotifyChannel, err)
	}

	slog.Info("listening for kv changes", "channel", NotifyChannel)

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			return fmt.Errorf("waiting for notification: %w", err)
		}

		if key, ok := ExternalKey(n.Payload, origin); ok {
			fn(key)
		}
	}
}
