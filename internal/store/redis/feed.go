package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/MrSnakeDoc/smartmark/internal/domain"
	"github.com/MrSnakeDoc/smartmark/internal/logger"
	"github.com/MrSnakeDoc/smartmark/internal/utils"
)

// Subscribe opens the live change feed for one owner. It returns a
// channel of decoded changes and a teardown function. The teardown is
// safe to call more than once and must be called when the consumer
// goes away, otherwise the pub/sub connection leaks.
//
// Malformed or invalid payloads are logged and dropped; they never
// reach the consumer.
func (s *Store) Subscribe(ctx context.Context, userID string) (<-chan domain.Change, func(), error) {
	sub := s.client.Subscribe(ctx, ChangesChannel(userID))

	// Force the subscription to be established before returning so a
	// caller that mutates right after subscribing cannot miss its own
	// notifications.
	if _, err := sub.Receive(ctx); err != nil {
		utils.Close(sub)
		return nil, func() {}, fmt.Errorf("failed to subscribe to change feed: %w", err)
	}

	out := make(chan domain.Change)
	done := make(chan struct{})

	go func() {
		defer close(out)
		msgs := sub.Channel()
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var change domain.Change
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					s.logger.Warn("dropping malformed change notification", logger.Error(err))
					continue
				}
				if err := change.Validate(); err != nil {
					s.logger.Warn("dropping invalid change notification", logger.Error(err))
					continue
				}
				select {
				case out <- change:
				case <-done:
					return
				case <-ctx.Done():
					return
				}
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	var once sync.Once
	teardown := func() {
		once.Do(func() {
			close(done)
			utils.Close(sub)
		})
	}

	return out, teardown, nil
}
