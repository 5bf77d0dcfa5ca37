package mq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harari-inventory/apiserver/types"
)

// EventCountUpdated is the event attribute of count messages.
const EventCountUpdated = "count.updated"

// CountEvents publishes and consumes count events on one channel.
type CountEvents struct {
	mq      *MQ
	channel string
}

func NewCountEvents(mq *MQ, channel string) *CountEvents {
	return &CountEvents{mq: mq, channel: channel}
}

// PublishCount sends the event as JSON.
func (c *CountEvents) PublishCount(ctx context.Context, event types.CountEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	attrs := map[string]string{
		"event":    EventCountUpdated,
		"event_id": event.ID,
	}
	if _, err := c.mq.Publish(ctx, c.channel, data, attrs); err != nil {
		return fmt.Errorf("publish %s: %w", EventCountUpdated, err)
	}
	return nil
}

// SubscribeCounts decodes count events and hands them to fn until ctx is
// done. Messages that fail to decode are dropped with an ack.
func (c *CountEvents) SubscribeCounts(ctx context.Context, fn func(ctx context.Context, event types.CountEvent) error) error {
	return c.mq.Subscribe(ctx, c.channel, func(ctx context.Context, msg Message) error {
		if event := msg.Attributes["event"]; event != "" && event != EventCountUpdated {
			return nil
		}
		var event types.CountEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			return nil
		}
		return fn(ctx, event)
	})
}
