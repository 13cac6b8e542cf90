package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"

	"campstation/internal/app/commands"
	pricingapp "campstation/internal/app/handlers/pricing"
	domainpricing "campstation/internal/domain/pricing"
	"campstation/internal/domain/shared/events"
)

var ErrMalformedEvent = errors.New("kafka: malformed rules-changed event")

type cloudEvent struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Time time.Time       `json:"time"`
	Data json.RawMessage `json:"data"`
}

type rulesChangedData struct {
	SiteID int64 `json:"site_id"`
}

// RulesChangedHandler turns rule-change notifications into quote invalidations.
type RulesChangedHandler struct {
	Commands commands.Bus
	Logger   *slog.Logger
}

func (h RulesChangedHandler) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	event, ok, err := decodeRulesChanged(msg.Value)
	if err != nil {
		// poison messages are logged and skipped so the partition keeps moving
		h.log().Warn("dropping malformed pricing event", "offset", msg.Offset, "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	cmd := pricingapp.InvalidateSiteQuotesCommand{EventID: string(event.ID), SiteID: event.SiteID}
	res, err := commands.Dispatch[pricingapp.InvalidateSiteQuotesCommand, *pricingapp.InvalidateSiteQuotesResult](ctx, h.Commands, cmd)
	if err != nil {
		return fmt.Errorf("invalidate quotes for site %d: %w", event.SiteID, err)
	}
	h.log().Info("pricing rules changed", "site_id", event.SiteID, "event_id", event.ID, "removed", res.Removed)
	return nil
}

func (h RulesChangedHandler) log() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// decodeRulesChanged returns ok=false for events of other types.
func decodeRulesChanged(raw []byte) (domainpricing.RulesChangedEvent, bool, error) {
	var env cloudEvent
	if err := json.Unmarshal(raw, &env); err != nil {
		return domainpricing.RulesChangedEvent{}, false, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if env.Type != domainpricing.EventRulesChanged {
		return domainpricing.RulesChangedEvent{}, false, nil
	}
	var data rulesChangedData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return domainpricing.RulesChangedEvent{}, false, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if env.ID == "" || data.SiteID <= 0 {
		return domainpricing.RulesChangedEvent{}, false, fmt.Errorf("%w: id %q site %d", ErrMalformedEvent, env.ID, data.SiteID)
	}
	return domainpricing.NewRulesChangedEvent(events.ID(env.ID), data.SiteID, env.Time), true, nil
}

var _ MessageHandler = RulesChangedHandler{}
