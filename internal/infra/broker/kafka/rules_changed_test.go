package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/IBM/sarama"

	"campstation/internal/app/commands"
	pricingapp "campstation/internal/app/handlers/pricing"
)

type recordingBus struct {
	dispatched []pricingapp.InvalidateSiteQuotesCommand
	err        error
}

func (b *recordingBus) Dispatch(_ context.Context, cmd commands.Command) (any, error) {
	if b.err != nil {
		return nil, b.err
	}
	c := cmd.(pricingapp.InvalidateSiteQuotesCommand)
	b.dispatched = append(b.dispatched, c)
	return &pricingapp.InvalidateSiteQuotesResult{SiteID: c.SiteID, Removed: 2}, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRulesChangedHandlerDispatchesInvalidation(t *testing.T) {
	bus := &recordingBus{}
	h := RulesChangedHandler{Commands: bus, Logger: quietLogger()}
	msg := &sarama.ConsumerMessage{Value: []byte(`{"id":"evt-9","type":"pricing.rules_changed.v1","time":"2025-06-01T10:00:00Z","data":{"site_id":101}}`)}
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(bus.dispatched) != 1 || bus.dispatched[0].SiteID != 101 || bus.dispatched[0].EventID != "evt-9" {
		t.Fatalf("dispatched = %+v", bus.dispatched)
	}
}

func TestRulesChangedHandlerSkipsForeignAndMalformedEvents(t *testing.T) {
	bus := &recordingBus{}
	h := RulesChangedHandler{Commands: bus, Logger: quietLogger()}
	for _, raw := range []string{
		`{"id":"evt-1","type":"booking.created.v1","data":{}}`,
		`not json`,
		`{"id":"","type":"pricing.rules_changed.v1","data":{"site_id":1}}`,
		`{"id":"evt-2","type":"pricing.rules_changed.v1","data":{"site_id":0}}`,
	} {
		if err := h.Handle(context.Background(), &sarama.ConsumerMessage{Value: []byte(raw)}); err != nil {
			t.Fatalf("Handle(%s): %v", raw, err)
		}
	}
	if len(bus.dispatched) != 0 {
		t.Fatalf("dispatched = %+v", bus.dispatched)
	}
}

func TestRulesChangedHandlerSurfacesDispatchFailure(t *testing.T) {
	boom := errors.New("cache down")
	h := RulesChangedHandler{Commands: &recordingBus{err: boom}, Logger: quietLogger()}
	msg := &sarama.ConsumerMessage{Value: []byte(`{"id":"evt-3","type":"pricing.rules_changed.v1","data":{"site_id":5}}`)}
	if err := h.Handle(context.Background(), msg); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want dispatch error", err)
	}
}

func TestDecodeRulesChangedBuildsDomainEvent(t *testing.T) {
	ev, ok, err := decodeRulesChanged([]byte(`{"id":"evt-4","type":"pricing.rules_changed.v1","time":"2025-06-01T10:00:00+09:00","data":{"site_id":7}}`))
	if err != nil || !ok {
		t.Fatalf("decode: ok=%v err=%v", ok, err)
	}
	if ev.EventName() != "pricing.rules_changed.v1" || ev.AggregateID() != "7" || ev.OccurredAt().Hour() != 1 {
		t.Fatalf("event = %+v", ev)
	}
}
