package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/shared"
)

type recordingHandler struct {
	mu     sync.Mutex
	types  []string
	seen   []shared.DomainEvent
	fail   error
	panics bool
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, event)
	return h.fail
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.seen)
}

func testEvent(eventType string) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "Test", uuid.New())
	return &e
}

func TestPublishRoutesByType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	saleHandler := &recordingHandler{types: []string{"SaleCompleted"}}
	allHandler := &recordingHandler{}
	bus.Subscribe(saleHandler)
	bus.Subscribe(allHandler)

	require.NoError(t, bus.Publish(context.Background(), testEvent("SaleCompleted")))
	require.NoError(t, bus.Publish(context.Background(), testEvent("CartHeld")))

	assert.Equal(t, 1, saleHandler.count())
	assert.Equal(t, 2, allHandler.count())
}

func TestPublishContinuesAfterHandlerError(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	failing := &recordingHandler{types: []string{"SaleCompleted"}, fail: errors.New("boom")}
	healthy := &recordingHandler{types: []string{"SaleCompleted"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), testEvent("SaleCompleted")))
	assert.Equal(t, 1, healthy.count())
}

func TestPublishContainsPanics(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	panicking := &recordingHandler{types: []string{"SaleCompleted"}, panics: true}
	healthy := &recordingHandler{types: []string{"SaleCompleted"}}
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), testEvent("SaleCompleted")))
	assert.Equal(t, 1, healthy.count())
}

func TestUnsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := &recordingHandler{types: []string{"SaleCompleted"}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), testEvent("SaleCompleted")))
	assert.Zero(t, handler.count())
}

func TestStartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	require.NoError(t, bus.Stop(context.Background()))
}
