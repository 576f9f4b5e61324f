package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/pos"
	"github.com/pos/backend/internal/domain/shared/valueobject"
)

// SimulatedGateway is a deterministic card-processor adapter for
// environments without a real acquirer. Outcomes follow configuration,
// never randomness: with DeclineEvery = N every Nth capture declines,
// with 0 every capture approves
type SimulatedGateway struct {
	declineEvery int
	logger       *zap.Logger

	mu       sync.Mutex
	captures int
	intents  map[pos.IntentToken]valueobject.Money
}

// NewSimulatedGateway creates a new SimulatedGateway
func NewSimulatedGateway(declineEvery int, logger *zap.Logger) *SimulatedGateway {
	return &SimulatedGateway{
		declineEvery: declineEvery,
		logger:       logger,
		intents:      make(map[pos.IntentToken]valueobject.Money),
	}
}

// CreateIntent registers a payment intent for the amount
func (g *SimulatedGateway) CreateIntent(ctx context.Context, amount valueobject.Money) (pos.IntentToken, error) {
	if !amount.IsPositive() {
		return "", fmt.Errorf("intent amount must be positive, got %s", amount)
	}

	token := pos.IntentToken(uuid.NewString())
	g.mu.Lock()
	g.intents[token] = amount
	g.mu.Unlock()

	g.logger.Debug("payment intent created",
		zap.String("token", string(token)),
		zap.String("amount", amount.String()),
	)
	return token, nil
}

// Capture settles a previously created intent
// An unknown token is a transport-level error; a configured decline is
// a normal unapproved result
func (g *SimulatedGateway) Capture(ctx context.Context, token pos.IntentToken) (pos.CaptureResult, error) {
	g.mu.Lock()
	amount, ok := g.intents[token]
	if ok {
		delete(g.intents, token)
		g.captures++
	}
	captures := g.captures
	g.mu.Unlock()

	if !ok {
		return pos.CaptureResult{}, fmt.Errorf("unknown intent token %q", token)
	}

	if g.declineEvery > 0 && captures%g.declineEvery == 0 {
		g.logger.Info("simulated decline",
			zap.String("token", string(token)),
			zap.String("amount", amount.String()),
		)
		return pos.CaptureResult{Approved: false, Message: "Payment Declined"}, nil
	}

	return pos.CaptureResult{Approved: true, Message: "Payment Approved"}, nil
}

var _ pos.PaymentGateway = (*SimulatedGateway)(nil)
