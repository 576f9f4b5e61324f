package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/pos"
	"github.com/pos/backend/internal/domain/shared/valueobject"
)

func TestCreateIntent(t *testing.T) {
	g := NewSimulatedGateway(0, zap.NewNop())

	token, err := g.CreateIntent(context.Background(), valueobject.NewMoneyUSDFromFloat(47.20))
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = g.CreateIntent(context.Background(), valueobject.ZeroUSD())
	assert.Error(t, err)
}

func TestCaptureApprovesAllByDefault(t *testing.T) {
	g := NewSimulatedGateway(0, zap.NewNop())

	for i := 0; i < 5; i++ {
		token, err := g.CreateIntent(context.Background(), valueobject.NewMoneyUSDFromFloat(10.00))
		require.NoError(t, err)

		result, err := g.Capture(context.Background(), token)
		require.NoError(t, err)
		assert.True(t, result.Approved)
	}
}

func TestCaptureDeclinesEveryNth(t *testing.T) {
	g := NewSimulatedGateway(3, zap.NewNop())

	outcomes := make([]bool, 0, 6)
	for i := 0; i < 6; i++ {
		token, err := g.CreateIntent(context.Background(), valueobject.NewMoneyUSDFromFloat(10.00))
		require.NoError(t, err)
		result, err := g.Capture(context.Background(), token)
		require.NoError(t, err)
		outcomes = append(outcomes, result.Approved)
	}

	assert.Equal(t, []bool{true, true, false, true, true, false}, outcomes)
}

func TestCaptureUnknownToken(t *testing.T) {
	g := NewSimulatedGateway(0, zap.NewNop())

	_, err := g.Capture(context.Background(), pos.IntentToken("nonexistent"))
	assert.Error(t, err)
}

func TestCaptureIsSingleUse(t *testing.T) {
	g := NewSimulatedGateway(0, zap.NewNop())

	token, err := g.CreateIntent(context.Background(), valueobject.NewMoneyUSDFromFloat(10.00))
	require.NoError(t, err)

	_, err = g.Capture(context.Background(), token)
	require.NoError(t, err)

	_, err = g.Capture(context.Background(), token)
	assert.Error(t, err)
}
