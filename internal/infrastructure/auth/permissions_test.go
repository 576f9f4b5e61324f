package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/pos/backend/internal/domain/pos"
)

func TestGrantAndRevoke(t *testing.T) {
	checker := NewStaticPermissionChecker()
	ctx := context.Background()
	cashierID := uuid.New()

	assert.False(t, checker.HasCapability(ctx, cashierID, pos.CapabilityVoidSale))

	checker.Grant(cashierID, pos.CapabilityVoidSale)
	assert.True(t, checker.HasCapability(ctx, cashierID, pos.CapabilityVoidSale))
	assert.False(t, checker.HasCapability(ctx, cashierID, pos.CapabilityPriceOverride))

	checker.Revoke(cashierID, pos.CapabilityVoidSale)
	assert.False(t, checker.HasCapability(ctx, cashierID, pos.CapabilityVoidSale))
}

func TestGrantAll(t *testing.T) {
	checker := NewStaticPermissionChecker()
	ctx := context.Background()
	managerID := uuid.New()

	checker.GrantAll(managerID)

	assert.True(t, checker.HasCapability(ctx, managerID, pos.CapabilityPriceOverride))
	assert.True(t, checker.HasCapability(ctx, managerID, pos.CapabilityApplyDiscount))
	assert.True(t, checker.HasCapability(ctx, managerID, pos.CapabilityProcessReturn))
	assert.True(t, checker.HasCapability(ctx, managerID, pos.CapabilityVoidSale))

	assert.False(t, checker.HasCapability(ctx, uuid.New(), pos.CapabilityVoidSale))
}
