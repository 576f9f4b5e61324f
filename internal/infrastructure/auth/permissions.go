package auth

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/pos/backend/internal/domain/pos"
)

// StaticPermissionChecker implements pos.PermissionChecker from a fixed
// grant table. User administration lives in the back office; a terminal
// only needs to know which capabilities its cashiers carry
type StaticPermissionChecker struct {
	mu     sync.RWMutex
	grants map[uuid.UUID]map[string]bool
}

// NewStaticPermissionChecker creates an empty checker
func NewStaticPermissionChecker() *StaticPermissionChecker {
	return &StaticPermissionChecker{
		grants: make(map[uuid.UUID]map[string]bool),
	}
}

// Grant gives a user one capability
func (c *StaticPermissionChecker) Grant(userID uuid.UUID, capability string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.grants[userID] == nil {
		c.grants[userID] = make(map[string]bool)
	}
	c.grants[userID][capability] = true
}

// GrantAll gives a user every register capability
func (c *StaticPermissionChecker) GrantAll(userID uuid.UUID) {
	for _, capability := range []string{
		pos.CapabilityPriceOverride,
		pos.CapabilityApplyDiscount,
		pos.CapabilityProcessReturn,
		pos.CapabilityVoidSale,
	} {
		c.Grant(userID, capability)
	}
}

// Revoke removes one capability from a user
func (c *StaticPermissionChecker) Revoke(userID uuid.UUID, capability string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.grants[userID], capability)
}

// HasCapability reports whether the user carries the capability
func (c *StaticPermissionChecker) HasCapability(ctx context.Context, userID uuid.UUID, capability string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.grants[userID][capability]
}

var _ pos.PermissionChecker = (*StaticPermissionChecker)(nil)
