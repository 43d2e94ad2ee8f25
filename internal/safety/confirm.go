package safety

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultConfirmationTTL is how long an issued confirmation token stays valid.
const DefaultConfirmationTTL = 5 * time.Minute

type pendingConfirmation struct {
	tool     string
	resource string
	expires  time.Time
}

// ConfirmationTracker issues and redeems single-use confirmation tokens for
// destructive tools. It is safe for concurrent use.
type ConfirmationTracker struct {
	mu          sync.Mutex
	destructive map[string]struct{}
	pending     map[string]pendingConfirmation
	ttl         time.Duration
	now         func() time.Time
}

// NewConfirmationTracker returns a tracker for the given destructive tool
// names. A nil or empty list means no tool needs confirmation.
func NewConfirmationTracker(destructiveTools []string) *ConfirmationTracker {
	d := make(map[string]struct{}, len(destructiveTools))
	for _, name := range destructiveTools {
		d[name] = struct{}{}
	}
	return &ConfirmationTracker{
		destructive: d,
		pending:     make(map[string]pendingConfirmation),
		ttl:         DefaultConfirmationTTL,
		now:         time.Now,
	}
}

// NeedsConfirmation reports whether tool was registered as destructive.
func (c *ConfirmationTracker) NeedsConfirmation(tool string) bool {
	if c == nil {
		return false
	}
	_, ok := c.destructive[tool]
	return ok
}

// RequestConfirmation records a pending confirmation for tool acting on
// resource and returns its token. description is informational only.
func (c *ConfirmationTracker) RequestConfirmation(tool, resource, description string) string {
	token := uuid.NewString()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepLocked()
	c.pending[token] = pendingConfirmation{
		tool:     tool,
		resource: resource,
		expires:  c.now().Add(c.ttl),
	}
	return token
}

// Confirm redeems token. It returns true exactly once per issued, unexpired
// token.
func (c *ConfirmationTracker) Confirm(token string) bool {
	return c.redeem(token, func(pendingConfirmation) bool { return true })
}

// ConfirmTool is Confirm restricted to tokens issued for the same tool and
// resource. A token presented for a different tool or resource is left
// pending.
func (c *ConfirmationTracker) ConfirmTool(tool, resource, token string) bool {
	return c.redeem(token, func(p pendingConfirmation) bool {
		return p.tool == tool && p.resource == resource
	})
}

func (c *ConfirmationTracker) redeem(token string, match func(pendingConfirmation) bool) bool {
	if c == nil || token == "" {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pending[token]
	if !ok {
		return false
	}
	if c.now().After(p.expires) {
		delete(c.pending, token)
		return false
	}
	if !match(p) {
		return false
	}
	delete(c.pending, token)
	return true
}

// sweepLocked drops expired tokens. c.mu must be held.
func (c *ConfirmationTracker) sweepLocked() {
	now := c.now()
	for tok, p := range c.pending {
		if now.After(p.expires) {
			delete(c.pending, tok)
		}
	}
}
