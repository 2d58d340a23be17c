package payment

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request describes one charge handed to the provider. ID correlates
// the asynchronous result back to the caller.
type Request struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference"`
}

// Provider is the external card terminal integration. Charge starts a
// payment attempt; the outcome arrives later through Manager.Resolve
// with the request's correlation ID.
type Provider interface {
	Configured() bool
	Charge(ctx context.Context, req Request) error
}

// Manager tracks in-flight card payments and correlates provider
// callbacks to the callers that started them
type Manager struct {
	provider Provider

	mu      sync.Mutex
	pending map[string]func(Result)
}

// NewManager creates a manager over the given provider
func NewManager(provider Provider) *Manager {
	return &Manager{
		provider: provider,
		pending:  make(map[string]func(Result)),
	}
}

// Configured reports whether a card provider is ready to take payments
func (m *Manager) Configured() bool {
	return m.provider != nil && m.provider.Configured()
}

// ProcessCard starts a card payment. The callback fires exactly once,
// either immediately on a start failure or later when the provider
// reports an outcome through Resolve.
func (m *Manager) ProcessCard(ctx context.Context, amount decimal.Decimal, reference string, callback func(Result)) {
	if !m.Configured() {
		callback(Failed("no payment provider configured"))
		return
	}

	req := Request{
		ID:        "TB-" + strings.Split(uuid.NewString(), "-")[0],
		Amount:    amount,
		Reference: reference,
	}

	m.mu.Lock()
	m.pending[req.ID] = callback
	m.mu.Unlock()

	if err := m.provider.Charge(ctx, req); err != nil {
		m.take(req.ID)
		callback(Failed(fmt.Sprintf("failed to start payment: %v", err)))
	}
}

// ProcessCash records a cash payment. Cash needs no terminal round
// trip, so the result is immediate.
func (m *Manager) ProcessCash(amount decimal.Decimal) Result {
	transactionID := fmt.Sprintf("CASH-%d", time.Now().UnixMilli())
	return Approved(transactionID, amount, "Cash")
}

// Resolve delivers a provider outcome to the caller waiting on the
// given correlation ID. Each ID resolves at most once; results for
// unknown or already-resolved IDs are dropped.
func (m *Manager) Resolve(id string, result Result) bool {
	callback := m.take(id)
	if callback == nil {
		return false
	}
	callback(Normalize(result))
	return true
}

// PendingCount reports how many card payments await an outcome
func (m *Manager) PendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.pending)
}

func (m *Manager) take(id string) func(Result) {
	m.mu.Lock()
	defer m.mu.Unlock()

	callback := m.pending[id]
	delete(m.pending, id)
	return callback
}
