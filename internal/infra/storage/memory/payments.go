package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"directstay/internal/app/policies"
)

// PaymentsGateway records checkout sessions instead of calling a payment provider.
type PaymentsGateway struct {
	BaseURL string

	mu       sync.Mutex
	sessions map[string]policies.CheckoutSessionRequest
}

func NewPaymentsGateway(baseURL string) *PaymentsGateway {
	return &PaymentsGateway{BaseURL: baseURL, sessions: make(map[string]policies.CheckoutSessionRequest)}
}

func (g *PaymentsGateway) CreateSession(_ context.Context, req policies.CheckoutSessionRequest) (policies.CheckoutSession, error) {
	if req.Amount.Amount <= 0 {
		return policies.CheckoutSession{}, fmt.Errorf("memory: refusing session for %d", req.Amount.Amount)
	}
	id := "cs_" + uuid.NewString()
	g.mu.Lock()
	g.sessions[id] = req
	g.mu.Unlock()
	return policies.CheckoutSession{ID: id, URL: g.BaseURL + "?session_id=" + id}, nil
}

// Session returns what was requested for a session, for local inspection and tests.
func (g *PaymentsGateway) Session(id string) (policies.CheckoutSessionRequest, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	req, ok := g.sessions[id]
	return req, ok
}

var _ policies.PaymentsPort = (*PaymentsGateway)(nil)
