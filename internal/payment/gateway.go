package payment

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Gateway authorizes charges. The real platform would talk to a PSP here;
// this module ships a simulated implementation.
type Gateway interface {
	Authorize(ctx context.Context, cardNumber string, amount float64) (*Authorization, error)
}

type Authorization struct {
	Approved      bool
	TransactionID string
	Message       string
}

// Well-known test cards, same convention as the usual PSP sandboxes.
const (
	TestCardVisaApprove       = "4242424242424242"
	TestCardMastercardApprove = "5555555555554444"
	TestCardDecline           = "4000000000000002"
)

type SimulatedGateway struct {
	successRate float64
	minDelay    time.Duration
	maxDelay    time.Duration
}

func NewSimulatedGateway(successRate float64, minDelay, maxDelay time.Duration) *SimulatedGateway {
	if successRate <= 0 || successRate > 1 {
		successRate = 0.95
	}
	if minDelay <= 0 {
		minDelay = 100 * time.Millisecond
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &SimulatedGateway{successRate: successRate, minDelay: minDelay, maxDelay: maxDelay}
}

// Authorize simulates network latency, then decides: the two approve cards
// always succeed, the decline card always fails, anything else succeeds with
// the configured probability.
func (g *SimulatedGateway) Authorize(ctx context.Context, cardNumber string, amount float64) (*Authorization, error) {
	delay := g.minDelay + time.Duration(rand.Int63n(int64(g.maxDelay-g.minDelay)+1))
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	approved := false
	switch cardNumber {
	case TestCardVisaApprove, TestCardMastercardApprove:
		approved = true
	case TestCardDecline:
		approved = false
	default:
		approved = rand.Float64() < g.successRate
	}

	if !approved {
		return &Authorization{
			Approved: false,
			Message:  "card declined by issuer",
		}, nil
	}

	return &Authorization{
		Approved:      true,
		TransactionID: fmt.Sprintf("txn_%s", uuid.NewString()),
		Message:       "approved",
	}, nil
}
