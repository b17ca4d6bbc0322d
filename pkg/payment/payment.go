package payment

import "context"

type DepositRequest struct {
	Email     string
	Amount    int64 // minor currency units
	Reference string
}

type DepositResponse struct {
	Reference        string
	AuthorizationURL string
	AccessCode       string
}

// Provider is the outbound payment-provider contract. InitializeDeposit asks
// for a checkout handoff URL; VerifyDeposit asks whether a charge settled.
// Settlement notifications arrive separately over the webhook.
type Provider interface {
	InitializeDeposit(ctx context.Context, req DepositRequest) (*DepositResponse, error)
	VerifyDeposit(ctx context.Context, reference string) (bool, error)
}
