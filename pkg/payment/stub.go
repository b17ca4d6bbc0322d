package payment

import (
	"context"
	"strings"
)

// StubProvider is a no-op provider for development and tests; every initiate
// succeeds with a fake checkout URL and nothing ever settles on its own.
type StubProvider struct{}

func (s StubProvider) InitializeDeposit(ctx context.Context, req DepositRequest) (*DepositResponse, error) {
	return &DepositResponse{
		Reference:        req.Reference,
		AuthorizationURL: "https://checkout.example.com/" + req.Reference,
	}, nil
}

func (s StubProvider) VerifyDeposit(ctx context.Context, reference string) (bool, error) {
	return strings.HasPrefix(reference, "settled_"), nil
}
