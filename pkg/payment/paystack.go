package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// PaystackProvider talks to the Paystack transaction API.
type PaystackProvider struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

func NewPaystackProvider(baseURL, secretKey string, timeout time.Duration) *PaystackProvider {
	return &PaystackProvider{
		baseURL:   baseURL,
		secretKey: secretKey,
		client:    &http.Client{Timeout: timeout},
	}
}

type paystackEnvelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
		Status           string `json:"status"`
	} `json:"data"`
}

func (p *PaystackProvider) InitializeDeposit(ctx context.Context, req DepositRequest) (*DepositResponse, error) {
	if p.secretKey == "" {
		return nil, fmt.Errorf("paystack: secret key not configured")
	}
	body, err := json.Marshal(map[string]interface{}{
		"email":     req.Email,
		"amount":    req.Amount,
		"reference": req.Reference,
	})
	if err != nil {
		return nil, err
	}
	var env paystackEnvelope
	if err := p.do(ctx, http.MethodPost, "/transaction/initialize", bytes.NewReader(body), &env); err != nil {
		return nil, err
	}
	if !env.Status {
		return nil, fmt.Errorf("paystack: initialize declined: %s", env.Message)
	}
	return &DepositResponse{
		Reference:        req.Reference,
		AuthorizationURL: env.Data.AuthorizationURL,
		AccessCode:       env.Data.AccessCode,
	}, nil
}

func (p *PaystackProvider) VerifyDeposit(ctx context.Context, reference string) (bool, error) {
	if p.secretKey == "" {
		return false, fmt.Errorf("paystack: secret key not configured")
	}
	var env paystackEnvelope
	if err := p.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &env); err != nil {
		return false, err
	}
	if !env.Status {
		return false, fmt.Errorf("paystack: verify failed: %s", env.Message)
	}
	return env.Data.Status == "success", nil
}

func (p *PaystackProvider) do(ctx context.Context, method, path string, body *bytes.Reader, out interface{}) error {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, p.baseURL+path, nil)
	}
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("paystack: %w", err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("paystack: decode response: %w", err)
	}
	return nil
}
