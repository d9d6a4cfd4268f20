package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	oneclick "github.com/defuse-protocol/one-click-sdk-go"
)

// Client is a stateless wrapper around the 1Click settlement API: token
// list, quoting (dry or binding), deposit notification and execution
// status.
type Client struct {
	api      *oneclick.APIClient
	jwtToken string
}

// New creates a settlement service client. baseURL overrides the SDK's
// default server when non-empty.
func New(jwtToken, baseURL string) *Client {
	cfg := oneclick.NewConfiguration()
	if baseURL != "" {
		cfg.Servers = oneclick.ServerConfigurations{{URL: baseURL}}
	}

	return &Client{
		api:      oneclick.NewAPIClient(cfg),
		jwtToken: jwtToken,
	}
}

// auth attaches the JWT bearer token to a request context.
func (c *Client) auth(ctx context.Context) context.Context {
	return context.WithValue(ctx, oneclick.ContextAccessToken, c.jwtToken)
}

// GetTokens retrieves the settlement network's published asset list.
func (c *Client) GetTokens(ctx context.Context) ([]oneclick.TokenResponse, error) {
	resp, httpResp, err := c.api.OneClickAPI.GetTokens(c.auth(ctx)).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get tokens: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status code %d", httpResp.StatusCode)
	}

	return resp, nil
}

// GetQuote requests a quote. A dry request is non-binding; a non-dry
// request makes the service issue a per-swap deposit address.
func (c *Client) GetQuote(ctx context.Context, req oneclick.QuoteRequest) (*oneclick.QuoteResponse, error) {
	resp, httpResp, err := c.api.OneClickAPI.GetQuote(c.auth(ctx)).QuoteRequest(req).Execute()
	if err != nil {
		if httpResp != nil {
			defer httpResp.Body.Close()
			return nil, quoteError(httpResp, err)
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, fmt.Errorf("API returned status code %d", httpResp.StatusCode)
	}
	if resp == nil {
		return nil, fmt.Errorf("empty quote response")
	}

	return resp, nil
}

// quoteError extracts the upstream error message from a failed quote
// response body so the user sees the service's reason, not a generic 400.
func quoteError(httpResp *http.Response, err error) error {
	bodyBytes, readErr := io.ReadAll(httpResp.Body)
	if readErr != nil || len(bodyBytes) == 0 {
		return fmt.Errorf("failed to get quote (status %d): %w", httpResp.StatusCode, err)
	}

	var errorResp map[string]interface{}
	if jsonErr := json.Unmarshal(bodyBytes, &errorResp); jsonErr == nil {
		if message, ok := errorResp["message"].(string); ok {
			return fmt.Errorf("API error (status %d): %s", httpResp.StatusCode, message)
		}
		if errors, ok := errorResp["errors"]; ok {
			return fmt.Errorf("API error (status %d): %v", httpResp.StatusCode, errors)
		}
	}
	return fmt.Errorf("API error (status %d): %s", httpResp.StatusCode, string(bodyBytes))
}

// SubmitDepositTx notifies the settlement service of a broadcast deposit
// transaction. The service can also discover deposits by scanning the
// address, so callers may treat failures here as non-fatal.
func (c *Client) SubmitDepositTx(ctx context.Context, txHash, depositAddress string) error {
	req := oneclick.NewSubmitDepositTxRequest(txHash, depositAddress)

	_, httpResp, err := c.api.OneClickAPI.SubmitDepositTx(c.auth(ctx)).SubmitDepositTxRequest(*req).Execute()
	if err != nil {
		return fmt.Errorf("failed to submit deposit: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK && httpResp.StatusCode != http.StatusCreated {
		return fmt.Errorf("API returned status code %d", httpResp.StatusCode)
	}

	return nil
}

// GetExecutionStatus checks the execution status of a swap by its deposit
// address. Side-effect free and safe to poll.
func (c *Client) GetExecutionStatus(ctx context.Context, depositAddress string) (*oneclick.GetExecutionStatusResponse, error) {
	resp, httpResp, err := c.api.OneClickAPI.GetExecutionStatus(c.auth(ctx)).DepositAddress(depositAddress).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status code %d", httpResp.StatusCode)
	}

	return resp, nil
}
