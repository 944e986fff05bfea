package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/txsociety/tonbridge/pkg/core"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"
)

const sendTransactionMethod = "ton_sendTransaction"

const defaultAttempts = 3

// ErrNotDelivered means the request never reached the wallet.
var ErrNotDelivered = errors.New("transaction not delivered")

// Client passes transactions to an external wallet that signs and broadcasts them.
type Client struct {
	client   *http.Client
	url      string
	attempts int
	backoff  time.Duration
}

type rpcRequest struct {
	Method string                    `json:"method"`
	Params []core.TransactionRequest `json:"params"`
}

func NewClient(endpoint string) (*Client, error) {
	_, err := url.ParseRequestURI(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %s", endpoint)
	}
	return &Client{
		client:   &http.Client{Timeout: 10 * time.Second},
		url:      endpoint,
		attempts: defaultAttempts,
		backoff:  time.Second,
	}, nil
}

// SendTransaction delivers tx to the wallet once. A failed request is repeated
// only while the connection to the wallet can not be established, any other
// failure may mean the wallet already broadcast tx.
func (c *Client) SendTransaction(ctx context.Context, tx core.TransactionRequest) error {
	jsonData, err := json.Marshal(rpcRequest{
		Method: sendTransactionMethod,
		Params: []core.TransactionRequest{tx},
	})
	if err != nil {
		return err
	}
	for i := 1; i <= c.attempts; i++ {
		err = c.doRequest(ctx, jsonData)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrNotDelivered) {
			return err
		}
		slog.Info("transaction sending", "to", tx.To, "attempt", i, "error", err.Error())
		if i == c.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.backoff * time.Duration(i)):
		}
	}
	return fmt.Errorf("attempts to send a transaction ended: %w", err)
}

func (c *Client) doRequest(ctx context.Context, body []byte) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json; charset=UTF-8")
	response, err := c.client.Do(request)
	if err != nil && isDialError(err) {
		return fmt.Errorf("%w: %w", ErrNotDelivered, err)
	} else if err != nil {
		return fmt.Errorf("transaction sending error: %w", err)
	}
	defer func() {
		err := response.Body.Close()
		if err != nil {
			slog.Error("response body close", "error", err.Error())
		}
	}()
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return nil
	}
	return fmt.Errorf("wallet response status: %v", response.Status)
}

func isDialError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
