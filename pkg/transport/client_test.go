package transport

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/stretchr/testify/require"
	"github.com/txsociety/tonbridge/pkg/core"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestSendTransaction(t *testing.T) {
	var body []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json; charset=UTF-8", r.Header.Get("Content-Type"))
		var err error
		body, err = io.ReadAll(r.Body)
		require.NoError(t, err)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)
	err = client.SendTransaction(context.Background(), core.TransactionRequest{
		To:       "EQAAAA",
		Value:    "1000",
		Data:     []byte{0xb5, 0xee},
		DataType: core.BocDataType,
	})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	require.Equal(t, "ton_sendTransaction", got["method"])
	params := got["params"].([]any)
	require.Len(t, params, 1)
	require.Equal(t, map[string]any{
		"to":       "EQAAAA",
		"value":    "1000",
		"data":     "te4=",
		"dataType": "boc",
	}, params[0])
}

// failingDials makes the first n connection attempts fail before reaching the server.
func failingDials(client *Client, n int32) *atomic.Int32 {
	var dials atomic.Int32
	dialer := &net.Dialer{}
	client.client.Transport = &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			if dials.Add(1) <= n {
				return nil, &net.OpError{Op: "dial", Net: network, Err: errors.New("connection refused")}
			}
			return dialer.DialContext(ctx, network, addr)
		},
	}
	return &dials
}

func TestSendTransactionRetriesDial(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NotEmpty(t, b)
		calls.Add(1)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)
	client.backoff = time.Millisecond
	dials := failingDials(client, 2)
	require.NoError(t, client.SendTransaction(context.Background(), core.TransactionRequest{To: "x"}))
	require.Equal(t, int32(3), dials.Load())
	require.Equal(t, int32(1), calls.Load())
}

func TestSendTransactionDialFails(t *testing.T) {
	client, err := NewClient("http://127.0.0.1:1")
	require.NoError(t, err)
	client.backoff = time.Millisecond
	dials := failingDials(client, defaultAttempts)
	err = client.SendTransaction(context.Background(), core.TransactionRequest{To: "x"})
	require.ErrorIs(t, err, ErrNotDelivered)
	require.Equal(t, int32(defaultAttempts), dials.Load())
}

func TestSendTransactionNoResend(t *testing.T) {
	tests := []struct {
		name    string
		handler func(w http.ResponseWriter, r *http.Request)
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(time.Second):
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				tt.handler(w, r)
			}))
			defer server.Close()

			client, err := NewClient(server.URL)
			require.NoError(t, err)
			client.backoff = time.Millisecond
			client.client.Timeout = 50 * time.Millisecond
			err = client.SendTransaction(context.Background(), core.TransactionRequest{To: "x"})
			require.Error(t, err)
			require.NotErrorIs(t, err, ErrNotDelivered)
			require.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestNewClientInvalidURL(t *testing.T) {
	_, err := NewClient("not a url")
	require.Error(t, err)
}
