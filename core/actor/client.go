package actor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Caller invokes a method on a canister through some transport, decoding the
// reply into out.
type Caller interface {
	Call(ctx context.Context, canister, method string, arg, out interface{}) error
}

// Client reaches canisters through an HTTP gateway that answers
// POST {gateway}/{canister}/{method} with a {status, msg, data} envelope.
type Client struct {
	gateway string
	hc      *http.Client
	logger  *zap.Logger
}

func NewClient(gateway string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		gateway: strings.TrimRight(gateway, "/"),
		hc:      &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type envelope struct {
	Status bool            `json:"status"`
	Msg    string          `json:"msg"`
	Data   json.RawMessage `json:"data"`
}

func (c *Client) Call(ctx context.Context, canister, method string, arg, out interface{}) error {
	fail := func(err error) error {
		c.logger.Warn("actor call failed",
			zap.String("canister", canister), zap.String("method", method), zap.Error(err))
		return &TransportError{Canister: canister, Method: method, Err: err}
	}
	if arg == nil {
		arg = struct{}{}
	}
	data, err := json.Marshal(arg)
	if err != nil {
		return fmt.Errorf("encode %s.%s argument: %v", canister, method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gateway+"/"+canister+"/"+method, bytes.NewReader(data))
	if err != nil {
		return fail(err)
	}
	req.Header.Set("Content-Type", "application/json")
	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		return fail(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fail(fmt.Errorf("gateway status %d", resp.StatusCode))
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fail(fmt.Errorf("decode reply: %v", err))
	}
	if !env.Status {
		return fail(errors.New(env.Msg))
	}
	c.logger.Debug("actor call",
		zap.String("canister", canister), zap.String("method", method), zap.Duration("took", time.Since(start)))
	if out == nil {
		return nil
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fail(errors.New("reply has no data"))
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fail(fmt.Errorf("decode data: %v", err))
	}
	return nil
}

// Query calls a method whose reply is a plain value.
func Query[T any](ctx context.Context, c Caller, canister, method string, arg interface{}) (T, error) {
	var out T
	err := c.Call(ctx, canister, method, arg, &out)
	return out, err
}

// Update calls a method whose reply is a Result, turning its err branch into
// a *RejectionError.
func Update[T any](ctx context.Context, c Caller, canister, method string, arg interface{}) (T, error) {
	var res Result[T]
	if err := c.Call(ctx, canister, method, arg, &res); err != nil {
		var zero T
		return zero, err
	}
	v, err := res.Unwrap()
	if err != nil {
		var rej *RejectionError
		if errors.As(err, &rej) {
			rej.Canister, rej.Method = canister, method
		}
		return v, err
	}
	return v, nil
}
