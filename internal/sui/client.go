package sui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"
)

// ErrObjectConflict is returned when a transaction references a coin
// object that is no longer owned or was consumed by a concurrent
// transaction between selection and execution.
var ErrObjectConflict = errors.New("coin object no longer available")

// Client speaks the Sui fullnode JSON-RPC protocol.
type Client struct {
	rpcURL     string
	httpClient *http.Client
}

// NewClient creates a new Sui client with the given fullnode RPC URL.
func NewClient(rpcURL string) *Client {
	return &Client{
		rpcURL: rpcURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type ownedObjectsPage struct {
	Data []struct {
		Data struct {
			ObjectID string `json:"objectId"`
			Content  struct {
				DataType string `json:"dataType"`
				Fields   struct {
					Balance string `json:"balance"`
				} `json:"fields"`
			} `json:"content"`
		} `json:"data"`
	} `json:"data"`
	HasNextPage bool    `json:"hasNextPage"`
	NextCursor  *string `json:"nextCursor"`
}

type coinMetadata struct {
	Decimals int    `json:"decimals"`
	Symbol   string `json:"symbol"`
}

type executeResult struct {
	Digest  string `json:"digest"`
	Effects struct {
		Status struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		} `json:"status"`
	} `json:"effects"`
}

type transactionBlock struct {
	Digest     string `json:"digest"`
	Checkpoint string `json:"checkpoint,omitempty"`
}

func (c *Client) call(ctx context.Context, method string, params []any, out any) error {
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("sui: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("sui: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sui: failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sui: unexpected status code: %d", resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("sui: failed to decode response: %w", err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("sui: RPC error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}

	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return fmt.Errorf("sui: failed to unmarshal %s result: %w", method, err)
	}
	return nil
}

// GetOwnedCoins returns all coin objects of coinType owned by owner, in
// the order the fullnode reports them. The result is a read-only snapshot;
// nothing is locked or reserved.
func (c *Client) GetOwnedCoins(ctx context.Context, owner, coinType string) ([]CoinObject, error) {
	var out []CoinObject
	var cursor *string

	for {
		query := map[string]any{
			"filter":  map[string]any{"StructType": coinType},
			"options": map[string]any{"showContent": true},
		}

		var page ownedObjectsPage
		err := c.call(ctx, "suix_getOwnedObjects", []any{owner, query, cursor, nil}, &page)
		if err != nil {
			return nil, fmt.Errorf("failed to get owned objects: %w", err)
		}

		for _, obj := range page.Data {
			if obj.Data.Content.DataType != "moveObject" {
				continue
			}
			balance, ok := new(big.Int).SetString(obj.Data.Content.Fields.Balance, 10)
			if !ok {
				return nil, fmt.Errorf("failed to parse balance of object %s: %q",
					obj.Data.ObjectID, obj.Data.Content.Fields.Balance)
			}
			out = append(out, CoinObject{
				ID:      ObjectID(obj.Data.ObjectID),
				Balance: balance,
			})
		}

		if !page.HasNextPage || page.NextCursor == nil {
			return out, nil
		}
		cursor = page.NextCursor
	}
}

// GetCoinDecimals fetches the coin's base-unit decimal scale from its
// on-chain metadata.
func (c *Client) GetCoinDecimals(ctx context.Context, coinType string) (int, error) {
	var meta coinMetadata
	err := c.call(ctx, "suix_getCoinMetadata", []any{coinType}, &meta)
	if err != nil {
		return 0, fmt.Errorf("failed to get coin metadata: %w", err)
	}
	return meta.Decimals, nil
}

// ExecuteTransactionBlock submits signed transaction bytes and returns the
// transaction digest. Execution failures caused by a referenced object
// having been consumed concurrently are reported as ErrObjectConflict.
func (c *Client) ExecuteTransactionBlock(ctx context.Context, txBytes, signature string) (string, error) {
	var result executeResult
	err := c.call(ctx, "sui_executeTransactionBlock", []any{
		txBytes,
		[]string{signature},
		map[string]any{"showEffects": true},
		"WaitForLocalExecution",
	}, &result)
	if err != nil {
		if isConflictReason(err.Error()) {
			return "", fmt.Errorf("%w: %v", ErrObjectConflict, err)
		}
		return "", fmt.Errorf("failed to execute transaction block: %w", err)
	}

	if result.Effects.Status.Status != "success" {
		reason := result.Effects.Status.Error
		if isConflictReason(reason) {
			return "", fmt.Errorf("%w: %s", ErrObjectConflict, reason)
		}
		return "", fmt.Errorf("transaction %s failed on chain: %s", result.Digest, reason)
	}

	return result.Digest, nil
}

// WaitForCheckpoint polls until the transaction is included in a
// checkpoint, i.e. finalized. It returns only after confirmation is
// observed or the context is done.
func (c *Client) WaitForCheckpoint(ctx context.Context, digest string) error {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		var block transactionBlock
		err := c.call(ctx, "sui_getTransactionBlock", []any{
			digest,
			map[string]any{"showEffects": false},
		}, &block)
		if err == nil && block.Checkpoint != "" {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("gave up waiting for checkpoint of %s: %w", digest, ctx.Err())
		case <-ticker.C:
		}
	}
}

func isConflictReason(reason string) bool {
	for _, marker := range []string{
		"ObjectVersionUnavailableForConsumption",
		"not available for consumption",
		"is owned by account address",
		"ObjectNotFound",
	} {
		if strings.Contains(reason, marker) {
			return true
		}
	}
	return false
}
