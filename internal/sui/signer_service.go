package sui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Signer turns a typed transaction intent into signed transaction bytes.
// The bridge never inspects raw signing material; key custody stays with
// the wallet service behind this interface.
type Signer interface {
	SignTransaction(ctx context.Context, tx TransactionData) (txBytes, signature string, err error)
}

// WalletSigner implements Signer against a wallet service that owns the
// sender's key and the BCS transaction encoding.
type WalletSigner struct {
	walletURL  string
	httpClient *http.Client
}

// NewWalletSigner creates a Signer backed by the wallet service at walletURL.
func NewWalletSigner(walletURL string) *WalletSigner {
	return &WalletSigner{
		walletURL: walletURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type signRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      int               `json:"id"`
	Method  string            `json:"method"`
	Params  []TransactionData `json:"params"`
}

type signResponse struct {
	Result *signResult `json:"result,omitempty"`
	Error  *rpcError   `json:"error,omitempty"`
}

type signResult struct {
	TxBytes   string `json:"txBytes"`
	Signature string `json:"signature"`
}

// SignTransaction asks the wallet to build and sign the transaction,
// returning base64 transaction bytes and signature.
func (s *WalletSigner) SignTransaction(ctx context.Context, tx TransactionData) (string, string, error) {
	reqBody := signRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "wallet_signTransactionBlock",
		Params:  []TransactionData{tx},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", "", fmt.Errorf("sui: failed to marshal sign request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.walletURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", "", fmt.Errorf("sui: failed to create sign request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("sui: failed to reach wallet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("sui: wallet returned status %d", resp.StatusCode)
	}

	var signResp signResponse
	if err := json.NewDecoder(resp.Body).Decode(&signResp); err != nil {
		return "", "", fmt.Errorf("sui: failed to decode wallet response: %w", err)
	}
	if signResp.Error != nil {
		return "", "", fmt.Errorf("sui: wallet error %d: %s", signResp.Error.Code, signResp.Error.Message)
	}
	if signResp.Result == nil || signResp.Result.TxBytes == "" || signResp.Result.Signature == "" {
		return "", "", fmt.Errorf("sui: wallet returned empty signing result")
	}

	return signResp.Result.TxBytes, signResp.Result.Signature, nil
}
