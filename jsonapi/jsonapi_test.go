package jsonapi

import (
	"encoding/hex"
	"encoding/json"
	"testing"
)

const rinkebyTestKey = "5a37680b86fabdec299fa02bdfba8c9dfad08d796dc58c1d07527a751905bf71"

// TestProcessEthereumSmokeVector drives the same fixture as
// ethereum.TestSmokeVector end to end through the JSON front door,
// confirming Process produces the identical "0x"-prefixed envelope.
func TestProcessEthereumSmokeVector(t *testing.T) {
	request := map[string]any{
		"blockchain": "ethereum",
		"net_type":   1,
		"account": map[string]any{
			"private_key": rinkebyTestKey,
		},
		"transaction": map[string]any{
			"nonce":    "0",
			"chain_id": 4,
			"fee": map[string]any{
				"gas_price": "1",
				"gas_limit": "21001",
			},
			"sources": []map[string]any{
				{"amount": "7500000000000000000"},
			},
			"destinations": []map[string]any{
				{"address": "hex:d1b48a11e2251555c3c6d8b93e13f9aa2f51ea19", "amount": "1"},
			},
		},
	}
	body, err := json.Marshal(request)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	respBody, err := Process(body)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	var resp Response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	const want = "0xf85f800182520994d1b48a11e2251555c3c6d8b93e13f9aa2f51ea1901802ba033de58162abbfdf1e744f5fee2b7a3c92691d9c59fc3f9ad2fa3fb946c8ea90aa0787abc84d20457c12fdcf62b612247fb34e397f6bdec64fc6a3bc9444df3e946"
	if resp.Transaction.Serialized != want {
		t.Fatalf("serialized mismatch:\n got %s\nwant %s", resp.Transaction.Serialized, want)
	}
}

// TestProcessUnknownBlockchainFails checks an unrecognized blockchain
// name fails before any property work happens.
func TestProcessUnknownBlockchainFails(t *testing.T) {
	request := map[string]any{
		"blockchain": "dogecoin",
		"net_type":   0,
		"account":    map[string]any{"private_key": rinkebyTestKey},
	}
	body, _ := json.Marshal(request)
	if _, err := Process(body); err == nil {
		t.Fatal("expected an error for an unknown blockchain")
	}
}

// TestProcessUnknownPropertyFails checks a property name the chain
// never bound fails with a clear error rather than being silently
// dropped.
func TestProcessUnknownPropertyFails(t *testing.T) {
	request := map[string]any{
		"blockchain": "ethereum",
		"net_type":   1,
		"account":    map[string]any{"private_key": rinkebyTestKey},
		"transaction": map[string]any{
			"nonce":        "0",
			"chain_id":     4,
			"not_a_field":  "oops",
			"sources":      []map[string]any{{"amount": "1"}},
			"destinations": []map[string]any{{"address": "hex:d1b48a11e2251555c3c6d8b93e13f9aa2f51ea19", "amount": "1"}},
		},
	}
	body, _ := json.Marshal(request)
	if _, err := Process(body); err == nil {
		t.Fatal("expected an error for an unbound property name")
	}
}

// TestProcessEosWithTransferBuilder exercises the builder-attachment
// path: an explicit "transfer" builder replaces the transaction's own
// synthesized action, so no top-level source/destination is required.
func TestProcessEosWithTransferBuilder(t *testing.T) {
	priv := hex.EncodeToString(make([]byte, 32))
	request := map[string]any{
		"blockchain": "eos",
		"net_type":   0,
		"account":    map[string]any{"private_key": priv[:63] + "1"},
		"builder": map[string]any{
			"action": "transfer",
			"payload": map[string]any{
				"from":   "alice",
				"to":     "bob",
				"amount": "250",
			},
		},
		"transaction": map[string]any{
			"block_num":          100,
			"ref_block_prefix":   "4294967295",
			"expiration_timestamp": 1700000000,
		},
	}
	body, err := json.Marshal(request)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	respBody, err := Process(body)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	var resp Response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Transaction.Serialized == "" {
		t.Fatal("expected a non-empty serialized envelope")
	}
}
