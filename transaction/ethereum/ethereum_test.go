package ethereum

import (
	"encoding/hex"
	"testing"

	"github.com/ledgerflow/walletcore/account"
	"github.com/ledgerflow/walletcore/bigint"
	"github.com/ledgerflow/walletcore/primitive"
)

func mustPrivateKey(t *testing.T, hexKey string) *primitive.PrivateKey {
	t.Helper()
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		t.Fatalf("decode hex: %v", err)
	}
	priv, err := primitive.PrivateKeyFromBytes(raw)
	if err != nil {
		t.Fatalf("private key from bytes: %v", err)
	}
	return priv
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	raw, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("decode hex: %v", err)
	}
	return raw
}

func mustAmount(t *testing.T, s string) *bigint.Int {
	t.Helper()
	v, err := bigint.FromDecimalString(s)
	if err != nil {
		t.Fatalf("parse amount: %v", err)
	}
	return v
}

const rinkebyTestKey = "5a37680b86fabdec299fa02bdfba8c9dfad08d796dc58c1d07527a751905bf71"

// TestSmokeVector reproduces EthereumTransactionTest.SmokeTest_public_api
// from the original test suite: a zero-nonce, zero-data, single-wei
// transfer on the Rinkeby chain id. The expected bytes are the same ones
// spec.md §8 scenario 3 truncates with "…".
func TestSmokeVector(t *testing.T) {
	priv := mustPrivateKey(t, rinkebyTestKey)
	tx := New(priv, account.NetTestnet)

	txProps := tx.TransactionProperties()
	if err := txProps.SetProperty("nonce", mustAmount(t, "0")); err != nil {
		t.Fatalf("set nonce: %v", err)
	}
	if err := txProps.SetProperty("chain_id", int32(4)); err != nil {
		t.Fatalf("set chain_id: %v", err)
	}

	srcProps, err := tx.AddSource()
	if err != nil {
		t.Fatalf("AddSource: %v", err)
	}
	if err := srcProps.SetProperty("amount", mustAmount(t, "7500000000000000000")); err != nil {
		t.Fatalf("set source amount: %v", err)
	}

	dstProps, err := tx.AddDestination()
	if err != nil {
		t.Fatalf("AddDestination: %v", err)
	}
	if err := dstProps.SetProperty("address", mustHex(t, "d1b48a11e2251555c3c6d8b93e13f9aa2f51ea19")); err != nil {
		t.Fatalf("set address: %v", err)
	}
	if err := dstProps.SetProperty("amount", mustAmount(t, "1")); err != nil {
		t.Fatalf("set destination amount: %v", err)
	}

	feeProps, err := tx.Fee()
	if err != nil {
		t.Fatalf("Fee: %v", err)
	}
	if err := feeProps.SetProperty("gas_price", mustAmount(t, "1")); err != nil {
		t.Fatalf("set gas_price: %v", err)
	}
	if err := feeProps.SetProperty("gas_limit", mustAmount(t, "21001")); err != nil {
		t.Fatalf("set gas_limit: %v", err)
	}

	serialized, err := tx.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	want := mustHex(t, "f85f800182520994d1b48a11e2251555c3c6d8b93e13f9aa2f51ea1901802ba033de58162abbfdf1e744f5fee2b7a3c92691d9c59fc3f9ad2fa3fb946c8ea90aa0787abc84d20457c12fdcf62b612247fb34e397f6bdec64fc6a3bc9444df3e946")
	if hex.EncodeToString(serialized) != hex.EncodeToString(want) {
		t.Fatalf("serialized mismatch:\n got %x\nwant %x", serialized, want)
	}
}

// buildTx constructs and signs a transaction from the shared fixture
// private key with the given nonce/chain id/value/gas parameters.
func buildTx(t *testing.T, nonce, chainID, gasPrice, gasLimit, value string, chainIDInt int32, payload []byte) *Transaction {
	t.Helper()
	priv := mustPrivateKey(t, rinkebyTestKey)
	tx := New(priv, account.NetTestnet)

	txProps := tx.TransactionProperties()
	if err := txProps.SetProperty("nonce", mustAmount(t, nonce)); err != nil {
		t.Fatalf("set nonce: %v", err)
	}
	if err := txProps.SetProperty("chain_id", chainIDInt); err != nil {
		t.Fatalf("set chain_id: %v", err)
	}
	if payload != nil {
		if err := txProps.SetProperty("payload", payload); err != nil {
			t.Fatalf("set payload: %v", err)
		}
	}

	if _, err := tx.AddSource(); err != nil {
		t.Fatalf("AddSource: %v", err)
	}

	dstProps, err := tx.AddDestination()
	if err != nil {
		t.Fatalf("AddDestination: %v", err)
	}
	if err := dstProps.SetProperty("address", mustHex(t, "d1b48a11e2251555c3c6d8b93e13f9aa2f51ea19")); err != nil {
		t.Fatalf("set address: %v", err)
	}
	if err := dstProps.SetProperty("amount", mustAmount(t, value)); err != nil {
		t.Fatalf("set destination amount: %v", err)
	}

	feeProps, err := tx.Fee()
	if err != nil {
		t.Fatalf("Fee: %v", err)
	}
	if err := feeProps.SetProperty("gas_price", mustAmount(t, gasPrice)); err != nil {
		t.Fatalf("set gas_price: %v", err)
	}
	if err := feeProps.SetProperty("gas_limit", mustAmount(t, gasLimit)); err != nil {
		t.Fatalf("set gas_limit: %v", err)
	}
	return tx
}

// TestLargeValueAndGasPrice reproduces SmokeTest_testnet2: a nonzero
// nonce and large gas price / value, exercising minimal big-endian
// integer encoding for multi-byte RLP fields.
func TestLargeValueAndGasPrice(t *testing.T) {
	tx := buildTx(t, "4", "4", "64424509440", "21001", "2305843009213693952", 4, nil)
	serialized, err := tx.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	want := mustHex(t, "f86c04850f0000000082520994d1b48a11e2251555c3c6d8b93e13f9aa2f51ea19882000000000000000802ba0098ee502619d5ba29d66b6c510265142f46ee0399456be7afb63ceefac0bd17ea07c19cc4145471b31f90af07f554611ac535cd006f64fb2141f1ed7bea7150386")
	if hex.EncodeToString(serialized) != hex.EncodeToString(want) {
		t.Fatalf("serialized mismatch:\n got %x\nwant %x", serialized, want)
	}
}

// TestPayloadIncluded reproduces SmokeTest_testnet_withdata: a non-empty
// data field alongside a small value.
func TestPayloadIncluded(t *testing.T) {
	tx := buildTx(t, "3", "4", "3000000000000", "121000", "1000", 4, mustHex(t, "ffff"))
	serialized, err := tx.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	want := mustHex(t, "f86a038602ba7def30008301d8a894d1b48a11e2251555c3c6d8b93e13f9aa2f51ea198203e882ffff2ca0122bf1a37f949f0fc34354ca737eec7fd654e2172ecf893497d6e8356217512da05f01213f5d1c25d4b55e8c7219e572f92b00ec74a2662ae93c45928eb5133942")
	if hex.EncodeToString(serialized) != hex.EncodeToString(want) {
		t.Fatalf("serialized mismatch:\n got %x\nwant %x", serialized, want)
	}
}

// TestSerializeIsDeterministic checks that re-running Serialize on the
// same transaction yields identical bytes (spec.md §8's determinism
// invariant).
func TestSerializeIsDeterministic(t *testing.T) {
	tx := buildTx(t, "0", "4", "1", "21001", "1", 4, nil)
	first, err := tx.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	second, err := tx.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if hex.EncodeToString(first) != hex.EncodeToString(second) {
		t.Fatalf("serialize is not deterministic: %x vs %x", first, second)
	}
}

// TestAddSourceAddDestinationLimitedToOne verifies a second source or
// destination fails with the TooMany* error.
func TestAddSourceAddDestinationLimitedToOne(t *testing.T) {
	priv := mustPrivateKey(t, rinkebyTestKey)
	tx := New(priv, account.NetTestnet)
	if _, err := tx.AddSource(); err != nil {
		t.Fatalf("first AddSource: %v", err)
	}
	if _, err := tx.AddSource(); err == nil {
		t.Fatal("expected second AddSource to fail")
	}
	if _, err := tx.AddDestination(); err != nil {
		t.Fatalf("first AddDestination: %v", err)
	}
	if _, err := tx.AddDestination(); err == nil {
		t.Fatal("expected second AddDestination to fail")
	}
}

// TestTotalFeeAndSpent checks TotalFee/TotalSpent arithmetic.
func TestTotalFeeAndSpent(t *testing.T) {
	tx := buildTx(t, "0", "4", "2", "21000", "100", 4, nil)
	totalFee, err := tx.TotalFee()
	if err != nil {
		t.Fatalf("TotalFee: %v", err)
	}
	if totalFee.DecimalString() != "42000" {
		t.Fatalf("total fee = %s, want 42000", totalFee.DecimalString())
	}
	totalSpent, err := tx.TotalSpent()
	if err != nil {
		t.Fatalf("TotalSpent: %v", err)
	}
	if totalSpent.DecimalString() != "42100" {
		t.Fatalf("total spent = %s, want 42100", totalSpent.DecimalString())
	}
}

// TestEstimateTotalFeeIgnoresCounts checks that, unlike Bitcoin, the
// estimate doesn't scale with source/destination counts.
func TestEstimateTotalFeeIgnoresCounts(t *testing.T) {
	tx := buildTx(t, "0", "4", "5", "21000", "1", 4, nil)
	est1, err := tx.EstimateTotalFee(1, 1)
	if err != nil {
		t.Fatalf("EstimateTotalFee(1,1): %v", err)
	}
	est5, err := tx.EstimateTotalFee(5, 5)
	if err != nil {
		t.Fatalf("EstimateTotalFee(5,5): %v", err)
	}
	if est1.Cmp(est5) != 0 {
		t.Fatalf("estimate should not depend on counts: %s vs %s", est1.DecimalString(), est5.DecimalString())
	}
	if est1.DecimalString() != "105000" {
		t.Fatalf("estimate = %s, want 105000", est1.DecimalString())
	}
}
