package hdpath

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
)

func TestParseAndString(t *testing.T) {
	tests := []struct {
		in   string
		want Path
	}{
		{"m/44'/0'/0'/0/0", Path{Hardened(44), Hardened(0), Hardened(0), 0, 0}},
		{"44'/0'/0'/0/0", Path{Hardened(44), Hardened(0), Hardened(0), 0, 0}},
		{"m/44h/60h/0h/0/5", Path{Hardened(44), Hardened(60), Hardened(0), 0, 5}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.in, err)
		}
		if len(got) != len(tt.want) {
			t.Fatalf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Parse(%q)[%d] = %d, want %d", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestBIP44PathMatchesParse(t *testing.T) {
	built := BIP44(0, 0, 0, 0)
	parsed, err := Parse("m/44'/0'/0'/0/0")
	if err != nil {
		t.Fatal(err)
	}
	if built.String() != parsed.String() {
		t.Errorf("BIP44 path %s does not match parsed path %s", built, parsed)
	}
	if built.String() != "m/44'/0'/0'/0/0" {
		t.Errorf("got %s", built.String())
	}
}

func TestMasterKeyFromSeedKnownVector(t *testing.T) {
	seed, err := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	if err != nil {
		t.Fatal(err)
	}
	master, err := MasterKeyFromSeed(seed, &chaincfg.MainNetParams)
	if err != nil {
		t.Fatal(err)
	}
	want := "xprv9s21ZrQH143K3QTDL4LXw2F7HEK3wJUD2nW2nRk4stbPy6cq3jPPqjiChkVvvNKmPGJxWUtg6LnF5kejMRNNU3TGtRBeJgk33yuGBxrMPHi"
	if master.String() != want {
		t.Errorf("got %s, want %s", master.String(), want)
	}
}

func TestDeriveProducesPrivateAndPublicKeys(t *testing.T) {
	seed, _ := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	master, err := MasterKeyFromSeed(seed, &chaincfg.MainNetParams)
	if err != nil {
		t.Fatal(err)
	}
	leaf, err := master.Derive(BIP44(0, 0, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	priv, err := leaf.PrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	pub, err := leaf.PublicKey()
	if err != nil {
		t.Fatal(err)
	}
	if len(priv.Bytes()) != 32 {
		t.Errorf("expected 32-byte private key")
	}
	derivedPub := priv.PublicKey()
	if string(derivedPub.Compressed()) != string(pub.Compressed()) {
		t.Errorf("leaf public key does not match the one derived from its own private key")
	}
}

func TestNeuterStripsPrivateKey(t *testing.T) {
	seed, _ := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	master, err := MasterKeyFromSeed(seed, &chaincfg.MainNetParams)
	if err != nil {
		t.Fatal(err)
	}
	neutered, err := master.Neuter()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := neutered.PrivateKey(); err == nil {
		t.Error("expected neutered key to reject PrivateKey()")
	}
}

func TestIsHardened(t *testing.T) {
	if !IsHardened(Hardened(0)) {
		t.Error("expected hardened index to report as hardened")
	}
	if IsHardened(0) {
		t.Error("expected non-hardened index to report as not hardened")
	}
}
