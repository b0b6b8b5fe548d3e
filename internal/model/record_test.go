package model

import (
	"encoding/json"
	"testing"
)

func TestNormalizeFullEvent(t *testing.T) {
	payload := []byte(`{
		"signature": "sig1",
		"mint": "mintA",
		"traderPublicKey": "trader1",
		"txType": "create",
		"initialBuy": 2000,
		"solAmount": 0.5,
		"bondingCurveKey": "curve1",
		"vTokensInBondingCurve": 1000000,
		"vSolInBondingCurve": 30,
		"marketCapSol": 50,
		"name": "Token",
		"symbol": "TKN",
		"uri": "https://meta/x",
		"pool": "pump"
	}`)

	var raw RawEvent
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	got := Normalize(raw)
	want := TokenRecord{
		Signature:       "sig1",
		Mint:            "mintA",
		TraderPublicKey: "trader1",
		TxType:          "create",
		InitialBuy:      2000,
		SolAmount:       0.5,
		BondingCurveKey: "curve1",
		VTokensInCurve:  1000000,
		VSolInCurve:     30,
		MarketCapSol:    50,
		Name:            "Token",
		Symbol:          "TKN",
		MetadataURI:     "https://meta/x",
		Pool:            "pump",
	}

	if got != want {
		t.Fatalf("record mismatch: %+v != %+v", got, want)
	}
}

func TestNormalizeEmptyEvent(t *testing.T) {
	got := Normalize(RawEvent{})

	if got.Signature != MissingValue {
		t.Fatalf("signature default mismatch: %q", got.Signature)
	}
	if got.Mint != MissingValue || got.Name != MissingValue || got.Pool != MissingValue {
		t.Fatalf("string defaults mismatch: %+v", got)
	}
	if got.InitialBuy != 0 || got.SolAmount != 0 || got.MarketCapSol != 0 {
		t.Fatalf("number defaults mismatch: %+v", got)
	}
	if got.Valid() {
		t.Fatalf("empty event must normalize to an invalid record")
	}
}

func TestNormalizeMistypedFields(t *testing.T) {
	raw := RawEvent{
		"signature":    42,
		"mint":         nil,
		"initialBuy":   "not a number",
		"solAmount":    true,
		"marketCapSol": map[string]any{},
	}

	got := Normalize(raw)
	if got.Signature != MissingValue {
		t.Fatalf("mis-typed signature should default, got %q", got.Signature)
	}
	if got.InitialBuy != 0 || got.SolAmount != 0 || got.MarketCapSol != 0 {
		t.Fatalf("mis-typed numbers should default to zero: %+v", got)
	}
}

func TestValid(t *testing.T) {
	if (TokenRecord{Signature: MissingValue}).Valid() {
		t.Fatalf("N/A signature must be invalid")
	}
	if (TokenRecord{Signature: ""}).Valid() {
		t.Fatalf("empty signature must be invalid")
	}
	if !(TokenRecord{Signature: "sig"}).Valid() {
		t.Fatalf("real signature must be valid")
	}
}

func TestRowMatchesHeader(t *testing.T) {
	rec := Normalize(RawEvent{"signature": "sig", "solAmount": 0.25})
	row := rec.Row()

	if len(row) != len(Header()) {
		t.Fatalf("row length %d != header length %d", len(row), len(Header()))
	}
	if row[0] != "sig" {
		t.Fatalf("signature column mismatch: %q", row[0])
	}
	if row[5] != "0.25" {
		t.Fatalf("sol amount column mismatch: %q", row[5])
	}
	if row[4] != "0" {
		t.Fatalf("initial buy default mismatch: %q", row[4])
	}
}
