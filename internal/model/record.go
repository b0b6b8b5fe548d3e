package model

// RawEvent is one inbound websocket payload as decoded JSON. No field is
// guaranteed to be present or correctly typed.
type RawEvent map[string]any

// MissingValue marks a string field that was absent from the raw event.
const MissingValue = "N/A"

// TokenRecord is the normalized representation of a token creation or trade
// event for storage. Records are immutable once built.
type TokenRecord struct {
	Signature       string  `json:"signature"`
	Mint            string  `json:"mint"`
	TraderPublicKey string  `json:"trader_public_key"`
	TxType          string  `json:"tx_type"`
	InitialBuy      float64 `json:"initial_buy"`
	SolAmount       float64 `json:"sol_amount"`
	BondingCurveKey string  `json:"bonding_curve_key"`
	VTokensInCurve  float64 `json:"v_tokens_in_bonding_curve"`
	VSolInCurve     float64 `json:"v_sol_in_bonding_curve"`
	MarketCapSol    float64 `json:"market_cap_sol"`
	Name            string  `json:"name"`
	Symbol          string  `json:"symbol"`
	MetadataURI     string  `json:"uri"`
	Pool            string  `json:"pool"`
}

// Normalize projects a raw event into a TokenRecord, defaulting every missing
// or mis-typed field. It never fails.
func Normalize(raw RawEvent) TokenRecord {
	return TokenRecord{
		Signature:       stringField(raw, "signature"),
		Mint:            stringField(raw, "mint"),
		TraderPublicKey: stringField(raw, "traderPublicKey"),
		TxType:          stringField(raw, "txType"),
		InitialBuy:      numberField(raw, "initialBuy"),
		SolAmount:       numberField(raw, "solAmount"),
		BondingCurveKey: stringField(raw, "bondingCurveKey"),
		VTokensInCurve:  numberField(raw, "vTokensInBondingCurve"),
		VSolInCurve:     numberField(raw, "vSolInBondingCurve"),
		MarketCapSol:    numberField(raw, "marketCapSol"),
		Name:            stringField(raw, "name"),
		Symbol:          stringField(raw, "symbol"),
		MetadataURI:     stringField(raw, "uri"),
		Pool:            stringField(raw, "pool"),
	}
}

// Valid reports whether the record carries a real transaction signature.
// Subscription acks and other non-event frames normalize to invalid records.
func (r TokenRecord) Valid() bool {
	return r.Signature != MissingValue && r.Signature != ""
}

func stringField(raw RawEvent, key string) string {
	if value, ok := raw[key].(string); ok && value != "" {
		return value
	}
	return MissingValue
}

func numberField(raw RawEvent, key string) float64 {
	switch value := raw[key].(type) {
	case float64:
		return value
	case int:
		return float64(value)
	case int64:
		return float64(value)
	default:
		return 0
	}
}
