package model

import "strconv"

// Header returns the column names of the tabular log, in storage order.
func Header() []string {
	return []string{
		"Signature",
		"Mint",
		"Trader Public Key",
		"Transaction Type",
		"Initial Buy",
		"SOL Amount",
		"Bonding Curve Key",
		"vTokens In Bonding Curve",
		"vSol In Bonding Curve",
		"Market Cap (SOL)",
		"Token Name",
		"Symbol",
		"Metadata URI",
		"Pool",
	}
}

// Row renders the record as one tabular data row matching Header.
func (r TokenRecord) Row() []string {
	return []string{
		r.Signature,
		r.Mint,
		r.TraderPublicKey,
		r.TxType,
		formatNumber(r.InitialBuy),
		formatNumber(r.SolAmount),
		r.BondingCurveKey,
		formatNumber(r.VTokensInCurve),
		formatNumber(r.VSolInCurve),
		formatNumber(r.MarketCapSol),
		r.Name,
		r.Symbol,
		r.MetadataURI,
		r.Pool,
	}
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
