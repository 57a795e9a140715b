package models

// TickerRecord is one row of the ticker universe.
type TickerRecord struct {
	Symbol      string `json:"ticker"`       // canonical uppercase, unique
	CompanyName string `json:"company_name"` // e.g., "Apple Inc."
}

// DefaultTickers is the built-in universe written out when no ticker file exists.
var DefaultTickers = []TickerRecord{
	{Symbol: "AAPL", CompanyName: "Apple Inc."},
	{Symbol: "MSFT", CompanyName: "Microsoft Corporation"},
	{Symbol: "GOOGL", CompanyName: "Alphabet Inc."},
	{Symbol: "AMZN", CompanyName: "Amazon.com Inc."},
	{Symbol: "FB", CompanyName: "Meta Platforms Inc."},
	{Symbol: "TSLA", CompanyName: "Tesla Inc."},
	{Symbol: "JPM", CompanyName: "JPMorgan Chase & Co."},
	{Symbol: "V", CompanyName: "Visa Inc."},
	{Symbol: "PG", CompanyName: "Procter & Gamble Co."},
	{Symbol: "WMT", CompanyName: "Walmart Inc."},
}
