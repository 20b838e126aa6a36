package config

import (
	"os"
	"strings"
)

// AssetClass groups instruments that share sizing and volatility rules.
type AssetClass string

const (
	AssetForex     AssetClass = "forex"
	AssetCommodity AssetClass = "commodity"
	AssetCrypto    AssetClass = "crypto"
)

// Instrument holds the static per-symbol parameters. Loaded once, shared
// read-only across cycles.
type Instrument struct {
	Symbol        string
	Name          string
	AssetClass    AssetClass
	PipSize       float64 // smallest quoted increment
	TickValue     float64 // account-currency value of one pip per lot
	ATRMultiplier float64
	FVGThreshold  float64 // minimum gap size for a fair value gap
	Emoji         string
}

// VolatilityThreshold returns the maximum acceptable trailing close-to-close
// volatility for the instrument's asset class.
func (i Instrument) VolatilityThreshold() float64 {
	switch i.AssetClass {
	case AssetForex:
		return 0.015
	case AssetCommodity:
		return 0.025
	case AssetCrypto:
		return 0.05
	default:
		return 0.02
	}
}

var defaultInstruments = []Instrument{
	{
		Symbol:        "BTCUSDT",
		Name:          "Bitcoin",
		AssetClass:    AssetCrypto,
		PipSize:       0.1,
		TickValue:     0.1,
		ATRMultiplier: 1.5,
		FVGThreshold:  5.0,
		Emoji:         "₿",
	},
	{
		Symbol:        "ETHUSDT",
		Name:          "Ethereum",
		AssetClass:    AssetCrypto,
		PipSize:       0.01,
		TickValue:     0.01,
		ATRMultiplier: 1.5,
		FVGThreshold:  0.5,
		Emoji:         "Ξ",
	},
	{
		Symbol:        "SOLUSDT",
		Name:          "Solana",
		AssetClass:    AssetCrypto,
		PipSize:       0.001,
		TickValue:     0.001,
		ATRMultiplier: 1.5,
		FVGThreshold:  0.05,
		Emoji:         "◎",
	},
	{
		Symbol:        "XAUTUSDT",
		Name:          "Gold (XAUT)",
		AssetClass:    AssetCommodity,
		PipSize:       0.01,
		TickValue:     0.01,
		ATRMultiplier: 1.0,
		FVGThreshold:  0.5,
		Emoji:         "🥇",
	},
}

// loadInstruments returns the instrument table. SYMBOLS narrows the default
// table to a comma-separated subset; unknown symbols are ignored.
func loadInstruments() []Instrument {
	raw := os.Getenv("SYMBOLS")
	if raw == "" {
		return defaultInstruments
	}

	wanted := make(map[string]bool)
	for _, s := range strings.Split(raw, ",") {
		wanted[strings.ToUpper(strings.TrimSpace(s))] = true
	}

	var out []Instrument
	for _, inst := range defaultInstruments {
		if wanted[inst.Symbol] {
			out = append(out, inst)
		}
	}
	if len(out) == 0 {
		return defaultInstruments
	}
	return out
}

// FindInstrument looks up an instrument by symbol.
func (c *Config) FindInstrument(symbol string) (Instrument, bool) {
	for _, inst := range c.Instruments {
		if inst.Symbol == symbol {
			return inst, true
		}
	}
	return Instrument{}, false
}
