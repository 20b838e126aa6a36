package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 300, cfg.Engine.WindowSize)
	assert.Equal(t, 15*time.Minute, cfg.Engine.Interval)
	assert.Equal(t, 50, cfg.Engine.EMAFastPeriod)
	assert.Equal(t, 200, cfg.Engine.EMASlowPeriod)
	assert.Equal(t, 5, cfg.Engine.SwingStrength)
	assert.Equal(t, 75.0, cfg.Engine.ConfidenceThreshold)
	assert.Equal(t, []float64{2.0, 2.5, 3.0}, cfg.Engine.TPMultiples)
	assert.Equal(t, time.Hour, cfg.Engine.SignalCooldown)
	assert.Len(t, cfg.Instruments, 4)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("CONFIDENCE_THRESHOLD", "80")
	t.Setenv("MONITOR_INTERVAL", "5m")
	t.Setenv("TP_MULTIPLES", "1.5, 2.0")
	t.Setenv("BYBIT_TESTNET", "false")

	cfg := Load()
	assert.Equal(t, 80.0, cfg.Engine.ConfidenceThreshold)
	assert.Equal(t, 5*time.Minute, cfg.Engine.Interval)
	assert.Equal(t, []float64{1.5, 2.0}, cfg.Engine.TPMultiples)
	assert.False(t, cfg.Exchange.Testnet)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("WINDOW_SIZE", "lots")
	t.Setenv("TP_MULTIPLES", "2.0,banana")

	cfg := Load()
	assert.Equal(t, 300, cfg.Engine.WindowSize)
	assert.Equal(t, []float64{2.0, 2.5, 3.0}, cfg.Engine.TPMultiples)
}

func TestLoadInstruments_SymbolFilter(t *testing.T) {
	t.Setenv("SYMBOLS", "btcusdt, ETHUSDT")

	cfg := Load()
	require.Len(t, cfg.Instruments, 2)
	assert.Equal(t, "BTCUSDT", cfg.Instruments[0].Symbol)
	assert.Equal(t, "ETHUSDT", cfg.Instruments[1].Symbol)
}

func TestLoadInstruments_UnknownSymbolsFallBack(t *testing.T) {
	t.Setenv("SYMBOLS", "DOGEUSDT")

	cfg := Load()
	assert.Len(t, cfg.Instruments, 4)
}

func TestFindInstrument(t *testing.T) {
	cfg := Load()

	inst, ok := cfg.FindInstrument("BTCUSDT")
	require.True(t, ok)
	assert.Equal(t, "Bitcoin", inst.Name)
	assert.Equal(t, AssetCrypto, inst.AssetClass)

	_, ok = cfg.FindInstrument("NOPE")
	assert.False(t, ok)
}

func TestVolatilityThreshold_PerAssetClass(t *testing.T) {
	assert.Equal(t, 0.015, Instrument{AssetClass: AssetForex}.VolatilityThreshold())
	assert.Equal(t, 0.025, Instrument{AssetClass: AssetCommodity}.VolatilityThreshold())
	assert.Equal(t, 0.05, Instrument{AssetClass: AssetCrypto}.VolatilityThreshold())
}
