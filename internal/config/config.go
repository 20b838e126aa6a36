package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all process configuration. Loaded once at startup from the
// environment and immutable afterwards.
type Config struct {
	Environment string
	LogLevel    string

	Engine        Engine
	Exchange      Exchange
	Monitoring    Monitoring
	Notifications Notifications
	Reporting     Reporting

	Instruments []Instrument
}

// Engine holds the signal-engine thresholds shared across instruments.
type Engine struct {
	// Evaluation window
	WindowSize int // bars requested per cycle
	Interval   time.Duration

	// Indicator periods
	EMAFastPeriod    int
	EMASlowPeriod    int
	RSIPeriod        int
	MACDFastPeriod   int
	MACDSlowPeriod   int
	MACDSignalPeriod int
	ATRPeriod        int

	// Structure detection
	SwingStrength      int
	DisplacementFactor float64 // order block: move vs average bar range

	// Confluence scoring
	BaseConfidence      float64
	EventIncrement      float64
	EMABonus            float64
	RSIBonus            float64
	MACDBonus           float64
	RSIMargin           float64 // alignment band around 50
	RSIVetoLevel        float64 // opposite-extreme veto distance from 50
	ConfidenceThreshold float64
	HighQualityLevel    float64

	// Risk planning
	StopBufferATR  float64 // buffer past structure level
	DefaultStopATR float64 // fallback stop distance when no structure
	MinStopATR     float64 // floor on stop distance
	TPCapATR       float64 // target pull-back before opposing structure
	TPMultiples    []float64
	MinRewardRisk  float64
	AccountBalance float64
	RiskPercent    float64

	// Cycle hygiene
	VolatilityLookback int
	SignalCooldown     time.Duration
}

// Exchange holds market-data collaborator credentials.
type Exchange struct {
	APIKey   string
	Secret   string
	Testnet  bool
	Category string // "spot", "linear", "inverse"
	Interval string // kline interval in Bybit notation
}

// Monitoring holds the HTTP surface ports.
type Monitoring struct {
	HealthPort     int
	PrometheusPort int
}

// Notifications holds the Telegram collaborator settings.
type Notifications struct {
	TelegramToken  string
	TelegramChatID string
}

// Reporting holds the signal-journal settings.
type Reporting struct {
	Console   bool
	ExcelPath string
}

// Load reads configuration from the environment, applying defaults for
// everything not set.
func Load() *Config {
	cfg := &Config{
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		Engine: Engine{
			WindowSize: getEnvInt("WINDOW_SIZE", 300),
			Interval:   getEnvDuration("MONITOR_INTERVAL", 15*time.Minute),

			EMAFastPeriod:    getEnvInt("EMA_FAST_PERIOD", 50),
			EMASlowPeriod:    getEnvInt("EMA_SLOW_PERIOD", 200),
			RSIPeriod:        getEnvInt("RSI_PERIOD", 14),
			MACDFastPeriod:   getEnvInt("MACD_FAST_PERIOD", 12),
			MACDSlowPeriod:   getEnvInt("MACD_SLOW_PERIOD", 26),
			MACDSignalPeriod: getEnvInt("MACD_SIGNAL_PERIOD", 9),
			ATRPeriod:        getEnvInt("ATR_PERIOD", 14),

			SwingStrength:      getEnvInt("SWING_STRENGTH", 5),
			DisplacementFactor: getEnvFloat("DISPLACEMENT_FACTOR", 1.5),

			BaseConfidence:      getEnvFloat("BASE_CONFIDENCE", 50),
			EventIncrement:      getEnvFloat("EVENT_INCREMENT", 10),
			EMABonus:            getEnvFloat("EMA_BONUS", 10),
			RSIBonus:            getEnvFloat("RSI_BONUS", 10),
			MACDBonus:           getEnvFloat("MACD_BONUS", 10),
			RSIMargin:           getEnvFloat("RSI_MARGIN", 10),
			RSIVetoLevel:        getEnvFloat("RSI_VETO_LEVEL", 20),
			ConfidenceThreshold: getEnvFloat("CONFIDENCE_THRESHOLD", 75),
			HighQualityLevel:    getEnvFloat("HIGH_QUALITY_LEVEL", 85),

			StopBufferATR:  getEnvFloat("STOP_BUFFER_ATR", 0.3),
			DefaultStopATR: getEnvFloat("DEFAULT_STOP_ATR", 1.5),
			MinStopATR:     getEnvFloat("MIN_STOP_ATR", 0.5),
			TPCapATR:       getEnvFloat("TP_CAP_ATR", 0.2),
			TPMultiples:    getEnvFloats("TP_MULTIPLES", []float64{2.0, 2.5, 3.0}),
			MinRewardRisk:  getEnvFloat("MIN_REWARD_RISK", 2.0),
			AccountBalance: getEnvFloat("ACCOUNT_BALANCE", 10000),
			RiskPercent:    getEnvFloat("RISK_PERCENT", 1.0),

			VolatilityLookback: getEnvInt("VOLATILITY_LOOKBACK", 20),
			SignalCooldown:     getEnvDuration("SIGNAL_COOLDOWN", time.Hour),
		},

		Exchange: Exchange{
			APIKey:   getEnv("BYBIT_API_KEY", ""),
			Secret:   getEnv("BYBIT_API_SECRET", ""),
			Testnet:  getEnvBool("BYBIT_TESTNET", true),
			Category: getEnv("BYBIT_CATEGORY", "linear"),
			Interval: getEnv("BYBIT_INTERVAL", "15"),
		},

		Monitoring: Monitoring{
			HealthPort:     getEnvInt("HEALTH_PORT", 8081),
			PrometheusPort: getEnvInt("PROMETHEUS_PORT", 8080),
		},

		Notifications: Notifications{
			TelegramToken:  getEnv("TELEGRAM_TOKEN", ""),
			TelegramChatID: getEnv("TELEGRAM_CHAT_ID", ""),
		},

		Reporting: Reporting{
			Console:   getEnvBool("REPORT_CONSOLE", true),
			ExcelPath: getEnv("REPORT_EXCEL_PATH", ""),
		},
	}

	cfg.Instruments = loadInstruments()
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvFloats(key string, defaultVal []float64) []float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	parts := strings.Split(val, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return defaultVal
		}
		out = append(out, parsed)
	}
	return out
}
