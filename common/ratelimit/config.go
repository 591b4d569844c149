package ratelimit

// Operation classes for rate limiting. Intake and review mutate registry
// state and get tighter limits than read-only listing traffic.
type Operation string

const (
	OpRead   Operation = "read"
	OpIntake Operation = "intake"
	OpReview Operation = "review"
)

// OperationConfig defines rate limits for each operation class
type OperationConfig struct {
	Operation     Operation
	Limit         int64  // Requests allowed per window
	WindowSeconds int    // Time window in seconds
	Description   string // Human-readable description
}

// Default operation configurations
var DefaultOperationConfigs = map[Operation]OperationConfig{
	OpRead: {
		Operation:     OpRead,
		Limit:         300,
		WindowSeconds: 60,
		Description:   "Listing and lookup endpoints - 300 requests/minute",
	},
	OpIntake: {
		Operation:     OpIntake,
		Limit:         10,
		WindowSeconds: 60,
		Description:   "Land registration submissions - 10 requests/minute per wallet",
	},
	OpReview: {
		Operation:     OpReview,
		Limit:         60,
		WindowSeconds: 60,
		Description:   "Admin review actions - 60 requests/minute per reviewer",
	},
}

// GlobalConfig contains global service-wide limits
type GlobalConfig struct {
	Limit         int64 // Total requests per window (all wallets)
	WindowSeconds int   // Time window
}

// Default global configuration
var DefaultGlobalConfig = GlobalConfig{
	Limit:         1000,
	WindowSeconds: 60,
}

// GetLimitForOperation returns the rate limit for a given operation class
func GetLimitForOperation(op Operation) int64 {
	if config, exists := DefaultOperationConfigs[op]; exists {
		return config.Limit
	}
	// Fallback to the most restrictive class
	return DefaultOperationConfigs[OpIntake].Limit
}

// GetWindowForOperation returns the time window for a given operation class
func GetWindowForOperation(op Operation) int {
	if config, exists := DefaultOperationConfigs[op]; exists {
		return config.WindowSeconds
	}
	return DefaultOperationConfigs[OpIntake].WindowSeconds
}
