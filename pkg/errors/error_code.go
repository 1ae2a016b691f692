package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidOrder         ErrorCode = 102
	ErrCodeInvalidTick          ErrorCode = 103
	ErrCodeInvalidVersion       ErrorCode = 104

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeNoTrades              ErrorCode = 203

	// Strategy errors (300-399)
	ErrCodeStrategyNotFound     ErrorCode = 300
	ErrCodeStrategyConfigError  ErrorCode = 301
	ErrCodeStrategyRuntimeError ErrorCode = 302

	// Account errors (400-499)
	ErrCodeOrderRejected ErrorCode = 400

	// Backtest errors (500-599)
	ErrCodeBacktestConfigError   ErrorCode = 500
	ErrCodeBacktestDataPathError ErrorCode = 501
	ErrCodeBacktestNoResultsDir  ErrorCode = 502
	ErrCodeVersionMismatch       ErrorCode = 503

	// Report errors (600-699)
	ErrCodeReportWriteFailed ErrorCode = 600
)
