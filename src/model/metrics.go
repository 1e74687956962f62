package model

// FileMetrics summarizes one file. Every field stays at its zero value for
// an empty or unreadable file, or when the rule that fills it is disabled.
type FileMetrics struct {
	// Complexity metrics
	FunctionCount           int     `json:"function_count" yaml:"function_count"`
	MaxCyclomaticComplexity float64 `json:"max_cyclomatic_complexity" yaml:"max_cyclomatic_complexity"`
	AvgCyclomaticComplexity float64 `json:"avg_cyclomatic_complexity" yaml:"avg_cyclomatic_complexity"`
	MaxNestingDepth         int     `json:"max_nesting_depth" yaml:"max_nesting_depth"`

	// Capture and concurrency metrics
	SelfCaptureCount          int `json:"self_capture_count" yaml:"self_capture_count"`
	AsyncOperationCount       int `json:"async_operation_count" yaml:"async_operation_count"`
	ConcurrencyPrimitiveCount int `json:"concurrency_primitive_count" yaml:"concurrency_primitive_count"`

	// Persistence framework usage
	PersistenceOperationCount int `json:"persistence_operation_count" yaml:"persistence_operation_count"`
}
