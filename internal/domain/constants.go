package domain

// Acceptance thresholds. Changing any of these changes which patterns are accepted
// and which rules may fire, so bump ThresholdsVersion together with them.
const (
	ThresholdsVersion = 1

	// MinimumDataPoints is the smallest sample a pattern may be accepted on.
	MinimumDataPoints = 10
	// SignificanceThreshold is the largest p-value a pattern may be accepted with.
	SignificanceThreshold = 0.05
	// MinimumPatternOccurrences is how often an event type must have occurred
	// before it is scanned for an event-triggered effect.
	MinimumPatternOccurrences = 3

	// DefaultConfidenceThreshold separates active rules from inactive ones.
	DefaultConfidenceThreshold = 0.6
	// HardConfidenceFloor is the non-negotiable gate for insight creation. It is
	// distinct from Configuration.MinimumConfidence, which can only be set higher.
	HardConfidenceFloor = 0.7
	// HighPriorityThreshold is the confidence at which an intense event makes an insight critical.
	HighPriorityThreshold = 0.8
	// HighIntensityThreshold is the event intensity considered "high".
	HighIntensityThreshold = 0.7
)

const (
	DefaultEventWindowHours     = 48
	DefaultRetentionDays        = 365
	MinRetentionDays            = 7
	DefaultRevalidationDays     = 7
	DefaultAnalysisLookbackDays = 180
)
