// Package analysis turns free-form generative model output into structured
// nutrition and posture results. Parsing never fails: when the text holds no
// usable JSON a tolerant scanner recovers what it can and the normalizers fill
// every remaining field with a safe default.
package analysis

// Source reports which stage produced a parsed result.
type Source string

const (
	// SourceJSON means a JSON object in the text was decoded directly.
	SourceJSON Source = "json"
	// SourceFallback means fields were recovered by the tolerant scanner.
	SourceFallback Source = "fallback"
	// SourceDefault means nothing was recoverable and the safe default was used.
	SourceDefault Source = "default"
)

var (
	nutritionKeys = []string{"calorie_data", "total_calories", "analysis"}
	postureKeys   = []string{"posture_score", "posture_issues", "issues", "recommendations", "recs", "analysis"}
)
