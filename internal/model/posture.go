package model

// PostureResult is the structured outcome of a posture image analysis.
type PostureResult struct {
	PostureScore    int      `json:"posture_score"`
	PostureIssues   []string `json:"posture_issues"`
	Recommendations []string `json:"recommendations"`
	Analysis        string   `json:"analysis"`
}

const (
	DefaultPostureScore = 50
	MinPostureScore     = 0
	MaxPostureScore     = 100
)

const (
	PostureUnanalyzedText     = "Could not analyze posture."
	PosturePartialText        = "Could not analyze posture in detail."
	PostureCallFailureText    = "Could not analyze the posture image. Please try again with a clearer photo showing your full body posture."
	PostureCallFailureMessage = "Failed to analyze posture image"
)

// DefaultPosture returns the result used when the model answer held nothing usable.
func DefaultPosture() PostureResult {
	return PostureResult{
		PostureScore:    DefaultPostureScore,
		PostureIssues:   []string{},
		Recommendations: []string{},
		Analysis:        PostureUnanalyzedText,
	}
}

// FailedPosture returns the result served when the model could not be reached.
func FailedPosture() PostureResult {
	return PostureResult{
		PostureScore:    DefaultPostureScore,
		PostureIssues:   []string{"Unable to analyze image"},
		Recommendations: []string{"Try again with a clearer photo"},
		Analysis:        PostureCallFailureText,
	}
}
