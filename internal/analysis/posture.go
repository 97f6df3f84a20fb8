package analysis

import (
	"github.com/pageza/fitcoach/backend/internal/model"
)

// ParsePosture extracts a posture assessment from model output. The returned
// result is always normalized.
func ParsePosture(text string) (model.PostureResult, Source) {
	if root, ok := extractJSONObject(text, postureKeys); ok {
		return NormalizePosture(postureFromJSON(root)), SourceJSON
	}
	if r, ok := postureFromScan(scanText(text)); ok {
		return NormalizePosture(r), SourceFallback
	}
	return model.DefaultPosture(), SourceDefault
}

func postureFromJSON(root object) model.PostureResult {
	r := model.PostureResult{PostureScore: model.DefaultPostureScore}
	if v, ok := root.get("posture_score"); ok {
		if n, ok := toNumber(v); ok {
			r.PostureScore = roundScore(n)
		}
	}
	if v, ok := root.get("posture_issues", "issues"); ok {
		r.PostureIssues = toStrings(v)
	}
	if v, ok := root.get("recommendations", "recs"); ok {
		r.Recommendations = toStrings(v)
	}
	if v, ok := root.get("analysis"); ok {
		r.Analysis, _ = toText(v)
	}
	return r
}

func postureFromScan(root object) (model.PostureResult, bool) {
	r := model.DefaultPosture()
	recovered := false

	if v, ok := root.find(isNumeric, "posture_score"); ok {
		n, _ := toNumber(v)
		r.PostureScore = roundScore(n)
		recovered = true
	}
	if v, ok := root.find(isArray, "posture_issues", "issues"); ok {
		r.PostureIssues = toStrings(v)
		recovered = true
	}
	if v, ok := root.find(isArray, "recommendations", "recs"); ok {
		r.Recommendations = toStrings(v)
		recovered = true
	}
	if v, ok := root.find(isString, "analysis"); ok {
		if s, ok := toText(v); ok {
			r.Analysis = s
			return r, true
		}
	}
	if recovered {
		r.Analysis = model.PosturePartialText
	}
	return r, recovered
}
