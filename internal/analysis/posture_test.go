package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pageza/fitcoach/backend/internal/model"
)

func TestParsePosture_ValidJSONIsReturnedAsIs(t *testing.T) {
	text := `{"posture_score":82,"posture_issues":[],"recommendations":["Stand taller"],"analysis":"Good posture overall."}`

	got, src := ParsePosture(text)

	assert.Equal(t, SourceJSON, src)
	assert.Equal(t, model.PostureResult{
		PostureScore:    82,
		PostureIssues:   []string{},
		Recommendations: []string{"Stand taller"},
		Analysis:        "Good posture overall.",
	}, got)
}

func TestParsePosture_EmbeddedScoreWithoutJSON(t *testing.T) {
	got, src := ParsePosture("The posture looks slouched. posture_score: 35 and the shoulders are rounded")

	assert.Equal(t, SourceFallback, src)
	assert.Equal(t, 35, got.PostureScore)
	assert.Empty(t, got.PostureIssues)
	assert.NotNil(t, got.PostureIssues)
	assert.Empty(t, got.Recommendations)
	assert.NotNil(t, got.Recommendations)
	assert.Equal(t, model.PosturePartialText, got.Analysis)
}

func TestParsePosture_PlainProseGivesDefault(t *testing.T) {
	got, src := ParsePosture("Sorry, I can't see a person in this picture.")

	assert.Equal(t, SourceDefault, src)
	assert.Equal(t, model.DefaultPosture(), got)
}

func TestParsePosture_FallbackOnUnterminatedJSON(t *testing.T) {
	text := `{"posture_score": "72", "posture_issues": ["Forward head", "Rounded shoulders",], "recs": ['Chin tucks', 'Wall angels'], "analysis": "Mild forward head posture."`

	got, src := ParsePosture(text)

	assert.Equal(t, SourceFallback, src)
	assert.Equal(t, model.PostureResult{
		PostureScore:    72,
		PostureIssues:   []string{"Forward head", "Rounded shoulders"},
		Recommendations: []string{"Chin tucks", "Wall angels"},
		Analysis:        "Mild forward head posture.",
	}, got)
}

func TestParsePosture_KeyAliasesIgnoreCase(t *testing.T) {
	text := "Posture_Score: 64\nIssues: [\"Anterior pelvic tilt\"]\nRECOMMENDATIONS: [\"Glute bridges\"]"

	got, src := ParsePosture(text)

	assert.Equal(t, SourceFallback, src)
	assert.Equal(t, 64, got.PostureScore)
	assert.Equal(t, []string{"Anterior pelvic tilt"}, got.PostureIssues)
	assert.Equal(t, []string{"Glute bridges"}, got.Recommendations)
}

func TestParsePosture_ApostropheDoesNotSwallowFields(t *testing.T) {
	got, _ := ParsePosture("Here's the result: posture_score: 61")

	assert.Equal(t, 61, got.PostureScore)
}

func TestParsePosture_ScoreIsRoundedAndClamped(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{`{"posture_score": 82.6}`, 83},
		{`{"posture_score": 140}`, 100},
		{`{"posture_score": -5}`, 0},
		{`{"posture_score": "great"}`, 50},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, src := ParsePosture(tt.text)
			assert.Equal(t, SourceJSON, src)
			assert.Equal(t, tt.want, got.PostureScore)
		})
	}
}

func TestParsePosture_JSONMissingFieldsAreFilled(t *testing.T) {
	got, src := ParsePosture(`{"posture_score": 90}`)

	assert.Equal(t, SourceJSON, src)
	assert.Equal(t, model.PostureResult{
		PostureScore:    90,
		PostureIssues:   []string{},
		Recommendations: []string{},
		Analysis:        model.PosturePartialText,
	}, got)
}

func TestNormalizePosture_Idempotent(t *testing.T) {
	inputs := []model.PostureResult{
		{},
		{PostureScore: 250, PostureIssues: []string{" ", "Slouching "}, Analysis: " ok "},
		model.FailedPosture(),
		model.DefaultPosture(),
	}

	for _, in := range inputs {
		once := NormalizePosture(in)
		assert.Equal(t, once, NormalizePosture(once))
		assert.NotNil(t, once.PostureIssues)
		assert.NotNil(t, once.Recommendations)
		assert.NotEmpty(t, once.Analysis)
		assert.GreaterOrEqual(t, once.PostureScore, 0)
		assert.LessOrEqual(t, once.PostureScore, 100)
	}
}

func TestParsePosture_TruncatedObjectIgnoresNestedSpans(t *testing.T) {
	text := `{"posture_score": 70, "details": {"analysis": "neck"}, "posture_issues": ["forward head"`

	got, src := ParsePosture(text)

	assert.Equal(t, SourceFallback, src)
	assert.Equal(t, 70, got.PostureScore)
	assert.Equal(t, []string{"forward head"}, got.PostureIssues)
	assert.Empty(t, got.Recommendations)
}

func TestParsePosture_ProseIsNotAList(t *testing.T) {
	got, src := ParsePosture("Issues: none that I can see. The photo is blurry.")

	assert.Equal(t, SourceDefault, src)
	assert.Equal(t, model.DefaultPosture(), got)
}

func TestParsePosture_LoneStringListInJSON(t *testing.T) {
	got, src := ParsePosture(`{"posture_score": 55, "posture_issues": "Slouching", "recommendations": ["Sit upright"]}`)

	assert.Equal(t, SourceJSON, src)
	assert.Equal(t, []string{"Slouching"}, got.PostureIssues)
}

func TestParsePosture_PhraseKeyNeedsQuotedText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		src      Source
		analysis string
	}{
		{"sentence", "I could not finish the analysis: the photo is too dark.", SourceDefault, model.DefaultPosture().Analysis},
		{"quoted", `Overall analysis: "Shoulders are level."`, SourceFallback, "Shoulders are level."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, src := ParsePosture(tt.text)
			assert.Equal(t, tt.src, src)
			assert.Equal(t, tt.analysis, got.Analysis)
		})
	}
}
