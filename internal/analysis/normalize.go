package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"alfredoptarigan/ats-analyzer/internal/models"
)

// Normalize turns a parsed model payload into the stable result shape for the
// mode. It never fails: missing or mistyped fields get empty defaults and the
// percentage is clamped into [0,100]. Every deviation from the schema is
// listed in Result.Issues. Modes other than keyword extraction are treated as
// full analysis.
func Normalize(parsed map[string]any, mode models.Mode) *models.Result {
	if mode != models.ModeKeywordExtraction {
		mode = models.ModeFullAnalysis
	}

	result := &models.Result{
		Mode:   mode,
		Issues: schemaIssues(parsed, mode),
	}

	if mode == models.ModeKeywordExtraction {
		result.Keywords = &models.KeywordResult{
			TechnicalSkills: listValue(parsed[FieldTechnicalSkills]),
			SoftSkills:      listValue(parsed[FieldSoftSkills]),
			Qualifications:  listValue(parsed[FieldQualifications]),
			Experience:      listValue(parsed[FieldExperience]),
			OtherKeywords:   listValue(parsed[FieldOtherKeywords]),
		}
		return result
	}

	result.Analysis = &models.AnalysisResult{
		MatchPercentage:     percentageValue(parsed[FieldMatchPercentage]),
		Strengths:           listValue(parsed[FieldStrengths]),
		AreasForImprovement: listValue(parsed[FieldAreasForImprovement]),
		MissingKeywords:     listValue(parsed[FieldMissingKeywords]),
		Recommendations:     listValue(parsed[FieldRecommendations]),
		Summary:             textValue(parsed[FieldSummary]),
	}
	return result
}

func schemaIssues(parsed map[string]any, mode models.Mode) []string {
	schema, err := compiledSchema(mode)
	if err != nil {
		return []string{fmt.Sprintf("schema validation unavailable: %v", err)}
	}

	if parsed == nil {
		parsed = map[string]any{}
	}

	res, err := schema.Validate(gojsonschema.NewGoLoader(parsed))
	if err != nil {
		return []string{fmt.Sprintf("schema validation unavailable: %v", err)}
	}
	if res.Valid() {
		return nil
	}

	issues := make([]string, 0, len(res.Errors()))
	for _, desc := range res.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		issues = append(issues, fmt.Sprintf("%s: %s", field, desc.Description()))
	}
	sort.Strings(issues)
	return issues
}

func percentageValue(v any) int {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(val), "%")), 64)
		// Out-of-range input comes back as ±Inf and is clamped below
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0
		}
		f = parsed
	default:
		return 0
	}

	if math.IsNaN(f) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, f))))
}

func listValue(v any) []string {
	switch val := v.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if item == nil {
				continue
			}
			out = append(out, scalarString(item))
		}
		return out
	case string:
		if strings.TrimSpace(val) == "" {
			return []string{}
		}
		return []string{val}
	default:
		return []string{}
	}
}

func textValue(v any) string {
	switch v.(type) {
	case string, float64, bool:
		return scalarString(v)
	default:
		return ""
	}
}

func scalarString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}
