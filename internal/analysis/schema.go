// Package analysis holds everything that depends on the shape of the model's
// answer: the per-mode schema, the prompt that asks for it, the parser that
// finds it in a completion, and the normalizer that repairs it.
package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"alfredoptarigan/ats-analyzer/internal/models"
)

// Temperature is fixed low so the model keeps to the requested JSON format.
const Temperature float32 = 0.2

const (
	FieldMatchPercentage     = "match_percentage"
	FieldStrengths           = "strengths"
	FieldAreasForImprovement = "areas_for_improvement"
	FieldMissingKeywords     = "missing_keywords"
	FieldRecommendations     = "recommendations"
	FieldSummary             = "summary"

	FieldTechnicalSkills = "technical_skills"
	FieldSoftSkills      = "soft_skills"
	FieldQualifications  = "qualifications"
	FieldExperience      = "experience"
	FieldOtherKeywords   = "other_keywords"
)

type FieldKind int

const (
	KindPercentage FieldKind = iota
	KindList
	KindText
)

// Field is one key of the JSON object the model is asked to return.
// Placeholder is what the prompt shows as the field's value.
type Field struct {
	Name        string
	Kind        FieldKind
	Placeholder string
}

type Schema struct {
	Mode      models.Mode
	Fields    []Field
	MaxTokens int
}

var schemas = map[models.Mode]Schema{
	models.ModeFullAnalysis: {
		Mode:      models.ModeFullAnalysis,
		MaxTokens: 2000,
		Fields: []Field{
			{Name: FieldMatchPercentage, Kind: KindPercentage, Placeholder: "<percentage as integer>"},
			{Name: FieldStrengths, Kind: KindList, Placeholder: "<list of strengths>"},
			{Name: FieldAreasForImprovement, Kind: KindList, Placeholder: "<list of areas for improvement>"},
			{Name: FieldMissingKeywords, Kind: KindList, Placeholder: "<list of missing keywords>"},
			{Name: FieldRecommendations, Kind: KindList, Placeholder: "<list of recommendations>"},
			{Name: FieldSummary, Kind: KindText, Placeholder: "<brief summary paragraph>"},
		},
	},
	models.ModeKeywordExtraction: {
		Mode:      models.ModeKeywordExtraction,
		MaxTokens: 1000,
		Fields: []Field{
			{Name: FieldTechnicalSkills, Kind: KindList, Placeholder: "<list of technical skills>"},
			{Name: FieldSoftSkills, Kind: KindList, Placeholder: "<list of soft skills>"},
			{Name: FieldQualifications, Kind: KindList, Placeholder: "<list of qualifications>"},
			{Name: FieldExperience, Kind: KindList, Placeholder: "<list of experience requirements>"},
			{Name: FieldOtherKeywords, Kind: KindList, Placeholder: "<list of other important keywords>"},
		},
	},
}

func SchemaFor(mode models.Mode) (Schema, error) {
	s, ok := schemas[mode]
	if !ok {
		return Schema{}, fmt.Errorf("no schema for mode %q", mode)
	}
	return s, nil
}

// Skeleton renders the JSON structure shown to the model, one field per line.
func (s Schema) Skeleton() string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for i, f := range s.Fields {
		var value string
		switch f.Kind {
		case KindList:
			value = "[" + f.Placeholder + "]"
		case KindText:
			value = `"` + f.Placeholder + `"`
		default:
			value = f.Placeholder
		}
		sb.WriteString(fmt.Sprintf("    %q: %s", f.Name, value))
		if i < len(s.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// JSONSchema derives a JSON Schema document from the field list.
func (s Schema) JSONSchema() string {
	properties := make(map[string]any, len(s.Fields))
	required := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		switch f.Kind {
		case KindPercentage:
			properties[f.Name] = map[string]any{"type": "integer", "minimum": 0, "maximum": 100}
		case KindList:
			properties[f.Name] = map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
		case KindText:
			properties[f.Name] = map[string]any{"type": "string"}
		}
		required = append(required, f.Name)
	}

	doc := map[string]any{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
	b, _ := json.Marshal(doc)
	return string(b)
}

var (
	compileOnce sync.Once
	compiled    map[models.Mode]*gojsonschema.Schema
	compileErr  error
)

func compiledSchema(mode models.Mode) (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled = make(map[models.Mode]*gojsonschema.Schema, len(schemas))
		for m, s := range schemas {
			cs, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s.JSONSchema()))
			if err != nil {
				compileErr = fmt.Errorf("failed to compile %s schema: %w", m, err)
				return
			}
			compiled[m] = cs
		}
	})
	if compileErr != nil {
		return nil, compileErr
	}
	cs, ok := compiled[mode]
	if !ok {
		return nil, fmt.Errorf("no schema for mode %q", mode)
	}
	return cs, nil
}
