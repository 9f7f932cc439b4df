package httpapi

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Request bodies are validated against JSON Schemas before decoding, so the
// engine never sees pathological wizard data (zero study days, zero-length
// sessions). That is a boundary concern, not the scheduler's.

const scheduleRequestSchema = `{
	"type": "object",
	"required": ["user_id", "subject", "wizard"],
	"properties": {
		"user_id": {"type": "string", "minLength": 1},
		"subject": {"type": "string", "minLength": 1},
		"topics": {
			"type": "array",
			"items": {"type": "string", "minLength": 1}
		},
		"wizard": {
			"type": "object",
			"required": ["target_grade", "exam_timeline", "study_minutes_per_session", "study_days_per_week"],
			"properties": {
				"target_grade": {"enum": ["grade_1", "grade_2", "grade_3"]},
				"proficiency_level": {"type": "string"},
				"topic_confidence": {
					"type": "object",
					"additionalProperties": {
						"enum": ["no_exposure", "struggling", "some_knowledge", "confident"]
					}
				},
				"exam_timeline": {"enum": ["may_june", "january", "no_exam"]},
				"study_minutes_per_session": {"type": "integer", "minimum": 1},
				"study_days_per_week": {"type": "integer", "minimum": 1, "maximum": 7},
				"learning_style": {"type": "string"}
			}
		}
	}
}`

const progressPutSchema = `{
	"type": "object",
	"required": ["user_id", "subject", "record"],
	"properties": {
		"user_id": {"type": "string", "minLength": 1},
		"subject": {"type": "string", "minLength": 1},
		"record": {
			"type": "object",
			"required": ["topic"],
			"properties": {
				"topic": {"type": "string", "minLength": 1},
				"coaching_completed": {"type": "boolean"},
				"practice_completed": {"type": "boolean"},
				"exam_completed": {"type": "boolean"}
			}
		}
	}
}`

var (
	compiledScheduleSchema = mustCompileSchema(scheduleRequestSchema)
	compiledProgressSchema = mustCompileSchema(progressPutSchema)
)

func mustCompileSchema(raw string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("invalid request schema: %v", err))
	}
	return schema
}

// validateBody checks raw JSON against a compiled schema and returns a
// human-readable error listing every violation.
func validateBody(schema *gojsonschema.Schema, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
