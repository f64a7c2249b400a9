package editor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/p455555555/x-spreadsheet/pkg/xsheet/models"
)

// sheetSchema describes editor data: a sheet object or an array of them.
// Unknown keys are allowed because the editor stores row heights, styles
// and similar settings next to the cells.
const sheetSchema = `{
  "definitions": {
    "cell": {
      "type": "object",
      "properties": {
        "text": {"type": ["string", "number", "boolean", "null"]},
        "merge": {
          "type": "array",
          "items": {"type": "integer", "minimum": 0},
          "minItems": 2,
          "maxItems": 2
        }
      }
    },
    "row": {
      "type": "object",
      "properties": {
        "cells": {
          "type": "object",
          "patternProperties": {"^[0-9]+$": {"$ref": "#/definitions/cell"}}
        }
      }
    },
    "sheet": {
      "type": "object",
      "properties": {
        "name": {"type": "string"},
        "rows": {
          "type": "object",
          "properties": {"len": {"type": "integer", "minimum": 0}},
          "patternProperties": {"^[0-9]+$": {"$ref": "#/definitions/row"}}
        },
        "merges": {
          "type": "array",
          "items": {"type": "string", "pattern": "^[A-Z]+[0-9]+(:[A-Z]+[0-9]+)?$"}
        }
      },
      "required": ["rows"]
    }
  },
  "oneOf": [
    {"$ref": "#/definitions/sheet"},
    {"type": "array", "items": {"$ref": "#/definitions/sheet"}}
  ]
}`

var (
	compiledOnce   sync.Once
	compiledSchema *gojsonschema.Schema
	compileErr     error
)

func schema() (*gojsonschema.Schema, error) {
	compiledOnce.Do(func() {
		compiledSchema, compileErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(sheetSchema))
	})
	return compiledSchema, compileErr
}

// SchemaError lists the problems found in editor data.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "editor data validation failed: " + strings.Join(e.Problems, "; ")
}

// Validate checks editor JSON against the sheet schema.
func Validate(data []byte) error {
	s, err := schema()
	if err != nil {
		return fmt.Errorf("failed to compile editor schema: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return &models.FormatError{Err: err}
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return &SchemaError{Problems: problems}
	}
	return nil
}

// Decode validates editor JSON and unmarshals it. A single sheet object is
// returned as a one-element slice.
func Decode(data []byte) ([]models.EditorSheet, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var sheet models.EditorSheet
		if err := json.Unmarshal(trimmed, &sheet); err != nil {
			return nil, err
		}
		return []models.EditorSheet{sheet}, nil
	}

	var sheets []models.EditorSheet
	if err := json.Unmarshal(trimmed, &sheets); err != nil {
		return nil, err
	}
	return sheets, nil
}
