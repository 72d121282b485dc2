// Package schema checks the shape of task documents written to the embedded store.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed task.schema.json
var taskSchemaJSON []byte

const taskSchemaURL = "task.schema.json"

var (
	compileOnce sync.Once
	taskSchema  *jsonschema.Schema
	compileErr  error
)

// DocumentError reports the first schema violation found in a document.
type DocumentError struct {
	Path    string
	Message string
}

func (e *DocumentError) Error() string {
	if e.Path == "" {
		return "invalid task document: " + e.Message
	}
	return fmt.Sprintf("invalid task document at %s: %s", e.Path, e.Message)
}

func compiled() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(taskSchemaURL, bytes.NewReader(taskSchemaJSON)); err != nil {
			compileErr = fmt.Errorf("add task schema: %w", err)
			return
		}
		taskSchema, compileErr = compiler.Compile(taskSchemaURL)
	})
	return taskSchema, compileErr
}

// ValidateTask checks raw JSON against the task document schema.
func ValidateTask(data []byte) error {
	s, err := compiled()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return &DocumentError{Message: "malformed JSON: " + err.Error()}
	}

	if err := s.Validate(doc); err != nil {
		return toDocumentError(err)
	}
	return nil
}

func toDocumentError(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return &DocumentError{Message: err.Error()}
	}
	leaf := firstLeaf(ve)
	return &DocumentError{
		Path:    strings.TrimPrefix(leaf.InstanceLocation, "/"),
		Message: leaf.Message,
	}
}

func firstLeaf(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}
