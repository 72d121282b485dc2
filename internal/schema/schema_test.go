package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTask_Accepts(t *testing.T) {
	docs := []string{
		`{"title":"A","status":"pending","priority":"low","category":"Development","startDate":"2024-01-01","startTime":"09:00","dueDate":"2024-01-02","dueTime":"18:00:00","tags":["x"]}`,
		`{"title":"partial"}`,
		`{"title":"timestamp date","startDate":"2024-01-01T09:00:00Z","tags":null}`,
		`{"title":"unknown fields pass through","color":"red"}`,
		`{"id":7,"title":"numeric id"}`,
	}
	for _, doc := range docs {
		assert.NoError(t, ValidateTask([]byte(doc)), doc)
	}
}

func TestValidateTask_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path string
	}{
		{"not an object", `[1,2]`, ""},
		{"bad status", `{"status":"done"}`, "status"},
		{"title type", `{"title":7}`, "title"},
		{"bad date", `{"dueDate":"01/02/2024"}`, "dueDate"},
		{"bad clock", `{"startTime":"25:00"}`, "startTime"},
		{"tag type", `{"tags":["a",1]}`, "tags/1"},
		{"id type", `{"id":true}`, "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTask([]byte(tt.doc))
			require.Error(t, err)

			var docErr *DocumentError
			require.True(t, errors.As(err, &docErr))
			assert.Equal(t, tt.path, docErr.Path)
		})
	}
}

func TestValidateTask_MalformedJSON(t *testing.T) {
	err := ValidateTask([]byte(`{"title":`))

	var docErr *DocumentError
	require.True(t, errors.As(err, &docErr))
	assert.Contains(t, docErr.Message, "malformed JSON")
}
