package postgres

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNullableJSON(t *testing.T) {
	tests := []struct {
		name string
		data json.RawMessage
		want interface{}
	}{
		{"absent", nil, nil},
		{"json null", json.RawMessage(`null`), nil},
		{"padded null", json.RawMessage(" null "), nil},
		{"array", json.RawMessage(`[[0.1,0.2]]`), []byte(`[[0.1,0.2]]`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nullableJSON(tt.data))
		})
	}
}
