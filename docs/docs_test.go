package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDoc(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var spec struct {
		BasePath    string                     `json:"basePath"`
		Paths       map[string]json.RawMessage `json:"paths"`
		Definitions map[string]json.RawMessage `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &spec))

	assert.Equal(t, "/api", spec.BasePath)
	for _, path := range []string{"/pathfind", "/edits", "/network-gaps"} {
		assert.Contains(t, spec.Paths, path)
	}
	assert.Contains(t, spec.Definitions, "rest.PathfindRequest")
	assert.Contains(t, spec.Definitions, "rest.ErrResponse")
}
