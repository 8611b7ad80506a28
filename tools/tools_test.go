package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSchema(t *testing.T) {
	schema := GenerateSchema[ReadFileInput]()

	require.NotNil(t, schema)
	prop, ok := schema.Properties.Get("path")
	require.True(t, ok)
	assert.Equal(t, "string", prop.Type)
	assert.Contains(t, schema.Required, "path")
}

func TestBuiltin(t *testing.T) {
	defs := Builtin()

	require.Len(t, defs, 3)
	for _, def := range defs {
		assert.NotEmpty(t, def.Name)
		assert.NotEmpty(t, def.Description)
		assert.NotNil(t, def.InputSchema)
	}
}

func TestSelect(t *testing.T) {
	defs := Builtin()

	selected := Select(defs, []string{"search_files", "read_file"})

	require.Len(t, selected, 2)
	// Definition order wins over request order.
	assert.Equal(t, "read_file", selected[0].Name)
	assert.Equal(t, "search_files", selected[1].Name)

	assert.Empty(t, Select(defs, nil))
	assert.Empty(t, Select(defs, []string{"unknown_tool"}))
}

func TestToOpenAI(t *testing.T) {
	converted := ToOpenAI(Builtin()[:1])

	require.Len(t, converted, 1)
	assert.Equal(t, "read_file", converted[0].Function.Name)
	assert.NotNil(t, converted[0].Function.Parameters)
}
