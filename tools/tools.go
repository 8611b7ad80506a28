// Package tools declares the tool definitions the builder can attach to an
// outgoing chat-completions request.
package tools

import (
	"github.com/invopop/jsonschema"
	"github.com/sashabaranov/go-openai"
)

type ToolDefinition struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
}

// GenerateSchema translates a Go struct into a JSON schema at runtime, giving
// the external API a standard format for the tool's input.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	var v T
	return reflector.Reflect(v)
}

type ReadFileInput struct {
	Path string `json:"path" jsonschema_description:"Relative path of the file to read"`
}

type ExecuteCommandInput struct {
	Command string `json:"command" jsonschema_description:"Shell command to run"`
	Cwd     string `json:"cwd,omitempty" jsonschema_description:"Working directory for the command"`
}

type SearchFilesInput struct {
	Pattern string `json:"pattern" jsonschema_description:"Regular expression to search for"`
	Glob    string `json:"glob,omitempty" jsonschema_description:"Glob restricting which files are searched"`
}

// Builtin returns the definitions offered in the builder's tool picker.
func Builtin() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        "read_file",
			Description: "Read the contents of a file at the given path.",
			InputSchema: GenerateSchema[ReadFileInput](),
		},
		{
			Name:        "execute_command",
			Description: "Run a shell command and return its output.",
			InputSchema: GenerateSchema[ExecuteCommandInput](),
		},
		{
			Name:        "search_files",
			Description: "Search files for a regular expression pattern.",
			InputSchema: GenerateSchema[SearchFilesInput](),
		},
	}
}

// Select filters defs down to the named ones, preserving definition order.
func Select(defs []ToolDefinition, names []string) []ToolDefinition {
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[name] = struct{}{}
	}

	selected := make([]ToolDefinition, 0, len(names))
	for _, def := range defs {
		if _, ok := wanted[def.Name]; ok {
			selected = append(selected, def)
		}
	}
	return selected
}

// ToOpenAI converts definitions into the chat-completions tool representation.
func ToOpenAI(defs []ToolDefinition) []openai.Tool {
	converted := make([]openai.Tool, 0, len(defs))
	for _, def := range defs {
		converted = append(converted, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.InputSchema,
			},
		})
	}
	return converted
}
