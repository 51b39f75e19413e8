package tools

import (
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
)

var (
	// ErrUnknownTool is returned by Decode for a name outside the tool set.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrInvalidInput is returned by Decode for malformed or empty arguments.
	ErrInvalidInput = errors.New("invalid tool input")
)

// ToolID identifies one tool of the closed tool set.
type ToolID int

const (
	WikiSearch ToolID = iota + 1
	WikiSummary
)

// String returns the tool name exposed to the model.
func (id ToolID) String() string {
	switch id {
	case WikiSearch:
		return "wiki_search_jp"
	case WikiSummary:
		return "wiki_summary_jp"
	default:
		return fmt.Sprintf("ToolID(%d)", int(id))
	}
}

// Lookup maps a tool name from a tool_use block to its ToolID.
func Lookup(name string) (ToolID, bool) {
	switch name {
	case "wiki_search_jp":
		return WikiSearch, true
	case "wiki_summary_jp":
		return WikiSummary, true
	default:
		return 0, false
	}
}

// ToolDefinition describes a tool to the model.
type ToolDefinition struct {
	ID          ToolID
	Name        string
	Description string
	InputSchema anthropic.ToolInputSchemaParam
}

// Param converts the definition into a Messages API tool parameter.
func (d ToolDefinition) Param() anthropic.ToolUnionParam {
	return anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
		Name:        d.Name,
		Description: anthropic.String(d.Description),
		InputSchema: d.InputSchema,
	}}
}

// GenerateSchema derives an input schema from the exported fields of T.
func GenerateSchema[T any]() anthropic.ToolInputSchemaParam {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	return anthropic.ToolInputSchemaParam{
		Properties: schema.Properties,
		Required:   schema.Required,
	}
}
