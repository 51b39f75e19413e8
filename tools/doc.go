// Package tools defines the tools offered to the model and their dispatch.
//
// Includes:
//   - ToolID: the closed set of tools (wiki_search_jp, wiki_summary_jp).
//   - ToolDefinition: name, description, JSON input schema.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - Decode: raw tool_use input -> typed Call; Dispatcher: Call -> result text.
//   - Invariants: decoding errors are the model's to fix; execution errors
//     (transport, malformed upstream) are returned to the caller unchanged.
package tools
