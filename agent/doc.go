// Package agent answers profile queries by letting the model search and
// summarize Japanese Wikipedia.
//
// A Run seeds the conversation with the system prompt and the query, then
// alternates model steps and tool execution until the model replies without
// requesting a tool. The conversation lives only for the duration of a Run.
package agent
