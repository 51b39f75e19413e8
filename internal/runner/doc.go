// Package runner performs one model step of the conversation loop against the
// Anthropic Messages API and executes the tool calls it returns.
//
// Invariant:
//   - every tool_use in a reply is answered by exactly one tool-role message,
//     in request order, before the next model call.
//
// Flow:
//
//	system, user(query) -> assistant(tool_use...) -> tool(result...) -> assistant(text)
package runner
