// Package windowing prepares the message window sent on each model call.
//
// The window is the full conversation with its prompt-cache boundary moved
// to the newest message:
//   - the newest message has every text block marked ephemeral
//   - messages between the system prompt and the newest lose their markers
//   - the system prompt at index 0 keeps the marker it was built with
//
// Preparation never mutates its input; each call derives the boundary from
// the current position, so repeated preparation is stable.
package windowing
