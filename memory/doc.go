// Package memory holds the conversation state exchanged with the model.
//
// Model:
//   - Message content is either a plain string or an ordered list of blocks.
//   - Only text blocks carry a cache-control marker; tool_use blocks never do.
//   - Tool results are tool-role messages answering a single tool_use id.
//
// Transcripts can be dumped to JSON for inspection; nothing is resumed from them.
package memory
