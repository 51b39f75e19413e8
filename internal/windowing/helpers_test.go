package windowing_test

import (
	"encoding/json"

	"github.com/petasbytes/wikiseek/memory"
)

// Text block constructor
func T(text string) memory.Block { return memory.TextBlock(text) }

// Marked text block constructor
func TM(text string) memory.Block {
	return memory.Block{Kind: memory.KindText, Text: text, CacheControl: memory.Ephemeral()}
}

// Tool-use block constructor
func TU(id string) memory.Block {
	return memory.ToolUseBlock(id, "wiki_search_jp", json.RawMessage(`{"query":"x"}`))
}

// Assistant message constructor
func Asst(blocks ...memory.Block) memory.Message { return memory.Assistant(blocks...) }

// User message constructor
func User(blocks ...memory.Block) memory.Message {
	return memory.Message{Role: memory.RoleUser, Content: memory.BlockList(blocks...)}
}

// Tool result constructor (string content)
func Tool(id, s string) memory.Message { return memory.ToolResult(id, s, false) }

// markedIndices returns the indices of messages with at least one marked block.
func markedIndices(msgs []memory.Message) []int {
	var out []int
	for i, m := range msgs {
		for _, b := range m.Content.Blocks() {
			if b.Cached() {
				out = append(out, i)
				break
			}
		}
	}
	return out
}
