package windowing

import (
	"unicode/utf8"

	"github.com/petasbytes/wikiseek/memory"
)

// TokenCounter estimates input-token cost for messages.
type TokenCounter interface {
	CountMessage(m memory.Message) int
}

// HeuristicCounter is the default deterministic estimator.
// Rules:
// - text: rune count of the text
// - tool_use: byte length of the raw JSON input plus the tool name runes
// - string content counts as a single text block
// Every block adds a small fixed overhead.
type HeuristicCounter struct{}

// Fixed per-block overhead; changing this requires updating the counter tests.
const blockOverhead = 4

func (HeuristicCounter) CountMessage(m memory.Message) int {
	if !m.Content.IsList() {
		return utf8.RuneCountInString(m.Content.Text()) + blockOverhead
	}
	total := 0
	for _, b := range m.Content.Blocks() {
		total += countBlock(b)
	}
	return total
}

func countBlock(b memory.Block) int {
	switch b.Kind {
	case memory.KindText:
		return utf8.RuneCountInString(b.Text) + blockOverhead
	case memory.KindToolUse:
		if b.ToolCall == nil {
			return blockOverhead
		}
		return len(b.ToolCall.Input) + utf8.RuneCountInString(b.ToolCall.Name) + blockOverhead
	default:
		return blockOverhead
	}
}
