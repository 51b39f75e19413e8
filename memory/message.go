package memory

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

type BlockKind string

const (
	KindText    BlockKind = "text"
	KindToolUse BlockKind = "tool_use"
)

// CacheControl marks the end of a cacheable prompt prefix.
type CacheControl struct {
	Type string `json:"type"`
}

// Ephemeral returns a fresh ephemeral marker.
func Ephemeral() *CacheControl { return &CacheControl{Type: "ephemeral"} }

// ToolCall is a tool-call request issued by the model.
type ToolCall struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input,omitempty"`
}

// Block is one element of a block-list content.
// A nil CacheControl means no marker; cleared markers are removed, not nulled.
type Block struct {
	Kind         BlockKind     `json:"type"`
	Text         string        `json:"text,omitempty"`
	CacheControl *CacheControl `json:"cache_control,omitempty"`
	ToolCall     *ToolCall     `json:"tool_call,omitempty"`
}

// TextBlock returns a text block without a cache marker.
func TextBlock(text string) Block { return Block{Kind: KindText, Text: text} }

// ToolUseBlock returns a block carrying a tool-call request.
func ToolUseBlock(id, name string, input json.RawMessage) Block {
	return Block{Kind: KindToolUse, ToolCall: &ToolCall{ID: id, Name: name, Input: input}}
}

// Cached reports whether the block carries an active marker.
func (b Block) Cached() bool { return b.CacheControl != nil }

func (b Block) clone() Block {
	out := b
	if b.CacheControl != nil {
		cc := *b.CacheControl
		out.CacheControl = &cc
	}
	if b.ToolCall != nil {
		tc := *b.ToolCall
		tc.Input = append(json.RawMessage(nil), b.ToolCall.Input...)
		out.ToolCall = &tc
	}
	return out
}

// Content is either a plain string or a block list. The zero value is an
// empty plain string.
type Content struct {
	text   string
	blocks []Block
	list   bool
}

// PlainText returns string content.
func PlainText(s string) Content { return Content{text: s} }

// BlockList returns block-list content. A call with no blocks is still a list.
func BlockList(blocks ...Block) Content {
	return Content{blocks: append([]Block{}, blocks...), list: true}
}

// IsList reports whether the content is a block list.
func (c Content) IsList() bool { return c.list }

// Text returns the plain string for string content, or the concatenated
// text blocks of a block list.
func (c Content) Text() string {
	if !c.list {
		return c.text
	}
	var buf bytes.Buffer
	for _, b := range c.blocks {
		if b.Kind != KindText || b.Text == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(b.Text)
	}
	return buf.String()
}

// Blocks returns a copy of the block list (nil for string content).
func (c Content) Blocks() []Block {
	if !c.list {
		return nil
	}
	out := make([]Block, len(c.blocks))
	for i, b := range c.blocks {
		out[i] = b.clone()
	}
	return out
}

// ToolCalls returns the tool-call requests contained in the blocks, in order.
func (c Content) ToolCalls() []ToolCall {
	var out []ToolCall
	for _, b := range c.blocks {
		if b.Kind == KindToolUse && b.ToolCall != nil {
			out = append(out, *b.ToolCall)
		}
	}
	return out
}

func (c Content) MarshalJSON() ([]byte, error) {
	if !c.list {
		return json.Marshal(c.text)
	}
	if c.blocks == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.blocks)
}

func (c *Content) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("memory: empty content")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = PlainText(s)
		return nil
	case '[':
		var blocks []Block
		if err := json.Unmarshal(data, &blocks); err != nil {
			return err
		}
		*c = BlockList(blocks...)
		return nil
	default:
		return fmt.Errorf("memory: content must be a string or an array, got %q", data[:1])
	}
}

// Message is one entry of the conversation state.
type Message struct {
	Role       Role    `json:"role"`
	Content    Content `json:"content"`
	ToolCallID string  `json:"tool_call_id,omitempty"`
	IsError    bool    `json:"is_error,omitempty"`
}

// Clone returns a deep copy of m.
func (m Message) Clone() Message {
	out := m
	if m.Content.list {
		out.Content = Content{blocks: m.Content.Blocks(), list: true}
	}
	return out
}

// System returns the system message, annotated for caching once at construction.
func System(text string) Message {
	return Message{
		Role:    RoleSystem,
		Content: BlockList(Block{Kind: KindText, Text: text, CacheControl: Ephemeral()}),
	}
}

// User returns a user message with a single unmarked text block.
func User(text string) Message {
	return Message{Role: RoleUser, Content: BlockList(TextBlock(text))}
}

// Assistant returns an assistant message built from blocks.
func Assistant(blocks ...Block) Message {
	return Message{Role: RoleAssistant, Content: BlockList(blocks...)}
}

// ToolResult returns the tool-role message answering toolCallID.
func ToolResult(toolCallID, text string, isErr bool) Message {
	return Message{Role: RoleTool, Content: PlainText(text), ToolCallID: toolCallID, IsError: isErr}
}
