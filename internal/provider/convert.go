package provider

import (
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/petasbytes/wikiseek/memory"
)

// ToParams converts a prepared window into Messages API parameters.
//
// System messages become the system prompt. Tool-role messages become
// tool_result blocks; consecutive tool results are grouped into one user
// turn so every tool_use is answered in the turn that follows it. Cache
// markers on text blocks are carried over as cache_control.
func ToParams(window []memory.Message) ([]anthropic.TextBlockParam, []anthropic.MessageParam, error) {
	var (
		system []anthropic.TextBlockParam
		out    []anthropic.MessageParam
	)
	for i, m := range window {
		switch m.Role {
		case memory.RoleSystem:
			system = append(system, textParams(m.Content)...)
		case memory.RoleUser:
			blocks := make([]anthropic.ContentBlockParamUnion, 0, 1)
			for _, tb := range textParams(m.Content) {
				blocks = append(blocks, anthropic.ContentBlockParamUnion{OfText: &tb})
			}
			out = append(out, anthropic.NewUserMessage(blocks...))
		case memory.RoleAssistant:
			blocks, err := assistantParams(m.Content)
			if err != nil {
				return nil, nil, fmt.Errorf("message[%d]: %w", i, err)
			}
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		case memory.RoleTool:
			if m.ToolCallID == "" {
				return nil, nil, fmt.Errorf("message[%d]: tool result without tool_call_id", i)
			}
			block := toolResultParam(m)
			if n := len(out); n > 0 && isToolResultTurn(out[n-1]) {
				out[n-1].Content = append(out[n-1].Content, block)
				continue
			}
			out = append(out, anthropic.NewUserMessage(block))
		default:
			return nil, nil, fmt.Errorf("message[%d]: unknown role %q", i, m.Role)
		}
	}
	if len(out) == 0 {
		return nil, nil, fmt.Errorf("messages cannot be empty")
	}
	return system, out, nil
}

// FromResponse converts a model reply into an assistant message. Empty text
// blocks are dropped; tool_use blocks keep their raw JSON input.
func FromResponse(msg *anthropic.Message) memory.Message {
	blocks := make([]memory.Block, 0, len(msg.Content))
	for _, b := range msg.Content {
		switch v := b.AsAny().(type) {
		case anthropic.TextBlock:
			if v.Text != "" {
				blocks = append(blocks, memory.TextBlock(v.Text))
			}
		case anthropic.ToolUseBlock:
			input := json.RawMessage(v.JSON.Input.Raw())
			if len(input) == 0 {
				input = json.RawMessage(`{}`)
			}
			blocks = append(blocks, memory.ToolUseBlock(v.ID, v.Name, input))
		}
	}
	return memory.Assistant(blocks...)
}

func textParams(c memory.Content) []anthropic.TextBlockParam {
	if !c.IsList() {
		return []anthropic.TextBlockParam{{Text: c.Text()}}
	}
	var out []anthropic.TextBlockParam
	for _, b := range c.Blocks() {
		if b.Kind != memory.KindText {
			continue
		}
		out = append(out, textParam(b))
	}
	return out
}

func textParam(b memory.Block) anthropic.TextBlockParam {
	tb := anthropic.TextBlockParam{Text: b.Text}
	if b.Cached() {
		tb.CacheControl = anthropic.NewCacheControlEphemeralParam()
	}
	return tb
}

func assistantParams(c memory.Content) ([]anthropic.ContentBlockParamUnion, error) {
	if !c.IsList() {
		return []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(c.Text())}, nil
	}
	blocks := c.Blocks()
	out := make([]anthropic.ContentBlockParamUnion, 0, len(blocks))
	for _, b := range blocks {
		switch b.Kind {
		case memory.KindText:
			tb := textParam(b)
			out = append(out, anthropic.ContentBlockParamUnion{OfText: &tb})
		case memory.KindToolUse:
			if b.ToolCall == nil {
				return nil, fmt.Errorf("tool_use block without call")
			}
			out = append(out, anthropic.ContentBlockParamUnion{OfToolUse: &anthropic.ToolUseBlockParam{
				ID:    b.ToolCall.ID,
				Name:  b.ToolCall.Name,
				Input: b.ToolCall.Input,
			}})
		default:
			return nil, fmt.Errorf("unsupported block kind %q", b.Kind)
		}
	}
	return out, nil
}

func toolResultParam(m memory.Message) anthropic.ContentBlockParamUnion {
	texts := textParams(m.Content)
	content := make([]anthropic.ToolResultBlockParamContentUnion, 0, len(texts))
	for i := range texts {
		content = append(content, anthropic.ToolResultBlockParamContentUnion{OfText: &texts[i]})
	}
	tr := anthropic.ToolResultBlockParam{ToolUseID: m.ToolCallID, Content: content}
	if m.IsError {
		tr.IsError = anthropic.Bool(true)
	}
	return anthropic.ContentBlockParamUnion{OfToolResult: &tr}
}

func isToolResultTurn(m anthropic.MessageParam) bool {
	if m.Role != anthropic.MessageParamRoleUser || len(m.Content) == 0 {
		return false
	}
	for _, b := range m.Content {
		if b.OfToolResult == nil {
			return false
		}
	}
	return true
}
