package provider_test

import (
	"encoding/json"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/petasbytes/wikiseek/internal/provider"
	"github.com/petasbytes/wikiseek/internal/windowing"
	"github.com/petasbytes/wikiseek/memory"
)

func TestToParams_SystemAndCacheControl(t *testing.T) {
	conv := []memory.Message{memory.System("sys"), memory.User("勝海舟")}
	window, _ := windowing.PrepareSendWindow(conv, nil)

	system, msgs, err := provider.ToParams(window)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(system) != 1 || system[0].Text != "sys" {
		t.Fatalf("unexpected system: %+v", system)
	}
	if system[0].CacheControl.Type != "ephemeral" {
		t.Fatalf("system cache_control missing: %+v", system[0].CacheControl)
	}
	if len(msgs) != 1 || msgs[0].Role != anthropic.MessageParamRoleUser {
		t.Fatalf("unexpected messages: %+v", msgs)
	}
	tb := msgs[0].Content[0].OfText
	if tb == nil || tb.Text != "勝海舟" || tb.CacheControl.Type != "ephemeral" {
		t.Fatalf("user block not marked: %+v", tb)
	}
}

func TestToParams_GroupsConsecutiveToolResults(t *testing.T) {
	conv := []memory.Message{
		memory.System("sys"),
		memory.User("q"),
		memory.Assistant(
			memory.ToolUseBlock("t1", "wiki_search_jp", json.RawMessage(`{"query":"a"}`)),
			memory.ToolUseBlock("t2", "wiki_summary_jp", json.RawMessage(`{"title":"b"}`)),
		),
		memory.ToolResult("t1", "r1", false),
		memory.ToolResult("t2", "r2", true),
	}
	window, _ := windowing.PrepareSendWindow(conv, nil)
	_, msgs, err := provider.ToParams(window)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected user, assistant, tool-results turn; got %d messages", len(msgs))
	}

	asst := msgs[1]
	if asst.Role != anthropic.MessageParamRoleAssistant || len(asst.Content) != 2 {
		t.Fatalf("unexpected assistant turn: %+v", asst)
	}
	if tu := asst.Content[0].OfToolUse; tu == nil || tu.ID != "t1" || tu.Name != "wiki_search_jp" {
		t.Fatalf("unexpected tool_use: %+v", asst.Content[0])
	}

	results := msgs[2]
	if results.Role != anthropic.MessageParamRoleUser || len(results.Content) != 2 {
		t.Fatalf("unexpected tool-results turn: %+v", results)
	}
	first, second := results.Content[0].OfToolResult, results.Content[1].OfToolResult
	if first == nil || first.ToolUseID != "t1" || second == nil || second.ToolUseID != "t2" {
		t.Fatalf("tool_result ids out of order: %+v", results.Content)
	}
	// Only the newest message carries the cache boundary.
	if first.Content[0].OfText.CacheControl.Type != "" {
		t.Fatalf("older tool result still marked")
	}
	if second.Content[0].OfText.CacheControl.Type != "ephemeral" {
		t.Fatalf("newest tool result not marked")
	}
	if !second.IsError.Valid() || !second.IsError.Value {
		t.Fatalf("is_error not carried over")
	}
}

func TestToParams_Errors(t *testing.T) {
	tests := []struct {
		name string
		conv []memory.Message
	}{
		{"empty", nil},
		{"system only", []memory.Message{memory.System("sys")}},
		{"tool result without id", []memory.Message{memory.ToolResult("", "x", false)}},
		{"unknown role", []memory.Message{{Role: "robot", Content: memory.PlainText("x")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := provider.ToParams(tt.conv); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestFromResponse_TextAndToolUse(t *testing.T) {
	raw := `{
		"id": "msg_1",
		"type": "message",
		"role": "assistant",
		"content": [
			{"type": "text", "text": "検索します"},
			{"type": "text", "text": ""},
			{"type": "tool_use", "id": "t1", "name": "wiki_search_jp", "input": {"query": "勝海舟"}}
		],
		"stop_reason": "tool_use"
	}`
	var msg anthropic.Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got := provider.FromResponse(&msg)
	if got.Role != memory.RoleAssistant {
		t.Fatalf("role: %q", got.Role)
	}
	blocks := got.Content.Blocks()
	if len(blocks) != 2 {
		t.Fatalf("expected empty text dropped, got %d blocks", len(blocks))
	}
	calls := got.Content.ToolCalls()
	if len(calls) != 1 || calls[0].ID != "t1" || calls[0].Name != "wiki_search_jp" {
		t.Fatalf("unexpected calls: %+v", calls)
	}
	var in struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(calls[0].Input, &in); err != nil || in.Query != "勝海舟" {
		t.Fatalf("input not preserved: %s (%v)", calls[0].Input, err)
	}
}
