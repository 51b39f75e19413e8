package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/petasbytes/wikiseek/internal/wikipedia"
)

type SearchInput struct {
	Query string `json:"query" jsonschema:"required" jsonschema_description:"検索クエリ"`
}

type SummaryInput struct {
	Title string `json:"title" jsonschema:"required" jsonschema_description:"ページタイトル"`
}

var SearchDefinition = ToolDefinition{
	ID:          WikiSearch,
	Name:        WikiSearch.String(),
	Description: "日本語版 Wikipedia で検索し、上位 5 件のタイトルとスニペットを返します。",
	InputSchema: GenerateSchema[SearchInput](),
}

var SummaryDefinition = ToolDefinition{
	ID:          WikiSummary,
	Name:        WikiSummary.String(),
	Description: "日本語版 Wikipedia の要約を返します。引数はページタイトルです。",
	InputSchema: GenerateSchema[SummaryInput](),
}

// Call is a decoded tool-call request: SearchCall or SummaryCall.
type Call interface {
	Tool() ToolID
}

type SearchCall struct{ Query string }

type SummaryCall struct{ Title string }

func (SearchCall) Tool() ToolID  { return WikiSearch }
func (SummaryCall) Tool() ToolID { return WikiSummary }

// Decode turns a tool_use name and raw JSON input into a typed Call.
func Decode(name string, input json.RawMessage) (Call, error) {
	id, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	switch id {
	case WikiSearch:
		var in SearchInput
		if err := json.Unmarshal(input, &in); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidInput, name, err)
		}
		if strings.TrimSpace(in.Query) == "" {
			return nil, fmt.Errorf("%w: %s: query must not be empty", ErrInvalidInput, name)
		}
		return SearchCall{Query: in.Query}, nil
	case WikiSummary:
		var in SummaryInput
		if err := json.Unmarshal(input, &in); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidInput, name, err)
		}
		if strings.TrimSpace(in.Title) == "" {
			return nil, fmt.Errorf("%w: %s: title must not be empty", ErrInvalidInput, name)
		}
		return SummaryCall{Title: in.Title}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
}

// Wiki is the lookup backend used by the Dispatcher.
type Wiki interface {
	Search(ctx context.Context, query string) ([]wikipedia.SearchHit, error)
	Summary(ctx context.Context, title string) (string, error)
}

// Dispatcher executes decoded calls against a Wiki backend.
type Dispatcher struct {
	Wiki Wiki
}

// Execute runs call and returns the text handed back to the model. Search
// hits are encoded as a JSON array of {title, snippet}.
func (d Dispatcher) Execute(ctx context.Context, call Call) (string, error) {
	switch c := call.(type) {
	case SearchCall:
		hits, err := d.Wiki.Search(ctx, c.Query)
		if err != nil {
			return "", err
		}
		if hits == nil {
			hits = []wikipedia.SearchHit{}
		}
		b, err := json.Marshal(hits)
		if err != nil {
			return "", err
		}
		return string(b), nil
	case SummaryCall:
		return d.Wiki.Summary(ctx, c.Title)
	default:
		return "", fmt.Errorf("%w: %T", ErrUnknownTool, call)
	}
}
