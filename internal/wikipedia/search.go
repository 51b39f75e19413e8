package wikipedia

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/net/html"
)

// SearchHit is one search result.
type SearchHit struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Search queries the search endpoint and returns at most MaxSearchResults
// hits. Snippet highlighting markup is flattened to plain text.
func (c *Client) Search(ctx context.Context, query string) ([]SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"utf8":     {"1"},
		"format":   {"json"},
		"srprop":   {"snippet"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("wikipedia search: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("wikipedia search: %w", err)
	}

	list := gjson.GetBytes(body, "query.search")
	if !list.IsArray() {
		c.logger.Debug("search response without result list", "query", query)
		return []SearchHit{}, nil
	}

	hits := make([]SearchHit, 0, MaxSearchResults)
	for _, r := range list.Array() {
		if len(hits) == MaxSearchResults {
			break
		}
		hits = append(hits, SearchHit{
			Title:   r.Get("title").String(),
			Snippet: flattenSnippet(r.Get("snippet").String()),
		})
	}
	return hits, nil
}

// do executes req and returns the body, which must be JSON. The status code
// is not checked: both endpoints describe missing data in a JSON body.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if !gjson.ValidBytes(body) {
		snippet := body
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return nil, fmt.Errorf("malformed response (HTTP %d): %s", resp.StatusCode, snippet)
	}
	return body, nil
}

// flattenSnippet returns the text content of an HTML fragment such as
// `<span class="searchmatch">勝</span>海舟`, with entities decoded.
func flattenSnippet(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return fragment
	}
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(doc)
	return strings.TrimSpace(b.String())
}
