package wikipedia

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
)

// Summary returns the lead extract of the page with the given title, or
// NotFound when the response carries no extract.
func (c *Client) Summary(ctx context.Context, title string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.summaryURL+url.PathEscape(title), nil)
	if err != nil {
		return "", fmt.Errorf("wikipedia summary: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", c.language)

	body, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("wikipedia summary: %w", err)
	}

	extract := gjson.GetBytes(body, "extract")
	if !extract.Exists() || extract.Type != gjson.String {
		c.logger.Debug("summary response without extract", "title", title)
		return NotFound, nil
	}
	return extract.String(), nil
}
