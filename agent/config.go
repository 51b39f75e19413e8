package agent

import (
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/petasbytes/wikiseek/internal/provider"
	"github.com/petasbytes/wikiseek/tools"
)

// SystemPrompt is the default instruction sent as the first message.
const SystemPrompt = `あなたはフレンドリーな検索AIエージェントです。
ユーザからの問い合わせに対して、日本語版 Wikipedia を検索し、関連する情報を提供します。
あなたの目的は、ユーザが求める情報を迅速かつ出典URLを明確にして提供することです。

## 利用可能なツール
- wiki_search_jp: 日本語版 Wikipedia を検索し、上位 5 件のタイトルとスニペットを返します
- wiki_summary_jp: 日本語版 Wikipedia の要約を返します。引数はページタイトルです

Markdown形式で出力してください。
`

const (
	DefaultTemperature   = 0.1
	DefaultMaxTokens     = 2000
	DefaultTimeout       = 300 * time.Second
	DefaultMaxRoundTrips = 50
)

// Config holds the per-agent model and loop settings.
type Config struct {
	SystemPrompt  string
	Tools         []tools.ToolDefinition
	Model         anthropic.Model
	Temperature   float64
	MaxTokens     int64
	Timeout       time.Duration // per model call; 0 disables
	StopSequences []string

	// MaxRoundTrips bounds the number of model calls per Run.
	MaxRoundTrips int
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		SystemPrompt:  SystemPrompt,
		Tools:         tools.Registry(),
		Model:         provider.DefaultModel,
		Temperature:   DefaultTemperature,
		MaxTokens:     DefaultMaxTokens,
		Timeout:       DefaultTimeout,
		MaxRoundTrips: DefaultMaxRoundTrips,
	}
}

func (c Config) clone() Config {
	out := c
	out.Tools = append([]tools.ToolDefinition(nil), c.Tools...)
	out.StopSequences = append([]string(nil), c.StopSequences...)
	return out
}
