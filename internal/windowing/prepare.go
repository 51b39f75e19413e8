package windowing

import "github.com/petasbytes/wikiseek/memory"

// Stats summarizes the result of window preparation.
//
// Fields:
// - Messages: number of messages in the window.
// - Marked: number of non-system messages carrying a cache marker (0 or 1).
// - MarkedIndex: index of the cache boundary, -1 when the window is empty.
// - Total: estimated tokens for the whole window.
type Stats struct {
	Messages    int
	Marked      int
	MarkedIndex int
	Total       int
}

// PrepareSendWindow returns a shaped copy of conv (oldest→newest).
//
// Rules, applied by index:
// - last: string content becomes [text(s, ephemeral)]; every text block of a
//   block list is marked ephemeral; other blocks are left alone.
// - 0 < i < last: markers are removed from text blocks; string content
//   becomes [text(s)] without a marker.
// - 0: left as built.
func PrepareSendWindow(conv []memory.Message, c TokenCounter) ([]memory.Message, Stats) {
	if len(conv) == 0 {
		return nil, Stats{MarkedIndex: -1}
	}

	last := len(conv) - 1
	window := make([]memory.Message, len(conv))
	for i, m := range conv {
		switch {
		case i == last:
			window[i] = markEphemeral(m)
		case i > 0:
			window[i] = clearMarkers(m)
		default:
			window[i] = m.Clone()
		}
	}

	stats := Stats{Messages: len(window), MarkedIndex: last}
	for _, m := range window {
		if c != nil {
			stats.Total += c.CountMessage(m)
		}
		if m.Role != memory.RoleSystem && hasMarker(m) {
			stats.Marked++
		}
	}
	return window, stats
}

func markEphemeral(m memory.Message) memory.Message {
	out := m.Clone()
	if !m.Content.IsList() {
		out.Content = memory.BlockList(memory.Block{
			Kind:         memory.KindText,
			Text:         m.Content.Text(),
			CacheControl: memory.Ephemeral(),
		})
		return out
	}
	blocks := m.Content.Blocks()
	for i := range blocks {
		if blocks[i].Kind == memory.KindText {
			blocks[i].CacheControl = memory.Ephemeral()
		}
	}
	out.Content = memory.BlockList(blocks...)
	return out
}

func clearMarkers(m memory.Message) memory.Message {
	out := m.Clone()
	if !m.Content.IsList() {
		out.Content = memory.BlockList(memory.TextBlock(m.Content.Text()))
		return out
	}
	blocks := m.Content.Blocks()
	for i := range blocks {
		if blocks[i].Kind == memory.KindText && blocks[i].Cached() {
			blocks[i].CacheControl = nil
		}
	}
	out.Content = memory.BlockList(blocks...)
	return out
}

func hasMarker(m memory.Message) bool {
	for _, b := range m.Content.Blocks() {
		if b.Cached() {
			return true
		}
	}
	return false
}
