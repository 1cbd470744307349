package provider

import "time"

// ContentItem is one piece of text pulled from a news or social source,
// before classification. Engagement is the source's own popularity
// measure (votes plus comments for social posts, zero for feeds that
// carry none).
type ContentItem struct {
	Source       string
	SourceItemID string
	Title        string
	URL          string
	Excerpt      string
	Author       string
	PublishedAt  time.Time
	Engagement   int
	Metadata     map[string]any
}
