// ABOUTME: Inoreader API response structures for type-safe JSON binding
// ABOUTME: Covers subscription list, unread counts, and stream contents endpoints

package driver

import (
	"strconv"
	"strings"
	"time"
)

const (
	// Stream state tags used by the Inoreader API.
	TagRead    = "user/-/state/com.google/read"
	TagStarred = "user/-/state/com.google/starred"

	// StreamReadingList is the merged stream of all subscriptions.
	StreamReadingList = "user/-/state/com.google/reading-list"
	// StreamStarred is the stream of starred items.
	StreamStarred = "user/-/state/com.google/starred"
)

// StreamContentsResponse represents the response structure from the stream
// contents API. Based on https://www.inoreader.com/developers/stream-contents
type StreamContentsResponse struct {
	Direction    string                 `json:"direction"`
	ID           string                 `json:"id"`
	Title        string                 `json:"title"`
	Updated      int64                  `json:"updated"`
	Items        []InoreaderArticleItem `json:"items"`
	Continuation string                 `json:"continuation"`
}

// InoreaderArticleItem represents an individual article item.
type InoreaderArticleItem struct {
	CrawlTimeMsec string          `json:"crawlTimeMsec"`
	TimestampUsec string          `json:"timestampUsec"`
	ID            string          `json:"id"`
	Categories    []string        `json:"categories"`
	Title         string          `json:"title"`
	Published     int64           `json:"published"`
	Updated       int64           `json:"updated"`
	Canonical     []InoreaderLink `json:"canonical"`
	Author        string          `json:"author"`
	Origin        InoreaderOrigin `json:"origin"`
}

// InoreaderLink represents canonical/alternate links in an article.
type InoreaderLink struct {
	Href string `json:"href"`
	Type string `json:"type,omitempty"`
}

// InoreaderOrigin represents the origin feed information.
type InoreaderOrigin struct {
	StreamID string `json:"streamId"`
	Title    string `json:"title"`
	HtmlUrl  string `json:"htmlUrl"`
}

// SubscriptionListResponse represents the subscription list API response.
type SubscriptionListResponse struct {
	Subscriptions []InoreaderSubscriptionItem `json:"subscriptions"`
}

// InoreaderSubscriptionItem represents an individual subscription.
type InoreaderSubscriptionItem struct {
	ID         string              `json:"id"`
	Title      string              `json:"title"`
	Categories []InoreaderCategory `json:"categories"`
	URL        string              `json:"url"`
	HtmlUrl    string              `json:"htmlUrl"`
	IconUrl    string              `json:"iconUrl"`
}

// InoreaderCategory represents a category/folder in Inoreader.
type InoreaderCategory struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// UnreadCountResponse represents the unread-count API response.
type UnreadCountResponse struct {
	Max          int               `json:"max"`
	UnreadCounts []UnreadCountItem `json:"unreadcounts"`
}

// UnreadCountItem is one stream's unread count.
type UnreadCountItem struct {
	ID                      string `json:"id"`
	Count                   int    `json:"count"`
	NewestItemTimestampUsec string `json:"newestItemTimestampUsec"`
}

func (item *InoreaderArticleItem) GetPublishedTime() time.Time {
	return time.Unix(item.Published, 0)
}

// GetUpdatedTime returns the remote-reported change time, falling back to the
// crawl time when the item carries no explicit update timestamp.
func (item *InoreaderArticleItem) GetUpdatedTime() time.Time {
	if item.Updated > 0 {
		return time.Unix(item.Updated, 0)
	}
	if msec, err := strconv.ParseInt(item.CrawlTimeMsec, 10, 64); err == nil {
		return time.UnixMilli(msec)
	}
	return time.Unix(item.Published, 0)
}

func (item *InoreaderArticleItem) GetCanonicalURL() string {
	if len(item.Canonical) > 0 {
		return item.Canonical[0].Href
	}
	return ""
}

// HasCategory reports whether the item carries the given state tag. Response
// categories are qualified with the numeric user ID
// (user/1005921515/state/com.google/read); the user/- alias is only valid in
// requests, so matching goes by the state suffix.
func (item *InoreaderArticleItem) HasCategory(tag string) bool {
	suffix := tag
	if i := strings.Index(tag, "/state/"); i >= 0 {
		suffix = tag[i:]
	}
	for _, c := range item.Categories {
		if strings.HasSuffix(c, suffix) {
			return true
		}
	}
	return false
}

// IsRead reports whether the remote marks the item read.
func (item *InoreaderArticleItem) IsRead() bool {
	return item.HasCategory(TagRead)
}

// IsStarred reports whether the remote marks the item starred.
func (item *InoreaderArticleItem) IsStarred() bool {
	return item.HasCategory(TagStarred)
}
