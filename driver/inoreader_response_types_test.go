package driver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInoreaderArticleItem_StateTags(t *testing.T) {
	tests := map[string]struct {
		categories      []string
		expectedRead    bool
		expectedStarred bool
	}{
		"numeric_user_id_read": {
			categories:   []string{"user/1005921515/state/com.google/read"},
			expectedRead: true,
		},
		"numeric_user_id_starred": {
			categories:      []string{"user/1005921515/state/com.google/starred"},
			expectedStarred: true,
		},
		"dash_alias_read": {
			categories:   []string{"user/-/state/com.google/read"},
			expectedRead: true,
		},
		"both_tags_with_labels": {
			categories: []string{
				"user/1005921515/label/Tech",
				"user/1005921515/state/com.google/read",
				"user/1005921515/state/com.google/starred",
			},
			expectedRead:    true,
			expectedStarred: true,
		},
		"starred_does_not_imply_read": {
			categories:      []string{"user/1005921515/state/com.google/starred"},
			expectedStarred: true,
		},
		"no_state_tags": {
			categories: []string{"user/1005921515/label/News"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			item := InoreaderArticleItem{Categories: tc.categories}
			assert.Equal(t, tc.expectedRead, item.IsRead())
			assert.Equal(t, tc.expectedStarred, item.IsStarred())
		})
	}
}

func TestInoreaderArticleItem_GetUpdatedTime(t *testing.T) {
	updated := time.Now().Add(-time.Hour).Unix()

	item := InoreaderArticleItem{Updated: updated}
	assert.Equal(t, time.Unix(updated, 0), item.GetUpdatedTime())

	item = InoreaderArticleItem{CrawlTimeMsec: "1700000000000"}
	assert.Equal(t, time.UnixMilli(1700000000000), item.GetUpdatedTime())

	item = InoreaderArticleItem{Published: updated}
	assert.Equal(t, time.Unix(updated, 0), item.GetUpdatedTime())
}
