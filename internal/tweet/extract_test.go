package tweet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTweet(t *testing.T) {
	payload := `{
		"id": 123,
		"truncated": true,
		"text": "hello…",
		"user": {"screen_name": "alice"},
		"in_reply_to_status_id": 456,
		"in_reply_to_screen_name": "bob"
	}`

	item, kind, err := Extract([]byte(payload))
	require.NoError(t, err)
	require.Equal(t, KindTweet, kind)
	require.NotNil(t, item)

	assert.Equal(t, int64(123), item.ID)
	assert.Equal(t, "alice", item.Author)
	assert.Equal(t, "hello…", item.Text)
	assert.True(t, item.Truncated)
	assert.False(t, item.Profile)
	assert.Equal(t, int64(456), item.InReplyToID)
	assert.Equal(t, "bob", item.InReplyToAuthor)
	assert.Equal(t, int64(456), item.AncestorID())
}

func TestExtractProfile(t *testing.T) {
	payload := `{
		"screen_name": "carol",
		"description": "archivist",
		"status": {
			"id": 789,
			"text": "from my profile",
			"in_reply_to_status_id": 111,
			"in_reply_to_screen_name": "dave"
		}
	}`

	item, kind, err := Extract([]byte(payload))
	require.NoError(t, err)
	require.Equal(t, KindProfile, kind)
	require.NotNil(t, item)

	assert.Equal(t, int64(789), item.ID)
	assert.Equal(t, "carol", item.Author)
	assert.Equal(t, "from my profile", item.Text)
	assert.Equal(t, "archivist", item.Description)
	assert.True(t, item.Profile)
	assert.Equal(t, int64(111), item.InReplyToID)
}

func TestExtractEmpty(t *testing.T) {
	// A profile with no attached status carries nothing to walk.
	item, kind, err := Extract([]byte(`{"screen_name": "erin", "description": "no tweets"}`))
	require.NoError(t, err)
	assert.Equal(t, KindEmpty, kind)
	assert.True(t, item.IsEmpty())
}

func TestExtractNotJSON(t *testing.T) {
	_, kind, err := Extract([]byte("<html>over capacity</html>"))
	assert.Error(t, err)
	assert.Equal(t, KindEmpty, kind)
}

func TestExtractRetweet(t *testing.T) {
	payload := `{
		"id": 5,
		"text": "RT @frank: original…",
		"user": {"screen_name": "grace"},
		"retweeted_status": {
			"id": 4,
			"text": "original",
			"user": {"screen_name": "frank"}
		}
	}`

	item, kind, err := Extract([]byte(payload))
	require.NoError(t, err)
	require.Equal(t, KindTweet, kind)

	assert.Equal(t, int64(4), item.RetweetedID)
	assert.Equal(t, "frank", item.RetweetedAuthor)
	assert.Zero(t, item.InReplyToID)
	assert.Equal(t, int64(4), item.AncestorID())
}

func TestTruncationHeuristic(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    bool
	}{
		{
			name:    "full_text present never truncated",
			payload: `{"id":1,"full_text":"a long tweet that ends with …","user":{"screen_name":"a"}}`,
			want:    false,
		},
		{
			name:    "short text with trailing ellipsis",
			payload: `{"id":1,"text":"cut off here…","user":{"screen_name":"a"}}`,
			want:    true,
		},
		{
			name:    "short text without ellipsis",
			payload: `{"id":1,"text":"complete thought","user":{"screen_name":"a"}}`,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, _, err := Extract([]byte(tt.payload))
			require.NoError(t, err)
			assert.Equal(t, tt.want, item.Truncated)
		})
	}
}

func TestExtractPrefersFullText(t *testing.T) {
	payload := `{"id":1,"text":"short…","full_text":"short but complete","user":{"screen_name":"a"}}`
	item, _, err := Extract([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, "short but complete", item.Text)
	assert.False(t, item.Truncated)
}
