package memos

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResourceName(t *testing.T) {
	assert.Equal(t, ResourceName("memos/123"), NewResourceName("memos", "123"))
	assert.Equal(t, ResourceName("memos/123"), NewResourceName("memos/", "123"))
	assert.Equal(t, ResourceName("users/me"), UserName("me"))
	assert.Equal(t, ResourceName("users/me/webhooks/7"), UserName("me").Child("webhooks", "7"))
	assert.Equal(t, "/users/me/shortcuts", UserName("me").Collection("shortcuts"))
	assert.Equal(t, "/memos/1", ResourceName("memos/1").Path())
	assert.Equal(t, "/memos/1", ResourceName("/memos/1").Path())
}

func TestParseUpdateMask(t *testing.T) {
	tests := []struct {
		raw  string
		want UpdateMask
	}{
		{raw: "content", want: UpdateMask{"content"}},
		{raw: " content , visibility ", want: UpdateMask{"content", "visibility"}},
		{raw: "a,,b,", want: UpdateMask{"a", "b"}},
		{raw: "a,a,b", want: UpdateMask{"a", "b"}},
		{raw: "", want: nil},
		{raw: " , ", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseUpdateMask(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want) == 0, got.Empty())
		})
	}

	assert.Equal(t, "content,pinned", UpdateMask{}.Add("content").Add("pinned").Add("content").String())
}

func TestQueryValues(t *testing.T) {
	state := "NORMAL"
	var missing *string

	values := Query{
		"pageSize":    20,
		"filter":      nil,
		"state":       &state,
		"orderBy":     missing,
		"showDeleted": true,
		"size":        int64(7),
	}.Values()

	assert.Equal(t, map[string]string{
		"pageSize":    "20",
		"state":       "NORMAL",
		"showDeleted": "true",
		"size":        "7",
	}, values)
}
