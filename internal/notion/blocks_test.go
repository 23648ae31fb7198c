package notion

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshal(t *testing.T, v any) string {
	t.Helper()
	out, err := json.Marshal(v)
	require.NoError(t, err)
	return string(out)
}

func TestRichTextMarshal(t *testing.T) {
	tests := []struct {
		name string
		span RichText
		want string
	}{
		{
			name: "Plain text omits link and annotations",
			span: RichText{Content: "hello"},
			want: `{"type":"text","text":{"content":"hello"}}`,
		},
		{
			name: "Link",
			span: RichText{Content: "ENG-1", URL: "https://linear.app/acme/issue/ENG-1"},
			want: `{"type":"text","text":{"content":"ENG-1","link":{"url":"https://linear.app/acme/issue/ENG-1"}}}`,
		},
		{
			name: "Bold annotation",
			span: RichText{Content: "PRs", Bold: true},
			want: `{"type":"text","text":{"content":"PRs"},"annotations":{"bold":true}}`,
		},
		{
			name: "Color annotation",
			span: RichText{Content: "(+1/-2)", Color: "gray"},
			want: `{"type":"text","text":{"content":"(+1/-2)"},"annotations":{"color":"gray"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.want, marshal(t, tt.span))
		})
	}
}

func TestBlockMarshal(t *testing.T) {
	tests := []struct {
		name  string
		block Block
		want  string
	}{
		{
			name:  "Paragraph",
			block: Paragraph{Text: Text("hello")},
			want:  `{"object":"block","type":"paragraph","paragraph":{"rich_text":[{"type":"text","text":{"content":"hello"}}]}}`,
		},
		{
			name:  "Heading2",
			block: Heading2{Text: Text("Linear Tickets Completed")},
			want:  `{"object":"block","type":"heading_2","heading_2":{"rich_text":[{"type":"text","text":{"content":"Linear Tickets Completed"}}]}}`,
		},
		{
			name:  "Heading3",
			block: Heading3{Text: Text("acme/widgets")},
			want:  `{"object":"block","type":"heading_3","heading_3":{"rich_text":[{"type":"text","text":{"content":"acme/widgets"}}]}}`,
		},
		{
			name:  "BulletedItem",
			block: BulletedItem{Text: Text("item")},
			want:  `{"object":"block","type":"bulleted_list_item","bulleted_list_item":{"rich_text":[{"type":"text","text":{"content":"item"}}]}}`,
		},
		{
			name:  "Callout",
			block: Callout{Text: Text("stats"), Emoji: "🎯"},
			want:  `{"object":"block","type":"callout","callout":{"rich_text":[{"type":"text","text":{"content":"stats"}}],"icon":{"emoji":"🎯"}}}`,
		},
		{
			name:  "Divider",
			block: Divider{},
			want:  `{"object":"block","type":"divider","divider":{}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.want, marshal(t, tt.block))
		})
	}
}

func TestToggleMarshalWithChildren(t *testing.T) {
	toggle := Toggle{
		Text:     Text("Aug 24 - Aug 30, 2026"),
		Children: []Block{Paragraph{Text: Text("inner")}},
	}

	out := marshal(t, toggle)
	assert.JSONEq(t, `{
		"object": "block",
		"type": "toggle",
		"toggle": {
			"rich_text": [{"type":"text","text":{"content":"Aug 24 - Aug 30, 2026"}}],
			"children": [
				{"object":"block","type":"paragraph","paragraph":{"rich_text":[{"type":"text","text":{"content":"inner"}}]}}
			]
		}
	}`, out)
}

func TestToggleMarshalOmitsEmptyChildren(t *testing.T) {
	out := marshal(t, Toggle{Text: Text("2026")})
	assert.NotContains(t, out, "children")
}

func TestChildBlockPlainText(t *testing.T) {
	payload := `{
		"id": "abc",
		"type": "toggle",
		"toggle": {"rich_text": [{"plain_text": "2026 Work Log"}]}
	}`

	var block childBlock
	require.NoError(t, json.Unmarshal([]byte(payload), &block))
	assert.Equal(t, "2026 Work Log", block.plainText())
}

func TestChildBlockPlainTextEmpty(t *testing.T) {
	var block childBlock
	require.NoError(t, json.Unmarshal([]byte(`{"id":"abc","type":"divider"}`), &block))
	assert.Equal(t, "", block.plainText())
}
