// Package notion exports reports to a Notion workspace through the
// Notion REST API.
package notion

import "encoding/json"

// RichText is one styled text span inside a block.
type RichText struct {
	Content string
	URL     string
	Bold    bool
	Italic  bool
	Color   string
}

type linkWire struct {
	URL string `json:"url"`
}

type annotationsWire struct {
	Bold   bool   `json:"bold,omitempty"`
	Italic bool   `json:"italic,omitempty"`
	Color  string `json:"color,omitempty"`
}

type textWire struct {
	Content string    `json:"content"`
	Link    *linkWire `json:"link,omitempty"`
}

type richTextWire struct {
	Type        string           `json:"type"`
	Text        textWire         `json:"text"`
	Annotations *annotationsWire `json:"annotations,omitempty"`
}

// MarshalJSON renders the span in the Notion rich_text wire shape.
// Annotations are omitted entirely when every one is at its default.
func (rt RichText) MarshalJSON() ([]byte, error) {
	wire := richTextWire{Type: "text", Text: textWire{Content: rt.Content}}
	if rt.URL != "" {
		wire.Text.Link = &linkWire{URL: rt.URL}
	}
	if rt.Bold || rt.Italic || rt.Color != "" {
		wire.Annotations = &annotationsWire{Bold: rt.Bold, Italic: rt.Italic, Color: rt.Color}
	}
	return json.Marshal(wire)
}

// Text is a convenience constructor for a plain single-span rich text.
func Text(content string) []RichText {
	return []RichText{{Content: content}}
}

// Block is one Notion content block. The set of implementations is
// closed: these are the only block types the exporters emit.
type Block interface {
	blockType() string
}

func marshalBlock(typ string, payload any) ([]byte, error) {
	return json.Marshal(map[string]any{
		"object": "block",
		"type":   typ,
		typ:      payload,
	})
}

type richTextPayload struct {
	RichText []RichText `json:"rich_text"`
}

// Paragraph is a plain text block.
type Paragraph struct {
	Text []RichText
}

func (Paragraph) blockType() string { return "paragraph" }

func (b Paragraph) MarshalJSON() ([]byte, error) {
	return marshalBlock("paragraph", richTextPayload{RichText: b.Text})
}

// Heading2 is a second-level heading block.
type Heading2 struct {
	Text []RichText
}

func (Heading2) blockType() string { return "heading_2" }

func (b Heading2) MarshalJSON() ([]byte, error) {
	return marshalBlock("heading_2", richTextPayload{RichText: b.Text})
}

// Heading3 is a third-level heading block.
type Heading3 struct {
	Text []RichText
}

func (Heading3) blockType() string { return "heading_3" }

func (b Heading3) MarshalJSON() ([]byte, error) {
	return marshalBlock("heading_3", richTextPayload{RichText: b.Text})
}

// BulletedItem is one bulleted list item block.
type BulletedItem struct {
	Text []RichText
}

func (BulletedItem) blockType() string { return "bulleted_list_item" }

func (b BulletedItem) MarshalJSON() ([]byte, error) {
	return marshalBlock("bulleted_list_item", richTextPayload{RichText: b.Text})
}

// Toggle is a collapsible block that can carry child blocks inline.
type Toggle struct {
	Text     []RichText
	Children []Block
}

func (Toggle) blockType() string { return "toggle" }

func (b Toggle) MarshalJSON() ([]byte, error) {
	payload := struct {
		RichText []RichText `json:"rich_text"`
		Children []Block    `json:"children,omitempty"`
	}{RichText: b.Text, Children: b.Children}
	return marshalBlock("toggle", payload)
}

// Callout is a highlighted block with an emoji icon.
type Callout struct {
	Text  []RichText
	Emoji string
}

func (Callout) blockType() string { return "callout" }

func (b Callout) MarshalJSON() ([]byte, error) {
	payload := struct {
		RichText []RichText `json:"rich_text"`
		Icon     struct {
			Emoji string `json:"emoji"`
		} `json:"icon"`
	}{RichText: b.Text}
	payload.Icon.Emoji = b.Emoji
	return marshalBlock("callout", payload)
}

// Divider is a horizontal rule block.
type Divider struct{}

func (Divider) blockType() string { return "divider" }

func (Divider) MarshalJSON() ([]byte, error) {
	return marshalBlock("divider", struct{}{})
}

// childBlock is the read-side shape of a block returned by the
// list-children endpoint. Only the payloads the year lookup inspects
// are decoded.
type childBlock struct {
	ID               string          `json:"id"`
	Type             string          `json:"type"`
	Toggle           *childBlockText `json:"toggle"`
	Heading1         *childBlockText `json:"heading_1"`
	Heading2         *childBlockText `json:"heading_2"`
	Heading3         *childBlockText `json:"heading_3"`
	BulletedListItem *childBlockText `json:"bulleted_list_item"`
}

type childBlockText struct {
	RichText []struct {
		PlainText string `json:"plain_text"`
	} `json:"rich_text"`
}

// plainText returns the first text span of the payload matching the
// block's type, or "".
func (b childBlock) plainText() string {
	var payload *childBlockText
	switch b.Type {
	case "toggle":
		payload = b.Toggle
	case "heading_1":
		payload = b.Heading1
	case "heading_2":
		payload = b.Heading2
	case "heading_3":
		payload = b.Heading3
	case "bulleted_list_item":
		payload = b.BulletedListItem
	}
	if payload == nil || len(payload.RichText) == 0 {
		return ""
	}
	return payload.RichText[0].PlainText
}
