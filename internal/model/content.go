package model

import "encoding/json"

// ContentKind tags a MessageContent variant. The set is closed today
// (text only) but the wire may deliver kinds this build does not know;
// those are preserved verbatim and rendered as a placeholder, never a
// crash.
type ContentKind string

const ContentText ContentKind = "text"

type MessageContent struct {
	Kind ContentKind
	// Text is set when Kind == ContentText.
	Text string
	// Raw holds the original JSON for kinds this build does not
	// understand, so saving and re-loading an account never loses data.
	Raw json.RawMessage
}

func TextContent(s string) MessageContent {
	return MessageContent{Kind: ContentText, Text: s}
}

type textContentJSON struct {
	Kind ContentKind `json:"kind"`
	Text string      `json:"text"`
}

func (c MessageContent) MarshalJSON() ([]byte, error) {
	if c.Kind == ContentText {
		return json.Marshal(textContentJSON{Kind: ContentText, Text: c.Text})
	}
	if len(c.Raw) > 0 {
		return append(json.RawMessage(nil), c.Raw...), nil
	}
	return json.Marshal(struct {
		Kind ContentKind `json:"kind"`
	}{Kind: c.Kind})
}

func (c *MessageContent) UnmarshalJSON(b []byte) error {
	var probe struct {
		Kind ContentKind `json:"kind"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return err
	}
	if probe.Kind == ContentText {
		var tc textContentJSON
		if err := json.Unmarshal(b, &tc); err != nil {
			return err
		}
		*c = MessageContent{Kind: ContentText, Text: tc.Text}
		return nil
	}
	*c = MessageContent{Kind: probe.Kind, Raw: append(json.RawMessage(nil), b...)}
	return nil
}
