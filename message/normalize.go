package message

import (
	"encoding/json"
	"fmt"
)

// ContentList is a message's ordered block sequence. Its unmarshaller accepts
// the legacy wire shapes: a plain string becomes a single text block, and any
// other non-array value is stringified into one. It never rejects a payload
// that is valid JSON.
type ContentList []ContentBlockUnion

func (l *ContentList) UnmarshalJSON(data []byte) error {
	var blocks []ContentBlockUnion
	if err := json.Unmarshal(data, &blocks); err == nil {
		*l = blocks
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = ContentList{NewTextBlock(s)}
		return nil
	}

	*l = ContentList{NewTextBlock(string(data))}
	return nil
}

// Normalize coerces arbitrary in-memory content into an ordered block list.
// Strings become a single text block, block lists pass through unchanged, and
// anything else is stringified. It always produces a renderable list.
func Normalize(content any) ContentList {
	switch v := content.(type) {
	case nil:
		return ContentList{NewTextBlock("null")}
	case ContentList:
		return v
	case []ContentBlockUnion:
		return ContentList(v)
	case string:
		return ContentList{NewTextBlock(v)}
	}

	if raw, err := json.Marshal(content); err == nil {
		return ContentList{NewTextBlock(string(raw))}
	}
	return ContentList{NewTextBlock(fmt.Sprintf("%v", content))}
}
