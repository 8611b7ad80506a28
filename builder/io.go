package builder

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/RooCodeInc/RooVersation/message"
)

var ErrNotAnArray = errors.New("import: top level must be a JSON array of messages")

// Import replaces the draft with the messages in raw. The top-level shape is
// validated before anything is touched: malformed JSON or a non-array top
// level leaves the existing draft exactly as it was. Every accepted entry
// gets a fresh local id and its content passes through the normalizing
// unmarshaller, so legacy string-content files load fine.
func (d *Draft) Import(raw []byte) error {
	if !gjson.ValidBytes(raw) {
		return fmt.Errorf("import: invalid JSON")
	}
	if !gjson.ParseBytes(raw).IsArray() {
		return ErrNotAnArray
	}

	var msgs []message.Message
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	drafts := make([]DraftMessage, len(msgs))
	for i, msg := range msgs {
		drafts[i] = DraftMessage{LocalID: newLocalID(), Message: msg}
	}

	d.Messages = drafts
	return nil
}

// Export serializes the draft, local ids stripped, as indented UTF-8 JSON.
// Import(Export(draft)) reproduces the draft up to local id regeneration.
func (d *Draft) Export() ([]byte, error) {
	return json.MarshalIndent(d.Strip(), "", "  ")
}
