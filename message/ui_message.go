package message

// UIMessage is one entry of the secondary status stream recorded alongside a
// task's API conversation. It lives in a separate id space and is correlated
// with Message only by timestamp order.
type UIMessage struct {
	Ts      int64  `json:"ts"`
	Say     string `json:"say,omitempty"`
	Ask     string `json:"ask,omitempty"`
	Text    string `json:"text,omitempty"`
	Partial bool   `json:"partial,omitempty"`
}

// Tag returns the status/category label, preferring the say form.
func (m UIMessage) Tag() string {
	if m.Say != "" {
		return m.Say
	}
	return m.Ask
}
