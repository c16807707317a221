package notifications

import (
	"bytes"
	"encoding/json"
	"regexp"
)

const (
	// DefaultRoom is used when no room can be derived from the request.
	DefaultRoom = "global"
	// GroupPrefix prefixes a room name to form its broadcast group.
	GroupPrefix = "chat_"
	// AnonymousSender names senders that are neither authenticated nor
	// self-declared.
	AnonymousSender = "anonymous"
)

var trailingSegment = regexp.MustCompile(`/([^/]+)/?$`)

// ResolveRoom picks the room for a chat connection: the explicit route
// parameter when present, else the last segment of path, else DefaultRoom.
func ResolveRoom(param, path string) string {
	if param != "" {
		return param
	}
	if m := trailingSegment.FindStringSubmatch(path); m != nil {
		return m[1]
	}
	return DefaultRoom
}

// GroupName returns the broadcast group of room.
func GroupName(room string) string {
	return GroupPrefix + room
}

// Frame is the outbound relay message.
type Frame struct {
	Message string `json:"message"`
	Sender  string `json:"sender"`
}

// Inbound is a decoded client frame. Sender is empty when the client did not
// supply one.
type Inbound struct {
	Message string
	Sender  string
}

// DecodeInbound interprets a client frame. A JSON object contributes its
// "message" and "sender" fields; anything that is not a JSON object is taken
// whole as the message text. It reports false when there is nothing to
// relay: an empty frame, or an object whose message is absent or null.
func DecodeInbound(raw []byte) (Inbound, bool) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Inbound{}, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Inbound{Message: string(raw)}, true
	}

	msg, ok := textOf(fields["message"])
	if !ok {
		return Inbound{}, false
	}
	sender, _ := textOf(fields["sender"])
	return Inbound{Message: msg, Sender: sender}, true
}

// textOf renders a JSON value as text: strings are unquoted, other values
// keep their compact JSON form. Absent and null values report false.
func textOf(v json.RawMessage) (string, bool) {
	if len(v) == 0 || string(v) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s, true
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return string(v), true
	}
	return buf.String(), true
}

// ResolveSender names the author of a frame: the authenticated username
// wins, then the sender the client declared, then AnonymousSender.
func ResolveSender(authenticated, declared string) string {
	if authenticated != "" {
		return authenticated
	}
	if declared != "" {
		return declared
	}
	return AnonymousSender
}

// BuildOutbound turns a client frame into the encoded Frame broadcast to the
// room. It reports false when the frame carries no message.
func BuildOutbound(raw []byte, authenticated string) ([]byte, bool) {
	in, ok := DecodeInbound(raw)
	if !ok {
		return nil, false
	}
	out, err := json.Marshal(Frame{Message: in.Message, Sender: ResolveSender(authenticated, in.Sender)})
	if err != nil {
		return nil, false
	}
	return out, true
}
