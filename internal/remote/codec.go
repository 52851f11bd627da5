package remote

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/Makepad-fr/planner/internal/model"
)

// ErrEmptyBody is returned when a mutation response carries no payload.
var ErrEmptyBody = errors.New("empty response body")

// DecodeMessage extracts the status message from a mutation response.
//
// Two formats are accepted. The legacy one is a JSON string holding a
// percent-encoded JSON object; it is unwrapped in five steps: parse the
// outer string, re-escape embedded quotes, parse again as a string
// literal, URI-decode, parse the object. The plain one is the object itself.
func DecodeMessage(body []byte) (string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "", ErrEmptyBody
	}
	switch trimmed[0] {
	case '"':
		return decodeLegacy(trimmed)
	case '{':
		return decodePlain(trimmed)
	default:
		return "", fmt.Errorf("unexpected message body starting with %q", trimmed[0])
	}
}

func decodeLegacy(body []byte) (string, error) {
	var outer string
	if err := json.Unmarshal(body, &outer); err != nil {
		return "", fmt.Errorf("outer string: %w", err)
	}
	// Every quote is re-escaped, including ones already preceded by a backslash.
	escaped := strings.ReplaceAll(outer, `"`, `\"`)
	var literal string
	if err := json.Unmarshal([]byte(`"`+escaped+`"`), &literal); err != nil {
		return "", fmt.Errorf("inner literal: %w", err)
	}
	payload, err := decodeURIComponent(literal)
	if err != nil {
		return "", err
	}
	return decodePlain([]byte(payload))
}

func decodePlain(body []byte) (string, error) {
	var m model.Message
	if err := json.Unmarshal(body, &m); err != nil {
		return "", fmt.Errorf("message object: %w", err)
	}
	return m.Message, nil
}

// EncodeMessage renders msg in the legacy double-encoded wire format.
// DecodeMessage(EncodeMessage(m)) == m for any valid UTF-8 m.
func EncodeMessage(msg string) ([]byte, error) {
	payload, err := json.Marshal(model.Message{Message: msg})
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	// Percent-encoding leaves no quotes or backslashes behind, so the
	// quote re-escaping on the decode side has nothing to undo.
	return json.Marshal(encodeURIComponent(string(payload)))
}

// EncodePlainMessage renders msg as a single JSON object.
func EncodePlainMessage(msg string) ([]byte, error) {
	return json.Marshal(model.Message{Message: msg})
}

func decodeURIComponent(s string) (string, error) {
	out, err := url.PathUnescape(s)
	if err != nil {
		return "", fmt.Errorf("uri decode: %w", err)
	}
	if !utf8.ValidString(out) {
		return "", errors.New("uri decode: malformed utf-8 sequence")
	}
	return out, nil
}

const upperHex = "0123456789ABCDEF"

// encodeURIComponent escapes everything except A-Z a-z 0-9 - _ . ! ~ * ' ( ).
func encodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
