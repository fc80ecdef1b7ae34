package imaging

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DataURI encodes photo bytes as a data URI
// ("data:<mime>;base64,<data>"), the wire format item images use inside
// the persisted collections.
func (p *Photo) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", p.MIME, base64.StdEncoding.EncodeToString(p.Data))
}

// ParseDataURI decodes a data URI into raw bytes and a MIME type.
// Non-data URLs (e.g. plain https image URLs from the seed fixtures)
// return an error; callers treat those images as not inlineable.
func ParseDataURI(uri string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", fmt.Errorf("not a data URI")
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data URI: missing payload")
	}

	mime, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return nil, "", fmt.Errorf("malformed data URI: only base64 encoding supported")
	}
	if mime == "" {
		mime = "text/plain"
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decoding data URI payload: %w", err)
	}
	return data, mime, nil
}
