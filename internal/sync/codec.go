package sync

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nivke/cartmate/internal/models"
)

// Version is the current sync token format version. Tokens without a
// version field are treated as Version 1 so links minted by the original
// web client keep working.
const Version = 1

// ErrDecode is the sentinel for any sync token that cannot be decoded:
// broken base64, malformed JSON, missing required fields, or an unsupported
// version. Callers match with errors.Is and must treat a decode failure as
// "no incoming sync offer".
var ErrDecode = errors.New("invalid sync token")

// Encode serializes the payload to canonical JSON, takes its UTF-8 bytes,
// and base64url-encodes them. The two-step text-to-bytes-to-text path is
// what keeps Hebrew and other multi-byte text lossless: the base64 stage
// only ever sees UTF-8 bytes, never characters.
func Encode(payload *models.SyncPayload) (string, error) {
	if payload == nil || payload.Prefs == nil {
		return "", fmt.Errorf("sync payload must carry preferences")
	}
	p := *payload
	p.Version = Version
	if p.Items == nil {
		p.Items = []models.Item{}
	}
	data, err := json.Marshal(&p)
	if err != nil {
		return "", fmt.Errorf("failed to marshal sync payload: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// rawPayload mirrors models.SyncPayload with RawMessage fields so Decode can
// tell "field absent" apart from "field empty".
type rawPayload struct {
	Version int             `json:"v"`
	Items   json.RawMessage `json:"items"`
	Prefs   json.RawMessage `json:"prefs"`
}

// Decode is the inverse of Encode. It validates the token at every stage
// and wraps every failure in ErrDecode; it never panics on hostile input.
//
// Tokens using the standard base64 alphabet, with or without padding, are
// accepted as well: the original client produced std-alphabet tokens.
func Decode(token string) (*models.SyncPayload, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrDecode)
	}
	data, err := decodeBase64(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	var raw rawPayload
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: malformed payload: %v", ErrDecode, err)
	}
	if raw.Version > Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrDecode, raw.Version)
	}
	if raw.Items == nil {
		return nil, fmt.Errorf("%w: missing items", ErrDecode)
	}
	if raw.Prefs == nil {
		return nil, fmt.Errorf("%w: missing prefs", ErrDecode)
	}

	payload := &models.SyncPayload{Version: raw.Version}
	if err := json.Unmarshal(raw.Items, &payload.Items); err != nil {
		return nil, fmt.Errorf("%w: malformed items: %v", ErrDecode, err)
	}
	if err := json.Unmarshal(raw.Prefs, &payload.Prefs); err != nil {
		return nil, fmt.Errorf("%w: malformed prefs: %v", ErrDecode, err)
	}
	if payload.Prefs == nil {
		return nil, fmt.Errorf("%w: missing prefs", ErrDecode)
	}
	for i := range payload.Items {
		if payload.Items[i].ID == "" {
			return nil, fmt.Errorf("%w: item %d has no id", ErrDecode, i)
		}
		if !payload.Items[i].Status.Valid() {
			return nil, fmt.Errorf("%w: item %d has status %q", ErrDecode, i, payload.Items[i].Status)
		}
	}
	if payload.Version == 0 {
		payload.Version = 1
	}
	return payload, nil
}

// decodeBase64 tries the URL-safe alphabet first, then the standard one,
// each with and without padding.
func decodeBase64(token string) ([]byte, error) {
	encodings := []*base64.Encoding{
		base64.RawURLEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.StdEncoding,
	}
	var err error
	for _, enc := range encodings {
		var data []byte
		if data, err = enc.DecodeString(token); err == nil {
			return data, nil
		}
	}
	return nil, fmt.Errorf("not base64: %v", err)
}
