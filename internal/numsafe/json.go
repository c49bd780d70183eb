package numsafe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// Marshal encodes v as JSON after running it through Sanitize. Struct payloads
// are first encoded with their own tags, decoded with UseNumber so integers
// keep their literal text, then walked.
func Marshal(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var generic any
	err = dec.Decode(&generic)
	if err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}

	return json.Marshal(Sanitize(generic))
}

// WriteJSON writes v with status after sanitizing oversized integers.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	body, err := Marshal(v)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(body)
	return err
}
