package memory

import (
	"encoding/json"
	"os"
)

// SaveTranscript writes msgs as indented JSON. The transcript is the
// conversation as built, before any cache shaping; content is a string or an
// array of blocks.
func SaveTranscript(path string, msgs []Message) error {
	b, err := json.MarshalIndent(msgs, "", " ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// LoadTranscript reads a transcript written by SaveTranscript.
func LoadTranscript(path string) ([]Message, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var msgs []Message
	if err := json.Unmarshal(b, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}
