package amqp

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"financetracker/internal/storage"
)

// SlotChangedMessage announces that a slot was rewritten. It carries a digest
// of the new value rather than the value; consumers read the store.
type SlotChangedMessage struct {
	Key       string    `json:"key"`
	Digest    string    `json:"digest"`
	Size      int       `json:"size"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSlotChangedMessage(change storage.Change) *SlotChangedMessage {
	return &SlotChangedMessage{
		Key:       change.Key,
		Digest:    Digest(change.Value),
		Size:      len(change.Value),
		Timestamp: time.Now(),
	}
}

// Digest is the hex SHA-256 of a slot value.
func Digest(value []byte) string {
	sum := sha256.Sum256(value)
	return hex.EncodeToString(sum[:])
}

func (m *SlotChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SlotChangedMessageFromJSON(data []byte) (*SlotChangedMessage, error) {
	var msg SlotChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
