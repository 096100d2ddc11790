package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/luciancaetano/colonynet/message"
)

const (
	headerSize     = 4
	maxPayloadSize = 10 * 1024 * 1024 // 10MB max payload size
)

// Frame command ids.
const (
	// CmdMessage carries one JSON-encoded message tree.
	CmdMessage uint32 = 0x0001
)

// Encode encodes the commandID as the first 4 bytes (big-endian) followed by the payload.
func Encode(commandID uint32, payload []byte) ([]byte, error) {
	if len(payload) > maxPayloadSize {
		return nil, fmt.Errorf("payload size %d exceeds maximum %d bytes", len(payload), maxPayloadSize)
	}

	out := make([]byte, headerSize+len(payload))
	binary.BigEndian.PutUint32(out[:headerSize], commandID)
	copy(out[headerSize:], payload)
	return out, nil
}

// Decode decodes the first 4 bytes as commandID (big-endian) and returns the rest as payload.
// The payload slice references the input data for performance - do not modify it.
func Decode(data []byte) (uint32, []byte, error) {
	if len(data) < headerSize {
		return 0, nil, errors.New("data too short")
	}

	payloadSize := len(data) - headerSize
	if payloadSize > maxPayloadSize {
		return 0, nil, fmt.Errorf("payload size %d exceeds maximum %d bytes", payloadSize, maxPayloadSize)
	}

	cmd := binary.BigEndian.Uint32(data[:headerSize])
	payload := data[headerSize:]
	return cmd, payload, nil
}

// EncodeMessage frames a message tree under CmdMessage.
func EncodeMessage(msg *message.Message) ([]byte, error) {
	if msg == nil || msg.Tag == "" {
		return nil, errors.New("message without tag")
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}
	return Encode(CmdMessage, payload)
}

// DecodeMessage parses a frame produced by EncodeMessage.
func DecodeMessage(data []byte) (*message.Message, error) {
	cmd, payload, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if cmd != CmdMessage {
		return nil, fmt.Errorf("unexpected command 0x%08x", cmd)
	}
	var msg message.Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal message: %w", err)
	}
	if msg.Tag == "" {
		return nil, errors.New("message without tag")
	}
	if hasNilChild(&msg) {
		return nil, errors.New("message with null child")
	}
	return &msg, nil
}

func hasNilChild(m *message.Message) bool {
	for _, c := range m.Children {
		if c == nil || hasNilChild(c) {
			return true
		}
	}
	return false
}
