package models

import "encoding/json"

// Envelope is one inbound webhook message as delivered by the nRF Cloud
// message routing service. Every field is optional; normalization fills in
// defaults for anything the sender left out.
type Envelope struct {
	TeamID     string  `json:"teamId,omitempty"`
	DeviceID   string  `json:"deviceId,omitempty"`
	TenantID   *string `json:"tenantId,omitempty"`
	Topic      *string `json:"topic,omitempty"`
	ReceivedAt string  `json:"receivedAt,omitempty"`
	Message    Message `json:"message,omitempty"`
}

// BatchRequest is the container shape for multi-message deliveries.
// When Messages is absent the body itself is a single Envelope.
type BatchRequest struct {
	Messages []Envelope `json:"messages"`
}

// Message is the device payload inside an envelope. Data is kept as raw JSON
// so its original type can be classified before stringification, and the
// full message bytes are retained verbatim for lossless archival.
type Message struct {
	AppID       string          `json:"appId,omitempty"`
	MessageType string          `json:"messageType,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
	TS          *float64        `json:"ts,omitempty"`
	Time        *float64        `json:"time,omitempty"`

	raw json.RawMessage
}

// UnmarshalJSON decodes the message fields and keeps a copy of the original
// bytes for the rawMessage archival field.
func (m *Message) UnmarshalJSON(b []byte) error {
	type alias Message
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*m = Message(a)
	m.raw = append(json.RawMessage(nil), b...)
	return nil
}

// MarshalJSON round-trips the verbatim bytes when present.
func (m Message) MarshalJSON() ([]byte, error) {
	if len(m.raw) > 0 {
		return m.raw, nil
	}
	type alias Message
	return json.Marshal(alias(m))
}

// Raw returns the verbatim JSON bytes the message was decoded from, or nil
// if the message was constructed in code.
func (m *Message) Raw() json.RawMessage {
	return m.raw
}

// Record is the normalized, store-ready representation of one envelope.
// Every field is populated by the normalizer; TenantID and Topic are
// explicit nulls when the envelope omitted them. A Record is never mutated
// after construction.
type Record struct {
	TeamID      string  `json:"teamId"`
	DeviceID    string  `json:"deviceId"`
	TenantID    *string `json:"tenantId"`
	Topic       *string `json:"topic"`
	AppID       string  `json:"appId"`
	MessageType string  `json:"messageType"`
	Timestamp   string  `json:"timestamp"`
	ReceivedAt  string  `json:"receivedAt"`
	DataValue   string  `json:"dataValue"`
	DataType    string  `json:"dataType"`
	RawMessage  string  `json:"rawMessage"`
	CreatedAt   string  `json:"createdAt"`
}

// ItemResult is the per-message outcome inside a batch response.
type ItemResult struct {
	DeviceID   string `json:"deviceId"`
	DocumentID string `json:"documentId,omitempty"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

// BatchResponse is the request-level response for a processed POST.
// Success reflects the request as a whole and stays true even when
// individual items failed; per-item outcomes live in Results.
type BatchResponse struct {
	Success    bool         `json:"success"`
	Processed  int          `json:"processed"`
	Successful int          `json:"successful"`
	Results    []ItemResult `json:"results"`
}

// ErrorResponse is the body for request-level failures.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// HealthResponse is the GET liveness body.
type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
