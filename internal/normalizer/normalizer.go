// Package normalizer flattens inbound envelopes into store-ready records.
//
// Normalization is a pure, total transformation: every field of the output
// record has a fallback, so a message missing most of its fields still
// produces a fully populated, queryable record.
package normalizer

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/danparkr/nrfcloud-appwrite-webhook/internal/models"
)

// ISOMillis is the timestamp layout used throughout the normalized record,
// matching the millisecond-precision UTC format the upstream service emits.
const ISOMillis = "2006-01-02T15:04:05.000Z"

const (
	defaultAppID       = "UNKNOWN"
	defaultMessageType = "DATA"
)

// Normalizer converts envelopes into normalized records. The clock is
// injectable so tests can pin the derived timestamps.
type Normalizer struct {
	Now func() time.Time
}

// New returns a Normalizer using the wall clock.
func New() *Normalizer {
	return &Normalizer{Now: time.Now}
}

// Normalize applies the defaulting rules to one envelope. It never fails:
// the input has already survived JSON decoding, and every output field has
// a fallback value.
func (n *Normalizer) Normalize(env *models.Envelope) *models.Record {
	now := n.now()

	record := &models.Record{
		TeamID:      env.TeamID,
		DeviceID:    env.DeviceID,
		TenantID:    env.TenantID,
		Topic:       env.Topic,
		AppID:       env.Message.AppID,
		MessageType: env.Message.MessageType,
		Timestamp:   n.messageTime(&env.Message, now),
		ReceivedAt:  env.ReceivedAt,
		DataValue:   encodeDataValue(env.Message.Data),
		DataType:    string(models.KindOf(env.Message.Data)),
		RawMessage:  rawMessage(&env.Message),
		CreatedAt:   now.Format(ISOMillis),
	}

	if record.AppID == "" {
		record.AppID = defaultAppID
	}
	if record.MessageType == "" {
		record.MessageType = defaultMessageType
	}
	if record.ReceivedAt == "" {
		record.ReceivedAt = now.Format(ISOMillis)
	}

	return record
}

func (n *Normalizer) now() time.Time {
	if n.Now != nil {
		return n.Now().UTC()
	}
	return time.Now().UTC()
}

// messageTime derives the event timestamp from ts, falling back to time,
// falling back to the processing time. Both inputs are epoch milliseconds.
func (n *Normalizer) messageTime(msg *models.Message, now time.Time) string {
	epochMillis := msg.TS
	if epochMillis == nil {
		epochMillis = msg.Time
	}
	if epochMillis == nil {
		return now.Format(ISOMillis)
	}
	return time.UnixMilli(int64(*epochMillis)).UTC().Format(ISOMillis)
}

// encodeDataValue re-encodes the data field as a string: structured values
// become compact JSON, strings are unwrapped, other scalars keep their JSON
// token text, and null or absent data becomes the empty string.
func encodeDataValue(raw json.RawMessage) string {
	token := bytes.TrimSpace(raw)
	switch models.KindOf(token) {
	case models.KindUndefined, models.KindNull:
		return ""
	case models.KindString:
		var s string
		if err := json.Unmarshal(token, &s); err != nil {
			return string(token)
		}
		return s
	case models.KindObject, models.KindArray:
		var buf bytes.Buffer
		if err := json.Compact(&buf, token); err != nil {
			return string(token)
		}
		return buf.String()
	default:
		return string(token)
	}
}

// rawMessage serializes the full inbound message verbatim for archival.
func rawMessage(msg *models.Message) string {
	if raw := msg.Raw(); len(raw) > 0 {
		return string(raw)
	}
	encoded, err := json.Marshal(msg)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}
