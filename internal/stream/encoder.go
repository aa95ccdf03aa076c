// Package stream owns the long-lived event stream sessions: one per
// connected client, fed by the event bus, written out as server-sent events.
package stream

import (
	"encoding/json"
	"fmt"

	"github.com/simonebenati/taskboard/internal/events"
)

// Encode serializes one event as an SSE frame: an event line naming the type
// and a data line carrying the JSON envelope {type, data, timestamp}, blank
// line terminated so clients can parse discrete messages off the stream.
func Encode(ev events.TenantEvent) ([]byte, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("stream.Encode: %w", err)
	}

	frame := make([]byte, 0, len(payload)+len(ev.Type)+16)
	frame = append(frame, "event: "...)
	frame = append(frame, ev.Type...)
	frame = append(frame, "\ndata: "...)
	frame = append(frame, payload...)
	frame = append(frame, "\n\n"...)

	return frame, nil
}
