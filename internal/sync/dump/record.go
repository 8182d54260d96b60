package dump

import (
	"encoding/json"
	"fmt"

	"github.com/eventsync/eventsync/internal/common"
	"github.com/eventsync/eventsync/internal/models"
)

// Record line type tags. Every dump.jsonl line carries an explicit tag so
// classification never has to guess from field shapes.
const (
	recordTypeEvent = "event"
	recordTypeFile  = "file"
)

type recordEnvelope struct {
	Type  string                 `json:"type"`
	Event *models.Event          `json:"event,omitempty"`
	File  *models.FileAttachment `json:"file,omitempty"`
}

func encodeEventRecord(e *models.Event) ([]byte, error) {
	return json.Marshal(recordEnvelope{Type: recordTypeEvent, Event: e})
}

func encodeFileRecord(a *models.FileAttachment) ([]byte, error) {
	return json.Marshal(recordEnvelope{Type: recordTypeFile, File: a})
}

// decodeRecord classifies and decodes one dump.jsonl line. Exactly one of
// the returned pointers is non-nil on success.
func decodeRecord(line []byte) (*models.Event, *models.FileAttachment, error) {
	var env recordEnvelope
	if err := json.Unmarshal(line, &env); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", common.ErrParse, err)
	}
	switch env.Type {
	case recordTypeEvent:
		if env.Event == nil {
			return nil, nil, fmt.Errorf("%w: event record without event body", common.ErrParse)
		}
		return env.Event, nil, nil
	case recordTypeFile:
		if env.File == nil {
			return nil, nil, fmt.Errorf("%w: file record without file body", common.ErrParse)
		}
		return nil, env.File, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown record type %q", common.ErrParse, env.Type)
	}
}
