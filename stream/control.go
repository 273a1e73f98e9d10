package stream

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/matt-g-everett/ledtrack/track"
)

// Control message types.
const (
	ControlRestart    = "restart"
	ControlHoverEnter = "hoverEnter"
	ControlHoverLeave = "hoverLeave"
)

// ErrUnknownControl means a control message had an unrecognised type.
var ErrUnknownControl = errors.New("unknown control message")

// ControlMessage is an interaction signal received on the control topic.
type ControlMessage struct {
	Type string `json:"type"`
}

// DispatchControl decodes payload and forwards it to signals.
func DispatchControl(payload []byte, signals track.Interaction) error {
	var message ControlMessage
	if err := json.Unmarshal(payload, &message); err != nil {
		return fmt.Errorf("decode control message: %w", err)
	}

	switch message.Type {
	case ControlRestart:
		signals.Restart()
	case ControlHoverEnter:
		signals.HoverEnter()
	case ControlHoverLeave:
		signals.HoverLeave()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownControl, message.Type)
	}

	return nil
}
