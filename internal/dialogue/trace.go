package dialogue

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Trace types emitted by the Dialog Manager interact endpoint.
const (
	TypeText     = "text"
	TypeChoice   = "choice"
	TypeCardV2   = "cardV2"
	TypeCarousel = "carousel"
	TypeVisual   = "visual"

	VisualTypeImage = "image"
)

// controlTypes carry runtime bookkeeping and never render.
var controlTypes = map[string]struct{}{
	"debug": {},
	"flow":  {},
	"block": {},
	"path":  {},
	"end":   {},
}

// Trace is one item of an interact response. The set of implementations is
// closed: TextTrace, ChoiceTrace, CardTrace, CarouselTrace, VisualTrace,
// ControlTrace and UnknownTrace.
type Trace interface {
	TraceType() string
	isTrace()
}

// TextTrace is a plain speech/text item.
type TextTrace struct {
	Message *string `json:"message"`
}

// ChoiceTrace offers buttons the user can pick from.
type ChoiceTrace struct {
	Buttons []ChoiceButton `json:"buttons"`
}

// ChoiceButton is one choice option.
type ChoiceButton struct {
	Name    string   `json:"name"`
	Request *Request `json:"request"`
}

// Request is the action a button sends back when picked.
type Request struct {
	Type    string         `json:"type"`
	Payload RequestPayload `json:"payload"`
}

// RequestPayload carries the label and intent of a button request.
type RequestPayload struct {
	Label  string `json:"label"`
	Intent Intent `json:"intent"`
}

// Intent is an intent reference. The API sends either a bare name or an
// object with a name field.
type Intent string

// UnmarshalJSON accepts "name" and {"name":"name"}.
func (i *Intent) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*i = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*i = Intent(s)
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("dialogue: intent: %w", err)
	}
	*i = Intent(obj.Name)
	return nil
}

// CardTrace is a single card (cardV2).
type CardTrace struct {
	ImageURL    string       `json:"imageUrl"`
	Title       string       `json:"title"`
	Description *Description `json:"description"`
	Buttons     []CardButton `json:"buttons"`
}

// Description is the rich description block of a card.
type Description struct {
	Text string `json:"text"`
}

// CardButton is a button on a card or carousel card.
type CardButton struct {
	Name    string   `json:"name"`
	Request *Request `json:"request"`
}

// CarouselTrace is a horizontally scrolling list of cards.
type CarouselTrace struct {
	Cards []Card `json:"cards"`
}

// Card is one carousel card.
type Card struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description *Description `json:"description"`
	ImageURL    string       `json:"imageUrl"`
	Buttons     []CardButton `json:"buttons"`
}

// VisualTrace is a media item; only images render.
type VisualTrace struct {
	VisualType string `json:"visualType"`
	Image      string `json:"image"`
}

// ControlTrace is a debug/flow/block/path/end item.
type ControlTrace struct {
	Type string
}

// UnknownTrace is any type this adapter does not know about.
type UnknownTrace struct {
	Type    string
	Payload json.RawMessage
}

func (TextTrace) TraceType() string      { return TypeText }
func (ChoiceTrace) TraceType() string    { return TypeChoice }
func (CardTrace) TraceType() string      { return TypeCardV2 }
func (CarouselTrace) TraceType() string  { return TypeCarousel }
func (VisualTrace) TraceType() string    { return TypeVisual }
func (t ControlTrace) TraceType() string { return t.Type }
func (t UnknownTrace) TraceType() string { return t.Type }

func (TextTrace) isTrace()     {}
func (ChoiceTrace) isTrace()   {}
func (CardTrace) isTrace()     {}
func (CarouselTrace) isTrace() {}
func (VisualTrace) isTrace()   {}
func (ControlTrace) isTrace()  {}
func (UnknownTrace) isTrace()  {}

// IsControl reports whether t is bookkeeping that never renders.
func IsControl(t Trace) bool {
	_, ok := t.(ControlTrace)
	return ok
}

type rawTrace struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// DecodeTraces parses an interact response body.
func DecodeTraces(data []byte) ([]Trace, error) {
	var raws []rawTrace
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("dialogue: decode traces: %w", err)
	}
	traces := make([]Trace, 0, len(raws))
	for i, raw := range raws {
		t, err := decodeTrace(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: trace %d (%s): %v", ErrMalformedTrace, i, raw.Type, err)
		}
		traces = append(traces, t)
	}
	return traces, nil
}

func decodeTrace(raw rawTrace) (Trace, error) {
	if _, ok := controlTypes[raw.Type]; ok {
		return ControlTrace{Type: raw.Type}, nil
	}
	switch raw.Type {
	case TypeText:
		return decodeAs[TextTrace](raw.Payload)
	case TypeChoice:
		return decodeAs[ChoiceTrace](raw.Payload)
	case TypeCardV2:
		return decodeAs[CardTrace](raw.Payload)
	case TypeCarousel:
		return decodeAs[CarouselTrace](raw.Payload)
	case TypeVisual:
		return decodeAs[VisualTrace](raw.Payload)
	default:
		return UnknownTrace{Type: raw.Type, Payload: raw.Payload}, nil
	}
}

func decodeAs[T Trace](payload json.RawMessage) (Trace, error) {
	var t T
	if len(payload) == 0 {
		return nil, errMissing("payload")
	}
	if err := json.Unmarshal(payload, &t); err != nil {
		return nil, err
	}
	return t, nil
}
