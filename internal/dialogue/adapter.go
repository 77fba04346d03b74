package dialogue

import (
	"fmt"
	"strings"

	"github.com/wolfman30/igdm-router/internal/messenger"
	"github.com/wolfman30/igdm-router/pkg/logging"
)

const (
	// ChoicePrompt is the text shown above choice quick replies.
	ChoicePrompt = "Please select an option"
	// Placeholder is sent when a response renders nothing.
	Placeholder = "..."

	pathRequestMarker = "path-"
)

// Adapter turns interact traces into Messenger messages.
type Adapter struct {
	logger *logging.Logger
}

// NewAdapter creates an Adapter.
func NewAdapter(logger *logging.Logger) *Adapter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Adapter{logger: logger}
}

// Adapt renders traces in order. Control traces are skipped, visuals other
// than images and unknown types render nothing, and an empty result becomes
// a single placeholder text. Any malformed trace fails the whole call.
func (a *Adapter) Adapt(traces []Trace) ([]messenger.Message, error) {
	out := make([]messenger.Message, 0, len(traces))
	for i, t := range traces {
		if IsControl(t) {
			continue
		}
		msg, ok, err := a.render(t)
		if err != nil {
			return nil, fmt.Errorf("%w: trace %d (%s): %v", ErrMalformedTrace, i, t.TraceType(), err)
		}
		if ok {
			out = append(out, msg)
		}
	}
	if len(out) == 0 {
		out = append(out, messenger.Text(Placeholder))
	}
	return out, nil
}

func (a *Adapter) render(t Trace) (messenger.Message, bool, error) {
	switch t := t.(type) {
	case TextTrace:
		if t.Message == nil || *t.Message == "" {
			return messenger.Message{}, false, errMissing("message")
		}
		return messenger.Text(*t.Message), true, nil

	case ChoiceTrace:
		if len(t.Buttons) == 0 {
			return messenger.Message{}, false, errMissing("buttons")
		}
		options, err := choiceOptions(t.Buttons)
		if err != nil {
			return messenger.Message{}, false, err
		}
		return messenger.QuickReply(ChoicePrompt, options), true, nil

	case CardTrace:
		if t.Description == nil {
			return messenger.Message{}, false, errMissing("description")
		}
		buttons, err := cardButtons(t.Buttons)
		if err != nil {
			return messenger.Message{}, false, err
		}
		return messenger.GenericTemplate(t.ImageURL, t.Title, t.Description.Text, buttons), true, nil

	case CarouselTrace:
		if len(t.Cards) == 0 {
			return messenger.Message{}, false, errMissing("cards")
		}
		elements := make([]messenger.Element, 0, len(t.Cards))
		for i, card := range t.Cards {
			if card.Description == nil {
				return messenger.Message{}, false, fmt.Errorf("card %d: %w", i, errMissing("description"))
			}
			buttons, err := cardButtons(card.Buttons)
			if err != nil {
				return messenger.Message{}, false, fmt.Errorf("card %d: %w", i, err)
			}
			elements = append(elements, messenger.Element{
				Title:    card.Title,
				Subtitle: card.Description.Text,
				ImageURL: card.ImageURL,
				Buttons:  buttons,
			})
		}
		return messenger.GenericCarousel(elements), true, nil

	case VisualTrace:
		if t.VisualType != VisualTypeImage {
			a.logger.Debug("dialogue: visual dropped", "visual_type", t.VisualType)
			return messenger.Message{}, false, nil
		}
		if t.Image == "" {
			return messenger.Message{}, false, errMissing("image")
		}
		return messenger.Image(t.Image), true, nil

	case ControlTrace:
		return messenger.Message{}, false, nil

	case UnknownTrace:
		a.logger.Debug("dialogue: unknown trace dropped", "type", t.Type)
		return messenger.Message{}, false, nil
	}
	return messenger.Message{}, false, nil
}

// choiceOptions derives quick replies from choice buttons. Navigational
// buttons (request type containing "path-") post their request type back;
// the rest post their intent name.
func choiceOptions(buttons []ChoiceButton) ([]messenger.Option, error) {
	options := make([]messenger.Option, 0, len(buttons))
	for i, b := range buttons {
		if b.Request == nil {
			return nil, fmt.Errorf("button %d: %w", i, errMissing("request"))
		}
		title := b.Request.Payload.Label
		if title == "" {
			title = b.Name
		}
		if title == "" {
			return nil, fmt.Errorf("button %d: %w", i, errMissing("label"))
		}

		payload := b.Request.Type
		if !strings.Contains(payload, pathRequestMarker) {
			payload = string(b.Request.Payload.Intent)
			if payload == "" {
				return nil, fmt.Errorf("button %d: %w", i, errMissing("intent"))
			}
		}
		options = append(options, messenger.Option{Title: title, Payload: payload})
	}
	return options, nil
}

func cardButtons(buttons []CardButton) ([]messenger.Button, error) {
	out := make([]messenger.Button, 0, len(buttons))
	for i, b := range buttons {
		if b.Request == nil {
			return nil, fmt.Errorf("button %d: %w", i, errMissing("request"))
		}
		out = append(out, messenger.PostbackButton(b.Name, b.Request.Type))
	}
	return out, nil
}
