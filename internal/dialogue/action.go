package dialogue

// Action is the request body "action" field of an interact call.
type Action struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// TextAction sends free text for NLU matching.
func TextAction(text string) Action {
	return Action{Type: "text", Payload: text}
}

// LaunchAction starts the conversation from the top of the flow.
func LaunchAction() Action {
	return Action{Type: "launch"}
}

// IntentAction replays a button request type or intent name as a
// structured action.
func IntentAction(requestType string) Action {
	return Action{Type: requestType}
}
