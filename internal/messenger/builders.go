package messenger

// Text builds a plain text message.
func Text(text string) Message {
	return Message{Text: text, kind: KindText}
}

// QuickReply builds a text message with quick-reply chips in option order.
// The platform caps the number of chips; the builder does not.
func QuickReply(text string, options []Option) Message {
	replies := make([]QuickReplyItem, 0, len(options))
	for _, o := range options {
		replies = append(replies, QuickReplyItem{
			ContentType: "text",
			Title:       o.Title,
			Payload:     o.Payload,
		})
	}
	return Message{Text: text, QuickReplies: replies, kind: KindQuickReply}
}

// Image builds an image attachment referencing url.
func Image(url string) Message {
	return Message{
		Attachment: &Attachment{
			Type:    "image",
			Payload: AttachmentPayload{URL: url},
		},
		kind: KindImage,
	}
}

// GenericTemplate builds a single-card generic template.
func GenericTemplate(imageURL, title, subtitle string, buttons []Button) Message {
	return Message{
		Attachment: &Attachment{
			Type: "template",
			Payload: AttachmentPayload{
				TemplateType: "generic",
				Elements: []Element{{
					Title:    title,
					Subtitle: subtitle,
					ImageURL: imageURL,
					Buttons:  buttons,
				}},
			},
		},
		kind: KindGenericTemplate,
	}
}

// GenericCarousel builds a multi-card generic template. Cards are used as given.
func GenericCarousel(cards []Element) Message {
	return Message{
		Attachment: &Attachment{
			Type: "template",
			Payload: AttachmentPayload{
				TemplateType: "generic",
				Elements:     cards,
			},
		},
		kind: KindCarousel,
	}
}

// PostbackButton builds a button that posts payload back to the webhook.
func PostbackButton(title, payload string) Button {
	return Button{Type: "postback", Title: title, Payload: payload}
}

// URLButton builds a button that opens url.
func URLButton(title, url string) Button {
	return Button{Type: "web_url", Title: title, URL: url}
}
