package bot

import "github.com/wolfman30/igdm-router/internal/messenger"

// Reply is the result of routing one event: nothing, one message, or an
// ordered batch that the sequencer staggers.
type Reply struct {
	Messages []messenger.Message
	Batch    bool
}

// Single wraps one message.
func Single(m messenger.Message) Reply {
	return Reply{Messages: []messenger.Message{m}}
}

// Batch wraps an ordered list of messages.
func Batch(msgs ...messenger.Message) Reply {
	return Reply{Messages: msgs, Batch: true}
}

// replyOf picks Single or Batch depending on how many messages came back.
func replyOf(msgs []messenger.Message) Reply {
	if len(msgs) == 1 {
		return Single(msgs[0])
	}
	return Batch(msgs...)
}

// IsEmpty reports whether nothing should be sent.
func (r Reply) IsEmpty() bool {
	return len(r.Messages) == 0
}
