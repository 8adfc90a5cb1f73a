package spell

import (
	"github.com/specialistvlad/spellgraph/internal/pool"
)

// MessageType identifies what a Message asks its recipient to do.
type MessageType int

const (
	MessageDamage MessageType = iota
	MessageHeal
	MessageNotify
)

func (t MessageType) String() string {
	switch t {
	case MessageDamage:
		return "damage"
	case MessageHeal:
		return "heal"
	case MessageNotify:
		return "notify"
	default:
		return "unknown"
	}
}

// Message is delivered by actions to the targets they affect. Messages are
// pooled; recipients must not keep a reference after OnMessage returns.
type Message struct {
	Type      MessageType
	Name      string
	Spell     *Spell
	Sender    Target
	Recipient Target
	Value     float32
	// Handled is set by recipients that acted on the message.
	Handled bool
}

func (m *Message) reset() {
	*m = Message{}
}

// MessageHandler is implemented by targets that react to spell messages.
type MessageHandler interface {
	OnMessage(m *Message)
}

// NewMessagePool creates a pool for spell messages.
func NewMessagePool(capacity int) *pool.Pool[*Message] {
	return pool.New(capacity, func() *Message { return &Message{} }, (*Message).reset)
}

// Send delivers a message to recipient if it implements MessageHandler and
// reports whether the recipient handled it.
func (s *Spell) Send(t MessageType, name string, recipient Target, value float32) bool {
	h, ok := recipient.(MessageHandler)
	if !ok {
		return false
	}

	var m *Message
	env := s.Env()
	if env != nil && env.Messages != nil {
		m = env.Messages.Allocate()
		defer func() {
			if !env.Messages.Release(m) {
				s.Logger().Warn("Message pool is full, message dropped.", "capacity", env.Messages.Capacity())
			}
		}()
	} else {
		m = &Message{}
	}

	m.Type = t
	m.Name = name
	m.Spell = s
	m.Sender = s.Owner
	m.Recipient = recipient
	m.Value = value
	h.OnMessage(m)
	return m.Handled
}
