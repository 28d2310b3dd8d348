package domain

import "sort"

// Message is one entry in a chat timeline. Messages are append-only:
// once created they are never edited or reordered.
type Message struct {
	ID        MessageID
	Role      Role
	Content   string
	Timestamp int64 // milliseconds since epoch
}

// ChatSession is one user-visible conversation thread.
//
// RemoteID is the identifier assigned by the remote store and is empty
// until the session has been persisted at least once since the last
// sign-in. It is distinct from ID, which is generated locally and acts
// as the stable cross-store join key.
type ChatSession struct {
	ID        ChatID
	Title     string
	Messages  []*Message
	Timestamp int64 // creation time, milliseconds since epoch
	RemoteID  string
}

// Persisted reports whether the session has a remote record.
func (c *ChatSession) Persisted() bool {
	return c.RemoteID != ""
}

// Clone returns a deep copy. Stores copy sessions on the way in and
// out so the manager's in-memory state never aliases store state.
func (c *ChatSession) Clone() *ChatSession {
	cp := *c
	cp.Messages = make([]*Message, len(c.Messages))
	for i, m := range c.Messages {
		mc := *m
		cp.Messages[i] = &mc
	}
	return &cp
}

// SortChats orders sessions by creation timestamp descending, the
// presentation order of the chat list.
func SortChats(chats []*ChatSession) {
	sort.Slice(chats, func(i, j int) bool {
		return chats[i].Timestamp > chats[j].Timestamp
	})
}
