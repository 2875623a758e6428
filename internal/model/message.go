package model

import "time"

// Message is a direct message between two accounts.  Messages are
// append-only.  SenderName and ReceiverName are copied when the
// message is sent and are not updated if either user is renamed.
type Message struct {
	ID           string    `json:"id"`
	SenderID     string    `json:"senderId"`
	SenderName   string    `json:"senderName"`
	ReceiverID   string    `json:"receiverId"`
	ReceiverName string    `json:"receiverName"`
	Text         string    `json:"text"`
	Timestamp    time.Time `json:"timestamp"`
}

// Involves reports whether userID sent or received the message.
func (m Message) Involves(userID string) bool {
	return m.SenderID == userID || m.ReceiverID == userID
}

// Counterpart returns the id and name of the other party as seen by
// viewerID.
func (m Message) Counterpart(viewerID string) (id, name string) {
	if m.SenderID == viewerID {
		return m.ReceiverID, m.ReceiverName
	}
	return m.SenderID, m.SenderName
}
