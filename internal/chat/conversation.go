// Package chat turns the flat message list into what a messaging view
// shows: one row per conversation partner and the thread with a chosen
// partner.
package chat

import (
	"sort"

	"github.com/iliyamo/rental-marketplace/internal/model"
)

// Conversation is one row of the inbox.
type Conversation struct {
	UserID      string        `json:"userId"`
	Name        string        `json:"name"`
	LastMessage model.Message `json:"lastMessage"`
}

// Conversations groups the viewer's messages by counterpart and keeps
// the latest message of each.  A later message only replaces the kept
// one when its timestamp is strictly greater.  Rows are ordered newest
// first; rows with equal timestamps keep the order their counterpart
// was first seen in.
func Conversations(msgs []model.Message, viewerID string) []Conversation {
	byUser := map[string]int{}
	out := []Conversation{}
	for _, m := range msgs {
		if !m.Involves(viewerID) {
			continue
		}
		id, name := m.Counterpart(viewerID)
		i, ok := byUser[id]
		if !ok {
			byUser[id] = len(out)
			out = append(out, Conversation{UserID: id, Name: name, LastMessage: m})
			continue
		}
		if m.Timestamp.After(out[i].LastMessage.Timestamp) {
			out[i].Name = name
			out[i].LastMessage = m
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].LastMessage.Timestamp.After(out[b].LastMessage.Timestamp)
	})
	return out
}

// Thread returns the messages exchanged between viewerID and otherID,
// oldest first.
func Thread(msgs []model.Message, viewerID, otherID string) []model.Message {
	out := []model.Message{}
	for _, m := range msgs {
		if (m.SenderID == viewerID && m.ReceiverID == otherID) ||
			(m.SenderID == otherID && m.ReceiverID == viewerID) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Timestamp.Before(out[b].Timestamp)
	})
	return out
}
