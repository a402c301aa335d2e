package event

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event is a single realtime event with a fixed wire name and an
// immutable payload, built at the moment of emission.
type Event struct {
	name    string
	payload any
}

// Name returns the wire name of the event (e.g. "message:new").
func (e Event) Name() string { return e.name }

// Envelope is the frame shape shared by both directions of the
// protocol: a name discriminator and a JSON payload.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Marshal serializes the event into its wire frame.
func (e Event) Marshal() ([]byte, error) {
	data, err := json.Marshal(e.payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %q payload: %w", e.name, err)
	}
	return json.Marshal(Envelope{Type: e.name, Data: data})
}

type newMessagePayload struct {
	ChannelID      int64  `json:"channel_id"`
	MessageID      int64  `json:"message_id"`
	Content        string `json:"content"`
	AuthorID       int64  `json:"author_id"`
	AuthorUsername string `json:"author_username"`
	CreatedAt      string `json:"created_at"`
}

type messageDeletedPayload struct {
	ChannelID int64 `json:"channel_id"`
	MessageID int64 `json:"message_id"`
}

type typingPayload struct {
	ChannelID int64  `json:"channel_id"`
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
}

type presencePayload struct {
	ServerID int64  `json:"server_id"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

type channelCreatedPayload struct {
	ServerID  int64  `json:"server_id"`
	ChannelID int64  `json:"channel_id"`
	Name      string `json:"name"`
}

type channelDeletedPayload struct {
	ServerID  int64 `json:"server_id"`
	ChannelID int64 `json:"channel_id"`
}

// NewMessage announces a freshly created message to its channel room.
func NewMessage(channelID, messageID int64, content string, authorID int64, authorUsername string, createdAt time.Time) Event {
	return Event{name: "message:new", payload: newMessagePayload{
		ChannelID:      channelID,
		MessageID:      messageID,
		Content:        content,
		AuthorID:       authorID,
		AuthorUsername: authorUsername,
		CreatedAt:      createdAt.UTC().Format(time.RFC3339),
	}}
}

// MessageDeleted announces a message removal to its channel room.
func MessageDeleted(channelID, messageID int64) Event {
	return Event{name: "message:deleted", payload: messageDeletedPayload{
		ChannelID: channelID,
		MessageID: messageID,
	}}
}

// UserTyping tells a channel room that a user started typing.
func UserTyping(channelID, userID int64, username string) Event {
	return Event{name: "user:typing", payload: typingPayload{
		ChannelID: channelID,
		UserID:    userID,
		Username:  username,
	}}
}

// UserConnected tells a server room that a user came online.
func UserConnected(serverID, userID int64, username string) Event {
	return Event{name: "user:connected", payload: presencePayload{
		ServerID: serverID,
		UserID:   userID,
		Username: username,
	}}
}

// UserDisconnected tells a server room that a user went offline.
func UserDisconnected(serverID, userID int64, username string) Event {
	return Event{name: "user:disconnected", payload: presencePayload{
		ServerID: serverID,
		UserID:   userID,
		Username: username,
	}}
}

// MemberJoined tells a server room that a user joined it.
func MemberJoined(serverID, userID int64, username string) Event {
	return Event{name: "member:joined", payload: presencePayload{
		ServerID: serverID,
		UserID:   userID,
		Username: username,
	}}
}

// MemberLeft tells a server room that a user left it.
func MemberLeft(serverID, userID int64, username string) Event {
	return Event{name: "member:left", payload: presencePayload{
		ServerID: serverID,
		UserID:   userID,
		Username: username,
	}}
}

// ChannelCreated announces a new channel to its server room.
func ChannelCreated(serverID, channelID int64, name string) Event {
	return Event{name: "channel:created", payload: channelCreatedPayload{
		ServerID:  serverID,
		ChannelID: channelID,
		Name:      name,
	}}
}

// ChannelDeleted announces a channel removal to its server room.
func ChannelDeleted(serverID, channelID int64) Event {
	return Event{name: "channel:deleted", payload: channelDeletedPayload{
		ServerID:  serverID,
		ChannelID: channelID,
	}}
}
