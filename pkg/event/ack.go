package event

// Machine-readable error codes carried by the "error" ack.
const (
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
)

type authenticatedPayload struct {
	Success  bool    `json:"success"`
	UserID   *int64  `json:"user_id,omitempty"`
	Username *string `json:"username,omitempty"`
	Error    *string `json:"error,omitempty"`
}

type serverJoinedPayload struct {
	ServerID       int64   `json:"server_id"`
	ConnectedUsers []int64 `json:"connected_users"`
}

type errorPayload struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// AuthSucceeded is the private ack for a successful authenticate call.
func AuthSucceeded(userID int64, username string) Event {
	return Event{name: "authenticated", payload: authenticatedPayload{
		Success:  true,
		UserID:   &userID,
		Username: &username,
	}}
}

// AuthFailed is the private ack for a rejected credential.
func AuthFailed(reason string) Event {
	return Event{name: "authenticated", payload: authenticatedPayload{
		Success: false,
		Error:   &reason,
	}}
}

// ServerJoined is the private ack for a successful join, carrying the
// presence snapshot of the room as committed at join time.
func ServerJoined(serverID int64, connectedUsers []int64) Event {
	if connectedUsers == nil {
		connectedUsers = []int64{}
	}
	return Event{name: "server:joined", payload: serverJoinedPayload{
		ServerID:       serverID,
		ConnectedUsers: connectedUsers,
	}}
}

// ProtocolError is the private ack for a rejected operation.
func ProtocolError(message, code string) Event {
	return Event{name: "error", payload: errorPayload{Error: message, Code: code}}
}
