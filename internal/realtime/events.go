package realtime

import (
	"encoding/json"

	"venturebridge/internal/domain"
)

// Client frame types.
const (
	EventRegister         = "register"
	EventMeetingSubscribe = "meeting:subscribe"
	EventRoomJoin         = "room:join"
	EventRoomLeave        = "room:leave"
	EventWebRTCOffer      = "webrtc:offer"
	EventWebRTCAnswer     = "webrtc:answer"
	EventWebRTCICE        = "webrtc:ice"
	EventCallInvite       = "call:invite"
	EventCallAccept       = "call:accept"
	EventCallDecline      = "call:decline"
	EventCallEnd          = "call:end"
	EventChatSend         = "chat:send"
)

// Server frame types.
const (
	EventRoomUsers      = "room:users"
	EventRoomUserJoined = "room:user-joined"
	EventRoomUserLeft   = "room:user-left"
	EventCallIncoming   = "call:incoming"
	EventCallAccepted   = "call:accepted"
	EventCallDeclined   = "call:declined"
	EventCallEnded      = "call:ended"
	EventCallError      = "call:error"
	EventMeetingStarted = "meeting:started"
	EventChatMessage    = "chat:message"
	EventChatOffline    = "chat:offline"
)

type envelope struct {
	Type string `json:"type"`
}

type meetingSubscribePayload struct {
	MeetingID string `json:"meetingId"`
}

type roomPayload struct {
	RoomID string `json:"roomId"`
}

// Room-scoped webrtc frames address a specific connection; call-scoped
// frames address a user through the presence registry. ToConnID set means
// room-scoped.
type webrtcPayload struct {
	RoomID    string          `json:"roomId,omitempty"`
	ToConnID  string          `json:"toConnId,omitempty"`
	ToUserID  string          `json:"toUserId,omitempty"`
	SDP       json.RawMessage `json:"sdp,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

type callPayload struct {
	ToUserID string `json:"toUserId"`
	CallType string `json:"callType,omitempty"`
}

type chatSendPayload struct {
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
}

type roomUsersFrame struct {
	Type  string   `json:"type"`
	Users []string `json:"users"`
}

type roomMemberFrame struct {
	Type   string `json:"type"`
	ConnID string `json:"connId"`
	UserID string `json:"userId,omitempty"`
}

type webrtcFrame struct {
	Type       string          `json:"type"`
	FromUserID string          `json:"fromUserId"`
	FromConnID string          `json:"fromConnId,omitempty"`
	SDP        json.RawMessage `json:"sdp,omitempty"`
	Candidate  json.RawMessage `json:"candidate,omitempty"`
}

type callFrame struct {
	Type       string `json:"type"`
	FromUserID string `json:"fromUserId"`
	CallType   string `json:"callType,omitempty"`
}

type callErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type meetingStartedFrame struct {
	Type      string `json:"type"`
	MeetingID string `json:"meetingId"`
	RoomID    string `json:"roomId"`
	RoomURL   string `json:"roomUrl"`
}

type chatMessageFrame struct {
	Type    string          `json:"type"`
	Message *domain.Message `json:"message"`
}

type chatOfflineFrame struct {
	Type     string            `json:"type"`
	Messages []*domain.Message `json:"messages"`
}
