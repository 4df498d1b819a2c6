package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"venturebridge/internal/domain"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub owns the websocket side of the platform: it authenticates upgrades,
// runs the per-connection pumps, and dispatches client frames to the
// presence registry, room relay and signaling relay. It also implements
// domain.MeetingNotifier and domain.MessageNotifier for the service layer.
type Hub struct {
	presence *PresenceRegistry
	rooms    *RoomRelay
	messages domain.MessageService
	verifier domain.TokenVerifier
	logger   *slog.Logger
}

func NewHub(messages domain.MessageService, verifier domain.TokenVerifier, logger *slog.Logger) *Hub {
	return &Hub{
		presence: NewPresenceRegistry(),
		rooms:    NewRoomRelay(),
		messages: messages,
		verifier: verifier,
		logger:   logger,
	}
}

// HandleWS upgrades the request to a websocket connection. The token comes
// from the "token" query parameter or the Authorization header.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	userID, err := h.verifier.Verify(token)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	conn := newConn(ws, userID)
	h.logger.Info("websocket connected", "user_id", userID, "conn_id", conn.ID())

	go conn.writePump()
	go h.readPump(conn)
}

func (h *Hub) readPump(c *Conn) {
	defer h.disconnect(c)
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		h.dispatch(c, data)
	}
}

// disconnect tears a connection down: presence unbind, departure broadcasts
// for every room it was in, then close.
func (h *Hub) disconnect(c *Conn) {
	h.presence.RemoveConn(c.UserID(), c)
	for _, peers := range h.rooms.DropConn(c.ID()) {
		h.broadcast(peers.Members, roomMemberFrame{
			Type:   EventRoomUserLeft,
			ConnID: c.ID(),
			UserID: c.UserID(),
		})
	}
	c.Close()
	h.logger.Info("websocket disconnected", "user_id", c.UserID(), "conn_id", c.ID())
}

func (h *Hub) dispatch(c *Conn, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		h.logger.Warn("malformed frame", "conn_id", c.ID(), "error", err)
		return
	}

	switch env.Type {
	case EventRegister:
		h.handleRegister(c)
	case EventMeetingSubscribe:
		h.handleMeetingSubscribe(c, data)
	case EventRoomJoin:
		h.handleRoomJoin(c, data)
	case EventRoomLeave:
		h.handleRoomLeave(c, data)
	case EventWebRTCOffer, EventWebRTCAnswer, EventWebRTCICE:
		h.handleWebRTC(c, env.Type, data)
	case EventCallInvite:
		h.handleCallInvite(c, data)
	case EventCallAccept:
		h.handleCallAnswer(c, data, EventCallAccepted)
	case EventCallDecline:
		h.handleCallAnswer(c, data, EventCallDeclined)
	case EventCallEnd:
		h.handleCallEnd(c, data)
	case EventChatSend:
		h.handleChatSend(c, data)
	default:
		h.logger.Warn("unknown frame type", "type", env.Type, "conn_id", c.ID())
	}
}

// handleRegister binds the connection in the presence registry and flushes
// any messages queued while the user was offline.
func (h *Hub) handleRegister(c *Conn) {
	h.presence.Register(c.UserID(), c)

	pending, err := h.messages.DeliverPending(context.Background(), c.UserID())
	if err != nil {
		h.logger.Error("offline message delivery failed", "user_id", c.UserID(), "error", err)
		return
	}
	if len(pending) > 0 {
		h.send(c, chatOfflineFrame{Type: EventChatOffline, Messages: pending})
	}
}

func (h *Hub) handleMeetingSubscribe(c *Conn, data []byte) {
	var p meetingSubscribePayload
	if err := json.Unmarshal(data, &p); err != nil || p.MeetingID == "" {
		return
	}
	h.rooms.Subscribe(p.MeetingID, c)
}

func (h *Hub) handleRoomJoin(c *Conn, data []byte) {
	var p roomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		return
	}
	others := h.rooms.Join(p.RoomID, c, c.UserID())

	ids := make([]string, 0, len(others))
	for _, m := range others {
		ids = append(ids, m.Conn.ID())
	}
	h.send(c, roomUsersFrame{Type: EventRoomUsers, Users: ids})
	h.broadcast(others, roomMemberFrame{
		Type:   EventRoomUserJoined,
		ConnID: c.ID(),
		UserID: c.UserID(),
	})
}

func (h *Hub) handleRoomLeave(c *Conn, data []byte) {
	var p roomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		return
	}
	remaining := h.rooms.Leave(p.RoomID, c.ID())
	h.broadcast(remaining, roomMemberFrame{
		Type:   EventRoomUserLeft,
		ConnID: c.ID(),
		UserID: c.UserID(),
	})
}

// handleWebRTC relays SDP and ICE frames. A frame carrying toConnId is
// room-scoped and addresses one member connection; a frame carrying
// toUserId goes through the presence registry. Offline peers are dropped
// silently.
func (h *Hub) handleWebRTC(c *Conn, eventType string, data []byte) {
	var p webrtcPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	out := webrtcFrame{
		Type:       eventType,
		FromUserID: c.UserID(),
		SDP:        p.SDP,
		Candidate:  p.Candidate,
	}
	if p.ToConnID != "" {
		member, ok := h.rooms.Resolve(p.RoomID, p.ToConnID)
		if !ok {
			return
		}
		out.FromConnID = c.ID()
		h.send(member.Conn, out)
		return
	}
	target, ok := h.presence.Resolve(p.ToUserID)
	if !ok {
		return
	}
	h.send(target, out)
}

func (h *Hub) handleCallInvite(c *Conn, data []byte) {
	var p callPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	target, ok := h.presence.Resolve(p.ToUserID)
	if !ok {
		h.send(c, callErrorFrame{Type: EventCallError, Message: "User is offline"})
		return
	}
	h.send(target, callFrame{Type: EventCallIncoming, FromUserID: c.UserID(), CallType: p.CallType})
}

func (h *Hub) handleCallAnswer(c *Conn, data []byte, eventType string) {
	var p callPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	if target, ok := h.presence.Resolve(p.ToUserID); ok {
		h.send(target, callFrame{Type: eventType, FromUserID: c.UserID()})
	}
}

// handleCallEnd notifies the peer when online and always echoes call:ended
// back to the sender so its UI tears down regardless.
func (h *Hub) handleCallEnd(c *Conn, data []byte) {
	var p callPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	if target, ok := h.presence.Resolve(p.ToUserID); ok {
		h.send(target, callFrame{Type: EventCallEnded, FromUserID: c.UserID()})
	}
	h.send(c, callFrame{Type: EventCallEnded, FromUserID: c.UserID()})
}

func (h *Hub) handleChatSend(c *Conn, data []byte) {
	var p chatSendPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	msg, err := h.messages.Send(context.Background(), c.UserID(), p.ReceiverID, p.Content)
	if err != nil {
		h.logger.Warn("chat send failed", "user_id", c.UserID(), "error", err)
		return
	}
	h.MessageSent(msg)
}

// MeetingStarted implements domain.MeetingNotifier by fanning the event out
// to every connection subscribed to the meeting.
func (h *Hub) MeetingStarted(meetingID, roomID, roomURL string) {
	frame := meetingStartedFrame{
		Type:      EventMeetingStarted,
		MeetingID: meetingID,
		RoomID:    roomID,
		RoomURL:   roomURL,
	}
	for _, conn := range h.rooms.Subscribers(meetingID) {
		h.send(conn, frame)
	}
}

// MessageSent implements domain.MessageNotifier. Both parties get the frame
// when online; the sender echo lets other open tabs update.
func (h *Hub) MessageSent(m *domain.Message) {
	frame := chatMessageFrame{Type: EventChatMessage, Message: m}
	if receiver, ok := h.presence.Resolve(m.ReceiverID); ok {
		h.send(receiver, frame)
	}
	if sender, ok := h.presence.Resolve(m.SenderID); ok {
		h.send(sender, frame)
	}
}

func (h *Hub) send(conn Sender, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("frame marshal failed", "error", err)
		return
	}
	if err := conn.TrySend(b); err != nil {
		h.logger.Warn("frame dropped", "conn_id", conn.ID(), "error", err)
	}
}

func (h *Hub) broadcast(members []Member, v any) {
	for _, m := range members {
		h.send(m.Conn, v)
	}
}
