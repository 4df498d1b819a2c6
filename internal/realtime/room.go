package realtime

import "sync"

// Member is a connection's membership in a room.
type Member struct {
	Conn   Sender
	UserID string
}

// RoomPeers is the remaining membership of one room after a connection
// dropped out of it.
type RoomPeers struct {
	RoomID  string
	Members []Member
}

// RoomRelay tracks room membership and meeting-event subscriptions. Rooms
// and subscriptions are in-memory; empty ones are deleted.
type RoomRelay struct {
	mu     sync.RWMutex
	rooms  map[string]map[string]Member   // roomID -> connID -> member
	joined map[string]map[string]struct{} // connID -> roomIDs
	subs   map[string]map[string]Sender   // meetingID -> connID -> conn
}

func NewRoomRelay() *RoomRelay {
	return &RoomRelay{
		rooms:  make(map[string]map[string]Member),
		joined: make(map[string]map[string]struct{}),
		subs:   make(map[string]map[string]Sender),
	}
}

// Join adds the connection to the room and returns the members that were
// already there.
func (r *RoomRelay) Join(roomID string, conn Sender, userID string) []Member {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		room = make(map[string]Member)
		r.rooms[roomID] = room
	}
	others := make([]Member, 0, len(room))
	for id, m := range room {
		if id != conn.ID() {
			others = append(others, m)
		}
	}
	room[conn.ID()] = Member{Conn: conn, UserID: userID}

	set, ok := r.joined[conn.ID()]
	if !ok {
		set = make(map[string]struct{})
		r.joined[conn.ID()] = set
	}
	set[roomID] = struct{}{}
	return others
}

// Leave removes the connection from the room and returns the remaining
// members.
func (r *RoomRelay) Leave(roomID, connID string) []Member {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leaveLocked(roomID, connID)
}

// Resolve returns a specific member of a room by connection id.
func (r *RoomRelay) Resolve(roomID, connID string) (Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.rooms[roomID][connID]
	return m, ok
}

// DropConn removes the connection from every room it joined and from every
// meeting subscription, returning the per-room remaining membership so the
// hub can broadcast departures.
func (r *RoomRelay) DropConn(connID string) []RoomPeers {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []RoomPeers
	for roomID := range r.joined[connID] {
		remaining := r.leaveLocked(roomID, connID)
		out = append(out, RoomPeers{RoomID: roomID, Members: remaining})
	}
	delete(r.joined, connID)

	for meetingID, subs := range r.subs {
		delete(subs, connID)
		if len(subs) == 0 {
			delete(r.subs, meetingID)
		}
	}
	return out
}

// Subscribe registers the connection for events about one meeting.
func (r *RoomRelay) Subscribe(meetingID string, conn Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	subs, ok := r.subs[meetingID]
	if !ok {
		subs = make(map[string]Sender)
		r.subs[meetingID] = subs
	}
	subs[conn.ID()] = conn
}

// Subscribers returns every connection subscribed to the meeting.
func (r *RoomRelay) Subscribers(meetingID string) []Sender {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Sender, 0, len(r.subs[meetingID]))
	for _, conn := range r.subs[meetingID] {
		out = append(out, conn)
	}
	return out
}

func (r *RoomRelay) leaveLocked(roomID, connID string) []Member {
	room, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	delete(room, connID)
	if set, ok := r.joined[connID]; ok {
		delete(set, roomID)
		if len(set) == 0 {
			delete(r.joined, connID)
		}
	}
	if len(room) == 0 {
		delete(r.rooms, roomID)
		return nil
	}
	remaining := make([]Member, 0, len(room))
	for _, m := range room {
		remaining = append(remaining, m)
	}
	return remaining
}
