package collab

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/arcboard/arcboard/backend-go/internal/document"
)

// BoardLoader fetches the persisted board when the first client of a room
// connects.
type BoardLoader func(boardID string) (document.Board, error)

type Room struct {
	boardID  string
	clients  map[string]*Client // clientID -> client
	presence *PresenceManager
	state    *BoardState
}

func NewRoom(boardID string, board document.Board) *Room {
	return &Room{
		boardID:  boardID,
		clients:  make(map[string]*Client),
		presence: NewPresenceManager(),
		state:    NewBoardState(board),
	}
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // boardID -> room
	loader     BoardLoader
	register   chan *Client
	unregister chan *Client
}

func NewHub(loader BoardLoader) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		loader:     loader,
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

// RoomBoard returns a snapshot of a live room's board, for persistence
// flushes. The second return is false when no room is open for the id.
func (h *Hub) RoomBoard(boardID string) (document.Board, bool) {
	h.mu.RLock()
	room, ok := h.rooms[boardID]
	h.mu.RUnlock()
	if !ok {
		return document.Board{}, false
	}
	return room.state.Board(), true
}

// FlushAll snapshots every room that applied operations since its last
// flush. Called periodically and once more on shutdown.
func (h *Hub) FlushAll(save func(document.Board) error) {
	h.mu.RLock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, room := range h.rooms {
		rooms = append(rooms, room)
	}
	h.mu.RUnlock()

	for _, room := range rooms {
		if len(room.state.Drain()) == 0 {
			continue
		}
		if err := save(room.state.Board()); err != nil {
			slog.Error("flush room", "board", room.boardID, "error", err)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.BoardID]
	if !ok {
		board := document.Board{ID: client.BoardID}
		if h.loader != nil {
			loaded, err := h.loader(client.BoardID)
			if err != nil {
				slog.Warn("load board for room", "board", client.BoardID, "error", err)
			} else {
				board = loaded
			}
		}
		room = NewRoom(client.BoardID, board)
		h.rooms[client.BoardID] = room
	}
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	// Authoritative board first, then who is here.
	syncPayload, _ := json.Marshal(BoardSyncPayload{
		Board:     room.state.Board(),
		ServerSeq: room.state.ServerSeq(),
	})
	client.Send(&Message{Type: TypeBoardSync, BoardID: client.BoardID, Payload: syncPayload})

	if stateMsg := room.presence.StateMessage(); stateMsg != nil {
		client.Send(stateMsg)
	}

	joinPayload, _ := json.Marshal(PresenceJoinPayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	h.broadcastToRoom(client.BoardID, &Message{
		Type:    TypePresenceJoin,
		UserID:  client.UserID,
		Payload: joinPayload,
	}, client.ClientID)

	slog.Info("client joined", "user", client.UserID, "board", client.BoardID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.BoardID]
	if !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	client.closeOutbox()
	room.presence.Remove(client.UserID)

	if len(room.clients) == 0 {
		delete(h.rooms, client.BoardID)
	}
	h.mu.Unlock()

	leavePayload, _ := json.Marshal(PresenceLeavePayload{UserID: client.UserID})
	h.broadcastToRoom(client.BoardID, &Message{
		Type:    TypePresenceLeave,
		UserID:  client.UserID,
		Payload: leavePayload,
	}, "")

	slog.Info("client left", "user", client.UserID, "board", client.BoardID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	case TypeOpSubmit:
		h.handleOpSubmit(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
	}
}

func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}

	presence.DisplayName = sender.DisplayName

	h.mu.RLock()
	room, ok := h.rooms[sender.BoardID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	room.presence.Update(sender.UserID, &presence)

	outPayload, _ := json.Marshal(presence)
	h.broadcastToRoom(sender.BoardID, &Message{
		Type:    TypePresenceUpdate,
		UserID:  sender.UserID,
		Payload: outPayload,
	}, sender.ClientID)
}

func (h *Hub) handleOpSubmit(sender *Client, msg *Message) {
	var submit OperationSubmitPayload
	if err := json.Unmarshal(msg.Payload, &submit); err != nil {
		slog.Warn("invalid op payload", "error", err, "user", sender.UserID)
		return
	}
	op := submit.Operation

	h.mu.RLock()
	room, ok := h.rooms[sender.BoardID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	seq, err := room.state.ApplyOperation(op)
	if err != nil {
		nack, _ := json.Marshal(OperationNackPayload{
			OperationID: op.ID,
			Reason:      err.Error(),
		})
		sender.Send(&Message{Type: TypeOpNack, BoardID: sender.BoardID, Payload: nack})
		slog.Debug("op rejected", "op", op.ID, "type", op.Type, "error", err)
		return
	}

	ack, _ := json.Marshal(OperationAckPayload{
		OperationID:     op.ID,
		ServerSeq:       seq,
		ServerTimestamp: GetServerTimestamp(),
	})
	sender.Send(&Message{Type: TypeOpAck, BoardID: sender.BoardID, Payload: ack})

	broadcast, _ := json.Marshal(OperationBroadcastPayload{
		Operation: op,
		UserID:    sender.UserID,
		ServerSeq: seq,
	})
	h.broadcastToRoom(sender.BoardID, &Message{
		Type:    TypeOpBroadcast,
		UserID:  sender.UserID,
		Payload: broadcast,
	}, sender.ClientID)
}

func (h *Hub) broadcastToRoom(boardID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[boardID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}
