package collab

import (
	"encoding/json"

	"github.com/arcboard/arcboard/backend-go/internal/document"
)

type Message struct {
	Type     string          `json:"type"`
	BoardID  string          `json:"boardId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	UserID   string          `json:"userId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload"`
}

type PresencePayload struct {
	Cursor      *CursorPos `json:"cursor,omitempty"`
	Selection   []string   `json:"selection,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
}

type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Board sync
	TypeBoardSync = "board.sync"

	// Operation message types
	TypeOpSubmit    = "op.submit"
	TypeOpAck       = "op.ack"
	TypeOpNack      = "op.nack"
	TypeOpBroadcast = "op.broadcast"
)

// Operation kinds accepted by BoardState.
const (
	OpShapeTransform  = "shape.transform"
	OpShapeCreate     = "shape.create"
	OpShapeDelete     = "shape.delete"
	OpShapeReparent   = "shape.reparent"
	OpShapeVisibility = "shape.visibility"
	OpBoardRename     = "board.rename"
)

// Operation is one board mutation. Geometry-bearing ops carry the full
// before and after geometry, so a peer can undo without extra round-trips.
type Operation struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	ClientSeq int64  `json:"clientSeq"`
	ShapeID   string `json:"shapeId,omitempty"`

	// shape.transform carries whole-geometry replacements for every shape
	// a gesture touched.
	Changes []GeometryChange `json:"changes,omitempty"`

	// shape.create
	Shape    *document.Shape `json:"shape,omitempty"`
	ParentID string          `json:"parentId,omitempty"`

	// shape.delete keeps the removed shape for undo.
	PreviousShape *document.Shape `json:"previousShape,omitempty"`

	// shape.reparent
	NewParentID      string `json:"newParentId,omitempty"`
	PreviousParentID string `json:"previousParentId,omitempty"`

	// shape.visibility
	Visible      *bool `json:"visible,omitempty"`
	PreviousBool *bool `json:"previousBool,omitempty"`

	// board.rename
	Name         string `json:"name,omitempty"`
	PreviousName string `json:"previousName,omitempty"`
}

// GeometryChange is one shape's before/after geometry inside a transform
// operation.
type GeometryChange struct {
	ShapeID  string             `json:"shapeId"`
	Geometry document.Geometry  `json:"geometry"`
	Previous *document.Geometry `json:"previous,omitempty"`
}

// OperationSubmitPayload is the payload for op.submit messages.
type OperationSubmitPayload struct {
	Operation Operation `json:"operation"`
}

// OperationAckPayload is the payload for op.ack messages.
type OperationAckPayload struct {
	OperationID     string `json:"operationId"`
	ServerSeq       int64  `json:"serverSeq"`
	ServerTimestamp int64  `json:"serverTimestamp"`
}

// OperationNackPayload is the payload for op.nack messages.
type OperationNackPayload struct {
	OperationID string `json:"operationId"`
	Reason      string `json:"reason"`
}

// OperationBroadcastPayload is the payload for op.broadcast messages.
type OperationBroadcastPayload struct {
	Operation Operation `json:"operation"`
	UserID    string    `json:"userId"`
	ServerSeq int64     `json:"serverSeq"`
}

// BoardSyncPayload carries the full authoritative board to a joining
// client.
type BoardSyncPayload struct {
	Board     document.Board `json:"board"`
	ServerSeq int64          `json:"serverSeq"`
}
