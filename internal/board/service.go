// Package board manages board lifecycle, membership, and snapshots: who
// owns a board, who may edit it, and the persisted shape state the
// collaboration hub loads on room open.
package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/arcboard/arcboard/backend-go/internal/document"
	"github.com/arcboard/arcboard/backend-go/internal/store"
	"github.com/arcboard/arcboard/backend-go/internal/typeid"
)

var (
	ErrNotFound  = errors.New("board not found")
	ErrForbidden = errors.New("forbidden")
	ErrNotMember = errors.New("not a board member")
)

type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

type Board struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type Member struct {
	UserID      string `json:"userId"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

func (s *Service) Create(ctx context.Context, name, ownerID string) (*Board, error) {
	boardID := typeid.NewBoardID()

	dbBoard, err := s.store.CreateBoard(ctx, store.Board{
		ID:      boardID,
		Name:    name,
		OwnerID: ownerID,
		Width:   1920,
		Height:  1080,
	})
	if err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}

	if err := s.store.AddBoardMember(ctx, boardID, ownerID, store.RoleOwner); err != nil {
		return nil, fmt.Errorf("add owner as member: %w", err)
	}

	// Seed an empty board snapshot so the first room open has state.
	empty := document.Board{ID: boardID, Name: name}
	boardJSON, err := json.Marshal(empty)
	if err != nil {
		return nil, fmt.Errorf("marshal empty board: %w", err)
	}
	if _, err := s.store.CreateSnapshot(ctx, typeid.NewSnapshotID(), boardID, boardJSON); err != nil {
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}

	return toBoard(dbBoard), nil
}

func (s *Service) Get(ctx context.Context, boardID, userID string) (*Board, error) {
	if err := s.checkMembership(ctx, boardID, userID); err != nil {
		return nil, err
	}

	dbBoard, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get board: %w", err)
	}
	return toBoard(dbBoard), nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Board, error) {
	dbBoards, err := s.store.ListBoardsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}

	boards := make([]Board, len(dbBoards))
	for i, b := range dbBoards {
		boards[i] = *toBoard(b)
	}
	return boards, nil
}

func (s *Service) Rename(ctx context.Context, boardID, userID, name string) error {
	if err := s.checkOwner(ctx, boardID, userID); err != nil {
		return err
	}
	return s.store.RenameBoard(ctx, boardID, name)
}

func (s *Service) Delete(ctx context.Context, boardID, userID string) error {
	if err := s.checkOwner(ctx, boardID, userID); err != nil {
		return err
	}
	return s.store.DeleteBoard(ctx, boardID)
}

func (s *Service) InviteByEmail(ctx context.Context, boardID, ownerID, inviteeEmail string) error {
	if err := s.checkOwner(ctx, boardID, ownerID); err != nil {
		return err
	}

	invitee, err := s.store.GetUserByEmail(ctx, inviteeEmail)
	if err != nil {
		if store.IsNotFound(err) {
			return errors.New("user not found")
		}
		return fmt.Errorf("find user: %w", err)
	}

	return s.store.AddBoardMember(ctx, boardID, invitee.ID, store.RoleEditor)
}

func (s *Service) ListMembers(ctx context.Context, boardID, userID string) ([]Member, error) {
	if err := s.checkMembership(ctx, boardID, userID); err != nil {
		return nil, err
	}

	dbMembers, err := s.store.ListBoardMembers(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	members := make([]Member, len(dbMembers))
	for i, m := range dbMembers {
		members[i] = Member{
			UserID:      m.UserID,
			Role:        string(m.Role),
			DisplayName: m.DisplayName,
			Email:       m.Email,
		}
	}
	return members, nil
}

func (s *Service) RemoveMember(ctx context.Context, boardID, ownerID, targetUserID string) error {
	if err := s.checkOwner(ctx, boardID, ownerID); err != nil {
		return err
	}
	if targetUserID == ownerID {
		return errors.New("cannot remove board owner")
	}
	return s.store.RemoveBoardMember(ctx, boardID, targetUserID)
}

// LoadBoard returns the latest persisted shape state. The collaboration
// hub uses it (via a closure) as its BoardLoader.
func (s *Service) LoadBoard(ctx context.Context, boardID string) (document.Board, error) {
	snap, err := s.store.GetLatestSnapshot(ctx, boardID)
	if err != nil {
		if store.IsNotFound(err) {
			return document.Board{}, ErrNotFound
		}
		return document.Board{}, fmt.Errorf("get snapshot: %w", err)
	}

	var b document.Board
	if err := json.Unmarshal(snap.Board, &b); err != nil {
		return document.Board{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return b, nil
}

// SaveBoard persists a new snapshot of the live room state and prunes old
// versions.
func (s *Service) SaveBoard(ctx context.Context, b document.Board) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}
	if _, err := s.store.CreateSnapshot(ctx, typeid.NewSnapshotID(), b.ID, data); err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	return s.store.PruneSnapshots(ctx, b.ID, 20)
}

// GetLatestSnapshot returns the raw snapshot JSON for the REST surface.
func (s *Service) GetLatestSnapshot(ctx context.Context, boardID, userID string) (json.RawMessage, error) {
	if err := s.checkMembership(ctx, boardID, userID); err != nil {
		return nil, err
	}

	snap, err := s.store.GetLatestSnapshot(ctx, boardID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return snap.Board, nil
}

// CheckMembership is the exported membership gate used by the websocket
// endpoint before a client joins a room.
func (s *Service) CheckMembership(ctx context.Context, boardID, userID string) error {
	return s.checkMembership(ctx, boardID, userID)
}

func (s *Service) checkMembership(ctx context.Context, boardID, userID string) error {
	_, err := s.store.GetBoardMember(ctx, boardID, userID)
	if err != nil {
		if store.IsNotFound(err) {
			return ErrNotMember
		}
		return fmt.Errorf("check membership: %w", err)
	}
	return nil
}

func (s *Service) checkOwner(ctx context.Context, boardID, userID string) error {
	dbBoard, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		if store.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("get board: %w", err)
	}
	if dbBoard.OwnerID != userID {
		return ErrForbidden
	}
	return nil
}

func toBoard(b store.Board) *Board {
	const layout = "2006-01-02T15:04:05Z"
	return &Board{
		ID:        b.ID,
		Name:      b.Name,
		OwnerID:   b.OwnerID,
		Width:     b.Width,
		Height:    b.Height,
		CreatedAt: b.CreatedAt.UTC().Format(layout),
		UpdatedAt: b.UpdatedAt.UTC().Format(layout),
	}
}
