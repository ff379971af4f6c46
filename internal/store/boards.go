package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Role is a member's permission level on a board.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
)

type Board struct {
	ID        string
	Name      string
	OwnerID   string
	Width     int
	Height    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Member struct {
	BoardID     string
	UserID      string
	Role        Role
	DisplayName string
	Email       string
}

type Snapshot struct {
	ID        string
	BoardID   string
	Version   int64
	Board     json.RawMessage
	CreatedAt time.Time
}

func (s *Store) CreateBoard(ctx context.Context, b Board) (Board, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO boards (id, name, owner_id, width, height)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, owner_id, width, height, created_at, updated_at`,
		b.ID, b.Name, b.OwnerID, b.Width, b.Height)
	return scanBoard(row)
}

func (s *Store) GetBoard(ctx context.Context, id string) (Board, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, owner_id, width, height, created_at, updated_at
		FROM boards WHERE id = $1`, id)
	return scanBoard(row)
}

func (s *Store) ListBoardsForUser(ctx context.Context, userID string) ([]Board, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT b.id, b.name, b.owner_id, b.width, b.height, b.created_at, b.updated_at
		FROM boards b
		JOIN board_members m ON m.board_id = b.id
		WHERE m.user_id = $1
		ORDER BY b.updated_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boards []Board
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

func (s *Store) RenameBoard(ctx context.Context, id, name string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE boards SET name = $2, updated_at = now() WHERE id = $1`, id, name)
	return err
}

func (s *Store) DeleteBoard(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM boards WHERE id = $1`, id)
	return err
}

func (s *Store) AddBoardMember(ctx context.Context, boardID, userID string, role Role) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO board_members (board_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (board_id, user_id) DO UPDATE SET role = EXCLUDED.role`,
		boardID, userID, role)
	return err
}

func (s *Store) GetBoardMember(ctx context.Context, boardID, userID string) (Member, error) {
	var m Member
	err := s.pool.QueryRow(ctx, `
		SELECT board_id, user_id, role FROM board_members
		WHERE board_id = $1 AND user_id = $2`, boardID, userID).
		Scan(&m.BoardID, &m.UserID, &m.Role)
	return m, err
}

func (s *Store) ListBoardMembers(ctx context.Context, boardID string) ([]Member, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT m.board_id, m.user_id, m.role, u.display_name, u.email
		FROM board_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.board_id = $1
		ORDER BY m.role, u.display_name`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.BoardID, &m.UserID, &m.Role, &m.DisplayName, &m.Email); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *Store) RemoveBoardMember(ctx context.Context, boardID, userID string) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM board_members WHERE board_id = $1 AND user_id = $2`,
		boardID, userID)
	return err
}

// CreateSnapshot writes a new snapshot version. The version is assigned
// atomically from the previous maximum.
func (s *Store) CreateSnapshot(ctx context.Context, id, boardID string, board json.RawMessage) (Snapshot, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO board_snapshots (id, board_id, version, board)
		VALUES ($1, $2,
			COALESCE((SELECT MAX(version) FROM board_snapshots WHERE board_id = $2), 0) + 1,
			$3)
		RETURNING id, board_id, version, board, created_at`,
		id, boardID, board)
	return scanSnapshot(row)
}

func (s *Store) GetLatestSnapshot(ctx context.Context, boardID string) (Snapshot, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, board_id, version, board, created_at
		FROM board_snapshots
		WHERE board_id = $1
		ORDER BY version DESC
		LIMIT 1`, boardID)
	return scanSnapshot(row)
}

// PruneSnapshots keeps the newest n snapshots for a board.
func (s *Store) PruneSnapshots(ctx context.Context, boardID string, keep int) error {
	if keep < 1 {
		return fmt.Errorf("keep must be positive")
	}
	_, err := s.pool.Exec(ctx, `
		DELETE FROM board_snapshots
		WHERE board_id = $1 AND version <= (
			SELECT COALESCE(MAX(version), 0) - $2 FROM board_snapshots WHERE board_id = $1
		)`, boardID, keep)
	return err
}

func scanBoard(row rowScanner) (Board, error) {
	var b Board
	err := row.Scan(&b.ID, &b.Name, &b.OwnerID, &b.Width, &b.Height, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func scanSnapshot(row rowScanner) (Snapshot, error) {
	var sn Snapshot
	err := row.Scan(&sn.ID, &sn.BoardID, &sn.Version, &sn.Board, &sn.CreatedAt)
	return sn, err
}

// IsNotFound reports whether the error is pgx's no-rows sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
