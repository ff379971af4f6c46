// Package typeid generates the prefixed, sortable ids used across the API
// (user_…, board_…, shape_…). The prefix makes an id self-describing in
// logs and lets handlers reject ids of the wrong kind up front.
package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixUser     = "user"
	PrefixSnapshot = "snap"
	PrefixOp       = "op"
	PrefixBoard    = "board"
	PrefixShape    = "shape"
	PrefixAsset    = "asset"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewUserID() string     { return New(PrefixUser) }
func NewSnapshotID() string { return New(PrefixSnapshot) }
func NewOpID() string       { return New(PrefixOp) }
func NewBoardID() string    { return New(PrefixBoard) }
func NewShapeID() string    { return New(PrefixShape) }
func NewAssetID() string    { return New(PrefixAsset) }

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
