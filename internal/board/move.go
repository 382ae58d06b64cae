package board

import "fmt"

// Move is a compact 32-bit encoding of a chess move (spec.md §3):
//
//	bits 0..2   piece type
//	bits 3..8   from square
//	bits 9..14  to square
//	bits 15..17 promotion piece type
//	bit  18     double pawn push
//	bit  19     capture
//	bit  20     en passant
//	bit  21     kingside castle
//	bit  22     queenside castle
//	bit  23     promotion
//	bit  24     invalid ("no move known" sentinel)
//	bit  25     null move
//
// Equality is plain bitwise equality on the 32 bits.
type Move uint32

const (
	mPieceShift    = 0
	mFromShift     = 3
	mToShift       = 9
	mPromoShift    = 15
	mDoublePushBit = 18
	mCaptureBit    = 19
	mEnPassantBit  = 20
	mKingCastleBit = 21
	mQueenCastleBit = 22
	mPromotionBit  = 23
	mInvalidBit    = 24
	mNullBit       = 25

	mPieceMask  = 0x7
	mSquareMask = 0x3F
)

// NullMove carries bit 25 set: "pass the turn" in null-move pruning.
var NullMove = Move(1 << mNullBit)

// InvalidMove carries bit 24 set: "no move known" sentinel, returned by
// failed parses and selector misses.
var InvalidMove = Move(1 << mInvalidBit)

// MoveFlags bundles the boolean flags used by NewMove.
type MoveFlags struct {
	DoublePush      bool
	Capture         bool
	EnPassant       bool
	KingsideCastle  bool
	QueensideCastle bool
}

// NewMove encodes a move from its fields and flags.
func NewMove(pt PieceType, from, to Square, promo PieceType, fl MoveFlags) Move {
	m := Move(pt&mPieceMask) |
		Move(from&mSquareMask)<<mFromShift |
		Move(to&mSquareMask)<<mToShift

	if promo != NoPieceType {
		m |= Move(promo&mPieceMask) << mPromoShift
		m |= 1 << mPromotionBit
	}
	if fl.DoublePush {
		m |= 1 << mDoublePushBit
	}
	if fl.Capture {
		m |= 1 << mCaptureBit
	}
	if fl.EnPassant {
		m |= 1 << mEnPassantBit
	}
	if fl.KingsideCastle {
		m |= 1 << mKingCastleBit
	}
	if fl.QueensideCastle {
		m |= 1 << mQueenCastleBit
	}
	return m
}

// Piece returns the moving piece's type.
func (m Move) Piece() PieceType { return PieceType(m>>mPieceShift) & mPieceMask }

// From returns the origin square.
func (m Move) From() Square { return Square(m>>mFromShift) & mSquareMask }

// To returns the destination square.
func (m Move) To() Square { return Square(m>>mToShift) & mSquareMask }

// Promotion returns the promotion piece type, valid only if IsPromotion.
func (m Move) Promotion() PieceType { return PieceType(m>>mPromoShift) & mPieceMask }

// IsDoublePush reports a two-square pawn push.
func (m Move) IsDoublePush() bool { return m&(1<<mDoublePushBit) != 0 }

// IsCapture reports a capturing move (including en passant).
func (m Move) IsCapture() bool { return m&(1<<mCaptureBit) != 0 }

// IsEnPassant reports an en-passant capture.
func (m Move) IsEnPassant() bool { return m&(1<<mEnPassantBit) != 0 }

// IsKingsideCastle reports kingside castling.
func (m Move) IsKingsideCastle() bool { return m&(1<<mKingCastleBit) != 0 }

// IsQueensideCastle reports queenside castling.
func (m Move) IsQueensideCastle() bool { return m&(1<<mQueenCastleBit) != 0 }

// IsCastle reports castling of either side.
func (m Move) IsCastle() bool { return m.IsKingsideCastle() || m.IsQueensideCastle() }

// IsPromotion reports a pawn promotion.
func (m Move) IsPromotion() bool { return m&(1<<mPromotionBit) != 0 }

// IsInvalid reports the "no move known" sentinel.
func (m Move) IsInvalid() bool { return m&(1<<mInvalidBit) != 0 }

// IsNull reports the null move.
func (m Move) IsNull() bool { return m&(1<<mNullBit) != 0 }

// IsQuiet reports a move that is neither a capture nor a promotion — the
// kind the move selector tracks as a killer candidate.
func (m Move) IsQuiet() bool { return !m.IsCapture() && !m.IsPromotion() }

// String renders long algebraic notation, e.g. "e2e4", "e7e8q"; "0000" for
// the null move.
func (m Move) String() string {
	if m.IsNull() {
		return "0000"
	}
	if m.IsInvalid() {
		return "(none)"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(promoChar[m.Promotion()])
	}
	return s
}

// promoChar maps a PieceType to its long-algebraic promotion suffix letter.
var promoChar = [6]byte{Pawn: ' ', Knight: 'n', Bishop: 'b', Rook: 'r', Queen: 'q', King: ' '}

// MoveParseError reports a malformed long-algebraic or SAN move string.
type MoveParseError struct {
	Text   string
	Reason string
}

func (e *MoveParseError) Error() string {
	return fmt.Sprintf("move parse error: %q: %s", e.Text, e.Reason)
}

// ParseLongAlgebraic parses e.g. "e2e4" or "e7e8q" against pos, inferring
// piece type, castling, double-push, en-passant, and capture from context
// (spec.md §4.4).
func ParseLongAlgebraic(s string, pos *Position) (Move, error) {
	if len(s) < 4 {
		return InvalidMove, &MoveParseError{s, "too short"}
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return InvalidMove, &MoveParseError{s, "bad from-square"}
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return InvalidMove, &MoveParseError{s, "bad to-square"}
	}

	piece := pos.PieceOn[from]
	if piece == NoPiece {
		return InvalidMove, &MoveParseError{s, "no piece on from-square"}
	}
	pt := piece.Type()

	promo := NoPieceType
	if len(s) >= 5 {
		switch s[4] {
		case 'q':
			promo = Queen
		case 'r':
			promo = Rook
		case 'b':
			promo = Bishop
		case 'n':
			promo = Knight
		default:
			return InvalidMove, &MoveParseError{s, "bad promotion piece"}
		}
	}

	fl := MoveFlags{}
	if pos.PieceOn[to] != NoPiece {
		fl.Capture = true
	}

	switch {
	case pt == King && abs(to.File()-from.File()) == 2:
		if to.File() == 6 {
			fl.KingsideCastle = true
		} else {
			fl.QueensideCastle = true
		}
	case pt == Pawn && abs(int(to)-int(from)) == 16:
		fl.DoublePush = true
	case pt == Pawn && to == pos.EPTarget && from.File() != to.File():
		fl.EnPassant = true
		fl.Capture = true
	}

	return NewMove(pt, from, to, promo, fl), nil
}

// MaxMoves is the capacity of a MoveList buffer (spec.md §4.5: ample for
// any legal chess position).
const MaxMoves = 256

// MoveList is a fixed-capacity move buffer; move generation writes into it
// without allocating.
type MoveList struct {
	Moves [MaxMoves]Move
	Count int
}

// Add appends a move.
func (ml *MoveList) Add(m Move) {
	ml.Moves[ml.Count] = m
	ml.Count++
}

// Len returns the number of moves currently held.
func (ml *MoveList) Len() int { return ml.Count }

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move { return ml.Moves[i] }

// Swap exchanges two slots, used by the selector's select-max-by-swap.
func (ml *MoveList) Swap(i, j int) { ml.Moves[i], ml.Moves[j] = ml.Moves[j], ml.Moves[i] }

// Contains reports whether m is present in the list.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.Count; i++ {
		if ml.Moves[i] == m {
			return true
		}
	}
	return false
}
