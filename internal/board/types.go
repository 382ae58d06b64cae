// Package board implements chess position representation using bitboards:
// square/piece/color types, attack tables, Zobrist hashing, move encoding,
// move generation, and FEN/SAN parsing.
package board

import "fmt"

// Square is a board square, 0..63 using Little-Endian Rank-File Mapping
// (A1=0, H1=7, A8=56, H8=63), plus a NoSquare sentinel.
type Square uint8

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// File returns the file (0=a .. 7=h).
func (sq Square) File() int { return int(sq) & 7 }

// Rank returns the rank (0=1st .. 7=8th).
func (sq Square) Rank() int { return int(sq) >> 3 }

// IsValid reports whether sq is one of the 64 board squares.
func (sq Square) IsValid() bool { return sq < NoSquare }

// Mirror returns the square vertically mirrored (rank r -> rank 7-r).
func (sq Square) Mirror() Square { return sq ^ 56 }

// String renders algebraic notation, e.g. "e4"; "-" for NoSquare.
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}

// NewSquare builds a Square from 0-indexed file and rank.
func NewSquare(file, rank int) Square { return Square(rank*8 + file) }

// ParseSquare parses algebraic notation, e.g. "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %q", s)
	}
	file := int(s[0] - 'a')
	rank := int(s[1] - '1')
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("invalid square: %q", s)
	}
	return NewSquare(file, rank), nil
}

// RelativeSquare mirrors sq for Black so piece-square tables can be shared
// between colors.
func RelativeSquare(c Color, sq Square) Square {
	if c == White {
		return sq
	}
	return sq.Mirror()
}

// RelativeRank returns the rank as seen from color c's side (0 = own back
// rank side, 7 = promotion rank).
func (sq Square) RelativeRank(c Color) int {
	if c == White {
		return sq.Rank()
	}
	return 7 - sq.Rank()
}

// Color identifies a side: White or Black.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposing color.
func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// PieceType enumerates chess piece kinds, excluding color.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType PieceType = 6
)

func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// PieceValue is the material value of each piece type, in centipawns,
// indexed by PieceType.
var PieceValue = [7]int{100, 300, 320, 500, 900, 0, 0}

// PhaseWeight is the non-pawn-material weight per piece type used by
// Position.Phase, indexed by PieceType. Total phase for a full board is 24.
var PhaseWeight = [7]int{0, 1, 1, 2, 4, 0, 0}

// TotalPhase is the sum of PhaseWeight over the 32-piece starting army.
const TotalPhase = 24

// Piece fuses a PieceType and a Color, encoded as pt + color*6.
type Piece uint8

const (
	WhitePawn   Piece = Piece(Pawn) + Piece(White)*6
	WhiteKnight Piece = Piece(Knight) + Piece(White)*6
	WhiteBishop Piece = Piece(Bishop) + Piece(White)*6
	WhiteRook   Piece = Piece(Rook) + Piece(White)*6
	WhiteQueen  Piece = Piece(Queen) + Piece(White)*6
	WhiteKing   Piece = Piece(King) + Piece(White)*6
	BlackPawn   Piece = Piece(Pawn) + Piece(Black)*6
	BlackKnight Piece = Piece(Knight) + Piece(Black)*6
	BlackBishop Piece = Piece(Bishop) + Piece(Black)*6
	BlackRook   Piece = Piece(Rook) + Piece(Black)*6
	BlackQueen  Piece = Piece(Queen) + Piece(Black)*6
	BlackKing   Piece = Piece(King) + Piece(Black)*6
	NoPiece     Piece = 12
)

// NewPiece combines a type and color into a Piece.
func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c >= NoColor {
		return NoPiece
	}
	return Piece(pt) + Piece(c)*6
}

// Type returns the piece's PieceType.
func (p Piece) Type() PieceType {
	if p >= NoPiece {
		return NoPieceType
	}
	return PieceType(p % 6)
}

// Color returns the piece's Color.
func (p Piece) Color() Color {
	if p >= NoPiece {
		return NoColor
	}
	return Color(p / 6)
}

// Value returns the material value of the piece in centipawns.
func (p Piece) Value() int { return PieceValue[p.Type()] }

// String renders the FEN character: uppercase for White, lowercase for Black.
func (p Piece) String() string {
	if p >= NoPiece {
		return " "
	}
	return string("PNBRQKpnbrqk"[p])
}

// PieceFromChar parses a FEN piece character into a Piece.
func PieceFromChar(c byte) Piece {
	switch c {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	default:
		return NoPiece
	}
}

// Direction is one of the eight compass rays used by sliding-attack
// generation and the attack tables.
type Direction uint8

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
	NumDirections = 8
)

// isUpward reports whether stepping in direction d increases the square
// index, which decides whether the nearest blocker on a ray is found via
// bit-scan-forward or bit-scan-reverse (see slidingAttacks).
func (d Direction) isUpward() bool {
	switch d {
	case North, NorthEast, East, NorthWest:
		return true
	default:
		return false
	}
}

// Score is a (midgame, endgame) evaluation pair, blended by game phase.
type Score struct {
	MG int
	EG int
}

// Add returns the pointwise sum of two scores.
func (s Score) Add(o Score) Score { return Score{s.MG + o.MG, s.EG + o.EG} }

// Sub returns the pointwise difference of two scores.
func (s Score) Sub(o Score) Score { return Score{s.MG - o.MG, s.EG - o.EG} }

// Neg negates both components.
func (s Score) Neg() Score { return Score{-s.MG, -s.EG} }

// Mul scales both components by k.
func (s Score) Mul(k int) Score { return Score{s.MG * k, s.EG * k} }

// Taper blends mg/eg by phase in [0,256] (0 = pure midgame, 256 = pure
// endgame) as (mg*(256-phase) + eg*phase) / 256.
func (s Score) Taper(phase int) int {
	return (s.MG*(256-phase) + s.EG*phase) / 256
}
