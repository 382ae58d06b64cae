package board

import "strings"

var pieceLetter = map[byte]PieceType{'N': Knight, 'B': Bishop, 'R': Rook, 'Q': Queen, 'K': King}

// ParseSAN parses Standard Algebraic Notation against pos — "e4", "Nc3",
// "Nexc3", "cxb6e.p", "exf8R", "0-0", "0-0-0", with an optional trailing
// "+"/"#" — by generating pos's pseudo-legal moves and picking the one
// candidate matching piece type, destination, promotion, and any file/rank
// disambiguator that is also legal (spec.md §4.4). Returns the invalid
// sentinel if no legal candidate matches.
func ParseSAN(s string, pos *Position) (Move, error) {
	raw := strings.TrimSuffix(strings.TrimSuffix(s, "#"), "+")
	raw = strings.TrimSuffix(raw, "e.p")

	var ml MoveList
	pos.GeneratePseudoLegal(&ml, false)

	if raw == "0-0" || raw == "O-O" {
		return firstLegalMatching(pos, &ml, func(m Move) bool { return m.IsKingsideCastle() })
	}
	if raw == "0-0-0" || raw == "O-O-O" {
		return firstLegalMatching(pos, &ml, func(m Move) bool { return m.IsQueensideCastle() })
	}

	pieceType := Pawn
	rest := raw
	if len(rest) > 0 {
		if pt, ok := pieceLetter[rest[0]]; ok {
			pieceType = pt
			rest = rest[1:]
		}
	}

	promo := NoPieceType
	if idx := strings.IndexByte(rest, '='); idx >= 0 {
		if len(rest) > idx+1 {
			if pt, ok := pieceLetter[rest[idx+1]]; ok {
				promo = pt
			}
		}
		rest = rest[:idx]
	} else if pieceType == Pawn && len(rest) >= 3 {
		last := rest[len(rest)-1]
		if pt, ok := pieceLetter[last]; ok && pt != King {
			if prev := rest[len(rest)-2]; prev >= '1' && prev <= '8' {
				promo = pt
				rest = rest[:len(rest)-1]
			}
		}
	}

	rest = strings.Replace(rest, "x", "", 1)
	if len(rest) < 2 {
		return InvalidMove, &MoveParseError{s, "no destination square"}
	}
	destStr := rest[len(rest)-2:]
	disambig := rest[:len(rest)-2]

	to, err := ParseSquare(destStr)
	if err != nil {
		return InvalidMove, &MoveParseError{s, "bad destination square"}
	}

	disambigFile, disambigRank := -1, -1
	for i := 0; i < len(disambig); i++ {
		c := disambig[i]
		switch {
		case c >= 'a' && c <= 'h':
			disambigFile = int(c - 'a')
		case c >= '1' && c <= '8':
			disambigRank = int(c - '1')
		}
	}

	return firstLegalMatching(pos, &ml, func(m Move) bool {
		if m.Piece() != pieceType || m.To() != to || m.IsCastle() {
			return false
		}
		if promo != NoPieceType {
			if !m.IsPromotion() || m.Promotion() != promo {
				return false
			}
		} else if m.IsPromotion() {
			return false
		}
		if disambigFile >= 0 && m.From().File() != disambigFile {
			return false
		}
		if disambigRank >= 0 && m.From().Rank() != disambigRank {
			return false
		}
		return true
	})
}

func firstLegalMatching(pos *Position, ml *MoveList, match func(Move) bool) (Move, error) {
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if !match(m) {
			continue
		}
		scratch := pos.Copy()
		if scratch.MakeMove(m) {
			return m, nil
		}
	}
	return InvalidMove, &MoveParseError{"", "no legal candidate matches SAN"}
}

// ToSAN renders m as Standard Algebraic Notation relative to pos (the
// position before m is played), including check/mate suffixes.
func (m Move) ToSAN(pos *Position) string {
	if m.IsNull() || m.IsInvalid() {
		return m.String()
	}
	if m.IsKingsideCastle() {
		return sanSuffix(m, pos, "O-O")
	}
	if m.IsQueensideCastle() {
		return sanSuffix(m, pos, "O-O-O")
	}

	pt := m.Piece()
	var sb strings.Builder
	if pt != Pawn {
		sb.WriteByte("NBRQK"[ptIndex(pt)])
		sb.WriteString(disambiguation(pos, m, pt))
	}
	if m.IsCapture() {
		if pt == Pawn {
			sb.WriteByte('a' + byte(m.From().File()))
		}
		sb.WriteByte('x')
	}
	sb.WriteString(m.To().String())
	if m.IsPromotion() {
		sb.WriteByte('=')
		sb.WriteByte("NBRQK"[ptIndex(m.Promotion())])
	}
	return sanSuffix(m, pos, sb.String())
}

func ptIndex(pt PieceType) int {
	switch pt {
	case Knight:
		return 0
	case Bishop:
		return 1
	case Rook:
		return 2
	case Queen:
		return 3
	default:
		return 4
	}
}

func sanSuffix(m Move, pos *Position, core string) string {
	child := pos.Copy()
	if !child.MakeMove(m) {
		return core
	}
	if child.IsCheckmate() {
		return core + "#"
	}
	if child.IsInCheck(child.ToMove) {
		return core + "+"
	}
	return core
}

func disambiguation(pos *Position, m Move, pt PieceType) string {
	var ml MoveList
	pos.GeneratePseudoLegal(&ml, false)

	sameFile, sameRank, any := false, false, 0
	for i := 0; i < ml.Len(); i++ {
		o := ml.Get(i)
		if o.Piece() != pt || o.To() != m.To() || o.From() == m.From() {
			continue
		}
		scratch := pos.Copy()
		if !scratch.MakeMove(o) {
			continue
		}
		any++
		if o.From().File() == m.From().File() {
			sameFile = true
		}
		if o.From().Rank() == m.From().Rank() {
			sameRank = true
		}
	}
	if any == 0 {
		return ""
	}
	switch {
	case !sameFile:
		return string('a' + byte(m.From().File()))
	case !sameRank:
		return string('1' + byte(m.From().Rank()))
	default:
		return m.From().String()
	}
}
