package board

import (
	"strconv"
	"strings"
)

// FromFEN parses a standard six-field FEN string with a permissive
// whitespace policy (spec.md §3, §6). Malformed input returns a
// *FenParseError: a rank row that doesn't total 8 files, a bad side/
// castling/en-passant token, a zero fullmove number, or a negative
// halfmove clock.
func FromFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, &FenParseError{fen, "need at least 4 fields"}
	}

	p := &Position{EPTarget: NoSquare, EPCaptureTarget: NoSquare, FullmoveNum: 1}
	for sq := range p.PieceOn {
		p.PieceOn[sq] = NoPiece
	}

	if err := parsePlacement(p, fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		p.ToMove = White
	case "b":
		p.ToMove = Black
	default:
		return nil, &FenParseError{fen, "bad side-to-move token: " + fields[1]}
	}

	if err := parseCastling(p, fields[2]); err != nil {
		return nil, err
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, &FenParseError{fen, "bad en-passant square: " + fields[3]}
		}
		p.EPTarget = sq
		if p.ToMove == White {
			p.EPCaptureTarget = sq - 8
		} else {
			p.EPCaptureTarget = sq + 8
		}
	}

	if len(fields) > 4 {
		hmc, err := strconv.Atoi(fields[4])
		if err != nil || hmc < 0 {
			return nil, &FenParseError{fen, "bad halfmove clock: " + fields[4]}
		}
		p.HalfmoveClock = hmc
	}

	if len(fields) > 5 {
		fmn, err := strconv.Atoi(fields[5])
		if err != nil || fmn <= 0 {
			return nil, &FenParseError{fen, "bad fullmove number: " + fields[5]}
		}
		p.FullmoveNum = fmn
	}

	p.recomputeAttacks()
	p.Hash = ZobristOf(p)
	return p, nil
}

func parsePlacement(p *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return &FenParseError{placement, "need 8 ranks"}
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range rankStr {
			if file > 7 {
				return &FenParseError{placement, "rank has more than 8 files"}
			}
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			piece := PieceFromChar(byte(ch))
			if piece == NoPiece {
				return &FenParseError{placement, "bad piece character"}
			}
			p.setPiece(piece, NewSquare(file, rank))
			file++
		}
		if file != 8 {
			return &FenParseError{placement, "rank does not total 8 files"}
		}
	}
	return nil
}

func parseCastling(p *Position, s string) error {
	if s == "-" {
		p.CastlingRights = NoCastling
		return nil
	}
	for _, ch := range s {
		switch ch {
		case 'K':
			p.CastlingRights |= WhiteKingside
		case 'Q':
			p.CastlingRights |= WhiteQueenside
		case 'k':
			p.CastlingRights |= BlackKingside
		case 'q':
			p.CastlingRights |= BlackQueenside
		default:
			return &FenParseError{s, "bad castling character"}
		}
	}
	return nil
}

// FEN renders the position as a standard six-field FEN string; round-trips
// any position produced by FromFEN (spec.md §8).
func (p *Position) FEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.ToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.CastlingRights.String())

	sb.WriteByte(' ')
	sb.WriteString(p.EPTarget.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfmoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullmoveNum))

	return sb.String()
}
