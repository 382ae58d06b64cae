package board

// MakeMove applies m to p in place (spec.md §4.3). Position is value-typed
// and cheaply copyable; there is no unmake, so a caller wanting to try a
// move and back out copies the Position first and discards the copy.
//
// MakeMove returns false iff the move leaves the mover's own king in check
// (a pseudo-legal but illegal move) — the search and movegen layers treat
// that as "this candidate doesn't exist". It returns true otherwise,
// including for the null move.
func (p *Position) MakeMove(m Move) bool {
	us := p.ToMove
	them := us.Other()

	if m.IsNull() {
		if p.EPTarget != NoSquare {
			p.Hash ^= ZobristEPFile(p.EPTarget.File())
		}
		p.EPTarget = NoSquare
		p.EPCaptureTarget = NoSquare
		p.ToMove = them
		p.Hash ^= ZobristBlackToMove()
		return true
	}

	from := m.From()
	to := m.To()
	mover := p.PieceOn[from]
	pt := mover.Type()
	oldCastling := p.CastlingRights

	if m.IsCastle() {
		rank := from.Rank()
		var rookFrom, rookTo Square
		if m.IsKingsideCastle() {
			rookFrom, rookTo = NewSquare(7, rank), NewSquare(5, rank)
		} else {
			rookFrom, rookTo = NewSquare(0, rank), NewSquare(3, rank)
		}

		p.Hash ^= ZobristPiece(us, King, from)
		p.relocatePiece(from, to)
		p.Hash ^= ZobristPiece(us, King, to)

		p.Hash ^= ZobristPiece(us, Rook, rookFrom)
		p.relocatePiece(rookFrom, rookTo)
		p.Hash ^= ZobristPiece(us, Rook, rookTo)

		if p.EPTarget != NoSquare {
			p.Hash ^= ZobristEPFile(p.EPTarget.File())
		}
		p.EPTarget = NoSquare
		p.EPCaptureTarget = NoSquare
	} else {
		prevEPCapture := p.EPCaptureTarget
		if p.EPTarget != NoSquare {
			p.Hash ^= ZobristEPFile(p.EPTarget.File())
		}
		p.EPTarget = NoSquare
		p.EPCaptureTarget = NoSquare

		if m.IsEnPassant() {
			capturedPawn := p.removePiece(prevEPCapture)
			p.Hash ^= ZobristPiece(them, capturedPawn.Type(), prevEPCapture)
		} else if captured := p.PieceOn[to]; captured != NoPiece {
			p.removePiece(to)
			p.Hash ^= ZobristPiece(them, captured.Type(), to)
		}

		p.Hash ^= ZobristPiece(us, pt, from)
		p.relocatePiece(from, to)

		if m.IsPromotion() {
			promo := m.Promotion()
			p.Pieces[us][Pawn] &^= SquareBB(to)
			p.Pieces[us][promo] |= SquareBB(to)
			p.PieceOn[to] = NewPiece(promo, us)
			p.Material[us][Pawn]--
			p.Material[us][promo]++
			p.Hash ^= ZobristPiece(us, Pawn, to)
			p.Hash ^= ZobristPiece(us, promo, to)
		} else {
			p.Hash ^= ZobristPiece(us, pt, to)
		}

		if m.IsDoublePush() {
			epSq := Square((int(from) + int(to)) / 2)
			p.EPTarget = epSq
			p.EPCaptureTarget = to
			p.Hash ^= ZobristEPFile(epSq.File())
		}
	}

	if pt == King {
		if us == White {
			p.CastlingRights &^= WhiteKingside | WhiteQueenside
		} else {
			p.CastlingRights &^= BlackKingside | BlackQueenside
		}
	}
	if from == A1 || to == A1 {
		p.CastlingRights &^= WhiteQueenside
	}
	if from == H1 || to == H1 {
		p.CastlingRights &^= WhiteKingside
	}
	if from == A8 || to == A8 {
		p.CastlingRights &^= BlackQueenside
	}
	if from == H8 || to == H8 {
		p.CastlingRights &^= BlackKingside
	}
	p.Hash ^= ZobristCastling(oldCastling ^ p.CastlingRights)

	wasCaptureOrPawnMove := pt == Pawn || m.IsCapture()
	if wasCaptureOrPawnMove {
		p.HalfmoveClock = 0
	} else {
		p.HalfmoveClock++
	}
	if us == Black {
		p.FullmoveNum++
	}

	p.ToMove = them
	p.Hash ^= ZobristBlackToMove()

	p.recomputeAttacks()

	return !p.IsInCheck(us)
}
