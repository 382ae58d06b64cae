package board

// GeneratePseudoLegal writes pseudo-legal moves for the side to move into
// ml (spec.md §4.5). In quiescence mode only captures (including en
// passant) and promotions are emitted, and castling is skipped.
//
// A generated move is pseudo-legal only: MakeMove returns false for any
// candidate that actually leaves the mover in check, and callers (movegen
// tests, search, move selector) must treat that as "this move doesn't
// exist" rather than an error.
func (p *Position) GeneratePseudoLegal(ml *MoveList, quiescence bool) {
	us := p.ToMove
	them := us.Other()
	occupied := p.OccupiedAll
	enemies := p.Occupied[them]
	own := p.Occupied[us]

	p.generatePawnMoves(ml, us, enemies, occupied, quiescence)

	for _, pt := range [...]PieceType{Knight, Bishop, Rook, Queen} {
		pieces := p.Pieces[us][pt]
		for pieces != 0 {
			from := pieces.PopLSB()
			targets := AttacksByType(pt, us, from, occupied) &^ own
			captures := targets & enemies
			addMovesFromTargets(ml, pt, from, captures, true)
			if !quiescence {
				quiet := targets &^ enemies
				addMovesFromTargets(ml, pt, from, quiet, false)
			}
		}
	}

	kingFrom := p.Pieces[us][King].LSB()
	if kingFrom != NoSquare {
		targets := KingAttacks(kingFrom) &^ own
		addMovesFromTargets(ml, King, kingFrom, targets&enemies, true)
		if !quiescence {
			addMovesFromTargets(ml, King, kingFrom, targets&^enemies, false)
		}
	}

	if !quiescence {
		p.generateCastles(ml, us)
	}
}

func addMovesFromTargets(ml *MoveList, pt PieceType, from Square, targets Bitboard, capture bool) {
	for targets != 0 {
		to := targets.PopLSB()
		ml.Add(NewMove(pt, from, to, NoPieceType, MoveFlags{Capture: capture}))
	}
}

func (p *Position) generatePawnMoves(ml *MoveList, us Color, enemies, occupied Bitboard, quiescence bool) {
	pawns := p.Pieces[us][Pawn]
	empty := ^occupied

	var push1, push2, attackL, attackR Bitboard
	var promotionRank Bitboard
	var pushDelta int

	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3).North() & empty
		attackL = pawns.NorthWest() & enemies
		attackR = pawns.NorthEast() & enemies
		promotionRank = Rank8
		pushDelta = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6).South() & empty
		attackL = pawns.SouthWest() & enemies
		attackR = pawns.SouthEast() & enemies
		promotionRank = Rank1
		pushDelta = -8
	}

	if !quiescence {
		nonPromoPush := push1 &^ promotionRank
		for nonPromoPush != 0 {
			to := nonPromoPush.PopLSB()
			from := Square(int(to) - pushDelta)
			ml.Add(NewMove(Pawn, from, to, NoPieceType, MoveFlags{}))
		}
		for push2 != 0 {
			to := push2.PopLSB()
			from := Square(int(to) - 2*pushDelta)
			ml.Add(NewMove(Pawn, from, to, NoPieceType, MoveFlags{DoublePush: true}))
		}
	}

	nonPromoL := attackL &^ promotionRank
	for nonPromoL != 0 {
		to := nonPromoL.PopLSB()
		from := Square(int(to) - pushDelta + 1)
		ml.Add(NewMove(Pawn, from, to, NoPieceType, MoveFlags{Capture: true}))
	}
	nonPromoR := attackR &^ promotionRank
	for nonPromoR != 0 {
		to := nonPromoR.PopLSB()
		from := Square(int(to) - pushDelta - 1)
		ml.Add(NewMove(Pawn, from, to, NoPieceType, MoveFlags{Capture: true}))
	}

	addPromotions := func(to, from Square, capture bool) {
		for _, promo := range [...]PieceType{Queen, Rook, Bishop, Knight} {
			ml.Add(NewMove(Pawn, from, to, promo, MoveFlags{Capture: capture}))
		}
	}

	promoPush := push1 & promotionRank
	for promoPush != 0 {
		to := promoPush.PopLSB()
		addPromotions(to, Square(int(to)-pushDelta), false)
	}
	promoL := attackL & promotionRank
	for promoL != 0 {
		to := promoL.PopLSB()
		addPromotions(to, Square(int(to)-pushDelta+1), true)
	}
	promoR := attackR & promotionRank
	for promoR != 0 {
		to := promoR.PopLSB()
		addPromotions(to, Square(int(to)-pushDelta-1), true)
	}

	if p.EPTarget != NoSquare {
		epBB := SquareBB(p.EPTarget)
		var epAttackers Bitboard
		if us == White {
			epAttackers = (epBB.SouthWest() | epBB.SouthEast()) & pawns
		} else {
			epAttackers = (epBB.NorthWest() | epBB.NorthEast()) & pawns
		}
		for epAttackers != 0 {
			from := epAttackers.PopLSB()
			ml.Add(NewMove(Pawn, from, p.EPTarget, NoPieceType, MoveFlags{Capture: true, EnPassant: true}))
		}
	}
}

// generateCastles emits castling moves only when the right is held, the
// mover is not in check, neither the passed-through square nor the king's
// destination is attacked, and every required path square — including b1/
// b8 on the queenside — is empty (spec.md §4.5).
func (p *Position) generateCastles(ml *MoveList, us Color) {
	them := us.Other()
	if p.IsInCheck(us) {
		return
	}

	if us == White {
		if p.CastlingRights.CanCastle(White, true) &&
			p.OccupiedAll&(SquareBB(F1)|SquareBB(G1)) == 0 &&
			!p.IsSquareAttacked(F1, them) && !p.IsSquareAttacked(G1, them) {
			ml.Add(NewMove(King, E1, G1, NoPieceType, MoveFlags{KingsideCastle: true}))
		}
		if p.CastlingRights.CanCastle(White, false) &&
			p.OccupiedAll&(SquareBB(B1)|SquareBB(C1)|SquareBB(D1)) == 0 &&
			!p.IsSquareAttacked(D1, them) && !p.IsSquareAttacked(C1, them) {
			ml.Add(NewMove(King, E1, C1, NoPieceType, MoveFlags{QueensideCastle: true}))
		}
		return
	}

	if p.CastlingRights.CanCastle(Black, true) &&
		p.OccupiedAll&(SquareBB(F8)|SquareBB(G8)) == 0 &&
		!p.IsSquareAttacked(F8, them) && !p.IsSquareAttacked(G8, them) {
		ml.Add(NewMove(King, E8, G8, NoPieceType, MoveFlags{KingsideCastle: true}))
	}
	if p.CastlingRights.CanCastle(Black, false) &&
		p.OccupiedAll&(SquareBB(B8)|SquareBB(C8)|SquareBB(D8)) == 0 &&
		!p.IsSquareAttacked(D8, them) && !p.IsSquareAttacked(C8, them) {
		ml.Add(NewMove(King, E8, C8, NoPieceType, MoveFlags{QueensideCastle: true}))
	}
}

// IsSquareAttacked reports whether byColor attacks sq.
func (p *Position) IsSquareAttacked(sq Square, byColor Color) bool {
	return p.AttackedByColor[byColor]&SquareBB(sq) != 0
}

// AttackersTo returns every piece (either color) attacking sq given the
// supplied occupancy — used by SEE, which removes attackers from occupancy
// as it simulates recaptures.
func (p *Position) AttackersTo(sq Square, occupied Bitboard) Bitboard {
	return (pawnAttackTable[Black][sq] & p.Pieces[White][Pawn]) |
		(pawnAttackTable[White][sq] & p.Pieces[Black][Pawn]) |
		(knightAttackTable[sq] & (p.Pieces[White][Knight] | p.Pieces[Black][Knight])) |
		(kingAttackTable[sq] & (p.Pieces[White][King] | p.Pieces[Black][King])) |
		(BishopAttacks(sq, occupied) & (p.Pieces[White][Bishop] | p.Pieces[Black][Bishop] | p.Pieces[White][Queen] | p.Pieces[Black][Queen])) |
		(RookAttacks(sq, occupied) & (p.Pieces[White][Rook] | p.Pieces[Black][Rook] | p.Pieces[White][Queen] | p.Pieces[Black][Queen]))
}

// HasLegalMoves reports whether the side to move has at least one legal
// move, by generating pseudo-legal moves and testing each with MakeMove on
// a scratch copy.
func (p *Position) HasLegalMoves() bool {
	var ml MoveList
	p.GeneratePseudoLegal(&ml, false)
	for i := 0; i < ml.Len(); i++ {
		scratch := p.Copy()
		if scratch.MakeMove(ml.Get(i)) {
			return true
		}
	}
	return false
}

// IsCheckmate reports checkmate for the side to move.
func (p *Position) IsCheckmate() bool { return p.IsInCheck(p.ToMove) && !p.HasLegalMoves() }

// IsStalemate reports stalemate for the side to move.
func (p *Position) IsStalemate() bool { return !p.IsInCheck(p.ToMove) && !p.HasLegalMoves() }

// IsInsufficientMaterial reports a dead-drawn material balance (no pawns,
// rooks or queens, and at most a single minor piece on one side with none
// on the other).
func (p *Position) IsInsufficientMaterial() bool {
	if p.Pieces[White][Pawn]|p.Pieces[Black][Pawn] != 0 ||
		p.Pieces[White][Rook]|p.Pieces[Black][Rook] != 0 ||
		p.Pieces[White][Queen]|p.Pieces[Black][Queen] != 0 {
		return false
	}
	wMinors := p.Material[White][Knight] + p.Material[White][Bishop]
	bMinors := p.Material[Black][Knight] + p.Material[Black][Bishop]
	if wMinors+bMinors == 0 {
		return true
	}
	if wMinors <= 1 && bMinors == 0 {
		return true
	}
	if bMinors <= 1 && wMinors == 0 {
		return true
	}
	return false
}
