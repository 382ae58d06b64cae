// Package see implements Static Exchange Evaluation: estimating the net
// material result of a capture sequence on one square without searching it,
// grounded on the original engine's see.h swap loop and generalized to
// pos.AttackersTo (spec.md §4.6).
package see

import "github.com/arcbit/chesscore/internal/board"

// maxGains bounds the gain array: more plies than any legal position's
// attacker count on one square.
const maxGains = 32

// Evaluate estimates the net material gain for the side making m, from
// that side's perspective, by replaying the full capture/recapture
// sequence on m's destination square with the least valuable attacker
// moving first at each step (spec.md §4.6). Non-captures return 0.
func Evaluate(pos *board.Position, m board.Move) int {
	from := m.From()
	to := m.To()

	attacker := pos.PieceAt(from)
	if attacker == board.NoPiece {
		return 0
	}

	var gain0 int
	if m.IsEnPassant() {
		gain0 = board.PieceValue[board.Pawn]
	} else {
		victim := pos.PieceAt(to)
		if victim == board.NoPiece {
			return 0
		}
		gain0 = board.PieceValue[victim.Type()]
	}
	if m.IsPromotion() {
		gain0 += board.PieceValue[m.Promotion()] - board.PieceValue[board.Pawn]
	}

	return swap(pos, to, from, attacker, gain0)
}

// swap builds the gain array by alternating sides, each time having the
// side on move capture with its least valuable attacker on target:
// g[0] = value(victim); g[i] = g[i-1] − value(previous attacker) when the
// enemy captures, g[i] = g[i-1] + value(newly captured attacker) when we
// recapture. It returns the maximum of the odd-indexed gains (ours) and,
// if the loop stopped because the opponent had no attacker left to
// recapture with (so our last capture stands), of the final gain too
// (spec.md §4.6).
func swap(pos *board.Position, target, firstFrom board.Square, firstAttacker board.Piece, gain0 int) int {
	var occupied [2]board.Bitboard
	us := firstAttacker.Color()
	them := us.Other()
	occupied[us] = pos.Occupied[us] &^ board.SquareBB(firstFrom)
	occupied[them] = pos.Occupied[them]

	var gain [maxGains]int
	gain[0] = gain0
	size := 1

	currPiece := firstAttacker.Type()
	color := us

	i := 1
	for i+1 < maxGains {
		opp := color.Other()

		oppAttackers := pos.AttackersTo(target, occupied[color]|occupied[opp]) & occupied[opp]
		if oppAttackers == 0 {
			break
		}
		gain[i] = gain[i-1] - board.PieceValue[currPiece]
		size++

		oppSq, oppPiece := leastValuableAttacker(pos, opp, oppAttackers)
		occupied[opp] &^= board.SquareBB(oppSq)

		usAttackers := pos.AttackersTo(target, occupied[color]|occupied[opp]) & occupied[color]
		if usAttackers == 0 {
			break
		}
		gain[i+1] = gain[i] + board.PieceValue[oppPiece.Type()]
		size++

		usSq, usPiece := leastValuableAttacker(pos, color, usAttackers)
		occupied[color] &^= board.SquareBB(usSq)

		currPiece = usPiece.Type()
		i += 2
	}

	best := -maxInt
	j := 1
	for ; j < size; j += 2 {
		if gain[j] > best {
			best = gain[j]
		}
	}
	if j == size && gain[j-1] > best {
		best = gain[j-1]
	}
	return best
}

// leastValuableAttacker finds the cheapest piece of color side that attacks
// target among attackers, honoring discovered (x-ray) attacks: the caller
// removes each chosen attacker from the occupancy it passes to AttackersTo
// before the next lookup.
func leastValuableAttacker(pos *board.Position, side board.Color, attackers board.Bitboard) (board.Square, board.Piece) {
	for pt := board.Pawn; pt <= board.King; pt++ {
		candidates := attackers & pos.Pieces[side][pt]
		if candidates != 0 {
			sq := candidates.LSB()
			return sq, board.NewPiece(pt, side)
		}
	}
	return board.NoSquare, board.NoPiece
}

const maxInt = int(^uint(0) >> 1)
