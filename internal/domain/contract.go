package domain

// Contract is the resolved outcome of a completed auction.
type Contract struct {
	Level        Level
	Denomination Denomination
	Declarer     Seat
	Risk         Risk
}

// NewContract is the default ContractFactory.
func NewContract(level Level, denom Denomination, declarer Seat, risk Risk) Contract {
	return Contract{Level: level, Denomination: denom, Declarer: declarer, Risk: risk}
}

// TricksRequired is the number of tricks the declaring side must take.
func (c Contract) TricksRequired() int {
	return int(c.Level) + 6
}

// Trump returns the contract's trump suit; ok is false in NoTrump.
func (c Contract) Trump() (Suit, bool) {
	return c.Denomination.Trump()
}

// Dummy is the declarer's partner.
func (c Contract) Dummy() Seat {
	return c.Declarer.Partner()
}

// OpeningLeader is the seat to the declarer's left.
func (c Contract) OpeningLeader() Seat {
	return c.Declarer.Next()
}

func (c Contract) String() string {
	return Bid{Level: c.Level, Denomination: c.Denomination}.String() + c.Risk.String() + " by " + c.Declarer.String()
}

// Play is one card played by one seat.
type Play struct {
	Card Card
	Seat Seat
}

// Trick is four plays, one per seat, in the order they were played.
type Trick struct {
	Plays  [SeatCount]Play
	Winner Seat
}

// NewTrick is the default TrickFactory.
func NewTrick(plays [SeatCount]Play, winner Seat) Trick {
	return Trick{Plays: plays, Winner: winner}
}

// Leader is the seat that played first.
func (t Trick) Leader() Seat {
	return t.Plays[0].Seat
}

// LedSuit is the suit of the first card played.
func (t Trick) LedSuit() Suit {
	return t.Plays[0].Card.Suit
}

// Cards returns the four cards in play order.
func (t Trick) Cards() []Card {
	out := make([]Card, 0, SeatCount)
	for _, p := range t.Plays {
		out = append(out, p.Card)
	}
	return out
}
