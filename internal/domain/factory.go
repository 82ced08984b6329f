package domain

// BidFactory builds validated bids.
type BidFactory func(level Level, denom Denomination) (Bid, error)

// ContractFactory builds the contract an auction concludes with.
type ContractFactory func(level Level, denom Denomination, declarer Seat, risk Risk) Contract

// TrickFactory builds the trick a play engine resolves.
type TrickFactory func(plays [SeatCount]Play, winner Seat) Trick

// Factories groups the value-object constructors the engines depend on.
type Factories struct {
	Bid      BidFactory
	Contract ContractFactory
	Trick    TrickFactory
}

// DefaultFactories returns the package constructors.
func DefaultFactories() Factories {
	return Factories{
		Bid:      NewBid,
		Contract: NewContract,
		Trick:    NewTrick,
	}
}

// withDefaults fills any nil constructor with the package default.
func (f Factories) withDefaults() Factories {
	d := DefaultFactories()
	if f.Bid == nil {
		f.Bid = d.Bid
	}
	if f.Contract == nil {
		f.Contract = d.Contract
	}
	if f.Trick == nil {
		f.Trick = d.Trick
	}
	return f
}

// Option configures an Auction or PlayEngine.
type Option func(*options)

type options struct {
	factories Factories
}

// WithFactories injects value-object constructors.
func WithFactories(f Factories) Option {
	return func(o *options) { o.factories = f }
}

func buildOptions(opts []Option) options {
	o := options{factories: DefaultFactories()}
	for _, opt := range opts {
		opt(&o)
	}
	o.factories = o.factories.withDefaults()
	return o
}
