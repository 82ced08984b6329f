package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a table with an open seat.
	RpcQuickMatch = "quick_match"

	// RpcReserveSeat issues a signed seat ticket for a specific match.
	RpcReserveSeat = "reserve_seat"

	// MatchNameBridge is the authoritative match handler name registered with Nakama.
	MatchNameBridge = "bridge_table"

	// MetadataTicket is the join metadata key carrying a seat ticket.
	MetadataTicket = "ticket"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartBoard int64 = 1
	OpCall       int64 = 2
	OpPass       int64 = 3
	OpDouble     int64 = 4
	OpPlayCard   int64 = 5
	OpHint       int64 = 6

	// Server -> Client events
	OpSnapshot      int64 = 100 // send privately
	OpBoardStarted  int64 = 101
	OpHandDealt     int64 = 102 // send privately
	OpTurnChanged   int64 = 103
	OpCalled        int64 = 104
	OpPassed        int64 = 105
	OpDoubled       int64 = 106
	OpRedoubled     int64 = 107
	OpContractMade  int64 = 108
	OpPassedOut     int64 = 109
	OpCardPlayed    int64 = 110
	OpDummyRevealed int64 = 111
	OpTrickWon      int64 = 112
	OpBoardScored   int64 = 113
	OpHintResult    int64 = 120 // send privately
	OpError         int64 = 199
)
