package nakama

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"contractbridge/internal/app"
	"contractbridge/internal/domain"
)

var eventOpCodes = map[app.EventKind]int64{
	app.EventBoardStarted:  OpBoardStarted,
	app.EventHandDealt:     OpHandDealt,
	app.EventTurnChanged:   OpTurnChanged,
	app.EventCalled:        OpCalled,
	app.EventPassed:        OpPassed,
	app.EventDoubled:       OpDoubled,
	app.EventRedoubled:     OpRedoubled,
	app.EventContractMade:  OpContractMade,
	app.EventPassedOut:     OpPassedOut,
	app.EventCardPlayed:    OpCardPlayed,
	app.EventDummyRevealed: OpDummyRevealed,
	app.EventTrickWon:      OpTrickWon,
	app.EventBoardScored:   OpBoardScored,
	app.EventHint:          OpHintResult,
}

// eventToStruct flattens an app event payload into a protobuf Struct.
func eventToStruct(ev app.Event) (*structpb.Struct, error) {
	var fields map[string]interface{}

	switch p := ev.Payload.(type) {
	case app.BoardStartedPayload:
		fields = map[string]interface{}{
			"table_id":      p.TableID,
			"board":         p.Number,
			"dealer":        p.Dealer.String(),
			"vulnerability": p.Vulnerability.String(),
		}
	case app.HandDealtPayload:
		fields = map[string]interface{}{"seat": p.Seat.String(), "cards": cardsValue(p.Cards)}
	case app.TurnChangedPayload:
		fields = map[string]interface{}{
			"phase": string(p.Phase),
			"seat":  p.Seat.String(),
			"actor": p.ActorUserID,
		}
	case app.CallPayload:
		fields = map[string]interface{}{"seat": p.Seat.String(), "bid": p.Bid.String(), "risk": p.Risk.String()}
	case app.PassPayload:
		fields = map[string]interface{}{"seat": p.Seat.String()}
	case app.ContractMadePayload:
		fields = map[string]interface{}{
			"contract":       contractValue(p.Contract),
			"dummy":          p.Dummy.String(),
			"opening_leader": p.OpeningLeader.String(),
		}
	case app.PassedOutPayload:
		fields = map[string]interface{}{"board": p.Number}
	case app.CardPlayedPayload:
		fields = map[string]interface{}{"seat": p.Seat.String(), "card": p.Card.String()}
	case app.DummyRevealedPayload:
		fields = map[string]interface{}{"seat": p.Seat.String(), "cards": cardsValue(p.Cards)}
	case app.TrickWonPayload:
		fields = map[string]interface{}{
			"winner":     p.Winner.String(),
			"trick":      trickValue(p.Trick),
			"tricks_won": tricksWonValue(p.TricksWon),
		}
	case app.BoardScoredPayload:
		scores := make(map[string]interface{}, len(p.Scores))
		for id, pts := range p.Scores {
			scores[id] = pts
		}
		fields = map[string]interface{}{
			"board":       p.Number,
			"contract":    contractValue(p.Contract),
			"tricks_made": p.TricksMade,
			"result":      resultValue(p.Result),
			"scores":      scores,
		}
	case app.HintPayload:
		plays := make([]interface{}, 0, len(p.Plays))
		for _, sp := range p.Plays {
			plays = append(plays, map[string]interface{}{"card": sp.Card.String(), "priority": sp.Priority.String()})
		}
		fields = map[string]interface{}{"seat": p.Seat.String(), "plays": plays}
	default:
		return nil, fmt.Errorf("unsupported payload %T for event %s", ev.Payload, ev.Kind)
	}
	return structpb.NewStruct(fields)
}

func snapshotToStruct(s app.TableSnapshot) (*structpb.Struct, error) {
	players := make([]interface{}, 0, len(s.Players))
	for _, id := range s.Players {
		players = append(players, id)
	}
	auction := make([]interface{}, 0, len(s.Auction))
	for _, e := range s.Auction {
		auction = append(auction, map[string]interface{}{
			"seat": e.Seat.String(),
			"bid":  e.Bid.String(),
			"risk": e.Risk.String(),
		})
	}
	trick := make([]interface{}, 0, len(s.CurrentTrick))
	for _, pl := range s.CurrentTrick {
		trick = append(trick, playValue(pl))
	}

	fields := map[string]interface{}{
		"table_id":      s.TableID,
		"phase":         string(s.Phase),
		"players":       players,
		"board":         s.BoardNumber,
		"viewer_seat":   seatValue(s.ViewerSeat),
		"hand":          cardsValue(s.Hand),
		"dummy_hand":    cardsValue(s.DummyHand),
		"auction":       auction,
		"current_seat":  seatValue(s.CurrentSeat),
		"current_trick": trick,
		"tricks_won":    tricksWonValue(s.TricksWon),
	}
	if s.BoardNumber > 0 {
		fields["dealer"] = s.Dealer.String()
		fields["vulnerability"] = s.Vulnerability.String()
	}
	if s.Contract != nil {
		fields["contract"] = contractValue(*s.Contract)
	}
	if s.Result != nil {
		fields["result"] = resultValue(*s.Result)
	}
	return structpb.NewStruct(fields)
}

func seatValue(s domain.Seat) string {
	if !s.Valid() {
		return ""
	}
	return s.String()
}

func cardsValue(cards []domain.Card) []interface{} {
	out := make([]interface{}, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.String())
	}
	return out
}

func playValue(p domain.Play) map[string]interface{} {
	return map[string]interface{}{"seat": p.Seat.String(), "card": p.Card.String()}
}

func trickValue(t domain.Trick) map[string]interface{} {
	plays := make([]interface{}, 0, len(t.Plays))
	for _, p := range t.Plays {
		plays = append(plays, playValue(p))
	}
	return map[string]interface{}{"plays": plays, "winner": t.Winner.String()}
}

func tricksWonValue(won [2]int) map[string]interface{} {
	return map[string]interface{}{
		domain.NorthSouth.String(): won[domain.NorthSouth],
		domain.EastWest.String():   won[domain.EastWest],
	}
}

func contractValue(c domain.Contract) map[string]interface{} {
	return map[string]interface{}{
		"level":        int(c.Level),
		"denomination": c.Denomination.String(),
		"declarer":     c.Declarer.String(),
		"risk":         c.Risk.String(),
		"text":         c.String(),
	}
}

func resultValue(r domain.Result) map[string]interface{} {
	return map[string]interface{}{
		"declarer_score": r.DeclarerScore,
		"defender_score": r.DefenderScore,
		"made":           r.Made,
		"overtricks":     r.Overtricks,
		"undertricks":    r.Undertricks,
	}
}

// decodeRequest reads a client message. An empty message is an empty request.
func decodeRequest(data []byte) (*structpb.Struct, error) {
	req := &structpb.Struct{}
	if len(data) == 0 {
		return req, nil
	}
	if err := proto.Unmarshal(data, req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	return req, nil
}

func bidFromRequest(req *structpb.Struct) (domain.Bid, error) {
	return domain.ParseBid(req.GetFields()["bid"].GetStringValue())
}

func cardFromRequest(req *structpb.Struct) (domain.Card, error) {
	return domain.ParseCard(req.GetFields()["card"].GetStringValue())
}

// boardFromRequest returns the requested board number, or 0 for the next one.
func boardFromRequest(req *structpb.Struct) int {
	return int(req.GetFields()["board"].GetNumberValue())
}
