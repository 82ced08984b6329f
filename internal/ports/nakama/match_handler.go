package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math/rand"
	"strconv"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"contractbridge/internal/app"
	"contractbridge/internal/config"
	"contractbridge/internal/domain"
	"contractbridge/internal/ports"
	"contractbridge/internal/solver"
)

const (
	MatchLabelKey_OpenSeats = "open" // Key for the open seats in the match label
	matchLabelGame          = "bridge"
	tableConfigPath         = "data/table_config.json"
)

// MatchState holds the authoritative runtime state for one bridge table.
type MatchState struct {
	OwnerSeat     domain.Seat                 `json:"owner_seat"`
	Tick          int64                       `json:"tick"`
	HintsEnabled  bool                        `json:"hints_enabled"`
	AutoNextBoard bool                        `json:"auto_next_board"`
	Reserved      map[string]reservation      `json:"reserved"` // user ID -> held seat
	Presences     map[string]runtime.Presence `json:"-"`        // user ID -> presence for targeted messaging
	Table         *app.Table                  `json:"-"`
	App           *app.Service                `json:"-"`
	Scores        ports.ScorePort             `json:"-"`
	Tickets       *app.TicketService          `json:"-"`

	now func() time.Time
}

// reservation holds an empty seat for a user who has not joined yet.
type reservation struct {
	Seat    domain.Seat `json:"seat"`
	Expires time.Time   `json:"expires"`
}

func newMatchState(svc *app.Service, scores ports.ScorePort, tickets *app.TicketService) *MatchState {
	return &MatchState{
		OwnerSeat: domain.NoSeat,
		Reserved:  make(map[string]reservation),
		Presences: make(map[string]runtime.Presence),
		Table:     app.NewTable(),
		App:       svc,
		Scores:    scores,
		Tickets:   tickets,
		now:       time.Now,
	}
}

// holdSeat reserves seat for userID for as long as a seat ticket lives.
func (ms *MatchState) holdSeat(userID string, seat domain.Seat) {
	ms.Reserved[userID] = reservation{Seat: seat, Expires: ms.now().Add(ms.Tickets.TTL())}
}

func (ms *MatchState) heldSeat(userID string) (domain.Seat, bool) {
	r, ok := ms.Reserved[userID]
	if !ok || !ms.now().Before(r.Expires) {
		return domain.NoSeat, false
	}
	return r.Seat, true
}

// pruneReservations drops expired holds and reports how many were dropped.
func (ms *MatchState) pruneReservations() int {
	n := 0
	for uid, r := range ms.Reserved {
		if !ms.now().Before(r.Expires) {
			delete(ms.Reserved, uid)
			n++
		}
	}
	return n
}

// isReserved reports whether an unexpired hold keeps seat for someone else.
func (ms *MatchState) isReserved(seat domain.Seat, userID string) bool {
	for uid := range ms.Reserved {
		if uid == userID {
			continue
		}
		if held, ok := ms.heldSeat(uid); ok && held == seat {
			return true
		}
	}
	return false
}

// GetOpenSeatsCount counts empty seats nobody holds a ticket for.
func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range domain.Seats {
		if ms.Table.Players[seat] == "" && !ms.isReserved(seat, "") {
			count++
		}
	}
	return count
}

// freeSeat returns the lowest empty seat userID may take.
func (ms *MatchState) freeSeat(userID string) (domain.Seat, bool) {
	for _, seat := range domain.Seats {
		if ms.Table.Players[seat] == "" && !ms.isReserved(seat, userID) {
			return seat, true
		}
	}
	return domain.NoSeat, false
}

// findFirstSeated returns the first occupied seat or NoSeat.
func findFirstSeated(players [domain.SeatCount]string) domain.Seat {
	for _, seat := range domain.Seats {
		if players[seat] != "" {
			return seat
		}
	}
	return domain.NoSeat
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing bridge table.")

	if err := config.LoadTableConfig(tableConfigPath); err != nil {
		logger.Warn("MatchInit: Could not load table config: %v", err)
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	ttl := config.GetTicketTTL()
	if val, ok := env["bridge_ticket_ttl_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil && i > 0 {
			ttl = time.Duration(i) * time.Second
		}
	}

	svc := app.NewService(rand.New(rand.NewSource(time.Now().UnixNano())), solver.Unavailable{})
	state := newMatchState(svc, NewNakamaScoreAdapter(nk, config.GetScoreCurrency()), app.NewTicketService(env["bridge_ticket_secret"], ttl))
	state.Tick = time.Now().Unix()
	state.HintsEnabled = config.HintsEnabled()
	state.AutoNextBoard = config.AutoNextBoard()
	if val, ok := env["bridge_hints_enabled"]; ok {
		state.HintsEnabled = val == "true"
	}
	if val, ok := env["bridge_auto_next_board"]; ok {
		state.AutoNextBoard = val == "true"
	}

	label, err := matchLabel(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}
	userID := presence.GetUserId()

	// Reconnects keep their seat.
	if _, seated := matchState.Table.SeatOf(userID); seated {
		return state, true, ""
	}

	if ticket := metadata[MetadataTicket]; ticket != "" {
		matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
		user, seat, err := matchState.Tickets.Verify(ticket, matchID)
		if err != nil {
			logger.Warn("MatchJoinAttempt: Rejecting ticket from %s: %v", userID, err)
			return state, false, "Invalid ticket"
		}
		if user != userID {
			return state, false, "Ticket issued to another user"
		}
		if matchState.Table.Players[seat] != "" || matchState.isReserved(seat, userID) {
			return state, false, "Seat taken"
		}
		matchState.holdSeat(userID, seat)
		return state, true, ""
	}

	// The seat is held from now on, so a second attempt in the same tick cannot take it.
	if _, held := matchState.heldSeat(userID); held {
		return state, true, ""
	}
	seat, ok := matchState.freeSeat(userID)
	if !ok {
		return state, false, "Match full"
	}
	matchState.holdSeat(userID, seat)
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		matchState.Presences[userID] = p

		if _, seated := matchState.Table.SeatOf(userID); seated {
			continue
		}
		seat, held := matchState.heldSeat(userID)
		delete(matchState.Reserved, userID)
		if !held {
			if seat, ok = matchState.freeSeat(userID); !ok {
				logger.Warn("MatchJoin: User %s joined but no seat was available.", userID)
				continue
			}
		}
		if matchState.Table.Players[seat] != "" {
			logger.Warn("MatchJoin: Reserved seat %s for %s is already taken.", seat, userID)
			continue
		}
		matchState.Table.Players[seat] = userID
		logger.Debug("MatchJoin: User %s took seat %s.", userID, seat)
	}

	if !matchState.OwnerSeat.Valid() || matchState.Table.Players[matchState.OwnerSeat] == "" {
		matchState.OwnerSeat = findFirstSeated(matchState.Table.Players)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.sendSnapshots(matchState, dispatcher, logger)

	return matchState
}

// MatchLeave frees the seats of leaving players. An interrupted board waits for a replacement.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		delete(matchState.Presences, userID)
		delete(matchState.Reserved, userID)
		if seat, seated := matchState.Table.SeatOf(userID); seated {
			matchState.Table.Players[seat] = ""
			logger.Debug("MatchLeave: User %s left, seat %s freed.", userID, seat)
		}
	}

	if findFirstSeated(matchState.Table.Players) == domain.NoSeat {
		logger.Info("MatchLeave: Terminating empty table.")
		return nil
	}
	if !matchState.OwnerSeat.Valid() || matchState.Table.Players[matchState.OwnerSeat] == "" {
		matchState.OwnerSeat = findFirstSeated(matchState.Table.Players)
		logger.Debug("MatchLeave: Owner moved to seat %s.", matchState.OwnerSeat)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.sendSnapshots(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	if n := matchState.pruneReservations(); n > 0 {
		logger.Debug("MatchLoop: Released %d expired seat holds.", n)
		mh.updateLabel(matchState, dispatcher, logger)
	}

	for _, msg := range messages {
		mh.handleMessage(ctx, matchState, dispatcher, logger, msg)
	}

	return matchState
}

func (mh *matchHandler) handleMessage(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	req, err := decodeRequest(msg.GetData())
	if err != nil {
		logger.Warn("handleMessage: Bad payload from %s (op %d): %v", senderID, msg.GetOpCode(), err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	phaseBefore := state.Table.Phase
	var events []app.Event
	switch msg.GetOpCode() {
	case OpStartBoard:
		if seat, seated := state.Table.SeatOf(senderID); !seated || seat != state.OwnerSeat {
			logger.Warn("handleMessage: User %s tried to start a board but is not owner (owner_seat=%s)", senderID, state.OwnerSeat)
			err = errors.New("only the table owner can start a board")
			break
		}
		events, err = state.App.StartBoard(state.Table, boardFromRequest(req))
	case OpCall:
		var bid domain.Bid
		if bid, err = bidFromRequest(req); err == nil {
			events, err = state.App.Call(state.Table, senderID, bid)
		}
	case OpPass:
		events, err = state.App.Pass(state.Table, senderID)
	case OpDouble:
		events, err = state.App.Double(state.Table, senderID)
	case OpPlayCard:
		var card domain.Card
		if card, err = cardFromRequest(req); err == nil {
			events, err = state.App.PlayCard(state.Table, senderID, card)
		}
	case OpHint:
		if !state.HintsEnabled {
			err = errors.New("hints are disabled at this table")
			break
		}
		events, err = state.App.Hint(ctx, state.Table, senderID)
	default:
		logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		return
	}

	if err != nil {
		logger.Warn("handleMessage: User %s failed op %d: %v", senderID, msg.GetOpCode(), err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	mh.dispatch(ctx, state, dispatcher, logger, events, phaseBefore)
}

// dispatch broadcasts events, then deals the next board if the table is set to do so.
// phaseBefore is the table phase before the action that produced events.
func (mh *matchHandler) dispatch(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event, phaseBefore app.Phase) {
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}

	if state.Table.Phase == app.PhaseEnded && state.AutoNextBoard && len(events) > 0 {
		next, err := state.App.StartBoard(state.Table, 0)
		if err != nil {
			logger.Warn("dispatch: Could not deal next board: %v", err)
		} else {
			for _, ev := range next {
				mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
			}
		}
	}

	for _, ev := range events {
		if ev.Kind == app.EventBoardStarted || ev.Kind == app.EventPassedOut || ev.Kind == app.EventBoardScored {
			mh.updateLabel(state, dispatcher, logger)
			return
		}
	}
	if state.Table.Phase != phaseBefore {
		mh.updateLabel(state, dispatcher, logger)
	}
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, ok := eventOpCodes[ev.Kind]
	if !ok {
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	var totals map[string]interface{}
	if p, ok := ev.Payload.(app.BoardScoredPayload); ok {
		totals = mh.recordScores(ctx, state, logger, p)
	}

	payload, err := eventToStruct(ev)
	if err != nil {
		logger.Error("Failed to convert event %v: %v", ev.Kind, err)
		return
	}
	if len(totals) > 0 {
		if v, err := structpb.NewValue(totals); err == nil {
			payload.Fields["totals"] = v
		}
	}
	bytes, err := proto.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
		// Private events never fall back to a broadcast.
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
}

// recordScores writes the board's deltas and returns each player's running total.
func (mh *matchHandler) recordScores(ctx context.Context, state *MatchState, logger runtime.Logger, p app.BoardScoredPayload) map[string]interface{} {
	if state.Scores == nil {
		return nil
	}
	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	updates := make([]ports.ScoreUpdate, 0, len(p.Scores))
	for userID, points := range p.Scores {
		updates = append(updates, ports.ScoreUpdate{
			UserID: userID,
			Points: points,
			Metadata: map[string]interface{}{
				"match_id": matchID,
				"board":    p.Number,
				"contract": p.Contract.String(),
				"reason":   "board_scored",
			},
		})
	}
	if err := state.Scores.RecordScores(ctx, updates); err != nil {
		logger.Error("Failed to record scores for board %d: %v", p.Number, err)
		return nil
	}

	totals := make(map[string]interface{}, len(p.Scores))
	for userID := range p.Scores {
		total, err := state.Scores.GetTotal(ctx, userID)
		if err != nil {
			logger.Warn("Failed to read score total for %s: %v", userID, err)
			continue
		}
		totals[userID] = total
	}
	return totals
}

// sendSnapshots sends every connected player their own view of the table.
func (mh *matchHandler) sendSnapshots(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	for userID, presence := range state.Presences {
		payload, err := snapshotToStruct(state.App.Snapshot(state.Table, userID))
		if err != nil {
			logger.Error("Failed to convert snapshot for %s: %v", userID, err)
			continue
		}
		bytes, err := proto.Marshal(payload)
		if err != nil {
			logger.Error("Failed to marshal snapshot for %s: %v", userID, err)
			continue
		}
		dispatcher.BroadcastMessage(OpSnapshot, bytes, []runtime.Presence{presence}, nil, true)
	}
}

// sendError sends an error event to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	payload, err := structpb.NewStruct(map[string]interface{}{
		"code":    code,
		"message": message,
	})
	if err != nil {
		logger.Error("Failed to build error event: %v", err)
		return
	}
	bytes, err := proto.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal error event: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	dispatcher.BroadcastMessage(OpError, bytes, []runtime.Presence{presence}, nil, true)
}

func matchLabel(state *MatchState) (string, error) {
	label, err := structpb.NewStruct(map[string]interface{}{
		MatchLabelKey_OpenSeats: state.GetOpenSeatsCount(),
		"game":                  matchLabelGame,
		"phase":                 string(state.Table.Phase),
		"board":                 state.Table.BoardNumber(),
	})
	if err != nil {
		return "", err
	}
	labelBytes, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(label)
	if err != nil {
		return "", err
	}
	return string(labelBytes), nil
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := matchLabel(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with %d grace seconds", graceSeconds)
	return state
}

// seatSignal asks the match to hold a seat for a user.
type seatSignal struct {
	UserID string `json:"user_id"`
	Seat   string `json:"seat,omitempty"`
}

// SeatReservation is returned by the reserve_seat RPC.
type SeatReservation struct {
	MatchID string `json:"match_id"`
	Seat    string `json:"seat"`
	Ticket  string `json:"ticket"`
}

// MatchSignal reserves a seat and answers with a signed ticket for it.
func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, ""
	}
	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)

	res, err := mh.reserveSeat(matchState, matchID, data)
	if err != nil {
		logger.Warn("MatchSignal: Seat reservation failed: %v", err)
		return matchState, ""
	}
	out, _ := json.Marshal(res)
	mh.updateLabel(matchState, dispatcher, logger)
	return matchState, string(out)
}

func (mh *matchHandler) reserveSeat(state *MatchState, matchID, data string) (SeatReservation, error) {
	var sig seatSignal
	if err := json.Unmarshal([]byte(data), &sig); err != nil {
		return SeatReservation{}, err
	}
	if sig.UserID == "" {
		return SeatReservation{}, errors.New("user_id is required")
	}

	seat := domain.NoSeat
	if sig.Seat != "" {
		s, err := domain.ParseSeat(sig.Seat)
		if err != nil {
			return SeatReservation{}, err
		}
		if state.Table.Players[s] != "" || state.isReserved(s, sig.UserID) {
			return SeatReservation{}, errors.New("seat taken")
		}
		seat = s
	} else if s, ok := state.freeSeat(sig.UserID); ok {
		seat = s
	} else {
		return SeatReservation{}, errors.New("table full")
	}

	ticket, err := state.Tickets.Issue(sig.UserID, matchID, seat)
	if err != nil {
		return SeatReservation{}, err
	}
	state.holdSeat(sig.UserID, seat)
	return SeatReservation{MatchID: matchID, Seat: seat.String(), Ticket: ticket}, nil
}
