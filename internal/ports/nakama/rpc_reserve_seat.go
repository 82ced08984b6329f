package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"
)

// ReserveSeatRequest names the table and, optionally, the seat to hold.
type ReserveSeatRequest struct {
	MatchID string `json:"match_id"`
	Seat    string `json:"seat"`
}

// rpcReserveSeat asks a running table for a seat ticket. The client passes the
// ticket as join metadata under MetadataTicket.
func rpcReserveSeat(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("authentication required", 16) // UNAUTHENTICATED
	}

	var req ReserveSeatRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.MatchID == "" {
		return "", runtime.NewError("Invalid payload", 3) // INVALID_ARGUMENT
	}

	signal, _ := json.Marshal(seatSignal{UserID: userID, Seat: req.Seat})
	result, err := nk.MatchSignal(ctx, req.MatchID, string(signal))
	if err != nil {
		logger.Error("rpcReserveSeat [User:%s]: MatchSignal error: %v", userID, err)
		return "", runtime.NewError("table not found", 5) // NOT_FOUND
	}
	if result == "" {
		return "", runtime.NewError("seat unavailable", 9) // FAILED_PRECONDITION
	}

	logger.Info("rpcReserveSeat [User:%s]: Reserved seat at %s", userID, req.MatchID)
	return result, nil
}
