package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"

	"contractbridge/internal/domain"
)

var (
	ErrTicketConfig   = errors.New("ticket service is not configured")
	ErrTicketInvalid  = errors.New("seat ticket is invalid")
	ErrTicketWrongMID = errors.New("seat ticket issued for another match")
)

// TicketService issues and checks HS256 seat reservations for a match.
type TicketService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTicketService(secret string, ttl time.Duration) *TicketService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &TicketService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is how long an issued ticket stays valid.
func (s *TicketService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a ticket reserving seat in matchID for user.
func (s *TicketService) Issue(user, matchID string, seat domain.Seat) (string, error) {
	if s == nil || len(s.secret) == 0 {
		return "", ErrTicketConfig
	}
	if user == "" {
		return "", fmt.Errorf("user is required")
	}
	if matchID == "" {
		return "", fmt.Errorf("match id is required")
	}
	if !seat.Valid() {
		return "", fmt.Errorf("invalid seat %d", seat)
	}

	claims := jwt.MapClaims{
		"sub":  user,
		"mid":  matchID,
		"seat": seat.String(),
		"iat":  s.now().Unix(),
		"exp":  s.now().Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks tokenString and returns the reserved user and seat.
func (s *TicketService) Verify(tokenString, matchID string) (string, domain.Seat, error) {
	if s == nil || len(s.secret) == 0 {
		return "", domain.NoSeat, ErrTicketConfig
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", domain.NoSeat, fmt.Errorf("%w: %v", ErrTicketInvalid, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.NoSeat, ErrTicketInvalid
	}
	if mid, _ := claims["mid"].(string); mid != matchID {
		return "", domain.NoSeat, ErrTicketWrongMID
	}
	user, _ := claims["sub"].(string)
	rawSeat, _ := claims["seat"].(string)
	seat, err := domain.ParseSeat(rawSeat)
	if user == "" || err != nil {
		return "", domain.NoSeat, ErrTicketInvalid
	}
	return user, seat, nil
}
