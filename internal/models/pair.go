package models

import (
	"errors"
	"strings"
)

var (
	ErrEmptyUserID = errors.New("user id must not be empty")
	ErrSamePair    = errors.New("pair members must be distinct users")
)

// Pair is an unordered pair of users stored in canonical order (Low < High).
// Ids compare bytewise, matching the "C" collation of the user id columns.
type Pair struct {
	Low  string
	High string
}

func NewPair(a, b string) (Pair, error) {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return Pair{}, ErrEmptyUserID
	}
	if a == b {
		return Pair{}, ErrSamePair
	}
	if b < a {
		a, b = b, a
	}
	return Pair{Low: a, High: b}, nil
}

// Key identifies the pair independently of argument order.
func (p Pair) Key() string {
	return p.Low + ":" + p.High
}

// Other returns the member that is not userID, or "" when userID is not in the pair.
func (p Pair) Other(userID string) string {
	switch userID {
	case p.Low:
		return p.High
	case p.High:
		return p.Low
	default:
		return ""
	}
}
