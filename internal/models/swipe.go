package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type SwipeAction string

const (
	SwipeLike SwipeAction = "like"
	SwipePass SwipeAction = "pass"
)

var ErrInvalidSwipeAction = errors.New("action must be one of: like, pass")

func ParseSwipeAction(raw string) (SwipeAction, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "like":
		return SwipeLike, nil
	case "pass":
		return SwipePass, nil
	default:
		return "", ErrInvalidSwipeAction
	}
}

type Swipe struct {
	ID        uuid.UUID   `json:"id"`
	SwiperID  string      `json:"swiperId"`
	SwipedID  string      `json:"swipedId"`
	Action    SwipeAction `json:"action"`
	CreatedAt time.Time   `json:"createdAt"`
}

type SwipeResult struct {
	Swipe   *Swipe `json:"-"`
	IsMatch bool   `json:"isMatch"`
	Match   *Match `json:"match,omitempty"`
	// Created is false when the pair already had a match before this swipe.
	Created bool `json:"-"`
}
