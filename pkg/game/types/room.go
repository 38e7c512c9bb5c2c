package types

import "time"

// RoomStatus is the wire form of a room's phase.
type RoomStatus string

const (
	RoomStatusWaiting  RoomStatus = "waiting"
	RoomStatusPlaying  RoomStatus = "playing"
	RoomStatusFinished RoomStatus = "finished"
	RoomStatusClosed   RoomStatus = "closed"
)

// Room is a two-party online session.
type Room struct {
	Code       string
	HostID     string
	GuestID    string
	HostName   string
	GuestName  string
	Difficulty Difficulty
	Match      MatchState
	// Version increments on every committed write of the room document.
	Version   int64
	UpdatedBy string
	CreatedAt time.Time
}

// Seeded reports whether the host has generated the board for the current game.
func (r *Room) Seeded() bool {
	return len(r.Match.Tiles) > 0
}

// SideOf returns the seat held by playerID.
func (r *Room) SideOf(playerID string) (Side, bool) {
	switch playerID {
	case "":
		return "", false
	case r.HostID:
		return SideA, true
	case r.GuestID:
		return SideB, true
	default:
		return "", false
	}
}

// GameSummary is the outcome of a finished game, carried into the next round so
// a client that missed the finished snapshot can still account for it.
type GameSummary struct {
	ScoreA int `json:"scoreA" firestore:"scoreA"`
	ScoreB int `json:"scoreB" firestore:"scoreB"`
}

// RoomDocument is the wire-level contract shared by both clients through the state store.
type RoomDocument struct {
	HostID     string       `json:"hostId" firestore:"hostId"`
	GuestID    string       `json:"guestId,omitempty" firestore:"guestId,omitempty"`
	HostName   string       `json:"hostName" firestore:"hostName"`
	GuestName  string       `json:"guestName,omitempty" firestore:"guestName,omitempty"`
	Difficulty Difficulty   `json:"difficulty" firestore:"difficulty"`
	Status     RoomStatus   `json:"status" firestore:"status"`
	Tiles      []Tile       `json:"tiles,omitempty" firestore:"tiles,omitempty"`
	Flipped    []int        `json:"flipped" firestore:"flipped"`
	Matched    []int        `json:"matched" firestore:"matched"`
	Mismatched []int        `json:"mismatched" firestore:"mismatched"`
	ScoreA     int          `json:"scoreA" firestore:"scoreA"`
	ScoreB     int          `json:"scoreB" firestore:"scoreB"`
	Turn       Side         `json:"turn" firestore:"turn"`
	Resolving  bool         `json:"resolving" firestore:"resolving"`
	// Round counts restarts. Previous holds the final scores of round-1.
	Round      int          `json:"round" firestore:"round"`
	Previous   *GameSummary `json:"previous,omitempty" firestore:"previous,omitempty"`
	Version    int64        `json:"version" firestore:"version"`
	UpdatedBy  string       `json:"updatedBy,omitempty" firestore:"updatedBy,omitempty"`
	CreatedAt  time.Time    `json:"createdAt" firestore:"createdAt"`
}

// Copy returns a deep copy of the document.
func (d *RoomDocument) Copy() *RoomDocument {
	if d == nil {
		return nil
	}
	c := *d
	if d.Tiles != nil {
		c.Tiles = append([]Tile(nil), d.Tiles...)
	}
	c.Flipped = append([]int{}, d.Flipped...)
	c.Matched = append([]int{}, d.Matched...)
	c.Mismatched = append([]int{}, d.Mismatched...)
	if d.Previous != nil {
		prev := *d.Previous
		c.Previous = &prev
	}
	return &c
}
