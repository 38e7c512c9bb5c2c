package constants

import "time"

const (
	// MatchPoints is awarded to the acting side for each matched pair
	MatchPoints int = 10
	// TimeBonusPerTile is the single-player time bonus budget per tile, in points
	TimeBonusPerTile int = 10

	// MismatchRevealDelay is how long a wrong guess stays face-up
	MismatchRevealDelay time.Duration = 800 * time.Millisecond
	// PlayClockTick is the resolution of the play timer
	PlayClockTick time.Duration = time.Second
	// AbandonTimeout is how long a finished room waits for a restart before it is closed
	AbandonTimeout time.Duration = 90 * time.Second

	// RoomCodeLength is the number of characters in a room code
	RoomCodeLength int = 6
	// RoomCodeChars is the room code alphabet
	RoomCodeChars string = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// RoomCodeMaxRetries bounds the attempts to find an unused room code
	RoomCodeMaxRetries int = 16
)

// Icons is the icon set boards draw their pairs from, in order.
var Icons = []string{
	"🐶", "🐱", "🐭", "🐹", "🐰", "🦊", "🐻", "🐼",
	"🐨", "🐯", "🦁", "🐮", "🐷", "🐸", "🐵", "🐔",
	"🐧", "🐦", "🐤", "🦆", "🦅", "🦉", "🦇", "🐺",
	"🪲", "🦋", "🐢", "🐍", "🐙", "🦑", "🐠", "🐳",
}
