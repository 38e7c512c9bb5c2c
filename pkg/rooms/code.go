package rooms

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/poojachaurasiya603/psmemorygame/pkg/game/constants"
)

// GenerateCode returns a random room code drawn from constants.RoomCodeChars.
func GenerateCode() (string, error) {
	charset := constants.RoomCodeChars

	code := make([]byte, constants.RoomCodeLength)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

// NormalizeCode accepts a user-typed code in any case and returns its canonical form.
func NormalizeCode(input string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(input))
	if len(code) != constants.RoomCodeLength {
		return "", fmt.Errorf("%w: %q", ErrInvalidRoomCode, input)
	}
	for _, c := range code {
		if !strings.ContainsRune(constants.RoomCodeChars, c) {
			return "", fmt.Errorf("%w: %q", ErrInvalidRoomCode, input)
		}
	}
	return code, nil
}
