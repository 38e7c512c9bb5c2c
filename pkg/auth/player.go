// Package auth resolves the identity a client plays and records stats under.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/poojachaurasiya603/psmemorygame/pkg/auth/providers"
	"github.com/poojachaurasiya603/psmemorygame/pkg/game/types"
	"github.com/poojachaurasiya603/psmemorygame/pkg/log"
)

var ErrNoProvider = errors.New("no auth provider configured")

// ResolvePlayer verifies idToken when one is given. Without a token the player
// is anonymous with a fresh random id. name overrides the name carried by the
// token.
func ResolvePlayer(ctx context.Context, provider providers.AuthProvider, idToken string, name string) (types.Player, error) {
	name = strings.TrimSpace(name)
	if idToken == "" {
		id := uuid.NewString()
		if name == "" {
			name = "Player " + id[:4]
		}
		log.Debug("Playing anonymously as %s", id)
		return types.Player{ID: id, Name: name}, nil
	}
	if provider == nil {
		return types.Player{}, ErrNoProvider
	}

	claims, err := provider.VerifyToken(ctx, idToken)
	if err != nil {
		return types.Player{}, fmt.Errorf("failed to resolve player: %w", err)
	}
	if name == "" {
		name = claims.Name
	}
	if name == "" {
		name = claims.UID
	}
	return types.Player{ID: claims.UID, Name: name}, nil
}
