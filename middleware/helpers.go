package middleware

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Dosada05/tournament-manager/models"
)

// Caller is the authenticated user behind a request.
type Caller struct {
	UserID int
	Role   models.UserRole
}

// callerFromClaims validates the user_id and role claims issued at login.
// JSON numbers decode as float64, so user_id must be a whole positive float.
func callerFromClaims(claims jwt.MapClaims) (Caller, error) {
	rawID, ok := claims["user_id"].(float64)
	if !ok {
		return Caller{}, fmt.Errorf("user_id claim has type %T", claims["user_id"])
	}
	if rawID != float64(int(rawID)) || rawID <= 0 {
		return Caller{}, fmt.Errorf("user_id claim %v is not a positive integer", rawID)
	}

	rawRole, _ := claims["role"].(string)
	role := models.UserRole(rawRole)
	if role != models.RoleAdmin && role != models.RoleManager {
		return Caller{}, fmt.Errorf("unknown role %q", rawRole)
	}
	return Caller{UserID: int(rawID), Role: role}, nil
}

// CallerFromContext returns the caller stored by Authenticate.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(userContextKey).(Caller)
	return c, ok
}

func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, userContextKey, c)
}
