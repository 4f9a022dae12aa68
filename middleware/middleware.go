package middleware

import (
	"fmt"

	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/auth"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/users"
)

// Mid bundles what the auth middleware needs: verifying keys plus the user
// directory, since a token subject must resolve to a live account on every
// request.
type Mid struct {
	keys  *auth.Keys
	users *users.Conf
}

func NewMid(keys *auth.Keys, u *users.Conf) (*Mid, error) {
	if keys == nil {
		return nil, fmt.Errorf("auth keys are nil")
	}
	if u == nil {
		return nil, fmt.Errorf("users conf is nil")
	}
	return &Mid{keys: keys, users: u}, nil
}
