// Package service wraps each finance API resource in a small typed client.
// Services hold no state beyond the shared api.Client.
package service

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

// ErrInvalidID is returned before any request when a resource id is not a UUID.
var ErrInvalidID = errors.New("invalid resource id")

func checkID(kind, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%s %q: %w", kind, id, ErrInvalidID)
	}
	return nil
}

func pathID(prefix, id string) string {
	return prefix + url.PathEscape(id)
}
