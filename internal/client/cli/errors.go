package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/courtbook/internal/client/client"
	"github.com/dmitrijs2005/courtbook/internal/client/models"
)

var (
	errNotSignedIn = errors.New("please log in first")
	errOwnerOnly   = errors.New("this command is for court owners")
)

type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }

func usage(format string, args ...any) error {
	return usageError(fmt.Sprintf(format, args...))
}

// describe turns an error into the line shown to the user.
func describe(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrSessionExpired):
		return "session expired, please log in again"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable, try again later"
	case errors.Is(err, models.ErrReservationWindow), errors.Is(err, models.ErrReservationCourt):
		return err.Error()
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	}
	return err.Error()
}
