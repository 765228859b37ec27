package xerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cases := map[string]struct {
		err  error
		want int
	}{
		"nil":       {nil, http.StatusOK},
		"not found": {Wrap(ErrNotFound, "uav U1"), http.StatusNotFound},
		"invalid":   {ErrInvalidInput, http.StatusBadRequest},
		"duplicate": {fmt.Errorf("insert: %w", ErrDuplicateEntry), http.StatusConflict},
		"rate":      {ErrRateLimited, http.StatusTooManyRequests},
		"creds":     {ErrInvalidCreds, http.StatusUnauthorized},
		"session":   {ErrSessionExpired, http.StatusUnauthorized},
		"unmapped":  {errors.New("boom"), http.StatusBadGateway},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusCode(tc.err, http.StatusBadGateway))
		})
	}
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))

	err := Wrap(ErrNotFound, "procedure p1")
	assert.EqualError(t, err, "procedure p1: resource not found")
	assert.ErrorIs(t, err, ErrNotFound)
}
