package apierror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"redecell/internal/apierror"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"bad request", apierror.BadRequest("x"), http.StatusBadRequest},
		{"not found", apierror.NotFound("x"), http.StatusNotFound},
		{"conflict", apierror.Conflict("x"), http.StatusConflict},
		{"wrapped", fmt.Errorf("receive: %w", apierror.NotFound("item")), http.StatusNotFound},
		{"plain error", errors.New("pq: connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, apierror.StatusOf(tc.err))
		})
	}
}
