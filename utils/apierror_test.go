package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApiErrorStatusCodes(t *testing.T) {
	cases := []struct {
		err    *ApiError
		kind   string
		status int
	}{
		{NotFound("x"), KindNotFound, http.StatusNotFound},
		{InsufficientStock("x"), KindInsufficientStock, http.StatusBadRequest},
		{Conflict("x"), KindConflict, http.StatusConflict},
		{PaymentFailed("x"), KindPaymentFailed, http.StatusPaymentRequired},
		{PaymentMismatch("x"), KindPaymentMismatch, http.StatusBadRequest},
		{Upstream("x"), KindUpstream, http.StatusBadGateway},
		{BadRequest("x"), "bad_request", http.StatusBadRequest},
	}
	for _, c := range cases {
		assert.Equal(t, c.kind, c.err.Kind)
		assert.Equal(t, c.status, c.err.StatusCode)
		assert.Equal(t, "x", c.err.Error())
	}
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusOf(NotFound("missing")))
	assert.Equal(t, http.StatusNotFound, StatusOf(fmt.Errorf("checkout: %w", NotFound("missing"))))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
}
