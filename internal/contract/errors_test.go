package contract

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransportError(t *testing.T) {
	t.Run("status code", func(t *testing.T) {
		err := &TransportError{URL: "http://provider/api/reusabilityMetrics", StatusCode: 503}
		assert.Contains(t, err.Error(), "503")
		assert.Contains(t, err.Error(), "http://provider/api/reusabilityMetrics")
	})

	t.Run("wraps cause", func(t *testing.T) {
		err := &TransportError{URL: "http://provider", Err: context.DeadlineExceeded}
		wrapped := fmt.Errorf("fetch: %w", err)

		var te *TransportError
		assert.True(t, errors.As(wrapped, &te))
		assert.ErrorIs(t, wrapped, context.DeadlineExceeded)
	})
}

func TestMalformedResponseError(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := &MalformedResponseError{URL: "http://provider", Reason: "invalid JSON", Err: cause}

	assert.Contains(t, err.Error(), "invalid JSON")
	assert.ErrorIs(t, err, cause)

	var me *MalformedResponseError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &me))
	assert.Equal(t, "invalid JSON", me.Reason)
}

func TestDomainError(t *testing.T) {
	err := &DomainError{Metric: "cbo", Value: -1}
	assert.Contains(t, err.Error(), "cbo")
	assert.Contains(t, err.Error(), "-1")

	nan := &DomainError{Metric: "lcom", Value: math.NaN()}
	assert.Contains(t, nan.Error(), "NaN")
}
