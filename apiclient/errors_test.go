package apiclient_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/andyle182810/helpscout/apiclient"
	"github.com/stretchr/testify/require"
)

func TestErrorKind_String(t *testing.T) {
	t.Parallel()

	tests := map[apiclient.ErrorKind]string{
		apiclient.KindUnknown:              "unknown",
		apiclient.KindBadRequest:           "bad_request",
		apiclient.KindNotAuthorized:        "not_authorized",
		apiclient.KindNotFound:             "not_found",
		apiclient.KindThrottleLimitReached: "throttle_limit_reached",
		apiclient.KindInternalError:        "internal_error",
	}

	for kind, expected := range tests {
		require.Equal(t, expected, kind.String())
	}
}

func TestError_MatchesSentinelThroughWrapping(t *testing.T) {
	t.Parallel()

	apiErr := &apiclient.Error{
		Kind:       apiclient.KindThrottleLimitReached,
		StatusCode: 429,
		Message:    "Rate limit exceeded",
		Payload:    "Rate limit exceeded",
		RetryAfter: 12,
		RequestID:  "req-1",
	}

	wrapped := fmt.Errorf("listing mailboxes: %w", apiErr)

	require.ErrorIs(t, wrapped, apiclient.ErrThrottleLimitReached)
	require.NotErrorIs(t, wrapped, apiclient.ErrNotFound)
	require.Equal(t, apiclient.KindThrottleLimitReached, apiclient.KindOf(wrapped))
	require.Equal(t, 12*time.Second, apiErr.RetryAfterDuration())
	require.Equal(t, "apiclient: throttle_limit_reached (status 429): Rate limit exceeded", apiErr.Error())

	got, ok := apiclient.AsError(wrapped)
	require.True(t, ok)
	require.Same(t, apiErr, got)
}

func TestKindOf_NonAPIError(t *testing.T) {
	t.Parallel()

	require.Equal(t, apiclient.KindUnknown, apiclient.KindOf(nil))
	require.Equal(t, apiclient.KindUnknown, apiclient.KindOf(errors.New("boom"))) //nolint:err113

	_, ok := apiclient.AsError(errors.New("boom")) //nolint:err113
	require.False(t, ok)
}
