package cloudwatch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/metric-imager/internal/domain"
)

func TestMapErrorClassifiesAPICodes(t *testing.T) {
	tests := []struct {
		code     string
		expected domain.ErrorKind
	}{
		{code: "Throttling", expected: domain.ErrorKindThrottling},
		{code: "ThrottlingException", expected: domain.ErrorKindThrottling},
		{code: "RequestLimitExceeded", expected: domain.ErrorKindThrottling},
		{code: "AccessDenied", expected: domain.ErrorKindAuthorization},
		{code: "ExpiredTokenException", expected: domain.ErrorKindAuthorization},
		{code: "ResourceNotFound", expected: domain.ErrorKindNotFound},
		{code: "ResourceNotFoundException", expected: domain.ErrorKindNotFound},
		{code: "SomethingElseEntirely", expected: domain.ErrorKindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			apiErr := &smithy.GenericAPIError{Code: tt.code, Message: "remote rejected the call"}

			err := mapError(fmt.Errorf("operation error CloudWatch: GetMetricData, %w", apiErr))

			var remote *domain.RemoteError
			require.ErrorAs(t, err, &remote)
			assert.Equal(t, tt.expected, remote.Kind)
			assert.Equal(t, tt.code, remote.Code)
		})
	}
}

func TestMapErrorDeadline(t *testing.T) {
	err := mapError(fmt.Errorf("request failed: %w", context.DeadlineExceeded))

	var remote *domain.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, domain.ErrorKindTimeout, remote.Kind)
	assert.True(t, remote.Kind.Retryable())
}

func TestMapErrorCanceled(t *testing.T) {
	err := mapError(context.Canceled)

	var remote *domain.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, domain.ErrorKindCanceled, remote.Kind)
	assert.False(t, remote.Kind.Retryable())
}

func TestMapErrorUnknown(t *testing.T) {
	err := mapError(errors.New("connection reset by peer"))

	var remote *domain.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, domain.ErrorKindUnknown, remote.Kind)
	assert.False(t, remote.Kind.Retryable())
}

func TestMapErrorNil(t *testing.T) {
	assert.NoError(t, mapError(nil))
}
