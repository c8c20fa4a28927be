package cloudwatch

import (
	"context"
	"errors"

	"github.com/aws/smithy-go"
	"github.com/vfg2006/metric-imager/internal/domain"
)

// API error codes that signal a transient rate-limit rejection.
var throttlingCodes = map[string]struct{}{
	"Throttling":                 {},
	"ThrottlingException":        {},
	"TooManyRequestsException":   {},
	"RequestLimitExceeded":       {},
	"LimitExceededException":     {},
	"RequestThrottledException":  {},
	"ProvisionedThroughputExceededException": {},
}

var authorizationCodes = map[string]struct{}{
	"AccessDenied":            {},
	"AccessDeniedException":   {},
	"UnauthorizedOperation":   {},
	"UnrecognizedClientException": {},
	"InvalidClientTokenId":    {},
	"ExpiredToken":            {},
	"ExpiredTokenException":   {},
}

var notFoundCodes = map[string]struct{}{
	"ResourceNotFound":          {},
	"ResourceNotFoundException": {},
	"NoSuchEntity":              {},
}

// mapError converts SDK and context errors into classified RemoteErrors so
// the orchestrator can decide retry eligibility.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewRemoteError(domain.ErrorKindTimeout, "", "query exceeded its deadline", err)
	}
	if errors.Is(err, context.Canceled) {
		return domain.NewRemoteError(domain.ErrorKindCanceled, "", "query canceled", err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return domain.NewRemoteError(classifyCode(apiErr.ErrorCode()), apiErr.ErrorCode(), apiErr.ErrorMessage(), err)
	}

	return domain.NewRemoteError(domain.ErrorKindUnknown, "", err.Error(), err)
}

func classifyCode(code string) domain.ErrorKind {
	if _, ok := throttlingCodes[code]; ok {
		return domain.ErrorKindThrottling
	}
	if _, ok := authorizationCodes[code]; ok {
		return domain.ErrorKindAuthorization
	}
	if _, ok := notFoundCodes[code]; ok {
		return domain.ErrorKindNotFound
	}
	return domain.ErrorKindUnknown
}
