package remote

import (
	"errors"
	"fmt"
)

// ErrBreakerOpen is returned without contacting the service after too many
// consecutive transport failures.
var ErrBreakerOpen = errors.New("processing service unavailable, try again shortly")

// ServiceError is a failure reported by the service: a non-2xx status or a
// response with success set to false.
type ServiceError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func httpStatusMessage(status int) string {
	return fmt.Sprintf("HTTP error! status: %d", status)
}

// IsServiceError reports whether err carries a service-reported failure.
func IsServiceError(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}
