package pricing

import "fmt"

// ServiceNotFoundError is returned in strict mode when a selection references
// an unknown service id.
type ServiceNotFoundError struct {
	ServiceID string
}

func (e *ServiceNotFoundError) Error() string {
	return fmt.Sprintf("pricing: service not found (id: %s)", e.ServiceID)
}
