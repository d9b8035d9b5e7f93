package eligibility

import "errors"

// ErrAwardNotFound is returned when an award id is not in the catalog.
var ErrAwardNotFound = errors.New("award not found")
