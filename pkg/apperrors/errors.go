package apperrors

import "errors"

var (
	// ErrUnknownSource is returned when a source kind is not one of
	// static, airtable, hubspot, zapier.
	ErrUnknownSource = errors.New("unknown data source")

	// ErrConnectionUnreachable is returned when the provider transport
	// cannot be reached after retries are exhausted.
	ErrConnectionUnreachable = errors.New("connection unreachable")

	// ErrNoSuitableTable is returned when discovery cannot bind the minimum
	// required fields (customer_id or email) on any reachable table.
	ErrNoSuitableTable = errors.New("no suitable customer table found")

	// ErrTableNotFound is returned by providers when a named table does not
	// exist. Discovery probes swallow it; everything else surfaces it.
	ErrTableNotFound = errors.New("table not found")

	// ErrCustomerNotFound is returned when no resolution strategy yields a
	// record for the given key.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrAmbiguousMatch is returned when the broad scan matches more than
	// one customer and the resolver refuses to guess.
	ErrAmbiguousMatch = errors.New("ambiguous customer match")

	// ErrUnsupportedOperation is returned when the active source does not
	// support the requested discovery capability.
	ErrUnsupportedOperation = errors.New("operation not supported by this data source")
)
