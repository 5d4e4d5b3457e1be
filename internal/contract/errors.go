package contract

import "fmt"

// TransportError reports that the metrics provider could not be reached,
// timed out, or answered with a non-success status.
type TransportError struct {
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("metrics provider returned status %d for %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("metrics provider request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponseError reports a response body that is null, not a JSON array
// of metric records, or has a record missing one of the required metrics.
type MalformedResponseError struct {
	URL    string
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response from %s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed response from %s: %s", e.URL, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// DomainError reports a metric value for which the reusability formula is undefined.
type DomainError struct {
	Metric string
	Value  float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("metric %s has value %g: log10(%s+1) is undefined for values <= -1", e.Metric, e.Value, e.Metric)
}
