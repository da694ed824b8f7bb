package vectorstore

import "fmt"

// DimensionError reports a vector whose dimensionality does not match
// the index configuration. The offending vector is never stored.
type DimensionError struct {
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("vector dimension mismatch: want %d, got %d", e.Want, e.Got)
}
