package embedding

import "errors"

// ErrDimensionMismatch signals a vector whose length does not match the
// expected corpus dimension. Such vectors must never be written to an index.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")
