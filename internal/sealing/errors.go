package sealing

import "errors"

// ErrSealFailed wraps any failure of the sealing round-trip: transport,
// non-2xx status, or response decoding. Sealing failures are never core
// failures — callers log and move on.
var ErrSealFailed = errors.New("sealing: upload to gateway failed")
