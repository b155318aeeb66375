// internal/keyseq/errors.go
package keyseq

import "errors"

// ErrInvalidKeyFormat means a custom hex code is empty, contains non-hex
// characters, or does not fit in 16 bits.
var ErrInvalidKeyFormat = errors.New("invalid key code format")

// ErrMissingModeSelection means a custom code was supplied without saying
// whether it is a virtual-key code or a scan code.
var ErrMissingModeSelection = errors.New("custom key requires virtual-key or scan-code mode")

// ErrUnsupportedOperation means the selected injection method cannot express
// the requested key. Nothing has been sent when this is returned.
var ErrUnsupportedOperation = errors.New("unsupported by injection method")

// ErrCancelled is returned by Sequencer.Send when the user cancelled. Any keys
// that were pressed have been released.
var ErrCancelled = errors.New("operation cancelled")

// ErrBusy means another send is still in flight.
var ErrBusy = errors.New("a send is already in progress")
