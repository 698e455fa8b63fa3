package beacon

import "errors"

// Sentinel errors for the registry.
var (
	// ErrSignatureMismatch is returned when a hook or unhook targets a signal
	// whose registered callback signature differs from the one provided.
	ErrSignatureMismatch = errors.New("callback signature mismatch")

	// ErrUnknownSignal is returned when an unhook targets a signal with no
	// strong registration.
	ErrUnknownSignal = errors.New("unknown signal")

	// ErrNilCallback is returned when a nil callback is provided.
	ErrNilCallback = errors.New("callback cannot be nil")

	// ErrNilOwner is returned when a weak hook is given a nil owner.
	ErrNilOwner = errors.New("owner cannot be nil")
)

// SignatureError reports a clash between a signal's registered callback
// signature and the signature implied by the callback being added or removed.
type SignatureError struct {
	// Signal is the event name the operation targeted.
	Signal Signal

	// Registered is the signature currently held for the signal.
	Registered string

	// Provided is the signature of the callback passed to the operation.
	Provided string
}

// Error implements the error interface.
func (e *SignatureError) Error() string {
	return "signal " + string(e.Signal) + " is registered as " + e.Registered +
		", got " + e.Provided
}

// Is allows errors.Is to match SignatureError with ErrSignatureMismatch.
func (e *SignatureError) Is(target error) bool {
	return target == ErrSignatureMismatch
}
