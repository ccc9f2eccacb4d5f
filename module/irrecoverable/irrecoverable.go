package irrecoverable

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"runtime"
)

// Signaler sends the first irrecoverable error it is given to its error
// channel. Later errors are dropped.
type Signaler struct {
	errChan   chan error
	errThrown chan struct{}
}

// NewSignaler returns a Signaler and the channel it signals on. The channel is
// buffered, so throwing never blocks on a receiver.
func NewSignaler() (*Signaler, <-chan error) {
	errChan := make(chan error, 1)
	return &Signaler{
		errChan:   errChan,
		errThrown: make(chan struct{}, 1),
	}, errChan
}

// Throw is a narrow drop-in replacement for panic, log.Fatal, log.Panic, etc
// anywhere there's something connected to the error channel. It only
// signals the first error it receives and terminates the calling goroutine.
func (s *Signaler) Throw(err error) {
	defer runtime.Goexit()
	select {
	case s.errThrown <- struct{}{}:
		s.errChan <- err
		close(s.errChan)
	default:
		// another error was thrown first, drop this one
	}
}

// SignalerContext is a constrained interface to provide a drop-in replacement for
// context.Context including in interfaces that compose it.
type SignalerContext interface {
	context.Context
	Throw(err error) // delegates to the signaler
	sealed()         // private, to constrain builder to using WithSignaler
}

// private, to force context derivation / WithSignaler
type signalerCtx struct {
	context.Context
	*Signaler
}

func (sc signalerCtx) sealed() {}

// WithSignaler is the One True Way of getting a SignalerContext.
func WithSignaler(parent context.Context) (SignalerContext, <-chan error) {
	sig, errChan := NewSignaler()
	return &signalerCtx{parent, sig}, errChan
}

// Throw can be a drop-in replacement anywhere we have a context.Context likely
// to support irrecoverable errors. If the context is not a SignalerContext,
// the process exits.
func Throw(ctx context.Context, err error) {
	signalerAbleContext, ok := ctx.(SignalerContext)
	if ok {
		signalerAbleContext.Throw(err)
	}
	// Be spectacular on how this does not -but should- handle irrecoverables:
	log.Printf("irrecoverable error signaler not found for context, please implement! Unhandled irrecoverable error: %v", err)
	os.Exit(1)
}

// exception wraps an unexpected error. Wrapping it prevents callers further up
// the stack from mistaking it for an expected, benign sentinel.
type exception struct {
	err error
}

// NewException wraps err as an exception.
func NewException(err error) error {
	return exception{err: err}
}

// NewExceptionf constructs a new exception from the formatted message.
func NewExceptionf(msg string, args ...any) error {
	return NewException(fmt.Errorf(msg, args...))
}

func (e exception) Error() string {
	return fmt.Sprintf("[exception!] %s", e.err.Error())
}

func (e exception) Unwrap() error {
	return e.err
}

// IsException returns true if err is or wraps an exception.
func IsException(err error) bool {
	var e exception
	return errors.As(err, &e)
}
