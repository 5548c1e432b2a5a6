// SPDX-License-Identifier: Apache-2.0

package nvmf

import (
	"errors"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// stateChangeRetries and stateChangeDelay are the state-change engine's
// fixed retry budget for an EBUSY transition: three retries, 100ms apart.
const (
	stateChangeRetries = 3
	stateChangeDelay   = 100 * time.Millisecond
)

// errBusy is the internal retry signal changeState's backoff.Operation
// returns to ask for another attempt; it never escapes changeState.
var errBusy = errors.New("busy")

// changeState drives a generic async state transition: it invokes f with
// a one-shot completion callback, interprets f's synchronous return code,
// and retries on EBUSY up to stateChangeRetries times with
// stateChangeDelay between attempts.
func changeState(op, nqn string, f func(done StatusDoneFunc) int32) error {
	log.Printf("%s: subsystem %s in progress...", op, nqn)

	var final error
	attempt := func() error {
		done := make(chan int32, 1)
		rc := f(func(status int32) { done <- status })

		switch {
		case rc == 0:
			status := <-done
			if status != 0 {
				final = &OpFailedError{Errno: status, Op: op}
				return backoff.Permanent(final)
			}
			final = nil
			return nil
		case rc == EBUSY:
			log.Printf("%s: subsystem %s busy, retrying", op, nqn)
			final = &SubsystemBusyError{NQN: nqn, Op: op}
			return errBusy
		default:
			final = &InitiationFailedError{Errno: rc, Op: op}
			return backoff.Permanent(final)
		}
	}

	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(stateChangeDelay), stateChangeRetries)
	if err := backoff.Retry(attempt, policy); err != nil && final == nil {
		final = err
	}

	if final != nil {
		log.Printf("%s: subsystem %s failed: %v", op, nqn, final)
	} else {
		log.Printf("%s: subsystem %s completed: Ok", op, nqn)
	}
	return final
}
