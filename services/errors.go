package services

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Error taxonomy surfaced to controllers. Store-transaction failures collapse
// onto these so callers can treat any error as "no state change occurred".
var (
	// ErrInvalidArgument marks a malformed call, rejected before any I/O.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPreconditionFailed marks a referenced profile or match document that
	// did not exist when the operation read its inputs. Nothing was written.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrTransientStore marks a contention or throttling failure from the
	// store, including a transaction cancelled because a document changed
	// between read and commit. Safe to retry the whole call.
	ErrTransientStore = errors.New("transient store error")

	// ErrNotFound marks a missing document on a plain read.
	ErrNotFound = errors.New("not found")
)

// classifyTransactError maps a TransactWriteItems failure onto the taxonomy.
// Every write in a transaction is conditioned on the state read beforehand, so
// a failed condition means a document changed or vanished between read and
// commit; the caller retries the whole call and the fresh read reclassifies
// genuinely missing documents. Conflicts and throttles are likewise retryable.
func classifyTransactError(err error) error {
	var canceled *types.TransactionCanceledException
	if errors.As(err, &canceled) {
		for _, reason := range canceled.CancellationReasons {
			if reason.Code == nil {
				continue
			}
			switch *reason.Code {
			case "ConditionalCheckFailed", "TransactionConflict", "ThrottlingError", "ProvisionedThroughputExceeded":
				return fmt.Errorf("%w: %s", ErrTransientStore, canceled.Error())
			}
		}
		return fmt.Errorf("transaction canceled: %w", err)
	}

	var conflict *types.TransactionConflictException
	if errors.As(err, &conflict) {
		return fmt.Errorf("%w: %s", ErrTransientStore, conflict.Error())
	}

	return err
}
