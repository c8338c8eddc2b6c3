package ledger

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is wrapped by every validation failure in this package.
// These are caller errors and are never retried.
var ErrInvalidArgument = errors.New("invalid argument")

var errNilLedger = fmt.Errorf("%w: nil ledger", ErrInvalidArgument)
