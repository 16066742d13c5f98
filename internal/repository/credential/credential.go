// Package credential defines the room credential store contract. The store
// only gates room creation and join; it knows nothing about membership.
package credential

import "errors"

var (
	ErrAlreadyReserved = errors.New("room already reserved")
	ErrMalformed       = errors.New("malformed stored credential")
)

type CheckResult struct {
	Exists  bool
	Matches bool
}
