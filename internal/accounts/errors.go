package accounts

import "fmt"

// DuplicateAccountError reports an account ID that is already registered.
type DuplicateAccountError struct {
	ID string
}

func (e DuplicateAccountError) Error() string {
	return fmt.Sprintf("account %q already exists", e.ID)
}

// UnknownAccountError reports a lookup of an account ID that is not registered.
type UnknownAccountError struct {
	ID string
}

func (e UnknownAccountError) Error() string {
	return fmt.Sprintf("unknown account %q", e.ID)
}

// InvalidAccountError reports an account that cannot be created as given.
type InvalidAccountError struct {
	Name   string
	Reason string
}

func (e InvalidAccountError) Error() string {
	return fmt.Sprintf("invalid account %q: %s", e.Name, e.Reason)
}
