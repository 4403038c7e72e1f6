package serialization

import "github.com/pkg/errors"

func errUnexpectedHashCount(count int) error {
	return errors.Errorf("expected exactly one hash but got %d", count)
}
