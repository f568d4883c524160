package store

import (
	"errors"
	"fmt"

	"github.com/xhad/rasanlu/internal/models"
)

var ErrIndexOutOfRange = errors.New("index out of range")

// IndexError reports an ordinal address that does not exist in a collection
// at the moment the operation ran.
type IndexError struct {
	Collection models.Collection
	Index      int
	Len        int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: index %d out of range (len %d)", e.Collection, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
