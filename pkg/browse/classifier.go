package browse

import (
	"fmt"
	"log/slog"
)

// Classifier determines the change kind for a notification.
// Implementations must not retain either result.
type Classifier interface {
	Classify(previous, current Result) ChangeKind
}

// PositionalClassifier infers the change kind from which results are present.
type PositionalClassifier struct{}

// Classify implements Classifier.
func (PositionalClassifier) Classify(previous, current Result) ChangeKind {
	switch {
	case previous == nil && current != nil:
		return ChangeAdded
	case previous != nil && current == nil:
		return ChangeRemoved
	default:
		return ChangeUnknown
	}
}

// DiffClassifier maps a transport-computed ChangeMask to a change kind.
type DiffClassifier struct {
	differ Differ
	logger *slog.Logger
}

// NewDiffClassifier creates a classifier backed by differ.
// logger may be nil.
func NewDiffClassifier(differ Differ, logger *slog.Logger) *DiffClassifier {
	return &DiffClassifier{differ: differ, logger: logger}
}

// Classify implements Classifier. Masks other than exactly
// ChangeResultAdded or ChangeResultRemoved, and diff failures, yield
// ChangeUnknown.
func (c *DiffClassifier) Classify(previous, current Result) ChangeKind {
	mask, err := c.differ.Diff(previous, current)
	if err != nil {
		c.debug("diff failed", fmt.Errorf("%w: %v", ErrUnclassifiedChange, err), mask)
		return ChangeUnknown
	}

	switch mask {
	case ChangeResultAdded:
		return ChangeAdded
	case ChangeResultRemoved:
		return ChangeRemoved
	default:
		c.debug("unrecognized change mask", ErrUnclassifiedChange, mask)
		return ChangeUnknown
	}
}

func (c *DiffClassifier) debug(msg string, err error, mask ChangeMask) {
	if c.logger == nil {
		return
	}
	c.logger.Debug(msg, "error", err, "mask", fmt.Sprintf("%#x", uint64(mask)))
}

// ClassifierFor returns a DiffClassifier when t implements Differ and a
// PositionalClassifier otherwise.
func ClassifierFor(t Transport, logger *slog.Logger) Classifier {
	if d, ok := t.(Differ); ok {
		return NewDiffClassifier(d, logger)
	}
	return PositionalClassifier{}
}

// Compile-time interface satisfaction checks.
var (
	_ Classifier = PositionalClassifier{}
	_ Classifier = (*DiffClassifier)(nil)
)
