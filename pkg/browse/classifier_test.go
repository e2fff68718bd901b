package browse_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/svcwatch/svcwatch-go/pkg/browse"
	"github.com/svcwatch/svcwatch-go/pkg/browse/browsetest"
	"github.com/svcwatch/svcwatch-go/pkg/browse/mocks"
)

func TestPositionalClassifier(t *testing.T) {
	h1 := browsetest.NewResult("printer", "local.")
	h2 := browsetest.NewResult("printer", "local.")

	tests := []struct {
		name     string
		previous browse.Result
		current  browse.Result
		want     browse.ChangeKind
	}{
		{"CurrentOnly", nil, h1, browse.ChangeAdded},
		{"PreviousOnly", h1, nil, browse.ChangeRemoved},
		{"Both", h1, h2, browse.ChangeUnknown},
		{"CurrentOnlyWithoutAttributes", nil, h1.WithoutName().WithoutDomain(), browse.ChangeAdded},
		{"PreviousOnlyWithoutDomain", h1.WithoutDomain(), nil, browse.ChangeRemoved},
	}

	var c browse.PositionalClassifier
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.previous, tt.current))
		})
	}
}

func TestDiffClassifier(t *testing.T) {
	prev := browsetest.NewResult("printer", "local.")
	cur := browsetest.NewResult("printer", "local.")

	tests := []struct {
		name string
		mask browse.ChangeMask
		err  error
		want browse.ChangeKind
	}{
		{"Added", browse.ChangeResultAdded, nil, browse.ChangeAdded},
		{"Removed", browse.ChangeResultRemoved, nil, browse.ChangeRemoved},
		{"Identical", browse.ChangeIdentical, nil, browse.ChangeUnknown},
		{"Invalid", browse.ChangeInvalid, nil, browse.ChangeUnknown},
		{"TXTChanged", browse.ChangeTXTRecordChanged, nil, browse.ChangeUnknown},
		{"AddedPlusInterface", browse.ChangeResultAdded | browse.ChangeInterfaceAdded, nil, browse.ChangeUnknown},
		{"UnrecognizedBits", browse.ChangeMask(1 << 40), nil, browse.ChangeUnknown},
		{"DiffError", browse.ChangeResultAdded, errors.New("decode failed"), browse.ChangeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			differ := mocks.NewMockDiffer(t)
			differ.EXPECT().Diff(prev, cur).Return(tt.mask, tt.err).Once()

			c := browse.NewDiffClassifier(differ, nil)
			assert.Equal(t, tt.want, c.Classify(prev, cur))
		})
	}
}

func TestDiffClassifierPassesAbsentResults(t *testing.T) {
	cur := browsetest.NewResult("printer", "local.")

	differ := mocks.NewMockDiffer(t)
	differ.EXPECT().Diff(nil, cur).
		Run(func(previous, current browse.Result) {
			assert.Nil(t, previous)
			assert.Same(t, cur, current)
		}).
		Return(browse.ChangeResultAdded, nil)

	c := browse.NewDiffClassifier(differ, nil)
	assert.Equal(t, browse.ChangeAdded, c.Classify(nil, cur))
}

type differTransport struct {
	*browsetest.Transport
}

func (differTransport) Diff(previous, current browse.Result) (browse.ChangeMask, error) {
	return browse.ChangeIdentical, nil
}

func TestClassifierFor(t *testing.T) {
	_, positional := browse.ClassifierFor(browsetest.NewTransport(), nil).(browse.PositionalClassifier)
	assert.True(t, positional, "transport without Differ should get the positional strategy")

	_, diff := browse.ClassifierFor(differTransport{browsetest.NewTransport()}, nil).(*browse.DiffClassifier)
	assert.True(t, diff, "transport with Differ should get the diff strategy")
}

func TestChangeMaskHas(t *testing.T) {
	m := browse.ChangeResultAdded | browse.ChangeTXTRecordChanged

	assert.True(t, m.Has(browse.ChangeResultAdded))
	assert.True(t, m.Has(browse.ChangeTXTRecordChanged))
	assert.False(t, m.Has(browse.ChangeResultRemoved))
	assert.False(t, m.Has(browse.ChangeInvalid))
}
