package browse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svcwatch/svcwatch-go/pkg/browse"
	"github.com/svcwatch/svcwatch-go/pkg/browse/mocks"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name       string
		nameVal    string
		nameOK     bool
		domainVal  string
		domainOK   bool
		more       bool
		wantName   string
		wantDomain string
	}{
		{"BothPresent", "printer", true, "local.", true, false, "printer", "local."},
		{"MissingDomain", "printer", true, "", false, false, "printer", browse.NullValue},
		{"MissingName", "", false, "local.", true, true, browse.NullValue, "local."},
		{"MissingBoth", "", false, "", false, false, browse.NullValue, browse.NullValue},
		{"EmptyButPresent", "", true, "", true, false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mocks.NewMockResult(t)
			r.EXPECT().Name().Return(tt.nameVal, tt.nameOK).Once()
			r.EXPECT().Domain().Return(tt.domainVal, tt.domainOK).Once()

			ep := browse.Describe(r, tt.more)

			assert.Equal(t, tt.wantName, ep.Name)
			assert.Equal(t, tt.wantDomain, ep.Domain)
			assert.Equal(t, tt.more, ep.MorePending)
		})
	}
}

func TestNullValueIsStable(t *testing.T) {
	assert.Equal(t, "[NULL]", browse.NullValue)
}

func TestNormalize(t *testing.T) {
	prev := &browse.Endpoint{Name: "printer", Domain: "local."}
	cur := &browse.Endpoint{Name: "printer", Domain: "local.", MorePending: true}

	ev := browse.Normalize(browse.ChangeUnknown, prev, cur)

	assert.Equal(t, browse.ChangeUnknown, ev.Kind)
	require.NotNil(t, ev.Previous)
	require.NotNil(t, ev.Current)
	assert.Equal(t, *prev, *ev.Previous)
	assert.Equal(t, *cur, *ev.Current)

	// The event holds copies.
	prev.Name = "changed"
	assert.Equal(t, "printer", ev.Previous.Name)
}

func TestNormalizeAbsentSides(t *testing.T) {
	cur := &browse.Endpoint{Name: "printer", Domain: "local."}

	added := browse.Normalize(browse.ChangeAdded, nil, cur)
	assert.Nil(t, added.Previous)
	assert.NotNil(t, added.Current)

	removed := browse.Normalize(browse.ChangeRemoved, cur, nil)
	assert.NotNil(t, removed.Previous)
	assert.Nil(t, removed.Current)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	prev := &browse.Endpoint{Name: "a", Domain: "local."}
	cur := &browse.Endpoint{Name: "b", Domain: browse.NullValue}

	first := browse.Normalize(browse.ChangeUnknown, prev, cur)
	second := browse.Normalize(browse.ChangeUnknown, prev, cur)

	assert.Equal(t, first, second)
}

func TestChangeEventString(t *testing.T) {
	ev := browse.Normalize(browse.ChangeAdded, nil, &browse.Endpoint{Name: "printer", Domain: "local."})
	assert.Equal(t, `{Added, current: {"printer","local.",false}}`, ev.String())

	ev = browse.Normalize(browse.ChangeRemoved, &browse.Endpoint{Name: "printer", Domain: "local.", MorePending: true}, nil)
	assert.Equal(t, `{Removed, previous: {"printer","local.",true}}`, ev.String())
	assert.True(t, ev.MorePending())
}

func TestChangeKindString(t *testing.T) {
	assert.Equal(t, "Added", browse.ChangeAdded.String())
	assert.Equal(t, "Removed", browse.ChangeRemoved.String())
	assert.Equal(t, "Unknown", browse.ChangeUnknown.String())
	assert.Equal(t, "Unknown", browse.ChangeKind(77).String())
}

func TestMultiSink(t *testing.T) {
	var got []string
	s := browse.MultiSink{
		browse.SinkFunc(func(e browse.ChangeEvent) { got = append(got, "a:"+e.Kind.String()) }),
		browse.SinkFunc(func(e browse.ChangeEvent) { got = append(got, "b:"+e.Kind.String()) }),
	}

	s.Deliver(browse.ChangeEvent{Kind: browse.ChangeAdded})

	assert.Equal(t, []string{"a:Added", "b:Added"}, got)
}
