package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svcwatch/svcwatch-go/pkg/browse"
	"github.com/svcwatch/svcwatch-go/pkg/browse/browsetest"
	"github.com/svcwatch/svcwatch-go/pkg/dnssd"
	"github.com/svcwatch/svcwatch-go/pkg/log"
	"github.com/svcwatch/svcwatch-go/pkg/mdns"
)

func TestNewTransport(t *testing.T) {
	cfg := DefaultConfig()

	tr, err := newTransport(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &mdns.Transport{}, tr)

	cfg.Backend = "DNSSD"
	tr, err = newTransport(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &dnssd.Transport{}, tr)

	cfg.Backend = "avahi"
	_, err = newTransport(cfg, nil)
	assert.Error(t, err)
}

func TestNewClassifier(t *testing.T) {
	c, err := newClassifier(ClassifierAuto, mdns.New(mdns.Config{}), nil)
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = newClassifier(ClassifierDiff, mdns.New(mdns.Config{}), nil)
	require.NoError(t, err)
	assert.IsType(t, &browse.DiffClassifier{}, c)

	_, err = newClassifier(ClassifierDiff, dnssd.New(dnssd.Config{}), nil)
	assert.Error(t, err)

	c, err = newClassifier(ClassifierPositional, dnssd.New(dnssd.Config{}), nil)
	require.NoError(t, err)
	assert.Equal(t, browse.PositionalClassifier{}, c)
}

func TestWatcherEndToEnd(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Service = "dnssd://local./_ipp._tcp"
	cfg.EventLog = filepath.Join(t.TempDir(), "events.cbor")

	transport := browsetest.NewTransport()
	var out bytes.Buffer
	w, err := NewWatcher(cfg, transport, &out, nil)
	require.NoError(t, err)

	assert.Equal(t, browse.Selector{ServiceType: "_ipp._tcp", Domain: "local."}, transport.Last().Selector())
	require.NoError(t, w.Session.Start())

	sub := transport.Last()
	require.True(t, sub.Emit(nil, browsetest.NewResult("printer", "local."), false))
	require.True(t, sub.Emit(browsetest.NewResult("printer", "local."), nil, false))

	// Stop drains both notifications before returning.
	w.Session.StopWithReason("interrupt")
	require.NoError(t, w.Close())

	assert.Equal(t, 0, w.Catalog.Len())
	assert.Equal(t, 1, w.Catalog.Count(browse.ChangeAdded))
	assert.Equal(t, 1, w.Catalog.Count(browse.ChangeRemoved))
	assert.Contains(t, out.String(), "Added   printer in local.")
	assert.Contains(t, out.String(), "Removed printer in local.")

	r, err := log.NewReader(cfg.EventLog)
	require.NoError(t, err)
	defer r.Close()
	events, err := r.All()
	require.NoError(t, err)

	var changes, states int
	for _, e := range events {
		assert.Equal(t, w.Session.ID(), e.SessionID)
		switch e.Category {
		case log.CategoryChange:
			changes++
		case log.CategoryState:
			states++
		}
	}
	assert.Equal(t, 2, changes)
	assert.Equal(t, 4, states)
}

func TestWatcherRejectsBadSelector(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Service = ""
	_, err := NewWatcher(cfg, browsetest.NewTransport(), &bytes.Buffer{}, nil)
	assert.ErrorIs(t, err, browse.ErrInvalidSelector)
}

func TestWatcherSubscribeFailure(t *testing.T) {
	transport := browsetest.NewTransport()
	transport.SubscribeErr = assert.AnError

	_, err := NewWatcher(DefaultConfig(), transport, &bytes.Buffer{}, nil)
	assert.ErrorIs(t, err, assert.AnError)
}
