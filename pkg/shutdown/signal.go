package shutdown

import (
	"os"
	"os/signal"
	"sync"
)

// FromOS creates a coordinator fed by process signals. Interrupt is
// os.Interrupt; Terminate is SIGTERM where the platform has it and never
// fires otherwise. Call Release to restore default signal handling.
func FromOS() *Coordinator {
	interrupt, stopInterrupt := notify(os.Interrupt)

	var terminate <-chan struct{}
	stopTerminate := func() {}
	if sig := terminateSignal(); sig != nil {
		terminate, stopTerminate = notify(sig)
	}

	c := New(interrupt, terminate)

	var once sync.Once
	c.release = func() {
		once.Do(func() {
			stopInterrupt()
			stopTerminate()
		})
	}
	return c
}

// notify converts the first delivery of sig into a closed channel.
func notify(sig os.Signal) (<-chan struct{}, func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, sig)

	fired := make(chan struct{})
	quit := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
			close(fired)
		case <-quit:
		}
	}()

	var once sync.Once
	return fired, func() {
		once.Do(func() {
			signal.Stop(sigCh)
			close(quit)
		})
	}
}
