//go:build !unix

package shutdown

import "os"

// No SIGTERM equivalent; the terminate source never fires.
func terminateSignal() os.Signal {
	return nil
}
