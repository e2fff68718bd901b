// Package shutdown resolves the first of two process stop requests.
//
// A Coordinator watches an interrupt source and a terminate source and
// reports which one fired first. The result is fixed once observed, so
// every caller of Wait sees the same reason.
//
//	c := shutdown.FromOS()
//	defer c.Release()
//	reason := c.Wait()
//	session.StopWithReason(reason.String())
package shutdown
