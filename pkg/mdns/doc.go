// Package mdns implements a browse.Transport on multicast DNS using
// zeroconf.
//
// zeroconf reports one entry per interface and address family. The
// transport aggregates entries by instance name so that a service seen on
// several interfaces is reported once, and reports address changes as
// updates of that single service:
//
//	entry on eth0          -> (nil, svc{addrs: A})          Added
//	entry on wlan0         -> (svc{A}, svc{A, B})           interface added
//	removal on eth0        -> (svc{A, B}, svc{B})           interface removed
//	removal on wlan0       -> (svc{B}, nil)                 Removed
//
// The transport also implements browse.Differ, so sessions built on it
// classify with the mask computed by Diff.
package mdns
