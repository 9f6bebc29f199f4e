// Package client implements the client application runtime.
//
// It wires local storage, the server adapter, client services, and the
// background synchronization job into a single process lifecycle.
package client
