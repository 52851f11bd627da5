// Package planner holds the Planner View's state and its transitions.
//
// State is a value; Update never mutates its input. Remote work is described
// by Effects that a host executes and feeds back as Events. Loads are issued
// only on mount, after a mutation result and on Reset, so the list reloading
// can never feed itself.
package planner

import (
	"github.com/Makepad-fr/planner/internal/model"
)

// State is the view's whole world.
type State struct {
	Items       []model.Item
	PendingName string
	Status      string
	// Rejected marks a Status the server sent with a failure code, such as
	// "not found" for a delete.
	Rejected bool

	// Err is set when an operation failed. It stays until Reset or until a
	// load issued after the failure succeeds.
	Err *OpError

	// InFlight counts effects issued but not yet answered.
	InFlight int

	nextSeq     uint64
	loadSeq     uint64
	mutationSeq uint64
	errSeq      uint64
}

// OpError is the explicit failure variant of State.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *OpError) Unwrap() error { return e.Err }

// New returns the empty pre-mount state.
func New() State {
	return State{Items: []model.Item{}}
}

// Busy reports whether any request is outstanding.
func (s State) Busy() bool { return s.InFlight > 0 }

// Stats counts eaten and pending items in the current list.
func (s State) Stats() (eaten, pending int) { return model.Stats(s.Items) }
