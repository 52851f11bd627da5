package planner

import (
	"slices"

	"github.com/Makepad-fr/planner/internal/model"
)

// Kind names the remote operation behind an Effect.
type Kind int

const (
	KindLoad Kind = iota
	KindAppend
	KindDelete
)

func (k Kind) String() string {
	switch k {
	case KindLoad:
		return "list"
	case KindAppend:
		return "append"
	case KindDelete:
		return "delete"
	}
	return "unknown"
}

// Effect asks the host to perform one remote call and report back.
type Effect struct {
	Seq  uint64
	Kind Kind
	Name string // food name for append and delete
}

// Event is anything that moves the view forward.
type Event interface{ event() }

type (
	// Mounted starts the view and issues the first load.
	Mounted struct{}
	// NameChanged mirrors keystrokes into the pending name.
	NameChanged struct{ Text string }
	// Submitted sends the pending name to the append endpoint.
	Submitted struct{}
	// DeleteRequested sends Name to the delete endpoint.
	DeleteRequested struct{ Name string }
	// Reset discards the typed name and the error and loads again.
	Reset struct{}

	// ItemsLoaded answers a load effect.
	ItemsLoaded struct {
		Seq   uint64
		Items []model.Item
	}
	// MutationDone answers an append or delete effect. Rejected is set when
	// the server answered with a message and a failure status.
	MutationDone struct {
		Seq      uint64
		Kind     Kind
		Message  string
		Rejected bool
	}
	// Failed answers any effect whose call did not produce a result.
	Failed struct {
		Seq  uint64
		Kind Kind
		Err  error
	}
)

func (Mounted) event()         {}
func (NameChanged) event()     {}
func (Submitted) event()       {}
func (DeleteRequested) event() {}
func (Reset) event()           {}
func (ItemsLoaded) event()     {}
func (MutationDone) event()    {}
func (Failed) event()          {}

// Update applies ev to s and returns the next state plus the remote calls
// the host must run. Results older than an already applied result of the
// same kind are dropped, so the view reflects the latest issued request.
func Update(s State, ev Event) (State, []Effect) {
	switch e := ev.(type) {
	case Mounted:
		return s.issue(KindLoad, "")

	case NameChanged:
		s.PendingName = e.Text
		return s, nil

	case Submitted:
		return s.issue(KindAppend, s.PendingName)

	case DeleteRequested:
		return s.issue(KindDelete, e.Name)

	case Reset:
		s.Err = nil
		s.PendingName = ""
		return s.issue(KindLoad, "")

	case ItemsLoaded:
		s = s.settle()
		if e.Seq < s.loadSeq {
			return s, nil
		}
		s.loadSeq = e.Seq
		s.Items = slices.Clone(e.Items)
		if s.Items == nil {
			s.Items = []model.Item{}
		}
		// A load issued before the failure says nothing about it.
		if e.Seq > s.errSeq {
			s.Err = nil
		}
		return s, nil

	case MutationDone:
		s = s.settle()
		if e.Seq >= s.mutationSeq {
			s.mutationSeq = e.Seq
			s.Status = e.Message
			s.Rejected = e.Rejected
		}
		if e.Kind == KindAppend {
			s.PendingName = ""
		}
		return s.issue(KindLoad, "")

	case Failed:
		s = s.settle()
		if e.Kind == KindLoad {
			if e.Seq < s.loadSeq {
				return s, nil
			}
		} else {
			if e.Seq < s.mutationSeq {
				return s, nil
			}
			s.mutationSeq = e.Seq
		}
		if s.Err != nil && e.Seq < s.errSeq {
			return s, nil
		}
		s.errSeq = e.Seq
		s.Err = &OpError{Op: e.Kind.String(), Err: e.Err}
		return s, nil
	}
	return s, nil
}

func (s State) issue(k Kind, name string) (State, []Effect) {
	s.nextSeq++
	s.InFlight++
	return s, []Effect{{Seq: s.nextSeq, Kind: k, Name: name}}
}

func (s State) settle() State {
	if s.InFlight > 0 {
		s.InFlight--
	}
	return s
}
