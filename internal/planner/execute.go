package planner

import (
	"context"
	"fmt"

	"github.com/Makepad-fr/planner/internal/logging"
	"github.com/Makepad-fr/planner/internal/model"
)

// Service is the remote store as the view sees it. A mutation that returns
// both a message and an error was refused by the server; the message is
// still shown to the user.
type Service interface {
	List(ctx context.Context) ([]model.Item, error)
	Append(ctx context.Context, name string) (string, error)
	Delete(ctx context.Context, name string) (string, error)
}

// Execute performs eff against svc and returns the event that answers it.
func Execute(ctx context.Context, svc Service, eff Effect) Event {
	log := logging.NewModuleLogger("planner", "execute")
	log.Debug("effect", "seq", eff.Seq, "kind", eff.Kind.String(), "food", eff.Name)

	switch eff.Kind {
	case KindLoad:
		items, err := svc.List(ctx)
		if err != nil {
			log.Warn("load failed", "seq", eff.Seq, "err", err)
			return Failed{Seq: eff.Seq, Kind: eff.Kind, Err: err}
		}
		return ItemsLoaded{Seq: eff.Seq, Items: items}

	case KindAppend, KindDelete:
		call := svc.Append
		if eff.Kind == KindDelete {
			call = svc.Delete
		}
		msg, err := call(ctx, eff.Name)
		if err != nil && msg == "" {
			log.Warn("mutation failed", "seq", eff.Seq, "kind", eff.Kind.String(), "err", err)
			return Failed{Seq: eff.Seq, Kind: eff.Kind, Err: err}
		}
		if err != nil {
			log.Info("mutation rejected", "seq", eff.Seq, "kind", eff.Kind.String(), "message", msg, "err", err)
		}
		return MutationDone{Seq: eff.Seq, Kind: eff.Kind, Message: msg, Rejected: err != nil}
	}
	return Failed{Seq: eff.Seq, Kind: eff.Kind, Err: fmt.Errorf("unknown effect kind %d", eff.Kind)}
}

// Drive applies ev and runs every resulting effect in order until the view
// is idle. One-shot commands use it in place of an event loop.
func Drive(ctx context.Context, svc Service, s State, ev Event) State {
	queue := []Event{ev}
	for len(queue) > 0 {
		var effects []Effect
		s, effects = Update(s, queue[0])
		queue = queue[1:]
		for _, eff := range effects {
			queue = append(queue, Execute(ctx, svc, eff))
		}
	}
	return s
}
