package pickup

import (
	"fmt"
	"strings"
)

const (
	ActorHousehold = "household"
	ActorCollector = "collector"
)

// Transition is one allowed status change and the role allowed to make it.
type Transition struct {
	From  Status `json:"from"`
	To    Status `json:"to"`
	Actor string `json:"actor"`
}

var transitions = []Transition{
	{From: StatusPending, To: StatusAccepted, Actor: ActorCollector},
	{From: StatusPending, To: StatusCancelled, Actor: ActorHousehold},

	{From: StatusAccepted, To: StatusOnTheWay, Actor: ActorCollector},
	{From: StatusAccepted, To: StatusCancelled, Actor: ActorHousehold},
	{From: StatusAccepted, To: StatusCancelled, Actor: ActorCollector},

	{From: StatusOnTheWay, To: StatusAtLocation, Actor: ActorCollector},
	{From: StatusOnTheWay, To: StatusCancelled, Actor: ActorHousehold},
	{From: StatusOnTheWay, To: StatusCancelled, Actor: ActorCollector},

	{From: StatusAtLocation, To: StatusInProgress, Actor: ActorCollector},
	{From: StatusInProgress, To: StatusCompleted, Actor: ActorCollector},
}

type transitionKey struct {
	from, to Status
	actor    string
}

var transitionSet = func() map[transitionKey]struct{} {
	m := make(map[transitionKey]struct{}, len(transitions))
	for _, t := range transitions {
		m[transitionKey{t.From, t.To, t.Actor}] = struct{}{}
	}
	return m
}()

// TransitionError reports a status change the machine does not allow.
type TransitionError struct {
	From  Status
	To    Status
	Actor string
	Valid []Status
}

func (e *TransitionError) Error() string {
	valid := "none (terminal state)"
	if len(e.Valid) > 0 {
		names := make([]string, len(e.Valid))
		for i, s := range e.Valid {
			names[i] = string(s)
		}
		valid = strings.Join(names, ", ")
	}
	return fmt.Sprintf("cannot move pickup from %s to %s as %s; valid next states: %s", e.From, e.To, e.Actor, valid)
}

// CanTransition returns nil when actor may move a request from one status to another.
func CanTransition(from, to Status, actor string) error {
	if _, ok := transitionSet[transitionKey{from, to, actor}]; ok {
		return nil
	}
	return &TransitionError{From: from, To: to, Actor: actor, Valid: ValidTransitionsFrom(from)}
}

// ValidTransitionsFrom lists the distinct statuses reachable from status, by any actor.
func ValidTransitionsFrom(status Status) []Status {
	var next []Status
	seen := make(map[Status]bool)
	for _, t := range transitions {
		if t.From == status && !seen[t.To] {
			next = append(next, t.To)
			seen[t.To] = true
		}
	}
	return next
}

// AllowedFor lists what actor alone can move status to.
func AllowedFor(status Status, actor string) []Status {
	var next []Status
	for _, t := range transitions {
		if t.From == status && t.Actor == actor {
			next = append(next, t.To)
		}
	}
	return next
}

func Transitions() []Transition {
	out := make([]Transition, len(transitions))
	copy(out, transitions)
	return out
}

// CanActorEnter reports whether actor is ever allowed to move a request into status.
func CanActorEnter(status Status, actor string) bool {
	for _, t := range transitions {
		if t.To == status && t.Actor == actor {
			return true
		}
	}
	return false
}
