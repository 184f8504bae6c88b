// Package transition implements role-aware status transition tables as pure data.
//
// A Table maps each state to the states reachable from it and the roles allowed
// to drive each edge. Terminal states simply have no outgoing edges. Both the
// order and booking lifecycles consult their table before every status write;
// nothing in the engine mutates a status field without going through here.
package transition

import "github.com/loziogigio/vinc-pim-sub014/internal/shared/actor"

// State is a lifecycle status value. Each entity kind defines its own constants.
type State string

// Edges maps a target state to the roles allowed to reach it.
type Edges map[State][]actor.Role

// Table is the full transition matrix for one entity kind.
type Table map[State]Edges

// Can reports whether role may move an entity from one state to another.
// RoleAdmin passes any edge that exists; unknown states and missing edges fail.
func (t Table) Can(from, to State, role actor.Role) bool {
	roles, ok := t[from][to]
	if !ok {
		return false
	}
	if role == actor.RoleAdmin {
		return true
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// Allowed returns the set of states role may reach from the given state.
func (t Table) Allowed(from State, role actor.Role) []State {
	edges, ok := t[from]
	if !ok {
		return nil
	}
	var out []State
	for to := range edges {
		if t.Can(from, to, role) {
			out = append(out, to)
		}
	}
	return out
}

// Terminal reports whether the state has no outgoing edges.
func (t Table) Terminal(state State) bool {
	return len(t[state]) == 0
}

// Known reports whether the state appears in the table at all.
func (t Table) Known(state State) bool {
	_, ok := t[state]
	return ok
}
