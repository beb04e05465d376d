package core

import (
	"fmt"

	"retailcore/pkg/domain"
)

// authorizeTransition decides whether actor may move the request identified by
// entity/entityID from one status to another. Edge existence is checked first:
// a change that is not in the transition table is an invalid transition no
// matter who asks. Only when the edge exists are role, ownership and district
// membership examined.
func authorizeTransition(view domain.RuleView, actor domain.Actor, entity domain.EntityType, entityID, requestStoreID, from, to string) error {
	table, ok := domain.TableFor(entity)
	if !ok {
		return fmt.Errorf("no transition table for %s", entity)
	}
	edges := table.Edges(from, to)
	if len(edges) == 0 {
		return domain.InvalidTransitionError{Entity: entity, ID: entityID, From: from, To: to}
	}
	if actor.Role == domain.RoleConsulting {
		return domain.ForbiddenError{Reason: "consulting role is read-only"}
	}
	for _, edge := range edges {
		if edgeAllows(view, actor, edge, requestStoreID) {
			return nil
		}
	}
	return domain.ForbiddenError{Reason: fmt.Sprintf("%s may not move %s %s from %s to %s", actor.Role, table.Label, entityID, from, to)}
}

func edgeAllows(view domain.RuleView, actor domain.Actor, edge domain.TransitionEdge, requestStoreID string) bool {
	if edge.OwnerOnly {
		return actor.Role == domain.RoleStore && actor.StoreID != nil && *actor.StoreID == requestStoreID
	}
	// Admins hold every non-owner capability.
	if actor.Role == domain.RoleAdmin {
		return true
	}
	switch edge.Role {
	case domain.RoleDistrict:
		if actor.Role != domain.RoleDistrict || actor.DistrictID == nil {
			return false
		}
		return domain.Linked(view, *actor.DistrictID, requestStoreID)
	case domain.RoleAdmin:
		return false
	default:
		return false
	}
}

// authorizeSubmit gates request creation: only the owning store actor may
// open a request against its store.
func authorizeSubmit(actor domain.Actor, storeID string) error {
	if actor.Role == domain.RoleConsulting {
		return domain.ForbiddenError{Reason: "consulting role is read-only"}
	}
	if actor.Role != domain.RoleStore {
		return domain.ForbiddenError{Reason: fmt.Sprintf("%s role cannot submit requests", actor.Role)}
	}
	if actor.StoreID == nil || *actor.StoreID != storeID {
		return domain.ForbiddenError{Reason: "requests may only be submitted against the actor's own store"}
	}
	return nil
}

// authorizeAdmin gates operations reserved for global administrators.
func authorizeAdmin(actor domain.Actor) error {
	if actor.Role != domain.RoleAdmin {
		return domain.ForbiddenError{Reason: fmt.Sprintf("%s role lacks admin authority", actor.Role)}
	}
	return nil
}

// readScope describes which stores an actor may list requests for.
type readScope struct {
	all      bool
	storeIDs map[string]struct{}
}

func (s readScope) includes(storeID string) bool {
	if s.all {
		return true
	}
	_, ok := s.storeIDs[storeID]
	return ok
}

// scopeFor resolves the read scope of an actor against the current hierarchy.
// Admin and consulting see everything, stores see their own store, districts
// see their current member stores.
func scopeFor(view domain.RuleView, actor domain.Actor) readScope {
	switch actor.Role {
	case domain.RoleAdmin, domain.RoleConsulting:
		return readScope{all: true}
	case domain.RoleStore:
		ids := make(map[string]struct{}, 1)
		if actor.StoreID != nil {
			ids[*actor.StoreID] = struct{}{}
		}
		return readScope{storeIDs: ids}
	case domain.RoleDistrict:
		ids := make(map[string]struct{})
		if actor.DistrictID != nil {
			for _, st := range domain.StoresFor(view, *actor.DistrictID) {
				ids[st.ID] = struct{}{}
			}
		}
		return readScope{storeIDs: ids}
	default:
		return readScope{storeIDs: map[string]struct{}{}}
	}
}
