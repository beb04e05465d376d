package domain

// TransitionEdge is a single allowed status change on a request kind,
// together with the role that may trigger it. OwnerOnly edges additionally
// require the acting store actor to own the request's store; district edges
// always require the store to be currently linked to the actor's district.
type TransitionEdge struct {
	From      string
	To        string
	Role      Role
	OwnerOnly bool
}

// TransitionTable is the declarative state machine for one request kind.
type TransitionTable struct {
	Entity  EntityType
	Label   string
	Initial string

	edges    []TransitionEdge
	valid    map[string]struct{}
	terminal map[string]struct{}
}

func newTransitionTable(entity EntityType, label, initial string, statuses []string, edges []TransitionEdge) TransitionTable {
	valid := make(map[string]struct{}, len(statuses))
	for _, s := range statuses {
		valid[s] = struct{}{}
	}
	outgoing := make(map[string]struct{}, len(edges))
	for _, e := range edges {
		outgoing[e.From] = struct{}{}
	}
	terminal := make(map[string]struct{})
	for _, s := range statuses {
		if _, ok := outgoing[s]; !ok {
			terminal[s] = struct{}{}
		}
	}
	return TransitionTable{
		Entity:   entity,
		Label:    label,
		Initial:  initial,
		edges:    edges,
		valid:    valid,
		terminal: terminal,
	}
}

// Valid reports whether s is a known status for this kind.
func (t TransitionTable) Valid(s string) bool {
	_, ok := t.valid[s]
	return ok
}

// Terminal reports whether s has no outgoing edges.
func (t TransitionTable) Terminal(s string) bool {
	_, ok := t.terminal[s]
	return ok
}

// HasEdge reports whether any role may move from → to.
func (t TransitionTable) HasEdge(from, to string) bool {
	for _, e := range t.edges {
		if e.From == from && e.To == to {
			return true
		}
	}
	return false
}

// Edges returns every edge from → to. Multiple edges exist when more than one
// role may trigger the same change (e.g. a store cancelling its own pending
// transfer vs. a district rejecting it).
func (t TransitionTable) Edges(from, to string) []TransitionEdge {
	var out []TransitionEdge
	for _, e := range t.edges {
		if e.From == from && e.To == to {
			out = append(out, e)
		}
	}
	return out
}

var transitionTables = map[EntityType]TransitionTable{
	EntityTicket: newTransitionTable(EntityTicket, "ticket", string(TicketStatusPending),
		[]string{
			string(TicketStatusPending),
			string(TicketStatusApproved),
			string(TicketStatusRejected),
			string(TicketStatusCancelled),
			string(TicketStatusProcessed),
		},
		[]TransitionEdge{
			{From: string(TicketStatusPending), To: string(TicketStatusApproved), Role: RoleDistrict},
			{From: string(TicketStatusPending), To: string(TicketStatusRejected), Role: RoleDistrict},
			{From: string(TicketStatusPending), To: string(TicketStatusCancelled), Role: RoleStore, OwnerOnly: true},
			{From: string(TicketStatusApproved), To: string(TicketStatusProcessed), Role: RoleAdmin},
		}),
	EntityTransfer: newTransitionTable(EntityTransfer, "transfer", string(TransferStatusPending),
		[]string{
			string(TransferStatusPending),
			string(TransferStatusCompleted),
			string(TransferStatusCancelled),
			string(TransferStatusProcessed),
		},
		[]TransitionEdge{
			{From: string(TransferStatusPending), To: string(TransferStatusCompleted), Role: RoleDistrict},
			{From: string(TransferStatusPending), To: string(TransferStatusCancelled), Role: RoleDistrict},
			{From: string(TransferStatusPending), To: string(TransferStatusCancelled), Role: RoleStore, OwnerOnly: true},
			{From: string(TransferStatusCompleted), To: string(TransferStatusProcessed), Role: RoleAdmin},
		}),
	EntityCegidUser: newTransitionTable(EntityCegidUser, "cegid user", string(CegidUserStatusPending),
		[]string{
			string(CegidUserStatusPending),
			string(CegidUserStatusCompleted),
			string(CegidUserStatusRejected),
			string(CegidUserStatusCancelled),
			string(CegidUserStatusProcessed),
		},
		[]TransitionEdge{
			{From: string(CegidUserStatusPending), To: string(CegidUserStatusCompleted), Role: RoleDistrict},
			{From: string(CegidUserStatusPending), To: string(CegidUserStatusRejected), Role: RoleDistrict},
			{From: string(CegidUserStatusPending), To: string(CegidUserStatusCancelled), Role: RoleStore, OwnerOnly: true},
			{From: string(CegidUserStatusCompleted), To: string(CegidUserStatusProcessed), Role: RoleAdmin},
		}),
	EntityVoucher: newTransitionTable(EntityVoucher, "voucher", string(VoucherStatusPending),
		[]string{
			string(VoucherStatusPending),
			string(VoucherStatusValidated),
			string(VoucherStatusNotFound),
			string(VoucherStatusRejected),
		},
		[]TransitionEdge{
			{From: string(VoucherStatusPending), To: string(VoucherStatusValidated), Role: RoleAdmin},
			{From: string(VoucherStatusPending), To: string(VoucherStatusNotFound), Role: RoleAdmin},
			{From: string(VoucherStatusPending), To: string(VoucherStatusRejected), Role: RoleAdmin},
		}),
}

// TableFor returns the transition table governing the given request kind.
func TableFor(entity EntityType) (TransitionTable, bool) {
	t, ok := transitionTables[entity]
	return t, ok
}

// RequestKinds lists the entity types governed by a transition table.
func RequestKinds() []EntityType {
	return []EntityType{EntityTicket, EntityTransfer, EntityCegidUser, EntityVoucher}
}
