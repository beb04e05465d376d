package domain

import "testing"

func TestTableForCoversEveryRequestKind(t *testing.T) {
	for _, kind := range RequestKinds() {
		table, ok := TableFor(kind)
		if !ok {
			t.Fatalf("no transition table for %s", kind)
		}
		if table.Entity != kind {
			t.Fatalf("table entity %s, want %s", table.Entity, kind)
		}
		if !table.Valid(table.Initial) {
			t.Fatalf("%s initial status %q not in valid set", kind, table.Initial)
		}
		if table.Terminal(table.Initial) {
			t.Fatalf("%s initial status %q must not be terminal", kind, table.Initial)
		}
	}
	if _, ok := TableFor(EntityStore); ok {
		t.Fatal("stores must not have a transition table")
	}
}

func TestTicketEdges(t *testing.T) {
	table, _ := TableFor(EntityTicket)

	cases := []struct {
		from, to string
		want     bool
	}{
		{string(TicketStatusPending), string(TicketStatusApproved), true},
		{string(TicketStatusPending), string(TicketStatusRejected), true},
		{string(TicketStatusPending), string(TicketStatusCancelled), true},
		{string(TicketStatusApproved), string(TicketStatusProcessed), true},
		{string(TicketStatusPending), string(TicketStatusProcessed), false},
		{string(TicketStatusApproved), string(TicketStatusRejected), false},
		{string(TicketStatusRejected), string(TicketStatusApproved), false},
		{string(TicketStatusProcessed), string(TicketStatusApproved), false},
	}
	for _, tc := range cases {
		if got := table.HasEdge(tc.from, tc.to); got != tc.want {
			t.Errorf("ticket %s -> %s: HasEdge = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	cases := []struct {
		kind     EntityType
		terminal []string
		open     []string
	}{
		{
			kind:     EntityTicket,
			terminal: []string{string(TicketStatusRejected), string(TicketStatusCancelled), string(TicketStatusProcessed)},
			open:     []string{string(TicketStatusPending), string(TicketStatusApproved)},
		},
		{
			kind:     EntityTransfer,
			terminal: []string{string(TransferStatusCancelled), string(TransferStatusProcessed)},
			open:     []string{string(TransferStatusPending), string(TransferStatusCompleted)},
		},
		{
			kind:     EntityCegidUser,
			terminal: []string{string(CegidUserStatusRejected), string(CegidUserStatusCancelled), string(CegidUserStatusProcessed)},
			open:     []string{string(CegidUserStatusPending), string(CegidUserStatusCompleted)},
		},
		{
			kind:     EntityVoucher,
			terminal: []string{string(VoucherStatusValidated), string(VoucherStatusNotFound), string(VoucherStatusRejected)},
			open:     []string{string(VoucherStatusPending)},
		},
	}
	for _, tc := range cases {
		table, _ := TableFor(tc.kind)
		for _, s := range tc.terminal {
			if !table.Terminal(s) {
				t.Errorf("%s status %s should be terminal", tc.kind, s)
			}
		}
		for _, s := range tc.open {
			if table.Terminal(s) {
				t.Errorf("%s status %s should not be terminal", tc.kind, s)
			}
		}
	}
}

func TestTransferCancelHasStoreAndDistrictEdges(t *testing.T) {
	table, _ := TableFor(EntityTransfer)
	edges := table.Edges(string(TransferStatusPending), string(TransferStatusCancelled))
	if len(edges) != 2 {
		t.Fatalf("expected 2 cancel edges, got %d", len(edges))
	}
	roles := map[Role]bool{}
	for _, e := range edges {
		roles[e.Role] = true
		if e.Role == RoleStore && !e.OwnerOnly {
			t.Error("store cancel edge must be ownership-gated")
		}
	}
	if !roles[RoleStore] || !roles[RoleDistrict] {
		t.Fatalf("cancel edges must cover store and district, got %v", roles)
	}
}

func TestVoucherIsAdminDecidedAndSingleStep(t *testing.T) {
	table, _ := TableFor(EntityVoucher)
	for _, to := range []string{string(VoucherStatusValidated), string(VoucherStatusNotFound), string(VoucherStatusRejected)} {
		edges := table.Edges(string(VoucherStatusPending), to)
		if len(edges) != 1 {
			t.Fatalf("voucher pending -> %s: expected 1 edge, got %d", to, len(edges))
		}
		if edges[0].Role != RoleAdmin {
			t.Errorf("voucher pending -> %s: role %s, want admin", to, edges[0].Role)
		}
		if !table.Terminal(to) {
			t.Errorf("voucher status %s must be terminal", to)
		}
	}
}
