package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"retailcore/pkg/domain"
)

func TestTransactionCommitAndRollback(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	var created Ticket
	_, err := store.RunInTransaction(ctx, func(tx Transaction) error {
		var err error
		created, err = tx.CreateTicket(domain.Ticket{StoreID: "s1", Code: "T-001", Type: "delete", Status: domain.TicketStatusPending})
		return err
	})
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps set")
	}

	boom := errors.New("boom")
	_, err = store.RunInTransaction(ctx, func(tx Transaction) error {
		if _, err := tx.UpdateTicket(created.ID, func(tk *Ticket) error {
			tk.Status = domain.TicketStatusApproved
			return nil
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}

	got, ok := store.GetTicket(created.ID)
	if !ok {
		t.Fatal("ticket missing after rollback")
	}
	if got.Status != domain.TicketStatusPending {
		t.Fatalf("rollback must leave status pending, got %s", got.Status)
	}
}

func TestUpdateMissingReturnsNotFound(t *testing.T) {
	store := NewStore(nil)
	_, err := store.RunInTransaction(context.Background(), func(tx Transaction) error {
		_, err := tx.UpdateVoucher("missing", func(*Voucher) error { return nil })
		return err
	})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestClonesIsolateCallerMutations(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	var created Transfer
	_, err := store.RunInTransaction(ctx, func(tx Transaction) error {
		var err error
		created, err = tx.CreateTransfer(domain.Transfer{
			StoreID:   "s1",
			Reference: "TR-1",
			Items:     []domain.TransferItem{{SKU: "sku-1", Quantity: 2}},
			Status:    domain.TransferStatusPending,
		})
		return err
	})
	if err != nil {
		t.Fatalf("create transfer: %v", err)
	}

	created.Items[0].Quantity = 99
	stored, _ := store.GetTransfer(created.ID)
	if stored.Items[0].Quantity != 2 {
		t.Fatalf("caller mutation leaked into store: %d", stored.Items[0].Quantity)
	}
}

func TestBlockingRuleAbortsCommit(t *testing.T) {
	engine := domain.NewRulesEngine()
	engine.Register(blockEverything{})
	store := NewStore(engine)

	res, err := store.RunInTransaction(context.Background(), func(tx Transaction) error {
		_, err := tx.CreateStore(domain.Store{Name: "Downtown", ActorID: "a1"})
		return err
	})
	var rv domain.RuleViolationError
	if !errors.As(err, &rv) {
		t.Fatalf("expected RuleViolationError, got %v", err)
	}
	if !res.HasBlocking() {
		t.Fatal("expected blocking violation in result")
	}
	if len(store.ListStores()) != 0 {
		t.Fatal("blocked transaction must not commit")
	}
}

type blockEverything struct{}

func (blockEverything) Name() string { return "block_everything" }

func (blockEverything) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	if len(changes) == 0 {
		return domain.Result{}, nil
	}
	return domain.Result{Violations: []domain.Violation{{
		Rule:     "block_everything",
		Severity: domain.SeverityBlock,
		Message:  "nope",
	}}}, nil
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := NewStore(nil)
	store.SetNowFunc(func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) })
	ctx := context.Background()

	_, err := store.RunInTransaction(ctx, func(tx Transaction) error {
		actor, err := tx.CreateActor(domain.Actor{Email: "store1@example.com", Role: domain.RoleStore})
		if err != nil {
			return err
		}
		st, err := tx.CreateStore(domain.Store{Name: "Downtown", ActorID: actor.ID})
		if err != nil {
			return err
		}
		if _, err := tx.CreateVoucher(domain.Voucher{StoreID: st.ID, ReferenceNumber: "V-1", Amount: 25.50, Status: domain.VoucherStatusPending}); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	snapshot := store.ExportState()
	restored := NewStore(nil)
	restored.ImportState(snapshot)

	if len(restored.ListActors()) != 1 || len(restored.ListStores()) != 1 || len(restored.ListVouchers()) != 1 {
		t.Fatalf("restored counts wrong: %d actors, %d stores, %d vouchers",
			len(restored.ListActors()), len(restored.ListStores()), len(restored.ListVouchers()))
	}
}

func TestImportStateToleratesNilBuckets(t *testing.T) {
	store := NewStore(nil)
	store.ImportState(Snapshot{})
	if got := store.ListTickets(); len(got) != 0 {
		t.Fatalf("expected empty tickets, got %d", len(got))
	}
	_, err := store.RunInTransaction(context.Background(), func(tx Transaction) error {
		_, err := tx.CreateTicket(domain.Ticket{StoreID: "s1", Code: "T-1", Status: domain.TicketStatusPending})
		return err
	})
	if err != nil {
		t.Fatalf("create after import: %v", err)
	}
}

func TestDeleteTicket(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	var id string
	if _, err := store.RunInTransaction(ctx, func(tx Transaction) error {
		tk, err := tx.CreateTicket(domain.Ticket{StoreID: "s1", Code: "T-2", Status: domain.TicketStatusPending})
		id = tk.ID
		return err
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := store.RunInTransaction(ctx, func(tx Transaction) error {
		return tx.DeleteTicket(id)
	}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := store.GetTicket(id); ok {
		t.Fatal("ticket should be gone")
	}

	_, err := store.RunInTransaction(ctx, func(tx Transaction) error {
		return tx.DeleteTicket(id)
	})
	if !domain.IsNotFound(err) {
		t.Fatalf("second delete should be NotFound, got %v", err)
	}
}
