package core

import (
	"context"
	"errors"
	"testing"

	"retailcore/internal/infra/persistence/memory"
	"retailcore/pkg/domain"
)

func violationRules(err error) []string {
	var rve domain.RuleViolationError
	if !errors.As(err, &rve) {
		return nil
	}
	var names []string
	for _, v := range rve.Result.Violations {
		names = append(names, v.Rule)
	}
	return names
}

func TestLifecycleRuleBlocksNonInitialCreate(t *testing.T) {
	store := memory.NewStore(NewDefaultRulesEngine())
	_, err := store.RunInTransaction(context.Background(), func(tx Transaction) error {
		_, txErr := tx.CreateTicket(domain.Ticket{StoreID: "s1", Code: "T", Status: domain.TicketStatusApproved})
		return txErr
	})
	if rules := violationRules(err); len(rules) != 1 || rules[0] != "lifecycle_transition" {
		t.Fatalf("expected lifecycle violation, got %v (%v)", rules, err)
	}
}

func TestLifecycleRuleBlocksUnknownStatus(t *testing.T) {
	store := memory.NewStore(NewDefaultRulesEngine())
	_, err := store.RunInTransaction(context.Background(), func(tx Transaction) error {
		_, txErr := tx.CreateVoucher(domain.Voucher{StoreID: "s1", ReferenceNumber: "V", Status: "maybe"})
		return txErr
	})
	if rules := violationRules(err); len(rules) != 1 || rules[0] != "lifecycle_transition" {
		t.Fatalf("expected lifecycle violation, got %v (%v)", rules, err)
	}
}

func TestLifecycleRuleBlocksMissingEdgeAndTerminalExit(t *testing.T) {
	store := memory.NewStore(NewDefaultRulesEngine())
	ctx := context.Background()

	var transfer Transfer
	_, err := store.RunInTransaction(ctx, func(tx Transaction) error {
		var txErr error
		transfer, txErr = tx.CreateTransfer(domain.Transfer{StoreID: "s1", Reference: "TR", Status: domain.TransferStatusPending})
		return txErr
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// pending -> validated_and_processed skips the review step.
	_, err = store.RunInTransaction(ctx, func(tx Transaction) error {
		_, txErr := tx.UpdateTransfer(transfer.ID, func(tr *Transfer) error {
			tr.Status = domain.TransferStatusProcessed
			return nil
		})
		return txErr
	})
	if rules := violationRules(err); len(rules) != 1 {
		t.Fatalf("expected blocked edge, got %v (%v)", rules, err)
	}

	_, err = store.RunInTransaction(ctx, func(tx Transaction) error {
		_, txErr := tx.UpdateTransfer(transfer.ID, func(tr *Transfer) error {
			tr.Status = domain.TransferStatusCancelled
			return nil
		})
		return txErr
	})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}

	_, err = store.RunInTransaction(ctx, func(tx Transaction) error {
		_, txErr := tx.UpdateTransfer(transfer.ID, func(tr *Transfer) error {
			tr.Status = domain.TransferStatusPending
			return nil
		})
		return txErr
	})
	if rules := violationRules(err); len(rules) != 1 {
		t.Fatalf("expected terminal exit blocked, got %v (%v)", rules, err)
	}
}

func TestHierarchySymmetryRuleBlocksOneSidedLink(t *testing.T) {
	store := memory.NewStore(NewDefaultRulesEngine())
	ctx := context.Background()

	_, err := store.RunInTransaction(ctx, func(tx Transaction) error {
		if _, txErr := tx.CreateStore(domain.Store{Base: domain.Base{ID: "s1"}, Name: "One", DistrictIDs: []string{"d1"}}); txErr != nil {
			return txErr
		}
		_, txErr := tx.CreateDistrict(domain.District{Base: domain.Base{ID: "d1"}, Name: "D-One"})
		return txErr
	})
	if rules := violationRules(err); len(rules) != 1 || rules[0] != "hierarchy_symmetry" {
		t.Fatalf("expected symmetry violation, got %v (%v)", rules, err)
	}
}

func TestHierarchySymmetryRuleBlocksDanglingReference(t *testing.T) {
	store := memory.NewStore(NewDefaultRulesEngine())
	_, err := store.RunInTransaction(context.Background(), func(tx Transaction) error {
		_, txErr := tx.CreateDistrict(domain.District{Base: domain.Base{ID: "d1"}, Name: "D-One", StoreIDs: []string{"ghost"}})
		return txErr
	})
	if rules := violationRules(err); len(rules) != 1 || rules[0] != "hierarchy_symmetry" {
		t.Fatalf("expected dangling reference violation, got %v (%v)", rules, err)
	}
}

func TestHierarchySymmetryRuleAllowsMirroredLink(t *testing.T) {
	store := memory.NewStore(NewDefaultRulesEngine())
	_, err := store.RunInTransaction(context.Background(), func(tx Transaction) error {
		if _, txErr := tx.CreateStore(domain.Store{Base: domain.Base{ID: "s1"}, Name: "One", DistrictIDs: []string{"d1"}}); txErr != nil {
			return txErr
		}
		_, txErr := tx.CreateDistrict(domain.District{Base: domain.Base{ID: "d1"}, Name: "D-One", StoreIDs: []string{"s1"}})
		return txErr
	})
	if err != nil {
		t.Fatalf("mirrored link must commit: %v", err)
	}
}
