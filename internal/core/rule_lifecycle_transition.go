package core

import (
	"context"
	"fmt"

	"retailcore/pkg/domain"
)

// LifecycleTransitionRule blocks commits that violate a request kind's
// transition table: unknown statuses, edges that do not exist, and any
// attempt to leave a terminal status.
func LifecycleTransitionRule() domain.Rule {
	return lifecycleTransitionRule{}
}

type lifecycleTransitionRule struct{}

func (lifecycleTransitionRule) Name() string { return "lifecycle_transition" }

type statusExtractor func(payload any) (id string, status string, ok bool)

var statusExtractors = map[domain.EntityType]statusExtractor{
	domain.EntityTicket: func(payload any) (string, string, bool) {
		t, ok := payload.(domain.Ticket)
		if !ok {
			return "", "", false
		}
		return t.ID, string(t.Status), true
	},
	domain.EntityTransfer: func(payload any) (string, string, bool) {
		t, ok := payload.(domain.Transfer)
		if !ok {
			return "", "", false
		}
		return t.ID, string(t.Status), true
	},
	domain.EntityCegidUser: func(payload any) (string, string, bool) {
		u, ok := payload.(domain.CegidUser)
		if !ok {
			return "", "", false
		}
		return u.ID, string(u.Status), true
	},
	domain.EntityVoucher: func(payload any) (string, string, bool) {
		v, ok := payload.(domain.Voucher)
		if !ok {
			return "", "", false
		}
		return v.ID, string(v.Status), true
	},
}

func (lifecycleTransitionRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		table, ok := domain.TableFor(change.Entity)
		if !ok {
			continue
		}
		extract := statusExtractors[change.Entity]

		afterID, afterStatus, hasAfter := extract(change.After)
		if hasAfter && !table.Valid(afterStatus) {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "lifecycle_transition",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("%s %s is set to invalid status %s", table.Label, afterID, afterStatus),
				Entity:   change.Entity,
				EntityID: afterID,
			})
			continue
		}
		if change.Action == domain.ActionCreate && hasAfter && afterStatus != table.Initial {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "lifecycle_transition",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("%s %s must start in %s, not %s", table.Label, afterID, table.Initial, afterStatus),
				Entity:   change.Entity,
				EntityID: afterID,
			})
			continue
		}

		beforeID, beforeStatus, hasBefore := extract(change.Before)
		if !hasBefore || !hasAfter || afterStatus == beforeStatus {
			continue
		}
		if table.Terminal(beforeStatus) {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "lifecycle_transition",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("cannot move %s %s from terminal status %s to %s", table.Label, beforeID, beforeStatus, afterStatus),
				Entity:   change.Entity,
				EntityID: afterID,
			})
			continue
		}
		if !table.HasEdge(beforeStatus, afterStatus) {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "lifecycle_transition",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("%s %s has no transition %s -> %s", table.Label, beforeID, beforeStatus, afterStatus),
				Entity:   change.Entity,
				EntityID: afterID,
			})
		}
	}
	return res, nil
}
