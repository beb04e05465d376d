package core

import (
	"context"
	"time"

	"retailcore/pkg/domain"
)

// KindStatistics aggregates one request kind over a reporting window.
type KindStatistics struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}

// Statistics summarizes request volume per kind between two days inclusive.
// From and To are the normalized boundary days, both counted in full.
type Statistics struct {
	From       time.Time      `json:"from"`
	To         time.Time      `json:"to"`
	Tickets    KindStatistics `json:"tickets"`
	Transfers  KindStatistics `json:"transfers"`
	CegidUsers KindStatistics `json:"cegid_users"`
	Vouchers   KindStatistics `json:"vouchers"`
}

// RequestStatistics counts the requests created within [from, to], at day
// granularity with both endpoints inclusive, restricted to the actor's scope.
func (s *Service) RequestStatistics(ctx context.Context, actor Actor, from, to time.Time) (Statistics, error) {
	start := startOfDay(from)
	endDay := startOfDay(to)
	if endDay.Before(start) {
		return Statistics{}, domain.ValidationError{Field: "to", Reason: "must not precede from"}
	}
	end := endDay.Add(24 * time.Hour)
	stats := Statistics{
		From:       start,
		To:         endDay,
		Tickets:    newKindStatistics(),
		Transfers:  newKindStatistics(),
		CegidUsers: newKindStatistics(),
		Vouchers:   newKindStatistics(),
	}
	err := s.run(ctx, "request_statistics", func(ctx context.Context) error {
		return s.store.View(ctx, func(view TransactionView) error {
			scope := scopeFor(view, actor)
			inWindow := func(createdAt time.Time) bool {
				return !createdAt.Before(start) && createdAt.Before(end)
			}
			for _, t := range view.ListTickets() {
				if scope.includes(t.StoreID) && inWindow(t.CreatedAt) {
					stats.Tickets.add(string(t.Status))
				}
			}
			for _, t := range view.ListTransfers() {
				if scope.includes(t.StoreID) && inWindow(t.CreatedAt) {
					stats.Transfers.add(string(t.Status))
				}
			}
			for _, u := range view.ListCegidUsers() {
				if scope.includes(u.StoreID) && inWindow(u.CreatedAt) {
					stats.CegidUsers.add(string(u.Status))
				}
			}
			for _, v := range view.ListVouchers() {
				if scope.includes(v.StoreID) && inWindow(v.CreatedAt) {
					stats.Vouchers.add(string(v.Status))
				}
			}
			return nil
		})
	})
	return stats, err
}

func newKindStatistics() KindStatistics {
	return KindStatistics{ByStatus: make(map[string]int)}
}

func (k *KindStatistics) add(status string) {
	k.Total++
	k.ByStatus[status]++
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
