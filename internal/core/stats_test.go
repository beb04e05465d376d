package core

import (
	"context"
	"testing"
	"time"

	"retailcore/pkg/domain"
)

func TestRequestStatisticsWindowInclusive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	day := func(d int, hour int) time.Time {
		return time.Date(2026, 4, d, hour, 0, 0, 0, time.UTC)
	}
	var now time.Time
	f.mem.SetNowFunc(func() time.Time { return now })

	// One ticket per day across the 1st..4th; the window covers the 2nd and
	// 3rd with both endpoints inclusive regardless of time of day.
	for d := 1; d <= 4; d++ {
		now = day(d, 23)
		if _, _, err := f.svc.SubmitTicket(ctx, f.owner, Ticket{StoreID: f.store.ID, Code: "T"}); err != nil {
			t.Fatalf("submit day %d: %v", d, err)
		}
	}
	now = day(2, 9)
	if _, _, err := f.svc.SubmitVoucher(ctx, f.owner, Voucher{StoreID: f.store.ID, ReferenceNumber: "V-1", Amount: 10}); err != nil {
		t.Fatalf("submit voucher: %v", err)
	}

	stats, err := f.svc.RequestStatistics(ctx, f.admin, day(2, 15), day(3, 1))
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if !stats.From.Equal(day(2, 0)) || !stats.To.Equal(day(3, 0)) {
		t.Fatalf("expected normalized boundary days, got %v..%v", stats.From, stats.To)
	}
	if stats.Tickets.Total != 2 {
		t.Fatalf("expected 2 tickets in window, got %d", stats.Tickets.Total)
	}
	if stats.Tickets.ByStatus["pending"] != 2 {
		t.Fatalf("unexpected breakdown %+v", stats.Tickets.ByStatus)
	}
	if stats.Vouchers.Total != 1 {
		t.Fatalf("expected 1 voucher, got %d", stats.Vouchers.Total)
	}
	if stats.Transfers.Total != 0 || stats.CegidUsers.Total != 0 {
		t.Fatalf("expected empty kinds, got %+v", stats)
	}
}

func TestRequestStatisticsScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, _, err := f.svc.SubmitTicket(ctx, f.owner, Ticket{StoreID: f.store.ID, Code: "T-1"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, _, err := f.svc.SubmitTicket(ctx, f.otherOwner, Ticket{StoreID: f.otherStore.ID, Code: "T-2"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	today := time.Now().UTC()
	mine, err := f.svc.RequestStatistics(ctx, f.owner, today, today)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if mine.Tickets.Total != 1 {
		t.Fatalf("store scope must exclude foreign requests, got %d", mine.Tickets.Total)
	}

	all, err := f.svc.RequestStatistics(ctx, f.admin, today, today)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if all.Tickets.Total != 2 {
		t.Fatalf("admin scope must include everything, got %d", all.Tickets.Total)
	}
}

func TestRequestStatisticsRejectsInvertedWindow(t *testing.T) {
	f := newFixture(t)
	from := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	_, err := f.svc.RequestStatistics(context.Background(), f.admin, from, from.AddDate(0, 0, -2))
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
