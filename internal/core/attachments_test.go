package core

import (
	"context"
	"io"
	"strings"
	"testing"

	"retailcore/internal/blob"
	"retailcore/pkg/domain"
)

func newAttachmentFixture(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	WithBlobStore(blob.NewMemory())(f.svc)
	return f
}

func TestAddTicketAttachmentRoundTrip(t *testing.T) {
	f := newAttachmentFixture(t)
	ctx := context.Background()
	ticket := f.submitTicket(t)

	key, err := f.svc.AddTicketAttachment(ctx, f.owner, ticket.ID, "receipt.PDF", strings.NewReader("scan-bytes"))
	if err != nil {
		t.Fatalf("add attachment: %v", err)
	}
	if !strings.HasPrefix(key, "tickets/"+ticket.ID+"/") || !strings.HasSuffix(key, ".pdf") {
		t.Fatalf("unexpected key %s", key)
	}

	got, err := f.svc.GetTicket(ctx, f.owner, ticket.ID)
	if err != nil {
		t.Fatalf("get ticket: %v", err)
	}
	if len(got.AttachmentKeys) != 1 || got.AttachmentKeys[0] != key {
		t.Fatalf("attachment key not recorded: %+v", got.AttachmentKeys)
	}

	info, rc, err := f.svc.OpenAttachment(ctx, f.reviewer, key)
	if err != nil {
		t.Fatalf("open attachment: %v", err)
	}
	defer rc.Close()
	body, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read attachment: %v", err)
	}
	if string(body) != "scan-bytes" {
		t.Fatalf("unexpected body %q", body)
	}
	if info.Metadata["filename"] != "receipt.PDF" {
		t.Fatalf("unexpected metadata %+v", info.Metadata)
	}

	if _, _, err := f.svc.OpenAttachment(ctx, f.otherOwner, key); !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden outside scope, got %v", err)
	}
}

func TestAddAttachmentAuthorization(t *testing.T) {
	f := newAttachmentFixture(t)
	ctx := context.Background()
	ticket := f.submitTicket(t)

	if _, err := f.svc.AddTicketAttachment(ctx, f.otherOwner, ticket.ID, "a.png", strings.NewReader("x")); !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden for foreign owner, got %v", err)
	}
	if _, err := f.svc.AddTicketAttachment(ctx, f.consultant, ticket.ID, "a.png", strings.NewReader("x")); !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden for consulting role, got %v", err)
	}
	if _, err := f.svc.AddTicketAttachment(ctx, f.owner, "missing", "a.png", strings.NewReader("x")); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddVoucherAttachment(t *testing.T) {
	f := newAttachmentFixture(t)
	ctx := context.Background()

	voucher, _, err := f.svc.SubmitVoucher(ctx, f.owner, Voucher{StoreID: f.store.ID, ReferenceNumber: "V-1", Amount: 5})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	key, err := f.svc.AddVoucherAttachment(ctx, f.reviewer, voucher.ID, "photo.jpg", strings.NewReader("img"))
	if err != nil {
		t.Fatalf("add attachment: %v", err)
	}
	if !strings.HasPrefix(key, "vouchers/"+voucher.ID+"/") {
		t.Fatalf("unexpected key %s", key)
	}
}

func TestAttachmentsRequireBlobStore(t *testing.T) {
	f := newFixture(t)
	ticket := f.submitTicket(t)
	f.svc.blobs = nil
	if _, err := f.svc.AddTicketAttachment(context.Background(), f.owner, ticket.ID, "a.png", strings.NewReader("x")); err != blob.ErrUnsupported {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestOpenAttachmentRejectsMalformedKey(t *testing.T) {
	f := newAttachmentFixture(t)
	if _, _, err := f.svc.OpenAttachment(context.Background(), f.admin, "garbage"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, _, err := f.svc.OpenAttachment(context.Background(), f.admin, "plans/x/y.png"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for unknown kind, got %v", err)
	}
}
