package core

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"retailcore/internal/blob"
	"retailcore/pkg/domain"

	"github.com/google/uuid"
)

// WithBlobStore installs the attachment backend. Without it, attachment
// operations fail with blob.ErrUnsupported.
func WithBlobStore(store blob.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.blobs = store
		}
	}
}

// AddTicketAttachment stores a supporting document for a ticket and records
// its key on the record. Permitted for the owning store while the ticket is
// open, and for reviewers.
func (s *Service) AddTicketAttachment(ctx context.Context, actor Actor, ticketID, filename string, r io.Reader) (string, error) {
	var key string
	err := s.run(ctx, "add_ticket_attachment", func(ctx context.Context) error {
		if s.blobs == nil {
			return blob.ErrUnsupported
		}
		var storeID string
		if err := s.store.View(ctx, func(view TransactionView) error {
			t, ok := view.FindTicket(ticketID)
			if !ok {
				return domain.NotFoundError{Entity: domain.EntityTicket, ID: ticketID}
			}
			storeID = t.StoreID
			return attachmentAllowed(view, actor, storeID)
		}); err != nil {
			return err
		}
		key = attachmentKey("tickets", ticketID, filename)
		if _, err := s.blobs.Put(ctx, key, r, blob.PutOptions{Metadata: map[string]string{"filename": filename}}); err != nil {
			return err
		}
		_, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
			_, txErr := tx.UpdateTicket(ticketID, func(t *Ticket) error {
				t.AttachmentKeys = append(t.AttachmentKeys, key)
				return nil
			})
			return txErr
		})
		if err != nil {
			_, _ = s.blobs.Delete(ctx, key)
		}
		return err
	})
	return key, err
}

// AddVoucherAttachment stores a scan or photo supporting a voucher request.
func (s *Service) AddVoucherAttachment(ctx context.Context, actor Actor, voucherID, filename string, r io.Reader) (string, error) {
	var key string
	err := s.run(ctx, "add_voucher_attachment", func(ctx context.Context) error {
		if s.blobs == nil {
			return blob.ErrUnsupported
		}
		var storeID string
		if err := s.store.View(ctx, func(view TransactionView) error {
			v, ok := view.FindVoucher(voucherID)
			if !ok {
				return domain.NotFoundError{Entity: domain.EntityVoucher, ID: voucherID}
			}
			storeID = v.StoreID
			return attachmentAllowed(view, actor, storeID)
		}); err != nil {
			return err
		}
		key = attachmentKey("vouchers", voucherID, filename)
		if _, err := s.blobs.Put(ctx, key, r, blob.PutOptions{Metadata: map[string]string{"filename": filename}}); err != nil {
			return err
		}
		_, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
			_, txErr := tx.UpdateVoucher(voucherID, func(v *Voucher) error {
				v.AttachmentKeys = append(v.AttachmentKeys, key)
				return nil
			})
			return txErr
		})
		if err != nil {
			_, _ = s.blobs.Delete(ctx, key)
		}
		return err
	})
	return key, err
}

// OpenAttachment streams a stored attachment if the actor may see the owning
// request's store.
func (s *Service) OpenAttachment(ctx context.Context, actor Actor, key string) (blob.Info, io.ReadCloser, error) {
	if s.blobs == nil {
		return blob.Info{}, nil, blob.ErrUnsupported
	}
	storeID, err := s.attachmentStoreID(ctx, key)
	if err != nil {
		return blob.Info{}, nil, err
	}
	if err := s.store.View(ctx, func(view TransactionView) error {
		if !scopeFor(view, actor).includes(storeID) {
			return domain.ForbiddenError{Reason: "attachment is outside the actor's scope"}
		}
		return nil
	}); err != nil {
		return blob.Info{}, nil, err
	}
	return s.blobs.Get(ctx, key)
}

// attachmentStoreID resolves the store owning the request an attachment key
// belongs to. Keys have the form <kind>/<request id>/<uuid><ext>.
func (s *Service) attachmentStoreID(ctx context.Context, key string) (string, error) {
	parts := strings.SplitN(key, "/", 3)
	if len(parts) != 3 {
		return "", domain.ValidationError{Field: "key", Reason: "malformed attachment key"}
	}
	kind, id := parts[0], parts[1]
	var storeID string
	err := s.store.View(ctx, func(view TransactionView) error {
		switch kind {
		case "tickets":
			t, ok := view.FindTicket(id)
			if !ok {
				return domain.NotFoundError{Entity: domain.EntityTicket, ID: id}
			}
			storeID = t.StoreID
		case "vouchers":
			v, ok := view.FindVoucher(id)
			if !ok {
				return domain.NotFoundError{Entity: domain.EntityVoucher, ID: id}
			}
			storeID = v.StoreID
		default:
			return domain.ValidationError{Field: "key", Reason: fmt.Sprintf("unknown attachment kind %s", kind)}
		}
		return nil
	})
	return storeID, err
}

func attachmentAllowed(view domain.RuleView, actor Actor, storeID string) error {
	if actor.Role == domain.RoleStore {
		if actor.StoreID != nil && *actor.StoreID == storeID {
			return nil
		}
		return domain.ForbiddenError{Reason: "attachments may only be added to the actor's own requests"}
	}
	return authorizeReview(view, actor, storeID)
}

func attachmentKey(kind, requestID, filename string) string {
	return fmt.Sprintf("%s/%s/%s%s", kind, requestID, uuid.NewString(), strings.ToLower(path.Ext(filename)))
}
