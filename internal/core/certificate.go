package core

import (
	"context"
	"time"

	"retailcore/pkg/domain"
)

// CertificateData carries the fields rendered on a voucher validation
// certificate. Only validated vouchers produce one.
type CertificateData struct {
	VoucherID       string    `json:"voucher_id"`
	ReferenceNumber string    `json:"reference_number"`
	Amount          float64   `json:"amount"`
	HolderName      string    `json:"holder_name"`
	HolderID        string    `json:"holder_id"`
	Type            string    `json:"type"`
	StoreName       string    `json:"store_name"`
	ValidatedBy     string    `json:"validated_by"`
	IssuedAt        time.Time `json:"issued_at"`
}

// VoucherCertificate assembles certificate data for a validated voucher
// within the actor's scope.
func (s *Service) VoucherCertificate(ctx context.Context, actor Actor, voucherID string) (CertificateData, error) {
	var data CertificateData
	err := s.run(ctx, "voucher_certificate", func(ctx context.Context) error {
		return s.store.View(ctx, func(view TransactionView) error {
			voucher, ok := view.FindVoucher(voucherID)
			if !ok {
				return domain.NotFoundError{Entity: domain.EntityVoucher, ID: voucherID}
			}
			if !scopeFor(view, actor).includes(voucher.StoreID) {
				return domain.ForbiddenError{Reason: "voucher is outside the actor's scope"}
			}
			if voucher.Status != domain.VoucherStatusValidated {
				return domain.InvalidTransitionError{
					Entity: domain.EntityVoucher,
					ID:     voucherID,
					From:   string(voucher.Status),
					To:     string(domain.VoucherStatusValidated),
				}
			}
			store, _ := view.FindStore(voucher.StoreID)
			validatedBy := ""
			if voucher.ValidatedBy != nil {
				validatedBy = *voucher.ValidatedBy
				for _, a := range view.ListActors() {
					if a.Email == validatedBy && a.DisplayName != "" {
						validatedBy = a.DisplayName
						break
					}
				}
			}
			data = CertificateData{
				VoucherID:       voucher.ID,
				ReferenceNumber: voucher.ReferenceNumber,
				Amount:          voucher.Amount,
				HolderName:      voucher.HolderName,
				HolderID:        voucher.HolderID,
				Type:            voucher.Type,
				StoreName:       store.Name,
				ValidatedBy:     validatedBy,
				IssuedAt:        s.nowFn(),
			}
			return nil
		})
	})
	return data, err
}
