package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/sevahub/home-services/internal/model"
	"github.com/sevahub/home-services/internal/queue"
	"github.com/sevahub/home-services/internal/repository"
)

// finalize assembles the booking record and commits it in one
// transaction together with its side rows.  Wallet debits run inside
// the same transaction; everything after the commit is best-effort.
func (o *Orchestrator) finalize(ctx context.Context, a *admission, p *pricedRequest, out *assignmentOutcome, key string, now time.Time) (*model.Booking, bool, *AdmitError) {
	b := &model.Booking{
		UserID:           a.userID,
		WorkerID:         out.workerID,
		CategoryID:       p.categoryID,
		Address:          a.req.Address,
		SlotTime:         a.slot,
		Notes:            a.req.Notes,
		Addons:           a.req.Addons,
		Status:           out.status,
		AssignmentMode:   out.mode,
		AssignmentReason: out.reason,
		Price:            p.breakdown,
		PaymentMethod:    a.req.PaymentMethod,
		PaymentStatus:    "pending",

		PromoCode:          p.promoCode,
		PromoDiscount:      p.set.Promo,
		ReferralCode:       p.referralCode,
		ReferralDiscount:   p.set.Referral,
		MembershipDiscount: p.set.Membership,
	}
	if a.req.ServiceID != nil && *a.req.ServiceID != 0 {
		b.ServiceID = a.req.ServiceID
	}
	if a.manual {
		b.RequestedWorkerID = a.req.ManualWorkerID
		b.StrictWorker = a.strict
	}
	if p.membership != nil {
		b.MembershipPlan = p.membership.Plan
	}
	if key != "" {
		b.IdempotencyKey = &key
	}
	if a.req.PaymentMethod == PayWallet || a.req.PaymentMethod == PayOnline {
		b.PaymentStatus = "paid"
	}

	set := &repository.FinalizeSet{
		Booking: b,
		StatusLog: []model.BookingStatusLog{
			{Status: model.BookingStatusConfirmed, Actor: "system", Note: "Booking confirmed"},
		},
		PromoID:       p.promoID,
		OnlinePayment: a.req.PaymentMethod == PayOnline,
	}
	if out.workerID != nil {
		set.StatusLog = append(set.StatusLog, model.BookingStatusLog{
			Status: model.BookingStatusAssigned, Actor: "system", Note: out.reason,
		})
	}
	if p.membership != nil {
		set.MembershipID = p.membership.ID
	}
	if a.req.PaymentMethod == PayWallet {
		set.WalletDebit = b.Price.Total
	}

	if err := o.committer.Commit(ctx, set); err != nil {
		switch {
		case errors.Is(err, repository.ErrIdempotencyReplay):
			existing, rerr := o.recoverIdempotentRace(ctx, a.userID, key)
			if rerr != nil || existing == nil {
				return nil, false, o.internalErr(err)
			}
			return existing, true, nil
		case errors.Is(err, repository.ErrInsufficientFunds):
			return nil, false, errBusinessRule("wallet balance does not cover this booking")
		default:
			return nil, false, o.internalErr(err)
		}
	}

	o.afterCommit(ctx, b, p, now)
	return b, false, nil
}

// afterCommit runs the non-transactional side effects of a committed
// booking: the conversation anchor, the referral state transitions
// with the referrer's wallet reward, and the outbound queue publishes.
// Failures are logged; the booking stands regardless.
func (o *Orchestrator) afterCommit(ctx context.Context, b *model.Booking, p *pricedRequest, now time.Time) {
	if b.WorkerID != nil && o.convos != nil {
		conv, err := o.convos.GetOrCreate(ctx, b.ID, b.UserID, *b.WorkerID)
		if err != nil {
			log.Printf("booking %d: conversation create failed: %v", b.ID, err)
		} else if conv != nil {
			if err := o.bookings.SetConversation(ctx, b.ID, conv.ID); err != nil {
				log.Printf("booking %d: conversation link failed: %v", b.ID, err)
			} else {
				b.ConversationID = &conv.ID
			}
		}
	}

	if p.referrerID != 0 && p.set.Referral > 0 {
		o.settleReferral(ctx, b, p)
	}

	if o.events != nil {
		ev := queue.BookingConfirmedEvent{
			BookingID:        b.ID,
			UserID:           b.UserID,
			WorkerID:         b.WorkerID,
			Status:           b.Status,
			SlotTime:         b.SlotTime.Format(time.RFC3339),
			Total:            b.Price.Total,
			Currency:         b.Price.Currency,
			AssignmentReason: b.AssignmentReason,
			ConfirmedAt:      now.UTC().Format(time.RFC3339),
		}
		if err := o.events.PublishBookingConfirmed(ctx, ev); err != nil {
			log.Printf("booking %d: notification publish failed: %v", b.ID, err)
		}
		o.publishCRM(ctx, b)
	}
}

// settleReferral marks the referral applied and credits the referrer's
// reward.  The reward is only due once the booking is paid; cash
// bookings stay in discount_applied until payment completes.  The
// credit and the state transition are independent best-effort writes;
// a failed credit likewise leaves the referral in discount_applied for
// an operator to retry.
func (o *Orchestrator) settleReferral(ctx context.Context, b *model.Booking, p *pricedRequest) {
	if err := o.referrals.MarkApplied(ctx, p.referrerID, b.UserID, p.set.Referral); err != nil {
		log.Printf("booking %d: referral apply failed: %v", b.ID, err)
		return
	}
	if b.PaymentStatus != "paid" {
		return
	}
	if o.wallet == nil || o.cfg.ReferralReward <= 0 {
		return
	}
	ref := uuid.NewString()
	if err := o.wallet.Credit(ctx, p.referrerID, model.RoleUser, o.cfg.ReferralReward, "referral_reward", ref); err != nil {
		log.Printf("booking %d: referral reward credit failed: %v", b.ID, err)
		return
	}
	if err := o.referrals.MarkRewardCredited(ctx, b.UserID, o.cfg.ReferralReward); err != nil {
		log.Printf("booking %d: referral reward mark failed: %v", b.ID, err)
	}
}

// publishCRM emits the templated confirmation message for the
// requester.  Recipient contact details are resolved by the consumer
// when absent here.
func (o *Orchestrator) publishCRM(ctx context.Context, b *model.Booking) {
	ev := queue.CRMEvent{
		Template:    "booking_confirmed",
		RecipientID: b.UserID,
		Data: map[string]string{
			"booking_id": formatUint(b.ID),
			"slot_time":  b.SlotTime.Format(time.RFC3339),
			"status":     b.Status,
		},
	}
	if u, err := o.users.GetByID(ctx, b.UserID); err == nil && u != nil {
		ev.Email = u.Email
		ev.Name = u.Name
	}
	if err := o.events.PublishCRM(ctx, ev); err != nil {
		log.Printf("booking %d: crm publish failed: %v", b.ID, err)
	}
}
