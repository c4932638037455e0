package booking

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sevahub/home-services/internal/model"
)

// Payment methods accepted on admission.
const (
	PayWallet = "wallet"
	PayOnline = "online"
	PayCash   = "cash"
)

// AdmitRequest is the JSON payload of the admission endpoint.  The
// idempotency key may arrive in the body or in the Idempotency-Key
// header; the handler copies the header over the body field.
type AdmitRequest struct {
	ServiceID      *uint64       `json:"serviceId"`
	AssignmentMode string        `json:"assignmentMode"` // auto|manual, defaults to auto
	ManualWorkerID *uint64       `json:"manualWorkerId"`
	StrictWorker   *bool         `json:"strictWorker"` // defaults to true in manual mode
	Address        model.Address `json:"address"`
	SlotTime       string        `json:"slotTime"` // RFC3339
	Notes          string        `json:"notes"`
	Addons         []string      `json:"addons"`
	PaymentMethod  string        `json:"paymentMethod"` // wallet|online|cash
	PromoCode      string        `json:"promoCode"`
	ReferralCode   string        `json:"referralCode"`
	Images         []string      `json:"images"` // accepted, stored in notes metadata by upload flow (external)
	IdempotencyKey string        `json:"idempotencyKey"`
}

// PricingMode is the tagged variant distinguishing the two pricing
// paths: a catalog service with its fee schedule, or a manually
// selected worker pricing the job from their own rate card.
type PricingMode interface{ pricingMode() }

// CatalogPriced prices from the service catalog entry.
type CatalogPriced struct{ ServiceID uint64 }

// WorkerPriced prices from the named worker's own base price and
// extra-service line items; no catalog entry is involved.
type WorkerPriced struct{ WorkerID uint64 }

func (CatalogPriced) pricingMode() {}
func (WorkerPriced) pricingMode()  {}

// admission is the per-request pipeline state assembled during
// validation and threaded through the remaining stages.
type admission struct {
	userID uint64
	role   string
	req    *AdmitRequest

	slot   time.Time
	mode   PricingMode
	manual bool
	strict bool
}

// validate checks the structural rules of the request and resolves
// the tagged pricing mode.  It performs no I/O.
func (o *Orchestrator) validate(userID uint64, role string, req *AdmitRequest, now time.Time) (*admission, *AdmitError) {
	if role != model.RoleUser && role != model.RoleAdmin {
		return nil, &AdmitError{Status: 403, Code: CodeInvalidRequest, Message: "role not allowed to create bookings"}
	}

	a := &admission{userID: userID, role: role, req: req}

	mode := strings.ToLower(strings.TrimSpace(req.AssignmentMode))
	if mode == "" {
		if req.ManualWorkerID != nil {
			mode = model.AssignmentManual
		} else {
			mode = model.AssignmentAuto
		}
	}
	switch mode {
	case model.AssignmentManual:
		if req.ManualWorkerID == nil || *req.ManualWorkerID == 0 {
			return nil, errInvalid("manualWorkerId is required in manual assignment mode")
		}
		a.manual = true
		a.strict = true // strict is the default when a specific worker is requested
		if req.StrictWorker != nil {
			a.strict = *req.StrictWorker
		}
		if req.ServiceID != nil && *req.ServiceID != 0 {
			a.mode = CatalogPriced{ServiceID: *req.ServiceID}
		} else {
			a.mode = WorkerPriced{WorkerID: *req.ManualWorkerID}
		}
	case model.AssignmentAuto:
		if req.ServiceID == nil || *req.ServiceID == 0 {
			return nil, errInvalid("serviceId is required in auto assignment mode")
		}
		a.mode = CatalogPriced{ServiceID: *req.ServiceID}
	default:
		return nil, errInvalid("assignmentMode must be auto or manual")
	}

	if strings.TrimSpace(req.Address.Pincode) == "" && strings.TrimSpace(req.Address.City) == "" {
		return nil, errInvalid("address must carry a pincode or a city")
	}

	switch req.PaymentMethod {
	case PayWallet, PayOnline, PayCash:
	case "":
		return nil, errInvalid("paymentMethod is required")
	default:
		return nil, errInvalid("paymentMethod must be wallet, online or cash")
	}

	slot, aerr := o.parseSlot(req.SlotTime, now)
	if aerr != nil {
		return nil, aerr
	}
	a.slot = slot
	return a, nil
}

// cleanIdempotencyKey trims and length-caps a client key; an empty
// result disables idempotency handling for the request.  The cap backs
// off to a rune boundary so the stored key is always valid UTF-8.
func (o *Orchestrator) cleanIdempotencyKey(key string) string {
	key = strings.TrimSpace(key)
	if max := o.cfg.IdempotencyKeyMax; len(key) > max {
		for max > 0 && !utf8.RuneStart(key[max]) {
			max--
		}
		key = key[:max]
	}
	return key
}
