package model

import "time"

// Promo discount types.
const (
	DiscountPercent = "percent"
	DiscountFlat    = "flat"
)

// PromoCode is a marketing discount read and incremented by the
// admission pipeline.  Category and service allow-lists are optional;
// an empty list means the code applies everywhere.  MaxDiscount caps
// percent discounts and is ignored when zero.
type PromoCode struct {
	ID             uint64     // promo_codes.id
	Code           string     // promo_codes.code (unique, stored upper-case)
	IsActive       bool       // promo_codes.is_active
	ValidFrom      *time.Time // promo_codes.valid_from (nullable)
	ValidTo        *time.Time // promo_codes.valid_to (nullable)
	MinOrderAmount int64      // promo_codes.min_order_amount
	MaxUses        int        // promo_codes.max_uses (0 = unlimited)
	MaxUsesPerUser int        // promo_codes.max_uses_per_user (0 = unlimited)
	UsedCount      int        // promo_codes.used_count
	Categories     []uint64   // promo_codes.categories (JSON allow-list)
	Services       []uint64   // promo_codes.services (JSON allow-list)
	DiscountType   string     // promo_codes.discount_type (percent|flat)
	DiscountValue  int64      // promo_codes.discount_value (percent points or flat amount)
	MaxDiscount    int64      // promo_codes.max_discount (cap for percent type, 0 = none)
}
