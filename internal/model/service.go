package model

// Service is a catalog entry used in catalog-priced bookings.  The
// price breakdown starts from BasePrice plus VisitFee plus the prices
// of any selected addons, taxed at TaxPercent.
type Service struct {
	ID         uint64  // services.id
	Name       string  // services.name
	CategoryID uint64  // services.category_id
	BasePrice  int64   // services.base_price
	VisitFee   int64   // services.visit_fee
	TaxPercent float64 // services.tax_percent
	IsActive   bool    // services.is_active
}

// ServiceAddon is an optional extra on a catalog service, selected by
// name in the booking request.
type ServiceAddon struct {
	ID        uint64 // service_addons.id
	ServiceID uint64 // service_addons.service_id
	Name      string // service_addons.name
	Price     int64  // service_addons.price
}
