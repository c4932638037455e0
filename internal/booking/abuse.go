package booking

import (
	"context"
	"fmt"
	"log"

	"github.com/sevahub/home-services/internal/model"
)

// guardUser runs the user-scoped abuse check.  It fires after
// authentication, on top of the IP-scoped middleware check, with a
// tighter limit.  Denials record a critical fraud signal before the
// rejection is returned; the limiter itself fails open when Redis is
// unreachable.
func (o *Orchestrator) guardUser(ctx context.Context, userID uint64) *AdmitError {
	if o.limiter == nil {
		return nil
	}
	key := fmt.Sprintf("user:%d:bookings", userID)
	d, err := o.limiter.Allow(ctx, key, o.rlCfg.UserLimit, o.rlCfg.UserWindow)
	if err != nil {
		log.Printf("abuse-guard: limiter error for user=%d: %v", userID, err)
	}
	if d.Allowed {
		return nil
	}

	sig := &model.FraudSignal{
		UserID:     userID,
		SignalType: "rate_limit",
		Severity:   model.SeverityCritical,
		Reasons:    []string{model.ReasonVelocityLimit},
		Metadata:   fmt.Sprintf(`{"limit":%d,"window":"%s"}`, o.rlCfg.UserLimit, o.rlCfg.UserWindow),
	}
	if err := o.fraud.RecordSignal(ctx, sig); err != nil {
		log.Printf("abuse-guard: record signal failed for user=%d: %v", userID, err)
	}
	return errTooMany(CodeRateLimited, "too many booking requests, slow down", d.RetryAfter)
}
