package service

import (
	"context"
	"sync"

	"github.com/apex/log"
)

// FreeScanLimit is the number of free analyses a non-subscribed user gets.
// Fixed policy constant.
const FreeScanLimit = 2

// gateDecision is the outcome of the quota gate for one request
type gateDecision struct {
	allowed       bool
	subscribed    bool
	freeScansUsed int
	err           error
}

// gate fetches subscription state and the free-scan counter concurrently
// and combines them into an allow/deny decision.
func (s *Service) gate(ctx context.Context, userID, email string) gateDecision {
	var (
		wg         sync.WaitGroup
		subscribed bool
		used       int
		quotaErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		subscribed = s.resolveSubscribed(ctx, email)
	}()
	go func() {
		defer wg.Done()
		used, quotaErr = s.store.GetFreeScansUsed(ctx, userID)
	}()
	wg.Wait()

	// A subscribed user never needs the counter, so a quota read failure
	// only matters for free-tier users.
	if quotaErr != nil && !subscribed {
		return gateDecision{err: quotaErr}
	}

	return gateDecision{
		allowed:       Decide(subscribed, used),
		subscribed:    subscribed,
		freeScansUsed: used,
	}
}

// Decide is the gate rule: allowed iff the user is subscribed or still has
// free scans left.
func Decide(subscribed bool, freeScansUsed int) bool {
	return subscribed || freeScansUsed < FreeScanLimit
}

// resolveSubscribed asks billing for the subscription state. Billing
// failures resolve to unsubscribed so quota logic still applies.
func (s *Service) resolveSubscribed(ctx context.Context, email string) bool {
	if email == "" {
		return false
	}
	subscribed, err := s.billing.IsSubscribed(ctx, email)
	if err != nil {
		log.WithError(err).Warn("Billing unavailable, treating user as unsubscribed")
		return false
	}
	return subscribed
}
