// Package scraper provides the hosting-platform client layer: credential
// pooling, per-credential client caching, the API facade every strategy and
// fetcher goes through, and the raw-content fallback transport.
package scraper

import (
	"sync"
	"time"

	"github.com/google/go-github/v66/github"
)

// DefaultQuota is the assumed remaining quota for a credential before the
// first response teaches us better (GitHub's authenticated core limit).
const DefaultQuota = 5000

// TokenRecord tracks per-credential quota state. It is mutated after every
// API call from response metadata.
type TokenRecord struct {
	Credential string
	Remaining  int
	ResetAt    time.Time
	LastUsedAt time.Time
}

// Usable reports whether the token can serve a request: it has quota left or
// its reset time has passed.
func (t *TokenRecord) Usable(now time.Time) bool {
	return t.Remaining > 0 || !now.Before(t.ResetAt)
}

// TokenPool manages a set of API credentials with quota/reset tracking and
// selects the best usable one. Constructed once per process and injected,
// never accessed through globals.
type TokenPool struct {
	mu      sync.Mutex
	records []*TokenRecord
	now     func() time.Time
}

// NewTokenPool creates a pool over the given credentials. Each starts with
// the default quota so fresh tokens are immediately usable.
func NewTokenPool(credentials []string) *TokenPool {
	pool := &TokenPool{now: time.Now}
	for _, cred := range credentials {
		if cred == "" {
			continue
		}
		pool.records = append(pool.records, &TokenRecord{
			Credential: cred,
			Remaining:  DefaultQuota,
		})
	}
	return pool
}

// Size returns the number of credentials in the pool.
func (p *TokenPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.records)
}

// BestToken returns the usable token with the highest remaining quota. When
// none is usable it returns a RateLimitExhaustedError carrying the earliest
// reset time; it never blocks.
func (p *TokenPool) BestToken() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selectLocked()
}

// CheckAndRotate selects the best usable token and stamps it as used.
func (p *TokenPool) CheckAndRotate() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cred, err := p.selectLocked()
	if err != nil {
		return "", err
	}
	for _, rec := range p.records {
		if rec.Credential == cred {
			rec.LastUsedAt = p.now()
			break
		}
	}
	return cred, nil
}

func (p *TokenPool) selectLocked() (string, error) {
	now := p.now()

	var best *TokenRecord
	for _, rec := range p.records {
		// A passed reset means the quota window rolled over.
		if rec.Remaining <= 0 && !rec.ResetAt.IsZero() && !now.Before(rec.ResetAt) {
			rec.Remaining = DefaultQuota
		}
		if !rec.Usable(now) {
			continue
		}
		if best == nil || rec.Remaining > best.Remaining {
			best = rec
		}
	}
	if best == nil {
		return "", &RateLimitExhaustedError{ResetAt: p.earliestResetLocked()}
	}
	return best.Credential, nil
}

func (p *TokenPool) earliestResetLocked() time.Time {
	var earliest time.Time
	for _, rec := range p.records {
		if earliest.IsZero() || rec.ResetAt.Before(earliest) {
			earliest = rec.ResetAt
		}
	}
	return earliest
}

// UpdateStats folds rate-limit metadata from an API response into the
// matching record. Unknown credentials and nil responses are ignored, not
// errors.
func (p *TokenPool) UpdateStats(credential string, resp *github.Response) {
	if resp == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, rec := range p.records {
		if rec.Credential != credential {
			continue
		}
		rec.Remaining = resp.Rate.Remaining
		rec.ResetAt = resp.Rate.Reset.Time
		rec.LastUsedAt = p.now()
		return
	}
}

// Records returns a snapshot of the pool state for diagnostics.
func (p *TokenPool) Records() []TokenRecord {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]TokenRecord, len(p.records))
	for i, rec := range p.records {
		out[i] = *rec
	}
	return out
}
