package patient

import (
	"context"
	"strconv"
	"time"

	"github.com/hms/hms/internal/platform/cache"
	"github.com/hms/hms/pkg/mrn"
)

// seqCacheTTL keeps a year's sequence hint around for roughly the year
// it applies to. The cache is a hint: losing it only costs one seed
// query against the patient table.
const seqCacheTTL = 365 * 24 * time.Hour

// MRNAllocator produces MR numbers. The per-year counter lives in the
// database and is advanced with one atomic statement, so concurrent
// registrations can never observe the same sequence value.
type MRNAllocator struct {
	repo  Repository
	cache cache.Store
	now   func() time.Time
}

func NewMRNAllocator(repo Repository, store cache.Store) *MRNAllocator {
	return &MRNAllocator{repo: repo, cache: store, now: time.Now}
}

func seqCacheKey(year string) string {
	return "mrn:seq:" + year
}

// Allocate returns the next MR number for an admission. The counter is
// lazily seeded on the first allocation of a calendar year from the
// highest sequence among patients admitted since January 1; a cached
// hint skips that query when present.
func (a *MRNAllocator) Allocate(ctx context.Context, admissionType, admissionLocation string) (string, error) {
	now := a.now().UTC()
	year := now.Format("06")

	seed, hinted := a.cachedSeed(year)
	if !hinted {
		jan1 := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		last, err := a.repo.LatestAdmittedSince(ctx, jan1)
		if err != nil {
			return "", err
		}
		if last != nil {
			// Malformed legacy identifiers parse as sequence 0.
			seed = mrn.SequenceOf(last.MRNumber)
		}
	}

	seq, err := a.repo.NextSequence(ctx, year, seed)
	if err != nil {
		return "", err
	}

	if a.cache != nil {
		a.cache.Set(seqCacheKey(year), strconv.Itoa(seq), seqCacheTTL)
	}

	n := mrn.Number{
		Sequence:    seq,
		Year:        year,
		PatientType: mrn.PatientTypeCode(admissionType),
		Location:    mrn.LocationCode(admissionLocation),
	}
	return n.String(), nil
}

func (a *MRNAllocator) cachedSeed(year string) (int, bool) {
	if a.cache == nil {
		return 0, false
	}
	v, ok := a.cache.Get(seqCacheKey(year))
	if !ok {
		return 0, false
	}
	seed, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return seed, true
}
