package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestReviewSubmitted(t *testing.T) {
	before := testutil.ToFloat64(reviewsSubmitted.WithLabelValues(OutcomeAccepted))
	ReviewSubmitted(OutcomeAccepted)
	assert.Equal(t, before+1, testutil.ToFloat64(reviewsSubmitted.WithLabelValues(OutcomeAccepted)))
}

func TestCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(cacheLookups.WithLabelValues("hit"))
	misses := testutil.ToFloat64(cacheLookups.WithLabelValues("miss"))

	CacheLookup(true)
	CacheLookup(false)
	CacheLookup(false)

	assert.Equal(t, hits+1, testutil.ToFloat64(cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(cacheLookups.WithLabelValues("miss")))
}

func TestRecomputeObserved(t *testing.T) {
	RecomputeObserved(time.Now(), nil)
	RecomputeObserved(time.Now(), errors.New("db down"))

	assert.Equal(t, 2, testutil.CollectAndCount(recomputeDuration))
}
