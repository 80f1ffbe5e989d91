package bucket_test

import (
	"testing"
	"time"

	"github.com/mced-project/mced/bucket"
	"github.com/mced-project/mced/cmn"
	"github.com/mced-project/mced/cmn/tassert"
)

func TestAccountSignalsAtCapacity(t *testing.T) {
	cfg := cmn.BucketConf{Capacity: 3, AgeTime: time.Hour}
	var b bucket.Bucket
	bucket.Init(&b)

	base := time.Unix(0, 0)
	tassert.Fatalf(t, !bucket.Account(cfg, &b, 1, base), "should not signal at 1/3")
	tassert.Fatalf(t, !bucket.Account(cfg, &b, 1, base.Add(time.Second)), "should not signal at 2/3")
	tassert.Fatalf(t, bucket.Account(cfg, &b, 1, base.Add(2*time.Second)), "should signal at 3/3")
}

func TestAccountAgesOutCredits(t *testing.T) {
	cfg := cmn.BucketConf{Capacity: 2, AgeTime: time.Second}
	var b bucket.Bucket
	bucket.Init(&b)

	base := time.Unix(0, 0)
	tassert.Fatalf(t, !bucket.Account(cfg, &b, 1, base), "1/2 should not signal")
	// two agetimes later the first credit has fully leaked away
	signalled := bucket.Account(cfg, &b, 1, base.Add(2*time.Second))
	tassert.Fatalf(t, !signalled, "credit should have leaked out, got signal")
}

func TestAccountZeroCapacityNeverSignals(t *testing.T) {
	cfg := cmn.BucketConf{Capacity: 0}
	var b bucket.Bucket
	bucket.Init(&b)
	for i := 0; i < 100; i++ {
		if bucket.Account(cfg, &b, 1, time.Unix(int64(i), 0)) {
			t.Fatalf("zero-capacity bucket must never signal")
		}
	}
}

func TestAccountNonMonotonicTimestamp(t *testing.T) {
	cfg := cmn.BucketConf{Capacity: 5, AgeTime: time.Minute}
	var b bucket.Bucket
	bucket.Init(&b)
	base := time.Unix(1000, 0)
	bucket.Account(cfg, &b, 1, base)
	// event delivered "before" the previous one: must not panic or go negative
	tassert.Fatalf(t, !bucket.Account(cfg, &b, 1, base.Add(-10*time.Second)), "unexpected signal")
}

func TestAccountPanicsOnZeroAgeTimeWithCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for agetime=0, capacity>0")
		}
	}()
	cfg := cmn.BucketConf{Capacity: 1, AgeTime: 0}
	var b bucket.Bucket
	bucket.Init(&b)
	bucket.Account(cfg, &b, 1, time.Now())
}

func TestOutputFormat(t *testing.T) {
	cfg := cmn.BucketConf{Capacity: 3, AgeTime: time.Hour}
	var b bucket.Bucket
	bucket.Init(&b)
	bucket.Account(cfg, &b, 2, time.Unix(0, 0))
	got := bucket.Output(cfg, &b)
	tassert.Fatalf(t, got == "2/3", "unexpected summary: %s", got)
}
