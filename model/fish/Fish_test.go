package fish

import (
	"testing"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/aquarl/config"
)

// constGrower grows every fish by a fixed amount
type constGrower float64

func (c constGrower) Growth(f, t, do, uia, w float64) float64 {
	return float64(c)
}

func newHatchery(t *testing.T, g Grower) *Hatchery {
	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	return NewHatchery(cfg.Fish, g, rand.New(rand.NewSource(42)))
}

func TestStage(t *testing.T) {
	traits := Traits{
		ToJuvenileWeight: 15,
		ToJuvenileDays:   30,
		ToAdultWeight:    250,
		ToAdultDays:      180,
	}

	tests := []struct {
		weight float64
		age    int
		want   Stage
	}{
		{5, 0, Fingerling},
		{15, 0, Juvenile},
		{5, 30, Juvenile},
		{250, 0, Adult},
		{20, 180, Adult},
		{14.99, 29, Fingerling},
	}
	for _, test := range tests {
		f := &Fish{Weight: test.weight, Age: test.age, Traits: traits}
		if have := f.Stage(); have != test.want {
			t.Errorf("weight %v age %v: want(%v) have(%v)", test.weight,
				test.age, test.want, have)
		}
	}
}

func TestTraitsOrdered(t *testing.T) {
	h := newHatchery(t, constGrower(0))

	for i := 0; i < 1000; i++ {
		tr := h.Traits()
		if tr.ToJuvenileWeight > tr.ToAdultWeight {
			t.Fatalf("weight thresholds out of order: %+v", tr)
		}
		if tr.ToJuvenileDays > tr.ToAdultDays {
			t.Fatalf("day thresholds out of order: %+v", tr)
		}
		if tr.ToJuvenileWeight < 5 || tr.ToJuvenileDays < 15 {
			t.Fatalf("juvenile thresholds below minimum: %+v", tr)
		}
		if tr.ToAdultWeight < 180 || tr.ToAdultDays < 150 {
			t.Fatalf("adult thresholds below minimum: %+v", tr)
		}
	}
}

func TestRandom(t *testing.T) {
	h := newHatchery(t, constGrower(0))

	for i := 0; i < 1000; i++ {
		f := h.Random()
		if f.Weight < 5 {
			t.Fatalf("weight %v below minimum", f.Weight)
		}
		if f.Age != 0 {
			t.Fatalf("new fish should have age 0, have(%v)", f.Age)
		}
		if s := f.Stage(); s == Adult {
			t.Fatalf("new fish should not be an adult: %v", f)
		}
	}
}

func TestNewMinimumWeight(t *testing.T) {
	h := newHatchery(t, constGrower(0))
	if f := h.New(1); f.Weight != 5 {
		t.Errorf("weight: want(5) have(%v)", f.Weight)
	}
}

func TestGrowPositive(t *testing.T) {
	h := newHatchery(t, constGrower(1.5))
	f := h.New(10)

	for i := 0; i < 10; i++ {
		if g := f.Grow(0.5, 30, 0.8, 0.06); g != 1.5 {
			t.Fatalf("growth: want(1.5) have(%v)", g)
		}
	}
	if f.Weight != 25 || f.Age != 10 {
		t.Errorf("want weight 25 age 10, have %v", f)
	}
}

func TestGrowNegativeAging(t *testing.T) {
	h := newHatchery(t, constGrower(-0.001))
	f := h.New(100)

	days := 10000
	for i := 0; i < days; i++ {
		f.Grow(0, 30, 0.8, 0.06)
	}

	// Aging happens with probability 0.3 when growth is negative
	frac := float64(f.Age) / float64(days)
	if frac < 0.27 || frac > 0.33 {
		t.Errorf("fraction of days aged: want ~0.3 have(%v)", frac)
	}
}
