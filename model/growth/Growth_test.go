package growth

import (
	"math"
	"testing"

	"github.com/samuelfneumann/aquarl/config"
)

func newModel(t testing.TB) *Model {
	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	m, err := New(cfg, "guangdong")
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestNewUnknownRegion(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(cfg, "atlantis"); err == nil {
		t.Error("expected an error for an unknown region")
	}
}

func TestTau(t *testing.T) {
	m := newModel(t)

	if tau := m.Tau(33.0); tau != 1.0 {
		t.Errorf("tau at optimum: want(1) have(%v)", tau)
	}

	// At the band edges tau is exp(-kappa)
	want := math.Exp(-4.6)
	for _, temp := range []float64{24.0, 40.0} {
		if tau := m.Tau(temp); math.Abs(tau-want) > 1e-12 {
			t.Errorf("tau(%v): want(%v) have(%v)", temp, want, tau)
		}
	}

	if m.Tau(30.0) <= m.Tau(27.0) {
		t.Error("tau should increase toward the optimum")
	}
}

func TestSigma(t *testing.T) {
	m := newModel(t)

	tests := []struct {
		do, want float64
	}{
		{1.0, 1.0},
		{0.7, 1.0},
		{0.5, 0.5},
		{0.3, 0.0},
		{0.1, 0.0},
	}
	for _, test := range tests {
		if have := m.Sigma(test.do); math.Abs(have-test.want) > 1e-12 {
			t.Errorf("sigma(%v): want(%v) have(%v)", test.do, test.want, have)
		}
	}
}

func TestNu(t *testing.T) {
	m := newModel(t)

	tests := []struct {
		uia, want float64
	}{
		{0.01, 1.0},
		{0.06, 1.0},
		{0.73, 0.5},
		{1.4, 0.0},
		{1.8, 0.0},
	}
	for _, test := range tests {
		if have := m.Nu(test.uia); math.Abs(have-test.want) > 1e-12 {
			t.Errorf("nu(%v): want(%v) have(%v)", test.uia, test.want, have)
		}
	}
}

func TestAnabolismZeroFeed(t *testing.T) {
	m := newModel(t)
	if a := m.Anabolism(0, 33, 1, 0.06, 100); a != 0 {
		t.Errorf("anabolism without feed: want(0) have(%v)", a)
	}
	if g := m.Growth(0, 33, 1, 0.06, 100); g >= 0 {
		t.Errorf("growth without feed should be negative, have(%v)", g)
	}
}

func TestGrowthSlowdown(t *testing.T) {
	m := newModel(t)

	if s := m.Slowdown(250); s != 0.5 {
		t.Errorf("slowdown at threshold: want(0.5) have(%v)", s)
	}

	// Near-ideal conditions produce positive growth for a fingerling
	if g := m.Growth(0.68, 33, 1, 0.06, 10); g <= 0 {
		t.Errorf("growth under ideal conditions should be positive, have(%v)", g)
	}

	// Very large fish barely grow
	small := m.Growth(0.68, 33, 1, 0.06, 50)
	large := m.Growth(0.68, 33, 1, 0.06, 1000)
	if math.Abs(large) >= math.Abs(small) {
		t.Errorf("large fish growth %v should be smaller than small fish "+
			"growth %v", large, small)
	}
}

func TestPhotoperiod(t *testing.T) {
	// At the equator the day is always 12 hours
	for _, day := range []int{1, 91, 182, 273} {
		if rho := Photoperiod(day, 0); math.Abs(rho-1.0) > 1e-12 {
			t.Errorf("equator day %v: want(1) have(%v)", day, rho)
		}
	}

	// Northern summer days are longer than winter days
	if Photoperiod(182, 23.13) <= Photoperiod(1, 23.13) {
		t.Error("summer photoperiod should exceed winter photoperiod")
	}

	m := newModel(t)
	m.SetDayOfYear(182)
	if m.DayOfYear() != 182 || m.Rho() != Photoperiod(182, 23.13) {
		t.Error("SetDayOfYear did not recompute the photoperiod factor")
	}
}

func BenchmarkGrowth(b *testing.B) {
	m := newModel(b)
	for i := 0; i < b.N; i++ {
		m.Growth(0.5, 30, 0.6, 0.1, 120)
	}
}
