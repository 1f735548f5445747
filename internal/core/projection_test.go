package core

import (
	"math"
	"testing"
)

func TestProjectBoundary(t *testing.T) {
	p := Project(Money{Cents: 100000}, Money{}, 0, DefaultAnnualRate)
	if len(p.Series) != 0 {
		t.Fatalf("years=0 should yield empty series, got %d points", len(p.Series))
	}
	if p.FinalValue.Cents != 100000 {
		t.Fatalf("final value = %d", p.FinalValue.Cents)
	}

	if got := Project(Money{Cents: 100000}, Money{}, -3, 0.05); len(got.Series) != 0 || got.FinalValue.Cents != 100000 {
		t.Fatalf("negative years should behave like zero: %+v", got)
	}
}

func TestProjectSeriesShape(t *testing.T) {
	p := Project(Money{Cents: 100000}, Money{Cents: 10000}, 5, 0.07)
	if len(p.Series) != 5 {
		t.Fatalf("expected 5 yearly points, got %d", len(p.Series))
	}
	for i, pt := range p.Series {
		if pt.Year != i+1 {
			t.Fatalf("point %d has year %d", i, pt.Year)
		}
	}
	if p.FinalValue != p.Series[len(p.Series)-1].Value {
		t.Fatalf("final value should equal last point: %+v", p)
	}
}

func TestProjectMonotonic(t *testing.T) {
	p := Project(Money{Cents: 50000}, Money{Cents: 2500}, 10, 0.04)
	prev := int64(0)
	for _, pt := range p.Series {
		if pt.Value.Cents < prev {
			t.Fatalf("series decreased at year %d: %d < %d", pt.Year, pt.Value.Cents, prev)
		}
		prev = pt.Value.Cents
	}
}

func TestProjectZeroRate(t *testing.T) {
	// With no growth the result is exactly initial + months*contribution.
	p := Project(Money{Cents: 100000}, Money{Cents: 10000}, 2, 0)
	want := int64(100000 + 24*10000)
	if p.FinalValue.Cents != want {
		t.Fatalf("final = %d, want %d", p.FinalValue.Cents, want)
	}
}

func TestProjectCompounding(t *testing.T) {
	// One year, no contributions: initial*(1+r/12)^12.
	p := Project(Money{Cents: 100000}, Money{}, 1, 0.12)
	want := 1000 * math.Pow(1.01, 12)
	if got := p.FinalValue.Float(); math.Abs(got-want) > 0.01 {
		t.Fatalf("final = %v, want ~%v", got, want)
	}
}

func TestProjectZeroInputs(t *testing.T) {
	p := Project(Money{}, Money{}, 3, 0)
	if p.FinalValue.Cents != 0 || len(p.Series) != 3 {
		t.Fatalf("all-zero projection = %+v", p)
	}
}
