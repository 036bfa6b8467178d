package particles

import (
	"math/rand"
	"testing"
)

func TestParticleRemovedExactlyAtLifetime(t *testing.T) {
	s := New(10, rand.New(rand.NewSource(7)))
	s.Trail(10, 10, "#00f0ff")
	p := s.Particles()[0]
	life := p.MaxLife

	for i := 1; i < life; i++ {
		s.Update()
		if s.Len() != 1 {
			t.Fatalf("particle removed after %d updates, want it alive until %d", i, life)
		}
		if p.Life <= 0 {
			t.Fatalf("life = %d after %d updates, want > 0", p.Life, i)
		}
	}
	s.Update()
	if s.Len() != 0 {
		t.Fatalf("len after %d updates = %d, want 0", life, s.Len())
	}
	if p.Life > 0 {
		t.Fatalf("life = %d after %d updates, want <= 0", p.Life, life)
	}
}

func TestExplosionEmptiesAfterMaxLifetime(t *testing.T) {
	s := New(100, rand.New(rand.NewSource(3)))
	s.Explode(50, 50, "#ff00aa", 30)
	if s.Len() != 30 {
		t.Fatalf("len after burst = %d, want 30", s.Len())
	}

	maxLife := 0
	for _, p := range s.Particles() {
		if p.MaxLife < 20 || p.MaxLife >= 50 {
			t.Fatalf("life %d outside [20,50)", p.MaxLife)
		}
		if p.MaxLife > maxLife {
			maxLife = p.MaxLife
		}
	}
	for i := 0; i < maxLife-1; i++ {
		s.Update()
	}
	if s.Len() == 0 {
		t.Fatalf("burst emptied before %d updates", maxLife)
	}
	s.Update()
	if s.Len() != 0 {
		t.Fatalf("len after %d updates = %d, want 0", maxLife, s.Len())
	}
}

func TestAlphaFadesLinearly(t *testing.T) {
	p := &Particle{Life: 10, MaxLife: 20}
	if got := p.Alpha(); got != 0.5 {
		t.Fatalf("alpha = %v, want 0.5", got)
	}
	p.Life = 0
	if got := p.Alpha(); got != 0 {
		t.Fatalf("alpha at zero life = %v, want 0", got)
	}
}

func TestCeilingEvictsOldestFirst(t *testing.T) {
	s := New(5, rand.New(rand.NewSource(1)))
	for i := 0; i < 5; i++ {
		s.Trail(float64(i), 0, "#ffffff")
	}
	s.Trail(99, 0, "#ffffff")
	s.Trail(100, 0, "#ffffff")

	if s.Len() != 5 {
		t.Fatalf("len = %d, want ceiling 5", s.Len())
	}
	ps := s.Particles()
	if ps[0].X != 2 {
		t.Fatalf("oldest surviving x = %v, want 2", ps[0].X)
	}
	if ps[4].X != 100 {
		t.Fatalf("newest x = %v, want 100", ps[4].X)
	}
}

func TestBurstLargerThanCeilingKeepsNewest(t *testing.T) {
	s := New(8, rand.New(rand.NewSource(1)))
	s.Explode(0, 0, "#ffffff", 20)
	if s.Len() != 8 {
		t.Fatalf("len = %d, want 8", s.Len())
	}
}

func TestTrailDriftsDown(t *testing.T) {
	s := New(0, rand.New(rand.NewSource(5)))
	for i := 0; i < 50; i++ {
		s.Trail(0, 0, "#ffffff")
	}
	for _, p := range s.Particles() {
		if p.VY < 1 || p.VY >= 3 {
			t.Fatalf("trail vy = %v, want [1,3)", p.VY)
		}
		if p.VX < -0.5 || p.VX >= 0.5 {
			t.Fatalf("trail vx = %v, want [-0.5,0.5)", p.VX)
		}
	}
}

func TestResetClears(t *testing.T) {
	s := New(0, nil)
	s.Explode(0, 0, "#ffffff", 4)
	s.Reset()
	if s.Len() != 0 {
		t.Fatalf("len after reset = %d, want 0", s.Len())
	}
}

func TestParseHex(t *testing.T) {
	r, g, b := ParseHex("#ff00aa")
	if r != 1 || g != 0 || b < 0.66 || b > 0.67 {
		t.Fatalf("ParseHex(#ff00aa) = %v %v %v", r, g, b)
	}
	r, g, b = ParseHex("nope")
	if r != 1 || g != 1 || b != 1 {
		t.Fatalf("bad hex = %v %v %v, want white", r, g, b)
	}
}
