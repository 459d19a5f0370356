package metrics

import (
	"github.com/san-kum/fizz/internal/sph"
)

// KineticEnergy reports the total kinetic energy at the last observation.
type KineticEnergy struct {
	name    string
	current float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(s *sph.Simulation) {
	k.current = TotalKineticEnergy(s.Particles)
}

func (k *KineticEnergy) Value() float64 { return k.current }

func (k *KineticEnergy) Reset() { k.current = 0 }

// MaxSpeed is the fastest particle speed seen in any observation.
type MaxSpeed struct {
	name string
	peak float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(s *sph.Simulation) {
	if v := PeakSpeed(s.Particles); v > m.peak {
		m.peak = v
	}
}

func (m *MaxSpeed) Value() float64 { return m.peak }

func (m *MaxSpeed) Reset() { m.peak = 0 }
