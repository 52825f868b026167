package experiment

import (
	"github.com/san-kum/tgsim/internal/buildspec"
	"github.com/san-kum/tgsim/internal/config"
	"github.com/san-kum/tgsim/internal/geom"
	"github.com/san-kum/tgsim/internal/model"
	"github.com/san-kum/tgsim/internal/resolve"
	"github.com/san-kum/tgsim/internal/structure"
)

const probeTag = "probe"

// probe is a single sphere released at the configured position.
type probe struct {
	cfg config.ProbeConfig
}

func newProbe(cfg config.ProbeConfig) *model.Model {
	return model.New("probe", probe{cfg: cfg})
}

func (p probe) Blueprint() (*resolve.StructureInfo, error) {
	sphere, err := buildspec.NewSphereInfo(buildspec.SphereConfig{
		Radius:      p.cfg.Radius,
		Density:     p.cfg.Density,
		Friction:    p.cfg.Friction,
		Restitution: p.cfg.Restitution,
	})
	if err != nil {
		return nil, err
	}
	spec := buildspec.New()
	if err := spec.AddBuilder(probeTag, sphere); err != nil {
		return nil, err
	}

	s := structure.New()
	n := s.AddNode(p.cfg.Position[0], p.cfg.Position[1], p.cfg.Position[2])
	if err := s.AddPair(n, n, probeTag); err != nil {
		return nil, err
	}
	return resolve.New(s, spec), nil
}

func vec(a [3]float64) geom.Vec3 {
	return geom.V(a[0], a[1], a[2])
}
