package space

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ilpincy/argos3-sub001/internal/config"
	"github.com/ilpincy/argos3-sub001/internal/entity"
	"github.com/ilpincy/argos3-sub001/internal/random"
)

// vecGenerator yields one 3-vector per call. retry is true when the previous
// value led to a collision.
type vecGenerator func(retry bool) ([3]float64, error)

func newGenerator(n *config.Node, rng *random.RNG) (vecGenerator, error) {
	method, err := config.Attr[string](n, "method")
	if err != nil {
		return nil, err
	}
	switch method {
	case "uniform":
		lo, err := vec3(n, "min")
		if err != nil {
			return nil, err
		}
		hi, err := vec3(n, "max")
		if err != nil {
			return nil, err
		}
		for i := range lo {
			if lo[i] > hi[i] {
				return nil, fmt.Errorf("uniform generator: min %v is not less than or equal to max %v", lo, hi)
			}
		}
		return func(bool) ([3]float64, error) {
			var v [3]float64
			for i := range v {
				if hi[i] > lo[i] {
					v[i] = rng.UniformReal(random.Range[float64]{Min: lo[i], Max: hi[i]})
				} else {
					v[i] = hi[i]
				}
			}
			return v, nil
		}, nil

	case "gaussian":
		mean, err := vec3(n, "mean")
		if err != nil {
			return nil, err
		}
		std, err := vec3(n, "std_dev")
		if err != nil {
			return nil, err
		}
		return func(bool) ([3]float64, error) {
			var v [3]float64
			for i := range v {
				v[i] = rng.Gaussian(std[i], mean[i])
			}
			return v, nil
		}, nil

	case "constant":
		values, err := vec3(n, "values")
		if err != nil {
			return nil, err
		}
		return func(bool) ([3]float64, error) { return values, nil }, nil

	case "grid":
		return newGridGenerator(n)
	}
	return nil, fmt.Errorf("unknown distribution method %q", method)
}

func newGridGenerator(n *config.Node) (vecGenerator, error) {
	center, err := vec3(n, "center")
	if err != nil {
		return nil, err
	}
	dist, err := vec3(n, "distances")
	if err != nil {
		return nil, err
	}
	raw, err := config.Attr[string](n, "layout")
	if err != nil {
		return nil, err
	}
	parts := strings.Split(raw, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: layout needs 3 values", config.ErrBadAttr)
	}
	var layout [3]uint64
	for i, p := range parts {
		if layout[i], err = strconv.ParseUint(strings.TrimSpace(p), 10, 32); err != nil {
			return nil, fmt.Errorf("%w: layout: %v", config.ErrBadAttr, err)
		}
		if layout[i] == 0 {
			return nil, fmt.Errorf("%w: layout values must all be different than 0", config.ErrBadAttr)
		}
	}
	var placed uint64
	return func(retry bool) ([3]float64, error) {
		var v [3]float64
		if retry {
			return v, fmt.Errorf("impossible to place entity #%d in grid", placed)
		}
		if placed >= layout[0]*layout[1]*layout[2] {
			return v, fmt.Errorf("grid: trying to place more entities than allowed by the layout")
		}
		idx := [3]uint64{
			placed % layout[0],
			(placed / layout[0]) % layout[1],
			placed / (layout[0] * layout[1]),
		}
		for i := range v {
			v[i] = center[i] + float64(layout[i]-1)*dist[i]*0.5 - float64(idx[i])*dist[i]
		}
		placed++
		return v, nil
	}, nil
}

func formatVec(v [3]float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

// distribute places quantity copies of the template entity, named
// base id + (base_num + i). An embodied copy that overlaps an existing body
// is dropped and placed again, up to max_trials times.
func (s *Space) distribute(n *config.Node, newEntity EntityFactory, rng *random.RNG) error {
	posNode, err := n.Child("position")
	if err != nil {
		return err
	}
	oriNode, err := n.Child("orientation")
	if err != nil {
		return err
	}
	entNode, err := n.Child("entity")
	if err != nil {
		return err
	}
	posGen, err := newGenerator(posNode, rng)
	if err != nil {
		return fmt.Errorf("position: %w", err)
	}
	oriGen, err := newGenerator(oriNode, rng)
	if err != nil {
		return fmt.Errorf("orientation: %w", err)
	}
	quantity, err := config.Attr[uint32](entNode, "quantity")
	if err != nil {
		return err
	}
	maxTrials, err := config.AttrOrDefault[uint32](entNode, "max_trials", 100)
	if err != nil {
		return err
	}
	baseNum, err := config.AttrOrDefault[uint64](entNode, "base_num", 0)
	if err != nil {
		return err
	}
	if len(entNode.Children) == 0 {
		return fmt.Errorf("no entity to distribute specified")
	}
	template := entNode.Children[0]
	baseID, err := config.Attr[string](template, "id")
	if err != nil {
		return err
	}

	for i := uint32(0); i < quantity; i++ {
		id := baseID + strconv.FormatUint(uint64(i)+baseNum, 10)
		retry := false
		for trials := uint32(0); ; trials++ {
			if trials > maxTrials {
				return fmt.Errorf("exceeded max trials when distributing %q with base id %q, placed only %d",
					template.Name, baseID, i)
			}
			pos, err := posGen(retry)
			if err != nil {
				return err
			}
			ori, err := oriGen(retry)
			if err != nil {
				return err
			}
			tree := template.Clone()
			tree.SetAttr("id", id)
			body, err := tree.Child("body")
			if err != nil {
				body = tree.Add(config.NewNode("body"))
			}
			body.SetAttr("position", formatVec(pos))
			body.SetAttr("orientation", formatVec(ori))

			e, err := newEntity(tree.Name)
			if err != nil {
				return err
			}
			if err := e.Init(tree); err != nil {
				return fmt.Errorf("initializing %q: %w", id, err)
			}
			if b, ok := entity.AsEmbodied(e); ok && s.collides(b) {
				e.Destroy()
				retry = true
				continue
			}
			if err := s.AddEntity(e); err != nil {
				return err
			}
			break
		}
	}
	return nil
}

func (s *Space) collides(b *entity.Body) bool {
	for _, e := range s.entities {
		if other, ok := entity.AsEmbodied(e); ok && other.Overlaps(b) {
			return true
		}
	}
	return false
}
