package physics

import (
	"errors"

	"github.com/ilpincy/argos3-sub001/internal/config"
	"github.com/ilpincy/argos3-sub001/internal/entity"
)

var (
	// ErrCannotHouse indicates an entity the engine cannot simulate.
	ErrCannotHouse = errors.New("physics: engine cannot house entity")

	// ErrUnstable indicates a body state diverged to NaN or Inf.
	ErrUnstable = errors.New("physics: body state diverged")
)

type Engine interface {
	ID() string
	// Init configures the engine from its element in <physics_engines>.
	// tickLength is the simulated duration of one tick in seconds.
	Init(node *config.Node, tickLength float64) error
	Reset()
	Destroy()
	Update() error
	AddEntity(e entity.Entity) error
	RemoveEntity(id string) bool
	NumEntities() int
}
