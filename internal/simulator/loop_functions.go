package simulator

import "github.com/ilpincy/argos3-sub001/internal/config"

// LoopFunctions let an experiment hook into the simulation loop. PreStep
// and PostStep run on the control goroutine around the sense+step phase of
// every tick.
type LoopFunctions interface {
	// Init runs once the space is populated and every entity is mapped to
	// its engine. node is the <loop_functions> element, or an empty node.
	Init(node *config.Node, sim *Simulator) error
	Reset()
	Destroy()
	PreStep()
	PostStep()
	// IsExperimentFinished ends the experiment when it returns true.
	IsExperimentFinished() bool
	// PostExperiment runs once after the main loop ends.
	PostExperiment()
}

// DefaultLoopFunctions does nothing. Embed it to implement only some hooks.
type DefaultLoopFunctions struct{}

func (DefaultLoopFunctions) Init(*config.Node, *Simulator) error { return nil }
func (DefaultLoopFunctions) Reset()                              {}
func (DefaultLoopFunctions) Destroy()                            {}
func (DefaultLoopFunctions) PreStep()                            {}
func (DefaultLoopFunctions) PostStep()                           {}
func (DefaultLoopFunctions) IsExperimentFinished() bool          { return false }
func (DefaultLoopFunctions) PostExperiment()                     {}
