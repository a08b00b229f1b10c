package simulator_test

import (
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ilpincy/argos3-sub001/internal/config"
	"github.com/ilpincy/argos3-sub001/internal/controllers"
	"github.com/ilpincy/argos3-sub001/internal/entity"
	"github.com/ilpincy/argos3-sub001/internal/profiler"
	"github.com/ilpincy/argos3-sub001/internal/random"
	"github.com/ilpincy/argos3-sub001/internal/simulator"
	"github.com/ilpincy/argos3-sub001/internal/space"
)

const twoEngines = `
framework:
  experiment: {random_seed: 42, ticks_per_second: 1, length: 5}
arena:
  size: "10,10,1"
  box:
    - {id: b0, body: {position: "0,0"}}
    - {id: b1, body: {position: "2,2"}}
physics_engines:
  - fake: {id: e1}
  - fake: {id: e2}
arena_physics:
  engine:
    - id: e1
      entity: {id: b0}
    - id: e2
      entity: {id: b1}
loop_functions: {label: counting}
`

const swarm = `
framework:
  system: {threads: %d, method: %s}
  experiment: {random_seed: %d, ticks_per_second: 10}
controllers:
  - random_walk: {id: walker, params: {speed: 0.5, turn_probability: 0.2}}
arena:
  size: "20,20,1"
  distribute:
    - position: {method: uniform, min: "-5,-5,0", max: "5,5,0"}
      orientation: {method: uniform, min: "0,0,0", max: "360,0,0"}
      entity:
        quantity: 8
        robot: {id: fb, body: {}, controller: {config: walker}}
physics_engines:
  - pointmass: {id: pm}
arena_physics:
  engine:
    - id: pm
      entity: {id: "fb[0-9]+"}
`

func boxes(ids ...string) string {
	out := ""
	for i, id := range ids {
		out += fmt.Sprintf("    - {id: %s, body: {position: \"%d,0\"}}\n", id, i)
	}
	return out
}

func positions(sim *simulator.Simulator) map[string][2]float64 {
	out := make(map[string][2]float64)
	for _, e := range sim.Space().Entities() {
		if b, ok := entity.AsEmbodied(e); ok {
			x, y := b.Position()
			out[e.ID()] = [2]float64{x, y}
		}
	}
	return out
}

func headings(sim *simulator.Simulator) map[string]random.Radians {
	out := make(map[string]random.Radians)
	for _, c := range sim.Space().Controllables() {
		if w, ok := c.Controller().(*controllers.RandomWalk); ok {
			out[c.ID()] = w.Heading()
		}
	}
	return out
}

func draws(rng *random.RNG, n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = rng.Uint32()
	}
	return out
}

func run(sim *simulator.Simulator, ticks int) {
	GinkgoHelper()
	for range ticks {
		Expect(sim.UpdateSpace()).To(Succeed())
	}
}

var _ = Describe("Simulator", func() {
	var (
		created []*fakeEngine
		loop    *countingLoop
		reg     *simulator.Registry
	)

	BeforeEach(func() {
		created = nil
		loop = &countingLoop{}
		reg = fakeRegistry(&created)
		reg.RegisterLoopFunctions("counting", func() simulator.LoopFunctions { return loop })
	})

	Describe("end to end", func() {
		It("runs two engines for the configured length then tears down", func() {
			sim := load(twoEngines, simulator.WithRegistry(reg))
			Expect(sim.Init()).To(Succeed())
			Expect(sim.PhysicsEngines()).To(HaveLen(2))
			Expect(sim.RandomSeed()).To(Equal(uint32(42)))

			Expect(sim.Execute(context.Background())).To(Succeed())
			Expect(sim.Clock()).To(Equal(uint64(5)))
			Expect(sim.IsExperimentFinished()).To(BeTrue())
			for _, e := range created {
				Expect(e.updates).To(Equal(5))
			}
			Expect(created[0].entities).To(Equal([]string{"b0"}))
			Expect(created[1].entities).To(Equal([]string{"b1"}))
			Expect(loop.pre).To(Equal(5))
			Expect(loop.post).To(Equal(5))
			Expect(loop.postExperiment).To(Equal(1))

			sim.Destroy()
			Expect(sim.PhysicsEngines()).To(BeEmpty())
			for _, e := range created {
				Expect(e.destroyed).To(BeTrue())
			}
			Expect(loop.destroyed).To(BeTrue())
			Expect(sim.GetRNG()).To(BeNil())
			Expect(sim.RNGRegistry().ExistsCategory(simulator.Category)).To(BeFalse())
			Expect(sim.Space()).To(BeNil())
		})

		It("loads an experiment file", func() {
			path := filepath.Join(GinkgoT().TempDir(), "exp.yaml")
			Expect(os.WriteFile(path, []byte(twoEngines), 0o644)).To(Succeed())
			sim := simulator.New(simulator.WithLogger(quiet()), simulator.WithRegistry(reg))
			DeferCleanup(sim.Destroy)
			Expect(sim.LoadExperiment(path)).To(Succeed())
			Expect(sim.Document().Path).To(Equal(path))
			Expect(sim.MaxTicks()).To(Equal(uint64(5)))
		})
	})

	Describe("termination", func() {
		const bounded = `
framework:
  experiment: {random_seed: 1, ticks_per_second: 10, length: 2}
arena: {size: "1,1,1"}
physics_engines: {}
arena_physics: {}
loop_functions: {label: counting}
`
		It("finishes at the tick bound", func() {
			sim := load(bounded, simulator.WithRegistry(reg))
			Expect(sim.Init()).To(Succeed())
			Expect(sim.MaxTicks()).To(Equal(uint64(20)))
			for tick := range 20 {
				Expect(sim.Clock()).To(Equal(uint64(tick)))
				Expect(sim.IsExperimentFinished()).To(BeFalse())
				Expect(sim.UpdateSpace()).To(Succeed())
			}
			Expect(sim.IsExperimentFinished()).To(BeTrue())
			run(sim, 1)
			Expect(sim.IsExperimentFinished()).To(BeTrue())
		})

		It("finishes immediately on Terminate and Reset clears it", func() {
			sim := load(bounded, simulator.WithRegistry(reg))
			Expect(sim.Init()).To(Succeed())
			sim.Terminate()
			Expect(sim.IsExperimentFinished()).To(BeTrue())
			Expect(sim.Reset()).To(Succeed())
			Expect(sim.IsExperimentFinished()).To(BeFalse())
			Expect(loop.resets).To(Equal(1))
		})

		It("finishes when the loop functions say so", func() {
			loop.stopAt = 3
			sim := load(bounded, simulator.WithRegistry(reg))
			Expect(sim.Init()).To(Succeed())
			Expect(sim.Execute(context.Background())).To(Succeed())
			Expect(sim.Clock()).To(Equal(uint64(3)))
		})

		It("stops the default visualization when the context ends", func() {
			const unbounded = `
framework:
  experiment: {random_seed: 1, ticks_per_second: 10}
arena: {size: "1,1,1"}
physics_engines: {}
arena_physics: {}
`
			sim := load(unbounded, simulator.WithRegistry(reg))
			Expect(sim.Init()).To(Succeed())
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			Expect(sim.Execute(ctx)).To(MatchError(context.Canceled))
			Expect(sim.IsExperimentFinished()).To(BeTrue())
		})
	})

	Describe("physics engines", func() {
		It("rejects a duplicate id and destroys the rejected engine", func() {
			doc := `
framework:
  experiment: {ticks_per_second: 10}
arena: {size: "1,1,1"}
physics_engines:
  - fake: {id: same}
  - fake: {id: same}
arena_physics: {}
`
			sim := load(doc, simulator.WithRegistry(reg))
			err := sim.Init()
			Expect(err).To(MatchError(simulator.ErrDuplicateEngine))
			Expect(err.Error()).To(ContainSubstring("failed to initialize the physics engines"))
			Expect(sim.PhysicsEngines()).To(HaveLen(1))
			Expect(created).To(HaveLen(2))
			Expect(created[0].destroyed).To(BeFalse())
			Expect(created[1].destroyed).To(BeTrue())

			sim.Destroy()
			Expect(sim.PhysicsEngines()).To(BeEmpty())
			Expect(created[0].destroyed).To(BeTrue())
		})

		It("destroys an engine whose Init fails", func() {
			doc := `
framework:
  experiment: {ticks_per_second: 10}
arena: {size: "1,1,1"}
physics_engines:
  - fake: {id: bad, fail: true}
arena_physics: {}
`
			sim := load(doc, simulator.WithRegistry(reg))
			err := sim.Init()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(`error initializing physics engine type "fake"`))
			Expect(sim.PhysicsEngines()).To(BeEmpty())
			Expect(created[0].destroyed).To(BeTrue())
		})

		It("rejects an unknown engine type", func() {
			doc := `
framework:
  experiment: {ticks_per_second: 10}
arena: {size: "1,1,1"}
physics_engines:
  - warp_drive: {id: w}
arena_physics: {}
`
			Expect(load(doc, simulator.WithRegistry(reg)).Init()).To(MatchError(simulator.ErrUnknownType))
		})

		It("resets engines in registration order", func() {
			sim := load(twoEngines, simulator.WithRegistry(reg))
			Expect(sim.Init()).To(Succeed())
			Expect(sim.Reset()).To(Succeed())
			Expect(created[0].resets).To(Equal(1))
			Expect(created[1].resets).To(Equal(1))
		})

		It("forbids creating generators while engines step", func() {
			sim := load(twoEngines, simulator.WithRegistry(reg))
			Expect(sim.Init()).To(Succeed())
			created[0].onUpdate = func() error {
				_, err := sim.RNGRegistry().CreateRNG(simulator.Category, "")
				return err
			}
			Expect(sim.UpdateSpace()).To(MatchError(random.ErrCreateDuringStep))
			_, err := sim.RNGRegistry().CreateRNG(simulator.Category, "")
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("entity to engine mapping", func() {
		mapping := func(pattern string) string {
			return `
framework:
  experiment: {ticks_per_second: 10}
arena:
  size: "20,20,1"
  box:
` + boxes("b0", "b1", "b2", "b10", "wall") + `
physics_engines:
  - fake: {id: e1}
arena_physics:
  engine:
    - id: e1
      entity: {id: "` + pattern + `"}
`
		}

		DescribeTable("attaches every match",
			func(pattern string, want []string) {
				sim := load(mapping(pattern), simulator.WithRegistry(reg))
				Expect(sim.Init()).To(Succeed())
				Expect(created[0].entities).To(Equal(want))
				Expect(created[0].NumEntities()).To(Equal(len(want)))
			},
			Entry("single digit", "b[0-9]", []string{"b0", "b1", "b2"}),
			Entry("any box id", "b.*", []string{"b0", "b1", "b2", "b10"}),
			Entry("alternation", "wall|b10", []string{"b10", "wall"}),
		)

		It("fails when a pattern matches nothing", func() {
			err := load(mapping("b"), simulator.WithRegistry(reg)).Init()
			Expect(err).To(MatchError(simulator.ErrNoMatchingEntity))
		})

		It("fails on an unknown engine id", func() {
			doc := `
framework:
  experiment: {ticks_per_second: 10}
arena:
  size: "20,20,1"
  box: {id: b0, body: {}}
physics_engines:
  - fake: {id: e1}
arena_physics:
  engine:
    - id: nope
      entity: {id: b0}
`
			Expect(load(doc, simulator.WithRegistry(reg)).Init()).To(MatchError(simulator.ErrUnknownEngine))
		})
	})

	Describe("controllers", func() {
		robotDoc := func(controllersSection, controller string) string {
			return `
framework:
  experiment: {random_seed: 3, ticks_per_second: 10}
` + controllersSection + `
arena:
  size: "10,10,1"
  robot: {id: r0, body: {}, controller: ` + controller + `}
physics_engines:
  - pointmass: {id: pm}
arena_physics:
  engine:
    - id: pm
      entity: {id: r0}
`
		}
		const defs = `
controllers:
  - pid: {id: homing, params: {target: "1,1", kp: 2}}
  - random_walk: {id: walker}
`
		controllerOf := func(sim *simulator.Simulator) controllers.Controller {
			e, ok := sim.Space().Entity("r0")
			Expect(ok).To(BeTrue())
			c, ok := entity.AsControllable(e)
			Expect(ok).To(BeTrue())
			return c.Controller()
		}

		It("uses a global definition by id", func() {
			sim := load(robotDoc(defs, "{config: homing}"))
			Expect(sim.Init()).To(Succeed())
			pid, ok := controllerOf(sim).(*controllers.PID)
			Expect(ok).To(BeTrue())
			Expect(pid.Kp).To(Equal(2.0))
			Expect(pid.Target).To(Equal([2]float64{1, 1}))

			def, err := sim.GetConfigForController("walker")
			Expect(err).NotTo(HaveOccurred())
			Expect(def.Name).To(Equal("random_walk"))
			_, err = sim.GetConfigForController("ghost")
			Expect(err).To(MatchError(simulator.ErrControllerConfig))
		})

		It("gives a definition without params an empty parameter node", func() {
			sim := load(robotDoc(defs, "{config: walker}"))
			Expect(sim.Init()).To(Succeed())
			Expect(controllerOf(sim)).To(BeAssignableToTypeOf(&controllers.RandomWalk{}))
		})

		It("prefers local params and takes the type from the attribute", func() {
			sim := load(robotDoc("", `{type: pid, params: {kp: 5}}`))
			Expect(sim.Init()).To(Succeed())
			pid, ok := controllerOf(sim).(*controllers.PID)
			Expect(ok).To(BeTrue())
			Expect(pid.Kp).To(Equal(5.0))
		})

		It("takes the type of local params from the referenced definition", func() {
			sim := load(robotDoc(defs, `{config: homing, params: {kp: 7}}`))
			Expect(sim.Init()).To(Succeed())
			pid, ok := controllerOf(sim).(*controllers.PID)
			Expect(ok).To(BeTrue())
			Expect(pid.Kp).To(Equal(7.0))
			Expect(pid.Target).To(Equal([2]float64{0, 0}))
		})

		DescribeTable("rejects unresolved controllers",
			func(section, controller string, target error) {
				Expect(load(robotDoc(section, controller)).Init()).To(MatchError(target))
			},
			Entry("unknown reference", defs, "{config: ghost}", simulator.ErrControllerConfig),
			Entry("local params without type", "", "{params: {kp: 1}}", simulator.ErrControllerConfig),
			Entry("definition without id", "controllers:\n  - pid: {params: {}}", "{config: x}", simulator.ErrControllerConfig),
			Entry("duplicate id", "controllers:\n  - pid: {id: a}\n  - lqr: {id: a}", "{config: a}", simulator.ErrDuplicateController),
			Entry("unknown type", "", "{type: telepathy, params: {}}", simulator.ErrUnknownType),
		)
	})

	Describe("randomness", func() {
		doc := func(threads int, method string, seed uint32) string {
			return fmt.Sprintf(swarm, threads, method, seed)
		}

		It("is independent of the threading configuration", func() {
			trace := func(threads int, method string) outcome {
				sim := load(doc(threads, method, 7))
				Expect(sim.Init()).To(Succeed())
				run(sim, 30)
				o := outcomeOf(sim)
				sim.Destroy()
				return o
			}
			want := trace(0, config.MethodScatterGather)
			Expect(want.pos).To(HaveLen(8))
			Expect(want.head).To(HaveLen(8))
			for _, threads := range []int{1, 2, 8} {
				for _, method := range []string{config.MethodScatterGather, config.MethodHDispatch} {
					Expect(trace(threads, method)).To(Equal(want), "%s with %d threads", method, threads)
				}
			}
		})

		It("rejects an unknown threading method", func() {
			Expect(load(doc(2, "round-robin", 1)).Init()).To(MatchError(space.ErrUnknownThreadingMethod))
		})

		It("lets options override the configured threading", func() {
			sim := load(doc(0, config.MethodScatterGather, 1), simulator.WithThreading(4, config.MethodHDispatch))
			Expect(sim.Init()).To(Succeed())
			Expect(sim.Framework().System.Threads).To(Equal(4))
			Expect(sim.Space().Strategy().Name()).To(Equal(config.MethodHDispatch))
		})

		It("applies a method override to the configured thread count", func() {
			sim := load(doc(3, config.MethodScatterGather, 1), simulator.WithThreadingMethod(config.MethodHDispatch))
			Expect(sim.Init()).To(Succeed())
			Expect(sim.Framework().System.Threads).To(Equal(3))
			Expect(sim.Space().Strategy().Name()).To(Equal(config.MethodHDispatch))
		})

		It("rejects an unknown method override", func() {
			sim := load(doc(2, config.MethodScatterGather, 1), simulator.WithThreadingMethod("round-robin"))
			Expect(sim.Init()).To(MatchError(space.ErrUnknownThreadingMethod))
		})

		It("keeps the argos category to one simulator per registry", func() {
			rngs := random.NewRegistry()
			first := load(doc(0, config.MethodScatterGather, 3), simulator.WithRNGRegistry(rngs))
			Expect(first.Init()).To(Succeed())
			rng := first.GetRNG()

			second := load(doc(0, config.MethodScatterGather, 3), simulator.WithRNGRegistry(rngs))
			Expect(second.Init()).To(MatchError(simulator.ErrCategoryInUse))
			second.Destroy()
			cat, err := rngs.Category(simulator.Category)
			Expect(err).NotTo(HaveOccurred())
			Expect(cat.RNGs()[0]).To(BeIdenticalTo(rng))

			first.Destroy()
			Expect(rngs.ExistsCategory(simulator.Category)).To(BeFalse())
			third := load(doc(0, config.MethodScatterGather, 3), simulator.WithRNGRegistry(rngs))
			Expect(third.Init()).To(Succeed())
		})

		It("restores the post-Init state on Reset", func() {
			sim := load(doc(2, config.MethodHDispatch, 11))
			Expect(sim.Init()).To(Succeed())
			posA, headA := positions(sim), headings(sim)
			drawsA := draws(sim.GetRNG(), 10)

			run(sim, 25)
			Expect(positions(sim)).NotTo(Equal(posA))
			Expect(sim.Reset()).To(Succeed())

			Expect(sim.Clock()).To(BeZero())
			Expect(positions(sim)).To(Equal(posA))
			Expect(headings(sim)).To(Equal(headA))
			Expect(draws(sim.GetRNG(), 10)).To(Equal(drawsA))
		})

		It("replays the same trajectory for the same explicit seed", func() {
			sim := load(doc(0, config.MethodScatterGather, 5))
			Expect(sim.Init()).To(Succeed())

			Expect(sim.ResetWithSeed(99)).To(Succeed())
			run(sim, 10)
			first := outcomeOf(sim)
			Expect(sim.ResetWithSeed(99)).To(Succeed())
			run(sim, 10)
			Expect(outcomeOf(sim)).To(Equal(first))
		})

		It("keeps an explicit seed across plain resets", func() {
			sim := load(doc(0, config.MethodScatterGather, 5))
			Expect(sim.Init()).To(Succeed())
			Expect(sim.Reset()).To(Succeed())
			Expect(sim.RandomSeed()).To(Equal(uint32(5)))

			Expect(sim.ResetWithSeed(8)).To(Succeed())
			Expect(sim.Reset()).To(Succeed())
			Expect(sim.RandomSeed()).To(Equal(uint32(8)))
			seed, err := sim.RNGRegistry().SeedOf(simulator.Category)
			Expect(err).NotTo(HaveOccurred())
			Expect(seed).To(Equal(uint32(8)))
		})

		It("prefers the seed option over random_seed", func() {
			sim := load(doc(0, config.MethodScatterGather, 5), simulator.WithSeed(1234))
			Expect(sim.Init()).To(Succeed())
			seed, err := sim.RNGRegistry().SeedOf(simulator.Category)
			Expect(err).NotTo(HaveOccurred())
			Expect(seed).To(Equal(uint32(1234)))
		})

		It("draws a wall-clock seed on every reset when none was set", func() {
			sim := load(doc(0, config.MethodScatterGather, 0))
			Expect(sim.Init()).To(Succeed())
			for range 2 {
				Expect(sim.Reset()).To(Succeed())
				seed, err := sim.RNGRegistry().SeedOf(simulator.Category)
				Expect(err).NotTo(HaveOccurred())
				Expect(seed).To(Equal(sim.RandomSeed()))

				state, err := sim.SaveRNGState()
				Expect(err).NotTo(HaveOccurred())
				a := draws(sim.GetRNG(), 8)
				Expect(sim.LoadRNGState(state)).To(Succeed())
				Expect(draws(sim.GetRNG(), 8)).To(Equal(a))
			}
		})

		It("checkpoints the registry without replacing handed out generators", func() {
			sim := load(doc(1, config.MethodScatterGather, 21))
			Expect(sim.Init()).To(Succeed())
			rng := sim.GetRNG()
			run(sim, 3)
			state, err := sim.SaveRNGState()
			Expect(err).NotTo(HaveOccurred())
			want := draws(rng, 4)

			run(sim, 5)
			Expect(sim.LoadRNGState(state)).To(Succeed())
			Expect(sim.GetRNG()).To(BeIdenticalTo(rng))
			Expect(draws(rng, 4)).To(Equal(want))
			Expect(sim.LoadRNGState([]byte{1, 2, 3})).To(MatchError(random.ErrCorruptState))
		})
	})

	Describe("configuration errors", func() {
		DescribeTable("fail Init with context",
			func(doc, context string) {
				err := load(doc, simulator.WithRegistry(reg)).Init()
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring(context))
			},
			Entry("missing framework", `arena: {size: "1,1,1"}`, "<framework>"),
			Entry("missing ticks_per_second", "framework:\n  experiment: {length: 1}", "<framework>"),
			Entry("missing arena", "framework:\n  experiment: {ticks_per_second: 10}", "failed to initialize the space"),
			Entry("missing arena size",
				"framework:\n  experiment: {ticks_per_second: 10}\narena: {}", "failed to initialize the space"),
			Entry("unknown visualization",
				"framework:\n  experiment: {ticks_per_second: 10}\narena: {size: \"1,1,1\"}\nphysics_engines: {}\narena_physics: {}\nvisualization: {hologram: {}}",
				"failed to initialize the visualization"),
			Entry("loop functions without label",
				"framework:\n  experiment: {ticks_per_second: 10}\nloop_functions: {}\narena: {size: \"1,1,1\"}",
				"error initializing loop functions"),
			Entry("unknown loop functions",
				"framework:\n  experiment: {ticks_per_second: 10}\nloop_functions: {label: nope}\narena: {size: \"1,1,1\"}",
				"error initializing loop functions"),
		)

		It("refuses Init before Load", func() {
			sim := simulator.New(simulator.WithLogger(quiet()))
			Expect(sim.Init()).To(MatchError(simulator.ErrNotLoaded))
			Expect(sim.UpdateSpace()).To(MatchError(simulator.ErrNotInitialized))
			Expect(sim.Reset()).To(MatchError(simulator.ErrNotInitialized))
			Expect(sim.Clock()).To(BeZero())
			sim.Destroy()
		})

		It("can be destroyed twice after a partial Init", func() {
			sim := load("framework:\n  experiment: {ticks_per_second: 10}", simulator.WithRegistry(reg))
			Expect(sim.Init()).NotTo(Succeed())
			sim.Destroy()
			sim.Destroy()
			Expect(sim.RNGRegistry().Categories()).To(BeEmpty())
		})
	})

	Describe("profiling and metrics", func() {
		It("flushes the profile on Destroy", func() {
			file := filepath.Join(GinkgoT().TempDir(), "profile.csv")
			doc := fmt.Sprintf(`
framework:
  experiment: {random_seed: 1, ticks_per_second: 10, length: 1}
  profiling: {file: %q, format: table}
arena: {size: "1,1,1"}
physics_engines: {}
arena_physics: {}
`, file)
			sim := load(doc, simulator.WithRegistry(reg))
			Expect(sim.Init()).To(Succeed())
			Expect(sim.Execute(context.Background())).To(Succeed())
			sim.Destroy()
			data, err := os.ReadFile(file)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(HavePrefix("label,"))
			Expect(string(data)).To(ContainSubstring("delta,"))
		})

		It("exports tick and reset counters", func() {
			m := profiler.NewMetrics()
			sim := load(twoEngines, simulator.WithRegistry(reg), simulator.WithMetrics(m))
			Expect(sim.Init()).To(Succeed())
			run(sim, 3)
			Expect(sim.Reset()).To(Succeed())

			rec := httptest.NewRecorder()
			m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
			body := rec.Body.String()
			Expect(body).To(ContainSubstring("argos_simulator_ticks_total 3"))
			Expect(body).To(ContainSubstring("argos_simulator_resets_total 1"))
			Expect(body).To(ContainSubstring("argos_space_entities 2"))
			Expect(body).To(ContainSubstring(`argos_physics_engine_entities{engine="e1"} 1`))
		})
	})
})

type outcome struct {
	pos   map[string][2]float64
	head  map[string]random.Radians
	draws []uint32
}

func outcomeOf(sim *simulator.Simulator) outcome {
	return outcome{pos: positions(sim), head: headings(sim), draws: draws(sim.GetRNG(), 3)}
}
