package model_test

import (
	"errors"
	"fmt"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/tgsim/internal/buildspec"
	"github.com/san-kum/tgsim/internal/model"
)

var _ = Describe("Model", func() {
	var (
		log *journal
		w   *tracingWorld
		m   *model.Model
		obs *spy
	)

	BeforeEach(func() {
		log = &journal{}
		w = newTracingWorld(log)
		m = model.New("test", blueprint{boxes: 2, registerTag: true})
		obs = &spy{name: "obs", log: log}
		m.Attach(obs)
	})

	Describe("Setup", func() {
		It("resolves the blueprint and notifies observers", func() {
			Expect(m.State()).To(Equal(model.Uninitialized))
			Expect(m.Setup(w)).To(Succeed())

			Expect(m.State()).To(Equal(model.Active))
			Expect(m.Bodies()).To(HaveLen(2))
			Expect(w.Bodies()).To(HaveLen(2))
			Expect(obs.setups).To(Equal(1))
		})

		It("rejects a second setup", func() {
			Expect(m.Setup(w)).To(Succeed())

			err := m.Setup(w)
			Expect(errors.Is(err, model.ErrLifecycle)).To(BeTrue())
			Expect(obs.setups).To(Equal(1))
			Expect(w.Bodies()).To(HaveLen(2))
		})

		It("rejects a nil world", func() {
			Expect(errors.Is(m.Setup(nil), model.ErrInvalidArgument)).To(BeTrue())
			Expect(m.State()).To(Equal(model.Uninitialized))
		})

		It("leaves nothing behind when a tag is unregistered", func() {
			m = model.New("broken", blueprint{boxes: 3, registerTag: false})
			m.Attach(obs)

			err := m.Setup(w)
			Expect(errors.Is(err, buildspec.ErrUnknownTag)).To(BeTrue())
			Expect(m.State()).To(Equal(model.Uninitialized))
			Expect(m.Bodies()).To(BeEmpty())
			Expect(w.Bodies()).To(BeEmpty())
			Expect(obs.setups).To(BeZero())
		})

		It("releases bodies when a child fails to set up", func() {
			Expect(m.AddChild(&child{log: log})).To(Succeed())
			Expect(m.AddChild(&child{log: log, failWith: errors.New("no power")})).To(Succeed())

			Expect(m.Setup(w)).NotTo(Succeed())
			Expect(m.State()).To(Equal(model.Uninitialized))
			Expect(w.Bodies()).To(BeEmpty())
			Expect(obs.setups).To(BeZero())
			Expect(log.entries).To(ContainElement("child:teardown"))
		})

		It("sets up children before notifying observers", func() {
			Expect(m.AddChild(&child{log: log})).To(Succeed())
			Expect(m.Setup(w)).To(Succeed())

			Expect(log.entries).To(ContainElements("child:setup", "obs:setup"))
			Expect(indexOf(log.entries, "child:setup")).To(BeNumerically("<", indexOf(log.entries, "obs:setup")))
		})

		It("allows a model without a blueprint", func() {
			group := model.New("group", nil)
			Expect(group.Setup(w)).To(Succeed())
			Expect(group.Bodies()).To(BeEmpty())
		})
	})

	Describe("Step", func() {
		It("fails before setup", func() {
			Expect(errors.Is(m.Step(0.01), model.ErrLifecycle)).To(BeTrue())
			Expect(obs.steps).To(BeEmpty())
		})

		DescribeTable("rejects a non-positive dt without side effects",
			func(dt float64) {
				Expect(m.Setup(w)).To(Succeed())
				before := len(log.entries)

				err := m.Step(dt)
				Expect(errors.Is(err, model.ErrInvalidArgument)).To(BeTrue())
				Expect(obs.steps).To(BeEmpty())
				Expect(log.entries).To(HaveLen(before))
				for _, b := range m.Bodies() {
					Expect(b.(*tracingBody).advance).To(BeZero())
				}
				Expect(m.State()).To(Equal(model.Active))
			},
			Entry("zero", 0.0),
			Entry("negative", -1.0),
			Entry("NaN", math.NaN()),
		)

		It("notifies the observer once before the bodies advance", func() {
			Expect(m.Setup(w)).To(Succeed())
			ids := []int{m.Bodies()[0].ID(), m.Bodies()[1].ID()}
			log.entries = nil

			var seen []float64
			obs.onStep = func(m *model.Model) {
				for _, b := range m.Bodies() {
					seen = append(seen, b.(*tracingBody).advance)
				}
			}

			Expect(m.Step(0.0166)).To(Succeed())

			Expect(obs.steps).To(Equal([]float64{0.0166}))
			Expect(seen).To(Equal([]float64{0, 0}))
			Expect(log.entries).To(Equal([]string{
				"obs:step",
				bodyStep(ids[0]),
				bodyStep(ids[1]),
			}))
			for _, b := range m.Bodies() {
				Expect(b.(*tracingBody).advance).To(BeNumerically("~", 0.0166, 1e-12))
			}
		})

		It("steps children after bodies", func() {
			c := &child{log: log}
			Expect(m.AddChild(c)).To(Succeed())
			Expect(m.Setup(w)).To(Succeed())
			log.entries = nil

			Expect(m.Step(0.01)).To(Succeed())
			Expect(log.entries[0]).To(Equal("obs:step"))
			Expect(log.entries[len(log.entries)-1]).To(Equal("child:step"))
			Expect(c.steps).To(Equal(1))
		})
	})

	Describe("Teardown", func() {
		It("notifies observers before releasing bodies", func() {
			Expect(m.Setup(w)).To(Succeed())
			log.entries = nil

			m.Teardown()

			Expect(m.State()).To(Equal(model.TornDown))
			Expect(log.entries[0]).To(Equal("obs:teardown"))
			Expect(log.entries[1:]).To(HaveEach(HavePrefix("body")))
			Expect(w.Bodies()).To(BeEmpty())
			Expect(m.Bodies()).To(BeEmpty())
		})

		It("is idempotent", func() {
			Expect(m.Setup(w)).To(Succeed())
			m.Teardown()
			m.Teardown()

			Expect(obs.teardown).To(Equal(1))
			Expect(m.State()).To(Equal(model.TornDown))
		})

		It("does nothing before setup", func() {
			m.Teardown()

			Expect(obs.teardown).To(BeZero())
			Expect(m.State()).To(Equal(model.Uninitialized))
			Expect(m.Setup(w)).To(Succeed())
		})

		It("forbids stepping and setting up again", func() {
			Expect(m.Setup(w)).To(Succeed())
			m.Teardown()

			Expect(errors.Is(m.Step(0.01), model.ErrLifecycle)).To(BeTrue())
			Expect(errors.Is(m.Setup(w), model.ErrLifecycle)).To(BeTrue())
		})

		It("tears children down in reverse order", func() {
			Expect(m.AddChild(&child{name: "first", log: log})).To(Succeed())
			Expect(m.AddChild(&child{name: "second", log: log})).To(Succeed())
			Expect(m.Setup(w)).To(Succeed())
			log.entries = nil
			m.Teardown()

			Expect(log.entries[:3]).To(Equal([]string{"obs:teardown", "second:teardown", "first:teardown"}))
			Expect(errors.Is(m.AddChild(&child{log: log}), model.ErrLifecycle)).To(BeTrue())
		})
	})

	Describe("Observers", func() {
		It("ignores duplicate attachment", func() {
			m.Attach(obs)
			Expect(m.Observers()).To(HaveLen(1))
		})

		It("does not replay setup to late observers", func() {
			Expect(m.Setup(w)).To(Succeed())
			late := &spy{name: "late", log: log}
			m.Attach(late)

			Expect(m.Step(0.01)).To(Succeed())
			m.Teardown()

			Expect(late.setups).To(BeZero())
			Expect(late.steps).To(HaveLen(1))
			Expect(late.teardown).To(Equal(1))
		})

		It("stops notifying detached observers", func() {
			Expect(m.Setup(w)).To(Succeed())
			Expect(m.Detach(obs)).To(BeTrue())
			Expect(m.Detach(obs)).To(BeFalse())

			Expect(m.Step(0.01)).To(Succeed())
			Expect(obs.steps).To(BeEmpty())
		})

		It("defers changes made during a notification pass", func() {
			other := &spy{name: "other", log: log}
			m.Attach(other)
			newcomer := &spy{name: "newcomer", log: log}

			obs.onStep = func(m *model.Model) {
				m.Detach(other)
				m.Attach(newcomer)
			}
			Expect(m.Setup(w)).To(Succeed())

			Expect(m.Step(0.01)).To(Succeed())
			Expect(other.steps).To(HaveLen(1))
			Expect(newcomer.steps).To(BeEmpty())

			obs.onStep = nil
			Expect(m.Step(0.01)).To(Succeed())
			Expect(other.steps).To(HaveLen(1))
			Expect(newcomer.steps).To(HaveLen(1))
		})
	})

	Describe("Visit", func() {
		It("walks the model, its bodies and child models", func() {
			sub := model.New("sub", blueprint{boxes: 1, registerTag: true})
			Expect(m.AddChild(sub)).To(Succeed())
			Expect(m.Setup(w)).To(Succeed())

			c := &counter{}
			m.Visit(c)
			Expect(c.models).To(Equal(2))
			Expect(c.bodies).To(Equal(3))
		})
	})
})

func bodyStep(id int) string {
	return fmt.Sprintf("body%d:step", id)
}
