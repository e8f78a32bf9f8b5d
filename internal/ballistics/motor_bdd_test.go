package ballistics_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/burnsim/internal/ballistics"
	"github.com/san-kum/burnsim/internal/motor"
)

var _ = Describe("Simulator", func() {
	var (
		grains []motor.Geometry
		nozzle *motor.Nozzle
		casing *motor.Case
		cfg    ballistics.Config
	)

	BeforeEach(func() {
		g, err := motor.NewCylindrical(4, 1.5, 0.5, 2)
		Expect(err).NotTo(HaveOccurred())
		grains = []motor.Geometry{g}

		nozzle, err = motor.NewNozzle(0.25, 1.0, 0.6, 1.4, 1)
		Expect(err).NotTo(HaveOccurred())
		casing, err = motor.NewCase(0.5, 1.75, 6)
		Expect(err).NotTo(HaveOccurred())

		cfg = ballistics.DefaultConfig()
	})

	Context("with one BATES grain", func() {
		var result *ballistics.Result

		BeforeEach(func() {
			var err error
			result, err = ballistics.New(grains, nozzle, casing, ballistics.StockFit()).Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())
		})

		It("records one snapshot per step at multiples of dt", func() {
			Expect(result.Snapshots).NotTo(BeEmpty())
			for i, s := range result.Snapshots {
				Expect(s.Step).To(Equal(i + 1))
				Expect(s.Time).To(BeNumerically("~", float64(i+1)*cfg.Dt, 1e-9))
			}
		})

		It("stays inside the calibration window", func() {
			Expect(result.Warnings).To(BeEmpty())
			for _, s := range result.Snapshots {
				Expect(s.NonPhysical).To(BeFalse())
				Expect(s.ChamberPressure).To(BeNumerically(">", 0))
			}
		})

		It("ends with the grain burnt out", func() {
			final, ok := result.Final()
			Expect(ok).To(BeTrue())
			Expect(final.Burning).To(Equal([]bool{false}))
			Expect(grains[0].InnerDiameter()).To(Equal(grains[0].OuterDiameter()))
		})

		It("summarizes to a classified motor", func() {
			s := ballistics.Summarize(result)
			Expect(s.TotalImpulse).To(BeNumerically(">", 0))
			Expect(s.Classification).NotTo(BeEmpty())
			Expect(s.Designation).To(HavePrefix(s.Classification))
			Expect(s.MassFraction).To(BeNumerically(">", 0))
			Expect(s.MassFraction).To(BeNumerically("<", 1))
			Expect(s.PeakThrust).To(BeNumerically(">=", s.AverageThrust))
		})
	})

	Context("when re-run from clones", func() {
		It("reproduces the first run exactly", func() {
			fresh := []motor.Geometry{grains[0].Clone()}

			first, err := ballistics.New(grains, nozzle, casing, nil).Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())
			second, err := ballistics.New(fresh, nozzle, casing, nil).Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(second.Snapshots).To(Equal(first.Snapshots))
		})
	})

	Context("when the correlation regrows propellant", func() {
		It("fails with the grain index and restores its geometry", func() {
			fit := ballistics.LinearFit{PressureSlope: 1, RateIntercept: -0.05}
			_, err := ballistics.New(grains, nozzle, casing, fit).Run(context.Background(), cfg)

			Expect(err).To(MatchError(motor.ErrNumericalInconsistency))
			var simErr *ballistics.SimulationError
			Expect(errors.As(err, &simErr)).To(BeTrue())
			Expect(simErr.Grain).To(Equal(0))
			Expect(grains[0].Length()).To(Equal(4.0))
		})
	})
})
