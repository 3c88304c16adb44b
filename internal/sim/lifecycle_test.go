package sim_test

import (
	"bytes"
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/telesim/internal/generators"
	"github.com/san-kum/telesim/internal/logging"
	"github.com/san-kum/telesim/internal/sim"
)

var _ = Describe("Simulation lifecycle", func() {
	var (
		ctx       context.Context
		overrides map[string]interface{}
	)

	BeforeEach(func() {
		ctx = context.Background()
		overrides = map[string]interface{}{"integration_time": 4.0, "sample_rate": 5.0}
	})

	Context("with a staring point source", func() {
		It("puts the central detector on the source", func() {
			s, err := sim.New(ctx, sim.Options{
				Overrides: overrides,
				Generator: generators.NewPointSource(nil),
			})
			Expect(err).NotTo(HaveOccurred())

			out, err := s.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Abscal).To(Equal(1.0))

			signal := out.Data["point_source"]
			Expect(signal).To(HaveLen(s.Instrument().NDets()))
			Expect(signal[0][0]).To(BeNumerically("~", 1, 1e-9))
			Expect(signal[len(signal)-1][0]).To(BeNumerically("<", 1e-6))
		})

		It("recovers the unattenuated flux through abscal", func() {
			s, err := sim.New(ctx, sim.Options{
				Overrides: overrides,
				Generator: generators.NewPointSource(map[string]float64{"tau": 0.1}),
			})
			Expect(err).NotTo(HaveOccurred())

			out, err := s.Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			want := math.Exp(-0.1 / math.Sin(math.Pi/3))
			Expect(out.Data["point_source"][0][0]).To(BeNumerically("~", want, 1e-9))
			Expect(out.Abscal * out.Data["point_source"][0][0]).To(BeNumerically("~", 1, 1e-9))
		})
	})

	Context("when constructed twice", func() {
		It("keeps the first boresight and detector coordinates", func() {
			s, err := sim.New(ctx, sim.Options{Overrides: overrides})
			Expect(err).NotTo(HaveOccurred())

			boresight, detCoords := s.Boresight(), s.DetCoords()
			Expect(s.Construct(ctx)).To(Succeed())
			Expect(s.Boresight()).To(BeIdenticalTo(boresight))
			Expect(s.DetCoords()).To(BeIdenticalTo(detCoords))
		})
	})

	Context("when the scan outruns the mount", func() {
		BeforeEach(func() {
			overrides["scan_radius"] = 10.0
			overrides["scan_period"] = 2.0
		})

		It("warns without aborting and still runs", func() {
			var buf bytes.Buffer
			s, err := sim.New(ctx, sim.Options{
				ScanPattern: "back_and_forth",
				Overrides:   overrides,
				Logger:      logging.NewWithWriter(&buf, "warn"),
				Generator:   generators.NewUniform(map[string]float64{"level": 3}),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Warnings()).NotTo(BeEmpty())
			Expect(s.Warnings()[0]).To(MatchError(sim.ErrKinematicLimit))
			Expect(buf.String()).To(ContainSubstring("exceeds instrument limit"))

			out, err := s.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Data["uniform"][0]).To(HaveEach(3.0))
		})
	})

	Context("without a generator", func() {
		It("fails to run", func() {
			s, err := sim.New(ctx, sim.Options{Overrides: overrides})
			Expect(err).NotTo(HaveOccurred())
			_, err = s.Run(ctx)
			Expect(err).To(MatchError(sim.ErrNotImplemented))
		})
	})
})
