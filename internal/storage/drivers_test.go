package storage

import (
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/burnsim/internal/ballistics"
)

var _ = Describe("Store drivers", func() {
	var result *ballistics.Result

	BeforeEach(func() {
		result = runMotor(GinkgoT(), 3)
	})

	open := func(driver string) Store {
		dir := GinkgoT().TempDir()
		path := dir
		if driver == "sqlite" {
			path = filepath.Join(dir, "runs.db")
		}
		s, err := Open(driver, path)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Init()).To(Succeed())
		DeferCleanup(s.Close)
		return s
	}

	DescribeTable("round-trips a run",
		func(driver string) {
			s := open(driver)

			id, err := s.Save(RunMetadata{Name: "bates"}, result)
			Expect(err).NotTo(HaveOccurred())

			meta, err := s.Load(id)
			Expect(err).NotTo(HaveOccurred())
			Expect(meta.Name).To(Equal("bates"))
			Expect(meta.Grains).To(Equal(3))
			Expect(meta.Summary).To(Equal(ballistics.Summarize(result)))

			trace, err := s.LoadTrace(id)
			Expect(err).NotTo(HaveOccurred())
			Expect(trace).To(HaveLen(len(result.Snapshots)))
			Expect(trace[0].Kn).To(Equal(result.Snapshots[0].Kn))
			Expect(trace[len(trace)-1].SystemMass).To(Equal(result.Snapshots[len(trace)-1].SystemMass))

			runs, err := s.List()
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(1))
			Expect(runs[0].ID).To(Equal(id))
		},
		Entry("filesystem", "fs"),
		Entry("sqlite", "sqlite"),
	)

	DescribeTable("reports missing runs",
		func(driver string) {
			s := open(driver)
			_, err := s.Load("nope")
			Expect(err).To(MatchError(ErrNotFound))
			_, err = s.LoadTrace("nope")
			Expect(err).To(MatchError(ErrNotFound))
		},
		Entry("filesystem", "fs"),
		Entry("sqlite", "sqlite"),
	)

	DescribeTable("renders archive artifacts",
		func(driver string) {
			s := open(driver)
			id, err := s.Save(RunMetadata{Name: "push"}, result)
			Expect(err).NotTo(HaveOccurred())

			artifacts, err := Artifacts(s, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(artifacts).To(HaveLen(2))
			Expect(artifacts[0].Name).To(Equal("metadata.json"))
			Expect(string(artifacts[0].Body)).To(ContainSubstring(id))
			Expect(artifacts[1].Name).To(Equal("trace.csv"))

			lines := strings.Split(strings.TrimSpace(string(artifacts[1].Body)), "\n")
			Expect(lines).To(HaveLen(len(result.Snapshots) + 1))
			Expect(lines[0]).To(HavePrefix("Time (seconds),Pressure (psi)"))
		},
		Entry("filesystem", "fs"),
		Entry("sqlite", "sqlite"),
	)

	It("orders sqlite runs newest first", func() {
		s := open("sqlite")
		first, err := s.Save(RunMetadata{Name: "a"}, result)
		Expect(err).NotTo(HaveOccurred())
		second, err := s.Save(RunMetadata{Name: "b"}, result)
		Expect(err).NotTo(HaveOccurred())

		runs, err := s.List()
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(HaveLen(2))
		Expect(runs[0].ID).To(Equal(second))
		Expect(runs[1].ID).To(Equal(first))
	})
})
