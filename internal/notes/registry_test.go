package notes_test

import (
	"math"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cymatics/internal/notes"
)

var _ = Describe("Registry", func() {
	var reg *notes.Registry

	BeforeEach(func() {
		reg = notes.NewRegistry()
	})

	It("starts empty", func() {
		Expect(reg.Len()).To(Equal(0))
		Expect(reg.Snapshot()).To(BeEmpty())
		Expect(reg.Frequencies()).To(BeNil())
	})

	Describe("NoteOn", func() {
		It("adds a sounding note", func() {
			Expect(reg.NoteOn("A4", 440)).To(Succeed())
			Expect(reg.Len()).To(Equal(1))
			Expect(reg.Active("A4")).To(BeTrue())
			Expect(reg.Frequencies()).To(Equal([]float64{440}))
		})

		It("replaces rather than duplicates a held id", func() {
			Expect(reg.NoteOn("k", 440)).To(Succeed())
			Expect(reg.NoteOn("k", 880)).To(Succeed())

			snap := reg.Snapshot()
			Expect(snap).To(HaveLen(1))
			Expect(snap[0].Frequency).To(Equal(880.0))
		})

		DescribeTable("rejects unusable frequencies",
			func(f float64) {
				Expect(reg.NoteOn("bad", f)).To(MatchError(notes.ErrInvalidFrequency))
				Expect(reg.Len()).To(Equal(0))
			},
			Entry("zero", 0.0),
			Entry("negative", -220.0),
			Entry("NaN", math.NaN()),
			Entry("infinite", math.Inf(1)),
		)
	})

	Describe("NoteOff", func() {
		It("removes a sounding note", func() {
			Expect(reg.NoteOn("C4", 261.63)).To(Succeed())
			Expect(reg.NoteOff("C4")).To(BeTrue())
			Expect(reg.Len()).To(Equal(0))
		})

		It("reports false for a note that is not sounding", func() {
			Expect(reg.NoteOff("nothing")).To(BeFalse())
		})
	})

	Describe("Toggle", func() {
		It("alternates between on and off", func() {
			on, err := reg.Toggle("E4", 329.63)
			Expect(err).NotTo(HaveOccurred())
			Expect(on).To(BeTrue())

			on, err = reg.Toggle("E4", 329.63)
			Expect(err).NotTo(HaveOccurred())
			Expect(on).To(BeFalse())
			Expect(reg.Len()).To(Equal(0))
		})
	})

	Describe("Snapshot", func() {
		It("orders notes by onset", func() {
			Expect(reg.NoteOn("G4", 392)).To(Succeed())
			Expect(reg.NoteOn("C4", 261.63)).To(Succeed())
			Expect(reg.NoteOn("E4", 329.63)).To(Succeed())

			Expect(reg.Frequencies()).To(Equal([]float64{392, 261.63, 329.63}))
		})

		It("moves a retriggered note to the end", func() {
			Expect(reg.NoteOn("a", 100)).To(Succeed())
			Expect(reg.NoteOn("b", 200)).To(Succeed())
			Expect(reg.NoteOn("a", 150)).To(Succeed())

			Expect(reg.Frequencies()).To(Equal([]float64{200, 150}))
		})

		It("is isolated from later changes", func() {
			Expect(reg.NoteOn("A4", 440)).To(Succeed())
			snap := reg.Snapshot()

			reg.Clear()
			Expect(reg.NoteOn("B4", 493.88)).To(Succeed())

			Expect(snap).To(HaveLen(1))
			Expect(snap[0].ID).To(Equal("A4"))
		})
	})

	It("clears every note", func() {
		Expect(reg.NoteOn("a", 100)).To(Succeed())
		Expect(reg.NoteOn("b", 200)).To(Succeed())
		reg.Clear()
		Expect(reg.Len()).To(Equal(0))
	})

	It("tolerates concurrent writers and readers", func() {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer GinkgoRecover()
				defer wg.Done()
				id := notes.Name(60 + i)
				for j := 0; j < 100; j++ {
					Expect(reg.NoteOn(id, notes.Frequency(60+i))).To(Succeed())
					_ = reg.Snapshot()
					reg.NoteOff(id)
				}
			}(i)
		}
		wg.Wait()
		Expect(reg.Len()).To(Equal(0))
	})
})
