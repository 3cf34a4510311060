package wm

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/aios/wincore/internal/geom"
)

// manageWindow mirrors createTestWindow (space_test.go) without needing
// a *testing.T, since Ginkgo specs assert through Gomega's Expect
// rather than the testify/require helpers createTestWindow uses.
func manageWindow(s *Space, id WindowID) *Window {
	err := s.HandleEvent(context.Background(), WindowCreated{
		ClientID: id,
		InitialAttrs: InitialAttrs{
			Title:        "test window",
			Class:        "testapp",
			AcceptsFocus: true,
			ClientSize:   geom.Size{W: 300, H: 200},
			ClientPos:    geom.Point{X: 10, Y: 10},
		},
	})
	Expect(err).NotTo(HaveOccurred())
	w, ok := s.Window(id)
	Expect(ok).To(BeTrue())
	return w
}

// These specs check cross-cutting invariants that hold no matter which
// sequence of events produced the current Space, rather than any single
// operation's direct effect, so Ginkgo's nested Describe/Context tables
// read better here than one-off testify assertions.
var _ = Describe("Space", func() {
	var s *Space

	BeforeEach(func() {
		s = newTestSpace()
	})

	Describe("focus", func() {
		It("never reports more than one active window", func() {
			manageWindow(s, 1)
			manageWindow(s, 2)

			Expect(s.ActivateWindow(1, true)).To(Succeed())
			Expect(s.focus.Active()).To(Equal(WindowID(1)))

			Expect(s.ActivateWindow(2, true)).To(Succeed())
			Expect(s.focus.Active()).To(Equal(WindowID(2)))
		})

		It("clears the active window once it is unmanaged", func() {
			manageWindow(s, 1)
			Expect(s.ActivateWindow(1, true)).To(Succeed())

			Expect(s.HandleEvent(context.Background(), WindowDestroyed{ID: 1})).To(Succeed())
			Expect(s.focus.Active()).To(Equal(WindowID(0)))
		})
	})

	Describe("stacking", func() {
		It("keeps every managed window present exactly once", func() {
			for i := WindowID(1); i <= 5; i++ {
				manageWindow(s, i)
			}

			list := s.StackingList()
			Expect(list).To(HaveLen(5))
			seen := map[WindowID]bool{}
			for _, id := range list {
				Expect(seen[id]).To(BeFalse(), "a window must not appear twice in the stacking list")
				seen[id] = true
			}
		})

		It("keeps a transient directly above its parent's position", func() {
			parent := manageWindow(s, 1)
			child := manageWindow(s, 2)
			child.Parent = parent.ID
			parent.Children[child.ID] = struct{}{}
			s.stacking.Restack(s.windows)

			list := s.stacking.List()
			parentIdx, childIdx := -1, -1
			for i, id := range list {
				if id == parent.ID {
					parentIdx = i
				}
				if id == child.ID {
					childIdx = i
				}
			}
			Expect(childIdx).To(Equal(parentIdx + 1))
		})
	})

	Describe("geometry", func() {
		It("never leaves a mapped window with a zero-area frame", func() {
			w := manageWindow(s, 1)
			Expect(w.Geometry.Frame.W).To(BeNumerically(">", 0))
			Expect(w.Geometry.Frame.H).To(BeNumerically(">", 0))
		})

		It("keeps quick-tiled geometry within the work area", func() {
			w := manageWindow(s, 1)
			work := s.primaryWorkArea()
			w.Geometry.Frame = ApplyQuickTile(w, QuickTileLeft, work)

			Expect(w.Geometry.Frame.X).To(BeNumerically(">=", work.X))
			Expect(w.Geometry.Frame.Right()).To(BeNumerically("<=", work.Right()))
			Expect(w.Geometry.Frame.Bottom()).To(BeNumerically("<=", work.Bottom()))
		})
	})

	Describe("compositor wiring", func() {
		It("never calls the compositor for a Space built with none wired", func() {
			w := manageWindow(s, 1)
			Expect(func() {
				Expect(s.HandleEvent(context.Background(), WindowDestroyed{ID: w.ID})).To(Succeed())
			}).NotTo(Panic())
		})
	})
})
