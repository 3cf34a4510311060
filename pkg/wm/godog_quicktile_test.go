package wm

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/cucumber/godog"

	"github.com/aios/wincore/internal/geom"
)

// quickTileWorld reproduces §8 scenario 3: tiling a window to a
// half-screen zone must remember the pre-tile frame so clearing the
// tile restores it exactly.
type quickTileWorld struct {
	space *Space
	win   *Window
}

func parseRect(x, y, width, height string) (geom.Rect, error) {
	xi, err := strconv.Atoi(x)
	if err != nil {
		return geom.Rect{}, err
	}
	yi, err := strconv.Atoi(y)
	if err != nil {
		return geom.Rect{}, err
	}
	wi, err := strconv.Atoi(width)
	if err != nil {
		return geom.Rect{}, err
	}
	hi, err := strconv.Atoi(height)
	if err != nil {
		return geom.Rect{}, err
	}
	return geom.Rect{X: xi, Y: yi, W: wi, H: hi}, nil
}

func (w *quickTileWorld) aSpaceWithAWindowAt(name, x, y, width, height string) error {
	r, err := parseRect(x, y, width, height)
	if err != nil {
		return err
	}
	w.space = newTestSpace()
	err = w.space.HandleEvent(context.Background(), WindowCreated{
		ClientID: 1,
		InitialAttrs: InitialAttrs{
			Title:        name,
			AcceptsFocus: true,
			ClientPos:    geom.Point{X: r.X, Y: r.Y},
			ClientSize:   geom.Size{W: r.W, H: r.H},
		},
	})
	if err != nil {
		return err
	}
	win, ok := w.space.Window(1)
	if !ok {
		return fmt.Errorf("window not managed")
	}
	win.Geometry.Frame = r
	w.win = win
	return nil
}

func (w *quickTileWorld) iQuickTileLeft(name string) error {
	w.win.Geometry.Frame = ApplyQuickTile(w.win, QuickTileLeft, w.space.primaryWorkArea())
	return nil
}

func (w *quickTileWorld) iClearQuickTile(name string) error {
	w.win.Geometry.Frame = ApplyQuickTile(w.win, QuickTileNone, w.space.primaryWorkArea())
	return nil
}

func (w *quickTileWorld) frameIs(name, x, y, width, height string) error {
	want, err := parseRect(x, y, width, height)
	if err != nil {
		return err
	}
	got := w.win.Geometry.Frame
	if got != want {
		return fmt.Errorf("expected frame %+v, got %+v", want, got)
	}
	return nil
}

func initializeQuickTileScenario(ctx *godog.ScenarioContext) {
	world := &quickTileWorld{}
	ctx.Step(`^a space with a window "([^"]*)" at (\d+),(\d+) size (\d+)x(\d+)$`, world.aSpaceWithAWindowAt)
	ctx.Step(`^I quick-tile "([^"]*)" left$`, world.iQuickTileLeft)
	ctx.Step(`^I clear "([^"]*)"'s quick-tile$`, world.iClearQuickTile)
	ctx.Step(`^"([^"]*)"'s frame is (\d+),(\d+) size (\d+)x(\d+)$`, world.frameIs)
}

func TestQuickTileFeature(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeQuickTileScenario,
		Options: &godog.Options{
			Format: "pretty",
			Paths:  []string{"features/quick_tile.feature"},
		},
	}
	if suite.Run() != 0 {
		t.Fatal("quick-tile feature scenario failed")
	}
}
