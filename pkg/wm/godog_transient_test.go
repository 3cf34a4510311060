package wm

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/aios/wincore/internal/geom"
)

// transientWorld reproduces §8 scenario 1: a modal dialog's ancestor
// chain must be pulled directly beneath it, not left behind a sibling
// that happened to be raised first.
type transientWorld struct {
	space  *Space
	byName map[string]WindowID
	nextID WindowID
}

func (w *transientWorld) spaceWithWindowsManagedInOrder(a, b string) error {
	w.space = newTestSpace()
	w.byName = map[string]WindowID{}
	w.nextID = 1
	for _, name := range []string{a, b} {
		id := w.nextID
		w.nextID++
		if err := w.space.HandleEvent(context.Background(), WindowCreated{
			ClientID: id,
			InitialAttrs: InitialAttrs{
				Title:        name,
				AcceptsFocus: true,
				ClientSize:   geom.Size{W: 200, H: 150},
			},
		}); err != nil {
			return err
		}
		w.byName[name] = id
	}
	return nil
}

func (w *transientWorld) iCreateWindowAsAModalTransientFor(child, parent string) error {
	parentID, ok := w.byName[parent]
	if !ok {
		return fmt.Errorf("no window named %q has been created yet", parent)
	}
	id := w.nextID
	w.nextID++
	err := w.space.HandleEvent(context.Background(), WindowCreated{
		ClientID: id,
		InitialAttrs: InitialAttrs{
			Title:        child,
			AcceptsFocus: true,
			TransientFor: parentID,
			Modal:        true,
			ClientSize:   geom.Size{W: 200, H: 150},
		},
	})
	if err != nil {
		return err
	}
	w.byName[child] = id
	return nil
}

func (w *transientWorld) iCloseWindow(name string) error {
	id, ok := w.byName[name]
	if !ok {
		return fmt.Errorf("no window named %q has been created yet", name)
	}
	return w.space.HandleEvent(context.Background(), WindowDestroyed{ID: id})
}

func (w *transientWorld) theStackingOrderIs(expected string) error {
	var want []WindowID
	for _, name := range strings.Split(expected, ", ") {
		name = strings.Trim(name, `"`)
		id, ok := w.byName[name]
		if !ok {
			return fmt.Errorf("no window named %q has been created yet", name)
		}
		want = append(want, id)
	}
	got := w.space.StackingList()
	if len(got) != len(want) {
		return fmt.Errorf("expected stacking order %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("expected stacking order %v, got %v", want, got)
		}
	}
	return nil
}

func initializeTransientRestackScenario(ctx *godog.ScenarioContext) {
	world := &transientWorld{}
	ctx.Step(`^a space with windows "([^"]*)" and "([^"]*)" managed in that order$`, world.spaceWithWindowsManagedInOrder)
	ctx.Step(`^I create window "([^"]*)" as a modal transient for "([^"]*)"$`, world.iCreateWindowAsAModalTransientFor)
	ctx.Step(`^I close window "([^"]*)"$`, world.iCloseWindow)
	ctx.Step(`^the stacking order is (.+)$`, world.theStackingOrderIs)
}

func TestTransientRestackFeature(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeTransientRestackScenario,
		Options: &godog.Options{
			Format: "pretty",
			Paths:  []string{"features/transient_restack.feature"},
		},
	}
	if suite.Run() != 0 {
		t.Fatal("transient restack feature scenario failed")
	}
}
