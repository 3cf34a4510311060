package wm

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"
)

// rulePersister owns the on-disk copy of the rule book: loading it at
// startup, watching it for external edits (fsnotify), and writing back
// "remember" edits with a debounce so a flurry of property changes does
// not turn into a flurry of disk writes (grounded on the original
// implementation's scheduleWriteRule debounce, carried forward into the
// Go idiom as a token-bucket limiter rather than a single deferred
// timer).
type rulePersister struct {
	path    string
	logger  *logrus.Logger
	limiter *rate.Limiter
	pending bool
	book    *RuleBook
	watcher *fsnotify.Watcher
}

// newRulePersister wires book to path, allowing at most one debounced
// write every window.
func newRulePersister(book *RuleBook, path string, window time.Duration, logger *logrus.Logger) *rulePersister {
	if logger == nil {
		logger = logrus.New()
	}
	p := &rulePersister{
		path:    path,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Every(window), 1),
		book:    book,
	}
	book.persist = p
	return p
}

// scheduleWrite marks a write as pending; Flush performs it once the
// limiter allows, so callers never block on disk I/O from the
// synchronous core event path.
func (p *rulePersister) scheduleWrite() {
	p.pending = true
}

// Flush writes the rule book to disk if a write is pending and the
// debounce limiter currently allows it. Callers are expected to call
// this from an idle tick rather than inline with every property change.
func (p *rulePersister) Flush() error {
	if !p.pending {
		return nil
	}
	if !p.limiter.Allow() {
		return nil
	}
	p.pending = false
	return saveRules(p.path, p.book.Rules())
}

// watch begins an fsnotify watch on the rule file itself so an
// external edit (the user hand-editing the rule file) triggers a
// reload. The caller is responsible for draining watcher.Events into
// book.Reload; wincore does not spawn a goroutine for this itself,
// keeping with the cooperative core, so this only sets the watch up and
// hands the channel back.
func (p *rulePersister) watch() (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("wincore: starting rule file watch: %w", err)
	}
	if err := w.Add(p.path); err != nil {
		w.Close()
		return nil, fmt.Errorf("wincore: watching rule file %s: %w", p.path, err)
	}
	p.watcher = w
	return w, nil
}

// ruleSectionPrefix names the ini section each rule occupies on disk, one
// section per rule ("Rule1", "Rule2", ...) the way kwinrulesrc lays its
// sections out.
const ruleSectionPrefix = "Rule"

// loadRules reads every "Rule N" section from an ini-format file via
// viper, skipping (not failing on) any section that does not parse into
// a valid predicate, per §7's "invalid rule: skip it".
func loadRules(path string) (rules []*Rule, skipped []error, err error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")
	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("wincore: reading rule file %s: %w", path, err)
	}

	count := v.GetInt("General.count")
	for i := 1; i <= count; i++ {
		section := fmt.Sprintf("%s%d", ruleSectionPrefix, i)
		sub := v.Sub(section)
		if sub == nil {
			skipped = append(skipped, fmt.Errorf("%w: missing section %s", ErrInvalidRule, section))
			continue
		}
		r, err := ruleFromViperSection(sub)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("%w: section %s: %v", ErrInvalidRule, section, err))
			continue
		}
		r.ID = RuleID(i)
		rules = append(rules, r)
	}
	return rules, skipped, nil
}

func ruleFromViperSection(sub *viper.Viper) (*Rule, error) {
	r := &Rule{
		Description: sub.GetString("description"),
		Predicate: Predicate{
			WMClass:        StringField{Value: sub.GetString("wmclass"), Mode: MatchMode(sub.GetInt("wmclassmatch"))},
			WMClassComplete: sub.GetBool("wmclasscomplete"),
			WindowRole:     StringField{Value: sub.GetString("windowrole"), Mode: MatchMode(sub.GetInt("windowrolematch"))},
			Title:          StringField{Value: sub.GetString("title"), Mode: MatchMode(sub.GetInt("titlematch"))},
			ClientMachine:  StringField{Value: sub.GetString("clientmachine"), Mode: MatchMode(sub.GetInt("clientmachinematch"))},
		},
	}
	if sub.GetString("wmclass") == "" && sub.GetString("windowrole") == "" && sub.GetString("title") == "" {
		return nil, fmt.Errorf("rule has no usable predicate")
	}
	r.Set.Desktop = Outcome[int]{Value: sub.GetInt("desktop"), Mode: RuleOutcomeMode(sub.GetInt("desktoprule"))}
	r.Set.Fullscreen = Outcome[bool]{Value: sub.GetBool("fullscreen"), Mode: RuleOutcomeMode(sub.GetInt("fullscreenrule"))}
	r.Set.NoBorder = Outcome[bool]{Value: sub.GetBool("noborder"), Mode: RuleOutcomeMode(sub.GetInt("noborderrule"))}
	r.Force.AcceptFocus = Outcome[bool]{Value: sub.GetBool("acceptfocus"), Mode: RuleOutcomeMode(sub.GetInt("acceptfocusrule"))}
	r.Force.FocusStealingPreventionLevel = Outcome[int]{Value: sub.GetInt("fsplevel"), Mode: RuleOutcomeMode(sub.GetInt("fspleveltrule"))}
	return r, nil
}

// saveRules serializes the current rule list back to an ini file via
// viper, one "Rule N" section per rule plus a General.count header.
func saveRules(path string, rules []*Rule) error {
	v := viper.New()
	v.SetConfigType("ini")
	v.Set("General.count", len(rules))
	for i, r := range rules {
		section := fmt.Sprintf("%s%d", ruleSectionPrefix, i+1)
		v.Set(section+".description", r.Description)
		v.Set(section+".wmclass", r.Predicate.WMClass.Value)
		v.Set(section+".wmclassmatch", strconv.Itoa(int(r.Predicate.WMClass.Mode)))
		v.Set(section+".wmclasscomplete", r.Predicate.WMClassComplete)
		v.Set(section+".windowrole", r.Predicate.WindowRole.Value)
		v.Set(section+".windowrolematch", strconv.Itoa(int(r.Predicate.WindowRole.Mode)))
		v.Set(section+".title", r.Predicate.Title.Value)
		v.Set(section+".titlematch", strconv.Itoa(int(r.Predicate.Title.Mode)))
		v.Set(section+".clientmachine", r.Predicate.ClientMachine.Value)
		v.Set(section+".clientmachinematch", strconv.Itoa(int(r.Predicate.ClientMachine.Mode)))
		v.Set(section+".desktop", r.Set.Desktop.Value)
		v.Set(section+".desktoprule", strconv.Itoa(int(r.Set.Desktop.Mode)))
		v.Set(section+".fullscreen", r.Set.Fullscreen.Value)
		v.Set(section+".fullscreenrule", strconv.Itoa(int(r.Set.Fullscreen.Mode)))
		v.Set(section+".noborder", r.Set.NoBorder.Value)
		v.Set(section+".noborderrule", strconv.Itoa(int(r.Set.NoBorder.Mode)))
		v.Set(section+".acceptfocus", r.Force.AcceptFocus.Value)
		v.Set(section+".acceptfocusrule", strconv.Itoa(int(r.Force.AcceptFocus.Mode)))
		v.Set(section+".fsplevel", r.Force.FocusStealingPreventionLevel.Value)
		v.Set(section+".fspleveltrule", strconv.Itoa(int(r.Force.FocusStealingPreventionLevel.Mode)))
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("wincore: writing rule file %s: %w", path, err)
	}
	return nil
}
