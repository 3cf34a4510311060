package wm

import (
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/aios/wincore/internal/geom"
)

// MatchMode is how a rule predicate field is compared against a window
// attribute (§4.C).
type MatchMode int

const (
	MatchUnimportant MatchMode = iota
	MatchExact
	MatchSubstring
	MatchRegex
)

// RuleOutcomeMode is how a matched rule's outcome value interacts with
// the caller-requested value (§4.C / §3 "rules" field).
type RuleOutcomeMode int

const (
	OutcomeUnused RuleOutcomeMode = iota
	OutcomeDontAffect
	OutcomeForce
	OutcomeApply
	OutcomeRemember
	OutcomeApplyNow
	OutcomeForceTemporarily
)

// StringField is a predicate field with its match mode.
type StringField struct {
	Value string
	Mode  MatchMode
}

func (f StringField) matches(candidate string) bool {
	switch f.Mode {
	case MatchUnimportant:
		return true
	case MatchExact:
		return candidate == f.Value
	case MatchSubstring:
		return strings.Contains(candidate, f.Value)
	case MatchRegex:
		re, err := regexp.Compile(f.Value)
		if err != nil {
			return false
		}
		return re.MatchString(candidate)
	default:
		return false
	}
}

// Predicate is the left-hand side of a rule: every non-unimportant field
// must match for the rule to apply.
type Predicate struct {
	WMClass            StringField
	WMClassComplete     bool // match "instance class" (space-joined) instead of "class"
	WindowRole         StringField
	Title              StringField
	ClientMachine      StringField
	ClientMachineLocal bool // treat localhost == host
	WindowTypeMask     uint32
	WindowTypeImportant bool
}

func (p Predicate) matches(w *Window, hostname string) bool {
	if p.WMClass.Mode != MatchUnimportant {
		candidate := w.Class
		if p.WMClassComplete {
			candidate = w.Instance + " " + w.Class
		}
		if !p.WMClass.matches(candidate) {
			return false
		}
	}
	if !p.WindowRole.matches(w.Role) {
		return false
	}
	if !p.Title.matches(w.Title) {
		return false
	}
	if p.ClientMachine.Mode != MatchUnimportant {
		machine := w.Machine
		if p.ClientMachineLocal && (machine == "localhost" || machine == hostname) {
			machine = hostname
		}
		if !p.ClientMachine.matches(machine) {
			return false
		}
	}
	if p.WindowTypeImportant && p.WindowTypeMask&(1<<uint(w.Type)) == 0 {
		return false
	}
	return true
}

// Outcome is one rule-governed property: a value plus the mode that
// decides how the value interacts with the caller's request.
type Outcome[T any] struct {
	Value T
	Mode  RuleOutcomeMode
	set   bool // distinguishes "outcome present with zero value" from "not present"
}

// SetRules bundles the *set-rules* outcomes of §3 (everything the manage
// step and the setters consult, other than the force-only ones below).
type SetRules struct {
	Position         Outcome[geom.Point]
	Size             Outcome[geom.Size]
	Desktop          Outcome[int]
	Screen           Outcome[int]
	Shade            Outcome[bool]
	Minimize         Outcome[bool]
	SkipTaskbar      Outcome[bool]
	SkipPager        Outcome[bool]
	SkipSwitcher     Outcome[bool]
	KeepAbove        Outcome[bool]
	KeepBelow        Outcome[bool]
	Fullscreen       Outcome[bool]
	NoBorder         Outcome[bool]
	MaximizeHoriz    Outcome[bool]
	MaximizeVert     Outcome[bool]
	IgnoreGeometry   Outcome[bool]
	Shortcut         Outcome[string]
	DesktopFile      Outcome[string]
	OpacityActive    Outcome[float64]
	OpacityInactive  Outcome[float64]
}

// ForceRules bundles the *force-rules* outcomes of §3. Force rules only
// ever take mode {unused, don't-affect, force, force-temporarily}.
type ForceRules struct {
	AcceptFocus                 Outcome[bool]
	BlockCompositing            Outcome[bool]
	MinSize                     Outcome[geom.Size]
	MaxSize                     Outcome[geom.Size]
	Placement                   Outcome[string]
	StrictGeometry              Outcome[bool]
	DecoColor                   Outcome[string]
	FocusStealingPreventionLevel Outcome[int]
	FocusProtectionLevel        Outcome[int]
	Autogroup                   Outcome[bool]
	AutogroupFG                 Outcome[bool]
	AutogroupID                 Outcome[string]
	DisableGlobalShortcuts      Outcome[bool]
	WindowType                  Outcome[WindowType]
}

// RuleSnapshot is the window's matched-rule memory (§3 "rules: a
// snapshot of matched rules governing this window"). Holding the rule
// ids (not the rules themselves) lets RuleBook edit "remember" rules in
// place without the window needing updating.
type RuleSnapshot struct {
	Set      SetRules
	Force    ForceRules
	RuleIDs  []RuleID // every rule that matched, in match order
	Temporary map[RuleID]bool // true for rules that must self-delete on withdraw
}

// Rule is one entry in the rule book: a predicate plus its outcomes.
type Rule struct {
	ID          RuleID
	Description string
	Predicate   Predicate
	Set         SetRules
	Force       ForceRules
	// ApplyNowConsumed tracks whether an apply-now outcome in this rule
	// has already fired once, ever, on any window (§4.C).
	applyNowConsumed map[string]bool
}

// RuleBook matches windows against an ordered list of rules and folds
// the result into a RuleSnapshot, the way window_rules_engine.go folds
// WindowRule conditions into a RuleExecution — but evaluated purely and
// synchronously (no worker pool: the core is single-threaded, §5).
type RuleBook struct {
	logger   *logrus.Logger
	hostname string
	alloc    *idAllocator
	rules    []*Rule
	persist  *rulePersister
}

// NewRuleBook constructs an empty rule book.
func NewRuleBook(logger *logrus.Logger, hostname string) *RuleBook {
	if logger == nil {
		logger = logrus.New()
	}
	return &RuleBook{logger: logger, hostname: hostname, alloc: newIDAllocator()}
}

// Add appends a rule, assigning it the next id if unset. Ids are never
// reused even after a Remove, so a stale id (e.g. held by a settings UI
// across an edit) can never silently come to name a different rule.
func (rb *RuleBook) Add(r *Rule) RuleID {
	if r.ID == 0 {
		r.ID = rb.alloc.nextRuleID()
	}
	r.applyNowConsumed = make(map[string]bool)
	rb.rules = append(rb.rules, r)
	return r.ID
}

// Remove deletes a rule by id.
func (rb *RuleBook) Remove(id RuleID) {
	for i, r := range rb.rules {
		if r.ID == id {
			rb.rules = append(rb.rules[:i], rb.rules[i+1:]...)
			return
		}
	}
}

// Rules returns the rule list in match order (read-only use expected).
func (rb *RuleBook) Rules() []*Rule { return rb.rules }

// Match evaluates every rule against w and returns the matching rules in
// order, without applying anything yet — Consult resolves their outcomes.
// Match takes no ignore-temporary option; it always returns every match.
func (rb *RuleBook) Match(w *Window) []*Rule {
	var matched []*Rule
	for _, r := range rb.rules {
		if r.Predicate.matches(w, rb.hostname) {
			matched = append(matched, r)
		}
	}
	return matched
}

// Consult resolves every matched rule's outcomes into a fresh
// RuleSnapshot, in the priority order §4.C specifies: across all matched
// rules, for each property the first outcome whose mode is not "unused"
// wins.
func (rb *RuleBook) Consult(w *Window, ignoreTemporary bool) RuleSnapshot {
	snap := RuleSnapshot{Temporary: make(map[RuleID]bool)}
	matched := rb.Match(w)

	for _, r := range matched {
		snap.RuleIDs = append(snap.RuleIDs, r.ID)
		if r.Force.FocusStealingPreventionLevel.Mode == OutcomeForceTemporarily ||
			r.Set.Desktop.Mode == OutcomeForceTemporarily {
			snap.Temporary[r.ID] = true
		}
	}

	snap.Set = mergeSetRules(matched)
	snap.Force = mergeForceRules(matched)

	rb.logger.WithField("window_class", w.Class).
		WithField("matched_rules", len(matched)).
		Debug("rule book consulted")

	_ = ignoreTemporary // temporary rules are filtered by RuleBook.PruneOnWithdraw, not here
	return snap
}

func firstWinning[T any](outs ...Outcome[T]) Outcome[T] {
	for _, o := range outs {
		if o.Mode != OutcomeUnused {
			return o
		}
	}
	return Outcome[T]{}
}

func mergeSetRules(matched []*Rule) SetRules {
	var out SetRules
	pos := make([]Outcome[geom.Point], 0, len(matched))
	sz := make([]Outcome[geom.Size], 0, len(matched))
	desk := make([]Outcome[int], 0, len(matched))
	scr := make([]Outcome[int], 0, len(matched))
	shade := make([]Outcome[bool], 0, len(matched))
	min := make([]Outcome[bool], 0, len(matched))
	skt := make([]Outcome[bool], 0, len(matched))
	skp := make([]Outcome[bool], 0, len(matched))
	sks := make([]Outcome[bool], 0, len(matched))
	ka := make([]Outcome[bool], 0, len(matched))
	kb := make([]Outcome[bool], 0, len(matched))
	fs := make([]Outcome[bool], 0, len(matched))
	nb := make([]Outcome[bool], 0, len(matched))
	mh := make([]Outcome[bool], 0, len(matched))
	mv := make([]Outcome[bool], 0, len(matched))
	ig := make([]Outcome[bool], 0, len(matched))
	sc := make([]Outcome[string], 0, len(matched))
	df := make([]Outcome[string], 0, len(matched))
	oa := make([]Outcome[float64], 0, len(matched))
	oi := make([]Outcome[float64], 0, len(matched))
	for _, r := range matched {
		pos = append(pos, r.Set.Position)
		sz = append(sz, r.Set.Size)
		desk = append(desk, r.Set.Desktop)
		scr = append(scr, r.Set.Screen)
		shade = append(shade, r.Set.Shade)
		min = append(min, r.Set.Minimize)
		skt = append(skt, r.Set.SkipTaskbar)
		skp = append(skp, r.Set.SkipPager)
		sks = append(sks, r.Set.SkipSwitcher)
		ka = append(ka, r.Set.KeepAbove)
		kb = append(kb, r.Set.KeepBelow)
		fs = append(fs, r.Set.Fullscreen)
		nb = append(nb, r.Set.NoBorder)
		mh = append(mh, r.Set.MaximizeHoriz)
		mv = append(mv, r.Set.MaximizeVert)
		ig = append(ig, r.Set.IgnoreGeometry)
		sc = append(sc, r.Set.Shortcut)
		df = append(df, r.Set.DesktopFile)
		oa = append(oa, r.Set.OpacityActive)
		oi = append(oi, r.Set.OpacityInactive)
	}
	out.Position = firstWinning(pos...)
	out.Size = firstWinning(sz...)
	out.Desktop = firstWinning(desk...)
	out.Screen = firstWinning(scr...)
	out.Shade = firstWinning(shade...)
	out.Minimize = firstWinning(min...)
	out.SkipTaskbar = firstWinning(skt...)
	out.SkipPager = firstWinning(skp...)
	out.SkipSwitcher = firstWinning(sks...)
	out.KeepAbove = firstWinning(ka...)
	out.KeepBelow = firstWinning(kb...)
	out.Fullscreen = firstWinning(fs...)
	out.NoBorder = firstWinning(nb...)
	out.MaximizeHoriz = firstWinning(mh...)
	out.MaximizeVert = firstWinning(mv...)
	out.IgnoreGeometry = firstWinning(ig...)
	out.Shortcut = firstWinning(sc...)
	out.DesktopFile = firstWinning(df...)
	out.OpacityActive = firstWinning(oa...)
	out.OpacityInactive = firstWinning(oi...)
	return out
}

func mergeForceRules(matched []*Rule) ForceRules {
	var out ForceRules
	af := make([]Outcome[bool], 0, len(matched))
	bc := make([]Outcome[bool], 0, len(matched))
	mn := make([]Outcome[geom.Size], 0, len(matched))
	mx := make([]Outcome[geom.Size], 0, len(matched))
	pl := make([]Outcome[string], 0, len(matched))
	sg := make([]Outcome[bool], 0, len(matched))
	dc := make([]Outcome[string], 0, len(matched))
	fsp := make([]Outcome[int], 0, len(matched))
	fp := make([]Outcome[int], 0, len(matched))
	ag := make([]Outcome[bool], 0, len(matched))
	agfg := make([]Outcome[bool], 0, len(matched))
	agid := make([]Outcome[string], 0, len(matched))
	dgs := make([]Outcome[bool], 0, len(matched))
	wt := make([]Outcome[WindowType], 0, len(matched))
	for _, r := range matched {
		af = append(af, r.Force.AcceptFocus)
		bc = append(bc, r.Force.BlockCompositing)
		mn = append(mn, r.Force.MinSize)
		mx = append(mx, r.Force.MaxSize)
		pl = append(pl, r.Force.Placement)
		sg = append(sg, r.Force.StrictGeometry)
		dc = append(dc, r.Force.DecoColor)
		fsp = append(fsp, r.Force.FocusStealingPreventionLevel)
		fp = append(fp, r.Force.FocusProtectionLevel)
		ag = append(ag, r.Force.Autogroup)
		agfg = append(agfg, r.Force.AutogroupFG)
		agid = append(agid, r.Force.AutogroupID)
		dgs = append(dgs, r.Force.DisableGlobalShortcuts)
		wt = append(wt, r.Force.WindowType)
	}
	out.AcceptFocus = firstWinning(af...)
	out.BlockCompositing = firstWinning(bc...)
	out.MinSize = firstWinning(mn...)
	out.MaxSize = firstWinning(mx...)
	out.Placement = firstWinning(pl...)
	out.StrictGeometry = firstWinning(sg...)
	out.DecoColor = firstWinning(dc...)
	out.FocusStealingPreventionLevel = firstWinning(fsp...)
	out.FocusProtectionLevel = firstWinning(fp...)
	out.Autogroup = firstWinning(ag...)
	out.AutogroupFG = firstWinning(agfg...)
	out.AutogroupID = firstWinning(agid...)
	out.DisableGlobalShortcuts = firstWinning(dgs...)
	out.WindowType = firstWinning(wt...)
	return out
}

// PruneOnWithdraw deletes every force-temporarily rule that governed w
// (apply-now rules are removed by ConsumeApplyNow), per §4.C: "force-temporarily
// rules survive only until the window is withdrawn; on withdraw they
// self-delete."
func (rb *RuleBook) PruneOnWithdraw(w *Window) {
	for id, temp := range w.Rules.Temporary {
		if !temp {
			continue
		}
		rb.Remove(id)
		rb.logger.WithField("rule_id", id).Debug("force-temporarily rule self-deleted on withdraw")
	}
}

// ConsumeApplyNow marks that an apply-now rule has fired once and
// removes it from the book; it never applies to a second window.
func (rb *RuleBook) ConsumeApplyNow(id RuleID) {
	rb.Remove(id)
}

// RememberEdit updates a "remember"-mode rule's stored value in place
// when the user changes the corresponding property by hand (§4.C), and
// schedules a debounced disk write.
func (rb *RuleBook) RememberEdit(ruleID RuleID, apply func(*Rule)) {
	for _, r := range rb.rules {
		if r.ID == ruleID {
			apply(r)
			if rb.persist != nil {
				rb.persist.scheduleWrite()
			}
			return
		}
	}
}

// Reload replaces the rule set from disk, skipping any rule that fails
// validation (§7 "invalid rule file: skip the broken rule").
func (rb *RuleBook) Reload(ruleFile string) error {
	loaded, skipped, err := loadRules(ruleFile)
	if err != nil {
		return err
	}
	for _, s := range skipped {
		rb.logger.WithError(s).Warn("skipping invalid rule during reload")
	}
	rb.rules = loaded
	return nil
}
