package routing

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/cfdirect/cfdirect/pkg/ranges"
)

const (
	// DefaultOutboundTag identifies the rule that bypasses the tunnel.
	DefaultOutboundTag = "direct"
	// DefaultDomainStrategy is used when a routing section is created.
	DefaultDomainStrategy = "IPIfNonMatch"
	// RuleTypeField is the rule type of field-matching rules.
	RuleTypeField = "field"

	keyRouting     = "routing"
	keyRules       = "rules"
	keyIP          = "ip"
	keyOutboundTag = "outboundTag"
)

var (
	// ErrInvalidRouting indicates a routing section that cannot be patched.
	ErrInvalidRouting = errors.New("unsupported routing section")
	// ErrInvalidIPList indicates a direct rule whose ip value is not a list.
	ErrInvalidIPList = errors.New("rule ip is not a list")
)

// Action describes what [Patcher.Ensure] did to a document.
type Action int

const (
	ActionNone Action = iota
	ActionCreateRouting
	ActionReplaceRules
	ActionExtendRule
	ActionPrependRule
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionCreateRouting:
		return "create-routing"
	case ActionReplaceRules:
		return "replace-rules"
	case ActionExtendRule:
		return "extend-rule"
	case ActionPrependRule:
		return "prepend-rule"
	}

	return fmt.Sprintf("action(%d)", int(a))
}

// Result is the outcome of [Patcher.Ensure].
type Result struct {
	// Added holds the ranges written to the direct rule.
	Added []string
	// RuleIndex is the position of the direct rule within routing.rules.
	RuleIndex int
	Action    Action
}

// Changed reports whether the document was modified.
func (r Result) Changed() bool {
	return r.Action != ActionNone
}

// Rule is a field rule sending ip ranges to an outbound.
type Rule struct {
	Type        string   `json:"type"`
	IP          []string `json:"ip"`
	OutboundTag string   `json:"outboundTag"`
}

// Routing is a newly created routing section.
type Routing struct {
	DomainStrategy string  `json:"domainStrategy"`
	Rules          []*Rule `json:"rules"`
}

// PatcherOpt configures a [Patcher].
type PatcherOpt func(*Patcher)

// WithRanges sets the address ranges the direct rule must contain.
func WithRanges(rs []string) PatcherOpt {
	return func(p *Patcher) {
		p.ranges = slices.Clone(rs)
	}
}

// WithOutboundTag sets the outbound tag that identifies the direct rule.
func WithOutboundTag(tag string) PatcherOpt {
	return func(p *Patcher) {
		p.outboundTag = tag
	}
}

// WithDomainStrategy sets the domain strategy of created routing sections.
func WithDomainStrategy(strategy string) PatcherOpt {
	return func(p *Patcher) {
		p.domainStrategy = strategy
	}
}

// Patcher ensures a document routes a set of address ranges to the direct
// outbound.
type Patcher struct {
	outboundTag    string
	domainStrategy string
	ranges         []string
}

// NewPatcher creates a [Patcher]. By default it uses the Cloudflare ranges,
// the "direct" outbound tag and the "IPIfNonMatch" domain strategy.
func NewPatcher(opts ...PatcherOpt) *Patcher {
	p := &Patcher{
		outboundTag:    DefaultOutboundTag,
		domainStrategy: DefaultDomainStrategy,
		ranges:         ranges.Cloudflare(),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Ranges returns a copy of the ranges the patcher enforces.
func (p *Patcher) Ranges() []string {
	return slices.Clone(p.ranges)
}

// NewRule returns the rule inserted when a document has no direct rule.
func (p *Patcher) NewRule() *Rule {
	return &Rule{
		Type:        RuleTypeField,
		IP:          p.Ranges(),
		OutboundTag: p.outboundTag,
	}
}

// Ensure mutates doc so that its first direct rule contains every range.
//
//   - A missing or null routing section is created with a single direct rule.
//   - A missing or non-list rules value is replaced by a single direct rule.
//   - Otherwise the first rule tagged with the outbound tag gets any missing
//     ranges appended, or a new direct rule is inserted at the front.
//
// Only the first direct rule is considered; later ones are left untouched.
func (p *Patcher) Ensure(doc *Document) (Result, error) {
	raw, ok := doc.fields.Get(keyRouting)
	if !ok || isNull(raw) {
		b, err := marshal(&Routing{
			DomainStrategy: p.domainStrategy,
			Rules:          []*Rule{p.NewRule()},
		})
		if err != nil {
			return Result{}, fmt.Errorf("marshal routing: %w", err)
		}

		doc.fields.Set(keyRouting, b)

		return Result{Action: ActionCreateRouting, Added: p.Ranges()}, nil
	}

	routing, err := decodeObject(raw)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidRouting, err)
	}

	res, err := p.ensureRules(routing)
	if err != nil || !res.Changed() {
		return res, err
	}

	b, err := marshal(routing)
	if err != nil {
		return Result{}, fmt.Errorf("marshal routing: %w", err)
	}

	doc.fields.Set(keyRouting, b)

	return res, nil
}

func (p *Patcher) ensureRules(routing *object) (Result, error) {
	newRule, err := marshal(p.NewRule())
	if err != nil {
		return Result{}, fmt.Errorf("marshal rule: %w", err)
	}

	raw, ok := routing.Get(keyRules)
	if !ok || kindOf(raw) != '[' {
		err = setJSON(routing, keyRules, []json.RawMessage{newRule})
		if err != nil {
			return Result{}, err
		}

		return Result{Action: ActionReplaceRules, Added: p.Ranges()}, nil
	}

	var rules []json.RawMessage

	err = json.Unmarshal(raw, &rules)
	if err != nil {
		return Result{}, fmt.Errorf("decode rules: %w", err)
	}

	for i, r := range rules {
		if kindOf(r) != '{' {
			continue
		}

		rule, err := decodeObject(r)
		if err != nil {
			return Result{}, fmt.Errorf("rule %d: %w", i, err)
		}

		if !p.isDirect(rule) {
			continue
		}

		added, err := p.extend(rule)
		if err != nil {
			return Result{}, fmt.Errorf("rule %d: %w", i, err)
		}

		if len(added) == 0 {
			return Result{Action: ActionNone, RuleIndex: i}, nil
		}

		rules[i], err = marshal(rule)
		if err != nil {
			return Result{}, fmt.Errorf("marshal rule %d: %w", i, err)
		}

		err = setJSON(routing, keyRules, rules)
		if err != nil {
			return Result{}, err
		}

		return Result{Action: ActionExtendRule, RuleIndex: i, Added: added}, nil
	}

	rules = slices.Insert(rules, 0, json.RawMessage(newRule))

	err = setJSON(routing, keyRules, rules)
	if err != nil {
		return Result{}, err
	}

	return Result{Action: ActionPrependRule, Added: p.Ranges()}, nil
}

func (p *Patcher) isDirect(rule *object) bool {
	raw, ok := rule.Get(keyOutboundTag)
	if !ok || kindOf(raw) != '"' {
		return false
	}

	var tag string

	err := json.Unmarshal(raw, &tag)
	if err != nil {
		return false
	}

	return tag == p.outboundTag
}

// extend appends the missing ranges to the rule's ip list and returns them.
// An absent or null ip value counts as an empty list.
func (p *Patcher) extend(rule *object) ([]string, error) {
	var items []json.RawMessage

	raw, ok := rule.Get(keyIP)
	if ok && !isNull(raw) {
		if kindOf(raw) != '[' {
			return nil, ErrInvalidIPList
		}

		err := json.Unmarshal(raw, &items)
		if err != nil {
			return nil, fmt.Errorf("decode ip list: %w", err)
		}
	}

	have := make([]string, 0, len(items))

	for _, item := range items {
		if kindOf(item) != '"' {
			continue
		}

		var s string

		err := json.Unmarshal(item, &s)
		if err != nil {
			return nil, fmt.Errorf("decode ip entry: %w", err)
		}

		have = append(have, s)
	}

	missing := ranges.Missing(p.ranges, have)
	if len(missing) == 0 {
		return nil, nil
	}

	for _, m := range missing {
		b, err := marshal(m)
		if err != nil {
			return nil, fmt.Errorf("marshal ip entry: %w", err)
		}

		items = append(items, b)
	}

	err := setJSON(rule, keyIP, items)
	if err != nil {
		return nil, err
	}

	return missing, nil
}

func setJSON(obj *object, key string, v any) error {
	b, err := marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	obj.Set(key, b)

	return nil
}
