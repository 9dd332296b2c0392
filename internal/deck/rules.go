package deck

import "fmt"

// Rules is the PT cost table. DefaultRules holds the live game values; the
// table is configurable so balance changes don't need a rebuild.
type Rules struct {
	// Category base values.
	MonsterPT int `toml:"monster_pt" json:"monsterPt"`
	DefaultPT int `toml:"default_pt" json:"defaultPt"` // NEUTRAL, FORBIDDEN, missing

	// Modifier surcharges.
	GlimmerBonus       int `toml:"glimmer_bonus" json:"glimmerBonus"`
	DivineGlimmerBonus int `toml:"divine_glimmer_bonus" json:"divineGlimmerBonus"`

	// EscalationSteps[i-1] is the cost of the (i+1)th event of a kind.
	// The last step repeats for every later event.
	EscalationSteps []int `toml:"escalation_steps" json:"escalationSteps"`

	StartCardRemovalSurcharge       int `toml:"start_card_removal_surcharge" json:"startCardRemovalSurcharge"`
	DivineGlimmerDuplicateSurcharge int `toml:"divine_glimmer_duplicate_surcharge" json:"divineGlimmerDuplicateSurcharge"`

	// Budget ceiling = CeilingBase + CeilingPerTier*tier, for MinTier <= tier <= MaxTier.
	MinTier        int `toml:"min_tier" json:"minTier"`
	MaxTier        int `toml:"max_tier" json:"maxTier"`
	CeilingBase    int `toml:"ceiling_base" json:"ceilingBase"`
	CeilingPerTier int `toml:"ceiling_per_tier" json:"ceilingPerTier"`
}

// DefaultRules returns the standard cost table.
func DefaultRules() Rules {
	return Rules{
		MonsterPT:                       80,
		DefaultPT:                       20,
		GlimmerBonus:                    10,
		DivineGlimmerBonus:              20,
		EscalationSteps:                 []int{10, 30, 50, 70},
		StartCardRemovalSurcharge:       20,
		DivineGlimmerDuplicateSurcharge: 20,
		MinTier:                         1,
		MaxTier:                         15,
		CeilingBase:                     20,
		CeilingPerTier:                  10,
	}
}

// Validate checks the table for values that would make costs meaningless.
func (r Rules) Validate() error {
	if r.MonsterPT < 0 || r.DefaultPT < 0 {
		return fmt.Errorf("category PT values cannot be negative")
	}
	if r.GlimmerBonus < 0 || r.DivineGlimmerBonus < 0 {
		return fmt.Errorf("modifier bonuses cannot be negative")
	}
	if len(r.EscalationSteps) == 0 {
		return fmt.Errorf("escalation steps cannot be empty")
	}
	for i, step := range r.EscalationSteps {
		if step < 0 {
			return fmt.Errorf("escalation step %d cannot be negative: %d", i+1, step)
		}
	}
	if r.StartCardRemovalSurcharge < 0 || r.DivineGlimmerDuplicateSurcharge < 0 {
		return fmt.Errorf("surcharges cannot be negative")
	}
	if r.MinTier < 1 || r.MaxTier < r.MinTier {
		return fmt.Errorf("invalid tier range [%d,%d]", r.MinTier, r.MaxTier)
	}
	if r.CeilingBase < 0 || r.CeilingPerTier < 0 {
		return fmt.Errorf("budget ceiling values cannot be negative")
	}
	return nil
}

// ValidTier reports whether tier is inside [MinTier, MaxTier].
func (r Rules) ValidTier(tier int) bool {
	return tier >= r.MinTier && tier <= r.MaxTier
}

// BudgetCeiling returns the PT ceiling for tier. The tier is not range-checked;
// use ValidTier or SetTier for that.
func (r Rules) BudgetCeiling(tier int) int {
	return r.CeilingBase + r.CeilingPerTier*tier
}

// SetTier returns m with its tier replaced. Out-of-range tiers are rejected
// rather than clamped and m is returned untouched.
func (r Rules) SetTier(m Metadata, tier int) (Metadata, error) {
	if !r.ValidTier(tier) {
		return m, fmt.Errorf("%w: %d is outside [%d,%d]", ErrInvalidTier, tier, r.MinTier, r.MaxTier)
	}
	m.TierLevel = tier
	return m, nil
}

// The functions below evaluate the default cost table.

// CardBasePT is DefaultRules().CardBasePT.
func CardBasePT(c Card) int { return DefaultRules().CardBasePT(c) }

// AcquisitionCost is DefaultRules().AcquisitionCost.
func AcquisitionCost(entries []Entry) int { return DefaultRules().AcquisitionCost(entries) }

// EscalatingCost is DefaultRules().EscalatingCost.
func EscalatingCost(n int) int { return DefaultRules().EscalatingCost(n) }

// RemovalCost is DefaultRules().RemovalCost.
func RemovalCost(m Metadata) int { return DefaultRules().RemovalCost(m) }

// DuplicationCost is DefaultRules().DuplicationCost.
func DuplicationCost(m Metadata) int { return DefaultRules().DuplicationCost(m) }

// TotalCost is DefaultRules().TotalCost.
func TotalCost(entries []Entry, m Metadata) int { return DefaultRules().TotalCost(entries, m) }

// BudgetCeiling is DefaultRules().BudgetCeiling.
func BudgetCeiling(tier int) int { return DefaultRules().BudgetCeiling(tier) }

// CategoryStats is DefaultRules().CategoryStats.
func CategoryStats(entries []Entry) map[Category]CategoryStat {
	return DefaultRules().CategoryStats(entries)
}
