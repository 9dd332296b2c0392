package deck

// Summary is the read-only projection of a deck handed to presentation.
type Summary struct {
	TotalCards    int `json:"totalCards"`
	TotalPT       int `json:"totalPT"`
	AcquisitionPT int `json:"acquisitionPT"`
	RemovalPT     int `json:"removalPT"`
	DuplicationPT int `json:"duplicationPT"`

	TierLevel   int `json:"tierLevel"`
	TierCeiling int `json:"tierCeiling"`

	// Exactly one of OverBudgetBy and MarginRemaining is non-zero, unless
	// the deck sits exactly on the ceiling.
	OverBudget      bool `json:"overBudget"`
	OverBudgetBy    int  `json:"overBudgetBy"`
	MarginRemaining int  `json:"marginRemaining"`

	Metadata      Metadata                  `json:"metadata"`
	CategoryStats map[Category]CategoryStat `json:"categoryStats"`
}

// Summarize computes the summary for entries and m under r.
func (r Rules) Summarize(entries []Entry, m Metadata) Summary {
	sum := Summary{
		AcquisitionPT: r.AcquisitionCost(entries),
		RemovalPT:     r.RemovalCost(m),
		DuplicationPT: r.DuplicationCost(m),
		TierLevel:     m.TierLevel,
		TierCeiling:   r.BudgetCeiling(m.TierLevel),
		Metadata:      m,
		CategoryStats: r.CategoryStats(entries),
	}
	for _, e := range entries {
		sum.TotalCards += e.Quantity
	}
	sum.TotalPT = sum.AcquisitionPT + sum.RemovalPT + sum.DuplicationPT

	if sum.TotalPT > sum.TierCeiling {
		sum.OverBudget = true
		sum.OverBudgetBy = sum.TotalPT - sum.TierCeiling
	} else {
		sum.MarginRemaining = sum.TierCeiling - sum.TotalPT
	}
	return sum
}

// Summary recomputes the deck summary. Calling it has no side effects.
func (s *State) Summary() Summary {
	return s.rules.Summarize(s.entries, s.meta)
}
