package segment

// Naming thresholds. Rank 1 is the best segment on an axis; rank 4 or
// worse marks the weak end. Exposed as named constants so the rule table
// stays testable against exact boundaries.
const (
	RankTop    = 1
	RankStrong = 2
	RankWeak   = 4
)

// RankTriple is the input of segment naming: the three dense ranks of a
// profile. Naming is a pure function of this triple.
type RankTriple struct {
	Value   int
	Freq    int
	Recency int
}

// nameRules is evaluated top-down; the first match wins, which encodes
// the precedence between overlapping conditions (a high-value stale
// segment is "At-Risk High Value" even if it would also match a later
// rule).
var nameRules = []struct {
	name  string
	match func(RankTriple) bool
}{
	{"Champions", func(r RankTriple) bool {
		return r.Value <= RankTop && r.Freq <= RankStrong && r.Recency <= RankStrong
	}},
	{"At-Risk High Value", func(r RankTriple) bool {
		return r.Value <= RankStrong && r.Recency >= RankWeak
	}},
	{"Loyal Low Spend", func(r RankTriple) bool {
		return r.Freq <= RankStrong && r.Value >= RankWeak
	}},
	{"New Customers", func(r RankTriple) bool {
		return r.Recency <= RankStrong && r.Freq >= RankWeak
	}},
}

// DefaultSegmentName is the bucket for profiles no rule claims.
const DefaultSegmentName = "Occasional Shoppers"

// Name maps a rank triple to its business label.
func Name(r RankTriple) string {
	for _, rule := range nameRules {
		if rule.match(r) {
			return rule.name
		}
	}
	return DefaultSegmentName
}

// NameProfiles fills the Name of every profile from its ranks. Re-running
// on the same profiles always yields the same labels.
func NameProfiles(profiles []Profile) {
	for i := range profiles {
		profiles[i].Name = Name(RankTriple{
			Value:   profiles[i].ValueRank,
			Freq:    profiles[i].FreqRank,
			Recency: profiles[i].RecencyRank,
		})
	}
}
