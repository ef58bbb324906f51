package agents

// Reputation grants for notable deeds.
const (
	RepCraft         = 0.5
	RepBuildComplete = 2.0
	RepShare         = 0.2
)

// Reputation is standing in the village.
type Reputation struct {
	Score float64 `json:"score"`
}

// Grant adds to the score.
func (r *Reputation) Grant(amount float64) {
	r.Score += amount
}

// Title is an earned honorific.
type Title struct {
	Name       string `json:"name"`
	EarnedTick uint64 `json:"earned_tick"`
}

// Titles held by an agent, in the order earned.
type Titles []Title

// Has reports whether a title with the given name is held.
func (t Titles) Has(name string) bool {
	for _, title := range t {
		if title.Name == name {
			return true
		}
	}
	return false
}

// Award grants a title once. Returns true if newly earned.
func (t *Titles) Award(name string, tick uint64) bool {
	if t.Has(name) {
		return false
	}
	*t = append(*t, Title{Name: name, EarnedTick: tick})
	return true
}

// TitleRule is one eligibility check run periodically.
type TitleRule struct {
	Name     string
	Eligible func(a *Agent) bool
}

// TitleRules in evaluation order.
var TitleRules = []TitleRule{
	{Name: "Master Crafter", Eligible: func(a *Agent) bool { return a.Skills.Level(SkillCrafting) >= 0.5 }},
	{Name: "Builder", Eligible: func(a *Agent) bool { return a.Counters.Built >= 3 }},
	{Name: "Explorer", Eligible: func(a *Agent) bool { return a.Counters.TilesVisited >= 300 }},
	{Name: "Angler", Eligible: func(a *Agent) bool { return a.Counters.FishCaught >= 10 }},
	{Name: "Storyteller", Eligible: func(a *Agent) bool { return a.Counters.Shared >= 10 }},
	{Name: "Elder", Eligible: func(a *Agent) bool { return a.AgeTier == AgeElder }},
	{Name: "Beloved", Eligible: func(a *Agent) bool { return a.Reputation.Score >= 10 }},
}

// CheckTitles awards every title the agent now qualifies for and returns the new ones.
func CheckTitles(a *Agent, tick uint64) []string {
	var earned []string
	for _, rule := range TitleRules {
		if rule.Eligible(a) && a.Titles.Award(rule.Name, tick) {
			earned = append(earned, rule.Name)
		}
	}
	return earned
}
