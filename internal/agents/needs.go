package agents

// Needs tracks the five drives. All values range from 0.0 (desperate) to
// 1.0 (fully satisfied) and are clamped after every mutation.
type Needs struct {
	Hunger    float64 `json:"hunger"`
	Energy    float64 `json:"energy"`
	Social    float64 `json:"social"`
	Curiosity float64 `json:"curiosity"`
	Safety    float64 `json:"safety"`
}

// Clamp forces every need into [0, 1].
func (n *Needs) Clamp() {
	n.Hunger = clamp(n.Hunger, 0, 1)
	n.Energy = clamp(n.Energy, 0, 1)
	n.Social = clamp(n.Social, 0, 1)
	n.Curiosity = clamp(n.Curiosity, 0, 1)
	n.Safety = clamp(n.Safety, 0, 1)
}

// Average returns the unweighted mean satisfaction.
func (n Needs) Average() float64 {
	return (n.Hunger + n.Energy + n.Social + n.Curiosity + n.Safety) / 5
}

// Lowest returns the value of the most depleted need.
func (n Needs) Lowest() float64 {
	low := n.Hunger
	for _, v := range [...]float64{n.Energy, n.Social, n.Curiosity, n.Safety} {
		if v < low {
			low = v
		}
	}
	return low
}
