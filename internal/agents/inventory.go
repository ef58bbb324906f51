package agents

import "github.com/talgya/mini-village/internal/world"

// DefaultInventoryCapacity is the number of resource units an agent can carry.
const DefaultInventoryCapacity = 10

// ToolKind enumerates craftable tools.
type ToolKind uint8

const (
	ToolAxe ToolKind = iota
	ToolFishingRod
)

// String returns the tool name.
func (k ToolKind) String() string {
	switch k {
	case ToolAxe:
		return "axe"
	case ToolFishingRod:
		return "fishing_rod"
	default:
		return "unknown"
	}
}

// Tool durability at creation. Each use costs one point; tools break at zero.
const (
	AxeDurability        = 20
	FishingRodDurability = 15
)

// Tool is a held implement.
type Tool struct {
	Kind       ToolKind `json:"kind"`
	Durability int      `json:"durability"`
}

// Inventory holds carried resources and tools. Tools do not count toward capacity.
type Inventory struct {
	Items    [world.NumResources]int `json:"items"`
	Capacity int                     `json:"capacity"`
	Tools    []Tool                  `json:"tools,omitempty"`
}

// NewInventory creates an empty inventory.
func NewInventory(capacity int) Inventory {
	if capacity <= 0 {
		capacity = DefaultInventoryCapacity
	}
	return Inventory{Capacity: capacity}
}

// Count returns the held quantity of r.
func (inv *Inventory) Count(r world.Resource) int {
	return inv.Items[r]
}

// Total returns the number of resource units held.
func (inv *Inventory) Total() int {
	n := 0
	for _, q := range inv.Items {
		n += q
	}
	return n
}

// Full reports whether the inventory is at capacity.
func (inv *Inventory) Full() bool {
	return inv.Total() >= inv.Capacity
}

// Add stores up to n units of r, limited by free capacity. Returns the amount added.
func (inv *Inventory) Add(r world.Resource, n int) int {
	free := inv.Capacity - inv.Total()
	if n > free {
		n = free
	}
	if n <= 0 {
		return 0
	}
	inv.Items[r] += n
	return n
}

// Remove takes n units of r. Returns false, changing nothing, if not enough are held.
func (inv *Inventory) Remove(r world.Resource, n int) bool {
	if inv.Items[r] < n {
		return false
	}
	inv.Items[r] -= n
	return true
}

// HasTool reports whether a tool of kind k is held.
func (inv *Inventory) HasTool(k ToolKind) bool {
	for _, t := range inv.Tools {
		if t.Kind == k {
			return true
		}
	}
	return false
}

// AddTool adds a fresh tool of kind k.
func (inv *Inventory) AddTool(k ToolKind) {
	d := AxeDurability
	if k == ToolFishingRod {
		d = FishingRodDurability
	}
	inv.Tools = append(inv.Tools, Tool{Kind: k, Durability: d})
}

// UseTool spends one durability point on the first tool of kind k, discarding
// it at zero. Returns false if no such tool is held.
func (inv *Inventory) UseTool(k ToolKind) bool {
	for i := range inv.Tools {
		if inv.Tools[i].Kind != k {
			continue
		}
		inv.Tools[i].Durability--
		if inv.Tools[i].Durability <= 0 {
			inv.Tools = append(inv.Tools[:i], inv.Tools[i+1:]...)
		}
		return true
	}
	return false
}

// Clone returns a deep copy.
func (inv Inventory) Clone() Inventory {
	out := inv
	if inv.Tools != nil {
		out.Tools = append([]Tool(nil), inv.Tools...)
	}
	return out
}

// Scarcest returns the resource among candidates the agent holds least of.
// Earlier candidates win ties.
func (inv *Inventory) Scarcest(candidates []world.Resource) (world.Resource, bool) {
	if len(candidates) == 0 {
		return 0, false
	}
	best := candidates[0]
	for _, r := range candidates[1:] {
		if inv.Items[r] < inv.Items[best] {
			best = r
		}
	}
	return best, true
}

// Recipe converts resources into a tool or a placed object.
type Recipe struct {
	Name   string
	Inputs [world.NumResources]int

	MakesTool bool
	Tool      ToolKind
	Places    world.ObjectType
}

// Recipes in preference order.
var Recipes = []Recipe{
	{Name: "fishing_rod", Inputs: [world.NumResources]int{world.ResourceWood: 1, world.ResourceFiber: 2}, MakesTool: true, Tool: ToolFishingRod},
	{Name: "stone_axe", Inputs: [world.NumResources]int{world.ResourceWood: 2, world.ResourceStone: 1}, MakesTool: true, Tool: ToolAxe},
	{Name: "campfire", Inputs: [world.NumResources]int{world.ResourceWood: 3, world.ResourceStone: 2}, Places: world.ObjectCampfire},
}

// CanAfford reports whether the inventory holds every input.
func (inv *Inventory) CanAfford(r Recipe) bool {
	for res, need := range r.Inputs {
		if inv.Items[res] < need {
			return false
		}
	}
	return true
}

// AffordableRecipe returns the first recipe worth crafting: inputs are held,
// and tool recipes are skipped when that tool is already owned.
func (inv *Inventory) AffordableRecipe() (Recipe, bool) {
	for _, r := range Recipes {
		if r.MakesTool && inv.HasTool(r.Tool) {
			continue
		}
		if inv.CanAfford(r) {
			return r, true
		}
	}
	return Recipe{}, false
}

// Consume removes a recipe's inputs. Returns false, changing nothing, if unaffordable.
func (inv *Inventory) Consume(r Recipe) bool {
	if !inv.CanAfford(r) {
		return false
	}
	for res, need := range r.Inputs {
		inv.Items[res] -= need
	}
	return true
}
