package catalog

import (
	"regexp"
	"slices"
	"strings"
)

// DietType restricts which protein items are allowed.
type DietType string

const (
	Omnivore   DietType = "omnivore"
	Vegetarian DietType = "vegetarian"
	Vegan      DietType = "vegan"
)

// Condition is a medical condition tag.
type Condition string

const (
	Diabetes Condition = "diabetes"
	Celiac   Condition = "celiac"
	Lactose  Condition = "lactose"
)

// Filters are the per-request restrictions applied to a base catalog.
type Filters struct {
	Diet          DietType
	Conditions    []Condition
	Allergies     []string
	ExcludeCitrus bool
}

func (f Filters) has(c Condition) bool {
	return slices.Contains(f.Conditions, c)
}

// Rule removes items matching Pattern from Lists when Applies holds.
type Rule struct {
	Name    string
	Applies func(Filters) bool
	Pattern *regexp.Regexp
	Lists   []ListRef
}

var (
	highGlycemicPattern = regexp.MustCompile(`(?i)(cusc[uú]s|couscous|tortilla de avena|mote|milcao|chapalele)`)
	glutenPattern       = regexp.MustCompile(`(?i)(trigo|wheat|pasta|pan|cusc[uú]s|couscous|centeno|marraqueta)`)
	dairyPattern        = regexp.MustCompile(`(?i)(yogurt?|quesillo|queso|leche)`)
	fleshPattern        = regexp.MustCompile(`(?i)(pollo|pavo|at[uú]n|jurel|merluza|reineta|salm[oó]n|ostiones|choritos|carne|cerdo)`)
	animalPattern       = regexp.MustCompile(`(?i)(pollo|pavo|at[uú]n|jurel|merluza|reineta|salm[oó]n|ostiones|choritos|carne|cerdo|huevo|yogurt?|quesillo|queso|leche)`)
	citrusPattern       = regexp.MustCompile(`(?i)(lim[oó]n|lemon)`)
)

// ConditionRules and DietRules are applied in this order by Filter. Diet and
// condition rules touch disjoint predicates, so their relative order does not
// change the result.
var (
	ConditionRules = []Rule{
		{
			Name:    "diabetes",
			Applies: func(f Filters) bool { return f.has(Diabetes) },
			Pattern: highGlycemicPattern,
			Lists:   []ListRef{CarbsAll, CarbsBreakfast},
		},
		{
			Name:    "celiac",
			Applies: func(f Filters) bool { return f.has(Celiac) },
			Pattern: glutenPattern,
			Lists:   []ListRef{CarbsAll, CarbsBreakfast},
		},
		{
			Name:    "lactose",
			Applies: func(f Filters) bool { return f.has(Lactose) },
			Pattern: dairyPattern,
			Lists:   []ListRef{ProteinsBreakfast, Snacks},
		},
	}

	DietRules = []Rule{
		{
			Name:    "vegetarian",
			Applies: func(f Filters) bool { return f.Diet == Vegetarian },
			Pattern: fleshPattern,
			Lists:   []ListRef{ProteinsAll},
		},
		{
			Name:    "vegan",
			Applies: func(f Filters) bool { return f.Diet == Vegan },
			Pattern: animalPattern,
			Lists:   []ListRef{ProteinsAll, ProteinsBreakfast},
		},
	}

	citrusRule = Rule{
		Name:    "citrus",
		Applies: func(f Filters) bool { return f.ExcludeCitrus },
		Pattern: citrusPattern,
		Lists:   []ListRef{Fruits},
	}
)

// Filter returns a filtered deep copy of base. base is never modified.
// Allergy removal runs after condition and diet rules.
func Filter(base FoodCatalog, f Filters) FoodCatalog {
	c := base.Clone()

	for _, rules := range [][]Rule{ConditionRules, DietRules} {
		for _, r := range rules {
			r.apply(&c, f)
		}
	}

	allergies := make([]string, 0, len(f.Allergies))
	for _, a := range f.Allergies {
		if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
			allergies = append(allergies, a)
		}
	}
	if len(allergies) > 0 {
		for _, ref := range AllLists {
			list := c.List(ref)
			*list = slices.DeleteFunc(*list, func(item string) bool {
				lower := strings.ToLower(item)
				for _, a := range allergies {
					if strings.Contains(lower, a) {
						return true
					}
				}
				return false
			})
		}
	}

	citrusRule.apply(&c, f)
	return c
}

func (r Rule) apply(c *FoodCatalog, f Filters) {
	if !r.Applies(f) {
		return
	}
	for _, ref := range r.Lists {
		list := c.List(ref)
		*list = slices.DeleteFunc(*list, r.Pattern.MatchString)
	}
}
