package models

// BillingMode says how a plan is charged.
type BillingMode string

const (
	BillingOneTime BillingMode = "one_time"
	BillingMonthly BillingMode = "monthly"
)

// Plan is a purchasable support tier. Plans are defined at startup and
// never persisted; the price is in minor currency units (cents).
type Plan struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Price       int64       `json:"price"`
	BillingMode BillingMode `json:"billing_mode"`
}

// Recurring reports whether the plan bills monthly.
func (p Plan) Recurring() bool {
	return p.BillingMode == BillingMonthly
}

// PlanCatalog is an immutable plan id -> Plan mapping. Build it once in
// main and hand it to the services; it is safe for concurrent reads.
type PlanCatalog struct {
	plans map[string]Plan
	order []string
}

func NewPlanCatalog(plans ...Plan) *PlanCatalog {
	c := &PlanCatalog{plans: make(map[string]Plan, len(plans))}
	for _, p := range plans {
		if _, ok := c.plans[p.ID]; !ok {
			c.order = append(c.order, p.ID)
		}
		c.plans[p.ID] = p
	}
	return c
}

// Lookup returns the plan for id or ErrInvalidPlan.
func (c *PlanCatalog) Lookup(id string) (Plan, error) {
	p, ok := c.plans[id]
	if !ok {
		return Plan{}, ErrInvalidPlan
	}
	return p, nil
}

// Plans returns all plans in definition order.
func (c *PlanCatalog) Plans() []Plan {
	out := make([]Plan, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.plans[id])
	}
	return out
}

// DefaultPlanCatalog returns the fixed support-plan lineup.
func DefaultPlanCatalog() *PlanCatalog {
	return NewPlanCatalog(
		Plan{ID: "quick-fix", Name: "Quick Remote Fix", Price: 4500, BillingMode: BillingOneTime},
		Plan{ID: "virus-removal", Name: "Virus Removal & Cleanup", Price: 12900, BillingMode: BillingOneTime},
		Plan{ID: "onsite-service", Name: "On-Site Service", Price: 12500, BillingMode: BillingOneTime},
		Plan{ID: "monthly-peace", Name: "Monthly Peace of Mind", Price: 2900, BillingMode: BillingMonthly},
	)
}
