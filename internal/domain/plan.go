package domain

// Plan is a purchasable credit bundle at a fixed price.
type Plan struct {
	ID      string
	Credits int
	// Amount is the price in whole currency units. Gateways convert to
	// minor units (x100) when opening a session.
	Amount int
}

var plans = map[string]Plan{
	"Basic":    {ID: "Basic", Credits: 100, Amount: 10},
	"Advanced": {ID: "Advanced", Credits: 500, Amount: 50},
	"Business": {ID: "Business", Credits: 5000, Amount: 250},
}

// ResolvePlan looks up a plan by id. Unknown ids return ErrPlanNotFound.
func ResolvePlan(id string) (Plan, error) {
	plan, ok := plans[id]
	if !ok {
		return Plan{}, ErrPlanNotFound
	}
	return plan, nil
}
