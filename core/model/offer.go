package model

// Offer pairs a driver with a request and carries the economics a behaviour
// decides on. Offers live for a single tick and are never persisted.
type Offer struct {
	Driver        *Driver
	Request       *Request
	TravelTime    float64
	Reward        float64
	RewardPerTime float64
	CreatedAt     int
	Policy        string
}

// NewOffer computes travel time and reward for the proposed pairing. A zero
// or near-zero travel time yields RewardPerTime 0 instead of dividing by
// zero; whether that is acceptable is up to the behaviour.
func NewOffer(d *Driver, r *Request, now int, policy string) Offer {
	approach := d.Position.DistanceTo(r.Pickup)
	travel := approach / d.Speed
	reward := r.Fare() + approach
	rpt := 0.0
	if travel > CoordEps {
		rpt = reward / travel
	}
	return Offer{
		Driver:        d,
		Request:       r,
		TravelTime:    travel,
		Reward:        reward,
		RewardPerTime: rpt,
		CreatedAt:     now,
		Policy:        policy,
	}
}
