package types

// Effect labels for decisions in logs and metrics.
const (
	EffectAllow = "allow"
	EffectDeny  = "deny"
)

// Decision is the outcome of evaluating a policy against a claim set.
// Reasons carries, in requirement-registration order, the reason of every
// requirement that failed; it is empty when the request is allowed.
type Decision struct {
	Allowed bool     `json:"allowed"`
	Policy  string   `json:"policy"`
	Reasons []string `json:"reasons,omitempty"`
}

// Effect returns the decision's effect label.
func (d Decision) Effect() string {
	if d.Allowed {
		return EffectAllow
	}
	return EffectDeny
}
