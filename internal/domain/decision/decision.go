package decision

import "fmt"

// Outcome is a decider's opinion on concurrent segment search.
type Outcome int

// Outcome values.
const (
	// NoOpinion means the decider abstains.
	NoOpinion Outcome = iota
	True
	False
)

// String returns the lowercase outcome name.
func (o Outcome) String() string {
	switch o {
	case True:
		return "true"
	case False:
		return "false"
	case NoOpinion:
		return "no_opinion"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Decision is an immutable outcome with an optional diagnostic reason.
// A fresh value is produced on every decider call.
type Decision struct {
	outcome Outcome
	reason  string
}

// New creates a Decision.
func New(o Outcome, reason string) Decision {
	return Decision{outcome: o, reason: reason}
}

// Yes returns a True decision.
func Yes(reason string) Decision { return New(True, reason) }

// No returns a False decision.
func No(reason string) Decision { return New(False, reason) }

// Abstain returns a NoOpinion decision.
func Abstain(reason string) Decision { return New(NoOpinion, reason) }

// Outcome returns the decision outcome.
func (d Decision) Outcome() Outcome { return d.outcome }

// Reason returns the diagnostic reason (may be empty).
func (d Decision) Reason() string { return d.reason }

// String renders the decision for logs.
func (d Decision) String() string {
	reason := d.reason
	if reason == "" {
		reason = "not specified"
	}
	return fmt.Sprintf("Decision{outcome=%s, reason='%s'}", d.outcome, reason)
}

// Combine folds decisions into the final verdict.
// NoOpinion is the identity; once both True and False have been seen the
// result is false. If every decision abstains (or there are none) the
// result is false.
func Combine(decisions []Decision) bool {
	acc := NoOpinion
	for _, d := range decisions {
		switch d.outcome {
		case True:
			if acc == False {
				return false
			}
			acc = True
		case False:
			if acc == True {
				return false
			}
			acc = False
		case NoOpinion:
		}
	}
	return acc == True
}

// ContainsFalse reports whether any decision is False.
func ContainsFalse(decisions []Decision) bool {
	for _, d := range decisions {
		if d.outcome == False {
			return true
		}
	}
	return false
}
