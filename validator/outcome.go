package validator

import "fmt"

// Status is the terminal state of a validation call.
type Status int

const (
	// StatusValid means every check passed; Outcome.Claims is populated.
	StatusValid Status = iota

	// StatusExpired means the token's expiry is in the past. Reported
	// separately from StatusInvalid because callers commonly branch on
	// expiry to trigger refresh flows.
	StatusExpired

	// StatusInvalid means the token failed a check; Outcome.Reason says
	// which one.
	StatusInvalid

	// StatusUnknownIssuer means the token names an issuer the registry
	// does not know; Outcome.Issuer carries the claimed value.
	StatusUnknownIssuer
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusExpired:
		return "expired"
	case StatusInvalid:
		return "invalid"
	case StatusUnknownIssuer:
		return "unknown issuer"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Reasons attached to StatusInvalid outcomes.
const (
	ReasonFormat        = "format"
	ReasonMissingIssuer = "missing issuer"
	ReasonAlgorithm     = "algorithm"
	ReasonUnknownKeyID  = "unknown key id"
	ReasonSignature     = "signature"
	ReasonNotYetValid   = "not yet valid"
)

// Outcome is the verdict of a single validation call. Exactly one of the
// four statuses is produced per call; the auxiliary fields are populated
// only for the status they belong to.
type Outcome struct {
	Status Status
	Claims *Claims // StatusValid only
	Reason string  // StatusInvalid only
	Issuer string  // StatusUnknownIssuer only
}

// IsValid reports whether the outcome carries verified claims.
func (o Outcome) IsValid() bool { return o.Status == StatusValid }

func (o Outcome) String() string {
	switch o.Status {
	case StatusInvalid:
		return fmt.Sprintf("invalid (%s)", o.Reason)
	case StatusUnknownIssuer:
		return fmt.Sprintf("unknown issuer %q", o.Issuer)
	default:
		return o.Status.String()
	}
}

func valid(claims *Claims) Outcome { return Outcome{Status: StatusValid, Claims: claims} }

func expired() Outcome { return Outcome{Status: StatusExpired} }

func invalid(reason string) Outcome { return Outcome{Status: StatusInvalid, Reason: reason} }

func unknownIssuer(issuer string) Outcome {
	return Outcome{Status: StatusUnknownIssuer, Issuer: issuer}
}
