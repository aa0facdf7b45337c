// Package signal defines the sanitized health signal record stored in the
// user memory collection, and the guards that keep raw identifiers out of
// it. Payloads are built from an allow-list; anything not named here never
// reaches the vector store.
package signal

import (
	"fmt"
	"time"
)

// PregnancyStage is the coarse pregnancy stage attached to a signal.
type PregnancyStage string

const (
	StageFirstTrimester  PregnancyStage = "first_trimester"
	StageSecondTrimester PregnancyStage = "second_trimester"
	StageThirdTrimester  PregnancyStage = "third_trimester"
	StagePostpartum      PregnancyStage = "postpartum"
	StageNone            PregnancyStage = "none"
)

// ParseStage validates a pregnancy stage string. Empty maps to StageNone.
func ParseStage(s string) (PregnancyStage, error) {
	switch PregnancyStage(s) {
	case StageFirstTrimester, StageSecondTrimester, StageThirdTrimester, StagePostpartum, StageNone:
		return PregnancyStage(s), nil
	}

	if s == "" {
		return StageNone, nil
	}

	return "", fmt.Errorf("unknown pregnancy stage %q", s)
}

// UserContext is the pseudonymous demographic context for a query or
// signal. UserID is an opaque pseudonym issued upstream; it must never be
// a name, phone number, or government ID.
type UserContext struct {
	UserID         string
	Age            int
	PregnancyStage PregnancyStage
	Language       string
	District       string
	Cluster        string
}

// HealthSignal is one sanitized observation about a user.
type HealthSignal struct {
	ID                 string
	Text               string
	User               UserContext
	SignalType         string
	RiskScore          float64
	Timestamp          time.Time
	ReinforcementCount int
}

// Payload field names shared across collections.
const (
	FieldText               = "text"
	FieldUserID             = "user_id"
	FieldAge                = "age"
	FieldPregnancyStage     = "pregnancy_stage"
	FieldRiskScore          = "risk_score"
	FieldLanguage           = "language"
	FieldSignalType         = "signal_type"
	FieldTimestamp          = "timestamp"
	FieldUnixTS             = "unix_ts"
	FieldReinforcementCount = "reinforcement_count"
	FieldDistrict           = "district"
	FieldCluster            = "cluster"
)

// Payload builds the stored payload for a signal. Only allow-listed fields
// are emitted. The timestamp is stored twice: RFC 3339 for humans and
// export tooling, unix seconds for range filters.
func (s *HealthSignal) Payload() map[string]any {
	p := map[string]any{
		FieldText:               s.Text,
		FieldUserID:             s.User.UserID,
		FieldAge:                s.User.Age,
		FieldPregnancyStage:     string(s.User.PregnancyStage),
		FieldRiskScore:          s.RiskScore,
		FieldSignalType:         s.SignalType,
		FieldTimestamp:          s.Timestamp.UTC().Format(time.RFC3339),
		FieldUnixTS:             float64(s.Timestamp.Unix()),
		FieldReinforcementCount: s.ReinforcementCount,
	}

	if s.User.Language != "" {
		p[FieldLanguage] = s.User.Language
	}
	if s.User.District != "" {
		p[FieldDistrict] = s.User.District
	}
	if s.User.Cluster != "" {
		p[FieldCluster] = s.User.Cluster
	}

	return p
}

// FromPayload reconstructs a HealthSignal from a stored payload.
func FromPayload(id string, payload map[string]any) HealthSignal {
	s := HealthSignal{
		ID:         id,
		Text:       stringField(payload, FieldText),
		SignalType: stringField(payload, FieldSignalType),
		RiskScore:  floatField(payload, FieldRiskScore),
		User: UserContext{
			UserID:         stringField(payload, FieldUserID),
			Age:            int(floatField(payload, FieldAge)),
			PregnancyStage: PregnancyStage(stringField(payload, FieldPregnancyStage)),
			Language:       stringField(payload, FieldLanguage),
			District:       stringField(payload, FieldDistrict),
			Cluster:        stringField(payload, FieldCluster),
		},
		ReinforcementCount: int(floatField(payload, FieldReinforcementCount)),
	}

	if ts := stringField(payload, FieldTimestamp); ts != "" {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			s.Timestamp = parsed
		}
	}

	return s
}

func stringField(payload map[string]any, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}

	return ""
}

func floatField(payload map[string]any, key string) float64 {
	switch v := payload[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}

	return 0
}
