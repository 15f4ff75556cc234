package semantic

import "strings"

// builtinKinds is the closed agent-kind set from spec §3; anything else is
// Custom(name).
var builtinKinds = map[string]bool{
	"LLM":                 true,
	"MLModel":             true,
	"BayesianNetwork":     true,
	"DecisionMatrix":      true,
	"Router":              true,
	"DataProcessor":       true,
	"HumanReview":         true,
	"HumanInLoop":         true,
	"Aggregator":          true,
	"RuleEngine":          true,
	"DataNormalizer":      true,
	"MissingValueHandler": true,
}

// classifyKind reports the canonical kind tag for a raw AST KindName and
// whether it is a Custom(name) agent.
func classifyKind(raw string) (kind string, custom bool) {
	if builtinKinds[raw] {
		return raw, false
	}
	return raw, true
}

// autoIDPrefix derives the "<kind_lower>" half of an auto-generated id
// (spec §8 boundary behavior). Custom kinds use their own (lowercased)
// name, since "custom" alone would collide across distinct user kinds.
func autoIDPrefix(kind string) string {
	return strings.ToLower(kind)
}

// endpointKind validates a Source/Target/Context call's constructor name
// against the closed variant set in spec §3.
func endpointKind(name string) (kind string, known bool) {
	switch name {
	case "NATS", "HTTP", "Kafka", "MQTT", "File", "KnowledgeBase",
		"BayesianNetwork", "Database":
		return name, true
	default:
		return name, false
	}
}
