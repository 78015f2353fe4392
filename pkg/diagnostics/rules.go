package diagnostics

import (
	"fmt"
	"regexp"

	errUtils "github.com/cloudposse/buildcheck/errors"
	"github.com/cloudposse/buildcheck/pkg/schema"
)

// PatternRule pairs a pattern with the category assigned to lines it matches.
type PatternRule struct {
	Pattern  *regexp.Regexp
	Category string
}

// message extracts the diagnostic message from a match: the first capture
// group when the pattern has one and it participated, else the full match.
func (r PatternRule) message(line string) (string, bool) {
	m := r.Pattern.FindStringSubmatchIndex(line)
	if m == nil {
		return "", false
	}
	if len(m) >= 4 && m[2] >= 0 {
		return line[m[2]:m[3]], true
	}
	return line[m[0]:m[1]], true
}

// CompileRules compiles user-supplied rules, keeping their order.
func CompileRules(rules []schema.PatternRule) ([]PatternRule, error) {
	compiled := make([]PatternRule, 0, len(rules))
	for i, r := range rules {
		if r.Category == "" {
			return nil, fmt.Errorf("%w: rule %d (%q) has no category", errUtils.ErrInvalidPattern, i, r.Pattern)
		}
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %d (%q): %w", errUtils.ErrInvalidPattern, i, r.Pattern, err)
		}
		compiled = append(compiled, PatternRule{Pattern: re, Category: r.Category})
	}
	return compiled, nil
}

// PatternSet maps each severity to its ordered rules. The first rule that
// matches a line decides its category.
type PatternSet struct {
	rules map[Severity][]PatternRule
}

// NewPatternSet builds a set in which, for every severity, the user rules are
// evaluated before the built-in ones.
func NewPatternSet(user, builtin map[Severity][]PatternRule) *PatternSet {
	rules := make(map[Severity][]PatternRule, len(Severities))
	for _, sev := range Severities {
		ordered := make([]PatternRule, 0, len(user[sev])+len(builtin[sev]))
		ordered = append(ordered, user[sev]...)
		ordered = append(ordered, builtin[sev]...)
		rules[sev] = ordered
	}
	return &PatternSet{rules: rules}
}

// Rules returns the effective evaluation order for sev.
func (p *PatternSet) Rules(sev Severity) []PatternRule {
	return p.rules[sev]
}

// match returns the first rule matching line and the extracted message.
func (p *PatternSet) match(sev Severity, line string) (PatternRule, string, bool) {
	for _, rule := range p.rules[sev] {
		if msg, ok := rule.message(line); ok {
			return rule, msg, true
		}
	}
	return PatternRule{}, "", false
}

func rule(pattern, category string) PatternRule {
	return PatternRule{Pattern: regexp.MustCompile(pattern), Category: category}
}

// BuiltinRules returns the built-in Unity failure signatures.
func BuiltinRules() map[Severity][]PatternRule {
	return map[Severity][]PatternRule{
		SeverityError: {
			rule(`error CS\d+: (.*)`, "Compilation Error"),
			rule(`Scripts have compiler errors`, "Compilation Error"),
			rule(`Error building Player: (.*)`, "Build Failure"),
			rule(`BuildFailedException: (.*)`, "Build Failure"),
			rule(`IL2CPP error(?: for method)?:? (.*)`, "IL2CPP Error"),
			rule(`FAILURE: Build failed with an exception|Gradle build failed`, "Android Build Error"),
			rule(`xcodebuild: error: (.*)`, "iOS Build Error"),
			rule(`(?i)no valid unity license|license .*(?:invalid|not found|activation failed)`, "Licensing Error"),
			rule(`Shader error in '([^']+)'`, "Shader Error"),
			rule(`(OutOfMemoryException|Out of memory)`, "Memory Error"),
			rule(`(?:Unhandled|Uncaught)?\s*(\w+Exception: .*)`, "Runtime Exception"),
		},
		SeverityWarning: {
			rule(`warning CS\d+: (.*)`, "Compilation Warning"),
			rule(`Shader warning in '([^']+)'`, "Shader Warning"),
			rule(`is obsolete: (.*)`, "Deprecation Warning"),
			rule(`generated inconsistent result for asset\(guid:[0-9a-f]+\) "([^"]+)"`, "Asset Import Warning"),
		},
	}
}
