package seating

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// tableRule is a compiled eligibility expression. Rules are boolean
// expressions over the participant environment (name, email, company,
// checked_in, plus custom form attributes), evaluated sandboxed with no side
// effects.
type tableRule struct {
	source  string
	program *vm.Program
}

// compileRule compiles a rule expression. Unknown attribute names are allowed
// at compile time since participants carry free-form attributes; they
// evaluate as nil at run time.
func compileRule(source string) (*tableRule, error) {
	program, err := expr.Compile(source,
		expr.AsBool(),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile rule %q: %w", source, err)
	}
	return &tableRule{source: source, program: program}, nil
}

// eval runs the rule against a participant environment.
func (r *tableRule) eval(env map[string]interface{}) (bool, error) {
	out, err := expr.Run(r.program, env)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate rule %q: %w", r.source, err)
	}
	ok, isBool := out.(bool)
	if !isBool {
		return false, fmt.Errorf("rule %q did not evaluate to a boolean", r.source)
	}
	return ok, nil
}
