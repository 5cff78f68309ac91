package harness

import (
	"github.com/expr-lang/expr"
)

// Evaluator evaluates guard expressions using the expr-lang library.
// Keys and expressions are rewritten to the flat underscore convention
// before compilation.
type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

func (e *Evaluator) Eval(expression string, context map[string]any) (any, error) {
	// NOTE: expr.Env MUST come before AllowUndefinedVariables for it to work
	opts := []expr.Option{
		expr.Env(context),
		expr.AllowUndefinedVariables(), // Missing outputs return nil instead of compile error
	}

	program, err := expr.Compile(FormatExpression(expression), opts...)
	if err != nil {
		return nil, err
	}
	return expr.Run(program, context)
}

// EvalOutputs evaluates expression against a step output map, formatting the
// dotted output keys into the flat namespace the expression is rewritten to.
func (e *Evaluator) EvalOutputs(expression string, outputs map[string]string) (any, error) {
	context := make(map[string]any, len(outputs))
	for k, v := range outputs {
		context[FormatKey(k)] = v
	}
	return e.Eval(expression, context)
}
