package hunt

import (
	"bytes"
	"context"
	"fmt"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/DerithAI/WOLF-AI/types"
)

// runCode evaluates the payload as Go source in an embedded interpreter.
// Each attempt gets a fresh interpreter, so hunts cannot leak state into
// each other. The result is whatever the program printed, or the value
// of the final expression when nothing was printed.
func runCode(ctx context.Context, code string) (result string, err error) {
	// The interpreter can panic on pathological input; a panic is an
	// execution failure of this hunt, not of the engine.
	defer func() {
		if r := recover(); r != nil {
			result = ""
			err = &types.ExecutionError{Kind: "code", Detail: fmt.Sprintf("interpreter panic: %v", r)}
		}
	}()

	var stdout, stderr bytes.Buffer
	i := interp.New(interp.Options{Stdout: &stdout, Stderr: &stderr})
	if useErr := i.Use(stdlib.Symbols); useErr != nil {
		return "", &types.ExecutionError{Kind: "code", Detail: "stdlib symbols unavailable", Err: useErr}
	}

	v, evalErr := i.EvalWithContext(ctx, code)

	output := joinOutput(stdout.String(), stderr.String())
	if ctx.Err() == context.DeadlineExceeded {
		return output, ctx.Err()
	}
	if evalErr != nil {
		return output, &types.ExecutionError{Kind: "code", Detail: evalErr.Error(), Err: evalErr}
	}
	if output == "" && v.IsValid() {
		output = fmt.Sprintf("%v", v)
	}
	return output, nil
}
