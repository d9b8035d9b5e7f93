package criteria

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/okian/medalist/internal/domain/model"
)

// CEL variables exposed to criterion expressions.
const (
	varYear     = "year"
	varAge      = "age"
	varHasAge   = "hasAge"
	varRecords  = "records"
	varUnlocked = "unlocked"
	varParams   = "params"
)

func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable(varYear, cel.IntType),
		cel.Variable(varAge, cel.IntType),
		cel.Variable(varHasAge, cel.BoolType),
		cel.Variable(varRecords, cel.ListType(cel.MapType(cel.StringType, cel.DynType))),
		cel.Variable(varUnlocked, cel.ListType(cel.MapType(cel.StringType, cel.DynType))),
		cel.Variable(varParams, cel.MapType(cel.StringType, cel.DynType)),
	)
}

// CompileCEL turns a boolean CEL expression into a Predicate. The expression
// sees year, age, hasAge, records, unlocked and params. Records expose
// kind, year, group, category and, when present, points, hits,
// durationSeconds and score. Evaluation errors count as false.
func CompileCEL(expr string) (Predicate, error) {
	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("create CEL env: %w", err)
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: expression must be boolean, got %s", ErrCompile, ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}

	return func(yc YearContext) bool {
		out, _, err := prg.Eval(activation(yc))
		if err != nil {
			return false
		}
		ok, isBool := out.Value().(bool)
		return isBool && ok
	}, nil
}

func activation(yc YearContext) map[string]any {
	age, hasAge := int64(-1), false
	if yc.Age != nil {
		age, hasAge = int64(*yc.Age), true
	}
	records := make([]any, 0, len(yc.Records))
	for _, r := range yc.Records {
		records = append(records, recordMap(r))
	}
	unlocked := make([]any, 0, len(yc.Unlocked))
	for _, u := range yc.Unlocked {
		unlocked = append(unlocked, map[string]any{"awardId": u.AwardID, "year": int64(u.Year)})
	}
	params := yc.Params
	if params == nil {
		params = map[string]any{}
	}
	return map[string]any{
		varYear:     int64(yc.Year),
		varAge:      age,
		varHasAge:   hasAge,
		varRecords:  records,
		varUnlocked: unlocked,
		varParams:   params,
	}
}

func recordMap(r model.ActivityRecord) map[string]any {
	m := map[string]any{
		"id":       r.ID,
		"kind":     r.Kind,
		"year":     int64(r.EffectiveYear()),
		"group":    r.Group,
		"category": r.Category,
	}
	if r.Points != nil {
		m["points"] = *r.Points
	}
	if r.Hits != nil {
		m["hits"] = int64(*r.Hits)
	}
	if r.DurationSeconds != nil {
		m["durationSeconds"] = *r.DurationSeconds
	}
	if r.Score != nil {
		m["score"] = *r.Score
	}
	return m
}
