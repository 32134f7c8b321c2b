// Command agentctx-demo runs one turn with three parallel tool calls and
// prints what each tool observed of the ambient agent context.
package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/hupe1980/agentctx"
	"github.com/hupe1980/agentctx/config"
	"github.com/hupe1980/agentctx/core"
	"github.com/hupe1980/agentctx/engine"
	"github.com/hupe1980/agentctx/logging"
	"github.com/hupe1980/agentctx/tool"
)

// CalculatorTool demonstrates a custom tool with parameter schema.
type CalculatorTool struct{}

func (t *CalculatorTool) Name() string { return "calculator" }

func (t *CalculatorTool) Description() string {
	return "Perform basic math operations (add, multiply, sqrt)"
}

func (t *CalculatorTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"operation": map[string]any{"type": "string", "enum": []string{"add", "multiply", "sqrt"}},
			"a":         map[string]any{"type": "number"},
			"b":         map[string]any{"type": "number"},
		},
		"required": []string{"operation", "a"},
	}
}

func (t *CalculatorTool) Call(tc *core.ToolContext, args map[string]any) (any, error) {
	if err := tool.ValidateArgs(args, t.Parameters()); err != nil {
		return nil, err
	}

	op, _ := args["operation"].(string)
	a, _ := args["a"].(float64)
	b, _ := args["b"].(float64)

	tc.Logger().Info("calculator", "operation", op, "principal_id", tc.PrincipalID())

	switch op {
	case "add":
		return a + b, nil
	case "multiply":
		return a * b, nil
	case "sqrt":
		if a < 0 {
			return nil, fmt.Errorf("sqrt negative")
		}
		return math.Sqrt(a), nil
	}
	return nil, fmt.Errorf("unsupported op %q", op)
}

func whoami() tool.Tool {
	return tool.NewFunctionTool("whoami", "Report conversation and principal", nil,
		func(tc *core.ToolContext, _ map[string]any) (any, error) {
			return fmt.Sprintf("%s as %s", tc.ConversationID(), tc.PrincipalID()), nil
		})
}

// impersonate narrows its own branch to another principal, then spawns a
// helper goroutine that inherits the narrowed context.
func impersonate() tool.Tool {
	params := map[string]any{
		"type":       "object",
		"properties": map[string]any{"as": map[string]any{"type": "string"}},
		"required":   []string{"as"},
	}
	return tool.NewFunctionTool("impersonate", "Act as another principal", params,
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			as, _ := args["as"].(string)
			ctx := core.Bind(tc.Context(), tc.AgentContext().WithAuthContext(core.AuthContext{PrincipalID: as}))

			out := make(chan string, 1)
			if err := agentctx.Go(ctx, func(ctx context.Context) {
				out <- core.MustCurrent(ctx).AuthContext().PrincipalID
			}); err != nil {
				return nil, err
			}
			return "helper ran as " + <-out, nil
		})
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	lc := cfg.LoggerConfig()
	lc.Output = os.Stderr
	lc.Component = "agentctx-demo"
	logger := logging.NewLogger(lc)

	if cfg.Tracer == config.TracerOTel {
		// Exporters attach to this provider via sdktrace.WithBatcher.
		tp := sdktrace.NewTracerProvider()
		otel.SetTracerProvider(tp)
		defer func() { _ = tp.Shutdown(context.Background()) }()
	}

	rt := agentctx.New(func(o *agentctx.Options) {
		o.EngineConfig = cfg.Engine
		o.Logger = logger
		o.Tracer = cfg.NewTracer(logger)
	})
	if err := rt.RegisterTools(&CalculatorTool{}, whoami(), impersonate()); err != nil {
		return err
	}

	rt.Callbacks().Register(engine.NewFunctionCallback(engine.CallbackBeforeTool, func(ctx context.Context, cb *engine.CallbackContext) error {
		ac, err := core.Current(ctx)
		if err != nil {
			return err
		}
		if !ac.AuthContext().IsAuthenticated() {
			return fmt.Errorf("%s: unauthenticated", cb.Call.Name)
		}
		return nil
	}))

	results, err := rt.RunTurn(context.Background(), engine.Turn{
		Auth: core.AuthContext{PrincipalID: "u1"},
		Calls: []engine.ToolCall{
			{Name: "impersonate", Args: map[string]any{"as": "u2"}},
			{Name: "whoami"},
			{Name: "calculator", Args: map[string]any{"operation": "sqrt", "a": 16.0}},
		},
	})
	if err != nil {
		return err
	}

	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("%-12s error: %v\n", r.Name, r.Err)
			continue
		}
		fmt.Printf("%-12s %v\n", r.Name, r.Output)
	}

	return nil
}
