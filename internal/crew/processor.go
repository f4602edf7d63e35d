package crew

import (
	"context"
	"fmt"
	"strings"

	"github.com/XiaoConstantine/dspy-go/pkg/agents"
	"github.com/XiaoConstantine/dspy-go/pkg/core"
	"github.com/XiaoConstantine/dspy-go/pkg/logging"
	"github.com/XiaoConstantine/dspy-go/pkg/modules"
	dspytools "github.com/XiaoConstantine/dspy-go/pkg/tools"
)

// module is the slice of the dspy-go module surface the processor needs.
// Both Predict and ReAct satisfy it.
type module interface {
	Process(ctx context.Context, inputs map[string]any, opts ...core.Option) (map[string]any, error)
}

// agentProcessor runs one worker agent as an orchestrator task processor.
// Agents with tools run a ReAct loop against their registry; tool-less
// agents answer with a single prediction. Each completed task's output is
// written to the crew memory so downstream agents can read it.
type agentProcessor struct {
	spec     AgentSpec
	tasks    map[string]TaskSpec
	registry *dspytools.InMemoryToolRegistry
	memory   agents.Memory
	maxIters int
}

func (p *agentProcessor) Process(ctx context.Context, task agents.Task, taskContext map[string]interface{}) (interface{}, error) {
	sig := core.NewSignature(
		[]core.InputField{
			{Field: core.Field{Name: "task"}},
			{Field: core.Field{Name: "context"}},
		},
		[]core.OutputField{{Field: core.NewField("output")}},
	).WithInstruction(p.spec.Instruction())

	var m module
	if p.registry != nil {
		m = modules.NewReAct(sig, p.registry, p.maxIters)
	} else {
		m = modules.NewPredict(sig)
	}

	result, err := m.Process(ctx, map[string]any{
		"task":    p.describe(task),
		"context": p.contextBlock(task, taskContext),
	})
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", p.spec.Name, err)
	}

	output, _ := result["output"].(string)
	if strings.TrimSpace(output) == "" {
		return nil, fmt.Errorf("agent %s produced no output for task %s", p.spec.Name, task.ID)
	}

	if p.memory != nil {
		if err := p.memory.Store(resultKey(task.ID), output); err != nil {
			logging.GetLogger().Warn(ctx, "storing result of task %s: %v", task.ID, err)
		}
	}
	return output, nil
}

// describe resolves the task description: the static spec wins, since the
// manager's XML may paraphrase or truncate it.
func (p *agentProcessor) describe(task agents.Task) string {
	if spec, ok := p.tasks[task.ID]; ok {
		return spec.Description + "\n\nExpected output: " + spec.ExpectedOutput
	}
	if d, ok := task.Metadata["description"].(string); ok && d != "" {
		return d
	}
	return task.Type
}

// contextBlock assembles the textual context for the agent: the profile URL,
// the user's current interests, and the outputs of dependency tasks.
func (p *agentProcessor) contextBlock(task agents.Task, taskContext map[string]interface{}) string {
	var sb strings.Builder
	if url, ok := taskContext["linkedin_url"].(string); ok && url != "" {
		fmt.Fprintf(&sb, "LinkedIn profile URL: %s\n", url)
	}
	if cur, ok := taskContext["current_interests"].(string); ok && cur != "" {
		fmt.Fprintf(&sb, "\nThe user's current interests:\n%s\n", cur)
	}

	deps := task.Dependencies
	if spec, ok := p.tasks[task.ID]; ok && len(deps) == 0 {
		deps = spec.DependsOn
	}
	if p.memory == nil {
		return sb.String()
	}
	for _, dep := range deps {
		v, err := p.memory.Retrieve(resultKey(dep))
		if err != nil {
			continue
		}
		if out, ok := v.(string); ok && out != "" {
			fmt.Fprintf(&sb, "\nOutput of the %s task:\n%s\n", dep, out)
		}
	}
	return sb.String()
}

func resultKey(taskID string) string {
	return "result:" + taskID
}
