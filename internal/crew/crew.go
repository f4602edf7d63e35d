package crew

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/XiaoConstantine/dspy-go/pkg/agents"
	"github.com/XiaoConstantine/dspy-go/pkg/logging"
	dspytools "github.com/XiaoConstantine/dspy-go/pkg/tools"

	"github.com/jdelaunay/icebreaker/internal/config"
	"github.com/jdelaunay/icebreaker/internal/interests"
	"github.com/jdelaunay/icebreaker/internal/tools"
)

// Crew is the assembled hierarchy: a manager model that plans the four
// tasks, worker agents that execute them, and a shared memory that carries
// results between phases.
type Crew struct {
	cfg    *config.Config
	ledger interests.Ledger
	memory agents.Memory
	orch   *agents.FlexibleOrchestrator
	tasks  []TaskSpec
}

// New assembles the crew from the configuration. Agent definitions can be
// overridden per agent by YAML files in <config dir>/agents/.
func New(cfg *config.Config) (*Crew, error) {
	specs, err := LoadAgentOverrides(filepath.Join(config.Dir(), "agents"), DefaultAgents())
	if err != nil {
		return nil, fmt.Errorf("loading agent overrides: %w", err)
	}

	ledger := interests.NewLedger(cfg.Ledger.Path)
	toolbox := defaultToolbox(cfg, ledger)
	tasks := DefaultTasks()

	tasksByID := make(map[string]TaskSpec, len(tasks))
	for _, t := range tasks {
		tasksByID[t.ID] = t
	}

	memory := agents.NewInMemoryStore()
	processors := make(map[string]agents.TaskProcessor, len(specs))
	for _, spec := range specs {
		registry, err := registryFor(spec, toolbox)
		if err != nil {
			return nil, err
		}
		processors[spec.Name] = &agentProcessor{
			spec:     spec,
			tasks:    tasksByID,
			registry: registry,
			memory:   memory,
			maxIters: cfg.Crew.MaxIterations,
		}
	}

	orch := agents.NewFlexibleOrchestrator(memory, agents.OrchestrationConfig{
		MaxConcurrent: cfg.Crew.MaxConcurrent,
		TaskParser:    &agents.XMLTaskParser{},
		PlanCreator:   agents.NewDependencyPlanCreator(len(tasks)),
		RetryConfig: &agents.RetryConfig{
			MaxAttempts:       cfg.Crew.MaxRetries,
			BackoffMultiplier: 2.0,
		},
		AnalyzerConfig: agents.AnalyzerConfig{
			BaseInstruction: "You manage a networking research crew that prepares someone to meet the person " +
				"behind a LinkedIn profile. Break the goal into the crew's four tasks and assign each to " +
				"its agent. Keep the task IDs, processors, and dependencies exactly as given.",
			FormatInstructions: formatInstructions(tasks),
			Considerations: []string{
				"Research must complete before any task that builds on it.",
				"The final report is the output of the questions task.",
			},
		},
		CustomProcessors: processors,
	})

	return &Crew{
		cfg:    cfg,
		ledger: ledger,
		memory: memory,
		orch:   orch,
		tasks:  tasks,
	}, nil
}

// Ledger exposes the interests ledger the crew appends to.
func (c *Crew) Ledger() interests.Ledger { return c.ledger }

// Kickoff runs the crew against a LinkedIn profile URL and returns the final
// markdown report.
func (c *Crew) Kickoff(ctx context.Context, profileURL string) (string, error) {
	logger := logging.GetLogger()

	current, err := c.ledger.Entries()
	if err != nil {
		return "", fmt.Errorf("reading interests: %w", err)
	}

	goal := fmt.Sprintf("Prepare pointed questions and conversation starters for meeting the person behind %s.", profileURL)
	result, err := c.orch.Process(ctx, goal, map[string]interface{}{
		"linkedin_url":      profileURL,
		"current_interests": strings.Join(current, "\n"),
	})
	if err != nil {
		return "", fmt.Errorf("crew run: %w", err)
	}

	for id, taskErr := range result.FailedTasks {
		logger.Warn(ctx, "task %s failed: %v", id, taskErr)
	}

	report := c.assembleReport(result)
	if report == "" {
		return "", fmt.Errorf("crew produced no report for %s", profileURL)
	}
	return report, nil
}

// assembleReport prefers the question architect's output; if the manager
// named the final task differently, fall back to stitching all completed
// outputs together in task order.
func (c *Crew) assembleReport(result *agents.OrchestratorResult) string {
	if out, ok := result.CompletedTasks["questions"].(string); ok && strings.TrimSpace(out) != "" {
		return out
	}

	var sections []string
	for _, t := range c.tasks {
		if out, ok := result.CompletedTasks[t.ID].(string); ok && strings.TrimSpace(out) != "" {
			sections = append(sections, out)
		}
	}
	if len(sections) == 0 {
		for _, out := range result.CompletedTasks {
			if s, ok := out.(string); ok && strings.TrimSpace(s) != "" {
				sections = append(sections, s)
			}
		}
	}
	return strings.Join(sections, "\n\n---\n\n")
}

// defaultToolbox builds the crew's tools, keyed by tool name.
func defaultToolbox(cfg *config.Config, ledger interests.Ledger) map[string]tools.Tool {
	timeout := time.Duration(cfg.Search.TimeoutSeconds) * time.Second
	toolbox := map[string]tools.Tool{}
	for _, t := range []tools.Tool{
		tools.NewAppendInterestTool(ledger),
		&tools.SearchTool{Limit: cfg.Search.Limit, Timeout: timeout},
		&tools.ReadProfileTool{Timeout: timeout},
	} {
		toolbox[t.Name()] = t
	}
	return toolbox
}

// registryFor wraps the agent's tools into a dspy-go registry for the ReAct
// loop. Agents without tools get a nil registry and run plain predictions.
func registryFor(spec AgentSpec, toolbox map[string]tools.Tool) (*dspytools.InMemoryToolRegistry, error) {
	if len(spec.Tools) == 0 {
		return nil, nil
	}
	registry := dspytools.NewInMemoryToolRegistry()
	for _, name := range spec.Tools {
		t, ok := toolbox[name]
		if !ok {
			return nil, fmt.Errorf("agent %s: unknown tool %q", spec.Name, name)
		}
		if err := registry.Register(dspytools.NewFuncTool(t.Name(), t.Description(), t.InputSchema(), t.Call)); err != nil {
			return nil, fmt.Errorf("agent %s: registering tool %s: %w", spec.Name, name, err)
		}
	}
	return registry, nil
}

// formatInstructions renders the crew's task plan as the XML the manager
// must echo back, so the parser sees stable IDs and processors.
func formatInstructions(tasks []TaskSpec) string {
	var sb strings.Builder
	sb.WriteString("Respond with the tasks in exactly this XML structure:\n\n<tasks>\n")
	for _, t := range tasks {
		fmt.Fprintf(&sb, "    <task id=%q type=%q processor=%q priority=\"1\">\n", t.ID, t.ID, t.Agent)
		fmt.Fprintf(&sb, "        <description>%s</description>\n", t.Description)
		if len(t.DependsOn) > 0 {
			sb.WriteString("        <dependencies>\n")
			for _, dep := range t.DependsOn {
				fmt.Fprintf(&sb, "            <dep>%s</dep>\n", dep)
			}
			sb.WriteString("        </dependencies>\n")
		}
		sb.WriteString("    </task>\n")
	}
	sb.WriteString("</tasks>")
	return sb.String()
}
