// Package crew defines the networking research crew: static agent and task
// definitions plus the hierarchical orchestration that turns a LinkedIn
// profile URL into a markdown report of conversation starters. The hierarchy
// (a manager model delegating to worker agents) and the crew memory come from
// the dspy-go agents package; this package only supplies the definitions,
// the tools, and the glue.
package crew

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// AgentSpec is a static role-tagged prompt configuration for one worker
// agent. Tools lists the names of the crew tools the agent may call.
type AgentSpec struct {
	Name      string   `yaml:"name"`
	Role      string   `yaml:"role"`
	Goal      string   `yaml:"goal"`
	Backstory string   `yaml:"backstory"`
	Tools     []string `yaml:"tools,omitempty"`
}

// Instruction composes the agent's system instruction from its role fields.
func (a AgentSpec) Instruction() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are %s.\n", a.Role)
	fmt.Fprintf(&sb, "Your goal: %s\n", a.Goal)
	if a.Backstory != "" {
		fmt.Fprintf(&sb, "Backstory: %s\n", a.Backstory)
	}
	sb.WriteString("Complete the assigned task thoroughly. Respond with the task output only.")
	return sb.String()
}

// TaskSpec is a static task definition assigned to one agent. DependsOn
// lists task IDs whose output this task builds on.
type TaskSpec struct {
	ID             string
	Agent          string
	Description    string
	ExpectedOutput string
	DependsOn      []string
}

// DefaultAgents returns the crew's four worker agents. The manager is not an
// agent spec; it is the orchestrator's analyzer model.
func DefaultAgents() []AgentSpec {
	return []AgentSpec{
		{
			Name: "researcher",
			Role: "a meticulous professional-background researcher",
			Goal: "Build a factual picture of the person behind a LinkedIn profile: current role, career arc, public writing, talks, and stated interests.",
			Backstory: "You have spent years doing diligence on founders and executives. " +
				"You only report what you can source and you clearly separate facts from inference.",
			Tools: []string{"read_profile", "web_search"},
		},
		{
			Name: "context_keeper",
			Role: "the keeper of the user's personal context",
			Goal: "Relate the research subject to the user's own interests, and record any expertise the subject has that the user should add to their interests.",
			Backstory: "You maintain the user's my_interests.md file, the source of truth for what they care about. " +
				"You are conservative about adding entries: one concise line, only for genuinely new areas.",
			Tools: []string{"append_interest"},
		},
		{
			Name: "critic",
			Role: "a sharp conversational critic",
			Goal: "Cut generic or flattering questions and keep only the ones a busy person would actually enjoy answering.",
			Backstory: "You have sat through too many networking events. " +
				"Anything that could be asked of anyone, you strike.",
		},
		{
			Name: "question_architect",
			Role: "an architect of pointed, specific questions",
			Goal: "Turn research, personal context, and critique into a final markdown report of questions and conversation starters.",
			Backstory: "You write questions that show the asker did their homework: each one references something concrete about the person.",
		},
	}
}

// DefaultTasks returns the crew's four tasks in dependency order.
func DefaultTasks() []TaskSpec {
	return []TaskSpec{
		{
			ID:    "research",
			Agent: "researcher",
			Description: "Research the person behind the LinkedIn profile URL given in the context. " +
				"Read the profile, search for their writing, talks, and recent work. " +
				"Summarize who they are, what they do, and what they visibly care about.",
			ExpectedOutput: "A factual research summary with sources, covering role, career highlights, and public interests.",
		},
		{
			ID:    "personal_context",
			Agent: "context_keeper",
			Description: "Compare the research summary with the user's current interests (given in the context). " +
				"Identify shared ground and gaps. If the subject has a valuable expertise the user lacks, " +
				"record it with the append_interest tool, one concise line per interest.",
			ExpectedOutput: "A short analysis of overlap and gaps between the subject and the user, noting any interests recorded.",
			DependsOn:      []string{"research"},
		},
		{
			ID:    "critique",
			Agent: "critic",
			Description: "Review the research summary and personal-context analysis. " +
				"List the angles that would make for generic small talk and should be avoided, " +
				"and the two or three angles with real conversational potential.",
			ExpectedOutput: "A critique naming weak angles to drop and strong angles to pursue.",
			DependsOn:      []string{"research", "personal_context"},
		},
		{
			ID:    "questions",
			Agent: "question_architect",
			Description: "Write the final report: pointed questions and conversation starters for meeting this person, " +
				"grounded in the research, shaped by the personal context, and filtered by the critique.",
			ExpectedOutput: "A markdown report with a short intro, 5-8 pointed questions, and 2-3 conversation starters.",
			DependsOn:      []string{"research", "personal_context", "critique"},
		},
	}
}

// LoadAgentOverrides reads per-agent YAML files from dir and merges non-empty
// fields over the matching default spec. A missing directory is not an error.
func LoadAgentOverrides(dir string, specs []AgentSpec) ([]AgentSpec, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return specs, nil
		}
		return nil, err
	}

	byName := make(map[string]int, len(specs))
	for i, s := range specs {
		byName[s.Name] = i
	}

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		var override AgentSpec
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("agent override %s: %w", e.Name(), err)
		}
		name := override.Name
		if name == "" {
			name = strings.TrimSuffix(e.Name(), ".yaml")
		}
		i, ok := byName[name]
		if !ok {
			// Unknown agents are ignored; the crew roster is fixed
			continue
		}
		if override.Role != "" {
			specs[i].Role = override.Role
		}
		if override.Goal != "" {
			specs[i].Goal = override.Goal
		}
		if override.Backstory != "" {
			specs[i].Backstory = override.Backstory
		}
		if len(override.Tools) > 0 {
			specs[i].Tools = override.Tools
		}
	}
	return specs, nil
}
