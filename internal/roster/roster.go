// Package roster holds the static agent registry and the authorization
// lookup that cross-references an identified agent against it.
package roster

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"call-insights-go/internal/types"
)

// Categories is the fixed conversation category enumeration.
var Categories = []string{
	"technical_support",
	"billing",
	"sales",
	"account_management",
	"product_information",
	"returns",
	"order_management",
}

// Roster maps agent name to profile. Built once at startup, read-only after.
type Roster struct {
	profiles map[string]types.AgentProfile
}

// Default returns the built-in roster.
func Default() *Roster {
	return fromProfiles([]types.AgentProfile{
		{
			ID:             "AK001",
			Name:           "Andrew K",
			Categories:     []string{"technical_support", "product_information"},
			ExpertiseLevel: "senior",
			Department:     "technical_support",
		},
		{
			ID:             "SM002",
			Name:           "Sarah M",
			Categories:     []string{"billing", "account_management"},
			ExpertiseLevel: "mid",
			Department:     "customer_service",
		},
		{
			ID:             "MJ003",
			Name:           "Michael J",
			Categories:     []string{"sales", "product_upsell"},
			ExpertiseLevel: "senior",
			Department:     "sales",
		},
		{
			ID:             "LP004",
			Name:           "Lisa P",
			Categories:     []string{"returns", "order_management"},
			ExpertiseLevel: "junior",
			Department:     "customer_service",
		},
	})
}

type rosterFile struct {
	Agents []types.AgentProfile `yaml:"agents"`
}

// Load reads a roster from a YAML file. An empty path returns the default.
func Load(path string) (*Roster, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	var rf rosterFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	if len(rf.Agents) == 0 {
		return nil, fmt.Errorf("roster %s contains no agents", path)
	}
	return fromProfiles(rf.Agents), nil
}

func fromProfiles(profiles []types.AgentProfile) *Roster {
	m := make(map[string]types.AgentProfile, len(profiles))
	for _, p := range profiles {
		m[p.Name] = p
	}
	return &Roster{profiles: m}
}

// Resolve looks up agentName and reports whether that agent is authorized to
// handle category. Unknown agents are never authorized and yield a zero
// profile. Pure and deterministic.
func (r *Roster) Resolve(agentName, category string) (bool, types.AgentProfile) {
	p, ok := r.profiles[agentName]
	if !ok {
		return false, types.AgentProfile{}
	}
	for _, c := range p.Categories {
		if c == category {
			return true, p
		}
	}
	return false, p
}

// Names returns the agent names in sorted order, for prompt construction.
func (r *Roster) Names() []string {
	out := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Size reports how many agents the roster holds.
func (r *Roster) Size() int {
	return len(r.profiles)
}
