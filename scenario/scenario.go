// Package scenario runs scripted games. A Lua script describes a board, a
// roster, the dice values to roll and the expected outcome; Run replays it
// against the model with a deterministic roller.
package scenario

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
)

const scenarioTypeName = "scenario"

// Scenario is the declarative result of a script.
type Scenario struct {
	Name  string
	Steps []Step
}

// Step is one scripted instruction. Where is the script location that added it.
type Step struct {
	Kind  string
	Where string
	Args  map[string]any
}

// LoadFile runs the script at path and returns the scenario it builds.
func LoadFile(path string) (*Scenario, error) {
	state := newState()
	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	s, err := collect(state)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if strings.TrimSpace(s.Name) == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// LoadString runs an inline script.
func LoadString(script string) (*Scenario, error) {
	state := newState()
	if err := lua.LoadString(state, script); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	return collect(state)
}

func newState() *lua.State {
	state := lua.NewState()
	lua.OpenLibraries(state)
	registerScenarioType(state)
	registerScenarioConstructor(state)
	return state
}

func collect(state *lua.State) (*Scenario, error) {
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}
	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	s, ok := ud.(*Scenario)
	if !ok || s == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	return s, nil
}

func (s *Scenario) add(kind, where string, args map[string]any) {
	if args == nil {
		args = map[string]any{}
	}
	s.Steps = append(s.Steps, Step{Kind: kind, Where: strings.TrimSuffix(where, ": "), Args: args})
}
