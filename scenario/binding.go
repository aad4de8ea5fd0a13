package scenario

import (
	"github.com/Shopify/go-lua"
)

func registerScenarioType(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

func registerScenarioConstructor(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, scenarioConstructor, 0)
	state.SetGlobal("Scenario")
}

var scenarioConstructor = []lua.RegistryFunction{
	{Name: "new", Function: scenarioNew},
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	state.PushUserData(&Scenario{Name: name})
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "board", Function: scenarioBoard},
	{Name: "default_board", Function: scenarioDefaultBoard},
	{Name: "wormhole", Function: scenarioWormhole},
	{Name: "players", Function: scenarioPlayers},
	{Name: "roll", Function: scenarioRoll},
	{Name: "expect_position", Function: scenarioExpectPosition},
	{Name: "expect_intermediate", Function: scenarioExpectIntermediate},
	{Name: "expect_move", Function: scenarioExpectMove},
	{Name: "expect_active", Function: scenarioExpectActive},
	{Name: "expect_winner", Function: scenarioExpectWinner},
	{Name: "expect_finished", Function: scenarioExpectFinished},
	{Name: "expect_next_best", Function: scenarioExpectNextBest},
	{Name: "expect_best_moves", Function: scenarioExpectBestMoves},
}

// Every method returns the scenario so calls can be chained.
func chain(state *lua.State) int {
	state.PushValue(1)
	return 1
}

func scenarioBoard(state *lua.State) int {
	s := checkScenario(state)
	length := lua.CheckInteger(state, 2)
	breadth := lua.OptInteger(state, 3, length)
	s.add("board", where(state), map[string]any{"length": length, "breadth": breadth})
	return chain(state)
}

func scenarioDefaultBoard(state *lua.State) int {
	s := checkScenario(state)
	s.add("default_board", where(state), nil)
	return chain(state)
}

func scenarioWormhole(state *lua.State) int {
	s := checkScenario(state)
	from := lua.CheckInteger(state, 2)
	to := lua.CheckInteger(state, 3)
	s.add("wormhole", where(state), map[string]any{"from": from, "to": to})
	return chain(state)
}

// players accepts either names as arguments or a single array of names.
func scenarioPlayers(state *lua.State) int {
	s := checkScenario(state)
	var names []string
	if state.TypeOf(2) == lua.TypeTable {
		names = stringArray(state, 2)
	} else {
		for i := 2; i <= state.Top(); i++ {
			names = append(names, lua.CheckString(state, i))
		}
	}
	if len(names) == 0 {
		lua.ArgumentError(state, 2, "at least one player expected")
	}
	s.add("players", where(state), map[string]any{"names": names})
	return chain(state)
}

// roll plays one turn per value, in order.
func scenarioRoll(state *lua.State) int {
	s := checkScenario(state)
	w := where(state)
	if state.Top() < 2 {
		lua.ArgumentError(state, 2, "die value expected")
	}
	for i := 2; i <= state.Top(); i++ {
		v := lua.CheckInteger(state, i)
		if v < 1 || v > 6 {
			lua.ArgumentError(state, i, "die value must be 1..6")
		}
		s.add("roll", w, map[string]any{"value": v})
	}
	return chain(state)
}

func scenarioExpectPosition(state *lua.State) int {
	s := checkScenario(state)
	s.add("expect_position", where(state), map[string]any{
		"name": lua.CheckString(state, 2),
		"cell": lua.CheckInteger(state, 3),
	})
	return chain(state)
}

func scenarioExpectIntermediate(state *lua.State) int {
	s := checkScenario(state)
	s.add("expect_intermediate", where(state), map[string]any{
		"name": lua.CheckString(state, 2),
		"cell": lua.CheckInteger(state, 3),
	})
	return chain(state)
}

// expect_move checks the type of the last resolved draw.
func scenarioExpectMove(state *lua.State) int {
	s := checkScenario(state)
	s.add("expect_move", where(state), map[string]any{"move": lua.CheckString(state, 2)})
	return chain(state)
}

func scenarioExpectActive(state *lua.State) int {
	s := checkScenario(state)
	s.add("expect_active", where(state), map[string]any{"name": lua.CheckString(state, 2)})
	return chain(state)
}

func scenarioExpectWinner(state *lua.State) int {
	s := checkScenario(state)
	s.add("expect_winner", where(state), map[string]any{
		"rank": lua.CheckInteger(state, 2),
		"name": lua.CheckString(state, 3),
	})
	return chain(state)
}

func scenarioExpectFinished(state *lua.State) int {
	s := checkScenario(state)
	s.add("expect_finished", where(state), nil)
	return chain(state)
}

func scenarioExpectNextBest(state *lua.State) int {
	s := checkScenario(state)
	s.add("expect_next_best", where(state), map[string]any{
		"name":  lua.CheckString(state, 2),
		"value": lua.CheckInteger(state, 3),
	})
	return chain(state)
}

func scenarioExpectBestMoves(state *lua.State) int {
	s := checkScenario(state)
	name := lua.CheckString(state, 2)
	lua.CheckType(state, 3, lua.TypeTable)
	s.add("expect_best_moves", where(state), map[string]any{
		"name":  name,
		"moves": intArray(state, 3),
	})
	return chain(state)
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if s, ok := ud.(*Scenario); ok && s != nil {
		return s
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

// where returns the "chunk:line:" location of the calling script line.
func where(state *lua.State) string {
	lua.Where(state, 1)
	w, _ := state.ToString(-1)
	state.Pop(1)
	return w
}

func stringArray(state *lua.State, index int) []string {
	var out []string
	for i := 1; i <= state.RawLength(index); i++ {
		state.RawGetInt(index, i)
		v, ok := state.ToString(-1)
		state.Pop(1)
		if !ok {
			lua.ArgumentError(state, index, "array of strings expected")
		}
		out = append(out, v)
	}
	return out
}

func intArray(state *lua.State, index int) []int {
	out := []int{}
	for i := 1; i <= state.RawLength(index); i++ {
		state.RawGetInt(index, i)
		v, ok := state.ToInteger(-1)
		state.Pop(1)
		if !ok {
			lua.ArgumentError(state, index, "array of integers expected")
		}
		out = append(out, v)
	}
	return out
}
