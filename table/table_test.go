package table

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librescoot/simplefsm"
)

func run(t *testing.T, tbl *Table, events ...string) (*simplefsm.Machine[*Trace, string], *Trace, error) {
	t.Helper()
	trace := &Trace{}
	cfg, err := tbl.Compile(trace)
	require.NoError(t, err)
	m, err := simplefsm.New(cfg)
	require.NoError(t, err)

	if err := m.Start(); err != nil {
		return m, trace, err
	}
	for _, ev := range events {
		if err := m.OnEvent(ev); err != nil {
			return m, trace, err
		}
	}
	return m, trace, nil
}

func TestLoadFormats(t *testing.T) {
	for _, file := range []string{"door.yaml", "door.toml"} {
		t.Run(file, func(t *testing.T) {
			tbl, err := Load(filepath.Join("testdata", file))
			require.NoError(t, err)

			assert.Equal(t, "closed", tbl.Initial)
			assert.Equal(t, uint(16), tbl.MaxTransitions)
			require.Len(t, tbl.States, 4)
			assert.Equal(t, map[string]string{"open": "opening", "lock": "locked"}, tbl.States[0].Events)
			assert.Equal(t, "open", tbl.States[1].Entry)

			m, trace, err := run(t, tbl, "open", "ignored", "close")
			require.NoError(t, err)

			assert.Equal(t, []string{
				"closed.entry",
				"closed.event(open)",
				"closed.exit",
				"opening.entry",
				"opening.exit",
				"open.entry",
				"open.event(ignored)",
				"open.event(close)",
				"open.exit",
				"closed.entry",
			}, trace.Calls)

			state, err := m.CurrentState()
			require.NoError(t, err)
			assert.Equal(t, "closed", tbl.Name(state))
		})
	}
}

func TestPingPongTimeout(t *testing.T) {
	tbl, err := Load(filepath.Join("testdata", "pingpong.yaml"))
	require.NoError(t, err)

	m, trace, err := run(t, tbl)
	require.ErrorIs(t, err, simplefsm.ErrTimeout)
	assert.False(t, m.Started())
	// initial entry plus six exit/entry pairs
	assert.Len(t, trace.Calls, 13)
}

func TestRawTargetOutOfBounds(t *testing.T) {
	tbl, err := Parse([]byte(`
initial: a
states:
  - name: a
    events: {jump: "!9"}
`), FormatYAML)
	require.NoError(t, err)

	m, trace, err := run(t, tbl, "jump")
	require.ErrorIs(t, err, simplefsm.ErrOutOfBounds)
	assert.Equal(t, []string{"a.entry", "a.event(jump)", "a.exit"}, trace.Calls)
	assert.True(t, m.Started())
	assert.Equal(t, "!9", tbl.Name(9))
}

func TestExitDivert(t *testing.T) {
	tbl := &Table{
		Initial: "a",
		States: []State{
			{Name: "a", Exit: "fault", Events: map[string]string{"go": "b"}},
			{Name: "b"},
			{Name: "fault"},
		},
	}

	m, trace, err := run(t, tbl, "go")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.entry", "a.event(go)", "a.exit", "fault.entry"}, trace.Calls)
	state, _ := m.CurrentState()
	assert.Equal(t, "fault", tbl.Name(state))
}

func TestCompileDefaults(t *testing.T) {
	tbl := &Table{Initial: "b", States: []State{{Name: "a"}, {Name: "b"}}}
	trace := &Trace{}

	cfg, err := tbl.Compile(trace)
	require.NoError(t, err)
	assert.Equal(t, simplefsm.DefaultMaxTransitions, cfg.MaxTransitionCount)
	assert.Equal(t, simplefsm.StateID(1), cfg.InitialState)
	assert.Equal(t, uint(2), cfg.StateCount)
	assert.Same(t, trace, cfg.Context)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		tbl  Table
	}{
		{"no states", Table{Initial: "a"}},
		{"no initial", Table{States: []State{{Name: "a"}}}},
		{"undefined initial", Table{Initial: "x", States: []State{{Name: "a"}}}},
		{"unnamed state", Table{Initial: "a", States: []State{{Name: "a"}, {}}}},
		{"duplicate state", Table{Initial: "a", States: []State{{Name: "a"}, {Name: "a"}}}},
		{"reserved prefix", Table{Initial: "a", States: []State{{Name: "a"}, {Name: "!b"}}}},
		{"undefined entry target", Table{Initial: "a", States: []State{{Name: "a", Entry: "b"}}}},
		{"undefined exit target", Table{Initial: "a", States: []State{{Name: "a", Exit: "b"}}}},
		{"undefined event target", Table{Initial: "a", States: []State{{Name: "a", Events: map[string]string{"e": "b"}}}}},
		{"bad raw target", Table{Initial: "a", States: []State{{Name: "a", Entry: "!x"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.tbl.Validate(), ErrInvalidTable)
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("initial: a\nstates: [{name: a}]\nbogus: 1\n"), FormatYAML)
	assert.Error(t, err)

	_, err = Parse([]byte("initial = 3"), FormatTOML)
	assert.Error(t, err)

	_, err = Parse([]byte("{}"), Format("json"))
	assert.Error(t, err)

	_, err = Load("testdata/door.json")
	assert.Error(t, err)

	_, err = Load("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("a/b.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = FormatFromPath("machine.toml")
	require.NoError(t, err)
	assert.Equal(t, FormatTOML, f)
}
