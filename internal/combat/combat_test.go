package combat

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/specialistvlad/spellgraph/internal/spell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var north = mgl32.Vec3{0, 0, 1}

func ids(targets []spell.Target) []string {
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		out = append(out, t.ID())
	}
	return out
}

func newTestWorld(t *testing.T) (*World, *Actor) {
	t.Helper()
	w := NewWorld()
	hero := NewActor("hero", "player", mgl32.Vec3{}, north, 100, 100)
	for _, a := range []*Actor{
		hero,
		NewActor("squire", "player", mgl32.Vec3{0, 0, 2}, north, 50, 50),
		NewActor("goblin", "monster", mgl32.Vec3{0, 0, 5}, north, 30, 30),
		NewActor("orc", "monster", mgl32.Vec3{5, 0, 0}, north, 80, 80),
		NewActor("troll", "monster", mgl32.Vec3{0, 0, -20}, north, 200, 200),
	} {
		require.NoError(t, w.Add(a))
	}
	return w, hero
}

func TestWorld_QueryCombatTargets(t *testing.T) {
	w, hero := newTestWorld(t)

	testCases := []struct {
		name  string
		query spell.Query
		want  []string
	}{
		{name: "everything closest first", want: []string{"squire", "goblin", "orc", "troll"}},
		{name: "include origin", query: spell.Query{IncludeOrigin: true, Limit: 2}, want: []string{"hero", "squire"}},
		{name: "max distance", query: spell.Query{MaxDistance: 5}, want: []string{"squire", "goblin", "orc"}},
		{name: "min distance", query: spell.Query{MinDistance: 3, MaxDistance: 10}, want: []string{"goblin", "orc"}},
		{name: "field of view", query: spell.Query{FieldOfView: 90}, want: []string{"squire", "goblin"}},
		{name: "wide field of view", query: spell.Query{FieldOfView: 181}, want: []string{"squire", "goblin", "orc"}},
		{name: "named faction", query: spell.Query{Faction: "monster"}, want: []string{"goblin", "orc", "troll"}},
		{name: "excluded faction", query: spell.Query{Faction: "!monster"}, want: []string{"squire"}},
		{name: "enemies", query: spell.Query{Faction: FactionEnemy, Limit: 1}, want: []string{"goblin"}},
		{name: "allies", query: spell.Query{Faction: FactionAlly}, want: []string{"squire"}},
		{name: "nothing matches", query: spell.Query{Faction: "dragon"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := w.QueryCombatTargets(hero, tc.query)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestWorld_QuerySkipsDeadAndOrdersTiesByID(t *testing.T) {
	w := NewWorld()
	origin := NewActor("origin", "a", mgl32.Vec3{}, north, 10, 10)
	require.NoError(t, w.Add(origin))
	require.NoError(t, w.Add(NewActor("b", "x", mgl32.Vec3{1, 0, 0}, north, 10, 10)))
	require.NoError(t, w.Add(NewActor("a", "x", mgl32.Vec3{-1, 0, 0}, north, 10, 10)))
	dead := NewActor("c", "x", mgl32.Vec3{0, 0, 1}, north, 10, 10)
	require.NoError(t, w.Add(dead))
	dead.OnMessage(&spell.Message{Type: spell.MessageDamage, Value: 50})

	got := w.QueryCombatTargets(origin, spell.Query{})

	assert.Equal(t, []string{"a", "b"}, ids(got))
	assert.Nil(t, w.QueryCombatTargets(nil, spell.Query{}))
}

func TestWorld_AddRejectsDuplicates(t *testing.T) {
	w := NewWorld()
	require.NoError(t, w.Add(NewActor("hero", "", mgl32.Vec3{}, north, 1, 1)))

	err := w.Add(NewActor("hero", "", mgl32.Vec3{}, north, 1, 1))

	assert.ErrorContains(t, err, "already exists")
	got, ok := w.Actor("hero")
	require.True(t, ok)
	assert.Len(t, w.Actors(), 1)
	assert.Same(t, got, w.Actors()[0])
}

func TestActor_OnMessage(t *testing.T) {
	// --- Arrange ---
	a := NewActor("hero", "player", mgl32.Vec3{}, mgl32.Vec3{}, 60, 100)
	assert.Equal(t, north, a.Forward(), "a zero forward defaults to +Z")

	// --- Act & Assert ---
	heal := &spell.Message{Type: spell.MessageHeal, Value: 70}
	a.OnMessage(heal)
	assert.True(t, heal.Handled)
	assert.Equal(t, float32(100), a.Health())
	assert.Equal(t, float32(40), a.HealingDone)

	hit := &spell.Message{Type: spell.MessageDamage, Value: 130}
	a.OnMessage(hit)
	assert.True(t, hit.Handled)
	assert.Zero(t, a.Health())
	assert.False(t, a.Alive())
	assert.Equal(t, float32(100), a.DamageTaken)

	again := &spell.Message{Type: spell.MessageDamage, Value: 5}
	a.OnMessage(again)
	assert.False(t, again.Handled, "dead actors ignore damage")

	note := &spell.Message{Type: spell.MessageNotify, Name: "chilled"}
	a.OnMessage(note)
	assert.True(t, note.Handled)
	assert.Equal(t, []string{"chilled"}, a.Notes)
}

func TestActor_ImplementsSpellInterfaces(t *testing.T) {
	var target spell.Target = NewActor("hero", "", mgl32.Vec3{1, 2, 3}, north, 1, 1)
	_, isHandler := target.(spell.MessageHandler)

	assert.True(t, isHandler)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, target.Position())
}
