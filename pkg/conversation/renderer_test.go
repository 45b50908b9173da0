package conversation

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/convopanel/pkg/api"
	"github.com/go-go-golems/convopanel/pkg/config"
)

// countingClock returns a fixed instant and counts how often it was read.
type countingClock struct {
	now   time.Time
	reads int
}

func (c *countingClock) Now() time.Time {
	c.reads++
	return c.now
}

func newTestRenderer(clock *countingClock) *MessageRenderer {
	return NewMessageRenderer(config.Default(),
		WithClock(clock),
		WithTimestampFormatter(func(t time.Time) string { return t.UTC().Format(time.RFC3339) }),
	)
}

func mustPayload(t *testing.T, raw string) *api.ChatPayload {
	t.Helper()
	p, err := api.ParsePayload(raw)
	require.NoError(t, err)
	return p
}

func TestRender_SingleUserMessage(t *testing.T) {
	clock := &countingClock{now: time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)}
	r := newTestRenderer(clock)

	nodes := r.Render(mustPayload(t, `{"input":{"text":"Hi"}}`), RoleUser)
	require.Len(t, nodes, 1)

	n := nodes[0]
	require.True(t, n.HasClass(ClassSegments))
	require.True(t, n.HasClass(ClassFromUser))
	require.True(t, n.HasClass(ClassTop))
	require.False(t, n.HasClass(ClassFromAgent))
	require.Equal(t, "Hi", MessageText(n))

	stamp, ok := Timestamp(n)
	require.True(t, ok)
	require.Equal(t, "2026-10-16T09:30:00Z", stamp)
	require.Equal(t, 1, clock.reads)
}

func TestRender_AgentGroup(t *testing.T) {
	clock := &countingClock{now: time.Unix(0, 0)}
	r := newTestRenderer(clock)

	nodes := r.Render(mustPayload(t, `{"output":{"text":["Hello","How can I help?"]}}`), RoleAgent)
	require.Len(t, nodes, 2)

	require.Equal(t, "Hello", MessageText(nodes[0]))
	require.True(t, nodes[0].HasClass(ClassTop))
	_, ok := Timestamp(nodes[0])
	require.True(t, ok)

	require.Equal(t, "How can I help?", MessageText(nodes[1]))
	require.False(t, nodes[1].HasClass(ClassTop))
	_, ok = Timestamp(nodes[1])
	require.False(t, ok)

	for _, n := range nodes {
		require.True(t, n.HasClass(ClassFromAgent))
	}
	require.Equal(t, 1, clock.reads)
}

func TestRender_DropsEmptyElementsKeepingOrder(t *testing.T) {
	clock := &countingClock{}
	r := newTestRenderer(clock)

	nodes := r.Render(mustPayload(t, `{"output":{"text":["","first",null,"second",""]}}`), RoleAgent)
	require.Len(t, nodes, 2)
	require.Equal(t, "first", MessageText(nodes[0]))
	require.True(t, nodes[0].HasClass(ClassTop))
	require.Equal(t, "second", MessageText(nodes[1]))
	require.False(t, nodes[1].HasClass(ClassTop))
}

func TestRender_NothingToRender(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		role AuthorRole
	}{
		{"no input", `{"output":{"text":"x"}}`, RoleUser},
		{"no output", `{"input":{"text":"x"}}`, RoleAgent},
		{"empty string", `{"input":{"text":""}}`, RoleUser},
		{"empty array", `{"output":{"text":[]}}`, RoleAgent},
		{"only empty elements", `{"output":{"text":["",""]}}`, RoleAgent},
		{"missing text", `{"input":{}}`, RoleUser},
		{"unknown role", `{"input":{"text":"x"},"output":{"text":"y"}}`, RoleNone},
		{"null payload", `null`, RoleUser},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clock := &countingClock{}
			r := newTestRenderer(clock)
			require.Empty(t, r.Render(mustPayload(t, tc.raw), tc.role))
			require.Zero(t, clock.reads)
		})
	}

	r := newTestRenderer(&countingClock{})
	require.Empty(t, r.Render(nil, RoleUser))
}

func TestRender_CountAndOrderMatchNonEmptyElements(t *testing.T) {
	inputs := [][]string{
		{"a"},
		{"a", "b", "c"},
		{"", "a", "", "b"},
		{"x", "", "", "", "y", "z"},
	}
	for i, in := range inputs {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			r := newTestRenderer(&countingClock{})
			p := &api.ChatPayload{Output: &api.Message{Text: api.Text(in)}}
			nodes := r.Render(p, RoleAgent)

			var want []string
			for _, s := range in {
				if s != "" {
					want = append(want, s)
				}
			}
			require.Len(t, nodes, len(want))
			for j, n := range nodes {
				require.Equal(t, want[j], MessageText(n))
				_, stamped := Timestamp(n)
				require.Equal(t, j == 0, stamped)
				require.Equal(t, j == 0, n.HasClass(ClassTop))
			}
		})
	}
}

func TestRoleFromLabel(t *testing.T) {
	roles := config.Default().Roles
	require.Equal(t, RoleUser, RoleFromLabel(roles, "user"))
	require.Equal(t, RoleAgent, RoleFromLabel(roles, "agent"))
	require.Equal(t, RoleNone, RoleFromLabel(roles, "watson"))
	require.Equal(t, "", RoleNone.LaneClass())
}
