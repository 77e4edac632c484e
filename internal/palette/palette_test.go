package palette

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

type call struct {
	args  []string
	stdin string
}

// scripted returns a command whose binary answers with outputs in order.
func scripted(name string, outputs ...string) (*command, *[]call) {
	var calls []call
	c := newCommand(name)
	c.run = func(_ string, args []string, stdin string) (string, error) {
		calls = append(calls, call{args: args, stdin: stdin})
		if len(calls) > len(outputs) {
			return "", ErrCancelled
		}
		return outputs[len(calls)-1] + "\n", nil
	}
	return c, &calls
}

func hasArgs(args []string, want ...string) bool {
	for i := 0; i+len(want) <= len(args); i++ {
		if slices.Equal(args[i:i+len(want)], want) {
			return true
		}
	}
	return false
}

func TestRofiRowsAndArgs(t *testing.T) {
	c, calls := scripted("rofi", "2")
	choices := []Choice{
		{Label: "Shortcuts", Header: true},
		{Label: "Next <Super>", Action: "a", Icon: "go-next"},
		{Label: "Disable", Action: "b", Current: true},
	}
	got, err := c.Pick("screenhop", "2 monitors", choices)
	if err != nil || got.Action != "b" {
		t.Fatalf("Pick = %+v, %v", got, err)
	}

	rows := strings.Split((*calls)[0].stdin, "\n")
	if rows[0] != "<b>Shortcuts</b>\x00nonselectable\x1ftrue" {
		t.Errorf("header row = %q", rows[0])
	}
	if rows[1] != "Next &lt;Super&gt;\x00icon\x1fgo-next" {
		t.Errorf("icon row = %q", rows[1])
	}
	if rows[2] != "Disable" {
		t.Errorf("plain row = %q", rows[2])
	}

	args := (*calls)[0].args
	for _, want := range [][]string{{"-format", "i"}, {"-no-custom"}, {"-p", "screenhop"}, {"-a", "2"}, {"-selected-row", "2"}, {"-mesg", "2 monitors"}} {
		if !hasArgs(args, want...) {
			t.Errorf("args %v missing %v", args, want)
		}
	}
}

func TestDmenuMatchesNumberedLabels(t *testing.T) {
	c, calls := scripted("dmenu", "Reset (2)")
	choices := []Choice{
		{Label: "Reset", Action: "first"},
		{Label: "Reset", Action: "second"},
	}
	got, err := c.Pick("p", "ignored", choices)
	if err != nil || got.Action != "second" {
		t.Fatalf("Pick = %+v, %v", got, err)
	}
	if (*calls)[0].stdin != "Reset\nReset (2)" {
		t.Fatalf("stdin = %q", (*calls)[0].stdin)
	}
	if hasArgs((*calls)[0].args, "-mesg") {
		t.Fatalf("dmenu has no message bar: %v", (*calls)[0].args)
	}
}

func TestPickErrors(t *testing.T) {
	c, _ := scripted("fuzzel", "")
	if _, err := c.Pick("p", "", []Choice{{Label: "a", Action: "a"}}); !errors.Is(err, ErrCancelled) {
		t.Fatalf("empty answer: err = %v", err)
	}
	c, _ = scripted("fuzzel", "7")
	if _, err := c.Pick("p", "", []Choice{{Label: "a", Action: "a"}}); err == nil {
		t.Fatalf("out of range index should fail")
	}
	c, _ = scripted("wofi", "typed")
	if _, err := c.Pick("p", "", []Choice{{Label: "a", Action: "a"}}); err == nil {
		t.Fatalf("unknown label should fail")
	}
	if _, err := c.Pick("p", "", nil); err == nil {
		t.Fatalf("no choices should fail")
	}
}

func TestNewAutoDetect(t *testing.T) {
	installed := map[string]bool{"wofi": true, "dmenu": true}
	orig := lookPath
	lookPath = func(name string) (string, error) {
		if installed[name] {
			return "/usr/bin/" + name, nil
		}
		return "", errors.New("not found")
	}
	t.Cleanup(func() { lookPath = orig })

	l, err := New("auto")
	if err != nil || l.Name() != "wofi" {
		t.Fatalf("New(auto) = %v, %v", l, err)
	}
	if l, err := New(" DMENU "); err != nil || l.Name() != "dmenu" {
		t.Fatalf("New(dmenu) = %v, %v", l, err)
	}
	if _, err := New("rofi"); err == nil {
		t.Fatalf("missing launcher should fail")
	}
	if _, err := New("bemenu"); err == nil {
		t.Fatalf("unknown launcher should fail")
	}

	installed = map[string]bool{}
	if _, err := New(""); err == nil {
		t.Fatalf("auto with nothing installed should fail")
	}
}

type fakeLauncher struct {
	picks   []string // labels to pick, in order; "" cancels
	prompts []string
}

func (f *fakeLauncher) Name() string { return "fake" }

func (f *fakeLauncher) Pick(prompt, _ string, choices []Choice) (Choice, error) {
	f.prompts = append(f.prompts, prompt)
	if len(f.picks) == 0 {
		return Choice{}, ErrCancelled
	}
	label := f.picks[0]
	f.picks = f.picks[1:]
	for _, ch := range choices {
		if ch.Label == label {
			return ch, nil
		}
	}
	return Choice{}, ErrCancelled
}

func testTree() []Node {
	return []Node{
		{Choice: Choice{Label: "Move next", Action: "move next"}},
		{Choice: Choice{Label: "Shortcuts", Header: true}},
		{Choice: Choice{Label: "Next"}, Children: []Node{
			{Choice: Choice{Label: "Disable", Action: "disable next"}},
		}},
	}
}

func TestMenuChoosesLeafThroughSubmenu(t *testing.T) {
	l := &fakeLauncher{picks: []string{"Shortcuts", "Next →", "Back", "Next →", "Disable"}}
	m := NewMenu(l, "screenhop")
	action, err := m.Choose(testTree())
	if err != nil || action != "disable next" {
		t.Fatalf("Choose = %q, %v", action, err)
	}
	want := []string{"screenhop", "screenhop", "Next", "screenhop", "Next"}
	if !slices.Equal(l.prompts, want) {
		t.Fatalf("prompts = %v, want %v", l.prompts, want)
	}
}

func TestMenuCancel(t *testing.T) {
	// Escape in the submenu returns to the top, Escape there cancels.
	l := &fakeLauncher{picks: []string{"Next →", ""}}
	if _, err := NewMenu(l, "screenhop").Choose(testTree()); !errors.Is(err, ErrCancelled) {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}
	if len(l.prompts) != 3 {
		t.Fatalf("prompts = %v", l.prompts)
	}
}
