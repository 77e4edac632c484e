package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

type runFunc func(name string, args []string, stdin string) (string, error)

// command drives one dmenu-compatible launcher binary.
type command struct {
	name string
	// byIndex launchers print the picked row number, so labels need not be
	// unique.
	byIndex bool
	// rich launchers (rofi) take pango markup and per-row properties.
	rich bool
	run  runFunc
}

func newCommand(name string) *command {
	return &command{
		name:    name,
		byIndex: name == "rofi" || name == "fuzzel",
		rich:    name == "rofi",
		run:     runCommand,
	}
}

func (c *command) Name() string { return c.name }

func (c *command) Pick(prompt, message string, choices []Choice) (Choice, error) {
	if len(choices) == 0 {
		return Choice{}, errors.New("palette: nothing to pick from")
	}
	labels := c.labels(choices)

	rows := make([]string, len(choices))
	for i, ch := range choices {
		rows[i] = c.row(ch, labels[i])
	}
	out, err := c.run(c.name, c.args(prompt, message, choices), strings.Join(rows, "\n"))
	if err != nil {
		return Choice{}, err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return Choice{}, ErrCancelled
	}

	if c.byIndex {
		if idx, err := strconv.Atoi(out); err == nil {
			if idx < 0 || idx >= len(choices) {
				return Choice{}, fmt.Errorf("palette: row %d out of range", idx)
			}
			return choices[idx], nil
		}
	}
	for i, label := range labels {
		if label == out {
			return choices[i], nil
		}
	}
	return Choice{}, fmt.Errorf("palette: unknown selection %q", out)
}

// labels returns the visible text per row. Launchers that answer with the
// text get duplicate labels numbered so the answer stays unambiguous.
func (c *command) labels(choices []Choice) []string {
	out := make([]string, len(choices))
	seen := make(map[string]int)
	for i, ch := range choices {
		label := oneLine(ch.Label)
		if !c.byIndex && !ch.Header {
			if n := seen[label]; n > 0 {
				label = fmt.Sprintf("%s (%d)", label, n+1)
			}
			seen[oneLine(ch.Label)]++
		}
		out[i] = label
	}
	return out
}

func (c *command) row(ch Choice, label string) string {
	if !c.rich {
		return label
	}
	text := html.EscapeString(label)
	if ch.Header {
		text = "<b>" + text + "</b>"
	}

	// rofi row properties: one NUL, then \x1f-separated key/value pairs.
	var props []string
	if ch.Header {
		props = append(props, "nonselectable", "true")
	}
	if ch.Icon != "" {
		props = append(props, "icon", rofiField(ch.Icon))
	}
	if len(props) == 0 {
		return text
	}
	return text + "\x00" + strings.Join(props, "\x1f")
}

func (c *command) args(prompt, message string, choices []Choice) []string {
	switch c.name {
	case "rofi":
		args := []string{"-dmenu", "-i", "-format", "i", "-no-custom", "-markup-rows", "-show-icons"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		var active []string
		selected := -1
		for i, ch := range choices {
			if ch.Header {
				continue
			}
			if ch.Current {
				active = append(active, strconv.Itoa(i))
			}
			if selected == -1 || (ch.Current && !choices[selected].Current) {
				selected = i
			}
		}
		if len(active) > 0 {
			args = append(args, "-a", strings.Join(active, ","))
		}
		if selected >= 0 {
			args = append(args, "-selected-row", strconv.Itoa(selected))
		}
		if message != "" {
			args = append(args, "-mesg", message)
		}
		return args
	case "fuzzel":
		args := []string{"--dmenu", "--index"}
		if prompt != "" {
			args = append(args, "--prompt", prompt+": ")
		}
		return args
	case "wofi":
		args := []string{"--dmenu"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
		return args
	default:
		args := []string{"-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		return args
	}
}

func runCommand(name string, args []string, stdin string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err == nil {
		return string(out), nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && strings.TrimSpace(string(out)) == "" {
		// 1 is "closed with Escape", 130 is Ctrl+C.
		switch exitErr.ExitCode() {
		case 1, 130:
			return "", ErrCancelled
		}
	}
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return "", fmt.Errorf("%s failed: %s", name, msg)
	}
	return "", fmt.Errorf("%s failed: %w", name, err)
}

func oneLine(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\r", " ", "\n", " ").Replace(s))
}

func rofiField(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\x00", " ", "\x1f", " ", "\r", " ", "\n", " ").Replace(s))
}
