// Package tui is the launcher shown when tgsim runs without a command: pick
// a preset, tweak a few numbers, then hand the config to the live view.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/tgsim/internal/config"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

var presetInfo = map[string]string{
	"default": "probe dropped into the crater",
	"empty":   "terrain only",
	"bounce":  "lively probe from higher up",
	"skim":    "probe thrown across without gravity",
	"hover":   "pid holds the probe above the floor",
	"wide":    "larger crater, wider rim",
	"planar":  "2d chipmunk world seen from above",
	"coarse":  "euler with a large step",
}

// param is one editable number of the config.
type param struct {
	name string
	get  func(c *config.Config) float64
	set  func(c *config.Config, v float64)
}

var params = []param{
	{"dt", func(c *config.Config) float64 { return c.Dt }, func(c *config.Config, v float64) { c.Dt = v }},
	{"duration", func(c *config.Config) float64 { return c.Duration }, func(c *config.Config, v float64) { c.Duration = v }},
	{"gravity", func(c *config.Config) float64 { return c.Gravity }, func(c *config.Config, v float64) { c.Gravity = v }},
	{"probe height", func(c *config.Config) float64 { return c.Probe.Position[1] }, func(c *config.Config, v float64) { c.Probe.Position[1] = v }},
	{"probe radius", func(c *config.Config) float64 { return c.Probe.Radius }, func(c *config.Config, v float64) { c.Probe.Radius = v }},
	{"rim shift", func(c *config.Config) float64 { return c.Crater.Shift }, func(c *config.Config, v float64) { c.Crater.Shift = v }},
	{"box width", func(c *config.Config) float64 { return c.Crater.Width }, func(c *config.Config, v float64) { c.Crater.Width = v }},
}

type state int

const (
	stateMenu state = iota
	stateConfig
)

// Picker is a bubbletea model. Once the program exits, Chosen holds the
// config to run, or nil if the user quit.
type Picker struct {
	state   state
	model   string
	presets []string
	cursor  int

	cfg         *config.Config
	paramCursor int
	editing     bool
	editBuf     string
	err         error

	chosen *config.Config
}

func NewPicker(model string) *Picker {
	return &Picker{
		state:   stateMenu,
		model:   model,
		presets: config.ListPresets(model),
	}
}

func (p *Picker) Chosen() *config.Config { return p.chosen }

func (p *Picker) Init() tea.Cmd { return nil }

func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	if key.String() == "ctrl+c" {
		return p, tea.Quit
	}
	switch p.state {
	case stateMenu:
		return p.menuKey(key)
	case stateConfig:
		return p.configKey(key)
	}
	return p, nil
}

func (p *Picker) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.presets)-1 {
			p.cursor++
		}
	case "enter", " ":
		if len(p.presets) == 0 {
			return p, nil
		}
		p.cfg = config.GetPreset(p.model, p.presets[p.cursor])
		p.state = stateConfig
		p.paramCursor = 0
		p.err = nil
	}
	return p, nil
}

func (p *Picker) configKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if p.editing {
		switch msg.String() {
		case "enter":
			if v, err := strconv.ParseFloat(p.editBuf, 64); err == nil {
				params[p.paramCursor].set(p.cfg, v)
			}
			p.editing = false
			p.editBuf = ""
		case "esc":
			p.editing = false
			p.editBuf = ""
		case "backspace":
			if len(p.editBuf) > 0 {
				p.editBuf = p.editBuf[:len(p.editBuf)-1]
			}
		default:
			if s := msg.String(); len(s) == 1 {
				c := s[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					p.editBuf += s
				}
			}
		}
		return p, nil
	}

	switch msg.String() {
	case "q", "esc":
		p.state = stateMenu
		p.cfg = nil
	case "up", "k":
		if p.paramCursor > 0 {
			p.paramCursor--
		}
	case "down", "j":
		if p.paramCursor < len(params)-1 {
			p.paramCursor++
		}
	case "enter", " ":
		p.editing = true
		p.editBuf = strconv.FormatFloat(params[p.paramCursor].get(p.cfg), 'f', -1, 64)
	case "s":
		if err := p.cfg.Validate(); err != nil {
			p.err = err
			return p, nil
		}
		p.chosen = p.cfg
		return p, tea.Quit
	}
	return p, nil
}

func (p *Picker) View() string {
	var b strings.Builder
	b.WriteString(cyan.Render("tgsim") + dim.Render("  "+p.model) + "\n\n")

	switch p.state {
	case stateMenu:
		if len(p.presets) == 0 {
			b.WriteString(dim.Render("no presets") + "\n")
		}
		for i, name := range p.presets {
			cursor, style := "  ", dim
			if i == p.cursor {
				cursor, style = cyan.Render("> "), white
			}
			b.WriteString(fmt.Sprintf("%s%-10s %s\n", cursor, style.Render(name), dimmer.Render(presetInfo[name])))
		}
		b.WriteString("\n" + dimmer.Render("enter select  q quit"))

	case stateConfig:
		b.WriteString(white.Render(p.presets[p.cursor]) + "\n\n")
		for i, prm := range params {
			cursor, style := "  ", dim
			if i == p.paramCursor {
				cursor, style = cyan.Render("> "), white
			}
			value := strconv.FormatFloat(prm.get(p.cfg), 'g', 6, 64)
			if i == p.paramCursor && p.editing {
				value = yellow.Render(p.editBuf + "_")
			}
			b.WriteString(fmt.Sprintf("%s%-14s %s\n", cursor, style.Render(prm.name), value))
		}
		if p.err != nil {
			b.WriteString("\n" + yellow.Render(p.err.Error()) + "\n")
		}
		b.WriteString("\n" + dimmer.Render("enter edit  s start  q back"))
	}
	return b.String()
}
