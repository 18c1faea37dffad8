package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Beastly713/stegano/pkg/config"
	"github.com/Beastly713/stegano/pkg/format"
	"github.com/Beastly713/stegano/pkg/framing"
	"github.com/Beastly713/stegano/pkg/pipeline"
)

// Styles
var (
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")) // Green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dirStyle     = lipgloss.NewStyle().Bold(true)
	docStyle     = lipgloss.NewStyle().Margin(1, 2)
)

const browseHelp = "Navigate: ↑/↓ | Enter: Open Dir | 'h': Hide | 'r': Reveal | 'q': Quit"

type fileItem struct {
	path  string
	name  string
	isDir bool
}

type mode int

const (
	browsing mode = iota
	askMessage
	askHidePassphrase
	askRevealPassphrase
	processing
)

type model struct {
	ctx context.Context
	cfg config.Config

	path   string
	files  []fileItem
	cursor int
	status string
	failed bool

	mode    mode
	target  string
	message string
	input   textinput.Model

	quitting bool
}

func initialModel(ctx context.Context, cfg config.Config, dir string) model {
	ti := textinput.New()
	ti.CharLimit = 0
	ti.Width = 48

	m := model{
		ctx:    ctx,
		cfg:    cfg,
		path:   dir,
		status: browseHelp,
		input:  ti,
	}
	m.loadFiles()
	return m
}

func (m *model) loadFiles() {
	entries, err := os.ReadDir(m.path)
	if err != nil {
		m.status = "Error reading directory"
		m.failed = true
		return
	}

	m.files = []fileItem{}
	// Parent directory
	m.files = append(m.files, fileItem{name: "..", isDir: true, path: filepath.Dir(m.path)})

	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if e.IsDir() || format.IsImagePath(name) {
			m.files = append(m.files, fileItem{
				name:  name,
				isDir: e.IsDir(),
				path:  filepath.Join(m.path, name),
			})
		}
	}
	m.cursor = 0
}

func (m model) Init() tea.Cmd {
	return nil
}

type hideDoneMsg struct {
	output string
	err    error
	// truncated is the number of bits dropped because the carrier was too small.
	truncated int
}

type revealDoneMsg struct {
	name   string
	result framing.Result
	err    error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.mode == browsing {
			return m.updateBrowsing(msg)
		}
		if m.mode == processing {
			return m, nil
		}
		return m.updatePrompt(msg)

	case hideDoneMsg:
		m.mode = browsing
		switch {
		case msg.err != nil:
			m.setStatus(true, "Error: %v", msg.err)
		case msg.truncated > 0:
			m.setStatus(true, "Created %s but %d bits were truncated; reveal will find nothing", filepath.Base(msg.output), msg.truncated)
		default:
			m.setStatus(false, "Success! Created %s", filepath.Base(msg.output))
		}
		m.loadFiles()
		return m, nil

	case revealDoneMsg:
		m.mode = browsing
		switch {
		case msg.err != nil:
			m.setStatus(true, "Error: %v", msg.err)
		case msg.result.Found() && msg.result.Status != framing.WrongPassphrase:
			m.setStatus(false, "%s (%s): %s", msg.name, msg.result.Status, msg.result.Message)
		default:
			m.setStatus(true, "%s: %s", msg.name, msg.result.Status)
		}
		return m, nil
	}

	return m, nil
}

func (m model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.files)-1 {
			m.cursor++
		}

	case "enter":
		if len(m.files) == 0 {
			break
		}
		selected := m.files[m.cursor]
		if selected.isDir {
			m.path = selected.path
			m.loadFiles()
			m.setStatus(false, browseHelp)
		}

	case "h", "r":
		if len(m.files) == 0 || m.files[m.cursor].isDir {
			m.setStatus(true, "Select an image first")
			break
		}
		m.target = m.files[m.cursor].path
		if msg.String() == "h" {
			m.prompt(askMessage, "message", false)
		} else {
			m.prompt(askRevealPassphrase, "passphrase (empty for none)", true)
		}
		return m, textinput.Blink
	}

	return m, nil
}

func (m model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = browsing
		m.input.Blur()
		m.setStatus(false, browseHelp)
		return m, nil

	case "enter":
		value := m.input.Value()
		switch m.mode {
		case askMessage:
			m.message = value
			m.prompt(askHidePassphrase, "passphrase (empty for none)", true)
			return m, textinput.Blink
		case askHidePassphrase:
			m.input.Blur()
			m.mode = processing
			m.setStatus(false, "Hiding...")
			return m, m.hide(value)
		case askRevealPassphrase:
			m.input.Blur()
			m.mode = processing
			m.setStatus(false, "Revealing...")
			return m, m.reveal(value)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) prompt(next mode, placeholder string, secret bool) {
	m.mode = next
	m.input.Reset()
	m.input.Placeholder = placeholder
	m.input.EchoMode = textinput.EchoNormal
	if secret {
		m.input.EchoMode = textinput.EchoPassword
	}
	m.input.Focus()
	m.setStatus(false, "Enter: Confirm | Esc: Cancel")
}

func (m *model) setStatus(failed bool, tmpl string, args ...interface{}) {
	m.failed = failed
	m.status = fmt.Sprintf(tmpl, args...)
}

func (m model) hide(passphrase string) tea.Cmd {
	ctx, cfg, target, message := m.ctx, m.cfg, m.target, m.message
	return func() tea.Msg {
		output := defaultOutputPath(target, cfg.OutputFormat)
		truncated, err := hideFile(ctx, target, output, pipeline.HideConfig{
			Message:    message,
			Passphrase: passphrase,
			Format:     cfg.OutputFormat,
			Channel:    cfg.Channel,
			Strict:     cfg.Strict,
		})
		return hideDoneMsg{output: output, err: err, truncated: truncated}
	}
}

func (m model) reveal(passphrase string) tea.Cmd {
	ctx, channel, target := m.ctx, m.cfg.Channel, m.target
	return func() tea.Msg {
		f, err := os.Open(target)
		if err != nil {
			return revealDoneMsg{name: filepath.Base(target), err: err}
		}
		defer f.Close()

		res, err := pipeline.RevealPipeline(ctx, f, passphrase, channel)
		return revealDoneMsg{name: filepath.Base(target), result: res, err: err}
	}
}

// hideFile runs the hide pipeline from one file to another and returns the
// number of truncated bits.
func hideFile(ctx context.Context, inputPath, outputPath string, cfg pipeline.HideConfig) (int, error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return 0, err
	}

	report, err := pipeline.HidePipeline(ctx, in, out, cfg)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(outputPath)
		return 0, err
	}
	return report.Overflow(), nil
}

func (m model) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	var s strings.Builder
	fmt.Fprintf(&s, "Directory: %s\n\n", m.path)

	for i, file := range m.files {
		if m.cursor == i {
			s.WriteString(cursorStyle.Render(">"))
		} else {
			s.WriteString(" ")
		}

		line := file.name
		if file.isDir {
			line = dirStyle.Render(fmt.Sprintf("[DIR] %s", file.name))
		}
		s.WriteString(" " + line + "\n")
	}

	switch m.mode {
	case askMessage, askHidePassphrase, askRevealPassphrase:
		fmt.Fprintf(&s, "\n%s: %s\n", filepath.Base(m.target), m.input.View())
	}

	status := m.status
	if m.failed {
		status = errorStyle.Render(status)
	} else if m.status != browseHelp {
		status = successStyle.Render(status)
	}
	fmt.Fprintf(&s, "\n%s\n", status)
	return docStyle.Render(s.String())
}

func newInteractiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive [directory]",
		Short: "Interactive terminal UI for hiding and revealing messages",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return err
			}

			p := tea.NewProgram(initialModel(cmd.Context(), a.cfg, abs), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return err
			}
			return nil
		},
	}
}
