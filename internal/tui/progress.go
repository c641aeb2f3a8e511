package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// Step is one unit of work reported to the progress view. A Step with
// only Note set prints the note above the bar without moving it.
type Step struct {
	Done   int
	Total  int
	Label  string
	Failed bool
	Note   string
}

type finishedMsg struct {
	err error
}

type progressModel struct {
	title    string
	bar      progress.Model
	step     Step
	failed   int
	recent   []string
	err      error
	finished bool
	stopping bool
	cancel   context.CancelFunc
}

const recentLines = 5

func newProgressModel(title string, total int, cancel context.CancelFunc) progressModel {
	return progressModel{
		title:  title,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(50)),
		step:   Step{Total: total},
		cancel: cancel,
	}
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			// The worker sees the cancelled context and reports back.
			m.stopping = true
			m.cancel()
		}
	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-10, 10), 80)
	case Step:
		if msg.Note != "" {
			return m, tea.Println(msg.Note)
		}
		m.step = msg
		if msg.Failed {
			m.failed++
		}
		if msg.Label != "" {
			line := msg.Label
			if msg.Failed {
				line = ErrorStyle.Render("✗ ") + line
			} else {
				line = SuccessStyle.Render("✓ ") + line
			}
			m.recent = append(m.recent, line)
			if len(m.recent) > recentLines {
				m.recent = m.recent[len(m.recent)-recentLines:]
			}
		}
	case finishedMsg:
		m.err = msg.err
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(m.title))
	b.WriteString("\n")

	pct := 0.0
	if m.step.Total > 0 {
		pct = float64(m.step.Done) / float64(m.step.Total)
	}
	b.WriteString(m.bar.ViewAs(pct))
	b.WriteString("\n")
	b.WriteString(DimStyle.Render(fmt.Sprintf("%d/%d files", m.step.Done, m.step.Total)))
	if m.failed > 0 {
		b.WriteString("  " + WarningStyle.Render(fmt.Sprintf("%d failed", m.failed)))
	}
	b.WriteString("\n\n")
	for _, line := range m.recent {
		b.WriteString(line + "\n")
	}
	if m.stopping && !m.finished {
		b.WriteString(WarningStyle.Render("Stopping after the current record..."))
		b.WriteString("\n")
	}
	return b.String()
}

// RunProgress runs work while drawing a progress bar on stderr. work calls
// report after each unit. Pressing ctrl+c cancels the context passed to work.
func RunProgress(ctx context.Context, title string, total int, work func(ctx context.Context, report func(Step)) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newProgressModel(title, total, cancel), tea.WithOutput(os.Stderr))

	go func() {
		err := work(ctx, func(s Step) { p.Send(s) })
		p.Send(finishedMsg{err: err})
	}()

	final, err := p.Run()
	if err != nil {
		cancel()
		return fmt.Errorf("running progress view: %w", err)
	}
	return final.(progressModel).err
}
