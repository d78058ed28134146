package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"miniseq/internal/alphabet"
	"miniseq/internal/collection"
	"miniseq/internal/config"
	"miniseq/internal/logging"
	"miniseq/internal/parser"
	"miniseq/internal/seq"
	"miniseq/internal/translator"
)

var (
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#10B981") // Green
	accentColor    = lipgloss.Color("#F59E0B") // Amber
	surfaceColor   = lipgloss.Color("#1F2937") // Dark gray
	textColor      = lipgloss.Color("#F3F4F6") // Light gray
	mutedColor     = lipgloss.Color("#9CA3AF") // Muted gray
	borderColor    = lipgloss.Color("#374151") // Border gray
)

var (
	containerStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(surfaceColor).
			Padding(0, 1)

	sequenceStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(lipgloss.Color("#111827"))

	// variant badges
	nucleotideStyle = lipgloss.NewStyle().Foreground(secondaryColor).Bold(true)
	proteinStyle    = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	untypedStyle    = lipgloss.NewStyle().Foreground(mutedColor)
)

func variantStyle(v alphabet.Variant) lipgloss.Style {
	switch v {
	case alphabet.DNA, alphabet.RNA:
		return nucleotideStyle
	case alphabet.Protein:
		return proteinStyle
	}
	return untypedStyle
}

type listItem struct {
	seq seq.Sequence
}

func (i listItem) FilterValue() string { return i.seq.ID() }

func (i listItem) Title() string {
	if i.seq.ID() == "" {
		return "(no identifier)"
	}
	return i.seq.ID()
}

func (i listItem) Description() string {
	v := i.seq.Variant()
	return fmt.Sprintf("%s    length: %d", variantStyle(v).Render(v.Label()), i.seq.Len())
}

type mode int

const (
	modeResidues mode = iota
	modeTranscribed
	modeTranslated
	numModes
)

func (m mode) String() string {
	switch m {
	case modeResidues:
		return "Residues"
	case modeTranscribed:
		return "Transcribed"
	case modeTranslated:
		return "Translated"
	default:
		return "Unknown"
	}
}

type model struct {
	list          list.Model
	seqs          *collection.Collection
	currentMode   mode
	showHelp      bool
	width         int
	height        int
	selectedIndex int
}

func newModel(c *collection.Collection) model {
	items := make([]list.Item, 0, c.Len())
	for _, s := range c.All() {
		items = append(items, listItem{seq: s})
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = c.Name
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(true)

	return model{list: l, seqs: c, currentMode: modeResidues}
}

// cycleMode advances to the next view mode, wrapping around.
func (m model) cycleMode() model {
	m.currentMode = (m.currentMode + 1) % numModes
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetWidth(msg.Width / 3)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case tea.KeyMsg:
		// let the list own the keyboard while the filter prompt is open
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "h":
			m.showHelp = !m.showHelp
			return m, nil
		case "tab":
			return m.cycleMode(), nil
		case "1":
			m.currentMode = modeResidues
			return m, nil
		case "2":
			m.currentMode = modeTranscribed
			return m, nil
		case "3":
			m.currentMode = modeTranslated
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.selectedIndex = m.list.Index()
	return m, cmd
}

func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelpModal()
	}
	main := lipgloss.JoinHorizontal(lipgloss.Top, m.renderLeftPanel(), m.renderRightPanel())
	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m model) renderLeftPanel() string {
	return containerStyle.
		Width(m.width/3 - 2).
		Height(m.height - 4).
		Render(m.list.View())
}

func (m model) renderRightPanel() string {
	panel := containerStyle.Width(m.width*2/3 - 2).Height(m.height - 4)
	if m.seqs.Len() == 0 {
		return panel.Render("No records available")
	}
	item, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return panel.Render("No item selected")
	}
	return panel.Render(strings.Join(m.buildRightLines(item.seq), "\n"))
}

// view returns the residues shown for s in the current mode, or a message
// explaining why that view is not available.
func (m model) view(s seq.Sequence) (string, string) {
	switch m.currentMode {
	case modeTranscribed:
		t, err := translator.Transcribe(s)
		if err != nil {
			return "", err.Error()
		}
		return t.Residues(), ""
	case modeTranslated:
		p, err := translator.Translate(s)
		if err != nil {
			return "", err.Error()
		}
		return p.Residues(), ""
	}
	return s.Residues(), ""
}

// buildRightLines renders the detail panel for s, wrapping the residues to
// the panel width.
func (m model) buildRightLines(s seq.Sequence) []string {
	v := s.Variant()
	lines := []string{
		titleStyle.Render(listItem{seq: s}.Title()),
		lipgloss.NewStyle().Foreground(mutedColor).Render("Type: ") + variantStyle(v).Render(v.Label()) +
			lipgloss.NewStyle().Foreground(mutedColor).Render(fmt.Sprintf("    length: %d", s.Len())),
		"",
		lipgloss.NewStyle().Foreground(accentColor).Bold(true).Render(m.currentMode.String() + ":"),
	}

	residues, msg := m.view(s)
	if msg != "" {
		return append(lines, lipgloss.NewStyle().Foreground(mutedColor).Render(msg))
	}
	if residues == "" {
		return append(lines, lipgloss.NewStyle().Foreground(mutedColor).Render("(empty)"))
	}

	width := m.width*2/3 - 6
	if width < 10 {
		width = 10
	}
	runes := []rune(residues)
	for len(runes) > width {
		lines = append(lines, sequenceStyle.Render(string(runes[:width])))
		runes = runes[width:]
	}
	return append(lines, sequenceStyle.Render(string(runes)))
}

// positionInfo describes the cursor against the records currently listed.
// While a filter is active the total is the number of matches.
func positionInfo(index, visible, total int, filtered bool) string {
	if visible == 0 {
		if filtered {
			return fmt.Sprintf("0/0 matches of %d records", total)
		}
		return "0/0 records"
	}
	if filtered {
		return fmt.Sprintf("%d/%d matches of %d records", index+1, visible, total)
	}
	return fmt.Sprintf("%d/%d records", index+1, visible)
}

func (m model) renderStatusBar() string {
	filtered := m.list.FilterState() != list.Unfiltered
	leftInfo := positionInfo(m.selectedIndex, len(m.list.VisibleItems()), m.seqs.Len(), filtered)
	centerInfo := fmt.Sprintf("Mode: %s", m.currentMode)
	rightInfo := "'tab' mode - 'h' help - 'q' quit"

	spacing := m.width - len(leftInfo) - len(centerInfo) - len(rightInfo) - 2
	var statusContent string
	if spacing > 0 {
		left := spacing / 2
		statusContent = leftInfo + strings.Repeat(" ", left) + centerInfo + strings.Repeat(" ", spacing-left) + rightInfo
	} else {
		statusContent = fmt.Sprintf("%s | %s", leftInfo, centerInfo)
	}
	return statusBarStyle.Width(m.width).Render(statusContent)
}

func (m model) renderHelpModal() string {
	helpContent := `miniseq browser - Help

Navigation:
  up/down, j/k   Navigate list
  /              Filter by identifier

View Modes:
  tab            Next mode
  1              Residues
  2              Transcribed (DNA <-> RNA)
  3              Translated protein

General:
  h              Toggle this help
  q, Ctrl+C      Quit

Current Mode: ` + m.currentMode.String() + `
Total Records: ` + fmt.Sprintf("%d", m.seqs.Len()) + `
`
	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(primaryColor).
		Padding(1, 2).
		Background(surfaceColor).
		Foreground(textColor).
		Width(60).
		Render(helpContent)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func main() {
	cfg, err := config.LoadConfig(os.Getenv("MINISEQ_CONFIG"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "miniseq-tui:", err)
		os.Exit(2)
	}
	path := cfg.InputFasta
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "usage: miniseq-tui FILE (or set input_fasta in config)")
		os.Exit(2)
	}

	// the alt screen owns the terminal, so logs only go to log_file
	logFile := cfg.LogFile
	if logFile == "" {
		logFile = os.DevNull
	}
	logger, closeLog := logging.New(logging.Options{Level: cfg.LogLevel, File: logFile, Out: io.Discard})
	defer func() { _ = closeLog() }()

	force, err := cfg.ForceVariant()
	if err != nil {
		logger.Fatal("invalid force", "err", err)
	}
	opts := []parser.Option{parser.WithLogger(logger), parser.WithDropUnclassified(cfg.DropUnclassified)}
	if force != nil {
		opts = append(opts, parser.WithForce(*force))
	}
	c, err := collection.Load(path, opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "miniseq-tui:", err)
		os.Exit(1)
	}

	p := tea.NewProgram(newModel(c), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v", err)
		os.Exit(1)
	}
}
