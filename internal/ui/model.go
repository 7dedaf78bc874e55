package ui

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"markview/internal/config"
	"markview/internal/eventbus"
	"markview/internal/render"
	"markview/internal/search"
	"markview/internal/ui/views"
	"markview/internal/watcher"
)

// input modes
type inputMode int

const (
	modeNormal inputMode = iota
	modeSearch
	modeFilter
)

const treePaneWidth = 32

// Model is the top-level Bubble Tea model
type Model struct {
	bus      eventbus.EventBus
	cfg      *config.Config
	root     string
	events   chan eventbus.DomainEvent
	renderer *render.Renderer
	watch    watcher.Service
	searcher *search.Controller

	styles  *views.Styles
	tree    *FileTree
	docView *DocView
	input   textinput.Model
	spin    spinner.Model

	mode       inputMode
	width      int
	height     int
	openPath   string
	scanning   bool
	showHelp   bool
	statusMsg  string
	statusErr  bool
	searchRes  search.Result
	treeFocus  bool
	pagerOps   *PagerOps
	filesFound int
}

// NewModel creates the UI model and wires the search controller to the
// document view
func NewModel(bus eventbus.EventBus, cfg *config.Config, root string, events chan eventbus.DomainEvent, watch watcher.Service) *Model {
	styles := views.NewStyles()

	ti := textinput.New()
	ti.CharLimit = 256

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	docView := NewDocView(styles, cfg.UISettings.WrapWidth)
	searcher := search.NewController(bus)
	searcher.SetRevealer(docView)

	return &Model{
		bus:       bus,
		cfg:       cfg,
		root:      root,
		events:    events,
		renderer:  render.NewRenderer(),
		watch:     watch,
		searcher:  searcher,
		styles:    styles,
		tree:      NewFileTree(),
		docView:   docView,
		input:     ti,
		spin:      sp,
		treeFocus: true,
	}
}

// SetProgram hands the model its running program, needed to release the
// terminal for the pager
func (m *Model) SetProgram(p *tea.Program) {
	m.pagerOps = NewPagerOps(p)
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, waitForEvent(m.events))
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.docView.SetSize(m.docWidth(), m.paneHeight())
		return m, nil

	case eventMsg:
		cmd := m.handleEvent(msg.event)
		return m, tea.Batch(cmd, waitForEvent(m.events))

	case documentLoadedMsg:
		return m, m.installDocument(msg)

	case documentLoadFailedMsg:
		m.setError(fmt.Sprintf("Failed to load %s: %v", msg.path, msg.err))
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Export failed: %v", msg.err))
		} else {
			m.setStatus(fmt.Sprintf("Exported %s", msg.path))
		}
		return m, nil

	case pagerDoneMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Pager failed: %v", msg.err))
		}
		return m, nil

	case spinner.TickMsg:
		if !m.scanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, m.docView.Update(msg)
}

// handleEvent reacts to one domain event from the bus
func (m *Model) handleEvent(e eventbus.DomainEvent) tea.Cmd {
	switch event := e.(type) {
	case eventbus.ScanStartedEvent:
		m.scanning = true
		m.setStatus(fmt.Sprintf("Scanning %s...", event.Root))
		return m.spin.Tick

	case eventbus.FilesDiscoveredBatchEvent:
		m.tree.AddFiles(event.Files)
		m.filesFound += len(event.Files)

	case eventbus.ScanCompletedEvent:
		m.scanning = false
		m.setStatus(fmt.Sprintf("%d documents", event.FilesFound))

	case eventbus.FileChangedEvent:
		if m.cfg.UISettings.AutoReload && event.Path == m.openPath {
			return m.loadDocument(event.Path, true)
		}

	case eventbus.FileRemovedEvent:
		if rel, err := filepath.Rel(m.root, event.Path); err == nil {
			m.tree.RemoveFile(rel)
		}
		if event.Path == m.openPath {
			// Watch already stopped; keep the last-rendered content
			// visible and surface the state.
			m.setError("File deleted on disk; showing last rendered version")
		}

	case eventbus.WatchErrorEvent:
		m.setError(fmt.Sprintf("Watch failed for %s: %v", event.Path, event.Err))

	case eventbus.ErrorEvent:
		m.setError(event.Message)
	}
	return nil
}

// handleKey dispatches key input by mode
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeFilter:
		return m.handleFilterKey(msg)
	}
	return m.handleNormalKey(msg)
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		query := m.input.Value()
		m.mode = modeNormal
		m.input.Blur()
		m.searchRes = m.searcher.Search(query)
		m.docView.Refresh()
		if m.searchRes.Total == 0 && query != "" {
			m.setStatus(fmt.Sprintf("No matches for %q", query))
		}
		return m, nil
	case "esc":
		m.mode = modeNormal
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeNormal
		m.input.Blur()
		return m, nil
	case "esc":
		m.mode = modeNormal
		m.input.Blur()
		m.input.SetValue("")
		m.tree.SetFilter("")
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.tree.SetFilter(m.input.Value())
	return m, cmd
}

func (m *Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			m.showHelp = false
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "tab":
		m.treeFocus = !m.treeFocus

	case "j", "down":
		if m.treeFocus {
			m.tree.MoveCursor(1)
		} else {
			m.docView.ScrollBy(1)
		}
	case "k", "up":
		if m.treeFocus {
			m.tree.MoveCursor(-1)
		} else {
			m.docView.ScrollBy(-1)
		}
	case "g":
		if m.treeFocus {
			m.tree.CursorTop()
		}
	case "G":
		if m.treeFocus {
			m.tree.CursorBottom()
		}
	case "ctrl+d", "pgdown":
		m.docView.ScrollBy(m.paneHeight() / 2)
	case "ctrl+u", "pgup":
		m.docView.ScrollBy(-m.paneHeight() / 2)

	case "enter", "l":
		if m.tree.Toggle() {
			return m, nil
		}
		if f, ok := m.tree.SelectedFile(); ok {
			return m, m.loadDocument(f.Path, false)
		}
	case "h":
		m.tree.Toggle()

	case "/":
		m.mode = modeSearch
		m.input.Prompt = m.styles.SearchPrompt.Render("Search: ")
		m.input.SetValue(m.searcher.Query())
		m.input.Focus()
		return m, textinput.Blink

	case "n":
		m.searchRes = m.searcher.Next()
		m.docView.Refresh()
	case "N":
		m.searchRes = m.searcher.Previous()
		m.docView.Refresh()
	case "esc":
		if m.searcher.Active() {
			m.searcher.Clear()
			m.searchRes = search.Result{}
			m.docView.Refresh()
		}

	case "F":
		m.mode = modeFilter
		m.input.Prompt = m.styles.SearchPrompt.Render("Filter: ")
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case "e":
		return m, m.exportDocument()

	case "v":
		return m, m.showSource()

	case "r":
		m.tree.Reset()
		m.filesFound = 0
		m.bus.Publish(eventbus.ScanRequestedEvent{Root: m.root})

	case "?":
		m.showHelp = true
	}

	return m, nil
}

// loadDocument renders a file off the UI loop
func (m *Model) loadDocument(path string, keepScroll bool) tea.Cmd {
	renderer := m.renderer
	return func() tea.Msg {
		d, err := renderer.Render(path)
		if err != nil {
			return documentLoadFailedMsg{path: path, err: err}
		}
		return documentLoadedMsg{doc: d, path: path, keepScroll: keepScroll}
	}
}

// installDocument swaps the rendered tree in. The search session against
// the old tree is torn down before the new tree is installed so no
// marker outlives its document.
func (m *Model) installDocument(msg documentLoadedMsg) tea.Cmd {
	offset := 0
	if msg.keepScroll && m.docView.ready {
		offset = m.docView.viewport.YOffset
	}

	m.searcher.SetDocument(msg.doc)
	m.searchRes = search.Result{}
	m.docView.SetDocument(msg.doc)
	if msg.keepScroll && m.docView.ready {
		m.docView.viewport.SetYOffset(offset)
	}

	m.openPath = msg.path
	m.treeFocus = false
	m.setStatus(msg.path)

	if err := m.watch.Watch(msg.path); err != nil {
		log.Printf("Could not watch %s: %v", msg.path, err)
	}
	return nil
}

// exportDocument writes the current document as standalone HTML
func (m *Model) exportDocument() tea.Cmd {
	d := m.docView.Document()
	if d == nil {
		m.setError("No document to export")
		return nil
	}
	// Export without search markers: clear first, like a reload would.
	m.searcher.Clear()
	m.searchRes = search.Result{}
	m.docView.Refresh()

	// Serialize here, on the goroutine that owns the tree. Later updates
	// may mutate it (new search markers) before the command runs, so the
	// command itself must only touch the snapshot.
	path, err := render.ExportPath(d)
	if err != nil {
		m.setError(fmt.Sprintf("Export failed: %v", err))
		return nil
	}
	var buf bytes.Buffer
	if err := render.ExportHTML(d, &buf); err != nil {
		m.setError(fmt.Sprintf("Export failed: %v", err))
		return nil
	}
	return func() tea.Msg {
		return exportDoneMsg{path: path, err: os.WriteFile(path, buf.Bytes(), 0644)}
	}
}

// showSource pages the raw markdown in ov
func (m *Model) showSource() tea.Cmd {
	if m.openPath == "" || m.pagerOps == nil {
		return nil
	}
	path := m.openPath
	ops := m.pagerOps
	return func() tea.Msg {
		return pagerDoneMsg{err: ops.ShowSourceInPager(path)}
	}
}

func (m *Model) setStatus(s string) {
	m.statusMsg = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.statusMsg = s
	m.statusErr = true
	log.Print(s)
}

func (m *Model) docWidth() int {
	w := m.width - treePaneWidth - 3
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) paneHeight() int {
	h := m.height - 3 // title + status + input/help line
	if h < 3 {
		h = 3
	}
	return h
}
