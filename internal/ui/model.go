package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"hangarview/internal/api"
	"hangarview/internal/config"
	"hangarview/internal/eventbus"
	"hangarview/internal/ui/views"
)

const (
	// rows from the bottom of the loaded list at which the next page is
	// requested
	sentinelRows = 3

	// pause after the last filter keystroke before the list refetches
	filterDebounce = 300 * time.Millisecond
)

// Model is the main bubbletea model for the hangarview TUI
type Model struct {
	ctx     context.Context
	client  *api.Client
	bus     eventbus.EventBus
	cfg     *config.Config
	program *tea.Program

	keys    keyMap
	styles  *views.Styles
	help    help.Model
	spinner spinner.Model
	filter  textinput.Model

	panes  []listPane
	active int

	// per-pane view state, indexed by viewKind
	cursor    [3]int
	scroll    [3]int
	loaded    [3]bool
	filterSeq [3]int

	counts    api.Counts
	hasCounts bool

	width  int
	height int

	filterMode bool
	showHelp   bool
	statusErr  string
	quitting   bool
}

// NewModel creates the main UI model. The program reference is set later
// via SetProgram because the tea.Program needs the model first.
func NewModel(ctx context.Context, client *api.Client, bus eventbus.EventBus, cfg *config.Config) *Model {
	m := &Model{
		ctx:    ctx,
		client: client,
		bus:    bus,
		cfg:    cfg,
		keys:   defaultKeyMap(),
		styles: views.NewStyles(),
		help:   help.New(),
	}

	m.spinner = spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(m.styles.LoadingMore),
	)

	m.filter = textinput.New()
	m.filter.Placeholder = "type to filter..."
	m.filter.Prompt = "/ "
	m.filter.CharLimit = 128

	sort := cfg.SortOrder()
	notify := m.notifyList
	m.panes = []listPane{
		newGearPane(client, cfg.PageSize, sort, notify),
		newBatteryPane(client, cfg.PageSize, sort, notify),
		newAircraftPane(client, cfg.PageSize, sort, notify),
	}
	return m
}

// SetProgram wires the running tea.Program so loader notifications and
// bus events can be forwarded into the update loop
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
}

// notifyList is handed to every loader as its change-notification
// callback. It runs on the loader's fetch goroutine, so it only posts a
// message and never touches model state.
func (m *Model) notifyList(v viewKind) {
	if m.program != nil {
		m.program.Send(listChangedMsg{view: v})
	}
}

// Init starts the spinner, fetches the tab counts and populates the
// first view
func (m *Model) Init() tea.Cmd {
	m.panes[m.active].Reset(m.ctx, true)
	m.loaded[m.active] = true
	return tea.Batch(m.spinner.Tick, m.fetchCounts())
}

func (m *Model) fetchCounts() tea.Cmd {
	return func() tea.Msg {
		counts, err := m.client.TotalCounts(m.ctx)
		return countsMsg{counts: counts, err: err}
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.clampCursor()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case listChangedMsg:
		if int(msg.view) == m.active {
			m.clampCursor()
		}
		if err := m.panes[msg.view].Status().Err; err != nil {
			m.statusErr = err.Error()
		}
		return m, nil

	case filterDebounceMsg:
		return m, m.applyFilter(msg)

	case countsMsg:
		if msg.err != nil {
			m.statusErr = msg.err.Error()
			return m, nil
		}
		m.counts = msg.counts
		m.hasCounts = true
		return m, nil

	case moderatedMsg:
		if msg.err != nil {
			m.statusErr = msg.err.Error()
			m.bus.Publish(eventbus.ErrorEvent{Message: "moderation failed", Err: msg.err})
			return m, nil
		}
		m.bus.Publish(eventbus.ItemModeratedEvent{ItemID: msg.itemID, Approved: msg.approved})
		return m, nil

	case detailClosedMsg:
		if msg.err != nil {
			m.statusErr = msg.err.Error()
		}
		return m, nil

	case EventMsg:
		return m, m.handleEvent(msg.Event)

	case tea.KeyMsg:
		if m.filterMode {
			return m.updateFilterMode(msg)
		}
		return m.updateListMode(msg)
	}

	return m, nil
}

// handleEvent reacts to domain events forwarded from the bus
func (m *Model) handleEvent(ev eventbus.DomainEvent) tea.Cmd {
	switch ev := ev.(type) {
	case eventbus.ItemModeratedEvent:
		// a moderation changed the server-side list; force so an
		// in-flight page cannot mask the mutation
		m.panes[viewGear].Reset(m.ctx, true)
		return m.fetchCounts()

	case eventbus.RefreshRequestedEvent:
		for _, p := range m.panes {
			if ev.View == "" || ev.View == p.Kind().String() {
				p.Reset(m.ctx, true)
				m.loaded[p.Kind()] = true
			}
		}
		return m.fetchCounts()

	case eventbus.ErrorEvent:
		if ev.Err != nil {
			m.statusErr = ev.Err.Error()
		} else {
			m.statusErr = ev.Message
		}
	}
	return nil
}

// updateFilterMode handles keys while the filter input is focused
func (m *Model) updateFilterMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pane := m.panes[m.active]
	switch msg.String() {
	case "esc":
		// abandon the edit and restore the last applied query; the seq
		// bump stales any debounce timer the edit armed
		m.filterMode = false
		m.filter.Blur()
		m.filter.SetValue(pane.Filters().Query)
		m.filterSeq[m.active]++
		return m, nil

	case "enter":
		// submit immediately; force wins over any in-flight fetch
		m.filterMode = false
		m.filter.Blur()
		m.filterSeq[m.active]++
		pane.Filters().Query = strings.TrimSpace(m.filter.Value())
		pane.Reset(m.ctx, true)
		m.cursor[m.active] = 0
		m.scroll[m.active] = 0
		return m, nil
	}

	var cmd tea.Cmd
	before := m.filter.Value()
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() == before {
		return m, cmd
	}

	m.filterSeq[m.active]++
	deb := m.debounceCmd(viewKind(m.active), m.filterSeq[m.active])
	return m, tea.Batch(cmd, deb)
}

func (m *Model) debounceCmd(view viewKind, seq int) tea.Cmd {
	return tea.Tick(filterDebounce, func(time.Time) tea.Msg {
		return filterDebounceMsg{view: view, seq: seq}
	})
}

// applyFilter runs when a debounce timer fires. Stale timers from earlier
// keystrokes are ignored; a reset dropped by an in-flight fetch re-arms
// the timer so the final filter text always wins.
func (m *Model) applyFilter(msg filterDebounceMsg) tea.Cmd {
	if msg.seq != m.filterSeq[msg.view] {
		return nil
	}
	pane := m.panes[msg.view]
	pane.Filters().Query = strings.TrimSpace(m.filter.Value())
	if !pane.Reset(m.ctx, false) {
		return m.debounceCmd(msg.view, msg.seq)
	}
	m.cursor[msg.view] = 0
	m.scroll[msg.view] = 0
	return nil
}

// updateListMode handles keys in normal list navigation
func (m *Model) updateListMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pane := m.panes[m.active]

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor[m.active] > 0 {
			m.cursor[m.active]--
			m.ensureCursorVisible()
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor[m.active] < pane.Len()-1 {
			m.cursor[m.active]++
			m.ensureCursorVisible()
		}
		m.maybeLoadMore()
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.cursor[m.active] = 0
		m.scroll[m.active] = 0
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		if pane.Len() > 0 {
			m.cursor[m.active] = pane.Len() - 1
			m.ensureCursorVisible()
		}
		m.maybeLoadMore()
		return m, nil

	case key.Matches(msg, m.keys.NextTab):
		m.switchPane((m.active + 1) % len(m.panes))
		return m, nil

	case key.Matches(msg, m.keys.PrevTab):
		m.switchPane((m.active + len(m.panes) - 1) % len(m.panes))
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		m.filterMode = true
		m.filter.SetValue(pane.Filters().Query)
		m.filter.CursorEnd()
		return m, m.filter.Focus()

	case key.Matches(msg, m.keys.Clear):
		if m.statusErr != "" {
			m.statusErr = ""
			pane.ClearError()
			return m, nil
		}
		if pane.Filters().Query != "" {
			pane.Filters().Query = ""
			m.filter.SetValue("")
			m.filterSeq[m.active]++
			pane.Reset(m.ctx, true)
			m.cursor[m.active] = 0
			m.scroll[m.active] = 0
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.bus.Publish(eventbus.RefreshRequestedEvent{View: pane.Kind().String()})
		return m, nil

	case key.Matches(msg, m.keys.Sort):
		return m, m.cycleSort()

	case key.Matches(msg, m.keys.Detail):
		return m, m.openDetail()

	case key.Matches(msg, m.keys.Approve):
		return m, m.moderate(true)

	case key.Matches(msg, m.keys.Reject):
		return m, m.moderate(false)
	}

	return m, nil
}

// switchPane activates another view, populating it on first visit
func (m *Model) switchPane(idx int) {
	m.active = idx
	if !m.loaded[idx] {
		m.panes[idx].Reset(m.ctx, true)
		m.loaded[idx] = true
	}
}

// maybeLoadMore requests the next page when the cursor nears the end of
// the loaded items. The loader itself rejects the call when a fetch is
// already running or the list is complete, so firing eagerly is safe.
func (m *Model) maybeLoadMore() {
	pane := m.panes[m.active]
	st := pane.Status()
	if !st.HasMore || st.LoadingInitial || st.LoadingMore {
		return
	}
	if m.cursor[m.active] >= pane.Len()-sentinelRows {
		pane.LoadMore(m.ctx)
	}
}

// cycleSort advances the sort order on the active view and persists it as
// the new default
func (m *Model) cycleSort() tea.Cmd {
	pane := m.panes[m.active]
	f := pane.Filters()
	switch f.Sort {
	case "name":
		f.Sort = "newest"
	case "newest":
		f.Sort = "weight"
	default:
		f.Sort = "name"
	}
	pane.Reset(m.ctx, true)
	m.cursor[m.active] = 0
	m.scroll[m.active] = 0
	m.bus.Publish(eventbus.ConfigChangedEvent{DefaultSort: f.Sort, PageSize: m.cfg.PageSize})
	return nil
}

// openDetail shows the selected item in the pager, suspending the TUI
func (m *Model) openDetail() tea.Cmd {
	pane := m.panes[m.active]
	content := pane.DetailText(m.cursor[m.active])
	if content == "" {
		return nil
	}
	title := fmt.Sprintf("hangarview - %s", pane.Title())
	p := m.program
	return func() tea.Msg {
		err := ShowDetail(p, title, content)
		return detailClosedMsg{err: err}
	}
}

// moderate approves or rejects the selected gear item
func (m *Model) moderate(approve bool) tea.Cmd {
	pane := m.panes[m.active]
	if !pane.Moderatable() {
		return nil
	}
	id := pane.ItemID(m.cursor[m.active])
	if id == "" {
		return nil
	}
	return func() tea.Msg {
		_, err := m.client.ModerateGear(m.ctx, id, approve)
		return moderatedMsg{itemID: id, approved: approve, err: err}
	}
}

// clampCursor keeps the cursor inside the loaded items after the list
// shrinks (filter change, refresh)
func (m *Model) clampCursor() {
	n := m.panes[m.active].Len()
	if n == 0 {
		m.cursor[m.active] = 0
		m.scroll[m.active] = 0
		return
	}
	if m.cursor[m.active] >= n {
		m.cursor[m.active] = n - 1
	}
	m.ensureCursorVisible()
}

// visibleRows is the number of list lines that fit between the chrome
func (m *Model) visibleRows() int {
	// title + tabs + filter line + status + help
	rows := m.height - 7
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *Model) ensureCursorVisible() {
	rows := m.visibleRows()
	cur := m.cursor[m.active]
	if cur < m.scroll[m.active] {
		m.scroll[m.active] = cur
	}
	if cur >= m.scroll[m.active]+rows {
		m.scroll[m.active] = cur - rows + 1
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("hangarview"))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.renderFilterLine())
	b.WriteString("\n")
	b.WriteString(m.renderList())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(m.help.View(m.keys)))
	return b.String()
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, len(m.panes))
	for i, p := range m.panes {
		label := p.Title()
		if m.hasCounts && m.cfg.UISettings.ShowTabCounts {
			label = fmt.Sprintf("%s %s", label, m.styles.TabCount.Render(fmt.Sprintf("(%d)", m.countFor(p.Kind()))))
		}
		if i == m.active {
			tabs = append(tabs, m.styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, m.styles.TabInactive.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

func (m *Model) countFor(v viewKind) int {
	switch v {
	case viewGear:
		return m.counts.Gear
	case viewBatteries:
		return m.counts.Batteries
	case viewAircraft:
		return m.counts.Aircraft
	}
	return 0
}

func (m *Model) renderFilterLine() string {
	if m.filterMode {
		return m.styles.Filter.Render(m.filter.View())
	}
	q := m.panes[m.active].Filters().Query
	if q != "" {
		return m.styles.Filter.Render("filter: "+q) + m.styles.Dim.Render("  (esc to clear)")
	}
	return m.styles.Dim.Render("press / to filter")
}

func (m *Model) renderList() string {
	pane := m.panes[m.active]
	st := pane.Status()

	if st.LoadingInitial && pane.Len() == 0 {
		return m.spinner.View() + " loading..."
	}
	if pane.Len() == 0 {
		return m.styles.EmptyState.Render("no items match")
	}

	rows := m.visibleRows()
	start := m.scroll[m.active]
	end := start + rows
	if end > pane.Len() {
		end = pane.Len()
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(pane.Row(i, i == m.cursor[m.active], m.styles))
		b.WriteString("\n")
	}
	if st.LoadingMore {
		b.WriteString(m.styles.LoadingMore.Render(m.spinner.View() + " loading more..."))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderStatus() string {
	if m.statusErr != "" {
		return m.styles.StatusError.Render("error: "+m.statusErr) + m.styles.Dim.Render("  (esc to dismiss)")
	}
	pane := m.panes[m.active]
	st := pane.Status()
	pos := ""
	if pane.Len() > 0 {
		pos = fmt.Sprintf("%d/", m.cursor[m.active]+1)
	}
	line := fmt.Sprintf("%s%d loaded of %d", pos, st.Count, st.TotalCount)
	if st.HasMore {
		line += "  (more available)"
	}
	return m.styles.Status.Render(line)
}
