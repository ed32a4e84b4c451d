package ui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"probectl/internal/config"
	"probectl/internal/domain"
	"probectl/internal/execution"
	"probectl/internal/notify"
	"probectl/internal/registry"
	"probectl/internal/results"
	"probectl/internal/storage"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"
)

const refreshInterval = 250 * time.Millisecond

// nodeRef identifies the suite or case behind a tree node. caseID is empty for suites.
type nodeRef struct {
	suiteID string
	caseID  string
}

// Console is the interactive terminal console: it toggles the catalog, starts and
// stops runs, retries single cases and shows results and notifications live.
type Console struct {
	config   *config.Config
	registry *registry.Registry
	store    *results.Store
	bus      *notify.Bus
	engine   *execution.Engine
	exporter storage.Exporter
	log      zerolog.Logger

	app     *tview.Application
	tree    *tview.TreeView
	table   *tview.Table
	header  *tview.TextView
	details *tview.TextView
	toasts  *tview.TextView

	rows []domain.TestResult
}

// NewConsole creates a new Console. exporter may be nil to disable report export.
func NewConsole(
	cfg *config.Config,
	reg *registry.Registry,
	store *results.Store,
	bus *notify.Bus,
	engine *execution.Engine,
	exporter storage.Exporter,
	logger zerolog.Logger,
) *Console {
	return &Console{
		config:   cfg,
		registry: reg,
		store:    store,
		bus:      bus,
		engine:   engine,
		exporter: exporter,
		log:      logger,
	}
}

// Run blocks until the user quits or ctx is done. An active run is stopped on exit.
func (c *Console) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.build()

	events, unsubscribe := c.bus.Subscribe(32)
	defer unsubscribe()
	go c.watch(ctx, events)

	c.refresh()
	err := c.app.SetRoot(c.layout(), true).SetFocus(c.tree).Run()
	c.engine.Stop()
	if err != nil {
		return fmt.Errorf("failed to run console: %w", err)
	}
	return nil
}

func (c *Console) build() {
	c.app = tview.NewApplication()

	root := tview.NewTreeNode("[::b]catalog").SetSelectable(false)
	for _, s := range c.registry.Suites() {
		suiteNode := tview.NewTreeNode("").
			SetReference(nodeRef{suiteID: s.ID}).
			SetSelectable(true).
			SetExpanded(true)
		for _, tc := range s.Cases {
			suiteNode.AddChild(tview.NewTreeNode("").
				SetReference(nodeRef{suiteID: s.ID, caseID: tc.ID}).
				SetSelectable(true))
		}
		root.AddChild(suiteNode)
	}
	c.tree = tview.NewTreeView().SetRoot(root).SetCurrentNode(root)
	if children := root.GetChildren(); len(children) > 0 {
		c.tree.SetCurrentNode(children[0])
	}
	c.tree.SetBorder(true).SetTitle(" Suites ")
	c.tree.SetSelectedFunc(func(node *tview.TreeNode) {
		c.toggle(node)
	})
	c.syncTree()

	c.table = tview.NewTable().
		SetSelectable(true, false).
		SetFixed(1, 0)
	c.table.SetBorder(true).SetTitle(" Results ")
	c.table.SetSelectionChangedFunc(func(row, column int) {
		c.showDetails(row)
	})

	c.header = tview.NewTextView().SetDynamicColors(true)
	c.details = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)
	c.details.SetBorder(true).SetTitle(" Details ")
	c.toasts = tview.NewTextView().SetDynamicColors(true)

	c.app.SetInputCapture(c.handleKey)
}

func (c *Console) layout() tview.Primitive {
	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(c.table, 0, 2, false).
		AddItem(c.details, 0, 1, false)

	body := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(c.tree, 0, 1, true).
		AddItem(right, 0, 2, false)

	help := tview.NewTextView().
		SetDynamicColors(true).
		SetText(" [yellow]space[white] toggle  [yellow]r[white] run  [yellow]s[white] stop  [yellow]t[white] retry case  [yellow]c[white] clear  [yellow]x[white] dismiss  [yellow]tab[white] focus  [yellow]q[white] quit")

	return tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(c.header, 2, 0, false).
		AddItem(body, 0, 1, true).
		AddItem(c.toasts, 4, 0, false).
		AddItem(help, 1, 0, false)
}

func (c *Console) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyCtrlC:
		c.app.Stop()
		return nil
	case tcell.KeyTab:
		if c.tree.HasFocus() {
			c.app.SetFocus(c.table)
		} else {
			c.app.SetFocus(c.tree)
		}
		return nil
	case tcell.KeyRune:
	default:
		return event
	}

	switch event.Rune() {
	case ' ':
		if c.tree.HasFocus() {
			c.toggle(c.tree.GetCurrentNode())
			return nil
		}
	case 'r', 'R':
		c.startRun()
		return nil
	case 's', 'S':
		c.engine.Stop()
		return nil
	case 't', 'T':
		c.retrySelected()
		return nil
	case 'c', 'C':
		if c.engine.Running() {
			c.bus.Publish(notify.Warning("Run in progress", "Stop the run before clearing results"))
			return nil
		}
		c.store.Clear()
		c.refresh()
		return nil
	case 'x', 'X':
		for _, n := range c.bus.Active() {
			c.bus.Dismiss(n.ID)
		}
		c.refresh()
		return nil
	case 'q', 'Q':
		c.app.Stop()
		return nil
	}
	return event
}

func (c *Console) toggle(node *tview.TreeNode) {
	if node == nil {
		return
	}
	ref, ok := node.GetReference().(nodeRef)
	if !ok {
		return
	}
	if ref.caseID == "" {
		c.registry.ToggleSuite(ref.suiteID)
	} else {
		c.registry.ToggleCase(ref.suiteID, ref.caseID)
	}
	c.syncTree()
}

// syncTree redraws node labels from the registry's enabled flags
func (c *Console) syncTree() {
	for _, suiteNode := range c.tree.GetRoot().GetChildren() {
		ref := suiteNode.GetReference().(nodeRef)
		s, ok := c.registry.Suite(ref.suiteID)
		if !ok {
			continue
		}
		suiteNode.SetText(suiteLabel(s))
		for _, caseNode := range suiteNode.GetChildren() {
			cref := caseNode.GetReference().(nodeRef)
			if tc, found := c.registry.Case(cref.suiteID, cref.caseID); found {
				caseNode.SetText(caseLabel(tc, s.Enabled))
			}
		}
	}
}

func (c *Console) startRun() {
	if c.engine.Running() {
		c.bus.Publish(notify.Warning("Run in progress", "Wait for the current run or stop it"))
		return
	}
	go func() {
		summary, err := c.engine.Run(context.Background())
		if err != nil {
			if !errors.Is(err, execution.ErrAlreadyRunning) {
				c.log.Error().Err(err).Msg("run failed")
			}
			return
		}
		if summary.Selected > 0 && c.exporter != nil {
			path, err := c.exporter.Save(summary, c.store.All())
			if err != nil {
				c.log.Error().Err(err).Msg("export report")
				c.bus.Publish(notify.Error("Report not written", err.Error()))
			} else {
				c.log.Info().Str("path", path).Msg("report written")
			}
		}
		c.app.QueueUpdateDraw(c.refresh)
	}()
}

func (c *Console) retrySelected() {
	node := c.tree.GetCurrentNode()
	if node == nil {
		return
	}
	ref, ok := node.GetReference().(nodeRef)
	if !ok || ref.caseID == "" {
		c.bus.Publish(notify.Info("Select a test case", "Retry applies to a single case"))
		return
	}
	go func() {
		if _, err := c.engine.Retry(context.Background(), ref.suiteID, ref.caseID); err != nil {
			c.bus.Publish(notify.Warning("Retry rejected", err.Error()))
			return
		}
		c.app.QueueUpdateDraw(c.refresh)
	}()
}

// watch redraws on every notification event and periodically while a run is active
func (c *Console) watch(ctx context.Context, events <-chan notify.Event) {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			c.app.QueueUpdateDraw(c.refresh)
		case <-ticker.C:
			c.app.QueueUpdateDraw(c.refresh)
		}
	}
}

// refresh must run on the tview event loop
func (c *Console) refresh() {
	current, _ := c.engine.CurrentCase()
	c.header.SetText(headerText(c.engine.State(), c.engine.Progress(), current, c.store))

	selected, _ := c.table.GetSelection()
	c.rows = c.store.All()
	c.table.Clear()
	for col, title := range []string{"Test", "Status", "Duration", "Message"} {
		c.table.SetCell(0, col, tview.NewTableCell(title).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false))
	}
	for i, r := range c.rows {
		row := i + 1
		c.table.SetCell(row, 0, tview.NewTableCell(tview.Escape(r.Name)).SetExpansion(1))
		c.table.SetCell(row, 1, tview.NewTableCell(statusLabel(r.Status)))
		c.table.SetCell(row, 2, tview.NewTableCell(durationLabel(r)).SetAlign(tview.AlignRight))
		c.table.SetCell(row, 3, tview.NewTableCell(tview.Escape(r.Message)).SetMaxWidth(50))
	}
	if selected < 1 || selected > len(c.rows) {
		selected = 1
	}
	if len(c.rows) > 0 {
		c.table.Select(selected, 0)
	}
	c.showDetails(selected)

	c.toasts.SetText(toastText(c.bus.Active()))
}

func (c *Console) showDetails(row int) {
	if row < 1 || row > len(c.rows) {
		c.details.SetText("[gray]No result selected")
		return
	}
	c.details.SetText(detailsText(c.rows[row-1]))
}

func suiteLabel(s domain.TestSuite) string {
	enabled := 0
	for _, tc := range s.Cases {
		if tc.Enabled {
			enabled++
		}
	}
	mark := "[gray]○"
	if s.Enabled {
		mark = "[green]●"
	}
	return fmt.Sprintf("%s [white]%s [gray](%d/%d)", mark, tview.Escape(s.Name), enabled, len(s.Cases))
}

func caseLabel(tc domain.TestCase, suiteEnabled bool) string {
	mark := "[gray]○"
	switch {
	case tc.Enabled && suiteEnabled:
		mark = "[green]●"
	case tc.Enabled:
		mark = "[darkgreen]◌"
	}
	return fmt.Sprintf("%s [white]%s [gray]%s", mark, tview.Escape(tc.Name), tc.Priority)
}

func statusLabel(s domain.Status) string {
	switch s {
	case domain.StatusSuccess:
		return "[green]✓ success"
	case domain.StatusError:
		return "[red]✗ error"
	case domain.StatusRunning:
		return "[aqua]… running"
	default:
		return string(s)
	}
}

func durationLabel(r domain.TestResult) string {
	if r.Duration == nil {
		return "-"
	}
	return fmt.Sprintf("%dms", r.Duration.Milliseconds())
}

// progressBar renders a fixed width textual bar for a 0-100 percentage
func progressBar(percent float64, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100 * float64(width))
	return "[aqua]" + strings.Repeat("█", filled) + "[gray]" + strings.Repeat("░", width-filled) + "[white]"
}

func headerText(state execution.State, progress float64, current string, store *results.Store) string {
	var b strings.Builder
	fmt.Fprintf(&b, " [::b]probectl[::-]  state: [yellow]%s[white]  %s %3.0f%%", state, progressBar(progress, 30), progress)
	if current != "" {
		fmt.Fprintf(&b, "  [aqua]running %s[white]", tview.Escape(current))
	}
	fmt.Fprintf(&b, "\n [green]passed %d[white]  [red]failed %d[white]  total %d",
		store.CountByStatus(domain.StatusSuccess),
		store.CountByStatus(domain.StatusError),
		store.Len())
	return b.String()
}

func toastColor(s domain.Severity) string {
	switch s {
	case domain.SeveritySuccess:
		return "[green]"
	case domain.SeverityWarning:
		return "[yellow]"
	case domain.SeverityError:
		return "[red]"
	default:
		return "[aqua]"
	}
}

// toastText renders the newest active notifications, most recent first
func toastText(active []domain.Notification) string {
	var b strings.Builder
	shown := 0
	for i := len(active) - 1; i >= 0 && shown < 4; i-- {
		n := active[i]
		fmt.Fprintf(&b, " %s%s %s[white]", toastColor(n.Severity), severityIcon(n.Severity), tview.Escape(n.Title))
		if n.Message != "" {
			fmt.Fprintf(&b, ": %s", tview.Escape(n.Message))
		}
		b.WriteString("\n")
		shown++
	}
	return b.String()
}

func detailsText(r domain.TestResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [white]%s\n\n", statusLabel(r.Status), tview.Escape(r.Name))
	fmt.Fprintf(&b, "[aqua]id:[white] %s\n", r.ID)
	fmt.Fprintf(&b, "[aqua]started:[white] %s\n", r.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(&b, "[aqua]duration:[white] %s\n", durationLabel(r))
	if r.Message != "" {
		fmt.Fprintf(&b, "\n[yellow]Message:[white]\n%s\n", tview.Escape(r.Message))
	}
	if r.Details != nil {
		data, err := json.MarshalIndent(r.Details, "", "  ")
		if err != nil {
			data = []byte(fmt.Sprintf("%v", r.Details))
		}
		fmt.Fprintf(&b, "\n[yellow]Details:[white]\n%s\n", tview.Escape(string(data)))
	}
	return b.String()
}
