package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/wandcli/wand/pkg/loader"
	"github.com/wandcli/wand/pkg/output"
	"github.com/wandcli/wand/pkg/placeholder"
	"github.com/wandcli/wand/pkg/runner"
	"github.com/wandcli/wand/pkg/schema"
	"github.com/wandcli/wand/pkg/wizard"
)

// phase is the TUI's presentation phase. The session's own lifecycle
// state lives in pkg/wizard; phases only shape what is drawn.
type phase int

const (
	phaseMenu phase = iota
	phaseSteps
	phasePlaceholder
	phaseConfirm
)

// Result is what the wizard run produced. Cancelled means no command:
// nothing is printed, copied, or executed.
type Result struct {
	Command   string
	Mode      output.Mode
	Cancelled bool
}

// fetchDoneMsg reports a finished placeholder fetch command.
type fetchDoneMsg struct {
	token   string
	choices []placeholder.Choice
	err     error
}

// Model is the top-level Bubble Tea model for the wizard.
type Model struct {
	loader   *loader.Loader
	executor runner.Executor
	log      *zap.Logger

	cfg     *schema.Config
	session *wizard.Session
	parents []*wizard.Session // chain stack, root first

	phase      phase
	menuCursor int

	// Step widget state
	cursor    int
	toggleVal bool
	input     textinput.Model
	multiSel  []bool

	// Placeholder resolution state
	sources      map[string]string // token → fetch command, merged along the chain path
	command      string            // command string being resolved
	pending      []string          // tokens not yet resolved
	token        string            // token being resolved
	fetching     bool
	spin         spinner.Model
	choices      []placeholder.Choice
	choiceCursor int
	pinput       textinput.Model

	defaultMode output.Mode
	errText     string
	result      Result
	width       int
	height      int
}

// New creates the wizard TUI over a validated config.
func New(cfg *schema.Config, ld *loader.Loader, exec runner.Executor, defaultMode output.Mode, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	m := Model{
		loader:      ld,
		executor:    exec,
		log:         log,
		cfg:         cfg,
		phase:       phaseMenu,
		spin:        sp,
		defaultMode: defaultMode,
		sources:     map[string]string{},
	}
	for token, cmd := range cfg.PlaceholderOptions {
		m.sources[token] = cmd
	}
	return m
}

// Result returns what the finished program produced.
func (m Model) Result() Result { return m.result }

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.fetching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case fetchDoneMsg:
		return m.onFetchDone(msg)

	case tea.KeyMsg:
		switch m.phase {
		case phaseMenu:
			return m.updateMenu(msg)
		case phaseSteps:
			return m.updateSteps(msg)
		case phasePlaceholder:
			return m.updatePlaceholder(msg)
		case phaseConfirm:
			return m.updateConfirm(msg)
		}
	}
	return m, nil
}

// --- Menu phase ---

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit) || msg.String() == "q" || msg.String() == "esc":
		return m.cancel()
	case key.Matches(msg, keys.Up):
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.menuCursor < len(m.cfg.Presets) {
			m.menuCursor++
		}
	case key.Matches(msg, keys.Submit):
		m.errText = ""
		if m.menuCursor == 0 {
			return m.startWizard()
		}
		preset := m.cfg.Presets[m.menuCursor-1]
		m.command = wizard.PresetCommand(m.cfg, preset)
		cmd := (&m).beginPlaceholders()
		return m, cmd
	}
	return m, nil
}

// startWizard creates a fresh root session and advances to its first
// visible step (or straight to finalizing for a preset-only config).
func (m Model) startWizard() (tea.Model, tea.Cmd) {
	m.session = wizard.NewSession(m.cfg)
	m.parents = nil
	m.sources = map[string]string{}
	for token, cmd := range m.cfg.PlaceholderOptions {
		m.sources[token] = cmd
	}
	m.session.Start()
	cmd := (&m).sync()
	return m, cmd
}

// resetToMenu discards all wizard state and returns to the menu.
func (m *Model) resetToMenu() {
	m.session = nil
	m.parents = nil
	m.phase = phaseMenu
	m.command = ""
	m.pending = nil
	m.token = ""
	m.choices = nil
	m.fetching = false
	m.errText = ""
}

// cancel ends the program with no output side effects.
func (m Model) cancel() (tea.Model, tea.Cmd) {
	if m.session != nil {
		m.session.Cancel()
	}
	m.result = Result{Cancelled: true}
	return m, tea.Quit
}

// --- Session driving ---

// sync advances through engine states that need no user input: chain
// transitions, finalizing, and completion of nested sessions. It stops
// at a step awaiting an answer or at placeholder resolution.
func (m *Model) sync() tea.Cmd {
	for {
		switch m.session.State() {
		case wizard.StateAwaitingAnswer:
			m.initStepWidget()
			m.phase = phaseSteps
			return textinput.Blink

		case wizard.StateChaining:
			target := m.session.ChainTarget()
			childCfg, err := m.loader.LoadName(target)
			if err != nil {
				// Surface the message; Back restores the chain step so
				// the user can retry or choose differently.
				m.errText = err.Error()
				m.session.Back()
				continue
			}
			child, err := m.session.Chain(childCfg)
			if err != nil {
				m.errText = err.Error()
				m.session.Back()
				continue
			}
			for token, cmd := range childCfg.PlaceholderOptions {
				if _, ok := m.sources[token]; !ok {
					m.sources[token] = cmd
				}
			}
			m.parents = append(m.parents, m.session)
			m.session = child
			m.session.Start()

		case wizard.StateFinalizing:
			if err := m.session.Finalize(); err != nil {
				m.errText = err.Error()
				return nil
			}

		case wizard.StateDone:
			if len(m.parents) > 0 {
				child := m.session
				m.session = m.parents[len(m.parents)-1]
				m.parents = m.parents[:len(m.parents)-1]
				if err := m.session.CompleteChain(child); err != nil {
					m.errText = err.Error()
					return nil
				}
				continue
			}
			m.command = m.session.Command()
			return m.beginPlaceholders()

		case wizard.StateCancelled:
			m.resetToMenu()
			return nil

		default:
			return nil
		}
	}
}

// sessionPath returns the chain path root-first, active session last.
func (m Model) sessionPath() []*wizard.Session {
	if m.session == nil {
		return nil
	}
	return append(append([]*wizard.Session(nil), m.parents...), m.session)
}

// --- Steps phase ---

// initStepWidget prepares the widget state for the current step,
// restoring a previously recorded answer after back-navigation.
func (m *Model) initStepWidget() {
	step := m.session.Current()
	if step == nil {
		return
	}
	prior, hasPrior := m.session.Answer(step.ID)

	switch step.Type {
	case schema.StepChoice:
		m.cursor = step.Default
		if hasPrior {
			m.cursor = prior.Choice
		}
		if m.cursor < 0 || m.cursor >= len(step.Options) {
			m.cursor = 0
		}

	case schema.StepToggle:
		m.toggleVal = hasPrior && prior.Toggle

	case schema.StepText:
		ti := textinput.New()
		ti.Placeholder = step.Placeholder
		if ti.Placeholder == "" {
			ti.Placeholder = "Type here..."
		}
		if hasPrior {
			ti.SetValue(prior.Text)
			ti.CursorEnd()
		}
		ti.Focus()
		m.input = ti

	case schema.StepMulti:
		m.cursor = 0
		m.multiSel = make([]bool, len(step.Options))
		if hasPrior {
			for _, i := range prior.Multi {
				if i >= 0 && i < len(m.multiSel) {
					m.multiSel[i] = true
				}
			}
		}
	}
}

func (m Model) updateSteps(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	step := m.session.Current()
	if step == nil {
		return m, nil
	}
	isText := step.Type == schema.StepText

	switch {
	case key.Matches(msg, keys.Quit):
		return m.cancel()

	case !isText && msg.String() == "q":
		return m.cancel()

	case key.Matches(msg, keys.Back):
		m.errText = ""
		return m.stepBack()

	case key.Matches(msg, keys.Submit):
		m.errText = ""
		return m.submitStep(step)
	}

	if isText {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor+1 < len(step.Options) {
			m.cursor++
		}
	case key.Matches(msg, keys.Toggle):
		switch step.Type {
		case schema.StepToggle:
			m.toggleVal = !m.toggleVal
		case schema.StepMulti:
			if m.cursor < len(m.multiSel) {
				m.multiSel[m.cursor] = !m.multiSel[m.cursor]
			}
		}
	}
	return m, nil
}

// stepBack pops one answer. At the first step of a nested session it
// returns to the parent's chain step; at the first root step it returns
// to the menu.
func (m Model) stepBack() (tea.Model, tea.Cmd) {
	if m.session.HistoryLen() == 0 {
		if len(m.parents) == 0 {
			m.resetToMenu()
			return m, nil
		}
		m.session = m.parents[len(m.parents)-1]
		m.parents = m.parents[:len(m.parents)-1]
		m.session.Back()
		cmd := (&m).sync()
		return m, cmd
	}
	m.session.Back()
	cmd := (&m).sync()
	return m, cmd
}

func (m Model) submitStep(step *schema.Step) (tea.Model, tea.Cmd) {
	var answer wizard.Answer
	switch step.Type {
	case schema.StepChoice:
		answer = wizard.ChoiceAnswer(m.cursor)
	case schema.StepToggle:
		answer = wizard.ToggleAnswer(m.toggleVal)
	case schema.StepText:
		answer = wizard.TextAnswer(strings.TrimSpace(m.input.Value()))
	case schema.StepMulti:
		var indices []int
		for i, sel := range m.multiSel {
			if sel {
				indices = append(indices, i)
			}
		}
		answer = wizard.MultiAnswer(indices)
	}

	if err := m.session.Submit(answer); err != nil {
		// Chain cycles and the like: the session stays on this step.
		m.errText = err.Error()
		return m, nil
	}
	cmd := (&m).sync()
	return m, cmd
}

// --- Placeholder phase ---

// beginPlaceholders collects the distinct tokens of the assembled
// command in first-appearance order and starts resolving them.
func (m *Model) beginPlaceholders() tea.Cmd {
	m.pending = placeholder.Tokens(m.command)
	return m.nextToken()
}

// nextToken starts resolution of the next token: a fetch command when
// the config declares a source, a seeded free-text prompt otherwise.
func (m *Model) nextToken() tea.Cmd {
	if len(m.pending) == 0 {
		m.phase = phaseConfirm
		return nil
	}
	m.token = m.pending[0]
	m.pending = m.pending[1:]
	m.choices = nil
	m.choiceCursor = 0
	m.phase = phasePlaceholder

	if fetchCmd, ok := m.sources[m.token]; ok && m.executor != nil {
		m.fetching = true
		return tea.Batch(m.spin.Tick, m.runFetch(m.token, fetchCmd))
	}
	m.startTokenInput()
	return textinput.Blink
}

// startTokenInput seeds the free-text prompt with the token text.
func (m *Model) startTokenInput() {
	ti := textinput.New()
	ti.SetValue(placeholder.Suggestion(m.token))
	ti.CursorEnd()
	ti.Focus()
	m.pinput = ti
}

// runFetch executes the fetch command off the update loop.
func (m Model) runFetch(token, fetchCmd string) tea.Cmd {
	resolver := placeholder.NewResolver(m.sources, m.executor, nil, m.log)
	return func() tea.Msg {
		choices, err := resolver.Fetch(context.Background(), fetchCmd)
		return fetchDoneMsg{token: token, choices: choices, err: err}
	}
}

func (m Model) onFetchDone(msg fetchDoneMsg) (tea.Model, tea.Cmd) {
	if msg.token != m.token || !m.fetching {
		return m, nil
	}
	m.fetching = false
	if msg.err != nil || len(msg.choices) == 0 {
		// Recoverable: downgrade to the free-text prompt for this token.
		m.log.Debug("placeholder fetch failed", zap.String("token", m.token), zap.Error(msg.err))
		(&m).startTokenInput()
		return m, textinput.Blink
	}
	m.choices = msg.choices
	m.choiceCursor = 0
	return m, nil
}

func (m Model) updatePlaceholder(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m.cancel()
	case key.Matches(msg, keys.Back):
		m.resetToMenu()
		return m, nil
	}

	if m.fetching {
		return m, nil
	}

	if m.choices != nil {
		switch {
		case key.Matches(msg, keys.Up):
			if m.choiceCursor > 0 {
				m.choiceCursor--
			}
		case key.Matches(msg, keys.Down):
			if m.choiceCursor+1 < len(m.choices) {
				m.choiceCursor++
			}
		case key.Matches(msg, keys.Submit):
			cmd := (&m).substitute(m.choices[m.choiceCursor].Value)
			return m, cmd
		}
		return m, nil
	}

	if key.Matches(msg, keys.Submit) {
		cmd := (&m).substitute(m.pinput.Value())
		return m, cmd
	}
	var cmd tea.Cmd
	m.pinput, cmd = m.pinput.Update(msg)
	return m, cmd
}

// substitute replaces every occurrence of the current token and moves on.
func (m *Model) substitute(value string) tea.Cmd {
	m.command = strings.ReplaceAll(m.command, m.token, value)
	return m.nextToken()
}

// --- Confirm phase ---

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit) || msg.String() == "q":
		return m.cancel()
	case key.Matches(msg, keys.Back):
		m.resetToMenu()
		return m, nil
	case key.Matches(msg, keys.Submit):
		return m.finish(m.defaultMode)
	case key.Matches(msg, keys.Execute):
		return m.finish(output.ModeExecute)
	case key.Matches(msg, keys.Copy):
		return m.finish(output.ModeCopy)
	case key.Matches(msg, keys.Print):
		return m.finish(output.ModePrint)
	}
	return m, nil
}

func (m Model) finish(mode output.Mode) (tea.Model, tea.Cmd) {
	m.result = Result{Command: m.command, Mode: mode}
	return m, tea.Quit
}
