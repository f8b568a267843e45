// Package tui renders the pipeline console: four dependent stages driven
// against a remote document QA service, plus status and chat.
package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"ragconsole/internal/console"
	"ragconsole/internal/domain"
)

// action identifies a network operation the console can have in flight.
// While one is outstanding its own trigger is disabled; everything else
// stays usable.
type action int

const (
	actionUpload action = iota
	actionConfigure
	actionInitialize
	actionChat
	actionStatus
	actionReset
	actionOptions

	numActions
)

var stageActions = map[console.Stage]action{
	console.StageUpload:     actionUpload,
	console.StageConfigure:  actionConfigure,
	console.StageInitialize: actionInitialize,
	console.StageChat:       actionChat,
}

// Options configures a new console model.
type Options struct {
	Client         domain.PipelineClient
	Logger         *zap.Logger
	RequestTimeout time.Duration
	BuildTimeout   time.Duration

	ChunkingStrategy string
	ChunkSize        int
	ChunkOverlap     int
}

// Model is the Bubble Tea model for the pipeline console.
type Model struct {
	session *console.Session
	client  domain.PipelineClient
	log     *zap.Logger

	reqTimeout   time.Duration
	buildTimeout time.Duration

	defaultStrategy string
	defaultSize     int
	defaultOverlap  int

	active       console.Stage
	busy         [numActions]bool
	confirmReset bool

	uploadInput textinput.Model
	question    textinput.Model
	form        configForm
	transcript  viewport.Model
	spin        spinner.Model

	serverStatus domain.PipelineStatus
	haveStatus   bool

	statusLine  string
	statusIsErr bool
	ready       bool
}

// New creates a console model. The initial options and status fetches are
// dispatched from Init.
func New(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ChunkingStrategy == "" {
		opts.ChunkingStrategy = domain.DefaultChunkingStrategy
	}
	if opts.ChunkSize == 0 {
		opts.ChunkSize = domain.DefaultChunkSize
	}

	upload := textinput.New()
	upload.Prompt = "> "
	upload.Placeholder = "paths to .pdf, .txt or .md files"
	upload.Focus()
	upload.CharLimit = 0

	question := textinput.New()
	question.Prompt = "> "
	question.Placeholder = "Ask a question about your documents"
	question.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		session:         console.NewSession(),
		client:          opts.Client,
		log:             opts.Logger,
		reqTimeout:      opts.RequestTimeout,
		buildTimeout:    opts.BuildTimeout,
		defaultStrategy: opts.ChunkingStrategy,
		defaultSize:     opts.ChunkSize,
		defaultOverlap:  opts.ChunkOverlap,
		active:          console.StageUpload,
		uploadInput:     upload,
		question:        question,
		form:            newConfigForm(opts.ChunkingStrategy, opts.ChunkSize, opts.ChunkOverlap),
		transcript:      viewport.New(0, 0),
		spin:            sp,
		statusLine:      "Connecting to pipeline service...",
	}
	m.busy[actionOptions] = true
	m.busy[actionStatus] = true
	return m
}

// Init dispatches the load-time options and status fetches.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick, m.fetchOptionsCmd(), m.statusCmd())
}

// Update handles key events and request results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case optionsMsg:
		m.busy[actionOptions] = false
		if msg.err != nil {
			m.setError(fmt.Sprintf("failed to load options: %v (ctrl+s to retry)", msg.err))
			return m, nil
		}
		m.session.SetOptions(msg.opts)
		m.form.setOptions(msg.opts)
		m.setInfo(fmt.Sprintf("Connected. %d provider(s) available.", len(msg.opts.Providers)))
		return m, nil

	case uploadResultMsg:
		m.busy[actionUpload] = false
		if msg.err != nil {
			m.setError(msg.err.Error())
			return m, nil
		}
		_ = m.session.Complete(console.StageUpload)
		m.setInfo(msg.res.Message)
		m.focusStage(console.StageConfigure)
		return m, nil

	case configureResultMsg:
		m.busy[actionConfigure] = false
		if msg.err != nil {
			m.setError(msg.err.Error())
			return m, nil
		}
		_ = m.session.Complete(console.StageConfigure)
		m.session.SetConfig(msg.cfg)
		m.setInfo("Pipeline configured. Press enter to build the index.")
		m.focusStage(console.StageInitialize)
		return m, nil

	case initializeResultMsg:
		m.busy[actionInitialize] = false
		if msg.err != nil {
			m.setError(msg.err.Error())
			return m, nil
		}
		_ = m.session.Complete(console.StageInitialize)
		m.setInfo("Index built. The pipeline is ready for chat.")
		m.focusStage(console.StageChat)
		return m, nil

	case chatResultMsg:
		m.busy[actionChat] = false
		if msg.err != nil {
			// The optimistic user turn stays in the transcript.
			m.setError(msg.err.Error())
			return m, nil
		}
		_ = m.session.Complete(console.StageChat)
		m.session.Append(domain.ChatTurn{
			Role:    domain.RoleBot,
			Text:    msg.answer.Response,
			Sources: msg.answer.Sources,
		})
		m.refreshTranscript()
		m.setInfo("")
		return m, nil

	case statusResultMsg:
		m.busy[actionStatus] = false
		if msg.err != nil {
			m.setError(fmt.Sprintf("status refresh failed: %v", msg.err))
			return m, nil
		}
		// Display only. Stage unlocks are driven by stage actions, never
		// by polling.
		m.serverStatus = msg.status
		m.haveStatus = true
		m.setInfo(fmt.Sprintf("Status: %d file(s) processed, ready for chat: %s",
			msg.status.FilesProcessed, yesNo(msg.status.ReadyForChat)))
		return m, nil

	case resetResultMsg:
		m.busy[actionReset] = false
		if msg.err != nil {
			m.setError(msg.err.Error())
			return m, nil
		}
		m.resetLocal()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	cmd := m.updateFocusedInput(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.confirmReset {
		switch msg.String() {
		case "y", "Y", "enter":
			m.confirmReset = false
			if m.busy[actionReset] {
				return m, nil
			}
			m.busy[actionReset] = true
			m.setInfo("Resetting pipeline...")
			return m, m.resetCmd()
		case "n", "N", "esc":
			m.confirmReset = false
			m.setInfo("Reset cancelled.")
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+r":
		m.confirmReset = true
		return m, nil
	case "ctrl+s":
		cmd := m.refreshStatus()
		return m, cmd
	case "ctrl+l":
		m.session.ClearChat()
		m.refreshTranscript()
		m.setInfo("Chat cleared.")
		return m, nil
	case "tab":
		m.cycleStage(1)
		return m, nil
	case "shift+tab":
		m.cycleStage(-1)
		return m, nil
	}

	switch m.active {
	case console.StageUpload:
		if msg.String() == "enter" {
			cmd := m.submitUpload()
			return m, cmd
		}
	case console.StageConfigure:
		switch msg.String() {
		case "up":
			m.form.moveCursor(-1)
			return m, nil
		case "down":
			m.form.moveCursor(1)
			return m, nil
		case "left":
			m.form.cycle(-1)
			return m, nil
		case "right":
			m.form.cycle(1)
			return m, nil
		case "enter":
			cmd := m.submitConfigure()
			return m, cmd
		}
	case console.StageInitialize:
		if msg.String() == "enter" {
			cmd := m.submitInitialize()
			return m, cmd
		}
	case console.StageChat:
		switch msg.String() {
		case "enter":
			cmd := m.submitChat()
			return m, cmd
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.transcript, cmd = m.transcript.Update(msg)
			return m, cmd
		}
	}

	cmd := m.updateFocusedInput(msg)
	return m, cmd
}

// refreshStatus polls /status and, if the load-time options fetch never
// landed, retries it as well.
func (m *Model) refreshStatus() tea.Cmd {
	var cmds []tea.Cmd
	if !m.busy[actionStatus] {
		m.busy[actionStatus] = true
		cmds = append(cmds, m.statusCmd())
	}
	if !m.busy[actionOptions] && len(m.session.Options().Providers) == 0 {
		m.busy[actionOptions] = true
		cmds = append(cmds, m.fetchOptionsCmd())
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) submitUpload() tea.Cmd {
	if m.busy[actionUpload] {
		return nil
	}
	paths := strings.Fields(m.uploadInput.Value())
	if len(paths) == 0 {
		m.setError("select at least one file to upload")
		return nil
	}
	for _, p := range paths {
		switch strings.ToLower(filepath.Ext(p)) {
		case ".pdf", ".txt", ".md":
		default:
			m.setError(fmt.Sprintf("unsupported file type %q (want .pdf, .txt or .md)", filepath.Base(p)))
			return nil
		}
	}
	m.busy[actionUpload] = true
	m.setInfo(fmt.Sprintf("Uploading %d file(s)...", len(paths)))
	return m.uploadCmd(paths)
}

func (m *Model) submitConfigure() tea.Cmd {
	if !m.session.Enabled(console.StageConfigure) || m.busy[actionConfigure] {
		return nil
	}
	cfg, err := m.form.value()
	if err != nil {
		m.setError(err.Error())
		return nil
	}
	m.busy[actionConfigure] = true
	m.setInfo("Applying configuration...")
	return m.configureCmd(cfg)
}

func (m *Model) submitInitialize() tea.Cmd {
	if !m.session.Enabled(console.StageInitialize) || m.busy[actionInitialize] {
		return nil
	}
	m.busy[actionInitialize] = true
	m.setInfo("Building the retrieval index (this can take a while)...")
	return m.initializeCmd()
}

func (m *Model) submitChat() tea.Cmd {
	if !m.session.Enabled(console.StageChat) || m.busy[actionChat] {
		return nil
	}
	q := strings.TrimSpace(m.question.Value())
	if q == "" {
		return nil
	}
	if len(q) > domain.MaxQuestionLen {
		m.setError(fmt.Sprintf("question is too long (max %d characters)", domain.MaxQuestionLen))
		return nil
	}
	m.session.Append(domain.ChatTurn{Role: domain.RoleUser, Text: q})
	m.question.Reset()
	m.refreshTranscript()
	m.busy[actionChat] = true
	m.setInfo("Waiting for answer...")
	return m.chatCmd(q)
}

func (m *Model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.active {
	case console.StageUpload:
		m.uploadInput, cmd = m.uploadInput.Update(msg)
	case console.StageConfigure:
		cmd = m.form.update(msg)
	case console.StageChat:
		m.question, cmd = m.question.Update(msg)
	}
	return cmd
}

// cycleStage moves the focus to the next unlocked stage in the given
// direction. Locked stages are skipped.
func (m *Model) cycleStage(delta int) {
	stages := console.Stages()
	n := len(stages)
	cur := int(m.active)
	for i := 1; i < n; i++ {
		next := stages[((cur+delta*i)%n+n)%n]
		if m.session.Enabled(next) {
			m.focusStage(next)
			return
		}
	}
}

func (m *Model) focusStage(st console.Stage) {
	if !m.session.Enabled(st) {
		return
	}
	m.active = st
	m.uploadInput.Blur()
	m.question.Blur()
	m.form.sizeInput.Blur()
	m.form.overlapInput.Blur()
	switch st {
	case console.StageUpload:
		m.uploadInput.Focus()
	case console.StageConfigure:
		m.form.syncFocus()
	case console.StageChat:
		m.question.Focus()
	}
}

// resetLocal returns the console to its initial state after a confirmed
// server-side reset. The options cache survives.
func (m *Model) resetLocal() {
	m.session.Reset()
	m.uploadInput.Reset()
	m.question.Reset()
	m.form = newConfigForm(m.defaultStrategy, m.defaultSize, m.defaultOverlap)
	if opts := m.session.Options(); len(opts.Providers) > 0 {
		m.form.setOptions(opts)
	}
	m.haveStatus = false
	m.serverStatus = domain.PipelineStatus{}
	m.refreshTranscript()
	m.focusStage(console.StageUpload)
	m.setInfo("Pipeline reset.")
}

func (m *Model) setError(text string) {
	m.statusLine = text
	m.statusIsErr = true
}

func (m *Model) setInfo(text string) {
	m.statusLine = text
	m.statusIsErr = false
}

func (m *Model) refreshTranscript() {
	m.transcript.SetContent(renderTranscript(m.session.Transcript()))
	m.transcript.GotoBottom()
}

func (m *Model) resize(width, height int) {
	_, fh := panelStyle.GetFrameSize()
	totalHeaderLines := 2 // header + stage bar
	totalFooterLines := 4 // server status + input box + status + help
	reserved := totalHeaderLines + totalFooterLines + fh + 1
	vh := height - reserved
	if vh < 3 {
		vh = 3
	}
	m.transcript.Width = maxInt(20, width-2)
	m.transcript.Height = vh
	m.refreshTranscript()
}

// describeConfigError rewrites validator errors into form-level messages.
func describeConfigError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.StructField() {
	case "Provider":
		return errors.New("select a provider")
	case "Model":
		return errors.New("select a model")
	case "Embedder":
		return errors.New("select an embedder")
	case "ChunkingStrategy":
		return errors.New("select a chunking strategy")
	case "ChunkSize":
		return errors.New("chunk size must be between 100 and 2000")
	case "ChunkOverlap":
		if fe.Tag() == "ltfield" {
			return errors.New("chunk overlap must be smaller than chunk size")
		}
		return errors.New("chunk overlap must be between 0 and 500")
	}
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
