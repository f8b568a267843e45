package tui

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ragconsole/internal/domain"
)

type formRow int

const (
	rowProvider formRow = iota
	rowModel
	rowEmbedder
	rowStrategy
	rowChunkSize
	rowChunkOverlap

	numFormRows
)

// fallbackStrategies is used until the server advertises its own list.
var fallbackStrategies = []string{"fixed", "semantic", "recursive"}

// configForm is the Configure stage form: three pickers fed by the
// options fetch, a strategy picker and two numeric inputs.
type configForm struct {
	providers  []string
	models     map[string][]string
	embedders  []string
	strategies []string

	providerIdx int
	modelIdx    int
	embedderIdx int
	strategyIdx int

	sizeInput    textinput.Model
	overlapInput textinput.Model

	cursor formRow
}

func newConfigForm(strategy string, chunkSize, chunkOverlap int) configForm {
	size := textinput.New()
	size.Prompt = ""
	size.CharLimit = 4
	size.Width = 6
	size.SetValue(strconv.Itoa(chunkSize))

	overlap := textinput.New()
	overlap.Prompt = ""
	overlap.CharLimit = 4
	overlap.Width = 6
	overlap.SetValue(strconv.Itoa(chunkOverlap))

	f := configForm{
		strategies:   fallbackStrategies,
		sizeInput:    size,
		overlapInput: overlap,
	}
	f.selectStrategy(strategy)
	return f
}

// setOptions populates the pickers from the server's advertised options.
func (f *configForm) setOptions(opts domain.AvailableOptions) {
	f.providers = make([]string, 0, len(opts.Providers))
	for name := range opts.Providers {
		f.providers = append(f.providers, name)
	}
	sort.Strings(f.providers)
	f.models = opts.Providers
	f.embedders = opts.Embedders
	if len(opts.ChunkingStrategies) > 0 {
		strategy := f.currentStrategy()
		f.strategies = opts.ChunkingStrategies
		f.selectStrategy(strategy)
	}
	f.providerIdx = 0
	f.modelIdx = 0
	f.embedderIdx = 0
	if opts.DefaultSettings != nil {
		for i, p := range f.providers {
			if p == opts.DefaultSettings.Provider {
				f.providerIdx = i
				break
			}
		}
		for i, mdl := range f.currentModels() {
			if mdl == opts.DefaultSettings.Model {
				f.modelIdx = i
				break
			}
		}
	}
}

func (f *configForm) selectStrategy(name string) {
	f.strategyIdx = 0
	for i, s := range f.strategies {
		if s == name {
			f.strategyIdx = i
			return
		}
	}
}

func (f *configForm) currentModels() []string {
	if len(f.providers) == 0 {
		return nil
	}
	return f.models[f.providers[f.providerIdx]]
}

func (f *configForm) currentStrategy() string {
	if len(f.strategies) == 0 {
		return ""
	}
	return f.strategies[f.strategyIdx]
}

func (f *configForm) moveCursor(delta int) {
	f.cursor = formRow((int(f.cursor) + delta + int(numFormRows)) % int(numFormRows))
	f.syncFocus()
}

func (f *configForm) syncFocus() {
	f.sizeInput.Blur()
	f.overlapInput.Blur()
	switch f.cursor {
	case rowChunkSize:
		f.sizeInput.Focus()
	case rowChunkOverlap:
		f.overlapInput.Focus()
	}
}

// cycle moves the selection of the picker under the cursor.
func (f *configForm) cycle(delta int) {
	switch f.cursor {
	case rowProvider:
		if n := len(f.providers); n > 0 {
			f.providerIdx = (f.providerIdx + delta + n) % n
			f.modelIdx = 0
		}
	case rowModel:
		if n := len(f.currentModels()); n > 0 {
			f.modelIdx = (f.modelIdx + delta + n) % n
		}
	case rowEmbedder:
		if n := len(f.embedders); n > 0 {
			f.embedderIdx = (f.embedderIdx + delta + n) % n
		}
	case rowStrategy:
		if n := len(f.strategies); n > 0 {
			f.strategyIdx = (f.strategyIdx + delta + n) % n
		}
	}
}

// update forwards key events to whichever numeric input has focus.
func (f *configForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.cursor {
	case rowChunkSize:
		f.sizeInput, cmd = f.sizeInput.Update(msg)
	case rowChunkOverlap:
		f.overlapInput, cmd = f.overlapInput.Update(msg)
	}
	return cmd
}

// value assembles the PipelineConfig to submit. Picker and numeric
// problems are reported before any network call.
func (f *configForm) value() (domain.PipelineConfig, error) {
	var cfg domain.PipelineConfig
	if len(f.providers) > 0 {
		cfg.Provider = f.providers[f.providerIdx]
	}
	if models := f.currentModels(); len(models) > 0 {
		cfg.Model = models[f.modelIdx]
	}
	if len(f.embedders) > 0 {
		cfg.Embedder = f.embedders[f.embedderIdx]
	}
	cfg.ChunkingStrategy = f.currentStrategy()

	size, err := strconv.Atoi(f.sizeInput.Value())
	if err != nil {
		return cfg, fmt.Errorf("chunk size must be a number")
	}
	overlap, err := strconv.Atoi(f.overlapInput.Value())
	if err != nil {
		return cfg, fmt.Errorf("chunk overlap must be a number")
	}
	cfg.ChunkSize = size
	cfg.ChunkOverlap = overlap

	if err := cfg.Validate(); err != nil {
		return cfg, describeConfigError(err)
	}
	return cfg, nil
}
