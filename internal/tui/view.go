package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ragconsole/internal/console"
	"ragconsole/internal/domain"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	panelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	stageDoneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	stageLockStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	activeStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	infoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	userStyle      = lipgloss.NewStyle().Bold(true)
	botStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	sourceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	confirmStyle   = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).Padding(0, 2).Foreground(lipgloss.Color("9"))
)

var stageLabels = map[console.Stage]string{
	console.StageUpload:     "1 Upload",
	console.StageConfigure:  "2 Configure",
	console.StageInitialize: "3 Initialize",
	console.StageChat:       "4 Chat",
}

// View renders the console layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := headerStyle.Render("RAG Pipeline Console")
	bar := m.stageBar()

	var panel string
	switch m.active {
	case console.StageUpload:
		panel = m.uploadView()
	case console.StageConfigure:
		panel = m.configureView()
	case console.StageInitialize:
		panel = m.initializeView()
	case console.StageChat:
		panel = m.chatView()
	}

	status := m.statusLineView()
	server := m.serverStatusView()
	help := dimStyle.Render("tab: switch stage • enter: run • ctrl+s: refresh status • ctrl+r: reset • ctrl+l: clear chat • ctrl+c: quit")

	out := header + "\n" + bar + "\n" + panel + "\n" + server + "\n" + status + "\n" + help
	if m.confirmReset {
		out += "\n" + confirmStyle.Render("Reset the pipeline and discard all progress? (y/n)")
	}
	return out
}

func (m Model) stageBar() string {
	parts := make([]string, 0, 4)
	for _, st := range console.Stages() {
		label := stageLabels[st]
		switch {
		case st == m.active:
			if m.busy[stageActions[st]] {
				label = activeStyle.Render(m.spin.View() + label)
			} else {
				label = activeStyle.Render("▸ " + label)
			}
		case m.session.Completed(st):
			label = stageDoneStyle.Render("✓ " + label)
		case m.session.Enabled(st):
			label = "○ " + label
		default:
			label = stageLockStyle.Render("· " + label)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "   ")
}

func (m Model) uploadView() string {
	hint := dimStyle.Render("Space-separated paths, then enter to upload.")
	return panelStyle.Render(hint+"\n"+m.uploadInput.View()) + "\n"
}

func (m Model) configureView() string {
	f := m.form
	rows := []struct {
		row   formRow
		label string
		value string
	}{
		{rowProvider, "Provider", pick(f.providers, f.providerIdx)},
		{rowModel, "Model", pick(f.currentModels(), f.modelIdx)},
		{rowEmbedder, "Embedder", pick(f.embedders, f.embedderIdx)},
		{rowStrategy, "Chunking strategy", f.currentStrategy()},
		{rowChunkSize, "Chunk size", f.sizeInput.View()},
		{rowChunkOverlap, "Chunk overlap", f.overlapInput.View()},
	}
	var b strings.Builder
	for _, r := range rows {
		marker := "  "
		value := r.value
		if r.row == f.cursor {
			marker = cursorStyle.Render("❯ ")
			if r.row <= rowStrategy {
				value = "◀ " + value + " ▶"
			}
		}
		fmt.Fprintf(&b, "%s%-18s %s\n", marker, r.label, value)
	}
	b.WriteString(dimStyle.Render("up/down: field • left/right: choose • enter: apply"))
	return panelStyle.Render(b.String()) + "\n"
}

func (m Model) initializeView() string {
	var body string
	switch {
	case m.busy[actionInitialize]:
		body = m.spin.View() + " Building the retrieval index..."
	case m.session.Completed(console.StageInitialize):
		body = stageDoneStyle.Render("Index built.") + " Move on to chat (tab)."
	default:
		body = "Press enter to build the retrieval index for the configured pipeline."
	}
	return panelStyle.Render(body) + "\n"
}

func (m Model) chatView() string {
	transcript := panelStyle.Render(m.transcript.View())
	input := inputBoxStyle.Render(m.question.View())
	return transcript + "\n" + input
}

func (m Model) serverStatusView() string {
	if !m.haveStatus {
		return dimStyle.Render("server: status unknown")
	}
	st := m.serverStatus
	line := fmt.Sprintf("server: %d file(s) processed • ready for chat: %s", st.FilesProcessed, yesNo(st.ReadyForChat))
	if p, ok := st.Configuration["provider"].(string); ok && p != "" {
		if mdl, ok := st.Configuration["model"].(string); ok && mdl != "" {
			line += fmt.Sprintf(" • %s/%s", p, mdl)
		} else {
			line += " • " + p
		}
	}
	return dimStyle.Render(line)
}

func (m Model) statusLineView() string {
	if m.statusLine == "" {
		return ""
	}
	if m.statusIsErr {
		return errorStyle.Render("Error: " + m.statusLine)
	}
	return infoStyle.Render(m.statusLine)
}

// renderTranscript renders the chat turns in order. Bot turns carry a
// citation line when sources are present.
func renderTranscript(turns []domain.ChatTurn) string {
	if len(turns) == 0 {
		return dimStyle.Render("No messages yet. Ask something about your documents.")
	}
	var b strings.Builder
	for i, turn := range turns {
		if i > 0 {
			b.WriteString("\n")
		}
		switch turn.Role {
		case domain.RoleUser:
			b.WriteString(userStyle.Render("You: ") + turn.Text + "\n")
		case domain.RoleBot:
			b.WriteString(botStyle.Render("Bot: ") + turn.Text + "\n")
			if len(turn.Sources) > 0 {
				names := make([]string, 0, len(turn.Sources))
				for _, s := range turn.Sources {
					names = append(names, s.Filename)
				}
				b.WriteString(sourceStyle.Render("     sources: "+strings.Join(names, ", ")) + "\n")
			}
		}
	}
	return b.String()
}

func pick(values []string, idx int) string {
	if len(values) == 0 {
		return dimStyle.Render("(none available)")
	}
	if idx < 0 || idx >= len(values) {
		idx = 0
	}
	return values[idx]
}
