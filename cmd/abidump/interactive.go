package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/fvm-abi/codec"
	"github.com/wippyai/fvm-abi/types"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	sigStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type mode int

const (
	modeDecode mode = iota
	modeEncode
)

type interactiveModel struct {
	err      error
	result   string
	inputs   []textinput.Model
	focusIdx int
	mode     mode
}

const (
	inputSig = iota
	inputPayload
)

func newInteractiveModel() *interactiveModel {
	sig := textinput.New()
	sig.Prompt = "type: "
	sig.Placeholder = "(u64, vec<u8>)"
	sig.Width = 60
	sig.Focus()

	payload := textinput.New()
	payload.Prompt = "data: "
	payload.Placeholder = "hex call data"
	payload.Width = 60

	return &interactiveModel{inputs: []textinput.Model{sig, payload}}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+e":
			if m.mode == modeDecode {
				m.mode = modeEncode
				m.inputs[inputPayload].Prompt = "value: "
				m.inputs[inputPayload].Placeholder = "(42, [1, 2, 3])"
			} else {
				m.mode = modeDecode
				m.inputs[inputPayload].Prompt = "data: "
				m.inputs[inputPayload].Placeholder = "hex call data"
			}
			m.result = ""
			m.err = nil

		case "tab":
			m.inputs[m.focusIdx].Blur()
			m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
			m.inputs[m.focusIdx].Focus()

		case "enter":
			m.run()
		}
	}

	var cmds []tea.Cmd
	for i := range m.inputs {
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *interactiveModel) run() {
	m.result = ""
	m.err = nil

	desc, err := types.ParseSignature(m.inputs[inputSig].Value(), nil)
	if err != nil {
		m.err = err
		return
	}

	raw := strings.TrimSpace(m.inputs[inputPayload].Value())
	if m.mode == modeDecode {
		data, err := hex.DecodeString(strings.TrimPrefix(raw, "0x"))
		if err != nil {
			m.err = fmt.Errorf("decode hex: %w", err)
			return
		}
		val, consumed, err := codec.NewDecoder().Decode(data, desc)
		if err != nil {
			m.err = err
			return
		}
		m.result = fmt.Sprintf("%s\n(inline %d bytes, heap %d bytes)", val, consumed, len(data)-consumed)
		return
	}

	val, err := parseValue(raw, desc)
	if err != nil {
		m.err = err
		return
	}
	data, err := codec.NewEncoder().Encode(val, desc)
	if err != nil {
		m.err = err
		return
	}
	m.result = wordDump(data)
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	label := "decode"
	if m.mode == modeEncode {
		label = "encode"
	}
	b.WriteString(titleStyle.Render("ABI Dump"))
	b.WriteString(" ")
	b.WriteString(sigStyle.Render(label))
	b.WriteString("\n\n")

	for _, input := range m.inputs {
		b.WriteString(input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	} else if m.result != "" {
		b.WriteString(resultStyle.Render(m.result))
		b.WriteString("\n\n")
	}

	b.WriteString(helpStyle.Render("tab next field • enter run • ctrl+e encode/decode • esc quit"))
	return b.String()
}

func runInteractive() error {
	p := tea.NewProgram(newInteractiveModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
