// Package tui implements the guided enrollment capture wizard.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/calderlab/cardia/internal/cli"
	"github.com/calderlab/cardia/internal/ecgapi"
	"github.com/calderlab/cardia/internal/model"
)

// captureDuration is the nominal length of one ECG capture. It drives the
// progress bar only; completion is driven by the collect call resolving.
const captureDuration = 30 * time.Second

const tickInterval = 100 * time.Millisecond

// CaptureClient is the slice of the backend client the wizard needs.
type CaptureClient interface {
	CollectSession(ctx context.Context, req ecgapi.CollectRequest) (model.SessionRecord, error)
}

// State identifies the wizard step.
type State int

// Wizard states.
const (
	StateInstructions State = iota
	StateCapture
	StateSummary
)

type captureDoneMsg struct {
	err     error
	session model.SessionRecord
}

type tickMsg time.Time

// Wizard is the Bubble Tea model for the enrollment workflow.
type Wizard struct {
	client       CaptureClient
	started      time.Time
	errMsg       string
	participants []model.Participant
	request      ecgapi.CollectRequest
	session      model.SessionRecord
	progress     progress.Model
	cursor       int
	state        State
	width        int
	capturing    bool
	quitting     bool
}

// NewWizard creates the wizard over the given roster. The roster may be
// empty; starting a capture is gated on a participant being selected.
func NewWizard(client CaptureClient, participants []model.Participant, request ecgapi.CollectRequest) Wizard {
	return Wizard{
		client:       client,
		participants: participants,
		request:      request,
		progress:     progress.New(progress.WithDefaultGradient()),
		state:        StateInstructions,
	}
}

// Init implements tea.Model.
func (w Wizard) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (w Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.progress.Width = msg.Width - 8
		return w, nil

	case tea.KeyMsg:
		return w.handleKey(msg)

	case tickMsg:
		if w.state != StateCapture {
			return w, nil
		}
		return w, tickCmd()

	case captureDoneMsg:
		w.capturing = false
		if msg.err != nil {
			// Transport failure returns the wizard to the instructions step
			// with the message shown; the operator retries from there.
			w.state = StateInstructions
			w.errMsg = msg.err.Error()
			return w, nil
		}
		w.session = msg.session
		w.state = StateSummary
		return w, nil
	}

	return w, nil
}

func (w Wizard) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		// Quitting mid-capture discards the outstanding call's result.
		w.quitting = true
		return w, tea.Quit

	case "up", "k":
		if w.state == StateInstructions && w.cursor > 0 {
			w.cursor--
		}
		return w, nil

	case "down", "j":
		if w.state == StateInstructions && w.cursor < len(w.participants)-1 {
			w.cursor++
		}
		return w, nil

	case "enter":
		if w.state == StateInstructions {
			return w.startCapture()
		}
		return w, nil

	case "a":
		if w.state == StateSummary {
			return w.startCapture()
		}
		return w, nil
	}
	return w, nil
}

// startCapture transitions to the capture step. The transition is gated on a
// participant being selected; without one a validation error is shown and
// the state does not change.
func (w Wizard) startCapture() (tea.Model, tea.Cmd) {
	if w.capturing {
		return w, nil
	}
	if len(w.participants) == 0 {
		w.errMsg = "select a participant before starting a capture"
		return w, nil
	}

	w.errMsg = ""
	w.state = StateCapture
	w.capturing = true
	w.started = time.Now()
	return w, tea.Batch(w.captureCmd(), tickCmd())
}

func (w Wizard) captureCmd() tea.Cmd {
	client := w.client
	request := w.request
	return func() tea.Msg {
		session, err := client.CollectSession(context.Background(), request)
		return captureDoneMsg{session: session, err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// CaptureRatio projects elapsed capture time onto [0,1] for presentation.
func (w Wizard) CaptureRatio() float64 {
	if w.started.IsZero() {
		return 0
	}
	ratio := float64(time.Since(w.started)) / float64(captureDuration)
	if ratio > 1 {
		return 1
	}
	return ratio
}

// Selected returns the currently selected participant, if any.
func (w Wizard) Selected() (model.Participant, bool) {
	if w.cursor < 0 || w.cursor >= len(w.participants) {
		return model.Participant{}, false
	}
	return w.participants[w.cursor], true
}

// Session returns the captured session once the wizard reaches the summary.
func (w Wizard) Session() model.SessionRecord {
	return w.session
}

// CurrentState returns the wizard step currently shown.
func (w Wizard) CurrentState() State {
	return w.state
}

// Err returns the validation or transport message currently shown.
func (w Wizard) Err() string {
	return w.errMsg
}

// View implements tea.Model.
func (w Wizard) View() string {
	if w.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(cli.FormatTitle("Enrollment capture"))
	b.WriteString("\n\n")

	switch w.state {
	case StateInstructions:
		b.WriteString("Attach the electrodes, have the participant sit still,\n")
		b.WriteString("and press enter to start a 30-second capture.\n\n")
		if len(w.participants) == 0 {
			b.WriteString(cli.FormatWarning("No participants to select; run 'cardia capture' to create one, then reopen the wizard.") + "\n")
		}
		for i, p := range w.participants {
			marker := "  "
			if i == w.cursor {
				marker = cli.BoldStyle.Render("> ")
			}
			b.WriteString(fmt.Sprintf("%s%s (%d sessions, %.0f%% enrolled)\n",
				marker, p.DisplayName(), p.SessionCount, p.EnrollmentProgress*100))
		}
		b.WriteString("\n" + cli.SubtleStyle.Render("enter: start capture  q: quit") + "\n")

	case StateCapture:
		b.WriteString("Capturing, keep still...\n\n")
		b.WriteString(w.progress.ViewAs(w.CaptureRatio()))
		b.WriteString("\n")

	case StateSummary:
		quality := string(w.session.Features.SignalQuality)
		b.WriteString(cli.FormatSuccess("Capture complete") + "\n\n")
		b.WriteString(fmt.Sprintf("Session:        %s\n", w.session.ID))
		b.WriteString(fmt.Sprintf("Participant:    %s\n", w.session.ParticipantID))
		b.WriteString(fmt.Sprintf("Signal quality: %s (score %.2f)\n", quality, w.session.Features.SignalQualityScore))
		b.WriteString(fmt.Sprintf("Estimated BPM:  %.0f\n", w.session.Features.EstimatedBPM))
		b.WriteString("\n" + cli.SubtleStyle.Render("a: capture again  q: quit") + "\n")
	}

	if w.errMsg != "" {
		b.WriteString("\n" + cli.FormatError(w.errMsg) + "\n")
	}
	return b.String()
}

// Run starts the wizard and blocks until the operator quits.
func Run(client CaptureClient, participants []model.Participant, request ecgapi.CollectRequest) error {
	p := tea.NewProgram(NewWizard(client, participants, request))
	_, err := p.Run()
	return err
}
