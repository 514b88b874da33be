package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"apibridge/config"
	"apibridge/model"
)

const defaultWidth = 80

type streamChunkMsg struct{ Text string }

type streamUsageMsg struct{ InputTokens, OutputTokens int64 }

type streamDoneMsg struct{}

type streamErrorMsg struct{ Err error }

type markdownRenderedMsg struct{ Rendered string }

// StreamView shows one response while it streams and replaces it with the
// rendered markdown once the stream ends.
type StreamView struct {
	modelID string
	stream  model.Stream
	ctx     context.Context
	cancel  context.CancelFunc
	events  chan tea.Msg

	spinner   spinner.Model
	startedAt time.Time
	width     int

	response     string
	rendered     string
	inputTokens  int64
	outputTokens int64
	err          error
	done         bool
}

// NewStreamView prepares a view for h's reply to messages. Nothing is sent
// until the view is started by a tea.Program.
func NewStreamView(ctx context.Context, h model.Handler, systemPrompt string, messages []model.Message) StreamView {
	ctx, cancel := context.WithCancel(ctx)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = AssistantStyle

	return StreamView{
		modelID:   h.GetModel().ID,
		stream:    h.CreateMessage(ctx, systemPrompt, messages),
		ctx:       ctx,
		cancel:    cancel,
		events:    make(chan tea.Msg, 64),
		spinner:   s,
		startedAt: time.Now(),
		width:     defaultWidth,
	}
}

func (v StreamView) Init() tea.Cmd {
	go pump(v.ctx, v.stream, v.events)
	return tea.Batch(v.spinner.Tick, waitForEvent(v.events))
}

// pump relays stream elements to events and closes it when the stream ends
// or ctx is cancelled.
func pump(ctx context.Context, stream model.Stream, events chan<- tea.Msg) {
	defer close(events)

	send := func(msg tea.Msg) bool {
		select {
		case events <- msg:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for chunk, err := range stream {
		if err != nil {
			send(streamErrorMsg{Err: err})
			return
		}
		var msg tea.Msg
		switch chunk.Type {
		case model.ChunkTypeText:
			msg = streamChunkMsg{Text: chunk.Text}
		case model.ChunkTypeUsage:
			msg = streamUsageMsg{InputTokens: chunk.InputTokens, OutputTokens: chunk.OutputTokens}
		default:
			continue
		}
		if !send(msg) {
			return
		}
	}
	send(streamDoneMsg{})
}

func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

func (v StreamView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			config.Debugf("[UI] Stream cancelled by user after %d chars", len(v.response))
			v.cancel()
			v.err = context.Canceled
			v.done = true
			return v, tea.Quit
		}

	case tea.WindowSizeMsg:
		v.width = msg.Width

	case spinner.TickMsg:
		if v.done {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case streamChunkMsg:
		v.response += msg.Text
		return v, waitForEvent(v.events)

	case streamUsageMsg:
		v.inputTokens = msg.InputTokens
		v.outputTokens = msg.OutputTokens
		return v, waitForEvent(v.events)

	case streamErrorMsg:
		config.Debugf("[UI] Stream failed: %v", msg.Err)
		v.err = msg.Err
		v.done = true
		v.cancel()
		return v, tea.Quit

	case streamDoneMsg:
		v.done = true
		content, width := v.response, v.width
		return v, func() tea.Msg {
			return markdownRenderedMsg{Rendered: RenderMarkdown(content, width)}
		}

	case markdownRenderedMsg:
		v.rendered = msg.Rendered
		v.cancel()
		return v, tea.Quit
	}

	return v, nil
}

func (v StreamView) View() string {
	if v.err != nil {
		if errors.Is(v.err, context.Canceled) {
			return DimStyle.Render("Cancelled.") + "\n"
		}
		return ErrorStyle.Render("Error:") + " " + v.err.Error() + "\n"
	}

	status := v.statusLine()
	if v.rendered != "" {
		return v.rendered + "\n" + status + "\n"
	}

	body := v.spinner.View()
	if v.response != "" {
		body = AssistantStyle.Render(v.response) + "▋"
	}
	return status + "\n\n" + body + "\n\n" + FormatFooter("Ctrl+C", "Cancel") + "\n"
}

// statusLine shows the model, token usage and elapsed time, truncated to the
// terminal width.
func (v StreamView) statusLine() string {
	line := v.modelID
	if v.inputTokens > 0 || v.outputTokens > 0 {
		line += fmt.Sprintf(" · %d in / %d out", v.inputTokens, v.outputTokens)
	}
	line += fmt.Sprintf(" · %.1fs", time.Since(v.startedAt).Seconds())
	return StatusStyle.Render(truncate(line, v.width))
}

func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// Response returns the raw text received so far.
func (v StreamView) Response() string {
	return v.response
}

// Err returns the error that ended the stream, or context.Canceled if the
// user aborted it.
func (v StreamView) Err() error {
	return v.err
}

// Usage returns the token counts reported by the backend, if any.
func (v StreamView) Usage() (input, output int64) {
	return v.inputTokens, v.outputTokens
}

// Run streams the reply in an inline terminal view and returns the final
// state of the view.
func Run(ctx context.Context, h model.Handler, systemPrompt string, messages []model.Message) (StreamView, error) {
	p := tea.NewProgram(NewStreamView(ctx, h, systemPrompt, messages), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return StreamView{}, fmt.Errorf("failed to run stream view: %w", err)
	}
	return final.(StreamView), nil
}
