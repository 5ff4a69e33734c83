package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/list"

	"github.com/SchmitzHorst/ai-agent-service/config"
	"github.com/SchmitzHorst/ai-agent-service/core"
	"github.com/SchmitzHorst/ai-agent-service/fs"
	"github.com/SchmitzHorst/ai-agent-service/llm"
	"github.com/SchmitzHorst/ai-agent-service/logger"
	"github.com/SchmitzHorst/ai-agent-service/requirements"
	"github.com/SchmitzHorst/ai-agent-service/utils"
)

type state int

const (
	Input state = iota
	Clarifying
	Clarify
	Questions
	Initializing
	Processing
	Finished
)

type genFlags struct {
	name   string
	config string
}

type parseResultMsg struct {
	result *requirements.ParseResult
}

type generateCmdModel struct {
	textInput       textinput.Model
	spinner         spinner.Model
	state           state
	request         *core.Request
	parser          *requirements.Parser
	parseResult     *requirements.ParseResult
	currentQuestion int
	completedSteps  []core.StepType
	engine          *Engine
	engineCtx       context.Context
	engineCancel    context.CancelFunc
	answers         []string
	publisher       *CliStepPublisher
	logger          logger.Logger
	fs              *fs.FileSystem
}

func newGenerateModel(f genFlags) (generateCmdModel, error) {
	ti := textinput.New()
	ti.Placeholder = "Describe your application..."
	ti.Focus()
	ti.CharLimit = 156
	ti.Width = 80

	logger.InitLogger()
	log := logger.GetLogger()
	log.Debug("Initializing agent CLI")
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("202"))

	cfg, err := config.LoadConfig(f.config)
	if err != nil {
		return generateCmdModel{}, err
	}

	req := core.DefaultRequest()
	req.Provider = cfg.Provider
	req.APIKey = cfg.APIKey()
	req.ModelName = cfg.ModelName
	req.TemplateDir = cfg.TemplateDir
	req.OutputDir = cfg.OutputDir
	if f.name != "" {
		req.Requirements.AppName = f.name
	}

	client, err := llm.NewClient(&llm.LlmConfig{
		Provider:  cfg.Provider,
		APIKey:    cfg.APIKey(),
		ModelName: cfg.ModelName,
		TellmURL:  cfg.TellmURL,
	}, log)
	if err != nil {
		return generateCmdModel{}, err
	}
	parser := requirements.NewParser(client, log)

	memFS := fs.NewMemoryFileSystem()
	publisher := NewCliStepPublisher(log)
	engine, err := NewAppEngine(publisher, log, 1, memFS, cfg)
	if err != nil {
		return generateCmdModel{}, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	m := generateCmdModel{
		textInput:       ti,
		spinner:         s,
		state:           Input,
		logger:          log,
		request:         req,
		parser:          parser,
		fs:              memFS,
		engine:          engine,
		engineCtx:       ctx,
		engineCancel:    cancel,
		publisher:       publisher,
		currentQuestion: 0,
	}
	engine.Start(ctx)
	return m, nil
}

func (m generateCmdModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m generateCmdModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Check for Finished or Initializing states
	switch m.state {
	case Finished:
		return m, tea.Quit
	case Initializing:
		m.state = Processing
		return m, tea.Batch(m.spinner.Tick, m.handleAppGeneration())
	}

	// Read the message and update the model
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m, cmd := m.handleKeyPress(msg)
		if cmd != nil {
			return m, cmd
		}
	case parseResultMsg:
		return m.handleParseResult(msg.result)
	case core.StepType:
		return m.handleStep(msg)
	case error:
		return m, tea.Sequence(tea.Printf("Error: %s", msg), tea.Quit)
	default:
		if m.state == Processing || m.state == Clarifying {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	// Update the text input
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m generateCmdModel) View() string {
	switch m.state {
	case Input:
		return fmt.Sprintf(
			m.textInput.View(),
			"(press enter to generate application or esc to quit)",
		)
	case Clarifying:
		return fmt.Sprintf("%s Analyzing your description", m.spinner.View())
	case Clarify:
		return fmt.Sprintf("%s\n%s", m.parseResult.Question, m.textInput.View())
	case Initializing:
		return fmt.Sprintf("%s Initializing", m.spinner.View())
	case Processing:
		steps := []struct {
			present string
			past    string
		}{
			{"Seeding project template.", "Seeded project template."},
			{"Removing template placeholders.", "Removed template placeholders."},
			{"Generating entities.", "Generated entities."},
			{"Generating repositories.", "Generated repositories."},
			{"Generating controllers.", "Generated controllers."},
			{"Generating frontend components.", "Generated frontend components."},
			{"Validating application.", "Validated application."},
			{"Creating optional components.", "Created optional components."},
			{"Finalizing application.", "Finalized application."},
		}

		enumerator := func(l list.Items, i int) string {
			var e string
			if i < len(m.completedSteps) {
				checkStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
				check := checkStyle.Render("✓")
				e = check
			} else if i == len(m.completedSteps) {
				e = m.spinner.View()
			}
			return e
		}

		l := list.New().Enumerator(enumerator)
		for i, step := range steps {
			if i < len(m.completedSteps) {
				l.Item(step.past)
			} else if i == len(m.completedSteps) {
				l.Item(step.present)
			}
		}
		return fmt.Sprint(l)
	case Questions:
		questions := []string{
			"Do you want to initialize a git repository?",
			"Do you want to generate a .gitignore file?",
			"Do you want to generate a README.md file?",
			"Do you want to generate a Dockerfile?",
			"Do you want to deploy the application?",
		}
		var output strings.Builder
		for i, q := range questions {
			if i < m.currentQuestion {
				output.WriteString(fmt.Sprintf("%s (%s)\n", q, m.answers[i]))
			} else if i == m.currentQuestion {
				output.WriteString(fmt.Sprintf("%s (y/n): \n%s", q, m.textInput.View()))
			}
		}
		output.WriteString("\n(Enter 'b' to go back, or 'esc' to quit)")
		return output.String()
	case Finished:
		return "Application generated successfully!"
	default:
		m.logger.Error("An error occurred")
		return "An error occurred."
	}
}

func (m *generateCmdModel) Shutdown() {
	m.engineCancel()                   // Cancel the engine context
	m.engine.Shutdown(5 * time.Second) // Give 5 seconds for graceful shutdown
}

// handleKeyPress handles key presses for the application.
func (m *generateCmdModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case Input:
		return m.handleInputState(msg)
	case Clarify:
		return m.handleClarifyState(msg)
	case Questions:
		return m.handleQuestionsState(msg)
	default:
		return m.handleQuit(msg)
	}
}

// handleInputState handles the input state of the application on key press.
func (m *generateCmdModel) handleInputState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m.handleKeyEnter()
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	}
	return m, nil
}

func (m *generateCmdModel) handleClarifyState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		answer := m.textInput.Value()
		if answer == "" {
			return m, nil
		}
		m.textInput.SetValue("")
		m.state = Clarifying
		sessionID := m.parseResult.SessionID
		return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
			result, err := m.parser.Continue(sessionID, answer)
			if err != nil {
				return err
			}
			return parseResultMsg{result: result}
		})
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	}
	return m, nil
}

// handleQuestionsState handles the questions state of the application on key press.
func (m *generateCmdModel) handleQuestionsState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m.handleQuestionAnswer(m.textInput.Value())
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	}
	return m, nil
}

// handleKeyEnter handles the enter key press for the application.
func (m *generateCmdModel) handleKeyEnter() (tea.Model, tea.Cmd) {
	if m.state != Input {
		return m, nil
	}
	v := utils.SanitizeInput(m.textInput.Value())

	// No input, quit.
	if v == "" {
		placeholderStyle := lipgloss.NewStyle().Faint(true)
		message := "No application description entered. Exiting..."
		message = placeholderStyle.Render(message)
		return m, tea.Sequence(tea.Printf("%s", message), tea.Quit)
	}
	// Input, parse the description.
	m.textInput.SetValue("")
	m.state = Clarifying
	placeholderStyle := lipgloss.NewStyle().Faint(true).Width(80)
	message := placeholderStyle.Render(fmt.Sprintf("> %s", v))
	return m, tea.Batch(tea.Printf("%s", message), m.spinner.Tick, func() tea.Msg {
		result, err := m.parser.Parse(v)
		if err != nil {
			return err
		}
		return parseResultMsg{result: result}
	})
}

func (m *generateCmdModel) handleParseResult(result *requirements.ParseResult) (tea.Model, tea.Cmd) {
	m.parseResult = result
	if !result.Complete {
		m.state = Clarify
		return m, textinput.Blink
	}
	if m.request.Requirements.AppName != "my-app" && m.request.Requirements.AppName != "" {
		result.Requirements.AppName = m.request.Requirements.AppName
	}
	m.request.Requirements = result.Requirements
	m.state = Questions
	return m, textinput.Blink
}

// handleQuestionAnswer handles the question answer for the application.
func (m *generateCmdModel) handleQuestionAnswer(answer string) (tea.Model, tea.Cmd) {
	answer = strings.ToLower(answer)
	if answer != "y" && answer != "n" && answer != "b" {
		return m, nil
	}

	if answer == "b" && m.currentQuestion > 0 {
		m.currentQuestion--
		m.answers = m.answers[:len(m.answers)-1]
		return m, nil
	}

	m.answers = append(m.answers, answer)
	m.currentQuestion++
	m.textInput.SetValue("")
	if m.currentQuestion >= 5 {
		m.request.GitRepo = m.answers[0] == "y"
		m.request.GitIgnore = m.answers[1] == "y"
		m.request.Readme = m.answers[2] == "y"
		m.request.Dockerfile = m.answers[3] == "y"
		m.request.Deploy = m.answers[4] == "y"
		m.state = Initializing
		return m, func() tea.Msg { return nil }
	}

	return m, tea.Batch(textinput.Blink, func() tea.Msg { return nil })
}

func (m *generateCmdModel) listenForNextStep() tea.Msg {
	select {
	case step := <-m.publisher.stepChan:
		return step
	case err := <-m.publisher.errorChan:
		m.logger.Error(fmt.Sprintf("Error received during application generation: %v", err))
		return err
	}
}

func (m *generateCmdModel) handleAppGeneration() tea.Cmd {
	resultChan := m.engine.AddRequest(m.request)
	listenForError := func() tea.Msg {
		select {
		case err := <-resultChan:
			if err != nil {
				return err
			}
			return nil
		case <-time.After(10 * time.Minute):
			m.logger.Error("Application generation timed out")
			return errors.New("application generation timed out")
		}
	}
	return tea.Batch(m.listenForNextStep, listenForError)
}

func (m *generateCmdModel) handleStep(step core.StepType) (tea.Model, tea.Cmd) {
	m.logger.Debug(fmt.Sprintf("Received step: %v", step))
	m.completedSteps = append(m.completedSteps, step)
	if step == core.FinalizeProject {
		return m.handleAppFinalization()
	}
	return m, tea.Batch(m.spinner.Tick, m.listenForNextStep)
}

func (m *generateCmdModel) handleAppFinalization() (tea.Model, tea.Cmd) {
	m.logger.Info("Finalizing application.")
	m.state = Finished

	structure, err := m.fs.ListFiles(".")
	if err != nil {
		m.logger.Error(fmt.Sprintf("Failed to list generated files: %v", err))
	} else {
		m.logger.Debug(fmt.Sprintf("Generated %d top-level entries", len(structure)))
	}

	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	outName := nameStyle.Render(m.request.Requirements.AppName)
	finalMsg := fmt.Sprintf("Application generated: %s", outName)

	return m, tea.Printf("%s", finalMsg)
}

// handleQuit handles the quit state of the application on key press.
func (m *generateCmdModel) handleQuit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
		m.logger.Debug("User exited the application")
		style := lipgloss.NewStyle().Faint(true)
		message := "Interrupted. Exiting application..."
		message = style.Render(message)
		return m, tea.Sequence(tea.Printf("%s", message), tea.Quit)
	}
	return m, nil
}
