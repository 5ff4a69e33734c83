package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/SchmitzHorst/ai-agent-service/llm"
	"github.com/SchmitzHorst/ai-agent-service/logger"
	"github.com/SchmitzHorst/ai-agent-service/requirements"
	"github.com/SchmitzHorst/ai-agent-service/runner"
)

var rootCmd = &cobra.Command{
	Use:   "agent <prompt>",
	Short: "Agent forwards a prompt to an LLM and prints the completion",
	Long:  `Agent is a CLI tool that sends a single prompt to an LLM and prints the generated text. Subcommands generate and deploy full applications from a description.`,
	Args:  cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		logger.InitLogger()
		r := runner.NewDefault(logger.GetLogger())
		os.Exit(r.Run(args))
	},
}

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a full-stack application from a description",
	Run: func(cmd *cobra.Command, args []string) {
		flags, err := parseGenFlags(cmd)
		if err != nil {
			fmt.Printf("Error parsing flags: %v\n", err)
			os.Exit(1)
		}

		model, err := newGenerateModel(flags)
		if err != nil {
			fmt.Printf("Error initializing model: %v\n", err)
			os.Exit(1)
		}

		p := tea.NewProgram(model)
		if _, err := p.Run(); err != nil {
			fmt.Printf("Error running program: %v\n", err)
			os.Exit(1)
		}

		model.Shutdown()
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse <description>",
	Short: "Parse an application description into structured requirements",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger.InitLogger()
		log := logger.GetLogger()

		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(os.Stderr, "Error: ANTHROPIC_API_KEY not set")
			os.Exit(1)
		}
		client, err := llm.NewClient(&llm.LlmConfig{
			Provider: llm.ProviderAnthropic,
			APIKey:   apiKey,
		}, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		parser := requirements.NewParser(client, log)
		result, err := parser.Parse(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		scanner := bufio.NewScanner(os.Stdin)
		for !result.Complete {
			fmt.Printf("%s\n> ", result.Question)
			if !scanner.Scan() {
				fmt.Fprintln(os.Stderr, "Error: no answer provided")
				os.Exit(1)
			}
			result, err = parser.Continue(result.SessionID, scanner.Text())
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}

		out, err := json.MarshalIndent(result.Requirements, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
	},
}

func init() {
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(parseCmd)

	genCmd.Flags().StringP("name", "n", "", "The name of the application to generate. Also used as the output directory name")
	genCmd.Flags().StringP("config", "c", "", "Path to custom configuration file")
}

func parseGenFlags(cmd *cobra.Command) (genFlags, error) {
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return genFlags{}, err
	}

	config, err := cmd.Flags().GetString("config")
	if err != nil {
		return genFlags{}, err
	}

	return genFlags{
		name:   name,
		config: config,
	}, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
