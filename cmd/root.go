/*
Copyright © 2025 DerithAI
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/DerithAI/WOLF-AI/internal/howl"
	"github.com/DerithAI/WOLF-AI/internal/hunt"
	"github.com/DerithAI/WOLF-AI/internal/pack"
	"github.com/DerithAI/WOLF-AI/internal/ui"
	"github.com/DerithAI/WOLF-AI/models"
	"github.com/DerithAI/WOLF-AI/store"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// ErrNoHuntsFound is returned when an interactive selection is attempted but no hunts are available.
	ErrNoHuntsFound = errors.New("no hunts found matching your criteria")
	// version is the application version.
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wolfai",
	Short: "WOLF-AI runs a pack of wolves through a durable hunt queue.",
	Long: `WOLF-AI is the den's command center. It keeps a durable queue of
hunts (units of work), schedules them by priority, executes them with
retries and per-attempt timeouts, and records every move as a howl on
the bridge.

Run 'wolfai pack awaken' to bring the pack to life, 'wolfai hunt add'
to queue work, and 'wolfai daemon' to let the pack hunt on its own.`,
	Run: func(cmd *cobra.Command, args []string) {
		// return help if no args are provided
		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}

		// otherwise, run the subcommand
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is <den>/.wolfai.yaml, $HOME/.wolfai.yaml or ./.wolfai.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Bind persistent flags to Viper
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// GetHuntFilePath returns the full path to the hunts file
func GetHuntFilePath() string {
	config := GetConfig()
	return filepath.Join(config.Den.RootDir, config.Data.File)
}

// GetBridge opens the howl bridge in the den's bridge directory.
func GetBridge() (*howl.Bridge, error) {
	config := GetConfig()
	bridge, err := howl.NewBridge(config.Den.BridgeDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open bridge at %s: %w", config.Den.BridgeDir, err)
	}
	return bridge, nil
}

// GetPack loads the roster from the den. Its howls go out over bridge,
// which may be nil for silent read-only use.
func GetPack(bridge *howl.Bridge) (*pack.Pack, error) {
	config := GetConfig()
	p, err := pack.New(config.Den.RootDir, bridge)
	if err != nil {
		return nil, fmt.Errorf("failed to load pack from %s: %w", config.Den.RootDir, err)
	}
	return p, nil
}

// GetStore initializes and returns the hunt store using the unified types.AppConfig.
// When a formed pack is passed, its roster vets assignees at Add time;
// with a nil or unformed pack any assignee is accepted opaquely.
func GetStore(p *pack.Pack) (store.HuntStore, error) {
	s := store.NewFileHuntStore()
	config := GetConfig()

	huntFilePath := GetHuntFilePath()

	storeCfg := map[string]string{
		"dataFile":       huntFilePath,
		"dataFileFormat": config.Data.Format,
	}
	if config.Hunt.RetryLimit > 0 {
		storeCfg["retryLimit"] = strconv.Itoa(config.Hunt.RetryLimit)
	}
	if config.Hunt.TimeoutSeconds > 0 {
		storeCfg["timeoutSeconds"] = strconv.Itoa(config.Hunt.TimeoutSeconds)
	}

	if err := s.Initialize(storeCfg); err != nil {
		return nil, fmt.Errorf("failed to initialize store at %s: %w", huntFilePath, err)
	}
	if p != nil && p.Size() > 0 {
		s.SetAssigneeCheck(p.Known)
	}
	return s, nil
}

// newRunner builds the executor and daemon pair from config.
func newRunner(st store.HuntStore, bridge *howl.Bridge) *hunt.Daemon {
	config := GetConfig()
	exec := hunt.NewExecutor(st, bridge)
	interval := config.Daemon.Interval()
	grace := config.Daemon.Grace()
	return hunt.NewDaemon(st, exec, interval, grace)
}

// selectHuntInteractive presents a prompt to the user to select a hunt from a list.
// It can be filtered using the provided filter function.
func selectHuntInteractive(huntStore store.HuntStore, filterFn func(models.Hunt) bool, label string) (models.Hunt, error) {
	if !ui.IsInteractive() {
		return models.Hunt{}, fmt.Errorf("cannot prompt for a hunt without a terminal, pass a hunt ID instead")
	}

	hunts, err := huntStore.List(filterFn, nil)
	if err != nil {
		return models.Hunt{}, fmt.Errorf("failed to list hunts for selection: %w", err)
	}

	if len(hunts) == 0 {
		return models.Hunt{}, ErrNoHuntsFound
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   `> {{ .Directive | cyan }} (ID: {{ .ID }}, Status: {{ .Status }})`,
		Inactive: `  {{ .Directive | faint }} (ID: {{ .ID }}, Status: {{ .Status }})`,
		Selected: `{{ "✔" | green }} {{ .Directive | faint }} (ID: {{ .ID }})`,
		Details: `
--------- Hunt Details ----------
{{ "ID:\t" | faint }} {{ .ID }}
{{ "Directive:\t" | faint }} {{ .Directive }}
{{ "Assignee:\t" | faint }} {{ .Assignee }}
{{ "Status:\t" | faint }} {{ .Status }}
{{ "Priority:\t" | faint }} {{ .Priority }}`,
	}

	searcher := func(input string, index int) bool {
		h := hunts[index]
		text := strings.ToLower(h.Directive.String())
		id := h.ID
		input = strings.ToLower(input)
		return strings.Contains(text, input) || strings.Contains(id, input)
	}

	prompt := promptui.Select{
		Label:     label,
		Items:     hunts,
		Templates: templates,
		Searcher:  searcher,
	}

	i, _, err := prompt.Run()
	if err != nil {
		return models.Hunt{}, err // Return error as is (includes promptui.ErrInterrupt)
	}

	return hunts[i], nil
}
