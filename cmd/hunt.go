/*
Copyright © 2025 DerithAI
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/DerithAI/WOLF-AI/internal/howl"
	"github.com/DerithAI/WOLF-AI/internal/ui"
	"github.com/DerithAI/WOLF-AI/internal/util"
	"github.com/DerithAI/WOLF-AI/models"
	"github.com/DerithAI/WOLF-AI/store"
)

// resolveHuntArg expands a hunt ID or unique prefix to the full ID.
func resolveHuntArg(huntStore store.HuntStore, idOrPrefix string) (string, error) {
	hunts, err := huntStore.List(nil, nil)
	if err != nil {
		return "", fmt.Errorf("failed to list hunts: %w", err)
	}
	ids := make([]string, 0, len(hunts))
	for _, h := range hunts {
		ids = append(ids, h.ID)
	}
	return util.ResolveHuntID(idOrPrefix, ids)
}

// huntCmd groups the hunt queue commands
var huntCmd = &cobra.Command{
	Use:   "hunt",
	Short: "Manage the hunt queue",
	Long:  `Add, list, inspect, cancel and run hunts. A hunt is one unit of work: a directive, an assignee and a priority.`,
}

var (
	huntAddAssignee string
	huntAddPriority string
	huntAddRetries  int
	huntAddTimeout  int
)

// huntAddCmd represents the hunt add command
var huntAddCmd = &cobra.Command{
	Use:   "add <directive>",
	Short: "Queue a new hunt",
	Long: `Queue a new hunt for the pack. The directive decides how it runs:

  shell:<command>   run a shell command
  code:<source>     evaluate a Go snippet
  file:<path>       read a file and report its contents

Anything without a known prefix is recorded as a note and always
succeeds.

Examples:
  wolfai hunt add "shell:df -h" -p high
  wolfai hunt add remember to rotate the API key
  wolfai hunt add -a scout "file:/etc/hostname"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runHuntAdd,
}

func runHuntAdd(cmd *cobra.Command, args []string) error {
	directive := models.ParseDirective(strings.TrimSpace(strings.Join(args, " ")))

	priority, err := models.ParsePriority(huntAddPriority)
	if err != nil {
		return fmt.Errorf("invalid priority: %w", err)
	}

	p, err := GetPack(nil)
	if err != nil {
		return err
	}

	huntStore, err := GetStore(p)
	if err != nil {
		return fmt.Errorf("failed to get store: %w", err)
	}
	defer func() { _ = huntStore.Close() }()

	h, err := huntStore.Add(directive, huntAddAssignee, priority, huntAddRetries, huntAddTimeout)
	if err != nil {
		return fmt.Errorf("failed to add hunt: %w", err)
	}

	fmt.Printf("✓ Hunt %s queued [%s]: %s\n", h.ID, h.Priority, h.Directive)
	return nil
}

var (
	huntListStatus   string
	huntListAssignee string
	huntListPriority string
)

// huntListCmd represents the hunt list command
var huntListCmd = &cobra.Command{
	Use:   "list",
	Short: "List hunts",
	Long:  `List hunts in the queue, optionally filtered by status, assignee or priority.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var wantStatus models.HuntStatus
		var wantPriority models.HuntPriority
		var err error

		if huntListStatus != "" {
			wantStatus, err = models.ParseStatus(huntListStatus)
			if err != nil {
				return fmt.Errorf("invalid status filter: %w", err)
			}
		}
		if huntListPriority != "" {
			wantPriority, err = models.ParsePriority(huntListPriority)
			if err != nil {
				return fmt.Errorf("invalid priority filter: %w", err)
			}
		}

		huntStore, err := GetStore(nil)
		if err != nil {
			return fmt.Errorf("failed to get store: %w", err)
		}
		defer func() { _ = huntStore.Close() }()

		filterFn := func(h models.Hunt) bool {
			if huntListStatus != "" && h.Status != wantStatus {
				return false
			}
			if huntListPriority != "" && h.Priority != wantPriority {
				return false
			}
			if huntListAssignee != "" && h.Assignee != huntListAssignee {
				return false
			}
			return true
		}

		hunts, err := huntStore.List(filterFn, nil)
		if err != nil {
			return fmt.Errorf("failed to list hunts: %w", err)
		}

		fmt.Println(ui.HuntTable(hunts))
		return nil
	},
}

// huntShowCmd represents the hunt show command
var huntShowCmd = &cobra.Command{
	Use:   "show [hunt_id]",
	Short: "Show one hunt in detail",
	Long:  `Show a hunt's full record. If no ID is provided, an interactive list is shown.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		huntStore, err := GetStore(nil)
		if err != nil {
			return fmt.Errorf("failed to get store: %w", err)
		}
		defer func() { _ = huntStore.Close() }()

		var h models.Hunt
		if len(args) > 0 {
			id, rerr := resolveHuntArg(huntStore, args[0])
			if rerr != nil {
				return rerr
			}
			h, err = huntStore.Get(id)
			if err != nil {
				return fmt.Errorf("failed to retrieve hunt %s: %w", id, err)
			}
		} else {
			h, err = selectHuntInteractive(huntStore, nil, "Select hunt")
			if err != nil {
				if err == promptui.ErrInterrupt {
					return nil
				}
				if err == ErrNoHuntsFound {
					fmt.Println("No hunts found.")
					return nil
				}
				return fmt.Errorf("hunt selection failed: %w", err)
			}
		}

		fmt.Println(ui.HuntDetail(h))
		return nil
	},
}

// huntCancelCmd represents the hunt cancel command
var huntCancelCmd = &cobra.Command{
	Use:   "cancel [hunt_id]",
	Short: "Cancel a hunt",
	Long:  `Cancel a pending or active hunt by its ID. If no ID is provided, an interactive list is shown. A confirmation prompt is always displayed before cancellation.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		huntStore, err := GetStore(nil)
		if err != nil {
			HandleFatalError("Failed to get store", err)
		}
		defer func() { _ = huntStore.Close() }()

		var huntIDToCancel string
		var directiveText string // For confirmation message

		if len(args) > 0 {
			id, rerr := resolveHuntArg(huntStore, args[0])
			if rerr != nil {
				fmt.Fprintf(os.Stderr, "%v\n", rerr)
				os.Exit(1)
			}
			huntIDToCancel = id
			// Validate if hunt exists and get directive text
			h, err := huntStore.Get(huntIDToCancel)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to retrieve hunt %s for cancellation: %v\n", huntIDToCancel, err)
				os.Exit(1)
			}
			directiveText = h.Directive.String()
		} else {
			notTerminal := func(h models.Hunt) bool { return !h.Status.IsTerminal() }
			selected, err := selectHuntInteractive(huntStore, notTerminal, "Select hunt to cancel")
			if err != nil {
				if err == promptui.ErrInterrupt {
					fmt.Println("Cancellation aborted.")
					return
				}
				if err == ErrNoHuntsFound {
					fmt.Println("No hunts available to cancel.")
					return
				}
				fmt.Fprintf(os.Stderr, "Hunt selection failed: %v\n", err)
				os.Exit(1)
			}
			huntIDToCancel = selected.ID
			directiveText = selected.Directive.String()
		}

		// Confirmation prompt
		confirmPrompt := promptui.Prompt{
			Label:     fmt.Sprintf("Are you sure you want to cancel hunt '%s' (ID: %s)?", ui.Truncate(directiveText, 60), huntIDToCancel),
			IsConfirm: true,
		}
		_, err = confirmPrompt.Run()
		if err != nil {
			// Handles both 'no' (promptui.ErrAbort) and actual errors
			if err == promptui.ErrAbort {
				fmt.Println("Cancellation aborted.")
			} else {
				fmt.Fprintf(os.Stderr, "Confirmation prompt failed: %v\n", err)
			}
			os.Exit(1)
		}

		h, err := huntStore.Cancel(huntIDToCancel)
		if err != nil {
			HandleFatalError(fmt.Sprintf("Failed to cancel hunt %s", huntIDToCancel), err)
		}

		// Let the pack know over the bridge. A silent bridge is not fatal.
		if bridge, berr := GetBridge(); berr == nil {
			_, _ = bridge.Send(howl.Howl{
				From:      "commander",
				Message:   fmt.Sprintf("Hunt cancelled: %s", h.ID),
				Frequency: howl.FreqMedium,
				Tags:      []string{"hunt", "cancelled"},
			})
		} else {
			LogError("bridge unavailable, cancellation not howled", berr)
		}

		fmt.Printf("Hunt %s cancelled.\n", h.ID)
	},
}

var huntRunAssignee string

// huntRunCmd represents the hunt run command
var huntRunCmd = &cobra.Command{
	Use:   "run <directive>",
	Short: "Run a hunt right now and wait for it",
	Long: `Queue a hunt at critical priority and run one attempt in the
foreground. A failed attempt follows the normal retry policy: the hunt
returns to pending for the daemon to pick up, or fails once its retry
limit is reached.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		directive := models.ParseDirective(strings.TrimSpace(strings.Join(args, " ")))

		bridge, err := GetBridge()
		if err != nil {
			return err
		}
		p, err := GetPack(bridge)
		if err != nil {
			return err
		}
		huntStore, err := GetStore(p)
		if err != nil {
			return fmt.Errorf("failed to get store: %w", err)
		}
		defer func() { _ = huntStore.Close() }()

		d := newRunner(huntStore, bridge)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		h, err := d.RunNow(ctx, directive, huntRunAssignee)
		if err != nil {
			return fmt.Errorf("hunt run failed: %w", err)
		}

		fmt.Println(ui.HuntDetail(h))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(huntCmd)
	huntCmd.AddCommand(huntAddCmd)
	huntCmd.AddCommand(huntListCmd)
	huntCmd.AddCommand(huntShowCmd)
	huntCmd.AddCommand(huntCancelCmd)
	huntCmd.AddCommand(huntRunCmd)

	huntAddCmd.Flags().StringVarP(&huntAddAssignee, "assignee", "a", "", "Wolf the hunt is assigned to (default: hunter)")
	huntAddCmd.Flags().StringVarP(&huntAddPriority, "priority", "p", "medium", "Priority (low, medium, high, critical)")
	huntAddCmd.Flags().IntVar(&huntAddRetries, "retries", 0, "Retry limit for this hunt (0 uses the configured default)")
	huntAddCmd.Flags().IntVar(&huntAddTimeout, "timeout", 0, "Per-attempt timeout in seconds (0 uses the configured default)")

	huntListCmd.Flags().StringVar(&huntListStatus, "status", "", "Filter by status (pending, active, completed, failed, cancelled)")
	huntListCmd.Flags().StringVar(&huntListAssignee, "assignee", "", "Filter by assignee")
	huntListCmd.Flags().StringVar(&huntListPriority, "priority", "", "Filter by priority")

	huntRunCmd.Flags().StringVarP(&huntRunAssignee, "assignee", "a", "", "Wolf the hunt is assigned to (default: hunter)")
}
