/*
Copyright © 2025 DerithAI
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/DerithAI/WOLF-AI/internal/memory"
)

// memoryCmd groups the pack memory commands
var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Read and write the pack memory",
	Long: `The pack memory is a namespaced key-value store in the den. Wolves
use it to remember things between hunts; these commands give you the
same access from the shell.`,
}

var memoryNamespace string

// openMemory opens the configured backend and wraps it in the
// namespace selected by --ns. The caller must Close the backend.
func openMemory() (memory.Backend, *memory.Store, error) {
	config := GetConfig()
	backend, err := memory.Open(config.Memory.Backend, filepath.Join(config.Den.RootDir, "memory"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open memory: %w", err)
	}
	return backend, memory.NewStore(backend, memoryNamespace), nil
}

var memorySetTTL time.Duration

// memorySetCmd represents the memory set command
var memorySetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a value",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, mem, err := openMemory()
		if err != nil {
			return err
		}
		defer func() { _ = backend.Close() }()

		key := args[0]
		value := strings.Join(args[1:], " ")
		if err := mem.Set(key, value, memorySetTTL); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}

		if memorySetTTL > 0 {
			fmt.Printf("✓ %s remembered for %s\n", key, memorySetTTL)
		} else {
			fmt.Printf("✓ %s remembered\n", key)
		}
		return nil
	},
}

// memoryGetCmd represents the memory get command
var memoryGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Read a value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, mem, err := openMemory()
		if err != nil {
			return err
		}
		defer func() { _ = backend.Close() }()

		var raw json.RawMessage
		found, err := mem.Get(args[0], &raw)
		if err != nil {
			return fmt.Errorf("failed to get %s: %w", args[0], err)
		}
		if !found {
			fmt.Fprintf(os.Stderr, "%s is not remembered\n", args[0])
			os.Exit(1)
		}

		// Plain strings print bare, anything else as JSON.
		var s string
		if json.Unmarshal(raw, &s) == nil {
			fmt.Println(s)
		} else {
			fmt.Println(string(raw))
		}
		return nil
	},
}

// memoryDeleteCmd represents the memory delete command
var memoryDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Forget a value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, mem, err := openMemory()
		if err != nil {
			return err
		}
		defer func() { _ = backend.Close() }()

		existed, err := mem.Delete(args[0])
		if err != nil {
			return fmt.Errorf("failed to delete %s: %w", args[0], err)
		}
		if !existed {
			fmt.Printf("%s was not remembered\n", args[0])
			return nil
		}
		fmt.Printf("✓ %s forgotten\n", args[0])
		return nil
	},
}

// memoryKeysCmd represents the memory keys command
var memoryKeysCmd = &cobra.Command{
	Use:   "keys [pattern]",
	Short: "List remembered keys",
	Long:  `List keys in the namespace, optionally filtered by a glob pattern (e.g. "hunt-*").`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, mem, err := openMemory()
		if err != nil {
			return err
		}
		defer func() { _ = backend.Close() }()

		pattern := ""
		if len(args) > 0 {
			pattern = args[0]
		}
		keys, err := mem.Keys(pattern)
		if err != nil {
			return fmt.Errorf("failed to list keys: %w", err)
		}

		if len(keys) == 0 {
			fmt.Println("Nothing remembered.")
			return nil
		}
		for _, k := range keys {
			fmt.Println(k)
		}
		return nil
	},
}

var memoryIncrBy int64

// memoryIncrCmd represents the memory incr command
var memoryIncrCmd = &cobra.Command{
	Use:   "incr <key>",
	Short: "Increment a counter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, mem, err := openMemory()
		if err != nil {
			return err
		}
		defer func() { _ = backend.Close() }()

		n, err := mem.Increment(args[0], memoryIncrBy)
		if err != nil {
			return fmt.Errorf("failed to increment %s: %w", args[0], err)
		}
		fmt.Println(n)
		return nil
	},
}

// memoryClearCmd represents the memory clear command
var memoryClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget everything in the namespace",
	Run: func(cmd *cobra.Command, args []string) {
		confirmPrompt := promptui.Prompt{
			Label:     fmt.Sprintf("Forget everything in namespace '%s'?", memoryNamespace),
			IsConfirm: true,
		}
		if _, err := confirmPrompt.Run(); err != nil {
			if err == promptui.ErrAbort {
				fmt.Println("Nothing forgotten.")
			} else {
				fmt.Fprintf(os.Stderr, "Confirmation prompt failed: %v\n", err)
			}
			os.Exit(1)
		}

		backend, mem, err := openMemory()
		if err != nil {
			HandleFatalError("Failed to open memory", err)
		}
		defer func() { _ = backend.Close() }()

		if err := mem.Clear(); err != nil {
			HandleFatalError("Failed to clear memory", err)
		}
		fmt.Printf("✓ Namespace '%s' forgotten\n", memoryNamespace)
	},
}

func init() {
	rootCmd.AddCommand(memoryCmd)
	memoryCmd.AddCommand(memorySetCmd)
	memoryCmd.AddCommand(memoryGetCmd)
	memoryCmd.AddCommand(memoryDeleteCmd)
	memoryCmd.AddCommand(memoryKeysCmd)
	memoryCmd.AddCommand(memoryIncrCmd)
	memoryCmd.AddCommand(memoryClearCmd)

	memoryCmd.PersistentFlags().StringVar(&memoryNamespace, "ns", "default", "Memory namespace")

	memorySetCmd.Flags().DurationVar(&memorySetTTL, "ttl", 0, "Expiry for the value (0 keeps it forever)")
	memoryIncrCmd.Flags().Int64Var(&memoryIncrBy, "by", 1, "Increment amount")
}
