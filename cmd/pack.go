/*
Copyright © 2025 DerithAI
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DerithAI/WOLF-AI/internal/howl"
	"github.com/DerithAI/WOLF-AI/internal/pack"
	"github.com/DerithAI/WOLF-AI/internal/ui"
	"github.com/DerithAI/WOLF-AI/models"
)

// packCmd groups the roster commands
var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Manage the pack",
	Long:  `Form, awaken and rest the pack, and manage its roster of wolves.`,
}

// packAwakenCmd represents the pack awaken command
var packAwakenCmd = &cobra.Command{
	Use:   "awaken",
	Short: "Awaken the pack",
	Long:  `Activate every wolf in the roster. A dormant pack is formed with the founding five first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(`
    ╔══════════════════════════════════════════════════════════╗
    ║                                                          ║
    ║     🐺 W O L F - A I 🐺                                 ║
    ║                                                          ║
    ║     The Pack Awakens...                                  ║
    ║                                                          ║
    ╚══════════════════════════════════════════════════════════╝`)

		bridge, err := GetBridge()
		if err != nil {
			return err
		}
		p, err := GetPack(bridge)
		if err != nil {
			return err
		}

		if err := p.Awaken(); err != nil {
			return fmt.Errorf("failed to awaken the pack: %w", err)
		}

		rep := p.Report()
		fmt.Printf("\n✅ Pack Status: %s\n", rep.Status)
		fmt.Printf("🐺 Wolves Active: %d\n\n", len(rep.Wolves))

		for _, w := range rep.Wolves {
			fmt.Printf("   %-8s | %-10s | %s\n", strings.ToUpper(w.Name), w.Role, w.Status)
		}

		fmt.Println(`
    ╔══════════════════════════════════════════════════════════╗
    ║                                                          ║
    ║     AUUUUUUUUUUUUUUUUUUUUUUUU! 🐺🐺🐺                   ║
    ║                                                          ║
    ║     The pack is ready to hunt.                           ║
    ║                                                          ║
    ╚══════════════════════════════════════════════════════════╝`)
		return nil
	},
}

// packStatusCmd represents the pack status command
var packStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the pack and its queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := GetPack(nil)
		if err != nil {
			return err
		}

		huntStore, err := GetStore(nil)
		if err != nil {
			return fmt.Errorf("failed to get store: %w", err)
		}
		defer func() { _ = huntStore.Close() }()

		pending, err := huntStore.List(func(h models.Hunt) bool { return h.Status == models.StatusPending }, nil)
		if err != nil {
			return fmt.Errorf("failed to list hunts: %w", err)
		}
		active, err := huntStore.List(func(h models.Hunt) bool { return h.Status == models.StatusActive }, nil)
		if err != nil {
			return fmt.Errorf("failed to list hunts: %w", err)
		}

		fmt.Println(ui.PackStatusView(p.Report(), len(pending), len(active)))
		return nil
	},
}

// packRestCmd represents the pack rest command
var packRestCmd = &cobra.Command{
	Use:   "rest",
	Short: "Put the pack to rest",
	RunE: func(cmd *cobra.Command, args []string) error {
		bridge, err := GetBridge()
		if err != nil {
			return err
		}
		p, err := GetPack(bridge)
		if err != nil {
			return err
		}

		if err := p.Rest(); err != nil {
			return fmt.Errorf("failed to rest the pack: %w", err)
		}

		fmt.Println("😴 The pack rests. Hunts wait for the next awakening.")
		return nil
	},
}

// packResonanceCmd represents the pack resonance command
var packResonanceCmd = &cobra.Command{
	Use:       "resonance <on|off>",
	Short:     "Toggle collective resonance mode",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		bridge, err := GetBridge()
		if err != nil {
			return err
		}
		p, err := GetPack(bridge)
		if err != nil {
			return err
		}

		switch args[0] {
		case "on":
			if err := p.ActivateResonance(); err != nil {
				return fmt.Errorf("failed to activate resonance: %w", err)
			}
			fmt.Println("🌀 Resonance activated. The pack thinks as one.")
		case "off":
			if err := p.DeactivateResonance(); err != nil {
				return fmt.Errorf("failed to deactivate resonance: %w", err)
			}
			fmt.Println("🌀 Resonance deactivated.")
		default:
			return fmt.Errorf("unknown resonance state %q (want on or off)", args[0])
		}
		return nil
	},
}

var packBroadcastFrequency string

// packBroadcastCmd represents the pack broadcast command
var packBroadcastCmd = &cobra.Command{
	Use:   "broadcast <message>",
	Short: "Broadcast a message from the whole pack",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		freq, err := howl.ParseFrequency(packBroadcastFrequency)
		if err != nil {
			return fmt.Errorf("invalid frequency: %w", err)
		}

		bridge, err := GetBridge()
		if err != nil {
			return err
		}
		p, err := GetPack(bridge)
		if err != nil {
			return err
		}

		p.Broadcast(strings.TrimSpace(strings.Join(args, " ")), freq)
		fmt.Println("📡 Broadcast sent.")
		return nil
	},
}

// packLurkCmd represents the pack lurk command
var packLurkCmd = &cobra.Command{
	Use:   "lurk <wolf>",
	Short: "Send a wolf into stealth mode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bridge, err := GetBridge()
		if err != nil {
			return err
		}
		p, err := GetPack(bridge)
		if err != nil {
			return err
		}

		if err := p.Lurk(args[0]); err != nil {
			return fmt.Errorf("failed to lurk: %w", err)
		}

		fmt.Printf("🌑 %s fades into the shadows.\n", args[0])
		return nil
	},
}

// packWolfCmd groups roster membership commands
var packWolfCmd = &cobra.Command{
	Use:   "wolf",
	Short: "Manage roster members",
}

var (
	wolfAddRole  string
	wolfAddModel string
)

// packWolfAddCmd represents the pack wolf add command
var packWolfAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a wolf to the roster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := GetPack(nil)
		if err != nil {
			return err
		}

		w := pack.Wolf{Name: args[0], Role: wolfAddRole, Model: wolfAddModel}
		if err := p.AddWolf(w); err != nil {
			return fmt.Errorf("failed to add wolf: %w", err)
		}

		fmt.Printf("✓ %s joined the pack (%s)\n", w.Name, w.Role)
		return nil
	},
}

// packWolfRemoveCmd represents the pack wolf remove command
var packWolfRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a wolf from the roster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := GetPack(nil)
		if err != nil {
			return err
		}

		if err := p.RemoveWolf(args[0]); err != nil {
			return fmt.Errorf("failed to remove wolf: %w", err)
		}

		fmt.Printf("✓ %s left the pack\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(packCmd)
	packCmd.AddCommand(packAwakenCmd)
	packCmd.AddCommand(packStatusCmd)
	packCmd.AddCommand(packRestCmd)
	packCmd.AddCommand(packResonanceCmd)
	packCmd.AddCommand(packBroadcastCmd)
	packCmd.AddCommand(packLurkCmd)
	packCmd.AddCommand(packWolfCmd)
	packWolfCmd.AddCommand(packWolfAddCmd)
	packWolfCmd.AddCommand(packWolfRemoveCmd)

	packBroadcastCmd.Flags().StringVarP(&packBroadcastFrequency, "frequency", "f", "medium", "Frequency (low, medium, high, auuuu)")

	packWolfAddCmd.Flags().StringVar(&wolfAddRole, "role", "", "The wolf's role in the pack (required)")
	packWolfAddCmd.Flags().StringVar(&wolfAddModel, "model", "", "Backend model the wolf speaks through")
	_ = packWolfAddCmd.MarkFlagRequired("role")
}
