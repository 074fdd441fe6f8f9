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
	"time"

	"github.com/spf13/cobra"

	"github.com/DerithAI/WOLF-AI/internal/howl"
	"github.com/DerithAI/WOLF-AI/internal/ui"
)

// howlCmd groups the bridge commands
var howlCmd = &cobra.Command{
	Use:   "howl",
	Short: "Talk and listen on the bridge",
	Long: `The bridge is the pack's shared message log. Every hunt transition
lands there as a howl, and wolves (and you) can howl freely.`,
}

var (
	howlSendTo        string
	howlSendFrequency string
	howlSendTags      []string
)

// howlSendCmd represents the howl send command
var howlSendCmd = &cobra.Command{
	Use:   "send <message>",
	Short: "Send a howl",
	Long: `Send a howl over the bridge.

Examples:
  wolfai howl send "moon is high, good hunting"
  wolfai howl send -f auuuu "ALL WOLVES TO THE RIDGE"
  wolfai howl send --to scout --tags recon "report in"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		freq, err := howl.ParseFrequency(howlSendFrequency)
		if err != nil {
			return fmt.Errorf("invalid frequency: %w", err)
		}

		bridge, err := GetBridge()
		if err != nil {
			return err
		}

		sent, err := bridge.Send(howl.Howl{
			From:      "commander",
			To:        howlSendTo,
			Message:   strings.TrimSpace(strings.Join(args, " ")),
			Frequency: freq,
			Tags:      howlSendTags,
		})
		if err != nil {
			return fmt.Errorf("failed to send howl: %w", err)
		}

		fmt.Println(ui.HowlLine(sent))
		return nil
	},
}

var (
	howlListenFrom      string
	howlListenTo        string
	howlListenFrequency string
	howlListenSince     time.Duration
	howlListenLimit     int
	howlListenFollow    bool
)

// howlListenCmd represents the howl listen command
var howlListenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Read howls from the bridge",
	Long: `Read recent howls, newest last. With --follow, keep the bridge open
and print howls as they arrive (Ctrl+C to stop).

Examples:
  wolfai howl listen -n 50
  wolfai howl listen --from scout --since 1h
  wolfai howl listen --follow`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var freq howl.Frequency
		var err error
		if howlListenFrequency != "" {
			freq, err = howl.ParseFrequency(howlListenFrequency)
			if err != nil {
				return fmt.Errorf("invalid frequency: %w", err)
			}
		}

		bridge, err := GetBridge()
		if err != nil {
			return err
		}

		if howlListenFollow {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Println("📡 Listening on the bridge... Press Ctrl+C to stop")
			err := bridge.Follow(ctx, func(h howl.Howl) {
				fmt.Println(ui.HowlLine(h))
			})
			if err != nil && ctx.Err() == nil {
				return fmt.Errorf("follow failed: %w", err)
			}
			return nil
		}

		f := howl.Filter{
			From:      howlListenFrom,
			To:        howlListenTo,
			Frequency: freq,
			Limit:     howlListenLimit,
		}
		if howlListenSince > 0 {
			f.Since = time.Now().Add(-howlListenSince)
		}

		howls, err := bridge.Listen(f)
		if err != nil {
			return fmt.Errorf("failed to read bridge: %w", err)
		}

		fmt.Println(ui.HowlList(howls))
		return nil
	},
}

var howlSearchLimit int

// howlSearchCmd represents the howl search command
var howlSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search howls by text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bridge, err := GetBridge()
		if err != nil {
			return err
		}

		howls, err := bridge.Search(strings.Join(args, " "), howlSearchLimit)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		fmt.Println(ui.HowlList(howls))
		return nil
	},
}

// howlStatsCmd represents the howl stats command
var howlStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show bridge statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		bridge, err := GetBridge()
		if err != nil {
			return err
		}

		stats, err := bridge.Stats()
		if err != nil {
			return fmt.Errorf("failed to read bridge: %w", err)
		}

		fmt.Println(ui.HowlStats(stats))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(howlCmd)
	howlCmd.AddCommand(howlSendCmd)
	howlCmd.AddCommand(howlListenCmd)
	howlCmd.AddCommand(howlSearchCmd)
	howlCmd.AddCommand(howlStatsCmd)

	howlSendCmd.Flags().StringVar(&howlSendTo, "to", "", "Addressee (default: the whole pack)")
	howlSendCmd.Flags().StringVarP(&howlSendFrequency, "frequency", "f", "medium", "Frequency (low, medium, high, auuuu)")
	howlSendCmd.Flags().StringSliceVar(&howlSendTags, "tags", nil, "Tags to attach")

	howlListenCmd.Flags().StringVar(&howlListenFrom, "from", "", "Only howls from this wolf")
	howlListenCmd.Flags().StringVar(&howlListenTo, "to", "", "Only howls addressed to this wolf")
	howlListenCmd.Flags().StringVarP(&howlListenFrequency, "frequency", "f", "", "Only howls at this frequency")
	howlListenCmd.Flags().DurationVar(&howlListenSince, "since", 0, "Only howls newer than this (e.g. 1h, 30m)")
	howlListenCmd.Flags().IntVarP(&howlListenLimit, "limit", "n", 20, "Maximum howls to print")
	howlListenCmd.Flags().BoolVar(&howlListenFollow, "follow", false, "Keep listening and print howls as they arrive")

	howlSearchCmd.Flags().IntVarP(&howlSearchLimit, "limit", "n", 20, "Maximum howls to print")
}
