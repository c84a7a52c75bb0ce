package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turnforge/ttdpf/config"
	"github.com/turnforge/ttdpf/follower"
	"github.com/turnforge/ttdpf/pfcontext"
	"github.com/turnforge/ttdpf/tile"
	"github.com/turnforge/ttdpf/worldmap"
)

var (
	reverseFrom string
	reverseTo   string
)

// reverseCmd runs pfcontext.CheckReverse (spec §6 "check_reverse"): does
// turning the vehicle around at its current tile produce a shorter path to
// the target than continuing forward.
var reverseCmd = &cobra.Command{
	Use:   "reverse",
	Short: "Check whether reversing at the origin is beneficial",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := getMapFile()
		if err != nil {
			return err
		}
		owner := getOwner()
		m, err := loadMap(path, owner)
		if err != nil {
			return err
		}
		origin, forwardTd, err := parseTileTrackdir(m.Size, reverseFrom)
		if err != nil {
			return fmt.Errorf("--from: %w", err)
		}
		target, err := parseTile(m.Size, reverseTo)
		if err != nil {
			return fmt.Errorf("--to: %w", err)
		}

		ctx := pfcontext.New(m, config.Default())
		opts := follower.Options{Transport: worldmap.TransportRail, Owner: owner}

		reverseTd := tile.ReverseTrackdir(forwardTd)
		shouldReverse := ctx.CheckReverse(opts, origin, forwardTd, reverseTd, target)
		fmt.Printf("should_reverse=%v\n", shouldReverse)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reverseCmd)
	reverseCmd.Flags().StringVar(&reverseFrom, "from", "", "origin as x,y,TD (required)")
	reverseCmd.Flags().StringVar(&reverseTo, "to", "", "target tile as x,y (required)")
	reverseCmd.MarkFlagRequired("from")
	reverseCmd.MarkFlagRequired("to")
}
