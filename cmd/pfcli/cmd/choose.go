package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turnforge/ttdpf/config"
	"github.com/turnforge/ttdpf/follower"
	"github.com/turnforge/ttdpf/pfcontext"
	"github.com/turnforge/ttdpf/worldmap"
)

var (
	chooseFrom    string
	chooseTo      string
	chooseReserve bool
)

// chooseCmd runs pfcontext.ChooseNextTrack (spec §6 "choose_next_track")
// against a textual map fixture - the library's primary entry point.
var chooseCmd = &cobra.Command{
	Use:   "choose",
	Short: "Choose the next trackdir from an origin toward a target tile",
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
		origin, originTd, err := parseTileTrackdir(m.Size, chooseFrom)
		if err != nil {
			return fmt.Errorf("--from: %w", err)
		}
		target, err := parseTile(m.Size, chooseTo)
		if err != nil {
			return fmt.Errorf("--to: %w", err)
		}

		ctx := pfcontext.New(m, config.Default())
		opts := follower.Options{Transport: worldmap.TransportRail, Owner: owner}

		if chooseReserve {
			tds, ok := ctx.FindAndReservePath(opts, origin, originTd, target)
			if !ok || len(tds) == 0 {
				fmt.Println("path_found=false")
				return nil
			}
			fmt.Printf("path_found=true reserved=true chosen_trackdir=%v\n", tds[0])
			return nil
		}

		td, ok := ctx.ChooseNextTrack(opts, origin, originTd, target)
		if !ok {
			fmt.Println("path_found=false")
			return nil
		}
		fmt.Printf("path_found=true chosen_trackdir=%v\n", td)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chooseCmd)
	chooseCmd.Flags().StringVar(&chooseFrom, "from", "", "origin as x,y,TD (required)")
	chooseCmd.Flags().StringVar(&chooseTo, "to", "", "target tile as x,y (required)")
	chooseCmd.Flags().BoolVar(&chooseReserve, "reserve", false, "also run the PBS reservation pass")
	chooseCmd.MarkFlagRequired("from")
	chooseCmd.MarkFlagRequired("to")
}
