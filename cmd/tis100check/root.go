package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tis100/core/cpu"
	"github.com/tis100/core/grid"
	"github.com/tis100/core/internal/tislog"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "tis100check [layout]",
	Short: "Check whether a grid layout reaches a fixed point",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default none)")
	rootCmd.Flags().IntP("ticks", "n", 1000, "maximum ticks to run before giving up")
	rootCmd.Flags().BoolP("verbose", "v", false, "log each tick's per-node mode")
	viper.BindPFlag("ticks", rootCmd.Flags().Lookup("ticks"))
	viper.BindPFlag("verbose", rootCmd.Flags().Lookup("verbose"))

	cobra.OnInitialize(func() {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
			_ = viper.ReadInConfig()
		}
	})
}

func runCheck(cmd *cobra.Command, args []string) error {
	layout, err := grid.LoadLayout(args[0])
	if err != nil {
		return err
	}

	g, err := grid.NewFromLayout(layout)
	if err != nil {
		return err
	}

	maxTicks := viper.GetInt("ticks")
	verbose := viper.GetBool("verbose")
	var logger *tislog.Logger
	if verbose {
		logger = tislog.New()
		logger.SetLevel(logrus.DebugLevel)
	}
	fixedPoint := false
	for t := 0; t < maxTicks; t++ {
		g.Tick()
		if verbose {
			for r := 0; r < layout.Rows; r++ {
				for c := 0; c < layout.Cols; c++ {
					tislog.Tick(logger, t, r, c, g.At(r, c).State().Mode.String())
				}
			}
		}
		if allBlocked(g, layout.Rows, layout.Cols) {
			fixedPoint = true
			break
		}
	}

	if fixedPoint {
		fmt.Println("fixed point reached")
		return nil
	}
	fmt.Println("no fixed point within tick budget")
	return nil
}

func allBlocked(g *grid.Grid, rows, cols int) bool {
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if g.At(r, c).State().Mode.Kind == cpu.ModeExec {
				return false
			}
		}
	}
	return true
}
