package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	var configPath string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "lifeos",
		Short:         "lifeos - household tasks, assets, people and shopping",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "directory containing config.yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log store activity")

	env := func() appEnv { return appEnv{configPath: configPath, verbose: verbose} }

	rootCmd.AddCommand(tasksCmd(env))
	rootCmd.AddCommand(addTaskCmd(env))
	rootCmd.AddCommand(completeCmd(env))
	rootCmd.AddCommand(costCmd(env))
	rootCmd.AddCommand(notificationsCmd(env))
	rootCmd.AddCommand(usageCmd(env))
	rootCmd.AddCommand(statsCmd(env))
	rootCmd.AddCommand(receiptCmd(env))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
