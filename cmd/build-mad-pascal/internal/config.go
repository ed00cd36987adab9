package internal

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goplus/build-mad-pascal/pkgs/buildsys/madpascal"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the configuration options and their effective values",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", store.Path())
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tTYPE\tDEFAULT\tVALUE\tTITLE")
	for _, opt := range madpascal.Schema(targetGOOS).Ordered() {
		key := madpascal.Namespace + "." + opt.Name
		value := "-"
		if v, ok := store.Get(key); ok {
			value = fmt.Sprintf("%q", fmt.Sprint(v))
		}
		fmt.Fprintf(w, "%s\t%s\t%q\t%s\t%s\n", key, opt.Type, fmt.Sprint(opt.Default), value, opt.Title)
	}
	return w.Flush()
}
