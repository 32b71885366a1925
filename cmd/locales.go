package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/reflectapp/internal/i18n"
)

var localesCmd = &cobra.Command{
	Use:   "locales",
	Short: "List the available conversation languages",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		if file == "" {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			file = cfg.LocalesFile
		}

		catalog, err := i18n.Load(file)
		if err != nil {
			return fmt.Errorf("load locales: %w", err)
		}

		fmt.Printf("%-6s  %-12s  %s\n", "Code", "Name", "Intro messages")
		fmt.Println(strings.Repeat("─", 40))
		for _, l := range catalog.Locales() {
			s := catalog.Get(l)
			fmt.Printf("%-6s  %-12s  %d\n", l, s.Name, len(s.Intro))
		}
		return nil
	},
}

func init() {
	localesCmd.Flags().String("file", "", "Override catalog to merge (default REFLECT_LOCALES_FILE)")
}
