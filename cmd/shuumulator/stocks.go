package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStocksCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stocks",
		Short: "Manage watched stocks",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List watched stocks",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			stocks, err := a.repo.ListStocks(cmd.Context())
			if err != nil {
				return err
			}
			for _, s := range stocks {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", s.ID, s.Code, s.Name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add CODE NAME",
		Short: "Watch a stock, or rename it if the code already exists",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			stock, err := a.repo.AddStock(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", stock.ID, stock.Code, stock.Name)
			return nil
		},
	})

	return cmd
}
