package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/georgemunganga/catalog-admin/internal/modules/product"
)

func productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse products on the remote catalog",
	}

	cmd.AddCommand(listProductsCmd())
	cmd.AddCommand(getProductCmd())
	cmd.AddCommand(deleteProductCmd())
	return cmd
}

func listProductsCmd() *cobra.Command {
	var q product.ListQuery

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of products, optionally filtered",
		Long: `List one page of products. --category takes precedence over --search;
a search of the form "category:<slug>" is treated as a category filter.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := appFrom(cmd).Products.ListProducts(cmd.Context(), q)
			if err != nil {
				return err
			}
			if wantJSON(cmd) {
				return printJSON(cmd.OutOrStdout(), res)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "ID\tTITLE\tCATEGORY\tPRICE\n")
			for _, p := range res.Products {
				fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\n", p.ID, p.Title, p.Category, p.Price)
			}
			fmt.Fprintf(w, "\npage %d, %d products total\n", res.Page, res.Total)
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&q.Page, "page", 1, "1-based page number")
	cmd.Flags().IntVar(&q.PageSize, "limit", 0, "page size (default from PAGE_SIZE)")
	cmd.Flags().StringVar(&q.Search, "search", "", "free-text search")
	cmd.Flags().StringVar(&q.Category, "category", "", "category slug")
	return cmd
}

func getProductCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			p, err := appFrom(cmd).Products.GetProduct(cmd.Context(), id)
			if err != nil {
				return err
			}
			if wantJSON(cmd) {
				return printJSON(cmd.OutOrStdout(), p)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%.2f\n", p.ID, p.Title, p.Category, p.Price)
			return nil
		},
	}
}

func deleteProductCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product upstream (missing ids are ignored)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			if err := appFrom(cmd).Products.DeleteProduct(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", id)
			return nil
		},
	}
}
