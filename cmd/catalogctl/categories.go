package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/georgemunganga/catalog-admin/internal/modules/category"
	"github.com/georgemunganga/catalog-admin/internal/pagination"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage locally stored categories",
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(getCategoryCmd())
	cmd.AddCommand(createCategoryCmd())
	cmd.AddCommand(renameCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())
	cmd.AddCommand(seedCategoriesCmd())
	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var limit, skip int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories, seeding the store on first use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := appFrom(cmd).Categories.List(cmd.Context(), pagination.Page{Limit: limit, Skip: skip})
			if err != nil {
				return err
			}
			if wantJSON(cmd) {
				return printJSON(cmd.OutOrStdout(), res)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "ID\tNAME\tSLUG\n")
			for _, c := range res.Categories {
				fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, c.Name, c.Slug)
			}
			fmt.Fprintf(w, "\nshowing %d of %d\n", len(res.Categories), res.Total)
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", pagination.DefaultLimit, "page size")
	cmd.Flags().IntVar(&skip, "skip", 0, "number of categories to skip")
	return cmd
}

func getCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := appFrom(cmd).Categories.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printCategory(cmd, c)
		},
	}
}

func createCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a category; the slug is derived from the name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := appFrom(cmd).Categories.Create(cmd.Context(), category.CategoryInput{
				Name: strings.Join(args, " "),
			})
			if err != nil {
				return err
			}
			return printCategory(cmd, c)
		},
	}
}

func renameCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a category and recompute its slug",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args[1:], " ")
			c, err := appFrom(cmd).Categories.Update(cmd.Context(), args[0], category.CategoryPatch{Name: &name})
			if err != nil {
				return err
			}
			return printCategory(cmd, c)
		},
	}
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category (missing ids are ignored)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appFrom(cmd).Categories.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func seedCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed an empty store from the remote category list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			seeded, err := appFrom(cmd).Categories.Seed(cmd.Context())
			if err != nil {
				return err
			}
			if seeded {
				fmt.Fprintln(cmd.OutOrStdout(), "store seeded")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "store already initialized")
			}
			return nil
		},
	}
}

func printCategory(cmd *cobra.Command, c *category.Category) error {
	if wantJSON(cmd) {
		return printJSON(cmd.OutOrStdout(), c)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", c.ID, c.Name, c.Slug)
	return nil
}
