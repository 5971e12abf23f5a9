package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"recipebox/internal/client"
	"recipebox/internal/domain/shoppinglist"
)

func newShoppingCommand(ctx *commandContext) *cobra.Command {
	shoppingCmd := &cobra.Command{
		Use:     "shopping",
		Aliases: []string{"shop"},
		Short:   "Manage your shopping list (requires --token)",
	}
	shoppingCmd.AddCommand(newShoppingListCommand(ctx))
	shoppingCmd.AddCommand(newShoppingAddCommand(ctx))
	shoppingCmd.AddCommand(newShoppingToggleCommand(ctx))
	shoppingCmd.AddCommand(newShoppingRemoveCommand(ctx))
	shoppingCmd.AddCommand(newShoppingClearCommand(ctx))
	return shoppingCmd
}

// loadList fetches the list before any change so items can be addressed by
// their displayed number.
func loadList(cmd *cobra.Command, ctx *commandContext) (*client.ShoppingList, error) {
	list := client.NewShoppingList(ctx.client())
	if err := list.Load(cmd.Context()); err != nil {
		return nil, err
	}
	return list, nil
}

func newShoppingListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the shopping list",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := loadList(cmd, ctx)
			if err != nil {
				return err
			}
			printShoppingList(cmd.OutOrStdout(), list)
			return nil
		},
	}
}

func printShoppingList(out io.Writer, list *client.ShoppingList) {
	items := list.Items()
	if len(items) == 0 {
		fmt.Fprintln(out, "Your shopping list is empty.")
		return
	}
	rows := make([][]string, 0, len(items))
	for i, it := range items {
		mark := "[ ]"
		if it.IsChecked {
			mark = "[x]"
		}
		from := ""
		if it.RecipeTitle != nil {
			from = *it.RecipeTitle
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), mark, it.IngredientText, from})
	}
	fmt.Fprintln(out, renderTable([]string{"#", "", "Item", "Recipe"}, rows, []columnAlignment{alignRight}))
	fmt.Fprintf(out, "%d of %d checked\n", list.CheckedCount(), len(items))
}

func newShoppingAddCommand(ctx *commandContext) *cobra.Command {
	var recipeID, recipeTitle string
	cmd := &cobra.Command{
		Use:   "add <text>...",
		Short: "Add an item",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := shoppinglist.AddItemInput{IngredientText: strings.Join(args, " ")}
			if recipeID != "" {
				in.RecipeID = &recipeID
			}
			if recipeTitle != "" {
				in.RecipeTitle = &recipeTitle
			}
			item, err := client.NewShoppingList(ctx.client()).Add(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q\n", item.IngredientText)
			return nil
		},
	}
	cmd.Flags().StringVar(&recipeID, "recipe-id", "", "Recipe the item came from")
	cmd.Flags().StringVar(&recipeTitle, "recipe-title", "", "Title of the recipe the item came from")
	return cmd
}

// resolveItem accepts either a displayed number or an item id.
func resolveItem(list *client.ShoppingList, ref string) (shoppinglist.Item, error) {
	items := list.Items()
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(items) {
			return shoppinglist.Item{}, fmt.Errorf("no item #%d on the list", n)
		}
		return items[n-1], nil
	}
	for _, it := range items {
		if it.ID == ref {
			return it, nil
		}
	}
	return shoppinglist.Item{}, shoppinglist.ErrItemNotFound
}

func newShoppingToggleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <number|id>",
		Short: "Check or uncheck an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := loadList(cmd, ctx)
			if err != nil {
				return err
			}
			item, err := resolveItem(list, args[0])
			if err != nil {
				return err
			}
			if err := list.Toggle(cmd.Context(), item.ID); err != nil {
				return err
			}
			printShoppingList(cmd.OutOrStdout(), list)
			return nil
		},
	}
}

func newShoppingRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <number|id>",
		Aliases: []string{"remove"},
		Short:   "Remove an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := loadList(cmd, ctx)
			if err != nil {
				return err
			}
			item, err := resolveItem(list, args[0])
			if err != nil {
				return err
			}
			if err := list.Remove(cmd.Context(), item.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %q\n", item.IngredientText)
			return nil
		},
	}
}

func newShoppingClearCommand(ctx *commandContext) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every item",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := loadList(cmd, ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !yes && len(list.Items()) > 0 {
				fmt.Fprintln(out, "Refusing to clear without --yes.")
				return nil
			}
			sent, err := list.Clear(cmd.Context(), yes)
			if err != nil {
				return err
			}
			if !sent {
				fmt.Fprintln(out, "Your shopping list is already empty.")
				return nil
			}
			fmt.Fprintln(out, "Shopping list cleared.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm clearing the list")
	return cmd
}
