package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"recipebox/internal/domain/meal"
	"recipebox/internal/domain/recipe"
)

func newTagsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List tags (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := ctx.client().ListTags(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), namedValueTable(tags))
			return nil
		},
	}
}

func newCategoriesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := ctx.client().ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), namedValueTable(categories))
			return nil
		},
	}
}

func namedValueTable(values []recipe.NamedValue) string {
	rows := make([][]string, 0, len(values))
	for _, v := range values {
		rows = append(rows, []string{v.Name, v.ID})
	}
	return renderTable([]string{"Name", "ID"}, rows, nil)
}

func newMealsCommand(ctx *commandContext) *cobra.Command {
	mealsCmd := &cobra.Command{
		Use:   "meals",
		Short: "List meals and group recipes into them",
		RunE: func(cmd *cobra.Command, args []string) error {
			meals, err := ctx.client().ListMeals(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(meals))
			for _, m := range meals {
				rows = append(rows, []string{m.Title, m.Slug, strconv.Itoa(len(m.RecipeIDs))})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Title", "Slug", "Recipes"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}))
			return nil
		},
	}
	mealsCmd.AddCommand(newMealsAssignCommand(ctx))
	return mealsCmd
}

func newMealsAssignCommand(ctx *commandContext) *cobra.Command {
	var req meal.AssignRecipeRequest
	cmd := &cobra.Command{
		Use:   "assign <recipe-slug>",
		Short: "Add a recipe to an existing meal (--meal-id) or a new one (--title)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ctx.client().AssignRecipeToMeal(cmd.Context(), args[0], &req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now has %d recipe(s)\n", m.Title, len(m.RecipeIDs))
			return nil
		},
	}
	cmd.Flags().StringVar(&req.MealID, "meal-id", "", "Existing meal id")
	cmd.Flags().StringVar(&req.MealTitle, "title", "", "Title of a meal to create")
	cmd.Flags().StringVar(&req.MealDescription, "description", "", "Description of a meal to create")
	return cmd
}
