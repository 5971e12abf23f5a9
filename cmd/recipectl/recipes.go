package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"recipebox/internal/domain/recipe"
	"recipebox/internal/editor"
)

func newRecipesCommand(ctx *commandContext) *cobra.Command {
	recipesCmd := &cobra.Command{
		Use:   "recipes",
		Short: "Browse and author recipes",
	}
	recipesCmd.AddCommand(newRecipesListCommand(ctx))
	recipesCmd.AddCommand(newRecipesShowCommand(ctx))
	recipesCmd.AddCommand(newRecipesCreateCommand(ctx))
	recipesCmd.AddCommand(newRecipesPublishCommand(ctx))
	return recipesCmd
}

func newRecipesListCommand(ctx *commandContext) *cobra.Command {
	var query string
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List published recipes (or every recipe with --all)",
		RunE: func(cmd *cobra.Command, args []string) error {
			api := ctx.client()
			var (
				list []recipe.RecipeSummary
				err  error
			)
			if all {
				list, err = api.ListAllRecipes(cmd.Context())
			} else {
				list, err = api.ListRecipes(cmd.Context(), query)
			}
			if err != nil {
				return err
			}
			printRecipeList(cmd.OutOrStdout(), list)
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Case-insensitive title filter")
	cmd.Flags().BoolVar(&all, "all", false, "Include drafts (admin)")
	return cmd
}

func printRecipeList(out io.Writer, list []recipe.RecipeSummary) {
	if len(list) == 0 {
		fmt.Fprintln(out, "No recipes found.")
		return
	}
	rows := make([][]string, 0, len(list))
	for _, r := range list {
		rows = append(rows, []string{r.Title, r.Slug, string(r.Status), namesOf(r.Tags)})
	}
	fmt.Fprintln(out, renderTable([]string{"Title", "Slug", "Status", "Tags"}, rows, nil))
}

func newRecipesShowCommand(ctx *commandContext) *cobra.Command {
	var servings string
	cmd := &cobra.Command{
		Use:   "show <slug>",
		Short: "Show a published recipe, optionally scaled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := ctx.client().GetRecipe(cmd.Context(), args[0], servings)
			if err != nil {
				return err
			}
			printRecipeDetail(cmd.OutOrStdout(), detail)
			return nil
		},
	}
	cmd.Flags().StringVar(&servings, "servings", "", "Scale ingredient quantities to this many servings")
	return cmd
}

func printRecipeDetail(out io.Writer, d *recipe.DetailView) {
	fmt.Fprintln(out, d.Title)
	if d.Description != nil && *d.Description != "" {
		fmt.Fprintln(out, *d.Description)
	}
	if d.Servings.Display != nil {
		fmt.Fprintf(out, "Servings: %s\n", *d.Servings.Display)
	}
	if len(d.Tags) > 0 {
		fmt.Fprintf(out, "Tags: %s\n", namesOf(d.Tags))
	}
	if len(d.Categories) > 0 {
		fmt.Fprintf(out, "Categories: %s\n", namesOf(d.Categories))
	}

	rows := make([][]string, 0, len(d.Ingredients))
	for _, ing := range d.Ingredients {
		optional := ""
		if ing.IsOptional {
			optional = "optional"
		}
		rows = append(rows, []string{strconv.Itoa(ing.Position), ing.Label, optional})
	}
	fmt.Fprintln(out, renderTable([]string{"#", "Ingredient", ""}, rows, []columnAlignment{alignRight}))

	for _, st := range d.Steps {
		fmt.Fprintf(out, "%d. %s\n", st.Position, st.Content)
		if len(st.Ingredients) > 0 {
			fmt.Fprintf(out, "   uses: %s\n", strings.Join(st.Ingredients, ", "))
		}
	}
}

type createOptions struct {
	title       string
	description string
	prep        string
	cook        string
	servings    string
	ingredients []string
	steps       []string
	tags        []string
	categories  []string
	publish     bool
}

func newRecipesCreateCommand(ctx *commandContext) *cobra.Command {
	var opts createOptions
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a recipe from flags",
		Long: `Create a recipe from flags.

Ingredients are written "qty|unit|text" (or "qty|text", or just "text").
Steps are written "content" or "content|1,3" where the numbers are the
1-based positions of the ingredients the step uses.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			api := ctx.client()
			d, err := buildDraft(opts)
			if err != nil {
				return err
			}

			if len(opts.tags) > 0 {
				tags, err := api.ListTags(cmd.Context())
				if err != nil {
					return err
				}
				d.SetTagOptions(tags)
			}
			if len(opts.categories) > 0 {
				categories, err := api.ListCategories(cmd.Context())
				if err != nil {
					return err
				}
				d.SetCategoryOptions(categories)
			}
			for _, name := range opts.tags {
				d.CreateTag(name)
			}
			for _, name := range opts.categories {
				d.CreateCategory(name)
			}

			status := recipe.StatusDraft
			if opts.publish {
				status = recipe.StatusPublished
			}
			if _, err := d.Save(cmd.Context(), api, status); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", d.Notice, d.Slug)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.title, "title", "", "Recipe title")
	cmd.Flags().StringVar(&opts.description, "description", "", "Short description")
	cmd.Flags().StringVar(&opts.prep, "prep", "", "Prep minutes")
	cmd.Flags().StringVar(&opts.cook, "cook", "", "Cook minutes")
	cmd.Flags().StringVar(&opts.servings, "servings", "", "Base servings")
	cmd.Flags().StringArrayVar(&opts.ingredients, "ingredient", nil, `Ingredient "qty|unit|text" (repeatable)`)
	cmd.Flags().StringArrayVar(&opts.steps, "step", nil, `Step "content|positions" (repeatable)`)
	cmd.Flags().StringArrayVar(&opts.tags, "tag", nil, "Tag name (repeatable)")
	cmd.Flags().StringArrayVar(&opts.categories, "category", nil, "Category name (repeatable)")
	cmd.Flags().BoolVar(&opts.publish, "publish", false, "Publish instead of saving as draft")
	return cmd
}

// buildDraft fills a blank draft the way the form would be filled in.
func buildDraft(opts createOptions) (*editor.Draft, error) {
	d := editor.NewDraft()
	d.Title = opts.title
	d.Description = opts.description
	d.PrepMinutes = opts.prep
	d.CookMinutes = opts.cook
	d.Servings = opts.servings

	ingredientIDs := make([]string, 0, len(opts.ingredients))
	for i, raw := range opts.ingredients {
		id := d.Ingredients[0].ID
		if i > 0 {
			id = d.AddIngredient()
		}
		qty, unit, text := parseIngredientFlag(raw)
		d.UpdateIngredient(id, func(ing *editor.Ingredient) {
			ing.Quantity = qty
			ing.Unit = unit
			ing.Text = text
		})
		ingredientIDs = append(ingredientIDs, id)
	}

	for i, raw := range opts.steps {
		id := d.Steps[0].ID
		if i > 0 {
			id = d.AddStep()
		}
		content, positions, err := parseStepFlag(raw)
		if err != nil {
			return nil, err
		}
		d.UpdateStep(id, content)
		for _, pos := range positions {
			if pos < 1 || pos > len(ingredientIDs) {
				return nil, fmt.Errorf("step %d references ingredient %d, which does not exist", i+1, pos)
			}
			d.ToggleIngredientStep(ingredientIDs[pos-1], id)
		}
	}
	return d, nil
}

func parseIngredientFlag(raw string) (qty, unit, text string) {
	parts := strings.SplitN(raw, "|", 3)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	switch len(parts) {
	case 3:
		return parts[0], parts[1], parts[2]
	case 2:
		return parts[0], "", parts[1]
	default:
		return "", "", parts[0]
	}
}

func parseStepFlag(raw string) (string, []int, error) {
	content, list, found := strings.Cut(raw, "|")
	content = strings.TrimSpace(content)
	if !found || strings.TrimSpace(list) == "" {
		return content, nil, nil
	}
	var positions []int
	for _, field := range strings.Split(list, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return "", nil, fmt.Errorf("invalid ingredient position %q in step %q", field, content)
		}
		positions = append(positions, n)
	}
	return content, positions, nil
}

func newRecipesPublishCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <slug>",
		Short: "Publish a draft recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api := ctx.client()
			view, err := api.GetRecipeForEdit(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			d := editor.FromEditView(view)
			if _, err := d.Save(cmd.Context(), api, recipe.StatusPublished); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", d.Notice, d.Slug)
			return nil
		},
	}
}

func namesOf(values []recipe.NamedValue) string {
	names := make([]string, 0, len(values))
	for _, v := range values {
		names = append(names, v.Name)
	}
	return strings.Join(names, ", ")
}
