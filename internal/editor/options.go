package editor

import (
	"strings"

	"recipebox/internal/domain/recipe"
	"recipebox/internal/pkg/utils"
)

// SetTagOptions merges fetched tags with the already selected ones so a tag
// the server no longer lists stays choosable.
func (d *Draft) SetTagOptions(fetched []recipe.NamedValue) {
	d.TagOptions = mergeOptions(options(fetched), d.SelectedTags)
}

func (d *Draft) SetCategoryOptions(fetched []recipe.NamedValue) {
	d.CategoryOptions = mergeOptions(options(fetched), d.SelectedCategories)
}

func mergeOptions(fetched, selected []Option) []Option {
	out := append([]Option{}, fetched...)
	for _, s := range selected {
		if indexByName(out, s.Name) < 0 {
			out = append(out, s)
		}
	}
	return out
}

func indexByName(opts []Option, name string) int {
	key := utils.NormalizeName(name)
	for i, o := range opts {
		if utils.NormalizeName(o.Name) == key {
			return i
		}
	}
	return -1
}

func indexByID(opts []Option, id string) int {
	for i, o := range opts {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func selectOption(selected []Option, opt Option) []Option {
	if indexByName(selected, opt.Name) >= 0 {
		return selected
	}
	return append(selected, opt)
}

func removeByName(selected []Option, name string) []Option {
	key := utils.NormalizeName(name)
	out := make([]Option, 0, len(selected))
	for _, o := range selected {
		if utils.NormalizeName(o.Name) != key {
			out = append(out, o)
		}
	}
	return out
}

// createOption reuses an option with the same name (case-insensitive) or
// appends a new one, and returns the updated options plus the chosen option.
func (d *Draft) createOption(opts []Option, name string) ([]Option, Option, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return opts, Option{}, false
	}
	if i := indexByName(opts, name); i >= 0 {
		return opts, opts[i], true
	}
	opt := Option{ID: "new-" + d.newID(), Name: name}
	return append(opts, opt), opt, true
}

// SelectTag selects a known option by id. Unknown ids are ignored.
func (d *Draft) SelectTag(id string) {
	if i := indexByID(d.TagOptions, id); i >= 0 {
		d.SelectedTags = selectOption(d.SelectedTags, d.TagOptions[i])
	}
}

// ToggleTag flips the selection of the option with the given name.
func (d *Draft) ToggleTag(name string) {
	if indexByName(d.SelectedTags, name) >= 0 {
		d.RemoveTag(name)
		return
	}
	if i := indexByName(d.TagOptions, name); i >= 0 {
		d.SelectedTags = append(d.SelectedTags, d.TagOptions[i])
	}
}

func (d *Draft) RemoveTag(name string) {
	d.SelectedTags = removeByName(d.SelectedTags, name)
}

func (d *Draft) CreateTag(name string) {
	opts, opt, ok := d.createOption(d.TagOptions, name)
	if !ok {
		return
	}
	d.TagOptions = opts
	d.SelectedTags = selectOption(d.SelectedTags, opt)
}

func (d *Draft) SelectCategory(id string) {
	if i := indexByID(d.CategoryOptions, id); i >= 0 {
		d.SelectedCategories = selectOption(d.SelectedCategories, d.CategoryOptions[i])
	}
}

func (d *Draft) ToggleCategory(name string) {
	if indexByName(d.SelectedCategories, name) >= 0 {
		d.RemoveCategory(name)
		return
	}
	if i := indexByName(d.CategoryOptions, name); i >= 0 {
		d.SelectedCategories = append(d.SelectedCategories, d.CategoryOptions[i])
	}
}

func (d *Draft) RemoveCategory(name string) {
	d.SelectedCategories = removeByName(d.SelectedCategories, name)
}

func (d *Draft) CreateCategory(name string) {
	opts, opt, ok := d.createOption(d.CategoryOptions, name)
	if !ok {
		return
	}
	d.CategoryOptions = opts
	d.SelectedCategories = selectOption(d.SelectedCategories, opt)
}

func (d *Draft) FilterTagOptions(term string) []Option {
	return filterOptions(d.TagOptions, term)
}

func (d *Draft) FilterCategoryOptions(term string) []Option {
	return filterOptions(d.CategoryOptions, term)
}

func filterOptions(opts []Option, term string) []Option {
	key := utils.NormalizeName(term)
	if key == "" {
		return opts
	}
	var out []Option
	for _, o := range opts {
		if strings.Contains(utils.NormalizeName(o.Name), key) {
			out = append(out, o)
		}
	}
	return out
}
