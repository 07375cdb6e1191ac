package recipe

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rohmanhakim/list-crawler/pkg/failure"
)

// PaginationType is a closed set. Dispatch over it is exhaustive so an
// unknown strategy tag fails at load time, never silently mid-crawl.
type PaginationType string

const (
	PaginationNext        PaginationType = "next"
	PaginationAllLinks    PaginationType = "all_links"
	PaginationURLTemplate PaginationType = "url_template"
)

// DefaultItemLinkCSS matches any anchor carrying an href, which is the
// item-link selector when a recipe does not name one.
const DefaultItemLinkCSS = "a[href]"

// Pagination is the tagged variant selecting one of the three pagination
// strategies. Only the fields belonging to the tagged type are consulted.
type Pagination struct {
	Type PaginationType `yaml:"type"`

	// type: next
	NextCSS string `yaml:"next_css"`

	// type: all_links
	PaginationScopeCSS string `yaml:"pagination_scope_css"`

	// type: url_template
	PageParam string `yaml:"page_param"`
	PageStart int    `yaml:"page_start"`
	PageEnd   int    `yaml:"page_end"`
}

// Limits bounds a run. A nil pointer means unbounded.
type Limits struct {
	MaxListPages *int `yaml:"max_list_pages"`
	MaxItems     *int `yaml:"max_items"`
}

// Output names the append-only record streams.
type Output struct {
	ItemsJSONL string `yaml:"items_jsonl"`
	PagesJSONL string `yaml:"pages_jsonl"`
}

// Recipe is the validated, immutable configuration for one list crawl.
// Construct it through Load or Parse; a zero Recipe is not usable.
type Recipe struct {
	StartURLs    []string    `yaml:"start_urls"`
	ListScopeCSS string      `yaml:"list_scope_css"`
	ItemLinkCSS  string      `yaml:"item_link_css"`
	Pagination   *Pagination `yaml:"pagination"`
	Limits       Limits      `yaml:"limits"`
	Output       Output      `yaml:"output"`
}

// Load reads and validates a recipe from a YAML file.
func Load(path string) (Recipe, failure.ClassifiedError) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Recipe{}, &RecipeError{
				Message: path,
				Cause:   ErrCauseFileDoesNotExist,
			}
		}
		return Recipe{}, &RecipeError{
			Message: err.Error(),
			Cause:   ErrCauseReadFailed,
		}
	}
	return Parse(data)
}

// Parse decodes a YAML recipe document, applies defaults, and validates
// every invariant the crawl loop depends on.
func Parse(data []byte) (Recipe, failure.ClassifiedError) {
	var r Recipe
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Recipe{}, &RecipeError{
			Message: err.Error(),
			Cause:   ErrCauseParseFailed,
		}
	}

	r.applyDefaults()
	if err := r.validate(); err != nil {
		return Recipe{}, err
	}
	return r, nil
}

func (r *Recipe) applyDefaults() {
	if r.ItemLinkCSS == "" {
		r.ItemLinkCSS = DefaultItemLinkCSS
	}
	if r.Output.ItemsJSONL == "" {
		r.Output.ItemsJSONL = "output/items.jsonl"
	}
	if r.Output.PagesJSONL == "" {
		r.Output.PagesJSONL = "output/list_pages.jsonl"
	}
}

func (r *Recipe) validate() failure.ClassifiedError {
	if len(r.StartURLs) == 0 {
		return &RecipeError{
			Message: "start_urls must be a non-empty list",
			Cause:   ErrCauseMissingField,
		}
	}
	for _, u := range r.StartURLs {
		if strings.TrimSpace(u) == "" {
			return &RecipeError{
				Message: "start_urls entries must be non-empty",
				Cause:   ErrCauseInvalidField,
			}
		}
	}

	if strings.TrimSpace(r.ListScopeCSS) == "" {
		return &RecipeError{
			Message: "list_scope_css must be a non-empty string",
			Cause:   ErrCauseMissingField,
		}
	}
	if strings.TrimSpace(r.ItemLinkCSS) == "" {
		return &RecipeError{
			Message: "item_link_css must be a non-empty string",
			Cause:   ErrCauseInvalidField,
		}
	}

	if r.Limits.MaxListPages != nil && *r.Limits.MaxListPages <= 0 {
		return &RecipeError{
			Message: "limits.max_list_pages must be a positive integer",
			Cause:   ErrCauseInvalidField,
		}
	}
	if r.Limits.MaxItems != nil && *r.Limits.MaxItems <= 0 {
		return &RecipeError{
			Message: "limits.max_items must be a positive integer",
			Cause:   ErrCauseInvalidField,
		}
	}

	if r.Pagination != nil {
		if err := r.Pagination.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pagination) validate() failure.ClassifiedError {
	switch p.Type {
	case PaginationNext:
		if strings.TrimSpace(p.NextCSS) == "" {
			return &RecipeError{
				Message: "pagination.next_css is required for type 'next'",
				Cause:   ErrCauseMissingField,
			}
		}
	case PaginationAllLinks:
		if strings.TrimSpace(p.PaginationScopeCSS) == "" {
			return &RecipeError{
				Message: "pagination.pagination_scope_css is required for type 'all_links'",
				Cause:   ErrCauseMissingField,
			}
		}
	case PaginationURLTemplate:
		if strings.TrimSpace(p.PageParam) == "" {
			return &RecipeError{
				Message: "pagination.page_param is required for type 'url_template'",
				Cause:   ErrCauseMissingField,
			}
		}
	case "":
		return &RecipeError{
			Message: "pagination.type is required",
			Cause:   ErrCauseMissingField,
		}
	default:
		return &RecipeError{
			Message: string(p.Type),
			Cause:   ErrCauseUnknownPagination,
		}
	}
	return nil
}

// Validate returns non-fatal warnings about a loaded recipe. A recipe
// with warnings still runs; they exist so operators can spot mistakes
// before a long crawl.
func (r Recipe) Validate() []string {
	var warnings []string

	for _, u := range r.StartURLs {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			warnings = append(warnings, fmt.Sprintf("URL may be invalid (missing http/https): %s", u))
		}
	}

	if r.Limits.MaxListPages != nil && *r.Limits.MaxListPages > 1000 {
		warnings = append(warnings, fmt.Sprintf("max_list_pages is very high: %d", *r.Limits.MaxListPages))
	}
	if r.Limits.MaxItems != nil && *r.Limits.MaxItems > 10000 {
		warnings = append(warnings, fmt.Sprintf("max_items is very high: %d", *r.Limits.MaxItems))
	}

	if r.Pagination == nil {
		warnings = append(warnings, "no pagination configured - will only crawl start_urls")
	} else if r.Pagination.Type == PaginationURLTemplate && r.Pagination.PageEnd < r.Pagination.PageStart {
		warnings = append(warnings, fmt.Sprintf(
			"url_template range [%d, %d] is empty - only start_urls will be visited",
			r.Pagination.PageStart, r.Pagination.PageEnd))
	}

	return warnings
}
