package options

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/pflag"
)

// TodoistOptions configures the Todoist REST client.
type TodoistOptions struct {
	APIKey   string        `json:"-"         mapstructure:"api-key"`
	BaseURL  string        `json:"base-url"  mapstructure:"base-url"`
	PageSize int           `json:"page-size" mapstructure:"page-size"`
	Timeout  time.Duration `json:"timeout"   mapstructure:"timeout"`
}

func NewTodoistOptions() *TodoistOptions {
	return &TodoistOptions{
		BaseURL:  "https://api.todoist.com",
		PageSize: 50,
		Timeout:  30 * time.Second,
	}
}

func (o *TodoistOptions) Validate() []error {
	var errs []error
	if u, err := url.Parse(o.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("todoist.base-url %q is not an absolute URL", o.BaseURL))
	}
	if o.PageSize < 1 || o.PageSize > 200 {
		errs = append(errs, fmt.Errorf("todoist.page-size must be between 1 and 200, got %d", o.PageSize))
	}
	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("todoist.timeout must be positive"))
	}
	return errs
}

func (o *TodoistOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.BaseURL, "todoist.base-url", o.BaseURL, "Todoist API base URL.")
	fs.IntVar(&o.PageSize, "todoist.page-size", o.PageSize, "Tasks fetched per page.")
	fs.DurationVar(&o.Timeout, "todoist.timeout", o.Timeout, "Timeout of a single Todoist request.")
}
