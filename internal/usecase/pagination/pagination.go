// Package pagination implements the two paging strategies of a browse
// session: a growing reveal window over a locally held list (client mode)
// and 1-based page numbers delegated to the data source (server mode).
// The mode is fixed when the controller is created.
package pagination

import "fmt"

// Mode selects the paging strategy.
type Mode string

// Pagination modes.
const (
	ModeClient Mode = "client"
	ModeServer Mode = "server"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool { return m == ModeClient || m == ModeServer }

// Defaults.
const (
	DefaultInitialCount = 24
	DefaultStep         = 24
	DefaultPageSize     = 20
	DefaultMaxPageSize  = 100
)

// Config holds controller settings. Zero values take the defaults.
type Config struct {
	Mode         Mode
	InitialCount int
	Step         int
	PageSize     int
	MaxPageSize  int
}

// State is a value snapshot of the controller.
type State struct {
	Mode        Mode `json:"mode"`
	RevealCount int  `json:"reveal_count,omitempty"`
	Page        int  `json:"page,omitempty"`
	PageSize    int  `json:"page_size,omitempty"`
}

// Controller tracks the reveal window or current page.
type Controller struct {
	mode         Mode
	initialCount int
	step         int
	revealCount  int
	page         int
	pageSize     int
}

// New validates the config and creates a Controller.
func New(cfg Config) (*Controller, error) {
	if cfg.Mode == "" {
		cfg.Mode = ModeClient
	}
	if !cfg.Mode.IsValid() {
		return nil, fmt.Errorf("invalid pagination mode %q", cfg.Mode)
	}
	if cfg.InitialCount <= 0 {
		cfg.InitialCount = DefaultInitialCount
	}
	if cfg.Step <= 0 {
		cfg.Step = DefaultStep
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = DefaultMaxPageSize
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.PageSize > cfg.MaxPageSize {
		cfg.PageSize = cfg.MaxPageSize
	}
	return &Controller{
		mode:         cfg.Mode,
		initialCount: cfg.InitialCount,
		step:         cfg.Step,
		revealCount:  cfg.InitialCount,
		page:         1,
		pageSize:     cfg.PageSize,
	}, nil
}

// Mode returns the fixed paging strategy.
func (c *Controller) Mode() Mode { return c.mode }

// ResetWindow restarts paging after the filter changed: the reveal window
// shrinks back to the initial count and the page returns to 1.
func (c *Controller) ResetWindow() {
	c.revealCount = c.initialCount
	c.page = 1
}

// RevealMore grows the client window by one step, capped at available
// (the filtered length). Calls at the cap are no-ops. Reports whether the
// window grew. Server mode never reveals.
func (c *Controller) RevealMore(available int) bool {
	if c.mode != ModeClient {
		return false
	}
	if c.revealCount >= available {
		return false
	}
	c.revealCount = min(c.revealCount+c.step, available)
	return true
}

// Window returns how many of available items are visible in client mode.
func (c *Controller) Window(available int) int {
	return min(c.revealCount, available)
}

// RevealCount returns the raw reveal window size.
func (c *Controller) RevealCount() int { return c.revealCount }

// Page returns the current 1-based page.
func (c *Controller) Page() int { return c.page }

// PageSize returns the server page size.
func (c *Controller) PageSize() int { return c.pageSize }

// SetPage moves to page p in server mode. Reports whether the page changed.
func (c *Controller) SetPage(p int) (bool, error) {
	if c.mode != ModeServer {
		return false, fmt.Errorf("set page in %s mode", c.mode)
	}
	if p < 1 {
		return false, fmt.Errorf("page must be >= 1, got %d", p)
	}
	if p == c.page {
		return false, nil
	}
	c.page = p
	return true, nil
}

// HasMore reports whether more items exist beyond what is shown.
// In client mode n is the filtered length; in server mode it is the total.
func (c *Controller) HasMore(n int) bool {
	if c.mode == ModeClient {
		return c.revealCount < n
	}
	if n < 0 {
		return false
	}
	return c.page*c.pageSize < n
}

// State returns a value snapshot.
func (c *Controller) State() State {
	if c.mode == ModeClient {
		return State{Mode: c.mode, RevealCount: c.revealCount}
	}
	return State{Mode: c.mode, Page: c.page, PageSize: c.pageSize}
}
