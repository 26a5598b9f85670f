package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/colonyops/docsync/internal/core/styles"
	"github.com/colonyops/docsync/internal/render"
	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// regex patterns, globs, styles, and file accessibility. The configPath argument
// specifies the config file location to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		criterio.Run("sync.comment_pattern", c.Sync.CommentPattern, validRegexp),
		criterio.Run("render.style", c.Render.Style, render.ValidateStyle),
		criterio.Run("preview.theme", c.Preview.Theme, knownTheme),
		c.validateRenderers(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Sync.Debounce > 0 && c.Sync.Debounce < 50*time.Millisecond {
		warnings = append(warnings, ValidationWarning{
			Category: "Sync",
			Item:     "debounce",
			Message:  fmt.Sprintf("%s is short enough to sync on nearly every keystroke", c.Sync.Debounce),
		})
	}

	if c.Sync.SearchRadius > c.Sync.TargetRadius {
		warnings = append(warnings, ValidationWarning{
			Category: "Sync",
			Item:     "search_radius",
			Message:  "search_radius is larger than target_radius; long documents may never match",
		})
	}

	if !c.Preview.FollowCursor && !c.Preview.SyncOnClick {
		warnings = append(warnings, ValidationWarning{
			Category: "Preview",
			Message:  "both follow_cursor and sync_on_click are disabled; the preview never syncs",
		})
	}

	seen := make(map[string]int)
	for i, rule := range c.Render.Renderers {
		if first, ok := seen[rule.Pattern]; ok {
			warnings = append(warnings, ValidationWarning{
				Category: "Renderers",
				Item:     fmt.Sprintf("renderer %d", i),
				Message:  fmt.Sprintf("pattern %q is shadowed by renderer %d", rule.Pattern, first),
			})
			continue
		}
		seen[rule.Pattern] = i
	}

	return warnings
}

// validateFileAccess checks the config file and log file locations.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("log.file", c.Log.File, logDirUsable),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

func knownTheme(name string) error {
	if styles.IsTheme(name) {
		return nil
	}
	return fmt.Errorf("unknown theme %q, expected one of %v", name, styles.ThemeNames())
}

func validRegexp(pattern string) error {
	if pattern == "" {
		return nil
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return fmt.Errorf("invalid regexp: %w", err)
	}
	return nil
}

// logDirUsable validates that the log file's directory is a directory or
// doesn't exist yet.
func logDirUsable(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	info, err = os.Stat(filepath.Dir(path))
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("parent exists but is not a directory")
	}
	return nil
}

func (c *Config) validateRenderers() error {
	var errs criterio.FieldErrorsBuilder

	for i, rule := range c.Render.Renderers {
		field := fmt.Sprintf("render.renderers[%d]", i)
		if err := render.ValidatePattern(rule.Pattern); err != nil {
			errs = errs.Append(field+".pattern", err)
		}
		if !rule.Kind.IsValid() {
			errs = errs.Append(field+".kind", fmt.Errorf("unknown kind %q, expected one of %v", rule.Kind, render.Kinds()))
		}
	}

	return errs.ToError()
}
