package initcmd

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/huh"

	"github.com/colonyops/docsync/internal/core/config"
	themes "github.com/colonyops/docsync/internal/core/styles"
	"github.com/colonyops/docsync/internal/printer"
	"github.com/colonyops/docsync/pkg/logutils"
)

// WizardOptions configures the wizard behavior.
type WizardOptions struct {
	ConfigPath string
	Yes        bool // skip prompts, use defaults
	Force      bool // overwrite existing config
}

// Wizard orchestrates the init process.
type Wizard struct {
	opts WizardOptions
}

// NewWizard creates a new init wizard.
func NewWizard(opts WizardOptions) *Wizard {
	return &Wizard{opts: opts}
}

// Run executes the wizard.
func (w *Wizard) Run(ctx context.Context) error {
	p := printer.Ctx(ctx)

	// Check for existing config
	if ConfigExists(w.opts.ConfigPath) && !w.opts.Force {
		if w.opts.Yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", w.opts.ConfigPath)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(w.opts.ConfigPath + "\nOverwrite? (a backup will be created)").
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			p.Infof("Init cancelled")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	cfg.Log.File = logutils.DefaultFile()
	if !w.opts.Yes {
		if err := w.promptUser(cfg); err != nil {
			return err
		}
	}

	// Backup existing config if needed
	if ConfigExists(w.opts.ConfigPath) {
		backupPath, err := BackupConfig(w.opts.ConfigPath)
		if err != nil {
			return fmt.Errorf("backup config: %w", err)
		}
		if backupPath != "" {
			p.Successf("Backed up config to: %s", backupPath)
		}
	}

	if err := WriteConfig(cfg, w.opts.ConfigPath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	p.Successf("Created config: %s", w.opts.ConfigPath)

	if err := cfg.ValidateDeep(w.opts.ConfigPath); err != nil {
		p.Warnf("Config written but does not validate: %v", err)
	}

	p.Printf("")
	p.Section("Next Steps")
	p.Printf("  1. Run 'docsync preview README.md' to open a live preview")
	p.Printf("  2. Run 'docsync config validate' after editing %s", filepath.Base(w.opts.ConfigPath))
	return nil
}

func (w *Wizard) promptUser(cfg *config.Config) error {
	debounce := cfg.Sync.Debounce.String()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Theme").
				Description("Colors for the preview panes").
				Options(huh.NewOptions(themes.ThemeNames()...)...).
				Value(&cfg.Preview.Theme),
			huh.NewSelect[string]().
				Title("Markdown style").
				Description("Glamour style used to render markdown").
				Options(huh.NewOptions(StyleNames()...)...).
				Value(&cfg.Render.Style),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Sync delay").
				Description("Pause after the cursor stops before the preview follows").
				Value(&debounce).
				Validate(func(s string) error {
					_, err := time.ParseDuration(s)
					return err
				}),
			huh.NewConfirm().
				Title("Follow the cursor?").
				Description("Scroll the preview to the cursor position").
				Value(&cfg.Preview.FollowCursor),
			huh.NewConfirm().
				Title("Sync on click?").
				Description("Clicking the preview moves the cursor").
				Value(&cfg.Preview.SyncOnClick),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	d, err := time.ParseDuration(debounce)
	if err != nil {
		return fmt.Errorf("sync delay: %w", err)
	}
	cfg.Sync.Debounce = d
	return nil
}

// StyleNames returns the built-in glamour style names, sorted.
func StyleNames() []string {
	names := make([]string, 0, len(styles.DefaultStyles))
	for name := range styles.DefaultStyles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// WriteConfig marshals cfg to path, creating parent directories.
func WriteConfig(cfg *config.Config, path string) error {
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	return writeAtomic(path, data, 0o644)
}
