package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/manifoldco/promptui"

	"github.com/ziadkadry99/petitionmap/internal/petition"
)

// geometryCandidates are places a constituency grid is commonly kept.
var geometryCandidates = []string{
	DefaultGeometryPath,
	"constituencies.hexjson",
	"data/uk-constituencies-2019.hexjson",
}

// detectGeometry returns the first existing grid file, or the default path.
func detectGeometry() string {
	for _, p := range geometryCandidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return DefaultGeometryPath
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to petitionmap! Let's configure your map.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Geometry.
	geoPrompt := promptui.Prompt{
		Label:   "Constituency hexjson (file path or URL)",
		Default: detectGeometry(),
	}
	geo, err := geoPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("geometry path: %w", err)
	}
	cfg.GeometryPath = strings.TrimSpace(geo)

	// 2. Default petition.
	petitionPrompt := promptui.Prompt{
		Label:   "Default petition id",
		Default: petition.DefaultID,
		Validate: func(s string) error {
			if !petition.ValidID(strings.TrimSpace(s)) {
				return fmt.Errorf("petition id must be numeric")
			}
			return nil
		},
	}
	id, err := petitionPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("default petition: %w", err)
	}
	cfg.DefaultPetition = strings.TrimSpace(id)

	// 3. Bar count.
	sizePrompt := promptui.Prompt{
		Label:   "Constituencies in the bar chart",
		Default: strconv.Itoa(cfg.SelectionSize),
		Validate: func(s string) error {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil || n <= 0 {
				return fmt.Errorf("enter a positive number")
			}
			return nil
		},
	}
	sizeStr, err := sizePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("selection size: %w", err)
	}
	cfg.SelectionSize, _ = strconv.Atoi(strings.TrimSpace(sizeStr))

	// 4. Live refresh.
	refreshPrompt := promptui.Select{
		Label: "Refresh petition data while serving",
		Items: []string{
			"off",
			"every minute",
			"every 5 minutes",
			"every 15 minutes",
		},
	}
	refreshIdx, _, err := refreshPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("refresh selection: %w", err)
	}
	intervals := []time.Duration{0, time.Minute, 5 * time.Minute, 15 * time.Minute}
	if refreshIdx > 0 {
		cfg.Refresh.Enabled = true
		cfg.Refresh.Interval = intervals[refreshIdx]
	}

	// 5. History.
	historyPrompt := promptui.Select{
		Label: "Record signature history in sqlite",
		Items: []string{"no", "yes"},
	}
	historyIdx, _, err := historyPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("history selection: %w", err)
	}
	cfg.History.Enabled = historyIdx == 1

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if _, err := os.Stat(cfg.GeometryPath); err != nil && !isURL(cfg.GeometryPath) {
		fmt.Printf("\nNote: %s does not exist yet; download a constituency hexjson before running petitionmap serve.\n", cfg.GeometryPath)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
