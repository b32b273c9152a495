package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/petitionmap/internal/hexjson"
	"github.com/ziadkadry99/petitionmap/internal/petition"
	"github.com/ziadkadry99/petitionmap/internal/progress"
	"github.com/ziadkadry99/petitionmap/internal/ranking"
	"github.com/ziadkadry99/petitionmap/internal/scene"
)

var (
	renderPetition  string
	renderPattern   string
	renderOut       string
	renderBars      string
	renderOutDir    string
	renderWidth     float64
	renderHeight    float64
	renderHighlight []string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render petition maps to SVG files",
	Long: `Renders the hexmap (and optionally the bar chart) for one live petition,
or for a batch of saved petition JSON documents matched by a glob such as
'saved/**/*.json'.`,
	Example: `  petitionmap render --petition 241584 --out map.svg --bars bars.svg
  petitionmap render --petitions 'saved/**/*.json' --out-dir maps`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		vp := viewport(cfg)
		if renderWidth > 0 {
			vp.Width = renderWidth
		}
		if renderHeight > 0 {
			vp.Height = renderHeight
		}
		opts := rankingOptions(cfg)
		src := newSource(cfg)
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		if renderPattern != "" {
			geo, err := src.Geometry(ctx)
			if err != nil {
				return fmt.Errorf("loading geometry: %w", err)
			}
			n, err := renderBatch(geo, renderPattern, renderOutDir, vp, opts, progress.NewReporter())
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Rendered %d map(s) to %s\n", n, renderOutDir)
			return nil
		}

		id := renderPetition
		if id == "" {
			id = cfg.DefaultPetition
		}
		if !petition.ValidID(id) {
			return fmt.Errorf("%w: %q", petition.ErrInvalidID, id)
		}
		geo, err := src.Geometry(ctx)
		if err != nil {
			return fmt.Errorf("loading geometry: %w", err)
		}
		p, err := src.Petition(ctx, id)
		if err != nil {
			return err
		}
		sc, err := scene.Build(geo, p.Records(), vp, opts)
		if err != nil {
			return err
		}
		for _, code := range renderHighlight {
			sc.Highlight(code)
		}
		if err := writeScene(sc, renderOut, renderBars); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Rendered petition %s (%s) to %s\n", id, p.Data.Attributes.Action, renderOut)
		return nil
	},
}

// renderBatch renders every saved petition matching pattern into outDir as
// <name>.svg and <name>.bars.svg, keeping each file's directory relative to
// the glob base so equal names in different folders do not collide. It
// returns the number of maps written.
func renderBatch(geo *hexjson.Geometry, pattern, outDir string, vp scene.Viewport, opts ranking.Options, rep progress.Reporter) (int, error) {
	if !doublestar.ValidatePathPattern(pattern) {
		return 0, fmt.Errorf("invalid glob %q", pattern)
	}
	paths, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return 0, fmt.Errorf("matching %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return 0, fmt.Errorf("no petition files match %q", pattern)
	}
	base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
	base = filepath.FromSlash(base)

	rep.Start(len(paths))
	defer rep.Finish()
	for i, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return i, fmt.Errorf("reading %s: %w", path, err)
		}
		p, err := petition.ParsePetition(data)
		if err != nil {
			return i, fmt.Errorf("%s: %w", path, err)
		}
		sc, err := scene.Build(geo, p.Records(), vp, opts)
		if err != nil {
			return i, fmt.Errorf("%s: %w", path, err)
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return i, fmt.Errorf("%s: %w", path, err)
		}
		name := filepath.Join(outDir, strings.TrimSuffix(rel, filepath.Ext(rel)))
		if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
			return i, fmt.Errorf("creating output directory: %w", err)
		}
		mapPath := name + ".svg"
		barsPath := name + ".bars.svg"
		if err := writeScene(sc, mapPath, barsPath); err != nil {
			return i, err
		}
		rep.Update(i+1, path)
	}
	return len(paths), nil
}

// writeScene writes the map to mapPath and, when barsPath is set, the bar
// chart to barsPath.
func writeScene(sc *scene.Scene, mapPath, barsPath string) error {
	var buf bytes.Buffer
	if err := sc.WriteSVG(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(mapPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", mapPath, err)
	}
	if barsPath == "" {
		return nil
	}
	buf.Reset()
	if err := sc.WriteBarsSVG(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(barsPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", barsPath, err)
	}
	return nil
}

func init() {
	renderCmd.Flags().StringVar(&renderPetition, "petition", "", "Petition id to render (default: default_petition)")
	renderCmd.Flags().StringVar(&renderPattern, "petitions", "", "Glob of saved petition JSON files to render in batch")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "map.svg", "Output file for the map")
	renderCmd.Flags().StringVar(&renderBars, "bars", "", "Output file for the bar chart (optional)")
	renderCmd.Flags().StringVar(&renderOutDir, "out-dir", "maps", "Output directory for batch renders")
	renderCmd.Flags().Float64Var(&renderWidth, "width", 0, "Map width in pixels (default: viewport.width)")
	renderCmd.Flags().Float64Var(&renderHeight, "height", 0, "Map height in pixels (default: viewport.height)")
	renderCmd.Flags().StringSliceVar(&renderHighlight, "highlight", nil, "Constituency codes to draw highlighted")
	renderCmd.MarkFlagsMutuallyExclusive("petition", "petitions")
	rootCmd.AddCommand(renderCmd)
}
