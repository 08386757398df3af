// Command blockmod overwrites the resistivity of the model cells lying inside
// a region and writes the modified resistivity block file.
//
//	blockmod [--dir DIR] [--mesh-file mesh.dat] [--mode element|block] PARAMFILE
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/notargets/blockmod/blocks"
	"github.com/notargets/blockmod/mesh"
	"github.com/notargets/blockmod/params"
	"github.com/notargets/blockmod/selection"
)

type options struct {
	dir      string
	meshFile string
	mode     string
	verbose  bool

	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "blockmod PARAMFILE",
		Short: "Fix the resistivity of the model cells inside a region",
		Long: `blockmod reads mesh.dat and resistivity_block_iter<N>.dat, selects the free
cells whose center lies in the region of PARAMFILE and whose resistivity is in
the selection range, and gives them the replacement resistivity as fixed and
isolated blocks.

The result is written to resistivity_block_iter<N>.mod.dat and, per element,
to the binary file ResistivityMod.iter<N>.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.logger != nil {
				return nil
			}
			config := zap.NewDevelopmentConfig()
			config.OutputPaths = []string{"stdout"}
			config.DisableStacktrace = true
			config.DisableCaller = true
			config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
			if opts.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			if opts.logger, err = config.Build(); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opts.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(args[0], cmd.Flags().Changed("mode"))
		},
	}
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", ".", "Directory holding the mesh and block files")
	cmd.Flags().StringVar(&opts.meshFile, "mesh-file", "mesh.dat", "Mesh file, relative to --dir; .msh and .neu are read as Gmsh and Gambit")
	cmd.Flags().StringVar(&opts.mode, "mode", "element", "Selection mode: element or block")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	return cmd
}

func (o *options) run(paramFile string, modeFlagSet bool) error {
	logger := o.logger

	p, err := params.ReadFile(paramFile)
	if err != nil {
		return err
	}
	p.Log(logger)

	modeName := o.mode
	if !modeFlagSet && p.Mode != "" {
		modeName = p.Mode
	}
	mode, err := selection.ParseMode(modeName)
	if err != nil {
		return err
	}

	store, err := blocks.Load(o.dir, p.Iteration)
	if err != nil {
		return err
	}
	meshPath := o.meshFile
	if !filepath.IsAbs(meshPath) {
		meshPath = filepath.Join(o.dir, meshPath)
	}
	m, err := mesh.Open(meshPath)
	if err != nil {
		return err
	}
	logger.Info("model loaded", zap.String("mesh", meshPath), zap.Stringer("geometry", m.Geometry()),
		zap.Int("elements", store.NumElements()), zap.Int("blocks", store.NumBlocks()))

	r, err := p.Region()
	if err != nil {
		return err
	}
	filter := selection.Filter{Region: r, MinSelect: p.MinSelect, MaxSelect: p.MaxSelect}
	repl := selection.Replacement{Value: p.Value, Min: p.Min, Max: p.Max}

	driver := selection.NewDriver(logger)
	switch mode {
	case selection.ElementMode:
		_, err = driver.Run(store, m, filter, repl)
	case selection.BlockMode:
		_, err = driver.RunBlocks(store, m, filter, repl)
	}
	if err != nil {
		return err
	}

	st := store.Stats()
	logger.Debug("block statistics", zap.Int("blocks", st.NumBlocks), zap.Int("free", st.NumFree),
		zap.Int("fixed", st.NumFixed), zap.Int("isolated", st.NumIsolated), zap.Int("empty", st.NumEmpty),
		zap.Int("min_elements", st.MinElements), zap.Int("max_elements", st.MaxElements),
		zap.Float64("avg_elements", st.AvgElements))

	textPath := filepath.Join(o.dir, blocks.OutputFileName(p.Iteration))
	if err = store.WriteTextFile(textPath); err != nil {
		return err
	}
	binPath := filepath.Join(o.dir, blocks.BinaryFileName(p.Iteration))
	if err = store.WriteBinaryFile(binPath, m.Geometry().BinaryName()); err != nil {
		return err
	}
	logger.Info("model written", zap.String("text", textPath), zap.String("binary", binPath))
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
