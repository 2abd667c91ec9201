package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/oukeidos/deskgif/internal/anim"
	"github.com/oukeidos/deskgif/internal/apperrors"
	"github.com/oukeidos/deskgif/internal/library"
	"github.com/oukeidos/deskgif/internal/logger"
	"github.com/oukeidos/deskgif/internal/prompt"
	"github.com/oukeidos/deskgif/internal/textfit"
)

const listPathChars = 48

var (
	checkImage = func(path string) error {
		_, err := anim.Load(path)
		return err
	}
	newConfirmer = prompt.DefaultConfirmer
)

func newListCmd(root *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List library entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(root)
			if err != nil {
				return err
			}
			items := store.Items()
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetEscapeHTML(false)
				enc.SetIndent("", "  ")
				if items == nil {
					items = []library.Entry{}
				}
				return enc.Encode(items)
			}
			if len(items) == 0 {
				fmt.Fprintln(out, "Library is empty.")
				return nil
			}
			fmt.Fprintf(out, "%-*s %6s %13s %7s %6s %5s\n", listPathChars, "PATH", "SCALE", "POSITION", "OPACITY", "SPEED", "GHOST")
			for _, e := range items {
				fmt.Fprintf(out, "%-*s %5d%% %13s %6.0f%% %5d%% %5t\n",
					listPathChars, textfit.TruncateLeft(e.Path, listPathChars),
					e.Scale, fmt.Sprintf("%d,%d", e.PosX, e.PosY), e.Opacity*100, e.Speed, e.Ghost)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the entries as a JSON array")
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newAddCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <file>...",
		Short: "Add animated images to the library",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(root)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			added, skipped := 0, 0
			for _, raw := range args {
				path, err := library.Canonicalize(raw)
				if err != nil {
					return err
				}
				if err := checkImage(path); err != nil {
					logger.Warn("Not a displayable image", "path", path, "error", err)
					fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: %s\n", path, apperrors.PublicMessage(err))
					skipped++
					continue
				}
				if store.Has(path) {
					fmt.Fprintf(out, "already in library: %s\n", path)
					continue
				}
				if err := store.Add(path); err != nil {
					return err
				}
				fmt.Fprintf(out, "added %s\n", path)
				added++
			}
			if added == 0 && skipped == len(args) {
				return apperrors.New(apperrors.KindInvalidImage, "none of the files could be decoded", nil)
			}
			return nil
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newRemoveCmd(root *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "remove <file>...",
		Short: "Remove files from the library",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(root)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			var present []string
			for _, raw := range args {
				if !store.Has(raw) {
					fmt.Fprintf(out, "not in library: %s\n", raw)
					continue
				}
				present = append(present, raw)
			}
			if len(present) == 0 {
				return nil
			}
			confirmer := newConfirmer()
			confirmer.Out = out
			ok, err := confirmer.ConfirmRemove(present, yes)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
			for _, raw := range present {
				if err := store.Remove(raw); err != nil {
					return err
				}
				fmt.Fprintf(out, "removed %s\n", raw)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Remove without asking")
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

var setFlagNames = []string{"scale", "x", "y", "opacity", "speed", "ghost"}

type setOptions struct {
	scale   int
	x, y    int
	opacity float64
	speed   int
	ghost   bool
}

func newSetCmd(root *rootOptions) *cobra.Command {
	opts := setOptions{}
	cmd := &cobra.Command{
		Use:   "set <file> [flags]",
		Short: "Change the saved display settings of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(root)
			if err != nil {
				return err
			}
			return runSet(cmd, store, args[0], opts)
		},
	}
	f := cmd.Flags()
	f.IntVar(&opts.scale, "scale", library.DefaultScale, "Scale in percent")
	f.IntVar(&opts.x, "x", library.DefaultPosX, "Screen X position")
	f.IntVar(&opts.y, "y", library.DefaultPosY, "Screen Y position")
	f.Float64Var(&opts.opacity, "opacity", library.DefaultOpacity, "Opacity from 0.1 to 1.0")
	f.IntVar(&opts.speed, "speed", library.DefaultSpeed, "Playback speed in percent")
	f.BoolVar(&opts.ghost, "ghost", library.DefaultGhost, "Ignore the mouse (click-through)")
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

// runSet applies only the flags given on the command line.
func runSet(cmd *cobra.Command, store *library.Store, raw string, opts setOptions) error {
	if !store.Has(raw) {
		return apperrors.InvalidInput(fmt.Sprintf("%s is not in the library; add it first", raw))
	}
	changed := cmd.Flags().Changed
	if !slices.ContainsFunc(setFlagNames, changed) {
		_ = cmd.Usage()
		return apperrors.InvalidInput("nothing to set")
	}
	var errs []error
	if changed("scale") {
		errs = append(errs, store.SetScale(raw, opts.scale))
	}
	if changed("x") || changed("y") {
		x, y := store.Position(raw)
		if changed("x") {
			x = opts.x
		}
		if changed("y") {
			y = opts.y
		}
		errs = append(errs, store.SetPosition(raw, x, y))
	}
	if changed("opacity") {
		errs = append(errs, store.SetOpacity(raw, opts.opacity))
	}
	if changed("speed") {
		errs = append(errs, store.SetSpeed(raw, opts.speed))
	}
	if changed("ghost") {
		errs = append(errs, store.SetGhost(raw, opts.ghost))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	e, _ := store.Get(raw)
	printEntry(cmd.OutOrStdout(), e, true)
	return nil
}

func newShowCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Show the saved display settings of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(root)
			if err != nil {
				return err
			}
			e, err := store.EntryOrDefault(args[0])
			if err != nil {
				return err
			}
			printEntry(cmd.OutOrStdout(), e, store.Has(e.Path))
			return nil
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func printEntry(out io.Writer, e library.Entry, stored bool) {
	fmt.Fprintf(out, "Path:     %s", e.Path)
	if !stored {
		fmt.Fprint(out, " (not in library)")
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Scale:    %d%%\n", e.Scale)
	fmt.Fprintf(out, "Position: %d,%d\n", e.PosX, e.PosY)
	fmt.Fprintf(out, "Opacity:  %.2f\n", e.Opacity)
	fmt.Fprintf(out, "Speed:    %d%%\n", e.Speed)
	fmt.Fprintf(out, "Ghost:    %t\n", e.Ghost)
}

func newCheckCmd(root *rootOptions) *cobra.Command {
	var quarantine bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify that the library file can be loaded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := root.resolvedLibraryPath()
			store, err := library.Open(path, library.Options{QuarantineCorrupt: quarantine})
			if err != nil {
				if apperrors.Is(err, apperrors.KindCorruptLibrary) && !quarantine {
					fmt.Fprintln(cmd.ErrOrStderr(), "Run with --quarantine to move it aside and start empty.")
				}
				return err
			}
			out := cmd.OutOrStdout()
			if q := store.Quarantined(); q != "" {
				fmt.Fprintf(out, "Damaged library moved to %s\n", q)
			}
			fmt.Fprintf(out, "OK: %d entries in %s\n", store.Len(), store.Path())
			return nil
		},
	}
	cmd.Flags().BoolVar(&quarantine, "quarantine", false, "Move a damaged library aside and start empty")
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}
