package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oukeidos/deskgif/internal/config"
	"github.com/oukeidos/deskgif/internal/files"
	"github.com/oukeidos/deskgif/internal/logger"
	"github.com/oukeidos/deskgif/internal/thumbnail"
)

type thumbOptions struct {
	size  int
	force bool
}

func newThumbCmd() *cobra.Command {
	opts := thumbOptions{}
	cmd := &cobra.Command{
		Use:   "thumb <file> <out.png>",
		Short: "Write the first frame of an animated image as a PNG thumbnail",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThumb(cmd, args[0], args[1], opts)
		},
	}
	cmd.Flags().IntVar(&opts.size, "size", config.DefaultThumbSize, "Fit inside a square of this many pixels (0 keeps the original size)")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite the output file if it exists")
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func runThumb(cmd *cobra.Command, input, output string, opts thumbOptions) error {
	img, err := thumbnail.Load(input, opts.size)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := thumbnail.EncodePNG(&buf, img); err != nil {
		return err
	}

	output, err = files.ResolveParent(output)
	if err != nil {
		return err
	}
	if err := files.RejectSymlinkPath(output); err != nil {
		return err
	}
	target, err := resolveOutput(cmd, output, opts.force)
	if err != nil {
		return err
	}
	if err := files.AtomicWrite(target, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	size := img.Bounds().Size()
	logger.Debug("Thumbnail written", "input", input, "output", target, "width", size.X, "height", size.Y)
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d)\n", target, size.X, size.Y)
	return nil
}

// resolveOutput asks before overwriting on a terminal; otherwise, or when
// the answer is no, a free name next to output is used.
func resolveOutput(cmd *cobra.Command, output string, force bool) (string, error) {
	if force {
		return output, nil
	}
	free, renamed, err := files.SafePath(output)
	if err != nil {
		return "", err
	}
	if !renamed {
		return output, nil
	}
	confirmer := newConfirmer()
	confirmer.Out = cmd.OutOrStdout()
	if confirmer.IsInteractive != nil && confirmer.IsInteractive() {
		ok, err := confirmer.ConfirmOverwrite(output, false)
		if err != nil {
			return "", err
		}
		if ok {
			return output, nil
		}
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s exists; writing %s instead (use --force to overwrite)\n", output, free)
	return free, nil
}
