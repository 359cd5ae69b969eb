package main

import (
	"context"
	"fmt"
	"os"

	"github.com/DOUGSKEEZ/montyctl/internal/formatter"
	"github.com/DOUGSKEEZ/montyctl/internal/shared"
	"github.com/urfave/cli/v3"
)

// JukeboxControl returns an action dispatching the named jukebox transport control.
func (r *Runner) JukeboxControl(action string) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		loadConfigFlag(r, cmd)

		r.logger.Info("dispatching jukebox control", "action", action)

		var err error
		switch action {
		case "play":
			err = r.jukebox.Play(ctx)
		case "pause":
			err = r.jukebox.Pause(ctx)
		case "next":
			err = r.jukebox.Next(ctx)
		case "stop":
			err = r.jukebox.Stop(ctx)
		default:
			return fmt.Errorf("%w: %s", shared.ErrInvalidArgument, action)
		}
		if err != nil {
			return fmt.Errorf("jukebox %s failed: %w", action, err)
		}

		r.writePlainln("✓ %s", action)
		return nil
	}
}

// JukeboxSeek jumps to a position in the current jukebox track.
func (r *Runner) JukeboxSeek(ctx context.Context, cmd *cli.Command) error {
	loadConfigFlag(r, cmd)

	position := int(cmd.Int("position"))
	if position < 0 {
		return fmt.Errorf("%w: position must be non-negative", shared.ErrInvalidFlag)
	}

	if err := r.jukebox.Seek(ctx, position); err != nil {
		return fmt.Errorf("seek failed: %w", err)
	}

	r.writePlainln("✓ seeked to %s", shared.FormatClock(position))
	return nil
}

// JukeboxYouTube queues and plays a YouTube URL.
func (r *Runner) JukeboxYouTube(ctx context.Context, cmd *cli.Command) error {
	loadConfigFlag(r, cmd)

	url := cmd.StringArg("url")
	if url == "" {
		return fmt.Errorf("%w: url", shared.ErrMissingArgument)
	}

	r.logger.Info("queueing YouTube URL", "url", url)
	if err := r.jukebox.PlayYouTube(ctx, url); err != nil {
		return fmt.Errorf("failed to play YouTube URL: %w", err)
	}

	r.writePlainln("✓ queued %s", url)
	return nil
}

// JukeboxLocal queues and plays a track from the hub's library.
func (r *Runner) JukeboxLocal(ctx context.Context, cmd *cli.Command) error {
	loadConfigFlag(r, cmd)

	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}

	if err := r.jukebox.PlayLocal(ctx, id); err != nil {
		return fmt.Errorf("failed to play library track: %w", err)
	}

	r.writePlainln("✓ playing %s", id)
	return nil
}

// JukeboxLibrary fetches and prints the hub's saved track library.
func (r *Runner) JukeboxLibrary(ctx context.Context, cmd *cli.Command) error {
	loadConfigFlag(r, cmd)

	tracks, err := r.jukebox.GetLibrary(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch library: %w", err)
	}

	var data []byte
	switch format := cmd.String("format"); format {
	case "text":
		data = formatter.ExportLibraryToText(tracks)
	case "csv":
		if data, err = formatter.ExportLibraryToCSV(tracks); err != nil {
			return fmt.Errorf("failed to format library: %w", err)
		}
	case "markdown", "md":
		data = formatter.ExportLibraryToMarkdown(tracks, "")
	case "json":
		return r.writeJSON(tracks, true)
	default:
		return fmt.Errorf("%w: format %s", shared.ErrInvalidFlag, format)
	}

	if outputPath := cmd.String("output"); outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		r.writePlainln("✓ wrote %d tracks to %s", len(tracks), outputPath)
		return nil
	}

	r.output.Write(data)
	return nil
}
